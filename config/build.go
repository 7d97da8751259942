package config

import (
	"fmt"

	"koreanparse/noise"
	"koreanparse/tokenize"
)

// NewSegmenter builds the segmenter selected by c.
func NewSegmenter(c SegmenterConfig) (tokenize.Segmenter, error) {
	mode, err := tokenize.ParseMode(c.Mode)
	if err != nil {
		return nil, err
	}
	switch c.Backend {
	case BackendWhole:
		return tokenize.Whole{}, nil
	case BackendDict:
		return tokenize.NewFromFile(c.Dictionary, tokenize.WithMode(mode))
	case BackendKorean, "":
		return tokenize.NewKorean(tokenize.WithMode(mode))
	}
	return nil, fmt.Errorf("config: unknown segmenter backend %q", c.Backend)
}

// NewInjector builds an injector from c.
func NewInjector(c NoiseConfig) *noise.Injector {
	opts := []noise.Option{noise.WithRatio(c.Ratio)}
	if c.Seed != nil {
		opts = append(opts, noise.WithSeed(*c.Seed))
	}
	return noise.NewInjector(opts...)
}

// NoiseSpec parses the fixed noise type of c.
func NoiseSpec(c NoiseConfig) (noise.Spec, error) {
	return noise.ParseSpec(c.Spec)
}
