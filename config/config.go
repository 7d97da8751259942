// Package config provides the configuration schema and loader for the
// preprocessing tools.
package config

import (
	"koreanparse/dataset"
	"koreanparse/trainer"
)

// Backend selects the morphological segmenter.
type Backend string

const (
	// BackendKorean uses kagome with the embedded mecab-ko-dic dictionary.
	BackendKorean Backend = "korean"
	// BackendDict uses kagome with a dictionary file (Segmenter.Dictionary).
	BackendDict Backend = "dict"
	// BackendWhole keeps each word phrase as one morpheme.
	BackendWhole Backend = "whole"
)

// IsValid reports whether b is a recognised backend.
func (b Backend) IsValid() bool {
	switch b {
	case BackendKorean, BackendDict, BackendWhole:
		return true
	}
	return false
}

// Config is the root configuration.
type Config struct {
	Log       LogConfig       `yaml:"log"`
	Data      DataConfig      `yaml:"data"`
	Segmenter SegmenterConfig `yaml:"segmenter"`
	Noise     NoiseConfig     `yaml:"noise"`
	Dataset   dataset.Config  `yaml:"dataset"`
	Split     SplitConfig     `yaml:"split"`
	Train     trainer.Config  `yaml:"train"`
}

// LogConfig controls logging and JSON dumps.
type LogConfig struct {
	Level string `yaml:"level"`
	// Dir receives JSON debug dumps and checkpoints.
	Dir string `yaml:"dir"`
}

// DataConfig points at the input files.
type DataConfig struct {
	Corpus     string `yaml:"corpus"`
	TokensMap  string `yaml:"tokens_map"`
	VectorsMap string `yaml:"vectors_map"`
}

// SegmenterConfig configures morpheme segmentation.
type SegmenterConfig struct {
	Backend    Backend `yaml:"backend"`
	Dictionary string  `yaml:"dictionary"`
	// Mode is the kagome tokenize mode: normal, search or extended.
	Mode string `yaml:"mode"`
}

// NoiseConfig configures the injector.
type NoiseConfig struct {
	Ratio float64 `yaml:"ratio"`
	// Seed makes noise reproducible; nil seeds randomly.
	Seed *uint64 `yaml:"seed"`
	// Spec is a fixed noise type for single-sentence tools ("no" disables).
	Spec string `yaml:"spec"`
}

// SplitConfig controls the train/validation split and batching.
type SplitConfig struct {
	Validation float64 `yaml:"validation"`
	Shuffle    bool    `yaml:"shuffle"`
	Seed       uint64  `yaml:"seed"`
	BatchSize  int     `yaml:"batch_size"`
	DropLast   bool    `yaml:"drop_last"`
	// Workers bounds concurrent item building; 0 means GOMAXPROCS.
	Workers int `yaml:"workers"`
}

// Default returns the configuration used when a field is not set.
func Default() Config {
	return Config{
		Log: LogConfig{Level: "info", Dir: "logs"},
		Data: DataConfig{
			Corpus:     "data/toy_data.txt",
			TokensMap:  "data/tokens_map.json",
			VectorsMap: "data/vectors_map.txt",
		},
		Segmenter: SegmenterConfig{Backend: BackendKorean, Mode: "normal"},
		Noise:     NoiseConfig{Ratio: 0.25, Spec: "no"},
		Dataset:   dataset.DefaultConfig(),
		Split: SplitConfig{
			Validation: 0.2,
			Shuffle:    true,
			BatchSize:  2,
			DropLast:   true,
		},
		Train: trainer.DefaultConfig(),
	}
}
