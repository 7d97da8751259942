package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"koreanparse/logger"
	"koreanparse/noise"
	"koreanparse/tokenize"
)

// Load reads the YAML configuration file at path over Default and returns
// the validated result.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader decodes YAML from r over Default and validates the result.
// Unknown fields are rejected. An empty document yields Default.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that cfg contains a coherent set of values.
// It returns a joined error listing all validation failures found.
func Validate(cfg *Config) error {
	var errs []error

	if _, err := logger.ParseLevel(cfg.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}

	if !cfg.Segmenter.Backend.IsValid() {
		errs = append(errs, fmt.Errorf("segmenter.backend %q is invalid; valid values: korean, dict, whole", cfg.Segmenter.Backend))
	}
	if cfg.Segmenter.Backend == BackendDict && cfg.Segmenter.Dictionary == "" {
		errs = append(errs, errors.New("segmenter.dictionary is required for the dict backend"))
	}
	if _, err := tokenize.ParseMode(cfg.Segmenter.Mode); err != nil {
		errs = append(errs, fmt.Errorf("segmenter.mode: %w", err))
	}

	if cfg.Noise.Ratio < 0 || cfg.Noise.Ratio > 1 {
		errs = append(errs, fmt.Errorf("noise.ratio must be in [0, 1], got %v", cfg.Noise.Ratio))
	}
	if _, err := noise.ParseSpec(cfg.Noise.Spec); err != nil {
		errs = append(errs, fmt.Errorf("noise.spec: %w", err))
	}

	if err := cfg.Dataset.Validate(); err != nil {
		errs = append(errs, err)
	}

	if cfg.Split.Validation < 0 || cfg.Split.Validation >= 1 {
		errs = append(errs, fmt.Errorf("split.validation must be in [0, 1), got %v", cfg.Split.Validation))
	}
	if cfg.Split.BatchSize <= 0 {
		errs = append(errs, fmt.Errorf("split.batch_size must be positive, got %d", cfg.Split.BatchSize))
	}
	if cfg.Split.Workers < 0 {
		errs = append(errs, fmt.Errorf("split.workers must not be negative, got %d", cfg.Split.Workers))
	}

	if err := cfg.Train.Validate(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}
