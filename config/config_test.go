package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"koreanparse/noise"
	"koreanparse/tokenize"
)

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	if err := Validate(&cfg); err != nil {
		t.Fatalf("Default config invalid: %v", err)
	}
	if cfg.Dataset.MaxLenSentence != 50 || cfg.Dataset.MaxLenMorpheme != 5 {
		t.Errorf("dataset shape = %+v", cfg.Dataset)
	}
	if cfg.Split.Validation != 0.2 || cfg.Split.BatchSize != 2 || cfg.Train.Epochs != 1000 {
		t.Errorf("split/train defaults = %+v / %+v", cfg.Split, cfg.Train)
	}
	if cfg.Noise.Ratio != noise.DefaultRatio {
		t.Errorf("noise ratio = %v", cfg.Noise.Ratio)
	}
}

func TestLoadFromReader_Empty(t *testing.T) {
	cfg, err := LoadFromReader(strings.NewReader(""))
	if err != nil {
		t.Fatalf("LoadFromReader: %v", err)
	}
	if diff := cmp.Diff(Default(), *cfg); diff != "" {
		t.Errorf("empty document should give defaults (-want +got):\n%s", diff)
	}
}

func TestLoadFromReader_Overrides(t *testing.T) {
	const doc = `
log:
  level: debug
segmenter:
  backend: whole
noise:
  ratio: 0.5
  seed: 7
  spec: removing_syllable
dataset:
  max_len_sentence: 20
  noise: false
split:
  batch_size: 8
  workers: 2
train:
  patience: 5
`
	cfg, err := LoadFromReader(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("LoadFromReader: %v", err)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Dir != "logs" {
		t.Errorf("log = %+v", cfg.Log)
	}
	if cfg.Segmenter.Backend != BackendWhole {
		t.Errorf("backend = %q", cfg.Segmenter.Backend)
	}
	if cfg.Noise.Seed == nil || *cfg.Noise.Seed != 7 || cfg.Noise.Ratio != 0.5 {
		t.Errorf("noise = %+v", cfg.Noise)
	}
	if cfg.Dataset.MaxLenSentence != 20 || cfg.Dataset.MaxLenMorpheme != 5 || cfg.Dataset.Noise {
		t.Errorf("dataset = %+v", cfg.Dataset)
	}
	if cfg.Split.BatchSize != 8 || cfg.Split.Validation != 0.2 {
		t.Errorf("split = %+v", cfg.Split)
	}
	if cfg.Train.Patience != 5 || cfg.Train.ShrinkEvery != 8 {
		t.Errorf("train = %+v", cfg.Train)
	}
	spec, err := NoiseSpec(cfg.Noise)
	if err != nil || spec.String() != "removing_syllable" {
		t.Errorf("NoiseSpec = %v, %v", spec, err)
	}
}

func TestLoadFromReader_UnknownField(t *testing.T) {
	if _, err := LoadFromReader(strings.NewReader("nosie:\n  ratio: 1\n")); err == nil {
		t.Error("expected unknown field error")
	}
}

func TestValidate_ReportsEveryProblem(t *testing.T) {
	cfg := Default()
	cfg.Log.Level = "loud"
	cfg.Segmenter.Backend = BackendDict
	cfg.Segmenter.Mode = "fast"
	cfg.Noise.Ratio = 2
	cfg.Noise.Spec = "scrambling"
	cfg.Dataset.MaxLenMorpheme = 0
	cfg.Split.Validation = 1
	cfg.Split.BatchSize = 0
	cfg.Train.Patience = 0

	err := Validate(&cfg)
	if err == nil {
		t.Fatal("expected errors")
	}
	for _, want := range []string{
		"log.level", "segmenter.dictionary", "segmenter.mode", "noise.ratio", "noise.spec",
		"max_len_morpheme", "split.validation", "split.batch_size", "patience",
	} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %s", err, want)
		}
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("split:\n  seed: 3\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Split.Seed != 3 {
		t.Errorf("seed = %d", cfg.Split.Seed)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestNewSegmenter(t *testing.T) {
	seg, err := NewSegmenter(SegmenterConfig{Backend: BackendWhole})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := seg.(tokenize.Whole); !ok {
		t.Errorf("segmenter = %T, want tokenize.Whole", seg)
	}
	got, err := seg.Morphs(context.Background(), "학교에")
	if err != nil || len(got) != 1 {
		t.Errorf("Morphs = %v, %v", got, err)
	}
	if _, err := NewSegmenter(SegmenterConfig{Backend: BackendDict, Dictionary: filepath.Join(t.TempDir(), "none.dict")}); err == nil {
		t.Error("expected error for missing dictionary file")
	}
	if _, err := NewSegmenter(SegmenterConfig{Backend: "mecab"}); err == nil {
		t.Error("expected unknown backend error")
	}
}

func TestNewInjector_Seeded(t *testing.T) {
	seed := uint64(5)
	a := NewInjector(NoiseConfig{Ratio: 0.5, Seed: &seed})
	b := NewInjector(NoiseConfig{Ratio: 0.5, Seed: &seed})
	if a.Ratio() != 0.5 {
		t.Errorf("ratio = %v", a.Ratio())
	}
	if diff := cmp.Diff(a.NoiseSet(10), b.NoiseSet(10)); diff != "" {
		t.Errorf("seeded injectors disagree (-a +b):\n%s", diff)
	}
}
