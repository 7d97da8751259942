// Command koreanparse decomposes one sentence into phonemes, optionally
// injects noise, and prints every stage as JSON.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"koreanparse/analyze"
	"koreanparse/config"
	"koreanparse/ingest"
	"koreanparse/logger"
	"koreanparse/lookup"
	"koreanparse/model"
	"koreanparse/noise"
	"koreanparse/phonemize"
	"koreanparse/tokenize"
	"koreanparse/vocab"
)

const defaultText = "나는 오늘 학교에 갔다"

// output is what gets printed and dumped for one sentence.
type output struct {
	ID            string           `json:"id"`
	Text          string           `json:"text"`
	Noise         noise.Spec       `json:"noise"`
	Tokens        []model.Token    `json:"tokens,omitempty"`
	Structure     model.Structure  `json:"structure"`
	Noisy         model.Structure  `json:"noisy"`
	Flattened     []model.Morpheme `json:"flattened"`
	Composed      string           `json:"composed"`
	NoisyComposed string           `json:"noisy_composed"`
	Report        noise.Report     `json:"report"`
	Analysis      analyze.Analysis `json:"analysis"`
	Lookup        []model.LexEntry `json:"lookup,omitempty"`
	Coverage      float64          `json:"coverage,omitempty"`
}

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "path to the YAML configuration file (defaults apply when empty)")
	backend := flag.String("backend", "", "segmenter backend: korean, dict or whole (overrides config)")
	dictPath := flag.String("dict", "", "kagome dictionary file; implies -backend dict")
	spec := flag.String("noise", "", `noise type, e.g. "removing_phoneme" or "no" (overrides config)`)
	random := flag.Bool("random-noise", false, "pick the noise type at random like the dataset does")
	seed := flag.Int64("seed", -1, "noise seed; negative seeds randomly")
	ratio := flag.Float64("ratio", -1, "noise ratio in [0, 1] (overrides config)")
	logDir := flag.String("logs", "", "directory for JSON dumps (overrides config)")
	tokens := flag.String("tokens", "", "tokens_map.json for syllable id lookup (overrides config)")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "koreanparse: %v\n", err)
			return 1
		}
		cfg = *loaded
	}
	if *backend != "" {
		cfg.Segmenter.Backend = config.Backend(*backend)
	}
	if *dictPath != "" {
		cfg.Segmenter.Backend = config.BackendDict
		cfg.Segmenter.Dictionary = *dictPath
	}
	if *spec != "" {
		cfg.Noise.Spec = *spec
	}
	if *seed >= 0 {
		s := uint64(*seed)
		cfg.Noise.Seed = &s
	}
	if *ratio >= 0 {
		cfg.Noise.Ratio = *ratio
	}
	if *logDir != "" {
		cfg.Log.Dir = *logDir
	}
	if *tokens != "" {
		cfg.Data.TokensMap = *tokens
	}
	if err := config.Validate(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "koreanparse: %v\n", err)
		return 1
	}

	log, err := logger.New(cfg.Log.Level, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "koreanparse: %v\n", err)
		return 1
	}
	slog.SetDefault(log)

	text := strings.Join(flag.Args(), " ")
	if text == "" {
		text = defaultText
	}
	s, err := ingest.NewSentence(text)
	if err != nil {
		slog.Error("ingest failed", "err", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	out, err := decompose(ctx, cfg, s, *random)
	if err != nil {
		slog.Error("decompose failed", "err", err)
		return 1
	}

	b, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		slog.Error("encode output", "err", err)
		return 1
	}
	fmt.Println(string(b))

	if err := logger.InitLogs(cfg.Log.Dir); err != nil {
		slog.Warn("failed to init logs", "dir", cfg.Log.Dir, "err", err)
		return 0
	}
	if err := logger.LogJSON(cfg.Log.Dir, s.ID+"_decomposition", out); err != nil {
		slog.Warn("failed to write decomposition log", "err", err)
	}
	return 0
}

func decompose(ctx context.Context, cfg config.Config, s ingest.Sentence, random bool) (output, error) {
	seg, err := config.NewSegmenter(cfg.Segmenter)
	if err != nil {
		return output{}, err
	}
	injector := config.NewInjector(cfg.Noise)
	spec, err := config.NoiseSpec(cfg.Noise)
	if err != nil {
		return output{}, err
	}
	if random {
		spec = injector.RandomSpec()
	}

	dec := phonemize.New(seg, phonemize.WithInjector(injector))
	res, err := dec.DecomposeDetailed(ctx, s.Text, spec)
	if err != nil {
		return output{}, err
	}
	clean := res.Clean.Flatten()
	out := output{
		ID:            s.ID,
		Text:          s.Text,
		Noise:         spec,
		Structure:     res.Clean,
		Noisy:         res.Noisy,
		Flattened:     res.Flattened,
		Composed:      phonemize.ComposeMorphemes(clean),
		NoisyComposed: phonemize.ComposeMorphemes(res.Flattened),
		Report:        res.Report,
		Analysis:      analyze.Analyze(s.ID, clean, res.Flattened),
	}

	if k, ok := seg.(*tokenize.Kagome); ok {
		out.Tokens = k.Tokenize(s.Text)
	}
	if cfg.Data.TokensMap != "" {
		v, err := vocab.LoadFile(cfg.Data.TokensMap)
		if err != nil {
			slog.Warn("vocabulary unavailable, skipping lookup", "path", cfg.Data.TokensMap, "err", err)
		} else {
			if out.Lookup, err = lookup.Lookup(ctx, v, res.Flattened); err != nil {
				return output{}, err
			}
			out.Coverage = lookup.Coverage(out.Lookup)
		}
	}
	slog.Info("sentence decomposed",
		"id", s.ID,
		"noise", spec.String(),
		"morphemes", len(out.Flattened),
		"edit_distance", out.Analysis.EditDistance,
	)
	return out, nil
}
