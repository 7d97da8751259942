// Package dataset turns a corpus into fixed-shape id tensors of clean
// targets and noisy inputs, and batches them for an external learner.
package dataset

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"koreanparse/analyze"
	"koreanparse/ingest"
	"koreanparse/model"
	"koreanparse/noise"
	"koreanparse/observe"
	"koreanparse/phonemize"
	"koreanparse/vocab"
)

// Config fixes the tensor shape of every item.
type Config struct {
	// MaxLenSentence is the number of morpheme rows per item.
	MaxLenSentence int `yaml:"max_len_sentence" json:"max_len_sentence"`
	// MaxLenMorpheme is the number of syllable ids per row.
	MaxLenMorpheme int `yaml:"max_len_morpheme" json:"max_len_morpheme"`
	// Noise enables a randomly picked noise type per item.
	Noise bool `yaml:"noise" json:"noise"`
}

// DefaultConfig returns a 50×5 shape with noise on.
func DefaultConfig() Config {
	return Config{MaxLenSentence: 50, MaxLenMorpheme: 5, Noise: true}
}

// Validate checks the shape.
func (c Config) Validate() error {
	var errs []error
	if c.MaxLenSentence <= 0 {
		errs = append(errs, fmt.Errorf("dataset: max_len_sentence must be positive, got %d", c.MaxLenSentence))
	}
	if c.MaxLenMorpheme <= 0 {
		errs = append(errs, fmt.Errorf("dataset: max_len_morpheme must be positive, got %d", c.MaxLenMorpheme))
	}
	return errors.Join(errs...)
}

// Item is one encoded sentence.
type Item struct {
	Index int        `json:"index"`
	ID    string     `json:"id"`
	Text  string     `json:"text"`
	Spec  noise.Spec `json:"noise"`
	// Clean is the noise-free target, MaxLenSentence rows of MaxLenMorpheme ids.
	Clean [][]int `json:"clean"`
	// Noisy is the model input with the same shape.
	Noisy [][]int `json:"noisy"`
	// Length is the number of real (unpadded) rows of Noisy.
	Length   int              `json:"length"`
	Analysis analyze.Analysis `json:"analysis"`
}

// Option configures a Dataset.
type Option func(*Dataset)

// WithMetrics records per-item metrics.
func WithMetrics(m *observe.Metrics) Option {
	return func(ds *Dataset) {
		ds.metrics = m
	}
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(ds *Dataset) {
		ds.log = l
	}
}

// Dataset encodes sentences on demand. Get is safe for concurrent use.
type Dataset struct {
	sentences []ingest.Sentence
	dec       *phonemize.Decomposer
	vocab     *vocab.Vocabulary
	cfg       Config
	metrics   *observe.Metrics
	log       *slog.Logger
}

// New builds a dataset. Noise requires the decomposer to carry an injector.
func New(sentences []ingest.Sentence, dec *phonemize.Decomposer, v *vocab.Vocabulary, cfg Config, opts ...Option) (*Dataset, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if dec == nil || v == nil {
		return nil, errors.New("dataset: decomposer and vocabulary are required")
	}
	if cfg.Noise && dec.Injector() == nil {
		return nil, phonemize.ErrNoInjector
	}
	ds := &Dataset{
		sentences: sentences,
		dec:       dec,
		vocab:     v,
		cfg:       cfg,
		log:       slog.Default(),
	}
	for _, opt := range opts {
		opt(ds)
	}
	return ds, nil
}

// Len returns the number of sentences.
func (ds *Dataset) Len() int {
	return len(ds.sentences)
}

// Config returns the dataset shape.
func (ds *Dataset) Config() Config {
	return ds.cfg
}

// Get decomposes and encodes sentence i, drawing noise from the
// decomposer's injector.
func (ds *Dataset) Get(ctx context.Context, i int) (Item, error) {
	return ds.get(ctx, i, ds.dec)
}

func (ds *Dataset) get(ctx context.Context, i int, dec *phonemize.Decomposer) (Item, error) {
	if i < 0 || i >= len(ds.sentences) {
		return Item{}, fmt.Errorf("dataset: index %d out of range [0, %d)", i, len(ds.sentences))
	}
	start := time.Now()
	s := ds.sentences[i]

	spec := noise.None
	if ds.cfg.Noise {
		spec = dec.Injector().RandomSpec()
	}
	res, err := dec.DecomposeDetailed(ctx, s.Text, spec)
	if err != nil {
		return Item{}, fmt.Errorf("dataset: item %d (%s): %w", i, s.ID, err)
	}
	clean := res.Clean.Flatten()

	item := Item{
		Index:    i,
		ID:       s.ID,
		Text:     s.Text,
		Spec:     spec,
		Clean:    ds.Encode(clean),
		Noisy:    ds.Encode(res.Flattened),
		Length:   min(len(res.Flattened), ds.cfg.MaxLenSentence),
		Analysis: analyze.Analyze(s.ID, clean, res.Flattened),
	}
	if len(clean) > ds.cfg.MaxLenSentence {
		ds.log.Debug("sentence truncated", "id", s.ID, "morphemes", len(clean), "max", ds.cfg.MaxLenSentence)
	}

	if ds.metrics != nil {
		ds.metrics.RecordSentence(ctx, spec.Enabled())
		if spec.Enabled() {
			ds.metrics.RecordNoise(ctx, spec.String(),
				noise.ByLevel(res.Report.Replaced), noise.ByLevel(res.Report.Removed))
		}
		ds.metrics.RecordEditDistance(ctx, item.Analysis.EditDistance)
		ds.metrics.RecordPreprocess(ctx, start)
	}
	return item, nil
}

// Encode maps a morpheme sequence to a padded MaxLenSentence × MaxLenMorpheme
// id grid. A syllable's token is its phonemes joined; morphemes and
// sentences longer than the shape are truncated.
func (ds *Dataset) Encode(ms []model.Morpheme) [][]int {
	out := make([][]int, ds.cfg.MaxLenSentence)
	for r := range out {
		row := make([]int, ds.cfg.MaxLenMorpheme) // zero is vocab.PadID
		if r < len(ms) {
			m := ms[r]
			toks := make([]string, min(len(m), len(row)))
			for c := range toks {
				toks[c] = m[c].String()
			}
			ids := ds.vocab.Encode(toks)
			for c, tok := range toks {
				// an emptied syllable never matches a vocabulary entry
				if tok == "" {
					ids[c] = ds.vocab.UnknownID()
				}
			}
			copy(row, ids)
		}
		out[r] = row
	}
	return out
}
