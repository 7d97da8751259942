// Package phonemize turns sentences into the nested phoneme structure,
// optionally perturbs it and flattens it into a morpheme sequence.
package phonemize

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"koreanparse/jamo"
	"koreanparse/model"
	"koreanparse/noise"
	"koreanparse/tokenize"
)

// ErrNoInjector is returned when noise is requested from a Decomposer built
// without an injector.
var ErrNoInjector = errors.New("phonemize: noise requested but no injector configured")

// Option configures a Decomposer.
type Option func(*Decomposer)

// WithInjector sets the injector used for enabled noise specs.
func WithInjector(in *noise.Injector) Option {
	return func(d *Decomposer) {
		d.injector = in
	}
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(d *Decomposer) {
		d.log = l
	}
}

// Decomposer splits text into word phrases, morphemes, syllables and
// phonemes. It holds no per-call state and may be shared across goroutines
// as long as its segmenter allows it.
type Decomposer struct {
	seg      tokenize.Segmenter
	injector *noise.Injector
	log      *slog.Logger
}

// New returns a Decomposer using seg for morpheme segmentation. A nil seg
// falls back to tokenize.Whole.
func New(seg tokenize.Segmenter, opts ...Option) *Decomposer {
	if seg == nil {
		seg = tokenize.Whole{}
	}
	d := &Decomposer{seg: seg, log: slog.Default()}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Injector returns the configured injector, or nil.
func (d *Decomposer) Injector() *noise.Injector {
	return d.injector
}

// Using returns a copy of d that injects noise with in.
func (d *Decomposer) Using(in *noise.Injector) *Decomposer {
	c := *d
	c.injector = in
	return &c
}

// Result carries every stage of one decomposition.
type Result struct {
	Clean     model.Structure  `json:"clean"`
	Noisy     model.Structure  `json:"noisy"`
	Flattened []model.Morpheme `json:"flattened"`
	Report    noise.Report     `json:"report"`
}

// Structure decomposes text without noise. Word phrases are separated by
// whitespace; an empty sentence yields an empty structure.
func (d *Decomposer) Structure(ctx context.Context, text string) (model.Structure, error) {
	phrases := strings.Fields(text)
	out := make(model.Structure, 0, len(phrases))
	for _, wp := range phrases {
		morphs, err := d.seg.Morphs(ctx, wp)
		if err != nil {
			return nil, fmt.Errorf("phonemize: segment %q: %w", wp, err)
		}
		phrase := make(model.WordPhrase, 0, len(morphs))
		for _, m := range morphs {
			phrase = append(phrase, DecomposeMorpheme(m))
		}
		out = append(out, phrase)
	}
	return out, nil
}

// Decompose returns the flattened, optionally noisy, morpheme sequence of text.
func (d *Decomposer) Decompose(ctx context.Context, text string, spec noise.Spec) ([]model.Morpheme, error) {
	res, err := d.DecomposeDetailed(ctx, text, spec)
	if err != nil {
		return nil, err
	}
	return res.Flattened, nil
}

// DecomposeDetailed is Decompose keeping the intermediate structures and the
// injector report. With noise disabled Noisy equals Clean and the injector
// is not consulted.
func (d *Decomposer) DecomposeDetailed(ctx context.Context, text string, spec noise.Spec) (Result, error) {
	if spec.Enabled() && d.injector == nil {
		return Result{}, ErrNoInjector
	}
	clean, err := d.Structure(ctx, text)
	if err != nil {
		return Result{}, err
	}
	res := Result{Clean: clean, Noisy: clean, Report: noise.Report{Spec: spec}}
	if spec.Enabled() {
		res.Noisy, res.Report = d.injector.Inject(clean, spec)
		d.log.Debug("noise injected",
			"spec", spec.String(),
			"selected", len(res.Report.Selected),
			"replaced", len(res.Report.Replaced),
			"removed", len(res.Report.Removed),
		)
	}
	res.Flattened = res.Noisy.Flatten()
	return res, nil
}

// DecomposeMorpheme splits one morpheme string into syllables. Whitespace
// is dropped.
func DecomposeMorpheme(s string) model.Morpheme {
	return model.Morpheme(jamo.DecomposeText(s))
}

// Compose rebuilds text from a syllable sequence.
func Compose(seq []model.Syllable) string {
	return jamo.Compose(seq)
}

// ComposeMorphemes composes each morpheme and joins them with spaces.
func ComposeMorphemes(ms []model.Morpheme) string {
	parts := make([]string, len(ms))
	for i, m := range ms {
		parts[i] = Compose(m)
	}
	return strings.Join(parts, " ")
}
