// Package tokenize provides the morphological segmenters used to split a
// word phrase into morpheme strings.
package tokenize

import (
	"context"
	"fmt"
	"strings"

	"github.com/ikawaha/kagome-dict/dict"
	ko "github.com/ikawaha/kagome-dict-ko"
	"github.com/ikawaha/kagome/v2/tokenizer"

	"koreanparse/model"
)

// Token represents a token / morpheme produced by the tokenizer.
type Token = model.Token

// Segmenter maps a word phrase to its ordered morpheme strings.
type Segmenter interface {
	Morphs(ctx context.Context, wordPhrase string) ([]string, error)
}

// Func adapts a plain function to the Segmenter interface.
type Func func(ctx context.Context, wordPhrase string) ([]string, error)

// Morphs calls f.
func (f Func) Morphs(ctx context.Context, wordPhrase string) ([]string, error) {
	return f(ctx, wordPhrase)
}

// Whole treats every word phrase as a single morpheme. It is the fallback
// when no segmentation dictionary is configured.
type Whole struct{}

// Morphs returns wordPhrase as the only morpheme.
func (Whole) Morphs(_ context.Context, wordPhrase string) ([]string, error) {
	if strings.TrimSpace(wordPhrase) == "" {
		return nil, nil
	}
	return []string{wordPhrase}, nil
}

// Option configures a Kagome segmenter.
type Option func(*Kagome)

// WithMode selects the kagome tokenize mode. Default: tokenizer.Normal.
func WithMode(mode tokenizer.TokenizeMode) Option {
	return func(k *Kagome) {
		k.mode = mode
	}
}

// Kagome segments with a kagome tokenizer over a Korean system dictionary.
// It is read-only after construction and safe for concurrent use.
type Kagome struct {
	kg   *tokenizer.Tokenizer
	mode tokenizer.TokenizeMode
}

// New builds a Kagome segmenter on the given dictionary, omitting BOS/EOS.
func New(d *dict.Dict, opts ...Option) (*Kagome, error) {
	if d == nil {
		return nil, fmt.Errorf("tokenize: nil dictionary")
	}
	kg, err := tokenizer.New(d, tokenizer.OmitBosEos())
	if err != nil {
		return nil, fmt.Errorf("tokenize: new tokenizer: %w", err)
	}
	k := &Kagome{kg: kg, mode: tokenizer.Normal}
	for _, opt := range opts {
		opt(k)
	}
	return k, nil
}

// NewKorean builds a segmenter on the embedded mecab-ko-dic dictionary.
func NewKorean(opts ...Option) (*Kagome, error) {
	return New(ko.Dict(), opts...)
}

// NewFromFile loads a kagome-format dictionary (e.g. a compiled mecab-ko-dic)
// from path and builds a segmenter on it.
func NewFromFile(path string, opts ...Option) (*Kagome, error) {
	d, err := dict.LoadDictFile(path)
	if err != nil {
		return nil, fmt.Errorf("tokenize: load dictionary %q: %w", path, err)
	}
	return New(d, opts...)
}

// ParseMode maps a config string to a kagome tokenize mode.
func ParseMode(s string) (tokenizer.TokenizeMode, error) {
	switch strings.ToLower(s) {
	case "", "normal":
		return tokenizer.Normal, nil
	case "search":
		return tokenizer.Search, nil
	case "extended":
		return tokenizer.Extended, nil
	}
	return tokenizer.Normal, fmt.Errorf("tokenize: unknown mode %q", s)
}

// Tokenize runs kagome on text and converts the result.
func (k *Kagome) Tokenize(text string) []Token {
	if text == "" {
		return nil
	}
	return convertKagomeTokens(k.kg.Analyze(text, k.mode))
}

// Morphs returns the surfaces of the tokens of wordPhrase in order.
func (k *Kagome) Morphs(ctx context.Context, wordPhrase string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return Surfaces(k.Tokenize(wordPhrase)), nil
}

// Surfaces extracts the non-blank token texts.
func Surfaces(tokens []Token) []string {
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if strings.TrimSpace(t.Text) == "" {
			continue
		}
		out = append(out, t.Text)
	}
	return out
}

func convertKagomeTokens(ktoks []tokenizer.Token) []Token {
	out := make([]Token, 0, len(ktoks))
	for _, kt := range ktoks {
		if kt.Class == tokenizer.DUMMY {
			continue
		}
		out = append(out, Token{
			Text:     kt.Surface,
			POS:      strings.Join(kt.POS(), ","),
			Start:    kt.Start,
			End:      kt.End,
			TokenID:  kt.ID,
			Known:    kt.Class == tokenizer.KNOWN || kt.Class == tokenizer.USER,
			Features: kt.Features(),
		})
	}
	return out
}
