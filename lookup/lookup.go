// Package lookup resolves decomposed syllables against the token vocabulary.
package lookup

import (
	"context"

	"koreanparse/model"
	"koreanparse/vocab"
)

type LexEntry = model.LexEntry

// Lookup returns one entry per syllable of ms, in order. Syllables missing
// from v carry v.UnknownID() and Known=false.
func Lookup(ctx context.Context, v *vocab.Vocabulary, ms []model.Morpheme) ([]LexEntry, error) {
	if ms == nil {
		return nil, nil
	}
	out := make([]LexEntry, 0, len(ms)*2)
	for _, m := range ms {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for _, s := range m {
			tok := s.String()
			id, ok := v.ID(tok)
			if !ok {
				id = v.UnknownID()
			}
			out = append(out, LexEntry{Token: tok, ID: id, Known: ok})
		}
	}
	return out, nil
}

// Coverage returns the share of entries found in the vocabulary.
func Coverage(entries []LexEntry) float64 {
	if len(entries) == 0 {
		return 0
	}
	known := 0
	for _, e := range entries {
		if e.Known {
			known++
		}
	}
	return float64(known) / float64(len(entries))
}
