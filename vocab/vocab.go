// Package vocab loads the syllable token map and its embedding vectors.
package vocab

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
)

const (
	// PadID is the id used for padding and, absent an UnknownToken entry,
	// for tokens missing from the map.
	PadID = 0
	// UnknownToken is the token looked up for out-of-vocabulary input.
	UnknownToken = "<unk>"
)

// Vocabulary maps syllable tokens to integer ids. It is read-only after
// loading and safe for concurrent use.
type Vocabulary struct {
	ids    map[string]int
	tokens []string // indexed by id; "" marks gaps
}

// New builds a vocabulary from a token → id map. Ids must be non-negative
// and distinct.
func New(ids map[string]int) (*Vocabulary, error) {
	v := &Vocabulary{ids: make(map[string]int, len(ids))}
	maxID := -1
	for tok, id := range ids {
		if id < 0 {
			return nil, fmt.Errorf("vocab: token %q has negative id %d", tok, id)
		}
		maxID = max(maxID, id)
	}
	v.tokens = make([]string, maxID+1)
	seen := make([]bool, maxID+1)
	// Iterate in sorted order so duplicate-id errors are deterministic.
	keys := make([]string, 0, len(ids))
	for tok := range ids {
		keys = append(keys, tok)
	}
	slices.Sort(keys)
	for _, tok := range keys {
		id := ids[tok]
		if seen[id] {
			return nil, fmt.Errorf("vocab: id %d assigned to %q and %q", id, v.tokens[id], tok)
		}
		seen[id] = true
		v.tokens[id] = tok
		v.ids[tok] = id
	}
	return v, nil
}

// Load decodes a JSON object of token → id pairs.
func Load(r io.Reader) (*Vocabulary, error) {
	var ids map[string]int
	if err := json.NewDecoder(r).Decode(&ids); err != nil {
		return nil, fmt.Errorf("vocab: decode tokens map: %w", err)
	}
	return New(ids)
}

// LoadFile loads a tokens_map.json file.
func LoadFile(path string) (*Vocabulary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("vocab: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Len returns the number of tokens.
func (v *Vocabulary) Len() int {
	return len(v.ids)
}

// Size returns one more than the largest id, the row count of an id-indexed
// embedding matrix.
func (v *Vocabulary) Size() int {
	return len(v.tokens)
}

// ID looks up a token.
func (v *Vocabulary) ID(token string) (int, bool) {
	id, ok := v.ids[token]
	return id, ok
}

// Token looks up an id.
func (v *Vocabulary) Token(id int) (string, bool) {
	if id < 0 || id >= len(v.tokens) {
		return "", false
	}
	if _, ok := v.ids[v.tokens[id]]; !ok || v.ids[v.tokens[id]] != id {
		return "", false
	}
	return v.tokens[id], true
}

// UnknownID is the id used for out-of-vocabulary tokens.
func (v *Vocabulary) UnknownID() int {
	if id, ok := v.ids[UnknownToken]; ok {
		return id
	}
	return PadID
}

// Encode maps tokens to ids, substituting UnknownID for misses.
func (v *Vocabulary) Encode(tokens []string) []int {
	out := make([]int, len(tokens))
	unk := v.UnknownID()
	for i, t := range tokens {
		id, ok := v.ids[t]
		if !ok {
			id = unk
		}
		out[i] = id
	}
	return out
}
