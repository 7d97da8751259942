package model

import "strings"

// Syllable is an ordered sequence of one to three phonemes. A single phoneme
// is either a standalone Korean sound or a literal non-Korean token.
type Syllable []string

// Morpheme is an ordered sequence of syllables.
type Morpheme []Syllable

// WordPhrase is one whitespace-delimited unit of input text.
type WordPhrase []Morpheme

// Structure is the full [word phrase][morpheme][syllable][phoneme]
// decomposition of one sentence.
type Structure []WordPhrase

// String joins the phonemes of s.
func (s Syllable) String() string {
	return strings.Join(s, "")
}

// Clone returns a copy of s that shares no backing arrays with it.
func (s Syllable) Clone() Syllable {
	if s == nil {
		return nil
	}
	out := make(Syllable, len(s))
	copy(out, s)
	return out
}

// IsBlank reports whether m is empty or holds only one empty syllable.
func (m Morpheme) IsBlank() bool {
	return len(m) == 0 || (len(m) == 1 && len(m[0]) == 0)
}

// Clone deep-copies m.
func (m Morpheme) Clone() Morpheme {
	if m == nil {
		return nil
	}
	out := make(Morpheme, len(m))
	for i, s := range m {
		out[i] = s.Clone()
	}
	return out
}

// String renders m as its syllable strings separated by '|'.
func (m Morpheme) String() string {
	parts := make([]string, len(m))
	for i, s := range m {
		parts[i] = s.String()
	}
	return strings.Join(parts, "|")
}

// Clone deep-copies w.
func (w WordPhrase) Clone() WordPhrase {
	if w == nil {
		return nil
	}
	out := make(WordPhrase, len(w))
	for i, m := range w {
		out[i] = m.Clone()
	}
	return out
}

// Clone deep-copies s. Mutating the result never affects s.
func (s Structure) Clone() Structure {
	if s == nil {
		return nil
	}
	out := make(Structure, len(s))
	for i, w := range s {
		out[i] = w.Clone()
	}
	return out
}

// Flatten drops the word-phrase grouping and concatenates the remaining
// morphemes in order. Blank morphemes (see [Morpheme.IsBlank]) are discarded.
func (s Structure) Flatten() []Morpheme {
	out := make([]Morpheme, 0, len(s))
	for _, w := range s {
		for _, m := range w {
			if m.IsBlank() {
				continue
			}
			out = append(out, m)
		}
	}
	return out
}

// Counts holds the number of elements at each nesting level.
type Counts struct {
	WordPhrases int `json:"word_phrases"`
	Morphemes   int `json:"morphemes"`
	Syllables   int `json:"syllables"`
	Phonemes    int `json:"phonemes"`
}

// Counts tallies the elements of s at every level.
func (s Structure) Counts() Counts {
	c := Counts{WordPhrases: len(s)}
	for _, w := range s {
		c.Morphemes += len(w)
		for _, m := range w {
			c.Syllables += len(m)
			for _, syl := range m {
				c.Phonemes += len(syl)
			}
		}
	}
	return c
}

// CountMorphemes tallies a flattened sequence the same way [Structure.Counts] does.
// WordPhrases is always zero since the grouping is gone.
func CountMorphemes(ms []Morpheme) Counts {
	c := Structure{WordPhrase(ms)}.Counts()
	c.WordPhrases = 0
	return c
}
