// Package noise injects structured removal and replacement noise into a
// decomposed sentence at word-phrase, morpheme, syllable and phoneme level.
package noise

import (
	"errors"
	"fmt"
	"strings"
)

// Level is one nesting level of a decomposed sentence, coarse to fine.
type Level int

const (
	WordPhrase Level = iota
	Morpheme
	Syllable
	Phoneme
)

// Levels lists every level from coarse to fine.
var Levels = [...]Level{WordPhrase, Morpheme, Syllable, Phoneme}

var levelNames = [...]string{"word_phrase", "morpheme", "syllable", "phoneme"}

func (l Level) String() string {
	if l < WordPhrase || l > Phoneme {
		return fmt.Sprintf("level(%d)", int(l))
	}
	return levelNames[l]
}

// MarshalText implements encoding.TextMarshaler.
func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// depth is the number of indices needed to address an element at l.
func (l Level) depth() int {
	return int(l) + 1
}

// Mode says what happens to a selected element.
type Mode int

const (
	Replacing Mode = iota
	Removing
)

func (m Mode) String() string {
	if m == Removing {
		return "removing"
	}
	return "replacing"
}

// LevelSet is a bit set of levels.
type LevelSet uint8

// NewLevelSet builds a set from ls.
func NewLevelSet(ls ...Level) LevelSet {
	var s LevelSet
	for _, l := range ls {
		s |= 1 << uint(l)
	}
	return s
}

// Has reports whether l is in s.
func (s LevelSet) Has(l Level) bool {
	return s&(1<<uint(l)) != 0
}

// Spec is a parsed noise specification: the targeted levels plus one mode.
// The zero value disables noise.
type Spec struct {
	Levels LevelSet
	Mode   Mode
}

// None disables noise injection.
var None = Spec{}

// Enabled reports whether s targets at least one level.
func (s Spec) Enabled() bool {
	return s.Levels != 0
}

// Has reports whether s targets l.
func (s Spec) Has(l Level) bool {
	return s.Levels.Has(l)
}

// String renders s in the form accepted by ParseSpec, e.g. "removing_phoneme".
func (s Spec) String() string {
	if !s.Enabled() {
		return "no"
	}
	parts := []string{s.Mode.String()}
	for _, l := range Levels {
		if s.Has(l) {
			parts = append(parts, l.String())
		}
	}
	return strings.Join(parts, "_")
}

// MarshalText implements encoding.TextMarshaler.
func (s Spec) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Spec) UnmarshalText(b []byte) error {
	parsed, err := ParseSpec(string(b))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ErrUnknownKeyword is returned by ParseSpec for words it does not recognise.
var ErrUnknownKeyword = errors.New("noise: unknown keyword")

// ParseSpec parses a noise specification such as "no", "removing_phoneme",
// "replacing_word_phrase" or "removing syllable,phoneme". Keywords may be
// separated by '_', ',', '+' or spaces. Without a mode keyword the spec
// replaces.
func ParseSpec(s string) (Spec, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	switch norm {
	case "", "no", "none":
		return None, nil
	}
	norm = strings.NewReplacer("word_phrase", "wordphrase", "word-phrase", "wordphrase").Replace(norm)
	fields := strings.FieldsFunc(norm, func(r rune) bool {
		return r == '_' || r == ',' || r == '+' || r == ' ' || r == '\t'
	})

	var spec Spec
	modeSeen := false
	for _, f := range fields {
		switch f {
		case "wordphrase":
			spec.Levels |= NewLevelSet(WordPhrase)
		case "morpheme":
			spec.Levels |= NewLevelSet(Morpheme)
		case "syllable":
			spec.Levels |= NewLevelSet(Syllable)
		case "phoneme":
			spec.Levels |= NewLevelSet(Phoneme)
		case "removing", "replacing":
			mode := Replacing
			if f == "removing" {
				mode = Removing
			}
			if modeSeen && mode != spec.Mode {
				return None, fmt.Errorf("noise: spec %q sets both removing and replacing", s)
			}
			spec.Mode = mode
			modeSeen = true
		default:
			return None, fmt.Errorf("%w %q in spec %q", ErrUnknownKeyword, f, s)
		}
	}
	if !spec.Enabled() {
		return None, fmt.Errorf("noise: spec %q names no level", s)
	}
	return spec, nil
}

// MustParseSpec is like ParseSpec but panics on error. For constants and tests.
func MustParseSpec(s string) Spec {
	spec, err := ParseSpec(s)
	if err != nil {
		panic(err)
	}
	return spec
}

// pickBands maps a uniform draw to a single-level spec. Each band covers
// [previous upper, upper).
var pickBands = [...]struct {
	upper float64
	spec  Spec
}{
	{0.05, Spec{Levels: NewLevelSet(Phoneme), Mode: Removing}},
	{0.10, Spec{Levels: NewLevelSet(Phoneme), Mode: Replacing}},
	{0.15, Spec{Levels: NewLevelSet(Syllable), Mode: Removing}},
	{0.20, Spec{Levels: NewLevelSet(Syllable), Mode: Replacing}},
	{0.25, Spec{Levels: NewLevelSet(Morpheme), Mode: Removing}},
	{0.30, Spec{Levels: NewLevelSet(Morpheme), Mode: Replacing}},
	{0.35, Spec{Levels: NewLevelSet(WordPhrase), Mode: Removing}},
	{0.40, Spec{Levels: NewLevelSet(WordPhrase), Mode: Replacing}},
}

// Pick chooses the training-time noise type for a uniform draw u in [0, 1):
// eight 0.05-wide bands of single-level removing/replacing, fine to coarse,
// and no noise for u >= 0.4.
func Pick(u float64) Spec {
	for _, b := range pickBands {
		if u < b.upper {
			return b.spec
		}
	}
	return None
}
