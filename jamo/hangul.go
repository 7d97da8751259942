package jamo

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"koreanparse/model"
)

const (
	syllableFirst rune = 0xAC00 // 가
	syllableLast  rune = 0xD7A3 // 힣
)

// IsSyllableBlock reports whether r is a precomposed Hangul syllable.
func IsSyllableBlock(r rune) bool {
	return r >= syllableFirst && r <= syllableLast
}

// DecomposeRune splits a syllable block into its leading consonant, vowel and
// optional trailing consonant. Any other rune comes back as a one-phoneme
// syllable holding the literal character.
func DecomposeRune(r rune) model.Syllable {
	if !IsSyllableBlock(r) {
		return model.Syllable{string(r)}
	}
	parts := norm.NFD.String(string(r))
	out := make(model.Syllable, 0, 3)
	for _, c := range parts {
		p, ok := fromConjoining[c]
		if !ok {
			return model.Syllable{string(r)}
		}
		out = append(out, p)
	}
	return out
}

// DecomposeText decomposes every non-space rune of s.
func DecomposeText(s string) []model.Syllable {
	out := make([]model.Syllable, 0, len(s)/3+1)
	for _, r := range s {
		if unicode.IsSpace(r) {
			continue
		}
		out = append(out, DecomposeRune(r))
	}
	return out
}

// ComposeText reassembles text in the delimited form: each run of phonemes
// between Delimiter marks that spells a valid syllable is turned into one
// block, anything else passes through unchanged. Delimiter is not escaped,
// so a literal ᴥ in the input is consumed as a separator.
func ComposeText(s string) string {
	var b strings.Builder
	for _, group := range strings.Split(s, Delimiter) {
		b.WriteString(composeGroup(group))
	}
	return b.String()
}

// Compose joins each syllable's phonemes, separates syllables with
// Delimiter and composes the result into displayable text.
func Compose(syllables []model.Syllable) string {
	var b strings.Builder
	for _, s := range syllables {
		b.WriteString(s.String())
		b.WriteString(Delimiter)
	}
	return ComposeText(b.String())
}

func composeGroup(group string) string {
	runes := []rune(group)
	if len(runes) != 2 && len(runes) != 3 {
		return group
	}
	l, ok := toLeading[string(runes[0])]
	if !ok {
		return group
	}
	v, ok := toVowel[string(runes[1])]
	if !ok {
		return group
	}
	seq := []rune{l, v}
	if len(runes) == 3 {
		t, ok := toTrailing[string(runes[2])]
		if !ok {
			return group
		}
		seq = append(seq, t)
	}
	composed := norm.NFC.String(string(seq))
	if n := []rune(composed); len(n) != 1 || !IsSyllableBlock(n[0]) {
		return group
	}
	return composed
}
