// Package analyze computes per-sentence statistics over clean and noisy
// decompositions.
package analyze

import (
	"strings"

	"github.com/antzucaro/matchr"

	"koreanparse/jamo"
	"koreanparse/model"
)

// Analysis summarises one sentence before and after noise.
type Analysis struct {
	SentenceID string       `json:"sentence_id"`
	Clean      model.Counts `json:"clean"`
	Noisy      model.Counts `json:"noisy"`
	// SyllableLengths[n] is the number of clean syllables with n phonemes.
	SyllableLengths [4]int `json:"syllable_lengths"`
	// NonKorean counts clean one-phoneme syllables that are literal tokens.
	NonKorean int `json:"non_korean"`
	// EditDistance is the Levenshtein distance between the clean and noisy
	// phoneme strings.
	EditDistance int `json:"edit_distance"`
	// Similarity is the Jaro-Winkler similarity of the composed texts.
	Similarity float64 `json:"similarity"`
	Composed   string  `json:"composed"`
	NoisyText  string  `json:"noisy_text,omitempty"`
}

// Analyze compares a clean flattened sequence with its noisy counterpart.
func Analyze(id string, clean, noisy []model.Morpheme) Analysis {
	a := Analysis{
		SentenceID: id,
		Clean:      model.CountMorphemes(clean),
		Noisy:      model.CountMorphemes(noisy),
	}
	for _, m := range clean {
		for _, s := range m {
			if len(s) < len(a.SyllableLengths) {
				a.SyllableLengths[len(s)]++
			}
			if len(s) == 1 && !jamo.IsKorean(s[0]) {
				a.NonKorean++
			}
		}
	}

	cleanPh, noisyPh := PhonemeString(clean), PhonemeString(noisy)
	a.EditDistance = matchr.Levenshtein(cleanPh, noisyPh)

	a.Composed = composeAll(clean)
	a.NoisyText = composeAll(noisy)
	switch {
	case a.Composed == a.NoisyText:
		a.Similarity = 1
	case a.Composed == "" || a.NoisyText == "":
		a.Similarity = 0
	default:
		a.Similarity = matchr.JaroWinkler(a.Composed, a.NoisyText, false)
	}
	return a
}

// PhonemeString concatenates every phoneme of ms, separating morphemes with
// a space.
func PhonemeString(ms []model.Morpheme) string {
	var b strings.Builder
	for i, m := range ms {
		if i > 0 {
			b.WriteByte(' ')
		}
		for _, s := range m {
			b.WriteString(s.String())
		}
	}
	return b.String()
}

func composeAll(ms []model.Morpheme) string {
	parts := make([]string, len(ms))
	for i, m := range ms {
		parts[i] = jamo.Compose(m)
	}
	return strings.Join(parts, " ")
}
