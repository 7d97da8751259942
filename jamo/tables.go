// Package jamo holds the Korean phoneme vocabularies and converts between
// precomposed Hangul syllable blocks and their compatibility jamo.
//
// Tables are built once in init and are read-only afterwards, so every
// function here is safe for concurrent use.
package jamo

// Sentinel occupies index 0 of Leading, Vowels and Trailing. It stands for an
// absent component and is never drawn when sampling replacements.
const Sentinel = ""

// Leading lists the leading consonants in Unicode order after the sentinel.
var Leading = []string{
	Sentinel,
	"ㄱ", "ㄲ", "ㄴ", "ㄷ", "ㄸ", "ㄹ", "ㅁ", "ㅂ", "ㅃ", "ㅅ",
	"ㅆ", "ㅇ", "ㅈ", "ㅉ", "ㅊ", "ㅋ", "ㅌ", "ㅍ", "ㅎ",
}

// Vowels lists the medial vowels in Unicode order after the sentinel.
var Vowels = []string{
	Sentinel,
	"ㅏ", "ㅐ", "ㅑ", "ㅒ", "ㅓ", "ㅔ", "ㅕ", "ㅖ", "ㅗ", "ㅘ",
	"ㅙ", "ㅚ", "ㅛ", "ㅜ", "ㅝ", "ㅞ", "ㅟ", "ㅠ", "ㅡ", "ㅢ", "ㅣ",
}

// Trailing lists the trailing consonants, double finals included. Index 0
// doubles as "no trailing consonant".
var Trailing = []string{
	Sentinel,
	"ㄱ", "ㄲ", "ㄳ", "ㄴ", "ㄵ", "ㄶ", "ㄷ", "ㄹ", "ㄺ", "ㄻ",
	"ㄼ", "ㄽ", "ㄾ", "ㄿ", "ㅀ", "ㅁ", "ㅂ", "ㅄ", "ㅅ", "ㅆ",
	"ㅇ", "ㅈ", "ㅊ", "ㅋ", "ㅌ", "ㅍ", "ㅎ",
}

// nonKoreanChars is the source of the NonKorean vocabulary, one token per rune.
const nonKoreanChars = "0123456789" +
	"abcdefghijklmnopqrstuvwxyz" +
	"ABCDEFGHIJKLMNOPQRSTUVWXYZ" +
	".,?!'\"()[]{}-~:;%&/+*=@#<>_^$"

// NonKorean is the vocabulary of literal non-Korean tokens. It has no sentinel.
var NonKorean []string

// Delimiter separates syllables in the delimited form consumed by ComposeText.
const Delimiter = "ᴥ"

const (
	leadingBase  rune = 0x1100 // conjoining ᄀ
	vowelBase    rune = 0x1161 // conjoining ᅡ
	trailingBase rune = 0x11A8 // conjoining ᆨ
)

var (
	korean    map[string]struct{}
	nonKorean map[string]struct{}

	// conjoining jamo -> compatibility jamo
	fromConjoining map[rune]string

	// compatibility jamo -> conjoining jamo, per syllable position
	toLeading  map[string]rune
	toVowel    map[string]rune
	toTrailing map[string]rune
)

func init() {
	NonKorean = make([]string, 0, len(nonKoreanChars))
	nonKorean = make(map[string]struct{}, len(nonKoreanChars))
	for _, r := range nonKoreanChars {
		tok := string(r)
		NonKorean = append(NonKorean, tok)
		nonKorean[tok] = struct{}{}
	}

	korean = make(map[string]struct{})
	fromConjoining = make(map[rune]string)
	toLeading = make(map[string]rune, len(Leading))
	toVowel = make(map[string]rune, len(Vowels))
	toTrailing = make(map[string]rune, len(Trailing))

	register := func(table []string, base rune, into map[string]rune) {
		for i, p := range table {
			if i == 0 {
				continue
			}
			r := base + rune(i-1)
			korean[p] = struct{}{}
			fromConjoining[r] = p
			into[p] = r
		}
	}
	register(Leading, leadingBase, toLeading)
	register(Vowels, vowelBase, toVowel)
	register(Trailing, trailingBase, toTrailing)
}

// IsKorean reports whether p is a Korean leading, vowel or trailing sound.
func IsKorean(p string) bool {
	_, ok := korean[p]
	return ok
}

// IsNonKorean reports whether p belongs to the NonKorean vocabulary.
func IsNonKorean(p string) bool {
	_, ok := nonKorean[p]
	return ok
}

// Count returns the number of distinct Korean phonemes across all positions.
func Count() int {
	return len(korean)
}
