package jamo

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"koreanparse/model"
)

func TestTableSizes(t *testing.T) {
	if len(Leading) != 20 {
		t.Errorf("len(Leading) = %d, want 20", len(Leading))
	}
	if len(Vowels) != 22 {
		t.Errorf("len(Vowels) = %d, want 22", len(Vowels))
	}
	if len(Trailing) != 28 {
		t.Errorf("len(Trailing) = %d, want 28", len(Trailing))
	}
	for name, table := range map[string][]string{"Leading": Leading, "Vowels": Vowels, "Trailing": Trailing} {
		if table[0] != Sentinel {
			t.Errorf("%s[0] = %q, want sentinel", name, table[0])
		}
	}
	// ㄱ appears as both leading and trailing; 19 + 21 + 27 minus shared consonants.
	if Count() >= 19+21+27 {
		t.Errorf("Count() = %d, shared consonants should collapse", Count())
	}
}

func TestIsKorean(t *testing.T) {
	for _, p := range []string{"ㄱ", "ㅏ", "ㅄ", "ㅎ", "ㅢ"} {
		if !IsKorean(p) {
			t.Errorf("IsKorean(%q) = false", p)
		}
	}
	for _, p := range []string{"", "a", "가", "1"} {
		if IsKorean(p) {
			t.Errorf("IsKorean(%q) = true", p)
		}
	}
	if !IsNonKorean("a") || !IsNonKorean("7") || !IsNonKorean("?") {
		t.Error("latin letters, digits and punctuation should be non-Korean tokens")
	}
	if IsNonKorean("ㄱ") {
		t.Error("ㄱ is not a non-Korean token")
	}
}

func TestDecomposeRune(t *testing.T) {
	tests := []struct {
		in   rune
		want model.Syllable
	}{
		{'가', model.Syllable{"ㄱ", "ㅏ"}},
		{'다', model.Syllable{"ㄷ", "ㅏ"}},
		{'한', model.Syllable{"ㅎ", "ㅏ", "ㄴ"}},
		{'값', model.Syllable{"ㄱ", "ㅏ", "ㅄ"}},
		{'힣', model.Syllable{"ㅎ", "ㅣ", "ㅎ"}},
		{'a', model.Syllable{"a"}},
		{'ㅋ', model.Syllable{"ㅋ"}},
		{'.', model.Syllable{"."}},
	}
	for _, tc := range tests {
		t.Run(string(tc.in), func(t *testing.T) {
			got := DecomposeRune(tc.in)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("DecomposeRune(%q) mismatch (-want +got):\n%s", tc.in, diff)
			}
		})
	}
}

func TestDecomposeText_LengthInvariant(t *testing.T) {
	for _, s := range DecomposeText("안녕하세요 abc 123 ㅋㅋ 값싼!") {
		if n := len(s); n < 1 || n > 3 {
			t.Errorf("syllable %v has length %d", s, n)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	for _, text := range []string{"가다", "안녕하세요", "닭값", "읽었습니다", "힣"} {
		if got := Compose(DecomposeText(text)); got != text {
			t.Errorf("Compose(DecomposeText(%q)) = %q", text, got)
		}
	}
}

func TestCompose_NonKoreanLiteral(t *testing.T) {
	if got := Compose(DecomposeText("a")); got != "a" {
		t.Errorf("got %q, want a", got)
	}
	if got := Compose(DecomposeText("ab가1")); got != "ab가1" {
		t.Errorf("got %q, want ab가1", got)
	}
}

func TestComposeText_InvalidGroupsPassThrough(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"ㄱㅏᴥ", "가"},
		{"ㅏㄱᴥ", "ㅏㄱ"},
		{"ㄱᴥ", "ㄱ"},
		{"ㄱㅏㄸᴥ", "ㄱㅏㄸ"}, // ㄸ cannot be a trailing consonant
		{"hello", "hello"},
		{"", ""},
	}
	for _, tc := range tests {
		if got := ComposeText(tc.in); got != tc.want {
			t.Errorf("ComposeText(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestComposeText_LiteralDelimiterIsConsumed(t *testing.T) {
	if got := ComposeText("ㄱㅏ" + Delimiter + Delimiter + "x"); got != "가x" {
		t.Errorf("got %q, want 가x", got)
	}
}
