package model

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func sample() Structure {
	return Structure{
		{
			{{"ㄱ", "ㅏ"}, {"ㄷ", "ㅏ"}},
		},
		{
			{{"ㄴ", "ㅏ", "ㄴ"}},
			{{"ㅡ", "ㄴ"}},
		},
	}
}

func TestClone_Independent(t *testing.T) {
	orig := sample()
	c := orig.Clone()
	c[0][0][0][0] = "ㅋ"
	c[1] = c[1][:1]
	c[1][0] = append(c[1][0], Syllable{"a"})

	if diff := cmp.Diff(sample(), orig); diff != "" {
		t.Fatalf("original mutated through clone (-want +got):\n%s", diff)
	}
}

func TestClone_Nil(t *testing.T) {
	var s Structure
	if s.Clone() != nil {
		t.Error("clone of nil structure should be nil")
	}
}

func TestFlatten_DropsBlankMorphemes(t *testing.T) {
	s := Structure{
		{
			{{"ㄱ", "ㅏ"}},
			{},
			{{}},
		},
		{},
		{
			{{"a"}},
			{{}, {"ㅣ"}},
		},
	}
	got := s.Flatten()
	want := []Morpheme{
		{{"ㄱ", "ㅏ"}},
		{{"a"}},
		{{}, {"ㅣ"}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Flatten mismatch (-want +got):\n%s", diff)
	}
}

func TestFlatten_Empty(t *testing.T) {
	if got := Structure(nil).Flatten(); len(got) != 0 {
		t.Errorf("len = %d, want 0", len(got))
	}
}

func TestCounts(t *testing.T) {
	got := sample().Counts()
	want := Counts{WordPhrases: 2, Morphemes: 3, Syllables: 4, Phonemes: 9}
	if got != want {
		t.Errorf("Counts = %+v, want %+v", got, want)
	}
	flat := CountMorphemes(sample().Flatten())
	want.WordPhrases = 0
	if flat != want {
		t.Errorf("CountMorphemes = %+v, want %+v", flat, want)
	}
}

func TestMorphemeString(t *testing.T) {
	m := Morpheme{{"ㄱ", "ㅏ"}, {"ㄷ", "ㅏ"}}
	if got := m.String(); got != "ㄱㅏ|ㄷㅏ" {
		t.Errorf("String = %q", got)
	}
}

func TestFlatten_KeepsMultiSyllableEmptiedMorpheme(t *testing.T) {
	s := Structure{{{{}, {}}, {{"ㄱ", "ㅏ"}}, {{}}}}
	want := []Morpheme{{{}, {}}, {{"ㄱ", "ㅏ"}}}
	if diff := cmp.Diff(want, s.Flatten()); diff != "" {
		t.Errorf("Flatten mismatch (-want +got):\n%s", diff)
	}
}
