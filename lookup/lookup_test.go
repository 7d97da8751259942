package lookup

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"koreanparse/model"
	"koreanparse/vocab"
)

func TestLookup(t *testing.T) {
	v, err := vocab.New(map[string]int{"<unk>": 1, "ㄱㅏ": 2, "ㄷㅏ": 3})
	if err != nil {
		t.Fatal(err)
	}
	ms := []model.Morpheme{{{"ㄱ", "ㅏ"}, {"ㄷ", "ㅏ"}}, {{"ㅎ", "ㅏ", "ㄱ"}}}
	got, err := Lookup(context.Background(), v, ms)
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	want := []LexEntry{
		{Token: "ㄱㅏ", ID: 2, Known: true},
		{Token: "ㄷㅏ", ID: 3, Known: true},
		{Token: "ㅎㅏㄱ", ID: 1, Known: false},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
	if c := Coverage(got); c < 0.66 || c > 0.67 {
		t.Errorf("Coverage = %v", c)
	}
}

func TestLookup_Empty(t *testing.T) {
	v, _ := vocab.New(nil)
	if got, err := Lookup(context.Background(), v, nil); got != nil || err != nil {
		t.Errorf("Lookup(nil) = %v, %v", got, err)
	}
	if Coverage(nil) != 0 {
		t.Error("Coverage(nil) should be 0")
	}
}

func TestLookup_Cancelled(t *testing.T) {
	v, _ := vocab.New(nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Lookup(ctx, v, []model.Morpheme{{{"a"}}}); err == nil {
		t.Error("expected context error")
	}
}
