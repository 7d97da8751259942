package ingest

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewSentence(t *testing.T) {
	s, err := NewSentence("  나는 학교에 갔다  ")
	if err != nil {
		t.Fatalf("NewSentence: %v", err)
	}
	if s.Text != "나는 학교에 갔다" {
		t.Errorf("Text = %q", s.Text)
	}
	if len(s.ID) != 16 {
		t.Errorf("ID = %q, want 16 hex chars", s.ID)
	}
	if s.CreatedAt.IsZero() {
		t.Error("CreatedAt not set")
	}
	if _, err := NewSentence(" \t"); !errors.Is(err, ErrEmptySentence) {
		t.Errorf("err = %v, want ErrEmptySentence", err)
	}
}

func TestReadCorpus(t *testing.T) {
	in := "나는 학교에 갔다\n\n  \n오늘은 비가 온다\n"
	got, err := ReadCorpus(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ReadCorpus: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Line != 1 || got[1].Line != 4 {
		t.Errorf("lines = %d, %d; want 1, 4", got[0].Line, got[1].Line)
	}
	if got[1].Text != "오늘은 비가 온다" {
		t.Errorf("Text = %q", got[1].Text)
	}
	if got[0].ID == got[1].ID {
		t.Error("IDs should differ")
	}
}

func TestLoadCorpus(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corpus.txt")
	if err := os.WriteFile(path, []byte("가다\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := LoadCorpus(path)
	if err != nil || len(got) != 1 {
		t.Fatalf("LoadCorpus = %v, %v", got, err)
	}
	if _, err := LoadCorpus(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Error("expected error for missing file")
	}
}
