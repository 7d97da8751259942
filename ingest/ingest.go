// Package ingest reads raw Korean sentences into the pipeline.
package ingest

import (
	"bufio"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// ErrEmptySentence is returned for blank input.
var ErrEmptySentence = errors.New("ingest: empty sentence")

// maxLineSize bounds a single corpus line.
const maxLineSize = 1 << 20

// Sentence represents an ingested sentence and metadata.
type Sentence struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Line      int       `json:"line,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// generateID creates a short random hex id. Falls back to a timestamp string on error.
func generateID() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(b)
}

// NewSentence trims text and wraps it in a Sentence with a fresh ID.
func NewSentence(text string) (Sentence, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Sentence{}, ErrEmptySentence
	}
	return Sentence{
		ID:        generateID(),
		Text:      trimmed,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// ReadCorpus reads one sentence per line. Blank lines are skipped; Line is
// the 1-based line number in r.
func ReadCorpus(r io.Reader) ([]Sentence, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	var out []Sentence
	line := 0
	for sc.Scan() {
		line++
		s, err := NewSentence(sc.Text())
		if errors.Is(err, ErrEmptySentence) {
			continue
		}
		s.Line = line
		out = append(out, s)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("ingest: read corpus: %w", err)
	}
	return out, nil
}

// LoadCorpus reads the corpus file at path.
func LoadCorpus(path string) ([]Sentence, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("ingest: %w", err)
	}
	defer f.Close()
	return ReadCorpus(f)
}
