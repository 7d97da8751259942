package vocab

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Vectors holds one embedding per token, all of the same dimension.
type Vectors struct {
	dim  int
	rows map[string][]float32
}

// LoadVectors parses lines of the form "token v1 v2 ... vN". Blank lines and
// lines starting with '#' are skipped. Every row must have the same N.
func LoadVectors(r io.Reader) (*Vectors, error) {
	vs := &Vectors{rows: make(map[string][]float32)}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<22)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		if len(fields) < 2 {
			return nil, fmt.Errorf("vocab: vectors line %d: no values", line)
		}
		vec := make([]float32, len(fields)-1)
		for i, f := range fields[1:] {
			x, err := strconv.ParseFloat(f, 32)
			if err != nil {
				return nil, fmt.Errorf("vocab: vectors line %d: %w", line, err)
			}
			vec[i] = float32(x)
		}
		switch {
		case vs.dim == 0:
			vs.dim = len(vec)
		case len(vec) != vs.dim:
			return nil, fmt.Errorf("vocab: vectors line %d: dimension %d, want %d", line, len(vec), vs.dim)
		}
		vs.rows[fields[0]] = vec
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("vocab: read vectors: %w", err)
	}
	return vs, nil
}

// LoadVectorsFile loads a vectors_map.txt file.
func LoadVectorsFile(path string) (*Vectors, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("vocab: %w", err)
	}
	defer f.Close()
	return LoadVectors(f)
}

// Dim returns the embedding dimension, 0 when empty.
func (vs *Vectors) Dim() int {
	return vs.dim
}

// Len returns the number of vectors.
func (vs *Vectors) Len() int {
	return len(vs.rows)
}

// Lookup returns the vector of token. The slice must not be modified.
func (vs *Vectors) Lookup(token string) ([]float32, bool) {
	v, ok := vs.rows[token]
	return v, ok
}

// Matrix returns an embedding matrix indexed by vocabulary id. Ids without
// a vector get a zero row. It also returns the number of ids that missed.
func (vs *Vectors) Matrix(v *Vocabulary) ([][]float32, int) {
	out := make([][]float32, v.Size())
	missing := 0
	for id := range out {
		row := make([]float32, vs.dim)
		if tok, ok := v.Token(id); ok {
			if vec, ok := vs.rows[tok]; ok {
				copy(row, vec)
			} else {
				missing++
			}
		}
		out[id] = row
	}
	return out, missing
}
