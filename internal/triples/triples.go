// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package triples holds the run-wide triple set and its line-oriented
// serialization: one "<subject> <predicate> <object>" statement per line,
// without escaping or a statement terminator.
package triples

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/pdiddy/kgextract/pkg/types"
)

// Set is a deduplicated collection of triples. It is safe for concurrent use.
type Set struct {
	mu      sync.Mutex
	triples map[types.Triple]struct{}
}

// NewSet returns an empty set.
func NewSet() *Set {
	return &Set{triples: make(map[types.Triple]struct{})}
}

// Add inserts t and reports whether it was new.
func (s *Set) Add(t types.Triple) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.triples[t]; ok {
		return false
	}
	s.triples[t] = struct{}{}
	return true
}

// AddAll inserts every triple of ts and returns how many were new.
func (s *Set) AddAll(ts []types.Triple) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	added := 0
	for _, t := range ts {
		if _, ok := s.triples[t]; ok {
			continue
		}
		s.triples[t] = struct{}{}
		added++
	}
	return added
}

// Merge adds every triple of other to s and returns how many were new.
func (s *Set) Merge(other *Set) int {
	if other == nil || other == s {
		return 0
	}
	return s.AddAll(other.Sorted())
}

// Contains reports whether t is in the set.
func (s *Set) Contains(t types.Triple) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.triples[t]
	return ok
}

// Len returns the number of distinct triples.
func (s *Set) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.triples)
}

// Sorted returns the triples ordered by subject, predicate, object.
func (s *Set) Sorted() []types.Triple {
	s.mu.Lock()
	out := make([]types.Triple, 0, len(s.triples))
	for t := range s.triples {
		out = append(out, t)
	}
	s.mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

// WriteNTriples writes one "<s> <p> <o>" line per triple.
func WriteNTriples(w io.Writer, ts []types.Triple) error {
	bw := bufio.NewWriter(w)
	for _, t := range ts {
		if _, err := fmt.Fprintf(bw, "<%s> <%s> <%s>\n", t.Subject, t.Predicate, t.Object); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// ReadNTriples parses lines written by WriteNTriples. Blank lines are
// ignored; any other line that is not three bracketed fields is an error.
func ReadNTriples(r io.Reader) ([]types.Triple, error) {
	var out []types.Triple
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		t, err := parseLine(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		out = append(out, t)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func parseLine(line string) (types.Triple, error) {
	var fields []string
	rest := line
	for len(fields) < 3 {
		rest = strings.TrimLeft(rest, " \t")
		if !strings.HasPrefix(rest, "<") {
			return types.Triple{}, fmt.Errorf("expected '<' in %q", line)
		}
		end := strings.Index(rest, "> ")
		if len(fields) == 2 {
			if !strings.HasSuffix(rest, ">") {
				return types.Triple{}, fmt.Errorf("unterminated object in %q", line)
			}
			end = len(rest) - 1
		}
		if end < 0 {
			return types.Triple{}, fmt.Errorf("unterminated field in %q", line)
		}
		fields = append(fields, rest[1:end])
		rest = rest[end+1:]
	}
	return types.Triple{Subject: fields[0], Predicate: fields[1], Object: fields[2]}, nil
}

// WriteFile serializes set to path in one step. The triples are written to
// a temporary file in the same directory and renamed over path, so a failed
// run never leaves partial output behind.
func WriteFile(path string, set *Set) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating output file in %s: %w", dir, err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("setting permissions on %s: %w", tmpPath, err)
	}
	if err := WriteNTriples(tmp, set.Sorted()); err != nil {
		tmp.Close()
		return fmt.Errorf("writing triples to %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("moving output into place at %s: %w", path, err)
	}
	return nil
}
