// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package frames loads the synset-to-frame lookup table and resolves
// WordNet synset keys to semantic frame identifiers.
package frames

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/kgextract/pkg/types"
)

// Table maps synset keys ("00035718-r") to frame identifiers. A Table is
// immutable after construction and safe for concurrent lookups.
type Table struct {
	frames map[string][]string
}

// New builds a Table from m. Keys with an empty frame list are rejected so
// that every lookup of a present key yields at least one frame.
func New(m map[string][]string) (*Table, error) {
	t := &Table{frames: make(map[string][]string, len(m))}
	for key, list := range m {
		key = strings.TrimSpace(key)
		if key == "" {
			return nil, fmt.Errorf("frame table: empty synset key")
		}
		cleaned := make([]string, 0, len(list))
		for _, f := range list {
			if f = strings.TrimSpace(f); f != "" {
				cleaned = append(cleaned, f)
			}
		}
		if len(cleaned) == 0 {
			return nil, fmt.Errorf("frame table: synset %q has no frames", key)
		}
		t.frames[key] = cleaned
	}
	return t, nil
}

// Lookup returns the frames for key, or the single fallback
// types.UnknownFrame when the key is absent. The result is a fresh slice.
func (t *Table) Lookup(key string) []string {
	if t != nil {
		if list, ok := t.frames[key]; ok {
			out := make([]string, len(list))
			copy(out, list)
			return out
		}
	}
	return []string{types.UnknownFrame}
}

// Has reports whether key has an entry.
func (t *Table) Has(key string) bool {
	if t == nil {
		return false
	}
	_, ok := t.frames[key]
	return ok
}

// Len returns the number of synset keys in the table.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.frames)
}

// Keys returns the synset keys in sorted order.
func (t *Table) Keys() []string {
	if t == nil {
		return nil
	}
	keys := make([]string, 0, len(t.frames))
	for k := range t.frames {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Load reads a frame table from path. The format follows the extension:
// .yaml/.yml and .json hold a mapping of key to frame list, .tsv holds one
// key per line followed by tab-separated frames.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening frame table %s: %w", path, err)
	}
	defer f.Close()

	var m map[string][]string
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.NewDecoder(f).Decode(&m); err != nil && err != io.EOF {
			return nil, fmt.Errorf("parsing frame table %s: %w", path, err)
		}
	case ".json":
		if err := json.NewDecoder(f).Decode(&m); err != nil {
			return nil, fmt.Errorf("parsing frame table %s: %w", path, err)
		}
	case ".tsv", ".txt":
		m, err = parseTSV(f)
		if err != nil {
			return nil, fmt.Errorf("parsing frame table %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported frame table format %q: use .yaml, .json, or .tsv", ext)
	}

	t, err := New(m)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return t, nil
}

// parseTSV reads lines of the form key<TAB>frame[<TAB>frame...]. Blank
// lines and lines starting with # are ignored. Repeated keys accumulate.
func parseTSV(r io.Reader) (map[string][]string, error) {
	m := make(map[string][]string)
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < 2 {
			return nil, fmt.Errorf("line %d: expected key and at least one frame", lineNo)
		}
		key := strings.TrimSpace(fields[0])
		m[key] = append(m[key], fields[1:]...)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return m, nil
}
