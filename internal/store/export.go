// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/kgextract/internal/triples"
	"github.com/pdiddy/kgextract/pkg/types"
)

// Export formats.
const (
	FormatNTriples = "nt"
	FormatYAML     = "yaml"
	FormatJSON     = "json"
)

// Export writes the triples matching f to w in format. The filter limit
// defaults to no limit.
func (s *Store) Export(ctx context.Context, w io.Writer, format string, f Filter) error {
	switch format {
	case FormatNTriples, "":
		return s.ExportNTriples(ctx, w, f)
	case FormatYAML:
		return s.ExportYAML(ctx, w, f)
	case FormatJSON:
		return s.ExportJSON(ctx, w, f)
	default:
		return fmt.Errorf("unsupported format %q: use nt, yaml, or json", format)
	}
}

// ExportNTriples writes the extract output format.
func (s *Store) ExportNTriples(ctx context.Context, w io.Writer, f Filter) error {
	ts, err := s.exportTriples(ctx, f)
	if err != nil {
		return err
	}
	return triples.WriteNTriples(w, ts)
}

// ExportYAML writes the triples as a YAML sequence.
func (s *Store) ExportYAML(ctx context.Context, w io.Writer, f Filter) error {
	ts, err := s.exportTriples(ctx, f)
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(ts); err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return enc.Close()
}

// ExportJSON writes the triples as an indented JSON array.
func (s *Store) ExportJSON(ctx context.Context, w io.Writer, f Filter) error {
	ts, err := s.exportTriples(ctx, f)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(ts); err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	return nil
}

func (s *Store) exportTriples(ctx context.Context, f Filter) ([]types.Triple, error) {
	if f.Limit == 0 {
		f.Limit = -1
	}
	ts, err := s.Query(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("querying for export: %w", err)
	}
	if ts == nil {
		ts = []types.Triple{}
	}
	return ts, nil
}
