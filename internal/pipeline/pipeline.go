// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline drives documents through the collaborators (tokenizer,
// discourse parser, entity linker) and the alignment engine, and collects
// the deduplicated triples of a run.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/pdiddy/kgextract/internal/align"
	"github.com/pdiddy/kgextract/internal/logging"
	"github.com/pdiddy/kgextract/internal/metrics"
	"github.com/pdiddy/kgextract/pkg/types"
)

// Stage names used in logs, metrics, and StageError.
const (
	StageRead      = "read"
	StageTokenizer = "tokenizer"
	StageParser    = "parser"
	StageLinker    = "linker"
	StageAlign     = "align"
)

// ErrCollaborator matches any StageError raised by the tokenizer, parser,
// or linker, including timeouts.
var ErrCollaborator = errors.New("collaborator failed")

// Tokenizer splits raw text into tokens.
type Tokenizer interface {
	Tokenize(ctx context.Context, text string) ([]string, error)
}

// Parser produces the discourse representation of space-joined tokens.
type Parser interface {
	Parse(ctx context.Context, tokenized string) (*types.DRS, error)
}

// Linker links entity mentions in space-joined tokens.
type Linker interface {
	Link(ctx context.Context, tokenized string) (*types.Linking, error)
}

// StageError records which step of which document failed.
type StageError struct {
	Stage string
	Path  string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Path, e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// Is reports collaborator stages as ErrCollaborator.
func (e *StageError) Is(target error) bool {
	if target != ErrCollaborator {
		return false
	}
	switch e.Stage {
	case StageTokenizer, StageParser, StageLinker:
		return true
	}
	return false
}

// Pipeline holds the collaborators and settings for a run. Logger, Metrics,
// and Status may be nil.
type Pipeline struct {
	Tokenizer Tokenizer
	Parser    Parser
	Linker    Linker
	Frames    align.FrameLookup
	Config    types.ExtractionConfig
	Logger    *log.Logger
	Metrics   *metrics.Metrics

	// Status receives one line per document once the run completes.
	Status io.Writer
}

// ResolveDocuments returns the documents of a run: the single input file,
// or every regular file directly inside inputDir sorted by name. Exactly one
// of input and inputDir must be set.
func ResolveDocuments(input, inputDir string) ([]string, error) {
	switch {
	case input != "" && inputDir != "":
		return nil, fmt.Errorf("--input and --input-dir are mutually exclusive")
	case input == "" && inputDir == "":
		return nil, fmt.Errorf("one of --input or --input-dir is required")
	case input != "":
		return []string{input}, nil
	}

	entries, err := os.ReadDir(inputDir)
	if err != nil {
		return nil, fmt.Errorf("reading input directory %s: %w", inputDir, err)
	}

	var paths []string
	for _, entry := range entries {
		path := filepath.Join(inputDir, entry.Name())
		info, err := os.Stat(path)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// ProcessDocument runs one document through tokenize, parse, link, and
// align. Failures come back as *StageError; cancellation of ctx comes back
// unwrapped so callers can stop the run.
func (p *Pipeline) ProcessDocument(ctx context.Context, path string) ([]types.Triple, error) {
	out, err := p.processDocument(ctx, path)
	if err != nil {
		return nil, err
	}
	return out.Triples(), nil
}

func (p *Pipeline) processDocument(ctx context.Context, path string) (align.Output, error) {
	logger := p.logger().With("path", path)

	logger.Info("opening file")
	doc, err := readDocument(path)
	if err != nil {
		return align.Output{}, &StageError{Stage: StageRead, Path: path, Err: err}
	}

	logger.Info("calling tokenizer")
	tokens, err := call(ctx, p, StageTokenizer, func(ctx context.Context) ([]string, error) {
		return p.Tokenizer.Tokenize(ctx, doc.Text)
	})
	if err == nil && len(tokens) == 0 {
		err = types.ErrEmptyResult
	}
	if err != nil {
		return align.Output{}, p.stageError(ctx, StageTokenizer, path, err)
	}
	tokenized := strings.Join(tokens, " ")
	logger.Debug("tokenized", "tokens", len(tokens))

	logger.Info("calling parser")
	drs, err := call(ctx, p, StageParser, func(ctx context.Context) (*types.DRS, error) {
		return p.Parser.Parse(ctx, tokenized)
	})
	if err == nil && drs == nil {
		err = types.ErrEmptyResult
	}
	if err != nil {
		return align.Output{}, p.stageError(ctx, StageParser, path, err)
	}
	logger.Debug("parsed", "predicates", len(drs.Predicates), "relations", len(drs.Relations))

	logger.Info("calling linker")
	linking, err := call(ctx, p, StageLinker, func(ctx context.Context) (*types.Linking, error) {
		return p.Linker.Link(ctx, tokenized)
	})
	if err == nil && linking == nil {
		err = types.ErrEmptyResult
	}
	if err != nil {
		return align.Output{}, p.stageError(ctx, StageLinker, path, err)
	}
	logger.Debug("linked", "entities", len(linking.Entities))

	logger.Info("synthesizing triples")
	out, err := align.Align(align.Input{
		Tokens:             tokens,
		DRS:                drs,
		Linking:            linking,
		Frames:             p.Frames,
		ComentionPredicate: p.comentionPredicate(),
	})
	if err != nil {
		return align.Output{}, &StageError{Stage: StageAlign, Path: path, Err: err}
	}
	return out, nil
}

func readDocument(path string) (types.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.Document{}, err
	}
	return types.Document{Path: path, Text: string(data)}, nil
}

// call runs one collaborator under the per-call timeout and records its
// latency.
func call[T any](ctx context.Context, p *Pipeline, stage string, fn func(context.Context) (T, error)) (T, error) {
	cctx, cancel := context.WithTimeout(ctx, p.callTimeout())
	defer cancel()

	start := time.Now()
	v, err := fn(cctx)
	p.Metrics.ObserveCall(stage, time.Since(start))
	if err != nil && ctx.Err() == nil && errors.Is(cctx.Err(), context.DeadlineExceeded) {
		err = fmt.Errorf("timed out after %s: %w", p.callTimeout(), err)
	}
	return v, err
}

func (p *Pipeline) stageError(ctx context.Context, stage, path string, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return &StageError{Stage: stage, Path: path, Err: err}
}

func (p *Pipeline) callTimeout() time.Duration {
	if p.Config.CallTimeout > 0 {
		return p.Config.CallTimeout
	}
	return 60 * time.Second
}

func (p *Pipeline) workers() int {
	if p.Config.Workers > 0 {
		return p.Config.Workers
	}
	return 1
}

func (p *Pipeline) comentionPredicate() string {
	if p.Config.ComentionPredicate != "" {
		return p.Config.ComentionPredicate
	}
	return types.ComentionPredicate
}

func (p *Pipeline) logger() *log.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return logging.Discard()
}
