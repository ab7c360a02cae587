// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/kgextract/internal/align"
	"github.com/pdiddy/kgextract/internal/metrics"
	"github.com/pdiddy/kgextract/internal/triples"
	"github.com/pdiddy/kgextract/pkg/types"
)

// Summary counts document outcomes of a run.
type Summary struct {
	Extracted int
	Skipped   int
	Failed    int
}

// Total returns the number of documents processed.
func (s Summary) Total() int {
	return s.Extracted + s.Skipped + s.Failed
}

// HasFailures reports whether any document could not be read.
func (s Summary) HasFailures() bool {
	return s.Failed > 0
}

// Result is the outcome of Run.
type Result struct {
	RunID      string
	StartedAt  time.Time
	FinishedAt time.Time
	Summary    Summary

	// Documents holds one report per input path, in input order.
	Documents []types.DocumentReport

	// Triples is the run-global set: triples of fully processed documents
	// only.
	Triples *triples.Set
}

// Run processes paths with up to Config.Workers documents in flight. A
// failing document is reported and skipped; only cancellation of ctx stops
// the run, in which case the partial result is returned with the error.
func (p *Pipeline) Run(ctx context.Context, paths []string) (*Result, error) {
	res := &Result{
		RunID:     uuid.NewString(),
		StartedAt: time.Now().UTC(),
		Documents: make([]types.DocumentReport, len(paths)),
		Triples:   triples.NewSet(),
	}
	logger := p.logger()
	logger.Info("starting run", "run", res.RunID, "documents", len(paths), "workers", p.workers())

	done := make([]bool, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers())
	for i, path := range paths {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			out, err := p.processDocument(gctx, path)
			if err != nil && !isStageError(err) {
				return err
			}
			res.Documents[i] = p.report(path, out, err)
			if err == nil {
				res.Triples.AddAll(out.Triples())
			}
			done[i] = true
			return nil
		})
	}
	waitErr := g.Wait()
	res.FinishedAt = time.Now().UTC()

	reports := res.Documents[:0]
	for i, r := range res.Documents {
		if !done[i] {
			continue
		}
		reports = append(reports, r)
		switch r.Status {
		case types.DocumentExtracted:
			res.Summary.Extracted++
		case types.DocumentSkipped:
			res.Summary.Skipped++
		case types.DocumentFailed:
			res.Summary.Failed++
		}
	}
	res.Documents = reports
	p.writeStatus(res)

	if waitErr != nil {
		return res, fmt.Errorf("extraction interrupted: %w", waitErr)
	}
	if err := ctx.Err(); err != nil {
		return res, fmt.Errorf("extraction interrupted: %w", err)
	}
	logger.Info("run finished",
		"run", res.RunID,
		"extracted", res.Summary.Extracted,
		"skipped", res.Summary.Skipped,
		"failed", res.Summary.Failed,
		"triples", res.Triples.Len())
	return res, nil
}

func (p *Pipeline) report(path string, out align.Output, err error) types.DocumentReport {
	r := types.DocumentReport{Path: path}
	if err == nil {
		r.Status = types.DocumentExtracted
		r.Triples = len(out.Comentions) + len(out.Relations)
		p.Metrics.Triples(metrics.KindComention, len(out.Comentions))
		p.Metrics.Triples(metrics.KindRelation, len(out.Relations))
		p.Metrics.Document(r.Status)
		return r
	}

	var se *StageError
	errors.As(err, &se)
	r.Stage = se.Stage
	r.Error = se.Err.Error()
	if se.Stage == StageRead {
		r.Status = types.DocumentFailed
		p.logger().Error("reading document", "path", path, "err", se.Err)
	} else {
		r.Status = types.DocumentSkipped
		p.logger().Warn("skipping document", "path", path, "stage", se.Stage, "err", se.Err)
	}
	p.Metrics.Document(r.Status)
	return r
}

func (p *Pipeline) writeStatus(res *Result) {
	if p.Status == nil {
		return
	}
	for _, r := range res.Documents {
		switch r.Status {
		case types.DocumentExtracted:
			fmt.Fprintf(p.Status, "extracted %s (%d triples)\n", r.Path, r.Triples)
		case types.DocumentSkipped:
			fmt.Fprintf(p.Status, "skipped   %s: %s: %s\n", r.Path, r.Stage, r.Error)
		case types.DocumentFailed:
			fmt.Fprintf(p.Status, "failed    %s: %s\n", r.Path, r.Error)
		}
	}
	fmt.Fprintf(p.Status, "\nextracted: %d, skipped: %d, failed: %d, triples: %d\n",
		res.Summary.Extracted, res.Summary.Skipped, res.Summary.Failed, res.Triples.Len())
}

func isStageError(err error) bool {
	var se *StageError
	return errors.As(err, &se)
}
