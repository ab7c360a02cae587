// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/kgextract/internal/frames"
	"github.com/pdiddy/kgextract/internal/metrics"
	"github.com/pdiddy/kgextract/internal/pipeline"
	"github.com/pdiddy/kgextract/internal/store"
	"github.com/pdiddy/kgextract/internal/triples"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract triples from a document or a directory of documents",
	Long: `Extract runs every input document through the tokenizer, the Boxer
discourse parser, and the entity linker, aligns the results, and writes the
deduplicated triples of all documents to --output, one per line:

  <subject> <predicate> <object>

A document whose collaborator fails (error, empty result, or timeout) or
whose analyses do not line up is skipped; the run continues. The output file
is written once, after all documents, and only when the run completes.

With --db the triples and per-document outcomes are also recorded in the
SQLite triple store.`,
	RunE: runExtract,
}

func runExtract(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	input, _ := cmd.Flags().GetString("input")
	inputDir, _ := cmd.Flags().GetString("input-dir")
	output, _ := cmd.Flags().GetString("output")
	metricsFile, _ := cmd.Flags().GetString("metrics-file")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	paths, err := resolveDocuments(input, inputDir)
	if err != nil {
		return err
	}

	var table *frames.Table
	if cfg.Extraction.FramesPath != "" {
		table, err = frames.Load(cfg.Extraction.FramesPath)
		if err != nil {
			return err
		}
		logger.Info("loaded frame table", "path", cfg.Extraction.FramesPath, "keys", table.Len())
	} else {
		logger.Warn("no frame table configured; every relation maps to the unknown frame")
	}

	c := &collaborators{cfg: cfg}
	p, err := c.build(ctx)
	if err != nil {
		return err
	}
	p.Frames = table
	p.Metrics = metrics.New()
	p.Status = os.Stdout

	res, err := p.Run(ctx, paths)
	if err != nil {
		return err
	}

	if err := triples.WriteFile(output, res.Triples); err != nil {
		return err
	}
	fmt.Printf("wrote %d triples to %s\n", res.Triples.Len(), output)

	if cfg.Store.Path != "" {
		if err := recordRun(ctx, cfg.Store.Path, res); err != nil {
			return err
		}
	}

	if metricsFile != "" {
		if err := p.Metrics.WriteTextfile(metricsFile); err != nil {
			return err
		}
	}
	return nil
}

// resolveDocuments lists the run's documents and warns when an input
// directory holds no regular files.
func resolveDocuments(input, inputDir string) ([]string, error) {
	paths, err := pipeline.ResolveDocuments(input, inputDir)
	if err != nil {
		return nil, err
	}
	if inputDir != "" && len(paths) == 0 {
		logger.Warn("no documents found", "dir", inputDir)
	}
	return paths, nil
}

func recordRun(ctx context.Context, path string, res *pipeline.Result) error {
	s, err := store.Open(storeConfig(path))
	if err != nil {
		return err
	}
	defer s.Close()

	added, err := s.RecordRun(ctx, store.Run{
		ID:         res.RunID,
		Source:     store.SourceExtract,
		StartedAt:  res.StartedAt,
		FinishedAt: res.FinishedAt,
		Documents:  res.Documents,
		Triples:    res.Triples.Sorted(),
	})
	if err != nil {
		return fmt.Errorf("recording run in %s: %w", path, err)
	}
	fmt.Printf("recorded run %s in %s (%d new triples)\n", res.RunID, path, added)
	return nil
}

func init() {
	extractCmd.Flags().String("input", "", "single document to process")
	extractCmd.Flags().String("input-dir", "", "directory whose regular files are processed (non-recursive)")
	extractCmd.Flags().String("output", "", "destination file for the triples")
	extractCmd.Flags().String("frames", "", "frame table file (.yaml, .json, or .tsv)")
	extractCmd.Flags().Int("workers", 1, "documents processed concurrently")
	extractCmd.Flags().Duration("call-timeout", 0, "timeout for each collaborator call (default 60s)")
	extractCmd.Flags().String("comention-predicate", "", "predicate for co-mention triples (default \"comention\")")
	extractCmd.Flags().String("metrics-file", "", "write Prometheus metrics to this textfile")

	extractCmd.MarkFlagsMutuallyExclusive("input", "input-dir")
	extractCmd.MarkFlagsOneRequired("input", "input-dir")
	_ = extractCmd.MarkFlagRequired("output")

	_ = viper.BindPFlag("extraction.frames_path", extractCmd.Flags().Lookup("frames"))
	_ = viper.BindPFlag("extraction.workers", extractCmd.Flags().Lookup("workers"))
	_ = viper.BindPFlag("extraction.call_timeout", extractCmd.Flags().Lookup("call-timeout"))
	_ = viper.BindPFlag("extraction.comention_predicate", extractCmd.Flags().Lookup("comention-predicate"))

	rootCmd.AddCommand(extractCmd)
}
