// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/kgextract/internal/store"
	"github.com/pdiddy/kgextract/pkg/types"
)

// --- triples subcommand ---

var triplesCmd = &cobra.Command{
	Use:   "triples",
	Short: "Query the triple store",
	Long: `Triples lists stored triples matching exact --subject, --predicate, and
--object filters, ordered by subject, predicate, and object.`,
	RunE: runTriples,
}

func runTriples(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	results, err := s.Query(context.Background(), filterFromFlags(cmd))
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		if results == nil {
			results = []types.Triple{}
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Println("No triples found.")
		return nil
	}
	fmt.Fprintf(os.Stdout, "%-40s  %-20s  %s\n", "Subject", "Predicate", "Object")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 90))
	for _, t := range results {
		fmt.Fprintf(os.Stdout, "%-40s  %-20s  %s\n", truncate(t.Subject, 40), truncate(t.Predicate, 20), t.Object)
	}
	fmt.Fprintf(os.Stdout, "\n%d triples\n", len(results))
	return nil
}

// --- export subcommand ---

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the triple store as N-Triples, YAML, or JSON",
	Long: `Export writes the stored triples (or a filtered subset) to --out, or to
stdout when --out is not set. The nt format matches extract's output file.`,
	RunE: runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	out, _ := cmd.Flags().GetString("out")

	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	f := filterFromFlags(cmd)
	if f.Limit == 0 {
		f.Limit = -1
	}

	if out == "" {
		return s.Export(context.Background(), os.Stdout, format, f)
	}
	file, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("creating %s: %w", out, err)
	}
	if err := s.Export(context.Background(), file, format, f); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", out, err)
	}
	fmt.Fprintf(os.Stderr, "Exported to %s\n", out)
	return nil
}

// --- import subcommand ---

var importCmd = &cobra.Command{
	Use:   "import FILE...",
	Short: "Load triples files produced by extract into the store",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runImport,
}

func runImport(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	for _, path := range args {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("opening %s: %w", path, err)
		}
		read, added, err := s.Import(context.Background(), f, path)
		f.Close()
		if err != nil {
			return err
		}
		fmt.Printf("imported %s: %d triples, %d new\n", path, read, added)
	}
	return nil
}

// --- stats subcommand ---

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize the triple store",
	RunE:  runStats,
}

func runStats(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := context.Background()
	st, err := s.Stats(ctx)
	if err != nil {
		return err
	}
	runs, err := s.Runs(ctx, 5)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			store.Stats
			Recent []store.RunRecord `json:"recent_runs"`
		}{st, runs})
	}

	fmt.Printf("triples:   %d\n", st.Triples)
	fmt.Printf("subjects:  %d\n", st.Subjects)
	fmt.Printf("runs:      %d\n", st.Runs)
	fmt.Printf("documents: %d\n", st.Documents)
	if len(st.Predicates) > 0 {
		fmt.Println("\npredicates:")
		for _, pc := range st.Predicates {
			fmt.Printf("  %-30s %d\n", pc.Predicate, pc.Count)
		}
	}
	if len(runs) > 0 {
		fmt.Println("\nrecent runs:")
		for _, r := range runs {
			fmt.Printf("  %s  %-7s  %s  extracted %d, skipped %d, failed %d, new triples %d\n",
				r.ID, r.Source, r.StartedAt.Format("2006-01-02 15:04:05"),
				r.Extracted, r.Skipped, r.Failed, r.Added)
		}
	}
	return nil
}

// --- shared helpers ---

func storeConfig(path string) types.StoreConfig {
	return types.StoreConfig{Path: path, MaxResults: viper.GetInt("store.max_results")}
}

func openStore() (*store.Store, error) {
	path := viper.GetString("store.path")
	if path == "" {
		path = store.DefaultPath
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("triple store %s: %w (run extract with --db first)", path, err)
	}
	return store.Open(storeConfig(path))
}

func filterFromFlags(cmd *cobra.Command) store.Filter {
	subject, _ := cmd.Flags().GetString("subject")
	predicate, _ := cmd.Flags().GetString("predicate")
	object, _ := cmd.Flags().GetString("object")
	limit, _ := cmd.Flags().GetInt("limit")
	return store.Filter{Subject: subject, Predicate: predicate, Object: object, Limit: limit}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().String("subject", "", "filter by subject")
	cmd.Flags().String("predicate", "", "filter by predicate")
	cmd.Flags().String("object", "", "filter by object")
	cmd.Flags().Int("limit", 0, "maximum triples (0 = default)")
}

func init() {
	addFilterFlags(triplesCmd)
	triplesCmd.Flags().Bool("json", false, "output results as JSON")

	addFilterFlags(exportCmd)
	exportCmd.Flags().String("format", store.FormatNTriples, "export format: nt, yaml, or json")
	exportCmd.Flags().String("out", "", "output file (default stdout)")

	statsCmd.Flags().Bool("json", false, "output as JSON")

	rootCmd.AddCommand(triplesCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(statsCmd)
}
