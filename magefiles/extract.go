//go:build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Extract runs the built CLI over corpus/ and writes output/triples.nt,
// recording the run in output/kgextract.db. The frame table comes from
// kgextract.yaml or KGEXTRACT_EXTRACTION_FRAMES_PATH.
func Extract() error {
	mg.Deps(Build, Init)

	args := []string{"extract",
		"--input-dir", "corpus",
		"--output", "output/triples.nt",
		"--db", "output/kgextract.db",
		"--metrics-file", "output/kgextract.prom",
	}
	if err := sh.RunV(binPath(), args...); err != nil {
		return fmt.Errorf("kgextract extract: %w", err)
	}
	return nil
}

// Export writes the store in output/kgextract.db to output/export.yaml.
func Export() error {
	mg.Deps(Build)
	return sh.RunV(binPath(), "export", "--db", "output/kgextract.db", "--format", "yaml", "--out", "output/export.yaml")
}
