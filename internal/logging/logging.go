// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package logging builds the leveled console logger shared by the CLI and
// the extraction pipeline.
package logging

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// Options configures New.
type Options struct {
	// Debug lowers the level to debug.
	Debug bool

	// Output defaults to os.Stderr.
	Output io.Writer

	// Prefix is printed before every message (e.g. "kgextract").
	Prefix string
}

// New returns a timestamped logger writing to opts.Output.
func New(opts Options) *log.Logger {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	level := log.InfoLevel
	if opts.Debug {
		level = log.DebugLevel
	}
	return log.NewWithOptions(out, log.Options{
		ReportTimestamp: true,
		Level:           level,
		Prefix:          opts.Prefix,
	})
}

// Discard returns a logger that drops everything. Tests and library callers
// that pass no logger use it.
func Discard() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
}
