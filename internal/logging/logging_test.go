// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_Levels(t *testing.T) {
	tests := []struct {
		name      string
		debug     bool
		wantDebug bool
	}{
		{name: "info by default", debug: false, wantDebug: false},
		{name: "debug flag", debug: true, wantDebug: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := New(Options{Debug: tt.debug, Output: &buf})

			logger.Debug("calling parser", "path", "doc1.txt")
			logger.Info("opening file", "path", "doc1.txt")

			out := buf.String()
			assert.Contains(t, out, "opening file")
			assert.Contains(t, out, "doc1.txt")
			assert.Equal(t, tt.wantDebug, bytes.Contains(buf.Bytes(), []byte("calling parser")))
		})
	}
}

func TestNew_Prefix(t *testing.T) {
	var buf bytes.Buffer
	New(Options{Output: &buf, Prefix: "kgextract"}).Warn("skipping document")
	assert.Contains(t, buf.String(), "kgextract")
	assert.Contains(t, buf.String(), "skipping document")
}

func TestDiscard(t *testing.T) {
	// Must not panic and must not write anywhere visible.
	Discard().Error("dropped", "err", "boom")
}
