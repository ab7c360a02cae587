// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/kgextract/pkg/types"
)

func TestMetrics_Counts(t *testing.T) {
	m := New()

	m.Document(types.DocumentExtracted)
	m.Document(types.DocumentExtracted)
	m.Document(types.DocumentSkipped)
	m.Triples(KindComention, 3)
	m.Triples(KindRelation, 2)
	m.Triples(KindRelation, 0)
	m.ObserveCall("parser", 250*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.documents.WithLabelValues("extracted")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.documents.WithLabelValues("skipped")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.triples.WithLabelValues(KindComention)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.triples.WithLabelValues(KindRelation)))
	assert.Equal(t, 1, testutil.CollectAndCount(m.duration))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	m.Document(types.DocumentFailed)
	m.Triples(KindRelation, 1)
	m.ObserveCall("linker", time.Second)
	assert.Nil(t, m.Registry())
	assert.NoError(t, m.WriteTextfile(filepath.Join(t.TempDir(), "x.prom")))
}

func TestMetrics_WriteTextfile(t *testing.T) {
	m := New()
	m.Document(types.DocumentExtracted)
	m.Triples(KindComention, 1)

	path := filepath.Join(t.TempDir(), "kgextract.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `kgextract_documents_total{status="extracted"} 1`)
	assert.Contains(t, string(data), `kgextract_triples_total{kind="comention"} 1`)
}

func TestMetrics_WriteTextfileBadPath(t *testing.T) {
	err := New().WriteTextfile(filepath.Join(t.TempDir(), "missing", "x.prom"))
	assert.ErrorContains(t, err, "writing metrics")
}
