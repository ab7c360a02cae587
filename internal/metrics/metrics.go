// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package metrics counts what an extraction run did: documents by outcome,
// triples by kind, and time spent in each collaborator. Metrics live on a
// private registry and are written to a node_exporter textfile at the end
// of a run.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/pdiddy/kgextract/pkg/types"
)

const namespace = "kgextract"

// Triple kinds.
const (
	KindComention = "comention"
	KindRelation  = "relation"
)

// Metrics holds the run's collectors. A nil *Metrics is valid and records
// nothing.
type Metrics struct {
	registry  *prometheus.Registry
	documents *prometheus.CounterVec
	triples   *prometheus.CounterVec
	duration  *prometheus.HistogramVec
}

// New registers the kgextract collectors on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		documents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "documents_total",
			Help:      "Documents processed, by outcome.",
		}, []string{"status"}),
		triples: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "triples_total",
			Help:      "Triples synthesized before global deduplication, by kind.",
		}, []string{"kind"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "collaborator_duration_seconds",
			Help:      "Latency of collaborator calls.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60, 120},
		}, []string{"collaborator"}),
	}
	m.registry.MustRegister(m.documents, m.triples, m.duration)
	return m
}

// Registry exposes the underlying registry, e.g. for an HTTP handler.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Document counts one document outcome.
func (m *Metrics) Document(status types.DocumentStatus) {
	if m == nil {
		return
	}
	m.documents.WithLabelValues(string(status)).Inc()
}

// Triples adds n triples of the given kind.
func (m *Metrics) Triples(kind string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.triples.WithLabelValues(kind).Add(float64(n))
}

// ObserveCall records the duration of one collaborator call.
func (m *Metrics) ObserveCall(collaborator string, d time.Duration) {
	if m == nil {
		return
	}
	m.duration.WithLabelValues(collaborator).Observe(d.Seconds())
}

// WriteTextfile writes the current values in the text exposition format.
// The file is replaced atomically.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("writing metrics to %s: %w", path, err)
	}
	return nil
}
