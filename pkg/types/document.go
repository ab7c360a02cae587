// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Document is one input text.
type Document struct {
	Path string `json:"path" yaml:"path"`
	Text string `json:"text" yaml:"text"`
}

// DocumentStatus records what happened to one input document in a run.
type DocumentStatus string

const (
	DocumentExtracted DocumentStatus = "extracted"
	DocumentSkipped   DocumentStatus = "skipped"
	DocumentFailed    DocumentStatus = "failed"
)

// DocumentReport is the per-document outcome of an extraction run.
type DocumentReport struct {
	// Path is the input file the document was read from.
	Path string `json:"path" yaml:"path"`

	Status DocumentStatus `json:"status" yaml:"status"`

	// Stage names the collaborator or step that failed, empty on success.
	Stage string `json:"stage,omitempty" yaml:"stage,omitempty"`

	// Error holds the failure message. Empty on success.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`

	// Triples is the number of triples the document contributed before
	// global deduplication.
	Triples int `json:"triples" yaml:"triples"`
}
