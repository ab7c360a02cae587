// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// NullEntity is the entity identifier the linker reports for a mention it
// could not resolve to a canonical entity.
const NullEntity = "null"

// EntityMention is one linked span of the tokenized text.
type EntityMention struct {
	// Entity is the canonical entity identifier, or NullEntity.
	Entity string `json:"entity" yaml:"entity"`

	TokenStart int `json:"token_start" yaml:"token_start"`
	TokenEnd   int `json:"token_end" yaml:"token_end"`

	// Synset is the sense identifier (e.g. "wn:00035718r"), nil when the
	// linker assigned none.
	Synset *string `json:"synset" yaml:"synset"`
}

// Span returns the mention's token span.
func (m EntityMention) Span() TokenSpan {
	return TokenSpan{Start: m.TokenStart, End: m.TokenEnd}
}

// IsNull reports whether the mention carries no canonical entity.
func (m EntityMention) IsNull() bool {
	return m.Entity == NullEntity
}

// SynsetID returns the synset identifier and whether one is present.
func (m EntityMention) SynsetID() (string, bool) {
	if m.Synset == nil || *m.Synset == "" {
		return "", false
	}
	return *m.Synset, true
}

// Linking is the entity linker's output for one document.
type Linking struct {
	Entities []EntityMention `json:"entities" yaml:"entities"`
}

// StringPtr returns a pointer to s. It keeps literal synsets in tests and
// fixtures readable.
func StringPtr(s string) *string {
	return &s
}
