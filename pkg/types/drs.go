// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "fmt"

// TokenSpan is a half-open range [Start, End) over a document's tokens.
// Spans are the join key between DRS predicates and entity mentions.
type TokenSpan struct {
	Start int `json:"token_start" yaml:"token_start"`
	End   int `json:"token_end" yaml:"token_end"`
}

// Valid reports whether the span is non-empty and lies within a document
// of tokenCount tokens.
func (s TokenSpan) Valid(tokenCount int) bool {
	return s.Start >= 0 && s.Start < s.End && s.End <= tokenCount
}

func (s TokenSpan) String() string {
	return fmt.Sprintf("[%d,%d)", s.Start, s.End)
}

// Predicate ties a logical variable to the tokens that introduced it.
// Several predicates may share one variable.
type Predicate struct {
	Variable   string `json:"variable" yaml:"variable"`
	TokenStart int    `json:"token_start" yaml:"token_start"`
	TokenEnd   int    `json:"token_end" yaml:"token_end"`
}

// Span returns the predicate's token span.
func (p Predicate) Span() TokenSpan {
	return TokenSpan{Start: p.TokenStart, End: p.TokenEnd}
}

// Relation is a directed link between the referents of two variables.
type Relation struct {
	Arg1   string `json:"arg1" yaml:"arg1"`
	Arg2   string `json:"arg2" yaml:"arg2"`
	Symbol string `json:"symbol" yaml:"symbol"`
}

// DRS is the discourse representation structure of one document as
// returned by the discourse parser.
type DRS struct {
	Predicates []Predicate `json:"predicates" yaml:"predicates"`
	Relations  []Relation  `json:"relations" yaml:"relations"`
}
