// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package boxer talks to a Boxer discourse parser and turns its JSON
// output into a validated types.DRS.
package boxer

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/pdiddy/kgextract/pkg/types"
)

// wireDRS mirrors the parser's JSON with pointer fields so that missing
// keys can be told apart from zero values.
type wireDRS struct {
	Predicates *[]wirePredicate `json:"predicates"`
	Relations  *[]wireRelation  `json:"relations"`
}

type wirePredicate struct {
	Variable   *string `json:"variable"`
	TokenStart *int    `json:"token_start"`
	TokenEnd   *int    `json:"token_end"`
}

type wireRelation struct {
	Arg1   *string `json:"arg1"`
	Arg2   *string `json:"arg2"`
	Symbol *string `json:"symbol"`
}

// Decode parses a DRS document. A null or empty body is
// types.ErrEmptyResult; a missing required field is types.ErrMalformed.
func Decode(data []byte) (*types.DRS, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil, types.ErrEmptyResult
	}

	var w wireDRS
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("%w: decoding DRS: %v", types.ErrMalformed, err)
	}
	if w.Predicates == nil && w.Relations == nil {
		return nil, types.ErrEmptyResult
	}
	if w.Predicates == nil {
		return nil, fmt.Errorf("%w: DRS has no predicates field", types.ErrMalformed)
	}

	drs := &types.DRS{Predicates: make([]types.Predicate, 0, len(*w.Predicates))}
	for i, p := range *w.Predicates {
		if p.Variable == nil || p.TokenStart == nil || p.TokenEnd == nil {
			return nil, fmt.Errorf("%w: predicate %d lacks variable, token_start, or token_end", types.ErrMalformed, i)
		}
		drs.Predicates = append(drs.Predicates, types.Predicate{
			Variable:   *p.Variable,
			TokenStart: *p.TokenStart,
			TokenEnd:   *p.TokenEnd,
		})
	}

	if w.Relations != nil {
		drs.Relations = make([]types.Relation, 0, len(*w.Relations))
		for i, r := range *w.Relations {
			if r.Arg1 == nil || r.Arg2 == nil || r.Symbol == nil {
				return nil, fmt.Errorf("%w: relation %d lacks arg1, arg2, or symbol", types.ErrMalformed, i)
			}
			drs.Relations = append(drs.Relations, types.Relation{Arg1: *r.Arg1, Arg2: *r.Arg2, Symbol: *r.Symbol})
		}
	}
	return drs, nil
}
