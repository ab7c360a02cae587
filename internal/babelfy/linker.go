// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package babelfy

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/pdiddy/kgextract/internal/httputil"
	"github.com/pdiddy/kgextract/pkg/types"
)

type wireLinking struct {
	Entities *[]wireMention `json:"entities"`
}

type wireMention struct {
	Entity     *string `json:"entity"`
	TokenStart *int    `json:"token_start"`
	TokenEnd   *int    `json:"token_end"`
	Synset     *string `json:"synset"`
}

// HTTPLinker posts tokenized text to a service that already answers with
// {"entities": [{entity, token_start, token_end, synset}]}.
type HTTPLinker struct {
	client *httputil.Client
	url    string
}

// NewHTTPLinker returns a linker posting to url.
func NewHTTPLinker(client *httputil.Client, url string) (*HTTPLinker, error) {
	if url == "" {
		return nil, fmt.Errorf("linker service URL not configured")
	}
	return &HTTPLinker{client: client, url: url}, nil
}

// Link returns the entity mentions of tokenized.
func (l *HTTPLinker) Link(ctx context.Context, tokenized string) (*types.Linking, error) {
	var raw json.RawMessage
	body := struct {
		Text string `json:"text"`
	}{Text: tokenized}
	if err := l.client.PostJSON(ctx, l.url, body, &raw); err != nil {
		return nil, fmt.Errorf("calling linker: %w", err)
	}
	return DecodeLinking(raw)
}

// DecodeLinking parses the linker JSON contract. The synset may be null or
// absent; every other field is required.
func DecodeLinking(data []byte) (*types.Linking, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil, types.ErrEmptyResult
	}

	var w wireLinking
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("%w: decoding linking: %v", types.ErrMalformed, err)
	}
	if w.Entities == nil {
		return nil, types.ErrEmptyResult
	}

	linking := &types.Linking{Entities: make([]types.EntityMention, 0, len(*w.Entities))}
	for i, m := range *w.Entities {
		if m.Entity == nil || m.TokenStart == nil || m.TokenEnd == nil {
			return nil, fmt.Errorf("%w: entity %d lacks entity, token_start, or token_end", types.ErrMalformed, i)
		}
		linking.Entities = append(linking.Entities, types.EntityMention{
			Entity:     *m.Entity,
			TokenStart: *m.TokenStart,
			TokenEnd:   *m.TokenEnd,
			Synset:     m.Synset,
		})
	}
	return linking, nil
}
