// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package babelfy links entity mentions in tokenized text, either through
// the Babelfy disambiguation API or a service speaking the linker's JSON
// contract directly.
package babelfy

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/pdiddy/kgextract/internal/httputil"
	"github.com/pdiddy/kgextract/pkg/types"
)

// DefaultURL is the Babelfy disambiguation endpoint.
const DefaultURL = "https://babelfy.io/v1/disambiguate"

// fragment is an inclusive [Start, End] range as Babelfy reports it.
type fragment struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// annotation is one element of the Babelfy response array.
type annotation struct {
	TokenFragment fragment `json:"tokenFragment"`
	CharFragment  fragment `json:"charFragment"`
	BabelSynsetID string   `json:"babelSynsetID"`
	DBpediaURL    string   `json:"DBpediaURL"`
	BabelNetURL   string   `json:"BabelNetURL"`
	Score         float64  `json:"score"`
	Source        string   `json:"source"`
}

// apiError is the object Babelfy returns instead of an array on failure.
type apiError struct {
	Message string `json:"message"`
}

// Client calls the Babelfy API.
type Client struct {
	http    *httputil.Client
	baseURL string
	lang    string
	key     string
}

// NewClient returns a Babelfy client. An empty baseURL uses DefaultURL.
func NewClient(hc *httputil.Client, baseURL, lang, key string) (*Client, error) {
	if key == "" {
		return nil, fmt.Errorf("babelfy API key not configured: set linker.api_key or .secrets/babelfy-api-key")
	}
	if baseURL == "" {
		baseURL = DefaultURL
	}
	if lang == "" {
		lang = "EN"
	}
	return &Client{http: hc, baseURL: baseURL, lang: lang, key: key}, nil
}

// Link disambiguates tokenized and returns one mention per annotation.
// Annotations without a DBpedia resource carry types.NullEntity.
func (c *Client) Link(ctx context.Context, tokenized string) (*types.Linking, error) {
	q := url.Values{}
	q.Set("text", tokenized)
	q.Set("lang", c.lang)
	q.Set("key", c.key)

	var raw json.RawMessage
	if err := c.http.GetJSON(ctx, c.baseURL+"?"+q.Encode(), &raw); err != nil {
		return nil, fmt.Errorf("calling babelfy: %w", err)
	}
	return decodeAnnotations(raw)
}

func decodeAnnotations(raw []byte) (*types.Linking, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, types.ErrEmptyResult
	}
	if raw[0] == '{' {
		var apiErr apiError
		if err := json.Unmarshal(raw, &apiErr); err == nil && apiErr.Message != "" {
			return nil, fmt.Errorf("babelfy: %s", apiErr.Message)
		}
		return nil, fmt.Errorf("%w: unexpected babelfy response object", types.ErrMalformed)
	}

	var anns []annotation
	if err := json.Unmarshal(raw, &anns); err != nil {
		return nil, fmt.Errorf("%w: decoding babelfy response: %v", types.ErrMalformed, err)
	}

	linking := &types.Linking{Entities: make([]types.EntityMention, 0, len(anns))}
	for _, a := range anns {
		entity := a.DBpediaURL
		if entity == "" {
			entity = types.NullEntity
		}
		m := types.EntityMention{
			Entity:     entity,
			TokenStart: a.TokenFragment.Start,
			TokenEnd:   a.TokenFragment.End + 1,
		}
		if a.BabelSynsetID != "" {
			m.Synset = types.StringPtr(a.BabelSynsetID)
		}
		linking.Entities = append(linking.Entities, m)
	}
	return linking, nil
}
