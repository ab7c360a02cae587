// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package boxer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pdiddy/kgextract/internal/container"
	"github.com/pdiddy/kgextract/internal/httputil"
	"github.com/pdiddy/kgextract/pkg/types"
)

// request is the body posted to a Boxer service.
type request struct {
	Text string `json:"text"`
}

// HTTPParser sends tokenized text to a Boxer service that answers with the
// JSON DRS.
type HTTPParser struct {
	client *httputil.Client
	url    string
}

// NewHTTPParser returns a parser posting to url.
func NewHTTPParser(client *httputil.Client, url string) (*HTTPParser, error) {
	if url == "" {
		return nil, fmt.Errorf("boxer service URL not configured")
	}
	return &HTTPParser{client: client, url: url}, nil
}

// Parse returns the DRS of tokenized.
func (p *HTTPParser) Parse(ctx context.Context, tokenized string) (*types.DRS, error) {
	var raw json.RawMessage
	if err := p.client.PostJSON(ctx, p.url, request{Text: tokenized}, &raw); err != nil {
		return nil, fmt.Errorf("calling boxer: %w", err)
	}
	return Decode(raw)
}

// ContainerParser pipes tokenized text through a Boxer image that prints
// the JSON DRS on stdout.
type ContainerParser struct {
	runtime container.Runtime
	image   string
	args    []string
}

// NewContainerParser returns a parser backed by image on rt. It verifies
// the image exists locally before returning.
func NewContainerParser(ctx context.Context, rt container.Runtime, image string, args []string) (*ContainerParser, error) {
	if image == "" {
		return nil, fmt.Errorf("boxer image not configured")
	}
	if err := rt.ImageExists(ctx, image); err != nil {
		return nil, fmt.Errorf("boxer image not available in %s: %w", rt.Name(), err)
	}
	return &ContainerParser{runtime: rt, image: image, args: args}, nil
}

// Parse returns the DRS of tokenized.
func (p *ContainerParser) Parse(ctx context.Context, tokenized string) (*types.DRS, error) {
	var out bytes.Buffer
	if err := p.runtime.Run(ctx, p.image, p.args, strings.NewReader(tokenized), &out); err != nil {
		return nil, fmt.Errorf("running boxer: %w", err)
	}
	return Decode(out.Bytes())
}
