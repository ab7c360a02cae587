// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package tokenize splits document text into tokens whose positions are the
// indices every later stage refers to.
package tokenize

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/pdiddy/kgextract/internal/container"
)

// reToken matches a word (letters or digits, optionally joined by internal
// hyphens, apostrophes, or periods) or a single non-space symbol.
var reToken = regexp.MustCompile(`[\p{L}\p{N}]+(?:[-'’.][\p{L}\p{N}]+)*|[^\s\p{L}\p{N}]`)

// clitics are split off the end of a word the way the Penn Treebank does.
var clitics = []string{"n't", "'s", "'re", "'ll", "'ve", "'d", "'m"}

// Builtin is a rule-based tokenizer needing no external service.
type Builtin struct{}

// Tokenize returns the tokens of text. Trailing clitics become their own
// tokens ("don't" -> "do", "n't").
func (Builtin) Tokenize(_ context.Context, text string) ([]string, error) {
	var tokens []string
	for _, tok := range reToken.FindAllString(text, -1) {
		tokens = append(tokens, splitClitic(tok)...)
	}
	return tokens, nil
}

func splitClitic(tok string) []string {
	norm := strings.ReplaceAll(tok, "’", "'")
	lower := strings.ToLower(norm)
	for _, c := range clitics {
		if len(lower) > len(c) && strings.HasSuffix(lower, c) {
			cut := len(norm) - len(c)
			return []string{norm[:cut], norm[cut:]}
		}
	}
	return []string{tok}
}

// Container tokenizes by piping text through a tokenizer image, such as the
// C&C "t" tool, that prints whitespace-separated tokens.
type Container struct {
	runtime container.Runtime
	image   string
	args    []string
}

// NewContainer returns a tokenizer backed by image on rt. It verifies the
// image exists locally before returning.
func NewContainer(ctx context.Context, rt container.Runtime, image string, args []string) (*Container, error) {
	if image == "" {
		return nil, fmt.Errorf("tokenizer image not configured")
	}
	if err := rt.ImageExists(ctx, image); err != nil {
		return nil, fmt.Errorf("tokenizer image not available in %s: %w", rt.Name(), err)
	}
	return &Container{runtime: rt, image: image, args: args}, nil
}

// Tokenize runs the image on text and splits its output on whitespace.
func (c *Container) Tokenize(ctx context.Context, text string) ([]string, error) {
	var out bytes.Buffer
	if err := c.runtime.Run(ctx, c.image, c.args, strings.NewReader(text), &out); err != nil {
		return nil, fmt.Errorf("tokenizing with %s: %w", c.image, err)
	}
	return strings.Fields(out.String()), nil
}
