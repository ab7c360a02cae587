// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"

	"github.com/pdiddy/kgextract/internal/babelfy"
	"github.com/pdiddy/kgextract/internal/boxer"
	"github.com/pdiddy/kgextract/internal/container"
	"github.com/pdiddy/kgextract/internal/httputil"
	"github.com/pdiddy/kgextract/internal/pipeline"
	"github.com/pdiddy/kgextract/internal/secrets"
	"github.com/pdiddy/kgextract/internal/tokenize"
	"github.com/pdiddy/kgextract/pkg/types"
)

// collaborators builds the tokenizer, parser, and linker selected by cfg.
// The container runtime is detected at most once.
type collaborators struct {
	cfg     types.PipelineConfig
	runtime container.Runtime
}

func (c *collaborators) containerRuntime(ctx context.Context) (container.Runtime, error) {
	if c.runtime != nil {
		return c.runtime, nil
	}
	rt, err := container.DetectRuntime(ctx)
	if err != nil {
		return nil, err
	}
	logger.Debug("using container runtime", "runtime", rt.Name())
	c.runtime = rt
	return rt, nil
}

func (c *collaborators) tokenizer(ctx context.Context) (pipeline.Tokenizer, error) {
	switch c.cfg.Tokenizer.Backend {
	case types.BackendBuiltin:
		return tokenize.Builtin{}, nil
	case types.BackendContainer:
		rt, err := c.containerRuntime(ctx)
		if err != nil {
			return nil, err
		}
		return tokenize.NewContainer(ctx, rt, c.cfg.Tokenizer.Container.Image, c.cfg.Tokenizer.Container.Args)
	default:
		return nil, fmt.Errorf("unknown tokenizer backend %q: use builtin or container", c.cfg.Tokenizer.Backend)
	}
}

func (c *collaborators) parser(ctx context.Context) (pipeline.Parser, error) {
	switch c.cfg.Parser.Backend {
	case types.BackendHTTP:
		client := httputil.NewClient(nil, userAgent(c.cfg.Parser.HTTP.UserAgent))
		client.Token = loadedSecrets[secrets.BoxerToken]
		return boxer.NewHTTPParser(client, c.cfg.Parser.HTTP.URL)
	case types.BackendContainer:
		rt, err := c.containerRuntime(ctx)
		if err != nil {
			return nil, err
		}
		return boxer.NewContainerParser(ctx, rt, c.cfg.Parser.Container.Image, c.cfg.Parser.Container.Args)
	default:
		return nil, fmt.Errorf("unknown parser backend %q: use http or container", c.cfg.Parser.Backend)
	}
}

func (c *collaborators) linker() (pipeline.Linker, error) {
	client := httputil.NewClient(nil, userAgent(c.cfg.Linker.HTTP.UserAgent))
	switch c.cfg.Linker.Backend {
	case types.BackendBabelfy:
		return babelfy.NewClient(client, c.cfg.Linker.HTTP.URL, c.cfg.Linker.Lang, c.cfg.Linker.APIKey)
	case types.BackendHTTP:
		return babelfy.NewHTTPLinker(client, c.cfg.Linker.HTTP.URL)
	default:
		return nil, fmt.Errorf("unknown linker backend %q: use babelfy or http", c.cfg.Linker.Backend)
	}
}

// build returns a pipeline with all three collaborators wired.
func (c *collaborators) build(ctx context.Context) (*pipeline.Pipeline, error) {
	tok, err := c.tokenizer(ctx)
	if err != nil {
		return nil, fmt.Errorf("configuring tokenizer: %w", err)
	}
	parser, err := c.parser(ctx)
	if err != nil {
		return nil, fmt.Errorf("configuring parser: %w", err)
	}
	linker, err := c.linker()
	if err != nil {
		return nil, fmt.Errorf("configuring linker: %w", err)
	}
	return &pipeline.Pipeline{
		Tokenizer: tok,
		Parser:    parser,
		Linker:    linker,
		Config:    c.cfg.Extraction,
		Logger:    logger,
	}, nil
}
