// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "errors"

// ErrMalformed reports collaborator output whose shape violates its
// contract: a missing required field, an impossible span, an unparsable
// synset. Documents hitting it are skipped.
var ErrMalformed = errors.New("malformed input")

// ErrEmptyResult reports a collaborator that answered without a result.
var ErrEmptyResult = errors.New("empty result")
