// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package align merges a document's discourse structure with its entity
// links and synthesizes the document's triples: co-mentions between linked
// entities, and relation triples connecting entities to verb frames.
package align

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pdiddy/kgextract/pkg/types"
)

// ErrMalformed reports input whose shape violates the alignment contract.
// The caller skips the document.
var ErrMalformed = types.ErrMalformed

// FrameLookup resolves a synset key to one or more frame identifiers.
// Implementations must be total and return the fallback frame for unknown
// keys; *frames.Table is the production implementation.
type FrameLookup interface {
	Lookup(key string) []string
}

// Input is everything the engine needs for one document.
type Input struct {
	Tokens  []string
	DRS     *types.DRS
	Linking *types.Linking
	Frames  FrameLookup

	// ComentionPredicate defaults to types.ComentionPredicate.
	ComentionPredicate string
}

// Binding is one entity mention aligned to a logical variable.
type Binding struct {
	Entity string
	Synset string // empty when the mention carries no synset
}

// Buckets maps each DRS variable to the mentions aligned with it, in the
// order predicates and mentions were visited. A variable whose predicates
// matched nothing maps to an empty, non-nil slice.
type Buckets map[string][]Binding

// Output holds the triples of one document split by origin. A relation
// triple equal to a co-mention appears only under Comentions.
type Output struct {
	Comentions []types.Triple
	Relations  []types.Triple
}

// Triples returns co-mentions followed by relation triples.
func (o Output) Triples() []types.Triple {
	out := make([]types.Triple, 0, len(o.Comentions)+len(o.Relations))
	out = append(out, o.Comentions...)
	return append(out, o.Relations...)
}

// Synthesize returns the deduplicated triples of one document, co-mentions
// first, then relation triples. It never mutates in.
func Synthesize(in Input) ([]types.Triple, error) {
	out, err := Align(in)
	if err != nil {
		return nil, err
	}
	return out.Triples(), nil
}

// Align is Synthesize with the co-mention and relation groups kept apart.
func Align(in Input) (Output, error) {
	if len(in.Tokens) == 0 {
		return Output{}, fmt.Errorf("%w: no tokens", ErrMalformed)
	}
	if in.DRS == nil {
		return Output{}, fmt.Errorf("%w: missing discourse structure", ErrMalformed)
	}
	if in.Linking == nil {
		return Output{}, fmt.Errorf("%w: missing entity links", ErrMalformed)
	}

	predicate := in.ComentionPredicate
	if predicate == "" {
		predicate = types.ComentionPredicate
	}

	buckets, err := BuildBuckets(len(in.Tokens), in.DRS.Predicates, in.Linking.Entities)
	if err != nil {
		return Output{}, err
	}

	relations, err := ResolveRelations(buckets, in.DRS.Relations, in.Frames)
	if err != nil {
		return Output{}, err
	}

	seen := make(map[types.Triple]struct{})
	var out Output
	out.Comentions = dedup(Comentions(in.Linking.Entities, predicate), seen)
	out.Relations = dedup(relations, seen)
	return out, nil
}

// dedup returns the triples of ts not yet in seen, in order, and adds them
// to seen.
func dedup(ts []types.Triple, seen map[types.Triple]struct{}) []types.Triple {
	var out []types.Triple
	for _, t := range ts {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// Comentions pairs every two distinct entity identifiers of the document.
// Pairing is over the set of identifiers, so repeated mentions count once,
// and pairs involving types.NullEntity are dropped. Identifiers are sorted
// and each unordered pair is emitted once as (lower, predicate, higher).
func Comentions(mentions []types.EntityMention, predicate string) []types.Triple {
	set := make(map[string]struct{}, len(mentions))
	for _, m := range mentions {
		set[m.Entity] = struct{}{}
	}
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var out []types.Triple
	for i := 0; i < len(ids); i++ {
		if ids[i] == types.NullEntity {
			continue
		}
		for j := i + 1; j < len(ids); j++ {
			if ids[j] == types.NullEntity {
				continue
			}
			out = append(out, types.Triple{Subject: ids[i], Predicate: predicate, Object: ids[j]})
		}
	}
	return out
}

// BuildBuckets aligns each predicate with the entity mentions spanning
// exactly the same tokens. Overlap is not alignment: [2,4) does not match
// [2,5). Predicates with an empty variable, spans outside the document, and
// mentions without an entity identifier are ErrMalformed.
func BuildBuckets(tokenCount int, predicates []types.Predicate, mentions []types.EntityMention) (Buckets, error) {
	for i, m := range mentions {
		if m.Entity == "" {
			return nil, fmt.Errorf("%w: entity mention %d has no entity identifier", ErrMalformed, i)
		}
		if !m.Span().Valid(tokenCount) {
			return nil, fmt.Errorf("%w: entity mention %d span %s outside %d tokens", ErrMalformed, i, m.Span(), tokenCount)
		}
	}

	buckets := make(Buckets)
	for i, p := range predicates {
		if p.Variable == "" {
			return nil, fmt.Errorf("%w: predicate %d has no variable", ErrMalformed, i)
		}
		span := p.Span()
		if !span.Valid(tokenCount) {
			return nil, fmt.Errorf("%w: predicate %d (%s) span %s outside %d tokens", ErrMalformed, i, p.Variable, span, tokenCount)
		}

		bucket, ok := buckets[p.Variable]
		if !ok {
			bucket = []Binding{}
		}
		for _, m := range mentions {
			if m.Span() != span {
				continue
			}
			synset, _ := m.SynsetID()
			bucket = append(bucket, Binding{Entity: m.Entity, Synset: synset})
		}
		buckets[p.Variable] = bucket
	}
	return buckets, nil
}

// ResolveRelations emits (entity, symbol, frame) for every relation whose
// two arguments were introduced by predicates. The first argument supplies
// the event side: only its synset is used, mapped to frames through the
// lookup. The second argument supplies the entity, and null entities are
// skipped before the synset is read, so an event paired only with null
// entities never fails. Events without a synset contribute nothing.
func ResolveRelations(buckets Buckets, relations []types.Relation, lookup FrameLookup) ([]types.Triple, error) {
	if lookup == nil {
		lookup = fallbackLookup{}
	}

	var out []types.Triple
	for i, r := range relations {
		if r.Symbol == "" {
			return nil, fmt.Errorf("%w: relation %d (%s, %s) has no symbol", ErrMalformed, i, r.Arg1, r.Arg2)
		}
		events, ok := buckets[r.Arg1]
		if !ok {
			continue
		}
		entities, ok := buckets[r.Arg2]
		if !ok {
			continue
		}

		for _, event := range events {
			if event.Synset == "" {
				continue
			}
			var frameIDs []string
			for _, entity := range entities {
				if entity.Entity == types.NullEntity {
					continue
				}
				// The synset is only converted once a real pair exists.
				if frameIDs == nil {
					key, err := SynsetKey(event.Synset)
					if err != nil {
						return nil, err
					}
					frameIDs = lookup.Lookup(key)
				}
				for _, frame := range frameIDs {
					out = append(out, types.Triple{Subject: entity.Entity, Predicate: r.Symbol, Object: frame})
				}
			}
		}
	}
	return out, nil
}

// SynsetKey converts a namespaced synset identifier to the frame table key:
// "wn:00035718r" becomes "00035718-r". Everything up to the first colon is
// the namespace; the last character of the remainder is the part of speech.
func SynsetKey(synset string) (string, error) {
	_, body, ok := strings.Cut(synset, ":")
	if !ok {
		return "", fmt.Errorf("%w: synset %q has no namespace", ErrMalformed, synset)
	}
	if i := strings.IndexByte(body, ':'); i >= 0 {
		body = body[:i]
	}
	if len(body) < 2 {
		return "", fmt.Errorf("%w: synset %q is too short", ErrMalformed, synset)
	}
	return body[:len(body)-1] + "-" + body[len(body)-1:], nil
}

type fallbackLookup struct{}

func (fallbackLookup) Lookup(string) []string {
	return []string{types.UnknownFrame}
}
