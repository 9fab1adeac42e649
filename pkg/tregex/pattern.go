/*
 * Copyright 2026 Go Tregex Authors
 *
 * SPDX-License-Identifier: Apache-2.0
 */

package tregex

import "sync"

// Pattern is a compiled tregex expression: an anchor NodeDescriptions,
// optionally carrying a conjoined Condition tree of trailing relations
// (spec.md §2, §3).
type Pattern struct {
	src    string
	anchor *nodeDescriptions

	mu  sync.Mutex // guards ctx
	ctx *evalCtx
}

// Compile parses and compiles src, returning a TokenizationError,
// ParseError or SemanticError on failure (spec.md §7).
func Compile(src string) (*Pattern, error) {
	anchor, err := parse(src)
	if err != nil {
		return nil, err
	}
	return &Pattern{src: src, anchor: anchor}, nil
}

// String returns the source text p was compiled from.
func (p *Pattern) String() string {
	return p.src
}

// FindAll returns every node in tree matching p, including a duplicate
// entry for each additional way an anchor's conjoined condition can be
// satisfied (spec.md §4.G). It is equivalent to FindAllForest with a single
// root.
func (p *Pattern) FindAll(tree Tree) []Tree {
	return p.FindAllForest([]Tree{tree})
}

// FindAllForest runs p against a forest of root trees that share one
// back-reference scope, as spec.md §4.B's pattern-splitter ":" implies
// independent anchor patterns can do.
func (p *Pattern) FindAllForest(roots []Tree) []Tree {
	ctx := newEvalCtx(roots)
	matches := searchAnchors(p.anchor, roots, ctx)
	p.mu.Lock()
	p.ctx = ctx
	p.mu.Unlock()
	return matches
}

// Bindings returns the nodes bound to name by the most recent FindAll (or
// FindAllForest) call, in the order they were matched. It returns nil if
// name was never bound or no match has been attempted yet; it reflects only
// the most recent call, not the union of every call made against p.
func (p *Pattern) Bindings(name string) []Tree {
	p.mu.Lock()
	ctx := p.ctx
	p.mu.Unlock()
	if ctx == nil {
		return nil
	}
	s, ok := ctx.slots[name]
	if !ok {
		return nil
	}
	return s.nodes
}
