/*
 * Copyright 2026 Go Tregex Authors
 *
 * SPDX-License-Identifier: Apache-2.0
 */

package tregex

// evalCtx is the per-FindAll match context threaded through every eval call:
// the roots available to string-arg category relations, the back-reference
// arena (spec.md Design Notes §9), and a memo of each relDescriptor's
// resolved category set (a string-arg relation's "(named_nodes)" is
// re-searched at most once per FindAll call, not once per candidate).
type evalCtx struct {
	roots         []Tree
	slots         map[string]*backRefSlot
	categoryCache map[*relDescriptor][]Tree
}

func newEvalCtx(roots []Tree) *evalCtx {
	return &evalCtx{
		roots:         roots,
		slots:         map[string]*backRefSlot{},
		categoryCache: map[*relDescriptor][]Tree{},
	}
}

func (ctx *evalCtx) slot(name string) *backRefSlot {
	s, ok := ctx.slots[name]
	if !ok {
		s = &backRefSlot{}
		ctx.slots[name] = s
	}
	return s
}

func (ctx *evalCtx) categoryNodes(rd *relDescriptor) []Tree {
	if cached, ok := ctx.categoryCache[rd]; ok {
		return cached
	}
	out := searchAnchors(rd.category, ctx.roots, ctx)
	ctx.categoryCache[rd] = out
	return out
}

// matchesLabel decides whether node satisfies desc's own label test, i.e.
// the ID/REGEX/BLANK/ROOT disjunction (or, for a bare back-reference use,
// identity membership in the referenced slot), ignoring any conjoined
// condition.
func matchesLabel(desc *nodeDescriptions, node Tree, ctx *evalCtx) bool {
	if desc.isBackref {
		return containsIdentity(ctx.slot(desc.backrefName).nodes, node)
	}
	any := false
	for _, alt := range desc.alternatives {
		if alt.satisfies(node, false, desc.useBasicCat) {
			any = true
			break
		}
	}
	return any != desc.underNegation
}

// matchDesc is the single place a candidate node is checked against a
// NodeDescriptions: label test, then (if present) the conjoined condition,
// then name binding. count mirrors the condition's own multiplicity (1 when
// there is no condition) and is how many times node is appended to desc's
// named slot, matching spec.md §4.G's "each successful anchor is appended...
// as many times as the condition is satisfiable".
//
// A node's own binding logically happens before its condition is evaluated
// (spec.md §8: "foo=a <bar=a << baz=a" against "(foo bar (rab (baz bar)))"
// binds a = [foo, bar, baz], anchor first), but the condition must be
// evaluated first to know the multiplicity. The slot's insertion point is
// therefore captured before eval runs — while eval's own recursive
// matchDesc calls on the relation targets append further down the same
// slot — and node is spliced in at that earlier point afterward.
func matchDesc(desc *nodeDescriptions, node Tree, ctx *evalCtx) (ok bool, count int) {
	if !matchesLabel(desc, node, ctx) {
		return false, 0
	}

	var slot *backRefSlot
	insertAt := 0
	if desc.name != "" {
		slot = ctx.slot(desc.name)
		insertAt = len(slot.nodes)
	}

	count = 1
	if desc.condition != nil {
		count = eval(desc.condition, node, ctx)
		if count == 0 {
			return false, 0
		}
	}

	if slot != nil {
		own := make([]Tree, count)
		for i := range own {
			own[i] = node
		}
		merged := make([]Tree, 0, len(slot.nodes)+count)
		merged = append(merged, slot.nodes[:insertAt]...)
		merged = append(merged, own...)
		merged = append(merged, slot.nodes[insertAt:]...)
		slot.nodes = merged
	}
	return true, count
}

// eval computes a Condition's multiplicity at node: the number of distinct
// ways it is satisfied (spec.md §4.G). And multiplies, Or sums, Not and Opt
// collapse to 0/1 and max(1,n) respectively. All name-binding side effects
// happen through ctx.slots as relation targets are matched; eval itself
// only ever returns a count.
func eval(c *cond, node Tree, ctx *evalCtx) int {
	switch c.kind {
	case condRel:
		return evalRel(c, node, ctx)

	case condAnd:
		count := 1
		for _, child := range c.children {
			n := eval(child, node, ctx)
			if n == 0 {
				return 0
			}
			count *= n
		}
		return count

	case condOr:
		count := 0
		for _, child := range c.children {
			count += eval(child, node, ctx)
		}
		return count

	case condNot:
		if eval(c.children[0], node, ctx) == 0 {
			return 1
		}
		return 0

	case condOpt:
		n := eval(c.children[0], node, ctx)
		if n == 0 {
			return 1
		}
		return n
	}
	panic("tregex: unreachable cond kind")
}

func evalRel(c *cond, node Tree, ctx *evalCtx) int {
	rel, err := c.rel.resolve(ctx)
	if err != nil {
		return 0
	}
	it := rel.iter(node)
	count := 0
	for that, ok := it(); ok; that, ok = it() {
		if matched, _ := matchDesc(c.desc, that, ctx); matched {
			count++
		}
	}
	return count
}

// searchAnchors walks every root in preorder, keeping the nodes that match
// anchor's own label test and (if present) satisfy its conjoined condition,
// repeating each kept node by the condition's multiplicity. It is shared
// between top-level Pattern matching and string-arg relations' category
// resolution (spec.md §4.G item 1, §4.B REL_W_STR_ARG).
func searchAnchors(anchor *nodeDescriptions, roots []Tree, ctx *evalCtx) []Tree {
	var out []Tree
	for _, root := range roots {
		it := root.PreorderIter()
		for node, ok := it(); ok; node, ok = it() {
			if matched, count := matchDesc(anchor, node, ctx); matched {
				for i := 0; i < count; i++ {
					out = append(out, node)
				}
			}
		}
	}
	return out
}
