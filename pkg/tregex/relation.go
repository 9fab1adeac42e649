/*
 * Copyright 2026 Go Tregex Authors
 *
 * SPDX-License-Identifier: Apache-2.0
 */

package tregex

// relation is the predicate/iterator pair spec.md §4.B describes: test
// answers whether "this R that" holds; iter yields every that for which it
// holds. The matcher evaluates relations through iter only; test serves
// direct pairwise checks such as the relation unit tests.
type relation struct {
	test func(this, that Tree) bool
	iter func(this Tree) NodeIter
}

func containsIdentity(list []Tree, t Tree) bool {
	for _, c := range list {
		if c.Equal(t) {
			return true
		}
	}
	return false
}

func indexOfChild(parent, child Tree) int {
	for i, c := range parent.Children() {
		if c.Equal(child) {
			return i
		}
	}
	return -1
}

// childAt resolves the spec.md §4.B 1-indexed, negative-from-the-right
// child index convention (leftmost is 1, -1 is the rightmost).
func childAt(parent Tree, k int) (Tree, bool) {
	return elementAt(parent.Children(), k)
}

func elementAt(list []Tree, k int) (Tree, bool) {
	n := len(list)
	var idx int
	switch {
	case k > 0:
		idx = k - 1
	case k < 0:
		idx = n + k
	default:
		return nil, false
	}
	if idx < 0 || idx >= n {
		return nil, false
	}
	return list[idx], true
}

func ancestorsExclusive(t Tree) []Tree {
	var out []Tree
	cur := t
	for {
		p, ok := cur.Parent()
		if !ok {
			return out
		}
		out = append(out, p)
		cur = p
	}
}

func ancestorsInclusive(t Tree) []Tree {
	return append([]Tree{t}, ancestorsExclusive(t)...)
}

func rootOf(t Tree) Tree {
	cur := t
	for {
		p, ok := cur.Parent()
		if !ok {
			return cur
		}
		cur = p
	}
}

// leftSpine walks repeated first-children below t, excluding t itself.
func leftSpine(t Tree) []Tree {
	var out []Tree
	cur := t
	for {
		children := cur.Children()
		if len(children) == 0 {
			return out
		}
		cur = children[0]
		out = append(out, cur)
	}
}

// rightSpine walks repeated last-children below t, excluding t itself.
func rightSpine(t Tree) []Tree {
	var out []Tree
	cur := t
	for {
		children := cur.Children()
		if len(children) == 0 {
			return out
		}
		cur = children[len(children)-1]
		out = append(out, cur)
	}
}

// leftSpineAncestors walks upward from t as long as each node is its
// parent's first child, i.e. the ancestors for which t is on their
// leftSpine.
func leftSpineAncestors(t Tree) []Tree {
	var out []Tree
	node := t
	for {
		p, ok := node.Parent()
		if !ok {
			return out
		}
		children := p.Children()
		if len(children) == 0 || !children[0].Equal(node) {
			return out
		}
		out = append(out, p)
		node = p
	}
}

// rightSpineAncestors is the mirror of leftSpineAncestors for last-children.
func rightSpineAncestors(t Tree) []Tree {
	var out []Tree
	node := t
	for {
		p, ok := node.Parent()
		if !ok {
			return out
		}
		children := p.Children()
		if len(children) == 0 || !children[len(children)-1].Equal(node) {
			return out
		}
		out = append(out, p)
		node = p
	}
}

// leafDescendants lists t's proper leaf descendants in left-to-right order.
func leafDescendants(t Tree) []Tree {
	var out []Tree
	it := t.PreorderIter()
	first := true
	for n, ok := it(); ok; n, ok = it() {
		if first {
			first = false
			continue
		}
		if isLeaf(n) {
			out = append(out, n)
		}
	}
	return out
}

// unaryDescendants walks downward while every node on the path has exactly
// one child (spec.md §4.B "<<:").
func unaryDescendants(t Tree) []Tree {
	var out []Tree
	node := t
	for {
		children := node.Children()
		if len(children) != 1 {
			return out
		}
		node = children[0]
		out = append(out, node)
	}
}

// unaryAncestors walks upward while every node on the path has exactly one
// child (spec.md §4.B ">>:").
func unaryAncestors(t Tree) []Tree {
	var out []Tree
	node := t
	for {
		p, ok := node.Parent()
		if !ok {
			return out
		}
		if len(p.Children()) != 1 {
			return out
		}
		out = append(out, p)
		node = p
	}
}

// headDescendants walks t's head-child chain down to (and including) its
// head terminal.
func headDescendants(t Tree) []Tree {
	var out []Tree
	node := t
	for {
		hc, ok := node.HeadChild()
		if !ok {
			return out
		}
		out = append(out, hc)
		node = hc
	}
}

// headAncestors walks upward from t while each step is reached by
// following the parent's HeadChild link.
func headAncestors(t Tree) []Tree {
	var out []Tree
	node := t
	for {
		p, ok := node.Parent()
		if !ok {
			return out
		}
		hc, ok := p.HeadChild()
		if !ok || !hc.Equal(node) {
			return out
		}
		out = append(out, p)
		node = p
	}
}

// lcaSiblingIndices finds the lowest common ancestor of a and b and returns
// the indices, under that ancestor, of the children containing a and b
// respectively. ok is false if a and b live in different trees or one
// dominates the other (precedence is undefined in either case).
func lcaSiblingIndices(a, b Tree) (ia, ib int, ok bool) {
	achain := ancestorsInclusive(a)
	bchain := ancestorsInclusive(b)
	i, j := len(achain)-1, len(bchain)-1
	for i >= 0 && j >= 0 && achain[i].Equal(bchain[j]) {
		i--
		j--
	}
	if i == len(achain)-1 {
		return 0, 0, false // different roots: no common ancestor
	}
	if i < 0 || j < 0 {
		return 0, 0, false
	}
	lca := achain[i+1]
	ia = indexOfChild(lca, achain[i])
	ib = indexOfChild(lca, bchain[j])
	if ia < 0 || ib < 0 {
		return 0, 0, false
	}
	return ia, ib, true
}

func precedesTest(this, that Tree) bool {
	if this.Equal(that) {
		return false
	}
	ia, ib, ok := lcaSiblingIndices(this, that)
	return ok && ia < ib
}

// leafIndexMap maps every leaf under root to its position in the tree's
// left-to-right leaf order.
func leafIndexMap(root Tree) map[Tree]int {
	idx := map[Tree]int{}
	i := 0
	it := root.PreorderIter()
	for n, ok := it(); ok; n, ok = it() {
		if isLeaf(n) {
			idx[n] = i
			i++
		}
	}
	return idx
}

func outerLeaf(t Tree, rightmost bool) Tree {
	node := t
	for {
		children := node.Children()
		if len(children) == 0 {
			return node
		}
		if rightmost {
			node = children[len(children)-1]
		} else {
			node = children[0]
		}
	}
}

func immediatelyPrecedesTest(this, that Tree) bool {
	if !precedesTest(this, that) {
		return false
	}
	idx := leafIndexMap(rootOf(this))
	return idx[outerLeaf(this, true)]+1 == idx[outerLeaf(that, false)]
}

// plainRelations is the symbol table for every relation not carrying an
// explicit numeric or string argument (spec.md §4.B RELATION_MAP).
var plainRelations = buildPlainRelations()

func buildPlainRelations() map[string]relation {
	m := map[string]relation{}

	m["<"] = relation{
		test: func(this, that Tree) bool { p, ok := that.Parent(); return ok && p.Equal(this) },
		iter: func(this Tree) NodeIter { return FromNodes(this.Children()...) },
	}
	m[">"] = relation{
		test: func(this, that Tree) bool { p, ok := this.Parent(); return ok && p.Equal(that) },
		iter: func(this Tree) NodeIter {
			if p, ok := this.Parent(); ok {
				return FromNode(p)
			}
			return emptyIter
		},
	}
	m["<<"] = relation{
		test: func(this, that Tree) bool { return containsIdentity(ancestorsExclusive(that), this) },
		iter: func(this Tree) NodeIter {
			it := preorderIter(this)
			it() // discard this itself
			return it
		},
	}
	m[">>"] = relation{
		test: func(this, that Tree) bool { return containsIdentity(ancestorsExclusive(this), that) },
		iter: func(this Tree) NodeIter { return FromNodes(ancestorsExclusive(this)...) },
	}
	m[">:"] = relation{
		test: func(this, that Tree) bool {
			p, ok := this.Parent()
			return ok && len(p.Children()) == 1 && p.Equal(that)
		},
		iter: func(this Tree) NodeIter {
			if p, ok := this.Parent(); ok && len(p.Children()) == 1 {
				return FromNode(p)
			}
			return emptyIter
		},
	}
	m["<:"] = relation{
		test: func(this, that Tree) bool {
			children := this.Children()
			return len(children) == 1 && children[0].Equal(that)
		},
		iter: func(this Tree) NodeIter {
			children := this.Children()
			if len(children) == 1 {
				return FromNode(children[0])
			}
			return emptyIter
		},
	}

	lastChildOfParent := relation{
		test: func(this, that Tree) bool {
			children := that.Children()
			return len(children) > 0 && children[len(children)-1].Equal(this)
		},
		iter: func(this Tree) NodeIter {
			if p, ok := this.Parent(); ok {
				children := p.Children()
				if len(children) > 0 && children[len(children)-1].Equal(this) {
					return FromNode(p)
				}
			}
			return emptyIter
		},
	}
	m[">`"] = lastChildOfParent
	m[">-"] = lastChildOfParent

	parentOfLastChild := relation{
		test: func(this, that Tree) bool {
			children := this.Children()
			return len(children) > 0 && children[len(children)-1].Equal(that)
		},
		iter: func(this Tree) NodeIter {
			children := this.Children()
			if len(children) > 0 {
				return FromNode(children[len(children)-1])
			}
			return emptyIter
		},
	}
	m["<`"] = parentOfLastChild
	m["<-"] = parentOfLastChild

	leftmostChildOf := relation{
		test: func(this, that Tree) bool {
			children := that.Children()
			return len(children) > 0 && children[0].Equal(this)
		},
		iter: func(this Tree) NodeIter {
			if p, ok := this.Parent(); ok {
				children := p.Children()
				if len(children) > 0 && children[0].Equal(this) {
					return FromNode(p)
				}
			}
			return emptyIter
		},
	}
	m[">,"] = leftmostChildOf

	hasLeftmostChild := relation{
		test: func(this, that Tree) bool {
			children := this.Children()
			return len(children) > 0 && children[0].Equal(that)
		},
		iter: func(this Tree) NodeIter {
			children := this.Children()
			if len(children) > 0 {
				return FromNode(children[0])
			}
			return emptyIter
		},
	}
	m["<,"] = hasLeftmostChild

	hasRightmostDescendant := relation{
		test: func(this, that Tree) bool { return containsIdentity(rightSpine(this), that) },
		iter: func(this Tree) NodeIter { return FromNodes(rightSpine(this)...) },
	}
	m["<<`"] = hasRightmostDescendant
	m["<<-"] = hasRightmostDescendant

	rightmostDescendantOf := relation{
		test: func(this, that Tree) bool { return containsIdentity(rightSpine(that), this) },
		iter: func(this Tree) NodeIter { return FromNodes(rightSpineAncestors(this)...) },
	}
	m[">>`"] = rightmostDescendantOf
	m[">>-"] = rightmostDescendantOf

	leftmostDescendantOf := relation{
		test: func(this, that Tree) bool { return containsIdentity(leftSpine(that), this) },
		iter: func(this Tree) NodeIter { return FromNodes(leftSpineAncestors(this)...) },
	}
	m[">>,"] = leftmostDescendantOf

	hasLeftmostDescendant := relation{
		test: func(this, that Tree) bool { return containsIdentity(leftSpine(this), that) },
		iter: func(this Tree) NodeIter { return FromNodes(leftSpine(this)...) },
	}
	m["<<,"] = hasLeftmostDescendant

	sisters := func(this Tree) (siblings []Tree, idx int, ok bool) {
		p, ok := this.Parent()
		if !ok {
			return nil, 0, false
		}
		children := p.Children()
		return children, indexOfChild(p, this), true
	}

	leftSisterOf := relation{
		test: func(this, that Tree) bool {
			siblings, idx, ok := sisters(this)
			if !ok {
				return false
			}
			j := indexOfChild(parentOf(that), that)
			return j > idx && hasSameParent(this, that) && len(siblings) > 0
		},
		iter: func(this Tree) NodeIter {
			siblings, idx, ok := sisters(this)
			if !ok {
				return emptyIter
			}
			return FromNodes(siblings[idx+1:]...)
		},
	}
	m["$.."] = leftSisterOf
	m["$++"] = leftSisterOf

	rightSisterOf := relation{
		test: func(this, that Tree) bool {
			siblings, idx, ok := sisters(this)
			if !ok {
				return false
			}
			j := indexOfChild(parentOf(that), that)
			return j >= 0 && j < idx && hasSameParent(this, that) && len(siblings) > 0
		},
		iter: func(this Tree) NodeIter {
			siblings, idx, ok := sisters(this)
			if !ok {
				return emptyIter
			}
			return FromNodes(siblings[:idx]...)
		},
	}
	m["$--"] = rightSisterOf
	m["$,,"] = rightSisterOf

	immediateLeftSisterOf := relation{
		test: func(this, that Tree) bool {
			siblings, idx, ok := sisters(this)
			return ok && idx >= 0 && idx < len(siblings)-1 && siblings[idx+1].Equal(that)
		},
		iter: func(this Tree) NodeIter {
			siblings, idx, ok := sisters(this)
			if ok && idx >= 0 && idx < len(siblings)-1 {
				return FromNode(siblings[idx+1])
			}
			return emptyIter
		},
	}
	m["$."] = immediateLeftSisterOf
	m["$+"] = immediateLeftSisterOf

	immediateRightSisterOf := relation{
		test: func(this, that Tree) bool {
			siblings, idx, ok := sisters(this)
			return ok && idx > 0 && siblings[idx-1].Equal(that)
		},
		iter: func(this Tree) NodeIter {
			siblings, idx, ok := sisters(this)
			if ok && idx > 0 {
				return FromNode(siblings[idx-1])
			}
			return emptyIter
		},
	}
	m["$-"] = immediateRightSisterOf
	m["$,"] = immediateRightSisterOf

	m["$"] = relation{
		test: func(this, that Tree) bool { return hasSameParent(this, that) && !this.Equal(that) },
		iter: func(this Tree) NodeIter {
			siblings, idx, ok := sisters(this)
			if !ok {
				return emptyIter
			}
			out := make([]Tree, 0, len(siblings)-1)
			for i, s := range siblings {
				if i != idx {
					out = append(out, s)
				}
			}
			return FromNodes(out...)
		},
	}

	m["=="] = relation{
		test: func(this, that Tree) bool { return this.Equal(that) },
		iter: func(this Tree) NodeIter { return FromNode(this) },
	}

	m["<="] = relation{
		test: func(this, that Tree) bool {
			if this.Equal(that) {
				return true
			}
			p, ok := that.Parent()
			return ok && p.Equal(this)
		},
		iter: func(this Tree) NodeIter {
			return FromIterators(FromNode(this), FromNodes(this.Children()...))
		},
	}

	m["<<:"] = relation{
		test: func(this, that Tree) bool { return containsIdentity(unaryDescendants(this), that) },
		iter: func(this Tree) NodeIter { return FromNodes(unaryDescendants(this)...) },
	}
	m[">>:"] = relation{
		test: func(this, that Tree) bool { return containsIdentity(unaryAncestors(this), that) },
		iter: func(this Tree) NodeIter { return FromNodes(unaryAncestors(this)...) },
	}

	m[">#"] = relation{
		test: func(this, that Tree) bool { hc, ok := that.HeadChild(); return ok && hc.Equal(this) },
		iter: func(this Tree) NodeIter {
			if p, ok := this.Parent(); ok {
				if hc, hok := p.HeadChild(); hok && hc.Equal(this) {
					return FromNode(p)
				}
			}
			return emptyIter
		},
	}
	m["<#"] = relation{
		test: func(this, that Tree) bool { hc, ok := this.HeadChild(); return ok && hc.Equal(that) },
		iter: func(this Tree) NodeIter {
			if hc, ok := this.HeadChild(); ok {
				return FromNode(hc)
			}
			return emptyIter
		},
	}
	m[">>#"] = relation{
		test: func(this, that Tree) bool { return containsIdentity(headAncestors(this), that) },
		iter: func(this Tree) NodeIter { return FromNodes(headAncestors(this)...) },
	}
	m["<<#"] = relation{
		test: func(this, that Tree) bool { return containsIdentity(headDescendants(this), that) },
		iter: func(this Tree) NodeIter { return FromNodes(headDescendants(this)...) },
	}

	m[".."] = relation{
		test: precedesTest,
		iter: func(this Tree) NodeIter {
			return filterIter(preorderIter(rootOf(this)), func(n Tree) bool { return precedesTest(this, n) })
		},
	}
	m[",,"] = relation{
		test: func(this, that Tree) bool { return precedesTest(that, this) },
		iter: func(this Tree) NodeIter {
			return filterIter(preorderIter(rootOf(this)), func(n Tree) bool { return precedesTest(n, this) })
		},
	}
	m["."] = relation{
		test: immediatelyPrecedesTest,
		iter: func(this Tree) NodeIter {
			return filterIter(preorderIter(rootOf(this)), func(n Tree) bool { return immediatelyPrecedesTest(this, n) })
		},
	}
	m[","] = relation{
		test: func(this, that Tree) bool { return immediatelyPrecedesTest(that, this) },
		iter: func(this Tree) NodeIter {
			return filterIter(preorderIter(rootOf(this)), func(n Tree) bool { return immediatelyPrecedesTest(n, this) })
		},
	}

	m["<<<"] = relation{
		test: func(this, that Tree) bool { return isLeaf(that) && containsIdentity(ancestorsExclusive(that), this) },
		iter: func(this Tree) NodeIter { return FromNodes(leafDescendants(this)...) },
	}

	// ":" separates independent anchor patterns sharing a back-reference
	// scope (spec.md §4.B). Full cross-pattern reentrancy is not
	// implemented within a single compiled expr; degrading ":" to an
	// identity gate lets patterns that merely mention it still compile and
	// match at the same node instead of failing to lex/parse.
	m[":"] = relation{
		test: func(this, that Tree) bool { return this.Equal(that) },
		iter: func(this Tree) NodeIter { return FromNode(this) },
	}

	return m
}

func parentOf(t Tree) Tree {
	p, _ := t.Parent()
	return p
}

func hasSameParent(a, b Tree) bool {
	pa, oka := a.Parent()
	pb, okb := b.Parent()
	return oka && okb && pa.Equal(pb) && !a.Equal(b)
}

func filterIter(it NodeIter, keep func(Tree) bool) NodeIter {
	return func() (Tree, bool) {
		for {
			n, ok := it()
			if !ok {
				return nil, false
			}
			if keep(n) {
				return n, true
			}
		}
	}
}

// numArgRelation builds the relation for a RELATION token followed by a
// NUMBER (spec.md §4.E/§4.F "REL_W_NUM_ARG"). symbol is the lexed relation
// text (e.g. ">", ">-", "<<<-"); k is already sign-adjusted by the parser
// for "-"-suffixed symbols.
func numArgRelation(symbol string, k int) (relation, error) {
	switch symbol {
	case ">", ">-":
		return relation{
			test: func(this, that Tree) bool {
				c, ok := childAt(that, k)
				return ok && c.Equal(this)
			},
			iter: func(this Tree) NodeIter {
				if p, ok := this.Parent(); ok {
					if c, ok2 := childAt(p, k); ok2 && c.Equal(this) {
						return FromNode(p)
					}
				}
				return emptyIter
			},
		}, nil

	case "<", "<-":
		return relation{
			test: func(this, that Tree) bool {
				c, ok := childAt(this, k)
				return ok && c.Equal(that)
			},
			iter: func(this Tree) NodeIter {
				if c, ok := childAt(this, k); ok {
					return FromNode(c)
				}
				return emptyIter
			},
		}, nil

	case "<<<", "<<<-":
		return relation{
			test: func(this, that Tree) bool {
				c, ok := elementAt(leafDescendants(this), k)
				return ok && c.Equal(that)
			},
			iter: func(this Tree) NodeIter {
				if c, ok := elementAt(leafDescendants(this), k); ok {
					return FromNode(c)
				}
				return emptyIter
			},
		}, nil
	}
	return relation{}, &SemanticError{Msg: "relation " + symbol + " does not take a numeric argument"}
}

// strArgRelation builds the relation for a REL_W_STR_ARG form applied to
// the already-resolved set of category nodes (spec.md §4.B unbroken-category
// relations). A direct child/parent/sister always qualifies (zero
// intermediates); reaching further requires every strictly-intervening node
// to be in categories.
func strArgRelation(symbol string, categories []Tree) (relation, error) {
	switch symbol {
	case "<+":
		return relation{
			iter: func(this Tree) NodeIter { return FromNodes(unbrokenDescendants(this, categories)...) },
			test: func(this, that Tree) bool { return containsIdentity(unbrokenDescendants(this, categories), that) },
		}, nil

	case ">+":
		return relation{
			iter: func(this Tree) NodeIter { return FromNodes(unbrokenAncestors(this, categories)...) },
			test: func(this, that Tree) bool { return containsIdentity(unbrokenAncestors(this, categories), that) },
		}, nil

	case ".+":
		return relation{
			iter: func(this Tree) NodeIter { return FromNodes(unbrokenFollowingSisters(this, categories)...) },
			test: func(this, that Tree) bool { return containsIdentity(unbrokenFollowingSisters(this, categories), that) },
		}, nil

	case ",+":
		return relation{
			iter: func(this Tree) NodeIter { return FromNodes(unbrokenPrecedingSisters(this, categories)...) },
			test: func(this, that Tree) bool { return containsIdentity(unbrokenPrecedingSisters(this, categories), that) },
		}, nil
	}
	return relation{}, &SemanticError{Msg: "relation " + symbol + " does not take a category argument"}
}

func unbrokenDescendants(start Tree, categories []Tree) []Tree {
	var out []Tree
	var walk func(Tree)
	walk = func(node Tree) {
		for _, c := range node.Children() {
			out = append(out, c)
			if containsIdentity(categories, c) {
				walk(c)
			}
		}
	}
	walk(start)
	return out
}

func unbrokenAncestors(start Tree, categories []Tree) []Tree {
	var out []Tree
	cur := start
	for {
		p, ok := cur.Parent()
		if !ok {
			return out
		}
		out = append(out, p)
		if !containsIdentity(categories, p) {
			return out
		}
		cur = p
	}
}

func unbrokenFollowingSisters(start Tree, categories []Tree) []Tree {
	p, ok := start.Parent()
	if !ok {
		return nil
	}
	siblings := p.Children()
	idx := indexOfChild(p, start)
	var out []Tree
	for i := idx + 1; i < len(siblings); i++ {
		out = append(out, siblings[i])
		if !containsIdentity(categories, siblings[i]) {
			break
		}
	}
	return out
}

func unbrokenPrecedingSisters(start Tree, categories []Tree) []Tree {
	p, ok := start.Parent()
	if !ok {
		return nil
	}
	siblings := p.Children()
	idx := indexOfChild(p, start)
	var out []Tree
	for i := idx - 1; i >= 0; i-- {
		out = append(out, siblings[i])
		if !containsIdentity(categories, siblings[i]) {
			break
		}
	}
	return out
}
