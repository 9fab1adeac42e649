/*
 * Copyright 2026 Go Tregex Authors
 *
 * SPDX-License-Identifier: Apache-2.0
 */

package tregex

// NodeIter is a lazy, single-pass iterator over Tree nodes: repeated calls
// return the next node and true until the sequence is exhausted, at which
// point every further call returns (nil, false).
//
// The shape mirrors github.com/dprotaso/go-yit's func() (*yaml.Node, bool)
// iterators, generalized from *yaml.Node to the Tree interface so relation
// and matcher code can compose candidate streams the same way the teacher
// composes YAML path segments.
type NodeIter func() (Tree, bool)

// FromNode returns an iterator yielding exactly one node.
func FromNode(t Tree) NodeIter {
	done := false
	return func() (Tree, bool) {
		if done {
			return nil, false
		}
		done = true
		return t, true
	}
}

// FromNodes returns an iterator yielding each of ts in order.
func FromNodes(ts ...Tree) NodeIter {
	i := 0
	return func() (Tree, bool) {
		if i >= len(ts) {
			return nil, false
		}
		t := ts[i]
		i++
		return t, true
	}
}

// emptyIter yields nothing.
func emptyIter() (Tree, bool) {
	return nil, false
}

// FromIterators concatenates a sequence of iterators, in order.
func FromIterators(its ...NodeIter) NodeIter {
	i := 0
	return func() (Tree, bool) {
		for i < len(its) {
			t, ok := its[i]()
			if ok {
				return t, true
			}
			i++
		}
		return nil, false
	}
}

// ToSlice drains it into a slice.
func (it NodeIter) ToSlice() []Tree {
	out := []Tree{}
	for t, ok := it(); ok; t, ok = it() {
		out = append(out, t)
	}
	return out
}

// preorderIter walks t's subtree left-to-right, self first, using only
// Children. The relation iterators use it, and the in-package test fixture
// delegates PreorderIter to it; being unexported, it is not available to
// Tree implementations outside this package, such as internal/ttree.
func preorderIter(t Tree) NodeIter {
	stack := []Tree{t}
	return func() (Tree, bool) {
		if len(stack) == 0 {
			return nil, false
		}
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		children := n.Children()
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, children[i])
		}
		return n, true
	}
}
