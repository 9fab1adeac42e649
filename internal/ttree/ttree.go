/*
 * Copyright 2026 Go Tregex Authors
 *
 * SPDX-License-Identifier: Apache-2.0
 */

// Package ttree is a small bracket-notation parse tree, used only as a test
// fixture for pkg/tregex. It is not part of the public API: production
// callers bring their own Tree implementation (a real parser/treebank
// reader), which this package deliberately stays out of the way of.
package ttree

import (
	"fmt"
	"strings"

	"github.com/go-treematch/tregex/pkg/tregex"
)

// Node is a bracket-notation tree node, e.g. the root of
// "(S (NP (DT the) (NN cat)) (VP (VBZ sleeps)))".
type Node struct {
	label    string
	hasLabel bool
	parent   *Node
	children []*Node

	// headIdx is the index into children of the head child, or -1 for a
	// leaf or a node with no head. Head-finding here is a fixed stand-in
	// for the external head-finding table spec.md §2 calls out of scope:
	// a child written with a trailing "^" in its label is the head;
	// absent that marker, the last child is.
	headIdx int
}

var _ tregex.Tree = (*Node)(nil)

func (n *Node) Label() (string, bool) {
	return n.label, n.hasLabel
}

// BasicCategory truncates the label at its first '-', '=' or '#'. A leading
// character is never a cut point, and neither is any later occurrence of
// that same leading character, so Penn-Treebank-style tags like "-NONE-"
// are kept whole.
func (n *Node) BasicCategory() (string, bool) {
	if !n.hasLabel {
		return "", false
	}
	for i := 1; i < len(n.label); i++ {
		switch n.label[i] {
		case '-', '=', '#':
			if n.label[i] == n.label[0] {
				continue
			}
			return n.label[:i], true
		}
	}
	return n.label, true
}

func (n *Node) Parent() (tregex.Tree, bool) {
	if n.parent == nil {
		return nil, false
	}
	return n.parent, true
}

func (n *Node) Children() []tregex.Tree {
	out := make([]tregex.Tree, len(n.children))
	for i, c := range n.children {
		out[i] = c
	}
	return out
}

func (n *Node) PreorderIter() tregex.NodeIter {
	stack := []*Node{n}
	return func() (tregex.Tree, bool) {
		if len(stack) == 0 {
			return nil, false
		}
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for i := len(top.children) - 1; i >= 0; i-- {
			stack = append(stack, top.children[i])
		}
		return top, true
	}
}

func (n *Node) HeadChild() (tregex.Tree, bool) {
	if n.headIdx < 0 || n.headIdx >= len(n.children) {
		return nil, false
	}
	return n.children[n.headIdx], true
}

func (n *Node) HeadTerminal() (tregex.Tree, bool) {
	cur := n
	hc, ok := cur.HeadChild()
	if !ok {
		if len(cur.children) == 0 {
			return cur, true
		}
		return nil, false
	}
	for ok {
		cur = hc.(*Node)
		hc, ok = cur.HeadChild()
	}
	return cur, true
}

func (n *Node) Equal(other tregex.Tree) bool {
	o, ok := other.(*Node)
	return ok && o == n
}

// Parse reads one bracket-notation tree, e.g.
// "(NP (DT the) (NN cat))" or a single bare leaf "cat".
func Parse(s string) (*Node, error) {
	toks := tokenize(s)
	if len(toks) == 0 {
		return nil, fmt.Errorf("ttree: empty input")
	}
	n, rest, err := parseNode(toks)
	if err != nil {
		return nil, err
	}
	if len(rest) != 0 {
		return nil, fmt.Errorf("ttree: unexpected trailing tokens %v", rest)
	}
	return n, nil
}

func tokenize(s string) []string {
	var toks []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			toks = append(toks, cur.String())
			cur.Reset()
		}
	}
	for _, r := range s {
		switch {
		case r == '(' || r == ')':
			flush()
			toks = append(toks, string(r))
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return toks
}

func parseNode(toks []string) (*Node, []string, error) {
	if len(toks) == 0 {
		return nil, nil, fmt.Errorf("ttree: unexpected end of input")
	}

	if toks[0] != "(" {
		// A bare token is a leaf with no children.
		return &Node{label: toks[0], hasLabel: true, headIdx: -1}, toks[1:], nil
	}

	rest := toks[1:]
	if len(rest) == 0 || rest[0] == "(" || rest[0] == ")" {
		return nil, nil, fmt.Errorf("ttree: expected a label after '('")
	}
	label := rest[0]
	rest = rest[1:]

	n := &Node{label: label, hasLabel: true, headIdx: -1}
	for {
		if len(rest) == 0 {
			return nil, nil, fmt.Errorf("ttree: missing ')' for node %q", label)
		}
		if rest[0] == ")" {
			rest = rest[1:]
			break
		}
		var child *Node
		var err error
		child, rest, err = parseNode(rest)
		if err != nil {
			return nil, nil, err
		}
		child.parent = n
		if strings.HasSuffix(child.label, "^") {
			child.label = strings.TrimSuffix(child.label, "^")
			n.headIdx = len(n.children)
		}
		n.children = append(n.children, child)
	}
	if n.headIdx < 0 && len(n.children) > 0 {
		n.headIdx = len(n.children) - 1
	}
	return n, rest, nil
}
