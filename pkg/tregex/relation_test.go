/*
 * Copyright 2026 Go Tregex Authors
 *
 * SPDX-License-Identifier: Apache-2.0
 */

package tregex

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// testNode is a minimal in-package Tree fixture so relation_test.go does not
// need to reach outside package tregex for a Tree implementation (that
// would create an import cycle with internal/ttree, which imports this
// package). internal/ttree is the fixture used by the black-box tests in
// pattern_test.go and example_test.go.
type testNode struct {
	label    string
	parent   *testNode
	children []*testNode
	headIdx  int
}

func node(label string, headIdx int, children ...*testNode) *testNode {
	n := &testNode{label: label, headIdx: headIdx}
	for _, c := range children {
		c.parent = n
	}
	n.children = children
	return n
}

func (n *testNode) Label() (string, bool)         { return n.label, true }
func (n *testNode) BasicCategory() (string, bool) { return n.label, true }
func (n *testNode) Parent() (Tree, bool) {
	if n.parent == nil {
		return nil, false
	}
	return n.parent, true
}
func (n *testNode) Children() []Tree {
	out := make([]Tree, len(n.children))
	for i, c := range n.children {
		out[i] = c
	}
	return out
}
func (n *testNode) PreorderIter() NodeIter { return preorderIter(n) }
func (n *testNode) HeadChild() (Tree, bool) {
	if n.headIdx < 0 || n.headIdx >= len(n.children) {
		return nil, false
	}
	return n.children[n.headIdx], true
}
func (n *testNode) HeadTerminal() (Tree, bool) {
	cur := n
	for len(cur.children) > 0 {
		hc, ok := cur.HeadChild()
		if !ok {
			return nil, false
		}
		cur = hc.(*testNode)
	}
	return cur, true
}
func (n *testNode) Equal(other Tree) bool {
	o, ok := other.(*testNode)
	return ok && o == n
}

// buildSample constructs:
//
//	(S (NP (DT the) (NN cat)) (VP (VBZ sleeps) (ADVP quickly)))
//
// with VP's head child marked as VBZ (index 0).
func buildSample() *testNode {
	dt := node("DT", -1)
	nn := node("NN", -1)
	np := node("NP", -1, dt, nn)

	vbz := node("VBZ", -1)
	advp := node("ADVP", -1)
	vp := node("VP", 0, vbz, advp)

	return node("S", 1, np, vp)
}

func TestRelationParentAndChild(t *testing.T) {
	s := buildSample()
	np := s.children[0]
	dt := np.children[0]

	require.True(t, plainRelations["<"].test(np, dt))
	require.False(t, plainRelations["<"].test(dt, np))
	require.True(t, plainRelations[">"].test(dt, np))

	kids := plainRelations["<"].iter(np).ToSlice()
	require.Len(t, kids, 2)
}

func TestRelationDominatesAndDominatedBy(t *testing.T) {
	s := buildSample()
	nn := s.children[0].children[1]

	require.True(t, plainRelations["<<"].test(s, nn))
	require.False(t, plainRelations["<<"].test(nn, s))
	require.True(t, plainRelations[">>"].test(nn, s))
}

func TestRelationSisters(t *testing.T) {
	s := buildSample()
	vbz := s.children[1].children[0]
	advp := s.children[1].children[1]

	require.True(t, plainRelations["$++"].test(vbz, advp))
	require.False(t, plainRelations["$++"].test(advp, vbz))
	require.True(t, plainRelations["$+"].test(vbz, advp))
	require.True(t, plainRelations["$"].test(vbz, advp))
}

func TestRelationFirstAndLastChild(t *testing.T) {
	s := buildSample()
	np := s.children[0]
	dt := np.children[0]
	nn := np.children[1]

	require.True(t, plainRelations["<,"].test(np, dt))
	require.True(t, plainRelations["<-"].test(np, nn))
	require.True(t, plainRelations[">-"].test(nn, np))
}

func TestRelationHeads(t *testing.T) {
	s := buildSample()
	vp := s.children[1]
	vbz := vp.children[0]

	require.True(t, plainRelations["<#"].test(vp, vbz))
	require.True(t, plainRelations[">#"].test(vbz, vp))
	require.True(t, plainRelations["<<#"].test(s, vbz))
	require.True(t, plainRelations[">>#"].test(vbz, s))
}

func TestRelationPrecedesAndImmediatelyPrecedes(t *testing.T) {
	s := buildSample()
	dt := s.children[0].children[0]
	nn := s.children[0].children[1]
	vbz := s.children[1].children[0]

	require.True(t, precedesTest(dt, nn))
	require.True(t, precedesTest(dt, vbz))
	require.False(t, precedesTest(vbz, dt))
	require.True(t, immediatelyPrecedesTest(nn, vbz))
	require.False(t, immediatelyPrecedesTest(dt, vbz))
}

func TestNumArgRelationIthChild(t *testing.T) {
	s := buildSample()
	np := s.children[0]
	dt := np.children[0]
	nn := np.children[1]

	rel, err := numArgRelation("<", 2)
	require.NoError(t, err)
	require.True(t, rel.test(np, nn))
	require.False(t, rel.test(np, dt))

	relNeg, err := numArgRelation("<-", -1)
	require.NoError(t, err)
	require.True(t, relNeg.test(np, nn))
}

func TestStrArgRelationUnbrokenCategory(t *testing.T) {
	//     A
	//    / \
	//   B   E
	//   |
	//   C
	//   |
	//   D
	//
	// Direct children always qualify ("zero intermediates" is vacuously
	// unbroken); going further requires the intervening node itself to
	// match the category set.
	d := node("D", -1)
	c := node("C", -1, d)
	b := node("B", -1, c)
	e := node("E", -1)
	a := node("A", -1, b, e)

	rel, err := strArgRelation("<+", []Tree{b})
	require.NoError(t, err)
	require.True(t, rel.test(a, b))  // direct child, vacuously unbroken
	require.True(t, rel.test(a, e))  // also a direct child
	require.True(t, rel.test(a, c))  // reached via B, which matches the category
	require.False(t, rel.test(a, d)) // C does not match the category, so D is unreachable

	relUp, err := strArgRelation(">+", []Tree{c, b})
	require.NoError(t, err)
	require.True(t, relUp.test(d, c))
	require.True(t, relUp.test(d, b))
	require.True(t, relUp.test(d, a))
}
