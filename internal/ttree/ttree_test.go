/*
 * Copyright 2026 Go Tregex Authors
 *
 * SPDX-License-Identifier: Apache-2.0
 */

package ttree

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"
)

func TestParseBasicShape(t *testing.T) {
	root, err := Parse("(S (NP (DT the) (NN cat)) (VP (VBZ sleeps)))")
	require.NoError(t, err)

	label, ok := root.Label()
	require.True(t, ok)
	require.Equal(t, "S", label)
	require.Len(t, root.Children(), 2)

	np := root.Children()[0].(*Node)
	npLabel, _ := np.Label()
	require.Equal(t, "NP", npLabel)
	require.Len(t, np.Children(), 2)

	dt := np.Children()[0].(*Node)
	require.False(t, isLeafNode(dt))
	dtLabel, _ := dt.Label()
	require.Equal(t, "DT", dtLabel)
	require.Len(t, dt.Children(), 1)

	word := dt.Children()[0].(*Node)
	wordLabel, _ := word.Label()
	require.Equal(t, "the", wordLabel)
	require.Empty(t, word.Children())
}

func isLeafNode(n *Node) bool {
	return len(n.Children()) == 0
}

func TestParentLinksAndEquality(t *testing.T) {
	root, err := Parse("(S (NP (DT the) (NN cat)) (VP (VBZ sleeps)))")
	require.NoError(t, err)

	np := root.Children()[0]
	parent, ok := np.Parent()
	require.True(t, ok)
	require.True(t, parent.Equal(root))

	_, ok = root.Parent()
	require.False(t, ok)
}

func TestBasicCategoryTruncation(t *testing.T) {
	root, err := Parse("(NP-SBJ (DT the) (NN cat))")
	require.NoError(t, err)
	cat, ok := root.BasicCategory()
	require.True(t, ok)
	require.Equal(t, "NP", cat)

	none, err := Parse("(-NONE- *)")
	require.NoError(t, err)
	cat, ok = none.BasicCategory()
	require.True(t, ok)
	require.Equal(t, "-NONE-", cat)
}

func TestPreorderIterVisitsSelfFirst(t *testing.T) {
	root, err := Parse("(S (NP (DT the) (NN cat)) (VP (VBZ sleeps)))")
	require.NoError(t, err)

	it := root.PreorderIter()
	var labels []string
	for n, ok := it(); ok; n, ok = it() {
		lbl, _ := n.Label()
		labels = append(labels, lbl)
	}
	require.Equal(t, []string{"S", "NP", "DT", "the", "NN", "cat", "VP", "VBZ", "sleeps"}, labels)
}

func TestHeadChildDefaultsToLastChildOrExplicitMarker(t *testing.T) {
	root, err := Parse("(VP (VBZ sleeps) (ADVP quickly))")
	require.NoError(t, err)
	head, ok := root.HeadChild()
	require.True(t, ok)
	lbl, _ := head.Label()
	require.Equal(t, "ADVP", lbl)

	marked, err := Parse("(VP (VBZ^ sleeps) (ADVP quickly))")
	require.NoError(t, err)
	head, ok = marked.HeadChild()
	require.True(t, ok)
	lbl, _ = head.Label()
	require.Equal(t, "VBZ", lbl)
}

// cmpOpts compares two Nodes by shape, ignoring the parent back-pointer
// (cmp would otherwise walk it into an infinite cycle) and the computed
// headIdx, which TestHeadMarkerIsStructurallyIrrelevant varies deliberately.
var cmpOpts = []cmp.Option{
	cmp.AllowUnexported(Node{}),
	cmpopts.IgnoreFields(Node{}, "parent", "headIdx"),
}

func TestHeadMarkerIsStructurallyIrrelevant(t *testing.T) {
	// The "^" head marker is stripped from the label during parsing, so two
	// trees differing only in which child carries it are structurally
	// identical once parsed.
	plain, err := Parse("(VP (VBZ sleeps) (ADVP quickly))")
	require.NoError(t, err)
	marked, err := Parse("(VP (VBZ^ sleeps) (ADVP quickly))")
	require.NoError(t, err)

	if diff := cmp.Diff(plain, marked, cmpOpts...); diff != "" {
		t.Fatalf("parsed trees differ beyond head marking (-plain +marked):\n%s", diff)
	}
}

func TestReparsingIsStable(t *testing.T) {
	const src = "(S (NP (DT the) (NN cat)) (VP (VBZ sleeps)))"
	a, err := Parse(src)
	require.NoError(t, err)
	b, err := Parse(src)
	require.NoError(t, err)

	if diff := cmp.Diff(a, b, cmpOpts...); diff != "" {
		t.Fatalf("parsing %q twice produced different trees (-a +b):\n%s", src, diff)
	}
}
