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

type fakeLabel struct {
	label string
	ok    bool
}

func (f fakeLabel) Label() (string, bool) { return f.label, f.ok }
func (f fakeLabel) BasicCategory() (string, bool) {
	if !f.ok {
		return "", false
	}
	for i := 1; i < len(f.label); i++ {
		if f.label[i] == '-' {
			return f.label[:i], true
		}
	}
	return f.label, true
}
func (f fakeLabel) Parent() (Tree, bool)   { return nil, false }
func (f fakeLabel) Children() []Tree       { return nil }
func (f fakeLabel) PreorderIter() NodeIter { return FromNode(f) }
func (f fakeLabel) HeadChild() (Tree, bool)    { return nil, false }
func (f fakeLabel) HeadTerminal() (Tree, bool) { return nil, false }
func (f fakeLabel) Equal(other Tree) bool {
	o, ok := other.(fakeLabel)
	return ok && o.label == f.label
}

func TestNodeDescriptionID(t *testing.T) {
	d := idDescription("NP")
	require.True(t, d.satisfies(fakeLabel{"NP", true}, false, false))
	require.False(t, d.satisfies(fakeLabel{"VP", true}, false, false))
	require.True(t, d.satisfies(fakeLabel{"VP", true}, true, false))
	require.False(t, d.satisfies(fakeLabel{"", false}, false, false))
	require.True(t, d.satisfies(fakeLabel{"", false}, true, false))
}

func TestNodeDescriptionBlank(t *testing.T) {
	d := blankDescription()
	require.True(t, d.satisfies(fakeLabel{"anything", true}, false, false))
	require.False(t, d.satisfies(fakeLabel{"anything", true}, true, false))
}

func TestNodeDescriptionRoot(t *testing.T) {
	d := rootDescription()
	require.True(t, d.satisfies(fakeLabel{"S", true}, false, false))
}

func TestNodeDescriptionRegexFlags(t *testing.T) {
	d, err := newRegexDescription("/^NP/i", "pattern", 0)
	require.NoError(t, err)
	require.True(t, d.satisfies(fakeLabel{"np-sbj", true}, false, false))

	_, err = newRegexDescription("/^NP/z", "pattern", 0)
	require.Error(t, err)
	var semErr *SemanticError
	require.ErrorAs(t, err, &semErr)
}

func TestNodeDescriptionUseBasicCat(t *testing.T) {
	d := idDescription("NP")
	node := fakeLabel{"NP-SBJ", true}
	require.False(t, d.satisfies(node, false, false))
	require.True(t, d.satisfies(node, false, true))
}
