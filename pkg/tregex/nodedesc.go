/*
 * Copyright 2026 Go Tregex Authors
 *
 * SPDX-License-Identifier: Apache-2.0
 */

package tregex

import (
	"strings"

	"github.com/dlclark/regexp2"
)

// nodeOp is the closed set of single-node predicates spec.md §4.C names:
// ID, REGEX, BLANK and ROOT.
type nodeOp int

const (
	opID nodeOp = iota
	opRegex
	opBlank
	opRoot
)

// nodeDescription is one disjunct of a NodeDescriptions group (spec.md §3).
type nodeDescription struct {
	op    nodeOp
	value string // literal id, or the original "/pat/flags" text
	re    *regexp2.Regexp
}

func idDescription(value string) *nodeDescription {
	return &nodeDescription{op: opID, value: value}
}

func blankDescription() *nodeDescription {
	return &nodeDescription{op: opBlank, value: "__"}
}

func rootDescription() *nodeDescription {
	return &nodeDescription{op: opRoot, value: "ROOT"}
}

// newRegexDescription compiles a lexed REGEX token ("/pattern/flags") into
// a nodeDescription. Only the "i" and "x" flags are accepted; anything else
// is a SemanticError (spec.md §4.C, §7).
func newRegexDescription(raw string, pattern string, pos int) (*nodeDescription, error) {
	lastSlash := strings.LastIndexByte(raw, '/')
	if lastSlash <= 0 {
		return nil, &SemanticError{Pattern: pattern, Pos: pos, Msg: "malformed regular expression literal"}
	}
	body := raw[1:lastSlash]
	flags := raw[lastSlash+1:]

	opts := regexp2.None
	for _, f := range flags {
		switch f {
		case 'i':
			opts |= regexp2.IgnoreCase
		case 'x':
			opts |= regexp2.IgnorePatternWhitespace
		default:
			return nil, &SemanticError{
				Pattern: pattern,
				Pos:     pos,
				Msg:     "unsupported regular expression flag " + strconvQuoteRune(f),
			}
		}
	}

	re, err := regexp2.Compile(body, opts)
	if err != nil {
		return nil, &SemanticError{Pattern: pattern, Pos: pos, Msg: "invalid regular expression: " + err.Error()}
	}

	return &nodeDescription{op: opRegex, value: raw, re: re}, nil
}

func strconvQuoteRune(r rune) string {
	return "'" + string(r) + "'"
}

// satisfies implements NODE_ID/NODE_REGEX/NODE_BLANK/NODE_ROOT from
// spec.md §4.C, each XORed with underNegation.
func (d *nodeDescription) satisfies(t Tree, underNegation, useBasicCat bool) bool {
	switch d.op {
	case opBlank:
		return !underNegation

	case opRoot:
		return isRoot(t) != underNegation

	case opID:
		value, ok := labelAttr(t, useBasicCat)
		if !ok {
			return underNegation
		}
		return (value == d.value) != underNegation

	case opRegex:
		value, ok := labelAttr(t, useBasicCat)
		if !ok {
			return underNegation
		}
		matched, err := d.re.MatchString(value)
		if err != nil {
			return underNegation
		}
		return matched != underNegation
	}
	return false
}

// labelAttr returns either the node's label or its basic category,
// depending on the enclosing NodeDescriptions' use_basic_cat flag.
func labelAttr(t Tree, useBasicCat bool) (string, bool) {
	if useBasicCat {
		return t.BasicCategory()
	}
	return t.Label()
}
