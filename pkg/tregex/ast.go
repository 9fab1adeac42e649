/*
 * Copyright 2026 Go Tregex Authors
 *
 * SPDX-License-Identifier: Apache-2.0
 */

package tregex

// condKind is the closed sum type spec.md §3 calls for in place of the
// reference implementation's dynamic dispatch: every Condition node is one
// of these five shapes.
type condKind int

const (
	condRel condKind = iota
	condAnd
	condOr
	condNot
	condOpt
)

// cond is one node of a compiled Condition tree. rel/desc are populated for
// condRel only; children holds the operands of And/Or (>=1) and Not/Opt
// (exactly 1).
type cond struct {
	kind     condKind
	rel      *relDescriptor
	desc     *nodeDescriptions
	children []*cond
}

func newRelCond(rel *relDescriptor, desc *nodeDescriptions) *cond {
	return &cond{kind: condRel, rel: rel, desc: desc}
}

func newAndCond(children ...*cond) *cond {
	if len(children) == 1 {
		return children[0]
	}
	return &cond{kind: condAnd, children: children}
}

func newOrCond(children ...*cond) *cond {
	if len(children) == 1 {
		return children[0]
	}
	return &cond{kind: condOr, children: children}
}

func newNotCond(child *cond) *cond {
	return &cond{kind: condNot, children: []*cond{child}}
}

func newOptCond(child *cond) *cond {
	return &cond{kind: condOpt, children: []*cond{child}}
}

// relationKind distinguishes the three argument shapes a relation token can
// carry (spec.md §4.E/§4.F).
type relationKind int

const (
	relPlain relationKind = iota
	relNumArg
	relStrArg
)

// relDescriptor is the parsed, not-yet-resolved form of a relation use. Plain
// relations resolve immediately at parse time; NumArg and StrArg relations
// resolve at eval time because StrArg needs the live set of roots to find
// its category nodes.
type relDescriptor struct {
	kind   relationKind
	symbol string

	plain relation // relPlain

	num int // relNumArg: already sign-adjusted by the parser

	category *nodeDescriptions // relStrArg: the "(named_nodes)" category query
}

func (rd *relDescriptor) resolve(ctx *evalCtx) (relation, error) {
	switch rd.kind {
	case relPlain:
		return rd.plain, nil
	case relNumArg:
		return numArgRelation(rd.symbol, rd.num)
	case relStrArg:
		cats := ctx.categoryNodes(rd)
		return strArgRelation(rd.symbol, cats)
	}
	panic("tregex: unreachable relDescriptor kind")
}

// nodeDescriptions is spec.md §3's NodeDescriptions: a disjunction of
// nodeDescription alternatives, the under_negation/use_basic_cat flags, an
// optional conjoined Condition evaluated at the matched node, an optional
// name, and (if this occurrence is a bare back-reference use) the name of
// the slot it must match against identically.
type nodeDescriptions struct {
	alternatives  []*nodeDescription
	underNegation bool
	useBasicCat   bool
	condition     *cond

	name string // "" if this occurrence introduces no name

	isBackref   bool   // true for a bare "=ID" use
	backrefName string // the name being referenced, when isBackref
}

// backRefSlot accumulates every node bound to a given name over the course
// of one FindAll call, in match order. This is the arena-of-slots design
// spec.md's Design Notes §9 calls for in place of the reference
// implementation's mutable-aliasing BackRef object: a NodeDescriptions
// never holds a node list itself, only a name, and every read/write goes
// through the matcher's evalCtx.
type backRefSlot struct {
	nodes []Tree
}
