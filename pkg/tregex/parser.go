/*
 * Copyright 2026 Go Tregex Authors
 *
 * SPDX-License-Identifier: Apache-2.0
 */

package tregex

import (
	"fmt"
	"strconv"
	"strings"
)

// This parser is hand-rolled recursive descent over the lexer's token
// stream (spec.md §4.F), rather than a generated yacc/ply-style table like
// the reference implementation's. The one rule worth stating up front
// (spec.md §4.F precedence note): a relation's target, when not
// parenthesized, is a bare node-description/name — it never itself absorbs
// further trailing relations. "A R1 B R2 C" therefore parses as A's
// conjunction [R1 B, R2 C], both attached to A, unless the source writes
// "A R1 (B R2 C)".

// numArgSymbols is the subset of RELATION tokens that may be followed by a
// NUMBER (spec.md §4.B/§4.E REL_W_NUM_ARG).
var numArgSymbols = map[string]bool{
	">": true, ">-": true,
	"<": true, "<-": true,
	"<<<": true, "<<<-": true,
}

// nameTracker records, pattern-wide, every name that has been declared at
// least once (spec.md §3: a second use of a name extends
// its binding rather than re-declaring it).
type nameTracker struct {
	declared map[string]bool
}

type parser struct {
	src string
	lx  *lexer
	tok token

	names      *nameTracker
	freshStack []map[string]bool
	negDepth   int
}

func parse(src string) (*nodeDescriptions, error) {
	p := &parser{
		src:   src,
		lx:    lex(src),
		names: &nameTracker{declared: map[string]bool{}},
	}
	p.pushScope() // scope of the top-level anchor's own name
	p.advance()
	if err := p.checkTok(); err != nil {
		return nil, err
	}

	anchor, err := p.parseNamedNodes()
	if err != nil {
		return nil, err
	}

	for p.tok.typ == tokSemicolon {
		p.advance()
	}
	if err := p.checkTok(); err != nil {
		return nil, err
	}
	if p.tok.typ != tokEOF {
		return nil, &ParseError{Pattern: src, Pos: p.tok.pos, Msg: "unexpected trailing input: " + p.tok.String()}
	}
	return anchor, nil
}

func (p *parser) advance() {
	p.tok = p.lx.nextToken()
}

func (p *parser) checkTok() error {
	if p.tok.typ == tokError {
		return &TokenizationError{Pattern: p.src, Pos: p.tok.pos, Msg: p.tok.val}
	}
	return nil
}

func (p *parser) expect(tt tokenType) (token, error) {
	if err := p.checkTok(); err != nil {
		return token{}, err
	}
	if p.tok.typ != tt {
		return token{}, &ParseError{Pattern: p.src, Pos: p.tok.pos, Msg: fmt.Sprintf("expected %s, got %s", tt, p.tok)}
	}
	t := p.tok
	p.advance()
	return t, nil
}

func (p *parser) pushScope() {
	p.freshStack = append(p.freshStack, map[string]bool{})
}

func (p *parser) popScope() {
	p.freshStack = p.freshStack[:len(p.freshStack)-1]
}

// declareName implements spec.md §3's naming invariants: no name may be
// introduced under negation; a name first introduced inside a conjunction
// scope may not be declared again within that same scope; reusing a name
// that was already declared before the scope began is fine and simply
// extends its binding.
func (p *parser) declareName(name string, pos int) error {
	if p.negDepth > 0 {
		return &ParseError{Pattern: p.src, Pos: pos, Msg: "name \"" + name + "\" may not be introduced under negation"}
	}
	top := p.freshStack[len(p.freshStack)-1]
	if top[name] {
		return &ParseError{Pattern: p.src, Pos: pos, Msg: "name \"" + name + "\" declared twice in the same conjunction"}
	}
	if p.names.declared[name] {
		return nil
	}
	top[name] = true
	p.names.declared[name] = true
	return nil
}

func (p *parser) referenceBackref(name string, pos int) error {
	if !p.names.declared[name] {
		return &ParseError{Pattern: p.src, Pos: pos, Msg: "back-reference to undeclared name \"" + name + "\""}
	}
	if p.negDepth > 0 {
		return &ParseError{Pattern: p.src, Pos: pos, Msg: "a back-reference may not be used under negation"}
	}
	return nil
}

// parseNamedNodes parses one anchor (or parenthesized sub-expression)
// together with every and_condition trailing it, all attached flat to that
// same anchor (spec.md §4.F reduce-bias rule).
func (p *parser) parseNamedNodes() (*nodeDescriptions, error) {
	anchor, err := p.parseNamedNodesPrimary()
	if err != nil {
		return nil, err
	}

	p.pushScope()
	var conds []*cond
	for {
		if err := p.checkTok(); err != nil {
			p.popScope()
			return nil, err
		}
		if !p.startsAndCondition() {
			break
		}
		c, err := p.parseAndCondition()
		if err != nil {
			p.popScope()
			return nil, err
		}
		conds = append(conds, c)
	}
	p.popScope()

	if len(conds) > 0 {
		anchor.condition = newAndCond(conds...)
	}
	return anchor, nil
}

// parseNamedNodesPrimary parses a relation's operand: a node-description
// group, a bare back-reference, or a fully parenthesized named_nodes (the
// one construct that lets a relation's target carry its own trailing
// relations).
func (p *parser) parseNamedNodesPrimary() (*nodeDescriptions, error) {
	if err := p.checkTok(); err != nil {
		return nil, err
	}
	switch p.tok.typ {
	case tokLParen:
		p.advance()
		inner, err := p.parseNamedNodes()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokRParen); err != nil {
			return nil, err
		}
		return p.parseOptionalName(inner)

	case tokEquals:
		pos := p.tok.pos
		p.advance()
		idTok, err := p.expect(tokID)
		if err != nil {
			return nil, err
		}
		if err := p.referenceBackref(idTok.val, pos); err != nil {
			return nil, err
		}
		return &nodeDescriptions{isBackref: true, backrefName: idTok.val}, nil

	default:
		desc, err := p.parseNodeDescriptionsGroup()
		if err != nil {
			return nil, err
		}
		return p.parseOptionalName(desc)
	}
}

func (p *parser) parseOptionalName(desc *nodeDescriptions) (*nodeDescriptions, error) {
	for p.tok.typ == tokEquals {
		pos := p.tok.pos
		p.advance()
		idTok, err := p.expect(tokID)
		if err != nil {
			return nil, err
		}
		if err := p.declareName(idTok.val, pos); err != nil {
			return nil, err
		}
		desc.name = idTok.val
	}
	return desc, nil
}

// parseNodeDescriptionsGroup parses an optional "!" (whole-group negation),
// an optional "@" (basic category), and one or more "|"-separated
// node_description alternatives (spec.md §4.C).
func (p *parser) parseNodeDescriptionsGroup() (*nodeDescriptions, error) {
	nd := &nodeDescriptions{}
	if p.tok.typ == tokBang {
		nd.underNegation = true
		p.advance()
	}
	if p.tok.typ == tokAt {
		nd.useBasicCat = true
		p.advance()
	}

	first, err := p.parseNodeDescription()
	if err != nil {
		return nil, err
	}
	nd.alternatives = append(nd.alternatives, first)

	for p.tok.typ == tokOrNode {
		p.advance()
		next, err := p.parseNodeDescription()
		if err != nil {
			return nil, err
		}
		nd.alternatives = append(nd.alternatives, next)
	}
	return nd, nil
}

// ROOT is a reserved node-description identifier (spec.md §4.C NODE_ROOT)
// rather than its own token: any bare ID spelled exactly "ROOT" names the
// root predicate instead of a literal label match.
const rootKeyword = "ROOT"

func (p *parser) parseNodeDescription() (*nodeDescription, error) {
	if err := p.checkTok(); err != nil {
		return nil, err
	}
	switch p.tok.typ {
	case tokBlank:
		p.advance()
		return blankDescription(), nil

	case tokRegex:
		raw := p.tok.val
		pos := p.tok.pos
		p.advance()
		return newRegexDescription(raw, p.src, pos)

	case tokID:
		val := p.tok.val
		p.advance()
		if val == rootKeyword {
			return rootDescription(), nil
		}
		return idDescription(val), nil

	default:
		return nil, &ParseError{Pattern: p.src, Pos: p.tok.pos, Msg: "expected a node description, got " + p.tok.String()}
	}
}

func (p *parser) startsAndCondition() bool {
	switch p.tok.typ {
	case tokBang, tokQuestion, tokLBracket, tokRelation, tokRelWithStrArg, tokMultiRelation:
		return true
	}
	return false
}

// parseAndCondition parses one trailing relation, optionally prefixed by
// "!" (negated, zero matches required) or "?" (optional, 0 matches still
// counts as 1) — spec.md §4.D/§4.F.
func (p *parser) parseAndCondition() (*cond, error) {
	switch p.tok.typ {
	case tokBang:
		p.advance()
		p.negDepth++
		c, err := p.parseAndConditionBody()
		p.negDepth--
		if err != nil {
			return nil, err
		}
		return newNotCond(c), nil

	case tokQuestion:
		p.advance()
		c, err := p.parseAndConditionBody()
		if err != nil {
			return nil, err
		}
		return newOptCond(c), nil

	default:
		return p.parseAndConditionBody()
	}
}

func (p *parser) parseAndConditionBody() (*cond, error) {
	switch p.tok.typ {
	case tokLBracket:
		p.advance()
		c, err := p.parseOrConditions()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokRBracket); err != nil {
			return nil, err
		}
		return c, nil

	case tokMultiRelation:
		return p.parseMultiRelation()

	case tokRelation, tokRelWithStrArg:
		return p.parseRelCond()

	default:
		return nil, &ParseError{Pattern: p.src, Pos: p.tok.pos, Msg: "expected a relation, got " + p.tok.String()}
	}
}

// parseOrConditions parses "||"-separated conjunctions inside a bracketed
// group (spec.md §4.D And/Or). Each alternative gets its own fresh-name
// scope: "A ?[ <bar=foo || <<baz=foo ]" legally reuses foo in both
// alternatives since only one of them can ever fire for a given match.
func (p *parser) parseOrConditions() (*cond, error) {
	first, err := p.parseAndConditionsSeq()
	if err != nil {
		return nil, err
	}
	alts := []*cond{first}
	for p.tok.typ == tokOrRel {
		p.advance()
		next, err := p.parseAndConditionsSeq()
		if err != nil {
			return nil, err
		}
		alts = append(alts, next)
	}
	return newOrCond(alts...), nil
}

func (p *parser) parseAndConditionsSeq() (*cond, error) {
	p.pushScope()
	defer p.popScope()

	var conds []*cond
	for p.startsAndCondition() || p.tok.typ == tokAmp {
		if p.tok.typ == tokAmp {
			p.advance()
			continue
		}
		c, err := p.parseAndCondition()
		if err != nil {
			return nil, err
		}
		conds = append(conds, c)
	}
	if len(conds) == 0 {
		return nil, &ParseError{Pattern: p.src, Pos: p.tok.pos, Msg: "expected at least one relation"}
	}
	return newAndCond(conds...), nil
}

// parseRelCond parses RELATION|REL_W_STR_ARG followed by its argument (a
// NUMBER, a parenthesized named_nodes category query, or nothing) and its
// target (spec.md §4.B/§4.E).
func (p *parser) parseRelCond() (*cond, error) {
	symTok := p.tok
	symbol := symTok.val
	isStrArg := symTok.typ == tokRelWithStrArg
	p.advance()

	rd := &relDescriptor{symbol: symbol}

	switch {
	case isStrArg:
		if _, err := p.expect(tokLParen); err != nil {
			return nil, err
		}
		if p.tok.typ == tokRParen {
			return nil, &SemanticError{Pattern: p.src, Pos: p.tok.pos, Msg: "relation " + symbol + " needs a non-empty category argument"}
		}
		inner, err := p.parseNamedNodes()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokRParen); err != nil {
			return nil, err
		}
		rd.kind = relStrArg
		rd.category = inner

	case p.tok.typ == tokNumber && numArgSymbols[symbol]:
		numTok := p.tok
		p.advance()
		n, err := strconv.Atoi(numTok.val)
		if err != nil {
			return nil, &ParseError{Pattern: p.src, Pos: numTok.pos, Msg: "invalid numeric argument"}
		}
		if strings.HasSuffix(symbol, "-") {
			n = -n
		}
		rd.kind = relNumArg
		rd.num = n

	default:
		plain, ok := plainRelations[symbol]
		if !ok {
			return nil, &ParseError{Pattern: p.src, Pos: symTok.pos, Msg: "unknown relation " + symbol}
		}
		rd.kind = relPlain
		rd.plain = plain
	}

	target, err := p.parseNamedNodesPrimary()
	if err != nil {
		return nil, err
	}
	return newRelCond(rd, target), nil
}

// parseMultiRelation compiles "<...{ a ; b ; c }" into n ith-child
// conditions plus a negated (n+1)th-child check against BLANK, which
// together assert the parent has exactly n children matching a, b, c in
// order (spec.md §4.B MULTI_RELATION, Design Notes).
func (p *parser) parseMultiRelation() (*cond, error) {
	pos := p.tok.pos
	p.advance()
	if _, err := p.expect(tokLBrace); err != nil {
		return nil, err
	}
	if p.tok.typ == tokRBrace {
		return nil, &SemanticError{Pattern: p.src, Pos: pos, Msg: "multi-relation block must name at least one child"}
	}

	var targets []*nodeDescriptions
	first, err := p.parseNamedNodesPrimary()
	if err != nil {
		return nil, err
	}
	targets = append(targets, first)
	for p.tok.typ == tokSemicolon {
		p.advance()
		next, err := p.parseNamedNodesPrimary()
		if err != nil {
			return nil, err
		}
		targets = append(targets, next)
	}
	if _, err := p.expect(tokRBrace); err != nil {
		return nil, err
	}
	if len(targets) == 0 {
		return nil, &SemanticError{Pattern: p.src, Pos: pos, Msg: "multi-relation block must name at least one child"}
	}

	conds := make([]*cond, 0, len(targets)+1)
	for i, target := range targets {
		rd := &relDescriptor{kind: relNumArg, symbol: "<", num: i + 1}
		conds = append(conds, newRelCond(rd, target))
	}
	blankRd := &relDescriptor{kind: relNumArg, symbol: "<", num: len(targets) + 1}
	blankDesc := &nodeDescriptions{alternatives: []*nodeDescription{blankDescription()}}
	conds = append(conds, newNotCond(newRelCond(blankRd, blankDesc)))

	return newAndCond(conds...), nil
}
