// Copyright 2019 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package metagrammar is a hand-written recursive-descent parser for
// the grammar specification DSL of spec §6: the text surface users
// write rules in, compiled here into []*pika.Rule for pika.New.
package metagrammar

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kpeg/pika/pika"
	"github.com/kpeg/pika/pika/pikacharclass"
)

// Parse compiles grammar source text into a slice of rules, preserving
// declaration order (pika.New does not require any particular order).
func Parse(src string) ([]*pika.Rule, error) {
	p := &parser{src: src}
	var rules []*pika.Rule
	p.skipSpace()
	for p.pos < len(p.src) {
		r, err := p.parseRule()
		if err != nil {
			return nil, err
		}
		rules = append(rules, r)
		p.skipSpace()
	}
	return rules, nil
}

type parser struct {
	src string
	pos int
}

func (p *parser) errf(format string, args ...interface{}) error {
	line := 1 + strings.Count(p.src[:p.pos], "\n")
	return fmt.Errorf("metagrammar: line %d: %s", line, fmt.Sprintf(format, args...))
}

func (p *parser) eof() bool { return p.pos >= len(p.src) }

func (p *parser) peek() byte {
	if p.eof() {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) skipSpace() {
	for !p.eof() {
		c := p.peek()
		if c == '#' {
			for !p.eof() && p.peek() != '\n' {
				p.pos++
			}
			continue
		}
		if c == ' ' || c == '\t' || c == '\n' || c == '\r' {
			p.pos++
			continue
		}
		break
	}
}

func (p *parser) consume(lit string) bool {
	if strings.HasPrefix(p.src[p.pos:], lit) {
		p.pos += len(lit)
		p.skipSpace()
		return true
	}
	return false
}

func (p *parser) expect(lit string) error {
	if !p.consume(lit) {
		return p.errf("expected %q", lit)
	}
	return nil
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentCont(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

func (p *parser) parseIdent() (string, error) {
	if p.eof() || !isIdentStart(p.peek()) {
		return "", p.errf("expected identifier")
	}
	start := p.pos
	for !p.eof() && isIdentCont(p.peek()) {
		p.pos++
	}
	id := p.src[start:p.pos]
	p.skipSpace()
	return id, nil
}

// parseRule parses `Name [N] <- Clause ;` / `Name [N,L] <- ...` /
// `Name [N,R] <- ...` / `Name <- Clause ;`.
func (p *parser) parseRule() (*pika.Rule, error) {
	name, err := p.parseIdent()
	if err != nil {
		return nil, err
	}
	precedence := -1
	assoc := pika.NoAssoc
	if p.consume("[") {
		start := p.pos
		for !p.eof() && p.peek() != ',' && p.peek() != ']' {
			p.pos++
		}
		n, err := strconv.Atoi(strings.TrimSpace(p.src[start:p.pos]))
		if err != nil {
			return nil, p.errf("invalid precedence: %s", err)
		}
		precedence = n
		if p.consume(",") {
			switch {
			case p.consume("L"):
				assoc = pika.LeftAssoc
			case p.consume("R"):
				assoc = pika.RightAssoc
			default:
				return nil, p.errf("expected L or R after ','")
			}
		} else {
			p.skipSpace()
		}
		if err := p.expect("]"); err != nil {
			return nil, err
		}
	}
	if err := p.expect("<-"); err != nil {
		return nil, err
	}
	body, err := p.parseChoice()
	if err != nil {
		return nil, err
	}
	if err := p.expect(";"); err != nil {
		return nil, err
	}
	if precedence < 0 {
		return pika.NewRule(name, body), nil
	}
	return pika.NewPrecedenceRule(name, precedence, assoc, body), nil
}

// parseChoice parses `Seq ('/' Seq)*`.
func (p *parser) parseChoice() (pika.Sub, error) {
	first, err := p.parseSeq()
	if err != nil {
		return pika.Sub{}, err
	}
	alts := []pika.Sub{first}
	for p.consume("/") {
		next, err := p.parseSeq()
		if err != nil {
			return pika.Sub{}, err
		}
		alts = append(alts, next)
	}
	if len(alts) == 1 {
		return first, nil
	}
	return pika.U(pika.FirstClause(alts...)), nil
}

// parseSeq parses one or more labelled postfix terms, stopping at `/`,
// `;`, `)`, or end of input.
func (p *parser) parseSeq() (pika.Sub, error) {
	var subs []pika.Sub
	for {
		p.skipSpace()
		if p.eof() {
			break
		}
		c := p.peek()
		if c == '/' || c == ';' || c == ')' {
			break
		}
		sub, err := p.parseLabelled()
		if err != nil {
			return pika.Sub{}, err
		}
		subs = append(subs, sub)
	}
	if len(subs) == 0 {
		return pika.Sub{}, p.errf("empty sequence")
	}
	if len(subs) == 1 {
		return subs[0], nil
	}
	clauses := make([]pika.Sub, len(subs))
	copy(clauses, subs)
	return pika.U(pika.SeqClause(clauses...)), nil
}

// parseLabelled parses an optional `label:` prefix over a postfix term.
func (p *parser) parseLabelled() (pika.Sub, error) {
	if isIdentStart(p.peek()) {
		save := p.pos
		id, err := p.parseIdent()
		if err == nil && p.consume(":") {
			sub, err := p.parsePostfix()
			if err != nil {
				return pika.Sub{}, err
			}
			return pika.L(id, sub.Clause), nil
		}
		p.pos = save
	}
	return p.parsePostfix()
}

// parsePostfix parses a prefix (lookahead) term followed by an optional
// `+`, `*`, or `?`. `X*` desugars to `First(OneOrMore(X), Nothing)` and
// `X?` to `First(X, Nothing)`, since neither is a primitive Clause kind.
func (p *parser) parsePostfix() (pika.Sub, error) {
	sub, err := p.parsePrefix()
	if err != nil {
		return pika.Sub{}, err
	}
	switch {
	case p.consume("+"):
		return pika.U(pika.OneOrMoreClause(sub)), nil
	case p.consume("*"):
		return pika.U(pika.FirstClause(pika.U(pika.OneOrMoreClause(sub)), pika.U(pika.Nothing()))), nil
	case p.consume("?"):
		return pika.U(pika.FirstClause(sub, pika.U(pika.Nothing()))), nil
	}
	return sub, nil
}

func (p *parser) parsePrefix() (pika.Sub, error) {
	switch {
	case p.consume("&"):
		sub, err := p.parsePrefix()
		if err != nil {
			return pika.Sub{}, err
		}
		return pika.U(pika.FollowedByClause(sub)), nil
	case p.consume("!"):
		sub, err := p.parsePrefix()
		if err != nil {
			return pika.Sub{}, err
		}
		return pika.U(pika.NotFollowedByClause(sub)), nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (pika.Sub, error) {
	switch {
	case p.consume("^"):
		return pika.U(pika.Start()), nil
	case p.consume("()"):
		return pika.U(pika.Nothing()), nil
	case p.peek() == '(':
		p.pos++
		p.skipSpace()
		inner, err := p.parseChoice()
		if err != nil {
			return pika.Sub{}, err
		}
		if err := p.expect(")"); err != nil {
			return pika.Sub{}, err
		}
		return inner, nil
	case p.peek() == '"':
		s, err := p.parseQuoted('"')
		if err != nil {
			return pika.Sub{}, err
		}
		return pika.U(pika.CharSeqClause(s, false)), nil
	case p.peek() == '`':
		s, err := p.parseQuoted('`')
		if err != nil {
			return pika.Sub{}, err
		}
		return pika.U(pika.CharSeqClause(s, true)), nil
	case p.peek() == '\'':
		s, err := p.parseQuoted('\'')
		if err != nil {
			return pika.Sub{}, err
		}
		if len([]rune(s)) != 1 {
			return pika.Sub{}, p.errf("single-quoted literal must be exactly one character, got %q", s)
		}
		return pika.U(pika.CharSeqClause(s, false)), nil
	case p.peek() == '[':
		cc, err := p.parseCharClass()
		if err != nil {
			return pika.Sub{}, err
		}
		return pika.U(pika.CharSetClause(cc)), nil
	case isIdentStart(p.peek()):
		id, err := p.parseIdent()
		if err != nil {
			return pika.Sub{}, err
		}
		return pika.U(pika.Ref(id)), nil
	}
	return pika.Sub{}, p.errf("unexpected character %q", string(p.peek()))
}

// parseQuoted consumes a quote-delimited literal, honouring the
// backslash escapes `\t \n \r \b \f \' \" \\ \uXXXX` from spec §6.
func (p *parser) parseQuoted(quote byte) (string, error) {
	p.pos++ // opening quote
	var b strings.Builder
	for {
		if p.eof() {
			return "", p.errf("unterminated quoted literal")
		}
		c := p.src[p.pos]
		if c == quote {
			p.pos++
			p.skipSpace()
			return b.String(), nil
		}
		if c == '\\' {
			r, n, err := unescapeOne(p.src[p.pos:])
			if err != nil {
				return "", p.errf("%s", err)
			}
			b.WriteRune(r)
			p.pos += n
			continue
		}
		b.WriteByte(c)
		p.pos++
	}
}

func unescapeOne(s string) (rune, int, error) {
	if len(s) < 2 {
		return 0, 0, fmt.Errorf("dangling backslash")
	}
	switch s[1] {
	case 't':
		return '\t', 2, nil
	case 'n':
		return '\n', 2, nil
	case 'r':
		return '\r', 2, nil
	case 'b':
		return '\b', 2, nil
	case 'f':
		return '\f', 2, nil
	case '\'':
		return '\'', 2, nil
	case '"':
		return '"', 2, nil
	case '\\':
		return '\\', 2, nil
	case ']':
		return ']', 2, nil
	case 'u':
		if len(s) < 6 {
			return 0, 0, fmt.Errorf("short \\u escape")
		}
		n, err := strconv.ParseUint(s[2:6], 16, 32)
		if err != nil {
			return 0, 0, fmt.Errorf("invalid \\u escape: %s", err)
		}
		return rune(n), 6, nil
	}
	return 0, 0, fmt.Errorf("unknown escape \\%c", s[1])
}

// parseCharClass consumes a `[...]` term, passing its body through to
// pikacharclass.Parse.
func (p *parser) parseCharClass() (*pikacharclass.CharClass, error) {
	start := p.pos
	p.pos++ // '['
	depth := 1
	for !p.eof() && depth > 0 {
		c := p.src[p.pos]
		if c == '\\' && p.pos+1 < len(p.src) {
			p.pos += 2
			continue
		}
		if c == '[' {
			depth++
		} else if c == ']' {
			depth--
			if depth == 0 {
				p.pos++
				break
			}
		}
		p.pos++
	}
	if depth != 0 {
		return nil, p.errf("unterminated char class")
	}
	body := p.src[start+1 : p.pos-1]
	p.skipSpace()
	cc, err := pikacharclass.Parse(body)
	if err != nil {
		return nil, p.errf("%s", err)
	}
	return cc, nil
}
