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

package pika

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kpeg/pika/pika/pikacharclass"
)

// Kind identifies which PEG operator a Clause implements.
type Kind int

const (
	// KindCharSet matches a single code point from a (possibly
	// inverted) set. Like every terminal, it is matched at each input
	// position once, by the terminal pre-scan, which memoises its hits.
	KindCharSet Kind = iota
	// KindCharSeq matches a literal string, optionally case-insensitively.
	KindCharSeq
	// KindNothing matches the empty string unconditionally.
	KindNothing
	// KindStart matches the empty string only at position 0.
	KindStart
	// KindSeq is concatenation of two or more sub-clauses.
	KindSeq
	// KindFirst is ordered choice among two or more sub-clauses.
	KindFirst
	// KindOneOrMore is one-or-more repetition, right-recursive.
	KindOneOrMore
	// KindFollowedBy is positive lookahead; zero-width.
	KindFollowedBy
	// KindNotFollowedBy is negative lookahead; zero-width.
	KindNotFollowedBy

	// kindRuleRef and kindASTNodeLabel are auxiliary pre-resolution-only
	// node kinds produced while building a clause tree by hand or from
	// the meta-grammar. Grammar compilation eliminates every instance of
	// them (resolving references, peeling labels into the enclosing
	// Sub). A compiled Grammar's clause DAG never contains either kind;
	// match() treats their appearance as a fatal internal-invariant
	// violation (see errors.go).
	kindRuleRef
	kindASTNodeLabel
)

func (k Kind) String() string {
	switch k {
	case KindCharSet:
		return "CharSet"
	case KindCharSeq:
		return "CharSeq"
	case KindNothing:
		return "Nothing"
	case KindStart:
		return "Start"
	case KindSeq:
		return "Seq"
	case KindFirst:
		return "First"
	case KindOneOrMore:
		return "OneOrMore"
	case KindFollowedBy:
		return "FollowedBy"
	case KindNotFollowedBy:
		return "NotFollowedBy"
	case kindRuleRef:
		return "RuleRef"
	case kindASTNodeLabel:
		return "ASTNodeLabel"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Sub is one labelled sub-clause: a reference to a child Clause
// together with the optional AST-node label attached to that position.
type Sub struct {
	Clause *Clause
	Label  string
}

// U wraps a clause as an unlabelled Sub.
func U(c *Clause) Sub { return Sub{Clause: c} }

// L wraps a clause as a Sub labelled for AST-node attachment.
func L(label string, c *Clause) Sub { return Sub{Clause: c, Label: label} }

// Clause is one node of the clause DAG a Grammar compiles its rules
// into. Before compilation, a tree of Clause values (possibly
// containing RuleRef/ASTNodeLabel nodes built via Ref/LabelClause) is
// the input to Grammar.New. After compilation, Clauses are interned
// (shared by identical shape), cycle-free except through memoisation,
// and immutable.
type Clause struct {
	Kind Kind

	Subs []Sub

	// Terminal payloads.
	CharSet    *pikacharclass.CharClass // KindCharSet
	Literal    string                   // KindCharSeq
	IgnoreCase bool                     // KindCharSeq

	// Pre-resolution-only payloads.
	refName  string // kindRuleRef: target rule name, bare (no [N] suffix)
	astLabel string // kindASTNodeLabel: label to peel onto the enclosing Sub

	// Rules lists every top-level rule whose body is exactly this clause.
	Rules []*Rule

	// SeedParents is the back-edge set computed during compilation
	// (§4.2 step 8): clauses that must be re-attempted when this clause
	// first produces a match at a given position.
	SeedParents []*Clause

	// CanMatchZeroChars is computed bottom-up during compilation (§4.2
	// step 7).
	CanMatchZeroChars bool

	// ClauseIdx is this clause's position in the bottom-up topological
	// order computed during compilation; it doubles as the worklist
	// priority key. -1 until assigned.
	ClauseIdx int

	str string // cached to_string, used as the interning key

	// resolved marks that this clause's own Subs have already been
	// passed through reference resolution, so resolveSub does not
	// re-walk a clause reached twice through interning before
	// compileRuleBody's single top-down pass reaches it again.
	resolved bool
}

func newClause(kind Kind, subs ...Sub) *Clause {
	return &Clause{Kind: kind, Subs: subs, ClauseIdx: -1}
}

// CharSetClause returns a clause matching a single code point from cc.
func CharSetClause(cc *pikacharclass.CharClass) *Clause {
	return &Clause{Kind: KindCharSet, CharSet: cc, ClauseIdx: -1}
}

// CharSeqClause returns a clause matching the literal string s, optionally
// case-insensitively.
func CharSeqClause(s string, ignoreCase bool) *Clause {
	return &Clause{Kind: KindCharSeq, Literal: s, IgnoreCase: ignoreCase, ClauseIdx: -1}
}

// Nothing returns a clause that matches the empty string everywhere.
func Nothing() *Clause { return newClause(KindNothing) }

// Start returns a clause that matches the empty string only at position 0.
func Start() *Clause { return newClause(KindStart) }

// SeqClause returns a concatenation of two or more sub-clauses.
func SeqClause(subs ...Sub) *Clause { return newClause(KindSeq, subs...) }

// FirstClause returns an ordered choice among two or more sub-clauses.
func FirstClause(subs ...Sub) *Clause { return newClause(KindFirst, subs...) }

// OneOrMoreClause returns one-or-more repetition of sub.
func OneOrMoreClause(sub Sub) *Clause { return newClause(KindOneOrMore, sub) }

// FollowedByClause returns positive lookahead over sub.
func FollowedByClause(sub Sub) *Clause { return newClause(KindFollowedBy, sub) }

// NotFollowedByClause returns negative lookahead over sub.
func NotFollowedByClause(sub Sub) *Clause { return newClause(KindNotFollowedBy, sub) }

// Ref returns a reference to the rule named name, resolved during
// Grammar compilation. It must not survive compilation.
func Ref(name string) *Clause {
	return &Clause{Kind: kindRuleRef, refName: name, ClauseIdx: -1}
}

// LabelClause attaches AST label to c. It must not survive compilation:
// the label is peeled off into whichever Sub ends up referencing c.
func LabelClause(label string, c *Clause) *Clause {
	return &Clause{Kind: kindASTNodeLabel, astLabel: label, Subs: []Sub{{Clause: c}}, ClauseIdx: -1}
}

// String renders a reparsable (modulo whitespace) textual form of the
// clause, used both as the interning key (step 4 of compilation) and as
// a debug pretty-printer. A clause that is itself some rule's top-level
// body renders as that rule's compiled name rather than expanding: rule
// bodies reference each other (directly for an ordinary rule reference,
// or as a genuine cycle for left recursion), and expanding every
// reference would recurse forever on a left-recursive grammar. Rule's
// own String expands its body's own top level by calling render
// directly.
func (c *Clause) String() string {
	if c == nil {
		return "<nil>"
	}
	if len(c.Rules) > 0 {
		return c.Rules[0].compiledName
	}
	if c.str != "" {
		return c.str
	}
	c.str = c.render()
	return c.str
}

func (c *Clause) render() string {
	switch c.Kind {
	case KindCharSet:
		return "[" + c.CharSet.String() + "]"
	case KindCharSeq:
		if c.IgnoreCase {
			return "`" + c.Literal + "`"
		}
		return strconv.Quote(c.Literal)
	case KindNothing:
		return "()"
	case KindStart:
		return "^"
	case KindSeq:
		return "(" + joinSubs(c.Subs, " ") + ")"
	case KindFirst:
		return "(" + joinSubs(c.Subs, " / ") + ")"
	case KindOneOrMore:
		return subString(c.Subs[0]) + "+"
	case KindFollowedBy:
		return "&" + subString(c.Subs[0])
	case KindNotFollowedBy:
		return "!" + subString(c.Subs[0])
	case kindRuleRef:
		return c.refName
	case kindASTNodeLabel:
		return c.astLabel + ":" + subString(c.Subs[0])
	}
	return fmt.Sprintf("<unknown clause kind %v>", c.Kind)
}

func subString(s Sub) string {
	if s.Label != "" {
		return s.Label + ":" + s.Clause.String()
	}
	return s.Clause.String()
}

func joinSubs(subs []Sub, sep string) string {
	parts := make([]string, len(subs))
	for i, s := range subs {
		parts[i] = subString(s)
	}
	return strings.Join(parts, sep)
}
