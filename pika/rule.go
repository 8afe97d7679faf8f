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

import "fmt"

// Associativity governs precedence-climbing rewriting of a rule family
// that shares a name across several precedence levels.
type Associativity int

const (
	// NoAssoc is used for rules with a single precedence level, and for
	// precedence levels explicitly marked non-associative.
	NoAssoc Associativity = iota
	LeftAssoc
	RightAssoc
)

func (a Associativity) String() string {
	switch a {
	case LeftAssoc:
		return "left"
	case RightAssoc:
		return "right"
	}
	return "none"
}

// Rule is one named PEG rule: `Name <- Body` or, with precedence,
// `Name[N] <- Body` / `Name[N,L]` / `Name[N,R]`.
type Rule struct {
	// Name is the rule's name as given. Assoc is NoAssoc for rules
	// without a precedence hierarchy.
	Name string
	// Precedence is -1 when the rule has no precedence hierarchy (a
	// plain, single-level rule), matching the spec's convention.
	Precedence int
	Assoc      Associativity
	// Body is the rule's top-level labelled clause.
	Body Sub

	// compiledName is Name after precedence rewriting, e.g. "E[0]"; it
	// equals Name for rules without precedence.
	compiledName string

	// bodyCompiling/bodyCompiled guard Grammar.New's reference-resolution
	// pass against infinite recursion on left-recursive rule bodies.
	bodyCompiling bool
	bodyCompiled  bool
}

// NewRule constructs a plain, single-precedence rule.
func NewRule(name string, body Sub) *Rule {
	return &Rule{Name: name, Precedence: -1, Body: body}
}

// NewPrecedenceRule constructs one level of a multi-precedence rule
// family. Lower precedence binds more loosely (matches last, e.g.
// addition below multiplication).
func NewPrecedenceRule(name string, precedence int, assoc Associativity, body Sub) *Rule {
	return &Rule{Name: name, Precedence: precedence, Assoc: assoc, Body: body}
}

func (r *Rule) String() string {
	if r == nil {
		return "<nil rule>"
	}
	body := r.Body.Clause.render()
	if r.Body.Label != "" {
		body = r.Body.Label + ":" + body
	}
	if r.Precedence < 0 {
		return fmt.Sprintf("%s <- %s", r.Name, body)
	}
	return fmt.Sprintf("%s[%d,%s] <- %s", r.Name, r.Precedence, r.Assoc, body)
}
