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

// compiler carries the state shared by reference resolution and
// interning (spec §4.2 steps 4-5), which run as a single bottom-up pass
// per rule so that left-recursive self-references resolve to a stable,
// in-progress pointer instead of recursing forever.
type compiler struct {
	g        *Grammar
	interned map[string]*Clause
	err      error
}

// compileRuleBody resolves and interns rule's body in place. Reentrant
// calls for a rule already being compiled (a left-recursive cycle,
// direct or indirect through other rules) return the rule's current
// top-level clause pointer immediately without descending further: that
// pointer's identity never changes, only its Subs get filled in as the
// outer call completes, so the returned reference becomes valid once
// compilation unwinds.
func (c *compiler) compileRuleBody(r *Rule) *Clause {
	if r.bodyCompiled {
		return r.Body.Clause
	}
	if r.bodyCompiling {
		return r.Body.Clause
	}
	r.bodyCompiling = true
	r.Body.Clause.Rules = append(r.Body.Clause.Rules, r)

	c.resolveInPlace(r.Body.Clause)

	r.bodyCompiling = false
	r.bodyCompiled = true
	return r.Body.Clause
}

// resolveInPlace resolves every sub-clause of c (which must not itself
// be a RuleRef or ASTNodeLabel — a rule body's own top level is never
// either, since those are always peeled or are structural/terminal
// clauses), replacing c.Subs with the canonical resolved clauses.
func (c *compiler) resolveInPlace(clause *Clause) {
	for i, s := range clause.Subs {
		clause.Subs[i] = c.resolveSub(s)
	}
}

// resolveSub resolves one Sub: peeling AST-node-label wrappers, routing
// rule references through compileRuleBody, and interning any ordinary
// structural or terminal sub-expression by its canonical string form.
func (c *compiler) resolveSub(s Sub) Sub {
	expr := s.Clause
	label := s.Label
	for expr.Kind == kindASTNodeLabel {
		if label == "" {
			label = expr.astLabel
		}
		expr = expr.Subs[0].Clause
	}

	if expr.Kind == kindRuleRef {
		target, ok := c.g.GetRule(expr.refName)
		if !ok {
			if c.err == nil {
				c.err = grammarErrorf("", "reference to unknown rule %q", expr.refName)
			}
			return Sub{Clause: Nothing(), Label: label}
		}
		resolved := c.compileRuleBody(target)
		return Sub{Clause: resolved, Label: label}
	}

	if !expr.resolved {
		expr.resolved = true
		c.resolveInPlace(expr)
	}
	return Sub{Clause: c.intern(expr), Label: label}
}

// intern returns the canonical clause for expr's textual shape, which
// must already have fully resolved (non-RuleRef, non-ASTNodeLabel)
// Subs. The first clause seen for a given shape becomes canonical;
// later, structurally-identical clauses are replaced by it, so the
// compiled DAG shares sub-expressions instead of duplicating them.
func (c *compiler) intern(expr *Clause) *Clause {
	key := expr.String()
	if existing, ok := c.interned[key]; ok {
		return existing
	}
	c.interned[key] = expr
	return expr
}
