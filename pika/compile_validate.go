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

import "strconv"

// validateRules runs the structural checks of spec §4.2 step 1 over the
// raw, pre-rewrite rule bodies: duplicate (name, precedence) pairs,
// self-only rule bodies, unknown rule references, a Nothing literal as
// a composite's first sub-clause, and malformed lookahead nesting.
func validateRules(rules []*Rule) error {
	seen := make(map[string]bool)
	names := make(map[string]bool)
	for _, r := range rules {
		key := r.Name
		if r.Precedence >= 0 {
			key = r.Name + "#" + strconv.Itoa(r.Precedence)
		}
		if seen[key] {
			return grammarErrorf(r.Name, "duplicate rule at this precedence level")
		}
		seen[key] = true
		names[r.Name] = true
	}

	for _, r := range rules {
		if r.Body.Clause.Kind == kindRuleRef && r.Body.Clause.refName == r.Name {
			return grammarErrorf(r.Name, "rule body is a bare self-reference")
		}
		if err := validateTree(r.Name, r.Body.Clause, names, make(map[*Clause]bool)); err != nil {
			return err
		}
	}
	return nil
}

func validateTree(ruleName string, c *Clause, names map[string]bool, visited map[*Clause]bool) error {
	if visited[c] {
		return nil
	}
	visited[c] = true

	switch c.Kind {
	case kindRuleRef:
		if !names[c.refName] {
			return grammarErrorf(ruleName, "reference to unknown rule %q", c.refName)
		}
		return nil
	case KindSeq, KindFirst:
		if len(c.Subs) > 0 && c.Subs[0].Clause.Kind == KindNothing {
			return grammarErrorf(ruleName, "Nothing cannot be the first sub-clause of %s (it would have to be seeded at every position)", c.Kind)
		}
	case KindFollowedBy, KindNotFollowedBy:
		sub := c.Subs[0].Clause
		for sub.Kind == kindASTNodeLabel {
			sub = sub.Subs[0].Clause
		}
		if sub.Kind == KindFollowedBy || sub.Kind == KindNotFollowedBy {
			return grammarErrorf(ruleName, "lookahead of a lookahead is not allowed; flatten it")
		}
		if sub.Kind == KindStart {
			return grammarErrorf(ruleName, "lookahead of Start is nonsensical; Start is already zero-width")
		}
		if c.Kind == KindNotFollowedBy && sub.Kind == KindNothing {
			return grammarErrorf(ruleName, "NotFollowedBy(Nothing) can never match")
		}
	}
	for _, s := range c.Subs {
		if err := validateTree(ruleName, s.Clause, names, visited); err != nil {
			return err
		}
	}
	return nil
}

// checkAcyclic rejects a genuine pointer cycle in the initial clause
// forest (before reference resolution, RuleRef nodes are leaves, so a
// cycle can only arise from a hand-built clause graph that aliases an
// ancestor directly).
func checkAcyclic(rules []*Rule) error {
	onStack := make(map[*Clause]bool)
	visited := make(map[*Clause]bool)
	var visit func(ruleName string, c *Clause) error
	visit = func(ruleName string, c *Clause) error {
		if visited[c] {
			return nil
		}
		if onStack[c] {
			return grammarErrorf(ruleName, "cycle in clause forest not mediated by a rule reference")
		}
		onStack[c] = true
		for _, s := range c.Subs {
			if err := visit(ruleName, s.Clause); err != nil {
				return err
			}
		}
		onStack[c] = false
		visited[c] = true
		return nil
	}
	for _, r := range rules {
		if err := visit(r.Name, r.Body.Clause); err != nil {
			return err
		}
	}
	return nil
}
