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

// rewritePrecedence implements spec §4.2 step 3 for every rule family
// with two or more precedence levels. A family of one level (whether or
// not it carries an explicit precedence) is left untouched: there is
// nothing to climb.
//
// For level k (0 = loosest-binding), with next = the next level up,
// wrapping around from the highest level back to level 0:
//
//   - Self-references (RuleRef(Name)) inside the level's raw body are
//     renamed depending on how many there are and the level's
//     associativity: exactly one is wrapped in First(Name[k], Name[next])
//     so repeated same-precedence application (e.g. chained unary
//     prefix ops) is tried before climbing; two or more are split so the
//     associative side keeps Name[k] and the rest become Name[next];
//     non-associative levels send every occurrence to Name[next].
//   - Unless this is the highest level, the whole rewritten body is then
//     wrapped in First(body, RuleRef(Name[next])) so a non-matching
//     operator falls through to the next tighter level.
func rewritePrecedence(families []*ruleFamily) error {
	for _, fam := range families {
		if len(fam.levels) < 2 {
			continue
		}
		n := len(fam.levels)
		for k, r := range fam.levels {
			next := fam.levels[(k+1)%n]
			count := countSelfRefs(r.Body.Clause, fam.name)
			counter := 0
			rewritten := replaceSelfRefs(r.Body.Clause, fam.name, &counter, count, r.Assoc, r.compiledName, next.compiledName)

			label := r.Body.Label
			if k == n-1 {
				// Highest (tightest-binding) level: no fallthrough, it is
				// the base case.
				r.Body = Sub{Clause: rewritten, Label: label}
				continue
			}
			wrapped := FirstClause(Sub{Clause: rewritten, Label: label}, U(Ref(next.compiledName)))
			r.Body = Sub{Clause: wrapped}
		}
	}
	return nil
}

func countSelfRefs(c *Clause, name string) int {
	if c.Kind == kindRuleRef && c.refName == name {
		return 1
	}
	n := 0
	for _, s := range c.Subs {
		n += countSelfRefs(s.Clause, name)
	}
	return n
}

// replaceSelfRefs rebuilds c, replacing every RuleRef(name) occurrence
// per the rule described above. It returns c unchanged (same pointer)
// when nothing below it needed rewriting, and a shallow copy otherwise,
// since these raw trees are not yet interned or shared.
func replaceSelfRefs(c *Clause, name string, counter *int, total int, assoc Associativity, thisLevel, nextLevel string) *Clause {
	if c.Kind == kindRuleRef && c.refName == name {
		idx := *counter
		*counter++
		switch {
		case total == 1:
			return FirstClause(U(Ref(thisLevel)), U(Ref(nextLevel)))
		case assoc == LeftAssoc:
			if idx == 0 {
				return Ref(thisLevel)
			}
			return Ref(nextLevel)
		case assoc == RightAssoc:
			if idx == total-1 {
				return Ref(thisLevel)
			}
			return Ref(nextLevel)
		default:
			return Ref(nextLevel)
		}
	}
	if len(c.Subs) == 0 {
		return c
	}
	newSubs := make([]Sub, len(c.Subs))
	changed := false
	for i, s := range c.Subs {
		rc := replaceSelfRefs(s.Clause, name, counter, total, assoc, thisLevel, nextLevel)
		if rc != s.Clause {
			changed = true
		}
		newSubs[i] = Sub{Clause: rc, Label: s.Label}
	}
	if !changed {
		return c
	}
	clone := *c
	clone.Subs = newSubs
	return &clone
}
