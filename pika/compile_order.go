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

// assignClauseOrder numbers every reachable clause in post-order DFS
// finishing order (spec §4.2 step 6): terminals and other leaves finish
// (and so are numbered) before the composites that contain them. A
// left-recursive rule's body is reachable from itself; the DFS treats a
// clause already on the current stack as a closed back-edge and does
// not descend into it again, which yields a well-defined (if not
// unique) order even though the underlying graph is not a DAG.
func (g *Grammar) assignClauseOrder() {
	var order []*Clause
	visited := make(map[*Clause]bool)
	onStack := make(map[*Clause]bool)
	var visit func(c *Clause)
	visit = func(c *Clause) {
		if visited[c] || onStack[c] {
			return
		}
		onStack[c] = true
		for _, s := range c.Subs {
			visit(s.Clause)
		}
		onStack[c] = false
		visited[c] = true
		order = append(order, c)
	}
	for _, r := range g.Rules {
		visit(r.Body.Clause)
	}
	for i, c := range order {
		c.ClauseIdx = i
	}
	g.AllClauses = order
}

// computeCanMatchZeroChars computes CanMatchZeroChars for every clause
// (spec §4.2 step 7) and validates the two invariants that depend on
// it: no non-final alternative of a First clause can match zero
// characters (later alternatives would be dead code), and a
// NotFollowedBy's sub-clause cannot match zero characters (the
// lookahead could never fail).
//
// A single bottom-up pass in ClauseIdx order is not sufficient for a
// left-recursive grammar, since a clause can depend on its own value
// through the cycle the DFS left unresolved; computeCanMatchZeroChars
// instead iterates to a fixed point, which converges in one pass for
// every acyclic sub-graph and in a small constant number of passes for
// the cyclic, self-referential rules left-recursion introduces.
func (g *Grammar) computeCanMatchZeroChars() error {
	for {
		changed := false
		for _, c := range g.AllClauses {
			before := c.CanMatchZeroChars
			c.CanMatchZeroChars = clauseCanMatchZero(c)
			if c.CanMatchZeroChars != before {
				changed = true
			}
		}
		if !changed {
			break
		}
	}

	for _, c := range g.AllClauses {
		switch c.Kind {
		case KindFirst:
			for i := 0; i < len(c.Subs)-1; i++ {
				if c.Subs[i].Clause.CanMatchZeroChars {
					return grammarErrorf(ruleNameOf(c), "alternative %d of %s can match zero characters, making later alternatives unreachable", i, c)
				}
			}
		case KindNotFollowedBy:
			if c.Subs[0].Clause.CanMatchZeroChars {
				return grammarErrorf(ruleNameOf(c), "NotFollowedBy sub-clause can match zero characters and so could never fail")
			}
		}
	}
	return nil
}

func ruleNameOf(c *Clause) string {
	if len(c.Rules) > 0 {
		return c.Rules[0].compiledName
	}
	return ""
}

func clauseCanMatchZero(c *Clause) bool {
	switch c.Kind {
	case KindCharSet, KindCharSeq:
		return false
	case KindNothing, KindStart:
		return true
	case KindSeq:
		for _, s := range c.Subs {
			if !s.Clause.CanMatchZeroChars {
				return false
			}
		}
		return true
	case KindFirst:
		for _, s := range c.Subs {
			if s.Clause.CanMatchZeroChars {
				return true
			}
		}
		return false
	case KindOneOrMore:
		return c.Subs[0].Clause.CanMatchZeroChars
	case KindFollowedBy:
		return c.Subs[0].Clause.CanMatchZeroChars
	case KindNotFollowedBy:
		return true // zero-width regardless of whether the lookahead succeeds
	}
	return false
}

// computeSeedParents computes the back-edge set used to enqueue parents
// when a sub-clause improves (spec §4.2 step 8). The seed sub-clauses of
// a composite are: every alternative of a First; the single sub of
// OneOrMore/FollowedBy/NotFollowedBy; and, for a Seq, the prefix of
// sub-clauses up to and including the first one that cannot match zero
// characters (or all of them, if every one can).
func (g *Grammar) computeSeedParents() {
	added := make(map[[2]*Clause]bool)
	addEdge := func(seed, parent *Clause) {
		key := [2]*Clause{seed, parent}
		if added[key] {
			return
		}
		added[key] = true
		seed.SeedParents = append(seed.SeedParents, parent)
	}

	for _, c := range g.AllClauses {
		switch c.Kind {
		case KindFirst, KindOneOrMore, KindFollowedBy, KindNotFollowedBy:
			for _, s := range c.Subs {
				addEdge(s.Clause, c)
			}
		case KindSeq:
			for _, s := range c.Subs {
				addEdge(s.Clause, c)
				if !s.Clause.CanMatchZeroChars {
					break
				}
			}
		}
	}
}
