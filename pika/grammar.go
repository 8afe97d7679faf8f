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
	"strings"

	log "github.com/golang/glog"
)

// Grammar is a compiled set of PEG rules: an interned, cycle-free (save
// for deliberate left-recursion back-edges) clause DAG with resolved
// references, precedence/associativity already rewritten, and the
// bottom-up metadata (CanMatchZeroChars, SeedParents, ClauseIdx) that
// the parsing engine needs. A Grammar is immutable once New returns and
// may be shared freely across concurrent parses of different input.
type Grammar struct {
	// Rules lists every compiled rule (post precedence-rewriting), in
	// the order New was given them, precedence families grouped
	// together low-to-high.
	Rules []*Rule
	// AllClauses is every clause reachable from a rule body, in
	// bottom-up (terminals/leaves first) order; ClauseIdx is this
	// slice's index.
	AllClauses []*Clause

	byCompiledName map[string]*Rule
	byBareName     map[string]*Rule // canonical (lowest-precedence) target
	lexRule        *Rule
}

// New validates and compiles rules into a Grammar, per spec §4.2. It
// fails with a *GrammarError on any of the structural violations listed
// there: unknown rule reference, empty grammar, duplicate (name,
// precedence) pair, a rule whose body is a bare self-reference, a cycle
// in the initial clause forest, a Nothing first sub-clause, malformed
// lookahead nesting, or a First/NotFollowedBy zero-match violation.
func New(rules []*Rule) (*Grammar, error) {
	if len(rules) == 0 {
		return nil, grammarErrorf("", "grammar must have at least one rule")
	}
	if err := validateRules(rules); err != nil {
		return nil, err
	}
	if err := checkAcyclic(rules); err != nil {
		return nil, err
	}
	families := groupFamilies(rules)
	if err := rewritePrecedence(families); err != nil {
		return nil, err
	}

	g := &Grammar{
		byCompiledName: make(map[string]*Rule),
		byBareName:     make(map[string]*Rule),
	}
	for _, fam := range families {
		for _, r := range fam.levels {
			g.Rules = append(g.Rules, r)
			g.byCompiledName[r.compiledName] = r
		}
		g.byBareName[fam.name] = fam.levels[0] // lowest precedence is canonical
		if fam.name == "Lex" {
			g.lexRule = fam.levels[0]
		}
	}

	c := &compiler{g: g, interned: make(map[string]*Clause)}
	for _, r := range g.Rules {
		c.compileRuleBody(r)
	}
	if err := c.err; err != nil {
		return nil, err
	}

	g.assignClauseOrder()
	if err := g.computeCanMatchZeroChars(); err != nil {
		return nil, err
	}
	g.computeSeedParents()

	if log.V(2) {
		log.V(2).Infof("compiled grammar with %d rules, %d clauses", len(g.Rules), len(g.AllClauses))
	}
	return g, nil
}

// GetRule looks up a rule by its exact compiled name (including any
// "[N]" precedence suffix), or by bare name; for a family with several
// precedence levels the bare name returns the lowest-precedence level.
func (g *Grammar) GetRule(name string) (*Rule, bool) {
	if r, ok := g.byCompiledName[name]; ok {
		return r, true
	}
	r, ok := g.byBareName[name]
	return r, ok
}

func (g *Grammar) String() string {
	var b strings.Builder
	for _, r := range g.Rules {
		b.WriteString(r.String())
		b.WriteString("\n")
	}
	return b.String()
}

type ruleFamily struct {
	name   string
	levels []*Rule // sorted ascending by Precedence
}

func groupFamilies(rules []*Rule) []*ruleFamily {
	order := make([]string, 0, len(rules))
	byName := make(map[string][]*Rule)
	for _, r := range rules {
		if _, ok := byName[r.Name]; !ok {
			order = append(order, r.Name)
		}
		byName[r.Name] = append(byName[r.Name], r)
	}
	fams := make([]*ruleFamily, 0, len(order))
	for _, name := range order {
		levels := byName[name]
		// Sort ascending by precedence (insertion sort: families are
		// tiny, and validateRules has already rejected duplicate
		// precedences, so there are no ties).
		for i := 1; i < len(levels); i++ {
			for j := i; j > 0 && levels[j].Precedence < levels[j-1].Precedence; j-- {
				levels[j], levels[j-1] = levels[j-1], levels[j]
			}
		}
		for _, r := range levels {
			if r.Precedence < 0 || len(levels) == 1 {
				r.compiledName = r.Name
			} else {
				r.compiledName = fmt.Sprintf("%s[%d]", r.Name, r.Precedence)
			}
		}
		fams = append(fams, &ruleFamily{name: name, levels: levels})
	}
	return fams
}
