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
	"sort"
	"sync"

	log "github.com/golang/glog"

	"github.com/kpeg/pika/pika/intervalunion"
)

// MemoTable maps (clause, startPos) to the current best Match found
// for that clause starting at that position. No entry is ever removed;
// only strict improvements (per Match.isBetterThan) overwrite an
// existing entry. A MemoTable is owned by a single parse, but AddMatch
// is safe for concurrent insertion of distinct keys, which is all the
// terminal pre-scan (spec §5) requires.
type MemoTable struct {
	grammar *Grammar
	input   string

	mu      sync.Mutex
	entries map[MemoKey]*Match

	matchesCreated  int
	matchesMemoised int
}

func newMemoTable(g *Grammar, input string) *MemoTable {
	return &MemoTable{
		grammar: g,
		input:   input,
		entries: make(map[MemoKey]*Match),
	}
}

// Stats returns the number of Match values created and the number
// actually memoised (i.e. that won the best-match ordering at least
// once), for diagnostics.
func (t *MemoTable) Stats() (created, memoised int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.matchesCreated, t.matchesMemoised
}

// LookUpBestMatch returns the stored best match for key, if any.
// Otherwise, if key.Clause can match zero characters, it returns a
// synthetic zero-length placeholder (not stored in the table) with
// FirstMatchingSubClauseIdx set to the first sub-clause that can match
// zero, covering every operator kind per spec §4.1/§4.3.
func (t *MemoTable) LookUpBestMatch(key MemoKey) *Match {
	t.mu.Lock()
	m, ok := t.entries[key]
	t.mu.Unlock()
	if ok {
		return m
	}
	if !key.Clause.CanMatchZeroChars {
		return nil
	}
	return syntheticZeroMatch(key)
}

func syntheticZeroMatch(key MemoKey) *Match {
	idx := 0
	for i, s := range key.Clause.Subs {
		if s.Clause.CanMatchZeroChars {
			idx = i
			break
		}
	}
	return &Match{Key: key, Len: 0, FirstMatchingSubClauseIdx: idx}
}

// worklist is the subset of the worklist interface MemoTable needs in
// order to enqueue parents it has just (re)enabled; engine.go supplies
// the bucket-queue implementation.
type worklist interface {
	enqueue(clause *Clause, startPos int)
}

// AddMatch stores newMatch if it is non-nil and strictly better than
// any existing entry at newMatch.Key (spec §4.3). When it is stored,
// every seed-parent clause is re-enqueued at the same start position,
// so growth keeps propagating up a left-recursive cycle for as long as
// it keeps improving.
func (t *MemoTable) AddMatch(newMatch *Match, q worklist) {
	if newMatch == nil {
		return
	}
	key := newMatch.Key
	t.mu.Lock()
	existing, ok := t.entries[key]
	t.matchesCreated++
	improved := !ok || newMatch.isBetterThan(existing)
	if improved {
		t.entries[key] = newMatch
		t.matchesMemoised++
	}
	t.mu.Unlock()
	if !improved {
		return
	}
	if log.V(5) {
		log.V(5).Infof("memoised %s len=%d", key, newMatch.Len)
	}
	for _, parent := range key.Clause.SeedParents {
		q.enqueue(parent, key.StartPos)
	}
}

// GetAllMatches returns every match of clause, in increasing StartPos
// order.
func (t *MemoTable) GetAllMatches(clause *Clause) []*Match {
	t.mu.Lock()
	defer t.mu.Unlock()
	var out []*Match
	for k, m := range t.entries {
		if k.Clause == clause {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key.StartPos < out[j].Key.StartPos })
	return out
}

// GetNonOverlappingMatches performs the greedy left-to-right sweep of
// spec §4.3: accept the first match at the lowest position, skip to
// start+max(1,len), repeat. The minimum-1 advance guarantees
// termination even when every match is zero-length.
func (t *MemoTable) GetNonOverlappingMatches(clause *Clause) []*Match {
	all := t.GetAllMatches(clause)
	var out []*Match
	next := 0
	for _, m := range all {
		if m.Key.StartPos < next {
			continue
		}
		out = append(out, m)
		adv := m.Len
		if adv < 1 {
			adv = 1
		}
		next = m.Key.StartPos + adv
	}
	return out
}

// NavigableMatches supports "next match at or after position p"
// queries, used for error-recovery navigation (spec §4.3).
type NavigableMatches struct {
	matches []*Match // sorted by StartPos
}

// NextAtOrAfter returns the first match whose StartPos >= pos, or nil
// if none exists.
func (n *NavigableMatches) NextAtOrAfter(pos int) *Match {
	i := sort.Search(len(n.matches), func(i int) bool { return n.matches[i].Key.StartPos >= pos })
	if i == len(n.matches) {
		return nil
	}
	return n.matches[i]
}

// All returns every match in increasing StartPos order.
func (n *NavigableMatches) All() []*Match { return n.matches }

// GetNavigableMatches returns clause's matches wrapped for
// NextAtOrAfter-style navigation.
func (t *MemoTable) GetNavigableMatches(clause *Clause) *NavigableMatches {
	return &NavigableMatches{matches: t.GetAllMatches(clause)}
}

// SyntaxError is one uncovered span of the input: a region that no
// non-overlapping match of any of the requested coverage rules
// accounts for.
type SyntaxError struct {
	Start, End int
	Text       string
}

// GetSyntaxErrors unions the non-overlapping matches of the named
// coverage rules via IntervalUnion, complements within
// [0, len(input)), and returns the resulting gaps as SyntaxErrors
// (spec §4.3, §7). The covered intervals and the returned errors are
// disjoint and together span the whole input.
func (t *MemoTable) GetSyntaxErrors(ruleNames ...string) ([]SyntaxError, error) {
	var cov intervalunion.Union
	for _, name := range ruleNames {
		rule, ok := t.grammar.GetRule(name)
		if !ok {
			return nil, grammarErrorf(name, "no such rule for syntax-error coverage")
		}
		for _, m := range t.GetNonOverlappingMatches(rule.Body.Clause) {
			cov.AddRange(m.Key.StartPos, m.End())
		}
	}
	gaps := cov.Complement(0, len(t.input))
	out := make([]SyntaxError, len(gaps))
	for i, g := range gaps {
		out[i] = SyntaxError{Start: g.Start, End: g.End, Text: t.input[g.Start:g.End]}
	}
	return out, nil
}
