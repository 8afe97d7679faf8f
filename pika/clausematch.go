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
	"strings"
	"unicode/utf8"

	log "github.com/golang/glog"
)

// MatchDirection names how a composite clause's sub-clauses are
// matched: BottomUp reads already-memoised results out of the
// MemoTable (the main worklist loop, §4.4 step 4), while TopDown
// recurses into sub-clauses directly (the optional lex pre-pass, §4.4
// step 2, which still reads and writes the same MemoTable as it goes).
// The matching functions take no direction argument; the value is only
// used in debug logging.
type MatchDirection int

const (
	BottomUp MatchDirection = iota
	TopDown
)

// matchTerminal evaluates a terminal clause (CharSet, CharSeq, Nothing,
// Start) at pos; terminals never depend on the memo table or on
// direction.
func matchTerminal(clause *Clause, pos int, input string) *Match {
	key := MemoKey{Clause: clause, StartPos: pos}
	switch clause.Kind {
	case KindCharSet:
		if pos >= len(input) {
			return nil
		}
		r, width := utf8.DecodeRuneInString(input[pos:])
		if !clause.CharSet.Matches(r) {
			return nil
		}
		return &Match{Key: key, Len: width}
	case KindCharSeq:
		end := pos + len(clause.Literal)
		if end > len(input) {
			return nil
		}
		seg := input[pos:end]
		if clause.IgnoreCase {
			if !strings.EqualFold(seg, clause.Literal) {
				return nil
			}
		} else if seg != clause.Literal {
			return nil
		}
		return &Match{Key: key, Len: len(clause.Literal)}
	case KindNothing:
		return &Match{Key: key, Len: 0}
	case KindStart:
		if pos != 0 {
			return nil
		}
		return &Match{Key: key, Len: 0}
	}
	log.Exitf("matchTerminal: clause %s is not a terminal kind", clause)
	return nil
}

func isTerminal(k Kind) bool {
	switch k {
	case KindCharSet, KindCharSeq, KindNothing, KindStart:
		return true
	}
	return false
}

// matchBottomUp evaluates a composite clause at pos, reading its
// sub-clauses' current best matches out of table rather than recursing.
// It is correct only once every sub-clause this composite depends on
// has had a chance to be memoised; the worklist's bottom-up ClauseIdx
// order and the seed-parent re-enqueue guarantee that (§4.4, §4.2 step
// 8).
func matchBottomUp(table *MemoTable, clause *Clause, pos int) *Match {
	lookup := func(c *Clause, p int) *Match { return table.LookUpBestMatch(MemoKey{Clause: c, StartPos: p}) }
	return matchComposite(clause, pos, lookup)
}

// matchComposite implements the non-terminal operators of spec §4.1,
// parameterised over how a sub-clause's match at a given position is
// obtained (memo-table read, or direct recursion).
func matchComposite(clause *Clause, pos int, lookup func(*Clause, int) *Match) *Match {
	key := MemoKey{Clause: clause, StartPos: pos}
	switch clause.Kind {
	case KindSeq:
		cur := pos
		subMatches := make([]*Match, 0, len(clause.Subs))
		for _, s := range clause.Subs {
			m := lookup(s.Clause, cur)
			if m == nil {
				return nil
			}
			subMatches = append(subMatches, m)
			cur += m.Len
		}
		return &Match{Key: key, Len: cur - pos, SubMatches: subMatches}

	case KindFirst:
		for i, s := range clause.Subs {
			if m := lookup(s.Clause, pos); m != nil {
				return &Match{Key: key, Len: m.Len, FirstMatchingSubClauseIdx: i, SubMatches: []*Match{m}}
			}
		}
		return nil

	case KindOneOrMore:
		sub := clause.Subs[0].Clause
		var reps []*Match
		cur := pos
		for {
			m := lookup(sub, cur)
			if m == nil {
				break
			}
			reps = append(reps, m)
			cur += m.Len
			if m.Len == 0 {
				break // a zero-width repetition would otherwise loop forever
			}
		}
		if len(reps) == 0 {
			return nil
		}
		return chainOneOrMore(clause, pos, reps)

	case KindFollowedBy:
		if lookup(clause.Subs[0].Clause, pos) == nil {
			return nil
		}
		return &Match{Key: key, Len: 0}

	case KindNotFollowedBy:
		if lookup(clause.Subs[0].Clause, pos) != nil {
			return nil
		}
		return &Match{Key: key, Len: 0}
	}

	log.Exitf("matchComposite: clause %s is not a compiled composite kind (got %s, a pre-resolution-only kind that must not survive Grammar.New)", clause, clause.Kind)
	return nil
}

// chainOneOrMore assembles reps (the consecutive sub-clause matches
// starting at pos, already obtained by direct repeated lookup) into the
// right-recursive Match shape LabelledSubs expects: each node's
// SubMatches holds its own repetition plus the remaining chain, so the
// last node has one element and every earlier node has two. Building
// the chain this way, from a single forward scan of the sub-clause
// rather than by recursing into the OneOrMore clause's own memo
// entries, means a match at pos does not depend on this same clause
// already having been resolved at a later position first.
func chainOneOrMore(clause *Clause, pos int, reps []*Match) *Match {
	n := len(reps)
	positions := make([]int, n+1)
	positions[0] = pos
	for i, r := range reps {
		positions[i+1] = positions[i] + r.Len
	}
	var tail *Match
	for i := n - 1; i >= 0; i-- {
		m := &Match{
			Key: MemoKey{Clause: clause, StartPos: positions[i]},
			Len: positions[n] - positions[i],
		}
		if tail == nil {
			m.SubMatches = []*Match{reps[i]}
		} else {
			m.SubMatches = []*Match{reps[i], tail}
		}
		tail = m
	}
	return tail
}
