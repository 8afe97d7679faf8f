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

// MemoKey identifies one memo-table slot: a clause together with the
// input position it was attempted at. Equality is by clause identity
// (Clauses are interned, so pointer equality suffices) and position.
type MemoKey struct {
	Clause   *Clause
	StartPos int
}

func (k MemoKey) String() string {
	return fmt.Sprintf("%s@%d", k.Clause.String(), k.StartPos)
}

// Match is one successful application of a clause at a position.
//
// For a First match, FirstMatchingSubClauseIdx is the index of the
// chosen alternative and len(SubMatches) == 1. For a OneOrMore match,
// the tree is right-recursive: SubMatches has one element (the last
// repetition) or two (head, continuation) — LabelledSubs flattens this
// chain. For Seq, SubMatches has one entry per labelled sub-clause. For
// terminals and lookaheads, SubMatches is empty.
type Match struct {
	Key                       MemoKey
	Len                       int
	FirstMatchingSubClauseIdx int
	SubMatches                []*Match
}

// End returns the exclusive end position of the match.
func (m *Match) End() int { return m.Key.StartPos + m.Len }

// Text returns the portion of input this match consumed.
func (m *Match) Text(input string) string {
	return input[m.Key.StartPos : m.Key.StartPos+m.Len]
}

// isBetterThan implements the total, antisymmetric (ignoring exact
// ties) best-match ordering from spec §4.3:
//  1. For a First clause, a smaller FirstMatchingSubClauseIdx wins.
//  2. Otherwise (or after equal alternative index), a larger Len wins.
//  3. Equal on both: not better (existing entry is kept).
func (m *Match) isBetterThan(other *Match) bool {
	if other == nil {
		return true
	}
	if m.Key.Clause.Kind == KindFirst {
		if m.FirstMatchingSubClauseIdx != other.FirstMatchingSubClauseIdx {
			return m.FirstMatchingSubClauseIdx < other.FirstMatchingSubClauseIdx
		}
	}
	return m.Len > other.Len
}

// LabelledSub is one (optional label, sub-match) pair in the labelled
// view of a match's children (spec §4.5).
type LabelledSub struct {
	Label string
	Match *Match
}

// LabelledSubs returns the labelled view of m's sub-matches used for
// AST projection:
//   - OneOrMore: the right-recursive chain flattened into a sequence,
//     each element labelled with the sub-clause's own AST label.
//   - First: one pair, labelled with the chosen alternative's AST label.
//   - Seq and other composites: sub-matches zipped with their
//     sub-clause labels in index order.
//   - Terminals and lookaheads: empty.
func (m *Match) LabelledSubs() []LabelledSub {
	clause := m.Key.Clause
	switch clause.Kind {
	case KindOneOrMore:
		label := clause.Subs[0].Label
		var out []LabelledSub
		cur := m
		for {
			switch len(cur.SubMatches) {
			case 1:
				out = append(out, LabelledSub{Label: label, Match: cur.SubMatches[0]})
				return out
			case 2:
				out = append(out, LabelledSub{Label: label, Match: cur.SubMatches[0]})
				cur = cur.SubMatches[1]
			default:
				return out
			}
		}
	case KindFirst:
		if len(m.SubMatches) == 0 {
			return nil
		}
		label := clause.Subs[m.FirstMatchingSubClauseIdx].Label
		return []LabelledSub{{Label: label, Match: m.SubMatches[0]}}
	case KindFollowedBy, KindNotFollowedBy, KindCharSet, KindCharSeq, KindNothing, KindStart:
		return nil
	default: // Seq and any future fixed-arity composite
		out := make([]LabelledSub, len(m.SubMatches))
		for i, sm := range m.SubMatches {
			label := ""
			if i < len(clause.Subs) {
				label = clause.Subs[i].Label
			}
			out[i] = LabelledSub{Label: label, Match: sm}
		}
		return out
	}
}
