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

import "testing"

func TestIsBetterThanFirstClausePrefersEarlierAlternative(t *testing.T) {
	first := newClause(KindFirst, Sub{}, Sub{})
	longLate := &Match{Key: MemoKey{Clause: first}, Len: 100, FirstMatchingSubClauseIdx: 1}
	shortEarly := &Match{Key: MemoKey{Clause: first}, Len: 1, FirstMatchingSubClauseIdx: 0}
	if !shortEarly.isBetterThan(longLate) {
		t.Error("a shorter match from an earlier First alternative should win")
	}
	if longLate.isBetterThan(shortEarly) {
		t.Error("a longer match from a later First alternative should not win")
	}
}

func TestIsBetterThanNonFirstPrefersLongerMatch(t *testing.T) {
	seq := newClause(KindSeq, Sub{}, Sub{})
	short := &Match{Key: MemoKey{Clause: seq}, Len: 1}
	long := &Match{Key: MemoKey{Clause: seq}, Len: 2}
	if !long.isBetterThan(short) {
		t.Error("a longer match should win for a non-First clause")
	}
	if short.isBetterThan(long) {
		t.Error("a shorter match should not win over a longer one")
	}
}

func TestIsBetterThanNilAlwaysLoses(t *testing.T) {
	seq := newClause(KindSeq)
	m := &Match{Key: MemoKey{Clause: seq}, Len: 0}
	if !m.isBetterThan(nil) {
		t.Error("any match should be better than no existing match")
	}
}

func TestLabelledSubsOneOrMoreFlattensChain(t *testing.T) {
	item := CharSeqClause("a", false)
	oneOrMore := OneOrMoreClause(L("item", item))

	leaf1 := &Match{Key: MemoKey{Clause: item, StartPos: 2}, Len: 1}
	rep1 := &Match{Key: MemoKey{Clause: oneOrMore, StartPos: 2}, Len: 1, SubMatches: []*Match{leaf1}}
	leaf0 := &Match{Key: MemoKey{Clause: item, StartPos: 1}, Len: 1}
	rep0 := &Match{Key: MemoKey{Clause: oneOrMore, StartPos: 1}, Len: 2, SubMatches: []*Match{leaf0, rep1}}

	subs := rep0.LabelledSubs()
	if len(subs) != 2 {
		t.Fatalf("LabelledSubs returned %d entries, want 2", len(subs))
	}
	for i, s := range subs {
		if s.Label != "item" {
			t.Errorf("subs[%d].Label = %q, want %q", i, s.Label, "item")
		}
	}
	if subs[0].Match != leaf0 || subs[1].Match != leaf1 {
		t.Error("flattened chain is not in left-to-right repetition order")
	}
}

func TestLabelledSubsFirstUsesChosenAlternativeLabel(t *testing.T) {
	a := CharSeqClause("a", false)
	b := CharSeqClause("b", false)
	first := FirstClause(L("alpha", a), L("beta", b))
	chosen := &Match{Key: MemoKey{Clause: b}, Len: 1}
	m := &Match{Key: MemoKey{Clause: first}, Len: 1, FirstMatchingSubClauseIdx: 1, SubMatches: []*Match{chosen}}
	subs := m.LabelledSubs()
	if len(subs) != 1 || subs[0].Label != "beta" {
		t.Errorf("LabelledSubs = %+v, want one entry labelled %q", subs, "beta")
	}
}
