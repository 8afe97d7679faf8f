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
	"sync"

	log "github.com/golang/glog"
)

// bucketQueue is the worklist implementation: one bucket per ClauseIdx,
// buckets popped in ascending index order so that a clause is not
// reattempted until every clause below it in the bottom-up order has
// drained. Seed-parent back-edges from a left-recursive cycle can
// enqueue an index below the current low-water mark; enqueue lowers the
// mark to match, so such re-attempts are not lost.
//
// Within a single bucket, positions drain highest-first. spec §4.4
// calls the scan right-to-left: a Seq's later sub-clauses seed nothing
// themselves (§4.2 step 8 only seeds the non-nullable prefix), so a
// left-recursive Seq growing at pos only sees a later position's best
// match if that position was already resolved. Draining right-to-left
// guarantees it was.
type bucketQueue struct {
	mu      sync.Mutex
	buckets []map[int]bool
	low     int
}

func newBucketQueue(n int) *bucketQueue {
	b := make([]map[int]bool, n)
	for i := range b {
		b[i] = make(map[int]bool)
	}
	return &bucketQueue{buckets: b, low: n}
}

func (q *bucketQueue) enqueue(clause *Clause, startPos int) {
	q.mu.Lock()
	defer q.mu.Unlock()
	idx := clause.ClauseIdx
	q.buckets[idx][startPos] = true
	if idx < q.low {
		q.low = idx
	}
}

// pop returns the next pending (clauseIdx, startPos) pair, or ok=false
// once every bucket is empty. Within the chosen bucket, the highest
// startPos is returned first.
func (q *bucketQueue) pop() (clauseIdx, startPos int, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for q.low < len(q.buckets) {
		b := q.buckets[q.low]
		if len(b) == 0 {
			q.low++
			continue
		}
		max := -1
		for p := range b {
			if p > max {
				max = p
			}
		}
		delete(b, max)
		return q.low, max, true
	}
	return 0, 0, false
}

// Parse runs the pika parsing algorithm of spec §4.4 over input and
// returns the resulting MemoTable. opts may be nil to take the
// defaults.
func (g *Grammar) Parse(input string, opts *Options) *MemoTable {
	table := newMemoTable(g, input)
	q := newBucketQueue(len(g.AllClauses))

	if g.lexRule != nil && opts.runLexPass(true) {
		if opts.debug() {
			log.V(1).Infof("pika: running lex pre-pass (%s) over %d-byte input", MatchDirection(TopDown), len(input))
		}
		runLexPass(g, table, q, input)
	}

	scanTerminals(g, table, q, input, opts.parallelScan())

	processed := 0
	for {
		clauseIdx, pos, ok := q.pop()
		if !ok {
			break
		}
		clause := g.AllClauses[clauseIdx]
		if isTerminal(clause.Kind) {
			continue // fully resolved by the terminal pre-scan
		}
		processed++
		m := matchBottomUp(table, clause, pos)
		table.AddMatch(m, q)
	}
	if opts.debug() {
		created, memoised := table.Stats()
		log.V(1).Infof("pika: worklist processed %d (clause,pos) pairs; %d matches created, %d memoised", processed, created, memoised)
	}
	return table
}

// runLexPass recursively matches the Lex rule at every position,
// top-down with memoisation, so grammars that separate lexing from
// parsing can reference Lex's sub-clauses as ordinary bottom-up
// terminals afterwards.
func runLexPass(g *Grammar, table *MemoTable, q worklist, input string) {
	lex := g.lexRule.Body.Clause
	var rec func(c *Clause, pos int) *Match
	rec = func(c *Clause, pos int) *Match {
		if m := table.LookUpBestMatch(MemoKey{Clause: c, StartPos: pos}); m != nil {
			return m
		}
		var m *Match
		if isTerminal(c.Kind) {
			m = matchTerminal(c, pos, input)
		} else {
			m = matchComposite(c, pos, rec)
		}
		table.AddMatch(m, q)
		return m
	}
	for pos := 0; pos <= len(input); pos++ {
		rec(lex, pos)
	}
}

// scanTerminals evaluates every terminal clause at every position
// (spec §4.4 step 3, §5). Run in parallel, one goroutine per terminal
// clause, when requested: MemoTable.AddMatch already serialises on its
// own mutex, so concurrent insertion of distinct (clause, pos) keys
// needs no further coordination.
func scanTerminals(g *Grammar, table *MemoTable, q worklist, input string, parallel bool) {
	var terminals []*Clause
	for _, c := range g.AllClauses {
		if isTerminal(c.Kind) {
			terminals = append(terminals, c)
		}
	}
	scanOne := func(c *Clause) {
		for pos := 0; pos <= len(input); pos++ {
			table.AddMatch(matchTerminal(c, pos, input), q)
		}
	}
	if !parallel {
		for _, c := range terminals {
			scanOne(c)
		}
		return
	}
	var wg sync.WaitGroup
	for _, c := range terminals {
		wg.Add(1)
		go func(c *Clause) {
			defer wg.Done()
			scanOne(c)
		}(c)
	}
	wg.Wait()
}

func (d MatchDirection) String() string {
	if d == TopDown {
		return "top-down"
	}
	return "bottom-up"
}
