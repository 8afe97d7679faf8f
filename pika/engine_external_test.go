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

// These end-to-end tests exercise the grammar DSL reader and the
// golden fixtures on top of the compiled engine, so they live in the
// external test package to avoid metagrammar's own import of pika
// creating a cycle with an internal pika_test.

package pika_test

import (
	"testing"

	"github.com/kpeg/pika/internal/fixtures"
	"github.com/kpeg/pika/metagrammar"
	"github.com/kpeg/pika/pika"
)

func compileFixture(t *testing.T, name string) *pika.Grammar {
	t.Helper()
	src, err := fixtures.Get(name)
	if err != nil {
		t.Fatalf("fixtures.Get(%q): %s", name, err)
	}
	rules, err := metagrammar.Parse(src)
	if err != nil {
		t.Fatalf("metagrammar.Parse(%q): %s", name, err)
	}
	g, err := pika.New(rules)
	if err != nil {
		t.Fatalf("New(%q): %s", name, err)
	}
	return g
}

func TestEndToEndArithPrecedenceAndAssociativity(t *testing.T) {
	g := compileFixture(t, "/fixtures/arith.peg")
	table := g.Parse("1+2*3-4", nil)
	rule, ok := g.GetRule("E")
	if !ok {
		t.Fatal("grammar has no rule E")
	}
	m := table.LookUpBestMatch(pika.MemoKey{Clause: rule.Body.Clause, StartPos: 0})
	if m == nil {
		t.Fatal("no match for E at 0")
	}
	if m.Len != len("1+2*3-4") {
		t.Errorf("Len = %d, want %d (whole input consumed)", m.Len, len("1+2*3-4"))
	}
}

func TestEndToEndZeroTailPlaceholder(t *testing.T) {
	g := compileFixture(t, "/fixtures/zerotail.peg")
	table := g.Parse("a", nil)
	rule, ok := g.GetRule("S")
	if !ok {
		t.Fatal("grammar has no rule S")
	}
	m := table.LookUpBestMatch(pika.MemoKey{Clause: rule.Body.Clause, StartPos: 0})
	if m == nil {
		t.Fatal("no match for S at 0")
	}
	if m.Len != 1 {
		t.Errorf("Len = %d, want 1 (b:'b'* matches zero characters)", m.Len)
	}
}

func TestEndToEndCharSetInversion(t *testing.T) {
	g := compileFixture(t, "/fixtures/charclass.peg")
	table := g.Parse("xyz0", nil)
	rule, ok := g.GetRule("NotDigit")
	if !ok {
		t.Fatal("grammar has no rule NotDigit")
	}
	m := table.LookUpBestMatch(pika.MemoKey{Clause: rule.Body.Clause, StartPos: 0})
	if m == nil {
		t.Fatal("no match for NotDigit at 0")
	}
	if m.Len != 3 {
		t.Errorf("Len = %d, want 3 (stops before the digit)", m.Len)
	}
}

func TestEndToEndSyntaxErrorLocalisation(t *testing.T) {
	g := compileFixture(t, "/fixtures/errorlines.peg")
	input := "one two!!three"
	table := g.Parse(input, nil)
	errs, err := table.GetSyntaxErrors("Line")
	if err != nil {
		t.Fatalf("GetSyntaxErrors: %s", err)
	}
	found := false
	for _, e := range errs {
		if e.Text == "!!" {
			found = true
		}
	}
	if !found {
		t.Errorf("syntax errors %+v do not include the uncovered %q span", errs, "!!")
	}
}

func TestEndToEndDirectLeftRecursion(t *testing.T) {
	g := compileFixture(t, "/fixtures/leftrecurse.peg")
	table := g.Parse("a,b,c", nil)
	rule, ok := g.GetRule("List")
	if !ok {
		t.Fatal("grammar has no rule List")
	}
	m := table.LookUpBestMatch(pika.MemoKey{Clause: rule.Body.Clause, StartPos: 0})
	if m == nil {
		t.Fatal("no match for List at 0")
	}
	if m.Len != 5 {
		t.Errorf("Len = %d, want 5 (whole input)", m.Len)
	}
}

func TestParallelTerminalScanAgreesWithSequential(t *testing.T) {
	g := compileFixture(t, "/fixtures/arith.peg")
	rule, _ := g.GetRule("E")
	input := "1+2*3-4"

	seq := g.Parse(input, &pika.Options{ParallelTerminalScan: false})
	par := g.Parse(input, &pika.Options{ParallelTerminalScan: true})

	ms := seq.LookUpBestMatch(pika.MemoKey{Clause: rule.Body.Clause, StartPos: 0})
	mp := par.LookUpBestMatch(pika.MemoKey{Clause: rule.Body.Clause, StartPos: 0})
	if ms == nil || mp == nil {
		t.Fatal("expected a match under both sequential and parallel terminal scans")
	}
	if ms.Len != mp.Len {
		t.Errorf("sequential scan Len = %d, parallel scan Len = %d, want equal", ms.Len, mp.Len)
	}
}

func TestCompilationIsDeterministicAcrossRuns(t *testing.T) {
	src, err := fixtures.Get("/fixtures/arith.peg")
	if err != nil {
		t.Fatalf("fixtures.Get: %s", err)
	}
	rules1, err := metagrammar.Parse(src)
	if err != nil {
		t.Fatalf("metagrammar.Parse: %s", err)
	}
	g1, err := pika.New(rules1)
	if err != nil {
		t.Fatalf("New: %s", err)
	}
	rules2, err := metagrammar.Parse(src)
	if err != nil {
		t.Fatalf("metagrammar.Parse: %s", err)
	}
	g2, err := pika.New(rules2)
	if err != nil {
		t.Fatalf("New: %s", err)
	}
	if g1.String() != g2.String() {
		t.Error("parsing and compiling the same grammar source twice produced different String() output")
	}
}
