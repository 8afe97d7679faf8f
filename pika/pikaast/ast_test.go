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

package pikaast

import (
	"testing"

	"github.com/kpeg/pika/metagrammar"
	"github.com/kpeg/pika/pika"
)

func TestToASTFlattensUnlabelledStructure(t *testing.T) {
	rules, err := metagrammar.Parse(`
E[0,L] <- lhs:E '+' rhs:E / num:[0-9]+;
`)
	if err != nil {
		t.Fatalf("metagrammar.Parse: %s", err)
	}
	g, err := pika.New(rules)
	if err != nil {
		t.Fatalf("pika.New: %s", err)
	}
	input := "1+2"
	table := g.Parse(input, nil)
	rule, _ := g.GetRule("E")
	m := table.LookUpBestMatch(pika.MemoKey{Clause: rule.Body.Clause, StartPos: 0})
	if m == nil {
		t.Fatal("no match for E at 0")
	}
	root := ToAST("E", m, input)

	if root.Label != "E" {
		t.Errorf("root.Label = %q, want %q", root.Label, "E")
	}
	if len(root.Children) != 2 {
		t.Fatalf("root has %d children, want 2 (lhs, rhs); got %+v", len(root.Children), root)
	}
	if root.Children[0].Label != "lhs" || root.Children[0].Text != "1" {
		t.Errorf("children[0] = %+v, want lhs=%q", root.Children[0], "1")
	}
	if root.Children[1].Label != "rhs" || root.Children[1].Text != "2" {
		t.Errorf("children[1] = %+v, want rhs=%q", root.Children[1], "2")
	}
}

func TestToASTUnlabelledMatchHasNoChildren(t *testing.T) {
	rules, err := metagrammar.Parse(`R <- [0-9]+;`)
	if err != nil {
		t.Fatalf("metagrammar.Parse: %s", err)
	}
	g, err := pika.New(rules)
	if err != nil {
		t.Fatalf("pika.New: %s", err)
	}
	table := g.Parse("42", nil)
	rule, _ := g.GetRule("R")
	m := table.LookUpBestMatch(pika.MemoKey{Clause: rule.Body.Clause, StartPos: 0})
	root := ToAST("R", m, "42")
	if len(root.Children) != 0 {
		t.Errorf("Children = %+v, want none (no AST labels anywhere in the grammar)", root.Children)
	}
	if root.Text != "42" {
		t.Errorf("Text = %q, want %q", root.Text, "42")
	}
}

func TestWalkVisitsEveryNode(t *testing.T) {
	root := &Node{Label: "A", Children: []*Node{{Label: "B"}, {Label: "C", Children: []*Node{{Label: "D"}}}}}
	var seen []string
	root.Walk(func(n *Node) { seen = append(seen, n.Label) })
	want := []string{"A", "B", "C", "D"}
	if len(seen) != len(want) {
		t.Fatalf("Walk visited %v, want %v", seen, want)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("seen[%d] = %q, want %q", i, seen[i], want[i])
		}
	}
}

func TestDiffReportsLabelAndTextMismatches(t *testing.T) {
	got := &Node{Label: "E", Text: "1", Children: []*Node{{Label: "num", Text: "1"}}}
	want := &Node{Label: "E", Text: "1", Children: []*Node{{Label: "num", Text: "2"}}}
	diff := Diff(got, want)
	if len(diff) == 0 {
		t.Fatal("expected a diff for mismatched text, got none")
	}
}

func TestDiffEmptyForEquivalentTrees(t *testing.T) {
	a := &Node{Label: "E", Text: "1+2", Children: []*Node{{Label: "lhs", Text: "1"}, {Label: "rhs", Text: "2"}}}
	b := &Node{Label: "E", Text: "1+2", Children: []*Node{{Label: "lhs", Text: "1"}, {Label: "rhs", Text: "2"}}}
	if diff := Diff(a, b); len(diff) != 0 {
		t.Errorf("Diff of equivalent trees = %v, want none", diff)
	}
}

func TestDiffHandlesNilNodes(t *testing.T) {
	n := &Node{Label: "E"}
	if diff := Diff(nil, n); len(diff) == 0 {
		t.Error("expected a diff when got is nil but want is not")
	}
	if diff := Diff(n, nil); len(diff) == 0 {
		t.Error("expected a diff when want is nil but got is not")
	}
	if diff := Diff(nil, nil); len(diff) != 0 {
		t.Error("expected no diff when both are nil")
	}
}
