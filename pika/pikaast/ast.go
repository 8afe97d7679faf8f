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

// Package pikaast projects pika.Match trees (spec §4.5) into a labelled
// AST, pruning the unlabelled structural matches (Seq, First, OneOrMore)
// a grammar's label:X annotations did not name.
package pikaast

import (
	"fmt"
	"strings"

	"github.com/kpeg/pika/pika"
)

// Node is one labelled AST node. Unlike the underlying Match tree, Node
// only exists for matches the grammar gave an AST label (via
// pika.LabelClause) plus the synthetic root; every unlabelled
// intermediate match is flattened away, with its labelled descendants
// spliced directly into the nearest labelled ancestor.
type Node struct {
	Label    string
	Text     string
	Pos      int
	Len      int
	Children []*Node
}

// ToAST projects m into an AST rooted at a node labelled rootLabel
// (typically the rule name m was matched against).
func ToAST(rootLabel string, m *pika.Match, input string) *Node {
	return build(rootLabel, m, input)
}

func build(label string, m *pika.Match, input string) *Node {
	n := &Node{Label: label, Text: m.Text(input), Pos: m.Key.StartPos, Len: m.Len}
	for _, ls := range m.LabelledSubs() {
		if ls.Label == "" {
			flattened := build("", ls.Match, input)
			n.Children = append(n.Children, flattened.Children...)
			continue
		}
		n.Children = append(n.Children, build(ls.Label, ls.Match, input))
	}
	return n
}

func (n *Node) String() string {
	if n == nil {
		return "<nil>"
	}
	var b strings.Builder
	n.write(&b, "")
	return b.String()
}

func (n *Node) write(b *strings.Builder, indent string) {
	fmt.Fprintf(b, "(%s", n.Label)
	if len(n.Children) == 0 {
		fmt.Fprintf(b, " %q", n.Text)
	}
	for _, c := range n.Children {
		b.WriteString("\n")
		b.WriteString(indent)
		b.WriteString("  ")
		c.write(b, indent+"  ")
	}
	b.WriteString(")")
}

// Walk calls fn for n and every descendant, pre-order.
func (n *Node) Walk(fn func(*Node)) {
	if n == nil {
		return
	}
	fn(n)
	for _, c := range n.Children {
		c.Walk(fn)
	}
}
