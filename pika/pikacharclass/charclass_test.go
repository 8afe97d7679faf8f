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

package pikacharclass

import (
	"testing"
)

func TestParseMembership(t *testing.T) {
	tests := []struct {
		input string
		in    []rune
		out   []rune
	}{
		{"abc", []rune{'a', 'b', 'c'}, []rune{'d', 'A'}},
		{`\t `, []rune{' ', '\t'}, []rune{'\n'}},
		{"-", []rune{'-'}, []rune{'a'}},
		{"a-", []rune{'-', 'a'}, []rune{'b'}},
		{"a-c", []rune{'a', 'b', 'c'}, []rune{'d'}},
		{"a-co-px-z", []rune{'a', 'c', 'o', 'p', 'x', 'z'}, []rune{'d', 'q', 'w'}},
		{"A-Za-z", []rune{'A', 'Z', 'a', 'z'}, []rune{'0', '_'}},
		{`\b\t\n\r`, []rune{'\n', '\t', '\b', '\r'}, []rune{' '}},
		{"^a-x", nil, nil}, // validated separately below for negation
		{"[:digit:]", []rune{'0', '9'}, []rune{'a'}},
		{"[:alpha:]", []rune{'a', 'Z'}, []rune{'0'}},
		{"А-Я", []rune{'А', 'Б', 'Я'}, []rune{'a'}},
	}
	for _, tt := range tests {
		cc, err := Parse(tt.input)
		if err != nil {
			t.Errorf("Parse(%q) returned error %s, want success", tt.input, err)
			continue
		}
		for _, c := range tt.in {
			if !cc.Matches(c) {
				t.Errorf("Parse(%q).Matches(%q) = false, want true", tt.input, c)
			}
		}
		for _, c := range tt.out {
			if cc.Matches(c) {
				t.Errorf("Parse(%q).Matches(%q) = true, want false", tt.input, c)
			}
		}
	}
}

func TestParseNegated(t *testing.T) {
	cc, err := Parse("^a-x")
	if err != nil {
		t.Fatalf("Parse(^a-x) returned error %s", err)
	}
	for _, c := range []rune{'a', 'x', 'm'} {
		if cc.Matches(c) {
			t.Errorf("Matches(%q) = true, want false (negated range)", c)
		}
	}
	for _, c := range []rune{'y', 'z', ' '} {
		if !cc.Matches(c) {
			t.Errorf("Matches(%q) = false, want true (outside negated range)", c)
		}
	}
}

func TestParseInvalid(t *testing.T) {
	tests := []string{"", "c-a", "a-a", `\x0-\x0d`}
	for _, in := range tests {
		if _, err := Parse(in); err == nil {
			t.Errorf("Parse(%q) succeeded, want error", in)
		}
	}
}

func TestStringRoundTrip(t *testing.T) {
	tests := []string{"abc", "a-c", "A-Za-z", "^a-x"}
	for _, in := range tests {
		cc, err := Parse(in)
		if err != nil {
			t.Fatalf("Parse(%q) returned error %s", in, err)
		}
		cc2, err := Parse(cc.String())
		if err != nil {
			t.Fatalf("Parse(%q) (round trip of %q) returned error %s", cc.String(), in, err)
		}
		for c := rune(0); c < 200; c++ {
			if cc.Matches(c) != cc2.Matches(c) {
				t.Errorf("round trip of %q via %q disagrees at %q", in, cc.String(), c)
				break
			}
		}
	}
}

func TestUnion(t *testing.T) {
	u := Union(Single('a'), Range('0', '9'))
	for _, c := range []rune{'a', '0', '5', '9'} {
		if !u.Matches(c) {
			t.Errorf("Union.Matches(%q) = false, want true", c)
		}
	}
	if u.Matches('b') {
		t.Errorf("Union.Matches('b') = true, want false")
	}
}
