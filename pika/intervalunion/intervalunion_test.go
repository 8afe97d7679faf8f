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

package intervalunion

import (
	"reflect"
	"testing"
)

func TestAddRangeMerges(t *testing.T) {
	var u Union
	u.AddRange(0, 4)
	u.AddRange(10, 14)
	u.AddRange(4, 10) // bridges the gap, should merge all three into one
	want := []Interval{{0, 14}}
	if got := u.Intervals(); !reflect.DeepEqual(got, want) {
		t.Errorf("Intervals() = %v, want %v", got, want)
	}
}

func TestAddRangeDisjoint(t *testing.T) {
	var u Union
	u.AddRange(0, 2)
	u.AddRange(5, 7)
	want := []Interval{{0, 2}, {5, 7}}
	if got := u.Intervals(); !reflect.DeepEqual(got, want) {
		t.Errorf("Intervals() = %v, want %v", got, want)
	}
}

func TestAddRangeEmptyIsNoop(t *testing.T) {
	var u Union
	u.AddRange(5, 5)
	u.AddRange(7, 3)
	if got := u.Intervals(); len(got) != 0 {
		t.Errorf("Intervals() = %v, want empty", got)
	}
}

func TestComplement(t *testing.T) {
	var u Union
	u.AddRange(2, 4)
	u.AddRange(6, 8)
	tests := []struct {
		start, end int
		want       []Interval
	}{
		{0, 10, []Interval{{0, 2}, {4, 6}, {8, 10}}},
		{0, 2, []Interval{{0, 2}}},
		{2, 4, nil},
		{3, 7, []Interval{{4, 6}}},
	}
	for _, tt := range tests {
		got := u.Complement(tt.start, tt.end)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Complement(%d, %d) = %v, want %v", tt.start, tt.end, got, tt.want)
		}
	}
}

func TestComplementDisjointFromCoverage(t *testing.T) {
	var u Union
	u.AddRange(0, 4)
	u.AddRange(6, 10)
	gaps := u.Complement(0, 10)
	for _, g := range gaps {
		if u.Overlaps(g.Start, g.End) {
			t.Errorf("gap %v overlaps coverage", g)
		}
	}
	// union of gaps and coverage must reconstruct the full window
	covered := 0
	for _, iv := range u.Intervals() {
		covered += iv.End - iv.Start
	}
	gapLen := 0
	for _, g := range gaps {
		gapLen += g.End - g.Start
	}
	if covered+gapLen != 10 {
		t.Errorf("covered(%d) + gaps(%d) != window(10)", covered, gapLen)
	}
}
