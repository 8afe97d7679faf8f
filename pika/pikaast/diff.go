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

import "fmt"

// Diff compares got against want and returns a list of human-readable
// mismatches (empty if the trees are equivalent), for use in table-driven
// tests that assert on parse results.
func Diff(got, want *Node) (diff []string) {
	if got == nil && want == nil {
		return nil
	}
	if got == nil {
		return []string{fmt.Sprintf("expected (%s), got nil", want.Label)}
	}
	if want == nil {
		return []string{fmt.Sprintf("expected nil, got (%s)", got.Label)}
	}
	if got.Label != want.Label {
		diff = append(diff, fmt.Sprintf("expected label %q, got %q", want.Label, got.Label))
	}
	if got.Text != want.Text {
		diff = append(diff, fmt.Sprintf("expected text %q, got %q", want.Text, got.Text))
	}
	if len(got.Children) != len(want.Children) {
		diff = append(diff, fmt.Sprintf("expected %d children, got %d", len(want.Children), len(got.Children)))
	}
	n := len(got.Children)
	if len(want.Children) < n {
		n = len(want.Children)
	}
	for i := 0; i < n; i++ {
		diff = append(diff, Diff(got.Children[i], want.Children[i])...)
	}
	return diff
}
