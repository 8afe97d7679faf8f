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

// GrammarError reports a structural problem found while compiling a
// Grammar (spec §7, "Grammar errors"): an unknown rule reference, a
// duplicate (name, precedence) pair, a degenerate self-only rule, a
// cycle in the initial clause forest, or one of the other validation
// failures enumerated in §4.2 step 1.
type GrammarError struct {
	// Rule is the offending rule's name, or "" if the error is not
	// attributable to a single rule (e.g. "empty grammar").
	Rule string
	Msg  string
}

func (e *GrammarError) Error() string {
	if e.Rule == "" {
		return e.Msg
	}
	return fmt.Sprintf("rule %s: %s", e.Rule, e.Msg)
}

func grammarErrorf(rule, format string, args ...interface{}) error {
	return &GrammarError{Rule: rule, Msg: fmt.Sprintf(format, args...)}
}
