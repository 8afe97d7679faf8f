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

// Options configures one call to Grammar.Parse. The zero value runs
// the lex pre-pass when the grammar defines a Lex rule, scans terminals
// sequentially, and does not emit verbose debug tracing.
type Options struct {
	// RunLexPass, when non-nil, switches the lex pre-pass (§4.4 step 2)
	// on or off; when nil the pass runs. Either way the pass only runs
	// for a grammar that has a rule named Lex.
	RunLexPass *bool
	// ParallelTerminalScan runs the terminal pre-scan (§4.4 step 3)
	// concurrently, one goroutine per terminal clause, instead of
	// sequentially; see §5.
	ParallelTerminalScan bool
	// Debug enables glog tracing, at verbosity 1, of the lex pre-pass
	// start and of the worklist loop's totals (the "build- or
	// runtime-configurable boolean" called for in spec §6). Per-write
	// memo-table tracing depends on the glog -v level alone.
	Debug bool
}

func (o *Options) runLexPass(haveLexRule bool) bool {
	if o == nil || o.RunLexPass == nil {
		return haveLexRule
	}
	return *o.RunLexPass
}

func (o *Options) parallelScan() bool {
	return o != nil && o.ParallelTerminalScan
}

func (o *Options) debug() bool {
	return o != nil && o.Debug
}
