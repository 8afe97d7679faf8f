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

// Package pika implements pika parsing: a bottom-up, right-to-left
// dynamic-programming reformulation of packrat parsing for Parsing
// Expression Grammars (PEGs). A Grammar compiles a set of named,
// possibly multi-precedence rules into an interned, cycle-free clause
// DAG; Parse then runs a fixed-point worklist loop over that DAG to
// populate a MemoTable, from which parse trees, ASTs, non-overlapping
// matches and syntax-error spans can be extracted.
//
// The algorithm natively handles direct and indirect left recursion
// via precedence-climbing rewriting performed at grammar-compile time,
// and it degrades gracefully on malformed input: a parse never fails,
// it simply leaves gaps that GetSyntaxErrors can report.
package pika
