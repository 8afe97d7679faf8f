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

// Command pikaparse compiles a grammar file and parses an input file
// against it, printing the AST rooted at a chosen rule and any
// uncovered syntax-error spans.
package main

import (
	"flag"
	"io/ioutil"

	log "github.com/golang/glog"

	"github.com/kpeg/pika/metagrammar"
	"github.com/kpeg/pika/pika"
	"github.com/kpeg/pika/pika/pikaast"
)

var (
	grammarFlag = flag.String("grammar", "", "Path to the grammar source file.")
	inputFlag   = flag.String("input", "", "Path to the input file to parse.")
	rootRule    = flag.String("root", "", "Rule to print the AST and syntax errors for.")
	debug       = flag.Bool("debug", false, "Enable verbose pika tracing.")
	parallel    = flag.Bool("parallel_scan", false, "Run the terminal pre-scan concurrently, one goroutine per terminal clause.")
)

func main() {
	flag.Parse()
	if *grammarFlag == "" || *inputFlag == "" || *rootRule == "" {
		log.Exitf("usage: pikaparse --grammar=FILE --input=FILE --root=RULE")
	}

	grammarSrc, err := ioutil.ReadFile(*grammarFlag)
	if err != nil {
		log.Exitf("could not read grammar %s: %s", *grammarFlag, err)
	}
	rules, err := metagrammar.Parse(string(grammarSrc))
	if err != nil {
		log.Exitf("could not parse grammar %s: %s", *grammarFlag, err)
	}
	grammar, err := pika.New(rules)
	if err != nil {
		log.Exitf("could not compile grammar %s: %s", *grammarFlag, err)
	}

	input, err := ioutil.ReadFile(*inputFlag)
	if err != nil {
		log.Exitf("could not read input %s: %s", *inputFlag, err)
	}

	table := grammar.Parse(string(input), &pika.Options{Debug: *debug, ParallelTerminalScan: *parallel})

	rule, ok := grammar.GetRule(*rootRule)
	if !ok {
		log.Exitf("no such rule %q", *rootRule)
	}
	matches := table.GetNonOverlappingMatches(rule.Body.Clause)
	for _, m := range matches {
		node := pikaast.ToAST(*rootRule, m, string(input))
		log.Infof("match@%d: %s", m.Key.StartPos, node)
	}

	errs, err := table.GetSyntaxErrors(*rootRule)
	if err != nil {
		log.Exitf("could not compute syntax errors: %s", err)
	}
	for _, e := range errs {
		log.Infof("syntax error at [%d,%d): %q", e.Start, e.End, e.Text)
	}
}
