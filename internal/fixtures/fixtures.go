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

// Package fixtures hosts the golden grammar/input pairs the end-to-end
// scenarios of spec §8 exercise. Fixtures are written once into an
// in-memory leveldb filesystem and read back through the same db.File
// interface production code would use for on-disk grammars, so tests
// exercise the real file-reading path instead of a bare string literal.
package fixtures

import (
	"fmt"
	"io/ioutil"
	"path"
	"sync"

	log "github.com/golang/glog"
	"github.com/golang/leveldb/db"
	"github.com/golang/leveldb/memfs"
)

var (
	once sync.Once
	fs   db.FileSystem
)

func get() db.FileSystem {
	once.Do(func() { fs = memfs.New() })
	return fs
}

// Set writes content to name (e.g. "/fixtures/arith.peg") in the shared
// in-memory filesystem, creating parent directories as needed.
func Set(name, content string) error {
	f := get()
	if err := f.MkdirAll(path.Dir(name), 0770); err != nil {
		return err
	}
	w, err := f.Create(name)
	if err != nil {
		return err
	}
	defer w.Close()
	_, err = w.Write([]byte(content))
	return err
}

// Get reads name back out of the shared in-memory filesystem.
func Get(name string) (string, error) {
	f := get()
	r, err := f.Open(name)
	if err != nil {
		return "", fmt.Errorf("fixtures: %s: %w", name, err)
	}
	defer r.Close()
	b, err := ioutil.ReadAll(r)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Arith is a left-associative four-function arithmetic grammar with a
// parenthesised base case, the running example of spec §8 scenario 1:
// precedence climbing with left recursion.
const Arith = `
E[0,L] <- E ('+' / '-') E;
E[1,L] <- E ('*' / '/') E;
E[2] <- op:'-' E;
E[3] <- num:[0-9]+ / sym:[a-z]+;
E[4] <- '(' E ')';
`

// ZeroTail is a grammar whose last element can match zero characters,
// exercising the zero-length placeholder invariant of spec §8 scenario 2.
const ZeroTail = `
S <- a:'a'+ b:'b'*;
`

// CharSetInversion exercises matching with an inverted character class
// (spec §8 scenario 3).
const CharSetInversion = `
NotDigit <- [^0-9]+;
`

// ErrorLocalisation is a grammar with deliberate gaps for syntax-error
// span extraction (spec §8 scenario 4): a line of words separated by
// single spaces, where runs of any other character are uncovered.
const ErrorLocalisation = `
Word <- [a-zA-Z]+;
Line <- (Word " ")* Word?;
`

// DirectLeftRecursion is a minimal single-level left-recursive rule
// with no precedence hierarchy (spec §8 scenario 6): a comma-separated
// list.
const DirectLeftRecursion = `
List <- List ',' item:[a-z]+ / item:[a-z]+;
`

func init() {
	for name, content := range map[string]string{
		"/fixtures/arith.peg":       Arith,
		"/fixtures/zerotail.peg":    ZeroTail,
		"/fixtures/charclass.peg":   CharSetInversion,
		"/fixtures/errorlines.peg":  ErrorLocalisation,
		"/fixtures/leftrecurse.peg": DirectLeftRecursion,
	} {
		if err := Set(name, content); err != nil {
			log.Exitf("fixtures: init: %s: %s", name, err)
		}
	}
}
