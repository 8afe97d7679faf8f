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

// Package pikacharclass provides the code-point-set representation used
// by the Terminal::CharSet clause: a union of individual runes, rune
// ranges and named Unicode classes, with an optional inversion flag.
//
// Per the design notes on char-set representation, ASCII code points
// (below 128) are tracked in a fixed bitset so that the common case of
// grammar literals like [a-zA-Z0-9_] needs no map or range-table probe;
// anything at or above 128 falls back to a sorted unicode.RangeTable,
// which keeps wide BMP ranges (e.g. "match any non-ASCII letter") cheap
// to store without materializing every code point.
package pikacharclass

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

type asciiBits [2]uint64

func (b *asciiBits) set(c rune) {
	b[c>>6] |= 1 << uint(c&63)
}

func (b asciiBits) get(c rune) bool {
	return b[c>>6]&(1<<uint(c&63)) != 0
}

// CharClass is a set of code points, optionally negated.
type CharClass struct {
	ascii asciiBits
	// Map holds non-ASCII singleton code points.
	Map map[rune]bool
	// RangeTable holds non-ASCII ranges; ASCII ranges live only in the
	// bitset.
	*unicode.RangeTable
	// Negated indicates the char class matches every code point NOT
	// in the set.
	Negated bool
	// Special names a Unicode general category test (e.g. "IsLetter")
	// applied via the unicode package, mirroring the GNU-grep-style
	// [:alpha:] etc. classes from the grammar DSL.
	Special string
	// extra holds additional named classes when a union mixes more than
	// one Special with concrete code points or other Specials.
	extra []string
}

var specialClasses = map[string]string{
	"[:alpha:]": "IsLetter",
	"[:digit:]": "IsNumber",
	"[:space:]": "IsSpace",
	"[:lower:]": "IsLower",
	"[:upper:]": "IsUpper",
	"[:punct:]": "IsPunct",
	"[:print:]": "IsPrint",
	"[:graph:]": "IsGraphic",
	"[:cntrl:]": "IsControl",
	"[:alnum:]": "[:alnum:]",
	"[:any:]":   "[:any:]",
}

// Single returns a CharClass matching exactly one code point.
func Single(c rune) *CharClass {
	cc := &CharClass{}
	cc.add(c)
	return cc
}

// Range returns a CharClass matching every code point in [lo, hi].
func Range(lo, hi rune) *CharClass {
	cc := &CharClass{}
	cc.addRange(lo, hi)
	return cc
}

// Union returns a CharClass matching the union of all given classes.
// None of the operands may be Negated; negation is applied, if wanted,
// to the union as a whole by the caller.
func Union(classes ...*CharClass) *CharClass {
	u := &CharClass{}
	for _, c := range classes {
		if c == nil {
			continue
		}
		u.merge(c)
	}
	return u
}

func (cc *CharClass) add(c rune) {
	if c < 128 {
		cc.ascii.set(c)
		return
	}
	if cc.Map == nil {
		cc.Map = make(map[rune]bool)
	}
	cc.Map[c] = true
}

func (cc *CharClass) addRange(lo, hi rune) {
	for c := lo; c < 128 && c <= hi; c++ {
		cc.ascii.set(c)
	}
	if hi < 128 {
		return
	}
	if lo < 128 {
		lo = 128
	}
	if cc.RangeTable == nil {
		cc.RangeTable = &unicode.RangeTable{}
	}
	if lo >= 1<<16 || hi >= 1<<16 {
		cc.RangeTable.R32 = append(cc.RangeTable.R32, unicode.Range32{Lo: uint32(lo), Hi: uint32(hi), Stride: 1})
	} else {
		cc.RangeTable.R16 = append(cc.RangeTable.R16, unicode.Range16{Lo: uint16(lo), Hi: uint16(hi), Stride: 1})
	}
}

func (cc *CharClass) merge(other *CharClass) {
	if other.Special != "" {
		// A union containing a named class degrades to Special only
		// when it is the sole member; mixed unions keep both sides
		// reachable via Contains.
		if cc.Special == "" && cc.Map == nil && cc.RangeTable == nil && cc.ascii == (asciiBits{}) &&
			other.Map == nil && other.RangeTable == nil && other.ascii == (asciiBits{}) && len(other.extra) == 0 {
			cc.Special = other.Special
			return
		}
	}
	for i := range cc.ascii {
		cc.ascii[i] |= other.ascii[i]
	}
	for c := range other.Map {
		cc.add(c)
	}
	if other.RangeTable != nil {
		if cc.RangeTable == nil {
			cc.RangeTable = &unicode.RangeTable{}
		}
		cc.RangeTable.R16 = append(cc.RangeTable.R16, other.RangeTable.R16...)
		cc.RangeTable.R32 = append(cc.RangeTable.R32, other.RangeTable.R32...)
	}
	if other.Special != "" && other.Special != cc.Special {
		// A named class cannot be materialised into Map, so it is kept
		// by name in extra and re-tested through Contains.
		cc.extra = append(cc.extra, other.Special)
	}
	cc.extra = append(cc.extra, other.extra...)
}

// Contains reports whether c is a member of the set, ignoring Negated.
func (cc *CharClass) Contains(c rune) bool {
	if cc == nil {
		return false
	}
	if c < 128 && cc.ascii.get(c) {
		return true
	}
	if cc.Map != nil && cc.Map[c] {
		return true
	}
	if cc.RangeTable != nil && unicode.Is(cc.RangeTable, c) {
		return true
	}
	if cc.Special != "" && isSpecial(cc.Special, c) {
		return true
	}
	for _, sp := range cc.extra {
		if isSpecial(sp, c) {
			return true
		}
	}
	return false
}

func isSpecial(name string, c rune) bool {
	switch name {
	case "[:alnum:]":
		return unicode.IsLetter(c) || unicode.IsNumber(c)
	case "[:any:]":
		return true
	case "IsLetter":
		return unicode.IsLetter(c)
	case "IsNumber":
		return unicode.IsNumber(c)
	case "IsSpace":
		return unicode.IsSpace(c)
	case "IsLower":
		return unicode.IsLower(c)
	case "IsUpper":
		return unicode.IsUpper(c)
	case "IsPunct":
		return unicode.IsPunct(c)
	case "IsPrint":
		return unicode.IsPrint(c)
	case "IsGraphic":
		return unicode.IsGraphic(c)
	case "IsControl":
		return unicode.IsControl(c)
	}
	return false
}

// Matches reports whether code point c is accepted by this class,
// taking Negated into account.
func (cc *CharClass) Matches(c rune) bool {
	if cc.Contains(c) {
		return !cc.Negated
	}
	return cc.Negated
}

// Parse parses a bracket-less char-class body, e.g. "a-zA-Z_" or
// "^\r\n", as used inside the grammar DSL's [...] syntax. A leading '^'
// negates the class. "[:name:]" selects a named Unicode test.
func Parse(arg string) (*CharClass, error) {
	if len(arg) == 0 {
		return nil, errors.New("empty char class")
	}
	if arg[0] == '^' {
		if len(arg) == 1 {
			return &CharClass{Map: map[rune]bool{'^': true}}, nil
		}
		r, err := Parse(arg[1:])
		if err != nil {
			return nil, err
		}
		r.Negated = true
		return r, nil
	}
	if arg[0] == '[' && strings.HasSuffix(arg, "]") {
		special, ok := specialClasses[arg]
		if !ok {
			return nil, fmt.Errorf("unknown char class: %q", arg)
		}
		return &CharClass{Special: special}, nil
	}
	var last rune
	var start rune
	ret := &CharClass{}
	haveLast := false
	haveStart := false
	for pos := 0; pos < len(arg); {
		r, w := utf8.DecodeRuneInString(arg[pos:])
		if r == utf8.RuneError && w <= 1 {
			return nil, fmt.Errorf("error parsing utf8 rune at pos %d: %q", pos, arg)
		}
		if r == '-' && !haveStart && pos != 0 && pos+w != len(arg) {
			if !haveLast {
				return nil, fmt.Errorf("dangling '-' at pos %d in %q", pos, arg)
			}
			start = last
			haveStart = true
			haveLast = false
			pos += w
			continue
		}
		if r == '\\' && pos+1 < len(arg) {
			switch arg[pos+1] {
			case '^', '-', '[', ']':
				r = rune(arg[pos+1])
				w = 2
			default:
				val, _, tail, err := strconv.UnquoteChar(arg[pos:], 0)
				if err != nil {
					return nil, fmt.Errorf("error parsing escape at pos %d in %q: %s", pos, arg, err)
				}
				r = val
				w = len(arg) - pos - len(tail)
			}
		}
		if haveStart {
			if r <= start {
				return nil, fmt.Errorf("invalid interval %c-%c in %q", start, r, arg)
			}
			ret.addRange(start, r)
			haveStart = false
			haveLast = false
			pos += w
			continue
		}
		if haveLast {
			ret.add(last)
		}
		last = r
		haveLast = true
		pos += w
	}
	if haveLast {
		ret.add(last)
	}
	if ret.RangeTable != nil {
		sort.Slice(ret.RangeTable.R16, func(i, j int) bool { return ret.RangeTable.R16[i].Lo < ret.RangeTable.R16[j].Lo })
		sort.Slice(ret.RangeTable.R32, func(i, j int) bool { return ret.RangeTable.R32[i].Lo < ret.RangeTable.R32[j].Lo })
	}
	return ret, nil
}

func runeToString(c rune) string {
	q := strconv.QuoteRune(c)
	return q[1 : len(q)-1]
}

// String renders a canonical, reparsable form of the class body
// (without the surrounding brackets).
func (cc *CharClass) String() string {
	if cc == nil {
		return "nil"
	}
	var ret []string
	if cc.Negated {
		ret = append(ret, "^")
	}
	if cc.Special != "" {
		for k, v := range specialClasses {
			if cc.Special == v {
				ret = append(ret, k)
				break
			}
		}
	}
	var runes []int
	for c := 0; c < 128; c++ {
		if cc.ascii.get(rune(c)) {
			runes = append(runes, c)
		}
	}
	for c := range cc.Map {
		runes = append(runes, int(c))
	}
	sort.Ints(runes)
	for _, c := range runes {
		if c == ']' {
			ret = append(ret, "\\]")
			continue
		}
		ret = append(ret, runeToString(rune(c)))
	}
	if cc.RangeTable != nil {
		for _, r := range cc.RangeTable.R16 {
			ret = append(ret, runeToString(rune(r.Lo)), "-", runeToString(rune(r.Hi)))
		}
		for _, r := range cc.RangeTable.R32 {
			ret = append(ret, runeToString(rune(r.Lo)), "-", runeToString(rune(r.Hi)))
		}
	}
	return strings.Join(ret, "")
}
