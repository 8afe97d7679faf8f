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

// Package intervalunion maintains a set of non-overlapping half-open
// integer intervals [Start, End), used by the memo table to extract
// syntax-error spans: the complement of every position covered by a
// successfully-matched recovery rule.
package intervalunion

import "sort"

// Interval is one half-open range [Start, End).
type Interval struct {
	Start, End int
}

// Union is a set of non-overlapping, non-adjacent intervals, always
// kept sorted by Start.
type Union struct {
	intervals []Interval
}

// AddRange merges [start, end) into the union, coalescing with any
// overlapping or adjacent existing interval. No-op if end <= start.
func (u *Union) AddRange(start, end int) {
	if end <= start {
		return
	}
	merged := Interval{start, end}
	var out []Interval
	inserted := false
	for _, iv := range u.intervals {
		if iv.End < merged.Start {
			out = append(out, iv)
			continue
		}
		if iv.Start > merged.End {
			if !inserted {
				out = append(out, merged)
				inserted = true
			}
			out = append(out, iv)
			continue
		}
		// Overlapping or adjacent: extend merged to cover iv too.
		if iv.Start < merged.Start {
			merged.Start = iv.Start
		}
		if iv.End > merged.End {
			merged.End = iv.End
		}
	}
	if !inserted {
		out = append(out, merged)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	u.intervals = out
}

// Overlaps reports whether [start, end) intersects any interval in u.
func (u *Union) Overlaps(start, end int) bool {
	for _, iv := range u.intervals {
		if iv.Start < end && start < iv.End {
			return true
		}
	}
	return false
}

// Intervals returns the covered intervals in increasing Start order.
// The returned slice must not be mutated by the caller.
func (u *Union) Intervals() []Interval {
	return u.intervals
}

// Complement returns the intervals of [windowStart, windowEnd) that
// are NOT covered by u, in increasing order.
func (u *Union) Complement(windowStart, windowEnd int) []Interval {
	var gaps []Interval
	pos := windowStart
	for _, iv := range u.intervals {
		start, end := iv.Start, iv.End
		if end <= windowStart {
			continue
		}
		if start >= windowEnd {
			break
		}
		if start < windowStart {
			start = windowStart
		}
		if end > windowEnd {
			end = windowEnd
		}
		if pos < start {
			gaps = append(gaps, Interval{pos, start})
		}
		if end > pos {
			pos = end
		}
	}
	if pos < windowEnd {
		gaps = append(gaps, Interval{pos, windowEnd})
	}
	return gaps
}
