// Copyright 2022 Stock Parfait

// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at

//     http://www.apache.org/licenses/LICENSE-2.0

// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package scale holds the small numeric helpers a price axis needs to
// autoscale to its visible data: a closed value interval and the handful of
// operations a pane autoscaler performs on it every frame.
package scale

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/stockparfait/errors"
)

// Range is an immutable closed interval [Min, Max]. The zero value is not a
// valid Range; use Empty() for "nothing in view yet".
type Range struct {
	min, max float64
	empty    bool
}

// Empty returns the empty range, the autoscale starting point before any
// series has contributed visible data.
func Empty() Range { return Range{empty: true} }

// NewRange builds a Range from explicit bounds. It panics if min > max,
// since a pane autoscaler constructing one from real data never expects
// that; callers merging live values should use MergePriceRange instead.
func NewRange(min, max float64) Range {
	if min > max {
		panic(errors.Reason("scale: min %g > max %g", min, max))
	}
	return Range{min: min, max: max}
}

// IsEmpty reports whether r carries no data.
func (r Range) IsEmpty() bool { return r.empty }

// Min is the lower bound. It panics on an empty range.
func (r Range) Min() float64 {
	if r.empty {
		panic(errors.Reason("scale: Min of an empty range"))
	}
	return r.min
}

// Max is the upper bound. It panics on an empty range.
func (r Range) Max() float64 {
	if r.empty {
		panic(errors.Reason("scale: Max of an empty range"))
	}
	return r.max
}

// Length is Max - Min, or 0 for an empty range.
func (r Range) Length() float64 {
	if r.empty {
		return 0
	}
	return r.max - r.min
}

// Contains reports whether v falls within the closed interval.
func (r Range) Contains(v float64) bool {
	return !r.empty && v >= r.min && v <= r.max
}

// MergePriceRange folds the min and max of values into r, returning the
// widened Range. NaN and Inf values are ignored, as a chart series'
// whitespace or error rows should not distort the visible scale.
func MergePriceRange(r Range, values ...float64) Range {
	finite := values[:0:0]
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			finite = append(finite, v)
		}
	}
	if len(finite) == 0 {
		return r
	}
	lo := floats.Min(finite)
	hi := floats.Max(finite)
	if r.empty {
		return Range{min: lo, max: hi}
	}
	if lo < r.min {
		r.min = lo
	}
	if hi > r.max {
		r.max = hi
	}
	return r
}

// CenterScale returns a Range of the given length, centered on the same
// midpoint as r. It is used when a pane wants to zoom without panning.
func (r Range) CenterScale(length float64) Range {
	if r.empty {
		return r
	}
	mid := (r.min + r.max) / 2
	half := length / 2
	return Range{min: mid - half, max: mid + half}
}

// Shift translates the range by delta, preserving its length.
func (r Range) Shift(delta float64) Range {
	if r.empty {
		return r
	}
	return Range{min: r.min + delta, max: r.max + delta}
}
