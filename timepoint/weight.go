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

package timepoint

import "time"

// Weight ranks a time point by the coarsest calendar unit that rolls over at
// that point. Higher outranks lower: a new year outranks a new month, which
// outranks a new day, which outranks an intra-day tick.
type Weight int

// Values of Weight, ordered from finest to coarsest.
const (
	WeightIntraday Weight = iota
	WeightDay
	WeightMonth
	WeightYear
)

func ymd(p Point) (year, month, day int) {
	if p.BusinessDay != nil {
		return p.BusinessDay.Year, p.BusinessDay.Month, p.BusinessDay.Day
	}
	t := time.Unix(p.Timestamp, 0).UTC()
	return t.Year(), int(t.Month()), t.Day()
}

// weightOf computes the rollover rank of points[i] relative to points[i-1].
// The very first point in a series has no predecessor, so it is always
// ranked as a year rollover, the coarsest possible tick.
func weightOf(points []Point, i int) Weight {
	if i == 0 {
		return WeightYear
	}
	y0, m0, d0 := ymd(points[i-1])
	y1, m1, d1 := ymd(points[i])
	switch {
	case y1 != y0:
		return WeightYear
	case m1 != m0:
		return WeightMonth
	case d1 != d0:
		return WeightDay
	default:
		return WeightIntraday
	}
}

// RecomputeWeights computes the tick-mark weight for every points[i] with
// i >= from, leaving the weights of the untouched prefix to the caller (it
// does not read or write a prefix weight array; callers that maintain a
// parallel weights slice should only overwrite indices >= from).
func RecomputeWeights(points []Point, from int) []Weight {
	if from < 0 {
		from = 0
	}
	weights := make([]Weight, len(points)-from)
	for i := from; i < len(points); i++ {
		weights[i-from] = weightOf(points, i)
	}
	return weights
}
