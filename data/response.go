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

package data

import "github.com/stockparfait/chartcore/series"

// UpdateInfo carries metadata about a single series mutation, attached only
// to the series that was actually updated.
type UpdateInfo struct {
	// LastBarUpdatedOrNewBarsAddedToTheRight is nil when there is no prior or
	// no current data to compare against (e.g. a series' very first write, or
	// a write that emptied it). Otherwise it reports whether the new data
	// extends or replaces the tail of the old data, as opposed to rewriting
	// it from an earlier point; a scroll-preserving repaint only needs a
	// light invalidation in the former case.
	LastBarUpdatedOrNewBarsAddedToTheRight *bool
}

// SeriesUpdate is one series' contribution to a DataUpdateResponse: its
// current, value-bearing row list, plus Info when this is the series the
// triggering call mutated.
type SeriesUpdate struct {
	Data []series.Row
	Info *UpdateInfo
}

// TimeScaleUpdate describes how the shared time scale changed, if at all.
type TimeScaleUpdate struct {
	// BaseIndex is the highest row index carried by any series with data, or
	// nil if every series is empty.
	BaseIndex *int

	// Changed reports whether this call inserted, removed or reordered any
	// shared time point. When false, Points and FirstChangedPointIndex are
	// meaningless and FirstChangedPointIndex is -1.
	Changed bool

	// FirstChangedPointIndex is the lowest index at which Points differs from
	// the scale before this call; indices below it kept their prior weight
	// and position. Valid only when Changed is true.
	FirstChangedPointIndex int

	// Points is the full, current sorted time scale. Present only when
	// Changed is true: callers that only track the tail can fold it in from
	// FirstChangedPointIndex onward and otherwise leave the rest of their
	// own copy untouched.
	Points []TimePointInfo
}

// DataUpdateResponse is returned by SetSeriesData and UpdateSeriesData,
// describing everything a painter needs in order to decide the minimal
// invalidation to schedule.
type DataUpdateResponse struct {
	Series    map[series.ID]SeriesUpdate
	TimeScale TimeScaleUpdate
}

func copyRows(rows []series.Row) []series.Row {
	if len(rows) == 0 {
		return nil
	}
	out := make([]series.Row, len(rows))
	copy(out, rows)
	return out
}

func computeInfo(prevRows, newRows []series.Row) *UpdateInfo {
	if len(prevRows) == 0 || len(newRows) == 0 {
		return &UpdateInfo{}
	}
	prevFirst := prevRows[0].Time.Timestamp
	prevLast := prevRows[len(prevRows)-1].Time.Timestamp
	newFirst := newRows[0].Time.Timestamp
	newLast := newRows[len(newRows)-1].Time.Timestamp
	v := newLast >= prevLast && newFirst >= prevFirst
	return &UpdateInfo{LastBarUpdatedOrNewBarsAddedToTheRight: &v}
}
