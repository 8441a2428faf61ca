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

// Package data holds the chart's time-indexed, multi-series store: the
// single source of truth a painter reads from and the only place new or
// updated bars are accepted into the chart.
package data

import (
	"golang.org/x/exp/slices"

	"github.com/stockparfait/errors"

	"github.com/stockparfait/chartcore/series"
	"github.com/stockparfait/chartcore/timepoint"
)

// seriesState is a Layer's private bookkeeping for one series.
type seriesState struct {
	seriesType series.Type
	options    series.Options

	rows []series.Row // value-bearing rows only, in time order

	// lastRowTime is the time of rows' last element, or nil when rows is
	// empty. It drives the append/replace/drop decision in UpdateSeriesData.
	lastRowTime *timepoint.Point

	// lastTouched is the time of the most recent item applied to this
	// series by either Set or Update, value-bearing or not. It is strictly
	// what UpdateSeriesData's ordering guard compares against: a dropped
	// trailing whitespace slot still moves the guard forward.
	lastTouched *timepoint.Point
}

// Layer is the chart's data layer: a shared, time-sorted scale plus one
// value-bearing row list per series. It is not safe for concurrent use;
// callers serialize all Set/Update/Remove calls onto a single goroutine, per
// the chart's single-writer convention.
type Layer struct {
	points map[int64]*pointData
	sorted []*pointData // ascending by time.Timestamp

	series      map[series.ID]*seriesState
	nextID      series.ID
	mintedCount int
}

// NewLayer returns an empty data layer.
func NewLayer() *Layer {
	return &Layer{
		points: make(map[int64]*pointData),
		series: make(map[series.ID]*seriesState),
	}
}

// NewSeries mints a fresh series handle of the given type and options. The
// handle remains valid for the lifetime of the Layer, even across a
// RemoveSeries call.
func (l *Layer) NewSeries(t series.Type, opts series.Options) series.ID {
	id := l.nextID
	l.nextID++
	l.mintedCount++
	l.series[id] = &seriesState{seriesType: t, options: opts}
	return id
}

func (l *Layer) findOrCreatePoint(point timepoint.Point, original timepoint.Raw) (*pointData, bool) {
	if pd, ok := l.points[point.Timestamp]; ok {
		return pd, false
	}
	pd := &pointData{
		time:         point,
		originalTime: original,
		mapping:      make(map[series.ID]series.Row),
	}
	l.points[point.Timestamp] = pd
	return pd, true
}

// reconcileTimeScale rebuilds l.sorted from l.points and reindexes/reweighs
// everything from firstChanged onward. It returns the index of the first
// point whose timestamp differs from the one at the same position before,
// or -1 if the sorted timestamps are unchanged.
func (l *Layer) reconcileTimeScale() int {
	oldSorted := l.sorted

	newSorted := make([]*pointData, 0, len(l.points))
	for _, pd := range l.points {
		newSorted = append(newSorted, pd)
	}
	slices.SortFunc(newSorted, func(a, b *pointData) bool {
		return a.time.Timestamp < b.time.Timestamp
	})

	firstChanged := -1
	minLen := len(oldSorted)
	if len(newSorted) < minLen {
		minLen = len(newSorted)
	}
	for i := 0; i < minLen; i++ {
		if oldSorted[i].time.Timestamp != newSorted[i].time.Timestamp {
			firstChanged = i
			break
		}
	}
	if firstChanged < 0 && len(oldSorted) != len(newSorted) {
		firstChanged = minLen
	}

	// The unchanged prefix keeps its indices and weights, including on point
	// records recreated for the same timestamps.
	prefix := len(newSorted)
	if firstChanged >= 0 {
		prefix = firstChanged
	}
	for i := 0; i < prefix; i++ {
		pd := newSorted[i]
		pd.index = i
		pd.weight = oldSorted[i].weight
		for sid, row := range pd.mapping {
			row.Index = i
			pd.mapping[sid] = row
		}
	}

	l.sorted = newSorted
	if firstChanged < 0 {
		return -1
	}

	points := make([]timepoint.Point, len(newSorted))
	for i, pd := range newSorted {
		points[i] = pd.time
	}
	weights := timepoint.RecomputeWeights(points, firstChanged)
	for i := firstChanged; i < len(newSorted); i++ {
		pd := newSorted[i]
		pd.index = i
		pd.weight = weights[i-firstChanged]
		for sid, row := range pd.mapping {
			row.Index = i
			pd.mapping[sid] = row
		}
	}
	return firstChanged
}

func (l *Layer) deleteEmptyPoints() {
	for ts, pd := range l.points {
		if len(pd.mapping) == 0 {
			delete(l.points, ts)
		}
	}
}

func (l *Layer) baseIndex() *int {
	max := -1
	found := false
	for _, st := range l.series {
		if len(st.rows) == 0 {
			continue
		}
		idx := st.rows[len(st.rows)-1].Index
		if !found || idx > max {
			max = idx
			found = true
		}
	}
	if !found {
		return nil
	}
	return &max
}

func (l *Layer) buildResponse(updatedID series.ID, firstChanged int, prevRows []series.Row) *DataUpdateResponse {
	// Bring every series' row list in line with the shared scale's indices.
	for _, st := range l.series {
		for i := range st.rows {
			if pd, ok := l.points[st.rows[i].Time.Timestamp]; ok {
				st.rows[i].Index = pd.index
			}
		}
	}
	resp := &DataUpdateResponse{TimeScale: TimeScaleUpdate{BaseIndex: l.baseIndex()}}
	if firstChanged < 0 {
		resp.TimeScale.FirstChangedPointIndex = -1
		st := l.series[updatedID]
		resp.Series = map[series.ID]SeriesUpdate{
			updatedID: {Data: copyRows(st.rows), Info: computeInfo(prevRows, st.rows)},
		}
		return resp
	}

	resp.TimeScale.Changed = true
	resp.TimeScale.FirstChangedPointIndex = firstChanged
	resp.TimeScale.Points = make([]TimePointInfo, len(l.sorted))
	for i, pd := range l.sorted {
		resp.TimeScale.Points[i] = pd.info()
	}

	resp.Series = make(map[series.ID]SeriesUpdate, len(l.series))
	for id, st := range l.series {
		su := SeriesUpdate{Data: copyRows(st.rows)}
		if id == updatedID {
			su.Info = computeInfo(prevRows, st.rows)
		}
		resp.Series[id] = su
	}
	return resp
}

// SetSeriesData wholesale-replaces a series' data. Passing an empty items
// slice removes the series' contribution to the chart entirely, without
// invalidating its handle: RemoveSeries is exactly SetSeriesData(id, nil).
func (l *Layer) SetSeriesData(id series.ID, items []series.Item) (*DataUpdateResponse, error) {
	st, ok := l.series[id]
	if !ok {
		return nil, errors.Annotate(ErrUnknownSeries, "SetSeriesData: series %d", id)
	}
	prevRows := copyRows(st.rows)

	// Step 1/2: unbind this series' prior contribution to the shared scale.
	affected := false
	if len(l.series) == 1 {
		if len(l.points) > 0 {
			affected = true
		}
		l.points = make(map[int64]*pointData)
	} else {
		for _, pd := range l.sorted {
			if _, ok := pd.mapping[id]; ok {
				delete(pd.mapping, id)
				affected = true
			}
		}
	}

	if len(items) == 0 {
		st.rows = nil
		st.lastRowTime = nil
		st.lastTouched = nil
		l.deleteEmptyPoints()
		firstChanged := -1
		if affected {
			firstChanged = l.reconcileTimeScale()
		}
		return l.buildResponse(id, firstChanged, prevRows), nil
	}

	raws := make([]timepoint.Raw, len(items))
	originals := make([]timepoint.Raw, len(items))
	for i, it := range items {
		raws[i] = it.Time
		originals[i] = it.Time
	}
	if err := timepoint.PreprocessStrings(raws); err != nil {
		return nil, errors.Annotate(err, "SetSeriesData: series %d", id)
	}
	conv, err := timepoint.SelectConverter(raws)
	if err != nil {
		return nil, errors.Annotate(err, "SetSeriesData: series %d", id)
	}

	points := make([]timepoint.Point, len(items))
	for i := range raws {
		p, err := conv(raws[i])
		if err != nil {
			return nil, errors.Annotate(err, "SetSeriesData: series %d, item %d", id, i)
		}
		if i > 0 && !points[i-1].Before(p) {
			return nil, errors.Annotate(ErrUnorderedInput, "SetSeriesData: series %d, item %d", id, i)
		}
		points[i] = p
	}

	newRows := make([]series.Row, 0, len(items))
	for i, it := range items {
		pd, created := l.findOrCreatePoint(points[i], originals[i])
		if created {
			affected = true
		}
		row, err := series.NewRow(st.seriesType, points[i], 0, it, originals[i])
		if err != nil {
			return nil, errors.Annotate(err, "SetSeriesData: series %d, item %d", id, i)
		}
		pd.mapping[id] = row
		if !row.IsWhitespace() {
			newRows = append(newRows, row)
		}
	}

	l.deleteEmptyPoints()

	if len(newRows) == 0 {
		st.rows = nil
		st.lastRowTime = nil
	} else {
		st.rows = newRows
		last := newRows[len(newRows)-1].Time
		st.lastRowTime = &last
	}
	lastTouched := points[len(points)-1]
	st.lastTouched = &lastTouched

	firstChanged := -1
	if affected {
		firstChanged = l.reconcileTimeScale()
	}
	return l.buildResponse(id, firstChanged, prevRows), nil
}

// RemoveSeries clears a series' data without invalidating its handle: the
// same id can later be given fresh data via SetSeriesData.
func (l *Layer) RemoveSeries(id series.ID) (*DataUpdateResponse, error) {
	return l.SetSeriesData(id, nil)
}

// UpdateSeriesData appends or amends a single trailing item of a series. It
// rejects an item whose time precedes the series' last touched time; an
// item at the same time as the last one replaces it (or, for a whitespace
// item, drops it).
func (l *Layer) UpdateSeriesData(id series.ID, item series.Item) (*DataUpdateResponse, error) {
	st, ok := l.series[id]
	if !ok {
		return nil, errors.Annotate(ErrUnknownSeries, "UpdateSeriesData: series %d", id)
	}

	point, err := timepoint.ConvertTime(item.Time)
	if err != nil {
		return nil, errors.Annotate(err, "UpdateSeriesData: series %d", id)
	}
	original := item.Time

	if st.lastTouched != nil && point.Timestamp < st.lastTouched.Timestamp {
		return nil, errors.Annotate(ErrUpdateOutOfOrder,
			"UpdateSeriesData: series %d, timestamp %d precedes last %d",
			id, point.Timestamp, st.lastTouched.Timestamp)
	}

	prevRows := copyRows(st.rows)

	pd, created := l.findOrCreatePoint(point, original)
	row, err := series.NewRow(st.seriesType, point, 0, item, original)
	if err != nil {
		return nil, errors.Annotate(err, "UpdateSeriesData: series %d", id)
	}
	pd.mapping[id] = row

	var newRows []series.Row
	switch {
	case st.lastRowTime == nil:
		if !row.IsWhitespace() {
			newRows = []series.Row{row}
		}
	case point.Timestamp > st.lastRowTime.Timestamp:
		if row.IsWhitespace() {
			newRows = st.rows
		} else {
			newRows = append(copyRows(st.rows), row)
		}
	default: // point.Timestamp == st.lastRowTime.Timestamp: replace or pop the tail
		if row.IsWhitespace() {
			newRows = st.rows[:len(st.rows)-1]
		} else {
			newRows = append(copyRows(st.rows[:len(st.rows)-1]), row)
		}
	}

	st.rows = newRows
	if len(newRows) == 0 {
		st.lastRowTime = nil
	} else {
		last := newRows[len(newRows)-1].Time
		st.lastRowTime = &last
	}
	st.lastTouched = &point

	firstChanged := -1
	if created {
		firstChanged = l.insertSorted(pd)
	}
	return l.buildResponse(id, firstChanged, prevRows), nil
}

// insertSorted splices a freshly-created pointData into l.sorted at its
// correct position and reindexes/reweighs the tail from there on.
func (l *Layer) insertSorted(pd *pointData) int {
	idx, found := slices.BinarySearchFunc(l.sorted, pd.time.Timestamp,
		func(e *pointData, ts int64) int {
			switch {
			case e.time.Timestamp < ts:
				return -1
			case e.time.Timestamp > ts:
				return 1
			default:
				return 0
			}
		})
	if !found {
		l.sorted = append(l.sorted, nil)
		copy(l.sorted[idx+1:], l.sorted[idx:])
		l.sorted[idx] = pd
	}

	points := make([]timepoint.Point, len(l.sorted))
	for i, e := range l.sorted {
		points[i] = e.time
	}
	weights := timepoint.RecomputeWeights(points, idx)
	for i := idx; i < len(l.sorted); i++ {
		e := l.sorted[i]
		e.index = i
		e.weight = weights[i-idx]
		for sid, row := range e.mapping {
			row.Index = i
			e.mapping[sid] = row
		}
	}
	return idx
}
