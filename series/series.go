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

// Package series defines the per-series data shapes (PlotRow) built by the
// data layer from caller-supplied items, and the opaque series handles the
// data layer keys its state by.
package series

import (
	"fmt"

	"github.com/stockparfait/errors"

	"github.com/stockparfait/chartcore/timepoint"
)

// Type identifies the shape of a series' data points.
type Type int

// Values of Type.
const (
	Bar Type = iota
	Candlestick
	Area
	Baseline
	Line
	Histogram
	typeLast // to check for invalid values
)

func (t Type) String() string {
	switch t {
	case Bar:
		return "Bar"
	case Candlestick:
		return "Candlestick"
	case Area:
		return "Area"
	case Baseline:
		return "Baseline"
	case Line:
		return "Line"
	case Histogram:
		return "Histogram"
	default:
		return fmt.Sprintf("<Undefined SeriesType: %d>", int(t))
	}
}

// MarshalJSON implements json.Marshaler.
func (t Type) MarshalJSON() ([]byte, error) {
	if t < 0 || t >= typeLast {
		return nil, errors.Reason("invalid series type: %s", t)
	}
	return []byte(`"` + t.String() + `"`), nil
}

// InitMessage implements config.Message, so a Type can appear directly in a
// series config record.
func (t *Type) InitMessage(js interface{}) error {
	s, ok := js.(string)
	if !ok {
		return errors.Reason("series type must be a string, got %v", js)
	}
	switch s {
	case "Bar":
		*t = Bar
	case "Candlestick":
		*t = Candlestick
	case "Area":
		*t = Area
	case "Baseline":
		*t = Baseline
	case "Line":
		*t = Line
	case "Histogram":
		*t = Histogram
	default:
		return errors.Reason("unsupported series type: '%s'", s)
	}
	return nil
}

// isOHLC reports whether a series of this Type carries independent
// open/high/low/close values, as opposed to a single scalar replicated into
// all four slots.
func (t Type) isOHLC() bool {
	return t == Bar || t == Candlestick
}

// ID is an opaque, identity-keyed handle for a series, minted by
// data.Layer.NewSeries. It is comparable and safe to use as a map key.
type ID uint64

// Item is a single input data point for a series, in whichever shape is
// appropriate for its Type; unused fields are left nil. A whitespace item
// has Value and Open both nil.
type Item struct {
	Time        timepoint.Raw
	Value       *float64
	Open        *float64
	High        *float64
	Low         *float64
	Close       *float64
	Color       *string
	BorderColor *string
	WickColor   *string
}

// IsWhitespace reports whether the item carries no value.
func (it Item) IsWhitespace() bool {
	return it.Open == nil && it.Value == nil
}

// Row is the normalized per-series, per-time datum ready for a renderer to
// plot directly, with no further shape interpretation needed.
// Value is nil for a whitespace row: the time point has a shared index slot,
// but this series has nothing to plot there.
type Row struct {
	Index        int
	Time         timepoint.Point
	Value        *[4]float64 // [open, high, low, close]; equal for non-OHLC types
	OriginalTime timepoint.Raw
	Color        *string
	BorderColor  *string
	WickColor    *string
}

// IsWhitespace reports whether r carries no value.
func (r Row) IsWhitespace() bool { return r.Value == nil }

// NewRow builds the PlotRow for a single item of the given series Type. It
// returns an error if item's shape does not match what Type requires; the
// data layer's external validators are expected to have already rejected
// such mismatches, but NewRow does not trust that blindly.
func NewRow(t Type, point timepoint.Point, index int, item Item, originalTime timepoint.Raw) (Row, error) {
	if item.IsWhitespace() {
		return Row{Index: index, Time: point, OriginalTime: originalTime}, nil
	}
	if t.isOHLC() {
		if item.Open == nil || item.High == nil || item.Low == nil || item.Close == nil {
			return Row{}, errors.Reason("%s item at timestamp %d is missing open/high/low/close", t, point.Timestamp)
		}
		row := Row{
			Index:        index,
			Time:         point,
			Value:        &[4]float64{*item.Open, *item.High, *item.Low, *item.Close},
			OriginalTime: originalTime,
			Color:        item.Color,
		}
		if t == Candlestick {
			row.BorderColor = item.BorderColor
			row.WickColor = item.WickColor
		}
		return row, nil
	}
	if item.Value == nil {
		return Row{}, errors.Reason("%s item at timestamp %d is missing a value", t, point.Timestamp)
	}
	v := *item.Value
	row := Row{
		Index:        index,
		Time:         point,
		Value:        &[4]float64{v, v, v, v},
		OriginalTime: originalTime,
	}
	if t == Line || t == Histogram {
		row.Color = item.Color
	}
	return row, nil
}
