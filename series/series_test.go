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

package series

import (
	"testing"

	"github.com/stockparfait/chartcore/timepoint"

	. "github.com/smartystreets/goconvey/convey"
)

func f(v float64) *float64 { return &v }
func s(v string) *string   { return &v }

func TestNewRow(t *testing.T) {
	t.Parallel()

	pt := timepoint.Point{Timestamp: 1000}

	Convey("NewRow works", t, func() {
		Convey("whitespace item", func() {
			row, err := NewRow(Line, pt, 3, Item{Time: int64(1000)}, int64(1000))
			So(err, ShouldBeNil)
			So(row.IsWhitespace(), ShouldBeTrue)
			So(row.Index, ShouldEqual, 3)
		})

		Convey("Line carries color", func() {
			row, err := NewRow(Line, pt, 0, Item{Value: f(5), Color: s("red")}, nil)
			So(err, ShouldBeNil)
			So(row.IsWhitespace(), ShouldBeFalse)
			So(*row.Value, ShouldResemble, [4]float64{5, 5, 5, 5})
			So(*row.Color, ShouldEqual, "red")
		})

		Convey("Area ignores color", func() {
			row, err := NewRow(Area, pt, 0, Item{Value: f(5), Color: s("red")}, nil)
			So(err, ShouldBeNil)
			So(row.Color, ShouldBeNil)
		})

		Convey("Bar requires OHLC", func() {
			_, err := NewRow(Bar, pt, 0, Item{Value: f(5)}, nil)
			So(err, ShouldNotBeNil)
		})

		Convey("Candlestick carries border and wick colors", func() {
			row, err := NewRow(Candlestick, pt, 0, Item{
				Open: f(1), High: f(2), Low: f(0.5), Close: f(1.5),
				BorderColor: s("black"), WickColor: s("gray"),
			}, nil)
			So(err, ShouldBeNil)
			So(*row.Value, ShouldResemble, [4]float64{1, 2, 0.5, 1.5})
			So(*row.BorderColor, ShouldEqual, "black")
			So(*row.WickColor, ShouldEqual, "gray")
		})

		Convey("Bar ignores border and wick colors", func() {
			row, err := NewRow(Bar, pt, 0, Item{
				Open: f(1), High: f(2), Low: f(0.5), Close: f(1.5),
				BorderColor: s("black"),
			}, nil)
			So(err, ShouldBeNil)
			So(row.BorderColor, ShouldBeNil)
		})

		Convey("Line requires a value", func() {
			_, err := NewRow(Line, pt, 0, Item{Open: f(1)}, nil)
			So(err, ShouldNotBeNil)
		})
	})
}

func TestType(t *testing.T) {
	t.Parallel()

	Convey("Type round-trips through JSON", t, func() {
		for _, tp := range []Type{Bar, Candlestick, Area, Baseline, Line, Histogram} {
			b, err := tp.MarshalJSON()
			So(err, ShouldBeNil)
			var got Type
			So(got.InitMessage(string(b[1:len(b)-1])), ShouldBeNil)
			So(got, ShouldEqual, tp)
		}
	})

	Convey("unsupported type is rejected", t, func() {
		var tp Type
		So(tp.InitMessage("bogus"), ShouldNotBeNil)
	})
}
