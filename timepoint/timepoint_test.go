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

import (
	"testing"

	"github.com/stockparfait/errors"

	. "github.com/smartystreets/goconvey/convey"
)

func TestConvertTime(t *testing.T) {
	t.Parallel()

	Convey("ConvertTime works", t, func() {
		Convey("epoch seconds", func() {
			p, err := ConvertTime(int64(1577836800)) // 2020-01-01
			So(err, ShouldBeNil)
			So(p.Timestamp, ShouldEqual, int64(1577836800))
			So(p.BusinessDay, ShouldBeNil)
		})

		Convey("business day", func() {
			p, err := ConvertTime(BusinessDay{2020, 1, 1})
			So(err, ShouldBeNil)
			So(p.Timestamp, ShouldEqual, int64(1577836800))
			So(p.BusinessDay, ShouldResemble, &BusinessDay{2020, 1, 1})
		})

		Convey("ISO string", func() {
			p, err := ConvertTime("2020-01-01")
			So(err, ShouldBeNil)
			So(p.Timestamp, ShouldEqual, int64(1577836800))
			So(p.BusinessDay, ShouldResemble, &BusinessDay{2020, 1, 1})
		})

		Convey("malformed string is rejected", func() {
			_, err := ConvertTime("01/01/2020")
			So(err, ShouldNotBeNil)
			So(errors.Is(err, ErrInvalidTime), ShouldBeTrue)
		})

		Convey("out of range month is rejected", func() {
			_, err := ConvertTime("2020-13-01")
			So(err, ShouldNotBeNil)
			So(errors.Is(err, ErrInvalidTime), ShouldBeTrue)
		})

		Convey("unsupported type is rejected", func() {
			_, err := ConvertTime(3.14)
			So(err, ShouldNotBeNil)
			So(errors.Is(err, ErrWrongTimeType), ShouldBeTrue)
		})
	})
}

func TestPreprocessAndSelect(t *testing.T) {
	t.Parallel()

	Convey("PreprocessStrings and SelectConverter work", t, func() {
		Convey("rewrites strings to business days", func() {
			raws := []Raw{"2020-01-01", "2020-01-02"}
			So(PreprocessStrings(raws), ShouldBeNil)
			So(raws[0], ShouldResemble, BusinessDay{2020, 1, 1})
			So(raws[1], ShouldResemble, BusinessDay{2020, 1, 2})
		})

		Convey("selects the business-day converter", func() {
			raws := []Raw{BusinessDay{2020, 1, 1}, BusinessDay{2020, 1, 2}}
			conv, err := SelectConverter(raws)
			So(err, ShouldBeNil)
			p, err := conv(raws[0])
			So(err, ShouldBeNil)
			So(p.BusinessDay, ShouldNotBeNil)
		})

		Convey("selects the timestamp converter", func() {
			raws := []Raw{int64(1000), int64(2000)}
			conv, err := SelectConverter(raws)
			So(err, ShouldBeNil)
			p, err := conv(raws[0])
			So(err, ShouldBeNil)
			So(p.Timestamp, ShouldEqual, int64(1000))
		})

		Convey("rejects the wrong variant", func() {
			raws := []Raw{BusinessDay{2020, 1, 1}}
			conv, err := SelectConverter(raws)
			So(err, ShouldBeNil)
			_, err = conv(int64(5))
			So(err, ShouldNotBeNil)
			So(errors.Is(err, ErrWrongTimeType), ShouldBeTrue)
		})

		Convey("empty dataset is an error", func() {
			_, err := SelectConverter(nil)
			So(err, ShouldNotBeNil)
		})
	})
}

func TestRecomputeWeights(t *testing.T) {
	t.Parallel()

	Convey("RecomputeWeights ranks calendar rollovers", t, func() {
		mk := func(y, m, d int) Point {
			bd := BusinessDay{y, m, d}
			ts, err := bd.timestamp()
			So(err, ShouldBeNil)
			return Point{Timestamp: ts, BusinessDay: &bd}
		}
		points := []Point{
			mk(2020, 1, 1),
			mk(2020, 1, 2),
			mk(2020, 2, 1),
			mk(2021, 1, 1),
		}
		weights := RecomputeWeights(points, 0)
		So(weights, ShouldResemble, []Weight{
			WeightYear, WeightDay, WeightMonth, WeightYear,
		})

		Convey("only the tail from firstChangedPointIndex is recomputed", func() {
			tail := RecomputeWeights(points, 2)
			So(tail, ShouldResemble, []Weight{WeightMonth, WeightYear})
		})
	})
}
