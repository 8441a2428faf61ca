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

package invalidate

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestMask(t *testing.T) {
	t.Parallel()

	Convey("Mask accumulates invalidation", t, func() {
		m := NewMask()
		So(m.IsEmpty(), ShouldBeTrue)

		Convey("raising a pane's level sticks", func() {
			m.InvalidatePane(1, LevelLight, false)
			So(m.LevelForPane(1), ShouldEqual, LevelLight)
			So(m.IsEmpty(), ShouldBeFalse)
		})

		Convey("a lower level never downgrades a pending higher one", func() {
			m.InvalidatePane(1, LevelFull, false)
			m.InvalidatePane(1, LevelCursor, false)
			So(m.LevelForPane(1), ShouldEqual, LevelFull)
		})

		Convey("auto-scale on a pane is sticky once requested", func() {
			m.InvalidatePane(1, LevelLight, true)
			m.InvalidatePane(1, LevelLight, false)
			So(m.AutoScaleForPane(1), ShouldBeTrue)
		})

		Convey("a global level raises every pane's effective level", func() {
			m.InvalidatePane(1, LevelCursor, false)
			m.InvalidateGlobal(LevelFull)
			So(m.LevelForPane(1), ShouldEqual, LevelFull)
			So(m.GlobalLevel(), ShouldEqual, LevelFull)
			So(m.FullInvalidation(), ShouldEqual, LevelFull)
		})

		Convey("a global level never downgrades an already-higher pane level", func() {
			m.InvalidatePane(1, LevelFull, false)
			m.InvalidateGlobal(LevelCursor)
			So(m.LevelForPane(1), ShouldEqual, LevelFull)
		})

		Convey("FullInvalidation reflects the most severe pane even with no global level", func() {
			m.InvalidatePane(1, LevelCursor, false)
			m.InvalidatePane(2, LevelFull, false)
			So(m.FullInvalidation(), ShouldEqual, LevelFull)
		})

		Convey("a replacing time-scale op discards a stale tail, an appending one extends it", func() {
			m.SetFitContent()
			m.SetApplyBarSpacing(8)
			ops := m.TimeScaleOps()
			So(len(ops), ShouldEqual, 2)
			So(ops[0].Change, ShouldEqual, FitContent)
			So(ops[1].Change, ShouldEqual, ApplyBarSpacing)
			So(ops[1].BarSpacing, ShouldEqual, 8)

			m.SetApplyRange(1, 2)
			ops = m.TimeScaleOps()
			So(len(ops), ShouldEqual, 1)
			So(ops[0].Change, ShouldEqual, ApplyRange)
		})

		Convey("SetApplyRightOffset appends after SetReset replaces", func() {
			m.SetApplyBarSpacing(3)
			m.SetReset()
			m.SetApplyRightOffset(5)
			ops := m.TimeScaleOps()
			So(len(ops), ShouldEqual, 2)
			So(ops[0].Change, ShouldEqual, Reset)
			So(ops[1].Change, ShouldEqual, ApplyRightOffset)
			So(ops[1].Offset, ShouldEqual, 5)
		})

		Convey("Merge keeps the more severe pane level and ORs auto-scale", func() {
			m.InvalidatePane(1, LevelCursor, false)
			other := NewMask()
			other.InvalidatePane(1, LevelFull, true)
			other.InvalidatePane(2, LevelLight, false)
			m.Merge(other)
			So(m.LevelForPane(1), ShouldEqual, LevelFull)
			So(m.AutoScaleForPane(1), ShouldBeTrue)
			So(m.LevelForPane(2), ShouldEqual, LevelLight)
		})

		Convey("Merge takes the max of the two global levels", func() {
			m.InvalidateGlobal(LevelCursor)
			other := NewMask()
			other.InvalidateGlobal(LevelFull)
			m.Merge(other)
			So(m.GlobalLevel(), ShouldEqual, LevelFull)
		})

		Convey("Merge replays the other mask's time-scale ops through the setters", func() {
			m.SetApplyBarSpacing(3)
			other := NewMask()
			other.SetApplyRange(10, 20)
			m.Merge(other)
			ops := m.TimeScaleOps()
			So(len(ops), ShouldEqual, 1)
			So(ops[0].Change, ShouldEqual, ApplyRange)
			So(ops[0].RangeFrom, ShouldEqual, 10)
			So(ops[0].RangeTo, ShouldEqual, 20)
		})

		Convey("Merge appends the other mask's appending ops onto m's own tail", func() {
			m.SetFitContent()
			other := NewMask()
			other.SetApplyBarSpacing(8)
			m.Merge(other)
			ops := m.TimeScaleOps()
			So(len(ops), ShouldEqual, 2)
			So(ops[0].Change, ShouldEqual, FitContent)
			So(ops[1].Change, ShouldEqual, ApplyBarSpacing)
		})

		Convey("Clear empties the mask", func() {
			m.InvalidatePane(1, LevelFull, true)
			m.InvalidateGlobal(LevelFull)
			m.SetFitContent()
			m.Clear()
			So(m.IsEmpty(), ShouldBeTrue)
		})
	})

	Convey("Level renders and validates", t, func() {
		b, err := LevelFull.MarshalJSON()
		So(err, ShouldBeNil)
		So(string(b), ShouldEqual, `"Full"`)

		_, err = Level(99).MarshalJSON()
		So(err, ShouldNotBeNil)
	})
}
