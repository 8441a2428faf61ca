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

package delegate

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestDelegate(t *testing.T) {
	t.Parallel()

	Convey("Delegate dispatches to subscribers", t, func() {
		var d Delegate[int]
		var got []int
		d.Subscribe(func(v int) { got = append(got, v) })
		d.Fire(1)
		d.Fire(2)
		So(got, ShouldResemble, []int{1, 2})
	})

	Convey("SubscribeOnce fires exactly once", t, func() {
		var d Delegate[int]
		count := 0
		d.SubscribeOnce(func(int) { count++ })
		d.Fire(1)
		d.Fire(2)
		So(count, ShouldEqual, 1)
		So(d.Len(), ShouldEqual, 0)
	})

	Convey("Unsubscribe removes a single handler", t, func() {
		var d Delegate[int]
		var got []string
		s1 := d.Subscribe(func(int) { got = append(got, "a") })
		d.Subscribe(func(int) { got = append(got, "b") })
		d.Unsubscribe(s1)
		d.Fire(0)
		So(got, ShouldResemble, []string{"b"})
	})

	Convey("UnsubscribeAll removes every handler linked to an object", t, func() {
		var d Delegate[int]
		owner := new(int)
		var got []string
		d.SubscribeLinked(owner, func(int) { got = append(got, "owned") })
		d.Subscribe(func(int) { got = append(got, "independent") })
		d.UnsubscribeAll(owner)
		d.Fire(0)
		So(got, ShouldResemble, []string{"independent"})
	})

	Convey("a handler that subscribes during Fire does not see the current dispatch", t, func() {
		var d Delegate[int]
		seen := 0
		d.Subscribe(func(int) {
			seen++
			d.Subscribe(func(int) { seen++ })
		})
		d.Fire(0)
		So(seen, ShouldEqual, 1)
		d.Fire(0)
		So(seen, ShouldEqual, 3)
	})
}
