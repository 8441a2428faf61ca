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

import (
	"github.com/stockparfait/chartcore/series"
	"github.com/stockparfait/chartcore/timepoint"
)

// pointData is a single shared row of the time scale: one timestamp, shared
// by every series that has data there. mapping holds every series touching
// this timestamp, including whitespace rows; series with nothing here simply
// have no entry.
type pointData struct {
	index        int
	time         timepoint.Point
	originalTime timepoint.Raw
	weight       timepoint.Weight
	mapping      map[series.ID]series.Row
}

// TimePointInfo is the public, read-only view of a single row of the shared
// time scale, as returned in a DataUpdateResponse.
type TimePointInfo struct {
	Index        int
	Time         timepoint.Point
	OriginalTime timepoint.Raw
	Weight       timepoint.Weight
}

func (pd *pointData) info() TimePointInfo {
	return TimePointInfo{
		Index:        pd.index,
		Time:         pd.time,
		OriginalTime: pd.originalTime,
		Weight:       pd.weight,
	}
}
