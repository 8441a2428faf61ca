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

import "github.com/stockparfait/errors"

// ErrUnorderedInput is wrapped and returned when a SetSeriesData input is not
// strictly ascending by time.
var ErrUnorderedInput = errors.Reason("input is not strictly ascending by time")

// ErrUpdateOutOfOrder is wrapped and returned when UpdateSeriesData is called
// with a timestamp earlier than the series' last touched timestamp.
var ErrUpdateOutOfOrder = errors.Reason("update timestamp precedes the series' last timestamp")

// ErrUnknownSeries is wrapped and returned when an operation references a
// series handle the Layer never minted.
var ErrUnknownSeries = errors.Reason("unknown series")
