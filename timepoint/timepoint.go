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

// Package timepoint normalizes the heterogeneous time values a chart series
// can be fed (a calendar day, epoch seconds, or an ISO date string) into a
// single canonical form shared by the whole chart.
package timepoint

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/stockparfait/errors"
)

// ErrInvalidTime is wrapped and returned whenever a raw time value cannot be
// parsed into a BusinessDay or is otherwise out of range.
var ErrInvalidTime = errors.Reason("invalid time")

// ErrWrongTimeType is wrapped and returned when a per-dataset converter is
// applied to a raw time value of the wrong variant.
var ErrWrongTimeType = errors.Reason("wrong time type")

// DevStrict gates the strict "YYYY-MM-DD" regex check on string inputs. It
// defaults to true so tests catch malformed dates; production embedders may
// set it to false to forgive single-digit months and days, per the chart's
// own documented relaxed-in-production behavior.
var DevStrict = true

var strictDateRE = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
var looseDateRE = regexp.MustCompile(`^\d{1,4}-\d{1,2}-\d{1,2}$`)

// BusinessDay is the calendar-day form of a canonical TimePoint. Month is
// 1-based.
type BusinessDay struct {
	Year  int
	Month int
	Day   int
}

// String renders the business day as "YYYY-MM-DD".
func (b BusinessDay) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", b.Year, b.Month, b.Day)
}

func (b BusinessDay) timestamp() (int64, error) {
	t := time.Date(b.Year, time.Month(b.Month), b.Day, 0, 0, 0, 0, time.UTC)
	if t.Year() != b.Year || int(t.Month()) != b.Month || t.Day() != b.Day {
		return 0, errors.Annotate(ErrInvalidTime, "out of range business day: %s", b)
	}
	return t.Unix(), nil
}

// ParseBusinessDay parses a strict (in DevStrict mode) "YYYY-MM-DD" string.
func ParseBusinessDay(s string) (BusinessDay, error) {
	re := strictDateRE
	if !DevStrict {
		re = looseDateRE
	}
	if !re.MatchString(s) {
		return BusinessDay{}, errors.Annotate(ErrInvalidTime,
			"time string '%s' does not match YYYY-MM-DD", s)
	}
	parts := strings.Split(s, "-")
	if len(parts) != 3 {
		return BusinessDay{}, errors.Annotate(ErrInvalidTime, "malformed date '%s'", s)
	}
	y, err := strconv.Atoi(parts[0])
	if err != nil {
		return BusinessDay{}, errors.Annotate(ErrInvalidTime, "bad year in '%s'", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return BusinessDay{}, errors.Annotate(ErrInvalidTime, "bad month in '%s'", s)
	}
	d, err := strconv.Atoi(parts[2])
	if err != nil {
		return BusinessDay{}, errors.Annotate(ErrInvalidTime, "bad day in '%s'", s)
	}
	if m < 1 || m > 12 {
		return BusinessDay{}, errors.Annotate(ErrInvalidTime, "month out of range in '%s'", s)
	}
	return BusinessDay{Year: y, Month: m, Day: d}, nil
}

// Point is the canonical form of a chart time value: always a UTC epoch
// second count, with an optional business-day breakdown preserved for
// datasets that were fed calendar days rather than timestamps.
type Point struct {
	Timestamp   int64
	BusinessDay *BusinessDay
}

// Before reports whether p is strictly earlier than q.
func (p Point) Before(q Point) bool { return p.Timestamp < q.Timestamp }

// Equal reports whether p and q refer to the same instant.
func (p Point) Equal(q Point) bool { return p.Timestamp == q.Timestamp }

// Raw is the union of time value shapes accepted from callers: int64 (epoch
// seconds), BusinessDay, or a "YYYY-MM-DD" string.
type Raw interface{}

// PreprocessStrings rewrites every string element of raws into a BusinessDay
// in place, leaving other variants untouched. This must run before
// SelectConverter so the per-dataset type check sees a uniform shape.
func PreprocessStrings(raws []Raw) error {
	for i, r := range raws {
		s, ok := r.(string)
		if !ok {
			continue
		}
		bd, err := ParseBusinessDay(s)
		if err != nil {
			return errors.Annotate(err, "failed to preprocess time at index %d", i)
		}
		raws[i] = bd
	}
	return nil
}

// Converter converts a single Raw time value into a canonical Point. It
// returns ErrWrongTimeType if invoked with a variant other than the one it
// was built for.
type Converter func(Raw) (Point, error)

// businessDayConverter only accepts BusinessDay values.
func businessDayConverter(r Raw) (Point, error) {
	bd, ok := r.(BusinessDay)
	if !ok {
		return Point{}, errors.Annotate(ErrWrongTimeType,
			"business-day converter invoked with %T", r)
	}
	ts, err := bd.timestamp()
	if err != nil {
		return Point{}, err
	}
	return Point{Timestamp: ts, BusinessDay: &bd}, nil
}

// timestampConverter only accepts int/int64 epoch-second values.
func timestampConverter(r Raw) (Point, error) {
	switch v := r.(type) {
	case int64:
		return Point{Timestamp: v}, nil
	case int:
		return Point{Timestamp: int64(v)}, nil
	default:
		return Point{}, errors.Annotate(ErrWrongTimeType,
			"timestamp converter invoked with %T", r)
	}
}

// SelectConverter returns the converter appropriate for the whole dataset,
// based on the type of the first element. PreprocessStrings must have
// already run on raws. It returns an error for an empty dataset, since
// there is nothing to select from.
func SelectConverter(raws []Raw) (Converter, error) {
	if len(raws) == 0 {
		return nil, errors.Reason("cannot select a time converter for an empty dataset")
	}
	switch raws[0].(type) {
	case BusinessDay:
		return businessDayConverter, nil
	case int64, int:
		return timestampConverter, nil
	default:
		return nil, errors.Annotate(ErrWrongTimeType,
			"unsupported raw time type %T", raws[0])
	}
}

// ConvertTime is a convenience that preprocesses a single value (rewriting a
// string to a BusinessDay first) and converts it with the appropriate
// converter, without requiring a whole dataset. It is used by
// UpdateSeriesData, which only ever sees one time value at a time.
func ConvertTime(r Raw) (Point, error) {
	if s, ok := r.(string); ok {
		bd, err := ParseBusinessDay(s)
		if err != nil {
			return Point{}, err
		}
		r = bd
	}
	switch r.(type) {
	case BusinessDay:
		return businessDayConverter(r)
	case int64, int:
		return timestampConverter(r)
	default:
		return Point{}, errors.Annotate(ErrWrongTimeType, "unsupported raw time type %T", r)
	}
}
