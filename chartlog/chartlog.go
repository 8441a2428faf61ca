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

// Package chartlog wraps the chart's logging conventions: every log line
// written through it is prefixed with the chart ID set by ForChart, so a
// multi-chart host can filter by chart instance.
package chartlog

import (
	"context"

	"github.com/stockparfait/logging"
)

// ForChart returns a context whose log lines are prefixed with chartID, so
// logs from several charts on the same page can be told apart.
func ForChart(ctx context.Context, chartID string) context.Context {
	return context.WithValue(ctx, chartIDKey{}, chartID)
}

type chartIDKey struct{}

func prefix(ctx context.Context) string {
	id, _ := ctx.Value(chartIDKey{}).(string)
	if id == "" {
		return ""
	}
	return "[" + id + "] "
}

// Debugf logs at debug level, prefixed with the chart ID set by ForChart.
func Debugf(ctx context.Context, format string, args ...interface{}) {
	logging.Debugf(ctx, prefix(ctx)+format, args...)
}

// Infof logs at info level, prefixed with the chart ID set by ForChart.
func Infof(ctx context.Context, format string, args ...interface{}) {
	logging.Infof(ctx, prefix(ctx)+format, args...)
}

// Warningf logs at warning level, prefixed with the chart ID set by ForChart.
func Warningf(ctx context.Context, format string, args ...interface{}) {
	logging.Warningf(ctx, prefix(ctx)+format, args...)
}

// Errorf logs at error level, prefixed with the chart ID set by ForChart.
func Errorf(ctx context.Context, format string, args ...interface{}) {
	logging.Errorf(ctx, prefix(ctx)+format, args...)
}
