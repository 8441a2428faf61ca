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

// Package feed loads the bar data a chart displays from outside the
// process: an HTTP+JSON endpoint or a local CSV file. It exists to give the
// data layer something realistic to be fed from in a standalone chart
// server; embedders driving a chart from their own in-memory data never
// need it.
package feed

import (
	"context"
	"encoding/csv"
	"io"
	"net/url"
	"runtime"
	"strconv"

	"github.com/stockparfait/errors"
	"github.com/stockparfait/fetch"
	"github.com/stockparfait/iterator"

	"github.com/stockparfait/chartcore/series"
)

// Bar is a single OHLC data point as read from a feed, before it is turned
// into a series.Item (it always carries every OHLC field; conversion to a
// non-OHLC series.Item discards the ones that do not apply).
type Bar struct {
	Time  string  `json:"time"`
	Open  float64 `json:"open"`
	High  float64 `json:"high"`
	Low   float64 `json:"low"`
	Close float64 `json:"close"`
}

// Item converts a Bar into a series.Item appropriate for seriesType.
func (b Bar) Item(seriesType series.Type) series.Item {
	if seriesType == series.Bar || seriesType == series.Candlestick {
		return series.Item{
			Time:  b.Time,
			Open:  &b.Open,
			High:  &b.High,
			Low:   &b.Low,
			Close: &b.Close,
		}
	}
	return series.Item{Time: b.Time, Value: &b.Close}
}

// Endpoint is a single symbol's feed source configuration.
type Endpoint struct {
	Symbol string `json:"symbol" required:"true"`
	URL    string `json:"url" required:"true"`
}

// httpPayload is the JSON envelope an HTTPSource expects: a flat array of
// bars under a "bars" key.
type httpPayload struct {
	Bars []Bar `json:"bars"`
}

// HTTPSource fetches bars for one symbol from a JSON HTTP endpoint.
type HTTPSource struct {
	endpoint Endpoint
}

// NewHTTPSource builds an HTTPSource for endpoint.
func NewHTTPSource(endpoint Endpoint) *HTTPSource { return &HTTPSource{endpoint: endpoint} }

// Load fetches and returns every bar for the endpoint's symbol. The HTTP
// client is taken from ctx via fetch.UseClient; callers that don't inject
// one get the package's default client.
func (s *HTTPSource) Load(ctx context.Context) ([]Bar, error) {
	var payload httpPayload
	if err := fetch.FetchJSON(ctx, s.endpoint.URL, &payload, url.Values{}, nil); err != nil {
		return nil, errors.Annotate(err, "failed to fetch bars for %s", s.endpoint.Symbol)
	}
	return payload.Bars, nil
}

// CSVSource reads bars for one symbol from a local "time,open,high,low,close"
// CSV file, opened and owned by the caller.
type CSVSource struct {
	symbol string
	r      io.Reader
}

// NewCSVSource wraps r, an open CSV stream with a header row.
func NewCSVSource(symbol string, r io.Reader) *CSVSource {
	return &CSVSource{symbol: symbol, r: r}
}

// Load reads every row of the CSV stream into a Bar, skipping the header.
func (s *CSVSource) Load(ctx context.Context) ([]Bar, error) {
	reader := csv.NewReader(s.r)
	header, err := reader.Read()
	if err != nil {
		return nil, errors.Annotate(err, "failed to read CSV header for %s", s.symbol)
	}
	col := make(map[string]int, len(header))
	for i, h := range header {
		col[h] = i
	}
	for _, want := range []string{"time", "open", "high", "low", "close"} {
		if _, ok := col[want]; !ok {
			return nil, errors.Reason("CSV for %s is missing column %q", s.symbol, want)
		}
	}

	var bars []Bar
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Annotate(err, "failed to read CSV row for %s", s.symbol)
		}
		b, err := parseBarRow(row, col)
		if err != nil {
			return nil, errors.Annotate(err, "failed to parse CSV row for %s", s.symbol)
		}
		bars = append(bars, b)
	}
	return bars, nil
}

func parseBarRow(row []string, col map[string]int) (Bar, error) {
	f := func(name string) (float64, error) {
		return strconv.ParseFloat(row[col[name]], 64)
	}
	open, err := f("open")
	if err != nil {
		return Bar{}, errors.Annotate(err, "open")
	}
	high, err := f("high")
	if err != nil {
		return Bar{}, errors.Annotate(err, "high")
	}
	low, err := f("low")
	if err != nil {
		return Bar{}, errors.Annotate(err, "low")
	}
	closeV, err := f("close")
	if err != nil {
		return Bar{}, errors.Annotate(err, "close")
	}
	return Bar{Time: row[col["time"]], Open: open, High: high, Low: low, Close: closeV}, nil
}

// Source loads the bars for a single symbol.
type Source interface {
	Load(ctx context.Context) ([]Bar, error)
}

var _ Source = (*HTTPSource)(nil)
var _ Source = (*CSVSource)(nil)

// Result is one symbol's load outcome: Err is set on failure, otherwise Bars
// holds the loaded bars (nil if the source had none).
type Result struct {
	Symbol string
	Bars   []Bar
	Err    error
}

// indexedResult carries a Result's position in the original request, so
// parallel completion order can be folded back into a stable output order.
type indexedResult struct {
	index  int
	result Result
}

type indexedSource struct {
	index  int
	symbol string
	source Source
}

// LoadAll loads every source concurrently, bounding parallelism to twice the
// host's CPU count, and collects the results in the sources' original order.
func LoadAll(ctx context.Context, symbols []string, sources []Source) []Result {
	items := make([]indexedSource, len(sources))
	for i, s := range sources {
		items[i] = indexedSource{index: i, symbol: symbols[i], source: s}
	}

	f := func(it indexedSource) indexedResult {
		bars, err := it.source.Load(ctx)
		if err != nil {
			return indexedResult{it.index, Result{
				Symbol: it.symbol,
				Err:    errors.Annotate(err, "failed to load %s", it.symbol),
			}}
		}
		return indexedResult{it.index, Result{Symbol: it.symbol, Bars: bars}}
	}

	pm := iterator.ParallelMap(ctx, 2*runtime.NumCPU(), iterator.FromSlice(items), f)
	defer pm.Close()

	results := make([]Result, len(items))
	iterator.Reduce[indexedResult, struct{}](pm, struct{}{}, func(r indexedResult, _ struct{}) struct{} {
		results[r.index] = r.result
		return struct{}{}
	})
	return results
}
