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

// Command chartfeed loads a batch of symbols from the endpoints listed in a
// TOML config file, feeds each into its own series on a data.Layer, and
// prints a short summary: pane 0's resulting invalidation level and the
// number of series loaded.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/stockparfait/errors"
	"github.com/stockparfait/logging"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/stockparfait/chartcore/data"
	"github.com/stockparfait/chartcore/feed"
	"github.com/stockparfait/chartcore/invalidate"
	"github.com/stockparfait/chartcore/series"
)

// Flags are the command-line flags of chartfeed.
type Flags struct {
	ConfigPath string
	LogLevel   logging.Level
}

func parseFlags(args []string) (*Flags, error) {
	var flags Flags
	fs := flag.NewFlagSet("chartfeed", flag.ExitOnError)
	fs.StringVar(&flags.ConfigPath, "config", "chartfeed.toml", "path to the TOML config file")
	flags.LogLevel = logging.Info
	fs.Var(&flags.LogLevel, "log-level", "Log level: debug, info, warning, error")
	err := fs.Parse(args)
	return &flags, err
}

// SeriesConfig names one symbol's feed endpoint and the series it should be
// loaded into.
type SeriesConfig struct {
	Symbol string      `toml:"symbol"`
	URL    string      `toml:"url"`
	Type   series.Type `toml:"-"`
	Kind   string      `toml:"kind"` // "Bar", "Line", etc; decoded into Type below
}

// Config is the TOML-decoded shape of chartfeed's config file.
type Config struct {
	Series []SeriesConfig `toml:"series"`
}

func parseConfig(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Annotate(err, "failed to open config file %s", path)
	}
	defer f.Close()

	var c Config
	if err := toml.NewDecoder(f).Decode(&c); err != nil {
		return nil, errors.Annotate(err, "failed to decode config file %s", path)
	}
	for i := range c.Series {
		var t series.Type
		if err := t.InitMessage(c.Series[i].Kind); err != nil {
			return nil, errors.Annotate(err, "series %s", c.Series[i].Symbol)
		}
		c.Series[i].Type = t
	}
	return &c, nil
}

func run(ctx context.Context, flags *Flags) error {
	cfg, err := parseConfig(flags.ConfigPath)
	if err != nil {
		return errors.Annotate(err, "failed to parse config")
	}

	layer := data.NewLayer()
	symbols := make([]string, len(cfg.Series))
	sources := make([]feed.Source, len(cfg.Series))
	ids := make([]series.ID, len(cfg.Series))
	for i, sc := range cfg.Series {
		symbols[i] = sc.Symbol
		sources[i] = feed.NewHTTPSource(feed.Endpoint{Symbol: sc.Symbol, URL: sc.URL})
		ids[i] = layer.NewSeries(sc.Type, series.Options{Title: sc.Symbol})
	}

	results := feed.LoadAll(ctx, symbols, sources)
	mask := invalidate.NewMask()
	loaded := 0
	for i, res := range results {
		if res.Err != nil {
			logging.Warningf(ctx, "failed to load %s: %s", res.Symbol, res.Err.Error())
			continue
		}
		items := make([]series.Item, len(res.Bars))
		for j, b := range res.Bars {
			items[j] = b.Item(cfg.Series[i].Type)
		}
		resp, err := layer.SetSeriesData(ids[i], items)
		if err != nil {
			return errors.Annotate(err, "failed to load %s into the data layer", res.Symbol)
		}
		if resp.TimeScale.Changed {
			mask.InvalidatePane(0, invalidate.LevelFull, true)
		} else {
			mask.InvalidatePane(0, invalidate.LevelLight, false)
		}
		logging.Infof(ctx, "%s: %d bars loaded", res.Symbol, len(res.Bars))
		loaded++
	}

	fmt.Printf("pane 0 invalidation level: %s\n", mask.LevelForPane(0))
	fmt.Printf("series loaded: %d\n", loaded)
	return nil
}

func main() {
	ctx := context.Background()
	flags, err := parseFlags(os.Args[1:])
	if err != nil {
		ctx = logging.Use(ctx, logging.DefaultGoLogger(logging.Info))
		logging.Errorf(ctx, "failed to parse flags: %s", err.Error())
		os.Exit(1)
	}
	ctx = logging.Use(ctx, logging.DefaultGoLogger(flags.LogLevel))

	if err := run(ctx, flags); err != nil {
		logging.Errorf(ctx, err.Error())
		os.Exit(1)
	}
}
