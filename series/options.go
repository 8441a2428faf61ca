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
	"github.com/stockparfait/errors"

	"github.com/stockparfait/chartcore/config"
)

// Options is the opaque per-series configuration the data layer carries
// alongside a series' rows without interpreting it. Rendering and layout
// semantics of these fields belong to a host renderer, not to this package.
type Options struct {
	Title        string `json:"title"`
	PriceScaleID string `json:"price scale id" default:"right" choices:"left,right"`
	Color        string `json:"color" default:"#2196f3"`
}

var _ config.Message = &Options{}

// InitMessage implements config.Message.
func (o *Options) InitMessage(js interface{}) error {
	return errors.Annotate(config.Init(o, js), "failed to init series options from JSON")
}
