// Package indicator describes chart overlays such as moving averages.
//
// An indicator's description is always derived from its current
// configuration. Variants embed Base and override Description when their
// configuration carries more than a period.
package indicator

import (
	"fmt"
	"strconv"
)

// Config is an open indicator configuration. Values are strings or numbers.
type Config map[string]any

// Get renders key as text. A missing key renders as the empty string.
func (c Config) Get(key string) string {
	v, ok := c[key]
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	default:
		return fmt.Sprint(t)
	}
}

// Clone returns a shallow copy so callers cannot mutate a variant's fixed config.
func (c Config) Clone() Config {
	if c == nil {
		return nil
	}
	out := make(Config, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// layered returns a copy of c with overrides applied. The "indicator" key
// names the variant and is never overridden.
func (c Config) layered(overrides Config) Config {
	out := c.Clone()
	if out == nil {
		out = Config{}
	}
	for k, v := range overrides {
		if k == "indicator" {
			continue
		}
		out[k] = v
	}
	return out
}

// Dimension binds an indicator to a chart axis and its series.
type Dimension struct {
	Index  int
	Series []int
}

// Indicator is a chart overlay descriptor.
type Indicator interface {
	Name() string
	Config() Config
	Color() string
	Dimension() *Dimension
	OnChart() bool
	Description() string
}

// Base is the default indicator. Its zero value is shown on the chart.
type Base struct {
	name      string
	color     string
	config    Config
	dimension *Dimension
	hidden    bool
}

// NewBase returns a base indicator with the given name and configuration.
func NewBase(name string, cfg Config) *Base {
	return &Base{name: name, config: cfg.Clone()}
}

func (b *Base) Name() string          { return b.name }
func (b *Base) Config() Config        { return b.config.Clone() }
func (b *Base) Color() string         { return b.color }
func (b *Base) Dimension() *Dimension { return b.dimension }
func (b *Base) OnChart() bool         { return !b.hidden }
func (b *Base) base() *Base           { return b }

// SetColor sets the display color.
func (b *Base) SetColor(color string) { b.color = color }

// SetDimension binds the indicator to an axis.
func (b *Base) SetDimension(d *Dimension) { b.dimension = d }

// SetOnChart toggles whether the indicator is drawn over the price chart.
func (b *Base) SetOnChart(on bool) { b.hidden = !on }

// Description reports the period. Variants without a period override it.
func (b *Base) Description() string {
	return "Period: " + b.config.Get("period")
}
