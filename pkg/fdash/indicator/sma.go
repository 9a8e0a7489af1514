package indicator

// KindSMA is the config "indicator" value of a simple moving average.
const KindSMA = "sma"

// SimpleMovingAverage averages closing prices over a fixed period. Its
// configuration is fixed when it is built.
type SimpleMovingAverage struct {
	Base
}

// NewSimpleMovingAverage returns an SMA with the default configuration.
func NewSimpleMovingAverage() *SimpleMovingAverage {
	return NewSimpleMovingAverageWith(nil)
}

// NewSimpleMovingAverageWith returns an SMA whose configuration is the
// default with overrides layered on top, e.g. Config{"period": 200}.
func NewSimpleMovingAverageWith(overrides Config) *SimpleMovingAverage {
	defaults := Config{
		"indicator":  KindSMA,
		"period":     50,
		"field":      "",
		"price_type": "close",
	}
	return &SimpleMovingAverage{
		Base: Base{
			name:   "Simple Moving Average",
			config: defaults.layered(overrides),
		},
	}
}

// Description combines period and price type.
func (s *SimpleMovingAverage) Description() string {
	return "Period: " + s.config.Get("period") + ", Type: " + s.config.Get("price_type")
}
