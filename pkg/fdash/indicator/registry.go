package indicator

import (
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Constructor builds a fresh variant with overrides layered over its
// default configuration.
type Constructor func(overrides Config) Indicator

// Registry maps config "indicator" kinds to constructors.
var Registry = map[string]Constructor{
	KindSMA: func(overrides Config) Indicator { return NewSimpleMovingAverageWith(overrides) },
}

// UnknownKindError reports an indicator kind with no registered variant.
type UnknownKindError struct {
	Kind      string
	Available []string
}

func (e *UnknownKindError) Error() string {
	return "unknown indicator kind: " + e.Kind + "; available: " + strings.Join(e.Available, ", ")
}

// New builds the variant registered for kind with its default configuration.
func New(kind string) (Indicator, error) {
	return NewWith(kind, nil)
}

// NewWith builds the variant registered for kind with overrides applied.
func NewWith(kind string, overrides Config) (Indicator, error) {
	ctor, ok := Registry[strings.ToLower(strings.TrimSpace(kind))]
	if !ok {
		return nil, &UnknownKindError{Kind: kind, Available: Kinds()}
	}
	return ctor(overrides), nil
}

// Kinds returns the registered kinds, sorted.
func Kinds() []string {
	out := make([]string, 0, len(Registry))
	for k := range Registry {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Spec is one entry of a chart layout file.
//
//	indicators:
//	  - kind: sma
//	    color: "#ff9900"
//	    on_chart: true
//	    dimension: {index: 0, series: [1]}
//	    config: {period: 20}
type Spec struct {
	Kind      string         `yaml:"kind"`
	Name      string         `yaml:"name"`
	Color     string         `yaml:"color"`
	OnChart   *bool          `yaml:"on_chart"`
	Dimension *Dimension     `yaml:"dimension"`
	Config    map[string]any `yaml:"config"`
}

// UnmarshalYAML maps the lowercase keys onto Dimension.
func (d *Dimension) UnmarshalYAML(node *yaml.Node) error {
	var raw struct {
		Index  int   `yaml:"index"`
		Series []int `yaml:"series"`
	}
	if err := node.Decode(&raw); err != nil {
		return err
	}
	*d = Dimension{Index: raw.Index, Series: raw.Series}
	return nil
}

// FromSpec builds an indicator from a layout entry. Config entries are
// passed to the variant's constructor. An entry without a kind becomes a
// plain Base indicator.
func FromSpec(s Spec) (Indicator, error) {
	if strings.TrimSpace(s.Kind) == "" {
		b := NewBase(s.Name, Config(s.Config))
		applySpec(b, s)
		return b, nil
	}
	ind, err := NewWith(s.Kind, Config(s.Config))
	if err != nil {
		return nil, err
	}
	if b := baseOf(ind); b != nil {
		if s.Name != "" {
			b.name = s.Name
		}
		applySpec(b, s)
	}
	return ind, nil
}

func applySpec(b *Base, s Spec) {
	b.SetColor(s.Color)
	b.SetDimension(s.Dimension)
	if s.OnChart != nil {
		b.SetOnChart(*s.OnChart)
	}
}

// ParseLayout decodes a YAML layout document into indicators.
func ParseLayout(data []byte) ([]Indicator, error) {
	var doc struct {
		Indicators []Spec `yaml:"indicators"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse indicator layout: %w", err)
	}
	out := make([]Indicator, 0, len(doc.Indicators))
	for i, s := range doc.Indicators {
		ind, err := FromSpec(s)
		if err != nil {
			return nil, fmt.Errorf("indicator %d: %w", i, err)
		}
		out = append(out, ind)
	}
	return out, nil
}

// Defaults returns one instance of every registered variant.
func Defaults() []Indicator {
	out := make([]Indicator, 0, len(Registry))
	for _, k := range Kinds() {
		out = append(out, Registry[k](nil))
	}
	return out
}

func baseOf(ind Indicator) *Base {
	if v, ok := ind.(interface{ base() *Base }); ok {
		return v.base()
	}
	return nil
}
