package types

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"

	"gopkg.in/yaml.v3"
)

// FinancialInfo is one metric value for one year. Only Value is interpreted;
// any other fields of the source record are kept in Extra.
type FinancialInfo struct {
	Value float64
	Extra map[string]any
}

// YearValues maps a calendar year to its FinancialInfo.
type YearValues map[int]FinancialInfo

// Years returns the years in ascending order.
func (v YearValues) Years() []int {
	years := make([]int, 0, len(v))
	for y := range v {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}

// Metric is one titled line of a financial statement.
type Metric struct {
	Title  string
	Values YearValues
}

// FinancialsTable holds metrics in the order they appeared in the source.
type FinancialsTable []Metric

// Titles returns the metric titles in table order.
func (t FinancialsTable) Titles() []string {
	out := make([]string, 0, len(t))
	for _, m := range t {
		out = append(out, m.Title)
	}
	return out
}

// Lookup returns the values for title.
func (t FinancialsTable) Lookup(title string) (YearValues, bool) {
	for _, m := range t {
		if m.Title == title {
			return m.Values, true
		}
	}
	return nil, false
}

// UnmarshalYAML decodes a title-keyed mapping while preserving key order.
// A repeated title keeps its first position and its last value.
func (t *FinancialsTable) UnmarshalYAML(node *yaml.Node) error {
	node = unwrapDocument(node)
	if isNull(node) {
		*t = nil
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("financials: expected mapping at line %d", node.Line)
	}
	out := make(FinancialsTable, 0, len(node.Content)/2)
	index := make(map[string]int, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		title := node.Content[i].Value
		var values YearValues
		if err := node.Content[i+1].Decode(&values); err != nil {
			return fmt.Errorf("financials %q: %w", title, err)
		}
		if at, ok := index[title]; ok {
			out[at].Values = values
			continue
		}
		index[title] = len(out)
		out = append(out, Metric{Title: title, Values: values})
	}
	*t = out
	return nil
}

// UnmarshalJSON accepts the same shapes as UnmarshalYAML.
func (t *FinancialsTable) UnmarshalJSON(data []byte) error {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return err
	}
	return t.UnmarshalYAML(&node)
}

// UnmarshalYAML accepts either a year mapping or a legacy
// {values: <year mapping>} wrapper.
func (v *YearValues) UnmarshalYAML(node *yaml.Node) error {
	node = unwrapDocument(node)
	if isNull(node) {
		*v = YearValues{}
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("expected year mapping at line %d", node.Line)
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == "values" {
			return v.UnmarshalYAML(node.Content[i+1])
		}
	}
	out := make(YearValues, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i].Value
		year, err := strconv.Atoi(key)
		if err != nil {
			return fmt.Errorf("year %q at line %d: not an integer", key, node.Content[i].Line)
		}
		var info FinancialInfo
		if err := node.Content[i+1].Decode(&info); err != nil {
			return fmt.Errorf("year %d: %w", year, err)
		}
		out[year] = info
	}
	*v = out
	return nil
}

// UnmarshalYAML accepts a record with a numeric value field, or a bare number.
func (f *FinancialInfo) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		if isNull(node) {
			*f = FinancialInfo{}
			return nil
		}
		n, err := strconv.ParseFloat(node.Value, 64)
		if err != nil {
			return fmt.Errorf("value %q at line %d: not a number", node.Value, node.Line)
		}
		if !finite(n) {
			return fmt.Errorf("value %q at line %d: not a finite number", node.Value, node.Line)
		}
		*f = FinancialInfo{Value: n}
		return nil
	}
	var raw map[string]any
	if err := node.Decode(&raw); err != nil {
		return err
	}
	out := FinancialInfo{}
	for k, val := range raw {
		if k == "value" {
			n, ok := ToFloat(val)
			if !ok && val != nil {
				return fmt.Errorf("value %v at line %d: not a number", val, node.Line)
			}
			if !finite(n) {
				return fmt.Errorf("value %v at line %d: not a finite number", val, node.Line)
			}
			out.Value = n
			continue
		}
		if out.Extra == nil {
			out.Extra = map[string]any{}
		}
		out.Extra[k] = val
	}
	*f = out
	return nil
}

// MarshalJSON writes the record form with the value field first-class.
func (f FinancialInfo) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(f.Extra)+1)
	for k, v := range f.Extra {
		m[k] = v
	}
	m["value"] = f.Value
	return json.Marshal(m)
}

func finite(n float64) bool {
	return !math.IsNaN(n) && !math.IsInf(n, 0)
}

// ToFloat converts the numeric kinds produced by YAML and JSON decoders.
func ToFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func unwrapDocument(node *yaml.Node) *yaml.Node {
	if node.Kind == yaml.DocumentNode && len(node.Content) == 1 {
		return node.Content[0]
	}
	return node
}

func isNull(node *yaml.Node) bool {
	return node.Kind == 0 || (node.Kind == yaml.ScalarNode && node.Tag == "!!null")
}
