package render

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/komsit37/fdash/pkg/fdash/reshape"
	"github.com/komsit37/fdash/pkg/fdash/types"
)

func sampleReport() Report {
	years := []int{2021, 2022}
	return Report{
		Name:  "acme",
		Years: years,
		Table: reshape.Table{
			Rows: []reshape.Row{
				{Title: "Revenue", Values: []float64{1234.5, 2500000}},
				{Title: "Net Income", Values: []float64{-12}},
			},
			Columns: reshape.Columns(years),
		},
	}
}

func samplePrices() []types.PriceRecord {
	return []types.PriceRecord{
		{Symbol: types.SymbolUS10Y, Fields: map[string]any{types.FieldPrice: 4.25, types.FieldChangePercent: 0.5}},
		{Symbol: types.SymbolVIX, Fields: map[string]any{types.FieldPrice: 13.1, types.FieldChangePercent: -2.0}},
	}
}

func TestNew(t *testing.T) {
	for _, f := range []string{"", "table", "json", "syms"} {
		if _, ok := New(f); !ok {
			t.Errorf("New(%q) not found", f)
		}
	}
	if _, ok := New("xml"); ok {
		t.Error("New(xml) should not be found")
	}
}

func TestTableRenderer_Report(t *testing.T) {
	var buf bytes.Buffer
	if err := NewTableRenderer().RenderReport(&buf, []Report{sampleReport()}, RenderOptions{Decimals: 1}); err != nil {
		t.Fatalf("RenderReport failed: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"TITLE", "2021", "2022", "Revenue", "1,234.5", "2,500,000.0", "Net Income", "-12.0"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "ACME") {
		t.Error("single report should not print a name heading")
	}
}

func TestTableRenderer_ReportCompactMulti(t *testing.T) {
	a, b := sampleReport(), sampleReport()
	b.Name = "globex"
	var buf bytes.Buffer
	if err := NewTableRenderer().RenderReport(&buf, []Report{a, b}, RenderOptions{Compact: true}); err != nil {
		t.Fatalf("RenderReport failed: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"ACME", "GLOBEX", "2.5M", "1.23K"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestTableRenderer_Prices(t *testing.T) {
	var buf bytes.Buffer
	if err := NewTableRenderer().RenderPrices(&buf, samplePrices(), RenderOptions{}); err != nil {
		t.Fatalf("RenderPrices failed: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"SYM", "CHG%", "^US10Y", "4.25", "+0.50%", "^VIX", "-2.00%"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestJSONRenderer_Report(t *testing.T) {
	var buf bytes.Buffer
	if err := NewJSONRenderer().RenderReport(&buf, []Report{sampleReport()}, RenderOptions{PrettyJSON: true}); err != nil {
		t.Fatalf("RenderReport failed: %v", err)
	}
	var got []struct {
		Name    string           `json:"name"`
		Years   []int            `json:"years"`
		Columns []string         `json:"columns"`
		Rows    []map[string]any `json:"rows"`
	}
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid json: %v\n%s", err, buf.String())
	}
	if len(got) != 1 || len(got[0].Rows) != 2 {
		t.Fatalf("got %+v", got)
	}
	row := got[0].Rows[0]
	if row["title"] != "Revenue" || row["value1"] != 1234.5 || row["value2"] != 2500000.0 {
		t.Errorf("row = %v", row)
	}
	if _, ok := got[0].Rows[1]["value2"]; ok {
		t.Error("short row should not carry value2")
	}
}

func TestJSONRenderer_Prices(t *testing.T) {
	var buf bytes.Buffer
	if err := NewJSONRenderer().RenderPrices(&buf, samplePrices(), RenderOptions{}); err != nil {
		t.Fatalf("RenderPrices failed: %v", err)
	}
	var got []map[string]any
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(got) != 2 || got[0]["symbol"] != "^US10Y" || got[1]["price"] != 13.1 {
		t.Errorf("got %v", got)
	}

	buf.Reset()
	NewJSONRenderer().RenderPrices(&buf, nil, RenderOptions{})
	if strings.TrimSpace(buf.String()) != "[]" {
		t.Errorf("nil records = %q, want []", buf.String())
	}
}

func TestSymsRenderer(t *testing.T) {
	r := NewSymsRenderer()
	var buf bytes.Buffer
	r.RenderReport(&buf, []Report{sampleReport()}, RenderOptions{})
	if got := buf.String(); got != "Revenue,Net Income\n" {
		t.Errorf("RenderReport = %q", got)
	}
	buf.Reset()
	r.RenderPrices(&buf, samplePrices(), RenderOptions{})
	if got := buf.String(); got != "^US10Y,^VIX\n" {
		t.Errorf("RenderPrices = %q", got)
	}
}
