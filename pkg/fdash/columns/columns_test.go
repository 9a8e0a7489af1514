package columns

import (
	"errors"
	"reflect"
	"testing"

	"github.com/komsit37/fdash/pkg/fdash/types"
)

func TestHeader(t *testing.T) {
	years := []int{2021, 2022}
	tests := []struct {
		col  string
		want string
	}{
		{"title", "TITLE"},
		{"value1", "2021"},
		{"value2", "2022"},
		{"value3", "VALUE3"},
	}
	for _, tt := range tests {
		if got := Header(tt.col, years); got != tt.want {
			t.Errorf("Header(%q) = %q, want %q", tt.col, got, tt.want)
		}
	}
}

func TestCompute(t *testing.T) {
	if got := Compute(nil); !reflect.DeepEqual(got, DefaultPriceColumns) {
		t.Errorf("Compute(nil) = %v, want %v", got, DefaultPriceColumns)
	}
	got := Compute([]string{"price", "sym", "price", " ", "chg%"})
	want := []string{"price", "sym", "chg%"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Compute = %v, want %v", got, want)
	}
}

func TestRenderValue(t *testing.T) {
	rec := types.PriceRecord{
		Symbol: types.SymbolGSPC,
		Fields: map[string]any{
			types.FieldPrice:         5123.456,
			types.FieldChangePercent: -0.52,
			"volume":                 1234567.0,
			"exchange":               "SNP",
		},
	}
	tests := []struct {
		col  string
		want string
	}{
		{"sym", "^GSPC"},
		{"name", "^GSPC"},
		{"price", "5,123.46"},
		{"chg%", "-0.52%"},
		{"volume", "1,234,567.00"},
		{"exchange", "SNP"},
		{"missing", ""},
	}
	for _, tt := range tests {
		if got := RenderValue(tt.col, rec); got != tt.want {
			t.Errorf("RenderValue(%q) = %q, want %q", tt.col, got, tt.want)
		}
	}

	rec.Fields[types.FieldPriceFmt] = "5,123.45"
	rec.Fields[types.FieldChangeFmt] = "-0.52%"
	rec.Fields[types.FieldName] = "S&P 500"
	if got := RenderValue("price", rec); got != "5,123.45" {
		t.Errorf("price with fmt = %q, want provider format", got)
	}
	if got := RenderValue("name", rec); got != "S&P 500" {
		t.Errorf("name = %q, want S&P 500", got)
	}
}

func TestExpandSets(t *testing.T) {
	got, err := ExpandSets([]string{"price", "quote"})
	if err != nil {
		t.Fatalf("ExpandSets failed: %v", err)
	}
	want := []string{"price", "chg%", "sym", "name"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExpandSets = %v, want %v", got, want)
	}

	_, err = ExpandSets([]string{"nope"})
	var unknown *UnknownSetError
	if !errors.As(err, &unknown) {
		t.Fatalf("error = %v, want *UnknownSetError", err)
	}
	if unknown.Name != "nope" || len(unknown.Available) != len(Sets) {
		t.Errorf("UnknownSetError = %+v", unknown)
	}
}
