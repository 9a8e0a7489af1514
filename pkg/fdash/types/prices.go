package types

import (
	"encoding/json"
	"fmt"
)

// Symbol identifies a tracked market index.
type Symbol string

const (
	SymbolUS10Y Symbol = "^US10Y" // 10 year treasury yield
	SymbolGSPC  Symbol = "^GSPC"  // S&P 500
	SymbolVIX   Symbol = "^VIX"   // CBOE volatility index
)

// TrackedSymbols returns the symbols the dashboard tracks, in emission order.
func TrackedSymbols() []Symbol {
	return []Symbol{SymbolUS10Y, SymbolGSPC, SymbolVIX}
}

// Well-known PriceRecord field keys.
const (
	FieldName          = "name"
	FieldPrice         = "price"
	FieldChangePercent = "change_percent"
	FieldPriceFmt      = "price_fmt"
	FieldChangeFmt     = "change_fmt"
)

// PriceRecord is one symbol's market snapshot: arbitrary indicator fields
// tagged with the symbol they belong to.
type PriceRecord struct {
	Symbol Symbol
	Fields map[string]any
}

// PriceDataByIndex is a provider response keyed by symbol.
type PriceDataByIndex map[Symbol]PriceRecord

// Tagged returns a copy of r carrying sym.
func (r PriceRecord) Tagged(sym Symbol) PriceRecord {
	fields := make(map[string]any, len(r.Fields))
	for k, v := range r.Fields {
		fields[k] = v
	}
	return PriceRecord{Symbol: sym, Fields: fields}
}

// Price returns the last price when present.
func (r PriceRecord) Price() (float64, bool) {
	return ToFloat(r.Fields[FieldPrice])
}

// ChangePercent returns the daily change in percent when present.
func (r PriceRecord) ChangePercent() (float64, bool) {
	return ToFloat(r.Fields[FieldChangePercent])
}

// Name returns the display name, or the symbol when none is set.
func (r PriceRecord) Name() string {
	if s, ok := r.Fields[FieldName].(string); ok && s != "" {
		return s
	}
	return string(r.Symbol)
}

// MarshalJSON flattens fields next to the symbol tag.
func (r PriceRecord) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(r.Fields)+1)
	for k, v := range r.Fields {
		m[k] = v
	}
	m["symbol"] = string(r.Symbol)
	return json.Marshal(m)
}

// UnmarshalJSON reads a flat object; a "symbol" key becomes the tag.
func (r *PriceRecord) UnmarshalJSON(data []byte) error {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("price record: %w", err)
	}
	out := PriceRecord{Fields: m}
	if s, ok := m["symbol"].(string); ok {
		out.Symbol = Symbol(s)
		delete(m, "symbol")
	}
	*r = out
	return nil
}

// UnmarshalJSON decodes a symbol-keyed object, tagging each record with its key.
func (p *PriceDataByIndex) UnmarshalJSON(data []byte) error {
	var raw map[string]PriceRecord
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(PriceDataByIndex, len(raw))
	for k, rec := range raw {
		if rec.Fields == nil {
			rec.Fields = map[string]any{}
		}
		rec.Symbol = Symbol(k)
		out[Symbol(k)] = rec
	}
	*p = out
	return nil
}
