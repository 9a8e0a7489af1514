package columns

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/komsit37/fdash/pkg/fdash/format"
	"github.com/komsit37/fdash/pkg/fdash/reshape"
	"github.com/komsit37/fdash/pkg/fdash/types"
)

// Resolver converts a price record into a display string for a column.
type Resolver func(rec types.PriceRecord) string

// Registry maps price column keys to resolvers.
var Registry = map[string]Resolver{}

// DefaultPriceColumns is used when no explicit price columns are given.
var DefaultPriceColumns = []string{"sym", "name", "price", "chg%"}

func init() {
	Registry["sym"] = func(rec types.PriceRecord) string {
		return string(rec.Symbol)
	}
	// name: provider short name, falling back to the symbol
	Registry["name"] = func(rec types.PriceRecord) string {
		return rec.Name()
	}
	// price: provider formatting when present
	Registry["price"] = func(rec types.PriceRecord) string {
		if s, ok := rec.Fields[types.FieldPriceFmt].(string); ok && s != "" {
			return s
		}
		if p, ok := rec.Price(); ok {
			return format.Number(p, 2)
		}
		return ""
	}
	Registry["chg%"] = func(rec types.PriceRecord) string {
		if s, ok := rec.Fields[types.FieldChangeFmt].(string); ok && s != "" {
			return s
		}
		if c, ok := rec.ChangePercent(); ok {
			return format.Percent(c)
		}
		return ""
	}
}

// RenderValue calls the resolver for col, falling back to the raw field.
func RenderValue(col string, rec types.PriceRecord) string {
	if r, ok := Registry[col]; ok {
		return r(rec)
	}
	v, ok := rec.Fields[col]
	if !ok || v == nil {
		return ""
	}
	if f, ok := types.ToFloat(v); ok {
		return format.Number(f, 2)
	}
	return fmt.Sprint(v)
}

// Header returns the display header for a report column: the year for a
// positional column, or the upper-cased key otherwise.
func Header(col string, years []int) string {
	if pos, ok := reshape.Position(col); ok {
		if pos <= len(years) {
			return strconv.Itoa(years[pos-1])
		}
	}
	return strings.ToUpper(col)
}

// Compute returns the explicit columns deduped in first-seen order, or
// DefaultPriceColumns when explicit is empty.
func Compute(explicit []string) []string {
	if len(explicit) == 0 {
		return append([]string(nil), DefaultPriceColumns...)
	}
	seen := map[string]struct{}{}
	out := make([]string, 0, len(explicit))
	for _, k := range explicit {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}

// IsChange reports whether col should be colored by the change sign.
func IsChange(col string) bool {
	return col == "price" || col == "chg%"
}
