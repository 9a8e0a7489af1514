// Package format renders numbers for display.
package format

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

var compactUnits = []struct {
	suffix string
	exp    int32
}{
	{"T", 12},
	{"B", 9},
	{"M", 6},
	{"K", 3},
}

// NotANumber is printed in place of NaN and infinite values.
const NotANumber = "n/a"

// Number formats v with a fixed number of decimals and comma separators.
// Rounding is half away from zero on the shortest decimal form of v, so
// 1.005 rounds to 1.01.
func Number(v float64, decimals int) string {
	if !finite(v) {
		return NotANumber
	}
	if decimals < 0 {
		decimals = 0
	}
	s := decimal.NewFromFloat(v).StringFixed(int32(decimals))
	return groupThousands(s)
}

// Compact formats v with a K/M/B/T suffix and at most two decimals,
// e.g. 1250000000 -> "1.25B". Values below 1000 are printed as is.
func Compact(v float64) string {
	if !finite(v) {
		return NotANumber
	}
	d := decimal.NewFromFloat(v)
	abs := d.Abs()
	for i, u := range compactUnits {
		unit := decimal.New(1, u.exp)
		if abs.LessThan(unit) {
			continue
		}
		scaled := d.Div(unit).Round(2)
		// 999999 rounds to 1000.00K; promote to the next unit.
		if scaled.Abs().GreaterThanOrEqual(decimal.NewFromInt(1000)) && i > 0 {
			scaled = d.Div(decimal.New(1, compactUnits[i-1].exp)).Round(2)
			u = compactUnits[i-1]
		}
		return trimZeros(scaled.StringFixed(2)) + u.suffix
	}
	return trimZeros(d.StringFixed(2))
}

// Percent formats v as a signed percentage with two decimals: +1.23%, -0.50%.
func Percent(v float64) string {
	if !finite(v) {
		return NotANumber
	}
	d := decimal.NewFromFloat(v).Round(2)
	s := d.StringFixed(2)
	if d.IsPositive() {
		s = "+" + s
	}
	return s + "%"
}

// groupThousands inserts comma separators into the integer part of a
// plain decimal string.
func groupThousands(s string) string {
	sign := ""
	if strings.HasPrefix(s, "-") || strings.HasPrefix(s, "+") {
		sign = s[:1]
		s = s[1:]
	}
	intPart, fracPart := s, ""
	if dot := strings.IndexByte(s, '.'); dot >= 0 {
		intPart, fracPart = s[:dot], s[dot:]
	}
	n := len(intPart)
	if n <= 3 {
		return sign + intPart + fracPart
	}
	out := make([]byte, 0, n+n/3)
	rem := n % 3
	if rem == 0 {
		rem = 3
	}
	out = append(out, intPart[:rem]...)
	for i := rem; i < n; i += 3 {
		out = append(out, ',')
		out = append(out, intPart[i:i+3]...)
	}
	return sign + string(out) + fracPart
}

func trimZeros(s string) string {
	if !strings.Contains(s, ".") {
		return s
	}
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
