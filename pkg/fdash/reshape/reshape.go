// Package reshape turns title-keyed, year-keyed financial statements into
// flat rows for tabular display.
//
// Columns are positional: the Nth value of a row is shown under "valueN"
// regardless of its calendar year. The column count comes from the
// caller's years list, not from the data, so rows may carry more or fewer
// values than there are value columns.
package reshape

import (
	"strconv"
	"strings"

	"github.com/komsit37/fdash/pkg/fdash/types"
)

// TitleColumn is always the first column.
const TitleColumn = "title"

const valuePrefix = "value"

// Row is one reshaped metric.
type Row struct {
	Title  string
	Values []float64
}

// Field returns the value shown under col, or false when the row has none.
func (r Row) Field(col string) (any, bool) {
	if col == TitleColumn {
		return r.Title, true
	}
	pos, ok := Position(col)
	if !ok || pos > len(r.Values) {
		return nil, false
	}
	return r.Values[pos-1], true
}

// Record returns the row as {title, value1, value2, ...}.
func (r Row) Record() map[string]any {
	m := make(map[string]any, len(r.Values)+1)
	m[TitleColumn] = r.Title
	for i, v := range r.Values {
		m[ColumnName(i+1)] = v
	}
	return m
}

// Table is the reshaper output.
type Table struct {
	Rows    []Row
	Columns []string
}

// ColumnName returns the positional column name for pos (1-indexed).
func ColumnName(pos int) string {
	return valuePrefix + strconv.Itoa(pos)
}

// Position parses a positional column name back to its 1-indexed position.
func Position(col string) (int, bool) {
	if !strings.HasPrefix(col, valuePrefix) {
		return 0, false
	}
	n, err := strconv.Atoi(col[len(valuePrefix):])
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// Columns returns "title" followed by one positional column per year.
func Columns(years []int) []string {
	cols := make([]string, 0, len(years)+1)
	cols = append(cols, TitleColumn)
	for i := range years {
		cols = append(cols, ColumnName(i+1))
	}
	return cols
}

// Reshape builds a fresh table from financials. It never fails: empty
// containers yield title-only rows and mismatched lengths are left to the
// display layer.
func Reshape(financials types.FinancialsTable, years []int) Table {
	rows := make([]Row, 0, len(financials))
	for _, m := range financials {
		row := Row{Title: m.Title, Values: make([]float64, 0, len(m.Values))}
		for _, y := range m.Values.Years() {
			row.Values = append(row.Values, m.Values[y].Value)
		}
		rows = append(rows, row)
	}
	return Table{Rows: rows, Columns: Columns(years)}
}
