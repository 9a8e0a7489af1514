package types

import "sort"

// Document is one financials statement as loaded from a source.
type Document struct {
	Name       string
	Years      []int
	Financials FinancialsTable
}

// UnionYears returns every year present in t, ascending.
func (t FinancialsTable) UnionYears() []int {
	set := map[int]struct{}{}
	for _, m := range t {
		for y := range m.Values {
			set[y] = struct{}{}
		}
	}
	years := make([]int, 0, len(set))
	for y := range set {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}
