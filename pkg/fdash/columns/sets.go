package columns

import (
	"sort"
	"strings"
)

// Sets defines named price column groups.
var Sets = map[string][]string{
	"price": {"price", "chg%"},
	"quote": {"sym", "name", "price", "chg%"},
	"raw":   {"sym", "price", "change_percent"},
}

// ExpandSets returns the union of columns for the given set names,
// keeping set order and the first occurrence of each column.
func ExpandSets(setNames []string) ([]string, error) {
	out := make([]string, 0, 8)
	seen := map[string]struct{}{}
	for _, name := range setNames {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		cols, ok := Sets[name]
		if !ok {
			return nil, &UnknownSetError{Name: name, Available: SetNames()}
		}
		for _, c := range cols {
			if _, ok := seen[c]; ok {
				continue
			}
			seen[c] = struct{}{}
			out = append(out, c)
		}
	}
	return out, nil
}

// UnknownSetError reports an unknown column set name.
type UnknownSetError struct {
	Name      string
	Available []string
}

func (e *UnknownSetError) Error() string {
	return "unknown column set: " + e.Name + "; available: " + strings.Join(e.Available, ", ")
}

// SetNames returns the known set names, sorted.
func SetNames() []string {
	keys := make([]string, 0, len(Sets))
	for k := range Sets {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
