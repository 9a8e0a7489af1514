// Package filter selects the metrics of a financials table by title and by
// the years they report.
package filter

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/komsit37/fdash/pkg/fdash/types"
)

// maxYearSpan bounds a single "from-to" range.
const maxYearSpan = 500

// Selector picks metrics from a financials table. A nil Selector keeps every
// metric.
type Selector struct {
	expr  string
	names []string          // exact titles in output order, nil unless a list was given
	title func(string) bool // nil matches every title
	years []int
}

// Parse compiles a selection expression of the form "titles@years". Either
// part may be omitted.
//
// Titles:
//
//	Revenue,Net Income     exact titles, emitted in the listed order
//	/^(Revenue|EBITDA)$/   regular expression
//	Operating*             case-insensitive glob with *, ? and [...]
//	income                 case-insensitive substring
//
// Years use the ParseYears form, e.g. "EBITDA@2022-2023". A metric is kept
// only if it reports a value for each listed year.
func Parse(expr string) (*Selector, error) {
	s := &Selector{expr: strings.TrimSpace(expr)}
	titles := s.expr
	if at := strings.LastIndexByte(titles, '@'); at >= 0 && !strings.Contains(titles[at+1:], "/") {
		years, err := ParseYears(titles[at+1:])
		if err != nil {
			return nil, fmt.Errorf("parse filter %q: %w", expr, err)
		}
		if len(years) == 0 {
			return nil, fmt.Errorf("parse filter %q: empty year clause", expr)
		}
		titles, s.years = strings.TrimSpace(titles[:at]), years
	}
	if err := s.compileTitles(titles); err != nil {
		return nil, fmt.Errorf("parse filter %q: %w", expr, err)
	}
	return s, nil
}

func (s *Selector) compileTitles(expr string) error {
	switch {
	case expr == "":
	case len(expr) > 2 && strings.HasPrefix(expr, "/") && strings.HasSuffix(expr, "/"):
		re, err := regexp.Compile(expr[1 : len(expr)-1])
		if err != nil {
			return err
		}
		s.title = re.MatchString
	case strings.Contains(expr, ","):
		seen := map[string]bool{}
		s.names = []string{}
		for _, name := range strings.Split(expr, ",") {
			name = strings.TrimSpace(name)
			if name == "" || seen[name] {
				continue
			}
			seen[name] = true
			s.names = append(s.names, name)
		}
		s.title = func(title string) bool { return seen[title] }
	case strings.ContainsAny(expr, "*?["):
		re, err := compileGlob(expr)
		if err != nil {
			return err
		}
		s.title = re.MatchString
	default:
		needle := strings.ToLower(expr)
		s.title = func(title string) bool {
			return strings.Contains(strings.ToLower(title), needle)
		}
	}
	return nil
}

// Match reports whether m passes both the title and the year clause.
func (s *Selector) Match(m types.Metric) bool {
	if s == nil {
		return true
	}
	if s.title != nil && !s.title(m.Title) {
		return false
	}
	for _, y := range s.years {
		if _, ok := m.Values[y]; !ok {
			return false
		}
	}
	return true
}

// Apply returns the selected metrics. An exact title list comes out in the
// listed order; every other form keeps table order.
func (s *Selector) Apply(t types.FinancialsTable) types.FinancialsTable {
	if s == nil {
		return t
	}
	out := make(types.FinancialsTable, 0, len(t))
	if s.names != nil {
		for _, name := range s.names {
			values, ok := t.Lookup(name)
			m := types.Metric{Title: name, Values: values}
			if ok && s.Match(m) {
				out = append(out, m)
			}
		}
		return out
	}
	for _, m := range t {
		if s.Match(m) {
			out = append(out, m)
		}
	}
	return out
}

// Years returns the year clause, or nil.
func (s *Selector) Years() []int {
	if s == nil {
		return nil
	}
	return append([]int(nil), s.years...)
}

func (s *Selector) String() string {
	if s == nil {
		return ""
	}
	return s.expr
}

// ParseYears parses a comma list of years and inclusive ranges such as
// "2021,2023-2025". The result is ascending without duplicates.
func ParseYears(expr string) ([]int, error) {
	set := map[int]bool{}
	for _, part := range strings.Split(expr, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		lo, hi, isRange := strings.Cut(part, "-")
		from, err := strconv.Atoi(strings.TrimSpace(lo))
		if err != nil {
			return nil, fmt.Errorf("year %q: not an integer", part)
		}
		to := from
		if isRange {
			if to, err = strconv.Atoi(strings.TrimSpace(hi)); err != nil {
				return nil, fmt.Errorf("year %q: not an integer", part)
			}
			if to < from {
				return nil, fmt.Errorf("year range %q: end before start", part)
			}
			if to-from > maxYearSpan {
				return nil, fmt.Errorf("year range %q: spans more than %d years", part, maxYearSpan)
			}
		}
		for y := from; y <= to; y++ {
			set[y] = true
		}
	}
	years := make([]int, 0, len(set))
	for y := range set {
		years = append(years, y)
	}
	sort.Ints(years)
	return years, nil
}

// compileGlob turns a title glob into an anchored, case-insensitive regexp.
// "*" matches any run of characters, "/" included.
func compileGlob(glob string) (*regexp.Regexp, error) {
	var b strings.Builder
	b.WriteString("(?i)^")
	runes := []rune(glob)
	for i := 0; i < len(runes); i++ {
		switch r := runes[i]; r {
		case '*':
			b.WriteString(".*")
		case '?':
			b.WriteString(".")
		case '[':
			end := -1
			for j := i + 1; j < len(runes); j++ {
				if runes[j] == ']' {
					end = j
					break
				}
			}
			if end < 0 {
				return nil, fmt.Errorf("glob %q: unterminated [", glob)
			}
			class := string(runes[i+1 : end])
			if strings.HasPrefix(class, "!") {
				class = "^" + class[1:]
			}
			b.WriteString("[" + class + "]")
			i = end
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	b.WriteString("$")
	return regexp.Compile(b.String())
}
