package reshape

import (
	"sync"

	"github.com/komsit37/fdash/pkg/fdash/types"
)

// Report holds the latest inputs of a financial report view and the table
// derived from them. It is safe for concurrent use.
type Report struct {
	mu    sync.RWMutex
	years []int
	table Table
}

// NewReport returns a report with an empty table.
func NewReport() *Report {
	return &Report{table: Table{Rows: []Row{}, Columns: Columns(nil)}}
}

// Update records new inputs. The table is rebuilt from scratch when
// financials is non-nil; a nil financials keeps the previous table, so a
// years-only change does not resize the columns until data arrives.
func (r *Report) Update(financials types.FinancialsTable, years []int) Table {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.years = append([]int(nil), years...)
	if financials != nil {
		r.table = Reshape(financials, r.years)
	}
	return r.table
}

// Table returns the current table.
func (r *Report) Table() Table {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.table
}

// Years returns the years of interest last supplied.
func (r *Report) Years() []int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]int(nil), r.years...)
}
