package render

import (
	"io"

	"github.com/komsit37/fdash/pkg/fdash/reshape"
	"github.com/komsit37/fdash/pkg/fdash/types"
)

// Report is one reshaped document ready for display.
type Report struct {
	Name  string
	Years []int
	Table reshape.Table
}

// Renderer renders reports and price batches to an output writer.
type Renderer interface {
	RenderReport(w io.Writer, reports []Report, opts RenderOptions) error
	RenderPrices(w io.Writer, records []types.PriceRecord, opts RenderOptions) error
}

type RenderOptions struct {
	Columns     []string // price columns; empty means the defaults
	Color       bool
	PrettyJSON  bool
	MaxColWidth int
	Decimals    int
	Compact     bool // K/M/B/T suffixes for report values
}

// New returns the renderer for a format name: table, json or syms.
func New(format string) (Renderer, bool) {
	switch format {
	case "", "table":
		return NewTableRenderer(), true
	case "json":
		return NewJSONRenderer(), true
	case "syms":
		return NewSymsRenderer(), true
	}
	return nil, false
}
