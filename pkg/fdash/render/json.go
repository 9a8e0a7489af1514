package render

import (
	"encoding/json"
	"io"

	"github.com/komsit37/fdash/pkg/fdash/types"
)

// jsonReport is the output shape for JSONRenderer.
type jsonReport struct {
	Name    string           `json:"name"`
	Years   []int            `json:"years"`
	Columns []string         `json:"columns"`
	Rows    []map[string]any `json:"rows"`
}

type JSONRenderer struct{}

func NewJSONRenderer() *JSONRenderer { return &JSONRenderer{} }

func (r *JSONRenderer) RenderReport(w io.Writer, reports []Report, opts RenderOptions) error {
	out := make([]jsonReport, 0, len(reports))
	for _, rep := range reports {
		rows := make([]map[string]any, 0, len(rep.Table.Rows))
		for _, row := range rep.Table.Rows {
			rows = append(rows, row.Record())
		}
		years := rep.Years
		if years == nil {
			years = []int{}
		}
		out = append(out, jsonReport{Name: rep.Name, Years: years, Columns: rep.Table.Columns, Rows: rows})
	}
	return encode(w, out, opts)
}

func (r *JSONRenderer) RenderPrices(w io.Writer, records []types.PriceRecord, opts RenderOptions) error {
	if records == nil {
		records = []types.PriceRecord{}
	}
	return encode(w, records, opts)
}

func encode(w io.Writer, v any, opts RenderOptions) error {
	enc := json.NewEncoder(w)
	if opts.PrettyJSON {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}
