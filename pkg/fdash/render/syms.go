package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/komsit37/fdash/pkg/fdash/types"
)

// symsRenderer prints titles or symbols in a single comma-separated line.
type symsRenderer struct{}

func NewSymsRenderer() Renderer {
	return symsRenderer{}
}

func (symsRenderer) RenderReport(w io.Writer, reports []Report, _ RenderOptions) error {
	titles := make([]string, 0)
	for _, rep := range reports {
		for _, row := range rep.Table.Rows {
			title := strings.TrimSpace(row.Title)
			if title == "" {
				continue
			}
			titles = append(titles, title)
		}
	}
	_, err := fmt.Fprintln(w, strings.Join(titles, ","))
	return err
}

func (symsRenderer) RenderPrices(w io.Writer, records []types.PriceRecord, _ RenderOptions) error {
	symbols := make([]string, 0, len(records))
	for _, rec := range records {
		if rec.Symbol == "" {
			continue
		}
		symbols = append(symbols, string(rec.Symbol))
	}
	_, err := fmt.Fprintln(w, strings.Join(symbols, ","))
	return err
}
