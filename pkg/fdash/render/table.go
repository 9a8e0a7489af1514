package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/komsit37/fdash/pkg/fdash/columns"
	"github.com/komsit37/fdash/pkg/fdash/format"
	"github.com/komsit37/fdash/pkg/fdash/reshape"
	"github.com/komsit37/fdash/pkg/fdash/types"
)

type TableRenderer struct{}

func NewTableRenderer() *TableRenderer { return &TableRenderer{} }

func (r *TableRenderer) RenderReport(w io.Writer, reports []Report, opts RenderOptions) error {
	multi := len(reports) > 1
	for ri, rep := range reports {
		cols := rep.Table.Columns

		// Print report name as a standalone line spanning full width
		if multi && strings.TrimSpace(rep.Name) != "" {
			fmt.Fprintln(w, text.Bold.Sprint(strings.ToUpper(rep.Name)))
		}

		tw := newWriter(w, opts)

		hdr := make(table.Row, len(cols))
		for i, c := range cols {
			hdr[i] = columns.Header(c, rep.Years)
		}
		tw.AppendHeader(hdr)

		cfgs := make([]table.ColumnConfig, 0, len(cols))
		for i, c := range cols {
			cfg := table.ColumnConfig{Number: i + 1, WidthMax: maxWidth(opts)}
			if c != reshape.TitleColumn {
				cfg.Align = text.AlignRight
				cfg.AlignHeader = text.AlignRight
			}
			cfgs = append(cfgs, cfg)
		}
		if len(cfgs) > 0 {
			tw.SetColumnConfigs(cfgs)
		}

		for _, row := range rep.Table.Rows {
			out := make(table.Row, len(cols))
			for i, c := range cols {
				v, ok := row.Field(c)
				if !ok {
					out[i] = ""
					continue
				}
				f, isNum := v.(float64)
				if !isNum {
					out[i] = fmt.Sprint(v)
					continue
				}
				s := formatValue(f, opts)
				if opts.Color && f < 0 {
					s = text.Colors{text.FgRed}.Sprintf("%s", s)
				}
				out[i] = s
			}
			tw.AppendRow(out)
		}

		tw.Render()
		if ri < len(reports)-1 {
			// blank line between tables
			fmt.Fprintln(w)
		}
	}
	return nil
}

func (r *TableRenderer) RenderPrices(w io.Writer, records []types.PriceRecord, opts RenderOptions) error {
	cols := columns.Compute(opts.Columns)
	tw := newWriter(w, opts)

	hdr := make(table.Row, len(cols))
	for i, c := range cols {
		hdr[i] = strings.ToUpper(c)
	}
	tw.AppendHeader(hdr)

	cfgs := make([]table.ColumnConfig, 0, len(cols))
	for i, c := range cols {
		cfg := table.ColumnConfig{Number: i + 1, WidthMax: maxWidth(opts)}
		if c != "sym" && c != "name" {
			cfg.Align = text.AlignRight
			cfg.AlignHeader = text.AlignRight
		}
		cfgs = append(cfgs, cfg)
	}
	if len(cfgs) > 0 {
		tw.SetColumnConfigs(cfgs)
	}

	for _, rec := range records {
		chg, hasChg := rec.ChangePercent()
		row := make(table.Row, len(cols))
		for i, c := range cols {
			val := columns.RenderValue(c, rec)
			// Colorize price and chg% by the change sign
			if opts.Color && hasChg && columns.IsChange(c) {
				if chg > 0 {
					val = text.Colors{text.FgGreen}.Sprintf("%s", val)
				} else if chg < 0 {
					val = text.Colors{text.FgRed}.Sprintf("%s", val)
				}
			}
			row[i] = val
		}
		tw.AppendRow(row)
	}

	tw.Render()
	return nil
}

func newWriter(w io.Writer, opts RenderOptions) table.Writer {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	if opts.Color {
		tw.SetStyle(table.StyleColoredDark)
	} else {
		tw.SetStyle(table.StyleLight)
	}
	tw.Style().Options.DrawBorder = false
	tw.Style().Options.SeparateRows = false
	tw.Style().Options.SeparateColumns = false
	return tw
}

// maxWidth wraps text to MaxColWidth (default 40), no truncation.
func maxWidth(opts RenderOptions) int {
	if opts.MaxColWidth <= 0 {
		return 40
	}
	return opts.MaxColWidth
}

func formatValue(v float64, opts RenderOptions) string {
	if opts.Compact {
		return format.Compact(v)
	}
	return format.Number(v, opts.Decimals)
}
