package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/komsit37/fdash/pkg/fdash/filter"
	"github.com/komsit37/fdash/pkg/fdash/render"
	"github.com/komsit37/fdash/pkg/fdash/reshape"
	"github.com/komsit37/fdash/pkg/fdash/source"
	"github.com/komsit37/fdash/pkg/fdash/types"
)

// Runner keeps one reshape.Report per document name across Execute calls. A
// Runner is not safe for concurrent use.
type Runner struct {
	Source   source.Source
	Renderer render.Renderer
	Writer   io.Writer
	Logger   *slog.Logger

	reports map[string]*reshape.Report
}

type ExecuteOptions struct {
	Filter      *filter.Selector
	Years       []int // overrides each document's years when set
	Color       bool
	PrettyJSON  bool
	MaxColWidth int
	Decimals    int
	Compact     bool
}

// Execute loads, filters, reshapes and renders the documents named by spec.
func (r *Runner) Execute(ctx context.Context, spec any, opts ExecuteOptions) error {
	docs, err := r.Source.Load(ctx, spec)
	if err != nil {
		return fmt.Errorf("load %v: %w", spec, err)
	}

	reports := make([]render.Report, 0, len(docs))
	if r.reports == nil {
		r.reports = map[string]*reshape.Report{}
	}
	for _, doc := range docs {
		rep, seen := r.reports[doc.Name]
		if !seen {
			rep = reshape.NewReport()
			r.reports[doc.Name] = rep
		}
		reports = append(reports, build(rep, seen, doc, opts))
	}
	r.logger().Debug("reports built", "documents", len(docs))

	return r.Renderer.RenderReport(r.Writer, reports, render.RenderOptions{
		Color:       opts.Color,
		PrettyJSON:  opts.PrettyJSON,
		MaxColWidth: opts.MaxColWidth,
		Decimals:    opts.Decimals,
		Compact:     opts.Compact,
	})
}

// Build filters and reshapes one document into a fresh report.
func Build(doc types.Document, opts ExecuteOptions) render.Report {
	return build(reshape.NewReport(), false, doc, opts)
}

// build feeds doc into rep. A document without financials keeps the table
// rep already holds; on first sight it renders as an empty table.
func build(rep *reshape.Report, seen bool, doc types.Document, opts ExecuteOptions) render.Report {
	years := doc.Years
	if len(opts.Years) > 0 {
		years = opts.Years
	}
	var financials types.FinancialsTable
	switch {
	case doc.Financials != nil:
		financials = opts.Filter.Apply(doc.Financials)
	case !seen:
		financials = types.FinancialsTable{}
	}
	return render.Report{
		Name:  doc.Name,
		Years: years,
		Table: rep.Update(financials, years),
	}
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.Default()
	}
	return r.Logger
}
