package main

import (
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/komsit37/fdash/pkg/fdash/filter"
	"github.com/komsit37/fdash/pkg/fdash/pipeline"
	"github.com/komsit37/fdash/pkg/fdash/source"
)

func newReportCmd(a *app) *cobra.Command {
	var (
		filterExpr string
		yearsExpr  string
		watch      time.Duration
	)
	cmd := &cobra.Command{
		Use:   "report <file|dir>",
		Short: "Reshape and render financial statements",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("requires exactly 1 file or directory argument")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			sel, err := filter.Parse(filterExpr)
			if err != nil {
				return err
			}
			years, err := filter.ParseYears(yearsExpr)
			if err != nil {
				return err
			}
			r, err := a.renderer()
			if err != nil {
				return err
			}
			ro := a.renderOptions()

			runner := &pipeline.Runner{
				Source:   source.YAMLSource{},
				Renderer: r,
				Writer:   a.out,
				Logger:   a.logger,
			}
			opts := pipeline.ExecuteOptions{
				Filter:      sel,
				Years:       years,
				Color:       ro.Color,
				PrettyJSON:  ro.PrettyJSON,
				MaxColWidth: ro.MaxColWidth,
				Decimals:    ro.Decimals,
				Compact:     ro.Compact,
			}
			if watch <= 0 {
				return runner.Execute(cmd.Context(), args[0], opts)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			ticker := time.NewTicker(watch)
			defer ticker.Stop()
			for {
				if err := runner.Execute(ctx, args[0], opts); err != nil {
					a.logger.Warn("report refresh failed", "path", args[0], "err", err)
				}
				select {
				case <-ctx.Done():
					return nil
				case <-ticker.C:
				}
			}
		},
	}

	fl := cmd.Flags()
	fl.StringVarP(&filterExpr, "filter", "f", "", "metric filter: names a,b, glob Rev*, /regex/ or substring, optionally @years")
	fl.StringVar(&yearsExpr, "years", "", "years of interest, e.g. 2021-2023,2025; defaults to the document's years")
	fl.DurationVar(&watch, "watch", 0, "re-render every interval until interrupted")
	fl.Int("decimals", 2, "decimals for report values")
	fl.Bool("compact", false, "abbreviate report values with K/M/B/T")
	_ = a.v.BindPFlag("render.decimals", fl.Lookup("decimals"))
	_ = a.v.BindPFlag("render.compact", fl.Lookup("compact"))
	return cmd
}
