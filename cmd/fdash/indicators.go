package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/komsit37/fdash/pkg/fdash/indicator"
)

func newIndicatorsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "indicators [layout.yaml]",
		Short: "List chart indicators with their descriptions",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inds := indicator.Defaults()
			if len(args) == 1 {
				data, err := os.ReadFile(args[0])
				if err != nil {
					return fmt.Errorf("read %s: %w", args[0], err)
				}
				if inds, err = indicator.ParseLayout(data); err != nil {
					return fmt.Errorf("parse %s: %w", args[0], err)
				}
			}

			switch a.cfg.Render.Format {
			case "json":
				return writeIndicatorsJSON(a, inds)
			case "syms":
				names := make([]string, 0, len(inds))
				for _, ind := range inds {
					names = append(names, ind.Name())
				}
				_, err := fmt.Fprintln(a.out, strings.Join(names, ","))
				return err
			}

			tw := table.NewWriter()
			tw.SetOutputMirror(a.out)
			if a.cfg.Render.Color {
				tw.SetStyle(table.StyleColoredDark)
			} else {
				tw.SetStyle(table.StyleLight)
			}
			tw.Style().Options.DrawBorder = false
			tw.Style().Options.SeparateRows = false
			tw.Style().Options.SeparateColumns = false
			tw.AppendHeader(table.Row{"NAME", "KIND", "COLOR", "ON CHART", "DESCRIPTION"})
			for _, ind := range inds {
				tw.AppendRow(table.Row{
					ind.Name(),
					ind.Config().Get("indicator"),
					ind.Color(),
					ind.OnChart(),
					ind.Description(),
				})
			}
			tw.Render()
			return nil
		},
	}
}

type indicatorJSON struct {
	Name        string         `json:"name"`
	Color       string         `json:"color,omitempty"`
	OnChart     bool           `json:"on_chart"`
	Description string         `json:"description"`
	Config      map[string]any `json:"config"`
}

func writeIndicatorsJSON(a *app, inds []indicator.Indicator) error {
	out := make([]indicatorJSON, 0, len(inds))
	for _, ind := range inds {
		out = append(out, indicatorJSON{
			Name:        ind.Name(),
			Color:       ind.Color(),
			OnChart:     ind.OnChart(),
			Description: ind.Description(),
			Config:      ind.Config(),
		})
	}
	enc := json.NewEncoder(a.out)
	if a.cfg.Render.PrettyJSON {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(out)
}
