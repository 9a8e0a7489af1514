package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/komsit37/fdash/pkg/fdash/config"
	"github.com/komsit37/fdash/pkg/fdash/render"
)

// app carries what every subcommand needs once flags are parsed.
type app struct {
	v      *viper.Viper
	cfg    *config.Config
	logger *slog.Logger
	out    io.Writer
	errOut io.Writer
}

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	a := &app{v: viper.New(), out: out, errOut: errOut}
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:          "fdash",
		Short:        "Financial statement reports, market prices and chart indicators",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.v, cfgFile)
			if err != nil {
				return err
			}
			logger, err := cfg.Log.NewLogger(a.errOut)
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.logger = logger
			slog.SetDefault(logger)
			return nil
		},
	}
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (YAML)")
	pf.String("format", config.DefaultFormat, "output format: table, json or syms")
	pf.Bool("color", true, "colorize table output")
	pf.Bool("pretty", false, "indent json output")
	pf.Int("max-col-width", config.DefaultMaxColWidth, "wrap table columns at this width")
	pf.String("log-level", config.DefaultLogLevel, "log level: debug, info, warn or error")
	pf.String("log-format", config.DefaultLogFormat, "log format: text or json")

	bind := map[string]string{
		"render.format":        "format",
		"render.color":         "color",
		"render.pretty_json":   "pretty",
		"render.max_col_width": "max-col-width",
		"log.level":            "log-level",
		"log.format":           "log-format",
	}
	for key, flag := range bind {
		_ = a.v.BindPFlag(key, pf.Lookup(flag))
	}

	rootCmd.AddCommand(newReportCmd(a), newPricesCmd(a), newIndicatorsCmd(a))
	return rootCmd
}

// renderer resolves the configured output format.
func (a *app) renderer() (render.Renderer, error) {
	r, ok := render.New(a.cfg.Render.Format)
	if !ok {
		return nil, fmt.Errorf("unknown format %q", a.cfg.Render.Format)
	}
	return r, nil
}

// renderOptions maps render config onto renderer options, capping the column
// width to the terminal.
func (a *app) renderOptions() render.RenderOptions {
	rc := a.cfg.Render
	maxWidth := rc.MaxColWidth
	if w := detectTerminalWidth(); w > 0 && maxWidth > w/2 {
		maxWidth = w / 2
	}
	return render.RenderOptions{
		Color:       rc.Color,
		PrettyJSON:  rc.PrettyJSON,
		MaxColWidth: maxWidth,
		Decimals:    rc.Decimals,
		Compact:     rc.Compact,
	}
}
