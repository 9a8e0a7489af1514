package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/komsit37/fdash/pkg/fdash/columns"
	"github.com/komsit37/fdash/pkg/fdash/config"
	"github.com/komsit37/fdash/pkg/fdash/events"
	"github.com/komsit37/fdash/pkg/fdash/market"
	"github.com/komsit37/fdash/pkg/fdash/poller"
)

// errDone ends the event loop after --once.
var errDone = errors.New("done")

const shutdownTimeout = 5 * time.Second

func newPricesCmd(a *app) *cobra.Command {
	var (
		once    bool
		colSets []string
		cols    []string
	)
	cmd := &cobra.Command{
		Use:   "prices",
		Short: "Poll market indicators and print each batch",
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := a.renderer()
			if err != nil {
				return err
			}
			opts := a.renderOptions()
			fromSets, err := columns.ExpandSets(colSets)
			if err != nil {
				return err
			}
			opts.Columns = columns.Compute(append(fromSets, cols...))

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			bus := events.NewBus(a.logger)
			defer bus.Close()
			sub := bus.Subscribe(events.TypeBulkAddPriceData, events.TypeLoadedFailure)
			defer sub.Close()

			p := poller.New(poller.Config{
				Interval:       a.cfg.Poll.Interval,
				RequestTimeout: a.cfg.Poll.RequestTimeout,
			}, newMarketClient(a.cfg, a.logger), bus, a.logger)

			g, gctx := errgroup.WithContext(ctx)
			if err := p.Start(gctx); err != nil {
				return err
			}
			if err := p.Listen(bus); err != nil {
				return err
			}

			g.Go(func() error {
				for {
					select {
					case <-gctx.Done():
						return nil
					case act, ok := <-sub.C():
						if !ok {
							return nil
						}
						switch ev := act.(type) {
						case events.BulkAddPriceData:
							if err := r.RenderPrices(a.out, ev.PriceData, opts); err != nil {
								return err
							}
						case events.LoadedFailure:
							fmt.Fprintf(a.errOut, "price load failed: %s\n", ev.ErrorMsg)
							if once {
								return fmt.Errorf("price load failed: %s", ev.ErrorMsg)
							}
							a.logger.Info("polling halted until next trigger")
						}
						if once {
							return errDone
						}
					}
				}
			})
			g.Go(func() error {
				<-gctx.Done()
				sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				return p.Stop(sctx)
			})

			bus.Publish(events.NewGetAPIPriceData())

			if err := g.Wait(); err != nil && !errors.Is(err, errDone) {
				return err
			}
			return nil
		},
	}

	fl := cmd.Flags()
	fl.BoolVar(&once, "once", false, "exit after the first batch")
	fl.StringSliceVar(&colSets, "set", nil, "column sets: "+strings.Join(columns.SetNames(), ", "))
	fl.StringSliceVarP(&cols, "columns", "c", nil, "explicit columns, appended after sets")
	fl.Duration("interval", config.DefaultPollInterval, "poll interval")
	_ = a.v.BindPFlag("poll.interval", fl.Lookup("interval"))
	return cmd
}

// newMarketClient builds the configured provider.
func newMarketClient(cfg *config.Config, logger *slog.Logger) market.Client {
	mc := cfg.Market
	if mc.Provider == "http" {
		opts := []market.HTTPOption{
			market.WithTimeout(cfg.Poll.RequestTimeout),
			market.WithRetries(mc.Retries, time.Second),
			market.WithLogger(logger),
		}
		if mc.Path != "" {
			opts = append(opts, market.WithPath(mc.Path))
		}
		return market.NewHTTPClient(mc.BaseURL, mc.Token, opts...)
	}
	var q market.Quoter = market.NewYahooQuoter()
	if mc.CacheTTL > 0 {
		q = market.NewCacheQuoter(q, mc.CacheTTL, mc.CacheSize)
	}
	return market.NewQuoteClient(q,
		market.WithAliases(mc.SymbolAliases()),
		market.WithQuoteTimeout(cfg.Poll.RequestTimeout),
		market.WithQuoteLogger(logger),
	)
}
