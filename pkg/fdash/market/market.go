// Package market fetches technical market indicators for the tracked
// indices, either from Yahoo Finance directly or from a dashboard back end.
package market

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/komsit37/fdash/pkg/fdash/types"
)

// Client fetches one snapshot per tracked symbol.
type Client interface {
	FetchTechnicalMarketIndicators(ctx context.Context) (types.PriceDataByIndex, error)
}

// Quoter fetches a single provider ticker.
type Quoter interface {
	Quote(ctx context.Context, ticker string) (types.PriceRecord, error)
}

// DefaultAliases maps dashboard symbols to Yahoo tickers where they differ.
var DefaultAliases = map[types.Symbol]string{
	types.SymbolUS10Y: "^TNX",
}

// QuoteClient implements Client by quoting each symbol through a Quoter.
type QuoteClient struct {
	quoter  Quoter
	symbols []types.Symbol
	aliases map[types.Symbol]string
	timeout time.Duration
	logger  *slog.Logger
}

// QuoteOption configures a QuoteClient.
type QuoteOption func(*QuoteClient)

// WithSymbols overrides the tracked symbols.
func WithSymbols(symbols ...types.Symbol) QuoteOption {
	return func(c *QuoteClient) {
		c.symbols = append([]types.Symbol(nil), symbols...)
	}
}

// WithAliases overrides the symbol to ticker mapping.
func WithAliases(aliases map[types.Symbol]string) QuoteOption {
	return func(c *QuoteClient) {
		c.aliases = aliases
	}
}

// WithQuoteTimeout bounds each symbol's request.
func WithQuoteTimeout(d time.Duration) QuoteOption {
	return func(c *QuoteClient) {
		c.timeout = d
	}
}

// WithQuoteLogger sets the logger.
func WithQuoteLogger(logger *slog.Logger) QuoteOption {
	return func(c *QuoteClient) {
		c.logger = logger
	}
}

// NewQuoteClient creates a client over q.
func NewQuoteClient(q Quoter, opts ...QuoteOption) *QuoteClient {
	c := &QuoteClient{
		quoter:  q,
		symbols: types.TrackedSymbols(),
		aliases: DefaultAliases,
		timeout: 10 * time.Second,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Ticker returns the provider ticker for sym.
func (c *QuoteClient) Ticker(sym types.Symbol) string {
	if t, ok := c.aliases[sym]; ok && t != "" {
		return t
	}
	return string(sym)
}

// FetchTechnicalMarketIndicators quotes all symbols concurrently. Any
// symbol failure fails the whole fetch.
func (c *QuoteClient) FetchTechnicalMarketIndicators(ctx context.Context) (types.PriceDataByIndex, error) {
	var mu sync.Mutex
	out := make(types.PriceDataByIndex, len(c.symbols))

	g, gctx := errgroup.WithContext(ctx)
	for _, sym := range c.symbols {
		sym := sym
		g.Go(func() error {
			qctx, cancel := context.WithTimeout(gctx, c.timeout)
			defer cancel()

			ticker := c.Ticker(sym)
			rec, err := c.quoter.Quote(qctx, ticker)
			if err != nil {
				return fmt.Errorf("quote %s (%s): %w", sym, ticker, err)
			}
			mu.Lock()
			out[sym] = rec.Tagged(sym)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	c.logger.Debug("fetched market indicators", "symbols", len(out))
	return out, nil
}
