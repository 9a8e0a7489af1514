package poller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/komsit37/fdash/pkg/fdash/events"
	"github.com/komsit37/fdash/pkg/fdash/market"
	"github.com/komsit37/fdash/pkg/fdash/types"
)

var (
	// ErrNotStarted is returned when the poller is used before Start.
	ErrNotStarted = errors.New("poller not started")
	// ErrAlreadyStarted is returned by Start while a previous Start is live.
	ErrAlreadyStarted = errors.New("poller already started")
)

// Sink receives the poller's outbound actions. Publish must not block and
// must not call back into the poller synchronously.
type Sink interface {
	Publish(a events.Action)
}

// SinkFunc is a function adapter for Sink.
type SinkFunc func(events.Action)

func (f SinkFunc) Publish(a events.Action) { f(a) }

// Config holds poller configuration.
type Config struct {
	Interval       time.Duration  // Poll interval (default: 1h)
	RequestTimeout time.Duration  // Per-fetch timeout (default: 30s)
	Symbols        []types.Symbol // Extracted symbols, in emission order
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Interval:       time.Hour,
		RequestTimeout: 30 * time.Second,
		Symbols:        types.TrackedSymbols(),
	}
}

// Stats reports poller activity.
type Stats struct {
	Generation uint64 // Triggers accepted so far
	Fetches    int64  // Fetches started
	Dropped    int64  // Ticks dropped because a fetch was in flight
	Failures   int64  // Fetches that ended in LoadedFailure
}

// Poller fetches market indicators on a timer and publishes the results.
type Poller struct {
	cfg    Config
	client market.Client
	sink   Sink
	logger *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu        sync.Mutex
	gen       uint64
	stopTimer context.CancelFunc

	deliverMu sync.Mutex
	inFlight  atomic.Bool

	fetches  atomic.Int64
	dropped  atomic.Int64
	failures atomic.Int64
}

// New creates a new Poller. Zero config fields take their defaults.
func New(cfg Config, client market.Client, sink Sink, logger *slog.Logger) *Poller {
	def := DefaultConfig()
	if cfg.Interval <= 0 {
		cfg.Interval = def.Interval
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = def.RequestTimeout
	}
	if len(cfg.Symbols) == 0 {
		cfg.Symbols = def.Symbols
	}
	if sink == nil {
		sink = SinkFunc(func(events.Action) {})
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Poller{
		cfg:    cfg,
		client: client,
		sink:   sink,
		logger: logger,
	}
}

// Start binds the poller to ctx. Polling begins on the first Trigger.
// A poller may be started again once Stop has returned.
func (p *Poller) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ctx != nil && p.ctx.Err() == nil {
		return ErrAlreadyStarted
	}
	p.ctx, p.cancel = context.WithCancel(ctx)
	p.logger.Info("price poller started",
		"interval", p.cfg.Interval,
		"request_timeout", p.cfg.RequestTimeout,
	)
	return nil
}

// Trigger is the "begin polling" signal. It replaces any running timer,
// fetches immediately unless a fetch is already in flight, and then
// fetches every Interval.
func (p *Poller) Trigger() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ctx == nil || p.ctx.Err() != nil {
		return ErrNotStarted
	}
	if p.stopTimer != nil {
		p.stopTimer()
	}
	p.gen++
	gen := p.gen
	tctx, cancel := context.WithCancel(p.ctx)
	p.stopTimer = cancel

	p.logger.Debug("polling triggered", "generation", gen)

	p.tick(tctx, gen)

	p.wg.Add(1)
	go p.run(tctx, gen)
	return nil
}

// Listen triggers the poller for every GetAPIPriceData action published on
// bus, until the poller stops.
func (p *Poller) Listen(bus *events.Bus) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ctx == nil || p.ctx.Err() != nil {
		return ErrNotStarted
	}
	sub := bus.Subscribe(events.TypeGetAPIPriceData)
	ctx := p.ctx

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		defer sub.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-sub.C():
				if !ok {
					return
				}
				if err := p.Trigger(); err != nil {
					return
				}
			}
		}
	}()
	return nil
}

// Stop cancels the timer and any in-flight fetch. Results arriving after
// Stop are discarded.
func (p *Poller) Stop(ctx context.Context) error {
	p.mu.Lock()
	p.deliverMu.Lock()
	if p.cancel != nil {
		p.cancel()
	}
	p.deliverMu.Unlock()
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.logger.Info("price poller stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stats returns current counters.
func (p *Poller) Stats() Stats {
	p.mu.Lock()
	gen := p.gen
	p.mu.Unlock()
	return Stats{
		Generation: gen,
		Fetches:    p.fetches.Load(),
		Dropped:    p.dropped.Load(),
		Failures:   p.failures.Load(),
	}
}

// run drives one trigger generation's timer.
func (p *Poller) run(ctx context.Context, gen uint64) {
	defer p.wg.Done()

	ticker := time.NewTicker(p.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.tick(ctx, gen)
		}
	}
}

// tick starts a fetch unless one is already in flight.
func (p *Poller) tick(ctx context.Context, gen uint64) {
	if !p.inFlight.CompareAndSwap(false, true) {
		p.dropped.Add(1)
		p.logger.Debug("fetch in flight, tick dropped", "generation", gen)
		return
	}
	// Checked after the claim: a failure cancels the timer before it
	// releases inFlight.
	if ctx.Err() != nil {
		p.inFlight.Store(false)
		return
	}
	p.fetches.Add(1)
	p.wg.Add(1)
	go p.fetch(gen)
}

// fetch runs one request. It is deliberately not tied to the generation's
// context: a newer trigger replaces the timer, not the request.
func (p *Poller) fetch(gen uint64) {
	defer p.wg.Done()
	defer p.inFlight.Store(false)

	ctx, cancel := context.WithTimeout(p.ctx, p.cfg.RequestTimeout)
	defer cancel()

	start := time.Now()
	data, err := p.safeFetch(ctx)

	if err != nil {
		p.fail(gen, err, time.Since(start))
		return
	}

	p.deliverMu.Lock()
	if p.ctx.Err() != nil {
		p.deliverMu.Unlock()
		p.logger.Debug("poller stopped, fetch result discarded", "generation", gen)
		return
	}
	records := p.extract(data)
	p.sink.Publish(events.NewBulkAddPriceData(records))
	p.deliverMu.Unlock()

	p.logger.Info("price fetch complete",
		"generation", gen,
		"symbols", len(records),
		"duration", time.Since(start),
	)
}

// safeFetch turns a panicking client into an ordinary error.
func (p *Poller) safeFetch(ctx context.Context) (data types.PriceDataByIndex, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("market client panic: %v", r)
		}
	}()
	return p.client.FetchTechnicalMarketIndicators(ctx)
}

// extract picks the configured symbols in order and tags each record.
// A symbol missing from the response yields a record carrying only its tag.
func (p *Poller) extract(data types.PriceDataByIndex) []types.PriceRecord {
	out := make([]types.PriceRecord, 0, len(p.cfg.Symbols))
	for _, sym := range p.cfg.Symbols {
		rec, ok := data[sym]
		if !ok {
			p.logger.Warn("symbol missing from response", "symbol", sym)
		}
		out = append(out, rec.Tagged(sym))
	}
	return out
}

// fail publishes a LoadedFailure and stops whichever timer is current, so
// nothing is fetched again until the next Trigger. Holding mu orders a
// concurrent Trigger entirely before or after the failure.
func (p *Poller) fail(gen uint64, err error, elapsed time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.deliverMu.Lock()
	defer p.deliverMu.Unlock()

	if p.ctx.Err() != nil {
		p.logger.Debug("poller stopped, fetch failure discarded", "generation", gen, "err", err)
		return
	}
	p.failures.Add(1)
	p.sink.Publish(events.NewLoadedFailure(err.Error()))
	if p.stopTimer != nil {
		p.stopTimer()
		p.stopTimer = nil
	}
	p.logger.Warn("price fetch failed, polling halted",
		"generation", gen,
		"current_generation", p.gen,
		"err", err,
		"duration", elapsed,
	)
}
