package updater

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"tuimarket/internal/market"
	"tuimarket/internal/store"
	"tuimarket/internal/watchlist"
)

type Config struct {
	// RefreshInterval separates the end of one pass from the start of the next.
	RefreshInterval time.Duration
	// PacingBudget is split evenly between the symbols of a pass.
	PacingBudget time.Duration
	// MaxPacing caps the per-symbol delay; zero means no cap.
	MaxPacing time.Duration
	// InitialDelay replaces RefreshInterval after the first pass.
	InitialDelay time.Duration
}

type Limiter interface {
	Wait(ctx context.Context) error
}

type Journal interface {
	InsertQuote(q store.QuoteRecord) error
}

type Stats struct {
	Passes       int
	LastPass     time.Time
	LastUpdated  int
	LastFailed   int
	FailedPasses int
}

// Updater refreshes every record of a watchlist.Store in the background. It is
// the store's only writer.
type Updater struct {
	cfg      Config
	symbols  *watchlist.Store
	provider market.QuoteProvider
	limiter  Limiter
	journal  Journal
	logger   *zap.Logger

	mu    sync.Mutex
	stats Stats
}

type Option func(*Updater)

func WithLimiter(l Limiter) Option {
	return func(u *Updater) { u.limiter = l }
}

func WithJournal(j Journal) Option {
	return func(u *Updater) { u.journal = j }
}

func WithLogger(l *zap.Logger) Option {
	return func(u *Updater) {
		if l != nil {
			u.logger = l
		}
	}
}

func New(cfg Config, symbols *watchlist.Store, provider market.QuoteProvider, opts ...Option) *Updater {
	if cfg.RefreshInterval <= 0 {
		cfg.RefreshInterval = 30 * time.Second
	}
	if cfg.PacingBudget < 0 {
		cfg.PacingBudget = 0
	}
	if cfg.InitialDelay < 0 {
		cfg.InitialDelay = 0
	}
	u := &Updater{
		cfg:      cfg,
		symbols:  symbols,
		provider: provider,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Run refreshes the store until ctx is cancelled and then returns ctx.Err().
// Fetch and parse failures only leave stale data behind.
func (u *Updater) Run(ctx context.Context) error {
	u.logger.Info("updater started",
		zap.Int("symbols", u.symbols.Len()),
		zap.Duration("refresh_interval", u.cfg.RefreshInterval),
		zap.Duration("pacing", u.pacing(u.symbols.Len())),
	)
	first := true
	for {
		updated, failed := u.Pass(ctx)
		if ctx.Err() != nil {
			break
		}
		wait := u.recordPass(updated, failed)
		if first {
			wait = u.cfg.InitialDelay
			first = false
		}
		if !sleep(ctx, wait) {
			break
		}
	}
	u.logger.Info("updater stopped")
	return ctx.Err()
}

// Pass fetches every symbol once, in store order, and reports how many
// records were updated and how many fetches failed. It stops early when ctx
// is cancelled.
func (u *Updater) Pass(ctx context.Context) (updated, failed int) {
	n := u.symbols.Len()
	pacing := u.pacing(n)
	for i := 0; i < n; i++ {
		if i > 0 && !sleep(ctx, pacing) {
			return updated, failed
		}
		if u.limiter != nil {
			if err := u.limiter.Wait(ctx); err != nil {
				return updated, failed
			}
		}
		symbol := u.symbols.Get(i).Symbol
		q, err := u.provider.Quote(ctx, symbol)
		if ctx.Err() != nil {
			return updated, failed
		}
		if err != nil {
			failed++
			u.logger.Debug("quote refresh failed", zap.String("symbol", symbol), zap.Error(err))
			continue
		}
		u.symbols.Update(i, q.Name, q.Price, q.PreviousClose)
		updated++
		u.record(symbol, q)
	}
	return updated, failed
}

func (u *Updater) record(symbol string, q market.Quote) {
	if u.journal == nil {
		return
	}
	err := u.journal.InsertQuote(store.QuoteRecord{
		TS:            q.TS,
		Symbol:        symbol,
		Name:          q.Name,
		Price:         q.Price,
		PreviousClose: q.PreviousClose,
	})
	if err != nil {
		u.logger.Warn("journal insert failed", zap.String("symbol", symbol), zap.Error(err))
	}
}

func (u *Updater) Stats() Stats {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.stats
}

// recordPass updates the stats and returns the wait before the next pass,
// backing off while whole passes keep failing.
func (u *Updater) recordPass(updated, failed int) time.Duration {
	u.mu.Lock()
	u.stats.Passes++
	u.stats.LastPass = time.Now()
	u.stats.LastUpdated = updated
	u.stats.LastFailed = failed
	if updated == 0 && failed > 0 {
		u.stats.FailedPasses++
	} else {
		u.stats.FailedPasses = 0
	}
	failures := u.stats.FailedPasses
	u.mu.Unlock()

	if failures > 0 {
		u.logger.Warn("refresh pass failed", zap.Int("failed", failed), zap.Int("consecutive", failures))
	} else {
		u.logger.Debug("refresh pass done", zap.Int("updated", updated), zap.Int("failed", failed))
	}
	return nextInterval(u.cfg.RefreshInterval, failures)
}

func nextInterval(base time.Duration, failedPasses int) time.Duration {
	if failedPasses >= 6 {
		return base * 4
	}
	if failedPasses >= 3 {
		return base * 2
	}
	return base
}

func (u *Updater) pacing(n int) time.Duration {
	if n <= 1 || u.cfg.PacingBudget <= 0 {
		return 0
	}
	d := u.cfg.PacingBudget / time.Duration(n)
	if u.cfg.MaxPacing > 0 && d > u.cfg.MaxPacing {
		d = u.cfg.MaxPacing
	}
	return d
}

// sleep waits for d and reports false if ctx was cancelled first.
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
