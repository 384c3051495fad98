package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"tuimarket/internal/config"
	"tuimarket/internal/market"
	"tuimarket/internal/ratelimit"
	"tuimarket/internal/store"
	"tuimarket/internal/transport"
	"tuimarket/internal/ui"
	"tuimarket/internal/updater"
	"tuimarket/internal/watchlist"
)

var ErrTerminal = errors.New("terminal unavailable")

// Deps wires the dashboard. Nil factories fall back to the real terminal and
// transport.
type Deps struct {
	Config      *config.Config
	SymbolsPath string
	Logger      *zap.Logger
	NewTerminal func() (ui.Terminal, error)
	NewFetcher  func(transport.Config) (transport.Fetcher, error)
}

func (d *Deps) defaults() {
	if d.Config == nil {
		cfg := config.Default()
		d.Config = &cfg
	}
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.NewTerminal == nil {
		d.NewTerminal = func() (ui.Terminal, error) { return ui.NewTcellTerminal() }
	}
	if d.NewFetcher == nil {
		d.NewFetcher = transport.New
	}
}

// Run brings the dashboard up, blocks until the user quits or ctx is
// cancelled, and tears everything down in reverse order. Errors returned
// before the UI starts are fatal startup errors.
func Run(ctx context.Context, d Deps) error {
	d.defaults()
	cfg, logger := d.Config, d.Logger

	var (
		fetcher transport.Fetcher
		journal *store.Store
		term    ui.Terminal
	)
	defer func() {
		if term != nil {
			closeLogged(logger, "terminal", term.Close)
		}
		if fetcher != nil {
			closeLogged(logger, "transport", fetcher.Close)
		}
		if journal != nil {
			closeLogged(logger, "journal", journal.Close)
		}
	}()

	f, err := d.NewFetcher(transport.Config{
		Backend:   cfg.Transport.Backend,
		Timeout:   time.Duration(cfg.Transport.TimeoutMs) * time.Millisecond,
		UserAgent: cfg.Transport.UserAgent,
	})
	if err != nil {
		return fmt.Errorf("init transport: %w", err)
	}
	fetcher = f

	path, err := watchlist.Locate(d.SymbolsPath)
	if err != nil {
		return err
	}
	symbols, err := watchlist.LoadFile(path)
	if err != nil {
		return err
	}
	logger.Info("symbols loaded", zap.String("path", path), zap.Strings("symbols", symbols.Symbols()))

	if p := cfg.Store.Sqlite.Path; p != "" {
		j, err := store.Open(p)
		if err != nil {
			logger.Warn("quote journal disabled", zap.String("path", p), zap.Error(err))
		} else {
			journal = j
			logger.Info("quote journal opened", zap.String("path", p), zap.String("session", j.Session()))
		}
	}

	t, err := d.NewTerminal()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTerminal, err)
	}
	term = t

	provider := market.NewYahooProvider(fetcher, cfg.Market.URLTemplate, cfg.Market.Fields)
	opts := []updater.Option{
		updater.WithLogger(logger.Named("updater")),
		updater.WithLimiter(ratelimit.NewTokenBucket(cfg.Updater.RateLimit.PerMinute, cfg.Updater.RateLimit.Burst)),
	}
	if journal != nil {
		opts = append(opts, updater.WithJournal(journal))
	}
	upd := updater.New(updater.Config{
		RefreshInterval: time.Duration(cfg.Updater.RefreshIntervalSec) * time.Second,
		PacingBudget:    time.Duration(cfg.Updater.PacingBudgetMs) * time.Millisecond,
		MaxPacing:       time.Duration(cfg.Updater.MaxPacingMs) * time.Millisecond,
		InitialDelay:    time.Duration(cfg.Updater.InitialDelayMs) * time.Millisecond,
	}, symbols, provider, opts...)

	updCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = upd.Run(updCtx)
	}()

	view := ui.NewView(ui.Config{
		RefreshTimeout: time.Duration(cfg.UI.RefreshMs) * time.Millisecond,
		GainColor:      cfg.UI.GainColor,
		LossColor:      cfg.UI.LossColor,
		StatusLine:     cfg.UI.StatusLine,
	}, term, symbols, upd, logger.Named("ui"))

	if err := view.Run(ctx); err != nil {
		// input failures end the session like a quit key
		logger.Warn("input error, shutting down", zap.Error(err))
	}

	cancel()
	wg.Wait()
	logger.Info("shutdown complete", zap.Int("passes", upd.Stats().Passes))
	return nil
}

func closeLogged(logger *zap.Logger, what string, closeFn func() error) {
	if err := closeFn(); err != nil {
		logger.Warn("close failed", zap.String("resource", what), zap.Error(err))
	}
}
