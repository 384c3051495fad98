package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"tuimarket/internal/updater"
	"tuimarket/internal/watchlist"
)

const DefaultRefreshTimeout = 500 * time.Millisecond

type Config struct {
	// RefreshTimeout bounds each wait for input, so it is also the redraw cadence.
	RefreshTimeout time.Duration
	GainColor      string
	LossColor      string
	StatusLine     bool
}

// StatusSource feeds the status line.
type StatusSource interface {
	Stats() updater.Stats
}

type State int

const (
	Running State = iota
	Stopping
)

func (s State) String() string {
	if s == Stopping {
		return "stopping"
	}
	return "running"
}

// View is the foreground loop: it draws the watchlist and handles navigation
// keys. It only reads from the store.
type View struct {
	cfg     Config
	term    Terminal
	symbols *watchlist.Store
	table   *Table
	status  StatusSource
	logger  *zap.Logger

	scroll Scroll
	state  State
}

func NewView(cfg Config, term Terminal, symbols *watchlist.Store, status StatusSource, logger *zap.Logger) *View {
	if cfg.RefreshTimeout <= 0 {
		cfg.RefreshTimeout = DefaultRefreshTimeout
	}
	if cfg.GainColor == "" {
		cfg.GainColor = "green"
	}
	if cfg.LossColor == "" {
		cfg.LossColor = "red"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &View{
		cfg:     cfg,
		term:    term,
		symbols: symbols,
		table:   NewTable(NewTheme(cfg.GainColor, cfg.LossColor)),
		status:  status,
		logger:  logger,
	}
}

func (v *View) State() State { return v.state }

func (v *View) Offset() int { return v.scroll.Offset() }

func (v *View) statusLine() bool {
	return v.cfg.StatusLine && v.status != nil
}

func (v *View) visible() int {
	_, h := v.term.Size()
	return VisibleRows(h, v.statusLine())
}

// Draw renders one frame from a fresh snapshot of the store.
func (v *View) Draw() {
	w, h := v.term.Size()
	records := v.symbols.Snapshot()
	visible := VisibleRows(h, v.statusLine())
	if len(records) <= visible {
		v.scroll = Scroll{}
	}
	v.scroll.Clamp(len(records), visible)

	v.term.Clear()
	v.table.DrawHeader(v.term, w)
	v.table.DrawRows(v.term, w, records, v.scroll.Offset(), visible)
	if v.statusLine() && h > headerRows {
		s := v.status.Stats()
		v.table.DrawStatus(v.term, w, h-1, FormatStatus(s.Passes, s.LastPass, s.LastFailed))
	}
	v.term.Show()
}

// HandleKey applies one key press and returns the resulting state.
func (v *View) HandleKey(ev Event) State {
	n, visible := v.symbols.Len(), v.visible()
	switch ev.Key {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		v.state = Stopping
	case tcell.KeyDown:
		v.scroll.Down(n, visible)
	case tcell.KeyUp:
		v.scroll.Up(n, visible)
	case tcell.KeyPgDn:
		v.scroll.PageDown(n, visible)
	case tcell.KeyPgUp:
		v.scroll.PageUp(n, visible)
	case tcell.KeyHome:
		v.scroll.Home()
	case tcell.KeyEnd:
		v.scroll.End(n, visible)
	case tcell.KeyRune:
		switch ev.Rune {
		case 'q', 'Q':
			v.state = Stopping
		case 'j':
			v.scroll.Down(n, visible)
		case 'k':
			v.scroll.Up(n, visible)
		case ' ':
			v.scroll.PageDown(n, visible)
		case 'b':
			v.scroll.PageUp(n, visible)
		case 'g':
			v.scroll.Home()
		case 'G':
			v.scroll.End(n, visible)
		}
	}
	return v.state
}

// Run draws and polls until a quit key, an input error or ctx cancellation.
// An input error stops the loop like a quit key and is returned for logging.
func (v *View) Run(ctx context.Context) error {
	v.state = Running
	for v.state == Running {
		if ctx.Err() != nil {
			v.state = Stopping
			break
		}
		v.Draw()
		ev, err := v.term.PollEvent(v.cfg.RefreshTimeout)
		if err != nil {
			v.state = Stopping
			v.logger.Error("terminal input failed", zap.Error(err))
			return fmt.Errorf("poll input: %w", err)
		}
		switch ev.Kind {
		case EventResize:
			v.term.Sync()
		case EventKey:
			v.HandleKey(ev)
		}
	}
	v.logger.Info("ui stopped")
	return nil
}
