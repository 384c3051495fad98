package ui

import (
	"fmt"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
)

type TcellTerminal struct {
	screen tcell.Screen
	events chan tcell.Event
	quit   chan struct{}
	once   sync.Once
}

func NewTcellTerminal() (*TcellTerminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("init screen: %w", err)
	}
	return WrapScreen(screen), nil
}

// WrapScreen adapts an initialised screen.
func WrapScreen(screen tcell.Screen) *TcellTerminal {
	t := &TcellTerminal{
		screen: screen,
		events: make(chan tcell.Event, 16),
		quit:   make(chan struct{}),
	}
	screen.HideCursor()
	go screen.ChannelEvents(t.events, t.quit)
	return t
}

func (t *TcellTerminal) Size() (int, int) { return t.screen.Size() }

func (t *TcellTerminal) Clear() { t.screen.Clear() }

func (t *TcellTerminal) SetCell(x, y int, ch rune, style tcell.Style) {
	t.screen.SetContent(x, y, ch, nil, style)
}

func (t *TcellTerminal) Show() { t.screen.Show() }

func (t *TcellTerminal) Sync() { t.screen.Sync() }

func (t *TcellTerminal) PollEvent(timeout time.Duration) (Event, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	for {
		select {
		case ev, ok := <-t.events:
			if !ok {
				return Event{}, ErrTerminalClosed
			}
			switch ev := ev.(type) {
			case *tcell.EventKey:
				return Event{Kind: EventKey, Key: ev.Key(), Rune: ev.Rune()}, nil
			case *tcell.EventResize:
				return Event{Kind: EventResize}, nil
			case *tcell.EventError:
				return Event{}, ev
			}
		case <-timer.C:
			return Event{Kind: EventTimeout}, nil
		}
	}
}

func (t *TcellTerminal) Close() error {
	t.once.Do(func() {
		close(t.quit)
		t.screen.Fini()
	})
	return nil
}
