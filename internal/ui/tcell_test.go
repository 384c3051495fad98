package ui_test

import (
	"errors"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"tuimarket/internal/ui"
)

func newSimTerminal(t *testing.T) (*ui.TcellTerminal, tcell.SimulationScreen) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatal(err)
	}
	screen.SetSize(40, 10)
	term := ui.WrapScreen(screen)
	t.Cleanup(func() { term.Close() })
	return term, screen
}

func TestTcellTerminal_PollTimeout(t *testing.T) {
	term, _ := newSimTerminal(t)
	start := time.Now()
	ev, err := term.PollEvent(20 * time.Millisecond)
	if err != nil {
		t.Fatal(err)
	}
	if ev.Kind != ui.EventTimeout && ev.Kind != ui.EventResize {
		t.Errorf("kind %v", ev.Kind)
	}
	if time.Since(start) > time.Second {
		t.Error("poll did not honour its timeout")
	}
}

func TestTcellTerminal_KeyEvent(t *testing.T) {
	term, screen := newSimTerminal(t)
	screen.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		ev, err := term.PollEvent(50 * time.Millisecond)
		if err != nil {
			t.Fatal(err)
		}
		if ev.Kind == ui.EventKey {
			if ev.Key != tcell.KeyRune || ev.Rune != 'q' {
				t.Errorf("event %+v", ev)
			}
			return
		}
	}
	t.Fatal("key event not delivered")
}

func TestTcellTerminal_DrawsCells(t *testing.T) {
	term, screen := newSimTerminal(t)
	w, h := term.Size()
	if w != 40 || h != 10 {
		t.Fatalf("size %dx%d", w, h)
	}
	term.Clear()
	term.SetCell(3, 2, 'X', tcell.StyleDefault.Foreground(tcell.ColorGreen))
	term.Show()

	cells, width, _ := screen.GetContents()
	c := cells[2*width+3]
	if len(c.Runes) == 0 || c.Runes[0] != 'X' {
		t.Errorf("cell content %q", c.Runes)
	}
}

func TestTcellTerminal_CloseIsIdempotent(t *testing.T) {
	term, _ := newSimTerminal(t)
	if err := term.Close(); err != nil {
		t.Fatal(err)
	}
	if err := term.Close(); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 20; i++ {
		_, err := term.PollEvent(10 * time.Millisecond)
		if errors.Is(err, ui.ErrTerminalClosed) {
			return
		}
	}
	t.Error("closed terminal never reported ErrTerminalClosed")
}
