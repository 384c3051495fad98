package ui

import (
	"errors"
	"time"

	"github.com/gdamore/tcell/v2"
)

var ErrTerminalClosed = errors.New("terminal closed")

type EventKind int

const (
	EventTimeout EventKind = iota
	EventKey
	EventResize
)

// Event is the outcome of a bounded wait for input.
type Event struct {
	Kind EventKind
	Key  tcell.Key
	Rune rune
}

// Terminal is the cell-level display the dashboard draws on.
type Terminal interface {
	Size() (width, height int)
	Clear()
	SetCell(x, y int, ch rune, style tcell.Style)
	Show()
	Sync()
	// PollEvent waits up to timeout for input. A timeout is not an error.
	PollEvent(timeout time.Duration) (Event, error)
	Close() error
}
