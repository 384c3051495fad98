package ui

import (
	"fmt"
	"math"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/shopspring/decimal"

	"tuimarket/internal/watchlist"
)

// Column anchors. Symbol and name hang off the left edge, price and variation
// off the right edge, so the table reflows when the terminal is resized.
const (
	colSymbol = 2
	colName   = colSymbol + len("Symbol |") + 2

	// offsets from the right edge
	colVariation = len("Variation") + 9
	colPrice     = colVariation + len("| Price") + 4
	priceEnd     = colVariation + 4 // last price digit
)

const headerRows = 1

type Theme struct {
	Header tcell.Style
	Cell   tcell.Style
	Gain   tcell.Style
	Loss   tcell.Style
	Status tcell.Style
}

// NewTheme resolves color names the way tcell does; unknown names fall back
// to the terminal default.
func NewTheme(gain, loss string) Theme {
	return Theme{
		Header: tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorWhite),
		Cell:   tcell.StyleDefault,
		Gain:   tcell.StyleDefault.Foreground(tcell.GetColor(gain)),
		Loss:   tcell.StyleDefault.Foreground(tcell.GetColor(loss)),
		Status: tcell.StyleDefault.Reverse(true),
	}
}

// Table draws records onto a Terminal.
type Table struct {
	theme Theme
}

func NewTable(theme Theme) *Table {
	return &Table{theme: theme}
}

// VisibleRows is the number of record rows that fit under the header and
// above the optional status line.
func VisibleRows(height int, statusLine bool) int {
	rows := height - headerRows
	if statusLine {
		rows--
	}
	if rows < 0 {
		return 0
	}
	return rows
}

func (t *Table) DrawHeader(term Terminal, width int) {
	for x := 0; x < width; x++ {
		term.SetCell(x, 0, ' ', t.theme.Header)
	}
	drawText(term, colSymbol-2, 0, width, " Symbol", t.theme.Header)
	drawText(term, colName-2, 0, width, "| Name", t.theme.Header)
	drawText(term, width-colPrice-2, 0, width, "| Price", t.theme.Header)
	drawText(term, width-colVariation-2, 0, width, "| Variation", t.theme.Header)
}

// DrawRows draws records[offset:] from row y=1 down, at most visible rows.
func (t *Table) DrawRows(term Terminal, width int, records []watchlist.Record, offset, visible int) {
	for row := 0; row < visible && offset+row < len(records); row++ {
		t.drawRecord(term, width, headerRows+row, records[offset+row])
	}
}

func (t *Table) drawRecord(term Terminal, width, y int, rec watchlist.Record) {
	numbers := width - colPrice - 2
	drawText(term, colSymbol, y, min(colName-1, numbers), rec.Symbol, t.theme.Cell)
	drawText(term, colName, y, numbers, rec.Name, t.theme.Cell)

	price := FormatFixed(rec.Price)
	drawText(term, width-priceEnd-len(price)+1, y, width-colVariation-2, price, t.theme.Cell)

	style := t.theme.Loss
	x := width - colVariation
	if rec.Gain() {
		style = t.theme.Gain
		x++
	}
	drawText(term, x, y, width, FormatVariation(rec), style)
}

func (t *Table) DrawStatus(term Terminal, width, y int, text string) {
	for x := 0; x < width; x++ {
		term.SetCell(x, y, ' ', t.theme.Status)
	}
	drawText(term, 1, y, width, text, t.theme.Status)
}

// FormatFixed renders v with two decimals. Values that round to zero never
// print as "-0.00".
func FormatFixed(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "-"
	}
	return decimal.NewFromFloat(v).StringFixed(2)
}

// FormatVariation renders "change (pct%)".
func FormatVariation(rec watchlist.Record) string {
	return fmt.Sprintf("%s (%s%%)", FormatFixed(rec.Change()), FormatFixed(rec.ChangePct()))
}

func FormatStatus(passes int, last time.Time, failed int) string {
	if passes == 0 || last.IsZero() {
		return "waiting for first refresh..."
	}
	text := "updated " + last.Format("15:04:05")
	if failed > 0 {
		text += fmt.Sprintf("  %d failed", failed)
	}
	return text
}

// drawText writes s from x, clipped to [0, limit).
func drawText(term Terminal, x, y, limit int, s string, style tcell.Style) {
	for _, r := range s {
		if x >= limit {
			return
		}
		if x >= 0 {
			term.SetCell(x, y, r, style)
		}
		x++
	}
}
