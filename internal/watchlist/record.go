package watchlist

import "time"

const (
	MaxSymbolLen = 15
	MaxNameLen   = 255
)

// Record is a copy of one watched symbol's state.
type Record struct {
	Symbol        string
	Name          string
	Price         float64
	PreviousPrice float64
	UpdatedAt     time.Time
}

// Change is the absolute move since the previous close.
func (r Record) Change() float64 {
	return r.Price - r.PreviousPrice
}

// ChangePct is the relative move in percent, 0 when there is no previous close.
func (r Record) ChangePct() float64 {
	if r.PreviousPrice == 0 {
		return 0
	}
	return (r.Price/r.PreviousPrice - 1) * 100
}

func (r Record) Gain() bool {
	return r.Change() >= 0
}
