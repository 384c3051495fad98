package market

import "context"

// Quote is the parsed subset of a quote payload the dashboard displays.
type Quote struct {
	Symbol        string  `json:"symbol"`
	Name          string  `json:"name,omitempty"`
	Price         float64 `json:"price"`
	PreviousClose float64 `json:"previous_close"`
	TS            int64   `json:"ts"`
}

type QuoteProvider interface {
	Quote(ctx context.Context, symbol string) (Quote, error)
}
