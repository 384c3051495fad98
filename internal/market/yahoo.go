package market

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"
)

const DefaultURLTemplate = "https://query2.finance.yahoo.com/v7/finance/options/%s"

// Fetcher performs a GET and returns the whole body.
type Fetcher interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

type YahooProvider struct {
	urlTemplate string
	fetcher     Fetcher
	fields      Fields
}

func NewYahooProvider(fetcher Fetcher, urlTemplate string, fields Fields) *YahooProvider {
	if urlTemplate == "" {
		urlTemplate = DefaultURLTemplate
	}
	def := DefaultFields()
	if fields.Price.Marker == "" {
		fields.Price = def.Price
	}
	if fields.PreviousClose.Marker == "" {
		fields.PreviousClose = def.PreviousClose
	}
	if fields.Name.Marker == "" {
		fields.Name = def.Name
	}
	return &YahooProvider{
		urlTemplate: urlTemplate,
		fetcher:     fetcher,
		fields:      fields,
	}
}

func (p *YahooProvider) Quote(ctx context.Context, symbol string) (Quote, error) {
	if p.fetcher == nil {
		return Quote{}, fmt.Errorf("quote fetcher not configured")
	}
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return Quote{}, fmt.Errorf("symbol is empty")
	}
	body, err := p.fetcher.Get(ctx, p.QuoteURL(symbol))
	if err != nil {
		return Quote{}, fmt.Errorf("fetch %s: %w", symbol, err)
	}
	q, err := p.fields.Parse(body)
	if err != nil {
		return Quote{}, fmt.Errorf("parse %s: %w", symbol, err)
	}
	q.Symbol = symbol
	q.TS = time.Now().Unix()
	return q, nil
}

// QuoteURL fills the template with the escaped symbol. Templates without a
// verb get the symbol appended.
func (p *YahooProvider) QuoteURL(symbol string) string {
	escaped := url.PathEscape(symbol)
	if strings.Contains(p.urlTemplate, "%s") {
		return fmt.Sprintf(p.urlTemplate, escaped)
	}
	return p.urlTemplate + escaped
}
