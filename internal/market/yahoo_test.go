package market_test

import (
	"context"
	"errors"
	"testing"

	"tuimarket/internal/market"
)

type stubFetcher struct {
	body []byte
	err  error
	urls []string
}

func (s *stubFetcher) Get(_ context.Context, url string) ([]byte, error) {
	s.urls = append(s.urls, url)
	return s.body, s.err
}

const testPayload = `{"regularMarketPrice":101.5,"regularMarketPreviousClose":100.0,"shortName":"Test Co"}`

func TestYahooProvider_Quote(t *testing.T) {
	f := &stubFetcher{body: []byte(testPayload)}
	p := market.NewYahooProvider(f, "", market.Fields{})

	q, err := p.Quote(context.Background(), "test")
	if err != nil {
		t.Fatalf("Quote: %v", err)
	}
	if q.Symbol != "TEST" || q.Name != "Test Co" || q.Price != 101.5 || q.PreviousClose != 100.0 {
		t.Errorf("unexpected quote %+v", q)
	}
	if len(f.urls) != 1 || f.urls[0] != "https://query2.finance.yahoo.com/v7/finance/options/TEST" {
		t.Errorf("unexpected urls %v", f.urls)
	}
}

func TestYahooProvider_ParseFailureIsError(t *testing.T) {
	f := &stubFetcher{body: []byte(`{"regularMarketPrice":101.5,"shortName":"Test Co"}`)}
	p := market.NewYahooProvider(f, "", market.Fields{})

	if _, err := p.Quote(context.Background(), "TEST"); !errors.Is(err, market.ErrMarkerNotFound) {
		t.Errorf("expected marker error, got %v", err)
	}
}

func TestYahooProvider_FetchError(t *testing.T) {
	boom := errors.New("boom")
	p := market.NewYahooProvider(&stubFetcher{err: boom}, "", market.Fields{})
	if _, err := p.Quote(context.Background(), "TEST"); !errors.Is(err, boom) {
		t.Errorf("expected wrapped fetch error, got %v", err)
	}
}

func TestYahooProvider_QuoteURL(t *testing.T) {
	p := market.NewYahooProvider(nil, "http://example.test/q?s=", market.Fields{})
	if got := p.QuoteURL("^GSPC"); got != "http://example.test/q?s=%5EGSPC" {
		t.Errorf("QuoteURL = %q", got)
	}
	p = market.NewYahooProvider(nil, "http://example.test/%s/quote", market.Fields{})
	if got := p.QuoteURL("BRK-B"); got != "http://example.test/BRK-B/quote" {
		t.Errorf("QuoteURL = %q", got)
	}
}

func TestFields_CustomMarkers(t *testing.T) {
	fields := market.Fields{
		Price:         market.Field{Marker: "last=", Stop: ";"},
		PreviousClose: market.Field{Marker: "prev=", Stop: ";"},
		Name:          market.Field{Marker: "name=", Stop: ";"},
	}
	q, err := fields.Parse([]byte("name=Acme;last=9.5;prev=10;"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if q.Name != "Acme" || q.Price != 9.5 || q.PreviousClose != 10 {
		t.Errorf("unexpected quote %+v", q)
	}
}
