package transport_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"tuimarket/internal/transport"
)

const body = `{"regularMarketPrice":101.5,"regularMarketPreviousClose":100.0,"shortName":"Test Co"}`

func newQuoteServer(t *testing.T) (*httptest.Server, *atomic.Value) {
	t.Helper()
	var ua atomic.Value
	mux := http.NewServeMux()
	mux.HandleFunc("/old/TEST", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/quote/TEST", http.StatusFound)
	})
	mux.HandleFunc("/quote/TEST", func(w http.ResponseWriter, r *http.Request) {
		ua.Store(r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte(body))
	})
	mux.HandleFunc("/missing", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	mux.HandleFunc("/slow", func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &ua
}

func fetchers(t *testing.T) []transport.Fetcher {
	t.Helper()
	h, err := transport.NewHertzFetcher(time.Second, "tuimarket-test")
	if err != nil {
		t.Fatalf("NewHertzFetcher: %v", err)
	}
	n := transport.NewHTTPFetcher(time.Second, "tuimarket-test")
	t.Cleanup(func() {
		_ = h.Close()
		_ = n.Close()
	})
	return []transport.Fetcher{h, n}
}

func TestFetcher_FollowsRedirects(t *testing.T) {
	srv, ua := newQuoteServer(t)
	for _, f := range fetchers(t) {
		got, err := f.Get(context.Background(), srv.URL+"/old/TEST")
		if err != nil {
			t.Errorf("%s: Get: %v", f.Name(), err)
			continue
		}
		if string(got) != body {
			t.Errorf("%s: body %q", f.Name(), got)
		}
		if v, _ := ua.Load().(string); v != "tuimarket-test" {
			t.Errorf("%s: user agent %q", f.Name(), v)
		}
	}
}

func TestFetcher_StatusError(t *testing.T) {
	srv, _ := newQuoteServer(t)
	for _, f := range fetchers(t) {
		_, err := f.Get(context.Background(), srv.URL+"/missing")
		var statusErr *transport.StatusError
		if !errors.As(err, &statusErr) || statusErr.Code != http.StatusNotFound {
			t.Errorf("%s: expected 404 status error, got %v", f.Name(), err)
		}
	}
}

func TestFetcher_ContextCancel(t *testing.T) {
	srv, _ := newQuoteServer(t)
	for _, f := range fetchers(t) {
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		start := time.Now()
		_, err := f.Get(ctx, srv.URL+"/slow")
		cancel()
		if err == nil {
			t.Errorf("%s: expected error on cancelled fetch", f.Name())
		}
		if time.Since(start) > 1500*time.Millisecond {
			t.Errorf("%s: cancelled fetch took %v", f.Name(), time.Since(start))
		}
	}
}

type stubFetcher struct {
	name  string
	body  []byte
	err   error
	calls int
}

func (s *stubFetcher) Get(context.Context, string) ([]byte, error) {
	s.calls++
	return s.body, s.err
}
func (s *stubFetcher) Name() string { return s.name }
func (s *stubFetcher) Close() error { return nil }

func TestMulti_FallsBack(t *testing.T) {
	first := &stubFetcher{name: "first", err: errors.New("down")}
	second := &stubFetcher{name: "second", body: []byte("ok")}
	m := transport.NewMulti(first, second)

	got, err := m.Get(context.Background(), "http://example.test")
	if err != nil || string(got) != "ok" {
		t.Fatalf("Get = %q, %v", got, err)
	}
	if first.calls != 1 || second.calls != 1 {
		t.Errorf("calls first=%d second=%d", first.calls, second.calls)
	}
}

func TestMulti_AllFail(t *testing.T) {
	down := errors.New("down")
	m := transport.NewMulti(&stubFetcher{name: "a", err: down}, &stubFetcher{name: "b", err: down})
	if _, err := m.Get(context.Background(), "http://example.test"); !errors.Is(err, down) {
		t.Errorf("expected last error, got %v", err)
	}
	if _, err := transport.NewMulti().Get(context.Background(), "x"); err == nil {
		t.Error("empty Multi should fail")
	}
}

func TestNew_Backends(t *testing.T) {
	for backend, want := range map[string]string{"": "hertz", "hertz": "hertz", "net": "net", "auto": "auto"} {
		f, err := transport.New(transport.Config{Backend: backend})
		if err != nil {
			t.Errorf("New(%q): %v", backend, err)
			continue
		}
		if f.Name() != want {
			t.Errorf("New(%q).Name() = %q, want %q", backend, f.Name(), want)
		}
		_ = f.Close()
	}
	if _, err := transport.New(transport.Config{Backend: "carrier-pigeon"}); err == nil {
		t.Error("unknown backend accepted")
	}
}
