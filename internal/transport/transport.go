package transport

import (
	"context"
	"fmt"
	"strings"
	"time"
)

const (
	BackendHertz = "hertz"
	BackendNet   = "net"
	BackendAuto  = "auto"

	DefaultTimeout   = 10 * time.Second
	DefaultUserAgent = "tuimarket/1.0"

	// maxBodyBytes bounds a single quote response.
	maxBodyBytes = 4 << 20
)

// Fetcher performs a GET, following redirects, and returns the full body.
type Fetcher interface {
	Get(ctx context.Context, url string) ([]byte, error)
	Name() string
	Close() error
}

type Config struct {
	Backend   string
	Timeout   time.Duration
	UserAgent string
}

func New(cfg Config) (Fetcher, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	switch strings.ToLower(cfg.Backend) {
	case "", BackendHertz:
		return NewHertzFetcher(cfg.Timeout, cfg.UserAgent)
	case BackendNet:
		return NewHTTPFetcher(cfg.Timeout, cfg.UserAgent), nil
	case BackendAuto:
		h, err := NewHertzFetcher(cfg.Timeout, cfg.UserAgent)
		if err != nil {
			return nil, err
		}
		return NewMulti(h, NewHTTPFetcher(cfg.Timeout, cfg.UserAgent)), nil
	default:
		return nil, fmt.Errorf("unknown transport backend: %q", cfg.Backend)
	}
}

type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d", e.Code)
}
