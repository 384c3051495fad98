package transport

import (
	"context"
	"errors"
	"fmt"
)

// Multi tries each fetcher in order and returns the first successful body.
type Multi struct {
	fetchers []Fetcher
}

func NewMulti(fetchers ...Fetcher) *Multi {
	return &Multi{fetchers: fetchers}
}

func (m *Multi) Get(ctx context.Context, url string) ([]byte, error) {
	if len(m.fetchers) == 0 {
		return nil, fmt.Errorf("no fetchers configured")
	}
	var lastErr error
	for _, f := range m.fetchers {
		body, err := f.Get(ctx, url)
		if err == nil {
			return body, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		lastErr = fmt.Errorf("%s: %w", f.Name(), err)
	}
	return nil, lastErr
}

func (m *Multi) Name() string { return BackendAuto }

func (m *Multi) Close() error {
	var errs []error
	for _, f := range m.fetchers {
		if err := f.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
