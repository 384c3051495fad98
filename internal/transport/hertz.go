package transport

import (
	"context"
	"crypto/tls"
	"fmt"
	"time"

	"github.com/cloudwego/hertz/pkg/app/client"
	"github.com/cloudwego/hertz/pkg/common/config"
	"github.com/cloudwego/hertz/pkg/network/standard"
	"github.com/cloudwego/hertz/pkg/protocol"
)

type HertzFetcher struct {
	client  *client.Client
	timeout time.Duration
}

type hertzResult struct {
	status int
	body   []byte
	err    error
}

func NewHertzFetcher(timeout time.Duration, userAgent string) (*HertzFetcher, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	c, err := client.NewClient(
		client.WithDialer(standard.NewDialer()),
		client.WithTLSConfig(&tls.Config{MinVersion: tls.VersionTLS12}),
		client.WithDialTimeout(timeout),
		client.WithClientReadTimeout(timeout),
	)
	if err != nil {
		return nil, fmt.Errorf("init hertz client: %w", err)
	}
	c.Use(userAgentMiddleware(userAgent))
	return &HertzFetcher{client: c, timeout: timeout}, nil
}

func userAgentMiddleware(ua string) client.Middleware {
	return func(next client.Endpoint) client.Endpoint {
		return func(ctx context.Context, req *protocol.Request, resp *protocol.Response) error {
			req.Header.Set("User-Agent", ua)
			return next(ctx, req, resp)
		}
	}
}

// Get follows redirects. The hertz client does not abort on context
// cancellation, so the call is raced against ctx and bounded by the request
// timeout.
func (f *HertzFetcher) Get(ctx context.Context, url string) ([]byte, error) {
	done := make(chan hertzResult, 1)
	go func() {
		status, body, err := f.client.Get(ctx, nil, url, config.WithRequestTimeout(f.timeout))
		done <- hertzResult{status: status, body: body, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-done:
		if r.err != nil {
			return nil, fmt.Errorf("hertz get: %w", r.err)
		}
		if r.status < 200 || r.status > 299 {
			return nil, &StatusError{Code: r.status}
		}
		if len(r.body) > maxBodyBytes {
			return nil, fmt.Errorf("response too large: %d bytes", len(r.body))
		}
		return r.body, nil
	}
}

func (f *HertzFetcher) Name() string { return BackendHertz }

func (f *HertzFetcher) Close() error {
	f.client.CloseIdleConnections()
	return nil
}
