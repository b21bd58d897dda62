package client

import (
	"errors"
	"log/slog"
	"net/http"
	"time"
)

type optionContext struct {
	base    *http.Client
	wrapped HTTPClient
}

// Option configures a Client.
type Option func(ctx *optionContext) error

// WithTimeout sets the overall timeout of one request attempt.
func WithTimeout(d time.Duration) Option {
	return func(ctx *optionContext) error {
		if d < 0 {
			return errors.New("timeout cannot be negative")
		}
		ctx.base.Timeout = d
		return nil
	}
}

// WithHTTPClient replaces the underlying client, e.g. with an httptest
// server's client. It must come before WithRetry.
func WithHTTPClient(hc *http.Client) Option {
	return func(ctx *optionContext) error {
		if hc == nil {
			return errors.New("http client cannot be nil")
		}
		ctx.base = hc
		ctx.wrapped = hc
		return nil
	}
}

// WithRetry retries idempotent requests that failed in transit or got a
// 502, 503 or 504 reply.
func WithRetry(maxRetries int, backoff time.Duration) Option {
	return func(ctx *optionContext) error {
		rc, err := newRetryClient(ctx.wrapped, maxRetries, backoff)
		if err != nil {
			return err
		}
		ctx.wrapped = rc
		return nil
	}
}

// WithRequestLogging logs every request at debug level and failures at
// error level.
func WithRequestLogging(logger *slog.Logger) Option {
	return func(ctx *optionContext) error {
		if logger == nil {
			return errors.New("cannot add request logging with a nil logger")
		}
		base := ctx.base.Transport
		if base == nil {
			base = http.DefaultTransport
		}
		ctx.base.Transport = &logTransport{next: base, log: logger}
		return nil
	}
}
