package client

import (
	"log/slog"
	"net/http"
	"time"
)

type logTransport struct {
	next http.RoundTripper
	log  *slog.Logger
}

func (t *logTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := t.next.RoundTrip(req)
	if err != nil {
		t.log.Error("request failed", "method", req.Method, "url", req.URL.Redacted(), "error", err)
		return resp, err
	}
	t.log.Debug("request done",
		"method", req.Method,
		"url", req.URL.Redacted(),
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)
	return resp, nil
}
