package client

import (
	"errors"
	"net/http"
	"time"
)

type retryClient struct {
	next       HTTPClient
	maxRetries int
	backoff    time.Duration
}

func newRetryClient(next HTTPClient, maxRetries int, backoff time.Duration) (*retryClient, error) {
	if maxRetries < 0 {
		return nil, errors.New("max retries cannot be negative")
	}
	return &retryClient{next: next, maxRetries: maxRetries, backoff: backoff}, nil
}

func (c *retryClient) Do(req *http.Request) (*http.Response, error) {
	resp, err := c.next.Do(req)
	for attempt := 0; attempt < c.maxRetries && retryable(req, resp, err); attempt++ {
		if resp != nil {
			resp.Body.Close()
		}
		if req.Body != nil {
			if req.GetBody == nil {
				break
			}
			body, berr := req.GetBody()
			if berr != nil {
				break
			}
			req.Body = body
		}

		wait := c.backoff << attempt
		select {
		case <-req.Context().Done():
			return nil, req.Context().Err()
		case <-time.After(wait):
		}
		resp, err = c.next.Do(req)
	}
	return resp, err
}

// retryable reports whether a request may be sent again. POST is never
// repeated since the server may already have created the record.
func retryable(req *http.Request, resp *http.Response, err error) bool {
	if req.Method == http.MethodPost {
		return false
	}
	if err != nil {
		return req.Context().Err() == nil
	}
	switch resp.StatusCode {
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return false
}
