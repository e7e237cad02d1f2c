package ai

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"

	"aperture/pkg/errors"
)

// Transport is the blocking HTTP primitive the engine calls with a built
// wire request. A non-nil error means no response was received; the engine
// treats that outcome as non-retryable within one call.
type Transport interface {
	Do(ctx context.Context, req *WireRequest) (status int, body []byte, err error)
}

// HTTPTransport implements Transport over net/http.
type HTTPTransport struct {
	client *http.Client
}

// NewHTTPTransport creates a transport with the given request timeout.
func NewHTTPTransport(timeout time.Duration) *HTTPTransport {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &HTTPTransport{client: &http.Client{Timeout: timeout}}
}

// Do sends the wire request and returns the raw status and body.
func (t *HTTPTransport) Do(ctx context.Context, req *WireRequest) (int, []byte, error) {
	method := req.Method
	if method == "" {
		method = http.MethodPost
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, req.URL, bytes.NewReader(req.Body))
	if err != nil {
		return 0, nil, errors.Wrap(err, "create HTTP request")
	}

	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}

	resp, err := t.client.Do(httpReq)
	if err != nil {
		return 0, nil, errors.Wrap(errors.ErrTransport, err.Error())
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, errors.Wrap(errors.ErrTransport, err.Error())
	}

	return resp.StatusCode, body, nil
}
