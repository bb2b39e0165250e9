package cdp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// maxResponseBody caps how much of a CDP response is kept for audit details.
const maxResponseBody = 2048

// CallResult is the outcome of one outbound delivery attempt. StatusCode is
// zero when the request never reached the CDP.
type CallResult struct {
	StatusCode int
	Body       string
}

// OK reports whether the CDP accepted the payload.
func (r CallResult) OK() bool {
	return r.StatusCode/100 == 2
}

// Caller performs one outbound delivery attempt against a CDP endpoint.
type Caller interface {
	Deliver(ctx context.Context, cfg SystemConfig, payload any) (CallResult, error)
}

// HTTPCaller posts JSON payloads to CDP endpoints with the API key as a
// bearer credential.
type HTTPCaller struct {
	client *http.Client
	log    *zap.Logger
}

// NewHTTPCaller creates a caller with the given per-request timeout.
func NewHTTPCaller(timeout time.Duration, log *zap.Logger) *HTTPCaller {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPCaller{
		client: &http.Client{Timeout: timeout},
		log:    log,
	}
}

// Deliver posts the payload to cfg.APIURL. A non-2xx status is not an error
// here; callers classify the result themselves. The returned error is
// reserved for marshaling and transport failures.
func (c *HTTPCaller) Deliver(ctx context.Context, cfg SystemConfig, payload any) (CallResult, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return CallResult{}, fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, cfg.APIURL, bytes.NewReader(body))
	if err != nil {
		return CallResult{}, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+cfg.APIKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return CallResult{}, fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.log.Warn("Failed to close response body", zap.Error(err))
		}
	}()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		respBody = nil
	}

	return CallResult{
		StatusCode: resp.StatusCode,
		Body:       string(respBody),
	}, nil
}
