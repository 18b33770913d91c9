// Package relay implements the best-effort forward of validated submissions
// to the downstream CRM endpoint, plus the blocking unsubscribe forward.
//
// The two flows deliberately differ in failure policy:
//   - Contact submissions: the visitor's intent is satisfied the moment the
//     edge accepts the form, so a relay failure is logged and swallowed and
//     the visitor still sees success. Bookkeeping lag is the operator's
//     problem, not the visitor's.
//   - Unsubscribe: there is no meaningful "success" without the backing
//     record being written, so a relay failure propagates to the caller and
//     becomes a user-visible error page.
//
// No retries are performed and no timeout is applied beyond whatever the
// injected http.Client carries; a hung downstream call hangs the handler
// until the server's own write timeout fires. Known gap, kept on purpose.
package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// Client is the downstream forwarding contract consumed by the services
// layer. Implementations must be safe for concurrent use.
type Client interface {
	// ForwardSubmission posts a sanitized submission to the CRM endpoint.
	ForwardSubmission(ctx context.Context, payload map[string]any) error
	// ForwardUnsubscribe posts an unsubscribe action to the CRM endpoint.
	ForwardUnsubscribe(ctx context.Context, req UnsubscribeRequest) error
}

// UnsubscribeRequest is the downstream payload for an unsubscribe action.
type UnsubscribeRequest struct {
	Action string `json:"action"` // always "unsubscribe"
	Email  string `json:"email"`
	Token  string `json:"token"`
	Reason string `json:"reason,omitempty"`
}

// Response is the downstream reply envelope for both payload kinds.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// HTTPClient forwards payloads as single JSON POSTs to a fixed endpoint.
type HTTPClient struct {
	endpoint string
	http     *http.Client
}

// NewHTTPClient returns an HTTPClient targeting endpoint. A nil httpClient
// falls back to http.DefaultClient.
func NewHTTPClient(endpoint string, httpClient *http.Client) *HTTPClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &HTTPClient{endpoint: endpoint, http: httpClient}
}

// ForwardSubmission implements Client.
func (c *HTTPClient) ForwardSubmission(ctx context.Context, payload map[string]any) error {
	return c.post(ctx, payload)
}

// ForwardUnsubscribe implements Client.
func (c *HTTPClient) ForwardUnsubscribe(ctx context.Context, req UnsubscribeRequest) error {
	req.Action = "unsubscribe"
	return c.post(ctx, req)
}

// post marshals payload, posts it, and interprets the reply envelope. A
// non-2xx status or a success=false body is an error; an unparseable body
// on a 2xx is tolerated (some webhook hosts reply with plain text).
func (c *HTTPClient) post(ctx context.Context, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("relay: encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("relay: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("relay: post: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("relay: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("relay: downstream status %d: %s", resp.StatusCode, truncateBody(raw))
	}

	var out Response
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	if !out.Success {
		msg := out.Error
		if msg == "" {
			msg = out.Message
		}
		return fmt.Errorf("relay: downstream rejected payload: %s", msg)
	}
	return nil
}

func truncateBody(b []byte) string {
	const max = 256
	if len(b) > max {
		return string(b[:max]) + "…"
	}
	return string(b)
}
