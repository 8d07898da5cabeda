package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"google.golang.org/api/idtoken"
)

// Paths exposed by the prediction backend.
const (
	LocationsPath = "/get_location_names"
	PredictPath   = "/predict_home_price"
)

// Response is a backend reply with the body fully read. Status handling is
// left to the caller.
type Response struct {
	StatusCode int
	Body       []byte
}

// OK reports whether the status is in the 2xx range.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Requester issues JSON requests to the prediction backend. A returned error
// always means the exchange failed at the transport level.
type Requester interface {
	GetJSON(ctx context.Context, path string) (*Response, error)
	PostJSON(ctx context.Context, path string, payload any) (*Response, error)
}

type requestIDKey struct{}

// WithRequestID stores an identifier that is forwarded as X-Request-ID.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	if requestID == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// RequestIDFromContext returns the identifier stored by WithRequestID.
func RequestIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(requestIDKey{}).(string); ok {
		return v
	}
	return ""
}

type Client struct {
	client  *http.Client
	baseURL string
}

// NewClient builds a backend client. A nil client gets a plain http.Client
// with no timeout beyond the transport defaults.
func NewClient(client *http.Client, baseURL string) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("backend base url must not be empty")
	}
	if client == nil {
		client = &http.Client{}
	}
	return &Client{client: client, baseURL: baseURL}, nil
}

// NewIDTokenClient authenticates every call with a Google ID token whose
// audience is the base URL, for backends deployed behind Cloud Run IAM.
func NewIDTokenClient(ctx context.Context, baseURL string) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	idc, err := idtoken.NewClient(ctx, baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create id token client: %w", err)
	}
	return NewClient(idc, baseURL)
}

// BaseURL returns the normalized base address.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// GetJSON issues a GET and returns the raw reply.
func (c *Client) GetJSON(ctx context.Context, path string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create backend request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	return c.do(req)
}

// PostJSON marshals payload and posts it with a JSON content type.
func (c *Client) PostJSON(ctx context.Context, path string, payload any) (*Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create backend request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	return c.do(req)
}

func (c *Client) do(req *http.Request) (*Response, error) {
	if rid := RequestIDFromContext(req.Context()); rid != "" {
		req.Header.Set("X-Request-ID", rid)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("backend request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("could not read backend response: %w", err)
	}
	return &Response{StatusCode: resp.StatusCode, Body: data}, nil
}

var _ Requester = (*Client)(nil)
