// Package rest is a small JSON over HTTP client for REST gateways that
// report failures as {"code": "...", "message": "..."} bodies.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// ErrProviderReturnedError is wrapped by every APIError.
var ErrProviderReturnedError = errors.New("provider error")

// APIError is a non-2xx response from the gateway.
type APIError struct {
	StatusCode int    `json:"-"`
	Code       string `json:"code"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Code == "" && e.Message == "" {
		return fmt.Sprintf("%s: [%d]", ErrProviderReturnedError, e.StatusCode)
	}
	return fmt.Sprintf("%s: [%d] %s - %s", ErrProviderReturnedError, e.StatusCode, e.Code, e.Message)
}

func (e *APIError) Unwrap() error {
	return ErrProviderReturnedError
}

// IsNotFound reports whether err is a 404 from the gateway.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// Client performs JSON requests against a base URL.
type Client interface {
	// Get decodes the JSON body of GET path into out.
	Get(ctx context.Context, path string, out any) error

	// Put sends body as JSON to path and decodes the response into out.
	// out may be nil.
	Put(ctx context.Context, path string, body, out any) error

	// BaseURL returns the endpoint requests are resolved against.
	BaseURL() *url.URL
}

type client struct {
	baseURL    *url.URL
	httpClient *http.Client
}

var _ Client = (*client)(nil)

// NewClient returns a Client resolving paths against endpoint.
func NewClient(httpClient *http.Client, endpoint string) (*client, error) {
	u, err := url.Parse(strings.TrimRight(endpoint, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid endpoint %q: %w", endpoint, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid endpoint %q: scheme must be http or https", endpoint)
	}

	return &client{
		baseURL:    u,
		httpClient: httpClient,
	}, nil
}

func (c *client) BaseURL() *url.URL {
	u := *c.baseURL
	return &u
}

func (c *client) Get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *client) Put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, body, out)
}

func (c *client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.String()+path, reader)
	if err != nil {
		return err
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		apiErr := &APIError{StatusCode: res.StatusCode}
		// Gateways in front of the node may answer with non-JSON bodies.
		_ = json.NewDecoder(res.Body).Decode(apiErr)
		return apiErr
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, res.Body)
		return nil
	}

	return json.NewDecoder(res.Body).Decode(out)
}
