package apiclient

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
	"time"

	"golang.org/x/oauth2"

	"gymlog/common"
)

var ErrStatus = errors.New("unexpected response status")

// Client talks to the exercise REST API on behalf of one user token per call.
type Client struct {
	baseURL string
	base    http.RoundTripper
	timeout time.Duration
}

// New creates a client for the API rooted at baseURL. A nil transport uses
// http.DefaultTransport.
func New(baseURL string, transport http.RoundTripper, timeout time.Duration) *Client {
	if transport == nil {
		transport = http.DefaultTransport
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		base:    transport,
		timeout: timeout,
	}
}

// Response is a fully read API response.
type Response struct {
	StatusCode int
	Body       []byte
}

func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

func (r *Response) JSON(v any) error {
	return json.Unmarshal(r.Body, v)
}

// Err reports a non-success status as an error wrapping ErrStatus.
func (r *Response) Err() error {
	if r.OK() {
		return nil
	}
	var body struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(r.Body, &body) == nil && body.Error != "" {
		return fmt.Errorf("%w %d: %s", ErrStatus, r.StatusCode, body.Error)
	}
	return fmt.Errorf("%w %d", ErrStatus, r.StatusCode)
}

func (c *Client) GetByID(ctx context.Context, kind common.Kind, id, token string) (*Response, error) {
	return c.do(ctx, http.MethodGet, c.recordURL(kind, id), nil, token)
}

func (c *Client) Update(ctx context.Context, kind common.Kind, id string, payload any, token string) (*Response, error) {
	return c.do(ctx, http.MethodPut, c.recordURL(kind, id), payload, token)
}

func (c *Client) Delete(ctx context.Context, kind common.Kind, id, token string) (*Response, error) {
	return c.do(ctx, http.MethodDelete, c.recordURL(kind, id), nil, token)
}

// History fetches the user's exercise list.
func (c *Client) History(ctx context.Context, token string) ([]common.ExerciseSummary, error) {
	resp, err := c.do(ctx, http.MethodGet, c.baseURL+"/api/exercises", nil, token)
	if err != nil {
		return nil, err
	}
	if err := resp.Err(); err != nil {
		return nil, err
	}
	var out []common.ExerciseSummary
	if err := resp.JSON(&out); err != nil {
		return nil, fmt.Errorf("decode history: %w", err)
	}
	return out, nil
}

func (c *Client) recordURL(kind common.Kind, id string) string {
	return fmt.Sprintf("%s/api/%s/%s", c.baseURL, kind, url.PathEscape(id))
}

func (c *Client) httpClient(token string) *http.Client {
	return &http.Client{
		Timeout: c.timeout,
		Transport: &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}),
			Base:   c.base,
		},
	}
}

func (c *Client) do(ctx context.Context, method, target string, payload any, token string) (*Response, error) {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode payload: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient(token).Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, target, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return &Response{StatusCode: resp.StatusCode, Body: raw}, nil
}
