package postman

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// DefaultBaseURL is the public Postman API endpoint.
const DefaultBaseURL = "https://api.getpostman.com"

// ErrInvalidAPIKey marks a 401 from the remote service.
var ErrInvalidAPIKey = errors.New("invalid Postman API key")

// Client talks to the Postman collection API. The API key is forwarded on
// every call via the X-Api-Key header.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewClient creates a client. A nil http.Client falls back to
// http.DefaultClient; an empty baseURL falls back to DefaultBaseURL.
func NewClient(baseURL, apiKey string, hc *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if hc == nil {
		hc = http.DefaultClient
	}
	return &Client{baseURL: baseURL, apiKey: apiKey, http: hc}
}

// Me validates the API key and returns the key owner's identity.
func (c *Client) Me(ctx context.Context) (User, error) {
	var out struct {
		User User `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/me", nil, &out); err != nil {
		return User{}, err
	}
	return out.User, nil
}

// ListCollections returns summaries of the key owner's collections.
func (c *Client) ListCollections(ctx context.Context) ([]CollectionSummary, error) {
	var out struct {
		Collections []CollectionSummary `json:"collections"`
	}
	if err := c.do(ctx, http.MethodGet, "/collections", nil, &out); err != nil {
		return nil, err
	}
	return out.Collections, nil
}

// GetCollection fetches a full collection document.
func (c *Client) GetCollection(ctx context.Context, id string) (*Collection, error) {
	var out struct {
		Collection *Collection `json:"collection"`
	}
	if err := c.do(ctx, http.MethodGet, "/collections/"+id, nil, &out); err != nil {
		return nil, err
	}
	if out.Collection == nil {
		return nil, fmt.Errorf("collection %s: empty response", id)
	}
	return out.Collection, nil
}

// UpdateCollection replaces the whole collection document. The remote store
// offers no conditional write, so concurrent writers race last-write-wins.
func (c *Client) UpdateCollection(ctx context.Context, id string, doc *Collection) error {
	body := struct {
		Collection *Collection `json:"collection"`
	}{Collection: doc}
	return c.do(ctx, http.MethodPut, "/collections/"+id, body, nil)
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("X-Api-Key", c.apiKey)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("postman request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode == http.StatusUnauthorized {
		_, _ = io.Copy(io.Discard, resp.Body)
		return ErrInvalidAPIKey
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("postman API: %s %s: %s", method, path, resp.Status)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
