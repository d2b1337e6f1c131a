// Package cli implements the ctl command tree. Every command talks to the
// agent's command surface over its local REST API.
package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// agentClient is a thin JSON client for the agent API.
type agentClient struct {
	base string
	http *http.Client
}

func newAgentClient(base string) *agentClient {
	return &agentClient{
		base: base,
		http: &http.Client{Timeout: 60 * time.Second},
	}
}

// call performs a JSON round trip and decodes the response into out. Error
// responses surface the body's detail message when present.
func (c *agentClient) call(method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, c.base+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("agent unreachable: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var detail struct {
			Detail string `json:"detail"`
		}
		if json.Unmarshal(raw, &detail) == nil && detail.Detail != "" {
			return fmt.Errorf("%s", detail.Detail)
		}
		return fmt.Errorf("agent returned %s", resp.Status)
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(raw, out)
}
