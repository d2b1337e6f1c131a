package types

import (
	"strings"
	"time"
)

// AuthType identifies the authentication scheme detected on a captured request.
type AuthType string

const (
	AuthNone   AuthType = "none"
	AuthBearer AuthType = "bearer"
	AuthBasic  AuthType = "basic"
	AuthAPIKey AuthType = "apikey"
	AuthCookie AuthType = "cookie"
)

// AuthDescriptor is the classifier's verdict for one request. Exactly one
// variant is active; Value is empty only for AuthNone.
type AuthDescriptor struct {
	Type  AuthType `json:"type"`
	Value string   `json:"value,omitempty"`
}

// Header is a single outgoing header. Captured requests keep the ordered
// list rather than a map because duplicates are allowed and precedence is
// first-match-wins.
type Header struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// CapturedRequest represents one observed outgoing request. Immutable after
// creation; removed only by buffer eviction or an explicit clear.
type CapturedRequest struct {
	ID        string         `json:"id"`
	Timestamp time.Time      `json:"timestamp"`
	Method    string         `json:"method"`
	URL       string         `json:"url"`
	Headers   []Header       `json:"headers,omitempty"`
	Body      string         `json:"body,omitempty"`
	BodyJSON  bool           `json:"body_json,omitempty"`
	Auth      AuthDescriptor `json:"auth"`
}

// HeaderValue returns the first header whose name matches case-insensitively.
func (r *CapturedRequest) HeaderValue(name string) (string, bool) {
	for _, h := range r.Headers {
		if strings.EqualFold(h.Name, name) {
			return h.Value, true
		}
	}
	return "", false
}

// HostAggregate accumulates per-host statistics across the buffer's lifetime.
// Count and LastSeen only move forward; HasAuth is sticky once set.
type HostAggregate struct {
	Host     string    `json:"host"`
	Count    int       `json:"count"`
	LastSeen time.Time `json:"last_seen"`
	HasAuth  bool      `json:"has_auth"`
}

// CaptureState is a snapshot of the live-capture session.
type CaptureState struct {
	Active        bool   `json:"active"`
	TargetHost    string `json:"target_host,omitempty"`
	CollectionID  string `json:"collection_id,omitempty"`
	CapturedCount int    `json:"captured_count"`
	SyncedCount   int    `json:"synced_count"`
}

// PendingRequest tracks an in-flight request between the pre-send event and
// the headers-ready/finalize events.
type PendingRequest struct {
	Method       string
	URL          string
	Headers      []Header
	Body         string
	ResourceType string
	Seen         time.Time
}
