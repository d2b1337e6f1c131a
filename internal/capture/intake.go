package capture

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dgnsrekt/apisync/internal/classify"
	"github.com/dgnsrekt/apisync/internal/types"
)

// Intake correlates the transport's per-request events into finalized
// CapturedRequests. A logical request arrives as a pre-send event (body,
// method, URL, initial headers) and a headers-ready event (wire headers,
// cookies included); finalization happens when the transport reports the
// request as sent or failed.
type Intake struct {
	buffer *Buffer

	pending   map[string]*types.PendingRequest
	pendingMu sync.Mutex

	done chan struct{}
}

// NewIntake creates an intake feeding the given buffer and starts the
// stale-entry sweeper.
func NewIntake(buffer *Buffer) *Intake {
	in := &Intake{
		buffer:  buffer,
		pending: make(map[string]*types.PendingRequest),
		done:    make(chan struct{}),
	}
	go in.cleanupLoop()
	return in
}

// Close stops the sweeper.
func (in *Intake) Close() {
	close(in.done)
}

// OnPreSend records the first event of a transaction. Requests filtered out
// as non-API traffic never enter the pending table.
func (in *Intake) OnPreSend(requestID, method, rawURL, body, resourceType string, headers []types.Header) {
	if !IsAPITraffic(rawURL, resourceType) {
		return
	}
	body, truncated, origLen, hash := truncateStringBytes(body, maxCapturedBodyBytes)
	if truncated {
		slog.Debug("request body truncated",
			"request_id", requestID, "original_bytes", origLen, "sha256", hash)
	}
	in.pendingMu.Lock()
	in.pending[requestID] = &types.PendingRequest{
		Method:       method,
		URL:          rawURL,
		Headers:      headers,
		Body:         body,
		ResourceType: resourceType,
		Seen:         time.Now(),
	}
	in.pendingMu.Unlock()
}

// OnHeadersReady merges the wire header list into the pending entry. Wire
// headers are appended after the pre-send ones so earlier captures keep
// first-match precedence; names already present are skipped.
func (in *Intake) OnHeadersReady(requestID string, headers []types.Header) {
	in.pendingMu.Lock()
	defer in.pendingMu.Unlock()
	p, ok := in.pending[requestID]
	if !ok {
		return
	}
	for _, h := range headers {
		if hasHeader(p.Headers, h.Name) {
			continue
		}
		p.Headers = append(p.Headers, h)
	}
}

// OnFinalized takes the pending entry out of the join table, classifies it,
// and admits it to the buffer. Unknown ids are ignored.
func (in *Intake) OnFinalized(requestID string) {
	in.pendingMu.Lock()
	p, ok := in.pending[requestID]
	if ok {
		delete(in.pending, requestID)
	}
	in.pendingMu.Unlock()
	if !ok {
		return
	}

	req := &types.CapturedRequest{
		ID:        newRequestID(),
		Timestamp: time.Now().UTC(),
		Method:    p.Method,
		URL:       p.URL,
		Headers:   p.Headers,
		Body:      p.Body,
		BodyJSON:  isJSON(p.Body),
		Auth:      classify.Classify(p.Headers),
	}
	in.buffer.Record(req)
}

// OnAborted drops a pending entry without recording it.
func (in *Intake) OnAborted(requestID string) {
	in.pendingMu.Lock()
	delete(in.pending, requestID)
	in.pendingMu.Unlock()
}

// PendingCount reports the size of the join table.
func (in *Intake) PendingCount() int {
	in.pendingMu.Lock()
	defer in.pendingMu.Unlock()
	return len(in.pending)
}

// Reset drops every pending entry, for use alongside Buffer.Clear.
func (in *Intake) Reset() {
	in.pendingMu.Lock()
	in.pending = make(map[string]*types.PendingRequest)
	in.pendingMu.Unlock()
}

func (in *Intake) cleanupLoop() {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			in.cleanupStale()
		case <-in.done:
			return
		}
	}
}

func (in *Intake) cleanupStale() {
	threshold := time.Now().Add(-5 * time.Minute)

	in.pendingMu.Lock()
	defer in.pendingMu.Unlock()

	for id, p := range in.pending {
		if p.Seen.Before(threshold) {
			delete(in.pending, id)
		}
	}
}

func hasHeader(headers []types.Header, name string) bool {
	for _, h := range headers {
		if strings.EqualFold(h.Name, name) {
			return true
		}
	}
	return false
}

func isJSON(body string) bool {
	body = strings.TrimSpace(body)
	if body == "" || (body[0] != '{' && body[0] != '[') {
		return false
	}
	return json.Valid([]byte(body))
}

// newRequestID builds an id unique within the buffer's lifetime:
// unix-millis plus a short random suffix.
func newRequestID() string {
	return fmt.Sprintf("%d-%s", time.Now().UnixMilli(), uuid.NewString()[:8])
}
