// Package capture holds the in-memory store of recently observed requests:
// a bounded newest-first buffer, per-host aggregates, and the armed
// live-capture session that forwards matching traffic to the sync worker.
package capture

import (
	"log/slog"
	"sort"
	"sync"

	"github.com/dgnsrekt/apisync/internal/types"
	"github.com/dgnsrekt/apisync/internal/urlpattern"
)

// DefaultCap bounds the buffer when no explicit capacity is configured.
const DefaultCap = 100

// Publisher receives capture lifecycle events for fan-out to UI clients.
type Publisher interface {
	Publish(kind string, payload any)
}

// SyncJob is one captured request handed to the sync worker by an armed
// session. Gen identifies the session the job belongs to so late
// completions cannot credit a newer session.
type SyncJob struct {
	Request      *types.CapturedRequest
	CollectionID string
	Gen          uint64
}

type session struct {
	active       bool
	host         string
	collectionID string
	captured     int
	synced       int
	gen          uint64
	onCapture    func(SyncJob)
}

// Buffer is the bounded request store. All methods are safe for concurrent
// use; none block on I/O.
type Buffer struct {
	mu       sync.Mutex
	cap      int
	requests []*types.CapturedRequest
	hosts    map[string]*types.HostAggregate
	session  session
	pub      Publisher
}

// NewBuffer creates a buffer holding at most capacity requests. A nil
// publisher disables event fan-out; capacity <= 0 falls back to DefaultCap.
func NewBuffer(capacity int, pub Publisher) *Buffer {
	if capacity <= 0 {
		capacity = DefaultCap
	}
	return &Buffer{
		cap:   capacity,
		hosts: make(map[string]*types.HostAggregate),
		pub:   pub,
	}
}

// Record admits a finalized request: prepend, evict the oldest beyond
// capacity, update the host aggregate, and hand the request to the armed
// session when its host matches. Never blocks on the sync path.
func (b *Buffer) Record(req *types.CapturedRequest) {
	host := urlpattern.Host(req.URL)

	b.mu.Lock()
	b.requests = append([]*types.CapturedRequest{req}, b.requests...)
	if len(b.requests) > b.cap {
		b.requests = b.requests[:b.cap]
	}

	if host != "" {
		agg, ok := b.hosts[host]
		if !ok {
			agg = &types.HostAggregate{Host: host}
			b.hosts[host] = agg
		}
		agg.Count++
		agg.LastSeen = req.Timestamp
		if req.Auth.Type != types.AuthNone {
			agg.HasAuth = true
		}
	}

	var job *SyncJob
	if b.session.active && b.session.host == host && host != "" {
		b.session.captured++
		if b.session.onCapture != nil {
			job = &SyncJob{Request: req, CollectionID: b.session.collectionID, Gen: b.session.gen}
		}
	}
	onCapture := b.session.onCapture
	b.mu.Unlock()

	if job != nil {
		onCapture(*job)
	}
	if b.pub != nil {
		b.pub.Publish("request.captured", req)
	}
}

// List returns the buffered requests, newest first.
func (b *Buffer) List() []*types.CapturedRequest {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]*types.CapturedRequest, len(b.requests))
	copy(out, b.requests)
	return out
}

// Get returns the request with the given id.
func (b *Buffer) Get(id string) (*types.CapturedRequest, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, r := range b.requests {
		if r.ID == id {
			return r, true
		}
	}
	return nil, false
}

// Len reports the number of buffered requests.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.requests)
}

// Clear drops every buffered request. Host aggregates survive a clear; they
// describe observed traffic, not buffer contents.
func (b *Buffer) Clear() {
	b.mu.Lock()
	b.requests = nil
	b.mu.Unlock()
	slog.Debug("capture buffer cleared")
}

// Hosts returns host aggregates ordered by last-seen descending.
func (b *Buffer) Hosts() []types.HostAggregate {
	b.mu.Lock()
	out := make([]types.HostAggregate, 0, len(b.hosts))
	for _, agg := range b.hosts {
		out = append(out, *agg)
	}
	b.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].LastSeen.After(out[j].LastSeen)
	})
	return out
}

// RequestsForHost filters the buffer by parsed URL host, newest first.
func (b *Buffer) RequestsForHost(host string) []*types.CapturedRequest {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []*types.CapturedRequest
	for _, r := range b.requests {
		if urlpattern.Host(r.URL) == host {
			out = append(out, r)
		}
	}
	return out
}

// MostRecentWithAuth returns the newest request for the host carrying a
// non-none auth descriptor.
func (b *Buffer) MostRecentWithAuth(host string) (*types.CapturedRequest, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, r := range b.requests {
		if r.Auth.Type != types.AuthNone && urlpattern.Host(r.URL) == host {
			return r, true
		}
	}
	return nil, false
}

// Arm starts a live-capture session for one host+collection pair. An
// already-armed session is replaced; its counters are discarded.
func (b *Buffer) Arm(host, collectionID string, onCapture func(SyncJob)) types.CaptureState {
	b.mu.Lock()
	b.session = session{
		active:       true,
		host:         host,
		collectionID: collectionID,
		gen:          b.session.gen + 1,
		onCapture:    onCapture,
	}
	state := b.stateLocked()
	b.mu.Unlock()

	slog.Info("capture session armed", "host", host, "collection_id", collectionID)
	if b.pub != nil {
		b.pub.Publish("session.started", state)
	}
	return state
}

// Disarm stops the session and returns its final snapshot. The capture
// callback is cleared so nothing further is auto-synced.
func (b *Buffer) Disarm() types.CaptureState {
	b.mu.Lock()
	final := b.stateLocked()
	b.session = session{gen: b.session.gen}
	b.mu.Unlock()

	slog.Info("capture session disarmed",
		"host", final.TargetHost,
		"captured", final.CapturedCount,
		"synced", final.SyncedCount,
	)
	if b.pub != nil {
		b.pub.Publish("session.stopped", final)
	}
	return final
}

// State returns the current session snapshot.
func (b *Buffer) State() types.CaptureState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.stateLocked()
}

// MarkSynced credits one successful remote write to the session identified
// by gen. Late completions from a previous session are ignored.
func (b *Buffer) MarkSynced(gen uint64) {
	b.mu.Lock()
	if b.session.active && b.session.gen == gen {
		b.session.synced++
	}
	b.mu.Unlock()
}

func (b *Buffer) stateLocked() types.CaptureState {
	return types.CaptureState{
		Active:        b.session.active,
		TargetHost:    b.session.host,
		CollectionID:  b.session.collectionID,
		CapturedCount: b.session.captured,
		SyncedCount:   b.session.synced,
	}
}
