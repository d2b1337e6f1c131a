package syncer

import (
	"testing"
	"time"

	"github.com/dgnsrekt/apisync/internal/capture"
	"github.com/dgnsrekt/apisync/internal/types"
)

func TestWorkerCreditsSessionOnSuccess(t *testing.T) {
	store := &fakeStore{t: t, doc: sampleDoc}
	o := newTestOrchestrator(store)
	buffer := capture.NewBuffer(10, nil)
	w := NewWorker(o, buffer, 4)
	defer w.Close()

	buffer.Arm("api.example.com", "c1", w.Enqueue)
	buffer.Record(&types.CapturedRequest{
		ID:        "r1",
		Timestamp: time.Now(),
		Method:    "GET",
		URL:       "https://api.example.com/api/users/5",
		Auth:      types.AuthDescriptor{Type: types.AuthNone},
	})

	deadline := time.After(2 * time.Second)
	for {
		if buffer.State().SyncedCount == 1 {
			break
		}
		select {
		case <-deadline:
			t.Fatalf("synced count never reached 1; state = %+v", buffer.State())
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestWorkerFailureLeavesSyncedCountAlone(t *testing.T) {
	store := &fakeStore{t: t, doc: sampleDoc, putFails: true}
	o := newTestOrchestrator(store)
	buffer := capture.NewBuffer(10, nil)
	w := NewWorker(o, buffer, 4)
	defer w.Close()

	buffer.Arm("api.example.com", "c1", w.Enqueue)
	buffer.Record(&types.CapturedRequest{
		ID:        "r1",
		Timestamp: time.Now(),
		Method:    "GET",
		URL:       "https://api.example.com/api/users/5",
		Auth:      types.AuthDescriptor{Type: types.AuthNone},
	})

	// Give the worker time to run the job and fail the remote write.
	deadline := time.After(2 * time.Second)
	for {
		if _, puts := store.counts(); puts > 0 {
			break
		}
		select {
		case <-deadline:
			t.Fatal("worker never attempted the remote write")
		case <-time.After(10 * time.Millisecond):
		}
	}
	if got := buffer.State().SyncedCount; got != 0 {
		t.Fatalf("SyncedCount = %d; want 0 after failed sync", got)
	}
	if got := buffer.State().CapturedCount; got != 1 {
		t.Fatalf("CapturedCount = %d; want 1", got)
	}
}
