package syncer

import (
	"context"
	"log/slog"
	"sync"

	"github.com/dgnsrekt/apisync/internal/capture"
)

const defaultQueueSize = 64

// Worker drains the armed session's capture queue and upserts each request
// into the target collection. The capture path never waits on a sync;
// failures are logged, successes credit the session's synced counter.
type Worker struct {
	orch   *Orchestrator
	buffer *capture.Buffer
	jobs   chan capture.SyncJob
	done   chan struct{}
	wg     sync.WaitGroup
}

// NewWorker creates a worker and starts its loop. queueSize <= 0 falls back
// to a small default.
func NewWorker(orch *Orchestrator, buffer *capture.Buffer, queueSize int) *Worker {
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}
	w := &Worker{
		orch:   orch,
		buffer: buffer,
		jobs:   make(chan capture.SyncJob, queueSize),
		done:   make(chan struct{}),
	}
	w.wg.Add(1)
	go w.loop()
	return w
}

// Enqueue hands a job to the worker without blocking. When the queue is
// full the job is dropped and logged; the capture path must not stall.
func (w *Worker) Enqueue(job capture.SyncJob) {
	select {
	case w.jobs <- job:
	default:
		slog.Warn("sync queue full, dropping capture",
			"url", job.Request.URL,
			"collection_id", job.CollectionID,
		)
	}
}

// Close stops the loop. In-flight remote operations run to completion.
func (w *Worker) Close() {
	close(w.done)
	w.wg.Wait()
}

func (w *Worker) loop() {
	defer w.wg.Done()
	for {
		select {
		case job := <-w.jobs:
			w.run(job)
		case <-w.done:
			return
		}
	}
}

func (w *Worker) run(job capture.SyncJob) {
	created, name, err := w.orch.Upsert(context.Background(), job.Request, job.CollectionID)
	if err != nil {
		slog.Warn("auto-sync failed",
			"url", job.Request.URL,
			"collection_id", job.CollectionID,
			"error", err,
		)
		return
	}
	w.buffer.MarkSynced(job.Gen)
	slog.Debug("auto-sync complete", "name", name, "created", created)
}
