package worker

import (
	"context"
	"log/slog"
	"sync"
)

// EffectJob is one best-effort follow-up of a completed purchase.
type EffectJob struct {
	Name string
	Run  func(ctx context.Context)
}

// EffectsQueue executes side-effect jobs on a fixed worker pool. Enqueue never
// blocks the caller; when the queue is full the job is dropped and logged.
type EffectsQueue struct {
	workers int
	logger  *slog.Logger

	jobs   chan EffectJob
	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewEffectsQueue constructs the queue with the given worker count and buffer.
func NewEffectsQueue(workers, queueSize int, logger *slog.Logger) *EffectsQueue {
	if workers <= 0 {
		workers = 1
	}
	if queueSize <= 0 {
		queueSize = 1
	}
	return &EffectsQueue{
		workers: workers,
		logger:  logger,
		jobs:    make(chan EffectJob, queueSize),
	}
}

// Start launches the worker pool.
func (q *EffectsQueue) Start(ctx context.Context) {
	q.mu.Lock()
	defer q.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	q.cancel = cancel

	for i := 0; i < q.workers; i++ {
		q.wg.Add(1)
		go q.worker(runCtx)
	}
}

// Stop cancels the workers and waits for in-flight jobs to finish. Jobs still
// buffered at shutdown are dropped.
func (q *EffectsQueue) Stop() {
	q.mu.Lock()
	if q.cancel != nil {
		q.cancel()
		q.cancel = nil
	}
	q.mu.Unlock()

	q.wg.Wait()
}

// Enqueue schedules a job. Returns false when the queue is full.
func (q *EffectsQueue) Enqueue(job EffectJob) bool {
	select {
	case q.jobs <- job:
		return true
	default:
		q.logger.Warn("effects queue full, dropping job", slog.String("job", job.Name))
		return false
	}
}

func (q *EffectsQueue) worker(ctx context.Context) {
	defer q.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-q.jobs:
			if !ok {
				return
			}
			job.Run(ctx)
		}
	}
}
