package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/quickedu/checkout/internal/domain/model"
)

// CheckoutFacade exposes the subset of application functionality required by the sweeper.
type CheckoutFacade interface {
	StalePending(ctx context.Context, limit int) ([]model.Purchase, error)
	ResolvePending(ctx context.Context, orderID string) error
}

// PendingSweeper polls for purchases stuck in PENDING and re-verifies them
// against the gateway concurrently.
type PendingSweeper struct {
	facade       CheckoutFacade
	pollInterval time.Duration
	batchSize    int
	workers      int
	logger       *slog.Logger

	jobs   chan model.Purchase
	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewPendingSweeper constructs the sweeper worker pool.
func NewPendingSweeper(facade CheckoutFacade, pollInterval time.Duration, batchSize, workers int, logger *slog.Logger) *PendingSweeper {
	if workers <= 0 {
		workers = 1
	}
	if batchSize <= 0 {
		batchSize = 1
	}
	return &PendingSweeper{
		facade:       facade,
		pollInterval: pollInterval,
		batchSize:    batchSize,
		workers:      workers,
		logger:       logger,
		jobs:         make(chan model.Purchase, batchSize*workers),
	}
}

// Start launches background sweeping.
func (s *PendingSweeper) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	for i := 0; i < s.workers; i++ {
		s.wg.Add(1)
		go s.worker(runCtx)
	}

	s.wg.Add(1)
	go s.dispatch(runCtx)
}

// Stop waits for all workers to finish.
func (s *PendingSweeper) Stop() {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.mu.Unlock()

	s.wg.Wait()
}

func (s *PendingSweeper) dispatch(ctx context.Context) {
	defer s.wg.Done()
	defer close(s.jobs)
	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.fetchAndDispatch(ctx)
		}
	}
}

func (s *PendingSweeper) fetchAndDispatch(ctx context.Context) {
	purchases, err := s.facade.StalePending(ctx, s.batchSize)
	if err != nil {
		s.logger.Error("fetch stale pending purchases failed", slog.String("error", err.Error()))
		return
	}
	for _, purchase := range purchases {
		select {
		case <-ctx.Done():
			return
		case s.jobs <- purchase:
		}
	}
}

func (s *PendingSweeper) worker(ctx context.Context) {
	defer s.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case purchase, ok := <-s.jobs:
			if !ok {
				return
			}
			if err := s.facade.ResolvePending(ctx, purchase.OrderID); err != nil {
				s.logger.Error("resolve pending purchase failed",
					slog.String("order", purchase.OrderID),
					slog.String("error", err.Error()),
				)
			}
		}
	}
}
