package test

import (
	"context"
	"sync"

	"github.com/quickedu/checkout/internal/domain/model"
)

// SweeperFacadeStub implements the sweeper's facade for worker tests.
type SweeperFacadeStub struct {
	sync.Mutex
	Batches   [][]model.Purchase
	Resolved  []string
	ResolveFn func(ctx context.Context, orderID string) error
	Err       error
}

func (s *SweeperFacadeStub) StalePending(ctx context.Context, limit int) ([]model.Purchase, error) {
	s.Lock()
	defer s.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	if len(s.Batches) == 0 {
		return nil, nil
	}
	batch := s.Batches[0]
	s.Batches = s.Batches[1:]
	if len(batch) > limit {
		batch = batch[:limit]
	}
	return batch, nil
}

func (s *SweeperFacadeStub) ResolvePending(ctx context.Context, orderID string) error {
	s.Lock()
	s.Resolved = append(s.Resolved, orderID)
	fn := s.ResolveFn
	s.Unlock()
	if fn != nil {
		return fn(ctx, orderID)
	}
	return nil
}

// ResolvedCount returns how many purchases the sweeper resolved.
func (s *SweeperFacadeStub) ResolvedCount() int {
	s.Lock()
	defer s.Unlock()
	return len(s.Resolved)
}
