package review

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/openraise/screening/internal/domain/enums"
)

// MemoryStore keeps review items in process memory. It backs tests and the
// degraded mode the API falls into when Postgres is unavailable. The mutex
// serializes transitions so an item can never be reviewed twice.
type MemoryStore struct {
	mu    sync.Mutex
	items map[string]Item
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string]Item)}
}

func (s *MemoryStore) Insert(_ context.Context, item Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items[item.ID] = item
	return nil
}

func (s *MemoryStore) ListPending(_ context.Context) ([]Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pending := make([]Item, 0, len(s.items))
	for _, item := range s.items {
		if item.Status == enums.ReviewStatusPending {
			pending = append(pending, item)
		}
	}
	sort.Slice(pending, func(i, j int) bool {
		if !pending[i].CreatedAt.Equal(pending[j].CreatedAt) {
			return pending[i].CreatedAt.After(pending[j].CreatedAt)
		}
		return pending[i].ID > pending[j].ID
	})
	return pending, nil
}

func (s *MemoryStore) GetByID(_ context.Context, id string) (Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[id]
	if !ok {
		return Item{}, ErrNotFound
	}
	return item, nil
}

func (s *MemoryStore) TransitionToReviewed(_ context.Context, id string, decision enums.Decision, reviewerID, notes string, reviewedAt time.Time) (Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[id]
	if !ok {
		return Item{}, ErrNotFound
	}
	if item.Status != enums.ReviewStatusPending {
		return Item{}, ErrAlreadyReviewed
	}

	item.Status = enums.ReviewStatusReviewed
	item.Verdict.Decision = decision
	item.ReviewedBy = &reviewerID
	item.ReviewedAt = &reviewedAt
	item.ReviewNotes = &notes
	s.items[id] = item

	return item, nil
}
