package review

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/openraise/screening/internal/domain"
	"github.com/openraise/screening/internal/domain/enums"
)

var (
	ErrNotFound        = errors.New("review item not found")
	ErrInvalidDecision = errors.New("invalid review decision")
	ErrAlreadyReviewed = errors.New("review item already reviewed")
)

// Item is one held campaign awaiting human adjudication. Campaign and
// Verdict are snapshots taken at enqueue time; once the item is reviewed it
// never changes again and is never deleted.
type Item struct {
	ID          string
	Campaign    domain.Campaign
	Verdict     domain.Verdict
	Status      enums.ReviewStatus
	CreatedAt   time.Time
	ReviewedBy  *string
	ReviewedAt  *time.Time
	ReviewNotes *string
}

// Store persists review items. TransitionToReviewed must be exclusive per
// item: it only succeeds while the stored status is still PENDING.
type Store interface {
	Insert(ctx context.Context, item Item) error
	ListPending(ctx context.Context) ([]Item, error)
	GetByID(ctx context.Context, id string) (Item, error)
	TransitionToReviewed(ctx context.Context, id string, decision enums.Decision, reviewerID, notes string, reviewedAt time.Time) (Item, error)
}

type Service struct {
	store Store
	now   func() time.Time
}

func NewService(store Store) *Service {
	return &Service{
		store: store,
		now:   time.Now,
	}
}

// Enqueue creates a PENDING item for a campaign the decision engine held.
func (s *Service) Enqueue(ctx context.Context, campaign domain.Campaign, verdict domain.Verdict) (Item, error) {
	if s.store == nil {
		return Item{}, fmt.Errorf("review store is not configured")
	}

	id, err := uuid.NewV7()
	if err != nil {
		return Item{}, fmt.Errorf("generate review item id: %w", err)
	}

	item := Item{
		ID:        id.String(),
		Campaign:  campaign,
		Verdict:   verdict,
		Status:    enums.ReviewStatusPending,
		CreatedAt: s.now().UTC(),
	}
	if err := s.store.Insert(ctx, item); err != nil {
		return Item{}, fmt.Errorf("insert review item: %w", err)
	}

	return item, nil
}

// ListPending returns items awaiting review, most recent first.
func (s *Service) ListPending(ctx context.Context) ([]Item, error) {
	if s.store == nil {
		return nil, fmt.Errorf("review store is not configured")
	}
	return s.store.ListPending(ctx)
}

// PendingCount reports the current queue depth.
func (s *Service) PendingCount(ctx context.Context) (int, error) {
	items, err := s.ListPending(ctx)
	if err != nil {
		return 0, err
	}
	return len(items), nil
}

// Review applies the single terminal transition. A human must resolve the
// ambiguity one way or the other, so HOLD is not a permitted outcome. On
// success the stored verdict's decision field is overwritten with the human
// decision; the automated rationale stays in the record for audit.
func (s *Service) Review(ctx context.Context, itemID string, decision enums.Decision, notes, reviewerID string) (Item, error) {
	if s.store == nil {
		return Item{}, fmt.Errorf("review store is not configured")
	}
	if strings.TrimSpace(itemID) == "" {
		return Item{}, ErrNotFound
	}
	if decision != enums.DecisionApprove && decision != enums.DecisionReject {
		return Item{}, ErrInvalidDecision
	}
	if strings.TrimSpace(reviewerID) == "" {
		return Item{}, fmt.Errorf("reviewer id is required")
	}

	item, err := s.store.TransitionToReviewed(ctx, itemID, decision, reviewerID, notes, s.now().UTC())
	if err != nil {
		return Item{}, err
	}

	return item, nil
}
