package review

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/openraise/screening/internal/domain"
	"github.com/openraise/screening/internal/domain/enums"
)

func heldVerdict() domain.Verdict {
	return domain.Verdict{
		Decision:  enums.DecisionHold,
		Risk:      0.4,
		Rationale: []string{"medical claims without verification documents mentioned"},
	}
}

func TestEnqueueCreatesPendingItem(t *testing.T) {
	svc := NewService(NewMemoryStore())

	item, err := svc.Enqueue(context.Background(), domain.Campaign{Title: "Help"}, heldVerdict())
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	if item.Status != enums.ReviewStatusPending {
		t.Fatalf("new item should be PENDING, got %s", item.Status)
	}
	if item.ID == "" {
		t.Fatalf("item id should be set")
	}
	if item.CreatedAt.IsZero() {
		t.Fatalf("created_at should be set")
	}
}

func TestReviewTransitionsOnce(t *testing.T) {
	svc := NewService(NewMemoryStore())

	item, err := svc.Enqueue(context.Background(), domain.Campaign{Title: "Help"}, heldVerdict())
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	reviewed, err := svc.Review(context.Background(), item.ID, enums.DecisionReject, "payment details in text", "rev-42")
	if err != nil {
		t.Fatalf("review: %v", err)
	}
	if reviewed.Status != enums.ReviewStatusReviewed {
		t.Fatalf("unexpected status: %s", reviewed.Status)
	}
	if reviewed.Verdict.Decision != enums.DecisionReject {
		t.Fatalf("human decision should overwrite verdict decision, got %s", reviewed.Verdict.Decision)
	}
	if len(reviewed.Verdict.Rationale) != 1 {
		t.Fatalf("automated rationale must stay in the record, got %v", reviewed.Verdict.Rationale)
	}
	if reviewed.ReviewedBy == nil || *reviewed.ReviewedBy != "rev-42" {
		t.Fatalf("reviewer identity not recorded: %v", reviewed.ReviewedBy)
	}
	if reviewed.ReviewedAt == nil || reviewed.ReviewedAt.IsZero() {
		t.Fatalf("reviewed_at not recorded")
	}

	if _, err := svc.Review(context.Background(), item.ID, enums.DecisionApprove, "", "rev-43"); !errors.Is(err, ErrAlreadyReviewed) {
		t.Fatalf("second review must fail with ErrAlreadyReviewed, got %v", err)
	}
}

func TestReviewRejectsInvalidInput(t *testing.T) {
	svc := NewService(NewMemoryStore())

	if _, err := svc.Review(context.Background(), "missing", enums.DecisionApprove, "", "rev-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown id should be ErrNotFound, got %v", err)
	}

	item, err := svc.Enqueue(context.Background(), domain.Campaign{Title: "Help"}, heldVerdict())
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	if _, err := svc.Review(context.Background(), item.ID, enums.DecisionHold, "", "rev-1"); !errors.Is(err, ErrInvalidDecision) {
		t.Fatalf("HOLD is not a valid human outcome, got %v", err)
	}
	if _, err := svc.Review(context.Background(), item.ID, "ESCALATE", "", "rev-1"); !errors.Is(err, ErrInvalidDecision) {
		t.Fatalf("unknown decision should be ErrInvalidDecision, got %v", err)
	}
}

func TestListPendingNewestFirst(t *testing.T) {
	store := NewMemoryStore()
	svc := NewService(store)

	times := []time.Time{
		time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC),
		time.Date(2025, 5, 1, 11, 0, 0, 0, time.UTC),
		time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC),
	}
	idx := 0
	svc.now = func() time.Time {
		t := times[idx]
		idx++
		return t
	}

	var ids []string
	for range times {
		item, err := svc.Enqueue(context.Background(), domain.Campaign{Title: "Help"}, heldVerdict())
		if err != nil {
			t.Fatalf("enqueue: %v", err)
		}
		ids = append(ids, item.ID)
	}

	pending, err := svc.ListPending(context.Background())
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(pending) != 3 {
		t.Fatalf("expected 3 pending items, got %d", len(pending))
	}
	if pending[0].ID != ids[2] || pending[2].ID != ids[0] {
		t.Fatalf("pending items should be newest first: %v", []string{pending[0].ID, pending[1].ID, pending[2].ID})
	}

	if _, err := svc.Review(context.Background(), ids[1], enums.DecisionApprove, "", "rev-1"); err != nil {
		t.Fatalf("review: %v", err)
	}
	pending, err = svc.ListPending(context.Background())
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("reviewed items should leave the pending list, got %d", len(pending))
	}
}

func TestConcurrentReviewsOnlyOneWins(t *testing.T) {
	svc := NewService(NewMemoryStore())

	item, err := svc.Enqueue(context.Background(), domain.Campaign{Title: "Help"}, heldVerdict())
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	const attempts = 16
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Review(context.Background(), item.ID, enums.DecisionApprove, "", "rev-1")
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		if err == nil {
			wins++
		} else if !errors.Is(err, ErrAlreadyReviewed) {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if wins != 1 {
		t.Fatalf("exactly one concurrent review must win, got %d", wins)
	}
}
