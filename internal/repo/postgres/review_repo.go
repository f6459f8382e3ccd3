package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/openraise/screening/internal/domain/enums"
	"github.com/openraise/screening/internal/services/review"
)

// ReviewRepo persists review queue items. The campaign and verdict
// snapshots are stored as JSONB so the reviewer always sees exactly what
// was screened, even if screening rules change later.
type ReviewRepo struct {
	pool *pgxpool.Pool
}

func NewReviewRepo(pool *pgxpool.Pool) *ReviewRepo {
	return &ReviewRepo{pool: pool}
}

func (r *ReviewRepo) Insert(ctx context.Context, item review.Item) error {
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}
	if item.ID == "" {
		return fmt.Errorf("invalid review item payload")
	}

	campaignJSON, err := json.Marshal(item.Campaign)
	if err != nil {
		return fmt.Errorf("marshal campaign snapshot: %w", err)
	}
	verdictJSON, err := json.Marshal(item.Verdict)
	if err != nil {
		return fmt.Errorf("marshal verdict snapshot: %w", err)
	}

	if _, err := r.pool.Exec(ctx, `
INSERT INTO review_items (
	id,
	campaign,
	verdict,
	status,
	created_at
) VALUES ($1, $2, $3, $4, $5)
`, item.ID, campaignJSON, verdictJSON, string(item.Status), item.CreatedAt); err != nil {
		return fmt.Errorf("insert review item: %w", err)
	}

	return nil
}

func (r *ReviewRepo) ListPending(ctx context.Context) ([]review.Item, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}

	rows, err := r.pool.Query(ctx, `
SELECT id, campaign, verdict, status, created_at, reviewed_by, reviewed_at, review_notes
FROM review_items
WHERE status = 'PENDING'
ORDER BY created_at DESC, id DESC
`)
	if err != nil {
		return nil, fmt.Errorf("list pending review items: %w", err)
	}
	defer rows.Close()

	var items []review.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate review items: %w", err)
	}

	return items, nil
}

func (r *ReviewRepo) GetByID(ctx context.Context, id string) (review.Item, error) {
	if r.pool == nil {
		return review.Item{}, fmt.Errorf("postgres pool is nil")
	}
	if id == "" {
		return review.Item{}, review.ErrNotFound
	}

	row := r.pool.QueryRow(ctx, `
SELECT id, campaign, verdict, status, created_at, reviewed_by, reviewed_at, review_notes
FROM review_items
WHERE id = $1
LIMIT 1
`, id)
	item, err := scanItem(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return review.Item{}, review.ErrNotFound
		}
		return review.Item{}, err
	}

	return item, nil
}

// TransitionToReviewed flips a PENDING item to REVIEWED in one guarded
// UPDATE. The status predicate makes the transition atomic: of any number
// of concurrent reviewers, exactly one sees the row update.
func (r *ReviewRepo) TransitionToReviewed(ctx context.Context, id string, decision enums.Decision, reviewerID, notes string, reviewedAt time.Time) (review.Item, error) {
	if r.pool == nil {
		return review.Item{}, fmt.Errorf("postgres pool is nil")
	}
	if id == "" {
		return review.Item{}, review.ErrNotFound
	}

	var item review.Item
	err := WithTx(ctx, r.pool, func(ctx context.Context, tx pgx.Tx) error {
		row := tx.QueryRow(ctx, `
UPDATE review_items
SET
	status = 'REVIEWED',
	verdict = jsonb_set(verdict, '{decision}', to_jsonb($2::text)),
	reviewed_by = $3,
	reviewed_at = $4,
	review_notes = $5
WHERE id = $1 AND status = 'PENDING'
RETURNING id, campaign, verdict, status, created_at, reviewed_by, reviewed_at, review_notes
`, id, string(decision), reviewerID, reviewedAt, notes)
		updated, err := scanItem(row)
		if err == nil {
			item = updated
			return nil
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return err
		}

		// No row matched: either the item does not exist or it was
		// already reviewed. Look it up to report the right error.
		var status string
		if lookupErr := tx.QueryRow(ctx, `
SELECT status FROM review_items WHERE id = $1
`, id).Scan(&status); lookupErr != nil {
			if errors.Is(lookupErr, pgx.ErrNoRows) {
				return review.ErrNotFound
			}
			return fmt.Errorf("look up review item: %w", lookupErr)
		}

		return review.ErrAlreadyReviewed
	})
	if err != nil {
		return review.Item{}, err
	}

	return item, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (review.Item, error) {
	var (
		item         review.Item
		campaignJSON []byte
		verdictJSON  []byte
		status       string
	)
	if err := row.Scan(
		&item.ID,
		&campaignJSON,
		&verdictJSON,
		&status,
		&item.CreatedAt,
		&item.ReviewedBy,
		&item.ReviewedAt,
		&item.ReviewNotes,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return review.Item{}, pgx.ErrNoRows
		}
		return review.Item{}, fmt.Errorf("scan review item: %w", err)
	}

	item.Status = enums.ReviewStatus(status)
	if err := json.Unmarshal(campaignJSON, &item.Campaign); err != nil {
		return review.Item{}, fmt.Errorf("unmarshal campaign snapshot: %w", err)
	}
	if err := json.Unmarshal(verdictJSON, &item.Verdict); err != nil {
		return review.Item{}, fmt.Errorf("unmarshal verdict snapshot: %w", err)
	}

	return item, nil
}

var _ review.Store = (*ReviewRepo)(nil)
