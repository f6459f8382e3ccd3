package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/openraise/screening/internal/domain"
)

const verdictPrefix = "verdict:"

// VerdictCacheRepo keeps recent verdicts keyed by campaign content hash so
// identical resubmissions skip the full pipeline.
type VerdictCacheRepo struct {
	client *goredis.Client
	ttl    time.Duration
}

func NewVerdictCacheRepo(client *goredis.Client, ttl time.Duration) *VerdictCacheRepo {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &VerdictCacheRepo{client: client, ttl: ttl}
}

func (r *VerdictCacheRepo) Get(ctx context.Context, key string) (domain.Verdict, bool, error) {
	if r.client == nil {
		return domain.Verdict{}, false, fmt.Errorf("redis client is nil")
	}
	if key == "" {
		return domain.Verdict{}, false, nil
	}

	raw, err := r.client.Get(ctx, verdictKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return domain.Verdict{}, false, nil
		}
		return domain.Verdict{}, false, fmt.Errorf("get cached verdict: %w", err)
	}

	var verdict domain.Verdict
	if err := json.Unmarshal(raw, &verdict); err != nil {
		// A stale or corrupt entry is treated as a miss.
		return domain.Verdict{}, false, nil
	}

	return verdict, true, nil
}

func (r *VerdictCacheRepo) Set(ctx context.Context, key string, verdict domain.Verdict) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	if key == "" {
		return fmt.Errorf("cache key is required")
	}

	raw, err := json.Marshal(verdict)
	if err != nil {
		return fmt.Errorf("marshal verdict: %w", err)
	}

	if err := r.client.Set(ctx, verdictKey(key), raw, r.ttl).Err(); err != nil {
		return fmt.Errorf("set cached verdict: %w", err)
	}

	return nil
}

func verdictKey(hash string) string {
	return verdictPrefix + hash
}
