package implementation

import (
	"context"
	"errors"
	"time"

	"notekeeper-be/internal/repository/contract"

	"github.com/redis/go-redis/v9"
)

const oauthStateKeyPrefix = "oauth_state:"

// RedisOAuthStateRepository shares OAuth state between instances, so the
// callback may land on a different instance than the login redirect.
type RedisOAuthStateRepository struct {
	rdb *redis.Client
}

func NewRedisOAuthStateRepository(rdb *redis.Client) contract.OAuthStateRepository {
	return &RedisOAuthStateRepository{rdb: rdb}
}

func (r *RedisOAuthStateRepository) Save(ctx context.Context, state string, ttl time.Duration) error {
	return r.rdb.Set(ctx, oauthStateKeyPrefix+state, "1", ttl).Err()
}

func (r *RedisOAuthStateRepository) Consume(ctx context.Context, state string) (bool, error) {
	err := r.rdb.GetDel(ctx, oauthStateKeyPrefix+state).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
