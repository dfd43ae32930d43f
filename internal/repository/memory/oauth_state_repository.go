package memory

import (
	"context"
	"sync"
	"time"

	"notekeeper-be/internal/repository/contract"

	"github.com/patrickmn/go-cache"
)

type OAuthStateRepository struct {
	mu    sync.Mutex
	cache *cache.Cache
}

func NewOAuthStateRepository() contract.OAuthStateRepository {
	// States live 10 minutes; purge expired items every 5.
	c := cache.New(10*time.Minute, 5*time.Minute)
	return &OAuthStateRepository{
		cache: c,
	}
}

func (r *OAuthStateRepository) Save(_ context.Context, state string, ttl time.Duration) error {
	r.cache.Set(state, struct{}{}, ttl)
	return nil
}

func (r *OAuthStateRepository) Consume(_ context.Context, state string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, found := r.cache.Get(state); !found {
		return false, nil
	}
	r.cache.Delete(state)
	return true, nil
}
