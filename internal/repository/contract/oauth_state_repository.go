package contract

import (
	"context"
	"time"
)

// OAuthStateRepository stores the anti-CSRF state of the Google redirect flow.
type OAuthStateRepository interface {
	Save(ctx context.Context, state string, ttl time.Duration) error
	// Consume reports whether state was known and unexpired, and forgets it.
	Consume(ctx context.Context, state string) (bool, error)
}
