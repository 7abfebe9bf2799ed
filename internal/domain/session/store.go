package session

import (
	"context"
	"time"

	"github.com/yanqian/run-reporter/internal/infra/transport"
)

// Store keeps sessions for at most their TTL.
type Store interface {
	Save(ctx context.Context, s Session, ttl time.Duration) error
	Get(ctx context.Context, id string) (Session, bool, error)
	// Delete removes the session and any view state kept under the same ID.
	Delete(ctx context.Context, id string) error
}

// Upstream authenticates against the remote activity service.
type Upstream interface {
	Authenticate(ctx context.Context, creds Credentials) transport.Result[AuthToken]
}
