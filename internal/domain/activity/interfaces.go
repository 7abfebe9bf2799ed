package activity

import (
	"context"

	"github.com/yanqian/run-reporter/internal/infra/transport"
)

// Upstream reads activities from the remote activity service.
type Upstream interface {
	Latest(ctx context.Context, token string) transport.Result[Activity]
	List(ctx context.Context, token string, num int) transport.Result[[]Activity]
}

// Sessions exposes the bearer token of a session and lets the activity flow end it.
type Sessions interface {
	Token(ctx context.Context, sessionID string) (string, error)
	Logout(ctx context.Context, sessionID string) error
}

// StateStore keeps per-session view state alongside the session itself.
type StateStore interface {
	LoadState(ctx context.Context, sessionID string) (State, bool, error)
	SaveState(ctx context.Context, sessionID string, state State) error
}
