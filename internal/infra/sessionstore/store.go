package sessionstore

import (
	"github.com/yanqian/run-reporter/internal/domain/activity"
	"github.com/yanqian/run-reporter/internal/domain/session"
)

// Store keeps a session and the activity view state that belongs to it under one lifetime.
type Store interface {
	session.Store
	activity.StateStore
	Close() error
}

var (
	_ Store = (*MemoryStore)(nil)
	_ Store = (*ValkeyStore)(nil)
)
