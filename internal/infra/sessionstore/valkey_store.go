package sessionstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/run-reporter/internal/domain/activity"
	"github.com/yanqian/run-reporter/internal/domain/session"
)

// ValkeyStore shares sessions between API replicas through a Valkey-compatible database.
// Every key carries the session TTL, so nothing outlives the session.
type ValkeyStore struct {
	client valkey.Client
	prefix string
}

// NewValkeyStore constructs a new store backed by Valkey.
func NewValkeyStore(client valkey.Client, prefix string) *ValkeyStore {
	if prefix == "" {
		prefix = "reporter"
	}
	return &ValkeyStore{client: client, prefix: prefix}
}

func (s *ValkeyStore) Save(ctx context.Context, sess session.Session, ttl time.Duration) error {
	payload, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return s.setString(ctx, s.sessionKey(sess.ID), string(payload), ttl)
}

func (s *ValkeyStore) Get(ctx context.Context, id string) (session.Session, bool, error) {
	var sess session.Session
	found, err := s.getJSON(ctx, s.sessionKey(id), &sess)
	if err != nil || !found {
		return session.Session{}, false, err
	}
	return sess, true, nil
}

func (s *ValkeyStore) Delete(ctx context.Context, id string) error {
	cmd := s.client.B().Del().Key(s.sessionKey(id), s.stateKey(id)).Build()
	return s.client.Do(ctx, cmd).Error()
}

func (s *ValkeyStore) LoadState(ctx context.Context, id string) (activity.State, bool, error) {
	var state activity.State
	found, err := s.getJSON(ctx, s.stateKey(id), &state)
	if err != nil || !found {
		return activity.State{}, false, err
	}
	return state, true, nil
}

// SaveState stores the view state with the remaining lifetime of its session.
func (s *ValkeyStore) SaveState(ctx context.Context, id string, state activity.State) error {
	ttl, err := s.client.Do(ctx, s.client.B().Pttl().Key(s.sessionKey(id)).Build()).AsInt64()
	if err != nil {
		return err
	}
	lifetime, ok := stateTTL(ttl)
	if !ok {
		return nil
	}
	payload, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return s.setString(ctx, s.stateKey(id), string(payload), lifetime)
}

// stateTTL turns a PTTL reply for the session key into the lifetime of its state key.
// ok is false when the session key is gone (-2). Zero means no expiry (-1). Positive
// values round up to whole seconds so the state never expires before its session.
func stateTTL(pttlMillis int64) (time.Duration, bool) {
	switch {
	case pttlMillis == -2:
		return 0, false
	case pttlMillis < 0:
		return 0, true
	case pttlMillis == 0:
		return time.Second, true
	}
	ttl := time.Duration(pttlMillis) * time.Millisecond
	if rem := ttl % time.Second; rem != 0 {
		ttl += time.Second - rem
	}
	return ttl, true
}

// Close releases the underlying client.
func (s *ValkeyStore) Close() error {
	s.client.Close()
	return nil
}

func (s *ValkeyStore) getJSON(ctx context.Context, key string, dst any) (bool, error) {
	payload, err := s.client.Do(ctx, s.client.B().Get().Key(key).Build()).ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal([]byte(payload), dst); err != nil {
		return false, err
	}
	return true, nil
}

func (s *ValkeyStore) setString(ctx context.Context, key, value string, ttl time.Duration) error {
	builder := s.client.B().Set().Key(key).Value(value)
	var cmd valkey.Completed
	if ttl > 0 {
		if ttl < time.Second {
			ttl = time.Second
		}
		cmd = builder.Ex(ttl).Build()
	} else {
		cmd = builder.Build()
	}
	return s.client.Do(ctx, cmd).Error()
}

func (s *ValkeyStore) sessionKey(id string) string {
	return fmt.Sprintf("%s:session:%s", s.prefix, id)
}

func (s *ValkeyStore) stateKey(id string) string {
	return fmt.Sprintf("%s:state:%s", s.prefix, id)
}
