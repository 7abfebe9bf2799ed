package activity

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/run-reporter/internal/infra/transport"
	apperrors "github.com/yanqian/run-reporter/pkg/errors"
)

func TestServiceLatestSelectsWithoutGating(t *testing.T) {
	ride := Activity{ActivityID: 7, ActivityName: "Commute", ActivityType: Type{TypeKey: "cycling"}}
	upstream := &stubUpstream{latest: transport.Success(http.StatusOK, ride)}
	sessions := &stubSessions{token: "bearer"}
	svc := newTestService(upstream, sessions, newStateStore())

	got, err := svc.Latest(context.Background(), "sess")
	require.NoError(t, err)
	require.Equal(t, ride, got)
	require.Equal(t, "bearer", upstream.lastToken)

	selected, err := svc.Selected(context.Background(), "sess")
	require.NoError(t, err)
	require.Equal(t, int64(7), selected.ActivityID)
}

func TestServiceListMarksRunsSelectable(t *testing.T) {
	acts := []Activity{
		{ActivityID: 1, ActivityType: Type{TypeKey: TypeKeyRunning}},
		{ActivityID: 2, ActivityType: Type{TypeKey: "strength_training"}},
	}
	upstream := &stubUpstream{list: transport.Success(http.StatusOK, acts)}
	svc := newTestService(upstream, &stubSessions{token: "bearer"}, newStateStore())

	items, err := svc.List(context.Background(), "sess", 0)
	require.NoError(t, err)
	require.Equal(t, DefaultListSize, upstream.lastNum)
	require.Len(t, items, 2)
	require.True(t, items[0].Selectable)
	require.False(t, items[1].Selectable)
}

func TestServiceListClampsNum(t *testing.T) {
	upstream := &stubUpstream{list: transport.Success(http.StatusOK, []Activity{})}
	svc := newTestService(upstream, &stubSessions{token: "bearer"}, newStateStore())

	_, err := svc.List(context.Background(), "sess", 500)
	require.NoError(t, err)
	require.Equal(t, MaxListSize, upstream.lastNum)
}

func TestServiceSelectGating(t *testing.T) {
	acts := []Activity{
		{ActivityID: 1, ActivityType: Type{TypeKey: TypeKeyRunning}},
		{ActivityID: 2, ActivityType: Type{TypeKey: "swimming"}},
	}
	upstream := &stubUpstream{list: transport.Success(http.StatusOK, acts)}
	svc := newTestService(upstream, &stubSessions{token: "bearer"}, newStateStore())

	_, err := svc.List(context.Background(), "sess", 5)
	require.NoError(t, err)

	_, err = svc.Select(context.Background(), "sess", 2)
	require.True(t, apperrors.IsCode(err, apperrors.CodeNotSelectable))

	_, err = svc.Select(context.Background(), "sess", 99)
	require.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))

	picked, err := svc.Select(context.Background(), "sess", 1)
	require.NoError(t, err)
	require.Equal(t, int64(1), picked.ActivityID)

	selected, err := svc.Selected(context.Background(), "sess")
	require.NoError(t, err)
	require.Equal(t, int64(1), selected.ActivityID)
}

func TestServiceSelectedWithoutSelection(t *testing.T) {
	svc := newTestService(&stubUpstream{}, &stubSessions{}, newStateStore())

	_, err := svc.Selected(context.Background(), "sess")
	require.True(t, apperrors.IsCode(err, apperrors.CodeNoSelection))
}

func TestServiceExpiredTokenEndsSession(t *testing.T) {
	upstream := &stubUpstream{latest: transport.Failure[Activity](http.StatusUnauthorized, "Token has EXPIRED")}
	sessions := &stubSessions{token: "bearer"}
	svc := newTestService(upstream, sessions, newStateStore())

	_, err := svc.Latest(context.Background(), "sess")
	require.True(t, apperrors.IsCode(err, apperrors.CodeSessionExpired))
	require.Equal(t, "Your session has expired. Please log in again.", apperrors.MessageOf(err))
	require.Equal(t, []string{"sess"}, sessions.loggedOut)
}

func TestServiceForbiddenWithoutExpiryMarker(t *testing.T) {
	upstream := &stubUpstream{list: transport.Failure[[]Activity](http.StatusForbidden, "Account locked")}
	sessions := &stubSessions{token: "bearer"}
	svc := newTestService(upstream, sessions, newStateStore())

	_, err := svc.List(context.Background(), "sess", 5)
	require.True(t, apperrors.IsCode(err, apperrors.CodeUpstreamError))
	require.Equal(t, "Something went wrong. Please try again later.", apperrors.MessageOf(err))
	require.Empty(t, sessions.loggedOut)
}

func TestServiceServerErrorKeepsMessage(t *testing.T) {
	upstream := &stubUpstream{latest: transport.Failure[Activity](http.StatusInternalServerError, "Garmin is down")}
	svc := newTestService(upstream, &stubSessions{token: "bearer"}, newStateStore())

	_, err := svc.Latest(context.Background(), "sess")
	require.True(t, apperrors.IsCode(err, apperrors.CodeUpstreamError))
	require.Equal(t, "Garmin is down", apperrors.MessageOf(err))
}

func TestServiceEmptyLatestUsesFallback(t *testing.T) {
	upstream := &stubUpstream{latest: transport.Result[Activity]{Status: http.StatusNoContent}}
	svc := newTestService(upstream, &stubSessions{token: "bearer"}, newStateStore())

	_, err := svc.Latest(context.Background(), "sess")
	require.Equal(t, "Failed to load latest activity", apperrors.MessageOf(err))
}

func TestServiceNullPayloadUsesFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("null"))
	}))
	t.Cleanup(server.Close)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	upstream := &httpUpstream{client: transport.NewClient(server.URL, 0, logger)}
	states := newStateStore()
	svc := newTestService(upstream, &stubSessions{token: "bearer"}, states)

	_, err := svc.Latest(context.Background(), "sess")
	require.True(t, apperrors.IsCode(err, apperrors.CodeUpstreamError))
	require.Equal(t, "Failed to load latest activity", apperrors.MessageOf(err))

	_, err = svc.List(context.Background(), "sess", 5)
	require.True(t, apperrors.IsCode(err, apperrors.CodeUpstreamError))
	require.Equal(t, "Failed to load activities", apperrors.MessageOf(err))

	_, err = svc.Selected(context.Background(), "sess")
	require.True(t, apperrors.IsCode(err, apperrors.CodeNoSelection))
}

func TestServiceNetworkFailure(t *testing.T) {
	upstream := &stubUpstream{list: transport.Failure[[]Activity](transport.StatusNetworkError, transport.MessageNetworkError)}
	svc := newTestService(upstream, &stubSessions{token: "bearer"}, newStateStore())

	_, err := svc.List(context.Background(), "sess", 5)
	require.True(t, apperrors.IsCode(err, apperrors.CodeUpstreamUnavailable))
}

func TestIsTokenExpired(t *testing.T) {
	require.True(t, IsTokenExpired("Invalid signature"))
	require.True(t, IsTokenExpired("jwt EXPIRED"))
	require.True(t, IsTokenExpired("missing token"))
	require.False(t, IsTokenExpired("Unauthorized"))
	require.False(t, IsTokenExpired(""))
}

func newTestService(upstream Upstream, sessions Sessions, states StateStore) Service {
	return NewService(upstream, sessions, states, DefaultListSize, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

type stubUpstream struct {
	latest    transport.Result[Activity]
	list      transport.Result[[]Activity]
	lastToken string
	lastNum   int
}

func (s *stubUpstream) Latest(_ context.Context, token string) transport.Result[Activity] {
	s.lastToken = token
	return s.latest
}

func (s *stubUpstream) List(_ context.Context, token string, num int) transport.Result[[]Activity] {
	s.lastToken = token
	s.lastNum = num
	return s.list
}

// httpUpstream reads activities through the real transport.
type httpUpstream struct {
	client *transport.Client
}

func (u *httpUpstream) Latest(ctx context.Context, token string) transport.Result[Activity] {
	return transport.Do[Activity](ctx, u.client, http.MethodGet, "/activities/latest", token, nil)
}

func (u *httpUpstream) List(ctx context.Context, token string, num int) transport.Result[[]Activity] {
	return transport.Do[[]Activity](ctx, u.client, http.MethodGet, "/activities", token, nil)
}

type stubSessions struct {
	token     string
	loggedOut []string
}

func (s *stubSessions) Token(_ context.Context, _ string) (string, error) {
	return s.token, nil
}

func (s *stubSessions) Logout(_ context.Context, sessionID string) error {
	s.loggedOut = append(s.loggedOut, sessionID)
	return nil
}

type stateStore struct {
	states map[string]State
}

func newStateStore() *stateStore {
	return &stateStore{states: make(map[string]State)}
}

func (s *stateStore) LoadState(_ context.Context, id string) (State, bool, error) {
	state, ok := s.states[id]
	return state, ok, nil
}

func (s *stateStore) SaveState(_ context.Context, id string, state State) error {
	s.states[id] = state
	return nil
}
