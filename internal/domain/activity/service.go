package activity

import (
	"context"
	"log/slog"
	"strconv"

	apperrors "github.com/yanqian/run-reporter/pkg/errors"
)

// Service drives the two fetch flows and the selection of the activity to report on.
type Service interface {
	Latest(ctx context.Context, sessionID string) (Activity, error)
	List(ctx context.Context, sessionID string, num int) ([]Item, error)
	Select(ctx context.Context, sessionID string, activityID int64) (Activity, error)
	Selected(ctx context.Context, sessionID string) (Activity, error)
}

type service struct {
	upstream Upstream
	sessions Sessions
	states   StateStore
	listSize int
	logger   *slog.Logger
}

// NewService wires up the activity domain. listSize is the default for List when num <= 0.
func NewService(upstream Upstream, sessions Sessions, states StateStore, listSize int, logger *slog.Logger) Service {
	if listSize <= 0 {
		listSize = DefaultListSize
	}
	return &service{
		upstream: upstream,
		sessions: sessions,
		states:   states,
		listSize: clampListSize(listSize),
		logger:   logger.With("component", "activity.service"),
	}
}

// Latest fetches the most recent activity and selects it. No type gating applies here.
func (s *service) Latest(ctx context.Context, sessionID string) (Activity, error) {
	token, err := s.sessions.Token(ctx, sessionID)
	if err != nil {
		return Activity{}, err
	}

	res := s.upstream.Latest(ctx, token)
	if res.Failed() {
		kind, failure := classify(res, "Failed to load latest activity")
		return Activity{}, s.fail(ctx, sessionID, res.Status, kind, failure)
	}

	act := *res.Data
	if err := s.update(ctx, sessionID, func(state *State) { state.Selected = &act }); err != nil {
		return Activity{}, err
	}
	s.logger.Info("latest activity loaded", "session_id", sessionID, "activity_id", act.ActivityID)
	return act, nil
}

// List fetches the most recent activities and marks which of them are runs.
func (s *service) List(ctx context.Context, sessionID string, num int) ([]Item, error) {
	if num <= 0 {
		num = s.listSize
	}
	num = clampListSize(num)

	token, err := s.sessions.Token(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	res := s.upstream.List(ctx, token, num)
	if res.Failed() {
		kind, failure := classify(res, "Failed to load activities")
		return nil, s.fail(ctx, sessionID, res.Status, kind, failure)
	}

	activities := *res.Data
	if err := s.update(ctx, sessionID, func(state *State) { state.Activities = activities }); err != nil {
		return nil, err
	}

	items := make([]Item, 0, len(activities))
	for _, act := range activities {
		items = append(items, Item{Activity: act, Selectable: act.IsRun()})
	}
	s.logger.Info("activities loaded", "session_id", sessionID, "count", len(items))
	return items, nil
}

// Select picks an activity from the last fetched list. Only runs can be picked.
func (s *service) Select(ctx context.Context, sessionID string, activityID int64) (Activity, error) {
	state, err := s.load(ctx, sessionID)
	if err != nil {
		return Activity{}, err
	}

	var picked *Activity
	for i := range state.Activities {
		if state.Activities[i].ActivityID == activityID {
			picked = &state.Activities[i]
			break
		}
	}
	if picked == nil {
		return Activity{}, apperrors.Wrap(apperrors.CodeNotFound, "activity "+strconv.FormatInt(activityID, 10)+" is not in the loaded list", nil)
	}
	if !picked.IsRun() {
		return Activity{}, apperrors.Wrap(apperrors.CodeNotSelectable, "only running activities can be selected", nil)
	}

	act := *picked
	state.Selected = &act
	if err := s.states.SaveState(ctx, sessionID, state); err != nil {
		return Activity{}, apperrors.Wrap(apperrors.CodeSessionError, "failed to store selection", err)
	}
	return act, nil
}

// Selected returns the activity currently picked for reporting.
func (s *service) Selected(ctx context.Context, sessionID string) (Activity, error) {
	state, err := s.load(ctx, sessionID)
	if err != nil {
		return Activity{}, err
	}
	if state.Selected == nil {
		return Activity{}, apperrors.Wrap(apperrors.CodeNoSelection, "no activity selected", nil)
	}
	return *state.Selected, nil
}

func (s *service) load(ctx context.Context, sessionID string) (State, error) {
	state, _, err := s.states.LoadState(ctx, sessionID)
	if err != nil {
		return State{}, apperrors.Wrap(apperrors.CodeSessionError, "failed to load activity state", err)
	}
	return state, nil
}

func (s *service) update(ctx context.Context, sessionID string, mutate func(*State)) error {
	state, err := s.load(ctx, sessionID)
	if err != nil {
		return err
	}
	mutate(&state)
	if err := s.states.SaveState(ctx, sessionID, state); err != nil {
		return apperrors.Wrap(apperrors.CodeSessionError, "failed to store activity state", err)
	}
	return nil
}

// fail ends the session when the upstream reports the token as expired.
func (s *service) fail(ctx context.Context, sessionID string, status int, kind failureKind, failure error) error {
	s.logger.Warn("upstream activity request failed", "session_id", sessionID, "status", status, "error", failure)
	if kind == failureExpired {
		if err := s.sessions.Logout(ctx, sessionID); err != nil {
			s.logger.Error("failed to end expired session", "session_id", sessionID, "error", err)
		}
	}
	return failure
}

func clampListSize(num int) int {
	if num > MaxListSize {
		return MaxListSize
	}
	return num
}
