package report

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/yanqian/run-reporter/internal/domain/activity"
	apperrors "github.com/yanqian/run-reporter/pkg/errors"
)

const (
	minEffort = 1
	maxEffort = 10
)

// Service renders reports and activity labels for the front-ends.
type Service interface {
	Generate(ctx context.Context, act *activity.Activity, ann Annotation) (Response, error)
	Title(act activity.Activity) string
	Label(act activity.Activity) string
}

type service struct {
	logger *slog.Logger
}

// NewService wires up the report domain.
func NewService(logger *slog.Logger) Service {
	return &service{logger: logger.With("component", "report.service")}
}

func (s *service) Generate(ctx context.Context, act *activity.Activity, ann Annotation) (Response, error) {
	if act == nil {
		return Response{}, apperrors.Wrap(apperrors.CodeNoSelection, "no activity selected", nil)
	}
	effort, err := normalizeEffort(ann.EffortLevel)
	if err != nil {
		return Response{}, err
	}
	text := GenerateReportText(act, ann.Temperature, ann.Weather, effort, ann.Comments)
	s.logger.Debug("report generated", "activity_id", act.ActivityID, "length", len(text))
	return Response{
		Title:  s.Title(*act),
		Report: text,
	}, nil
}

// Title is the header shown above a report: "DD.MM name X.XX km".
func (s *service) Title(act activity.Activity) string {
	return FormatDate(act.StartTimeLocal) + " " + act.ActivityName + " " + FormatDistance(act.Distance) + " km"
}

// Label is the list entry text. Only runs carry a distance.
func (s *service) Label(act activity.Activity) string {
	label := FormatDate(act.StartTimeLocal) + " " + act.ActivityName
	if act.IsRun() {
		label += " " + FormatDistance(act.Distance) + " km"
	}
	return label
}

func normalizeEffort(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return DefaultEffortLevel, nil
	}
	level, err := strconv.Atoi(trimmed)
	if err != nil || level < minEffort || level > maxEffort {
		return "", apperrors.Wrap(apperrors.CodeInvalidInput, "effortLevel must be an integer between 1 and 10", err)
	}
	return strconv.Itoa(level), nil
}
