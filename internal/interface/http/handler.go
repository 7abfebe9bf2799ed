package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/run-reporter/internal/domain/activity"
	"github.com/yanqian/run-reporter/internal/domain/report"
	"github.com/yanqian/run-reporter/internal/domain/session"
)

// Handler wires the HTTP transport to domain services.
type Handler struct {
	sessionSvc  session.Service
	activitySvc activity.Service
	reportSvc   report.Service
	logger      *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(sessionSvc session.Service, activitySvc activity.Service, reportSvc report.Service, logger *slog.Logger) *Handler {
	return &Handler{
		sessionSvc:  sessionSvc,
		activitySvc: activitySvc,
		reportSvc:   reportSvc,
		logger:      logger.With("component", "http.handler"),
	}
}

type activityView struct {
	Activity   activity.Activity `json:"activity"`
	Title      string            `json:"title"`
	Label      string            `json:"label"`
	Selectable bool              `json:"selectable"`
}

func (h *Handler) view(act activity.Activity, selectable bool) activityView {
	return activityView{
		Activity:   act,
		Title:      h.reportSvc.Title(act),
		Label:      h.reportSvc.Label(act),
		Selectable: selectable,
	}
}

// Login exchanges credentials for a session token.
func (h *Handler) Login(c *gin.Context) {
	var req session.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	resp, err := h.sessionSvc.Login(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Logout discards the caller's session.
func (h *Handler) Logout(c *gin.Context) {
	sess, _ := getSession(c)
	if err := h.sessionSvc.Logout(c.Request.Context(), sess.ID); err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.Status(http.StatusNoContent)
}

// LatestActivity fetches and selects the most recent activity.
func (h *Handler) LatestActivity(c *gin.Context) {
	sess, _ := getSession(c)
	act, err := h.activitySvc.Latest(c.Request.Context(), sess.ID)
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.JSON(http.StatusOK, h.view(act, act.IsRun()))
}

// ListActivities returns recent activities; only runs are selectable.
func (h *Handler) ListActivities(c *gin.Context) {
	num := 0
	if raw := c.Query("num"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "num must be an integer", err))
			return
		}
		num = parsed
	}
	sess, _ := getSession(c)
	items, err := h.activitySvc.List(c.Request.Context(), sess.ID, num)
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	views := make([]activityView, 0, len(items))
	for _, item := range items {
		views = append(views, h.view(item.Activity, item.Selectable))
	}
	c.JSON(http.StatusOK, gin.H{"activities": views})
}

// SelectActivity marks a listed activity for reporting.
func (h *Handler) SelectActivity(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "activity id must be an integer", err))
		return
	}
	sess, _ := getSession(c)
	act, err := h.activitySvc.Select(c.Request.Context(), sess.ID, id)
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.JSON(http.StatusOK, h.view(act, true))
}

// SelectedActivity returns the activity the next report will describe.
func (h *Handler) SelectedActivity(c *gin.Context) {
	sess, _ := getSession(c)
	act, err := h.activitySvc.Selected(c.Request.Context(), sess.ID)
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.JSON(http.StatusOK, h.view(act, act.IsRun()))
}

// GenerateReport renders the report for the selected activity.
func (h *Handler) GenerateReport(c *gin.Context) {
	var ann report.Annotation
	if err := c.ShouldBindJSON(&ann); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	sess, _ := getSession(c)
	act, err := h.activitySvc.Selected(c.Request.Context(), sess.ID)
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	resp, err := h.reportSvc.Generate(c.Request.Context(), &act, ann)
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func errMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
