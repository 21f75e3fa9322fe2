package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"nexus-intake/internal/domain/sale"
	"nexus-intake/internal/usecase/aggregate"
	"nexus-intake/internal/usecase/draft"
	"nexus-intake/internal/usecase/notify"
	syncuc "nexus-intake/internal/usecase/sync"
	"nexus-intake/internal/usecase/workflow"
)

// ErrorResponse is the uniform failure payload.
type ErrorResponse struct {
	Error   string                `json:"error"`
	Details []workflow.FieldError `json:"details,omitempty"`
}

type Handler struct {
	drafts  *draft.Store
	hub     *draft.Hub
	engine  *workflow.Engine
	view    *aggregate.View
	tracker *aggregate.Tracker
	syncer  *syncuc.Synchronizer
	feed    *notify.Feed
	// connected reports the last connectivity probe outcome; nil means no
	// remote store was configured.
	connected func() bool
	log       *zap.Logger
}

func NewHandler(
	drafts *draft.Store,
	hub *draft.Hub,
	engine *workflow.Engine,
	view *aggregate.View,
	tracker *aggregate.Tracker,
	syncer *syncuc.Synchronizer,
	feed *notify.Feed,
	connected func() bool,
	log *zap.Logger,
) *Handler {
	return &Handler{
		drafts:    drafts,
		hub:       hub,
		engine:    engine,
		view:      view,
		tracker:   tracker,
		syncer:    syncer,
		feed:      feed,
		connected: connected,
		log:       log,
	}
}

// Register wires every route on e. Everything except /health requires a
// session.
func (h *Handler) Register(e *echo.Echo, extra ...echo.MiddlewareFunc) {
	e.GET("/health", h.Health)

	g := e.Group("", SessionMiddleware())
	g.GET("/drafts", h.ListDrafts)
	g.POST("/drafts/edits", h.EditDraft, extra...)
	g.PUT("/drafts/:draft_id", h.SaveDraft, extra...)
	g.DELETE("/drafts/:draft_id", h.DeleteDraft, extra...)

	g.POST("/sales", h.SubmitSale, extra...)
	g.GET("/sales", h.ListSales)
	g.GET("/sales/queue", h.ManagerQueue)
	g.POST("/sales/:sale_id/status", h.TransitionSale, extra...)

	g.GET("/stats", h.Stats)
	g.GET("/notifications", h.Notifications)
	g.POST("/sync", h.SyncNow, extra...)
}

func (h *Handler) Health(c echo.Context) error {
	body := map[string]any{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339Nano),
	}
	if h.connected != nil {
		body["remote_connected"] = h.connected()
	}
	return c.JSON(http.StatusOK, body)
}

// fail maps core errors onto transport codes.
func fail(c echo.Context, err error) error {
	var ve *workflow.ValidationError
	if errors.As(err, &ve) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation failed", Details: ve.Fields})
	}
	var ge *workflow.GuardError
	if errors.As(err, &ge) {
		code := http.StatusConflict
		switch ge.Code {
		case workflow.GuardCapability:
			code = http.StatusForbidden
		case workflow.GuardReason:
			code = http.StatusBadRequest
		}
		return c.JSON(code, ErrorResponse{Error: ge.Message})
	}
	switch {
	case errors.Is(err, sale.ErrNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "sale not found"})
	case errors.Is(err, sale.ErrFinished):
		return c.JSON(http.StatusConflict, ErrorResponse{Error: "sale is finished and immutable"})
	case errors.Is(err, aggregate.ErrScopeDenied):
		return c.JSON(http.StatusForbidden, ErrorResponse{Error: "scope denied"})
	case errors.Is(err, syncuc.ErrInFlight):
		return c.JSON(http.StatusConflict, ErrorResponse{Error: "sync already running"})
	}
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}
