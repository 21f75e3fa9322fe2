package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

func (h *Handler) Stats(c echo.Context) error {
	u := actor(c)
	stats, err := h.view.Aggregate(c.Request().Context(), u)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, stats)
}

func (h *Handler) Notifications(c echo.Context) error {
	return c.JSON(http.StatusOK, h.feed.List())
}

// SyncNow pushes the session user's partition. A run already in flight
// answers 409 and the records go out on the next scheduled pass.
func (h *Handler) SyncNow(c echo.Context) error {
	if h.syncer == nil {
		return c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "remote store not configured"})
	}
	u := actor(c)
	report, err := h.syncer.SyncSeller(c.Request().Context(), u.ID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, report)
}
