package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"nexus-intake/internal/domain/sale"
)

func (h *Handler) ListDrafts(c echo.Context) error {
	u := actor(c)
	drafts, err := h.drafts.List(c.Request().Context(), u.ID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, drafts)
}

type editDraftReq struct {
	DraftID      string            `json:"draft_id,omitempty"`
	CustomerData sale.CustomerData `json:"customer_data"`
}

// EditDraft feeds the debounced autosaver: the write lands after the quiet
// window, superseded by any newer edit. Responds with the draft id the edit
// was (or will be) coalesced into.
func (h *Handler) EditDraft(c echo.Context) error {
	var req editDraftReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	u := actor(c)
	draftID := h.hub.Edit(u, req.DraftID, req.CustomerData)
	return c.JSON(http.StatusAccepted, map[string]string{"draft_id": draftID})
}

type saveDraftReq struct {
	CustomerData sale.CustomerData `json:"customer_data"`
}

// SaveDraft writes a draft immediately (no debounce) — used when the client
// closes a form and wants the state pinned.
func (h *Handler) SaveDraft(c echo.Context) error {
	var req saveDraftReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	u := actor(c)
	d := sale.Sale{
		ID:           c.Param("draft_id"),
		SellerID:     u.ID,
		SellerName:   u.Name,
		CustomerData: req.CustomerData,
		Status:       sale.StatusDraft,
	}
	if err := h.drafts.Save(c.Request().Context(), u.ID, d); err != nil {
		h.log.Error("draft save failed", zap.String("user_id", u.ID), zap.Error(err))
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"draft_id": d.ID})
}

func (h *Handler) DeleteDraft(c echo.Context) error {
	u := actor(c)
	h.hub.Discard(u)
	if err := h.drafts.Delete(c.Request().Context(), u.ID, c.Param("draft_id")); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
