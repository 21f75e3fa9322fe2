package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"nexus-intake/internal/domain/sale"
	"nexus-intake/internal/usecase/workflow"
)

type submitSaleReq struct {
	DraftID      string            `json:"draft_id,omitempty"`
	CustomerData sale.CustomerData `json:"customer_data"`
}

func (h *Handler) SubmitSale(c echo.Context) error {
	var req submitSaleReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	u := actor(c)
	h.hub.Discard(u) // a pending autosave must not resurrect the promoted draft
	s, err := h.engine.Submit(c.Request().Context(), u, workflow.SubmitInput{
		DraftID: req.DraftID,
		Data:    req.CustomerData,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, s)
}

func (h *Handler) ListSales(c echo.Context) error {
	u := actor(c)
	if c.QueryParam("scope") == "open" {
		return h.listOpenWork(c)
	}
	records, err := h.view.ListSales(c.Request().Context(), u, c.QueryParam("seller_id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, records)
}

// listOpenWork is the seller's workbench: cached drafts merged with sales
// returned for correction. Finished and in-review records stay out.
func (h *Handler) listOpenWork(c echo.Context) error {
	u := actor(c)
	ctx := c.Request().Context()

	open, err := h.drafts.List(ctx, u.ID)
	if err != nil {
		return fail(c, err)
	}
	records, err := h.view.ListSales(ctx, u, u.ID)
	if err != nil {
		return fail(c, err)
	}
	for _, r := range records {
		if r.Status == sale.StatusInProgress && r.ReturnReason != "" {
			open = append(open, r)
		}
	}
	return c.JSON(http.StatusOK, open)
}

func (h *Handler) ManagerQueue(c echo.Context) error {
	u := actor(c)
	queue, regressed, err := h.view.ManagerQueue(c.Request().Context(), u, h.tracker)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"queue":       queue,
		"regressions": regressed,
	})
}

type transitionReq struct {
	SellerID string `json:"seller_id"`
	Status   string `json:"status"`
	Reason   string `json:"reason,omitempty"`
}

func (h *Handler) TransitionSale(c echo.Context) error {
	var req transitionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if req.SellerID == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "seller_id is required"})
	}
	u := actor(c)
	s, err := h.engine.Transition(
		c.Request().Context(), u,
		req.SellerID, c.Param("sale_id"),
		sale.Status(req.Status), req.Reason,
	)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, s)
}
