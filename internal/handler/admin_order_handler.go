package handler

import (
	"net/http"
	"strconv"

	"plantstore/internal/usecase"

	"github.com/labstack/echo/v4"
)

// 管理者向けの注文操作
type AdminOrderHandler struct {
	uc *usecase.AdminOrderUsecase
}

func NewAdminOrderHandler(uc *usecase.AdminOrderUsecase) *AdminOrderHandler {
	return &AdminOrderHandler{uc: uc}
}

type updateOrderStatusRequest struct {
	Status string `json:"status"`
}

func (h *AdminOrderHandler) RegisterRoutes(api *echo.Group, gate Gate) {
	g := api.Group("/orders")
	admin := gate.Admin()

	g.PUT("/:id/status", h.updateStatus, admin...)
	g.GET("/all-orders", h.list, admin...)
}

func (h *AdminOrderHandler) updateStatus(c echo.Context) error {
	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "unauthorized"})
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	var req updateOrderStatusRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if req.Status == "" {
		return badRequest(c, "Please provide status")
	}

	o, err := h.uc.UpdateStatus(c.Request().Context(), adminID, id, req.Status)
	if err != nil {
		return writeError(c, err)
	}
	return success(c, http.StatusOK, echo.Map{
		"message": "Order status updated successfully",
		"order":   o,
	})
}

func (h *AdminOrderHandler) list(c echo.Context) error {
	minPrice, err := optionalInt64(c, "minPrice")
	if err != nil {
		return badRequest(c, "invalid minPrice")
	}
	maxPrice, err := optionalInt64(c, "maxPrice")
	if err != nil {
		return badRequest(c, "invalid maxPrice")
	}
	from, err := optionalDate(c, "fromDate", false)
	if err != nil {
		return badRequest(c, "invalid fromDate")
	}
	to, err := optionalDate(c, "toDate", true)
	if err != nil {
		return badRequest(c, "invalid toDate")
	}
	page := 1
	if v := c.QueryParam("page"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil || p < 1 {
			return badRequest(c, "invalid page")
		}
		page = p
	}

	out, err := h.uc.List(c.Request().Context(), usecase.AdminOrderListInput{
		Status:   c.QueryParam("status"),
		MinPrice: minPrice,
		MaxPrice: maxPrice,
		State:    c.QueryParam("state"),
		City:     c.QueryParam("city"),
		From:     from,
		To:       to,
		Page:     page,
	})
	if err != nil {
		return writeError(c, err)
	}

	return success(c, http.StatusOK, echo.Map{
		"totalOrders":    out.TotalOrders,
		"resultsPerPage": out.ResultsPerPage,
		"currentPage":    out.CurrentPage,
		"totalPages":     out.TotalPages,
		"count":          out.Count,
		"orders":         out.Orders,
	})
}
