package handler

import (
	"net/http"

	"plantstore/internal/domain/model"
	"plantstore/internal/usecase"

	"github.com/labstack/echo/v4"
)

const HeaderIdempotencyKey = "X-Idempotency-Key"

type OrderHandler struct {
	uc *usecase.OrderUsecase
}

func NewOrderHandler(uc *usecase.OrderUsecase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

type placeOrderRequest struct {
	Address       model.ShippingAddress `json:"address"`
	PaymentMethod string                `json:"paymentMethod"`
}

func (h *OrderHandler) RegisterRoutes(api *echo.Group, gate Gate) {
	g := api.Group("/orders")
	customer := gate.Customer()

	g.POST("/new", h.place, customer...)
	g.GET("/my-orders", h.myOrders, customer...)
	g.GET("/order/:id", h.detail, customer...)
	g.PUT("/:id/cancel", h.cancel, customer...)
}

func (h *OrderHandler) place(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "unauthorized"})
	}
	var req placeOrderRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	o, err := h.uc.PlaceOrder(c.Request().Context(), userID, usecase.PlaceOrderInput{
		Address:        req.Address,
		PaymentMethod:  req.PaymentMethod,
		IdempotencyKey: c.Request().Header.Get(HeaderIdempotencyKey),
	})
	if err != nil {
		return writeError(c, err)
	}
	return success(c, http.StatusCreated, echo.Map{
		"message": "Order placed successfully",
		"order":   o,
	})
}

func (h *OrderHandler) myOrders(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "unauthorized"})
	}

	orders, err := h.uc.ListMyOrders(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}
	return success(c, http.StatusOK, echo.Map{
		"count":  len(orders),
		"orders": orders,
	})
}

func (h *OrderHandler) detail(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "unauthorized"})
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}

	o, err := h.uc.GetMyOrder(c.Request().Context(), userID, id)
	if err != nil {
		return writeError(c, err)
	}
	return success(c, http.StatusOK, echo.Map{"order": o})
}

func (h *OrderHandler) cancel(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "unauthorized"})
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}

	o, err := h.uc.CancelOrder(c.Request().Context(), userID, id)
	if err != nil {
		return writeError(c, err)
	}
	return success(c, http.StatusOK, echo.Map{
		"message": "Order cancelled successfully",
		"order":   o,
	})
}
