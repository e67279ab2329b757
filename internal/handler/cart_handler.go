package handler

import (
	"net/http"

	"plantstore/internal/usecase"

	"github.com/labstack/echo/v4"
)

type CartHandler struct {
	uc *usecase.CartUsecase
}

func NewCartHandler(uc *usecase.CartUsecase) *CartHandler {
	return &CartHandler{uc: uc}
}

type cartItemRequest struct {
	PlantID  int64  `json:"plantId"`
	Quantity *int64 `json:"quantity"`
}

func (h *CartHandler) RegisterRoutes(api *echo.Group, gate Gate) {
	g := api.Group("/cart", gate.Customer()...)

	g.POST("/add", h.add)
	g.PUT("/update", h.update)
	g.DELETE("/remove", h.remove)
	g.GET("", h.get)
	g.DELETE("/clear", h.clear)
}

func (h *CartHandler) add(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "unauthorized"})
	}
	var req cartItemRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if req.PlantID <= 0 || req.Quantity == nil {
		return badRequest(c, "Please provide plantId and quantity")
	}

	cart, err := h.uc.AddItem(c.Request().Context(), userID, req.PlantID, *req.Quantity)
	if err != nil {
		return writeError(c, err)
	}
	return success(c, http.StatusOK, echo.Map{
		"message": "Item added to cart",
		"cart":    cart,
	})
}

func (h *CartHandler) update(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "unauthorized"})
	}
	var req cartItemRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if req.PlantID <= 0 || req.Quantity == nil {
		return badRequest(c, "Please provide plantId and quantity")
	}

	cart, err := h.uc.UpdateItem(c.Request().Context(), userID, req.PlantID, *req.Quantity)
	if err != nil {
		return writeError(c, err)
	}
	return success(c, http.StatusOK, echo.Map{
		"message": "Cart updated",
		"cart":    cart,
	})
}

func (h *CartHandler) remove(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "unauthorized"})
	}
	var req cartItemRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if req.PlantID <= 0 {
		return badRequest(c, "Please provide plantId")
	}

	cart, err := h.uc.RemoveItem(c.Request().Context(), userID, req.PlantID)
	if err != nil {
		return writeError(c, err)
	}
	return success(c, http.StatusOK, echo.Map{
		"message": "Item removed from cart",
		"cart":    cart,
	})
}

func (h *CartHandler) get(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "unauthorized"})
	}

	cart, err := h.uc.GetCart(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}
	return success(c, http.StatusOK, echo.Map{"cart": cart})
}

func (h *CartHandler) clear(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "unauthorized"})
	}

	cart, err := h.uc.ClearCart(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}
	return success(c, http.StatusOK, echo.Map{
		"message": "Cart cleared",
		"cart":    cart,
	})
}
