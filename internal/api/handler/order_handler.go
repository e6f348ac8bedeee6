package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/gigbay/marketplace-api/internal/api/metrics"
	"github.com/gigbay/marketplace-api/internal/core/ports"
)

// OrderHandler handles HTTP requests for order ledger operations.
type OrderHandler struct {
	service ports.OrderService
}

func NewOrderHandler(service ports.OrderService) *OrderHandler {
	return &OrderHandler{service: service}
}

// Create handles POST /v1/orders.
//
// @Summary      Purchase a gig
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createOrderRequest  true  "Purchase details"
// @Success      201   {object}  createOrderResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      502   {object}  errorResponse
// @Router       /v1/orders [post]
func (h *OrderHandler) Create(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req createOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	result, err := h.service.CreateOrder(c.Request().Context(), ports.CreateOrderInput{
		GigID:   req.GigID,
		BuyerID: userID,
	})
	if err != nil {
		return err
	}

	metrics.OrdersCreatedTotal.Inc()
	return c.JSON(http.StatusCreated, toCreateOrderResponse(result))
}

// List handles GET /v1/orders — the caller's completed orders, newest first.
//
// @Summary      List the caller's completed orders
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   orderResponse
// @Failure      401  {object}  errorResponse
// @Router       /v1/orders [get]
func (h *OrderHandler) List(c echo.Context) error {
	userID, isSeller, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	orders, err := h.service.ListOrders(c.Request().Context(), ports.ListOrdersInput{
		UserID:   userID,
		IsSeller: isSeller,
	})
	if err != nil {
		return err
	}

	out := make([]orderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrderResponse(o))
	}
	return c.JSON(http.StatusOK, out)
}

// Get handles GET /v1/orders/:id.
//
// @Summary      Get a single order
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Order id (e.g. ORD-7A8B9C2D)"
// @Success      200  {object}  orderResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/orders/{id} [get]
func (h *OrderHandler) Get(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	order, err := h.service.GetOrder(c.Request().Context(), c.Param("id"), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toOrderResponse(order))
}
