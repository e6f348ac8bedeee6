package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/gigbay/marketplace-api/internal/api/metrics"
	"github.com/gigbay/marketplace-api/internal/core/ports"
)

// FulfillmentHandler handles HTTP requests for order fulfillment: status
// transitions, deliveries, and progress updates.
type FulfillmentHandler struct {
	service ports.FulfillmentService
}

func NewFulfillmentHandler(service ports.FulfillmentService) *FulfillmentHandler {
	return &FulfillmentHandler{service: service}
}

// StartProgress handles PATCH /v1/orders/:id/progress.
//
// @Summary      Move an order to in_progress
// @Tags         fulfillment
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Order id"
// @Success      200  {object}  orderResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      409  {object}  errorResponse
// @Router       /v1/orders/{id}/progress [patch]
func (h *FulfillmentHandler) StartProgress(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	order, err := h.service.StartProgress(c.Request().Context(), c.Param("id"), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toOrderResponse(order))
}

// Cancel handles PATCH /v1/orders/:id/cancel.
//
// @Summary      Cancel an order
// @Tags         fulfillment
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Order id"
// @Success      200  {object}  orderResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      409  {object}  errorResponse
// @Router       /v1/orders/{id}/cancel [patch]
func (h *FulfillmentHandler) Cancel(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	order, err := h.service.Cancel(c.Request().Context(), c.Param("id"), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toOrderResponse(order))
}

// MarkDelivered handles PATCH /v1/orders/:id/delivered.
//
// @Summary      Mark an order as delivered
// @Tags         fulfillment
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Order id"
// @Success      204  "no content"
// @Failure      400  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/orders/{id}/delivered [patch]
func (h *FulfillmentHandler) MarkDelivered(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	if err := h.service.MarkDelivered(c.Request().Context(), c.Param("id"), userID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// SubmitDelivery handles POST /v1/orders/:id/deliveries.
//
// @Summary      Submit a delivery for an order
// @Tags         fulfillment
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                 true  "Order id"
// @Param        body  body      submitDeliveryRequest  true  "Delivery details"
// @Success      201   {object}  deliveryResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/orders/{id}/deliveries [post]
func (h *FulfillmentHandler) SubmitDelivery(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req submitDeliveryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	delivery, err := h.service.SubmitDelivery(c.Request().Context(), ports.SubmitDeliveryInput{
		OrderID:     c.Param("id"),
		SellerID:    userID,
		ArtifactRef: req.ArtifactRef,
		Message:     req.Message,
	})
	if err != nil {
		return err
	}

	metrics.DeliveriesSubmittedTotal.Inc()
	return c.JSON(http.StatusCreated, toDeliveryResponse(delivery))
}

// ListDeliveries handles GET /v1/orders/:id/deliveries.
//
// @Summary      List an order's deliveries
// @Tags         fulfillment
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Order id"
// @Success      200  {array}   deliveryResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/orders/{id}/deliveries [get]
func (h *FulfillmentHandler) ListDeliveries(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	deliveries, err := h.service.ListDeliveries(c.Request().Context(), c.Param("id"), userID)
	if err != nil {
		return err
	}

	out := make([]deliveryResponse, 0, len(deliveries))
	for _, d := range deliveries {
		out = append(out, toDeliveryResponse(d))
	}
	return c.JSON(http.StatusOK, out)
}

// AcceptDelivery handles PATCH /v1/deliveries/:id/accept.
//
// @Summary      Accept a delivery, completing the order
// @Tags         fulfillment
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Delivery id"
// @Success      200  {object}  orderResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      409  {object}  errorResponse
// @Router       /v1/deliveries/{id}/accept [patch]
func (h *FulfillmentHandler) AcceptDelivery(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	order, err := h.service.AcceptDelivery(c.Request().Context(), c.Param("id"), userID)
	if err != nil {
		return err
	}

	metrics.DeliveriesAcceptedTotal.Inc()
	return c.JSON(http.StatusOK, toOrderResponse(order))
}

// PostStatusUpdate handles POST /v1/orders/:id/updates.
//
// @Summary      Post a progress update on an order
// @Tags         fulfillment
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string               true  "Order id"
// @Param        body  body      statusUpdateRequest  true  "Update details"
// @Success      201   {object}  statusUpdateResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/orders/{id}/updates [post]
func (h *FulfillmentHandler) PostStatusUpdate(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req statusUpdateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	update, err := h.service.PostStatusUpdate(c.Request().Context(), ports.PostStatusUpdateInput{
		OrderID:  c.Param("id"),
		SellerID: userID,
		Title:    req.Title,
		Body:     req.Body,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toStatusUpdateResponse(update))
}

// ListStatusUpdates handles GET /v1/orders/:id/updates.
//
// @Summary      List an order's progress updates
// @Tags         fulfillment
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Order id"
// @Success      200  {array}   statusUpdateResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/orders/{id}/updates [get]
func (h *FulfillmentHandler) ListStatusUpdates(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	updates, err := h.service.ListStatusUpdates(c.Request().Context(), c.Param("id"), userID)
	if err != nil {
		return err
	}

	out := make([]statusUpdateResponse, 0, len(updates))
	for _, u := range updates {
		out = append(out, toStatusUpdateResponse(u))
	}
	return c.JSON(http.StatusOK, out)
}
