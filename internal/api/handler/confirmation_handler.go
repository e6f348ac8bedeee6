package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/gigbay/marketplace-api/internal/api/metrics"
	"github.com/gigbay/marketplace-api/internal/core/ports"
)

// ConfirmationDispatcher is the interface the handler uses to enqueue
// payment confirmations.
type ConfirmationDispatcher interface {
	Enqueue(input ports.ConfirmationInput)
	EnqueueBatch(inputs []ports.ConfirmationInput)
}

// ConfirmationHandler handles the payment processor's confirmation channel.
// Processing is asynchronous: the handler acknowledges with 202 and hands the
// confirmation to the sharded dispatcher.
type ConfirmationHandler struct {
	dispatcher ConfirmationDispatcher
}

// NewConfirmationHandler creates a ConfirmationHandler backed by the given dispatcher.
func NewConfirmationHandler(dispatcher ConfirmationDispatcher) *ConfirmationHandler {
	return &ConfirmationHandler{dispatcher: dispatcher}
}

// Receive handles POST /v1/payments/confirmations — enqueues one
// confirmation, returns 202. Redeliveries are expected and harmless.
//
// @Summary      Ingest a payment capture confirmation
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        body  body      confirmationRequest  true  "Capture confirmation"
// @Success      202   {object}  acceptedResponse
// @Failure      400   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/payments/confirmations [post]
func (h *ConfirmationHandler) Receive(c echo.Context) error {
	var req confirmationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	h.dispatcher.Enqueue(toConfirmationInput(req))
	metrics.ConfirmationsReceivedTotal.Inc()
	return c.JSON(http.StatusAccepted, acceptedResponse{Message: "confirmation accepted"})
}

// ReceiveBatch handles POST /v1/payments/confirmations/batch.
//
// @Summary      Ingest a batch of payment capture confirmations
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        body  body      []confirmationRequest  true  "Array of confirmations"
// @Success      202   {object}  acceptedResponse
// @Failure      400   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/payments/confirmations/batch [post]
func (h *ConfirmationHandler) ReceiveBatch(c echo.Context) error {
	var reqs []confirmationRequest
	if err := c.Bind(&reqs); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if len(reqs) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "batch cannot be empty")
	}

	inputs := make([]ports.ConfirmationInput, 0, len(reqs))
	for i, req := range reqs {
		if err := c.Validate(&req); err != nil {
			return echo.NewHTTPError(http.StatusUnprocessableEntity,
				fmt.Sprintf("confirmation[%d]: %s", i, err.Error()))
		}
		inputs = append(inputs, toConfirmationInput(req))
	}

	h.dispatcher.EnqueueBatch(inputs)
	metrics.ConfirmationsReceivedTotal.Add(float64(len(inputs)))
	return c.JSON(http.StatusAccepted, acceptedResponse{
		Message: "confirmations accepted",
		Count:   len(inputs),
	})
}

// toConfirmationInput maps the HTTP request to the service DTO.
func toConfirmationInput(r confirmationRequest) ports.ConfirmationInput {
	return ports.ConfirmationInput{
		PaymentIntentRef: r.PaymentIntentRef,
		ReceivedAt:       r.Timestamp,
	}
}
