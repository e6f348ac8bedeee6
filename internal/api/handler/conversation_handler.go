package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/gigbay/marketplace-api/internal/api/metrics"
	"github.com/gigbay/marketplace-api/internal/core/ports"
)

// ConversationHandler handles HTTP requests for message threads.
type ConversationHandler struct {
	service ports.ConversationService
}

func NewConversationHandler(service ports.ConversationService) *ConversationHandler {
	return &ConversationHandler{service: service}
}

// Start handles POST /v1/conversations — get-or-create a thread with the
// counterparty. Either party may call first; both converge on the same thread.
//
// @Summary      Open (or return) the thread with a counterparty
// @Tags         conversations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      startConversationRequest  true  "Counterparty"
// @Success      200   {object}  conversationResponse
// @Failure      400   {object}  errorResponse
// @Router       /v1/conversations [post]
func (h *ConversationHandler) Start(c echo.Context) error {
	userID, isSeller, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req startConversationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	conv, err := h.service.GetOrCreate(c.Request().Context(), ports.StartConversationInput{
		InitiatorID:       userID,
		InitiatorIsSeller: isSeller,
		CounterpartyID:    req.CounterpartyID,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toConversationResponse(conv))
}

// List handles GET /v1/conversations — the caller's threads, most recently
// active first.
//
// @Summary      List the caller's conversations
// @Tags         conversations
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   conversationResponse
// @Failure      401  {object}  errorResponse
// @Router       /v1/conversations [get]
func (h *ConversationHandler) List(c echo.Context) error {
	userID, isSeller, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	convs, err := h.service.ListConversations(c.Request().Context(), userID, isSeller)
	if err != nil {
		return err
	}

	out := make([]conversationResponse, 0, len(convs))
	for _, conv := range convs {
		out = append(out, toConversationResponse(conv))
	}
	return c.JSON(http.StatusOK, out)
}

// Get handles GET /v1/conversations/:id.
//
// @Summary      Get a conversation
// @Tags         conversations
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Conversation id"
// @Success      200  {object}  conversationResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/conversations/{id} [get]
func (h *ConversationHandler) Get(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	conv, err := h.service.Get(c.Request().Context(), c.Param("id"), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toConversationResponse(conv))
}

// MarkRead handles PATCH /v1/conversations/:id/read — sets only the caller's
// own read flag.
//
// @Summary      Mark a conversation read for the caller
// @Tags         conversations
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Conversation id"
// @Success      204  "no content"
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/conversations/{id}/read [patch]
func (h *ConversationHandler) MarkRead(c echo.Context) error {
	userID, isSeller, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	if err := h.service.MarkRead(c.Request().Context(), c.Param("id"), userID, isSeller); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// PostMessage handles POST /v1/conversations/:id/messages.
//
// @Summary      Post a message
// @Tags         conversations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string              true  "Conversation id"
// @Param        body  body      postMessageRequest  true  "Message content"
// @Success      201   {object}  messageResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/conversations/{id}/messages [post]
func (h *ConversationHandler) PostMessage(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req postMessageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	msg, err := h.service.PostMessage(c.Request().Context(), ports.PostMessageInput{
		ConversationID: c.Param("id"),
		AuthorID:       userID,
		Content:        req.Content,
	})
	if err != nil {
		return err
	}

	metrics.MessagesPostedTotal.Inc()
	return c.JSON(http.StatusCreated, toMessageResponse(msg))
}

// ListMessages handles GET /v1/conversations/:id/messages.
//
// @Summary      List a conversation's messages
// @Tags         conversations
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Conversation id"
// @Success      200  {array}   messageResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/conversations/{id}/messages [get]
func (h *ConversationHandler) ListMessages(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	msgs, err := h.service.ListMessages(c.Request().Context(), c.Param("id"), userID)
	if err != nil {
		return err
	}

	out := make([]messageResponse, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, toMessageResponse(m))
	}
	return c.JSON(http.StatusOK, out)
}
