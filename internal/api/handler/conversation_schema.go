package handler

import (
	"time"

	"github.com/gigbay/marketplace-api/internal/core/domain"
)

type startConversationRequest struct {
	CounterpartyID string `json:"counterparty_id" validate:"required"`
}

type postMessageRequest struct {
	Content string `json:"content" validate:"required"`
}

type conversationResponse struct {
	ID           string    `json:"id"`
	SellerID     string    `json:"seller_id"`
	BuyerID      string    `json:"buyer_id"`
	ReadBySeller bool      `json:"read_by_seller"`
	ReadByBuyer  bool      `json:"read_by_buyer"`
	LastMessage  string    `json:"last_message,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type messageResponse struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	AuthorID       string    `json:"author_id"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`
}

func toConversationResponse(c *domain.Conversation) conversationResponse {
	return conversationResponse{
		ID:           c.ID,
		SellerID:     c.SellerID,
		BuyerID:      c.BuyerID,
		ReadBySeller: c.ReadBySeller,
		ReadByBuyer:  c.ReadByBuyer,
		LastMessage:  c.LastMessage,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

func toMessageResponse(m *domain.Message) messageResponse {
	return messageResponse{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		AuthorID:       m.AuthorID,
		Content:        m.Content,
		CreatedAt:      m.CreatedAt,
	}
}
