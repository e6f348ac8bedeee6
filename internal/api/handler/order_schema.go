package handler

import (
	"time"

	"github.com/gigbay/marketplace-api/internal/core/domain"
	"github.com/gigbay/marketplace-api/internal/core/ports"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

type createOrderRequest struct {
	GigID string `json:"gig_id" validate:"required"`
}

// Response-only types owned by the transport layer. Intentionally separate
// from domain types so the JSON contract is not coupled to internal changes.

type orderResponse struct {
	ID          string    `json:"id"`
	GigID       string    `json:"gig_id"`
	GigTitle    string    `json:"gig_title"`
	BuyerID     string    `json:"buyer_id"`
	SellerID    string    `json:"seller_id"`
	Price       float64   `json:"price"`
	IsCompleted bool      `json:"is_completed"`
	IsDelivered bool      `json:"is_delivered"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

type createOrderResponse struct {
	Order orderResponse `json:"order"`
	// ClientSecret is passed through to the buyer's client to complete
	// payment authorization. Never stored.
	ClientSecret string `json:"client_secret"`
}

func toOrderResponse(o *domain.Order) orderResponse {
	return orderResponse{
		ID:          o.ID,
		GigID:       o.GigID,
		GigTitle:    o.GigTitle,
		BuyerID:     o.BuyerID,
		SellerID:    o.SellerID,
		Price:       o.Price,
		IsCompleted: o.IsCompleted,
		IsDelivered: o.IsDelivered,
		Status:      string(o.Status),
		CreatedAt:   o.CreatedAt,
	}
}

func toCreateOrderResponse(r *ports.CreateOrderResult) createOrderResponse {
	return createOrderResponse{
		Order:        toOrderResponse(r.Order),
		ClientSecret: r.ClientSecret,
	}
}
