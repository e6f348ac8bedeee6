package handler

import (
	"time"

	"github.com/gigbay/marketplace-api/internal/core/domain"
)

type submitDeliveryRequest struct {
	ArtifactRef string `json:"artifact_ref" validate:"required"`
	Message     string `json:"message"`
}

type statusUpdateRequest struct {
	Title string `json:"title" validate:"required"`
	Body  string `json:"body"  validate:"required"`
}

type deliveryResponse struct {
	ID          string    `json:"id"`
	OrderID     string    `json:"order_id"`
	SellerID    string    `json:"seller_id"`
	ArtifactRef string    `json:"artifact_ref"`
	Message     string    `json:"message,omitempty"`
	IsAccepted  bool      `json:"is_accepted"`
	CreatedAt   time.Time `json:"created_at"`
}

type statusUpdateResponse struct {
	ID        string    `json:"id"`
	OrderID   string    `json:"order_id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

func toDeliveryResponse(d *domain.Delivery) deliveryResponse {
	return deliveryResponse{
		ID:          d.ID,
		OrderID:     d.OrderID,
		SellerID:    d.SellerID,
		ArtifactRef: d.ArtifactRef,
		Message:     d.Message,
		IsAccepted:  d.IsAccepted,
		CreatedAt:   d.CreatedAt,
	}
}

func toStatusUpdateResponse(u *domain.StatusUpdate) statusUpdateResponse {
	return statusUpdateResponse{
		ID:        u.ID,
		OrderID:   u.OrderID,
		Title:     u.Title,
		Body:      u.Body,
		CreatedAt: u.CreatedAt,
	}
}
