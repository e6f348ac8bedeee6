package ports

import (
	"context"

	"github.com/gigbay/marketplace-api/internal/core/domain"
)

// SubmitDeliveryInput carries a seller's work submission for one order.
type SubmitDeliveryInput struct {
	OrderID     string
	SellerID    string
	ArtifactRef string
	Message     string
}

// PostStatusUpdateInput carries a seller's free-text progress note.
type PostStatusUpdateInput struct {
	OrderID  string
	SellerID string
	Title    string
	Body     string
}

// FulfillmentService owns per-order status progression and the delivery
// submission/acceptance cycle. Buyer acceptance of a delivery is the single
// authoritative completion signal for fulfillment.
type FulfillmentService interface {
	// StartProgress moves pending→in_progress. Seller only.
	StartProgress(ctx context.Context, orderID, sellerID string) (*domain.Order, error)
	// Cancel moves pending/in_progress→cancelled. Either party.
	Cancel(ctx context.Context, orderID, callerID string) (*domain.Order, error)
	// MarkDelivered sets the orthogonal delivered marker. Seller only;
	// requires at least one submitted delivery.
	MarkDelivered(ctx context.Context, orderID, sellerID string) error

	SubmitDelivery(ctx context.Context, input SubmitDeliveryInput) (*domain.Delivery, error)
	// AcceptDelivery sets is_accepted=true and atomically completes the order.
	// Not-found, forbidden, and already-accepted failures are distinguishable.
	AcceptDelivery(ctx context.Context, deliveryID, buyerID string) (*domain.Order, error)
	ListDeliveries(ctx context.Context, orderID, callerID string) ([]*domain.Delivery, error)

	PostStatusUpdate(ctx context.Context, input PostStatusUpdateInput) (*domain.StatusUpdate, error)
	ListStatusUpdates(ctx context.Context, orderID, callerID string) ([]*domain.StatusUpdate, error)
}
