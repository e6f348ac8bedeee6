package ports

import (
	"context"

	"github.com/gigbay/marketplace-api/internal/core/domain"
)

// OrderRepository defines persistence operations for orders.
type OrderRepository interface {
	Create(ctx context.Context, o *domain.Order) error
	FindByID(ctx context.Context, orderID string) (*domain.Order, error)
	// CompleteByIntentRef flips is_completed false→true for the order holding
	// the given payment intent ref. The write is equality-guarded (matches only
	// documents with is_completed=false) so duplicate processor notifications
	// and concurrent cancellation paths cannot race on the flag. Returns the
	// number of documents modified: 0 means unknown ref or already completed,
	// which is a no-op for callers, not an error.
	CompleteByIntentRef(ctx context.Context, intentRef string) (int64, error)
	// ListByParticipant returns completed orders where the user is the buyer
	// (isSeller=false) or seller (isSeller=true), newest first.
	ListByParticipant(ctx context.Context, userID string, isSeller bool) ([]*domain.Order, error)
	// UpdateStatus advances fulfillment status with an equality guard on the
	// current value. Returns domain.ErrInvalidTransition when the guard does
	// not match (the status moved concurrently).
	UpdateStatus(ctx context.Context, orderID string, from, to domain.FulfillmentStatus) error
	// MarkDelivered sets the orthogonal is_delivered marker.
	MarkDelivered(ctx context.Context, orderID string) error
}
