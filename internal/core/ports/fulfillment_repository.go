package ports

import (
	"context"

	"github.com/gigbay/marketplace-api/internal/core/domain"
)

// FulfillmentRepository persists deliveries and status updates for orders.
type FulfillmentRepository interface {
	CreateDelivery(ctx context.Context, d *domain.Delivery) error
	FindDeliveryByID(ctx context.Context, deliveryID string) (*domain.Delivery, error)
	// AcceptDelivery atomically sets the delivery's is_accepted flag (guarded
	// on is_accepted=false) and advances the owning order's status to
	// completed. Both writes commit or neither does. Returns
	// domain.ErrAlreadyAccepted when the guard does not match.
	AcceptDelivery(ctx context.Context, deliveryID, orderID string) error
	ListDeliveriesByOrder(ctx context.Context, orderID string) ([]*domain.Delivery, error)
	CountDeliveriesByOrder(ctx context.Context, orderID string) (int64, error)

	CreateStatusUpdate(ctx context.Context, u *domain.StatusUpdate) error
	// ListStatusUpdatesByOrder returns updates in creation order.
	ListStatusUpdatesByOrder(ctx context.Context, orderID string) ([]*domain.StatusUpdate, error)
}
