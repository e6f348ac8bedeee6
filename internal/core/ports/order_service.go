package ports

import (
	"context"
	"time"

	"github.com/gigbay/marketplace-api/internal/core/domain"
)

// CreateOrderInput carries a buyer's purchase intent for one gig.
type CreateOrderInput struct {
	GigID   string
	BuyerID string
}

// CreateOrderResult is returned after the payment intent is created and the
// order persisted. ClientSecret is the processor token the buyer's client
// needs to complete authorization.
type CreateOrderResult struct {
	Order        *domain.Order
	ClientSecret string
}

// ListOrdersInput scopes the order list to one side of the marketplace.
type ListOrdersInput struct {
	UserID   string
	IsSeller bool
}

// ConfirmationInput is the DTO passed from the processor's confirmation
// channel to the order service. Redelivery of the same notification is
// expected and harmless.
type ConfirmationInput struct {
	PaymentIntentRef string
	ReceivedAt       time.Time
}

// OrderService owns the order ledger: purchase creation tied to a payment
// intent, and exactly-once completion on capture confirmation.
type OrderService interface {
	CreateOrder(ctx context.Context, input CreateOrderInput) (*CreateOrderResult, error)
	// ConfirmCapture is idempotent: re-applying a confirmation that already
	// completed the order is a no-op, as is an unknown ref.
	ConfirmCapture(ctx context.Context, input ConfirmationInput) error
	// ListOrders returns only completed orders (incomplete checkouts are not
	// orders from either party's perspective), newest first.
	ListOrders(ctx context.Context, input ListOrdersInput) ([]*domain.Order, error)
	// GetOrder returns a single order to one of its two parties.
	GetOrder(ctx context.Context, orderID, callerID string) (*domain.Order, error)
}
