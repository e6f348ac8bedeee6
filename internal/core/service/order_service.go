package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/gigbay/marketplace-api/internal/core/domain"
	"github.com/gigbay/marketplace-api/internal/core/ports"
)

// DedupChecker abstracts the confirmation redelivery store (Redis). It is an
// optimization only: the equality-guarded completion write remains the
// correctness guard after the dedup key expires.
type DedupChecker interface {
	IsDuplicate(ctx context.Context, intentRef string) (bool, error)
	Mark(ctx context.Context, intentRef string) error
}

// OrderService implements ports.OrderService.
type OrderService struct {
	orders   ports.OrderRepository
	catalog  ports.GigCatalog
	gateway  ports.PaymentGateway
	dedup    DedupChecker
	currency string
	logger   zerolog.Logger
}

func NewOrderService(
	orders ports.OrderRepository,
	catalog ports.GigCatalog,
	gateway ports.PaymentGateway,
	dedup DedupChecker,
	currency string,
	logger zerolog.Logger,
) *OrderService {
	return &OrderService{
		orders:   orders,
		catalog:  catalog,
		gateway:  gateway,
		dedup:    dedup,
		currency: currency,
		logger:   logger,
	}
}

// CreateOrder requests a payment intent for the gig's current price and
// persists a new pending order bound to it. The price is copied onto the
// order so later catalog changes cannot reprice an existing purchase. When
// the processor call fails or times out, no order is persisted.
func (s *OrderService) CreateOrder(ctx context.Context, input ports.CreateOrderInput) (*ports.CreateOrderResult, error) {
	gig, err := s.catalog.FindByID(ctx, input.GigID)
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	if gig.OwnerID == input.BuyerID {
		return nil, domain.ErrSelfPurchase
	}

	intent, err := s.gateway.CreateIntent(ctx, gig.Price, s.currency)
	if err != nil {
		s.logger.Error().Err(err).Str("gig_id", gig.ID).Msg("payment intent creation failed")
		return nil, fmt.Errorf("create order: %w: %v", domain.ErrPaymentInitiation, err)
	}

	order := &domain.Order{
		ID:               newID("ORD"),
		GigID:            gig.ID,
		GigTitle:         gig.Title,
		BuyerID:          input.BuyerID,
		SellerID:         gig.OwnerID,
		Price:            gig.Price,
		PaymentIntentRef: intent.Ref,
		IsCompleted:      false,
		Status:           domain.StatusPending,
		CreatedAt:        time.Now().UTC(),
	}

	if err := s.orders.Create(ctx, order); err != nil {
		s.logger.Error().Err(err).Str("intent_ref", intent.Ref).Msg("failed to persist order")
		return nil, fmt.Errorf("create order: %w", err)
	}

	s.logger.Info().
		Str("order_id", order.ID).
		Str("gig_id", gig.ID).
		Str("buyer_id", input.BuyerID).
		Float64("price", gig.Price).
		Msg("order created")

	return &ports.CreateOrderResult{Order: order, ClientSecret: intent.ClientSecret}, nil
}

// ConfirmCapture applies a processor capture notification. The processor may
// redeliver the same notification any number of times; all applications after
// the first are no-ops. An unknown intent ref is also a no-op, not an error.
func (s *OrderService) ConfirmCapture(ctx context.Context, input ports.ConfirmationInput) error {
	isDup, err := s.dedup.IsDuplicate(ctx, input.PaymentIntentRef)
	if err != nil {
		s.logger.Warn().Err(err).Str("intent_ref", input.PaymentIntentRef).Msg("dedup check failed, processing anyway")
	} else if isDup {
		s.logger.Debug().Str("intent_ref", input.PaymentIntentRef).Msg("duplicate confirmation skipped")
		return nil
	}

	modified, err := s.orders.CompleteByIntentRef(ctx, input.PaymentIntentRef)
	if err != nil {
		return fmt.Errorf("confirm capture: %w", err)
	}

	// Mark only after the conditional write succeeded, so a transient store
	// failure is retried by the next redelivery instead of being swallowed.
	if markErr := s.dedup.Mark(ctx, input.PaymentIntentRef); markErr != nil {
		s.logger.Warn().Err(markErr).Str("intent_ref", input.PaymentIntentRef).Msg("failed to set dedup key")
	}

	if modified == 0 {
		s.logger.Debug().Str("intent_ref", input.PaymentIntentRef).Msg("confirmation no-op (unknown ref or already completed)")
		return nil
	}

	s.logger.Info().Str("intent_ref", input.PaymentIntentRef).Msg("payment capture confirmed")
	return nil
}

// ListOrders returns the caller's completed orders, newest first. The role
// flag selects which side of the order the caller must be on.
func (s *OrderService) ListOrders(ctx context.Context, input ports.ListOrdersInput) ([]*domain.Order, error) {
	orders, err := s.orders.ListByParticipant(ctx, input.UserID, input.IsSeller)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

// GetOrder returns a single order to its buyer or seller.
func (s *OrderService) GetOrder(ctx context.Context, orderID, callerID string) (*domain.Order, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	if !order.Party(callerID) {
		return nil, domain.ErrForbidden
	}
	return order, nil
}
