package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/gigbay/marketplace-api/internal/core/domain"
	"github.com/gigbay/marketplace-api/internal/core/ports"
)

// FulfillmentService implements ports.FulfillmentService.
type FulfillmentService struct {
	orders ports.OrderRepository
	repo   ports.FulfillmentRepository
	logger zerolog.Logger
}

func NewFulfillmentService(orders ports.OrderRepository, repo ports.FulfillmentRepository, logger zerolog.Logger) *FulfillmentService {
	return &FulfillmentService{orders: orders, repo: repo, logger: logger}
}

// StartProgress moves the order from pending to in_progress. Only the
// order's seller may start work.
func (s *FulfillmentService) StartProgress(ctx context.Context, orderID, sellerID string) (*domain.Order, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("start progress: %w", err)
	}
	if order.SellerID != sellerID {
		return nil, domain.ErrForbidden
	}
	return s.transition(ctx, order, domain.StatusInProgress)
}

// Cancel moves the order to cancelled. Either party may cancel, but only
// while the order is still pending or in progress.
func (s *FulfillmentService) Cancel(ctx context.Context, orderID, callerID string) (*domain.Order, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("cancel order: %w", err)
	}
	if !order.Party(callerID) {
		return nil, domain.ErrForbidden
	}
	return s.transition(ctx, order, domain.StatusCancelled)
}

// transition validates the state machine edge and applies it with an
// equality-guarded write, so a concurrent transition cannot be overwritten.
func (s *FulfillmentService) transition(ctx context.Context, order *domain.Order, next domain.FulfillmentStatus) (*domain.Order, error) {
	if !order.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("%w (from %s to %s)", domain.ErrInvalidTransition, order.Status, next)
	}
	if err := s.orders.UpdateStatus(ctx, order.ID, order.Status, next); err != nil {
		return nil, fmt.Errorf("transition order: %w", err)
	}
	order.Status = next

	s.logger.Info().
		Str("order_id", order.ID).
		Str("status", string(next)).
		Msg("fulfillment status advanced")
	return order, nil
}

// MarkDelivered sets the orthogonal delivered marker. It requires at least
// one submitted delivery and an order that has not reached a terminal state;
// buyer acceptance remains the only path to completed.
func (s *FulfillmentService) MarkDelivered(ctx context.Context, orderID, sellerID string) error {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return fmt.Errorf("mark delivered: %w", err)
	}
	if order.SellerID != sellerID {
		return domain.ErrForbidden
	}
	if order.Status.Terminal() {
		return fmt.Errorf("%w (order is %s)", domain.ErrInvalidTransition, order.Status)
	}

	n, err := s.repo.CountDeliveriesByOrder(ctx, orderID)
	if err != nil {
		return fmt.Errorf("mark delivered: %w", err)
	}
	if n == 0 {
		return domain.ErrNoDelivery
	}

	if err := s.orders.MarkDelivered(ctx, orderID); err != nil {
		return fmt.Errorf("mark delivered: %w", err)
	}
	return nil
}

// SubmitDelivery records a seller's work product against the order. It never
// changes the fulfillment status; a resubmission after buyer rejection is
// simply a fresh unaccepted delivery.
func (s *FulfillmentService) SubmitDelivery(ctx context.Context, input ports.SubmitDeliveryInput) (*domain.Delivery, error) {
	order, err := s.orders.FindByID(ctx, input.OrderID)
	if err != nil {
		return nil, fmt.Errorf("submit delivery: %w", err)
	}
	if order.SellerID != input.SellerID {
		return nil, domain.ErrForbidden
	}
	if order.Status.Terminal() {
		return nil, fmt.Errorf("%w (order is %s)", domain.ErrInvalidTransition, order.Status)
	}

	delivery := &domain.Delivery{
		ID:          newID("DLV"),
		OrderID:     order.ID,
		SellerID:    order.SellerID,
		BuyerID:     order.BuyerID,
		ArtifactRef: input.ArtifactRef,
		Message:     input.Message,
		IsAccepted:  false,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.repo.CreateDelivery(ctx, delivery); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID).Msg("failed to create delivery")
		return nil, fmt.Errorf("submit delivery: %w", err)
	}

	s.logger.Info().
		Str("delivery_id", delivery.ID).
		Str("order_id", order.ID).
		Msg("delivery submitted")
	return delivery, nil
}

// AcceptDelivery is the single authoritative completion signal for
// fulfillment: it flips the delivery's accepted flag and atomically advances
// the order to completed. Only the owning order's buyer may accept, a
// delivery accepts at most once, and the two writes commit together.
func (s *FulfillmentService) AcceptDelivery(ctx context.Context, deliveryID, buyerID string) (*domain.Order, error) {
	delivery, err := s.repo.FindDeliveryByID(ctx, deliveryID)
	if err != nil {
		return nil, fmt.Errorf("accept delivery: %w", err)
	}
	if delivery.BuyerID != buyerID {
		return nil, domain.ErrForbidden
	}
	if delivery.IsAccepted {
		return nil, domain.ErrAlreadyAccepted
	}

	if err := s.repo.AcceptDelivery(ctx, deliveryID, delivery.OrderID); err != nil {
		return nil, fmt.Errorf("accept delivery: %w", err)
	}

	s.logger.Info().
		Str("delivery_id", deliveryID).
		Str("order_id", delivery.OrderID).
		Msg("delivery accepted, order completed")

	order, err := s.orders.FindByID(ctx, delivery.OrderID)
	if err != nil {
		return nil, fmt.Errorf("accept delivery: %w", err)
	}
	return order, nil
}

// ListDeliveries returns the order's deliveries to either party.
func (s *FulfillmentService) ListDeliveries(ctx context.Context, orderID, callerID string) ([]*domain.Delivery, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("list deliveries: %w", err)
	}
	if !order.Party(callerID) {
		return nil, domain.ErrForbidden
	}
	return s.repo.ListDeliveriesByOrder(ctx, orderID)
}

// PostStatusUpdate appends a free-text progress note. Authorship is
// restricted to the order's seller; there are no other invariants.
func (s *FulfillmentService) PostStatusUpdate(ctx context.Context, input ports.PostStatusUpdateInput) (*domain.StatusUpdate, error) {
	order, err := s.orders.FindByID(ctx, input.OrderID)
	if err != nil {
		return nil, fmt.Errorf("post status update: %w", err)
	}
	if order.SellerID != input.SellerID {
		return nil, domain.ErrForbidden
	}

	update := &domain.StatusUpdate{
		ID:        newID("UPD"),
		OrderID:   order.ID,
		SellerID:  order.SellerID,
		Title:     input.Title,
		Body:      input.Body,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.CreateStatusUpdate(ctx, update); err != nil {
		return nil, fmt.Errorf("post status update: %w", err)
	}
	return update, nil
}

// ListStatusUpdates returns progress notes in creation order, visible to
// both parties.
func (s *FulfillmentService) ListStatusUpdates(ctx context.Context, orderID, callerID string) ([]*domain.StatusUpdate, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("list status updates: %w", err)
	}
	if !order.Party(callerID) {
		return nil, domain.ErrForbidden
	}
	return s.repo.ListStatusUpdatesByOrder(ctx, orderID)
}
