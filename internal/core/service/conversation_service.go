package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/gigbay/marketplace-api/internal/core/domain"
	"github.com/gigbay/marketplace-api/internal/core/ports"
)

// ConversationService implements ports.ConversationService.
type ConversationService struct {
	repo   ports.ConversationRepository
	logger zerolog.Logger
}

func NewConversationService(repo ports.ConversationRepository, logger zerolog.Logger) *ConversationService {
	return &ConversationService{repo: repo, logger: logger}
}

// GetOrCreate resolves the deterministic (seller, buyer) thread, creating it
// on first contact. Both parties converge on the same row regardless of who
// initiates; a creation race is resolved by re-fetching the winner's row.
func (s *ConversationService) GetOrCreate(ctx context.Context, input ports.StartConversationInput) (*domain.Conversation, error) {
	sellerID, buyerID := input.CounterpartyID, input.InitiatorID
	if input.InitiatorIsSeller {
		sellerID, buyerID = input.InitiatorID, input.CounterpartyID
	}
	id := domain.ConversationID(sellerID, buyerID)

	conv, err := s.repo.FindByID(ctx, id)
	if err == nil {
		return conv, nil
	}
	if !errors.Is(err, domain.ErrConversationNotFound) {
		return nil, fmt.Errorf("get conversation: %w", err)
	}

	now := time.Now().UTC()
	conv = &domain.Conversation{
		ID:       id,
		SellerID: sellerID,
		BuyerID:  buyerID,
		// The initiator authored the contact, so only their side starts read.
		ReadBySeller: input.InitiatorIsSeller,
		ReadByBuyer:  !input.InitiatorIsSeller,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, conv); err != nil {
		if errors.Is(err, domain.ErrConversationExists) {
			return s.repo.FindByID(ctx, id)
		}
		return nil, fmt.Errorf("create conversation: %w", err)
	}

	s.logger.Info().
		Str("conversation_id", id).
		Str("seller_id", sellerID).
		Str("buyer_id", buyerID).
		Msg("conversation created")
	return conv, nil
}

// PostMessage appends an utterance and updates the thread's shared state in
// one unit: last-message preview, the author's read flag to true, the
// counterparty's to false.
func (s *ConversationService) PostMessage(ctx context.Context, input ports.PostMessageInput) (*domain.Message, error) {
	conv, err := s.repo.FindByID(ctx, input.ConversationID)
	if err != nil {
		return nil, fmt.Errorf("post message: %w", err)
	}
	if !conv.Participant(input.AuthorID) {
		return nil, domain.ErrForbidden
	}

	msg := &domain.Message{
		ID:             newID("MSG"),
		ConversationID: conv.ID,
		AuthorID:       input.AuthorID,
		Content:        input.Content,
		CreatedAt:      time.Now().UTC(),
	}

	authorIsSeller := input.AuthorID == conv.SellerID
	if err := s.repo.AppendMessage(ctx, msg, authorIsSeller); err != nil {
		return nil, fmt.Errorf("post message: %w", err)
	}
	return msg, nil
}

// MarkRead sets the caller's own unread flag to true. The counterparty's
// flag is never touched.
func (s *ConversationService) MarkRead(ctx context.Context, conversationID, callerID string, callerIsSeller bool) error {
	conv, err := s.repo.FindByID(ctx, conversationID)
	if err != nil {
		return fmt.Errorf("mark read: %w", err)
	}
	// The claimed role must match the caller's seat in this thread.
	if callerIsSeller && conv.SellerID != callerID {
		return domain.ErrForbidden
	}
	if !callerIsSeller && conv.BuyerID != callerID {
		return domain.ErrForbidden
	}
	return s.repo.MarkRead(ctx, conversationID, callerIsSeller)
}

// Get returns a single conversation to one of its participants.
func (s *ConversationService) Get(ctx context.Context, conversationID, callerID string) (*domain.Conversation, error) {
	conv, err := s.repo.FindByID(ctx, conversationID)
	if err != nil {
		return nil, fmt.Errorf("get conversation: %w", err)
	}
	if !conv.Participant(callerID) {
		return nil, domain.ErrForbidden
	}
	return conv, nil
}

// ListConversations returns the caller's threads, most recently active first.
func (s *ConversationService) ListConversations(ctx context.Context, userID string, isSeller bool) ([]*domain.Conversation, error) {
	convs, err := s.repo.ListByParticipant(ctx, userID, isSeller)
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	return convs, nil
}

// ListMessages returns the thread's messages in order, to participants only.
func (s *ConversationService) ListMessages(ctx context.Context, conversationID, callerID string) ([]*domain.Message, error) {
	conv, err := s.repo.FindByID(ctx, conversationID)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	if !conv.Participant(callerID) {
		return nil, domain.ErrForbidden
	}
	return s.repo.ListMessages(ctx, conversationID)
}
