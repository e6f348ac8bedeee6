package ports

import (
	"context"

	"github.com/gigbay/marketplace-api/internal/core/domain"
)

// StartConversationInput identifies first contact between a (seller, buyer)
// pair. The initiator's role decides which side of the deterministic id the
// counterparty occupies.
type StartConversationInput struct {
	InitiatorID       string
	InitiatorIsSeller bool
	CounterpartyID    string
}

// PostMessageInput carries one utterance into an existing thread.
type PostMessageInput struct {
	ConversationID string
	AuthorID       string
	Content        string
}

// ConversationService keeps the two roles of a message thread synchronized
// over shared state: one thread per (seller, buyer) pair, two independent
// unread flags.
type ConversationService interface {
	// GetOrCreate converges on the same conversation regardless of which
	// party calls first. On creation the initiator's own read flag is true
	// and the counterparty's false.
	GetOrCreate(ctx context.Context, input StartConversationInput) (*domain.Conversation, error)
	PostMessage(ctx context.Context, input PostMessageInput) (*domain.Message, error)
	// MarkRead sets only the caller's own flag; the counterparty's is never
	// touched.
	MarkRead(ctx context.Context, conversationID, callerID string, callerIsSeller bool) error
	Get(ctx context.Context, conversationID, callerID string) (*domain.Conversation, error)
	ListConversations(ctx context.Context, userID string, isSeller bool) ([]*domain.Conversation, error)
	ListMessages(ctx context.Context, conversationID, callerID string) ([]*domain.Message, error)
}
