package ports

import (
	"context"

	"github.com/gigbay/marketplace-api/internal/core/domain"
)

// ConversationRepository persists conversations and their append-only
// message sequences.
type ConversationRepository interface {
	// Create inserts a new conversation. When the deterministic id already
	// exists (two parties raced on first contact) it returns
	// domain.ErrConversationExists so the caller can re-fetch.
	Create(ctx context.Context, c *domain.Conversation) error
	FindByID(ctx context.Context, conversationID string) (*domain.Conversation, error)
	// AppendMessage atomically inserts the message and updates the owning
	// conversation: last_message preview, the author's read flag to true, the
	// counterparty's to false, updated_at to the message time.
	AppendMessage(ctx context.Context, m *domain.Message, authorIsSeller bool) error
	// MarkRead sets only the given role's read flag to true.
	MarkRead(ctx context.Context, conversationID string, isSeller bool) error
	// ListByParticipant returns the user's threads, most recently active first.
	ListByParticipant(ctx context.Context, userID string, isSeller bool) ([]*domain.Conversation, error)
	// ListMessages returns the thread's messages ordered by creation time.
	ListMessages(ctx context.Context, conversationID string) ([]*domain.Message, error)
}
