package domain

import "time"

// ConversationID derives the deterministic thread identity for a
// (seller, buyer) pair: sellerID then buyerID in that fixed order, so either
// party converges on the same row regardless of who spoke first. Lookups also
// go through the (seller_id, buyer_id) compound index, so the concatenated
// form is display identity rather than the only routing key.
func ConversationID(sellerID, buyerID string) string {
	return sellerID + buyerID
}

// Conversation is one messaging thread between exactly one seller and one
// buyer, with an independent unread flag per role.
type Conversation struct {
	ID           string    `json:"id" bson:"_id,omitempty"`
	SellerID     string    `json:"seller_id" bson:"seller_id"`
	BuyerID      string    `json:"buyer_id" bson:"buyer_id"`
	ReadBySeller bool      `json:"read_by_seller" bson:"read_by_seller"`
	ReadByBuyer  bool      `json:"read_by_buyer" bson:"read_by_buyer"`
	LastMessage  string    `json:"last_message" bson:"last_message"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" bson:"updated_at"`
}

// Participant reports whether userID belongs to the thread.
func (c *Conversation) Participant(userID string) bool {
	return userID == c.SellerID || userID == c.BuyerID
}

// Message is one utterance inside a conversation. Immutable once created.
type Message struct {
	ID             string    `json:"id" bson:"_id,omitempty"`
	ConversationID string    `json:"conversation_id" bson:"conversation_id"`
	AuthorID       string    `json:"author_id" bson:"author_id"`
	Content        string    `json:"content" bson:"content"`
	CreatedAt      time.Time `json:"created_at" bson:"created_at"`
}
