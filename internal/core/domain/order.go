package domain

import "time"

// FulfillmentStatus represents the work-completion state of an order. It is
// independent of payment capture: is_completed and fulfillment status are two
// separate facts about the same order.
type FulfillmentStatus string

const (
	StatusPending    FulfillmentStatus = "pending"
	StatusInProgress FulfillmentStatus = "in_progress"
	StatusCompleted  FulfillmentStatus = "completed"
	StatusCancelled  FulfillmentStatus = "cancelled"
)

// validTransitions defines the allowed state machine transitions. Terminal
// states (completed, cancelled) have no outgoing edges.
var validTransitions = map[FulfillmentStatus][]FulfillmentStatus{
	StatusPending:    {StatusInProgress, StatusCompleted, StatusCancelled},
	StatusInProgress: {StatusCompleted, StatusCancelled},
}

// CanTransitionTo reports whether a transition from the current status to next is valid.
func (s FulfillmentStatus) CanTransitionTo(next FulfillmentStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Terminal reports whether the status admits no further transitions.
func (s FulfillmentStatus) Terminal() bool {
	return len(validTransitions[s]) == 0
}

// Order is one purchase attempt of a gig by a buyer. Orders are never
// hard-deleted (audit requirement); abandoned checkouts simply stay with
// IsCompleted=false.
type Order struct {
	ID               string            `json:"id" bson:"_id,omitempty"`
	GigID            string            `json:"gig_id" bson:"gig_id"`
	GigTitle         string            `json:"gig_title" bson:"gig_title"`
	BuyerID          string            `json:"buyer_id" bson:"buyer_id"`
	SellerID         string            `json:"seller_id" bson:"seller_id"`
	Price            float64           `json:"price" bson:"price"` // copied at purchase time
	PaymentIntentRef string            `json:"payment_intent_ref" bson:"payment_intent_ref"`
	IsCompleted      bool              `json:"is_completed" bson:"is_completed"` // monotonic false→true
	IsDelivered      bool              `json:"is_delivered" bson:"is_delivered"`
	Status           FulfillmentStatus `json:"status" bson:"status"`
	CreatedAt        time.Time         `json:"created_at" bson:"created_at"`
}

// Party reports whether userID is one of the order's two participants.
func (o *Order) Party(userID string) bool {
	return userID == o.BuyerID || userID == o.SellerID
}

// StatusUpdate is a free-text progress note a seller attaches to an order.
// Append-only, purely observational.
type StatusUpdate struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	OrderID   string    `json:"order_id" bson:"order_id"`
	SellerID  string    `json:"seller_id" bson:"seller_id"`
	Title     string    `json:"title" bson:"title"`
	Body      string    `json:"body" bson:"body"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}
