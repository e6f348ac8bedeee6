package domain

import "time"

// Delivery is a seller's submitted work product for one order. An order may
// accumulate several deliveries (resubmission after buyer rejection is
// modelled as a fresh unaccepted delivery, not a revision).
type Delivery struct {
	ID          string    `json:"id" bson:"_id,omitempty"`
	OrderID     string    `json:"order_id" bson:"order_id"`
	SellerID    string    `json:"seller_id" bson:"seller_id"`
	BuyerID     string    `json:"buyer_id" bson:"buyer_id"`
	ArtifactRef string    `json:"artifact_ref" bson:"artifact_ref"`
	Message     string    `json:"message" bson:"message"`
	IsAccepted  bool      `json:"is_accepted" bson:"is_accepted"` // monotonic false→true, buyer only
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
}
