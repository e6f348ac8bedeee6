package domain

import "time"

// Review is one buyer's rating of one gig. Unique on (UserID, GigID).
type Review struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	UserID    string    `json:"user_id" bson:"user_id"`
	GigID     string    `json:"gig_id" bson:"gig_id"`
	Star      int       `json:"star" bson:"star"` // 1–5
	Comment   string    `json:"comment" bson:"comment"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

const (
	MinStar = 1
	MaxStar = 5
)
