package domain

import "time"

// User models an authenticated actor. Identity is owned by the auth slice;
// the core services only consume the resolved (ID, IsSeller) pair.
type User struct {
	ID           string    `json:"id" bson:"_id,omitempty"`
	Username     string    `json:"username" bson:"username"`
	Email        string    `json:"email,omitempty" bson:"email,omitempty"`
	PasswordHash string    `json:"-" bson:"password_hash"`
	IsSeller     bool      `json:"is_seller" bson:"is_seller"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" bson:"updated_at"`
}
