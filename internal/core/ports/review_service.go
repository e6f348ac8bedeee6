package ports

import (
	"context"

	"github.com/gigbay/marketplace-api/internal/core/domain"
)

// CreateReviewInput carries one buyer's rating of one gig.
type CreateReviewInput struct {
	UserID  string
	GigID   string
	Star    int
	Comment string
}

// GigRating is the derived aggregate view of a gig's reviews.
type GigRating struct {
	GigID      string
	TotalStars int
	StarNumber int
	// Average is TotalStars/StarNumber; Rated is false when there are no
	// reviews yet.
	Average float64
	Rated   bool
}

// ReviewService owns review records and the gig rating aggregate.
type ReviewService interface {
	CreateReview(ctx context.Context, input CreateReviewInput) (*domain.Review, error)
	// DeleteReview is restricted to the review's author and reverses the
	// review's exact contribution to the gig aggregate.
	DeleteReview(ctx context.Context, reviewID, callerID string) error
	ListGigReviews(ctx context.Context, gigID string) ([]*domain.Review, error)
	GetGigRating(ctx context.Context, gigID string) (*GigRating, error)
}
