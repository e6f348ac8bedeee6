package ports

import (
	"context"

	"github.com/gigbay/marketplace-api/internal/core/domain"
)

// ReviewRepository persists reviews and keeps the gig rating aggregate
// exactly consistent with the surviving review set. Both mutating operations
// are all-or-nothing: the review write and the aggregate adjustment commit
// together or roll back together.
type ReviewRepository interface {
	// Create inserts the review and increments the gig's total_stars by
	// review.Star and star_number by 1 in a single atomic unit. A prior
	// review by the same (user, gig) pair yields domain.ErrDuplicateReview
	// and leaves the aggregate unchanged.
	Create(ctx context.Context, review *domain.Review) error
	FindByID(ctx context.Context, reviewID string) (*domain.Review, error)
	// Delete removes the review and reverses its exact contribution to the
	// aggregate (decrement by review.Star and 1) in a single atomic unit.
	Delete(ctx context.Context, review *domain.Review) error
	ListByGig(ctx context.Context, gigID string) ([]*domain.Review, error)
}
