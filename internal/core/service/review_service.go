package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/gigbay/marketplace-api/internal/core/domain"
	"github.com/gigbay/marketplace-api/internal/core/ports"
)

// ReviewService implements ports.ReviewService.
type ReviewService struct {
	reviews ports.ReviewRepository
	catalog ports.GigCatalog
	logger  zerolog.Logger
}

func NewReviewService(reviews ports.ReviewRepository, catalog ports.GigCatalog, logger zerolog.Logger) *ReviewService {
	return &ReviewService{reviews: reviews, catalog: catalog, logger: logger}
}

// CreateReview inserts the review and folds its star value into the gig's
// rating aggregate as one atomic unit. A gig owner cannot review their own
// gig, and a second review by the same (user, gig) pair is rejected with the
// aggregate untouched.
func (s *ReviewService) CreateReview(ctx context.Context, input ports.CreateReviewInput) (*domain.Review, error) {
	if input.Star < domain.MinStar || input.Star > domain.MaxStar {
		return nil, domain.ErrInvalidRating
	}

	gig, err := s.catalog.FindByID(ctx, input.GigID)
	if err != nil {
		return nil, fmt.Errorf("create review: %w", err)
	}
	if gig.OwnerID == input.UserID {
		return nil, domain.ErrSelfReview
	}

	review := &domain.Review{
		ID:        newID("REV"),
		UserID:    input.UserID,
		GigID:     input.GigID,
		Star:      input.Star,
		Comment:   input.Comment,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.reviews.Create(ctx, review); err != nil {
		return nil, fmt.Errorf("create review: %w", err)
	}

	s.logger.Info().
		Str("review_id", review.ID).
		Str("gig_id", input.GigID).
		Int("star", input.Star).
		Msg("review created")
	return review, nil
}

// DeleteReview removes the caller's own review and reverses its exact
// contribution to the gig aggregate in the same atomic unit.
func (s *ReviewService) DeleteReview(ctx context.Context, reviewID, callerID string) error {
	review, err := s.reviews.FindByID(ctx, reviewID)
	if err != nil {
		return fmt.Errorf("delete review: %w", err)
	}
	if review.UserID != callerID {
		return domain.ErrForbidden
	}

	if err := s.reviews.Delete(ctx, review); err != nil {
		return fmt.Errorf("delete review: %w", err)
	}

	s.logger.Info().
		Str("review_id", reviewID).
		Str("gig_id", review.GigID).
		Msg("review deleted")
	return nil
}

// ListGigReviews returns all surviving reviews for a gig.
func (s *ReviewService) ListGigReviews(ctx context.Context, gigID string) ([]*domain.Review, error) {
	reviews, err := s.reviews.ListByGig(ctx, gigID)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	return reviews, nil
}

// GetGigRating returns the gig's running aggregate and derived average.
func (s *ReviewService) GetGigRating(ctx context.Context, gigID string) (*ports.GigRating, error) {
	gig, err := s.catalog.FindByID(ctx, gigID)
	if err != nil {
		return nil, fmt.Errorf("gig rating: %w", err)
	}
	rating := &ports.GigRating{
		GigID:      gig.ID,
		TotalStars: gig.TotalStars,
		StarNumber: gig.StarNumber,
	}
	rating.Average, rating.Rated = gig.Rating()
	return rating, nil
}
