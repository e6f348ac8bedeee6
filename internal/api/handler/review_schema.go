package handler

import (
	"time"

	"github.com/gigbay/marketplace-api/internal/core/domain"
	"github.com/gigbay/marketplace-api/internal/core/ports"
)

type createReviewRequest struct {
	Star    int    `json:"star"    validate:"required,min=1,max=5"`
	Comment string `json:"comment"`
}

type reviewResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	GigID     string    `json:"gig_id"`
	Star      int       `json:"star"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type ratingResponse struct {
	TotalStars int     `json:"total_stars"`
	StarNumber int     `json:"star_number"`
	Average    float64 `json:"average"`
	Rated      bool    `json:"rated"`
}

type gigReviewsResponse struct {
	Rating  ratingResponse   `json:"rating"`
	Reviews []reviewResponse `json:"reviews"`
}

func toReviewResponse(r *domain.Review) reviewResponse {
	return reviewResponse{
		ID:        r.ID,
		UserID:    r.UserID,
		GigID:     r.GigID,
		Star:      r.Star,
		Comment:   r.Comment,
		CreatedAt: r.CreatedAt,
	}
}

func toRatingResponse(r *ports.GigRating) ratingResponse {
	return ratingResponse{
		TotalStars: r.TotalStars,
		StarNumber: r.StarNumber,
		Average:    r.Average,
		Rated:      r.Rated,
	}
}
