package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/gigbay/marketplace-api/internal/api/metrics"
	"github.com/gigbay/marketplace-api/internal/core/ports"
)

// ReviewHandler handles HTTP requests for reviews and gig ratings.
type ReviewHandler struct {
	service ports.ReviewService
}

func NewReviewHandler(service ports.ReviewService) *ReviewHandler {
	return &ReviewHandler{service: service}
}

// Create handles POST /v1/gigs/:id/reviews.
//
// @Summary      Review a gig
// @Tags         reviews
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string               true  "Gig id"
// @Param        body  body      createReviewRequest  true  "Review details"
// @Success      201   {object}  reviewResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /v1/gigs/{id}/reviews [post]
func (h *ReviewHandler) Create(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req createReviewRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	review, err := h.service.CreateReview(c.Request().Context(), ports.CreateReviewInput{
		UserID:  userID,
		GigID:   c.Param("id"),
		Star:    req.Star,
		Comment: req.Comment,
	})
	if err != nil {
		return err
	}

	metrics.ReviewsCreatedTotal.Inc()
	return c.JSON(http.StatusCreated, toReviewResponse(review))
}

// List handles GET /v1/gigs/:id/reviews.
//
// @Summary      List a gig's reviews with the rating aggregate
// @Tags         reviews
// @Produce      json
// @Param        id  path      string  true  "Gig id"
// @Success      200  {object}  gigReviewsResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/gigs/{id}/reviews [get]
func (h *ReviewHandler) List(c echo.Context) error {
	gigID := c.Param("id")

	rating, err := h.service.GetGigRating(c.Request().Context(), gigID)
	if err != nil {
		return err
	}
	reviews, err := h.service.ListGigReviews(c.Request().Context(), gigID)
	if err != nil {
		return err
	}

	out := gigReviewsResponse{
		Rating:  toRatingResponse(rating),
		Reviews: make([]reviewResponse, 0, len(reviews)),
	}
	for _, r := range reviews {
		out.Reviews = append(out.Reviews, toReviewResponse(r))
	}
	return c.JSON(http.StatusOK, out)
}

// Delete handles DELETE /v1/reviews/:id.
//
// @Summary      Delete the caller's own review
// @Tags         reviews
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Review id"
// @Success      204  "no content"
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/reviews/{id} [delete]
func (h *ReviewHandler) Delete(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	if err := h.service.DeleteReview(c.Request().Context(), c.Param("id"), userID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
