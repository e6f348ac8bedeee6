package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/gigbay/marketplace-api/internal/core/domain"
	"github.com/gigbay/marketplace-api/internal/core/ports"
)

// stubReviewRepo mirrors the real transactional repo: the review write and
// the gig aggregate adjustment happen under one lock, and the (user, gig)
// uniqueness check is part of the same critical section, like the unique
// index inside the Mongo transaction.
type stubReviewRepo struct {
	mu      sync.Mutex
	catalog *stubGigCatalog
	reviews map[string]*domain.Review
}

func newStubReviewRepo(catalog *stubGigCatalog) *stubReviewRepo {
	return &stubReviewRepo{catalog: catalog, reviews: make(map[string]*domain.Review)}
}

func (r *stubReviewRepo) Create(_ context.Context, review *domain.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.reviews {
		if existing.UserID == review.UserID && existing.GigID == review.GigID {
			return domain.ErrDuplicateReview
		}
	}
	if err := r.catalog.adjustAggregate(review.GigID, review.Star, 1); err != nil {
		return err
	}
	clone := *review
	r.reviews[review.ID] = &clone
	return nil
}

func (r *stubReviewRepo) FindByID(_ context.Context, reviewID string) (*domain.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rev, ok := r.reviews[reviewID]
	if !ok {
		return nil, domain.ErrReviewNotFound
	}
	clone := *rev
	return &clone, nil
}

func (r *stubReviewRepo) Delete(_ context.Context, review *domain.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.reviews[review.ID]; !ok {
		return domain.ErrReviewNotFound
	}
	if err := r.catalog.adjustAggregate(review.GigID, -review.Star, -1); err != nil {
		return err
	}
	delete(r.reviews, review.ID)
	return nil
}

func (r *stubReviewRepo) ListByGig(_ context.Context, gigID string) ([]*domain.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Review
	for _, rev := range r.reviews {
		if rev.GigID == gigID {
			clone := *rev
			out = append(out, &clone)
		}
	}
	return out, nil
}

func newReviewFixture(gig *domain.Gig) (*ReviewService, *stubReviewRepo, *stubGigCatalog) {
	catalog := newStubGigCatalog(gig)
	repo := newStubReviewRepo(catalog)
	svc := NewReviewService(repo, catalog, discardLogger)
	return svc, repo, catalog
}

func aggregateOf(t *testing.T, catalog *stubGigCatalog, gigID string) (int, int) {
	t.Helper()
	g, err := catalog.FindByID(context.Background(), gigID)
	if err != nil {
		t.Fatalf("gig lookup: %v", err)
	}
	return g.TotalStars, g.StarNumber
}

// ---------------------------------------------------------------------------
// CreateReview
// ---------------------------------------------------------------------------

func TestReviewService_Create_UpdatesAggregate(t *testing.T) {
	svc, _, catalog := newReviewFixture(&domain.Gig{
		ID: "gig_1", OwnerID: "seller_1", Price: 50, TotalStars: 10, StarNumber: 2,
	})

	review, err := svc.CreateReview(context.Background(), ports.CreateReviewInput{
		UserID: "buyer_1", GigID: "gig_1", Star: 5, Comment: "great work",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if review.Star != 5 {
		t.Errorf("expected star 5, got %d", review.Star)
	}

	stars, count := aggregateOf(t, catalog, "gig_1")
	if stars != 15 || count != 3 {
		t.Errorf("expected aggregate (15, 3), got (%d, %d)", stars, count)
	}

	rating, err := svc.GetGigRating(context.Background(), "gig_1")
	if err != nil {
		t.Fatalf("rating: %v", err)
	}
	if !rating.Rated || rating.Average != 5.0 {
		t.Errorf("expected rated average 5.0, got %+v", rating)
	}
}

func TestReviewService_Create_DuplicateLeavesAggregateUnchanged(t *testing.T) {
	svc, _, catalog := newReviewFixture(&domain.Gig{ID: "gig_1", OwnerID: "seller_1"})

	if _, err := svc.CreateReview(context.Background(), ports.CreateReviewInput{UserID: "buyer_1", GigID: "gig_1", Star: 4}); err != nil {
		t.Fatalf("first review: %v", err)
	}
	_, err := svc.CreateReview(context.Background(), ports.CreateReviewInput{UserID: "buyer_1", GigID: "gig_1", Star: 1})
	if !errors.Is(err, domain.ErrDuplicateReview) {
		t.Fatalf("expected ErrDuplicateReview, got %v", err)
	}

	stars, count := aggregateOf(t, catalog, "gig_1")
	if stars != 4 || count != 1 {
		t.Errorf("duplicate must leave aggregate at (4, 1), got (%d, %d)", stars, count)
	}
}

func TestReviewService_Create_StarRange(t *testing.T) {
	svc, _, catalog := newReviewFixture(&domain.Gig{ID: "gig_1", OwnerID: "seller_1"})

	for _, star := range []int{0, -1, 6, 42} {
		if _, err := svc.CreateReview(context.Background(), ports.CreateReviewInput{UserID: "buyer_1", GigID: "gig_1", Star: star}); !errors.Is(err, domain.ErrInvalidRating) {
			t.Errorf("star=%d: expected ErrInvalidRating, got %v", star, err)
		}
	}
	if stars, count := aggregateOf(t, catalog, "gig_1"); stars != 0 || count != 0 {
		t.Errorf("rejected ratings must not touch the aggregate: (%d, %d)", stars, count)
	}
}

func TestReviewService_Create_SelfReviewRejected(t *testing.T) {
	svc, _, _ := newReviewFixture(&domain.Gig{ID: "gig_1", OwnerID: "seller_1"})

	if _, err := svc.CreateReview(context.Background(), ports.CreateReviewInput{UserID: "seller_1", GigID: "gig_1", Star: 5}); !errors.Is(err, domain.ErrSelfReview) {
		t.Errorf("expected ErrSelfReview, got %v", err)
	}
}

func TestReviewService_Create_GigNotFound(t *testing.T) {
	svc, _, _ := newReviewFixture(&domain.Gig{ID: "gig_1", OwnerID: "seller_1"})

	if _, err := svc.CreateReview(context.Background(), ports.CreateReviewInput{UserID: "buyer_1", GigID: "missing", Star: 3}); !errors.Is(err, domain.ErrGigNotFound) {
		t.Errorf("expected ErrGigNotFound, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// DeleteReview
// ---------------------------------------------------------------------------

func TestReviewService_Delete_ReversesExactContribution(t *testing.T) {
	svc, _, catalog := newReviewFixture(&domain.Gig{
		ID: "gig_1", OwnerID: "seller_1", TotalStars: 10, StarNumber: 2,
	})

	review, _ := svc.CreateReview(context.Background(), ports.CreateReviewInput{UserID: "buyer_1", GigID: "gig_1", Star: 5})
	if stars, count := aggregateOf(t, catalog, "gig_1"); stars != 15 || count != 3 {
		t.Fatalf("pre-delete aggregate wrong: (%d, %d)", stars, count)
	}

	if err := svc.DeleteReview(context.Background(), review.ID, "buyer_1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if stars, count := aggregateOf(t, catalog, "gig_1"); stars != 10 || count != 2 {
		t.Errorf("aggregate must return exactly to (10, 2), got (%d, %d)", stars, count)
	}
}

func TestReviewService_Delete_AuthorOnly(t *testing.T) {
	svc, _, _ := newReviewFixture(&domain.Gig{ID: "gig_1", OwnerID: "seller_1"})
	review, _ := svc.CreateReview(context.Background(), ports.CreateReviewInput{UserID: "buyer_1", GigID: "gig_1", Star: 3})

	if err := svc.DeleteReview(context.Background(), review.ID, "buyer_2"); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}
	if err := svc.DeleteReview(context.Background(), "REV-404", "buyer_1"); !errors.Is(err, domain.ErrReviewNotFound) {
		t.Errorf("expected ErrReviewNotFound, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Aggregate consistency property
// ---------------------------------------------------------------------------

// After any interleaving of concurrent creates and deletes, the incremental
// aggregate must equal a full rescan of the surviving reviews.
func TestReviewService_AggregateConsistencyUnderConcurrency(t *testing.T) {
	svc, repo, catalog := newReviewFixture(&domain.Gig{ID: "gig_1", OwnerID: "seller_1"})

	const writers = 20
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			userID := fmt.Sprintf("buyer_%02d", n)
			star := n%domain.MaxStar + 1
			review, err := svc.CreateReview(context.Background(), ports.CreateReviewInput{UserID: userID, GigID: "gig_1", Star: star})
			if err != nil {
				return
			}
			// every third writer immediately deletes its own review
			if n%3 == 0 {
				_ = svc.DeleteReview(context.Background(), review.ID, userID)
			}
		}(i)
	}
	wg.Wait()

	surviving, err := repo.ListByGig(context.Background(), "gig_1")
	if err != nil {
		t.Fatalf("rescan: %v", err)
	}
	wantStars, wantCount := 0, 0
	for _, r := range surviving {
		wantStars += r.Star
		wantCount++
	}

	stars, count := aggregateOf(t, catalog, "gig_1")
	if stars != wantStars || count != wantCount {
		t.Errorf("aggregate (%d, %d) diverged from rescan (%d, %d)", stars, count, wantStars, wantCount)
	}
}

func TestReviewService_UnratedGig(t *testing.T) {
	svc, _, _ := newReviewFixture(&domain.Gig{ID: "gig_1", OwnerID: "seller_1"})

	rating, err := svc.GetGigRating(context.Background(), "gig_1")
	if err != nil {
		t.Fatalf("rating: %v", err)
	}
	if rating.Rated {
		t.Error("gig with no reviews must be unrated")
	}
	if rating.Average != 0 {
		t.Errorf("unrated average must be zero, got %v", rating.Average)
	}
}

func TestReviewService_ListGigReviews(t *testing.T) {
	svc, _, _ := newReviewFixture(&domain.Gig{ID: "gig_1", OwnerID: "seller_1"})

	_, _ = svc.CreateReview(context.Background(), ports.CreateReviewInput{UserID: "buyer_1", GigID: "gig_1", Star: 5, Comment: "great"})
	_, _ = svc.CreateReview(context.Background(), ports.CreateReviewInput{UserID: "buyer_2", GigID: "gig_1", Star: 3, Comment: "okay"})

	reviews, err := svc.ListGigReviews(context.Background(), "gig_1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(reviews) != 2 {
		t.Errorf("expected 2 reviews, got %d", len(reviews))
	}
}
