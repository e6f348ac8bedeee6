package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/gigbay/marketplace-api/internal/core/domain"
)

const collectionReviews = "reviews"

// ReviewRepository persists reviews and keeps the gig rating aggregate in
// lock-step with the surviving review set. Every mutation pairs the review
// write with a $inc on the gig document inside one transaction, so readers
// never observe an aggregate the reviews cannot reproduce.
type ReviewRepository struct {
	client  *mongo.Client
	reviews *mongo.Collection
	gigs    *mongo.Collection
}

func NewReviewRepository(client *mongo.Client, db *mongo.Database) *ReviewRepository {
	return &ReviewRepository{
		client:  client,
		reviews: db.Collection(collectionReviews),
		gigs:    db.Collection(collectionGigs),
	}
}

// Create inserts the review and applies its contribution to the gig
// aggregate. The unique (user_id, gig_id) index rejects a second review by
// the same buyer inside the transaction, before the aggregate is touched.
func (r *ReviewRepository) Create(ctx context.Context, review *domain.Review) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	session, err := r.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		if _, err := r.reviews.InsertOne(sc, review); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return nil, domain.ErrDuplicateReview
			}
			return nil, err
		}

		res, err := r.gigs.UpdateOne(sc,
			bson.M{"_id": review.GigID},
			bson.M{"$inc": bson.M{"total_stars": review.Star, "star_number": 1}},
		)
		if err != nil {
			return nil, err
		}
		if res.MatchedCount == 0 {
			return nil, domain.ErrGigNotFound
		}
		return nil, nil
	})
	return err
}

func (r *ReviewRepository) FindByID(ctx context.Context, reviewID string) (*domain.Review, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var review domain.Review
	err := r.reviews.FindOne(ctx, bson.M{"_id": reviewID}).Decode(&review)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrReviewNotFound
		}
		return nil, err
	}
	return &review, nil
}

// Delete removes the review and reverses its exact contribution: the same
// star value the insert added, never a recomputed one.
func (r *ReviewRepository) Delete(ctx context.Context, review *domain.Review) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	session, err := r.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		res, err := r.reviews.DeleteOne(sc, bson.M{"_id": review.ID})
		if err != nil {
			return nil, err
		}
		if res.DeletedCount == 0 {
			return nil, domain.ErrReviewNotFound
		}

		_, err = r.gigs.UpdateOne(sc,
			bson.M{"_id": review.GigID},
			bson.M{"$inc": bson.M{"total_stars": -review.Star, "star_number": -1}},
		)
		return nil, err
	})
	return err
}

func (r *ReviewRepository) ListByGig(ctx context.Context, gigID string) ([]*domain.Review, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.reviews.Find(ctx, bson.M{"gig_id": gigID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var reviews []*domain.Review
	if err := cur.All(ctx, &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

// EnsureIndexes creates necessary indexes on the reviews collection.
func (r *ReviewRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "gig_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "gig_id", Value: 1}, {Key: "created_at", Value: -1}}},
	}

	_, err := r.reviews.Indexes().CreateMany(ctx, indexes)
	return err
}
