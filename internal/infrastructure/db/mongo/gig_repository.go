package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/gigbay/marketplace-api/internal/core/domain"
)

const collectionGigs = "gigs"

// GigRepository is the read boundary to the gig catalog. Rating aggregate
// writes on this collection happen only inside ReviewRepository transactions.
type GigRepository struct {
	col *mongo.Collection
}

func NewGigRepository(db *mongo.Database) *GigRepository {
	return &GigRepository{col: db.Collection(collectionGigs)}
}

func (r *GigRepository) FindByID(ctx context.Context, gigID string) (*domain.Gig, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var g domain.Gig
	err := r.col.FindOne(ctx, bson.M{"_id": gigID}).Decode(&g)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrGigNotFound
		}
		return nil, err
	}
	return &g, nil
}
