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

const (
	collectionDeliveries    = "deliveries"
	collectionStatusUpdates = "status_updates"
)

// FulfillmentRepository persists deliveries and status updates. Delivery
// acceptance spans two collections (deliveries and orders), so it runs in a
// multi-document transaction.
type FulfillmentRepository struct {
	client     *mongo.Client
	deliveries *mongo.Collection
	updates    *mongo.Collection
	orders     *mongo.Collection
}

func NewFulfillmentRepository(client *mongo.Client, db *mongo.Database) *FulfillmentRepository {
	return &FulfillmentRepository{
		client:     client,
		deliveries: db.Collection(collectionDeliveries),
		updates:    db.Collection(collectionStatusUpdates),
		orders:     db.Collection(collectionOrders),
	}
}

func (r *FulfillmentRepository) CreateDelivery(ctx context.Context, d *domain.Delivery) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.deliveries.InsertOne(ctx, d)
	return err
}

func (r *FulfillmentRepository) FindDeliveryByID(ctx context.Context, deliveryID string) (*domain.Delivery, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var d domain.Delivery
	err := r.deliveries.FindOne(ctx, bson.M{"_id": deliveryID}).Decode(&d)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrDeliveryNotFound
		}
		return nil, err
	}
	return &d, nil
}

// AcceptDelivery flips the delivery's is_accepted flag and completes the
// owning order in one transaction. Both writes are equality-guarded: the
// delivery must still be unaccepted and the order must still be in a state
// that admits completion, so a concurrent double-accept aborts cleanly.
func (r *FulfillmentRepository) AcceptDelivery(ctx context.Context, deliveryID, orderID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	session, err := r.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		res, err := r.deliveries.UpdateOne(sc,
			bson.M{"_id": deliveryID, "is_accepted": false},
			bson.M{"$set": bson.M{"is_accepted": true}},
		)
		if err != nil {
			return nil, err
		}
		if res.ModifiedCount == 0 {
			return nil, domain.ErrAlreadyAccepted
		}

		res, err = r.orders.UpdateOne(sc,
			bson.M{
				"_id":    orderID,
				"status": bson.M{"$in": bson.A{string(domain.StatusPending), string(domain.StatusInProgress)}},
			},
			bson.M{"$set": bson.M{"status": string(domain.StatusCompleted)}},
		)
		if err != nil {
			return nil, err
		}
		if res.ModifiedCount == 0 {
			return nil, domain.ErrInvalidTransition
		}
		return nil, nil
	})
	return err
}

func (r *FulfillmentRepository) ListDeliveriesByOrder(ctx context.Context, orderID string) ([]*domain.Delivery, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cur, err := r.deliveries.Find(ctx, bson.M{"order_id": orderID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var deliveries []*domain.Delivery
	if err := cur.All(ctx, &deliveries); err != nil {
		return nil, err
	}
	return deliveries, nil
}

func (r *FulfillmentRepository) CountDeliveriesByOrder(ctx context.Context, orderID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return r.deliveries.CountDocuments(ctx, bson.M{"order_id": orderID})
}

func (r *FulfillmentRepository) CreateStatusUpdate(ctx context.Context, u *domain.StatusUpdate) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.updates.InsertOne(ctx, u)
	return err
}

func (r *FulfillmentRepository) ListStatusUpdatesByOrder(ctx context.Context, orderID string) ([]*domain.StatusUpdate, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cur, err := r.updates.Find(ctx, bson.M{"order_id": orderID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var updates []*domain.StatusUpdate
	if err := cur.All(ctx, &updates); err != nil {
		return nil, err
	}
	return updates, nil
}

// EnsureIndexes creates necessary indexes on the fulfillment collections.
func (r *FulfillmentRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.deliveries.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "order_id", Value: 1}, {Key: "created_at", Value: 1}}},
	})
	if err != nil {
		return err
	}

	_, err = r.updates.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "order_id", Value: 1}, {Key: "created_at", Value: 1}}},
	})
	return err
}
