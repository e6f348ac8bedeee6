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
	collectionConversations = "conversations"
	collectionMessages      = "messages"
)

// ConversationRepository persists message threads. The deterministic thread
// id doubles as the Mongo _id, so a creation race between the two parties
// surfaces as a duplicate-key insert rather than a second row.
type ConversationRepository struct {
	client        *mongo.Client
	conversations *mongo.Collection
	messages      *mongo.Collection
}

func NewConversationRepository(client *mongo.Client, db *mongo.Database) *ConversationRepository {
	return &ConversationRepository{
		client:        client,
		conversations: db.Collection(collectionConversations),
		messages:      db.Collection(collectionMessages),
	}
}

func (r *ConversationRepository) Create(ctx context.Context, c *domain.Conversation) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.conversations.InsertOne(ctx, c)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrConversationExists
		}
		return err
	}
	return nil
}

func (r *ConversationRepository) FindByID(ctx context.Context, conversationID string) (*domain.Conversation, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var c domain.Conversation
	err := r.conversations.FindOne(ctx, bson.M{"_id": conversationID}).Decode(&c)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrConversationNotFound
		}
		return nil, err
	}
	return &c, nil
}

// AppendMessage inserts the message and refreshes the thread head (preview,
// read flags, updated_at) in one transaction, so a thread listing never
// shows a preview whose message is missing.
func (r *ConversationRepository) AppendMessage(ctx context.Context, m *domain.Message, authorIsSeller bool) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	session, err := r.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		if _, err := r.messages.InsertOne(sc, m); err != nil {
			return nil, err
		}

		res, err := r.conversations.UpdateOne(sc,
			bson.M{"_id": m.ConversationID},
			bson.M{"$set": bson.M{
				"last_message":   m.Content,
				"read_by_seller": authorIsSeller,
				"read_by_buyer":  !authorIsSeller,
				"updated_at":     m.CreatedAt,
			}},
		)
		if err != nil {
			return nil, err
		}
		if res.MatchedCount == 0 {
			return nil, domain.ErrConversationNotFound
		}
		return nil, nil
	})
	return err
}

// MarkRead sets only the given role's flag; the counterparty's is untouched.
func (r *ConversationRepository) MarkRead(ctx context.Context, conversationID string, isSeller bool) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	field := "read_by_buyer"
	if isSeller {
		field = "read_by_seller"
	}

	res, err := r.conversations.UpdateOne(ctx,
		bson.M{"_id": conversationID},
		bson.M{"$set": bson.M{field: true}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrConversationNotFound
	}
	return nil
}

func (r *ConversationRepository) ListByParticipant(ctx context.Context, userID string, isSeller bool) ([]*domain.Conversation, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	roleField := "buyer_id"
	if isSeller {
		roleField = "seller_id"
	}
	opts := options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}})

	cur, err := r.conversations.Find(ctx, bson.M{roleField: userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var convs []*domain.Conversation
	if err := cur.All(ctx, &convs); err != nil {
		return nil, err
	}
	return convs, nil
}

func (r *ConversationRepository) ListMessages(ctx context.Context, conversationID string) ([]*domain.Message, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cur, err := r.messages.Find(ctx, bson.M{"conversation_id": conversationID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var msgs []*domain.Message
	if err := cur.All(ctx, &msgs); err != nil {
		return nil, err
	}
	return msgs, nil
}

// EnsureIndexes creates necessary indexes on the conversation collections.
// The compound (seller_id, buyer_id) unique index is the routing key for
// pair lookups; the concatenated _id stays the display identity.
func (r *ConversationRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.conversations.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "seller_id", Value: 1}, {Key: "buyer_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "updated_at", Value: -1}}},
	})
	if err != nil {
		return err
	}

	_, err = r.messages.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "conversation_id", Value: 1}, {Key: "created_at", Value: 1}}},
	})
	return err
}
