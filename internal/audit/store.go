package audit

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"assetverse/internal/notify"
)

const collectionName = "audit_events"

// DefaultLimit caps a single audit listing.
const DefaultLimit = 100

// Reader lists recorded events.
type Reader interface {
	List(ctx context.Context, hrEmail string, limit int64) ([]notify.Event, error)
}

// MongoStore persists lifecycle events in MongoDB.
type MongoStore struct {
	collection *mongo.Collection
}

var (
	_ notify.Sink = (*MongoStore)(nil)
	_ Reader      = (*MongoStore)(nil)
)

// NewMongoStore binds the store to the audit collection of db.
func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{collection: db.Collection(collectionName)}
}

// EnsureIndexes creates the index used by List.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "hrEmail", Value: 1}, {Key: "occurredAt", Value: -1}},
	})
	return errors.Wrap(err, "create audit index")
}

// Name implements notify.Sink.
func (s *MongoStore) Name() string { return "audit" }

// Handle implements notify.Sink.
func (s *MongoStore) Handle(ctx context.Context, events []notify.Event) error {
	if len(events) == 0 {
		return nil
	}
	docs := make([]interface{}, 0, len(events))
	for _, e := range events {
		docs = append(docs, e)
	}
	if _, err := s.collection.InsertMany(ctx, docs, options.InsertMany().SetOrdered(false)); err != nil {
		return errors.Wrap(err, "insert audit events")
	}
	return nil
}

// List returns a company's events, newest first.
func (s *MongoStore) List(ctx context.Context, hrEmail string, limit int64) ([]notify.Event, error) {
	if limit <= 0 || limit > DefaultLimit {
		limit = DefaultLimit
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "occurredAt", Value: -1}}).
		SetLimit(limit)

	cursor, err := s.collection.Find(ctx, bson.M{"hrEmail": hrEmail}, opts)
	if err != nil {
		return nil, errors.Wrap(err, "find audit events")
	}
	defer cursor.Close(ctx)

	events := make([]notify.Event, 0)
	if err := cursor.All(ctx, &events); err != nil {
		return nil, errors.Wrap(err, "decode audit events")
	}
	return events, nil
}
