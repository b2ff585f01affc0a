package inventory

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const (
	defaultMongoDatabase   = "forticare"
	defaultMongoCollection = "forticare_assets"
)

// validCollectionName matches safe MongoDB collection names.
var validCollectionName = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// MongoOption configures a MongoStore.
type MongoOption func(*MongoStore)

// WithCollectionName sets the MongoDB collection name. Default: "forticare_assets".
func WithCollectionName(name string) MongoOption {
	return func(s *MongoStore) {
		s.collectionName = name
	}
}

// MongoStore implements Store using MongoDB.
type MongoStore struct {
	collection     *mongo.Collection
	collectionName string
	client         *mongo.Client // set when the store owns the connection
}

var _ Store = (*MongoStore)(nil)

// NewMongoStore creates a new MongoDB-backed inventory.
// It creates the necessary indexes on initialization.
func NewMongoStore(ctx context.Context, db *mongo.Database, opts ...MongoOption) (*MongoStore, error) {
	s := &MongoStore{
		collectionName: defaultMongoCollection,
	}
	for _, opt := range opts {
		opt(s)
	}
	if !validCollectionName.MatchString(s.collectionName) {
		return nil, fmt.Errorf("invalid collection name %q: must match [a-zA-Z_][a-zA-Z0-9_]*", s.collectionName)
	}
	s.collection = db.Collection(s.collectionName)

	if err := s.ensureIndexes(ctx); err != nil {
		return nil, fmt.Errorf("create indexes: %w", err)
	}
	return s, nil
}

// openMongo connects to uri and uses database, or "forticare" when empty.
func openMongo(ctx context.Context, uri, database string) (*MongoStore, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	if database == "" {
		database = defaultMongoDatabase
	}
	s, err := NewMongoStore(ctx, client.Database(database))
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	s.client = client
	return s, nil
}

func (s *MongoStore) ensureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "serial", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{
				{Key: "run_id", Value: 1},
				{Key: "registered_at", Value: 1},
			},
		},
	}
	_, err := s.collection.Indexes().CreateMany(ctx, indexes)
	return err
}

func (s *MongoStore) Record(ctx context.Context, a Asset) error {
	opts := options.Replace().SetUpsert(true)
	_, err := s.collection.ReplaceOne(ctx, bson.M{"serial": a.Serial}, a, opts)
	if err != nil {
		return fmt.Errorf("record asset: %w", err)
	}
	return nil
}

func (s *MongoStore) Get(ctx context.Context, serial string) (*Asset, error) {
	var a Asset
	err := s.collection.FindOne(ctx, bson.M{"serial": serial}).Decode(&a)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get asset: %w", err)
	}
	return &a, nil
}

func (s *MongoStore) List(ctx context.Context, runID string) ([]Asset, error) {
	filter := bson.M{}
	if runID != "" {
		filter["run_id"] = runID
	}
	opts := options.Find().SetSort(bson.D{{Key: "registered_at", Value: 1}})
	cursor, err := s.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list assets: %w", err)
	}
	var assets []Asset
	if err := cursor.All(ctx, &assets); err != nil {
		return nil, fmt.Errorf("decode assets: %w", err)
	}
	return assets, nil
}

func (s *MongoStore) Count(ctx context.Context) (int, error) {
	count, err := s.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("count assets: %w", err)
	}
	return int(count), nil
}

func (s *MongoStore) Close(ctx context.Context) error {
	if s.client == nil {
		return nil // caller manages the mongo.Database lifecycle
	}
	return s.client.Disconnect(ctx)
}
