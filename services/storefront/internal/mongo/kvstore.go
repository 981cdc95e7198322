package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aquamarinepk/aqm"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const kvCollection = "kv"

// KVStore keeps each storefront collection as one document keyed by name.
type KVStore struct {
	client     *mongo.Client
	db         *mongo.Database
	collection *mongo.Collection
	logger     aqm.Logger
	config     *aqm.Config
}

type kvDocument struct {
	Key       string    `bson:"_id"`
	Value     string    `bson:"value"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func NewKVStore(config *aqm.Config, logger aqm.Logger) *KVStore {
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}
	return &KVStore{
		logger: logger,
		config: config,
	}
}

func (s *KVStore) Start(ctx context.Context) error {
	connString := s.config.GetStringOrDef("db.mongo.url", "mongodb://localhost:27017")
	dbName := s.config.GetStringOrDef("db.mongo.name", "storefront")

	clientOptions := options.Client().ApplyURI(connString).
		SetConnectTimeout(10 * time.Second).
		SetServerSelectionTimeout(10 * time.Second)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return fmt.Errorf("cannot connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return fmt.Errorf("cannot ping MongoDB: %w", err)
	}

	s.client = client
	s.db = client.Database(dbName)
	s.collection = s.db.Collection(kvCollection)

	s.logger.Infof("Connected to MongoDB: %s, database: %s", connString, dbName)
	return nil
}

func (s *KVStore) Stop(ctx context.Context) error {
	if s.client != nil {
		if err := s.client.Disconnect(ctx); err != nil {
			return fmt.Errorf("cannot disconnect from MongoDB: %w", err)
		}
		s.logger.Info("Disconnected from MongoDB")
	}
	return nil
}

// GetDatabase exposes the database for seed tracking.
func (s *KVStore) GetDatabase() *mongo.Database {
	return s.db
}

func (s *KVStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if s.collection == nil {
		return nil, false, errors.New("mongo store not started")
	}

	var doc kvDocument
	err := s.collection.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cannot find %s: %w", key, err)
	}

	return []byte(doc.Value), true, nil
}

func (s *KVStore) Set(ctx context.Context, key string, value []byte) error {
	if s.collection == nil {
		return errors.New("mongo store not started")
	}

	doc := kvDocument{Key: key, Value: string(value), UpdatedAt: time.Now().UTC()}
	_, err := s.collection.ReplaceOne(ctx, bson.M{"_id": key}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("cannot upsert %s: %w", key, err)
	}
	return nil
}

func (s *KVStore) Delete(ctx context.Context, key string) error {
	if s.collection == nil {
		return errors.New("mongo store not started")
	}

	if _, err := s.collection.DeleteOne(ctx, bson.M{"_id": key}); err != nil {
		return fmt.Errorf("cannot delete %s: %w", key, err)
	}
	return nil
}
