package archive

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/connmat/pkg/cache"
	"github.com/matzehuels/connmat/pkg/errors"
)

// Default database and collection names.
const (
	DefaultDatabase   = "connmat"
	DefaultCollection = "matrices"
)

// MongoConfig locates the archive collection.
type MongoConfig struct {
	URI        string `toml:"mongo_uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// MongoStore writes records to a MongoDB collection.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects to MongoDB. Empty Database and Collection fall
// back to [DefaultDatabase] and [DefaultCollection].
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	if cfg.URI == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "archive: mongo uri is required")
	}
	if cfg.Database == "" {
		cfg.Database = DefaultDatabase
	}
	if cfg.Collection == "" {
		cfg.Collection = DefaultCollection
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "archive: connect")
	}
	return &MongoStore{
		client: client,
		coll:   client.Database(cfg.Database).Collection(cfg.Collection),
	}, nil
}

// Save inserts rec, retrying transient network failures.
func (s *MongoStore) Save(ctx context.Context, rec Record) error {
	err := cache.RetryWithBackoff(ctx, func() error {
		_, err := s.coll.InsertOne(ctx, rec)
		if err != nil && (mongo.IsNetworkError(err) || mongo.IsTimeout(err)) {
			return cache.Retryable(err)
		}
		return err
	})
	if err != nil {
		return errors.Wrap(errors.ErrCodeNetwork, err, "archive: save %s", rec.ID)
	}
	return nil
}

// Close disconnects the client.
func (s *MongoStore) Close(ctx context.Context) error {
	if err := s.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("archive: disconnect: %w", err)
	}
	return nil
}

var _ Store = (*MongoStore)(nil)
