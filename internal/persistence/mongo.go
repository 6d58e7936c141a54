package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/membership-hub/membership-service/internal/config"
	"github.com/membership-hub/membership-service/internal/repository"
)

const defaultMongoTimeout = 10 * time.Second

// Mongo wraps a connected client and the selected database.
type Mongo struct {
	Client   *mongo.Client
	Database *mongo.Database
	timeout  time.Duration
}

// NewMongo establishes a MongoDB client, verifies connectivity with a ping and
// ensures the unique email indexes exist.
func NewMongo(ctx context.Context, cfg config.MongoConfig, logger *zap.Logger) (*Mongo, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultMongoTimeout
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	m := &Mongo{Client: client, Database: client.Database(cfg.Database), timeout: timeout}
	if err := m.ensureIndexes(connectCtx); err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, err
	}

	logger.Info("connected to mongo", zap.String("database", cfg.Database))
	return m, nil
}

func (m *Mongo) ensureIndexes(ctx context.Context) error {
	// Member email is optional, so only non-empty values are constrained there.
	indexes := map[string]*options.IndexOptions{
		repository.StaffCollection:  options.Index().SetUnique(true),
		repository.MemberCollection: options.Index().SetUnique(true).SetPartialFilterExpression(bson.M{"email": bson.M{"$gt": ""}}),
	}
	for coll, opts := range indexes {
		_, err := m.Database.Collection(coll).Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: opts,
		})
		if err != nil {
			return fmt.Errorf("mongo index %s.email: %w", coll, err)
		}
	}
	return nil
}

// Close disconnects the client.
func (m *Mongo) Close(ctx context.Context) {
	if m == nil || m.Client == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()
	_ = m.Client.Disconnect(ctx)
}

// Ping verifies MongoDB connectivity.
func (m *Mongo) Ping(ctx context.Context) error {
	if m == nil || m.Client == nil {
		return errors.New("mongo client not configured")
	}
	return m.Client.Ping(ctx, nil)
}
