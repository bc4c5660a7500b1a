// Package mongodb contains the concrete implementation of the generic
// document store backed by MongoDB.
package mongodb

import (
	"context"
	"log/slog"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.uber.org/fx"

	"folio/config"
	"folio/internal/domain/store"
	"folio/internal/errors"
)

// ClientParams holds dependencies for the MongoDB client, injected by Fx.
type ClientParams struct {
	fx.In
	fx.Lifecycle

	Config *config.Config
	Logger *slog.Logger
}

// New connects to MongoDB and returns the database handle. The client is
// constructed once at process start and closed through the fx lifecycle;
// nothing is lazily initialized on first use.
func New(params ClientParams) (*mongo.Database, error) {
	cfg := params.Config.Mongo
	if cfg == nil {
		return nil, errors.New("mongo configuration is missing")
	}

	opts := options.Client().ApplyURI(cfg.URI)
	if cfg.ConnectTimeout > 0 {
		opts = opts.SetConnectTimeout(cfg.ConnectTimeout)
	}

	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to mongodb")
	}

	params.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			params.Logger.Info("Disconnecting from MongoDB")

			return errors.WithStack(client.Disconnect(ctx))
		},
	})

	return client.Database(cfg.Database), nil
}

// EnsureIndexes creates the unique indexes the registry declares. Called
// from bootstrap so the database enforces the same constraints the
// in-memory store checks by hand.
func EnsureIndexes(ctx context.Context, db *mongo.Database, registry store.Registry) error {
	for collection, spec := range registry {
		if len(spec.Unique) == 0 {
			continue
		}

		models := make([]mongo.IndexModel, 0, len(spec.Unique))
		for _, field := range spec.Unique {
			models = append(models, mongo.IndexModel{
				Keys: bson.D{{Key: field, Value: 1}},
				Options: options.Index().
					SetUnique(true).
					SetPartialFilterExpression(bson.D{{Key: field, Value: bson.D{{Key: "$exists", Value: true}}}}),
			})
		}

		if _, err := db.Collection(collection).Indexes().CreateMany(ctx, models); err != nil {
			return errors.Wrapf(err, "failed to ensure indexes for %s", collection)
		}
	}

	return nil
}
