package models

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the indexes the access patterns rely on: per-owner
// tree traversal, favorites, recency, and text search. Safe to call at every
// startup; Mongo treats existing identical indexes as a no-op.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	ownerTreeIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "owner_id", Value: 1}, {Key: "parent_id", Value: 1}}},
		{Keys: bson.D{{Key: "owner_id", Value: 1}, {Key: "is_favorite", Value: 1}}},
		{Keys: bson.D{{Key: "owner_id", Value: 1}, {Key: "created_at", Value: -1}}},
	}

	collections := map[string][]mongo.IndexModel{
		"folders": append(ownerTreeIndexes,
			mongo.IndexModel{Keys: bson.D{{Key: "name", Value: "text"}}},
		),
		"files": append(ownerTreeIndexes,
			mongo.IndexModel{Keys: bson.D{{Key: "name", Value: "text"}}},
		),
		"notes": append(ownerTreeIndexes,
			mongo.IndexModel{Keys: bson.D{{Key: "title", Value: "text"}, {Key: "content", Value: "text"}}},
		),
		"users": {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
	}

	for name, indexes := range collections {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, indexes); err != nil {
			return fmt.Errorf("failed to create indexes for %s: %w", name, err)
		}
	}

	return nil
}
