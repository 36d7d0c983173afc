package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MigrationVersion reads the version document written by the migration runner.
func MigrationVersion(db *mongo.Database, collection string) func(ctx context.Context) (uint, bool, error) {
	return func(ctx context.Context) (uint, bool, error) {
		ctx, cancel := withTimeout(ctx)
		defer cancel()

		var doc struct {
			Version int  `bson:"version"`
			Dirty   bool `bson:"dirty"`
		}
		err := db.Collection(collection).FindOne(ctx, bson.M{}).Decode(&doc)
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, false, nil
		}
		if err != nil {
			return 0, false, fmt.Errorf("read migration version: %w", err)
		}
		if doc.Version < 0 {
			return 0, false, nil
		}
		return uint(doc.Version), doc.Dirty, nil
	}
}
