package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/basewebproject/base-api/internal/core/ports"
)

// Inspector reads server facts from buildInfo and serverStatus.
type Inspector struct {
	db *mongo.Database
}

func NewInspector(db *mongo.Database) *Inspector {
	return &Inspector{db: db}
}

func (i *Inspector) Inspect(ctx context.Context) (*ports.DatabaseInfo, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var build struct {
		Version string `bson:"version"`
	}
	if err := i.db.RunCommand(ctx, bson.D{{Key: "buildInfo", Value: 1}}).Decode(&build); err != nil {
		return nil, fmt.Errorf("build info: %w", err)
	}

	var status struct {
		Connections struct {
			Current   int `bson:"current"`
			Available int `bson:"available"`
		} `bson:"connections"`
	}
	if err := i.db.RunCommand(ctx, bson.D{{Key: "serverStatus", Value: 1}}).Decode(&status); err != nil {
		return nil, fmt.Errorf("server status: %w", err)
	}

	return &ports.DatabaseInfo{
		Name:               i.db.Name(),
		Version:            "MongoDB " + build.Version,
		MaxConnections:     status.Connections.Current + status.Connections.Available,
		CurrentConnections: status.Connections.Current,
	}, nil
}
