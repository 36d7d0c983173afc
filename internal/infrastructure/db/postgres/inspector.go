package postgres

import (
	"context"
	"fmt"
	"strconv"

	"gorm.io/gorm"

	"github.com/basewebproject/base-api/internal/core/ports"
)

// Inspector reads server facts for the status endpoint.
type Inspector struct {
	db *gorm.DB
}

func NewInspector(db *gorm.DB) *Inspector {
	return &Inspector{db: db}
}

func (i *Inspector) Inspect(ctx context.Context) (*ports.DatabaseInfo, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	db := i.db.WithContext(ctx)
	var info ports.DatabaseInfo

	if err := db.Raw("SELECT current_database()").Scan(&info.Name).Error; err != nil {
		return nil, fmt.Errorf("current database: %w", err)
	}
	if err := db.Raw("SELECT version()").Scan(&info.Version).Error; err != nil {
		return nil, fmt.Errorf("server version: %w", err)
	}

	var maxConns string
	if err := db.Raw("SHOW max_connections").Scan(&maxConns).Error; err != nil {
		return nil, fmt.Errorf("max connections: %w", err)
	}
	info.MaxConnections, _ = strconv.Atoi(maxConns)

	var current int64
	if err := db.Raw("SELECT count(*) FROM pg_stat_activity WHERE datname = current_database()").Scan(&current).Error; err != nil {
		return nil, fmt.Errorf("current connections: %w", err)
	}
	info.CurrentConnections = int(current)

	return &info, nil
}
