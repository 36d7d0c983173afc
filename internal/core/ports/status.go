package ports

import "context"

// DatabaseInfo describes the backing database for the status endpoint.
type DatabaseInfo struct {
	Name               string
	Version            string
	MaxConnections     int
	CurrentConnections int
}

// DatabaseInspector reads server facts from the configured store.
type DatabaseInspector interface {
	Inspect(ctx context.Context) (*DatabaseInfo, error)
}

// MigrationInfo lists applied schema migrations.
type MigrationInfo struct {
	Version uint
	Dirty   bool
	Applied []string
}

type MigrationReporter interface {
	Applied(ctx context.Context) (*MigrationInfo, error)
}
