package service

import (
	"context"

	"github.com/basewebproject/base-api/internal/core/ports"
)

// Status is the payload of the public status endpoint.
type Status struct {
	Status   string         `json:"status"`
	Database DatabaseStatus `json:"database"`
}

type DatabaseStatus struct {
	Name               string   `json:"name"`
	Version            string   `json:"version"`
	MaxConnections     int      `json:"maxConnections"`
	CurrentConnections int      `json:"currentConnections"`
	AppliedMigrations  int      `json:"appliedMigrations"`
	Migrations         []string `json:"migrations"`
}

// StatusService reports database facts and applied migrations.
type StatusService struct {
	db         ports.DatabaseInspector
	migrations ports.MigrationReporter
}

func NewStatusService(db ports.DatabaseInspector, migrations ports.MigrationReporter) *StatusService {
	return &StatusService{db: db, migrations: migrations}
}

func (s *StatusService) Status(ctx context.Context) (*Status, error) {
	info, err := s.db.Inspect(ctx)
	if err != nil {
		return nil, err
	}

	applied := []string{}
	if s.migrations != nil {
		m, err := s.migrations.Applied(ctx)
		if err != nil {
			return nil, err
		}
		applied = append(applied, m.Applied...)
	}

	return &Status{
		Status: "ok",
		Database: DatabaseStatus{
			Name:               info.Name,
			Version:            info.Version,
			MaxConnections:     info.MaxConnections,
			CurrentConnections: info.CurrentConnections,
			AppliedMigrations:  len(applied),
			Migrations:         applied,
		},
	}, nil
}
