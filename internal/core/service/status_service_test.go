package service

import (
	"context"
	"errors"
	"testing"

	"github.com/basewebproject/base-api/internal/core/ports"
)

type stubInspector struct {
	info *ports.DatabaseInfo
	err  error
}

func (s stubInspector) Inspect(context.Context) (*ports.DatabaseInfo, error) { return s.info, s.err }

type stubMigrations struct {
	applied []string
}

func (s stubMigrations) Applied(context.Context) (*ports.MigrationInfo, error) {
	return &ports.MigrationInfo{Version: uint(len(s.applied)), Applied: s.applied}, nil
}

func TestStatusService_Status(t *testing.T) {
	svc := NewStatusService(
		stubInspector{info: &ports.DatabaseInfo{Name: "app", Version: "PostgreSQL 16.2", MaxConnections: 100, CurrentConnections: 3}},
		stubMigrations{applied: []string{"1_create_users"}},
	)

	st, err := svc.Status(context.Background())
	if err != nil {
		t.Fatalf("Status returned error: %v", err)
	}
	if st.Status != "ok" || st.Database.Name != "app" || st.Database.MaxConnections != 100 {
		t.Fatalf("unexpected status: %+v", st)
	}
	if st.Database.AppliedMigrations != 1 || st.Database.Migrations[0] != "1_create_users" {
		t.Fatalf("unexpected migrations: %+v", st.Database)
	}
}

func TestStatusService_InspectorFailure(t *testing.T) {
	boom := errors.New("connection refused")
	svc := NewStatusService(stubInspector{err: boom}, nil)

	if _, err := svc.Status(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected inspector error, got %v", err)
	}
}
