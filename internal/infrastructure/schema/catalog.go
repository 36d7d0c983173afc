package schema

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/basewebproject/base-api/internal/core/ports"
	"github.com/basewebproject/base-api/migrations"
)

// Catalog lists the migrations shipped with the binary.
type Catalog struct {
	fsys fs.FS
	dir  string
}

func PostgresCatalog() *Catalog { return &Catalog{fsys: migrations.Postgres, dir: "postgres"} }

func MongoCatalog() *Catalog { return &Catalog{fsys: migrations.Mongo, dir: "mongo"} }

// Names returns "<version>_<name>" for every migration up to and including
// version, in order.
func (c *Catalog) Names(version uint) ([]string, error) {
	names := []string{}
	if version == 0 {
		return names, nil
	}

	src, err := iofs.New(c.fsys, c.dir)
	if err != nil {
		return nil, fmt.Errorf("migration source: %w", err)
	}
	defer src.Close()

	v, err := src.First()
	for err == nil && v <= version {
		r, identifier, rerr := src.ReadUp(v)
		if rerr != nil {
			return nil, fmt.Errorf("read migration %d: %w", v, rerr)
		}
		_ = r.Close()
		names = append(names, fmt.Sprintf("%d_%s", v, identifier))
		v, err = src.Next(v)
	}
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("walk migrations: %w", err)
	}
	return names, nil
}

// VersionFunc reads the applied version from a store.
type VersionFunc func(ctx context.Context) (version uint, dirty bool, err error)

// Reporter answers the status endpoint's migration question without holding
// a migration lock or connection.
type Reporter struct {
	catalog *Catalog
	version VersionFunc
}

func NewReporter(catalog *Catalog, version VersionFunc) *Reporter {
	return &Reporter{catalog: catalog, version: version}
}

func (r *Reporter) Applied(ctx context.Context) (*ports.MigrationInfo, error) {
	v, dirty, err := r.version(ctx)
	if err != nil {
		return nil, err
	}
	names, err := r.catalog.Names(v)
	if err != nil {
		return nil, err
	}
	return &ports.MigrationInfo{Version: v, Dirty: dirty, Applied: names}, nil
}
