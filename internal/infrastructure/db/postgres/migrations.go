package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const pgUndefinedTable = "42P01"

// MigrationVersion reads the version row written by the migration runner.
// A missing table means nothing has been applied yet.
func MigrationVersion(db *gorm.DB, table string) func(ctx context.Context) (uint, bool, error) {
	return func(ctx context.Context) (uint, bool, error) {
		ctx, cancel := withTimeout(ctx)
		defer cancel()

		var row struct {
			Version int64
			Dirty   bool
		}
		res := db.WithContext(ctx).Table(table).Select("version", "dirty").Limit(1).Scan(&row)
		if res.Error != nil {
			var pgErr *pgconn.PgError
			if errors.As(res.Error, &pgErr) && pgErr.Code == pgUndefinedTable {
				return 0, false, nil
			}
			return 0, false, fmt.Errorf("read migration version: %w", res.Error)
		}
		if res.RowsAffected == 0 || row.Version < 0 {
			return 0, false, nil
		}
		return uint(row.Version), row.Dirty, nil
	}
}
