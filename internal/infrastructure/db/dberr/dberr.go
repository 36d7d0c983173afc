// Package dberr classifies storage driver errors into domain errors.
package dberr

import (
	"errors"
	"regexp"

	"github.com/jackc/pgx/v5/pgconn"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"

	"github.com/basewebproject/base-api/internal/core/domain"
)

// PostgreSQL SQLSTATE codes.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgNotNullViolation    = "23502"
)

var (
	pgKeyPattern    = regexp.MustCompile(`Key \((\w+)\)`)
	mongoKeyPattern = regexp.MustCompile(`dup key: \{ (\w+):`)
)

// Translate maps constraint violations and missing rows to domain errors.
// Errors it does not recognise are returned unchanged.
func Translate(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrRecordNotFound
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.ErrRecordNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return domain.Conflict(uniqueField(pgErr), err)
		case pgForeignKeyViolation:
			return domain.InvalidReference("invalid reference to another resource", err)
		case pgNotNullViolation:
			return &domain.Error{Kind: domain.ErrInvalidInput, Message: "required field not provided", Field: pgErr.ColumnName, Cause: err}
		}
		return err
	}

	if mongo.IsDuplicateKeyError(err) {
		return domain.Conflict(match(mongoKeyPattern, err.Error()), err)
	}

	return err
}

func uniqueField(pgErr *pgconn.PgError) string {
	if f := match(pgKeyPattern, pgErr.Detail); f != "" {
		return f
	}
	return match(pgKeyPattern, pgErr.Message)
}

func match(re *regexp.Regexp, s string) string {
	m := re.FindStringSubmatch(s)
	if len(m) < 2 {
		return ""
	}
	return m[1]
}
