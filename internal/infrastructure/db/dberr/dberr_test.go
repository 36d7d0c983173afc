package dberr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"

	"github.com/basewebproject/base-api/internal/core/domain"
)

func TestTranslate_PostgresUniqueViolation(t *testing.T) {
	raw := &pgconn.PgError{
		Code:   "23505",
		Detail: "Key (email)=(ana@example.com) already exists.",
	}

	err := Translate(fmt.Errorf("insert user: %w", raw))

	assert.ErrorIs(t, err, domain.ErrConflict)
	var de *domain.Error
	if assert.ErrorAs(t, err, &de) {
		assert.Equal(t, "email", de.Field)
		assert.Equal(t, "email is already in use", de.Message)
	}
}

func TestTranslate_PostgresUniqueWithoutField(t *testing.T) {
	err := Translate(&pgconn.PgError{Code: "23505"})

	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, "duplicate record", domain.Message(err, ""))
}

func TestTranslate_PostgresForeignKey(t *testing.T) {
	err := Translate(&pgconn.PgError{Code: "23503"})

	assert.ErrorIs(t, err, domain.ErrInvalidReference)
	assert.Equal(t, "invalid reference to another resource", domain.Message(err, ""))
}

func TestTranslate_PostgresNotNull(t *testing.T) {
	err := Translate(&pgconn.PgError{Code: "23502", ColumnName: "name"})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, "required field not provided", domain.Message(err, ""))
}

func TestTranslate_MongoDuplicate(t *testing.T) {
	raw := mongo.WriteException{WriteErrors: []mongo.WriteError{{
		Code:    11000,
		Message: `E11000 duplicate key error collection: app.users index: email_1 dup key: { email: "ana@example.com" }`,
	}}}

	err := Translate(raw)

	var de *domain.Error
	if assert.ErrorAs(t, err, &de) {
		assert.Equal(t, "email", de.Field)
	}
}

func TestTranslate_NotFound(t *testing.T) {
	assert.ErrorIs(t, Translate(gorm.ErrRecordNotFound), domain.ErrRecordNotFound)
	assert.ErrorIs(t, Translate(mongo.ErrNoDocuments), domain.ErrRecordNotFound)
}

func TestTranslate_Passthrough(t *testing.T) {
	boom := errors.New("connection refused")

	assert.Same(t, boom, Translate(boom))
	assert.Nil(t, Translate(nil))
}
