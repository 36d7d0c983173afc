// Package postgres implements the storage ports on PostgreSQL through gorm.
package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/basewebproject/base-api/internal/core/domain"
	"github.com/basewebproject/base-api/internal/infrastructure/db/dberr"
)

var byPrimaryKey = clause.OrderByColumn{Column: clause.PrimaryColumn}

// Repository is a generic gorm-backed store for any entity with a single
// primary key column.
type Repository[E any] struct {
	db *gorm.DB
}

func NewRepository[E any](db *gorm.DB) *Repository[E] {
	return &Repository[E]{db: db}
}

func (r *Repository[E]) FindAll(ctx context.Context) ([]E, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var items []E
	if err := r.db.WithContext(ctx).Order(byPrimaryKey).Find(&items).Error; err != nil {
		return nil, fmt.Errorf("find all: %w", dberr.Translate(err))
	}
	return items, nil
}

func (r *Repository[E]) FindByID(ctx context.Context, id int64) (*E, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var entity E
	if err := r.db.WithContext(ctx).First(&entity, id).Error; err != nil {
		return nil, dberr.Translate(err)
	}
	return &entity, nil
}

func (r *Repository[E]) FindPage(ctx context.Context, offset, limit int) ([]E, int64, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var total int64
	if err := r.db.WithContext(ctx).Model(new(E)).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count: %w", dberr.Translate(err))
	}

	var items []E
	err := r.db.WithContext(ctx).
		Order(byPrimaryKey).
		Offset(offset).
		Limit(limit).
		Find(&items).Error
	if err != nil {
		return nil, 0, fmt.Errorf("find page: %w", dberr.Translate(err))
	}
	return items, total, nil
}

func (r *Repository[E]) Insert(ctx context.Context, entity *E) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	if err := r.db.WithContext(ctx).Create(entity).Error; err != nil {
		return dberr.Translate(err)
	}
	return nil
}

// Save writes every column of entity. A row that vanished since it was read
// yields domain.ErrRecordNotFound.
func (r *Repository[E]) Save(ctx context.Context, entity *E) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	res := r.db.WithContext(ctx).Model(entity).Select("*").Omit("created_at").Updates(entity)
	if res.Error != nil {
		return dberr.Translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrRecordNotFound
	}
	return nil
}

func (r *Repository[E]) Remove(ctx context.Context, id int64) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	res := r.db.WithContext(ctx).Delete(new(E), id)
	if res.Error != nil {
		return dberr.Translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrRecordNotFound
	}
	return nil
}

func (r *Repository[E]) Exists(ctx context.Context, id int64) (bool, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var n int64
	err := r.db.WithContext(ctx).
		Model(new(E)).
		Where(clause.Eq{Column: clause.PrimaryColumn, Value: id}).
		Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("exists: %w", err)
	}
	return n > 0, nil
}
