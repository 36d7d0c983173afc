package ports

import (
	"context"

	"github.com/basewebproject/base-api/internal/core/domain"
)

// Repository is the storage contract behind the generic CRUD facade.
// Lookups by id return domain.ErrRecordNotFound when nothing matches.
// Constraint violations come back already classified (domain.ErrConflict,
// domain.ErrInvalidReference, domain.ErrInvalidInput).
type Repository[E any] interface {
	FindAll(ctx context.Context) ([]E, error)
	FindByID(ctx context.Context, id int64) (*E, error)
	// FindPage returns limit rows starting at offset, ordered by primary key,
	// together with the total row count.
	FindPage(ctx context.Context, offset, limit int) ([]E, int64, error)
	Insert(ctx context.Context, entity *E) error
	Save(ctx context.Context, entity *E) error
	Remove(ctx context.Context, id int64) error
	Exists(ctx context.Context, id int64) (bool, error)
}

// Patch is a partial input for an entity. Fields left unset are not touched
// by Apply.
type Patch[E any] interface {
	Empty() bool
	Apply(entity *E)
}

// CrudService is the generic facade exposed to request handlers.
type CrudService[E any] interface {
	GetAll(ctx context.Context) ([]E, error)
	GetByID(ctx context.Context, id int64) (*E, error)
	GetPaginated(ctx context.Context, page, limit int) (*domain.Page[E], error)
	Create(ctx context.Context, patch Patch[E]) (*E, error)
	Update(ctx context.Context, id int64, patch Patch[E]) (*E, error)
	Delete(ctx context.Context, id int64) error
	Exists(ctx context.Context, id int64) bool
}
