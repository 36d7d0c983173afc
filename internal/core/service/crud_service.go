package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/basewebproject/base-api/internal/core/domain"
	"github.com/basewebproject/base-api/internal/core/ports"
)

const (
	minPageLimit = 1
	maxPageLimit = 100
)

// CrudService is the generic facade over a Repository. Resource names the
// entity in client-facing messages (e.g. "User").
type CrudService[E any] struct {
	repo     ports.Repository[E]
	resource string
	log      zerolog.Logger
}

func NewCrudService[E any](repo ports.Repository[E], resource string, log zerolog.Logger) *CrudService[E] {
	return &CrudService[E]{
		repo:     repo,
		resource: resource,
		log:      log.With().Str("resource", resource).Logger(),
	}
}

func (s *CrudService[E]) GetAll(ctx context.Context) ([]E, error) {
	items, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []E{}
	}
	return items, nil
}

func (s *CrudService[E]) GetByID(ctx context.Context, id int64) (*E, error) {
	if id <= 0 {
		return nil, domain.InvalidInput("ID is required")
	}
	entity, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.notFound(err, id)
	}
	return entity, nil
}

// GetPaginated returns page (1-based) of size limit, ordered by primary key.
func (s *CrudService[E]) GetPaginated(ctx context.Context, page, limit int) (*domain.Page[E], error) {
	if page < 1 {
		return nil, domain.InvalidInput("page must be greater than 0")
	}
	if limit < minPageLimit || limit > maxPageLimit {
		return nil, domain.InvalidInput("limit must be between %d and %d", minPageLimit, maxPageLimit)
	}

	items, total, err := s.repo.FindPage(ctx, (page-1)*limit, limit)
	if err != nil {
		return nil, err
	}
	p := domain.NewPage(items, total, page, limit)
	return &p, nil
}

func (s *CrudService[E]) Create(ctx context.Context, patch ports.Patch[E]) (*E, error) {
	if patch == nil || patch.Empty() {
		return nil, domain.InvalidInput("data for creation is required")
	}

	var entity E
	patch.Apply(&entity)
	if err := s.repo.Insert(ctx, &entity); err != nil {
		return nil, err
	}

	s.log.Info().Msg("entity created")
	return &entity, nil
}

// Update merges patch into the stored entity. Fields absent from the patch
// keep their stored values.
func (s *CrudService[E]) Update(ctx context.Context, id int64, patch ports.Patch[E]) (*E, error) {
	if id <= 0 {
		return nil, domain.InvalidInput("ID is required")
	}
	if patch == nil || patch.Empty() {
		return nil, domain.InvalidInput("data for update is required")
	}

	entity, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.notFound(err, id)
	}

	patch.Apply(entity)
	if err := s.repo.Save(ctx, entity); err != nil {
		return nil, s.notFound(err, id)
	}

	s.log.Info().Int64("id", id).Msg("entity updated")
	return entity, nil
}

func (s *CrudService[E]) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return domain.InvalidInput("ID is required")
	}
	if err := s.repo.Remove(ctx, id); err != nil {
		return s.notFound(err, id)
	}

	s.log.Info().Int64("id", id).Msg("entity deleted")
	return nil
}

// Exists reports whether id is stored. Lookup failures count as absent.
func (s *CrudService[E]) Exists(ctx context.Context, id int64) bool {
	if id <= 0 {
		return false
	}
	ok, err := s.repo.Exists(ctx, id)
	if err != nil {
		s.log.Debug().Err(err).Int64("id", id).Msg("exists check failed")
		return false
	}
	return ok
}

func (s *CrudService[E]) notFound(err error, id int64) error {
	if errors.Is(err, domain.ErrRecordNotFound) {
		return domain.NotFound("%s with ID %d not found", s.resource, id)
	}
	return err
}
