package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/basewebproject/base-api/internal/api/metrics"
	"github.com/basewebproject/base-api/internal/core/domain"
	"github.com/basewebproject/base-api/internal/core/ports"
)

// Route is one entry of the route table. Public routes skip authentication;
// Roles restricts authenticated routes, empty meaning any principal.
type Route struct {
	Method  string
	Path    string
	Handler echo.HandlerFunc
	Public  bool
	Roles   []domain.Role
}

// CrudMapping adapts an entity's wire formats. C and U are the create and
// update request bodies, R the response projection.
type CrudMapping[E, C, U, R any] struct {
	FromCreate func(req *C) (ports.Patch[E], error)
	FromUpdate func(req *U) (ports.Patch[E], error)
	ToResponse func(entity *E) R
}

// CrudPolicy lists the roles allowed per endpoint. A nil list admits any
// authenticated principal.
type CrudPolicy struct {
	List, Paged, Get, Create, Update, Delete []domain.Role
}

// CrudHandler serves the generic CRUD endpoints for one entity.
type CrudHandler[E, C, U, R any] struct {
	name    string
	service ports.CrudService[E]
	mapping CrudMapping[E, C, U, R]
}

type messageResponse struct {
	Message string `json:"message"`
}

// NewCrudHandler builds the handler. name is the metric label for the
// resource (e.g. "users").
func NewCrudHandler[E, C, U, R any](name string, service ports.CrudService[E], mapping CrudMapping[E, C, U, R]) *CrudHandler[E, C, U, R] {
	return &CrudHandler[E, C, U, R]{name: name, service: service, mapping: mapping}
}

// Routes returns the route records for base under policy.
func (h *CrudHandler[E, C, U, R]) Routes(base string, policy CrudPolicy) []Route {
	return []Route{
		{Method: http.MethodGet, Path: base, Handler: h.List, Roles: policy.List},
		{Method: http.MethodGet, Path: base + "/paged", Handler: h.Paged, Roles: policy.Paged},
		{Method: http.MethodGet, Path: base + "/:id", Handler: h.Get, Roles: policy.Get},
		{Method: http.MethodPost, Path: base, Handler: h.Create, Roles: policy.Create},
		{Method: http.MethodPut, Path: base + "/:id", Handler: h.Update, Roles: policy.Update},
		{Method: http.MethodDelete, Path: base + "/:id", Handler: h.Delete, Roles: policy.Delete},
	}
}

func (h *CrudHandler[E, C, U, R]) List(c echo.Context) error {
	items, err := h.service.GetAll(c.Request().Context())
	h.observe("list", err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.project(items))
}

func (h *CrudHandler[E, C, U, R]) Paged(c echo.Context) error {
	page, limit := 1, 10
	if err := echo.QueryParamsBinder(c).Int("page", &page).Int("limit", &limit).BindError(); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "page and limit must be integers").SetInternal(err)
	}

	p, err := h.service.GetPaginated(c.Request().Context(), page, limit)
	h.observe("paged", err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, domain.Page[R]{
		Data:       h.project(p.Data),
		Total:      p.Total,
		Page:       p.Page,
		Limit:      p.Limit,
		TotalPages: p.TotalPages,
	})
}

func (h *CrudHandler[E, C, U, R]) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	entity, err := h.service.GetByID(c.Request().Context(), id)
	h.observe("get", err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.mapping.ToResponse(entity))
}

func (h *CrudHandler[E, C, U, R]) Create(c echo.Context) error {
	var req C
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	patch, err := h.mapping.FromCreate(&req)
	if err != nil {
		return err
	}

	entity, err := h.service.Create(c.Request().Context(), patch)
	h.observe("create", err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, h.mapping.ToResponse(entity))
}

func (h *CrudHandler[E, C, U, R]) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req U
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	patch, err := h.mapping.FromUpdate(&req)
	if err != nil {
		return err
	}

	entity, err := h.service.Update(c.Request().Context(), id, patch)
	h.observe("update", err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.mapping.ToResponse(entity))
}

func (h *CrudHandler[E, C, U, R]) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	err = h.service.Delete(c.Request().Context(), id)
	h.observe("delete", err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "record " + strconv.FormatInt(id, 10) + " deleted successfully"})
}

func (h *CrudHandler[E, C, U, R]) project(items []E) []R {
	out := make([]R, 0, len(items))
	for i := range items {
		out = append(out, h.mapping.ToResponse(&items[i]))
	}
	return out
}

func (h *CrudHandler[E, C, U, R]) observe(op string, err error) {
	metrics.CrudOperationsTotal.WithLabelValues(h.name, op, metrics.Result(err)).Inc()
}

func pathID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "id must be a positive integer")
	}
	return id, nil
}

// bindAndValidate decodes the JSON body into req and runs the validator.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return err
	}
	if c.Echo().Validator == nil {
		return nil
	}
	return c.Validate(req)
}
