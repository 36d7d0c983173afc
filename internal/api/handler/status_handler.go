package handler

import (
	"context"
	"fmt"
	"html/template"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/basewebproject/base-api/internal/core/service"
)

// StatusReporter produces the status payload.
type StatusReporter interface {
	Status(ctx context.Context) (*service.Status, error)
}

type StatusHandler struct {
	reporter StatusReporter
}

func NewStatusHandler(reporter StatusReporter) *StatusHandler {
	return &StatusHandler{reporter: reporter}
}

// Status reports database facts and applied migrations.
//
// @Summary      API status
// @Tags         status
// @Produce      json
// @Success      200  {object}  service.Status
// @Failure      500  {object}  errorResponse
// @Router       /status [get]
func (h *StatusHandler) Status(c echo.Context) error {
	st, err := h.reporter.Status(c.Request().Context())
	if err != nil {
		return fmt.Errorf("status: %w", err)
	}
	return c.JSON(http.StatusOK, st)
}

var homeTemplate = template.Must(template.New("home").Parse(`<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>Base API</title></head>
<body>
  <h1>Base API</h1>
  <ul>
    <li><a href="{{.Status}}">Status</a></li>
    <li><a href="{{.Docs}}">API documentation</a></li>
    <li><a href="{{.Frontend}}">Frontend</a></li>
  </ul>
</body>
</html>`))

// HomeHandler serves the landing page linking to status, docs and frontend.
type HomeHandler struct {
	links homeLinks
}

type homeLinks struct {
	Status, Docs, Frontend string
}

func NewHomeHandler(prefix, frontendURL string) *HomeHandler {
	return &HomeHandler{links: homeLinks{
		Status:   prefix + "/status",
		Docs:     "/api/docs/index.html",
		Frontend: frontendURL,
	}}
}

func (h *HomeHandler) Home(c echo.Context) error {
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(http.StatusOK)
	return homeTemplate.Execute(c.Response(), h.links)
}
