package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/basewebproject/base-api/internal/api/metrics"
	"github.com/basewebproject/base-api/internal/api/middleware"
	"github.com/basewebproject/base-api/internal/core/domain"
	"github.com/basewebproject/base-api/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	AccessToken string      `json:"access_token"`
	ID          int64       `json:"id"`
	Name        string      `json:"name"`
	Email       string      `json:"email"`
	Role        domain.Role `json:"role"`
}

type meResponse struct {
	ID    int64       `json:"id"`
	Name  string      `json:"name"`
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
}

// Login authenticates a user and returns a JWT token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      429   {object}  errorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	res, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
		}
		return err
	}
	metrics.LoginsTotal.WithLabelValues("success").Inc()

	return c.JSON(http.StatusOK, loginResponse{
		AccessToken: res.AccessToken,
		ID:          res.User.ID,
		Name:        res.User.Name,
		Email:       res.User.Email,
		Role:        res.User.Role,
	})
}

// Me returns the identity behind the bearer token.
//
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  meResponse
// @Failure      401  {object}  errorResponse
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	user, err := h.authService.Me(c.Request().Context(), middleware.PrincipalFrom(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, meResponse{ID: user.ID, Name: user.Name, Email: user.Email, Role: user.Role})
}

// errorResponse documents the error envelope for swag.
type errorResponse struct {
	StatusCode int    `json:"statusCode" example:"401"`
	Message    string `json:"message" example:"invalid credentials"`
	Error      string `json:"error" example:"Unauthorized"`
	Timestamp  string `json:"timestamp" example:"2026-01-01T00:00:00Z"`
	Path       string `json:"path" example:"/api/v1/auth/login"`
}
