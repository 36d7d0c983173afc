package handler

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

var loginPattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

const passwordSpecials = "@$!%*?&"

// RequestValidator is the echo.Validator shared by every handler. Field names
// in messages follow the json tags of the request struct.
type RequestValidator struct {
	validate *validator.Validate
}

func NewValidator() *RequestValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonFieldName)
	_ = v.RegisterValidation("login", func(fl validator.FieldLevel) bool {
		return loginPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		return strongPassword(fl.Field().String())
	})
	return &RequestValidator{validate: v}
}

// Validate reports every violation at once as a 400 with a list message.
func (rv *RequestValidator) Validate(i any) error {
	err := rv.validate.Struct(i)
	var violations validator.ValidationErrors
	if !errors.As(err, &violations) {
		return err
	}

	msgs := make([]string, len(violations))
	for i, fe := range violations {
		msgs[i] = describe(fe)
	}
	return echo.NewHTTPError(http.StatusBadRequest, msgs).SetInternal(err)
}

func describe(fe validator.FieldError) string {
	name, param := fe.Field(), fe.Param()
	switch fe.Tag() {
	case "required":
		return name + " is required"
	case "email":
		return name + " must be a valid email"
	case "min":
		return name + " must be at least " + param + " characters"
	case "max":
		return name + " must be at most " + param + " characters"
	case "oneof":
		return name + " must be one of " + strings.ReplaceAll(param, " ", ", ")
	case "login":
		return name + " may only contain letters, numbers and underscores"
	case "password":
		return name + " must contain an uppercase letter, a lowercase letter, a number and one of " + passwordSpecials
	}
	return fmt.Sprintf("%s is invalid (%s)", name, fe.Tag())
}

func strongPassword(s string) bool {
	var upper, lower, digit, special bool
	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case strings.ContainsRune(passwordSpecials, r):
			special = true
		}
	}
	return upper && lower && digit && special
}

func jsonFieldName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "" || name == "-" {
		return strings.ToLower(f.Name)
	}
	return name
}
