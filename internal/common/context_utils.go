package common

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

type contextKey string

const (
	UserIDKey   contextKey = "user_id"
	UsernameKey contextKey = "username"
)

// DetailResponse is the error body shape of the picking API. Every error,
// whatever its class, surfaces as {"detail": <message>}.
type DetailResponse struct {
	Detail string `json:"detail"`
}

// SendDetail sends an error response with the given status code.
func SendDetail(c echo.Context, status int, message string) error {
	return c.JSON(status, DetailResponse{Detail: message})
}

// SendClientError sends a 400 response.
func SendClientError(c echo.Context, message string) error {
	return SendDetail(c, http.StatusBadRequest, message)
}

// SendNotFoundError sends a 404 response.
func SendNotFoundError(c echo.Context, message string) error {
	return SendDetail(c, http.StatusNotFound, message)
}

// SendServerError sends a 500 response.
func SendServerError(c echo.Context, message string) error {
	return SendDetail(c, http.StatusInternalServerError, message)
}

// SendUnauthorizedError sends a 401 response.
func SendUnauthorizedError(c echo.Context) error {
	return SendDetail(c, http.StatusUnauthorized, "Not authenticated")
}

// ValidateRequiredString validates required string fields
func ValidateRequiredString(value, fieldName string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s is required", fieldName)
	}
	return nil
}

// ValidateNonNegativeInt validates integer fields that must not be negative
func ValidateNonNegativeInt(value int, fieldName string) error {
	if value < 0 {
		return fmt.Errorf("%s cannot be negative", fieldName)
	}
	return nil
}

// ValidatePaginationParams clamps pagination parameters to sane bounds
func ValidatePaginationParams(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 500 {
		limit = 500
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// GetUserIDFromContext extracts the user ID from the request context
func GetUserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDKey).(string)
	return userID, ok
}

// GetUsernameFromContext extracts the authenticated username from the
// request context. Handlers behind the JWT middleware rely on this instead
// of anything in the request body.
func GetUsernameFromContext(ctx context.Context) (string, bool) {
	username, ok := ctx.Value(UsernameKey).(string)
	return username, ok
}

// WithIdentity returns a context carrying the authenticated identity.
func WithIdentity(ctx context.Context, userID, username string) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, userID)
	return context.WithValue(ctx, UsernameKey, username)
}
