package handlers

import (
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"picktrack/internal/common"
	"picktrack/internal/models"
	"picktrack/internal/repositories"
	"picktrack/internal/services"
)

// AuthHandlers handles authentication-related HTTP requests
type AuthHandlers struct {
	authService services.AuthService
	userRepo    repositories.UserRepository
}

func NewAuthHandlers(authService services.AuthService, userRepo repositories.UserRepository) *AuthHandlers {
	return &AuthHandlers{
		authService: authService,
		userRepo:    userRepo,
	}
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	models.TokenResponse
	User *models.User `json:"user"`
}

// Signup handles POST /api/auth/signup
func (h *AuthHandlers) Signup(c echo.Context) error {
	ctx := c.Request().Context()

	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if err := common.ValidateRequiredString(req.Username, "username"); err != nil {
		return common.SendClientError(c, err.Error())
	}
	if len(req.Password) < 6 {
		return common.SendClientError(c, "password must be at least 6 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return common.SendServerError(c, "Failed to hash password")
	}

	user := &models.User{
		ID:           uuid.New(),
		Username:     req.Username,
		PasswordHash: string(hash),
	}
	if err := h.userRepo.Create(ctx, user); err != nil {
		log.Printf("signup failed for %s: %v", req.Username, err)
		return common.SendClientError(c, err.Error())
	}

	tokens, err := h.authService.GenerateToken(ctx, user)
	if err != nil {
		return common.SendServerError(c, "Failed to generate token")
	}

	return c.JSON(http.StatusCreated, loginResponse{TokenResponse: *tokens, User: user})
}

// Login handles POST /api/auth/login
func (h *AuthHandlers) Login(c echo.Context) error {
	ctx := c.Request().Context()

	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if req.Username == "" || req.Password == "" {
		return common.SendClientError(c, "username and password are required")
	}

	user, err := h.userRepo.GetByUsername(ctx, req.Username)
	if err != nil || user == nil {
		return common.SendDetail(c, http.StatusUnauthorized, "Incorrect username or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return common.SendDetail(c, http.StatusUnauthorized, "Incorrect username or password")
	}

	tokens, err := h.authService.GenerateToken(ctx, user)
	if err != nil {
		return common.SendServerError(c, "Failed to generate token")
	}

	return c.JSON(http.StatusOK, loginResponse{TokenResponse: *tokens, User: user})
}

// Me handles GET /api/me
func (h *AuthHandlers) Me(c echo.Context) error {
	username, ok := common.GetUsernameFromContext(c.Request().Context())
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"username": username,
	})
}
