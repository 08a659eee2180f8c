package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"picktrack/internal/caching"
	"picktrack/internal/middleware"
	"picktrack/internal/models"
)

// AuthService issues the HS256 tokens the picking endpoints are protected
// with and tracks live sessions in the cache.
type AuthService interface {
	GenerateToken(ctx context.Context, user *models.User) (*models.TokenResponse, error)
	RevokeSession(ctx context.Context, tokenID string) error
}

type authService struct {
	cacheSvc  caching.CacheService
	jwtSecret []byte
	tokenTTL  time.Duration
}

func NewAuthService(cacheSvc caching.CacheService, jwtSecret string, tokenTTLSeconds int) AuthService {
	return &authService{
		cacheSvc:  cacheSvc,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  time.Duration(tokenTTLSeconds) * time.Second,
	}
}

func (s *authService) GenerateToken(ctx context.Context, user *models.User) (*models.TokenResponse, error) {
	now := time.Now()
	tokenID := uuid.NewString()

	claims := middleware.JWTCustomClaims{
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			ID:        tokenID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	if err := s.cacheSvc.SetSession(ctx, tokenID, user.Username, s.tokenTTL); err != nil {
		// Session bookkeeping is advisory; the token itself stays valid.
		log.Printf("failed to record session for %s: %v", user.Username, err)
	}

	return &models.TokenResponse{
		AccessToken: signed,
		TokenType:   "bearer",
		ExpiresIn:   int(s.tokenTTL.Seconds()),
	}, nil
}

func (s *authService) RevokeSession(ctx context.Context, tokenID string) error {
	return s.cacheSvc.DeleteSession(ctx, tokenID)
}
