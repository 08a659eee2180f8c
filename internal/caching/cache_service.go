package caching

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"picktrack/internal/models"
)

const summaryKey = "picking:audit_summary"

type CacheService interface {
	// Session management
	SetSession(ctx context.Context, sessionID, username string, ttl time.Duration) error
	GetSession(ctx context.Context, sessionID string) (string, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Audit summary caching
	GetAuditSummary(ctx context.Context) (*models.PickingAuditSummary, error)
	SetAuditSummary(ctx context.Context, summary *models.PickingAuditSummary, ttl time.Duration) error

	// Generic string operations
	SetString(ctx context.Context, key, value string, ttl time.Duration) error
	GetString(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error

	Ping(ctx context.Context) error
}

type redisCacheService struct {
	client *redis.Client
}

func NewRedisCacheService(addr, password string, db int) CacheService {
	addr = strings.TrimPrefix(addr, "redis://")
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &redisCacheService{client: client}
}

func sessionKey(sessionID string) string {
	return fmt.Sprintf("session:%s", sessionID)
}

func (s *redisCacheService) SetSession(ctx context.Context, sessionID, username string, ttl time.Duration) error {
	return s.client.Set(ctx, sessionKey(sessionID), username, ttl).Err()
}

func (s *redisCacheService) GetSession(ctx context.Context, sessionID string) (string, error) {
	val, err := s.client.Get(ctx, sessionKey(sessionID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return val, err
}

func (s *redisCacheService) DeleteSession(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, sessionKey(sessionID)).Err()
}

// GetAuditSummary returns the cached summary, or nil without error on a
// cache miss.
func (s *redisCacheService) GetAuditSummary(ctx context.Context) (*models.PickingAuditSummary, error) {
	data, err := s.client.Get(ctx, summaryKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	summary := &models.PickingAuditSummary{}
	if err := json.Unmarshal(data, summary); err != nil {
		return nil, fmt.Errorf("failed to decode cached summary: %w", err)
	}
	return summary, nil
}

func (s *redisCacheService) SetAuditSummary(ctx context.Context, summary *models.PickingAuditSummary, ttl time.Duration) error {
	data, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to encode summary: %w", err)
	}
	return s.client.Set(ctx, summaryKey, data, ttl).Err()
}

func (s *redisCacheService) SetString(ctx context.Context, key, value string, ttl time.Duration) error {
	return s.client.Set(ctx, key, value, ttl).Err()
}

func (s *redisCacheService) GetString(ctx context.Context, key string) (string, error) {
	val, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return val, err
}

func (s *redisCacheService) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, key).Err()
}

func (s *redisCacheService) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
