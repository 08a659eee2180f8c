package analytics

import (
	"context"
	"log"
	"time"

	"picktrack/internal/caching"
	"picktrack/internal/models"
	"picktrack/internal/repositories"
)

const summaryTTL = 15 * time.Minute

// AnalyticsService computes aggregate discrepancy figures across stored
// audits. Results are cached; the background scheduler refreshes them.
type AnalyticsService struct {
	auditRepo repositories.PickingAuditRepository
	cacheSvc  caching.CacheService
}

func NewAnalyticsService(auditRepo repositories.PickingAuditRepository, cacheSvc caching.CacheService) *AnalyticsService {
	return &AnalyticsService{
		auditRepo: auditRepo,
		cacheSvc:  cacheSvc,
	}
}

// AuditSummary serves the cached summary when present, falling back to a
// fresh computation.
func (s *AnalyticsService) AuditSummary(ctx context.Context) (*models.PickingAuditSummary, error) {
	cached, err := s.cacheSvc.GetAuditSummary(ctx)
	if err != nil {
		log.Printf("summary cache read failed, recomputing: %v", err)
	}
	if cached != nil {
		return cached, nil
	}
	return s.RefreshAuditSummary(ctx)
}

// RefreshAuditSummary recomputes the summary from the database and updates
// the cache.
func (s *AnalyticsService) RefreshAuditSummary(ctx context.Context) (*models.PickingAuditSummary, error) {
	summary, err := s.auditRepo.Summary(ctx)
	if err != nil {
		return nil, err
	}
	summary.GeneratedAt = time.Now().UTC().Format(time.RFC3339)

	if err := s.cacheSvc.SetAuditSummary(ctx, summary, summaryTTL); err != nil {
		log.Printf("failed to cache audit summary: %v", err)
	}
	return summary, nil
}
