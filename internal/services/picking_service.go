package services

import (
	"context"
	"time"

	"picktrack/internal/models"
	"picktrack/internal/repositories"
)

// PickingServiceInterface defines the picking workflow operations.
type PickingServiceInterface interface {
	LookupOrder(ctx context.Context, orderNumber, despatchNumber string) ([]*models.PickingOrderLine, error)
	SaveAudit(ctx context.Context, username string, submission *models.PickingAuditSubmission) (int64, error)
	GetAudit(ctx context.Context, id int64) (*models.PickingAuditDetail, error)
	ListAudits(ctx context.Context, limit, offset int) ([]*models.PickingAudit, error)
}

type pickingService struct {
	source    *OrderSource
	auditRepo repositories.PickingAuditRepository
}

func NewPickingService(source *OrderSource, auditRepo repositories.PickingAuditRepository) PickingServiceInterface {
	return &pickingService{
		source:    source,
		auditRepo: auditRepo,
	}
}

func (s *pickingService) LookupOrder(ctx context.Context, orderNumber, despatchNumber string) ([]*models.PickingOrderLine, error) {
	return s.source.Lookup(ctx, orderNumber, despatchNumber)
}

// SaveAudit persists one header plus its lines in a single transaction and
// returns the generated audit id. The username comes from the authenticated
// caller, never from the submission body. Packages normalizes to 0 when
// absent; an empty item list is valid and yields a childless header.
func (s *pickingService) SaveAudit(ctx context.Context, username string, submission *models.PickingAuditSubmission) (int64, error) {
	packages := 0
	if submission.Packages != nil {
		packages = *submission.Packages
	}

	audit := &models.PickingAudit{
		OrderNumber:    submission.OrderNumber,
		DespatchNumber: submission.DespatchNumber,
		CustomerName:   submission.CustomerName,
		Username:       username,
		Timestamp:      time.Now().Format("2006-01-02T15:04:05"),
		Status:         submission.Status,
		Packages:       packages,
	}

	items := make([]*models.PickingAuditItem, 0, len(submission.Items))
	for _, in := range submission.Items {
		items = append(items, &models.PickingAuditItem{
			ItemCode:    in.Code,
			Description: in.Description,
			QtyReq:      in.QtyReq,
			QtyScan:     in.QtyScan,
			Difference:  in.QtyScan - in.QtyReq,
		})
	}

	return s.auditRepo.CreateWithItems(ctx, audit, items)
}

func (s *pickingService) GetAudit(ctx context.Context, id int64) (*models.PickingAuditDetail, error) {
	return s.auditRepo.GetByID(ctx, id)
}

func (s *pickingService) ListAudits(ctx context.Context, limit, offset int) ([]*models.PickingAudit, error) {
	return s.auditRepo.List(ctx, limit, offset)
}
