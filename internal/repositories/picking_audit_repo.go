package repositories

import (
	"context"

	"picktrack/internal/models"
)

type PickingAuditRepository interface {
	CreateWithItems(ctx context.Context, audit *models.PickingAudit, items []*models.PickingAuditItem) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.PickingAuditDetail, error)
	List(ctx context.Context, limit, offset int) ([]*models.PickingAudit, error)
	Summary(ctx context.Context) (*models.PickingAuditSummary, error)
}

type pickingAuditRepo struct {
	db Database
}

func NewPickingAuditRepo(db Database) PickingAuditRepository {
	return &pickingAuditRepo{db: db}
}

// CreateWithItems persists one audit header and its lines as a single
// transaction. The generated header id is obtained before the lines are
// inserted; any failure rolls the whole unit back so no parent row becomes
// visible without its children having committed with it.
func (r *pickingAuditRepo) CreateWithItems(ctx context.Context, audit *models.PickingAudit, items []*models.PickingAuditItem) (int64, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	var auditID int64
	headerQuery := `
		INSERT INTO picking_audits (order_number, despatch_number, customer_name, username, timestamp, status, packages)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	err = tx.QueryRow(ctx, headerQuery,
		audit.OrderNumber,
		audit.DespatchNumber,
		audit.CustomerName,
		audit.Username,
		audit.Timestamp,
		audit.Status,
		audit.Packages,
	).Scan(&auditID)
	if err != nil {
		return 0, err
	}

	itemQuery := `
		INSERT INTO picking_audit_items (audit_id, item_code, description, qty_req, qty_scan, difference)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	for _, item := range items {
		if _, err := tx.Exec(ctx, itemQuery, auditID, item.ItemCode, item.Description, item.QtyReq, item.QtyScan, item.Difference); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return auditID, nil
}

func (r *pickingAuditRepo) GetByID(ctx context.Context, id int64) (*models.PickingAuditDetail, error) {
	detail := &models.PickingAuditDetail{}
	headerQuery := `
		SELECT id, order_number, despatch_number, customer_name, username, timestamp, status, packages
		FROM picking_audits
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, headerQuery, id).Scan(
		&detail.ID,
		&detail.OrderNumber,
		&detail.DespatchNumber,
		&detail.CustomerName,
		&detail.Username,
		&detail.Timestamp,
		&detail.Status,
		&detail.Packages,
	)
	if err != nil {
		return nil, err
	}

	itemsQuery := `
		SELECT id, audit_id, item_code, description, qty_req, qty_scan, difference
		FROM picking_audit_items
		WHERE audit_id = $1
		ORDER BY id
	`
	rows, err := r.db.Query(ctx, itemsQuery, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		item := &models.PickingAuditItem{}
		if err := rows.Scan(&item.ID, &item.AuditID, &item.ItemCode, &item.Description, &item.QtyReq, &item.QtyScan, &item.Difference); err != nil {
			return nil, err
		}
		detail.Items = append(detail.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return detail, nil
}

func (r *pickingAuditRepo) List(ctx context.Context, limit, offset int) ([]*models.PickingAudit, error) {
	query := `
		SELECT id, order_number, despatch_number, customer_name, username, timestamp, status, packages
		FROM picking_audits
		ORDER BY id DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var audits []*models.PickingAudit
	for rows.Next() {
		audit := &models.PickingAudit{}
		if err := rows.Scan(&audit.ID, &audit.OrderNumber, &audit.DespatchNumber, &audit.CustomerName, &audit.Username, &audit.Timestamp, &audit.Status, &audit.Packages); err != nil {
			return nil, err
		}
		audits = append(audits, audit)
	}
	return audits, rows.Err()
}

func (r *pickingAuditRepo) Summary(ctx context.Context) (*models.PickingAuditSummary, error) {
	summary := &models.PickingAuditSummary{}

	headerQuery := `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE status = $1)
		FROM picking_audits
	`
	if err := r.db.QueryRow(ctx, headerQuery, models.AuditStatusDiscrepancy).Scan(&summary.TotalAudits, &summary.DiscrepancyAudits); err != nil {
		return nil, err
	}

	itemsQuery := `
		SELECT COUNT(*),
		       COALESCE(SUM(CASE WHEN difference < 0 THEN -difference ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN difference > 0 THEN difference ELSE 0 END), 0)
		FROM picking_audit_items
	`
	if err := r.db.QueryRow(ctx, itemsQuery).Scan(&summary.TotalItems, &summary.ShortageUnits, &summary.OverageUnits); err != nil {
		return nil, err
	}

	return summary, nil
}
