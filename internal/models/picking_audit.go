package models

// Audit status labels as submitted by the operator UI.
const (
	AuditStatusComplete    = "complete"
	AuditStatusDiscrepancy = "discrepancy"
)

// PickingAuditSubmission is the request payload for saving a picking audit.
// Packages is a pointer so that an absent field and an explicit 0 both
// normalize to a stored value of 0.
type PickingAuditSubmission struct {
	OrderNumber    string                  `json:"order_number"`
	DespatchNumber string                  `json:"despatch_number"`
	CustomerName   string                  `json:"customer_name"`
	Status         string                  `json:"status"`
	Packages       *int                    `json:"packages"`
	Items          []PickingAuditItemInput `json:"items"`
}

// PickingAuditItemInput is one submitted line of a picking audit.
// The scanned-vs-required difference is derived server-side, never accepted
// from the caller.
type PickingAuditItemInput struct {
	Code        string `json:"code"`
	Description string `json:"description"`
	QtyReq      int    `json:"qty_req"`
	QtyScan     int    `json:"qty_scan"`
}

// PickingAudit is the persisted audit header. Timestamp is the server clock
// at write time, second precision, stored as an ISO-8601 string.
type PickingAudit struct {
	ID             int64  `json:"id" db:"id"`
	OrderNumber    string `json:"order_number" db:"order_number"`
	DespatchNumber string `json:"despatch_number" db:"despatch_number"`
	CustomerName   string `json:"customer_name" db:"customer_name"`
	Username       string `json:"username" db:"username"`
	Timestamp      string `json:"timestamp" db:"timestamp"`
	Status         string `json:"status" db:"status"`
	Packages       int    `json:"packages" db:"packages"`
}

// PickingAuditItem is a persisted audit line. Difference = QtyScan - QtyReq;
// negative means under-pick, positive means over-pick.
type PickingAuditItem struct {
	ID          int64  `json:"id" db:"id"`
	AuditID     int64  `json:"audit_id" db:"audit_id"`
	ItemCode    string `json:"item_code" db:"item_code"`
	Description string `json:"description" db:"description"`
	QtyReq      int    `json:"qty_req" db:"qty_req"`
	QtyScan     int    `json:"qty_scan" db:"qty_scan"`
	Difference  int    `json:"difference" db:"difference"`
}

// PickingAuditDetail bundles a header with its lines for the read endpoints.
type PickingAuditDetail struct {
	PickingAudit
	Items []*PickingAuditItem `json:"items"`
}

// PickingAuditSummary holds aggregate discrepancy figures across audits.
type PickingAuditSummary struct {
	TotalAudits       int    `json:"total_audits"`
	DiscrepancyAudits int    `json:"discrepancy_audits"`
	TotalItems        int    `json:"total_items"`
	ShortageUnits     int    `json:"shortage_units"`
	OverageUnits      int    `json:"overage_units"`
	GeneratedAt       string `json:"generated_at"`
}
