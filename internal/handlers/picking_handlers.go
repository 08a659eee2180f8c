package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"

	"picktrack/internal/analytics"
	"picktrack/internal/common"
	"picktrack/internal/models"
	"picktrack/internal/services"
)

// PickingHandlers handles the picking workflow endpoints.
type PickingHandlers struct {
	pickingService services.PickingServiceInterface
	analyticsSvc   *analytics.AnalyticsService
	syncSvc        services.SourceSyncService
}

// NewPickingHandlers creates a new picking handlers instance. syncSvc may be
// nil when no object-storage endpoint is configured.
func NewPickingHandlers(pickingService services.PickingServiceInterface, analyticsSvc *analytics.AnalyticsService, syncSvc services.SourceSyncService) *PickingHandlers {
	return &PickingHandlers{
		pickingService: pickingService,
		analyticsSvc:   analyticsSvc,
		syncSvc:        syncSvc,
	}
}

// GetPickingOrder handles GET /api/picking/order/:order_number/:despatch_number.
// A missing source file and an unknown order both answer 404, with distinct
// messages; a malformed source answers 500.
func (h *PickingHandlers) GetPickingOrder(c echo.Context) error {
	ctx := c.Request().Context()

	orderNumber := c.Param("order_number")
	despatchNumber := c.Param("despatch_number")

	lines, err := h.pickingService.LookupOrder(ctx, orderNumber, despatchNumber)
	if err != nil {
		var schemaErr *services.SourceSchemaError
		switch {
		case errors.Is(err, services.ErrSourceMissing):
			return common.SendNotFoundError(c, "The picking data source file is missing.")
		case errors.Is(err, services.ErrOrderNotFound):
			return common.SendNotFoundError(c, "Order not found.")
		case errors.As(err, &schemaErr):
			return common.SendServerError(c, schemaErr.Error())
		default:
			log.Printf("picking order lookup failed for %s/%s: %v", orderNumber, despatchNumber, err)
			return common.SendServerError(c, err.Error())
		}
	}

	return c.JSON(http.StatusOK, lines)
}

// SavePickingAudit handles POST /api/save_picking_audit. The caller must be
// authenticated; the stored username comes from the token, not the body.
func (h *PickingHandlers) SavePickingAudit(c echo.Context) error {
	ctx := c.Request().Context()

	username, ok := common.GetUsernameFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var submission models.PickingAuditSubmission
	if err := c.Bind(&submission); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	if err := common.ValidateRequiredString(submission.OrderNumber, "order_number"); err != nil {
		return common.SendClientError(c, err.Error())
	}
	if err := common.ValidateRequiredString(submission.DespatchNumber, "despatch_number"); err != nil {
		return common.SendClientError(c, err.Error())
	}
	if submission.Packages != nil {
		if err := common.ValidateNonNegativeInt(*submission.Packages, "packages"); err != nil {
			return common.SendClientError(c, err.Error())
		}
	}

	auditID, err := h.pickingService.SaveAudit(ctx, username, &submission)
	if err != nil {
		log.Printf("save_picking_audit failed for order %s: %v", submission.OrderNumber, err)
		return common.SendServerError(c, "database error: "+err.Error())
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message":  "Picking audit saved successfully",
		"audit_id": auditID,
	})
}

// ListAudits handles GET /api/picking/audits
func (h *PickingHandlers) ListAudits(c echo.Context) error {
	ctx := c.Request().Context()

	limit := 50
	offset := 0
	if limitParam := c.QueryParam("limit"); limitParam != "" {
		if l, err := strconv.Atoi(limitParam); err == nil {
			limit = l
		}
	}
	if offsetParam := c.QueryParam("offset"); offsetParam != "" {
		if o, err := strconv.Atoi(offsetParam); err == nil {
			offset = o
		}
	}
	limit, offset = common.ValidatePaginationParams(limit, offset)

	audits, err := h.pickingService.ListAudits(ctx, limit, offset)
	if err != nil {
		log.Printf("list audits failed: %v", err)
		return common.SendServerError(c, "database error: "+err.Error())
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"audits": audits,
		"limit":  limit,
		"offset": offset,
	})
}

// GetAudit handles GET /api/picking/audits/:id
func (h *PickingHandlers) GetAudit(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return common.SendClientError(c, "audit id must be an integer")
	}

	audit, err := h.pickingService.GetAudit(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return common.SendNotFoundError(c, "Audit not found.")
		}
		log.Printf("get audit %d failed: %v", id, err)
		return common.SendServerError(c, "database error: "+err.Error())
	}

	return c.JSON(http.StatusOK, audit)
}

// GetAuditSummary handles GET /api/picking/summary
func (h *PickingHandlers) GetAuditSummary(c echo.Context) error {
	summary, err := h.analyticsSvc.AuditSummary(c.Request().Context())
	if err != nil {
		log.Printf("audit summary failed: %v", err)
		return common.SendServerError(c, "database error: "+err.Error())
	}
	return c.JSON(http.StatusOK, summary)
}

// SyncSource handles POST /api/picking/sync
func (h *PickingHandlers) SyncSource(c echo.Context) error {
	if h.syncSvc == nil {
		return common.SendDetail(c, http.StatusServiceUnavailable, "Source sync is not configured")
	}
	if err := h.syncSvc.SyncPickingNotes(c.Request().Context()); err != nil {
		log.Printf("picking notes sync failed: %v", err)
		return common.SendServerError(c, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Picking notes synced",
	})
}
