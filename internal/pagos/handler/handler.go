package handler

import (
	"context"
	"net/http"

	"rental_backend/internal/pagos/transport"
	"rental_backend/platform/httpkit"
	"rental_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// LedgerService is the payment ledger surface used by the handler.
type LedgerService interface {
	RecordPayment(ctx context.Context, userID uuid.UUID, req transport.CreatePagoRequest) (*transport.PagoResponse, error)
	GetPayment(ctx context.Context, id int64, userID uuid.UUID) (*transport.PagoResponse, error)
	ListPaymentsForUser(ctx context.Context, userID uuid.UUID, req transport.ListPagosRequest) (*transport.PagoListResponse, error)
	ListPaymentsForSolicitud(ctx context.Context, solicitudID int64, userID uuid.UUID) ([]transport.PagoResponse, error)
}

// Handler handles HTTP requests for payments
type Handler struct {
	svc LedgerService
	val *validator.Validator
}

// New creates a new payments handler
func New(svc LedgerService, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterRoutes registers the payment routes. writeLimit guards recording.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, writeLimit gin.HandlerFunc) {
	rg.POST("", writeLimit, h.Create)
	rg.GET("", h.List)
	rg.GET("/:id", h.GetByID)
}

// RegisterSolicitudRoutes registers the per-request payment listing on the
// solicitudes group.
func (h *Handler) RegisterSolicitudRoutes(rg *gin.RouterGroup) {
	rg.GET("/:id/pagos", h.ListForSolicitud)
}

// Create handles POST /api/v1/pagos
func (h *Handler) Create(c *gin.Context) {
	var req transport.CreatePagoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	result, err := h.svc.RecordPayment(c.Request.Context(), identity.UserID(), req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.JSON(c, http.StatusCreated, result)
}

// List handles GET /api/v1/pagos
func (h *Handler) List(c *gin.Context) {
	var req transport.ListPagosRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	result, err := h.svc.ListPaymentsForUser(c.Request.Context(), identity.UserID(), req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

// GetByID handles GET /api/v1/pagos/:id
func (h *Handler) GetByID(c *gin.Context) {
	id, ok := httpkit.ParseIDParam(c, "id")
	if !ok {
		return
	}

	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	result, err := h.svc.GetPayment(c.Request.Context(), id, identity.UserID())
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

// ListForSolicitud handles GET /api/v1/solicitudes/:id/pagos
func (h *Handler) ListForSolicitud(c *gin.Context) {
	id, ok := httpkit.ParseIDParam(c, "id")
	if !ok {
		return
	}

	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	result, err := h.svc.ListPaymentsForSolicitud(c.Request.Context(), id, identity.UserID())
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, gin.H{"items": result, "total": len(result)})
}
