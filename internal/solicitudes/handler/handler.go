package handler

import (
	"context"
	"net/http"

	"rental_backend/internal/solicitudes/service"
	"rental_backend/internal/solicitudes/transport"
	"rental_backend/platform/httpkit"
	"rental_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// SolicitudService is the service surface used by the handler.
type SolicitudService interface {
	PreviewQuote(req transport.QuoteCalculationRequest) transport.QuoteCalculationResponse
	Create(ctx context.Context, ownerID uuid.UUID, req transport.CreateSolicitudRequest) (*transport.SolicitudResponse, error)
	GetByID(ctx context.Context, id int64, viewer service.Viewer) (*transport.SolicitudResponse, error)
	List(ctx context.Context, viewer service.Viewer, req transport.ListSolicitudesRequest) (*transport.SolicitudListResponse, error)
	Update(ctx context.Context, id int64, ownerID uuid.UUID, req transport.UpdateSolicitudRequest) (*transport.SolicitudResponse, error)
	Cancel(ctx context.Context, id int64, ownerID uuid.UUID) (*transport.SolicitudResponse, error)
	ChangeEstado(ctx context.Context, id int64, actorID uuid.UUID, req transport.UpdateEstadoRequest) (*transport.SolicitudResponse, error)
}

// Handler handles HTTP requests for rental requests
type Handler struct {
	svc SolicitudService
	val *validator.Validator
}

// New creates a new solicitudes handler
func New(svc SolicitudService, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterRoutes registers the customer routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.POST("/cotizar", h.PreviewQuote)
	rg.GET("/:id", h.GetByID)
	rg.PUT("/:id", h.Update)
	rg.POST("/:id/cancelar", h.Cancel)
}

// RegisterAdminRoutes registers the admin-only routes
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.ListAll)
	rg.GET("/:id", h.GetByID)
	rg.PATCH("/:id/estado", h.ChangeEstado)
}

// PreviewQuote handles POST /api/v1/solicitudes/cotizar
func (h *Handler) PreviewQuote(c *gin.Context) {
	var req transport.QuoteCalculationRequest
	if !h.bind(c, &req) {
		return
	}

	httpkit.OK(c, h.svc.PreviewQuote(req))
}

// Create handles POST /api/v1/solicitudes
func (h *Handler) Create(c *gin.Context) {
	var req transport.CreateSolicitudRequest
	if !h.bind(c, &req) {
		return
	}

	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	result, err := h.svc.Create(c.Request.Context(), identity.UserID(), req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.JSON(c, http.StatusCreated, result)
}

// GetByID handles GET /api/v1/solicitudes/:id
func (h *Handler) GetByID(c *gin.Context) {
	id, ok := httpkit.ParseIDParam(c, "id")
	if !ok {
		return
	}

	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	result, err := h.svc.GetByID(c.Request.Context(), id, viewerOf(identity))
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

// List handles GET /api/v1/solicitudes. Admin callers see every request.
func (h *Handler) List(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}
	h.list(c, viewerOf(identity))
}

// ListAll handles GET /api/v1/admin/solicitudes
func (h *Handler) ListAll(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}
	h.list(c, service.Viewer{UserID: identity.UserID(), IsAdmin: true})
}

func (h *Handler) list(c *gin.Context, viewer service.Viewer) {
	var req transport.ListSolicitudesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.List(c.Request.Context(), viewer, req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

// Update handles PUT /api/v1/solicitudes/:id
func (h *Handler) Update(c *gin.Context) {
	id, ok := httpkit.ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req transport.UpdateSolicitudRequest
	if !h.bind(c, &req) {
		return
	}

	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	result, err := h.svc.Update(c.Request.Context(), id, identity.UserID(), req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

// Cancel handles POST /api/v1/solicitudes/:id/cancelar
func (h *Handler) Cancel(c *gin.Context) {
	id, ok := httpkit.ParseIDParam(c, "id")
	if !ok {
		return
	}

	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	result, err := h.svc.Cancel(c.Request.Context(), id, identity.UserID())
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

// ChangeEstado handles PATCH /api/v1/admin/solicitudes/:id/estado
func (h *Handler) ChangeEstado(c *gin.Context) {
	id, ok := httpkit.ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req transport.UpdateEstadoRequest
	if !h.bind(c, &req) {
		return
	}

	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	result, err := h.svc.ChangeEstado(c.Request.Context(), id, identity.UserID(), req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

func (h *Handler) bind(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return false
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return false
	}
	return true
}

func viewerOf(identity httpkit.Identity) service.Viewer {
	return service.Viewer{UserID: identity.UserID(), IsAdmin: identity.IsAdmin()}
}
