package handler

import (
	"context"
	"net/http"

	"rental_backend/internal/tarjetas/transport"
	"rental_backend/platform/httpkit"
	"rental_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// VaultService is the card vault surface used by the handler.
type VaultService interface {
	AddCard(ctx context.Context, userID uuid.UUID, req transport.CreateTarjetaRequest) (*transport.TarjetaResponse, error)
	ListCards(ctx context.Context, userID uuid.UUID) (*transport.TarjetaListResponse, error)
	GetCard(ctx context.Context, id int64, userID uuid.UUID) (*transport.TarjetaResponse, error)
	UpdateCard(ctx context.Context, id int64, userID uuid.UUID, req transport.UpdateTarjetaRequest) (*transport.TarjetaResponse, error)
	RemoveCard(ctx context.Context, id int64, userID uuid.UUID) error
	SetDefaultCard(ctx context.Context, id int64, userID uuid.UUID) (*transport.TarjetaResponse, error)
}

// Handler handles HTTP requests for the card vault
type Handler struct {
	svc VaultService
	val *validator.Validator
}

// New creates a new card vault handler
func New(svc VaultService, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterRoutes registers the card routes. writeLimit guards every mutating route.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, writeLimit gin.HandlerFunc) {
	rg.GET("", h.List)
	rg.GET("/:id", h.GetByID)
	rg.POST("", writeLimit, h.Create)
	rg.PUT("/:id", writeLimit, h.Update)
	rg.DELETE("/:id", writeLimit, h.Delete)
	rg.POST("/:id/predeterminada", writeLimit, h.SetDefault)
}

// Create handles POST /api/v1/tarjetas
func (h *Handler) Create(c *gin.Context) {
	var req transport.CreateTarjetaRequest
	if !h.bind(c, &req) {
		return
	}

	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	result, err := h.svc.AddCard(c.Request.Context(), identity.UserID(), req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.JSON(c, http.StatusCreated, result)
}

// List handles GET /api/v1/tarjetas
func (h *Handler) List(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	result, err := h.svc.ListCards(c.Request.Context(), identity.UserID())
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

// GetByID handles GET /api/v1/tarjetas/:id
func (h *Handler) GetByID(c *gin.Context) {
	id, ok := httpkit.ParseIDParam(c, "id")
	if !ok {
		return
	}

	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	result, err := h.svc.GetCard(c.Request.Context(), id, identity.UserID())
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

// Update handles PUT /api/v1/tarjetas/:id
func (h *Handler) Update(c *gin.Context) {
	id, ok := httpkit.ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req transport.UpdateTarjetaRequest
	if !h.bind(c, &req) {
		return
	}

	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	result, err := h.svc.UpdateCard(c.Request.Context(), id, identity.UserID(), req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

// Delete handles DELETE /api/v1/tarjetas/:id
func (h *Handler) Delete(c *gin.Context) {
	id, ok := httpkit.ParseIDParam(c, "id")
	if !ok {
		return
	}

	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	if err := h.svc.RemoveCard(c.Request.Context(), id, identity.UserID()); httpkit.HandleError(c, err) {
		return
	}

	c.Status(http.StatusNoContent)
}

// SetDefault handles POST /api/v1/tarjetas/:id/predeterminada
func (h *Handler) SetDefault(c *gin.Context) {
	id, ok := httpkit.ParseIDParam(c, "id")
	if !ok {
		return
	}

	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	result, err := h.svc.SetDefaultCard(c.Request.Context(), id, identity.UserID())
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
