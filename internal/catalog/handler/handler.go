package handler

import (
	"context"
	"net/http"

	"rental_backend/internal/catalog/transport"
	"rental_backend/platform/httpkit"
	"rental_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// CatalogService is the catalog surface used by the handler.
type CatalogService interface {
	ListProductos(ctx context.Context, req transport.ListProductosRequest) (*transport.ProductoListResponse, error)
	GetProducto(ctx context.Context, id int64) (*transport.ProductoResponse, error)
	ListPaquetes(ctx context.Context, req transport.ListPaquetesRequest) (*transport.PaqueteListResponse, error)
	GetPaquete(ctx context.Context, id int64) (*transport.PaqueteResponse, error)
}

// Handler handles HTTP requests for the catalog
type Handler struct {
	svc CatalogService
	val *validator.Validator
}

// New creates a new catalog handler
func New(svc CatalogService, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterRoutes registers the catalog routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/productos", h.ListProductos)
	rg.GET("/productos/:id", h.GetProducto)
	rg.GET("/paquetes", h.ListPaquetes)
	rg.GET("/paquetes/:id", h.GetPaquete)
}

func (h *Handler) ListProductos(c *gin.Context) {
	var req transport.ListProductosRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.ListProductos(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) GetProducto(c *gin.Context) {
	id, ok := httpkit.ParseIDParam(c, "id")
	if !ok {
		return
	}

	result, err := h.svc.GetProducto(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) ListPaquetes(c *gin.Context) {
	var req transport.ListPaquetesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	result, err := h.svc.ListPaquetes(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) GetPaquete(c *gin.Context) {
	id, ok := httpkit.ParseIDParam(c, "id")
	if !ok {
		return
	}

	result, err := h.svc.GetPaquete(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}
