// Package catalog provides the read-only product and package catalog module.
package catalog

import (
	"rental_backend/internal/catalog/handler"
	"rental_backend/internal/catalog/repository"
	"rental_backend/internal/catalog/service"
	apphttp "rental_backend/internal/http"
	"rental_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the catalog bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates and initializes the catalog module.
func NewModule(pool *pgxpool.Pool, val *validator.Validator) *Module {
	repo := repository.New(pool)
	svc := service.New(repo)

	return &Module{
		handler: handler.New(svc, val),
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "catalog"
}

// Repository returns the repository for the rental engine's catalog checks.
func (m *Module) Repository() repository.Repository {
	return m.repo
}

// RegisterRoutes mounts the catalog under /api/v1/catalogo.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected.Group("/catalogo"))
}

var _ apphttp.Module = (*Module)(nil)
