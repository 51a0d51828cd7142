// Package solicitudes provides the rental request domain module.
package solicitudes

import (
	apphttp "rental_backend/internal/http"
	"rental_backend/internal/solicitudes/handler"
	"rental_backend/internal/solicitudes/repository"
	"rental_backend/internal/solicitudes/service"
	"rental_backend/platform/events"
	"rental_backend/platform/logger"
	"rental_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module represents the solicitudes domain module
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates a new solicitudes module with all dependencies wired
func NewModule(pool *pgxpool.Pool, catalog service.CatalogReader, codes service.CodeGenerator, eventBus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, catalog, codes, log)
	svc.SetEventBus(eventBus)

	return &Module{
		handler: handler.New(svc, val),
		service: svc,
	}
}

// Name returns the module name for logging
func (m *Module) Name() string {
	return "solicitudes"
}

// Service returns the service layer for external use
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes registers the module's routes
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected.Group("/solicitudes"))
	m.handler.RegisterAdminRoutes(ctx.Admin.Group("/solicitudes"))
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
