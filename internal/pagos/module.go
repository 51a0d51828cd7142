// Package pagos provides the payment ledger domain module.
package pagos

import (
	apphttp "rental_backend/internal/http"
	"rental_backend/internal/pagos/handler"
	"rental_backend/internal/pagos/repository"
	"rental_backend/internal/pagos/service"
	"rental_backend/platform/events"
	"rental_backend/platform/logger"
	"rental_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module represents the payment ledger module
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates a new payment ledger module with all dependencies wired
func NewModule(pool *pgxpool.Pool, solicitudes service.SolicitudOwnerReader, cards service.CardReader, codes service.CodeGenerator, eventBus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, solicitudes, cards, codes, log)
	svc.SetEventBus(eventBus)

	return &Module{
		handler: handler.New(svc, val),
		service: svc,
	}
}

// Name returns the module name for logging
func (m *Module) Name() string {
	return "pagos"
}

// Service returns the service layer for external use
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes registers the module's routes
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected.Group("/pagos"), ctx.WriteLimiter.RateLimit())
	m.handler.RegisterSolicitudRoutes(ctx.Protected.Group("/solicitudes"))
}

var _ apphttp.Module = (*Module)(nil)
