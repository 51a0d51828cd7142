// Package tarjetas provides the card vault domain module.
package tarjetas

import (
	apphttp "rental_backend/internal/http"
	"rental_backend/internal/tarjetas/handler"
	"rental_backend/internal/tarjetas/repository"
	"rental_backend/internal/tarjetas/service"
	"rental_backend/platform/config"
	"rental_backend/platform/logger"
	"rental_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module represents the card vault module
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates a new card vault module with all dependencies wired
func NewModule(pool *pgxpool.Pool, tokenizer service.Tokenizer, cfg config.VaultConfig, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, tokenizer, cfg.GetTokenizerTimeout(), cfg.GetExpiryWarningMonths(), log)

	return &Module{
		handler: handler.New(svc, val),
		service: svc,
	}
}

// Name returns the module name for logging
func (m *Module) Name() string {
	return "tarjetas"
}

// Service returns the vault service, used by the payment ledger to check card ownership
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes registers the module's routes
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected.Group("/tarjetas"), ctx.WriteLimiter.RateLimit())
}

var _ apphttp.Module = (*Module)(nil)
