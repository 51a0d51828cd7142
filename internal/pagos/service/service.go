// Package service implements the payment ledger.
package service

import (
	"context"
	"fmt"

	"rental_backend/internal/events"
	"rental_backend/internal/pagos/repository"
	"rental_backend/internal/pagos/transport"
	"rental_backend/platform/apperr"
	"rental_backend/platform/db"
	"rental_backend/platform/logger"
	"rental_backend/platform/sanitize"
	"rental_backend/platform/validator"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	// MaxCodeAttempts caps the transaction-code collision retry.
	MaxCodeAttempts = 20

	defaultPageSize = 20
	maxPageSize     = 100
)

// SolicitudOwnerReader resolves the owner of a rental request. It returns
// an apperr NotFound when the request does not exist.
type SolicitudOwnerReader interface {
	SolicitudOwner(ctx context.Context, solicitudID int64) (uuid.UUID, error)
}

// CardReader checks card ownership in the card vault.
type CardReader interface {
	ActiveCardOwned(ctx context.Context, tarjetaID int64, userID uuid.UUID) (bool, error)
}

// CodeGenerator produces transaction codes.
type CodeGenerator interface {
	TransactionCode() (string, error)
}

// Service provides business logic for the payment ledger.
type Service struct {
	repo        repository.Repository
	solicitudes SolicitudOwnerReader
	cards       CardReader
	codes       CodeGenerator
	eventBus    events.Bus
	log         *logger.Logger
}

// New creates a new payment ledger service.
func New(repo repository.Repository, solicitudes SolicitudOwnerReader, cards CardReader, codes CodeGenerator, log *logger.Logger) *Service {
	return &Service{
		repo:        repo,
		solicitudes: solicitudes,
		cards:       cards,
		codes:       codes,
		log:         log,
	}
}

// SetEventBus sets the event bus for publishing domain events.
func (s *Service) SetEventBus(bus events.Bus) {
	s.eventBus = bus
}

// RecordPayment records a completed payment against one of the payer's
// requests under a freshly generated transaction code.
func (s *Service) RecordPayment(ctx context.Context, userID uuid.UUID, req transport.CreatePagoRequest) (*transport.PagoResponse, error) {
	if err := checkMonto(req.Monto); err != nil {
		return nil, err
	}
	if err := s.checkSolicitud(ctx, req.SolicitudID, userID); err != nil {
		return nil, err
	}
	if err := s.checkCard(ctx, req, userID); err != nil {
		return nil, err
	}

	pago := &repository.Pago{
		SolicitudID:   req.SolicitudID,
		UsuarioID:     userID,
		TarjetaID:     req.TarjetaID,
		TipoPago:      req.TipoPago,
		MetodoPago:    req.MetodoPago,
		Monto:         req.Monto,
		EstadoPago:    transport.EstadoCompletado,
		Observaciones: sanitize.OptionalText(req.Observaciones),
	}
	if err := s.insertWithUniqueCode(ctx, pago); err != nil {
		return nil, err
	}

	s.log.WithContext(ctx).PaymentEvent("payment_recorded", pago.ID, pago.NumeroTransaccion, pago.Monto.StringFixed(2))

	if s.eventBus != nil {
		s.eventBus.Publish(ctx, events.PagoRecorded{
			BaseEvent:         events.NewBaseEvent(),
			PagoID:            pago.ID,
			NumeroTransaccion: pago.NumeroTransaccion,
			SolicitudID:       pago.SolicitudID,
			UsuarioID:         pago.UsuarioID,
			TipoPago:          pago.TipoPago,
			MetodoPago:        pago.MetodoPago,
			Monto:             pago.Monto.StringFixed(2),
		})
	}

	resp := toResponse(*pago)
	return &resp, nil
}

// GetPayment returns one of the user's payments.
func (s *Service) GetPayment(ctx context.Context, id int64, userID uuid.UUID) (*transport.PagoResponse, error) {
	pago, err := s.repo.GetForUser(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	resp := toResponse(pago)
	return &resp, nil
}

// ListPaymentsForUser returns a page of the user's payments, newest first.
// A solicitudId filter narrows the page to one request.
func (s *Service) ListPaymentsForUser(ctx context.Context, userID uuid.UUID, req transport.ListPagosRequest) (*transport.PagoListResponse, error) {
	params := repository.ListParams{
		UsuarioID: userID,
		Page:      max(req.Page, 1),
		PageSize:  clampPageSize(req.PageSize),
	}
	if req.SolicitudID > 0 {
		id := req.SolicitudID
		params.SolicitudID = &id
	}

	result, err := s.repo.ListForUser(ctx, params)
	if err != nil {
		return nil, err
	}

	return &transport.PagoListResponse{
		Items:      toResponses(result.Items),
		Total:      result.Total,
		Page:       result.Page,
		PageSize:   result.PageSize,
		TotalPages: result.TotalPages,
	}, nil
}

// ListPaymentsForSolicitud returns every payment the user made against one
// of their requests, oldest first.
func (s *Service) ListPaymentsForSolicitud(ctx context.Context, solicitudID int64, userID uuid.UUID) ([]transport.PagoResponse, error) {
	if err := s.checkSolicitud(ctx, solicitudID, userID); err != nil {
		return nil, err
	}

	pagos, err := s.repo.ListForSolicitud(ctx, solicitudID, userID)
	if err != nil {
		return nil, err
	}
	return toResponses(pagos), nil
}

func (s *Service) insertWithUniqueCode(ctx context.Context, pago *repository.Pago) error {
	for attempt := 1; attempt <= MaxCodeAttempts; attempt++ {
		code, err := s.codes.TransactionCode()
		if err != nil {
			return fmt.Errorf("generate transaction code: %w", err)
		}
		pago.NumeroTransaccion = code

		err = s.repo.Create(ctx, pago)
		switch {
		case err == nil:
			return nil
		case db.IsUniqueViolation(err, repository.NumeroTransaccionConstraint):
			s.log.WithContext(ctx).Debug("transaction code collision", "code", code, "attempt", attempt)
			continue
		case db.IsForeignKeyViolation(err):
			return apperr.NotFound("solicitud not found")
		case db.IsCheckViolation(err):
			return apperr.Validation("pago violates a ledger constraint")
		default:
			return err
		}
	}
	return apperr.RetryExhausted(fmt.Sprintf("could not allocate a unique transaction code after %d attempts", MaxCodeAttempts))
}

// checkMonto holds the amount to the NUMERIC(12,2) monto column.
func checkMonto(monto decimal.Decimal) error {
	switch {
	case !validator.HasMoneyScale(monto):
		return apperr.Validation("monto must have at most two decimal places")
	case !monto.IsPositive():
		return apperr.Validation("monto must be greater than zero")
	case !validator.FitsMoneyColumn(monto):
		return apperr.Validation("monto exceeds the maximum amount")
	}
	return nil
}

// checkSolicitud reports requests owned by someone else as not found.
func (s *Service) checkSolicitud(ctx context.Context, solicitudID int64, userID uuid.UUID) error {
	owner, err := s.solicitudes.SolicitudOwner(ctx, solicitudID)
	if err != nil {
		return err
	}
	if owner != userID {
		return apperr.NotFound("solicitud not found")
	}
	return nil
}

func (s *Service) checkCard(ctx context.Context, req transport.CreatePagoRequest, userID uuid.UUID) error {
	if req.TarjetaID == nil {
		return nil
	}
	if req.MetodoPago != transport.MetodoTarjeta {
		return apperr.Validation("tarjetaId is only accepted with metodoPago tarjeta")
	}
	ok, err := s.cards.ActiveCardOwned(ctx, *req.TarjetaID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.Validation("tarjetaId does not reference an active card of the payer")
	}
	return nil
}

func toResponses(pagos []repository.Pago) []transport.PagoResponse {
	items := make([]transport.PagoResponse, len(pagos))
	for i, p := range pagos {
		items[i] = toResponse(p)
	}
	return items
}

func toResponse(p repository.Pago) transport.PagoResponse {
	return transport.PagoResponse{
		ID:                p.ID,
		NumeroTransaccion: p.NumeroTransaccion,
		SolicitudID:       p.SolicitudID,
		UsuarioID:         p.UsuarioID,
		TarjetaID:         p.TarjetaID,
		TipoPago:          p.TipoPago,
		MetodoPago:        p.MetodoPago,
		Monto:             p.Monto.StringFixed(2),
		EstadoPago:        p.EstadoPago,
		Observaciones:     p.Observaciones,
		FechaPago:         p.FechaPago,
	}
}

func clampPageSize(size int) int {
	if size < 1 {
		return defaultPageSize
	}
	if size > maxPageSize {
		return maxPageSize
	}
	return size
}
