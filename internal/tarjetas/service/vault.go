// Package service implements the card vault: tokenized cards per user with
// a single default card and expiry status.
package service

import (
	"context"
	"fmt"
	"time"

	"rental_backend/internal/tarjetas/repository"
	"rental_backend/internal/tarjetas/transport"
	"rental_backend/platform/apperr"
	"rental_backend/platform/logger"
	"rental_backend/platform/validator"

	"github.com/google/uuid"
)

const defaultTokenizerTimeout = 5 * time.Second

// Service provides business logic for the card vault.
type Service struct {
	repo       repository.Repository
	tokenizer  Tokenizer
	timeout    time.Duration
	warnMonths int
	log        *logger.Logger
	now        func() time.Time
}

// New creates a new card vault service. Non-positive timeout or warning
// horizon fall back to the defaults.
func New(repo repository.Repository, tokenizer Tokenizer, timeout time.Duration, warnMonths int, log *logger.Logger) *Service {
	if timeout <= 0 {
		timeout = defaultTokenizerTimeout
	}
	if warnMonths <= 0 {
		warnMonths = DefaultExpiryWarningMonths
	}
	return &Service{
		repo:       repo,
		tokenizer:  tokenizer,
		timeout:    timeout,
		warnMonths: warnMonths,
		log:        log,
		now:        time.Now,
	}
}

// AddCard tokenizes and stores a card. Only the last four digits and the
// gateway token are persisted; nothing is written when tokenization fails.
func (s *Service) AddCard(ctx context.Context, userID uuid.UUID, req transport.CreateTarjetaRequest) (*transport.TarjetaResponse, error) {
	number := validator.NormalizeCardNumber(req.NumeroTarjeta)
	if !validator.IsValidCardNumber(number) {
		return nil, apperr.Validation("numeroTarjeta must have between 13 and 19 digits")
	}
	if err := s.checkExpiry(req.MesExpiracion, req.AnioExpiracion); err != nil {
		return nil, err
	}

	token, err := s.tokenize(ctx, CardDetails{
		Number:      number,
		CVV:         req.CVV,
		HolderName:  req.NombreTitular,
		ExpiryMonth: req.MesExpiracion,
		ExpiryYear:  req.AnioExpiracion,
	})
	if err != nil {
		return nil, err
	}

	card := &repository.Tarjeta{
		UsuarioID:        userID,
		TipoTarjeta:      req.TipoTarjeta,
		Marca:            req.Marca,
		UltimosDigitos:   number[len(number)-4:],
		NombreTitular:    req.NombreTitular,
		MesExpiracion:    req.MesExpiracion,
		AnioExpiracion:   req.AnioExpiracion,
		EsPredeterminada: req.EsPredeterminada,
		TokenPasarela:    token,
	}
	if err := s.repo.Create(ctx, card); err != nil {
		return nil, err
	}

	s.log.WithContext(ctx).CardEvent("card_added", card.ID, card.UltimosDigitos)
	resp := s.toResponse(*card)
	return &resp, nil
}

// ListCards returns the user's active cards, default first then newest.
func (s *Service) ListCards(ctx context.Context, userID uuid.UUID) (*transport.TarjetaListResponse, error) {
	cards, err := s.repo.ListActive(ctx, userID)
	if err != nil {
		return nil, err
	}

	items := make([]transport.TarjetaResponse, len(cards))
	for i, c := range cards {
		items[i] = s.toResponse(c)
	}
	return &transport.TarjetaListResponse{Items: items, Total: len(items)}, nil
}

// GetCard returns one active card of the user.
func (s *Service) GetCard(ctx context.Context, id int64, userID uuid.UUID) (*transport.TarjetaResponse, error) {
	card, err := s.repo.GetActive(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	resp := s.toResponse(card)
	return &resp, nil
}

// UpdateCard patches a card. Making it the default clears the user's other
// defaults in the same transaction.
func (s *Service) UpdateCard(ctx context.Context, id int64, userID uuid.UUID, req transport.UpdateTarjetaRequest) (*transport.TarjetaResponse, error) {
	if req.MesExpiracion != nil || req.AnioExpiracion != nil {
		current, err := s.repo.GetActive(ctx, id, userID)
		if err != nil {
			return nil, err
		}
		mes, anio := current.MesExpiracion, current.AnioExpiracion
		if req.MesExpiracion != nil {
			mes = *req.MesExpiracion
		}
		if req.AnioExpiracion != nil {
			anio = *req.AnioExpiracion
		}
		if err := s.checkExpiry(mes, anio); err != nil {
			return nil, err
		}
	}

	card, err := s.repo.Update(ctx, id, userID, repository.Patch{
		NombreTitular:    req.NombreTitular,
		MesExpiracion:    req.MesExpiracion,
		AnioExpiracion:   req.AnioExpiracion,
		EsPredeterminada: req.EsPredeterminada,
	})
	if err != nil {
		return nil, err
	}

	s.log.WithContext(ctx).CardEvent("card_updated", card.ID, card.UltimosDigitos)
	resp := s.toResponse(card)
	return &resp, nil
}

// RemoveCard soft-deletes a card and clears its default flag.
func (s *Service) RemoveCard(ctx context.Context, id int64, userID uuid.UUID) error {
	if err := s.repo.Deactivate(ctx, id, userID); err != nil {
		return err
	}
	s.log.WithContext(ctx).Info("card_event", "event", "card_removed", "tarjeta_id", id)
	return nil
}

// SetDefaultCard makes the card the user's only default card.
func (s *Service) SetDefaultCard(ctx context.Context, id int64, userID uuid.UUID) (*transport.TarjetaResponse, error) {
	card, err := s.repo.SetDefault(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	s.log.WithContext(ctx).CardEvent("card_default_set", card.ID, card.UltimosDigitos)
	resp := s.toResponse(card)
	return &resp, nil
}

// ActiveCardOwned reports whether id is an active card of userID. Used by
// the payment ledger to validate card payments.
func (s *Service) ActiveCardOwned(ctx context.Context, id int64, userID uuid.UUID) (bool, error) {
	_, err := s.repo.GetActive(ctx, id, userID)
	if apperr.Is(err, apperr.KindNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *Service) tokenize(ctx context.Context, card CardDetails) (string, error) {
	tctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	token, err := s.tokenizer.Tokenize(tctx, card)
	if err != nil {
		s.log.WithContext(ctx).Warn("card tokenization failed", "error", err)
		return "", apperr.Wrap(apperr.KindInternal, "card tokenization failed", err)
	}
	if token == "" {
		return "", apperr.Internal("card tokenization returned an empty token")
	}
	return token, nil
}

func (s *Service) checkExpiry(mes, anio int) error {
	if mes < 1 || mes > 12 {
		return apperr.Validation("mesExpiracion must be between 1 and 12")
	}
	if year := s.now().Year(); anio < year {
		return apperr.Validation(fmt.Sprintf("anioExpiracion must be %d or later", year))
	}
	return nil
}

func (s *Service) toResponse(c repository.Tarjeta) transport.TarjetaResponse {
	now := s.now()
	return transport.TarjetaResponse{
		ID:                 c.ID,
		UsuarioID:          c.UsuarioID,
		TipoTarjeta:        c.TipoTarjeta,
		Marca:              c.Marca,
		UltimosDigitos:     c.UltimosDigitos,
		NombreTitular:      c.NombreTitular,
		MesExpiracion:      c.MesExpiracion,
		AnioExpiracion:     c.AnioExpiracion,
		EsPredeterminada:   c.EsPredeterminada,
		Activa:             c.Activa,
		FechaCreacion:      c.FechaCreacion,
		FechaActualizacion: c.FechaActualizacion,
		EstaExpirada:       IsExpired(c.MesExpiracion, c.AnioExpiracion, now),
		ExpiraPronto:       ExpiresSoon(c.MesExpiracion, c.AnioExpiracion, now, s.warnMonths),
	}
}
