// Package service implements the rental request lifecycle: quoting,
// creation with a unique request code, owner-scoped reads and the
// state machine.
package service

import (
	"context"
	"fmt"
	"time"

	"rental_backend/internal/events"
	"rental_backend/internal/solicitudes/repository"
	"rental_backend/internal/solicitudes/transport"
	"rental_backend/platform/apperr"
	"rental_backend/platform/db"
	"rental_backend/platform/logger"
	"rental_backend/platform/sanitize"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const (
	// MaxCodeAttempts caps the request-code collision retry.
	MaxCodeAttempts = 20

	defaultPageSize = 20
	maxPageSize     = 100

	msgNoLines = "at least one producto or paquete is required"
)

// CatalogProduct is the catalog view the service needs for a product line.
type CatalogProduct struct {
	ID         int64
	Codigo     string
	Nombre     string
	Disponible bool
}

// CatalogPackage is the catalog view the service needs for a package line.
type CatalogPackage struct {
	ID     int64
	Codigo string
	Nombre string
	Activo bool
}

// CatalogReader looks up the catalog entries referenced by line items.
// Unknown ids are absent from the returned maps.
type CatalogReader interface {
	ProductosByIDs(ctx context.Context, ids []int64) (map[int64]CatalogProduct, error)
	PaquetesByIDs(ctx context.Context, ids []int64) (map[int64]CatalogPackage, error)
}

// CodeGenerator produces candidate request codes.
type CodeGenerator interface {
	RequestCode() (string, error)
}

// Viewer identifies who is reading. Admins see every request.
type Viewer struct {
	UserID  uuid.UUID
	IsAdmin bool
}

// Service provides business logic for rental requests.
type Service struct {
	repo     repository.Repository
	catalog  CatalogReader
	codes    CodeGenerator
	eventBus events.Bus
	log      *logger.Logger
	now      func() time.Time
}

// New creates a new solicitudes service.
func New(repo repository.Repository, catalog CatalogReader, codes CodeGenerator, log *logger.Logger) *Service {
	return &Service{
		repo:    repo,
		catalog: catalog,
		codes:   codes,
		log:     log,
		now:     time.Now,
	}
}

// SetEventBus injects the bus used for lifecycle events.
func (s *Service) SetEventBus(bus events.Bus) {
	s.eventBus = bus
}

// PreviewQuote computes a quote without persisting anything.
func (s *Service) PreviewQuote(req transport.QuoteCalculationRequest) transport.QuoteCalculationResponse {
	return toQuoteResponse(CalculateQuote(req.Productos, req.Paquetes))
}

// Create validates, prices and persists a new rental request.
func (s *Service) Create(ctx context.Context, ownerID uuid.UUID, req transport.CreateSolicitudRequest) (*transport.SolicitudResponse, error) {
	if len(req.Productos) == 0 && len(req.Paquetes) == 0 {
		return nil, apperr.Validation(msgNoLines)
	}
	inicio, fin, err := parseEventDates(req.FechaEventoInicio, req.FechaEventoFin)
	if err != nil {
		return nil, err
	}
	if err := verifyLines(req.Productos, req.Paquetes); err != nil {
		return nil, err
	}
	productos, paquetes, err := s.checkCatalog(ctx, req)
	if err != nil {
		return nil, err
	}

	quote := CalculateQuote(req.Productos, req.Paquetes)
	if err := checkQuoteFits(quote); err != nil {
		return nil, err
	}
	sol := &repository.Solicitud{
		UsuarioID:            ownerID,
		FechaEventoInicio:    inicio,
		FechaEventoFin:       fin,
		DireccionEvento:      sanitize.OptionalText(req.DireccionEvento),
		TipoEvento:           sanitize.OptionalText(req.TipoEvento),
		NumPersonasEstimado:  req.NumPersonasEstimado,
		ObservacionesCliente: sanitize.OptionalText(req.ObservacionesCliente),
		Subtotal:             quote.Subtotal,
		Descuento:            quote.Descuento,
		Impuestos:            quote.Impuestos,
		DepositoTotal:        quote.DepositoTotal,
		TotalCotizacion:      quote.Total,
		Estado:               string(transport.EstadoPendiente),
	}
	productLines := buildProductLines(req.Productos, productos)
	packageLines := buildPackageLines(req.Paquetes, paquetes)

	if err := s.insertWithUniqueCode(ctx, sol, productLines, packageLines); err != nil {
		return nil, err
	}

	s.log.WithContext(ctx).SolicitudEvent("created", sol.ID, sol.NumeroSolicitud, sol.Estado)
	if s.eventBus != nil {
		s.eventBus.Publish(ctx, events.SolicitudCreated{
			BaseEvent:       events.NewBaseEvent(),
			SolicitudID:     sol.ID,
			NumeroSolicitud: sol.NumeroSolicitud,
			UsuarioID:       sol.UsuarioID,
			FechaInicio:     sol.FechaEventoInicio.Format(transport.DateLayout),
			FechaFin:        sol.FechaEventoFin.Format(transport.DateLayout),
			Total:           money(sol.TotalCotizacion),
			Productos:       len(productLines),
			Paquetes:        len(packageLines),
		})
	}

	return buildResponse(*sol, productLines, packageLines), nil
}

// insertWithUniqueCode retries the whole insert on a request-code collision.
// Each attempt is its own transaction.
func (s *Service) insertWithUniqueCode(ctx context.Context, sol *repository.Solicitud, productos []repository.SolicitudProducto, paquetes []repository.SolicitudPaquete) error {
	for attempt := 1; attempt <= MaxCodeAttempts; attempt++ {
		code, err := s.codes.RequestCode()
		if err != nil {
			return fmt.Errorf("generate request code: %w", err)
		}
		sol.NumeroSolicitud = code

		err = s.repo.CreateWithItems(ctx, sol, productos, paquetes)
		switch {
		case err == nil:
			return nil
		case db.IsUniqueViolation(err, repository.NumeroSolicitudConstraint):
			s.log.WithContext(ctx).Debug("request code collision", "code", code, "attempt", attempt)
			continue
		case db.IsForeignKeyViolation(err):
			return apperr.Validation("solicitud references an unknown producto or paquete")
		default:
			return err
		}
	}
	return apperr.RetryExhausted(fmt.Sprintf("could not allocate a unique request code after %d attempts", MaxCodeAttempts))
}

// GetByID returns a request with its lines. Non-admin viewers only see
// their own requests; others are reported as not found.
func (s *Service) GetByID(ctx context.Context, id int64, viewer Viewer) (*transport.SolicitudResponse, error) {
	sol, err := s.getVisible(ctx, id, viewer)
	if err != nil {
		return nil, err
	}
	return s.withLines(ctx, sol)
}

// List returns the viewer's requests, or every request for admins.
func (s *Service) List(ctx context.Context, viewer Viewer, req transport.ListSolicitudesRequest) (*transport.SolicitudListResponse, error) {
	params := repository.ListParams{
		Page:     max(req.Page, 1),
		PageSize: clampPageSize(req.PageSize),
	}
	if !viewer.IsAdmin {
		owner := viewer.UserID
		params.UsuarioID = &owner
	}
	if req.Estado != "" {
		estado := req.Estado
		params.Estado = &estado
	}

	result, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	items := make([]transport.SolicitudListItem, len(result.Items))
	for i, row := range result.Items {
		items[i] = transport.SolicitudListItem{
			ID:                row.ID,
			NumeroSolicitud:   row.NumeroSolicitud,
			UsuarioID:         row.UsuarioID,
			FechaEventoInicio: row.FechaEventoInicio.Format(transport.DateLayout),
			FechaEventoFin:    row.FechaEventoFin.Format(transport.DateLayout),
			TipoEvento:        row.TipoEvento,
			TotalCotizacion:   money(row.TotalCotizacion),
			Estado:            transport.Estado(row.Estado),
			FechaSolicitud:    row.FechaSolicitud,
			TotalProductos:    row.TotalProductos,
			TotalPaquetes:     row.TotalPaquetes,
		}
	}

	return &transport.SolicitudListResponse{
		Items:      items,
		Total:      result.Total,
		Page:       result.Page,
		PageSize:   result.PageSize,
		TotalPages: result.TotalPages,
	}, nil
}

// Update applies the owner patch while the request is still pendiente.
func (s *Service) Update(ctx context.Context, id int64, ownerID uuid.UUID, req transport.UpdateSolicitudRequest) (*transport.SolicitudResponse, error) {
	sol, err := s.getVisible(ctx, id, Viewer{UserID: ownerID})
	if err != nil {
		return nil, err
	}
	if err := checkEditable(transport.Estado(sol.Estado)); err != nil {
		return nil, err
	}

	if err := applyPatch(&sol, req); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateDetails(ctx, sol); err != nil {
		return nil, err
	}

	s.log.WithContext(ctx).SolicitudEvent("updated", sol.ID, sol.NumeroSolicitud, sol.Estado)
	return s.withLines(ctx, sol)
}

// Cancel moves the owner's request to cancelada.
func (s *Service) Cancel(ctx context.Context, id int64, ownerID uuid.UUID) (*transport.SolicitudResponse, error) {
	sol, err := s.getVisible(ctx, id, Viewer{UserID: ownerID})
	if err != nil {
		return nil, err
	}
	return s.transition(ctx, sol, transport.EstadoCancelada, nil, ownerID)
}

// ChangeEstado is the admin transition (approve, reject, start, complete).
// Cancellation stays with the owner.
func (s *Service) ChangeEstado(ctx context.Context, id int64, actorID uuid.UUID, req transport.UpdateEstadoRequest) (*transport.SolicitudResponse, error) {
	if req.Estado == transport.EstadoCancelada {
		return nil, apperr.Validation("cancelada is set by the owner through the cancel route")
	}
	sol, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.transition(ctx, sol, req.Estado, sanitize.OptionalText(req.ObservacionesAdmin), actorID)
}

func (s *Service) transition(ctx context.Context, sol repository.Solicitud, to transport.Estado, observaciones *string, actorID uuid.UUID) (*transport.SolicitudResponse, error) {
	from := transport.Estado(sol.Estado)
	if err := checkTransition(from, to); err != nil {
		return nil, err
	}

	updated, err := s.repo.ChangeEstado(ctx, repository.EstadoChange{
		ID:                 sol.ID,
		From:               string(from),
		To:                 string(to),
		ObservacionesAdmin: observaciones,
		At:                 s.now(),
	})
	if err != nil {
		return nil, err
	}

	s.log.WithContext(ctx).SolicitudEvent("status_changed", updated.ID, updated.NumeroSolicitud, updated.Estado)
	if s.eventBus != nil {
		s.eventBus.Publish(ctx, events.SolicitudStatusChanged{
			BaseEvent:       events.NewBaseEvent(),
			SolicitudID:     updated.ID,
			NumeroSolicitud: updated.NumeroSolicitud,
			UsuarioID:       updated.UsuarioID,
			From:            string(from),
			To:              string(to),
			ActorID:         actorID,
		})
	}

	return s.withLines(ctx, updated)
}

func (s *Service) getVisible(ctx context.Context, id int64, viewer Viewer) (repository.Solicitud, error) {
	sol, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return repository.Solicitud{}, err
	}
	if !viewer.IsAdmin && sol.UsuarioID != viewer.UserID {
		return repository.Solicitud{}, apperr.NotFound("solicitud not found")
	}
	return sol, nil
}

// withLines loads product and package lines concurrently.
func (s *Service) withLines(ctx context.Context, sol repository.Solicitud) (*transport.SolicitudResponse, error) {
	var (
		productos []repository.SolicitudProducto
		paquetes  []repository.SolicitudPaquete
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		productos, err = s.repo.ListProductos(gctx, sol.ID)
		return err
	})
	g.Go(func() error {
		var err error
		paquetes, err = s.repo.ListPaquetes(gctx, sol.ID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return buildResponse(sol, productos, paquetes), nil
}

func (s *Service) checkCatalog(ctx context.Context, req transport.CreateSolicitudRequest) (map[int64]CatalogProduct, map[int64]CatalogPackage, error) {
	productIDs := make([]int64, 0, len(req.Productos))
	for _, p := range req.Productos {
		productIDs = append(productIDs, p.ProductoID)
	}
	packageIDs := make([]int64, 0, len(req.Paquetes))
	for _, p := range req.Paquetes {
		packageIDs = append(packageIDs, p.PaqueteID)
	}

	productos, err := s.catalog.ProductosByIDs(ctx, productIDs)
	if err != nil {
		return nil, nil, err
	}
	for i, id := range productIDs {
		p, ok := productos[id]
		if !ok {
			return nil, nil, apperr.Validation(fmt.Sprintf("productos[%d]: producto %d does not exist", i, id))
		}
		if !p.Disponible {
			return nil, nil, apperr.Validation(fmt.Sprintf("productos[%d]: producto %d is not available", i, id))
		}
	}

	paquetes, err := s.catalog.PaquetesByIDs(ctx, packageIDs)
	if err != nil {
		return nil, nil, err
	}
	for i, id := range packageIDs {
		p, ok := paquetes[id]
		if !ok {
			return nil, nil, apperr.Validation(fmt.Sprintf("paquetes[%d]: paquete %d does not exist", i, id))
		}
		if !p.Activo {
			return nil, nil, apperr.Validation(fmt.Sprintf("paquetes[%d]: paquete %d is not active", i, id))
		}
	}

	return productos, paquetes, nil
}

func buildProductLines(items []transport.SolicitudProductoRequest, catalog map[int64]CatalogProduct) []repository.SolicitudProducto {
	lines := make([]repository.SolicitudProducto, len(items))
	for i, item := range items {
		lines[i] = repository.SolicitudProducto{
			ProductoID:         item.ProductoID,
			ProductoCodigo:     catalog[item.ProductoID].Codigo,
			ProductoNombre:     catalog[item.ProductoID].Nombre,
			CantidadSolicitada: item.CantidadSolicitada,
			PrecioUnitario:     item.PrecioUnitario,
			DiasRenta:          item.DiasRenta,
			Subtotal:           LineSubtotal(item.PrecioUnitario, item.CantidadSolicitada, item.DiasRenta),
			DepositoUnitario:   item.DepositoUnitario,
			DepositoTotal:      LineDeposit(item.DepositoUnitario, item.CantidadSolicitada),
			Orden:              i,
		}
	}
	return lines
}

func buildPackageLines(items []transport.SolicitudPaqueteRequest, catalog map[int64]CatalogPackage) []repository.SolicitudPaquete {
	lines := make([]repository.SolicitudPaquete, len(items))
	for i, item := range items {
		lines[i] = repository.SolicitudPaquete{
			PaqueteID:          item.PaqueteID,
			PaqueteCodigo:      catalog[item.PaqueteID].Codigo,
			PaqueteNombre:      catalog[item.PaqueteID].Nombre,
			CantidadSolicitada: item.CantidadSolicitada,
			PrecioUnitario:     item.PrecioUnitario,
			DiasRenta:          item.DiasRenta,
			Subtotal:           LineSubtotal(item.PrecioUnitario, item.CantidadSolicitada, item.DiasRenta),
			Orden:              i,
		}
	}
	return lines
}

func applyPatch(sol *repository.Solicitud, req transport.UpdateSolicitudRequest) error {
	inicio, fin := sol.FechaEventoInicio, sol.FechaEventoFin
	if req.FechaEventoInicio != nil {
		parsed, err := parseDate("fechaEventoInicio", *req.FechaEventoInicio)
		if err != nil {
			return err
		}
		inicio = parsed
	}
	if req.FechaEventoFin != nil {
		parsed, err := parseDate("fechaEventoFin", *req.FechaEventoFin)
		if err != nil {
			return err
		}
		fin = parsed
	}
	if fin.Before(inicio) {
		return apperr.Validation("fechaEventoFin must not be before fechaEventoInicio")
	}
	sol.FechaEventoInicio, sol.FechaEventoFin = inicio, fin

	if req.DireccionEvento != nil {
		sol.DireccionEvento = sanitize.OptionalText(req.DireccionEvento)
	}
	if req.TipoEvento != nil {
		sol.TipoEvento = sanitize.OptionalText(req.TipoEvento)
	}
	if req.NumPersonasEstimado != nil {
		sol.NumPersonasEstimado = req.NumPersonasEstimado
	}
	if req.ObservacionesCliente != nil {
		sol.ObservacionesCliente = sanitize.OptionalText(req.ObservacionesCliente)
	}
	return nil
}

func parseEventDates(rawInicio, rawFin string) (time.Time, time.Time, error) {
	inicio, err := parseDate("fechaEventoInicio", rawInicio)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	fin, err := parseDate("fechaEventoFin", rawFin)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if fin.Before(inicio) {
		return time.Time{}, time.Time{}, apperr.Validation("fechaEventoFin must not be before fechaEventoInicio")
	}
	return inicio, fin, nil
}

func parseDate(field, raw string) (time.Time, error) {
	t, err := time.Parse(transport.DateLayout, raw)
	if err != nil {
		return time.Time{}, apperr.Validation(field + " must be a YYYY-MM-DD date")
	}
	return t, nil
}

func buildResponse(sol repository.Solicitud, productos []repository.SolicitudProducto, paquetes []repository.SolicitudPaquete) *transport.SolicitudResponse {
	resp := &transport.SolicitudResponse{
		ID:                   sol.ID,
		NumeroSolicitud:      sol.NumeroSolicitud,
		UsuarioID:            sol.UsuarioID,
		FechaEventoInicio:    sol.FechaEventoInicio.Format(transport.DateLayout),
		FechaEventoFin:       sol.FechaEventoFin.Format(transport.DateLayout),
		DireccionEvento:      sol.DireccionEvento,
		TipoEvento:           sol.TipoEvento,
		NumPersonasEstimado:  sol.NumPersonasEstimado,
		ObservacionesCliente: sol.ObservacionesCliente,
		ObservacionesAdmin:   sol.ObservacionesAdmin,
		Subtotal:             money(sol.Subtotal),
		Descuento:            money(sol.Descuento),
		Impuestos:            money(sol.Impuestos),
		DepositoTotal:        money(sol.DepositoTotal),
		TotalCotizacion:      money(sol.TotalCotizacion),
		Estado:               transport.Estado(sol.Estado),
		FechaSolicitud:       sol.FechaSolicitud,
		FechaRespuesta:       sol.FechaRespuesta,
		FechaEntrega:         sol.FechaEntrega,
		FechaDevolucion:      sol.FechaDevolucion,
		Productos:            make([]transport.SolicitudProductoResponse, len(productos)),
		Paquetes:             make([]transport.SolicitudPaqueteResponse, len(paquetes)),
	}

	for i, p := range productos {
		resp.Productos[i] = transport.SolicitudProductoResponse{
			ID:                 p.ID,
			ProductoID:         p.ProductoID,
			ProductoCodigo:     p.ProductoCodigo,
			ProductoNombre:     p.ProductoNombre,
			CantidadSolicitada: p.CantidadSolicitada,
			PrecioUnitario:     money(p.PrecioUnitario),
			DiasRenta:          p.DiasRenta,
			Subtotal:           money(p.Subtotal),
			DepositoUnitario:   money(p.DepositoUnitario),
			DepositoTotal:      money(p.DepositoTotal),
		}
	}
	for i, p := range paquetes {
		resp.Paquetes[i] = transport.SolicitudPaqueteResponse{
			ID:                 p.ID,
			PaqueteID:          p.PaqueteID,
			PaqueteCodigo:      p.PaqueteCodigo,
			PaqueteNombre:      p.PaqueteNombre,
			CantidadSolicitada: p.CantidadSolicitada,
			PrecioUnitario:     money(p.PrecioUnitario),
			DiasRenta:          p.DiasRenta,
			Subtotal:           money(p.Subtotal),
		}
	}
	return resp
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
