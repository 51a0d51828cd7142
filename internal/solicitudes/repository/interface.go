// Package repository persists rental requests and their line items.
package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ── Domain Models ─────────────────────────────────────────────────────────────

// Solicitud is the database model for a rental request header.
type Solicitud struct {
	ID                   int64
	NumeroSolicitud      string
	UsuarioID            uuid.UUID
	FechaEventoInicio    time.Time
	FechaEventoFin       time.Time
	DireccionEvento      *string
	TipoEvento           *string
	NumPersonasEstimado  *int
	ObservacionesCliente *string
	ObservacionesAdmin   *string
	Subtotal             decimal.Decimal
	Descuento            decimal.Decimal
	Impuestos            decimal.Decimal
	DepositoTotal        decimal.Decimal
	TotalCotizacion      decimal.Decimal
	Estado               string
	FechaSolicitud       time.Time
	FechaRespuesta       *time.Time
	FechaEntrega         *time.Time
	FechaDevolucion      *time.Time
}

// SolicitudProducto is a product line. ProductoCodigo and ProductoNombre are
// filled on read from the catalog.
type SolicitudProducto struct {
	ID                 int64
	SolicitudID        int64
	ProductoID         int64
	ProductoCodigo     string
	ProductoNombre     string
	CantidadSolicitada int
	PrecioUnitario     decimal.Decimal
	DiasRenta          int
	Subtotal           decimal.Decimal
	DepositoUnitario   decimal.Decimal
	DepositoTotal      decimal.Decimal
	Orden              int
}

// SolicitudPaquete is a package line.
type SolicitudPaquete struct {
	ID                 int64
	SolicitudID        int64
	PaqueteID          int64
	PaqueteCodigo      string
	PaqueteNombre      string
	CantidadSolicitada int
	PrecioUnitario     decimal.Decimal
	DiasRenta          int
	Subtotal           decimal.Decimal
	Orden              int
}

// SolicitudSummary is a list row with line counts.
type SolicitudSummary struct {
	Solicitud
	TotalProductos int
	TotalPaquetes  int
}

// ListParams contains parameters for listing rental requests.
// A nil UsuarioID lists every owner.
type ListParams struct {
	UsuarioID *uuid.UUID
	Estado    *string
	Page      int
	PageSize  int
}

// ListResult contains the paginated result of listing rental requests.
type ListResult struct {
	Items      []SolicitudSummary
	Total      int
	Page       int
	PageSize   int
	TotalPages int
}

// EstadoChange is a compare-and-set state transition.
type EstadoChange struct {
	ID                 int64
	From               string
	To                 string
	ObservacionesAdmin *string
	At                 time.Time
}

// Repository is the persistence contract of the solicitudes service.
type Repository interface {
	// CreateWithItems inserts the header and every line in one transaction.
	// It fills the generated ids and fecha_solicitud.
	CreateWithItems(ctx context.Context, s *Solicitud, productos []SolicitudProducto, paquetes []SolicitudPaquete) error
	GetByID(ctx context.Context, id int64) (Solicitud, error)
	ListProductos(ctx context.Context, solicitudID int64) ([]SolicitudProducto, error)
	ListPaquetes(ctx context.Context, solicitudID int64) ([]SolicitudPaquete, error)
	List(ctx context.Context, params ListParams) (ListResult, error)
	// UpdateDetails writes the editable header fields of a pendiente request.
	UpdateDetails(ctx context.Context, s Solicitud) error
	// ChangeEstado moves a request from change.From to change.To and returns
	// the updated header.
	ChangeEstado(ctx context.Context, change EstadoChange) (Solicitud, error)
}
