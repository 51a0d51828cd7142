package transport

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Estado is the lifecycle state of a rental request.
type Estado string

const (
	EstadoPendiente  Estado = "pendiente"
	EstadoAprobada   Estado = "aprobada"
	EstadoRechazada  Estado = "rechazada"
	EstadoEnProceso  Estado = "en_proceso"
	EstadoCompletada Estado = "completada"
	EstadoCancelada  Estado = "cancelada"
)

// DateLayout is the wire format of event dates.
const DateLayout = "2006-01-02"

// ── Requests ──────────────────────────────────────────────────────────────────

// SolicitudProductoRequest is one product line as submitted by the client.
// Subtotal and DepositoTotal are checked against a recomputation.
type SolicitudProductoRequest struct {
	ProductoID         int64           `json:"productoId" validate:"required,gt=0"`
	CantidadSolicitada int             `json:"cantidadSolicitada" validate:"required,gt=0"`
	PrecioUnitario     decimal.Decimal `json:"precioUnitario" validate:"decimal_gte0,decimal_scale2,decimal_numeric12"`
	DiasRenta          int             `json:"diasRenta" validate:"required,gt=0"`
	Subtotal           decimal.Decimal `json:"subtotal" validate:"decimal_gte0,decimal_scale2,decimal_numeric12"`
	DepositoUnitario   decimal.Decimal `json:"depositoUnitario" validate:"decimal_gte0,decimal_scale2,decimal_numeric12"`
	DepositoTotal      decimal.Decimal `json:"depositoTotal" validate:"decimal_gte0,decimal_scale2,decimal_numeric12"`
}

// SolicitudPaqueteRequest is one package line as submitted by the client.
type SolicitudPaqueteRequest struct {
	PaqueteID          int64           `json:"paqueteId" validate:"required,gt=0"`
	CantidadSolicitada int             `json:"cantidadSolicitada" validate:"required,gt=0"`
	PrecioUnitario     decimal.Decimal `json:"precioUnitario" validate:"decimal_gte0,decimal_scale2,decimal_numeric12"`
	DiasRenta          int             `json:"diasRenta" validate:"required,gt=0"`
	Subtotal           decimal.Decimal `json:"subtotal" validate:"decimal_gte0,decimal_scale2,decimal_numeric12"`
}

// CreateSolicitudRequest is the request body for creating a rental request.
type CreateSolicitudRequest struct {
	FechaEventoInicio    string                     `json:"fechaEventoInicio" validate:"required,datetime=2006-01-02"`
	FechaEventoFin       string                     `json:"fechaEventoFin" validate:"required,datetime=2006-01-02"`
	DireccionEvento      *string                    `json:"direccionEvento" validate:"omitempty,max=500"`
	TipoEvento           *string                    `json:"tipoEvento" validate:"omitempty,max=100"`
	NumPersonasEstimado  *int                       `json:"numPersonasEstimado" validate:"omitempty,gt=0"`
	ObservacionesCliente *string                    `json:"observacionesCliente" validate:"omitempty,max=2000"`
	Productos            []SolicitudProductoRequest `json:"productos" validate:"omitempty,dive"`
	Paquetes             []SolicitudPaqueteRequest  `json:"paquetes" validate:"omitempty,dive"`
}

// UpdateSolicitudRequest is the owner patch. Nil fields are left untouched.
type UpdateSolicitudRequest struct {
	FechaEventoInicio    *string `json:"fechaEventoInicio" validate:"omitempty,datetime=2006-01-02"`
	FechaEventoFin       *string `json:"fechaEventoFin" validate:"omitempty,datetime=2006-01-02"`
	DireccionEvento      *string `json:"direccionEvento" validate:"omitempty,max=500"`
	TipoEvento           *string `json:"tipoEvento" validate:"omitempty,max=100"`
	NumPersonasEstimado  *int    `json:"numPersonasEstimado" validate:"omitempty,gt=0"`
	ObservacionesCliente *string `json:"observacionesCliente" validate:"omitempty,max=2000"`
}

// UpdateEstadoRequest drives an admin transition.
type UpdateEstadoRequest struct {
	Estado             Estado  `json:"estado" validate:"required,oneof=aprobada rechazada en_proceso completada"`
	ObservacionesAdmin *string `json:"observacionesAdmin" validate:"omitempty,max=2000"`
}

// QuoteCalculationRequest previews a quote without persisting anything.
type QuoteCalculationRequest struct {
	Productos []SolicitudProductoRequest `json:"productos" validate:"omitempty,dive"`
	Paquetes  []SolicitudPaqueteRequest  `json:"paquetes" validate:"omitempty,dive"`
}

// ListSolicitudesRequest holds pagination and filter query parameters.
type ListSolicitudesRequest struct {
	Estado   string `form:"estado" validate:"omitempty,oneof=pendiente aprobada rechazada en_proceso completada cancelada"`
	Page     int    `form:"page" validate:"omitempty,min=1"`
	PageSize int    `form:"pageSize" validate:"omitempty,min=1,max=100"`
}

// ── Responses ─────────────────────────────────────────────────────────────────

// QuoteCalculationResponse is the computed quote. Amounts are fixed two-decimal strings.
type QuoteCalculationResponse struct {
	SubtotalProductos string `json:"subtotalProductos"`
	SubtotalPaquetes  string `json:"subtotalPaquetes"`
	Subtotal          string `json:"subtotal"`
	Descuento         string `json:"descuento"`
	Impuestos         string `json:"impuestos"`
	DepositoTotal     string `json:"depositoTotal"`
	Total             string `json:"totalCotizacion"`
}

// SolicitudProductoResponse is a persisted product line.
type SolicitudProductoResponse struct {
	ID                 int64  `json:"id"`
	ProductoID         int64  `json:"productoId"`
	ProductoCodigo     string `json:"productoCodigo"`
	ProductoNombre     string `json:"productoNombre"`
	CantidadSolicitada int    `json:"cantidadSolicitada"`
	PrecioUnitario     string `json:"precioUnitario"`
	DiasRenta          int    `json:"diasRenta"`
	Subtotal           string `json:"subtotal"`
	DepositoUnitario   string `json:"depositoUnitario"`
	DepositoTotal      string `json:"depositoTotal"`
}

// SolicitudPaqueteResponse is a persisted package line.
type SolicitudPaqueteResponse struct {
	ID                 int64  `json:"id"`
	PaqueteID          int64  `json:"paqueteId"`
	PaqueteCodigo      string `json:"paqueteCodigo"`
	PaqueteNombre      string `json:"paqueteNombre"`
	CantidadSolicitada int    `json:"cantidadSolicitada"`
	PrecioUnitario     string `json:"precioUnitario"`
	DiasRenta          int    `json:"diasRenta"`
	Subtotal           string `json:"subtotal"`
}

// SolicitudResponse is a full rental request with its lines.
type SolicitudResponse struct {
	ID                   int64                       `json:"id"`
	NumeroSolicitud      string                      `json:"numeroSolicitud"`
	UsuarioID            uuid.UUID                   `json:"usuarioId"`
	FechaEventoInicio    string                      `json:"fechaEventoInicio"`
	FechaEventoFin       string                      `json:"fechaEventoFin"`
	DireccionEvento      *string                     `json:"direccionEvento,omitempty"`
	TipoEvento           *string                     `json:"tipoEvento,omitempty"`
	NumPersonasEstimado  *int                        `json:"numPersonasEstimado,omitempty"`
	ObservacionesCliente *string                     `json:"observacionesCliente,omitempty"`
	ObservacionesAdmin   *string                     `json:"observacionesAdmin,omitempty"`
	Subtotal             string                      `json:"subtotal"`
	Descuento            string                      `json:"descuento"`
	Impuestos            string                      `json:"impuestos"`
	DepositoTotal        string                      `json:"depositoTotal"`
	TotalCotizacion      string                      `json:"totalCotizacion"`
	Estado               Estado                      `json:"estado"`
	FechaSolicitud       time.Time                   `json:"fechaSolicitud"`
	FechaRespuesta       *time.Time                  `json:"fechaRespuesta,omitempty"`
	FechaEntrega         *time.Time                  `json:"fechaEntrega,omitempty"`
	FechaDevolucion      *time.Time                  `json:"fechaDevolucion,omitempty"`
	Productos            []SolicitudProductoResponse `json:"productos"`
	Paquetes             []SolicitudPaqueteResponse  `json:"paquetes"`
}

// SolicitudListItem is the row shape of the list endpoints.
type SolicitudListItem struct {
	ID                int64     `json:"id"`
	NumeroSolicitud   string    `json:"numeroSolicitud"`
	UsuarioID         uuid.UUID `json:"usuarioId"`
	FechaEventoInicio string    `json:"fechaEventoInicio"`
	FechaEventoFin    string    `json:"fechaEventoFin"`
	TipoEvento        *string   `json:"tipoEvento,omitempty"`
	TotalCotizacion   string    `json:"totalCotizacion"`
	Estado            Estado    `json:"estado"`
	FechaSolicitud    time.Time `json:"fechaSolicitud"`
	TotalProductos    int       `json:"totalProductos"`
	TotalPaquetes     int       `json:"totalPaquetes"`
}

// SolicitudListResponse is a paginated list of rental requests.
type SolicitudListResponse struct {
	Items      []SolicitudListItem `json:"items"`
	Total      int                 `json:"total"`
	Page       int                 `json:"page"`
	PageSize   int                 `json:"pageSize"`
	TotalPages int                 `json:"totalPages"`
}
