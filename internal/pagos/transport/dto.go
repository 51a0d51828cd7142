// Package transport defines the payment ledger request and response types.
package transport

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payment types.
const (
	TipoAnticipo           = "anticipo"
	TipoDeposito           = "deposito"
	TipoPagoFinal          = "pago_final"
	TipoDevolucionDeposito = "devolucion_deposito"
)

// Payment methods.
const (
	MetodoEfectivo      = "efectivo"
	MetodoTransferencia = "transferencia"
	MetodoTarjeta       = "tarjeta"
	MetodoPaypal        = "paypal"
)

// Payment states. New payments are always recorded as completado.
const (
	EstadoPendiente   = "pendiente"
	EstadoCompletado  = "completado"
	EstadoFallido     = "fallido"
	EstadoReembolsado = "reembolsado"
)

// CreatePagoRequest records a payment against one of the caller's requests.
// TarjetaID is informational and only accepted with the tarjeta method.
type CreatePagoRequest struct {
	SolicitudID   int64           `json:"solicitudId" validate:"required,gt=0"`
	TipoPago      string          `json:"tipoPago" validate:"required,oneof=anticipo deposito pago_final devolucion_deposito"`
	MetodoPago    string          `json:"metodoPago" validate:"required,oneof=efectivo transferencia tarjeta paypal"`
	Monto         decimal.Decimal `json:"monto" validate:"decimal_gt0,decimal_scale2,decimal_numeric12"`
	Observaciones *string         `json:"observaciones" validate:"omitempty,max=1000"`
	TarjetaID     *int64          `json:"tarjetaId" validate:"omitempty,gt=0"`
}

// ListPagosRequest holds pagination and the optional request filter.
type ListPagosRequest struct {
	SolicitudID int64 `form:"solicitudId" validate:"omitempty,gt=0"`
	Page        int   `form:"page" validate:"omitempty,min=1"`
	PageSize    int   `form:"pageSize" validate:"omitempty,min=1,max=100"`
}

// PagoResponse is a recorded payment. Monto is a fixed two-decimal string.
type PagoResponse struct {
	ID                int64     `json:"id"`
	NumeroTransaccion string    `json:"numeroTransaccion"`
	SolicitudID       int64     `json:"solicitudId"`
	UsuarioID         uuid.UUID `json:"usuarioId"`
	TarjetaID         *int64    `json:"tarjetaId,omitempty"`
	TipoPago          string    `json:"tipoPago"`
	MetodoPago        string    `json:"metodoPago"`
	Monto             string    `json:"monto"`
	EstadoPago        string    `json:"estadoPago"`
	Observaciones     *string   `json:"observaciones,omitempty"`
	FechaPago         time.Time `json:"fechaPago"`
}

// PagoListResponse is a paginated list of payments.
type PagoListResponse struct {
	Items      []PagoResponse `json:"items"`
	Total      int            `json:"total"`
	Page       int            `json:"page"`
	PageSize   int            `json:"pageSize"`
	TotalPages int            `json:"totalPages"`
}
