// Package repository persists the payment ledger.
package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// NumeroTransaccionConstraint is the unique constraint on transaction codes.
const NumeroTransaccionConstraint = "pagos_numero_transaccion_key"

// Pago is the database model for a payment. Payments are never updated.
type Pago struct {
	ID                int64
	NumeroTransaccion string
	SolicitudID       int64
	UsuarioID         uuid.UUID
	TarjetaID         *int64
	TipoPago          string
	MetodoPago        string
	Monto             decimal.Decimal
	EstadoPago        string
	Observaciones     *string
	FechaPago         time.Time
}

// ListParams scopes a payment listing to one payer and optionally one request.
type ListParams struct {
	UsuarioID   uuid.UUID
	SolicitudID *int64
	Page        int
	PageSize    int
}

// ListResult is a page of payments.
type ListResult struct {
	Items      []Pago
	Total      int
	Page       int
	PageSize   int
	TotalPages int
}

// Repository is the persistence contract of the payment ledger.
type Repository interface {
	// Create inserts p and fills ID and FechaPago.
	Create(ctx context.Context, p *Pago) error
	GetForUser(ctx context.Context, id int64, usuarioID uuid.UUID) (Pago, error)
	ListForUser(ctx context.Context, params ListParams) (ListResult, error)
	ListForSolicitud(ctx context.Context, solicitudID int64, usuarioID uuid.UUID) ([]Pago, error)
}
