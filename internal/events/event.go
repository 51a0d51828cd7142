// Package events provides domain event definitions shared between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"rental_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// Event names.
const (
	SolicitudCreatedName       = "solicitudes.solicitud.created"
	SolicitudStatusChangedName = "solicitudes.solicitud.status_changed"
	PagoRecordedName           = "pagos.pago.recorded"
)

// =============================================================================
// Solicitudes Domain Events
// =============================================================================

// SolicitudCreated is published after a rental request and its lines commit.
type SolicitudCreated struct {
	BaseEvent
	SolicitudID     int64     `json:"solicitudId"`
	NumeroSolicitud string    `json:"numeroSolicitud"`
	UsuarioID       uuid.UUID `json:"usuarioId"`
	FechaInicio     string    `json:"fechaEventoInicio"`
	FechaFin        string    `json:"fechaEventoFin"`
	Total           string    `json:"totalCotizacion"`
	Productos       int       `json:"totalProductos"`
	Paquetes        int       `json:"totalPaquetes"`
}

func (e SolicitudCreated) EventName() string { return SolicitudCreatedName }

// SolicitudStatusChanged is published after a state machine transition.
type SolicitudStatusChanged struct {
	BaseEvent
	SolicitudID     int64     `json:"solicitudId"`
	NumeroSolicitud string    `json:"numeroSolicitud"`
	UsuarioID       uuid.UUID `json:"usuarioId"`
	From            string    `json:"from"`
	To              string    `json:"to"`
	ActorID         uuid.UUID `json:"actorId"`
}

func (e SolicitudStatusChanged) EventName() string { return SolicitudStatusChangedName }

// =============================================================================
// Pagos Domain Events
// =============================================================================

// PagoRecorded is published after a payment row is inserted.
type PagoRecorded struct {
	BaseEvent
	PagoID            int64     `json:"pagoId"`
	NumeroTransaccion string    `json:"numeroTransaccion"`
	SolicitudID       int64     `json:"solicitudId"`
	UsuarioID         uuid.UUID `json:"usuarioId"`
	TipoPago          string    `json:"tipoPago"`
	MetodoPago        string    `json:"metodoPago"`
	Monto             string    `json:"monto"`
}

func (e PagoRecorded) EventName() string { return PagoRecordedName }
