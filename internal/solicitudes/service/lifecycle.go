package service

import (
	"fmt"

	"rental_backend/internal/solicitudes/transport"
	"rental_backend/platform/apperr"
)

// transitions lists the allowed next states for each state. Terminal states
// have no entry.
var transitions = map[transport.Estado][]transport.Estado{
	transport.EstadoPendiente: {transport.EstadoAprobada, transport.EstadoRechazada, transport.EstadoCancelada},
	transport.EstadoAprobada:  {transport.EstadoEnProceso, transport.EstadoCancelada},
	transport.EstadoEnProceso: {transport.EstadoCompletada},
}

// CanTransition reports whether a request in state from may move to state to.
func CanTransition(from, to transport.Estado) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no transition leaves estado.
func IsTerminal(estado transport.Estado) bool {
	return len(transitions[estado]) == 0
}

func checkTransition(from, to transport.Estado) error {
	if !CanTransition(from, to) {
		return apperr.InvalidTransition(fmt.Sprintf("cannot move solicitud from %s to %s", from, to)).
			WithDetails(map[string]string{"from": string(from), "to": string(to)})
	}
	return nil
}

func checkEditable(estado transport.Estado) error {
	if estado != transport.EstadoPendiente {
		return apperr.InvalidTransition(fmt.Sprintf("solicitud in state %s can no longer be edited", estado)).
			WithDetails(map[string]string{"estado": string(estado)})
	}
	return nil
}
