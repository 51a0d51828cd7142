package adapters

import (
	"context"

	pagservice "rental_backend/internal/pagos/service"
	solrepo "rental_backend/internal/solicitudes/repository"

	"github.com/google/uuid"
)

// SolicitudOwnerReader adapts the solicitudes repository for the payment
// ledger, satisfying pagservice.SolicitudOwnerReader.
type SolicitudOwnerReader struct {
	repo solrepo.Repository
}

// NewSolicitudOwnerReader creates a new owner reader adapter.
func NewSolicitudOwnerReader(repo solrepo.Repository) *SolicitudOwnerReader {
	return &SolicitudOwnerReader{repo: repo}
}

// SolicitudOwner returns the user that created the request. Missing
// requests surface the repository's NotFound unchanged.
func (a *SolicitudOwnerReader) SolicitudOwner(ctx context.Context, solicitudID int64) (uuid.UUID, error) {
	sol, err := a.repo.GetByID(ctx, solicitudID)
	if err != nil {
		return uuid.Nil, err
	}
	return sol.UsuarioID, nil
}

var _ pagservice.SolicitudOwnerReader = (*SolicitudOwnerReader)(nil)
