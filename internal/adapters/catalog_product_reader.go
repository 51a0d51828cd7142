package adapters

import (
	"context"
	"fmt"

	catrepo "rental_backend/internal/catalog/repository"
	solservice "rental_backend/internal/solicitudes/service"
)

// CatalogProductReader adapts the catalog repository for the solicitudes
// domain, satisfying solservice.CatalogReader.
type CatalogProductReader struct {
	repo catrepo.Repository
}

// NewCatalogProductReader creates a new catalog reader adapter.
func NewCatalogProductReader(repo catrepo.Repository) *CatalogProductReader {
	return &CatalogProductReader{repo: repo}
}

// ProductosByIDs returns the referenced products keyed by id. Unknown ids
// are omitted.
func (a *CatalogProductReader) ProductosByIDs(ctx context.Context, ids []int64) (map[int64]solservice.CatalogProduct, error) {
	out := make(map[int64]solservice.CatalogProduct, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	productos, err := a.repo.GetProductosByIDs(ctx, uniqueIDs(ids))
	if err != nil {
		return nil, fmt.Errorf("catalog adapter: get productos: %w", err)
	}
	for _, p := range productos {
		out[p.ID] = solservice.CatalogProduct{
			ID:         p.ID,
			Codigo:     p.Codigo,
			Nombre:     p.Nombre,
			Disponible: p.Disponible(),
		}
	}
	return out, nil
}

// PaquetesByIDs returns the referenced packages keyed by id.
func (a *CatalogProductReader) PaquetesByIDs(ctx context.Context, ids []int64) (map[int64]solservice.CatalogPackage, error) {
	out := make(map[int64]solservice.CatalogPackage, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	paquetes, err := a.repo.GetPaquetesByIDs(ctx, uniqueIDs(ids))
	if err != nil {
		return nil, fmt.Errorf("catalog adapter: get paquetes: %w", err)
	}
	for _, p := range paquetes {
		out[p.ID] = solservice.CatalogPackage{
			ID:     p.ID,
			Codigo: p.Codigo,
			Nombre: p.Nombre,
			Activo: p.Activo,
		}
	}
	return out, nil
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

var _ solservice.CatalogReader = (*CatalogProductReader)(nil)
