// Package service exposes the read-only rental catalog.
package service

import (
	"context"

	"rental_backend/internal/catalog/repository"
	"rental_backend/internal/catalog/transport"
)

// Service provides catalog reads.
type Service struct {
	repo repository.Repository
}

// New creates a new catalog service.
func New(repo repository.Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) ListProductos(ctx context.Context, req transport.ListProductosRequest) (*transport.ProductoListResponse, error) {
	var estado *string
	if req.Estado != "" {
		estado = &req.Estado
	}

	productos, err := s.repo.ListProductos(ctx, estado)
	if err != nil {
		return nil, err
	}

	items := make([]transport.ProductoResponse, len(productos))
	for i, p := range productos {
		items[i] = toProductoResponse(p)
	}
	return &transport.ProductoListResponse{Items: items, Total: len(items)}, nil
}

func (s *Service) GetProducto(ctx context.Context, id int64) (*transport.ProductoResponse, error) {
	p, err := s.repo.GetProducto(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toProductoResponse(p)
	return &resp, nil
}

func (s *Service) ListPaquetes(ctx context.Context, req transport.ListPaquetesRequest) (*transport.PaqueteListResponse, error) {
	paquetes, err := s.repo.ListPaquetes(ctx, !req.IncluirInactivos)
	if err != nil {
		return nil, err
	}

	items := make([]transport.PaqueteResponse, len(paquetes))
	for i, p := range paquetes {
		items[i] = toPaqueteResponse(p)
	}
	return &transport.PaqueteListResponse{Items: items, Total: len(items)}, nil
}

func (s *Service) GetPaquete(ctx context.Context, id int64) (*transport.PaqueteResponse, error) {
	p, err := s.repo.GetPaquete(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toPaqueteResponse(p)
	return &resp, nil
}

func toProductoResponse(p repository.Producto) transport.ProductoResponse {
	return transport.ProductoResponse{
		ID:               p.ID,
		Codigo:           p.Codigo,
		Nombre:           p.Nombre,
		PrecioPorDia:     p.PrecioPorDia.StringFixed(2),
		MontoDeposito:    p.MontoDeposito.StringFixed(2),
		RequiereDeposito: p.RequiereDeposito,
		Estado:           p.Estado,
		Stock:            p.Stock,
	}
}

func toPaqueteResponse(p repository.Paquete) transport.PaqueteResponse {
	return transport.PaqueteResponse{
		ID:                  p.ID,
		Codigo:              p.Codigo,
		Nombre:              p.Nombre,
		PrecioPorDia:        p.PrecioPorDia.StringFixed(2),
		DescuentoPorcentaje: p.DescuentoPorcentaje.StringFixed(2),
		Activo:              p.Activo,
	}
}
