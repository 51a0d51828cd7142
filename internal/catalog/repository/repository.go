// Package repository provides read access to the product and package catalog.
package repository

import (
	"context"
	"errors"
	"fmt"

	"rental_backend/platform/apperr"
	"rental_backend/platform/db"

	"github.com/jackc/pgx/v5"
)

const (
	productoNotFoundMsg = "producto not found"
	paqueteNotFoundMsg  = "paquete not found"

	productoColumns = `producto_id, codigo, nombre, precio_por_dia, monto_deposito, requiere_deposito, estado, stock`
	paqueteColumns  = `paquete_id, codigo, nombre, precio_por_dia, descuento_porcentaje, activo`
)

// Repo implements Repository on PostgreSQL.
type Repo struct {
	db db.DBTX
}

// New creates a catalog repository.
func New(conn db.DBTX) *Repo {
	return &Repo{db: conn}
}

var _ Repository = (*Repo)(nil)

// GetProducto retrieves a product by id.
func (r *Repo) GetProducto(ctx context.Context, id int64) (Producto, error) {
	query := `SELECT ` + productoColumns + ` FROM productos WHERE producto_id = $1`

	p, err := scanProducto(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Producto{}, apperr.NotFound(productoNotFoundMsg)
	}
	if err != nil {
		return Producto{}, fmt.Errorf("get producto: %w", err)
	}
	return p, nil
}

// GetPaquete retrieves a package by id.
func (r *Repo) GetPaquete(ctx context.Context, id int64) (Paquete, error) {
	query := `SELECT ` + paqueteColumns + ` FROM paquetes WHERE paquete_id = $1`

	p, err := scanPaquete(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Paquete{}, apperr.NotFound(paqueteNotFoundMsg)
	}
	if err != nil {
		return Paquete{}, fmt.Errorf("get paquete: %w", err)
	}
	return p, nil
}

// GetProductosByIDs returns the products matching ids. Unknown ids are omitted.
func (r *Repo) GetProductosByIDs(ctx context.Context, ids []int64) ([]Producto, error) {
	if len(ids) == 0 {
		return []Producto{}, nil
	}
	query := `SELECT ` + productoColumns + ` FROM productos WHERE producto_id = ANY($1) ORDER BY producto_id`

	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("get productos by ids: %w", err)
	}
	defer rows.Close()

	items := make([]Producto, 0, len(ids))
	for rows.Next() {
		p, err := scanProducto(rows)
		if err != nil {
			return nil, fmt.Errorf("scan producto: %w", err)
		}
		items = append(items, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate productos: %w", err)
	}
	return items, nil
}

// GetPaquetesByIDs returns the packages matching ids. Unknown ids are omitted.
func (r *Repo) GetPaquetesByIDs(ctx context.Context, ids []int64) ([]Paquete, error) {
	if len(ids) == 0 {
		return []Paquete{}, nil
	}
	query := `SELECT ` + paqueteColumns + ` FROM paquetes WHERE paquete_id = ANY($1) ORDER BY paquete_id`

	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("get paquetes by ids: %w", err)
	}
	defer rows.Close()

	items := make([]Paquete, 0, len(ids))
	for rows.Next() {
		p, err := scanPaquete(rows)
		if err != nil {
			return nil, fmt.Errorf("scan paquete: %w", err)
		}
		items = append(items, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate paquetes: %w", err)
	}
	return items, nil
}

// ListProductos lists products ordered by name, optionally filtered by estado.
func (r *Repo) ListProductos(ctx context.Context, estado *string) ([]Producto, error) {
	query := `SELECT ` + productoColumns + `
		FROM productos
		WHERE ($1::text IS NULL OR estado = $1)
		ORDER BY nombre, producto_id`

	var estadoParam interface{}
	if estado != nil {
		estadoParam = *estado
	}

	rows, err := r.db.Query(ctx, query, estadoParam)
	if err != nil {
		return nil, fmt.Errorf("list productos: %w", err)
	}
	defer rows.Close()

	items := make([]Producto, 0)
	for rows.Next() {
		p, err := scanProducto(rows)
		if err != nil {
			return nil, fmt.Errorf("scan producto: %w", err)
		}
		items = append(items, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate productos: %w", err)
	}
	return items, nil
}

// ListPaquetes lists packages ordered by name.
func (r *Repo) ListPaquetes(ctx context.Context, soloActivos bool) ([]Paquete, error) {
	query := `SELECT ` + paqueteColumns + `
		FROM paquetes
		WHERE (NOT $1 OR activo)
		ORDER BY nombre, paquete_id`

	rows, err := r.db.Query(ctx, query, soloActivos)
	if err != nil {
		return nil, fmt.Errorf("list paquetes: %w", err)
	}
	defer rows.Close()

	items := make([]Paquete, 0)
	for rows.Next() {
		p, err := scanPaquete(rows)
		if err != nil {
			return nil, fmt.Errorf("scan paquete: %w", err)
		}
		items = append(items, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate paquetes: %w", err)
	}
	return items, nil
}

func scanProducto(row pgx.Row) (Producto, error) {
	var p Producto
	err := row.Scan(&p.ID, &p.Codigo, &p.Nombre, &p.PrecioPorDia, &p.MontoDeposito, &p.RequiereDeposito, &p.Estado, &p.Stock)
	return p, err
}

func scanPaquete(row pgx.Row) (Paquete, error) {
	var p Paquete
	err := row.Scan(&p.ID, &p.Codigo, &p.Nombre, &p.PrecioPorDia, &p.DescuentoPorcentaje, &p.Activo)
	return p, err
}
