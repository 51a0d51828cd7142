package repository

import (
	"context"

	"github.com/shopspring/decimal"
)

// Producto estado values.
const (
	ProductoDisponible    = "disponible"
	ProductoMantenimiento = "mantenimiento"
	ProductoInactivo      = "inactivo"
)

// Producto is a rentable catalog item.
type Producto struct {
	ID               int64           `db:"producto_id"`
	Codigo           string          `db:"codigo"`
	Nombre           string          `db:"nombre"`
	PrecioPorDia     decimal.Decimal `db:"precio_por_dia"`
	MontoDeposito    decimal.Decimal `db:"monto_deposito"`
	RequiereDeposito bool            `db:"requiere_deposito"`
	Estado           string          `db:"estado"`
	Stock            int             `db:"stock"`
}

// Disponible reports whether the product can be added to a request.
func (p Producto) Disponible() bool {
	return p.Estado == ProductoDisponible
}

// Paquete is a discounted bundle sold as a single catalog entry.
type Paquete struct {
	ID                  int64           `db:"paquete_id"`
	Codigo              string          `db:"codigo"`
	Nombre              string          `db:"nombre"`
	PrecioPorDia        decimal.Decimal `db:"precio_por_dia"`
	DescuentoPorcentaje decimal.Decimal `db:"descuento_porcentaje"`
	Activo              bool            `db:"activo"`
}

// Repository is the read-only catalog store consulted by the rental engine.
type Repository interface {
	GetProducto(ctx context.Context, id int64) (Producto, error)
	GetPaquete(ctx context.Context, id int64) (Paquete, error)
	GetProductosByIDs(ctx context.Context, ids []int64) ([]Producto, error)
	GetPaquetesByIDs(ctx context.Context, ids []int64) ([]Paquete, error)
	// ListProductos lists products ordered by name, optionally filtered by estado.
	ListProductos(ctx context.Context, estado *string) ([]Producto, error)
	// ListPaquetes lists packages ordered by name.
	ListPaquetes(ctx context.Context, soloActivos bool) ([]Paquete, error)
}
