package repository

import (
	"context"
	"errors"
	"fmt"

	"rental_backend/platform/apperr"
	"rental_backend/platform/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const (
	pagoNotFoundMsg = "pago not found"

	pagoColumns = `pago_id, numero_transaccion, solicitud_id, usuario_id, tarjeta_id, tipo_pago,
		metodo_pago, monto, estado_pago, observaciones, fecha_pago`

	insertPagoQuery = `
		INSERT INTO pagos (
			numero_transaccion, solicitud_id, usuario_id, tarjeta_id, tipo_pago,
			metodo_pago, monto, estado_pago, observaciones
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING pago_id, fecha_pago`

	listBaseQuery = `
		FROM pagos
		WHERE usuario_id = $1
			AND ($2::bigint IS NULL OR solicitud_id = $2)`
)

// Repo implements Repository on PostgreSQL.
type Repo struct {
	db db.DBTX
}

// New creates a payment repository.
func New(conn db.DBTX) *Repo {
	return &Repo{db: conn}
}

var _ Repository = (*Repo)(nil)

// Create inserts a payment. A duplicate transaction code surfaces as the
// raw unique violation so the caller can retry with a fresh code.
func (r *Repo) Create(ctx context.Context, p *Pago) error {
	err := r.db.QueryRow(ctx, insertPagoQuery,
		p.NumeroTransaccion, p.SolicitudID, p.UsuarioID, p.TarjetaID, p.TipoPago,
		p.MetodoPago, p.Monto, p.EstadoPago, p.Observaciones,
	).Scan(&p.ID, &p.FechaPago)
	if err != nil {
		return fmt.Errorf("failed to insert pago: %w", err)
	}
	return nil
}

// GetForUser retrieves a payment made by usuarioID.
func (r *Repo) GetForUser(ctx context.Context, id int64, usuarioID uuid.UUID) (Pago, error) {
	query := `SELECT ` + pagoColumns + ` FROM pagos WHERE pago_id = $1 AND usuario_id = $2`

	p, err := scanPago(r.db.QueryRow(ctx, query, id, usuarioID))
	if errors.Is(err, pgx.ErrNoRows) {
		return Pago{}, apperr.NotFound(pagoNotFoundMsg)
	}
	if err != nil {
		return Pago{}, fmt.Errorf("failed to get pago: %w", err)
	}
	return p, nil
}

// ListForUser returns a page of the user's payments, newest first.
func (r *Repo) ListForUser(ctx context.Context, params ListParams) (ListResult, error) {
	var solicitudParam interface{}
	if params.SolicitudID != nil {
		solicitudParam = *params.SolicitudID
	}
	args := []interface{}{params.UsuarioID, solicitudParam}

	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) "+listBaseQuery, args...).Scan(&total); err != nil {
		return ListResult{}, fmt.Errorf("failed to count pagos: %w", err)
	}

	totalPages := (total + params.PageSize - 1) / params.PageSize
	offset := (params.Page - 1) * params.PageSize

	selectQuery := `SELECT ` + pagoColumns + listBaseQuery + `
		ORDER BY fecha_pago DESC, pago_id DESC
		LIMIT $3 OFFSET $4`

	items, err := r.query(ctx, selectQuery, append(args, params.PageSize, offset)...)
	if err != nil {
		return ListResult{}, err
	}

	return ListResult{
		Items:      items,
		Total:      total,
		Page:       params.Page,
		PageSize:   params.PageSize,
		TotalPages: totalPages,
	}, nil
}

// ListForSolicitud returns every payment the user made against a request,
// oldest first.
func (r *Repo) ListForSolicitud(ctx context.Context, solicitudID int64, usuarioID uuid.UUID) ([]Pago, error) {
	query := `SELECT ` + pagoColumns + `
		FROM pagos
		WHERE solicitud_id = $1 AND usuario_id = $2
		ORDER BY fecha_pago, pago_id`

	return r.query(ctx, query, solicitudID, usuarioID)
}

func (r *Repo) query(ctx context.Context, query string, args ...interface{}) ([]Pago, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list pagos: %w", err)
	}
	defer rows.Close()

	items := make([]Pago, 0)
	for rows.Next() {
		p, err := scanPago(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pago: %w", err)
		}
		items = append(items, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate pagos: %w", err)
	}
	return items, nil
}

func scanPago(row pgx.Row) (Pago, error) {
	var p Pago
	err := row.Scan(
		&p.ID, &p.NumeroTransaccion, &p.SolicitudID, &p.UsuarioID, &p.TarjetaID, &p.TipoPago,
		&p.MetodoPago, &p.Monto, &p.EstadoPago, &p.Observaciones, &p.FechaPago,
	)
	return p, err
}
