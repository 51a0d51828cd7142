package repository

import (
	"context"
	"errors"
	"fmt"

	"rental_backend/platform/apperr"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	solicitudNotFoundMsg = "solicitud not found"
	notPendingMsg        = "solicitud is no longer pendiente"

	// NumeroSolicitudConstraint is the unique constraint on numero_solicitud.
	NumeroSolicitudConstraint = "solicitudes_numero_solicitud_key"

	solicitudColumns = `s.solicitud_id, s.numero_solicitud, s.usuario_id, s.fecha_evento_inicio, s.fecha_evento_fin,
		s.direccion_evento, s.tipo_evento, s.num_personas_estimado, s.observaciones_cliente, s.observaciones_admin,
		s.subtotal, s.descuento, s.impuestos, s.deposito_total, s.total_cotizacion, s.estado,
		s.fecha_solicitud, s.fecha_respuesta, s.fecha_entrega, s.fecha_devolucion`

	insertSolicitudQuery = `
		INSERT INTO solicitudes (
			numero_solicitud, usuario_id, fecha_evento_inicio, fecha_evento_fin,
			direccion_evento, tipo_evento, num_personas_estimado, observaciones_cliente,
			subtotal, descuento, impuestos, deposito_total, total_cotizacion, estado
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING solicitud_id, fecha_solicitud`

	insertProductoQuery = `
		INSERT INTO solicitud_productos (
			solicitud_id, producto_id, cantidad_solicitada, precio_unitario, dias_renta,
			subtotal, deposito_unitario, deposito_total, orden
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING solicitud_producto_id`

	insertPaqueteQuery = `
		INSERT INTO solicitud_paquetes (
			solicitud_id, paquete_id, cantidad_solicitada, precio_unitario, dias_renta, subtotal, orden
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING solicitud_paquete_id`

	listProductosQuery = `
		SELECT sp.solicitud_producto_id, sp.solicitud_id, sp.producto_id, p.codigo, p.nombre,
			sp.cantidad_solicitada, sp.precio_unitario, sp.dias_renta, sp.subtotal,
			sp.deposito_unitario, sp.deposito_total, sp.orden
		FROM solicitud_productos sp
		JOIN productos p ON p.producto_id = sp.producto_id
		WHERE sp.solicitud_id = $1
		ORDER BY sp.orden, sp.solicitud_producto_id`

	listPaquetesQuery = `
		SELECT sp.solicitud_paquete_id, sp.solicitud_id, sp.paquete_id, p.codigo, p.nombre,
			sp.cantidad_solicitada, sp.precio_unitario, sp.dias_renta, sp.subtotal, sp.orden
		FROM solicitud_paquetes sp
		JOIN paquetes p ON p.paquete_id = sp.paquete_id
		WHERE sp.solicitud_id = $1
		ORDER BY sp.orden, sp.solicitud_paquete_id`

	listBaseQuery = `
		FROM solicitudes s
		WHERE ($1::uuid IS NULL OR s.usuario_id = $1)
			AND ($2::text IS NULL OR s.estado = $2)`

	updateDetailsQuery = `
		UPDATE solicitudes SET
			fecha_evento_inicio = $2, fecha_evento_fin = $3, direccion_evento = $4,
			tipo_evento = $5, num_personas_estimado = $6, observaciones_cliente = $7
		WHERE solicitud_id = $1 AND estado = 'pendiente'`
)

// stampColumns names the timestamp recorded when a request enters a state.
var stampColumns = map[string]string{
	"aprobada":   "fecha_respuesta",
	"rechazada":  "fecha_respuesta",
	"en_proceso": "fecha_entrega",
	"completada": "fecha_devolucion",
}

// Repo implements Repository on PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new solicitudes repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

var _ Repository = (*Repo)(nil)

// CreateWithItems inserts a request and its lines in a single transaction.
func (r *Repo) CreateWithItems(ctx context.Context, s *Solicitud, productos []SolicitudProducto, paquetes []SolicitudPaquete) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := tx.QueryRow(ctx, insertSolicitudQuery,
		s.NumeroSolicitud, s.UsuarioID, s.FechaEventoInicio, s.FechaEventoFin,
		s.DireccionEvento, s.TipoEvento, s.NumPersonasEstimado, s.ObservacionesCliente,
		s.Subtotal, s.Descuento, s.Impuestos, s.DepositoTotal, s.TotalCotizacion, s.Estado,
	).Scan(&s.ID, &s.FechaSolicitud); err != nil {
		return fmt.Errorf("failed to insert solicitud: %w", err)
	}

	for i := range productos {
		p := &productos[i]
		p.SolicitudID = s.ID
		if err := tx.QueryRow(ctx, insertProductoQuery,
			p.SolicitudID, p.ProductoID, p.CantidadSolicitada, p.PrecioUnitario, p.DiasRenta,
			p.Subtotal, p.DepositoUnitario, p.DepositoTotal, p.Orden,
		).Scan(&p.ID); err != nil {
			return fmt.Errorf("failed to insert solicitud producto: %w", err)
		}
	}

	for i := range paquetes {
		p := &paquetes[i]
		p.SolicitudID = s.ID
		if err := tx.QueryRow(ctx, insertPaqueteQuery,
			p.SolicitudID, p.PaqueteID, p.CantidadSolicitada, p.PrecioUnitario, p.DiasRenta, p.Subtotal, p.Orden,
		).Scan(&p.ID); err != nil {
			return fmt.Errorf("failed to insert solicitud paquete: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit solicitud: %w", err)
	}
	return nil
}

// GetByID retrieves a request header by id.
func (r *Repo) GetByID(ctx context.Context, id int64) (Solicitud, error) {
	query := `SELECT ` + solicitudColumns + ` FROM solicitudes s WHERE s.solicitud_id = $1`

	s, err := scanSolicitud(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Solicitud{}, apperr.NotFound(solicitudNotFoundMsg)
	}
	if err != nil {
		return Solicitud{}, fmt.Errorf("failed to get solicitud: %w", err)
	}
	return s, nil
}

// ListProductos returns the product lines of a request in submission order.
func (r *Repo) ListProductos(ctx context.Context, solicitudID int64) ([]SolicitudProducto, error) {
	rows, err := r.pool.Query(ctx, listProductosQuery, solicitudID)
	if err != nil {
		return nil, fmt.Errorf("failed to list solicitud productos: %w", err)
	}
	defer rows.Close()

	items := make([]SolicitudProducto, 0)
	for rows.Next() {
		var p SolicitudProducto
		if err := rows.Scan(
			&p.ID, &p.SolicitudID, &p.ProductoID, &p.ProductoCodigo, &p.ProductoNombre,
			&p.CantidadSolicitada, &p.PrecioUnitario, &p.DiasRenta, &p.Subtotal,
			&p.DepositoUnitario, &p.DepositoTotal, &p.Orden,
		); err != nil {
			return nil, fmt.Errorf("failed to scan solicitud producto: %w", err)
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

// ListPaquetes returns the package lines of a request in submission order.
func (r *Repo) ListPaquetes(ctx context.Context, solicitudID int64) ([]SolicitudPaquete, error) {
	rows, err := r.pool.Query(ctx, listPaquetesQuery, solicitudID)
	if err != nil {
		return nil, fmt.Errorf("failed to list solicitud paquetes: %w", err)
	}
	defer rows.Close()

	items := make([]SolicitudPaquete, 0)
	for rows.Next() {
		var p SolicitudPaquete
		if err := rows.Scan(
			&p.ID, &p.SolicitudID, &p.PaqueteID, &p.PaqueteCodigo, &p.PaqueteNombre,
			&p.CantidadSolicitada, &p.PrecioUnitario, &p.DiasRenta, &p.Subtotal, &p.Orden,
		); err != nil {
			return nil, fmt.Errorf("failed to scan solicitud paquete: %w", err)
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

// List retrieves requests newest first with pagination.
func (r *Repo) List(ctx context.Context, params ListParams) (ListResult, error) {
	var usuarioParam interface{}
	if params.UsuarioID != nil {
		usuarioParam = *params.UsuarioID
	}
	var estadoParam interface{}
	if params.Estado != nil {
		estadoParam = *params.Estado
	}
	args := []interface{}{usuarioParam, estadoParam}

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) "+listBaseQuery, args...).Scan(&total); err != nil {
		return ListResult{}, fmt.Errorf("failed to count solicitudes: %w", err)
	}

	totalPages := (total + params.PageSize - 1) / params.PageSize
	offset := (params.Page - 1) * params.PageSize

	selectQuery := `
		SELECT ` + solicitudColumns + `,
			(SELECT COUNT(*) FROM solicitud_productos sp WHERE sp.solicitud_id = s.solicitud_id),
			(SELECT COUNT(*) FROM solicitud_paquetes sq WHERE sq.solicitud_id = s.solicitud_id)
		` + listBaseQuery + `
		ORDER BY s.fecha_solicitud DESC, s.solicitud_id DESC
		LIMIT $3 OFFSET $4`

	rows, err := r.pool.Query(ctx, selectQuery, append(args, params.PageSize, offset)...)
	if err != nil {
		return ListResult{}, fmt.Errorf("failed to list solicitudes: %w", err)
	}
	defer rows.Close()

	items := make([]SolicitudSummary, 0, params.PageSize)
	for rows.Next() {
		var item SolicitudSummary
		if err := rows.Scan(append(solicitudDest(&item.Solicitud), &item.TotalProductos, &item.TotalPaquetes)...); err != nil {
			return ListResult{}, fmt.Errorf("failed to scan solicitud: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return ListResult{}, fmt.Errorf("failed to iterate solicitudes: %w", err)
	}

	return ListResult{
		Items:      items,
		Total:      total,
		Page:       params.Page,
		PageSize:   params.PageSize,
		TotalPages: totalPages,
	}, nil
}

// UpdateDetails writes the editable header fields. It fails with
// InvalidTransition when the request left pendiente in the meantime.
func (r *Repo) UpdateDetails(ctx context.Context, s Solicitud) error {
	result, err := r.pool.Exec(ctx, updateDetailsQuery,
		s.ID, s.FechaEventoInicio, s.FechaEventoFin, s.DireccionEvento,
		s.TipoEvento, s.NumPersonasEstimado, s.ObservacionesCliente,
	)
	if err != nil {
		return fmt.Errorf("failed to update solicitud: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.InvalidTransition(notPendingMsg)
	}
	return nil
}

// ChangeEstado applies a state change only if the stored state still equals
// change.From.
func (r *Repo) ChangeEstado(ctx context.Context, change EstadoChange) (Solicitud, error) {
	query, args := buildChangeEstadoQuery(change)

	s, err := scanSolicitud(r.pool.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return Solicitud{}, apperr.InvalidTransition(fmt.Sprintf("solicitud is no longer %s", change.From))
	}
	if err != nil {
		return Solicitud{}, fmt.Errorf("failed to change solicitud estado: %w", err)
	}
	return s, nil
}

func buildChangeEstadoQuery(change EstadoChange) (string, []interface{}) {
	set := `estado = $3, observaciones_admin = COALESCE($4, s.observaciones_admin)`
	args := []interface{}{change.ID, change.From, change.To, change.ObservacionesAdmin}
	if column, ok := stampColumns[change.To]; ok {
		set += `, ` + column + ` = $5`
		args = append(args, change.At)
	}

	query := `
		UPDATE solicitudes s SET ` + set + `
		WHERE s.solicitud_id = $1 AND s.estado = $2
		RETURNING ` + solicitudColumns
	return query, args
}

func solicitudDest(s *Solicitud) []interface{} {
	return []interface{}{
		&s.ID, &s.NumeroSolicitud, &s.UsuarioID, &s.FechaEventoInicio, &s.FechaEventoFin,
		&s.DireccionEvento, &s.TipoEvento, &s.NumPersonasEstimado, &s.ObservacionesCliente, &s.ObservacionesAdmin,
		&s.Subtotal, &s.Descuento, &s.Impuestos, &s.DepositoTotal, &s.TotalCotizacion, &s.Estado,
		&s.FechaSolicitud, &s.FechaRespuesta, &s.FechaEntrega, &s.FechaDevolucion,
	}
}

func scanSolicitud(row pgx.Row) (Solicitud, error) {
	var s Solicitud
	err := row.Scan(solicitudDest(&s)...)
	return s, err
}
