package repository

import (
	"context"
	"errors"
	"fmt"

	"rental_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	tarjetaNotFoundMsg = "tarjeta not found"

	tarjetaColumns = `tarjeta_id, usuario_id, tipo_tarjeta, marca, ultimos_digitos, nombre_titular,
		mes_expiracion, anio_expiracion, es_predeterminada, token_pasarela, activa,
		fecha_creacion, fecha_actualizacion`

	// lockUserQuery serializes card writes per user for the rest of the
	// transaction, including inserts that no row lock can cover.
	lockUserQuery = `SELECT pg_advisory_xact_lock(hashtextextended($1::text, 0))`

	lockActiveCardsQuery = `
		SELECT tarjeta_id FROM tarjetas_usuario
		WHERE usuario_id = $1 AND activa
		FOR UPDATE`

	clearDefaultsQuery = `
		UPDATE tarjetas_usuario
		SET es_predeterminada = FALSE, fecha_actualizacion = NOW()
		WHERE usuario_id = $1 AND activa AND es_predeterminada AND tarjeta_id <> $2`

	insertTarjetaQuery = `
		INSERT INTO tarjetas_usuario (
			usuario_id, tipo_tarjeta, marca, ultimos_digitos, nombre_titular,
			mes_expiracion, anio_expiracion, es_predeterminada, token_pasarela, activa
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, TRUE)
		RETURNING tarjeta_id, activa, fecha_creacion, fecha_actualizacion`

	listActiveQuery = `SELECT ` + tarjetaColumns + `
		FROM tarjetas_usuario
		WHERE usuario_id = $1 AND activa
		ORDER BY es_predeterminada DESC, fecha_creacion DESC, tarjeta_id DESC`

	getActiveQuery = `SELECT ` + tarjetaColumns + `
		FROM tarjetas_usuario
		WHERE tarjeta_id = $1 AND usuario_id = $2 AND activa`

	updateTarjetaQuery = `
		UPDATE tarjetas_usuario SET
			nombre_titular = COALESCE($3, nombre_titular),
			mes_expiracion = COALESCE($4, mes_expiracion),
			anio_expiracion = COALESCE($5, anio_expiracion),
			es_predeterminada = COALESCE($6, es_predeterminada),
			fecha_actualizacion = NOW()
		WHERE tarjeta_id = $1 AND usuario_id = $2 AND activa
		RETURNING ` + tarjetaColumns

	deactivateQuery = `
		UPDATE tarjetas_usuario
		SET activa = FALSE, es_predeterminada = FALSE, fecha_actualizacion = NOW()
		WHERE tarjeta_id = $1 AND usuario_id = $2 AND activa`

	setDefaultQuery = `
		UPDATE tarjetas_usuario
		SET es_predeterminada = TRUE, fecha_actualizacion = NOW()
		WHERE tarjeta_id = $1 AND usuario_id = $2 AND activa
		RETURNING ` + tarjetaColumns
)

// Repo implements Repository on PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new card vault repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

var _ Repository = (*Repo)(nil)

// withUserLock runs fn in a transaction holding the user's card lock.
func (r *Repo) withUserLock(ctx context.Context, usuarioID uuid.UUID, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, lockUserQuery, usuarioID.String()); err != nil {
		return fmt.Errorf("failed to lock user cards: %w", err)
	}
	rows, err := tx.Query(ctx, lockActiveCardsQuery, usuarioID)
	if err != nil {
		return fmt.Errorf("failed to lock active cards: %w", err)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to lock active cards: %w", err)
	}

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit card change: %w", err)
	}
	return nil
}

// Create inserts a card, clearing other defaults in the same transaction.
func (r *Repo) Create(ctx context.Context, t *Tarjeta) error {
	return r.withUserLock(ctx, t.UsuarioID, func(tx pgx.Tx) error {
		if t.EsPredeterminada {
			if _, err := tx.Exec(ctx, clearDefaultsQuery, t.UsuarioID, int64(0)); err != nil {
				return fmt.Errorf("failed to clear default cards: %w", err)
			}
		}
		if err := tx.QueryRow(ctx, insertTarjetaQuery,
			t.UsuarioID, t.TipoTarjeta, t.Marca, t.UltimosDigitos, t.NombreTitular,
			t.MesExpiracion, t.AnioExpiracion, t.EsPredeterminada, t.TokenPasarela,
		).Scan(&t.ID, &t.Activa, &t.FechaCreacion, &t.FechaActualizacion); err != nil {
			return fmt.Errorf("failed to insert tarjeta: %w", err)
		}
		return nil
	})
}

// ListActive returns the user's active cards, default first then newest.
func (r *Repo) ListActive(ctx context.Context, usuarioID uuid.UUID) ([]Tarjeta, error) {
	rows, err := r.pool.Query(ctx, listActiveQuery, usuarioID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tarjetas: %w", err)
	}
	defer rows.Close()

	items := make([]Tarjeta, 0)
	for rows.Next() {
		t, err := scanTarjeta(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan tarjeta: %w", err)
		}
		items = append(items, t)
	}
	return items, rows.Err()
}

// GetActive returns one active card of the user.
func (r *Repo) GetActive(ctx context.Context, id int64, usuarioID uuid.UUID) (Tarjeta, error) {
	t, err := scanTarjeta(r.pool.QueryRow(ctx, getActiveQuery, id, usuarioID))
	if errors.Is(err, pgx.ErrNoRows) {
		return Tarjeta{}, apperr.NotFound(tarjetaNotFoundMsg)
	}
	if err != nil {
		return Tarjeta{}, fmt.Errorf("failed to get tarjeta: %w", err)
	}
	return t, nil
}

// Update applies the patch. Setting the default flag clears it on every
// other card of the user.
func (r *Repo) Update(ctx context.Context, id int64, usuarioID uuid.UUID, patch Patch) (Tarjeta, error) {
	var updated Tarjeta
	err := r.withUserLock(ctx, usuarioID, func(tx pgx.Tx) error {
		if _, err := scanTarjeta(tx.QueryRow(ctx, getActiveQuery, id, usuarioID)); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperr.NotFound(tarjetaNotFoundMsg)
			}
			return fmt.Errorf("failed to get tarjeta: %w", err)
		}

		if patch.EsPredeterminada != nil && *patch.EsPredeterminada {
			if _, err := tx.Exec(ctx, clearDefaultsQuery, usuarioID, id); err != nil {
				return fmt.Errorf("failed to clear default cards: %w", err)
			}
		}

		t, err := scanTarjeta(tx.QueryRow(ctx, updateTarjetaQuery,
			id, usuarioID, patch.NombreTitular, patch.MesExpiracion, patch.AnioExpiracion, patch.EsPredeterminada,
		))
		if err != nil {
			return fmt.Errorf("failed to update tarjeta: %w", err)
		}
		updated = t
		return nil
	})
	return updated, err
}

// Deactivate soft-deletes a card.
func (r *Repo) Deactivate(ctx context.Context, id int64, usuarioID uuid.UUID) error {
	return r.withUserLock(ctx, usuarioID, func(tx pgx.Tx) error {
		result, err := tx.Exec(ctx, deactivateQuery, id, usuarioID)
		if err != nil {
			return fmt.Errorf("failed to deactivate tarjeta: %w", err)
		}
		if result.RowsAffected() == 0 {
			return apperr.NotFound(tarjetaNotFoundMsg)
		}
		return nil
	})
}

// SetDefault checks the target first, then clears the other defaults and
// flags the target, all under the user's lock.
func (r *Repo) SetDefault(ctx context.Context, id int64, usuarioID uuid.UUID) (Tarjeta, error) {
	var updated Tarjeta
	err := r.withUserLock(ctx, usuarioID, func(tx pgx.Tx) error {
		if _, err := scanTarjeta(tx.QueryRow(ctx, getActiveQuery, id, usuarioID)); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperr.NotFound(tarjetaNotFoundMsg)
			}
			return fmt.Errorf("failed to get tarjeta: %w", err)
		}

		if _, err := tx.Exec(ctx, clearDefaultsQuery, usuarioID, id); err != nil {
			return fmt.Errorf("failed to clear default cards: %w", err)
		}

		t, err := scanTarjeta(tx.QueryRow(ctx, setDefaultQuery, id, usuarioID))
		if err != nil {
			return fmt.Errorf("failed to set default tarjeta: %w", err)
		}
		updated = t
		return nil
	})
	return updated, err
}

func scanTarjeta(row pgx.Row) (Tarjeta, error) {
	var t Tarjeta
	err := row.Scan(
		&t.ID, &t.UsuarioID, &t.TipoTarjeta, &t.Marca, &t.UltimosDigitos, &t.NombreTitular,
		&t.MesExpiracion, &t.AnioExpiracion, &t.EsPredeterminada, &t.TokenPasarela, &t.Activa,
		&t.FechaCreacion, &t.FechaActualizacion,
	)
	return t, err
}
