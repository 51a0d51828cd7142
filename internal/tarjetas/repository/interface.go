// Package repository persists the card vault.
package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Tarjeta is the database model for a stored card.
type Tarjeta struct {
	ID                 int64
	UsuarioID          uuid.UUID
	TipoTarjeta        string
	Marca              string
	UltimosDigitos     string
	NombreTitular      string
	MesExpiracion      int
	AnioExpiracion     int
	EsPredeterminada   bool
	TokenPasarela      string
	Activa             bool
	FechaCreacion      time.Time
	FechaActualizacion time.Time
}

// Patch holds the updatable card fields. Nil means unchanged.
type Patch struct {
	NombreTitular    *string
	MesExpiracion    *int
	AnioExpiracion   *int
	EsPredeterminada *bool
}

// Repository is the persistence contract of the card vault. Every write
// for a user runs in one transaction holding that user's card lock, so at
// most one active card per user is ever the default.
type Repository interface {
	// Create inserts t, clearing the other defaults first when t is the default.
	Create(ctx context.Context, t *Tarjeta) error
	ListActive(ctx context.Context, usuarioID uuid.UUID) ([]Tarjeta, error)
	GetActive(ctx context.Context, id int64, usuarioID uuid.UUID) (Tarjeta, error)
	Update(ctx context.Context, id int64, usuarioID uuid.UUID, patch Patch) (Tarjeta, error)
	// Deactivate soft-deletes the card and clears its default flag.
	Deactivate(ctx context.Context, id int64, usuarioID uuid.UUID) error
	// SetDefault makes the card the user's only default. It returns
	// NotFound without writing when the card is not an active card of the user.
	SetDefault(ctx context.Context, id int64, usuarioID uuid.UUID) (Tarjeta, error)
}
