// Package dbtest opens a migrated PostgreSQL pool for repository
// integration tests. Tests are skipped unless TEST_DATABASE_URL is set.
package dbtest

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"rental_backend/platform/db"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EnvURL names the environment variable holding the test database URL.
const EnvURL = "TEST_DATABASE_URL"

type migrationConfig struct {
	url string
	dir string
}

func (c migrationConfig) GetDatabaseURL() string   { return c.url }
func (c migrationConfig) GetMigrationsDir() string { return c.dir }

// Open returns a pool on a migrated database, closing it when t finishes.
func Open(t *testing.T) *pgxpool.Pool {
	t.Helper()

	url := os.Getenv(EnvURL)
	if url == "" {
		t.Skipf("%s not set, skipping database test", EnvURL)
	}

	ctx := context.Background()
	cfg := migrationConfig{url: url, dir: migrationsDir()}
	if err := db.RunMigrations(ctx, cfg); err != nil {
		t.Fatalf("run migrations: %v", err)
	}

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		t.Fatalf("open pool: %v", err)
	}
	t.Cleanup(pool.Close)
	return pool
}

// SeedCatalog inserts one available product and one active package and
// returns their ids.
func SeedCatalog(t *testing.T, pool *pgxpool.Pool, suffix string) (productoID, paqueteID int64) {
	t.Helper()
	ctx := context.Background()

	if err := pool.QueryRow(ctx, `
		INSERT INTO productos (codigo, nombre, precio_por_dia, monto_deposito, requiere_deposito, estado, stock)
		VALUES ($1, 'Silla Tiffany', 25.00, 50.00, TRUE, 'disponible', 100)
		RETURNING producto_id`, "PRD-"+suffix).Scan(&productoID); err != nil {
		t.Fatalf("seed producto: %v", err)
	}
	if err := pool.QueryRow(ctx, `
		INSERT INTO paquetes (codigo, nombre, precio_por_dia, descuento_porcentaje, activo)
		VALUES ($1, 'Boda completa', 200.00, 10, TRUE)
		RETURNING paquete_id`, "PAQ-"+suffix).Scan(&paqueteID); err != nil {
		t.Fatalf("seed paquete: %v", err)
	}
	return productoID, paqueteID
}

func migrationsDir() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", "..", "..", "migrations")
}
