package db

import (
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestMigrateURLRewritesPostgresScheme(t *testing.T) {
	cases := map[string]string{
		"postgres://u:p@localhost:5432/rental":   "pgx5://u:p@localhost:5432/rental",
		"postgresql://u:p@localhost:5432/rental": "pgx5://u:p@localhost:5432/rental",
		"pgx5://localhost/rental":                "pgx5://localhost/rental",
	}
	for in, want := range cases {
		if got := migrateURL(in); got != want {
			t.Fatalf("migrateURL(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestPgErrorClassification(t *testing.T) {
	unique := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505", ConstraintName: "solicitudes_numero_solicitud_key"})
	fk := &pgconn.PgError{Code: "23503"}

	if !IsUniqueViolation(unique, "solicitudes_numero_solicitud_key") {
		t.Fatal("expected wrapped unique violation to match constraint")
	}
	if IsUniqueViolation(unique, "pagos_numero_transaccion_key") {
		t.Fatal("expected constraint name mismatch to be rejected")
	}
	if !IsForeignKeyViolation(fk) {
		t.Fatal("expected foreign key violation")
	}
	if !IsCheckViolation(fmt.Errorf("insert pago: %w", &pgconn.PgError{Code: "23514", ConstraintName: "pagos_monto_check"})) {
		t.Fatal("expected wrapped check violation")
	}
	if IsCheckViolation(fk) {
		t.Fatal("foreign key violation must not classify as check violation")
	}
	if IsForeignKeyViolation(fmt.Errorf("boom")) {
		t.Fatal("plain error must not classify as foreign key violation")
	}
}
