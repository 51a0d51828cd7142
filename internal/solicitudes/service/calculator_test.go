package service

import (
	"testing"

	"rental_backend/internal/solicitudes/transport"
	"rental_backend/platform/apperr"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestCalculateQuote_SingleProductLine(t *testing.T) {
	result := CalculateQuote([]transport.SolicitudProductoRequest{
		{PrecioUnitario: dec("25.00"), CantidadSolicitada: 2, DiasRenta: 3, DepositoUnitario: dec("50.00")},
	}, nil)

	if got := result.Subtotal.StringFixed(2); got != "150.00" {
		t.Fatalf("expected subtotal 150.00, got %s", got)
	}
	if got := result.DepositoTotal.StringFixed(2); got != "100.00" {
		t.Fatalf("expected deposit 100.00, got %s", got)
	}
	if got := result.Impuestos.StringFixed(2); got != "28.50" {
		t.Fatalf("expected tax 28.50, got %s", got)
	}
	if got := result.Total.StringFixed(2); got != "178.50" {
		t.Fatalf("expected total 178.50, got %s", got)
	}
}

func TestCalculateQuote_DepositExcludedFromTotal(t *testing.T) {
	result := CalculateQuote([]transport.SolicitudProductoRequest{
		{PrecioUnitario: dec("10.00"), CantidadSolicitada: 1, DiasRenta: 1, DepositoUnitario: dec("1000.00")},
	}, nil)

	if !result.Total.Equal(dec("11.90")) {
		t.Fatalf("expected total 11.90, got %s", result.Total)
	}
	if !result.DepositoTotal.Equal(dec("1000")) {
		t.Fatalf("expected deposit 1000, got %s", result.DepositoTotal)
	}
}

func TestCalculateQuote_TaxRoundingEdgeCases(t *testing.T) {
	cases := []struct {
		price    string
		tax      string
		subtotal string
	}{
		// 33.335 * 0.19 = 6.33365
		{price: "33.335", tax: "6.33", subtotal: "33.335"},
		// 0.50 * 0.19 = 0.095, half rounds away from zero
		{price: "0.50", tax: "0.10", subtotal: "0.50"},
		// 10.01 * 0.19 = 1.9019
		{price: "10.01", tax: "1.90", subtotal: "10.01"},
		// 0.05 * 0.19 = 0.0095
		{price: "0.05", tax: "0.01", subtotal: "0.05"},
	}

	for _, tc := range cases {
		result := CalculateQuote(nil, []transport.SolicitudPaqueteRequest{
			{PrecioUnitario: dec(tc.price), CantidadSolicitada: 1, DiasRenta: 1},
		})
		if !result.Subtotal.Equal(dec(tc.subtotal)) {
			t.Fatalf("price %s: expected subtotal %s, got %s", tc.price, tc.subtotal, result.Subtotal)
		}
		if !result.Impuestos.Equal(dec(tc.tax)) {
			t.Fatalf("price %s: expected tax %s, got %s", tc.price, tc.tax, result.Impuestos)
		}
		if !result.Total.Equal(result.Subtotal.Add(result.Impuestos)) {
			t.Fatalf("price %s: total %s is not subtotal + tax", tc.price, result.Total)
		}
	}
}

func TestCalculateQuote_ProductsAndPackages(t *testing.T) {
	result := CalculateQuote(
		[]transport.SolicitudProductoRequest{
			{PrecioUnitario: dec("12.50"), CantidadSolicitada: 4, DiasRenta: 2, DepositoUnitario: dec("5.00")},
			{PrecioUnitario: dec("3.00"), CantidadSolicitada: 10, DiasRenta: 2},
		},
		[]transport.SolicitudPaqueteRequest{
			{PrecioUnitario: dec("200.00"), CantidadSolicitada: 1, DiasRenta: 2},
		},
	)

	if !result.SubtotalProductos.Equal(dec("160")) {
		t.Fatalf("expected product subtotal 160, got %s", result.SubtotalProductos)
	}
	if !result.SubtotalPaquetes.Equal(dec("400")) {
		t.Fatalf("expected package subtotal 400, got %s", result.SubtotalPaquetes)
	}
	if !result.Subtotal.Equal(dec("560")) {
		t.Fatalf("expected subtotal 560, got %s", result.Subtotal)
	}
	if !result.DepositoTotal.Equal(dec("20")) {
		t.Fatalf("expected deposit 20, got %s", result.DepositoTotal)
	}
	if !result.Impuestos.Equal(dec("106.40")) {
		t.Fatalf("expected tax 106.40, got %s", result.Impuestos)
	}
	if !result.Descuento.IsZero() {
		t.Fatalf("expected zero discount, got %s", result.Descuento)
	}
}

func TestCalculateQuote_Empty(t *testing.T) {
	result := CalculateQuote(nil, nil)
	if !result.Total.IsZero() || !result.Impuestos.IsZero() {
		t.Fatalf("expected zero quote, got total %s tax %s", result.Total, result.Impuestos)
	}
}

func TestVerifyLines_AcceptsCentTolerance(t *testing.T) {
	err := verifyLines([]transport.SolicitudProductoRequest{
		{PrecioUnitario: dec("33.33"), CantidadSolicitada: 1, DiasRenta: 1, Subtotal: dec("33.34")},
	}, nil)
	if err != nil {
		t.Fatalf("expected a one cent difference to pass, got %v", err)
	}
}

func TestVerifyLines_RejectsAmountsTheColumnsCannotHold(t *testing.T) {
	cases := []struct {
		name  string
		lines []transport.SolicitudProductoRequest
	}{
		{"three decimal price", []transport.SolicitudProductoRequest{
			{PrecioUnitario: dec("12.345"), CantidadSolicitada: 2, DiasRenta: 3, Subtotal: dec("74.07")},
		}},
		{"three decimal deposit", []transport.SolicitudProductoRequest{
			{PrecioUnitario: dec("10"), CantidadSolicitada: 1, DiasRenta: 1, Subtotal: dec("10"), DepositoUnitario: dec("0.005"), DepositoTotal: dec("0.01")},
		}},
		{"price beyond column", []transport.SolicitudProductoRequest{
			{PrecioUnitario: dec("10000000000"), CantidadSolicitada: 1, DiasRenta: 1, Subtotal: dec("10000000000")},
		}},
	}
	for _, tc := range cases {
		if err := verifyLines(tc.lines, nil); !apperr.Is(err, apperr.KindValidation) {
			t.Fatalf("%s: expected validation error, got %v", tc.name, err)
		}
	}

	err := verifyLines(nil, []transport.SolicitudPaqueteRequest{
		{PrecioUnitario: dec("1.001"), CantidadSolicitada: 1, DiasRenta: 1, Subtotal: dec("1.00")},
	})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error for package price, got %v", err)
	}
}

func TestCheckQuoteFits(t *testing.T) {
	big := CalculateQuote([]transport.SolicitudProductoRequest{
		{PrecioUnitario: dec("9999999999.99"), CantidadSolicitada: 100, DiasRenta: 1},
	}, nil)
	if err := checkQuoteFits(big); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error for oversized total, got %v", err)
	}
	if err := checkQuoteFits(CalculateQuote(nil, nil)); err != nil {
		t.Fatalf("empty quote should fit, got %v", err)
	}
}

func TestVerifyLines_RejectsMismatch(t *testing.T) {
	err := verifyLines([]transport.SolicitudProductoRequest{
		{PrecioUnitario: dec("25.00"), CantidadSolicitada: 2, DiasRenta: 3, Subtotal: dec("100.00")},
	}, nil)
	if !apperr.Is(err, apperr.KindComputationMismatch) {
		t.Fatalf("expected computation mismatch, got %v", err)
	}

	err = verifyLines([]transport.SolicitudProductoRequest{
		{PrecioUnitario: dec("25.00"), CantidadSolicitada: 2, DiasRenta: 3, Subtotal: dec("150.00"), DepositoUnitario: dec("50"), DepositoTotal: dec("300")},
	}, nil)
	if !apperr.Is(err, apperr.KindComputationMismatch) {
		t.Fatalf("expected deposit mismatch, got %v", err)
	}

	err = verifyLines(nil, []transport.SolicitudPaqueteRequest{
		{PrecioUnitario: dec("10"), CantidadSolicitada: 1, DiasRenta: 2, Subtotal: dec("10")},
	})
	if !apperr.Is(err, apperr.KindComputationMismatch) {
		t.Fatalf("expected package mismatch, got %v", err)
	}
}
