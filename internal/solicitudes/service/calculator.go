package service

import (
	"fmt"

	"rental_backend/internal/solicitudes/transport"
	"rental_backend/platform/apperr"
	"rental_backend/platform/validator"

	"github.com/shopspring/decimal"
)

var (
	// TaxRate is the IVA applied to the rental subtotal.
	TaxRate = decimal.RequireFromString("0.19")

	// lineTolerance bounds the accepted difference between a submitted line
	// amount and its recomputation.
	lineTolerance = decimal.RequireFromString("0.01")
)

// QuoteResult holds the computed financial fields of a request.
type QuoteResult struct {
	SubtotalProductos decimal.Decimal
	SubtotalPaquetes  decimal.Decimal
	Subtotal          decimal.Decimal
	Descuento         decimal.Decimal
	Impuestos         decimal.Decimal
	DepositoTotal     decimal.Decimal
	Total             decimal.Decimal
}

// LineSubtotal returns precio * cantidad * dias.
func LineSubtotal(precio decimal.Decimal, cantidad, dias int) decimal.Decimal {
	return precio.Mul(decimal.NewFromInt(int64(cantidad))).Mul(decimal.NewFromInt(int64(dias)))
}

// LineDeposit returns the deposit of a product line. Deposits are per unit
// and not multiplied by rental days.
func LineDeposit(depositoUnitario decimal.Decimal, cantidad int) decimal.Decimal {
	return depositoUnitario.Mul(decimal.NewFromInt(int64(cantidad)))
}

// CalculateQuote computes subtotal, tax, deposit and total for a set of lines.
// Only the tax is rounded; the deposit is reported but not part of Total.
func CalculateQuote(productos []transport.SolicitudProductoRequest, paquetes []transport.SolicitudPaqueteRequest) QuoteResult {
	subtotalProductos := decimal.Zero
	depositoTotal := decimal.Zero
	for _, p := range productos {
		subtotalProductos = subtotalProductos.Add(LineSubtotal(p.PrecioUnitario, p.CantidadSolicitada, p.DiasRenta))
		depositoTotal = depositoTotal.Add(LineDeposit(p.DepositoUnitario, p.CantidadSolicitada))
	}

	subtotalPaquetes := decimal.Zero
	for _, p := range paquetes {
		subtotalPaquetes = subtotalPaquetes.Add(LineSubtotal(p.PrecioUnitario, p.CantidadSolicitada, p.DiasRenta))
	}

	subtotal := subtotalProductos.Add(subtotalPaquetes)
	impuestos := subtotal.Mul(TaxRate).Round(2)

	return QuoteResult{
		SubtotalProductos: subtotalProductos,
		SubtotalPaquetes:  subtotalPaquetes,
		Subtotal:          subtotal,
		Descuento:         decimal.Zero,
		Impuestos:         impuestos,
		DepositoTotal:     depositoTotal,
		Total:             subtotal.Add(impuestos),
	}
}

// verifyLines rejects lines whose submitted amounts disagree with the
// recomputation by more than a cent.
func verifyLines(productos []transport.SolicitudProductoRequest, paquetes []transport.SolicitudPaqueteRequest) error {
	if err := checkLineAmounts(productos, paquetes); err != nil {
		return err
	}
	for i, p := range productos {
		expected := LineSubtotal(p.PrecioUnitario, p.CantidadSolicitada, p.DiasRenta)
		if !withinTolerance(p.Subtotal, expected) {
			return mismatch(fmt.Sprintf("productos[%d].subtotal", i), p.Subtotal, expected)
		}
		expectedDeposit := LineDeposit(p.DepositoUnitario, p.CantidadSolicitada)
		if !withinTolerance(p.DepositoTotal, expectedDeposit) {
			return mismatch(fmt.Sprintf("productos[%d].depositoTotal", i), p.DepositoTotal, expectedDeposit)
		}
	}
	for i, p := range paquetes {
		expected := LineSubtotal(p.PrecioUnitario, p.CantidadSolicitada, p.DiasRenta)
		if !withinTolerance(p.Subtotal, expected) {
			return mismatch(fmt.Sprintf("paquetes[%d].subtotal", i), p.Subtotal, expected)
		}
	}
	return nil
}

// checkLineAmounts holds every submitted amount to the NUMERIC(12,2) columns
// it is stored in.
func checkLineAmounts(productos []transport.SolicitudProductoRequest, paquetes []transport.SolicitudPaqueteRequest) error {
	for i, p := range productos {
		fields := map[string]decimal.Decimal{
			"precioUnitario":   p.PrecioUnitario,
			"subtotal":         p.Subtotal,
			"depositoUnitario": p.DepositoUnitario,
			"depositoTotal":    p.DepositoTotal,
		}
		for name, amount := range fields {
			if err := checkAmount(fmt.Sprintf("productos[%d].%s", i, name), amount); err != nil {
				return err
			}
		}
	}
	for i, p := range paquetes {
		if err := checkAmount(fmt.Sprintf("paquetes[%d].precioUnitario", i), p.PrecioUnitario); err != nil {
			return err
		}
		if err := checkAmount(fmt.Sprintf("paquetes[%d].subtotal", i), p.Subtotal); err != nil {
			return err
		}
	}
	return nil
}

func checkAmount(field string, amount decimal.Decimal) error {
	switch {
	case amount.IsNegative():
		return apperr.Validation(field + " must not be negative")
	case !validator.HasMoneyScale(amount):
		return apperr.Validation(field + " must have at most two decimal places")
	case !validator.FitsMoneyColumn(amount):
		return apperr.Validation(field + " exceeds the maximum amount")
	}
	return nil
}

// checkQuoteFits rejects quotes whose header totals cannot be stored.
func checkQuoteFits(q QuoteResult) error {
	if !validator.FitsMoneyColumn(q.Total) || !validator.FitsMoneyColumn(q.DepositoTotal) {
		return apperr.Validation("quote total exceeds the maximum amount")
	}
	return nil
}

func withinTolerance(got, expected decimal.Decimal) bool {
	return got.Sub(expected).Abs().LessThanOrEqual(lineTolerance)
}

func mismatch(field string, got, expected decimal.Decimal) error {
	return apperr.ComputationMismatch(field + " does not match the recomputed amount").
		WithDetails(map[string]string{
			"field":    field,
			"got":      got.StringFixed(2),
			"expected": expected.StringFixed(2),
		})
}

func toQuoteResponse(q QuoteResult) transport.QuoteCalculationResponse {
	return transport.QuoteCalculationResponse{
		SubtotalProductos: money(q.SubtotalProductos),
		SubtotalPaquetes:  money(q.SubtotalPaquetes),
		Subtotal:          money(q.Subtotal),
		Descuento:         money(q.Descuento),
		Impuestos:         money(q.Impuestos),
		DepositoTotal:     money(q.DepositoTotal),
		Total:             money(q.Total),
	}
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}
