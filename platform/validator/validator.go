// Package validator provides validation infrastructure for the application.
// This is part of the platform layer and contains no business logic.
package validator

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Validator wraps the go-playground validator.
// New registers the money and card validations used by the request DTOs.
type Validator struct {
	v *validator.Validate
}

// New creates a Validator with the shared custom rules registered.
func New() *Validator {
	v := validator.New()
	v.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})
	// Registration only fails on an empty tag or nil func.
	_ = v.RegisterValidation("decimal_gt0", decimalGreaterThanZero)
	_ = v.RegisterValidation("decimal_gte0", decimalNotNegative)
	_ = v.RegisterValidation("decimal_scale2", decimalScale2)
	_ = v.RegisterValidation("decimal_numeric12", decimalFitsColumn)
	_ = v.RegisterValidation("card_number", cardNumber)
	return &Validator{v: v}
}

// Struct validates a struct based on validation tags.
func (val *Validator) Struct(s interface{}) error {
	return val.v.Struct(s)
}

// Var validates a single variable against a tag.
func (val *Validator) Var(field interface{}, tag string) error {
	return val.v.Var(field, tag)
}

// RegisterValidation registers a custom validation function.
func (val *Validator) RegisterValidation(tag string, fn validator.Func) error {
	return val.v.RegisterValidation(tag, fn)
}

// MaxMoney is the exclusive bound of a NUMERIC(12,2) column.
var MaxMoney = decimal.New(1, 10)

// HasMoneyScale reports whether d has no more than two decimal places.
func HasMoneyScale(d decimal.Decimal) bool {
	return d.Equal(d.Round(2))
}

// FitsMoneyColumn reports whether d is storable in a NUMERIC(12,2) column.
func FitsMoneyColumn(d decimal.Decimal) bool {
	return d.Abs().LessThan(MaxMoney)
}

// NormalizeCardNumber strips spaces and hyphens from a card number.
func NormalizeCardNumber(raw string) string {
	return strings.NewReplacer(" ", "", "-", "").Replace(raw)
}

// IsValidCardNumber reports whether raw is 13-19 digits once normalized.
func IsValidCardNumber(raw string) bool {
	n := NormalizeCardNumber(raw)
	if len(n) < 13 || len(n) > 19 {
		return false
	}
	for _, r := range n {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func decimalGreaterThanZero(fl validator.FieldLevel) bool {
	d, ok := fieldDecimal(fl)
	return ok && d.IsPositive()
}

func decimalNotNegative(fl validator.FieldLevel) bool {
	d, ok := fieldDecimal(fl)
	return ok && !d.IsNegative()
}

func decimalScale2(fl validator.FieldLevel) bool {
	d, ok := fieldDecimal(fl)
	return ok && HasMoneyScale(d)
}

func decimalFitsColumn(fl validator.FieldLevel) bool {
	d, ok := fieldDecimal(fl)
	return ok && FitsMoneyColumn(d)
}

func cardNumber(fl validator.FieldLevel) bool {
	return IsValidCardNumber(fl.Field().String())
}

// decimalValue exposes decimal.Decimal fields to rules as their string form.
func decimalValue(field reflect.Value) interface{} {
	if d, ok := field.Interface().(decimal.Decimal); ok {
		return d.String()
	}
	return nil
}

func fieldDecimal(fl validator.FieldLevel) (decimal.Decimal, bool) {
	if fl.Field().Kind() != reflect.String {
		return decimal.Decimal{}, false
	}
	d, err := decimal.NewFromString(fl.Field().String())
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}
