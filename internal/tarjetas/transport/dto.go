package transport

import (
	"time"

	"github.com/google/uuid"
)

// Card types and brands accepted by the vault.
const (
	TipoCredito = "credito"
	TipoDebito  = "debito"

	MarcaVisa       = "visa"
	MarcaMastercard = "mastercard"
	MarcaAmex       = "amex"
	MarcaOtro       = "otro"
)

// CreateTarjetaRequest carries the full card number and CVV for
// tokenization only. Neither is stored.
type CreateTarjetaRequest struct {
	TipoTarjeta      string `json:"tipoTarjeta" validate:"required,oneof=credito debito"`
	Marca            string `json:"marca" validate:"required,oneof=visa mastercard amex otro"`
	NumeroTarjeta    string `json:"numeroTarjeta" validate:"required,card_number"`
	CVV              string `json:"cvv" validate:"required,numeric,min=3,max=4"`
	NombreTitular    string `json:"nombreTitular" validate:"required,min=3,max=200"`
	MesExpiracion    int    `json:"mesExpiracion" validate:"required,min=1,max=12"`
	AnioExpiracion   int    `json:"anioExpiracion" validate:"required,min=2000,max=2100"`
	EsPredeterminada bool   `json:"esPredeterminada"`
}

// UpdateTarjetaRequest is the card patch. Nil fields are left untouched.
type UpdateTarjetaRequest struct {
	NombreTitular    *string `json:"nombreTitular" validate:"omitempty,min=3,max=200"`
	MesExpiracion    *int    `json:"mesExpiracion" validate:"omitempty,min=1,max=12"`
	AnioExpiracion   *int    `json:"anioExpiracion" validate:"omitempty,min=2000,max=2100"`
	EsPredeterminada *bool   `json:"esPredeterminada"`
}

// TarjetaResponse is a stored card. The gateway token is never exposed.
type TarjetaResponse struct {
	ID                 int64     `json:"id"`
	UsuarioID          uuid.UUID `json:"usuarioId"`
	TipoTarjeta        string    `json:"tipoTarjeta"`
	Marca              string    `json:"marca"`
	UltimosDigitos     string    `json:"ultimosDigitos"`
	NombreTitular      string    `json:"nombreTitular"`
	MesExpiracion      int       `json:"mesExpiracion"`
	AnioExpiracion     int       `json:"anioExpiracion"`
	EsPredeterminada   bool      `json:"esPredeterminada"`
	Activa             bool      `json:"activa"`
	FechaCreacion      time.Time `json:"fechaCreacion"`
	FechaActualizacion time.Time `json:"fechaActualizacion"`
	EstaExpirada       bool      `json:"estaExpirada"`
	ExpiraPronto       bool      `json:"expiraPronto"`
}

// TarjetaListResponse lists a user's active cards, default first.
type TarjetaListResponse struct {
	Items []TarjetaResponse `json:"items"`
	Total int               `json:"total"`
}
