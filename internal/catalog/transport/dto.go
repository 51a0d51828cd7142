// Package transport defines the catalog response types.
package transport

// ListProductosRequest filters the product listing.
type ListProductosRequest struct {
	Estado string `form:"estado" validate:"omitempty,oneof=disponible mantenimiento inactivo"`
}

// ListPaquetesRequest filters the package listing. Inactive packages are
// only listed when IncluirInactivos is set.
type ListPaquetesRequest struct {
	IncluirInactivos bool `form:"incluirInactivos"`
}

// ProductoResponse is a catalog product. Amounts are fixed two-decimal strings.
type ProductoResponse struct {
	ID               int64  `json:"id"`
	Codigo           string `json:"codigo"`
	Nombre           string `json:"nombre"`
	PrecioPorDia     string `json:"precioPorDia"`
	MontoDeposito    string `json:"montoDeposito"`
	RequiereDeposito bool   `json:"requiereDeposito"`
	Estado           string `json:"estado"`
	Stock            int    `json:"stock"`
}

// PaqueteResponse is a catalog package.
type PaqueteResponse struct {
	ID                  int64  `json:"id"`
	Codigo              string `json:"codigo"`
	Nombre              string `json:"nombre"`
	PrecioPorDia        string `json:"precioPorDia"`
	DescuentoPorcentaje string `json:"descuentoPorcentaje"`
	Activo              bool   `json:"activo"`
}

type ProductoListResponse struct {
	Items []ProductoResponse `json:"items"`
	Total int                `json:"total"`
}

type PaqueteListResponse struct {
	Items []PaqueteResponse `json:"items"`
	Total int               `json:"total"`
}
