package dto

// PageResponse metadatos de página en respuestas.
type PageResponse struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Total  int `json:"total"`
}

// ListResponse lista paginada genérica.
type ListResponse[T any] struct {
	Items []T          `json:"items"`
	Page  PageResponse `json:"page"`
}

// NewList arma la respuesta paginada garantizando items no nulos en el JSON.
func NewList[T any](items []T, limit, offset, total int) *ListResponse[T] {
	if items == nil {
		items = []T{}
	}
	return &ListResponse[T]{Items: items, Page: PageResponse{Limit: limit, Offset: offset, Total: total}}
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Actor quién ejecuta la operación (extraído del JWT). Los usuarios del portal traen CustomerID.
type Actor struct {
	UserID     string
	CompanyID  string
	Role       string
	CustomerID string
}

// IsCustomer informa si el actor es un usuario del portal de clientes.
func (a Actor) IsCustomer() bool {
	return a.Role == "customer"
}

// ListQuery parámetros de consulta de los listados (?limit=&offset=&search=&status=...).
// From y To en formato YYYY-MM-DD; SortDir asc|desc.
type ListQuery struct {
	Limit      int    `query:"limit"`
	Offset     int    `query:"offset"`
	Search     string `query:"search"`
	Status     string `query:"status"`
	CustomerID string `query:"customer_id"`
	Kind       string `query:"kind"`
	Country    string `query:"country"`
	From       string `query:"from"`
	To         string `query:"to"`
	SortBy     string `query:"sort_by"`
	SortDir    string `query:"sort_dir"`
}
