package repository

import "time"

// ListFilter criterios comunes de paginación, búsqueda y orden para los listados.
// Los repositorios ignoran los campos que no aplican a su tabla.
type ListFilter struct {
	Limit      int
	Offset     int
	Search     string
	Status     string
	CustomerID string // también fija el alcance del portal de clientes
	HideDrafts bool   // portal: excluye documentos en DRAFT
	From       *time.Time
	To         *time.Time
	SortBy     string
	SortDesc   bool
}
