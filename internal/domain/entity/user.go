package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin    = "admin"
	RoleOps      = "ops"      // operaciones: embarques y documentos
	RoleSales    = "sales"    // comercial: RFQs y ofertas
	RoleCustomer = "customer" // usuario del portal de clientes
)

// ValidStaffRole valida los roles asignables a usuarios internos.
func ValidStaffRole(r string) bool {
	switch r {
	case RoleAdmin, RoleOps, RoleSales:
		return true
	}
	return false
}

// User representa un usuario del sistema (pertenece a una Company).
// Los usuarios del portal (RoleCustomer) tienen CustomerID.
type User struct {
	ID           string
	CompanyID    string
	CustomerID   string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Role         string
	Status       string // active, inactive, suspended
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
