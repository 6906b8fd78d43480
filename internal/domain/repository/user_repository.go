package repository

import "github.com/jhoicas/Freight-api/internal/domain/entity"

// UserRepository define el puerto de persistencia para User (DIP).
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id string) (*entity.User, error)
	GetByEmailAndCompany(email, companyID string) (*entity.User, error)
	Update(user *entity.User) error
	ListByCompany(companyID string, limit, offset int) ([]*entity.User, error)
	Delete(id string) error
	// ListByEmail busca en todas las empresas (login); un mismo email puede existir
	// en varios tenants. Orden: más antiguo primero.
	ListByEmail(email string) ([]*entity.User, error)
}
