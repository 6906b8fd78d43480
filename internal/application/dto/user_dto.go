package dto

import "time"

// RegisterRequest alta de un usuario interno por un admin de la empresa.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name" validate:"omitempty,max=200"`
	Role     string `json:"role" validate:"omitempty,oneof=admin ops sales"`
}

// TrialSignupRequest registro público de una cuenta de prueba.
type TrialSignupRequest struct {
	CompanyName string `json:"company_name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	Name        string `json:"name"`
}

// InviteCustomerUserRequest alta de un usuario del portal para un cliente.
type InviteCustomerUserRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID         string    `json:"id"`
	CompanyID  string    `json:"company_id"`
	CustomerID string    `json:"customer_id,omitempty"`
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	Role       string    `json:"role"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// LoginRequest entrada para login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse salida con token JWT.
type LoginResponse struct {
	Token   string           `json:"token"`
	User    UserResponse     `json:"user"`
	Company *CompanyResponse `json:"company,omitempty"`
}
