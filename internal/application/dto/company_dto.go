package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateCompanyRequest entrada para crear una empresa.
type CreateCompanyRequest struct {
	Name            string `json:"name" validate:"required,min=1,max=200"`
	TaxID           string `json:"tax_id" validate:"required,min=1,max=30"`
	Address         string `json:"address"`
	Phone           string `json:"phone"`
	Email           string `json:"email" validate:"omitempty,email"`
	Affiliation     string `json:"affiliation,omitempty"`
	DefaultCurrency string `json:"default_currency,omitempty"`
}

// UpdateCompanyRequest ajustes de la empresa (campos opcionales).
type UpdateCompanyRequest struct {
	Name              *string          `json:"name"`
	Address           *string          `json:"address"`
	Phone             *string          `json:"phone"`
	Email             *string          `json:"email"`
	DefaultCurrency   *string          `json:"default_currency"`
	DefaultTaxRate    *decimal.Decimal `json:"default_tax_rate"` // 0.19 o 19; 1 = 100%
	InvoicePrefix     *string          `json:"invoice_prefix"`
	NotificationEmail *string          `json:"notification_email"`
}

// SetModuleRequest activa o desactiva un módulo.
type SetModuleRequest struct {
	Active    bool       `json:"active"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// ModuleResponse estado de un módulo.
type ModuleResponse struct {
	Module    string     `json:"module"`
	Active    bool       `json:"active"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// CompanyResponse salida de una empresa (sin datos sensibles).
type CompanyResponse struct {
	ID                string           `json:"id"`
	Name              string           `json:"name"`
	TaxID             string           `json:"tax_id"`
	Address           string           `json:"address"`
	Phone             string           `json:"phone"`
	Email             string           `json:"email"`
	Status            string           `json:"status"`
	Affiliation       string           `json:"affiliation"`
	DefaultCurrency   string           `json:"default_currency"`
	DefaultTaxRate    decimal.Decimal  `json:"default_tax_rate"`
	InvoicePrefix     string           `json:"invoice_prefix"`
	NotificationEmail string           `json:"notification_email,omitempty"`
	TrialEndsAt       *time.Time       `json:"trial_ends_at,omitempty"`
	Modules           []ModuleResponse `json:"modules,omitempty"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
}
