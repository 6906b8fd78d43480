package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Afiliaciones de tenant. Determinan qué datos compartidos (puertos, componentes de precio)
// ve cada empresa además de los propios.
const (
	AffiliationRegular = "REGULAR"
	AffiliationNLE     = "NLE"
	AffiliationDummy   = "DUMMY" // trial: datos sembrados para prospectos
)

// Company representa un freight forwarder (tenant) del sistema.
type Company struct {
	ID                string
	Name              string
	TaxID             string
	Address           string
	Phone             string
	Email             string
	Status            string // active, suspended, inactive
	Affiliation       string // ver constantes Affiliation*
	DefaultCurrency   string // ISO 4217
	DefaultTaxRate    decimal.Decimal
	InvoicePrefix     string
	NotificationEmail string     // buzón de operaciones que recibe RFQs nuevos
	TrialEndsAt       *time.Time // solo DUMMY
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// IsDummy informa si la empresa es una cuenta de prueba.
func (c *Company) IsDummy() bool {
	return c != nil && c.Affiliation == AffiliationDummy
}

// IsTrialExpired informa si la empresa DUMMY ya superó su periodo de prueba.
func (c *Company) IsTrialExpired(now time.Time) bool {
	if !c.IsDummy() || c.TrialEndsAt == nil {
		return false
	}
	return now.After(*c.TrialEndsAt)
}

// ValidAffiliation valida el tag de afiliación.
func ValidAffiliation(a string) bool {
	switch a {
	case AffiliationRegular, AffiliationNLE, AffiliationDummy:
		return true
	}
	return false
}

// Módulos SaaS disponibles (deben coincidir con el CHECK de la tabla company_modules).
const (
	ModuleCustomerPortal = "customer_portal"
	ModuleInvoicing      = "invoicing"
	ModuleDocuments      = "documents"
)

// ValidModule valida el nombre de un módulo.
func ValidModule(name string) bool {
	switch name {
	case ModuleCustomerPortal, ModuleInvoicing, ModuleDocuments:
		return true
	}
	return false
}

// CompanyModule representa la activación de un módulo SaaS en una empresa.
type CompanyModule struct {
	ID          string
	CompanyID   string
	ModuleName  string // ver constantes Module*
	IsActive    bool
	ActivatedAt time.Time
	ExpiresAt   *time.Time // nil = sin vencimiento
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
