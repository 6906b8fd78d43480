package entity

import "time"

// DefaultPaymentTermDays plazo de pago por defecto (neto 30).
const DefaultPaymentTermDays = 30

// Customer representa un cliente (embarcador/consignatario) del freight forwarder.
type Customer struct {
	ID              string
	CompanyID       string
	Name            string
	TaxID           string
	Email           string
	Phone           string
	Address         string
	Country         string // ISO 3166 alpha-2
	PaymentTermDays int
	NotifyShipments bool // recibe correos de cambios de estado del embarque
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
