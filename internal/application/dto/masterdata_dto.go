package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PortRequest alta de un puerto propio del tenant.
type PortRequest struct {
	Code    string `json:"code"`
	Name    string `json:"name"`
	Country string `json:"country"`
	Kind    string `json:"kind"`
}

// PortResponse puerto en respuestas.
type PortResponse struct {
	Code    string `json:"code"`
	Name    string `json:"name"`
	Country string `json:"country"`
	Kind    string `json:"kind"`
	Shared  bool   `json:"shared"`
}

// CurrencyRateRequest actualización de tasa.
type CurrencyRateRequest struct {
	Name       string          `json:"name,omitempty"`
	Symbol     string          `json:"symbol,omitempty"`
	RateToBase decimal.Decimal `json:"rate_to_base"`
}

// CurrencyResponse moneda en respuestas.
type CurrencyResponse struct {
	Code       string          `json:"code"`
	Name       string          `json:"name"`
	Symbol     string          `json:"symbol"`
	RateToBase decimal.Decimal `json:"rate_to_base"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// PriceComponentRequest alta/edición de un componente de precio.
type PriceComponentRequest struct {
	Code            string `json:"code"`
	Name            string `json:"name"`
	Basis           string `json:"basis"`
	Taxable         bool   `json:"taxable"`
	DefaultCurrency string `json:"default_currency"`
}

// PriceComponentResponse componente de precio en respuestas.
type PriceComponentResponse struct {
	ID              string `json:"id"`
	Code            string `json:"code"`
	Name            string `json:"name"`
	Basis           string `json:"basis"`
	Taxable         bool   `json:"taxable"`
	DefaultCurrency string `json:"default_currency"`
	Active          bool   `json:"active"`
	Shared          bool   `json:"shared"`
}
