package dto

// CustomerRequest body para POST/PUT /api/customers.
type CustomerRequest struct {
	Name            string `json:"name"`
	TaxID           string `json:"tax_id"`
	Email           string `json:"email,omitempty"`
	Phone           string `json:"phone,omitempty"`
	Address         string `json:"address,omitempty"`
	Country         string `json:"country,omitempty"`
	PaymentTermDays *int   `json:"payment_term_days,omitempty"`
	NotifyShipments *bool  `json:"notify_shipments,omitempty"`
}

// CustomerResponse cliente en respuestas.
type CustomerResponse struct {
	ID              string `json:"id"`
	CompanyID       string `json:"company_id"`
	Name            string `json:"name"`
	TaxID           string `json:"tax_id"`
	Email           string `json:"email,omitempty"`
	Phone           string `json:"phone,omitempty"`
	Address         string `json:"address,omitempty"`
	Country         string `json:"country,omitempty"`
	PaymentTermDays int    `json:"payment_term_days"`
	NotifyShipments bool   `json:"notify_shipments"`
}

// VendorRequest body para POST/PUT /api/vendors.
type VendorRequest struct {
	Name    string `json:"name"`
	TaxID   string `json:"tax_id,omitempty"`
	Kind    string `json:"kind"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Country string `json:"country,omitempty"`
}

// VendorResponse proveedor en respuestas.
type VendorResponse struct {
	ID        string `json:"id"`
	CompanyID string `json:"company_id"`
	Name      string `json:"name"`
	TaxID     string `json:"tax_id,omitempty"`
	Kind      string `json:"kind"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Country   string `json:"country,omitempty"`
}
