package entity

import "time"

// Entidades a las que se adjuntan documentos.
const (
	DocEntityRFQ      = "rfq"
	DocEntityShipment = "shipment"
	DocEntityInvoice  = "invoice"
)

// ValidDocEntity valida el tipo de entidad.
func ValidDocEntity(t string) bool {
	return t == DocEntityRFQ || t == DocEntityShipment || t == DocEntityInvoice
}

// Document metadatos de un archivo guardado en el object storage (BL, AWB, packing list...).
type Document struct {
	ID                string
	CompanyID         string
	EntityType        string
	EntityID          string
	FileName          string
	ContentType       string
	SizeBytes         int64
	StorageKey        string
	VisibleToCustomer bool
	UploadedBy        string
	CreatedAt         time.Time
}
