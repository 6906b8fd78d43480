package dto

import "time"

// DocumentResponse metadatos de un documento.
type DocumentResponse struct {
	ID                string    `json:"id"`
	EntityType        string    `json:"entity_type"`
	EntityID          string    `json:"entity_id"`
	FileName          string    `json:"file_name"`
	ContentType       string    `json:"content_type"`
	SizeBytes         int64     `json:"size_bytes"`
	VisibleToCustomer bool      `json:"visible_to_customer"`
	CreatedAt         time.Time `json:"created_at"`
}
