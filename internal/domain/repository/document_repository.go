package repository

import (
	"context"

	"github.com/jhoicas/Freight-api/internal/domain/entity"
)

// DocumentRepository metadatos de documentos adjuntos.
type DocumentRepository interface {
	Create(ctx context.Context, doc *entity.Document) error
	GetByID(ctx context.Context, id string) (*entity.Document, error)
	ListByEntity(ctx context.Context, companyID, entityType, entityID string) ([]*entity.Document, error)
	Delete(ctx context.Context, id string) error
}
