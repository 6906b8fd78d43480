package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Freight-api/internal/domain/entity"
	"github.com/jhoicas/Freight-api/internal/domain/repository"
)

var _ repository.DocumentRepository = (*DocumentRepo)(nil)

// DocumentRepo metadatos de documentos; el contenido vive en el object storage.
type DocumentRepo struct {
	q Querier
}

func NewDocumentRepository(q Querier) *DocumentRepo { return &DocumentRepo{q: q} }

const documentColumns = `id, company_id, entity_type, entity_id, file_name, content_type, size_bytes,
	storage_key, visible_to_customer, uploaded_by, created_at`

func scanDocument(row interface{ Scan(...any) error }) (*entity.Document, error) {
	var d entity.Document
	if err := row.Scan(&d.ID, &d.CompanyID, &d.EntityType, &d.EntityID, &d.FileName, &d.ContentType, &d.SizeBytes,
		&d.StorageKey, &d.VisibleToCustomer, &d.UploadedBy, &d.CreatedAt); err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *DocumentRepo) Create(ctx context.Context, d *entity.Document) error {
	_, err := r.q.Exec(ctx, `INSERT INTO documents (`+documentColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		d.ID, d.CompanyID, d.EntityType, d.EntityID, d.FileName, d.ContentType, d.SizeBytes, d.StorageKey,
		d.VisibleToCustomer, d.UploadedBy, d.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert document: %w", err)
	}
	return nil
}

func (r *DocumentRepo) GetByID(ctx context.Context, id string) (*entity.Document, error) {
	d, err := scanDocument(r.q.QueryRow(ctx, `SELECT `+documentColumns+` FROM documents WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get document: %w", err)
	}
	return d, nil
}

func (r *DocumentRepo) ListByEntity(ctx context.Context, companyID, entityType, entityID string) ([]*entity.Document, error) {
	rows, err := r.q.Query(ctx, `SELECT `+documentColumns+` FROM documents
		WHERE company_id = $1 AND entity_type = $2 AND entity_id = $3 ORDER BY created_at DESC`,
		companyID, entityType, entityID)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()
	var list []*entity.Document
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		list = append(list, d)
	}
	return list, rows.Err()
}

func (r *DocumentRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM documents WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	return nil
}
