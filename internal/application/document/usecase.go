package document

import (
	"context"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Freight-api/internal/application/dto"
	"github.com/jhoicas/Freight-api/internal/domain"
	"github.com/jhoicas/Freight-api/internal/domain/entity"
	"github.com/jhoicas/Freight-api/internal/domain/repository"
)

// Storage almacenamiento de objetos para los archivos adjuntos.
type Storage interface {
	// Put guarda el contenido y devuelve los bytes escritos.
	Put(ctx context.Context, key string, r io.Reader) (int64, error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

// Tipos de contenido aceptados y la extensión con que se guardan.
var allowed = map[string]string{
	"application/pdf": ".pdf",
	"image/png":       ".png",
	"image/jpeg":      ".jpg",
	"text/csv":        ".csv",
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":       ".xlsx",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": ".docx",
}

var byExtension = map[string]string{
	".pdf":  "application/pdf",
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".csv":  "text/csv",
	".xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

// Deps dependencias del caso de uso de documentos.
type Deps struct {
	Documents repository.DocumentRepository
	RFQs      repository.RFQRepository
	Shipments repository.ShipmentRepository
	Invoices  repository.InvoiceRepository
	Storage   Storage
	MaxBytes  int64
	Log       zerolog.Logger
}

// UseCase documentos adjuntos a RFQs, embarques y facturas.
type UseCase struct {
	Deps
	now func() time.Time
}

// NewUseCase construye el caso de uso.
func NewUseCase(deps Deps) *UseCase {
	return &UseCase{Deps: deps, now: time.Now}
}

// UploadInput archivo recibido por multipart.
type UploadInput struct {
	EntityType        string
	EntityID          string
	FileName          string
	ContentType       string
	Size              int64
	VisibleToCustomer bool
	Body              io.Reader
}

// Upload valida tamaño y tipo, guarda el archivo y registra sus metadatos.
func (uc *UseCase) Upload(ctx context.Context, actor dto.Actor, in UploadInput) (*dto.DocumentResponse, error) {
	entityType := strings.ToLower(strings.TrimSpace(in.EntityType))
	if !entity.ValidDocEntity(entityType) {
		return nil, fmt.Errorf("%w: entity_type %q no válido", domain.ErrInvalidInput, in.EntityType)
	}
	if in.Size > uc.MaxBytes {
		return nil, domain.ErrFileTooLarge
	}
	name := filepath.Base(strings.TrimSpace(in.FileName))
	if name == "." || name == "/" || name == "" {
		return nil, fmt.Errorf("%w: nombre de archivo requerido", domain.ErrInvalidInput)
	}
	contentType, ext, err := resolveType(in.ContentType, name)
	if err != nil {
		return nil, err
	}
	if _, err := uc.owner(ctx, actor.CompanyID, entityType, in.EntityID); err != nil {
		return nil, err
	}

	doc := &entity.Document{
		ID:                uuid.New().String(),
		CompanyID:         actor.CompanyID,
		EntityType:        entityType,
		EntityID:          in.EntityID,
		FileName:          name,
		ContentType:       contentType,
		VisibleToCustomer: in.VisibleToCustomer,
		UploadedBy:        actor.UserID,
		CreatedAt:         uc.now(),
	}
	doc.StorageKey = fmt.Sprintf("%s/%s/%s/%s%s", actor.CompanyID, entityType, in.EntityID, doc.ID, ext)

	// El tamaño declarado puede mentir: se lee como máximo un byte más del límite.
	n, err := uc.Storage.Put(ctx, doc.StorageKey, io.LimitReader(in.Body, uc.MaxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("storage: %w", err)
	}
	if n > uc.MaxBytes {
		uc.discard(ctx, doc.StorageKey)
		return nil, domain.ErrFileTooLarge
	}
	doc.SizeBytes = n
	if err := uc.Documents.Create(ctx, doc); err != nil {
		uc.discard(ctx, doc.StorageKey)
		return nil, err
	}
	uc.Log.Info().Str("company_id", actor.CompanyID).Str("key", doc.StorageKey).Int64("bytes", n).Msg("document: archivo guardado")
	return toResponse(doc), nil
}

func resolveType(declared, name string) (string, string, error) {
	ct := ""
	if declared != "" {
		if mt, _, err := mime.ParseMediaType(declared); err == nil {
			ct = strings.ToLower(mt)
		}
	}
	if ext, ok := allowed[ct]; ok {
		return ct, ext, nil
	}
	if ct == "" || ct == "application/octet-stream" {
		if byExt, ok := byExtension[strings.ToLower(filepath.Ext(name))]; ok {
			return byExt, allowed[byExt], nil
		}
	}
	return "", "", fmt.Errorf("%w: %s", domain.ErrUnsupportedFile, declared)
}

// List documentos de una entidad. El portal solo ve los marcados como visibles.
func (uc *UseCase) List(ctx context.Context, actor dto.Actor, entityType, entityID string) ([]dto.DocumentResponse, error) {
	entityType = strings.ToLower(entityType)
	if !entity.ValidDocEntity(entityType) {
		return nil, fmt.Errorf("%w: entity_type %q no válido", domain.ErrInvalidInput, entityType)
	}
	customerID, err := uc.owner(ctx, actor.CompanyID, entityType, entityID)
	if err != nil {
		return nil, err
	}
	if actor.IsCustomer() && customerID != actor.CustomerID {
		return nil, domain.ErrNotFound
	}
	docs, err := uc.Documents.ListByEntity(ctx, actor.CompanyID, entityType, entityID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.DocumentResponse, 0, len(docs))
	for _, d := range docs {
		if actor.IsCustomer() && !d.VisibleToCustomer {
			continue
		}
		out = append(out, *toResponse(d))
	}
	return out, nil
}

// Download abre el archivo. El llamador cierra el reader.
func (uc *UseCase) Download(ctx context.Context, actor dto.Actor, id string) (io.ReadCloser, *dto.DocumentResponse, error) {
	doc, err := uc.load(ctx, actor, id)
	if err != nil {
		return nil, nil, err
	}
	rc, err := uc.Storage.Open(ctx, doc.StorageKey)
	if err != nil {
		return nil, nil, fmt.Errorf("storage: %w", err)
	}
	return rc, toResponse(doc), nil
}

// Delete elimina metadatos y archivo.
func (uc *UseCase) Delete(ctx context.Context, companyID, id string) error {
	doc, err := uc.load(ctx, dto.Actor{CompanyID: companyID}, id)
	if err != nil {
		return err
	}
	if err := uc.Documents.Delete(ctx, doc.ID); err != nil {
		return err
	}
	uc.discard(ctx, doc.StorageKey)
	return nil
}

func (uc *UseCase) load(ctx context.Context, actor dto.Actor, id string) (*entity.Document, error) {
	doc, err := uc.Documents.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc == nil || doc.CompanyID != actor.CompanyID {
		return nil, fmt.Errorf("%w: documento no encontrado", domain.ErrNotFound)
	}
	if actor.IsCustomer() {
		if !doc.VisibleToCustomer {
			return nil, fmt.Errorf("%w: documento no encontrado", domain.ErrNotFound)
		}
		customerID, err := uc.owner(ctx, actor.CompanyID, doc.EntityType, doc.EntityID)
		if err != nil {
			return nil, err
		}
		if customerID != actor.CustomerID {
			return nil, fmt.Errorf("%w: documento no encontrado", domain.ErrNotFound)
		}
	}
	return doc, nil
}

// owner comprueba que la entidad exista en la empresa y devuelve su cliente.
func (uc *UseCase) owner(ctx context.Context, companyID, entityType, entityID string) (string, error) {
	var company, customer string
	switch entityType {
	case entity.DocEntityRFQ:
		r, err := uc.RFQs.GetByID(ctx, entityID)
		if err != nil {
			return "", err
		}
		if r != nil {
			company, customer = r.CompanyID, r.CustomerID
		}
	case entity.DocEntityShipment:
		s, err := uc.Shipments.GetByID(ctx, entityID)
		if err != nil {
			return "", err
		}
		if s != nil {
			company, customer = s.CompanyID, s.CustomerID
		}
	case entity.DocEntityInvoice:
		inv, err := uc.Invoices.GetByID(ctx, entityID)
		if err != nil {
			return "", err
		}
		if inv != nil {
			company, customer = inv.CompanyID, inv.CustomerID
		}
	}
	if company == "" || company != companyID {
		return "", fmt.Errorf("%w: %s no encontrado", domain.ErrNotFound, entityType)
	}
	return customer, nil
}

func (uc *UseCase) discard(ctx context.Context, key string) {
	if err := uc.Storage.Delete(ctx, key); err != nil {
		uc.Log.Warn().Err(err).Str("key", key).Msg("document: no se pudo borrar el archivo")
	}
}

func toResponse(d *entity.Document) *dto.DocumentResponse {
	return &dto.DocumentResponse{
		ID:                d.ID,
		EntityType:        d.EntityType,
		EntityID:          d.EntityID,
		FileName:          d.FileName,
		ContentType:       d.ContentType,
		SizeBytes:         d.SizeBytes,
		VisibleToCustomer: d.VisibleToCustomer,
		CreatedAt:         d.CreatedAt,
	}
}
