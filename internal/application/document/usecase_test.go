package document

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Freight-api/internal/application/dto"
	"github.com/jhoicas/Freight-api/internal/domain"
	"github.com/jhoicas/Freight-api/internal/domain/entity"
	"github.com/jhoicas/Freight-api/internal/domain/otif"
	"github.com/jhoicas/Freight-api/internal/testutil/memstore"
)

type memStorage struct {
	mu   sync.Mutex
	data map[string][]byte
}

func (m *memStorage) Put(_ context.Context, key string, r io.Reader) (int64, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = b
	return int64(len(b)), nil
}

func (m *memStorage) Open(_ context.Context, key string) (io.ReadCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.data[key]
	if !ok {
		return nil, errors.New("not found")
	}
	return io.NopCloser(bytes.NewReader(b)), nil
}

func (m *memStorage) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

var (
	ops   = dto.Actor{UserID: "u-ops", CompanyID: "co", Role: entity.RoleOps}
	buyer = dto.Actor{UserID: "u-buyer", CompanyID: "co", Role: entity.RoleCustomer, CustomerID: "cu-1"}
	other = dto.Actor{UserID: "u-other", CompanyID: "co", Role: entity.RoleCustomer, CustomerID: "cu-2"}
)

func newFixture(t *testing.T) (*UseCase, *memStorage, *memstore.Store) {
	t.Helper()
	store := memstore.New()
	require.NoError(t, store.Shipments().Create(context.Background(), &entity.Shipment{
		ID: "shp-1", CompanyID: "co", CustomerID: "cu-1", Reference: "SHP-2026-000001", Status: otif.StatusInTransit,
	}))
	storage := &memStorage{data: map[string][]byte{}}
	uc := NewUseCase(Deps{
		Documents: store.Documents(), RFQs: store.RFQs(), Shipments: store.Shipments(), Invoices: store.Invoices(),
		Storage: storage, MaxBytes: 16, Log: zerolog.Nop(),
	})
	uc.now = func() time.Time { return time.Date(2026, 4, 2, 8, 0, 0, 0, time.UTC) }
	return uc, storage, store
}

func upload(name, ct, body string, visible bool) UploadInput {
	return UploadInput{
		EntityType: "shipment", EntityID: "shp-1", FileName: name, ContentType: ct,
		Size: int64(len(body)), VisibleToCustomer: visible, Body: strings.NewReader(body),
	}
}

func TestUpload_GuardaConClaveDeEntidad(t *testing.T) {
	uc, storage, _ := newFixture(t)

	doc, err := uc.Upload(context.Background(), ops, upload("../BL 001.pdf", "application/pdf", "%PDF-1.4", true))
	require.NoError(t, err)

	assert.Equal(t, "BL 001.pdf", doc.FileName)
	assert.Equal(t, int64(8), doc.SizeBytes)
	assert.Contains(t, storage.data, "co/shipment/shp-1/"+doc.ID+".pdf")
}

func TestUpload_TipoPorExtension(t *testing.T) {
	uc, _, _ := newFixture(t)

	doc, err := uc.Upload(context.Background(), ops, upload("packing.xlsx", "application/octet-stream", "PK..", false))
	require.NoError(t, err)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", doc.ContentType)

	_, err = uc.Upload(context.Background(), ops, upload("script.sh", "text/x-shellscript", "#!/bin/sh", false))
	assert.ErrorIs(t, err, domain.ErrUnsupportedFile)
}

func TestUpload_Limites(t *testing.T) {
	uc, storage, store := newFixture(t)
	ctx := context.Background()

	_, err := uc.Upload(ctx, ops, upload("big.pdf", "application/pdf", strings.Repeat("x", 17), false))
	assert.ErrorIs(t, err, domain.ErrFileTooLarge)

	lying := upload("big.pdf", "application/pdf", strings.Repeat("x", 40), false)
	lying.Size = 4
	_, err = uc.Upload(ctx, ops, lying)
	assert.ErrorIs(t, err, domain.ErrFileTooLarge)
	assert.Empty(t, storage.data, "el archivo truncado se descarta")

	_, err = uc.Upload(ctx, dto.Actor{CompanyID: "otra", UserID: "x"}, upload("a.pdf", "application/pdf", "%PDF", false))
	assert.ErrorIs(t, err, domain.ErrNotFound)

	store.FailOn["documents.Create"] = errors.New("db")
	_, err = uc.Upload(ctx, ops, upload("a.pdf", "application/pdf", "%PDF", false))
	require.Error(t, err)
	assert.Empty(t, storage.data)
}

func TestPortal_SoloDocumentosVisiblesDeSuCliente(t *testing.T) {
	uc, _, _ := newFixture(t)
	ctx := context.Background()
	public, err := uc.Upload(ctx, ops, upload("bl.pdf", "application/pdf", "%PDF-bl", true))
	require.NoError(t, err)
	internal, err := uc.Upload(ctx, ops, upload("costos.csv", "text/csv", "a,b", false))
	require.NoError(t, err)

	list, err := uc.List(ctx, buyer, "shipment", "shp-1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, public.ID, list[0].ID)

	staffList, err := uc.List(ctx, ops, "shipment", "shp-1")
	require.NoError(t, err)
	assert.Len(t, staffList, 2)

	rc, meta, err := uc.Download(ctx, buyer, public.ID)
	require.NoError(t, err)
	body, _ := io.ReadAll(rc)
	_ = rc.Close()
	assert.Equal(t, "%PDF-bl", string(body))
	assert.Equal(t, "bl.pdf", meta.FileName)

	_, _, err = uc.Download(ctx, buyer, internal.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, _, err = uc.Download(ctx, other, public.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = uc.List(ctx, other, "shipment", "shp-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDelete(t *testing.T) {
	uc, storage, _ := newFixture(t)
	ctx := context.Background()
	doc, err := uc.Upload(ctx, ops, upload("bl.pdf", "application/pdf", "%PDF", true))
	require.NoError(t, err)

	assert.ErrorIs(t, uc.Delete(ctx, "otra", doc.ID), domain.ErrNotFound)
	require.NoError(t, uc.Delete(ctx, "co", doc.ID))
	assert.Empty(t, storage.data)

	_, _, err = uc.Download(ctx, ops, doc.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
