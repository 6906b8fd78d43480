package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Freight-api/internal/application/dto"
	"github.com/jhoicas/Freight-api/internal/domain"
	"github.com/jhoicas/Freight-api/internal/domain/entity"
	"github.com/jhoicas/Freight-api/internal/domain/repository"
	"github.com/jhoicas/Freight-api/pkg/taxid"
)

// VendorUseCase casos de uso para proveedores (navieras, agentes, transportistas).
type VendorUseCase struct {
	repo repository.VendorRepository
	now  func() time.Time
}

func NewVendorUseCase(repo repository.VendorRepository) *VendorUseCase {
	return &VendorUseCase{repo: repo, now: time.Now}
}

func (uc *VendorUseCase) Create(ctx context.Context, companyID string, in dto.VendorRequest) (*dto.VendorResponse, error) {
	if err := validateVendor(&in); err != nil {
		return nil, err
	}
	now := uc.now()
	v := &entity.Vendor{ID: uuid.New().String(), CompanyID: companyID, CreatedAt: now, UpdatedAt: now}
	applyVendor(v, in)
	if err := uc.repo.Create(ctx, v); err != nil {
		return nil, err
	}
	return toVendorResponse(v), nil
}

func (uc *VendorUseCase) Get(ctx context.Context, companyID, id string) (*dto.VendorResponse, error) {
	v, err := uc.load(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	return toVendorResponse(v), nil
}

// List lista proveedores; f.Status filtra por tipo.
func (uc *VendorUseCase) List(ctx context.Context, companyID string, f repository.ListFilter) (*dto.ListResponse[dto.VendorResponse], error) {
	list, total, err := uc.repo.ListByCompany(ctx, companyID, f)
	if err != nil {
		return nil, err
	}
	items := make([]dto.VendorResponse, 0, len(list))
	for _, v := range list {
		items = append(items, *toVendorResponse(v))
	}
	return dto.NewList(items, f.Limit, f.Offset, total), nil
}

func (uc *VendorUseCase) Update(ctx context.Context, companyID, id string, in dto.VendorRequest) (*dto.VendorResponse, error) {
	v, err := uc.load(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if err := validateVendor(&in); err != nil {
		return nil, err
	}
	applyVendor(v, in)
	v.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, v); err != nil {
		return nil, err
	}
	return toVendorResponse(v), nil
}

func (uc *VendorUseCase) Delete(ctx context.Context, companyID, id string) error {
	if _, err := uc.load(ctx, companyID, id); err != nil {
		return err
	}
	return uc.repo.Delete(ctx, id)
}

func (uc *VendorUseCase) load(ctx context.Context, companyID, id string) (*entity.Vendor, error) {
	v, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if v == nil || v.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	return v, nil
}

func validateVendor(in *dto.VendorRequest) error {
	in.Name = strings.TrimSpace(in.Name)
	in.Kind = strings.ToLower(strings.TrimSpace(in.Kind))
	if in.Name == "" {
		return fmt.Errorf("%w: name es requerido", domain.ErrInvalidInput)
	}
	if !entity.ValidVendorKind(in.Kind) {
		return fmt.Errorf("%w: kind %q no válido", domain.ErrInvalidInput, in.Kind)
	}
	if err := taxid.Validate(in.Country, in.TaxID); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	return nil
}

func applyVendor(v *entity.Vendor, in dto.VendorRequest) {
	v.Name = in.Name
	v.TaxID = strings.TrimSpace(in.TaxID)
	v.Kind = in.Kind
	v.Email = strings.TrimSpace(in.Email)
	v.Phone = in.Phone
	v.Country = strings.ToUpper(in.Country)
}

func toVendorResponse(v *entity.Vendor) *dto.VendorResponse {
	return &dto.VendorResponse{
		ID:        v.ID,
		CompanyID: v.CompanyID,
		Name:      v.Name,
		TaxID:     v.TaxID,
		Kind:      v.Kind,
		Email:     v.Email,
		Phone:     v.Phone,
		Country:   v.Country,
	}
}
