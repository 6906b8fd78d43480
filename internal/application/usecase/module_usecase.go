package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Freight-api/internal/application/dto"
	"github.com/jhoicas/Freight-api/internal/domain"
	"github.com/jhoicas/Freight-api/internal/domain/entity"
	"github.com/jhoicas/Freight-api/internal/domain/repository"
)

// ModuleService verifica qué módulos SaaS tiene activos una empresa.
// Es el único punto de la aplicación que conoce la lógica de activación de módulos.
type ModuleService struct {
	companyRepo repository.CompanyRepository
}

// NewModuleService construye el servicio de módulos.
func NewModuleService(companyRepo repository.CompanyRepository) *ModuleService {
	return &ModuleService{companyRepo: companyRepo}
}

// HasActiveModule informa si la empresa tiene el módulo activo y sin vencer.
// Devuelve false (sin error) si la empresa no tiene el módulo contratado.
// Devuelve error solo ante fallos de infraestructura (DB caída, timeout, etc.).
func (s *ModuleService) HasActiveModule(ctx context.Context, companyID, moduleName string) (bool, error) {
	if companyID == "" || moduleName == "" {
		return false, fmt.Errorf("module: companyID y moduleName son obligatorios")
	}
	return s.companyRepo.HasActiveModule(ctx, companyID, moduleName)
}

// SetModule activa o desactiva un módulo. Rechaza módulos desconocidos y vencimientos pasados.
func (s *ModuleService) SetModule(ctx context.Context, companyID, moduleName string, in dto.SetModuleRequest) (*dto.ModuleResponse, error) {
	if !entity.ValidModule(moduleName) {
		return nil, fmt.Errorf("%w: módulo %q desconocido", domain.ErrInvalidInput, moduleName)
	}
	if in.Active && in.ExpiresAt != nil && in.ExpiresAt.Before(time.Now()) {
		return nil, fmt.Errorf("%w: expires_at ya pasó", domain.ErrInvalidInput)
	}
	if err := s.companyRepo.SetModule(ctx, companyID, moduleName, in.Active, in.ExpiresAt); err != nil {
		return nil, err
	}
	return &dto.ModuleResponse{Module: moduleName, Active: in.Active, ExpiresAt: in.ExpiresAt}, nil
}
