package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Freight-api/internal/application/dto"
	"github.com/jhoicas/Freight-api/internal/application/usecase"
)

// CompanyHandler maneja el alta de empresas y los ajustes del tenant.
type CompanyHandler struct {
	uc      *usecase.CompanyUseCase
	modules *usecase.ModuleService
}

// NewCompanyHandler construye el handler inyectando los casos de uso.
func NewCompanyHandler(uc *usecase.CompanyUseCase, modules *usecase.ModuleService) *CompanyHandler {
	return &CompanyHandler{uc: uc, modules: modules}
}

// Create godoc
// @Summary      Crear empresa
// @Tags         companies
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateCompanyRequest  true  "Datos de la empresa"
// @Success      201   {object}  dto.CompanyResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/companies [post]
func (h *CompanyHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateCompanyRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Create(in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetMe godoc
// @Summary      Empresa del usuario autenticado con sus módulos
// @Tags         companies
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.CompanyResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/companies/me [get]
func (h *CompanyHandler) GetMe(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), GetCompanyID(c))
	if err != nil {
		return writeError(c, err)
	}
	if out == nil {
		return notFound(c, "empresa")
	}
	return c.JSON(out)
}

// UpdateMe PUT /api/companies/me
func (h *CompanyHandler) UpdateMe(c *fiber.Ctx) error {
	var in dto.UpdateCompanyRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.UpdateSettings(c.UserContext(), GetCompanyID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// SetModule godoc
// @Summary      Activar o desactivar un módulo SaaS (admin)
// @Tags         companies
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        module  path  string                true  "customer_portal | invoicing | documents"
// @Param        body    body  dto.SetModuleRequest  true  "active, expires_at"
// @Success      200     {object}  dto.ModuleResponse
// @Failure      400     {object}  dto.ErrorResponse
// @Router       /api/companies/me/modules/{module} [put]
func (h *CompanyHandler) SetModule(c *fiber.Ctx) error {
	var in dto.SetModuleRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.modules.SetModule(c.UserContext(), GetCompanyID(c), c.Params("module"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
