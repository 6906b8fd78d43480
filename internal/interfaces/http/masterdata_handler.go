package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Freight-api/internal/application/dto"
	"github.com/jhoicas/Freight-api/internal/application/usecase"
	"github.com/jhoicas/Freight-api/internal/domain/repository"
)

// MasterDataHandler catálogos: puertos, monedas y conceptos de cobro.
type MasterDataHandler struct {
	uc *usecase.MasterDataUseCase
}

// NewMasterDataHandler construye el handler.
func NewMasterDataHandler(uc *usecase.MasterDataUseCase) *MasterDataHandler {
	return &MasterDataHandler{uc: uc}
}

// ListPorts godoc
// @Summary      Puertos visibles para la empresa (compartidos según afiliación + propios)
// @Tags         masterdata
// @Security     Bearer
// @Produce      json
// @Param        kind     query  string  false  "sea | air | inland"
// @Param        country  query  string  false  "ISO 3166 alpha-2"
// @Param        search   query  string  false  "código o nombre"
// @Success      200  {object}  dto.ListResponse[dto.PortResponse]
// @Router       /api/ports [get]
func (h *MasterDataHandler) ListPorts(c *fiber.Ctx) error {
	q, f, err := parseListQuery(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.ListPorts(c.UserContext(), GetCompanyID(c), repository.PortFilter{
		ListFilter: f,
		Kind:       strings.ToLower(q.Kind),
		Country:    strings.ToUpper(q.Country),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetPort GET /api/ports/:code
func (h *MasterDataHandler) GetPort(c *fiber.Ctx) error {
	out, err := h.uc.GetPort(c.UserContext(), GetCompanyID(c), c.Params("code"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// CreatePort POST /api/ports
func (h *MasterDataHandler) CreatePort(c *fiber.Ctx) error {
	var in dto.PortRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.CreatePort(c.UserContext(), GetCompanyID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListCurrencies GET /api/currencies
func (h *MasterDataHandler) ListCurrencies(c *fiber.Ctx) error {
	out, err := h.uc.ListCurrencies(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// UpsertCurrencyRate PUT /api/currencies/:code (admin)
func (h *MasterDataHandler) UpsertCurrencyRate(c *fiber.Ctx) error {
	var in dto.CurrencyRateRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.UpsertCurrencyRate(c.UserContext(), c.Params("code"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

func (h *MasterDataHandler) ListPriceComponents(c *fiber.Ctx) error {
	_, f, err := parseListQuery(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.ListPriceComponents(c.UserContext(), GetCompanyID(c), f)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

func (h *MasterDataHandler) CreatePriceComponent(c *fiber.Ctx) error {
	var in dto.PriceComponentRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.CreatePriceComponent(c.UserContext(), GetCompanyID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

func (h *MasterDataHandler) UpdatePriceComponent(c *fiber.Ctx) error {
	var in dto.PriceComponentRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.UpdatePriceComponent(c.UserContext(), GetCompanyID(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// DeactivatePriceComponent DELETE /api/price-components/:id (baja lógica)
func (h *MasterDataHandler) DeactivatePriceComponent(c *fiber.Ctx) error {
	if err := h.uc.DeactivatePriceComponent(c.UserContext(), GetCompanyID(c), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
