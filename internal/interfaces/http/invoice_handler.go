package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Freight-api/internal/application/billing"
	"github.com/jhoicas/Freight-api/internal/application/dto"
)

// InvoiceHandler facturación de embarques (módulo invoicing).
type InvoiceHandler struct {
	uc *billing.UseCase
}

// NewInvoiceHandler construye el handler.
func NewInvoiceHandler(uc *billing.UseCase) *InvoiceHandler {
	return &InvoiceHandler{uc: uc}
}

// Create godoc
// @Summary      Crear factura en borrador desde un embarque
// @Description  Copia las líneas de la oferta aceptada (convertidas a la moneda de la factura) más los cargos extra.
// @Tags         invoices
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateInvoiceRequest  true  "embarque, moneda, cargos extra"
// @Success      201   {object}  dto.InvoiceResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/invoices [post]
func (h *InvoiceHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateInvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.CreateFromShipment(c.UserContext(), GetCompanyID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List GET /api/invoices (y /api/portal/invoices, sin borradores)
func (h *InvoiceHandler) List(c *fiber.Ctx) error {
	_, f, err := parseListQuery(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.List(c.UserContext(), GetActor(c), f)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID GET /api/invoices/:id
func (h *InvoiceHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), GetActor(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Issue POST /api/invoices/:id/issue
func (h *InvoiceHandler) Issue(c *fiber.Ctx) error {
	out, err := h.uc.Issue(c.UserContext(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// MarkPaid POST /api/invoices/:id/pay
func (h *InvoiceHandler) MarkPaid(c *fiber.Ctx) error {
	out, err := h.uc.MarkPaid(c.UserContext(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Void POST /api/invoices/:id/void
func (h *InvoiceHandler) Void(c *fiber.Ctx) error {
	out, err := h.uc.Void(c.UserContext(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// PDF GET /api/invoices/:id/pdf
func (h *InvoiceHandler) PDF(c *fiber.Ctx) error {
	pdf, name, err := h.uc.PDF(c.UserContext(), GetActor(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return sendFile(c, pdf, name, "application/pdf")
}

// UBL godoc
// @Summary      Exportar factura emitida en XML UBL 2.1
// @Tags         invoices
// @Security     Bearer
// @Produce      application/xml
// @Param        id  path  string  true  "factura"
// @Success      200
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id}/ubl [get]
func (h *InvoiceHandler) UBL(c *fiber.Ctx) error {
	xml, name, err := h.uc.ExportUBL(c.UserContext(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return sendFile(c, xml, name, fiber.MIMEApplicationXMLCharsetUTF8)
}
