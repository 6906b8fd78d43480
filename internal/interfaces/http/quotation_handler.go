package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Freight-api/internal/application/dto"
	"github.com/jhoicas/Freight-api/internal/application/quotation"
)

// QuotationHandler RFQs y ofertas. Atiende al staff y al portal de clientes: el alcance
// lo decide el caso de uso según el actor del token.
type QuotationHandler struct {
	uc *quotation.UseCase
}

// NewQuotationHandler construye el handler.
func NewQuotationHandler(uc *quotation.UseCase) *QuotationHandler {
	return &QuotationHandler{uc: uc}
}

// CreateRFQ godoc
// @Summary      Crear solicitud de cotización
// @Description  El staff puede crear en DRAFT o directamente en SUBMITTED; el portal siempre crea en SUBMITTED.
// @Tags         quotation
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateRFQRequest  true  "RFQ"
// @Success      201   {object}  dto.RFQResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/rfqs [post]
func (h *QuotationHandler) CreateRFQ(c *fiber.Ctx) error {
	var in dto.CreateRFQRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.CreateRFQ(c.UserContext(), GetActor(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListRFQs godoc
// @Summary      Listar RFQs
// @Tags         quotation
// @Security     Bearer
// @Produce      json
// @Param        status       query  string  false  "DRAFT | SUBMITTED | QUOTED | ACCEPTED | REJECTED | EXPIRED | CANCELLED"
// @Param        customer_id  query  string  false  "cliente"
// @Param        from         query  string  false  "YYYY-MM-DD"
// @Param        to           query  string  false  "YYYY-MM-DD"
// @Param        sort_by      query  string  false  "number | created_at | ready_date"
// @Param        sort_dir     query  string  false  "asc | desc"
// @Success      200  {object}  dto.ListResponse[dto.RFQResponse]
// @Router       /api/rfqs [get]
func (h *QuotationHandler) ListRFQs(c *fiber.Ctx) error {
	_, f, err := parseListQuery(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.ListRFQs(c.UserContext(), GetActor(c), f)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

func (h *QuotationHandler) GetRFQ(c *fiber.Ctx) error {
	out, err := h.uc.GetRFQ(c.UserContext(), GetActor(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// SubmitRFQ POST /api/rfqs/:id/submit
func (h *QuotationHandler) SubmitRFQ(c *fiber.Ctx) error {
	out, err := h.uc.SubmitRFQ(c.UserContext(), GetActor(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// CancelRFQ POST /api/rfqs/:id/cancel
func (h *QuotationHandler) CancelRFQ(c *fiber.Ctx) error {
	out, err := h.uc.CancelRFQ(c.UserContext(), GetActor(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// CreateBid godoc
// @Summary      Crear oferta para un RFQ
// @Tags         quotation
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                true  "RFQ"
// @Param        body  body  dto.CreateBidRequest  true  "oferta"
// @Success      201   {object}  dto.BidResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/rfqs/{id}/bids [post]
func (h *QuotationHandler) CreateBid(c *fiber.Ctx) error {
	var in dto.CreateBidRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.CreateBid(c.UserContext(), GetActor(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListBids GET /api/rfqs/:id/bids (el portal solo ve ofertas enviadas)
func (h *QuotationHandler) ListBids(c *fiber.Ctx) error {
	out, err := h.uc.ListBids(c.UserContext(), GetActor(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

func (h *QuotationHandler) GetBid(c *fiber.Ctx) error {
	out, err := h.uc.GetBid(c.UserContext(), GetActor(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// SendBid POST /api/bids/:id/send
func (h *QuotationHandler) SendBid(c *fiber.Ctx) error {
	out, err := h.uc.SendBid(c.UserContext(), GetActor(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// AcceptBid godoc
// @Summary      Aceptar oferta
// @Description  Acepta la oferta, rechaza las demás del RFQ y reserva el embarque en una sola transacción.
// @Tags         quotation
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "oferta"
// @Success      200  {object}  dto.BidResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      410  {object}  dto.ErrorResponse
// @Router       /api/bids/{id}/accept [post]
func (h *QuotationHandler) AcceptBid(c *fiber.Ctx) error {
	out, err := h.uc.AcceptBid(c.UserContext(), GetActor(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// RejectBid POST /api/bids/:id/reject
func (h *QuotationHandler) RejectBid(c *fiber.Ctx) error {
	out, err := h.uc.RejectBid(c.UserContext(), GetActor(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// CancelBid POST /api/bids/:id/cancel
func (h *QuotationHandler) CancelBid(c *fiber.Ctx) error {
	out, err := h.uc.CancelBid(c.UserContext(), GetActor(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// QuotationPDF GET /api/bids/:id/pdf
func (h *QuotationHandler) QuotationPDF(c *fiber.Ctx) error {
	pdf, name, err := h.uc.QuotationPDF(c.UserContext(), GetActor(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return sendFile(c, pdf, name, "application/pdf")
}

// sendFile responde un archivo en memoria como descarga.
func sendFile(c *fiber.Ctx, data []byte, name, contentType string) error {
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+name+`"`)
	return c.Send(data)
}
