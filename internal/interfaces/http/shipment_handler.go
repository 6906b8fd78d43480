package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Freight-api/internal/application/dto"
	"github.com/jhoicas/Freight-api/internal/application/shipment"
)

// ShipmentHandler embarques: seguimiento OTIF, itinerario y eventos de navieras.
type ShipmentHandler struct {
	uc *shipment.UseCase
}

// NewShipmentHandler construye el handler.
func NewShipmentHandler(uc *shipment.UseCase) *ShipmentHandler {
	return &ShipmentHandler{uc: uc}
}

// List godoc
// @Summary      Listar embarques
// @Tags         shipments
// @Security     Bearer
// @Produce      json
// @Param        status       query  string  false  "BOOKED | CARGO_RECEIVED | DEPARTED | IN_TRANSIT | ARRIVED | CUSTOMS_CLEARED | DELIVERED | CANCELLED"
// @Param        customer_id  query  string  false  "cliente"
// @Param        search       query  string  false  "referencia, BL o buque"
// @Success      200  {object}  dto.ListResponse[dto.ShipmentResponse]
// @Router       /api/shipments [get]
func (h *ShipmentHandler) List(c *fiber.Ctx) error {
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

func (h *ShipmentHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), GetActor(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ListEvents GET /api/shipments/:id/events
func (h *ShipmentHandler) ListEvents(c *fiber.Ctx) error {
	out, err := h.uc.ListEvents(c.UserContext(), GetActor(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// UpdateSchedule PUT /api/shipments/:id/schedule
// Cambiar ETD/ETA reprograma los recordatorios del embarque.
func (h *ShipmentHandler) UpdateSchedule(c *fiber.Ctx) error {
	var in dto.UpdateScheduleRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.UpdateSchedule(c.UserContext(), GetActor(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// UpdateStatus godoc
// @Summary      Cambio manual de estado
// @Description  Solo transiciones hacia adelante de la tabla OTIF; DELIVERED evalúa el resultado OTIF.
// @Tags         shipments
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "embarque"
// @Param        body  body  dto.UpdateStatusRequest  true  "estado"
// @Success      200   {object}  dto.ShipmentResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/shipments/{id}/status [post]
func (h *ShipmentHandler) UpdateStatus(c *fiber.Ctx) error {
	var in dto.UpdateStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.UpdateStatus(c.UserContext(), GetActor(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// CarrierEvent POST /api/shipments/:id/carrier-events
func (h *ShipmentHandler) CarrierEvent(c *fiber.Ctx) error {
	var in dto.CarrierEventRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.RecordCarrierEvent(c.UserContext(), GetActor(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
