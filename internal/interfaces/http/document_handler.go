package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Freight-api/internal/application/document"
)

// DocumentHandler documentos adjuntos (módulo documents).
type DocumentHandler struct {
	uc *document.UseCase
}

// NewDocumentHandler construye el handler.
func NewDocumentHandler(uc *document.UseCase) *DocumentHandler {
	return &DocumentHandler{uc: uc}
}

// Upload godoc
// @Summary      Subir documento
// @Description  multipart/form-data con el archivo en "file". Tipos permitidos: pdf, png, jpeg, xlsx, csv, docx.
// @Tags         documents
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        file                 formData  file    true   "archivo"
// @Param        entity_type          formData  string  true   "rfq | shipment | invoice"
// @Param        entity_id            formData  string  true   "id de la entidad"
// @Param        visible_to_customer  formData  bool    false  "visible en el portal"
// @Success      201  {object}  dto.DocumentResponse
// @Failure      413  {object}  dto.ErrorResponse
// @Failure      415  {object}  dto.ErrorResponse
// @Router       /api/documents [post]
func (h *DocumentHandler) Upload(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return badBody(c)
	}
	f, err := fh.Open()
	if err != nil {
		return writeError(c, err)
	}
	defer f.Close()

	visible, _ := strconv.ParseBool(c.FormValue("visible_to_customer"))
	out, err := h.uc.Upload(c.UserContext(), GetActor(c), document.UploadInput{
		EntityType:        c.FormValue("entity_type"),
		EntityID:          c.FormValue("entity_id"),
		FileName:          fh.Filename,
		ContentType:       fh.Header.Get(fiber.HeaderContentType),
		Size:              fh.Size,
		VisibleToCustomer: visible,
		Body:              f,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List GET /api/documents?entity_type=shipment&entity_id=...
func (h *DocumentHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), GetActor(c), c.Query("entity_type"), c.Query("entity_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Download GET /api/documents/:id (y /api/portal/documents/:id)
func (h *DocumentHandler) Download(c *fiber.Ctx) error {
	rc, meta, err := h.uc.Download(c.UserContext(), GetActor(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, meta.ContentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+meta.FileName+`"`)
	return c.SendStream(rc, int(meta.SizeBytes))
}

// Delete DELETE /api/documents/:id
func (h *DocumentHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), GetCompanyID(c), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
