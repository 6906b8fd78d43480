package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/Freight-api/internal/application/analytics"
)

// DashboardHandler maneja los endpoints del módulo de Dashboard.
type DashboardHandler struct {
	uc *appanalytics.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// GetSummary godoc
// @Summary      KPIs del forwarder
// @Description  OTIF (a tiempo, completo, ambos), embarques en riesgo, conversión de RFQs,
// @Description  facturación por moneda y cartera vencida. Sin fechas: últimos 30 días.
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Param        from  query  string  false  "YYYY-MM-DD"
// @Param        to    query  string  false  "YYYY-MM-DD"
// @Success      200  {object}  dto.DashboardSummaryDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/dashboard [get]
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	from, err := parseDate(c.Query("from"), "from")
	if err != nil {
		return writeError(c, err)
	}
	to, err := parseDate(c.Query("to"), "to")
	if err != nil {
		return writeError(c, err)
	}
	summary, err := h.uc.GetDashboard(c.UserContext(), GetCompanyID(c), from, to)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(summary)
}
