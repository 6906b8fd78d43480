package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Freight-api/internal/application/dto"
	"github.com/jhoicas/Freight-api/internal/domain"
	"github.com/jhoicas/Freight-api/internal/domain/repository"
)

func TestWriteError_Mapeo(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{fmt.Errorf("quotation: %w: rfq", domain.ErrNotFound), 404, "NOT_FOUND"},
		{fmt.Errorf("%w: DRAFT → PAID", domain.ErrInvalidTransition), 409, "INVALID_TRANSITION"},
		{domain.ErrTrialExpired, 402, "TRIAL_EXPIRED"},
		{domain.ErrFileTooLarge, 413, "FILE_TOO_LARGE"},
		{fmt.Errorf("%w: oferta vencida", domain.ErrExpired), 410, "EXPIRED"},
		{errors.New("pq: connection reset"), 500, "INTERNAL"},
	}
	for _, tc := range cases {
		app := fiber.New()
		app.Get("/", func(c *fiber.Ctx) error { return writeError(c, tc.err) })
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
		require.NoError(t, err)

		var body dto.ErrorResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		resp.Body.Close()
		assert.Equal(t, tc.status, resp.StatusCode, tc.err.Error())
		assert.Equal(t, tc.code, body.Code)
		if tc.status == 500 {
			assert.NotContains(t, body.Message, "pq:", "no se filtran detalles internos")
		}
	}
}

func TestPublicMessage_QuitaPrefijoInterno(t *testing.T) {
	err := fmt.Errorf("billing: %w", fmt.Errorf("%w: shipment_id requerido", domain.ErrInvalidInput))
	assert.Equal(t, "entrada inválida: shipment_id requerido", publicMessage(err))
}

func TestParseListQuery(t *testing.T) {
	var got repository.ListFilter
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		_, f, err := parseListQuery(c)
		if err != nil {
			return writeError(c, err)
		}
		got = f
		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/?limit=500&offset=-3&status=submitted&from=2026-05-01&to=2026-05-31&sort_by=number&sort_dir=DESC", nil), -1)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, maxLimit, got.Limit)
	assert.Equal(t, 0, got.Offset)
	assert.Equal(t, "SUBMITTED", got.Status)
	assert.True(t, got.SortDesc)
	require.NotNil(t, got.From)
	require.NotNil(t, got.To)
	assert.Equal(t, "2026-05-31T23:59:59", got.To.Format("2006-01-02T15:04:05"))

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, defaultLimit, got.Limit)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/?from=31-05-2026", nil), -1)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, 400, resp.StatusCode)
}
