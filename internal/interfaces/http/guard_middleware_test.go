package http_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Freight-api/internal/domain/entity"
	"github.com/jhoicas/Freight-api/internal/infrastructure/ratelimit"
	apphttp "github.com/jhoicas/Freight-api/internal/interfaces/http"
)

type companies map[string]*entity.Company

func (c companies) GetByID(id string) (*entity.Company, error) { return c[id], nil }

var clock = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

func trialApp(company *entity.Company) *fiber.App {
	app := fiber.New()
	guard := apphttp.TrialGuard(companies{testCompanyID: company}, func() time.Time { return clock })
	handler := func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) }
	app.Get("/protected", apphttp.AuthMiddleware(testJWTSecret), guard, handler)
	app.Post("/protected", apphttp.AuthMiddleware(testJWTSecret), guard, handler)
	return app
}

func call(t *testing.T, app *fiber.App, method, auth string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(method, "/protected", nil)
	req.Header.Set("Authorization", auth)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestTrialGuard_PruebaVencida(t *testing.T) {
	ended := clock.Add(-time.Hour)
	app := trialApp(&entity.Company{ID: testCompanyID, Affiliation: entity.AffiliationDummy, TrialEndsAt: &ended})
	auth := tokenForRole(t, "admin")

	resp := call(t, app, http.MethodPost, auth)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusPaymentRequired, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "TRIAL_EXPIRED")

	read := call(t, app, http.MethodGet, auth)
	defer read.Body.Close()
	assert.Equal(t, http.StatusOK, read.StatusCode, "la lectura sigue disponible")
}

func TestTrialGuard_PruebaVigenteYRegular(t *testing.T) {
	ends := clock.Add(24 * time.Hour)
	for _, c := range []*entity.Company{
		{ID: testCompanyID, Affiliation: entity.AffiliationDummy, TrialEndsAt: &ends},
		{ID: testCompanyID, Affiliation: entity.AffiliationRegular},
	} {
		resp := call(t, trialApp(c), http.MethodPost, tokenForRole(t, "admin"))
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode, c.Affiliation)
	}
}

type checker struct {
	active bool
	err    error
}

func (c checker) HasActiveModule(context.Context, string, string) (bool, error) {
	return c.active, c.err
}

func TestRequireModule(t *testing.T) {
	cases := []struct {
		name   string
		check  checker
		status int
	}{
		{"activo", checker{active: true}, http.StatusOK},
		{"inactivo", checker{}, http.StatusForbidden},
		{"falla DB", checker{err: errors.New("db down")}, http.StatusServiceUnavailable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := buildTestApp(apphttp.RequireModule(entity.ModuleInvoicing, tc.check))
			resp := doRequest(t, app, tokenForRole(t, "admin"))
			defer resp.Body.Close()
			assert.Equal(t, tc.status, resp.StatusCode)
		})
	}
}

func TestRateLimit(t *testing.T) {
	app := fiber.New()
	app.Post("/login", apphttp.RateLimit(ratelimit.New(0.5, 2, time.Minute)), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	statuses := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/login", nil), -1)
		require.NoError(t, err)
		statuses = append(statuses, resp.StatusCode)
		if resp.StatusCode == http.StatusTooManyRequests {
			assert.Equal(t, "2", resp.Header.Get("Retry-After"))
		}
		resp.Body.Close()
	}
	assert.Equal(t, []int{200, 200, 429}, statuses)
}

type observer struct{ routes []string }

func (o *observer) ObserveHTTP(method, route string, status int, _ time.Duration) {
	o.routes = append(o.routes, method+" "+route)
}

func TestMetricsMiddleware_UsaRutaRegistrada(t *testing.T) {
	obs := &observer{}
	app := fiber.New()
	app.Use(apphttp.MetricsMiddleware(obs))
	app.Get("/api/shipments/:id", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/shipments/abc", nil), -1)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, []string{"GET /api/shipments/:id"}, obs.routes)
}
