package http_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apphttp "github.com/jhoicas/Freight-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/Freight-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret  = "test-secret-key-for-unit-tests"
	testUserID     = "00000000-0000-0000-0000-000000000001"
	testCompanyID  = "00000000-0000-0000-0000-000000000002"
	testCustomerID = "00000000-0000-0000-0000-000000000003"
	testIssuer     = "freight-api-test"
	testExpMin     = 60
)

// buildTestApp construye una aplicación Fiber mínima con AuthMiddleware + guard y un
// handler que devuelve 200 si pasa los middlewares.
func buildTestApp(guard fiber.Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		},
	})
	app.Get("/protected",
		apphttp.AuthMiddleware(testJWTSecret),
		guard,
		func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusOK).JSON(fiber.Map{
				"ok":   true,
				"role": apphttp.GetRole(c),
			})
		},
	)
	return app
}

func token(t *testing.T, id pkgjwt.Identity) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, id, testIssuer, testExpMin)
	require.NoError(t, err, "debe generarse un token JWT válido")
	return "Bearer " + tok
}

// tokenForRole genera un JWT de staff con el rol indicado.
func tokenForRole(t *testing.T, role string) string {
	return token(t, pkgjwt.Identity{UserID: testUserID, CompanyID: testCompanyID, Role: role})
}

func doRequest(t *testing.T, app *fiber.App, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// ──────────────────────────────────────────────────────────────────────────────
// RequireRole / RequireStaff / RequireCustomer
// ──────────────────────────────────────────────────────────────────────────────

func TestRequireRole_AdminAccedeRutaAdmin(t *testing.T) {
	app := buildTestApp(apphttp.RequireRole("admin"))
	resp := doRequest(t, app, tokenForRole(t, "admin"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, "admin", body["role"])
}

func TestRequireRole_MultiRol(t *testing.T) {
	app := buildTestApp(apphttp.RequireRole("admin", "ops"))
	resp := doRequest(t, app, tokenForRole(t, "ops"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode, "ops puede acceder a ruta admin u ops")
}

func TestRequireRole_SalesBloqueadoEnRutaAdmin(t *testing.T) {
	app := buildTestApp(apphttp.RequireRole("admin"))
	resp := doRequest(t, app, tokenForRole(t, "sales"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "FORBIDDEN")
}

func TestRequireRole_TokenSinRol_Retorna401(t *testing.T) {
	app := buildTestApp(apphttp.RequireRole("admin"))
	resp := doRequest(t, app, tokenForRole(t, ""))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRequireStaff_ClienteBloqueado(t *testing.T) {
	app := buildTestApp(apphttp.RequireStaff())
	resp := doRequest(t, app, token(t, pkgjwt.Identity{
		UserID: testUserID, CompanyID: testCompanyID, Role: "customer", CustomerID: testCustomerID,
	}))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode, "el portal no entra a rutas de staff")
}

func TestRequireCustomer(t *testing.T) {
	app := buildTestApp(apphttp.RequireCustomer())

	ok := doRequest(t, app, token(t, pkgjwt.Identity{
		UserID: testUserID, CompanyID: testCompanyID, Role: "customer", CustomerID: testCustomerID,
	}))
	defer ok.Body.Close()
	assert.Equal(t, http.StatusOK, ok.StatusCode)

	sinCliente := doRequest(t, app, token(t, pkgjwt.Identity{UserID: testUserID, CompanyID: testCompanyID, Role: "customer"}))
	defer sinCliente.Body.Close()
	assert.Equal(t, http.StatusForbidden, sinCliente.StatusCode)

	staff := doRequest(t, app, tokenForRole(t, "admin"))
	defer staff.Body.Close()
	assert.Equal(t, http.StatusForbidden, staff.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// AuthMiddleware
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_SinAuthHeader_Retorna401(t *testing.T) {
	app := buildTestApp(apphttp.RequireStaff())
	resp := doRequest(t, app, "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "MISSING_TOKEN")
}

func TestAuthMiddleware_TokenInvalido_Retorna401(t *testing.T) {
	app := buildTestApp(apphttp.RequireStaff())
	for _, h := range []string{"Bearer token.invalido.aqui", "Basic abc", "Bearer "} {
		resp := doRequest(t, app, h)
		resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, h)
	}
}

func TestAuthMiddleware_ExtraeActor(t *testing.T) {
	app := fiber.New()
	app.Get("/me", apphttp.AuthMiddleware(testJWTSecret), func(c *fiber.Ctx) error {
		a := apphttp.GetActor(c)
		return c.JSON(fiber.Map{
			"user_id":     a.UserID,
			"company_id":  a.CompanyID,
			"role":        a.Role,
			"customer_id": a.CustomerID,
		})
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", token(t, pkgjwt.Identity{
		UserID: testUserID, CompanyID: testCompanyID, Role: "customer", CustomerID: testCustomerID,
	}))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, testUserID, body["user_id"])
	assert.Equal(t, testCompanyID, body["company_id"])
	assert.Equal(t, "customer", body["role"])
	assert.Equal(t, testCustomerID, body["customer_id"])
}

func TestAuthMiddleware_TokenSinEmpresa(t *testing.T) {
	app := buildTestApp(apphttp.RequireStaff())
	resp := doRequest(t, app, token(t, pkgjwt.Identity{UserID: testUserID, Role: "admin"}))
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
