package http

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/Freight-api/internal/application/dto"
	"github.com/jhoicas/Freight-api/internal/domain/entity"
	"github.com/jhoicas/Freight-api/internal/infrastructure/ratelimit"
)

type companyLookup interface {
	GetByID(id string) (*entity.Company, error)
}

// TrialGuard bloquea las escrituras (todo lo que no sea GET/HEAD) de las cuentas de
// prueba vencidas con 402 TRIAL_EXPIRED. La lectura sigue disponible.
func TrialGuard(companies companyLookup, now func() time.Time) fiber.Handler {
	if now == nil {
		now = time.Now
	}
	return func(c *fiber.Ctx) error {
		if c.Method() == fiber.MethodGet || c.Method() == fiber.MethodHead {
			return c.Next()
		}
		company, err := companies.GetByID(GetCompanyID(c))
		if err != nil {
			return writeError(c, err)
		}
		if company == nil {
			return unauthorized(c)
		}
		if company.IsTrialExpired(now()) {
			return c.Status(fiber.StatusPaymentRequired).JSON(dto.ErrorResponse{
				Code: "TRIAL_EXPIRED", Message: "el periodo de prueba terminó; contrate un plan para seguir operando",
			})
		}
		return c.Next()
	}
}

// httpObserver registra cada petición (métricas).
type httpObserver interface {
	ObserveHTTP(method, route string, status int, took time.Duration)
}

// MetricsMiddleware mide status y latencia por ruta registrada (no por path, para
// acotar la cardinalidad).
func MetricsMiddleware(obs httpObserver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		route := c.Route().Path
		if route == "" || route == "/" {
			route = "unmatched"
		}
		obs.ObserveHTTP(c.Method(), route, status, time.Since(start))
		return err
	}
}

// RateLimit limita por IP del cliente. Responde 429 con Retry-After.
func RateLimit(l *ratelimit.MapLimiter) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if l.Allow(c.IP(), time.Now()) {
			return c.Next()
		}
		log.Warn().Str("ip", c.IP()).Str("path", c.Path()).Msg("http: límite de peticiones")
		c.Set(fiber.HeaderRetryAfter, strconv.Itoa(l.RetryAfter()))
		return c.Status(fiber.StatusTooManyRequests).JSON(dto.ErrorResponse{
			Code: "RATE_LIMITED", Message: "demasiados intentos, espere un momento",
		})
	}
}
