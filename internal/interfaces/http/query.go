package http

import (
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Freight-api/internal/application/dto"
	"github.com/jhoicas/Freight-api/internal/domain"
	"github.com/jhoicas/Freight-api/internal/domain/repository"
)

const (
	defaultLimit = 20
	maxLimit     = 100
	dateLayout   = "2006-01-02"
)

// parseListQuery lee los parámetros comunes de listado. Limit fuera de 1..100 toma el
// valor por defecto o el máximo; offset negativo se lleva a 0.
func parseListQuery(c *fiber.Ctx) (dto.ListQuery, repository.ListFilter, error) {
	var q dto.ListQuery
	if err := c.QueryParser(&q); err != nil {
		return q, repository.ListFilter{}, fmt.Errorf("%w: parámetros de consulta", domain.ErrInvalidInput)
	}
	f := repository.ListFilter{
		Limit:      q.Limit,
		Offset:     q.Offset,
		Search:     strings.TrimSpace(q.Search),
		Status:     strings.ToUpper(strings.TrimSpace(q.Status)),
		CustomerID: q.CustomerID,
		SortBy:     q.SortBy,
		SortDesc:   strings.EqualFold(q.SortDir, "desc"),
	}
	if f.Limit <= 0 {
		f.Limit = defaultLimit
	}
	if f.Limit > maxLimit {
		f.Limit = maxLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	var err error
	if f.From, err = parseDate(q.From, "from"); err != nil {
		return q, f, err
	}
	if f.To, err = parseDate(q.To, "to"); err != nil {
		return q, f, err
	}
	if f.To != nil {
		// fin de día inclusivo
		end := f.To.Add(24*time.Hour - time.Nanosecond)
		f.To = &end
	}
	return q, f, nil
}

func parseDate(s, name string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil, fmt.Errorf("%w: %s debe ser YYYY-MM-DD", domain.ErrInvalidInput, name)
	}
	return &t, nil
}
