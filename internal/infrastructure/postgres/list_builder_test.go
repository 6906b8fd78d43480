package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Freight-api/internal/domain/affiliation"
	"github.com/jhoicas/Freight-api/internal/domain/repository"
)

func TestListBuilder_FiltrosYPaginacion(t *testing.T) {
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	f := repository.ListFilter{Limit: 10, Offset: 20, Search: "acme", Status: "SUBMITTED", From: &from, SortBy: "number", SortDesc: true}

	b := newListBuilder(map[string]string{"number": "r.number"}, "r.created_at").
		eq("r.company_id", "c-1").
		eqIf("r.status", f.Status).
		eqIf("r.customer_id", f.CustomerID).
		search(f.Search, "r.number", "r.commodity").
		dateRange("r.created_at", f)

	cq, cargs := b.countQuery("rfqs r")
	assert.Equal(t, "SELECT count(*) FROM rfqs r WHERE r.company_id = $1 AND r.status = $2 AND (r.number ILIKE $3 OR r.commodity ILIKE $3) AND r.created_at >= $4", cq)
	assert.Len(t, cargs, 4)
	assert.Equal(t, "%acme%", cargs[2])

	sq, sargs := b.selectQuery("r.id", "rfqs r", f)
	assert.Contains(t, sq, "ORDER BY r.number DESC LIMIT $5 OFFSET $6")
	assert.Equal(t, []any{"c-1", "SUBMITTED", "%acme%", from, 10, 20}, sargs)
	// el count no se ve afectado por los args de paginación
	assert.Len(t, cargs, 4)
}

func TestListBuilder_OrdenFueraDeListaBlanca(t *testing.T) {
	b := newListBuilder(map[string]string{"name": "name"}, "created_at")
	q, _ := b.selectQuery("*", "customers", repository.ListFilter{SortBy: "name; DROP TABLE users"})
	assert.Contains(t, q, "ORDER BY created_at ASC")
	assert.NotContains(t, q, "DROP")
}

func TestListBuilder_Scope(t *testing.T) {
	b := newListBuilder(nil, "code").eqIf("kind", "sea")
	b.scope("p", affiliation.Viewer{CompanyID: "c-1", Affiliation: "NLE"})
	q, args := b.countQuery("ports p")
	assert.Contains(t, q, "p.owner_company_id = $2")
	assert.Contains(t, q, "p.affiliation = $3")
	assert.Equal(t, []any{"sea", "c-1", "NLE"}, args)
}

func TestClampPage(t *testing.T) {
	l, o := clampPage(0, -5)
	assert.Equal(t, 20, l)
	assert.Equal(t, 0, o)
	l, _ = clampPage(1000, 0)
	assert.Equal(t, 100, l)
}
