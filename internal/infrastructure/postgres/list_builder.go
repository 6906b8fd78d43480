package postgres

import (
	"fmt"
	"strings"

	"github.com/jhoicas/Freight-api/internal/domain/affiliation"
	"github.com/jhoicas/Freight-api/internal/domain/repository"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

// listBuilder arma el WHERE, ORDER BY y LIMIT de los listados con argumentos posicionales.
// Las columnas de orden salen de una lista blanca; nunca se interpola texto del cliente.
type listBuilder struct {
	conds    []string
	args     []any
	sortable map[string]string
	defSort  string
}

func newListBuilder(sortable map[string]string, defSort string) *listBuilder {
	return &listBuilder{sortable: sortable, defSort: defSort}
}

// arg registra un valor y devuelve su placeholder ($n).
func (b *listBuilder) arg(v any) string {
	b.args = append(b.args, v)
	return fmt.Sprintf("$%d", len(b.args))
}

// eq agrega "col = $n".
func (b *listBuilder) eq(col string, v any) *listBuilder {
	b.conds = append(b.conds, col+" = "+b.arg(v))
	return b
}

// eqIf agrega "col = $n" solo si v no está vacío.
func (b *listBuilder) eqIf(col, v string) *listBuilder {
	if v != "" {
		b.eq(col, v)
	}
	return b
}

// search agrega un ILIKE sobre varias columnas con el mismo parámetro.
func (b *listBuilder) search(term string, cols ...string) *listBuilder {
	term = strings.TrimSpace(term)
	if term == "" || len(cols) == 0 {
		return b
	}
	p := b.arg("%" + term + "%")
	parts := make([]string, len(cols))
	for i, c := range cols {
		parts[i] = c + " ILIKE " + p
	}
	b.conds = append(b.conds, "("+strings.Join(parts, " OR ")+")")
	return b
}

// dateRange filtra col entre From y To (inclusive) cuando vienen en el filtro.
func (b *listBuilder) dateRange(col string, f repository.ListFilter) *listBuilder {
	if f.From != nil {
		b.conds = append(b.conds, col+" >= "+b.arg(*f.From))
	}
	if f.To != nil {
		b.conds = append(b.conds, col+" <= "+b.arg(*f.To))
	}
	return b
}

// scope agrega el predicado de visibilidad por afiliación.
func (b *listBuilder) scope(alias string, v affiliation.Viewer) *listBuilder {
	clause, args := affiliation.SQLScope(alias, len(b.args)+1, v)
	b.conds = append(b.conds, clause)
	b.args = append(b.args, args...)
	return b
}

// raw agrega una condición sin parámetros.
func (b *listBuilder) raw(cond string) *listBuilder {
	b.conds = append(b.conds, cond)
	return b
}

func (b *listBuilder) where() string {
	if len(b.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(b.conds, " AND ")
}

func (b *listBuilder) orderBy(f repository.ListFilter) string {
	col, ok := b.sortable[f.SortBy]
	if !ok {
		col = b.defSort
	}
	dir := "ASC"
	if f.SortDesc {
		dir = "DESC"
	}
	return " ORDER BY " + col + " " + dir
}

// countQuery arma el SELECT count(*) con los filtros actuales.
func (b *listBuilder) countQuery(from string) (string, []any) {
	return "SELECT count(*) FROM " + from + b.where(), append([]any(nil), b.args...)
}

// selectQuery arma el SELECT paginado. Debe llamarse después de countQuery.
func (b *listBuilder) selectQuery(columns, from string, f repository.ListFilter) (string, []any) {
	limit, offset := clampPage(f.Limit, f.Offset)
	q := "SELECT " + columns + " FROM " + from + b.where() + b.orderBy(f)
	q += " LIMIT " + b.arg(limit) + " OFFSET " + b.arg(offset)
	return q, b.args
}

func clampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
