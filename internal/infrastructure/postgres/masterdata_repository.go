package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Freight-api/internal/domain"
	"github.com/jhoicas/Freight-api/internal/domain/affiliation"
	"github.com/jhoicas/Freight-api/internal/domain/entity"
	"github.com/jhoicas/Freight-api/internal/domain/repository"
)

var (
	_ repository.PortRepository           = (*PortRepo)(nil)
	_ repository.CurrencyRepository       = (*CurrencyRepo)(nil)
	_ repository.PriceComponentRepository = (*PriceComponentRepo)(nil)
)

// ─── Puertos ─────────────────────────────────────────────────────────────────

// PortRepo catálogo de puertos UN/LOCODE.
type PortRepo struct {
	q Querier
}

func NewPortRepository(q Querier) *PortRepo { return &PortRepo{q: q} }

const portColumns = `code, name, country, kind, affiliation, owner_company_id, created_at`

var portSort = map[string]string{"code": "code", "name": "name", "country": "country"}

func scanPort(row interface{ Scan(...any) error }) (*entity.Port, error) {
	var p entity.Port
	if err := row.Scan(&p.Code, &p.Name, &p.Country, &p.Kind, &p.Affiliation, &p.OwnerCompanyID, &p.CreatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PortRepo) Create(ctx context.Context, p *entity.Port) error {
	_, err := r.q.Exec(ctx, `INSERT INTO ports (`+portColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		p.Code, p.Name, p.Country, p.Kind, p.Affiliation, p.OwnerCompanyID, p.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert port: %w", err)
	}
	return nil
}

func (r *PortRepo) GetByCode(ctx context.Context, code string) (*entity.Port, error) {
	p, err := scanPort(r.q.QueryRow(ctx, `SELECT `+portColumns+` FROM ports WHERE code = $1`, code))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get port: %w", err)
	}
	return p, nil
}

func (r *PortRepo) List(ctx context.Context, viewer affiliation.Viewer, f repository.PortFilter) ([]*entity.Port, int, error) {
	b := newListBuilder(portSort, "code").
		eqIf("kind", f.Kind).
		eqIf("country", f.Country).
		search(f.Search, "code", "name").
		scope("", viewer)

	cq, cargs := b.countQuery("ports")
	var total int
	if err := r.q.QueryRow(ctx, cq, cargs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count ports: %w", err)
	}
	sq, sargs := b.selectQuery(portColumns, "ports", f.ListFilter)
	rows, err := r.q.Query(ctx, sq, sargs...)
	if err != nil {
		return nil, 0, fmt.Errorf("list ports: %w", err)
	}
	defer rows.Close()
	var list []*entity.Port
	for rows.Next() {
		p, err := scanPort(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan port: %w", err)
		}
		list = append(list, p)
	}
	return list, total, rows.Err()
}

// ─── Monedas ─────────────────────────────────────────────────────────────────

// CurrencyRepo monedas y tasas (tabla global).
type CurrencyRepo struct {
	q Querier
}

func NewCurrencyRepository(q Querier) *CurrencyRepo { return &CurrencyRepo{q: q} }

func (r *CurrencyRepo) List(ctx context.Context) ([]*entity.Currency, error) {
	rows, err := r.q.Query(ctx, `SELECT code, name, symbol, rate_to_base, updated_at FROM currencies ORDER BY code`)
	if err != nil {
		return nil, fmt.Errorf("list currencies: %w", err)
	}
	defer rows.Close()
	var list []*entity.Currency
	for rows.Next() {
		var c entity.Currency
		if err := rows.Scan(&c.Code, &c.Name, &c.Symbol, &c.RateToBase, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan currency: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}

func (r *CurrencyRepo) GetByCode(ctx context.Context, code string) (*entity.Currency, error) {
	var c entity.Currency
	err := r.q.QueryRow(ctx, `SELECT code, name, symbol, rate_to_base, updated_at FROM currencies WHERE code = $1`, code).
		Scan(&c.Code, &c.Name, &c.Symbol, &c.RateToBase, &c.UpdatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get currency: %w", err)
	}
	return &c, nil
}

func (r *CurrencyRepo) Upsert(ctx context.Context, c *entity.Currency) error {
	const query = `
		INSERT INTO currencies (code, name, symbol, rate_to_base, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (code) DO UPDATE
		   SET name = EXCLUDED.name, symbol = EXCLUDED.symbol,
		       rate_to_base = EXCLUDED.rate_to_base, updated_at = EXCLUDED.updated_at`
	if _, err := r.q.Exec(ctx, query, c.Code, c.Name, c.Symbol, c.RateToBase, c.UpdatedAt); err != nil {
		return fmt.Errorf("upsert currency: %w", err)
	}
	return nil
}

// ─── Componentes de precio ───────────────────────────────────────────────────

// PriceComponentRepo conceptos de cobro compartidos y propios.
type PriceComponentRepo struct {
	q Querier
}

func NewPriceComponentRepository(q Querier) *PriceComponentRepo { return &PriceComponentRepo{q: q} }

const priceComponentColumns = `id, owner_company_id, affiliation, code, name, basis, taxable,
	default_currency, active, created_at, updated_at`

var priceComponentSort = map[string]string{"code": "code", "name": "name", "basis": "basis"}

func scanPriceComponent(row interface{ Scan(...any) error }) (*entity.PriceComponent, error) {
	var pc entity.PriceComponent
	if err := row.Scan(&pc.ID, &pc.OwnerCompanyID, &pc.Affiliation, &pc.Code, &pc.Name, &pc.Basis, &pc.Taxable,
		&pc.DefaultCurrency, &pc.Active, &pc.CreatedAt, &pc.UpdatedAt); err != nil {
		return nil, err
	}
	return &pc, nil
}

func (r *PriceComponentRepo) Create(ctx context.Context, pc *entity.PriceComponent) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO price_components (`+priceComponentColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		pc.ID, pc.OwnerCompanyID, pc.Affiliation, pc.Code, pc.Name, pc.Basis, pc.Taxable,
		pc.DefaultCurrency, pc.Active, pc.CreatedAt, pc.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert price component: %w", err)
	}
	return nil
}

func (r *PriceComponentRepo) GetByID(ctx context.Context, id string) (*entity.PriceComponent, error) {
	pc, err := scanPriceComponent(r.q.QueryRow(ctx,
		`SELECT `+priceComponentColumns+` FROM price_components WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get price component: %w", err)
	}
	return pc, nil
}

// List devuelve los componentes visibles para el tenant. Status "active"/"inactive" filtra por estado.
func (r *PriceComponentRepo) List(ctx context.Context, viewer affiliation.Viewer, f repository.ListFilter) ([]*entity.PriceComponent, int, error) {
	b := newListBuilder(priceComponentSort, "code").
		search(f.Search, "code", "name").
		scope("", viewer)
	switch f.Status {
	case "active":
		b.raw("active = true")
	case "inactive":
		b.raw("active = false")
	}

	cq, cargs := b.countQuery("price_components")
	var total int
	if err := r.q.QueryRow(ctx, cq, cargs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count price components: %w", err)
	}
	sq, sargs := b.selectQuery(priceComponentColumns, "price_components", f)
	rows, err := r.q.Query(ctx, sq, sargs...)
	if err != nil {
		return nil, 0, fmt.Errorf("list price components: %w", err)
	}
	defer rows.Close()
	var list []*entity.PriceComponent
	for rows.Next() {
		pc, err := scanPriceComponent(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan price component: %w", err)
		}
		list = append(list, pc)
	}
	return list, total, rows.Err()
}

func (r *PriceComponentRepo) Update(ctx context.Context, pc *entity.PriceComponent) error {
	const query = `
		UPDATE price_components SET code = $2, name = $3, basis = $4, taxable = $5, default_currency = $6,
			active = $7, updated_at = $8
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query, pc.ID, pc.Code, pc.Name, pc.Basis, pc.Taxable, pc.DefaultCurrency, pc.Active, pc.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update price component: %w", err)
	}
	return nil
}
