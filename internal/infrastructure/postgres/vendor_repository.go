package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Freight-api/internal/domain"
	"github.com/jhoicas/Freight-api/internal/domain/entity"
	"github.com/jhoicas/Freight-api/internal/domain/repository"
)

var _ repository.VendorRepository = (*VendorRepo)(nil)

// VendorRepo proveedores sobre PostgreSQL.
type VendorRepo struct {
	q Querier
}

func NewVendorRepository(q Querier) *VendorRepo {
	return &VendorRepo{q: q}
}

const vendorColumns = `id, company_id, name, tax_id, kind, email, phone, country, created_at, updated_at`

var vendorSort = map[string]string{
	"name":       "name",
	"kind":       "kind",
	"created_at": "created_at",
}

func scanVendor(row interface{ Scan(...any) error }) (*entity.Vendor, error) {
	var v entity.Vendor
	if err := row.Scan(&v.ID, &v.CompanyID, &v.Name, &v.TaxID, &v.Kind, &v.Email, &v.Phone, &v.Country,
		&v.CreatedAt, &v.UpdatedAt); err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *VendorRepo) Create(ctx context.Context, v *entity.Vendor) error {
	query := `INSERT INTO vendors (` + vendorColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query, v.ID, v.CompanyID, v.Name, v.TaxID, v.Kind, v.Email, v.Phone, v.Country,
		v.CreatedAt, v.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert vendor: %w", err)
	}
	return nil
}

func (r *VendorRepo) GetByID(ctx context.Context, id string) (*entity.Vendor, error) {
	v, err := scanVendor(r.q.QueryRow(ctx, `SELECT `+vendorColumns+` FROM vendors WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get vendor: %w", err)
	}
	return v, nil
}

// ListByCompany filtra por búsqueda libre y por tipo (Status se usa como kind).
func (r *VendorRepo) ListByCompany(ctx context.Context, companyID string, f repository.ListFilter) ([]*entity.Vendor, int, error) {
	b := newListBuilder(vendorSort, "name").
		eq("company_id", companyID).
		eqIf("kind", f.Status).
		search(f.Search, "name", "tax_id")

	cq, cargs := b.countQuery("vendors")
	var total int
	if err := r.q.QueryRow(ctx, cq, cargs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count vendors: %w", err)
	}
	sq, sargs := b.selectQuery(vendorColumns, "vendors", f)
	rows, err := r.q.Query(ctx, sq, sargs...)
	if err != nil {
		return nil, 0, fmt.Errorf("list vendors: %w", err)
	}
	defer rows.Close()
	var list []*entity.Vendor
	for rows.Next() {
		v, err := scanVendor(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan vendor: %w", err)
		}
		list = append(list, v)
	}
	return list, total, rows.Err()
}

func (r *VendorRepo) Update(ctx context.Context, v *entity.Vendor) error {
	query := `
		UPDATE vendors SET name = $2, tax_id = $3, kind = $4, email = $5, phone = $6, country = $7, updated_at = $8
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query, v.ID, v.Name, v.TaxID, v.Kind, v.Email, v.Phone, v.Country, v.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update vendor: %w", err)
	}
	return nil
}

func (r *VendorRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM vendors WHERE id = $1`, id); err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("delete vendor: %w", err)
	}
	return nil
}
