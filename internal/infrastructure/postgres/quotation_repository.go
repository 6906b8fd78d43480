package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Freight-api/internal/domain"
	"github.com/jhoicas/Freight-api/internal/domain/entity"
	"github.com/jhoicas/Freight-api/internal/domain/repository"
)

var (
	_ repository.RFQRepository      = (*RFQRepo)(nil)
	_ repository.BidRepository      = (*BidRepo)(nil)
	_ repository.SequenceRepository = (*SequenceRepo)(nil)
)

// ─── RFQ ─────────────────────────────────────────────────────────────────────

// RFQRepo solicitudes de cotización.
type RFQRepo struct {
	q Querier
}

func NewRFQRepository(q Querier) *RFQRepo { return &RFQRepo{q: q} }

const rfqColumns = `id, company_id, customer_id, number, mode, load_type, origin_port, destination_port,
	commodity, incoterm, containers, packages, weight_kg, volume_cbm, ready_date, valid_until, status,
	notes, created_by, created_at, updated_at`

var rfqSort = map[string]string{
	"number":      "number",
	"status":      "status",
	"ready_date":  "ready_date",
	"valid_until": "valid_until",
	"created_at":  "created_at",
}

func scanRFQ(row interface{ Scan(...any) error }) (*entity.RFQ, error) {
	var r entity.RFQ
	var createdBy *string
	if err := row.Scan(&r.ID, &r.CompanyID, &r.CustomerID, &r.Number, &r.Mode, &r.LoadType, &r.OriginPort,
		&r.DestinationPort, &r.Commodity, &r.Incoterm, &r.Containers, &r.Packages, &r.WeightKg, &r.VolumeCBM,
		&r.ReadyDate, &r.ValidUntil, &r.Status, &r.Notes, &createdBy, &r.CreatedAt, &r.UpdatedAt); err != nil {
		return nil, err
	}
	r.CreatedBy = derefString(createdBy)
	return &r, nil
}

func (r *RFQRepo) Create(ctx context.Context, rfq *entity.RFQ) error {
	query := `INSERT INTO rfqs (` + rfqColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)`
	_, err := r.q.Exec(ctx, query,
		rfq.ID, rfq.CompanyID, rfq.CustomerID, rfq.Number, rfq.Mode, rfq.LoadType, rfq.OriginPort,
		rfq.DestinationPort, rfq.Commodity, rfq.Incoterm, rfq.Containers, rfq.Packages, rfq.WeightKg,
		rfq.VolumeCBM, rfq.ReadyDate, rfq.ValidUntil, rfq.Status, rfq.Notes, nullString(rfq.CreatedBy),
		rfq.CreatedAt, rfq.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: cliente o puerto inexistente", domain.ErrInvalidInput)
		}
		return fmt.Errorf("insert rfq: %w", err)
	}
	return nil
}

func (r *RFQRepo) GetByID(ctx context.Context, id string) (*entity.RFQ, error) {
	rfq, err := scanRFQ(r.q.QueryRow(ctx, `SELECT `+rfqColumns+` FROM rfqs WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get rfq: %w", err)
	}
	return rfq, nil
}

func (r *RFQRepo) List(ctx context.Context, companyID string, f repository.ListFilter) ([]*entity.RFQ, int, error) {
	b := newListBuilder(rfqSort, "created_at").
		eq("company_id", companyID).
		eqIf("status", f.Status).
		eqIf("customer_id", f.CustomerID).
		search(f.Search, "number", "commodity", "origin_port", "destination_port").
		dateRange("created_at", f)
	if f.HideDrafts {
		b.raw("status <> 'DRAFT'")
	}

	cq, cargs := b.countQuery("rfqs")
	var total int
	if err := r.q.QueryRow(ctx, cq, cargs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count rfqs: %w", err)
	}
	sq, sargs := b.selectQuery(rfqColumns, "rfqs", f)
	rows, err := r.q.Query(ctx, sq, sargs...)
	if err != nil {
		return nil, 0, fmt.Errorf("list rfqs: %w", err)
	}
	defer rows.Close()
	var list []*entity.RFQ
	for rows.Next() {
		rfq, err := scanRFQ(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan rfq: %w", err)
		}
		list = append(list, rfq)
	}
	return list, total, rows.Err()
}

func (r *RFQRepo) UpdateStatus(ctx context.Context, id, from, to string, at time.Time) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE rfqs SET status = $3, updated_at = $4 WHERE id = $1 AND status = $2`, id, from, to, at)
	if err != nil {
		return fmt.Errorf("update rfq status: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%w: rfq %s ya no está en %s", domain.ErrConflict, id, from)
	}
	return nil
}

func (r *RFQRepo) ExpireBefore(ctx context.Context, now time.Time) (int64, error) {
	cmd, err := r.q.Exec(ctx, `
		UPDATE rfqs SET status = 'EXPIRED', updated_at = $1
		 WHERE status IN ('SUBMITTED', 'QUOTED') AND valid_until < $1`, now)
	if err != nil {
		return 0, fmt.Errorf("expire rfqs: %w", err)
	}
	return cmd.RowsAffected(), nil
}

// ─── Bids ────────────────────────────────────────────────────────────────────

// BidRepo ofertas y sus líneas.
type BidRepo struct {
	q Querier
}

func NewBidRepository(q Querier) *BidRepo { return &BidRepo{q: q} }

const bidColumns = `id, company_id, rfq_id, vendor_id, number, currency, subtotal, tax_total, total,
	valid_until, transit_days, status, remarks, created_at, updated_at`

func scanBid(row interface{ Scan(...any) error }) (*entity.Bid, error) {
	var b entity.Bid
	if err := row.Scan(&b.ID, &b.CompanyID, &b.RFQID, &b.VendorID, &b.Number, &b.Currency, &b.Subtotal,
		&b.TaxTotal, &b.Total, &b.ValidUntil, &b.TransitDays, &b.Status, &b.Remarks, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	return &b, nil
}

// Create inserta la oferta y sus líneas. Llamar dentro de una tx para que sea atómico.
func (r *BidRepo) Create(ctx context.Context, bid *entity.Bid) error {
	query := `INSERT INTO bids (` + bidColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(ctx, query, bid.ID, bid.CompanyID, bid.RFQID, bid.VendorID, bid.Number, bid.Currency,
		bid.Subtotal, bid.TaxTotal, bid.Total, bid.ValidUntil, bid.TransitDays, bid.Status, bid.Remarks,
		bid.CreatedAt, bid.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert bid: %w", err)
	}
	for i, it := range bid.Items {
		_, err := r.q.Exec(ctx, `
			INSERT INTO bid_items (id, bid_id, price_component_id, description, basis, quantity, unit_price, tax_rate, amount, position)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			it.ID, bid.ID, it.PriceComponentID, it.Description, it.Basis, it.Quantity, it.UnitPrice, it.TaxRate, it.Amount, i)
		if err != nil {
			return fmt.Errorf("insert bid item %d: %w", i, err)
		}
	}
	return nil
}

// GetByID devuelve la oferta con sus líneas.
func (r *BidRepo) GetByID(ctx context.Context, id string) (*entity.Bid, error) {
	bid, err := scanBid(r.q.QueryRow(ctx, `SELECT `+bidColumns+` FROM bids WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get bid: %w", err)
	}
	items, err := r.items(ctx, bid.ID)
	if err != nil {
		return nil, err
	}
	bid.Items = items
	return bid, nil
}

func (r *BidRepo) items(ctx context.Context, bidID string) ([]entity.BidItem, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, bid_id, price_component_id, description, basis, quantity, unit_price, tax_rate, amount
		  FROM bid_items WHERE bid_id = $1 ORDER BY position`, bidID)
	if err != nil {
		return nil, fmt.Errorf("list bid items: %w", err)
	}
	defer rows.Close()
	var items []entity.BidItem
	for rows.Next() {
		var it entity.BidItem
		if err := rows.Scan(&it.ID, &it.BidID, &it.PriceComponentID, &it.Description, &it.Basis, &it.Quantity,
			&it.UnitPrice, &it.TaxRate, &it.Amount); err != nil {
			return nil, fmt.Errorf("scan bid item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// ListByRFQ devuelve las ofertas del RFQ (sin líneas), la más reciente primero.
func (r *BidRepo) ListByRFQ(ctx context.Context, rfqID string) ([]*entity.Bid, error) {
	rows, err := r.q.Query(ctx, `SELECT `+bidColumns+` FROM bids WHERE rfq_id = $1 ORDER BY created_at DESC`, rfqID)
	if err != nil {
		return nil, fmt.Errorf("list bids: %w", err)
	}
	defer rows.Close()
	var list []*entity.Bid
	for rows.Next() {
		b, err := scanBid(rows)
		if err != nil {
			return nil, fmt.Errorf("scan bid: %w", err)
		}
		list = append(list, b)
	}
	return list, rows.Err()
}

func (r *BidRepo) UpdateStatus(ctx context.Context, id, from, to string, at time.Time) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE bids SET status = $3, updated_at = $4 WHERE id = $1 AND status = $2`, id, from, to, at)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("update bid status: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%w: oferta %s ya no está en %s", domain.ErrConflict, id, from)
	}
	return nil
}

func (r *BidRepo) RejectSiblings(ctx context.Context, rfqID, acceptedBidID string, at time.Time) error {
	_, err := r.q.Exec(ctx, `
		UPDATE bids SET status = 'REJECTED', updated_at = $3
		 WHERE rfq_id = $1 AND id <> $2 AND status IN ('DRAFT', 'SENT')`, rfqID, acceptedBidID, at)
	if err != nil {
		return fmt.Errorf("reject sibling bids: %w", err)
	}
	return nil
}

func (r *BidRepo) ExpireBefore(ctx context.Context, now time.Time) (int64, error) {
	cmd, err := r.q.Exec(ctx, `
		UPDATE bids SET status = 'EXPIRED', updated_at = $1
		 WHERE status = 'SENT' AND valid_until < $1`, now)
	if err != nil {
		return 0, fmt.Errorf("expire bids: %w", err)
	}
	return cmd.RowsAffected(), nil
}

// ─── Consecutivos ────────────────────────────────────────────────────────────

// SequenceRepo consecutivos por empresa y tipo (RFQ, BID, SHP, INV).
type SequenceRepo struct {
	q Querier
}

func NewSequenceRepository(q Querier) *SequenceRepo { return &SequenceRepo{q: q} }

// Next reserva el siguiente número. El upsert bloquea la fila hasta el fin de la tx,
// así dos transacciones concurrentes nunca obtienen el mismo valor.
func (r *SequenceRepo) Next(ctx context.Context, companyID, kind string) (int64, error) {
	const query = `
		INSERT INTO document_sequences (company_id, kind, last_value) VALUES ($1, $2, 1)
		ON CONFLICT (company_id, kind) DO UPDATE SET last_value = document_sequences.last_value + 1
		RETURNING last_value`
	var n int64
	if err := r.q.QueryRow(ctx, query, companyID, kind).Scan(&n); err != nil {
		return 0, fmt.Errorf("next sequence %s: %w", kind, err)
	}
	return n, nil
}
