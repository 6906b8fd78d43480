package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Freight-api/internal/domain"
	"github.com/jhoicas/Freight-api/internal/domain/entity"
	"github.com/jhoicas/Freight-api/internal/domain/repository"
)

var _ repository.ShipmentRepository = (*ShipmentRepo)(nil)

// ShipmentRepo embarques y eventos de seguimiento.
type ShipmentRepo struct {
	q Querier
}

func NewShipmentRepository(q Querier) *ShipmentRepo { return &ShipmentRepo{q: q} }

const shipmentColumns = `id, company_id, customer_id, rfq_id, bid_id, vendor_id, reference, mode,
	origin_port, destination_port, carrier, vessel_voyage, bl_number, containers, packages, weight_kg,
	etd, eta, atd, ata, delivered_at, delivered_packages, status, otif_result, created_at, updated_at`

var shipmentSort = map[string]string{
	"reference":  "reference",
	"status":     "status",
	"etd":        "etd",
	"eta":        "eta",
	"created_at": "created_at",
}

func scanShipment(row interface{ Scan(...any) error }) (*entity.Shipment, error) {
	var s entity.Shipment
	if err := row.Scan(&s.ID, &s.CompanyID, &s.CustomerID, &s.RFQID, &s.BidID, &s.VendorID, &s.Reference, &s.Mode,
		&s.OriginPort, &s.DestinationPort, &s.Carrier, &s.VesselVoyage, &s.BLNumber, &s.Containers, &s.Packages,
		&s.WeightKg, &s.ETD, &s.ETA, &s.ATD, &s.ATA, &s.DeliveredAt, &s.DeliveredPackages, &s.Status,
		&s.OTIFResult, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *ShipmentRepo) Create(ctx context.Context, s *entity.Shipment) error {
	query := `INSERT INTO shipments (` + shipmentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20,
		        $21, $22, $23, $24, $25, $26)`
	_, err := r.q.Exec(ctx, query, s.ID, s.CompanyID, s.CustomerID, s.RFQID, s.BidID, s.VendorID, s.Reference,
		s.Mode, s.OriginPort, s.DestinationPort, s.Carrier, s.VesselVoyage, s.BLNumber, s.Containers, s.Packages,
		s.WeightKg, s.ETD, s.ETA, s.ATD, s.ATA, s.DeliveredAt, s.DeliveredPackages, s.Status, s.OTIFResult,
		s.CreatedAt, s.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert shipment: %w", err)
	}
	return nil
}

func (r *ShipmentRepo) GetByID(ctx context.Context, id string) (*entity.Shipment, error) {
	s, err := scanShipment(r.q.QueryRow(ctx, `SELECT `+shipmentColumns+` FROM shipments WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get shipment: %w", err)
	}
	return s, nil
}

func (r *ShipmentRepo) List(ctx context.Context, companyID string, f repository.ListFilter) ([]*entity.Shipment, int, error) {
	b := newListBuilder(shipmentSort, "created_at").
		eq("company_id", companyID).
		eqIf("status", f.Status).
		eqIf("customer_id", f.CustomerID).
		search(f.Search, "reference", "bl_number", "carrier", "vessel_voyage").
		dateRange("etd", f)

	cq, cargs := b.countQuery("shipments")
	var total int
	if err := r.q.QueryRow(ctx, cq, cargs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count shipments: %w", err)
	}
	sq, sargs := b.selectQuery(shipmentColumns, "shipments", f)
	return r.queryList(ctx, total, sq, sargs...)
}

func (r *ShipmentRepo) queryList(ctx context.Context, total int, sql string, args ...any) ([]*entity.Shipment, int, error) {
	rows, err := r.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list shipments: %w", err)
	}
	defer rows.Close()
	var list []*entity.Shipment
	for rows.Next() {
		s, err := scanShipment(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan shipment: %w", err)
		}
		list = append(list, s)
	}
	return list, total, rows.Err()
}

func (r *ShipmentRepo) Update(ctx context.Context, s *entity.Shipment) error {
	const query = `
		UPDATE shipments SET carrier = $2, vessel_voyage = $3, bl_number = $4, etd = $5, eta = $6,
			atd = $7, ata = $8, delivered_at = $9, delivered_packages = $10, status = $11, otif_result = $12,
			updated_at = $13
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query, s.ID, s.Carrier, s.VesselVoyage, s.BLNumber, s.ETD, s.ETA, s.ATD, s.ATA,
		s.DeliveredAt, s.DeliveredPackages, s.Status, s.OTIFResult, s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update shipment: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ShipmentRepo) ListActive(ctx context.Context) ([]*entity.Shipment, error) {
	list, _, err := r.queryList(ctx, 0,
		`SELECT `+shipmentColumns+` FROM shipments WHERE status NOT IN ('DELIVERED', 'CANCELLED') ORDER BY eta`)
	return list, err
}

func (r *ShipmentRepo) AddEvent(ctx context.Context, ev *entity.ShipmentEvent) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO shipment_events (id, shipment_id, status, occurred_at, location, remarks, source, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		ev.ID, ev.ShipmentID, ev.Status, ev.OccurredAt, ev.Location, ev.Remarks, ev.Source, ev.CreatedBy, ev.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert shipment event: %w", err)
	}
	return nil
}

func (r *ShipmentRepo) ListEvents(ctx context.Context, shipmentID string) ([]*entity.ShipmentEvent, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, shipment_id, status, occurred_at, location, remarks, source, created_by, created_at
		  FROM shipment_events WHERE shipment_id = $1 ORDER BY occurred_at, created_at`, shipmentID)
	if err != nil {
		return nil, fmt.Errorf("list shipment events: %w", err)
	}
	defer rows.Close()
	var list []*entity.ShipmentEvent
	for rows.Next() {
		var ev entity.ShipmentEvent
		if err := rows.Scan(&ev.ID, &ev.ShipmentID, &ev.Status, &ev.OccurredAt, &ev.Location, &ev.Remarks,
			&ev.Source, &ev.CreatedBy, &ev.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan shipment event: %w", err)
		}
		list = append(list, &ev)
	}
	return list, rows.Err()
}
