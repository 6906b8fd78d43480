package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Freight-api/internal/application/auth"
	"github.com/jhoicas/Freight-api/internal/application/billing"
	"github.com/jhoicas/Freight-api/internal/application/quotation"
	"github.com/jhoicas/Freight-api/internal/application/shipment"
	"github.com/jhoicas/Freight-api/internal/domain/repository"
)

var (
	_ auth.TenancyTxRunner = (*TxRunner)(nil)
	_ quotation.TxRunner   = (*TxRunner)(nil)
	_ billing.TxRunner     = (*TxRunner)(nil)
	_ shipment.TxRunner    = (*TxRunner)(nil)
)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// run inicia una transacción, ejecuta fn y hace Commit o Rollback.
func (r *TxRunner) run(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunTenancy alta de empresa, módulos y primer usuario.
func (r *TxRunner) RunTenancy(ctx context.Context, fn func(
	companies repository.CompanyRepository,
	users repository.UserRepository,
) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(NewCompanyRepository(tx), NewUserRepository(tx))
	})
}

// RunQuotation repos del flujo RFQ → oferta → embarque (aceptación atómica).
func (r *TxRunner) RunQuotation(ctx context.Context, fn func(
	rfqs repository.RFQRepository,
	bids repository.BidRepository,
	shipments repository.ShipmentRepository,
	seq repository.SequenceRepository,
) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(NewRFQRepository(tx), NewBidRepository(tx), NewShipmentRepository(tx), NewSequenceRepository(tx))
	})
}

// RunBilling cabecera, detalle y consecutivo de la factura.
func (r *TxRunner) RunBilling(ctx context.Context, fn func(
	invoices repository.InvoiceRepository,
	seq repository.SequenceRepository,
) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(NewInvoiceRepository(tx), NewSequenceRepository(tx))
	})
}

// RunShipment estado del embarque y sus eventos de seguimiento.
func (r *TxRunner) RunShipment(ctx context.Context, fn func(shipments repository.ShipmentRepository) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(NewShipmentRepository(tx))
	})
}
