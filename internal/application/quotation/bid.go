package quotation

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Freight-api/internal/application/dto"
	"github.com/jhoicas/Freight-api/internal/domain"
	"github.com/jhoicas/Freight-api/internal/domain/affiliation"
	"github.com/jhoicas/Freight-api/internal/domain/entity"
	"github.com/jhoicas/Freight-api/internal/domain/otif"
	"github.com/jhoicas/Freight-api/internal/domain/pricing"
	"github.com/jhoicas/Freight-api/internal/domain/repository"
)

// CreateBid crea una oferta en DRAFT para un RFQ abierto. Cada línea usa un componente de
// precio visible para la empresa; la tasa de impuesto sale de la empresa si el componente es gravado.
func (uc *UseCase) CreateBid(ctx context.Context, actor dto.Actor, rfqID string, in dto.CreateBidRequest) (*dto.BidResponse, error) {
	rfq, err := uc.loadRFQ(ctx, actor, rfqID)
	if err != nil {
		return nil, err
	}
	if !rfq.IsOpen() {
		return nil, fmt.Errorf("%w: el RFQ está %s", domain.ErrInvalidTransition, rfq.Status)
	}
	company, err := uc.company(actor.CompanyID)
	if err != nil {
		return nil, err
	}
	now := uc.now()

	currency := strings.ToUpper(strings.TrimSpace(in.Currency))
	if currency == "" {
		currency = company.DefaultCurrency
	}
	if !pricing.ValidCurrency(currency) {
		return nil, fmt.Errorf("%w: moneda %q no válida", domain.ErrInvalidInput, in.Currency)
	}
	validUntil := in.ValidUntil
	if validUntil.IsZero() {
		validUntil = rfq.ValidUntil
	}
	if !validUntil.After(now) {
		return nil, fmt.Errorf("%w: valid_until debe ser futura", domain.ErrInvalidInput)
	}
	if in.TransitDays < 0 {
		return nil, fmt.Errorf("%w: transit_days negativo", domain.ErrInvalidInput)
	}
	if len(in.Items) == 0 {
		return nil, fmt.Errorf("%w: la oferta necesita al menos una línea", domain.ErrInvalidInput)
	}

	var vendorID *string
	if in.VendorID != "" {
		v, err := uc.Vendors.GetByID(ctx, in.VendorID)
		if err != nil {
			return nil, err
		}
		if v == nil || v.CompanyID != actor.CompanyID {
			return nil, fmt.Errorf("%w: proveedor no encontrado", domain.ErrInvalidInput)
		}
		vendorID = &v.ID
	}

	bid := &entity.Bid{
		ID:          uuid.New().String(),
		CompanyID:   actor.CompanyID,
		RFQID:       rfq.ID,
		VendorID:    vendorID,
		Currency:    currency,
		ValidUntil:  validUntil,
		TransitDays: in.TransitDays,
		Status:      entity.BidStatusDraft,
		Remarks:     in.Remarks,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	items, err := uc.bidItems(ctx, company, rfq, bid.ID, in.Items)
	if err != nil {
		return nil, err
	}
	priced, totals, err := pricing.ComputeBid(items)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	bid.Items = priced
	bid.Subtotal, bid.TaxTotal, bid.Total = totals.Subtotal, totals.Tax, totals.Total

	err = uc.Tx.RunQuotation(ctx, func(_ repository.RFQRepository, bids repository.BidRepository, _ repository.ShipmentRepository, seq repository.SequenceRepository) error {
		n, err := seq.Next(ctx, actor.CompanyID, SeqBid)
		if err != nil {
			return err
		}
		bid.Number = fmt.Sprintf("Q-%d-%06d", now.Year(), n)
		return bids.Create(ctx, bid)
	})
	if err != nil {
		return nil, err
	}
	return toBidResponse(bid), nil
}

func (uc *UseCase) bidItems(ctx context.Context, company *entity.Company, rfq *entity.RFQ, bidID string, in []dto.BidItemRequest) ([]entity.BidItem, error) {
	viewer := affiliation.ViewerOf(company)
	out := make([]entity.BidItem, 0, len(in))
	for i, it := range in {
		pc, err := uc.Components.GetByID(ctx, it.PriceComponentID)
		if err != nil {
			return nil, err
		}
		if pc == nil || !pc.Active || !affiliation.Visible(pc.OwnerCompanyID, pc.Affiliation, viewer) {
			return nil, fmt.Errorf("%w: línea %d: componente de precio no disponible", domain.ErrInvalidInput, i+1)
		}
		qty := pricing.SuggestedQuantity(pc.Basis, rfq)
		if it.Quantity != nil {
			qty = *it.Quantity
		}
		rate := decimal.Zero
		if pc.Taxable {
			rate = company.DefaultTaxRate
		}
		desc := strings.TrimSpace(it.Description)
		if desc == "" {
			desc = pc.Name
		}
		out = append(out, entity.BidItem{
			ID:               uuid.New().String(),
			BidID:            bidID,
			PriceComponentID: pc.ID,
			Description:      desc,
			Basis:            pc.Basis,
			Quantity:         qty,
			UnitPrice:        it.UnitPrice,
			TaxRate:          rate,
		})
	}
	return out, nil
}

// SendBid DRAFT -> SENT, el RFQ pasa a QUOTED y se envía el PDF al cliente.
func (uc *UseCase) SendBid(ctx context.Context, actor dto.Actor, bidID string) (*dto.BidResponse, error) {
	bid, rfq, err := uc.loadBid(ctx, actor, bidID)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	if bid.Status != entity.BidStatusDraft {
		return nil, fmt.Errorf("%w: oferta %s -> %s", domain.ErrInvalidTransition, bid.Status, entity.BidStatusSent)
	}
	if bid.IsExpiredAt(now) {
		return nil, domain.ErrExpired
	}
	if !entity.RFQCanTransition(rfq.Status, entity.RFQStatusQuoted) {
		return nil, fmt.Errorf("%w: RFQ %s -> %s", domain.ErrInvalidTransition, rfq.Status, entity.RFQStatusQuoted)
	}

	err = uc.Tx.RunQuotation(ctx, func(rfqs repository.RFQRepository, bids repository.BidRepository, _ repository.ShipmentRepository, _ repository.SequenceRepository) error {
		if err := bids.UpdateStatus(ctx, bid.ID, entity.BidStatusDraft, entity.BidStatusSent, now); err != nil {
			return err
		}
		return rfqs.UpdateStatus(ctx, rfq.ID, rfq.Status, entity.RFQStatusQuoted, now)
	})
	if err != nil {
		return nil, err
	}
	bid.Status, bid.UpdatedAt = entity.BidStatusSent, now
	rfq.Status = entity.RFQStatusQuoted

	company, err := uc.company(actor.CompanyID)
	if err != nil {
		return nil, err
	}
	customer, err := uc.customer(actor.CompanyID, rfq.CustomerID)
	if err != nil {
		return nil, err
	}
	pdf, err := uc.Renderer.RenderQuotation(company, customer, rfq, bid)
	if err != nil {
		uc.Log.Error().Err(err).Str("bid_id", bid.ID).Msg("quotation: no se pudo generar el PDF")
		pdf = nil
	}
	uc.Notifier.QuotationSent(ctx, company, customer, rfq, bid, pdf)
	return toBidResponse(bid), nil
}

// AcceptBid acepta una oferta enviada y vigente. En una sola transacción: oferta ACCEPTED,
// las demás ofertas del RFQ REJECTED, RFQ ACCEPTED y embarque nuevo en BOOKED.
func (uc *UseCase) AcceptBid(ctx context.Context, actor dto.Actor, bidID string) (*dto.BidResponse, error) {
	bid, rfq, err := uc.loadBid(ctx, actor, bidID)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	if bid.Status != entity.BidStatusSent {
		return nil, fmt.Errorf("%w: oferta %s -> %s", domain.ErrInvalidTransition, bid.Status, entity.BidStatusAccepted)
	}
	if bid.IsExpiredAt(now) {
		return nil, domain.ErrExpired
	}
	if !entity.RFQCanTransition(rfq.Status, entity.RFQStatusAccepted) {
		return nil, fmt.Errorf("%w: RFQ %s -> %s", domain.ErrInvalidTransition, rfq.Status, entity.RFQStatusAccepted)
	}

	etd := rfq.ReadyDate
	shipment := &entity.Shipment{
		ID:              uuid.New().String(),
		CompanyID:       rfq.CompanyID,
		CustomerID:      rfq.CustomerID,
		RFQID:           rfq.ID,
		BidID:           bid.ID,
		VendorID:        bid.VendorID,
		Mode:            rfq.Mode,
		OriginPort:      rfq.OriginPort,
		DestinationPort: rfq.DestinationPort,
		Containers:      rfq.Containers,
		Packages:        rfq.Packages,
		WeightKg:        rfq.WeightKg,
		ETD:             etd,
		ETA:             etd.AddDate(0, 0, bid.TransitDays),
		Status:          otif.StatusBooked,
		OTIFResult:      otif.ResultPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	event := &entity.ShipmentEvent{
		ID:         uuid.New().String(),
		ShipmentID: shipment.ID,
		Status:     otif.StatusBooked,
		OccurredAt: now,
		Remarks:    "Oferta " + bid.Number + " aceptada",
		Source:     entity.EventSourceManual,
		CreatedBy:  actor.UserID,
		CreatedAt:  now,
	}

	err = uc.Tx.RunQuotation(ctx, func(rfqs repository.RFQRepository, bids repository.BidRepository, shipments repository.ShipmentRepository, seq repository.SequenceRepository) error {
		if err := bids.UpdateStatus(ctx, bid.ID, entity.BidStatusSent, entity.BidStatusAccepted, now); err != nil {
			return err
		}
		if err := bids.RejectSiblings(ctx, rfq.ID, bid.ID, now); err != nil {
			return err
		}
		if err := rfqs.UpdateStatus(ctx, rfq.ID, rfq.Status, entity.RFQStatusAccepted, now); err != nil {
			return err
		}
		n, err := seq.Next(ctx, rfq.CompanyID, SeqShipment)
		if err != nil {
			return err
		}
		shipment.Reference = fmt.Sprintf("SHP-%d-%06d", now.Year(), n)
		if err := shipments.Create(ctx, shipment); err != nil {
			return err
		}
		return shipments.AddEvent(ctx, event)
	})
	if err != nil {
		return nil, err
	}
	bid.Status, bid.UpdatedAt = entity.BidStatusAccepted, now
	uc.Log.Info().Str("company_id", rfq.CompanyID).Str("bid_id", bid.ID).Str("shipment_id", shipment.ID).Msg("quotation: oferta aceptada")
	if uc.Bookings != nil {
		uc.Bookings.ShipmentBooked(ctx, shipment)
	}
	out := toBidResponse(bid)
	out.ShipmentID = shipment.ID
	return out, nil
}

// RejectBid SENT -> REJECTED. El RFQ sigue abierto para nuevas ofertas.
func (uc *UseCase) RejectBid(ctx context.Context, actor dto.Actor, bidID string) (*dto.BidResponse, error) {
	return uc.transitionBid(ctx, actor, bidID, entity.BidStatusSent, entity.BidStatusRejected)
}

// CancelBid descarta un borrador.
func (uc *UseCase) CancelBid(ctx context.Context, actor dto.Actor, bidID string) (*dto.BidResponse, error) {
	return uc.transitionBid(ctx, actor, bidID, entity.BidStatusDraft, entity.BidStatusCancelled)
}

func (uc *UseCase) transitionBid(ctx context.Context, actor dto.Actor, bidID, from, to string) (*dto.BidResponse, error) {
	bid, _, err := uc.loadBid(ctx, actor, bidID)
	if err != nil {
		return nil, err
	}
	if bid.Status != from {
		return nil, fmt.Errorf("%w: oferta %s -> %s", domain.ErrInvalidTransition, bid.Status, to)
	}
	now := uc.now()
	if err := uc.Bids.UpdateStatus(ctx, bid.ID, from, to, now); err != nil {
		return nil, err
	}
	bid.Status, bid.UpdatedAt = to, now
	return toBidResponse(bid), nil
}

// GetBid devuelve la oferta con sus líneas.
func (uc *UseCase) GetBid(ctx context.Context, actor dto.Actor, bidID string) (*dto.BidResponse, error) {
	bid, _, err := uc.loadBid(ctx, actor, bidID)
	if err != nil {
		return nil, err
	}
	return toBidResponse(bid), nil
}

// ListBids ofertas de un RFQ. El portal no ve borradores ni canceladas.
func (uc *UseCase) ListBids(ctx context.Context, actor dto.Actor, rfqID string) ([]dto.BidResponse, error) {
	rfq, err := uc.loadRFQ(ctx, actor, rfqID)
	if err != nil {
		return nil, err
	}
	list, err := uc.Bids.ListByRFQ(ctx, rfq.ID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.BidResponse, 0, len(list))
	for _, b := range list {
		if actor.IsCustomer() && !customerVisible(b) {
			continue
		}
		out = append(out, *toBidResponse(b))
	}
	return out, nil
}

// QuotationPDF genera el PDF de la oferta. Devuelve bytes y nombre de archivo.
func (uc *UseCase) QuotationPDF(ctx context.Context, actor dto.Actor, bidID string) ([]byte, string, error) {
	bid, rfq, err := uc.loadBid(ctx, actor, bidID)
	if err != nil {
		return nil, "", err
	}
	company, err := uc.company(actor.CompanyID)
	if err != nil {
		return nil, "", err
	}
	customer, err := uc.customer(actor.CompanyID, rfq.CustomerID)
	if err != nil {
		return nil, "", err
	}
	pdf, err := uc.Renderer.RenderQuotation(company, customer, rfq, bid)
	if err != nil {
		return nil, "", fmt.Errorf("render quotation: %w", err)
	}
	return pdf, bid.Number + ".pdf", nil
}

func (uc *UseCase) loadBid(ctx context.Context, actor dto.Actor, bidID string) (*entity.Bid, *entity.RFQ, error) {
	bid, err := uc.Bids.GetByID(ctx, bidID)
	if err != nil {
		return nil, nil, err
	}
	if bid == nil || bid.CompanyID != actor.CompanyID {
		return nil, nil, domain.ErrNotFound
	}
	if actor.IsCustomer() && !customerVisible(bid) {
		return nil, nil, domain.ErrNotFound
	}
	rfq, err := uc.loadRFQ(ctx, actor, bid.RFQID)
	if err != nil {
		return nil, nil, err
	}
	return bid, rfq, nil
}

func customerVisible(b *entity.Bid) bool {
	return b.Status != entity.BidStatusDraft && b.Status != entity.BidStatusCancelled
}
