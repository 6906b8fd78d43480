package quotation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Freight-api/internal/application/dto"
	"github.com/jhoicas/Freight-api/internal/domain"
	"github.com/jhoicas/Freight-api/internal/domain/affiliation"
	"github.com/jhoicas/Freight-api/internal/domain/entity"
	"github.com/jhoicas/Freight-api/internal/domain/repository"
)

// DefaultRFQValidity vigencia de un RFQ cuando el solicitante no la indica.
const DefaultRFQValidity = 30 * 24 * time.Hour

// Deps dependencias del caso de uso comercial.
type Deps struct {
	RFQs       repository.RFQRepository
	Bids       repository.BidRepository
	Companies  repository.CompanyRepository
	Customers  repository.CustomerRepository
	Vendors    repository.VendorRepository
	Ports      repository.PortRepository
	Components repository.PriceComponentRepository
	Tx         TxRunner
	Notifier   Notifier
	Renderer   QuotationRenderer
	Bookings   BookingListener
	Log        zerolog.Logger
}

// UseCase RFQs y ofertas.
type UseCase struct {
	Deps
	now func() time.Time
}

// NewUseCase construye el caso de uso comercial.
func NewUseCase(deps Deps) *UseCase {
	return &UseCase{Deps: deps, now: time.Now}
}

// ─── RFQs ────────────────────────────────────────────────────────────────────

// CreateRFQ registra una solicitud de cotización. Los usuarios del portal solo crean
// para su propio cliente y la solicitud entra directo en SUBMITTED.
func (uc *UseCase) CreateRFQ(ctx context.Context, actor dto.Actor, in dto.CreateRFQRequest) (*dto.RFQResponse, error) {
	if actor.IsCustomer() {
		in.CustomerID = actor.CustomerID
		in.Submit = true
	}
	company, err := uc.company(actor.CompanyID)
	if err != nil {
		return nil, err
	}
	customer, err := uc.customer(actor.CompanyID, in.CustomerID)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	rfq, err := uc.buildRFQ(ctx, company, in, now)
	if err != nil {
		return nil, err
	}
	rfq.CustomerID = customer.ID
	rfq.CreatedBy = actor.UserID
	if in.Submit {
		rfq.Status = entity.RFQStatusSubmitted
	}

	err = uc.Tx.RunQuotation(ctx, func(rfqs repository.RFQRepository, _ repository.BidRepository, _ repository.ShipmentRepository, seq repository.SequenceRepository) error {
		n, err := seq.Next(ctx, company.ID, SeqRFQ)
		if err != nil {
			return err
		}
		rfq.Number = fmt.Sprintf("RFQ-%d-%06d", now.Year(), n)
		return rfqs.Create(ctx, rfq)
	})
	if err != nil {
		return nil, err
	}
	if rfq.Status == entity.RFQStatusSubmitted {
		uc.Notifier.RFQSubmitted(ctx, company, rfq, customer.Name)
	}
	return toRFQResponse(rfq), nil
}

func (uc *UseCase) buildRFQ(ctx context.Context, company *entity.Company, in dto.CreateRFQRequest, now time.Time) (*entity.RFQ, error) {
	mode := strings.ToLower(strings.TrimSpace(in.Mode))
	load := strings.ToUpper(strings.TrimSpace(in.LoadType))
	if !entity.ValidModeLoad(mode, load) {
		return nil, fmt.Errorf("%w: combinación modo %q / carga %q no válida", domain.ErrInvalidInput, in.Mode, in.LoadType)
	}
	origin := strings.ToUpper(strings.TrimSpace(in.OriginPort))
	dest := strings.ToUpper(strings.TrimSpace(in.DestinationPort))
	if origin == "" || origin == dest {
		return nil, fmt.Errorf("%w: origen y destino deben ser distintos", domain.ErrInvalidInput)
	}
	viewer := affiliation.ViewerOf(company)
	for _, code := range []string{origin, dest} {
		p, err := uc.Ports.GetByCode(ctx, code)
		if err != nil {
			return nil, err
		}
		if p == nil || !affiliation.Visible(p.OwnerCompanyID, p.Affiliation, viewer) {
			return nil, fmt.Errorf("%w: puerto %s no existe", domain.ErrInvalidInput, code)
		}
	}
	if strings.TrimSpace(in.Commodity) == "" {
		return nil, fmt.Errorf("%w: commodity es requerido", domain.ErrInvalidInput)
	}
	if in.Containers < 0 || in.Packages < 0 || in.WeightKg.IsNegative() || in.VolumeCBM.IsNegative() {
		return nil, fmt.Errorf("%w: cantidades negativas", domain.ErrInvalidInput)
	}
	if load == entity.LoadFCL && in.Containers == 0 {
		return nil, fmt.Errorf("%w: FCL requiere al menos un contenedor", domain.ErrInvalidInput)
	}
	if in.ReadyDate.IsZero() {
		return nil, fmt.Errorf("%w: ready_date es requerido", domain.ErrInvalidInput)
	}
	validUntil := now.Add(DefaultRFQValidity)
	if in.ValidUntil != nil {
		validUntil = *in.ValidUntil
	}
	if !validUntil.After(now) {
		return nil, fmt.Errorf("%w: valid_until debe ser futura", domain.ErrInvalidInput)
	}
	return &entity.RFQ{
		ID:              uuid.New().String(),
		CompanyID:       company.ID,
		Mode:            mode,
		LoadType:        load,
		OriginPort:      origin,
		DestinationPort: dest,
		Commodity:       strings.TrimSpace(in.Commodity),
		Incoterm:        strings.ToUpper(strings.TrimSpace(in.Incoterm)),
		Containers:      in.Containers,
		Packages:        in.Packages,
		WeightKg:        in.WeightKg,
		VolumeCBM:       in.VolumeCBM,
		ReadyDate:       in.ReadyDate,
		ValidUntil:      validUntil,
		Status:          entity.RFQStatusDraft,
		Notes:           in.Notes,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

// SubmitRFQ DRAFT -> SUBMITTED y aviso al buzón de operaciones.
func (uc *UseCase) SubmitRFQ(ctx context.Context, actor dto.Actor, id string) (*dto.RFQResponse, error) {
	rfq, err := uc.transitionRFQ(ctx, actor, id, entity.RFQStatusSubmitted)
	if err != nil {
		return nil, err
	}
	company, err := uc.company(actor.CompanyID)
	if err != nil {
		return nil, err
	}
	name := ""
	if c, err := uc.customer(actor.CompanyID, rfq.CustomerID); err == nil {
		name = c.Name
	}
	uc.Notifier.RFQSubmitted(ctx, company, rfq, name)
	return toRFQResponse(rfq), nil
}

// CancelRFQ pasa a CANCELLED un RFQ que aún no fue aceptado.
func (uc *UseCase) CancelRFQ(ctx context.Context, actor dto.Actor, id string) (*dto.RFQResponse, error) {
	rfq, err := uc.transitionRFQ(ctx, actor, id, entity.RFQStatusCancelled)
	if err != nil {
		return nil, err
	}
	return toRFQResponse(rfq), nil
}

func (uc *UseCase) transitionRFQ(ctx context.Context, actor dto.Actor, id, to string) (*entity.RFQ, error) {
	rfq, err := uc.loadRFQ(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if !entity.RFQCanTransition(rfq.Status, to) {
		return nil, fmt.Errorf("%w: RFQ %s -> %s", domain.ErrInvalidTransition, rfq.Status, to)
	}
	now := uc.now()
	if err := uc.RFQs.UpdateStatus(ctx, rfq.ID, rfq.Status, to, now); err != nil {
		return nil, err
	}
	rfq.Status, rfq.UpdatedAt = to, now
	return rfq, nil
}

// GetRFQ devuelve el RFQ si pertenece a la empresa (y al cliente, en el portal).
func (uc *UseCase) GetRFQ(ctx context.Context, actor dto.Actor, id string) (*dto.RFQResponse, error) {
	rfq, err := uc.loadRFQ(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	return toRFQResponse(rfq), nil
}

// ListRFQs lista con filtros de estado, cliente, búsqueda, fechas y orden.
func (uc *UseCase) ListRFQs(ctx context.Context, actor dto.Actor, f repository.ListFilter) (*dto.ListResponse[dto.RFQResponse], error) {
	if actor.IsCustomer() {
		f.CustomerID = actor.CustomerID
		f.HideDrafts = true
	}
	list, total, err := uc.RFQs.List(ctx, actor.CompanyID, f)
	if err != nil {
		return nil, err
	}
	items := make([]dto.RFQResponse, 0, len(list))
	for _, r := range list {
		items = append(items, *toRFQResponse(r))
	}
	return dto.NewList(items, f.Limit, f.Offset, total), nil
}

// ExpireStale vence RFQs abiertos y ofertas enviadas cuya vigencia terminó.
func (uc *UseCase) ExpireStale(ctx context.Context) (rfqs, bids int64, err error) {
	now := uc.now()
	if rfqs, err = uc.RFQs.ExpireBefore(ctx, now); err != nil {
		return 0, 0, fmt.Errorf("expire rfqs: %w", err)
	}
	if bids, err = uc.Bids.ExpireBefore(ctx, now); err != nil {
		return rfqs, 0, fmt.Errorf("expire bids: %w", err)
	}
	if rfqs+bids > 0 {
		uc.Log.Info().Int64("rfqs", rfqs).Int64("bids", bids).Msg("quotation: vencimientos aplicados")
	}
	return rfqs, bids, nil
}

func (uc *UseCase) loadRFQ(ctx context.Context, actor dto.Actor, id string) (*entity.RFQ, error) {
	rfq, err := uc.RFQs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rfq == nil || rfq.CompanyID != actor.CompanyID {
		return nil, domain.ErrNotFound
	}
	if actor.IsCustomer() && (rfq.CustomerID != actor.CustomerID || rfq.Status == entity.RFQStatusDraft) {
		return nil, domain.ErrNotFound
	}
	return rfq, nil
}

func (uc *UseCase) company(id string) (*entity.Company, error) {
	c, err := uc.Companies.GetByID(id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	return c, nil
}

func (uc *UseCase) customer(companyID, id string) (*entity.Customer, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: customer_id es requerido", domain.ErrInvalidInput)
	}
	c, err := uc.Customers.GetByID(id)
	if err != nil {
		return nil, err
	}
	if c == nil || c.CompanyID != companyID {
		return nil, fmt.Errorf("%w: cliente no encontrado", domain.ErrNotFound)
	}
	return c, nil
}

func toRFQResponse(r *entity.RFQ) *dto.RFQResponse {
	return &dto.RFQResponse{
		ID:              r.ID,
		Number:          r.Number,
		CustomerID:      r.CustomerID,
		Mode:            r.Mode,
		LoadType:        r.LoadType,
		OriginPort:      r.OriginPort,
		DestinationPort: r.DestinationPort,
		Commodity:       r.Commodity,
		Incoterm:        r.Incoterm,
		Containers:      r.Containers,
		Packages:        r.Packages,
		WeightKg:        r.WeightKg,
		VolumeCBM:       r.VolumeCBM,
		ReadyDate:       r.ReadyDate,
		ValidUntil:      r.ValidUntil,
		Status:          r.Status,
		Notes:           r.Notes,
		CreatedAt:       r.CreatedAt,
	}
}

func toBidResponse(b *entity.Bid) *dto.BidResponse {
	out := &dto.BidResponse{
		ID:          b.ID,
		RFQID:       b.RFQID,
		Number:      b.Number,
		Currency:    b.Currency,
		Subtotal:    b.Subtotal,
		TaxTotal:    b.TaxTotal,
		Total:       b.Total,
		ValidUntil:  b.ValidUntil,
		TransitDays: b.TransitDays,
		Status:      b.Status,
		Remarks:     b.Remarks,
		Items:       make([]dto.BidItemResponse, 0, len(b.Items)),
	}
	if b.VendorID != nil {
		out.VendorID = *b.VendorID
	}
	for _, it := range b.Items {
		out.Items = append(out.Items, dto.BidItemResponse{
			ID:               it.ID,
			PriceComponentID: it.PriceComponentID,
			Description:      it.Description,
			Basis:            it.Basis,
			Quantity:         it.Quantity,
			UnitPrice:        it.UnitPrice,
			TaxRate:          it.TaxRate,
			Amount:           it.Amount,
		})
	}
	return out
}
