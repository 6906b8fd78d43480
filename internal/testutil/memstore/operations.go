package memstore

import (
	"context"
	"maps"
	"slices"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Freight-api/internal/domain"
	"github.com/jhoicas/Freight-api/internal/domain/entity"
	"github.com/jhoicas/Freight-api/internal/domain/otif"
	"github.com/jhoicas/Freight-api/internal/domain/repository"
)

// ─── RFQs ────────────────────────────────────────────────────────────────────

type RFQRepo struct{ s *Store }

func (s *Store) RFQs() *RFQRepo { return &RFQRepo{s} }

func (r *RFQRepo) Create(_ context.Context, rfq *entity.RFQ) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("rfqs.Create"); err != nil {
		return err
	}
	r.s.rfqs[rfq.ID] = *rfq
	return nil
}

func (r *RFQRepo) GetByID(_ context.Context, id string) (*entity.RFQ, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rfq, ok := r.s.rfqs[id]
	if !ok {
		return nil, nil
	}
	return &rfq, nil
}

func (r *RFQRepo) List(_ context.Context, companyID string, f repository.ListFilter) ([]*entity.RFQ, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var all []*entity.RFQ
	for _, x := range r.s.rfqs {
		if x.CompanyID != companyID || (f.Status != "" && x.Status != f.Status) || (f.HideDrafts && x.Status == entity.RFQStatusDraft) ||
			(f.CustomerID != "" && x.CustomerID != f.CustomerID) ||
			!contains(f.Search, x.Number, x.Commodity) || !inRange(x.CreatedAt, f) {
			continue
		}
		x := x
		all = append(all, &x)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Number < all[j].Number })
	out, total := page(all, f)
	return out, total, nil
}

func (r *RFQRepo) UpdateStatus(_ context.Context, id, from, to string, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rfq, ok := r.s.rfqs[id]
	if !ok || rfq.Status != from {
		return domain.ErrConflict
	}
	rfq.Status, rfq.UpdatedAt = to, at
	r.s.rfqs[id] = rfq
	return nil
}

func (r *RFQRepo) ExpireBefore(_ context.Context, now time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for id, x := range r.s.rfqs {
		if x.IsOpen() && x.ValidUntil.Before(now) {
			x.Status, x.UpdatedAt = entity.RFQStatusExpired, now
			r.s.rfqs[id] = x
			n++
		}
	}
	return n, nil
}

// ─── Bids ────────────────────────────────────────────────────────────────────

type BidRepo struct{ s *Store }

func (s *Store) Bids() *BidRepo { return &BidRepo{s} }

func (r *BidRepo) Create(_ context.Context, b *entity.Bid) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *b
	cp.Items = append([]entity.BidItem(nil), b.Items...)
	r.s.bids[b.ID] = cp
	return nil
}

func (r *BidRepo) GetByID(_ context.Context, id string) (*entity.Bid, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.bids[id]
	if !ok {
		return nil, nil
	}
	b.Items = append([]entity.BidItem(nil), b.Items...)
	return &b, nil
}

func (r *BidRepo) ListByRFQ(_ context.Context, rfqID string) ([]*entity.Bid, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Bid
	for _, b := range r.s.bids {
		if b.RFQID == rfqID {
			b := b
			b.Items = nil
			out = append(out, &b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number > out[j].Number })
	return out, nil
}

func (r *BidRepo) UpdateStatus(_ context.Context, id, from, to string, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.bids[id]
	if !ok || b.Status != from {
		return domain.ErrConflict
	}
	b.Status, b.UpdatedAt = to, at
	r.s.bids[id] = b
	return nil
}

func (r *BidRepo) RejectSiblings(_ context.Context, rfqID, acceptedBidID string, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, b := range r.s.bids {
		if b.RFQID == rfqID && id != acceptedBidID && (b.Status == entity.BidStatusDraft || b.Status == entity.BidStatusSent) {
			b.Status, b.UpdatedAt = entity.BidStatusRejected, at
			r.s.bids[id] = b
		}
	}
	return nil
}

func (r *BidRepo) ExpireBefore(_ context.Context, now time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for id, b := range r.s.bids {
		if b.Status == entity.BidStatusSent && b.ValidUntil.Before(now) {
			b.Status, b.UpdatedAt = entity.BidStatusExpired, now
			r.s.bids[id] = b
			n++
		}
	}
	return n, nil
}

type SequenceRepo struct{ s *Store }

func (s *Store) Sequences() *SequenceRepo { return &SequenceRepo{s} }

func (r *SequenceRepo) Next(_ context.Context, companyID, kind string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	k := companyID + "/" + kind
	r.s.seq[k]++
	return r.s.seq[k], nil
}

// ─── Shipments ───────────────────────────────────────────────────────────────

type ShipmentRepo struct{ s *Store }

func (s *Store) Shipments() *ShipmentRepo { return &ShipmentRepo{s} }

func (r *ShipmentRepo) Create(_ context.Context, sh *entity.Shipment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("shipments.Create"); err != nil {
		return err
	}
	r.s.shipments[sh.ID] = *sh
	return nil
}

func (r *ShipmentRepo) GetByID(_ context.Context, id string) (*entity.Shipment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sh, ok := r.s.shipments[id]
	if !ok {
		return nil, nil
	}
	return &sh, nil
}

func (r *ShipmentRepo) List(_ context.Context, companyID string, f repository.ListFilter) ([]*entity.Shipment, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var all []*entity.Shipment
	for _, sh := range r.s.shipments {
		if sh.CompanyID != companyID || (f.Status != "" && sh.Status != f.Status) ||
			(f.CustomerID != "" && sh.CustomerID != f.CustomerID) || !contains(f.Search, sh.Reference, sh.BLNumber) {
			continue
		}
		sh := sh
		all = append(all, &sh)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Reference < all[j].Reference })
	out, total := page(all, f)
	return out, total, nil
}

func (r *ShipmentRepo) Update(_ context.Context, sh *entity.Shipment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("shipments.Update"); err != nil {
		return err
	}
	if _, ok := r.s.shipments[sh.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.shipments[sh.ID] = *sh
	return nil
}

func (r *ShipmentRepo) ListActive(_ context.Context) ([]*entity.Shipment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Shipment
	for _, sh := range r.s.shipments {
		if !otif.IsTerminal(sh.Status) {
			sh := sh
			out = append(out, &sh)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ETA.Before(out[j].ETA) })
	return out, nil
}

func (r *ShipmentRepo) AddEvent(_ context.Context, ev *entity.ShipmentEvent) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("shipments.AddEvent"); err != nil {
		return err
	}
	r.s.events = append(r.s.events, *ev)
	return nil
}

func (r *ShipmentRepo) ListEvents(_ context.Context, shipmentID string) ([]*entity.ShipmentEvent, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.ShipmentEvent
	for _, ev := range r.s.events {
		if ev.ShipmentID == shipmentID {
			ev := ev
			out = append(out, &ev)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].OccurredAt.Before(out[j].OccurredAt) })
	return out, nil
}

// ─── Invoices ────────────────────────────────────────────────────────────────

type InvoiceRepo struct{ s *Store }

func (s *Store) Invoices() *InvoiceRepo { return &InvoiceRepo{s} }

func (r *InvoiceRepo) Create(_ context.Context, inv *entity.Invoice) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.invoices[inv.ID] = *inv
	return nil
}

func (r *InvoiceRepo) CreateDetail(_ context.Context, d *entity.InvoiceDetail) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.details = append(r.s.details, *d)
	return nil
}

func (r *InvoiceRepo) Update(_ context.Context, inv *entity.Invoice) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.invoices[inv.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.invoices[inv.ID] = *inv
	return nil
}

func (r *InvoiceRepo) GetByID(_ context.Context, id string) (*entity.Invoice, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	inv, ok := r.s.invoices[id]
	if !ok {
		return nil, nil
	}
	return &inv, nil
}

func (r *InvoiceRepo) GetDetailsByInvoiceID(_ context.Context, invoiceID string) ([]*entity.InvoiceDetail, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.InvoiceDetail
	for _, d := range r.s.details {
		if d.InvoiceID == invoiceID {
			d := d
			out = append(out, &d)
		}
	}
	return out, nil
}

func (r *InvoiceRepo) List(_ context.Context, companyID string, f repository.ListFilter) ([]*entity.Invoice, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var all []*entity.Invoice
	for _, inv := range r.s.invoices {
		if inv.CompanyID != companyID || (f.Status != "" && inv.Status != f.Status) || (f.HideDrafts && inv.Status == entity.InvoiceStatusDraft) ||
			(f.CustomerID != "" && inv.CustomerID != f.CustomerID) || !contains(f.Search, inv.Number) {
			continue
		}
		inv := inv
		all = append(all, &inv)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Number < all[j].Number })
	out, total := page(all, f)
	return out, total, nil
}

func (r *InvoiceRepo) MarkOverdue(_ context.Context, now time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for id, inv := range r.s.invoices {
		if inv.Status == entity.InvoiceStatusIssued && inv.DueDate != nil && inv.DueDate.Before(now) {
			inv.Status, inv.UpdatedAt = entity.InvoiceStatusOverdue, now
			r.s.invoices[id] = inv
			n++
		}
	}
	return n, nil
}

// ─── Documents ───────────────────────────────────────────────────────────────

type DocumentRepo struct{ s *Store }

func (s *Store) Documents() *DocumentRepo { return &DocumentRepo{s} }

func (r *DocumentRepo) Create(_ context.Context, d *entity.Document) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("documents.Create"); err != nil {
		return err
	}
	r.s.documents[d.ID] = *d
	return nil
}

func (r *DocumentRepo) GetByID(_ context.Context, id string) (*entity.Document, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	d, ok := r.s.documents[id]
	if !ok {
		return nil, nil
	}
	return &d, nil
}

func (r *DocumentRepo) ListByEntity(_ context.Context, companyID, entityType, entityID string) ([]*entity.Document, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Document
	for _, d := range r.s.documents {
		if d.CompanyID == companyID && d.EntityType == entityType && d.EntityID == entityID {
			d := d
			out = append(out, &d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *DocumentRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.documents, id)
	return nil
}

// ─── Analytics ───────────────────────────────────────────────────────────────

type AnalyticsRepo struct{ s *Store }

func (s *Store) Analytics() *AnalyticsRepo { return &AnalyticsRepo{s} }

func (r *AnalyticsRepo) GetOTIFCounts(_ context.Context, companyID string, from, to time.Time) (repository.OTIFCounts, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var c repository.OTIFCounts
	for _, sh := range r.s.shipments {
		if sh.CompanyID != companyID {
			continue
		}
		if sh.Status == otif.StatusDelivered && sh.DeliveredAt != nil && !sh.DeliveredAt.Before(from) && !sh.DeliveredAt.After(to) {
			c.Delivered++
			if otif.OnTime(sh.OTIFResult) {
				c.OnTime++
			}
			if otif.InFull(sh.OTIFResult) {
				c.InFull++
			}
			if sh.OTIFResult == otif.ResultMet {
				c.OTIF++
			}
		}
		if !otif.IsTerminal(sh.Status) && sh.OTIFResult == otif.ResultAtRisk {
			c.AtRisk++
		}
	}
	return c, nil
}

func (r *AnalyticsRepo) GetRFQCounts(_ context.Context, companyID string, from, to time.Time) (repository.RFQCounts, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var c repository.RFQCounts
	for _, x := range r.s.rfqs {
		if x.CompanyID != companyID || x.CreatedAt.Before(from) || x.CreatedAt.After(to) {
			continue
		}
		c.Total++
		switch x.Status {
		case entity.RFQStatusAccepted:
			c.Accepted++
			c.Decided++
		case entity.RFQStatusRejected, entity.RFQStatusExpired:
			c.Decided++
		}
	}
	return c, nil
}

func (r *AnalyticsRepo) GetRevenue(_ context.Context, companyID string, from, to time.Time) ([]repository.CurrencyAmount, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.sum(func(inv entity.Invoice) bool {
		if inv.CompanyID != companyID || inv.IssueDate == nil || inv.IssueDate.Before(from) || inv.IssueDate.After(to) {
			return false
		}
		switch inv.Status {
		case entity.InvoiceStatusIssued, entity.InvoiceStatusPaid, entity.InvoiceStatusOverdue:
			return true
		}
		return false
	}), nil
}

func (r *AnalyticsRepo) GetOverdueReceivables(_ context.Context, companyID string) ([]repository.CurrencyAmount, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.sum(func(inv entity.Invoice) bool {
		return inv.CompanyID == companyID && inv.Status == entity.InvoiceStatusOverdue
	}), nil
}

func (r *AnalyticsRepo) sum(keep func(entity.Invoice) bool) []repository.CurrencyAmount {
	totals := map[string]decimal.Decimal{}
	for _, inv := range r.s.invoices {
		if keep(inv) {
			totals[inv.Currency] = totals[inv.Currency].Add(inv.GrandTotal)
		}
	}
	var out []repository.CurrencyAmount
	for cur, amt := range totals {
		out = append(out, repository.CurrencyAmount{Currency: cur, Amount: amt})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Currency < out[j].Currency })
	return out
}

// ─── Transacciones ───────────────────────────────────────────────────────────

// state copia de los datos del store para deshacer un callback fallido.
type state struct {
	companies  map[string]entity.Company
	modules    map[string]map[string]entity.CompanyModule
	users      map[string]entity.User
	customers  map[string]entity.Customer
	vendors    map[string]entity.Vendor
	ports      map[string]entity.Port
	currencies map[string]entity.Currency
	components map[string]entity.PriceComponent
	rfqs       map[string]entity.RFQ
	bids       map[string]entity.Bid
	shipments  map[string]entity.Shipment
	events     []entity.ShipmentEvent
	invoices   map[string]entity.Invoice
	details    []entity.InvoiceDetail
	documents  map[string]entity.Document
	seq        map[string]int64
}

func (s *Store) snapshot() state {
	s.mu.Lock()
	defer s.mu.Unlock()
	modules := make(map[string]map[string]entity.CompanyModule, len(s.modules))
	for id, m := range s.modules {
		modules[id] = maps.Clone(m)
	}
	return state{
		companies: maps.Clone(s.companies), modules: modules, users: maps.Clone(s.users),
		customers: maps.Clone(s.customers), vendors: maps.Clone(s.vendors), ports: maps.Clone(s.ports),
		currencies: maps.Clone(s.currencies), components: maps.Clone(s.components),
		rfqs: maps.Clone(s.rfqs), bids: maps.Clone(s.bids), shipments: maps.Clone(s.shipments),
		events: slices.Clone(s.events), invoices: maps.Clone(s.invoices), details: slices.Clone(s.details),
		documents: maps.Clone(s.documents), seq: maps.Clone(s.seq),
	}
}

func (s *Store) restore(st state) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.companies, s.modules, s.users = st.companies, st.modules, st.users
	s.customers, s.vendors, s.ports = st.customers, st.vendors, st.ports
	s.currencies, s.components = st.currencies, st.components
	s.rfqs, s.bids, s.shipments, s.events = st.rfqs, st.bids, st.shipments, st.events
	s.invoices, s.details, s.documents, s.seq = st.invoices, st.details, st.documents, st.seq
}

// tx ejecuta fn y, si falla, devuelve el store al estado previo (rollback).
func (s *Store) tx(fn func() error) error {
	before := s.snapshot()
	if err := fn(); err != nil {
		s.restore(before)
		return err
	}
	return nil
}

// RunTenancy ejecuta fn con los repositorios de empresas y usuarios del store.
func (s *Store) RunTenancy(_ context.Context, fn func(repository.CompanyRepository, repository.UserRepository) error) error {
	return s.tx(func() error { return fn(s.Companies(), s.Users()) })
}

// RunQuotation ejecuta fn con los repositorios del flujo RFQ → oferta → embarque.
func (s *Store) RunQuotation(_ context.Context, fn func(repository.RFQRepository, repository.BidRepository, repository.ShipmentRepository, repository.SequenceRepository) error) error {
	return s.tx(func() error { return fn(s.RFQs(), s.Bids(), s.Shipments(), s.Sequences()) })
}

// RunBilling ejecuta fn con los repositorios de facturación.
func (s *Store) RunBilling(_ context.Context, fn func(repository.InvoiceRepository, repository.SequenceRepository) error) error {
	return s.tx(func() error { return fn(s.Invoices(), s.Sequences()) })
}

// RunShipment ejecuta fn con el repositorio de embarques (estado + eventos).
func (s *Store) RunShipment(_ context.Context, fn func(repository.ShipmentRepository) error) error {
	return s.tx(func() error { return fn(s.Shipments()) })
}
