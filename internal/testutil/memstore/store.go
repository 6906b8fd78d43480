// Package memstore implementa los puertos de repository en memoria para pruebas de casos de uso.
// Guarda copias de las entidades; los TxRunner deshacen los cambios si el callback falla
// (sin aislamiento entre goroutines).
package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jhoicas/Freight-api/internal/domain"
	"github.com/jhoicas/Freight-api/internal/domain/affiliation"
	"github.com/jhoicas/Freight-api/internal/domain/entity"
	"github.com/jhoicas/Freight-api/internal/domain/repository"
)

// Store datos en memoria compartidos por todos los repositorios.
type Store struct {
	mu         sync.Mutex
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
	// FailOn hace fallar la operación con ese nombre (ej. "shipments.Create").
	FailOn map[string]error
}

// New crea un store vacío.
func New() *Store {
	return &Store{
		companies:  map[string]entity.Company{},
		modules:    map[string]map[string]entity.CompanyModule{},
		users:      map[string]entity.User{},
		customers:  map[string]entity.Customer{},
		vendors:    map[string]entity.Vendor{},
		ports:      map[string]entity.Port{},
		currencies: map[string]entity.Currency{},
		components: map[string]entity.PriceComponent{},
		rfqs:       map[string]entity.RFQ{},
		bids:       map[string]entity.Bid{},
		shipments:  map[string]entity.Shipment{},
		invoices:   map[string]entity.Invoice{},
		documents:  map[string]entity.Document{},
		seq:        map[string]int64{},
		FailOn:     map[string]error{},
	}
}

func (s *Store) fail(op string) error {
	return s.FailOn[op]
}

func page[T any](items []T, f repository.ListFilter) ([]T, int) {
	total := len(items)
	limit, offset := f.Limit, f.Offset
	if limit <= 0 {
		limit = 20
	}
	if offset >= total {
		return nil, total
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return items[offset:end], total
}

func contains(term string, fields ...string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}

func inRange(t time.Time, f repository.ListFilter) bool {
	if f.From != nil && t.Before(*f.From) {
		return false
	}
	if f.To != nil && t.After(*f.To) {
		return false
	}
	return true
}

// ─── Companies ───────────────────────────────────────────────────────────────

type CompanyRepo struct{ s *Store }

func (s *Store) Companies() *CompanyRepo { return &CompanyRepo{s} }

func (r *CompanyRepo) Create(c *entity.Company) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, ex := range r.s.companies {
		if ex.TaxID == c.TaxID {
			return domain.ErrDuplicate
		}
	}
	r.s.companies[c.ID] = *c
	return nil
}

func (r *CompanyRepo) GetByID(id string) (*entity.Company, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.companies[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *CompanyRepo) GetByTaxID(taxID string) (*entity.Company, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.companies {
		if c.TaxID == taxID {
			c := c
			return &c, nil
		}
	}
	return nil, nil
}

func (r *CompanyRepo) Update(c *entity.Company) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.companies[c.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.companies[c.ID] = *c
	return nil
}

func (r *CompanyRepo) List(limit, offset int) ([]*entity.Company, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var all []*entity.Company
	for _, c := range r.s.companies {
		c := c
		all = append(all, &c)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	out, _ := page(all, repository.ListFilter{Limit: limit, Offset: offset})
	return out, nil
}

func (r *CompanyRepo) Delete(id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.companies, id)
	return nil
}

func (r *CompanyRepo) HasActiveModule(_ context.Context, companyID, moduleName string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.modules[companyID][moduleName]
	if !ok || !m.IsActive {
		return false, nil
	}
	return m.ExpiresAt == nil || m.ExpiresAt.After(time.Now()), nil
}

func (r *CompanyRepo) SetModule(_ context.Context, companyID, moduleName string, active bool, expiresAt *time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.companies[companyID]; !ok {
		return domain.ErrNotFound
	}
	if r.s.modules[companyID] == nil {
		r.s.modules[companyID] = map[string]entity.CompanyModule{}
	}
	now := time.Now()
	r.s.modules[companyID][moduleName] = entity.CompanyModule{
		ID: companyID + ":" + moduleName, CompanyID: companyID, ModuleName: moduleName,
		IsActive: active, ActivatedAt: now, ExpiresAt: expiresAt, CreatedAt: now, UpdatedAt: now,
	}
	return nil
}

func (r *CompanyRepo) ListModules(_ context.Context, companyID string) ([]*entity.CompanyModule, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.CompanyModule
	for _, m := range r.s.modules[companyID] {
		m := m
		out = append(out, &m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ModuleName < out[j].ModuleName })
	return out, nil
}

// ─── Users ───────────────────────────────────────────────────────────────────

type UserRepo struct{ s *Store }

func (s *Store) Users() *UserRepo { return &UserRepo{s} }

func (r *UserRepo) Create(u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, ex := range r.s.users {
		if ex.CompanyID == u.CompanyID && strings.EqualFold(ex.Email, u.Email) {
			return domain.ErrEmailAlreadyExists
		}
	}
	r.s.users[u.ID] = *u
	return nil
}

func (r *UserRepo) GetByID(id string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *UserRepo) GetByEmailAndCompany(email, companyID string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.CompanyID == companyID && strings.EqualFold(u.Email, email) {
			u := u
			return &u, nil
		}
	}
	return nil, nil
}

func (r *UserRepo) Update(u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.users[u.ID] = *u
	return nil
}

func (r *UserRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var all []*entity.User
	for _, u := range r.s.users {
		if u.CompanyID == companyID {
			u := u
			all = append(all, &u)
		}
	}
	out, _ := page(all, repository.ListFilter{Limit: limit, Offset: offset})
	return out, nil
}

func (r *UserRepo) Delete(id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.users, id)
	return nil
}

func (r *UserRepo) ListByEmail(email string) ([]*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.User
	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, email) {
			u := u
			out = append(out, &u)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// ─── Customers ───────────────────────────────────────────────────────────────

type CustomerRepo struct{ s *Store }

func (s *Store) Customers() *CustomerRepo { return &CustomerRepo{s} }

func (r *CustomerRepo) Create(c *entity.Customer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, ex := range r.s.customers {
		if ex.CompanyID == c.CompanyID && ex.TaxID == c.TaxID {
			return domain.ErrDuplicate
		}
	}
	r.s.customers[c.ID] = *c
	return nil
}

func (r *CustomerRepo) GetByID(id string) (*entity.Customer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.customers[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *CustomerRepo) GetByCompanyAndTaxID(companyID, taxID string) (*entity.Customer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.customers {
		if c.CompanyID == companyID && c.TaxID == taxID {
			c := c
			return &c, nil
		}
	}
	return nil, nil
}

func (r *CustomerRepo) ListByCompany(companyID string, f repository.ListFilter) ([]*entity.Customer, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var all []*entity.Customer
	for _, c := range r.s.customers {
		if c.CompanyID == companyID && contains(f.Search, c.Name, c.TaxID, c.Email) {
			c := c
			all = append(all, &c)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	out, total := page(all, f)
	return out, total, nil
}

func (r *CustomerRepo) Update(c *entity.Customer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, ex := range r.s.customers {
		if ex.ID != c.ID && ex.CompanyID == c.CompanyID && ex.TaxID == c.TaxID {
			return domain.ErrDuplicate
		}
	}
	r.s.customers[c.ID] = *c
	return nil
}

func (r *CustomerRepo) Delete(id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, rfq := range r.s.rfqs {
		if rfq.CustomerID == id {
			return domain.ErrConflict
		}
	}
	delete(r.s.customers, id)
	return nil
}

// ─── Vendors ─────────────────────────────────────────────────────────────────

type VendorRepo struct{ s *Store }

func (s *Store) Vendors() *VendorRepo { return &VendorRepo{s} }

func (r *VendorRepo) Create(_ context.Context, v *entity.Vendor) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, ex := range r.s.vendors {
		if ex.CompanyID == v.CompanyID && v.TaxID != "" && ex.TaxID == v.TaxID {
			return domain.ErrDuplicate
		}
	}
	r.s.vendors[v.ID] = *v
	return nil
}

func (r *VendorRepo) GetByID(_ context.Context, id string) (*entity.Vendor, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	v, ok := r.s.vendors[id]
	if !ok {
		return nil, nil
	}
	return &v, nil
}

func (r *VendorRepo) ListByCompany(_ context.Context, companyID string, f repository.ListFilter) ([]*entity.Vendor, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var all []*entity.Vendor
	for _, v := range r.s.vendors {
		if v.CompanyID == companyID && (f.Status == "" || v.Kind == f.Status) && contains(f.Search, v.Name, v.TaxID) {
			v := v
			all = append(all, &v)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	out, total := page(all, f)
	return out, total, nil
}

func (r *VendorRepo) Update(_ context.Context, v *entity.Vendor) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.vendors[v.ID] = *v
	return nil
}

func (r *VendorRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.vendors, id)
	return nil
}

// ─── Master data ─────────────────────────────────────────────────────────────

type PortRepo struct{ s *Store }

func (s *Store) Ports() *PortRepo { return &PortRepo{s} }

func (r *PortRepo) Create(_ context.Context, p *entity.Port) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.ports[p.Code]; ok {
		return domain.ErrDuplicate
	}
	r.s.ports[p.Code] = *p
	return nil
}

func (r *PortRepo) GetByCode(_ context.Context, code string) (*entity.Port, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.ports[code]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *PortRepo) List(_ context.Context, v affiliation.Viewer, f repository.PortFilter) ([]*entity.Port, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var all []*entity.Port
	for _, p := range r.s.ports {
		if !affiliation.Visible(p.OwnerCompanyID, p.Affiliation, v) {
			continue
		}
		if (f.Kind != "" && p.Kind != f.Kind) || (f.Country != "" && p.Country != f.Country) || !contains(f.Search, p.Code, p.Name) {
			continue
		}
		p := p
		all = append(all, &p)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Code < all[j].Code })
	out, total := page(all, f.ListFilter)
	return out, total, nil
}

type CurrencyRepo struct{ s *Store }

func (s *Store) Currencies() *CurrencyRepo { return &CurrencyRepo{s} }

func (r *CurrencyRepo) List(_ context.Context) ([]*entity.Currency, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Currency
	for _, c := range r.s.currencies {
		c := c
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (r *CurrencyRepo) GetByCode(_ context.Context, code string) (*entity.Currency, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.currencies[code]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *CurrencyRepo) Upsert(_ context.Context, c *entity.Currency) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.currencies[c.Code] = *c
	return nil
}

type PriceComponentRepo struct{ s *Store }

func (s *Store) PriceComponents() *PriceComponentRepo { return &PriceComponentRepo{s} }

func (r *PriceComponentRepo) Create(_ context.Context, pc *entity.PriceComponent) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.components[pc.ID] = *pc
	return nil
}

func (r *PriceComponentRepo) GetByID(_ context.Context, id string) (*entity.PriceComponent, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	pc, ok := r.s.components[id]
	if !ok {
		return nil, nil
	}
	return &pc, nil
}

func (r *PriceComponentRepo) List(_ context.Context, v affiliation.Viewer, f repository.ListFilter) ([]*entity.PriceComponent, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var all []*entity.PriceComponent
	for _, pc := range r.s.components {
		if !affiliation.Visible(pc.OwnerCompanyID, pc.Affiliation, v) || !contains(f.Search, pc.Code, pc.Name) {
			continue
		}
		if (f.Status == "active" && !pc.Active) || (f.Status == "inactive" && pc.Active) {
			continue
		}
		pc := pc
		all = append(all, &pc)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Code < all[j].Code })
	out, total := page(all, f)
	return out, total, nil
}

func (r *PriceComponentRepo) Update(_ context.Context, pc *entity.PriceComponent) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.components[pc.ID] = *pc
	return nil
}
