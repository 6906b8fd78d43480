package auth_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Freight-api/internal/application/auth"
	"github.com/jhoicas/Freight-api/internal/application/dto"
	"github.com/jhoicas/Freight-api/internal/domain"
	"github.com/jhoicas/Freight-api/internal/domain/entity"
	"github.com/jhoicas/Freight-api/internal/testutil/memstore"
	pkgjwt "github.com/jhoicas/Freight-api/pkg/jwt"
)

const testSecret = "auth-usecase-secret"

type fakeInviter struct {
	user     *entity.User
	password string
}

func (f *fakeInviter) PortalInvitation(_ context.Context, _ *entity.Company, _ *entity.Customer, u *entity.User, password string) {
	f.user, f.password = u, password
}

type fakeSeeder struct {
	calls int
	err   error
}

func (f *fakeSeeder) Seed(context.Context, *entity.Company, *entity.User) error {
	f.calls++
	return f.err
}

func newUseCase(store *memstore.Store, inviter auth.Inviter, seeder auth.TrialSeeder) *auth.AuthUseCase {
	return auth.NewAuthUseCase(auth.Deps{
		Users:     store.Users(),
		Companies: store.Companies(),
		Customers: store.Customers(),
		Modules:   store.Companies(),
		Tx:        store,
		Seeder:    seeder,
		Inviter:   inviter,
		Log:       zerolog.Nop(),
		TrialDays: 14,
	}, auth.JWTConfig{Secret: testSecret, ExpMinutes: 60, Issuer: "freight-api-test"})
}

func seedCompany(t *testing.T, store *memstore.Store) *entity.Company {
	t.Helper()
	c := &entity.Company{ID: "co-1", Name: "Acme Logistics", TaxID: "900123456", Status: "active", Affiliation: entity.AffiliationRegular}
	require.NoError(t, store.Companies().Create(c))
	return c
}

func TestRegisterAndLogin(t *testing.T) {
	store := memstore.New()
	co := seedCompany(t, store)
	uc := newUseCase(store, nil, nil)
	ctx := context.Background()

	user, err := uc.RegisterUser(ctx, co.ID, dto.RegisterRequest{Email: " Ops@Acme.com ", Password: "s3cret-pass", Role: entity.RoleOps})
	require.NoError(t, err)
	assert.Equal(t, "ops@acme.com", user.Email)
	assert.Equal(t, entity.RoleOps, user.Role)

	_, err = uc.RegisterUser(ctx, co.ID, dto.RegisterRequest{Email: "ops@acme.com", Password: "s3cret-pass"})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)

	resp, err := uc.Login(ctx, dto.LoginRequest{Email: "OPS@acme.com", Password: "s3cret-pass"})
	require.NoError(t, err)
	require.NotNil(t, resp.Company)
	assert.Equal(t, co.ID, resp.Company.ID)

	id, err := pkgjwt.Parse(testSecret, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, id.UserID)
	assert.Equal(t, co.ID, id.CompanyID)
	assert.Equal(t, entity.RoleOps, id.Role)
}

func TestRegisterUser_RejectsCustomerRole(t *testing.T) {
	store := memstore.New()
	co := seedCompany(t, store)
	uc := newUseCase(store, nil, nil)

	_, err := uc.RegisterUser(context.Background(), co.ID, dto.RegisterRequest{Email: "x@acme.com", Password: "s3cret-pass", Role: entity.RoleCustomer})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLogin_WrongPassword(t *testing.T) {
	store := memstore.New()
	co := seedCompany(t, store)
	uc := newUseCase(store, nil, nil)
	_, err := uc.RegisterUser(context.Background(), co.ID, dto.RegisterRequest{Email: "a@acme.com", Password: "s3cret-pass"})
	require.NoError(t, err)

	_, err = uc.Login(context.Background(), dto.LoginRequest{Email: "a@acme.com", Password: "nope-nope"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = uc.Login(context.Background(), dto.LoginRequest{Email: "ghost@acme.com", Password: "whatever"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestInviteCustomerUser_RequiresPortalModule(t *testing.T) {
	store := memstore.New()
	co := seedCompany(t, store)
	require.NoError(t, store.Customers().Create(&entity.Customer{ID: "cu-1", CompanyID: co.ID, Name: "Importadora Sur", TaxID: "800"}))
	inviter := &fakeInviter{}
	uc := newUseCase(store, inviter, nil)
	ctx := context.Background()

	_, err := uc.InviteCustomerUser(ctx, co.ID, "cu-1", dto.InviteCustomerUserRequest{Email: "buyer@sur.com"})
	assert.ErrorIs(t, err, domain.ErrModuleDisabled)

	require.NoError(t, store.Companies().SetModule(ctx, co.ID, entity.ModuleCustomerPortal, true, nil))
	user, err := uc.InviteCustomerUser(ctx, co.ID, "cu-1", dto.InviteCustomerUserRequest{Email: "buyer@sur.com", Name: "Buyer"})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleCustomer, user.Role)
	assert.Equal(t, "cu-1", user.CustomerID)
	require.NotNil(t, inviter.user)
	assert.GreaterOrEqual(t, len(inviter.password), 12)

	resp, err := uc.Login(ctx, dto.LoginRequest{Email: "buyer@sur.com", Password: inviter.password})
	require.NoError(t, err)
	id, err := pkgjwt.Parse(testSecret, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "cu-1", id.CustomerID)

	// Al desactivar el portal el cliente ya no puede entrar.
	require.NoError(t, store.Companies().SetModule(ctx, co.ID, entity.ModuleCustomerPortal, false, nil))
	_, err = uc.Login(ctx, dto.LoginRequest{Email: "buyer@sur.com", Password: inviter.password})
	assert.ErrorIs(t, err, domain.ErrModuleDisabled)
}

func TestLogin_EmailEnVariasEmpresas(t *testing.T) {
	store := memstore.New()
	coA := seedCompany(t, store)
	coB := &entity.Company{ID: "co-2", Name: "Beta Cargo", TaxID: "901555777", Status: "active", Affiliation: entity.AffiliationRegular}
	require.NoError(t, store.Companies().Create(coB))
	require.NoError(t, store.Customers().Create(&entity.Customer{ID: "cu-b", CompanyID: coB.ID, Name: "Shipper SAS", TaxID: "811"}))
	require.NoError(t, store.Companies().SetModule(context.Background(), coB.ID, entity.ModuleCustomerPortal, true, nil))
	inviter := &fakeInviter{}
	uc := newUseCase(store, inviter, nil)
	ctx := context.Background()

	_, err := uc.RegisterUser(ctx, coA.ID, dto.RegisterRequest{Email: "buyer@shipper.com", Password: "s3cret-pass", Role: entity.RoleOps})
	require.NoError(t, err)
	_, err = uc.InviteCustomerUser(ctx, coB.ID, "cu-b", dto.InviteCustomerUserRequest{Email: "Buyer@Shipper.com"})
	require.NoError(t, err)
	require.NotEmpty(t, inviter.password)

	resp, err := uc.Login(ctx, dto.LoginRequest{Email: "buyer@shipper.com", Password: inviter.password})
	require.NoError(t, err)
	id, err := pkgjwt.Parse(testSecret, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, coB.ID, id.CompanyID)
	assert.Equal(t, entity.RoleCustomer, id.Role)
	assert.Equal(t, "cu-b", id.CustomerID)

	resp, err = uc.Login(ctx, dto.LoginRequest{Email: "buyer@shipper.com", Password: "s3cret-pass"})
	require.NoError(t, err)
	id, err = pkgjwt.Parse(testSecret, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, coA.ID, id.CompanyID)
	assert.Equal(t, entity.RoleOps, id.Role)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "buyer@shipper.com", Password: "otra-clave"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	// Sin portal en B solo la cuenta de A sigue entrando.
	require.NoError(t, store.Companies().SetModule(ctx, coB.ID, entity.ModuleCustomerPortal, false, nil))
	_, err = uc.Login(ctx, dto.LoginRequest{Email: "buyer@shipper.com", Password: inviter.password})
	assert.ErrorIs(t, err, domain.ErrModuleDisabled)
}

func TestInviteCustomerUser_OtherCompanyCustomer(t *testing.T) {
	store := memstore.New()
	co := seedCompany(t, store)
	require.NoError(t, store.Customers().Create(&entity.Customer{ID: "cu-x", CompanyID: "other", Name: "Otro", TaxID: "1"}))
	require.NoError(t, store.Companies().SetModule(context.Background(), co.ID, entity.ModuleCustomerPortal, true, nil))
	uc := newUseCase(store, &fakeInviter{}, nil)

	_, err := uc.InviteCustomerUser(context.Background(), co.ID, "cu-x", dto.InviteCustomerUserRequest{Email: "a@b.com"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTrialSignup(t *testing.T) {
	store := memstore.New()
	seeder := &fakeSeeder{err: errors.New("catálogo no disponible")}
	uc := newUseCase(store, nil, seeder)
	ctx := context.Background()

	resp, err := uc.TrialSignup(ctx, dto.TrialSignupRequest{CompanyName: "Demo Cargo", Email: "Owner@Demo.io", Password: "trial-pass-1"})
	require.NoError(t, err, "una falla del sembrado no debe abortar el registro")
	require.NotNil(t, resp.Company)
	assert.Equal(t, entity.AffiliationDummy, resp.Company.Affiliation)
	assert.True(t, strings.HasPrefix(resp.Company.TaxID, "TRIAL-"))
	require.NotNil(t, resp.Company.TrialEndsAt)
	assert.WithinDuration(t, time.Now().AddDate(0, 0, 14), *resp.Company.TrialEndsAt, time.Minute)
	assert.Equal(t, entity.RoleAdmin, resp.User.Role)
	assert.Equal(t, 1, seeder.calls)

	for _, m := range []string{entity.ModuleCustomerPortal, entity.ModuleInvoicing, entity.ModuleDocuments} {
		ok, err := store.Companies().HasActiveModule(ctx, resp.Company.ID, m)
		require.NoError(t, err)
		assert.True(t, ok, m)
	}

	_, err = uc.TrialSignup(ctx, dto.TrialSignupRequest{CompanyName: "", Email: "x@y.z", Password: "trial-pass-1"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
