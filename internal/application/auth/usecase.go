package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Freight-api/internal/application/dto"
	"github.com/jhoicas/Freight-api/internal/domain"
	"github.com/jhoicas/Freight-api/internal/domain/entity"
	"github.com/jhoicas/Freight-api/internal/domain/repository"
	"github.com/jhoicas/Freight-api/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// ModuleChecker consulta si un módulo SaaS está activo.
type ModuleChecker interface {
	HasActiveModule(ctx context.Context, companyID, moduleName string) (bool, error)
}

// TenancyTxRunner crea empresa, módulos y usuario en una sola transacción.
type TenancyTxRunner interface {
	RunTenancy(ctx context.Context, fn func(companies repository.CompanyRepository, users repository.UserRepository) error) error
}

// TrialSeeder siembra datos de ejemplo en una cuenta de prueba.
type TrialSeeder interface {
	Seed(ctx context.Context, company *entity.Company, admin *entity.User) error
}

// Inviter envía las credenciales del portal.
type Inviter interface {
	PortalInvitation(ctx context.Context, company *entity.Company, customer *entity.Customer, user *entity.User, password string)
}

// Deps dependencias del caso de uso de auth.
type Deps struct {
	Users     repository.UserRepository
	Companies repository.CompanyRepository
	Customers repository.CustomerRepository
	Modules   ModuleChecker
	Tx        TenancyTxRunner
	Seeder    TrialSeeder
	Inviter   Inviter
	Log       zerolog.Logger
	TrialDays int
}

// AuthUseCase casos de uso de autenticación: registro, login, prueba gratuita e invitaciones al portal.
type AuthUseCase struct {
	Deps
	jwtCfg JWTConfig
	now    func() time.Time
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(deps Deps, jwtCfg JWTConfig) *AuthUseCase {
	if deps.TrialDays <= 0 {
		deps.TrialDays = 14
	}
	return &AuthUseCase{Deps: deps, jwtCfg: jwtCfg, now: time.Now}
}

// RegisterUser crea un usuario interno: hashea password con bcrypt y persiste.
// Devuelve ErrEmailAlreadyExists si el email ya existe en esa company.
func (uc *AuthUseCase) RegisterUser(ctx context.Context, companyID string, in dto.RegisterRequest) (*dto.UserResponse, error) {
	in.Email = normalizeEmail(in.Email)
	if in.Email == "" || len(in.Password) < 8 {
		return nil, fmt.Errorf("%w: email y password (mínimo 8 caracteres) son obligatorios", domain.ErrInvalidInput)
	}
	role := in.Role
	if role == "" {
		role = entity.RoleSales
	}
	if !entity.ValidStaffRole(role) {
		return nil, fmt.Errorf("%w: rol %q no válido", domain.ErrInvalidInput, role)
	}
	existing, err := uc.Users.GetByEmailAndCompany(in.Email, companyID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	company, err := uc.Companies.GetByID(companyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	user, err := newUser(companyID, "", in.Email, in.Name, role, in.Password, uc.now())
	if err != nil {
		return nil, err
	}
	if err := uc.Users.Create(user); err != nil {
		return nil, err
	}
	return toUserResponse(user), nil
}

// Login verifica email/password, genera JWT y retorna token + usuario + empresa.
// Un mismo email puede pertenecer a varias empresas (p. ej. un cliente invitado por dos
// forwarders): se prueba el password contra cada cuenta y entra la más antigua que coincida
// y esté habilitada. Los usuarios del portal solo entran si la empresa tiene activo el
// módulo customer_portal.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	candidates, err := uc.Users.ListByEmail(normalizeEmail(in.Email))
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, domain.ErrUserNotFound
	}
	var denied error
	for _, user := range candidates {
		if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)) != nil {
			continue
		}
		company, err := uc.admit(ctx, user)
		if err == nil {
			return uc.issue(user, company)
		}
		if !errors.Is(err, domain.ErrForbidden) && !errors.Is(err, domain.ErrModuleDisabled) {
			return nil, err
		}
		if denied == nil {
			denied = err
		}
	}
	if denied != nil {
		return nil, denied
	}
	return nil, domain.ErrUnauthorized
}

// admit valida que la cuenta y su empresa puedan iniciar sesión.
func (uc *AuthUseCase) admit(ctx context.Context, user *entity.User) (*entity.Company, error) {
	if user.Status != "active" {
		return nil, domain.ErrForbidden
	}
	company, err := uc.Companies.GetByID(user.CompanyID)
	if err != nil {
		return nil, err
	}
	if company == nil || company.Status != "active" {
		return nil, domain.ErrForbidden
	}
	if user.Role == entity.RoleCustomer {
		ok, err := uc.Modules.HasActiveModule(ctx, company.ID, entity.ModuleCustomerPortal)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, domain.ErrModuleDisabled
		}
	}
	return company, nil
}

// TrialSignup crea una empresa DUMMY con todos los módulos activos hasta el fin de la prueba,
// su usuario admin y los datos de ejemplo. Devuelve la sesión ya iniciada.
func (uc *AuthUseCase) TrialSignup(ctx context.Context, in dto.TrialSignupRequest) (*dto.LoginResponse, error) {
	in.Email = normalizeEmail(in.Email)
	in.CompanyName = strings.TrimSpace(in.CompanyName)
	if in.CompanyName == "" || in.Email == "" || len(in.Password) < 8 {
		return nil, fmt.Errorf("%w: empresa, email y password (mínimo 8 caracteres) son obligatorios", domain.ErrInvalidInput)
	}
	now := uc.now()
	trialEnds := now.AddDate(0, 0, uc.TrialDays)
	company := &entity.Company{
		ID:                uuid.New().String(),
		Name:              in.CompanyName,
		TaxID:             "TRIAL-" + strings.ToUpper(uuid.New().String()[:8]),
		Email:             in.Email,
		Status:            "active",
		Affiliation:       entity.AffiliationDummy,
		DefaultCurrency:   "USD",
		InvoicePrefix:     "DEMO",
		NotificationEmail: in.Email,
		TrialEndsAt:       &trialEnds,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	admin, err := newUser(company.ID, "", in.Email, in.Name, entity.RoleAdmin, in.Password, now)
	if err != nil {
		return nil, err
	}

	err = uc.Tx.RunTenancy(ctx, func(companies repository.CompanyRepository, users repository.UserRepository) error {
		if err := companies.Create(company); err != nil {
			return err
		}
		for _, m := range []string{entity.ModuleCustomerPortal, entity.ModuleInvoicing, entity.ModuleDocuments} {
			if err := companies.SetModule(ctx, company.ID, m, true, &trialEnds); err != nil {
				return err
			}
		}
		return users.Create(admin)
	})
	if err != nil {
		return nil, err
	}

	if uc.Seeder != nil {
		if err := uc.Seeder.Seed(ctx, company, admin); err != nil {
			uc.Log.Warn().Err(err).Str("company_id", company.ID).Msg("trial: no se pudieron sembrar datos de ejemplo")
		}
	}
	uc.Log.Info().Str("company_id", company.ID).Time("trial_ends_at", trialEnds).Msg("trial: cuenta creada")
	return uc.issue(admin, company)
}

// InviteCustomerUser crea un usuario del portal para el cliente con una contraseña temporal
// y se la envía por correo. Requiere el módulo customer_portal.
func (uc *AuthUseCase) InviteCustomerUser(ctx context.Context, companyID, customerID string, in dto.InviteCustomerUserRequest) (*dto.UserResponse, error) {
	in.Email = normalizeEmail(in.Email)
	if in.Email == "" {
		return nil, fmt.Errorf("%w: email es obligatorio", domain.ErrInvalidInput)
	}
	ok, err := uc.Modules.HasActiveModule(ctx, companyID, entity.ModuleCustomerPortal)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrModuleDisabled
	}
	customer, err := uc.Customers.GetByID(customerID)
	if err != nil {
		return nil, err
	}
	if customer == nil || customer.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	company, err := uc.Companies.GetByID(companyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	existing, err := uc.Users.GetByEmailAndCompany(in.Email, companyID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}

	password, err := randomPassword()
	if err != nil {
		return nil, err
	}
	user, err := newUser(companyID, customerID, in.Email, in.Name, entity.RoleCustomer, password, uc.now())
	if err != nil {
		return nil, err
	}
	if err := uc.Users.Create(user); err != nil {
		return nil, err
	}
	if uc.Inviter != nil {
		uc.Inviter.PortalInvitation(ctx, company, customer, user, password)
	}
	return toUserResponse(user), nil
}

func (uc *AuthUseCase) issue(user *entity.User, company *entity.Company) (*dto.LoginResponse, error) {
	token, err := jwt.Generate(uc.jwtCfg.Secret, jwt.Identity{
		UserID:     user.ID,
		CompanyID:  user.CompanyID,
		Role:       user.Role,
		CustomerID: user.CustomerID,
	}, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token:   token,
		User:    *toUserResponse(user),
		Company: toCompanyResponse(company),
	}, nil
}

func newUser(companyID, customerID, email, name, role, password string, now time.Time) (*entity.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	if name == "" {
		name = email
	}
	return &entity.User{
		ID:           uuid.New().String(),
		CompanyID:    companyID,
		CustomerID:   customerID,
		Email:        email,
		PasswordHash: string(hash),
		Name:         name,
		Role:         role,
		Status:       "active",
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

func randomPassword() (string, error) {
	b := make([]byte, 9)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generar password: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:         u.ID,
		CompanyID:  u.CompanyID,
		CustomerID: u.CustomerID,
		Email:      u.Email,
		Name:       u.Name,
		Role:       u.Role,
		Status:     u.Status,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}

func toCompanyResponse(c *entity.Company) *dto.CompanyResponse {
	if c == nil {
		return nil
	}
	return &dto.CompanyResponse{
		ID:                c.ID,
		Name:              c.Name,
		TaxID:             c.TaxID,
		Address:           c.Address,
		Phone:             c.Phone,
		Email:             c.Email,
		Status:            c.Status,
		Affiliation:       c.Affiliation,
		DefaultCurrency:   c.DefaultCurrency,
		DefaultTaxRate:    c.DefaultTaxRate,
		InvoicePrefix:     c.InvoicePrefix,
		NotificationEmail: c.NotificationEmail,
		TrialEndsAt:       c.TrialEndsAt,
		CreatedAt:         c.CreatedAt,
		UpdatedAt:         c.UpdatedAt,
	}
}
