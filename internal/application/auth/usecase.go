// Package auth implementa el onboarding de empresas, el login y la resolución
// de identidad por token: el verificador de credenciales y el resolutor de
// tenant que protegen todas las operaciones del API.
package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/venturee/biz-api/internal/application/dto"
	"github.com/venturee/biz-api/internal/domain"
	"github.com/venturee/biz-api/internal/domain/entity"
	"github.com/venturee/biz-api/internal/domain/repository"
	"github.com/venturee/biz-api/internal/domain/subscription"
	"github.com/venturee/biz-api/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret  string
	ExpDays int
	Issuer  string
}

// RegistrationTxRunner ejecuta la creación de empresa + primer usuario dentro
// de una única transacción (el registro no debe quedar a medias).
type RegistrationTxRunner interface {
	Run(ctx context.Context, fn func(companies repository.CompanyRepository, users repository.UserRepository) error) error
}

// AuthUseCase casos de uso de autenticación: registro de empresa, login,
// identidad actual y resolución de token para el middleware.
type AuthUseCase struct {
	users      repository.UserRepository
	companies  repository.CompanyRepository
	tx         RegistrationTxRunner
	jwtCfg     JWTConfig
	bcryptCost int
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(users repository.UserRepository, companies repository.CompanyRepository, tx RegistrationTxRunner, jwtCfg JWTConfig, bcryptCost int) *AuthUseCase {
	if bcryptCost == 0 {
		bcryptCost = 12
	}
	// Vigencia cero emitiría tokens ya expirados; mismo default que la config.
	if jwtCfg.ExpDays <= 0 {
		jwtCfg.ExpDays = 7
	}
	return &AuthUseCase{users: users, companies: companies, tx: tx, jwtCfg: jwtCfg, bcryptCost: bcryptCost}
}

// RegisterCompany registra una empresa nueva con su primer company-admin.
// La empresa nace con suscripción "pending", flag de activación apagado y
// módulos pagos deshabilitados; el admin recibe el set completo de permisos.
// Empresa y usuario se crean en una sola transacción.
func (uc *AuthUseCase) RegisterCompany(ctx context.Context, in dto.RegisterCompanyRequest) (*dto.AuthResponse, error) {
	if in.CompanyName == "" || in.Email == "" || in.Password == "" || in.FirstName == "" || in.LastName == "" {
		return nil, domain.ErrInvalidInput
	}
	email := normalizeEmail(in.Email)

	if existing, err := uc.companies.GetByName(ctx, in.CompanyName); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, domain.ErrCompanyNameTaken
	}
	if existing, err := uc.users.GetByEmail(ctx, email); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), uc.bcryptCost)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	company := &entity.Company{
		ID:                 uuid.New().String(),
		TenantID:           newTenantID(now),
		Name:               in.CompanyName,
		BusinessType:       in.BusinessType,
		RegistrationNumber: in.RegistrationNumber,
		Address:            in.Address,
		Phone:              in.Phone,
		Email:              email,
		IsActive:           false, // pendiente hasta completar el pago
		Subscription:       subscription.NewPending(entity.PlanBasic),
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	user := &entity.User{
		ID:           uuid.New().String(),
		CompanyID:    company.ID,
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Phone:        in.Phone,
		Role:         entity.RoleCompanyAdmin,
		Permissions:  entity.DefaultPermissions(entity.RoleCompanyAdmin),
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = uc.tx.Run(ctx, func(companies repository.CompanyRepository, users repository.UserRepository) error {
		if err := companies.Create(ctx, company); err != nil {
			return err
		}
		return users.Create(ctx, user)
	})
	if err != nil {
		return nil, err
	}

	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.CompanyID, string(user.Role), uc.jwtCfg.Issuer, uc.jwtCfg.ExpDays)
	if err != nil {
		return nil, err
	}
	return &dto.AuthResponse{
		Token:   token,
		User:    *toUserResponse(user),
		Company: dto.CompanySummary{ID: company.ID, Name: company.Name, Status: string(company.Subscription.Status)},
	}, nil
}

// Login verifica email/password y el estado de la empresa, genera el JWT y
// actualiza last_login. Email desconocido y password incorrecto devuelven el
// mismo error genérico; empresa inactiva y suscripción no activa se reportan
// distinto para que el cliente pueda guiar al usuario.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.AuthResponse, error) {
	if in.Email == "" || in.Password == "" {
		return nil, domain.ErrInvalidInput
	}
	user, err := uc.users.GetByEmail(ctx, normalizeEmail(in.Email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrInvalidCredential
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrInvalidCredential
	}
	if !user.IsActive {
		return nil, domain.ErrUserInactive
	}

	company, err := uc.ResolveTenant(ctx, user)
	if err != nil {
		return nil, err
	}
	if company.Subscription.Status != entity.SubscriptionActive {
		return nil, domain.ErrSubscriptionNotActive
	}

	if err := uc.users.UpdateLastLogin(ctx, user.ID); err != nil {
		return nil, err
	}

	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.CompanyID, string(user.Role), uc.jwtCfg.Issuer, uc.jwtCfg.ExpDays)
	if err != nil {
		return nil, err
	}
	return &dto.AuthResponse{
		Token:   token,
		User:    *toUserResponse(user),
		Company: dto.CompanySummary{ID: company.ID, Name: company.Name, Status: string(company.Subscription.Status)},
	}, nil
}

// VerifyCredential valida el token y resuelve el usuario: rechaza token
// ausente, inválido/expirado, usuario inexistente (incluye borrados por soft
// delete) y usuario desactivado. Cada caso devuelve su error de dominio para
// el log; el transporte los colapsa en un 401 genérico.
func (uc *AuthUseCase) VerifyCredential(ctx context.Context, token string) (*entity.User, error) {
	if token == "" {
		return nil, domain.ErrMissingCredential
	}
	userID, _, _, err := jwt.Parse(uc.jwtCfg.Secret, token)
	if err != nil {
		return nil, domain.ErrInvalidCredential
	}
	user, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if !user.IsActive {
		return nil, domain.ErrUserInactive
	}
	return user, nil
}

// ResolveTenant carga la empresa del usuario y verifica que sea usable. Es el
// único punto que codifica "la empresa debe estar activa para operar": se
// invoca en cada request, nunca se cachea entre requests (la empresa puede
// suspenderse a mitad de sesión).
func (uc *AuthUseCase) ResolveTenant(ctx context.Context, user *entity.User) (*entity.Company, error) {
	company, err := uc.companies.GetByID(ctx, user.CompanyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrCompanyNotFound
	}
	if !company.IsActive && !user.Role.IsPlatformAdmin() {
		return nil, domain.ErrCompanyInactive
	}
	return company, nil
}

// ResolveToken compone verificación de credencial + resolución de tenant.
// Es el contrato que consume el middleware de autenticación.
func (uc *AuthUseCase) ResolveToken(ctx context.Context, token string) (*entity.User, *entity.Company, error) {
	user, err := uc.VerifyCredential(ctx, token)
	if err != nil {
		return nil, nil, err
	}
	company, err := uc.ResolveTenant(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return user, company, nil
}

// Me devuelve el usuario autenticado junto con su empresa, módulos incluidos.
func (uc *AuthUseCase) Me(ctx context.Context, userID string) (*dto.MeResponse, error) {
	user, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	company, err := uc.companies.GetByID(ctx, user.CompanyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrCompanyNotFound
	}
	return &dto.MeResponse{
		User: *toUserResponse(user),
		Company: dto.MeCompany{
			ID:       company.ID,
			Name:     company.Name,
			Status:   string(company.Subscription.Status),
			Modules:  company.Subscription.Modules,
			IsActive: company.IsActive,
		},
	}, nil
}

// newTenantID genera el identificador externo e inmutable del tenant.
// Formato heredado: tenant_<unix-ms>_<sufijo aleatorio de 9 caracteres>.
func newTenantID(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.New().String(), "-", "")[:9]
	return fmt.Sprintf("tenant_%d_%s", now.UnixMilli(), suffix)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:          u.ID,
		CompanyID:   u.CompanyID,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Phone:       u.Phone,
		Role:        string(u.Role),
		Permissions: u.Permissions,
		IsActive:    u.IsActive,
		LastLogin:   u.LastLogin,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}
