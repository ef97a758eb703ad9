package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/venturee/biz-api/internal/application/dto"
	"github.com/venturee/biz-api/internal/domain"
	"github.com/venturee/biz-api/internal/domain/access"
	"github.com/venturee/biz-api/internal/domain/entity"
	"github.com/venturee/biz-api/internal/domain/repository"
)

// Actor identidad autenticada que ejecuta la operación. La arma el middleware
// a partir de los claims del token; los use cases deciden con ella, nunca con
// estado implícito.
type Actor struct {
	UserID    string
	CompanyID string
	Role      entity.Role
}

// UserUseCase gestión de usuarios con alcance de tenant: un solicitante solo
// opera sobre usuarios de su propia empresa salvo que sea admin de plataforma.
type UserUseCase struct {
	users      repository.UserRepository
	bcryptCost int
}

// NewUserUseCase construye el caso de uso.
func NewUserUseCase(users repository.UserRepository, bcryptCost int) *UserUseCase {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &UserUseCase{users: users, bcryptCost: bcryptCost}
}

// List lista usuarios. Admin de plataforma: todos, u opcionalmente filtrados
// por companyID. Resto de roles: siempre su propia empresa, ignorando el filtro.
func (uc *UserUseCase) List(ctx context.Context, actor Actor, companyID string, page dto.PageRequest) (*dto.UserListResponse, error) {
	page.DefaultPage()

	if actor.Role.IsPlatformAdmin() && companyID == "" {
		list, total, err := uc.users.ListAll(ctx, page.Limit, page.Offset)
		if err != nil {
			return nil, err
		}
		return userList(list, page, total), nil
	}

	scope := actor.CompanyID
	if actor.Role.IsPlatformAdmin() {
		scope = companyID
	} else if d := access.TenantScope(actor.Role, actor.CompanyID, companyID); !d.Allowed {
		return nil, d.Reason
	}
	list, err := uc.users.ListByCompany(ctx, scope, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	return userList(list, page, 0), nil
}

// GetByID obtiene un usuario, sujeto al alcance de tenant del solicitante.
func (uc *UserUseCase) GetByID(ctx context.Context, actor Actor, id string) (*dto.UserResponse, error) {
	user, err := uc.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if d := access.TenantScope(actor.Role, actor.CompanyID, user.CompanyID); !d.Allowed {
		return nil, d.Reason
	}
	return userToResponse(user), nil
}

// Create crea un usuario en la empresa del solicitante. Solo admin y
// company-admin pueden crear; el admin de plataforma puede indicar otra
// empresa con CompanyID. Si no se indican permisos se aplican los del rol.
func (uc *UserUseCase) Create(ctx context.Context, actor Actor, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	if d := access.RequireRole(actor.Role, entity.RoleAdmin, entity.RoleCompanyAdmin); !d.Allowed {
		return nil, d.Reason
	}
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || in.Password == "" || in.FirstName == "" {
		return nil, domain.ErrInvalidInput
	}

	companyID := actor.CompanyID
	if in.CompanyID != "" {
		if d := access.TenantScope(actor.Role, actor.CompanyID, in.CompanyID); !d.Allowed {
			return nil, d.Reason
		}
		companyID = in.CompanyID
	}

	role := entity.Role(in.Role)
	if in.Role == "" {
		role = entity.RoleStaff
	}
	if !role.Valid() {
		return nil, domain.ErrInvalidInput
	}
	// Solo el admin de plataforma puede otorgar el rol de plataforma.
	if role.IsPlatformAdmin() && !actor.Role.IsPlatformAdmin() {
		return nil, domain.ErrInsufficientRole
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

	perms := in.Permissions
	if perms == nil {
		perms = entity.DefaultPermissions(role)
	}

	now := time.Now()
	user := &entity.User{
		ID:           uuid.NewString(),
		CompanyID:    companyID,
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Phone:        strings.TrimSpace(in.Phone),
		Role:         role,
		Permissions:  perms,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return userToResponse(user), nil
}

// Update actualiza un usuario. Solo admin y company-admin, dentro del alcance
// de tenant del solicitante.
func (uc *UserUseCase) Update(ctx context.Context, actor Actor, id string, in dto.UpdateUserRequest) (*dto.UserResponse, error) {
	if d := access.RequireRole(actor.Role, entity.RoleAdmin, entity.RoleCompanyAdmin); !d.Allowed {
		return nil, d.Reason
	}
	user, err := uc.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if d := access.TenantScope(actor.Role, actor.CompanyID, user.CompanyID); !d.Allowed {
		return nil, d.Reason
	}

	if in.FirstName != nil {
		user.FirstName = strings.TrimSpace(*in.FirstName)
	}
	if in.LastName != nil {
		user.LastName = strings.TrimSpace(*in.LastName)
	}
	if in.Phone != nil {
		user.Phone = strings.TrimSpace(*in.Phone)
	}
	if in.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*in.Email))
		if email != user.Email {
			if existing, err := uc.users.GetByEmail(ctx, email); err != nil {
				return nil, err
			} else if existing != nil {
				return nil, domain.ErrEmailAlreadyExists
			}
			user.Email = email
		}
	}
	if in.Role != nil {
		role := entity.Role(*in.Role)
		if !role.Valid() {
			return nil, domain.ErrInvalidInput
		}
		if role.IsPlatformAdmin() && !actor.Role.IsPlatformAdmin() {
			return nil, domain.ErrInsufficientRole
		}
		user.Role = role
	}
	if in.Permissions != nil {
		user.Permissions = in.Permissions
	}
	if in.IsActive != nil {
		user.IsActive = *in.IsActive
	}
	user.UpdatedAt = time.Now()

	if err := uc.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return userToResponse(user), nil
}

// Delete soft delete de un usuario. Composición de reglas: rol suficiente,
// alcance de tenant y nunca sobre uno mismo.
func (uc *UserUseCase) Delete(ctx context.Context, actor Actor, id string) error {
	user, err := uc.users.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.ErrUserNotFound
	}
	if d := access.Chain(
		access.RequireRole(actor.Role, entity.RoleAdmin, entity.RoleCompanyAdmin),
		access.TenantScope(actor.Role, actor.CompanyID, user.CompanyID),
		access.NotSelf(actor.UserID, id),
	); !d.Allowed {
		return d.Reason
	}
	return uc.users.SoftDelete(ctx, id)
}

func userList(list []*entity.User, page dto.PageRequest, total int) *dto.UserListResponse {
	items := make([]dto.UserResponse, 0, len(list))
	for _, u := range list {
		items = append(items, *userToResponse(u))
	}
	return &dto.UserListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}
}

func userToResponse(u *entity.User) *dto.UserResponse {
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
