package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/venturee/biz-api/internal/application/dto"
	"github.com/venturee/biz-api/internal/domain"
	"github.com/venturee/biz-api/internal/domain/entity"
	"github.com/venturee/biz-api/internal/domain/repository"
	"github.com/venturee/biz-api/internal/domain/subscription"
)

// CompanyUseCase operaciones administrativas sobre empresas: listado,
// activación/suspensión manual y configuración de suscripción. El gate de rol
// (solo admin de plataforma) se aplica en el transporte.
type CompanyUseCase struct {
	repo repository.CompanyRepository
}

// NewCompanyUseCase construye el caso de uso con el puerto de persistencia.
func NewCompanyUseCase(repo repository.CompanyRepository) *CompanyUseCase {
	return &CompanyUseCase{repo: repo}
}

// List lista empresas con paginación.
func (uc *CompanyUseCase) List(ctx context.Context, limit, offset int) (*dto.CompanyListResponse, error) {
	list, err := uc.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.CompanyResponse, 0, len(list))
	for _, c := range list {
		items = append(items, *toCompanyResponse(c))
	}
	return &dto.CompanyListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// GetByID obtiene una empresa por ID.
func (uc *CompanyUseCase) GetByID(ctx context.Context, id string) (*dto.CompanyResponse, error) {
	company, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrCompanyNotFound
	}
	return toCompanyResponse(company), nil
}

// GetByTenant obtiene una empresa por su identificador externo de tenant
// (el que viaja en integraciones y soporte, no el ID interno).
func (uc *CompanyUseCase) GetByTenant(ctx context.Context, tenantID string) (*dto.CompanyResponse, error) {
	company, err := uc.repo.GetByTenantID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrCompanyNotFound
	}
	return toCompanyResponse(company), nil
}

// UpdateProfile actualiza los datos de contacto/identidad de la empresa.
// La suscripción, el pago y el flag de activación quedan intactos.
func (uc *CompanyUseCase) UpdateProfile(ctx context.Context, id string, in dto.UpdateCompanyProfileRequest) (*dto.CompanyResponse, error) {
	company, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrCompanyNotFound
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.ErrInvalidInput
		}
		if name != company.Name {
			if existing, err := uc.repo.GetByName(ctx, name); err != nil {
				return nil, err
			} else if existing != nil {
				return nil, domain.ErrCompanyNameTaken
			}
			company.Name = name
		}
	}
	if in.BusinessType != nil {
		company.BusinessType = strings.TrimSpace(*in.BusinessType)
	}
	if in.RegistrationNumber != nil {
		company.RegistrationNumber = strings.TrimSpace(*in.RegistrationNumber)
	}
	if in.Address != nil {
		company.Address = strings.TrimSpace(*in.Address)
	}
	if in.Phone != nil {
		company.Phone = strings.TrimSpace(*in.Phone)
	}
	if in.Email != nil {
		company.Email = strings.ToLower(strings.TrimSpace(*in.Email))
	}
	company.UpdatedAt = time.Now()

	if err := uc.repo.UpdateProfile(ctx, company); err != nil {
		return nil, err
	}
	return toCompanyResponse(company), nil
}

// Activate activación manual por un administrador: suscripción "active" con
// ventana corta de 30 días (distinta del término anual que otorga un pago
// verificado). Estado, flag y ventana se aplican en un único UPDATE.
func (uc *CompanyUseCase) Activate(ctx context.Context, id string) (*dto.CompanyResponse, error) {
	company, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrCompanyNotFound
	}
	sub := subscription.Activate(company.Subscription, time.Now(), subscription.AdminTermDays)
	if err := uc.repo.SetSubscriptionState(ctx, id, sub, company.Payment); err != nil {
		return nil, err
	}
	company.Subscription = sub
	company.IsActive = subscription.IsActiveFlag(sub.Status)
	return toCompanyResponse(company), nil
}

// Deactivate suspensión administrativa: estado "suspended", flag apagado.
// Los módulos contratados se conservan.
func (uc *CompanyUseCase) Deactivate(ctx context.Context, id string) (*dto.CompanyResponse, error) {
	company, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrCompanyNotFound
	}
	sub := subscription.Suspend(company.Subscription)
	if err := uc.repo.SetSubscriptionState(ctx, id, sub, company.Payment); err != nil {
		return nil, err
	}
	company.Subscription = sub
	company.IsActive = subscription.IsActiveFlag(sub.Status)
	return toCompanyResponse(company), nil
}

// UpdateSubscription cambia plan y/o módulos sin transicionar el estado.
func (uc *CompanyUseCase) UpdateSubscription(ctx context.Context, id string, in dto.UpdateSubscriptionRequest) (*dto.CompanyResponse, error) {
	company, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrCompanyNotFound
	}
	sub := company.Subscription
	if in.Plan != "" {
		plan := entity.Plan(in.Plan)
		if !plan.Valid() {
			return nil, domain.ErrInvalidInput
		}
		sub.Plan = plan
	}
	if in.Modules != nil {
		merged := make(map[string]bool, len(sub.Modules)+len(in.Modules))
		for k, v := range sub.Modules {
			merged[k] = v
		}
		for k, v := range in.Modules {
			merged[k] = v
		}
		sub.Modules = merged
	}
	if err := uc.repo.UpdateSubscriptionConfig(ctx, id, sub); err != nil {
		return nil, err
	}
	company.Subscription = sub
	return toCompanyResponse(company), nil
}

// Delete soft delete de la empresa: queda excluida de todos los lookups.
func (uc *CompanyUseCase) Delete(ctx context.Context, id string) error {
	company, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if company == nil {
		return domain.ErrCompanyNotFound
	}
	return uc.repo.SoftDelete(ctx, id)
}

func toCompanyResponse(c *entity.Company) *dto.CompanyResponse {
	if c == nil {
		return nil
	}
	return &dto.CompanyResponse{
		ID:                 c.ID,
		TenantID:           c.TenantID,
		Name:               c.Name,
		BusinessType:       c.BusinessType,
		RegistrationNumber: c.RegistrationNumber,
		Address:            c.Address,
		Phone:              c.Phone,
		Email:              c.Email,
		IsActive:           c.IsActive,
		Subscription:       toSubscriptionResponse(c.Subscription),
		CreatedAt:          c.CreatedAt,
		UpdatedAt:          c.UpdatedAt,
	}
}

func toSubscriptionResponse(s entity.Subscription) dto.SubscriptionResponse {
	return dto.SubscriptionResponse{
		Plan:      string(s.Plan),
		Status:    string(s.Status),
		Modules:   s.Modules,
		StartDate: s.StartDate,
		EndDate:   s.EndDate,
	}
}
