package usecase

import (
	"context"
	"time"

	"github.com/venturee/biz-api/internal/domain"
	"github.com/venturee/biz-api/internal/domain/repository"
)

// ModuleService resuelve por request si una empresa tiene habilitado un módulo
// de negocio. Sin caché: cada verificación lee el estado vigente del tenant
// para que una suspensión surta efecto de inmediato.
type ModuleService struct {
	companies repository.CompanyRepository
}

// NewModuleService construye el servicio de entitlements.
func NewModuleService(companies repository.CompanyRepository) *ModuleService {
	return &ModuleService{companies: companies}
}

// HasActiveModule informa si la empresa puede usar el módulo indicado:
// empresa activa, suscripción activa y vigente, módulo contratado.
func (s *ModuleService) HasActiveModule(ctx context.Context, companyID, moduleName string) (bool, error) {
	company, err := s.companies.GetByID(ctx, companyID)
	if err != nil {
		return false, err
	}
	if company == nil {
		return false, domain.ErrCompanyNotFound
	}
	if !company.IsActive {
		return false, nil
	}
	return company.Subscription.HasModule(moduleName, time.Now()), nil
}
