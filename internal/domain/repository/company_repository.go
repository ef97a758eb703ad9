package repository

import (
	"context"

	"github.com/venturee/biz-api/internal/domain/entity"
)

// CompanyRepository define el puerto de persistencia para Company (DIP).
// La implementación vive en infrastructure. Todos los lookups excluyen
// empresas con soft delete.
type CompanyRepository interface {
	Create(ctx context.Context, company *entity.Company) error
	GetByID(ctx context.Context, id string) (*entity.Company, error)
	GetByTenantID(ctx context.Context, tenantID string) (*entity.Company, error)
	GetByName(ctx context.Context, name string) (*entity.Company, error)
	// GetByPaymentReference busca la empresa cuyo registro de pago guarda la
	// referencia DuitNow indicada (lookup del callback del gateway).
	GetByPaymentReference(ctx context.Context, reference string) (*entity.Company, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Company, error)
	// UpdateProfile actualiza los datos de contacto/identidad, nunca la
	// suscripción ni el flag de activación.
	UpdateProfile(ctx context.Context, company *entity.Company) error
	// SetSubscriptionState aplica en un único UPDATE atómico la suscripción,
	// el registro de pago y el flag de activación derivado del estado
	// (is_active = status == "active"). Es la única vía de transición.
	SetSubscriptionState(ctx context.Context, id string, sub entity.Subscription, pay entity.PaymentRecord) error
	// SetPaymentRecord escribe solo el registro de pago (espejo del status del
	// gateway sin transición de suscripción).
	SetPaymentRecord(ctx context.Context, id string, pay entity.PaymentRecord) error
	// UpdateSubscriptionConfig actualiza plan/módulos sin tocar estado ni
	// flag de activación (operación administrativa).
	UpdateSubscriptionConfig(ctx context.Context, id string, sub entity.Subscription) error
	SoftDelete(ctx context.Context, id string) error
}
