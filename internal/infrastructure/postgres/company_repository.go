package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/venturee/biz-api/internal/domain"
	"github.com/venturee/biz-api/internal/domain/entity"
	"github.com/venturee/biz-api/internal/domain/repository"
)

// Asegura que CompanyRepo implementa repository.CompanyRepository.
var _ repository.CompanyRepository = (*CompanyRepo)(nil)

// CompanyRepo implementación del puerto CompanyRepository sobre PostgreSQL.
// Subscription y Payment viven en columnas JSONB; is_active es columna propia
// para poder filtrar sin deserializar.
type CompanyRepo struct {
	db Querier
}

// NewCompanyRepository construye el adaptador de persistencia para empresas.
// Acepta el pool o una transacción abierta.
func NewCompanyRepository(db Querier) *CompanyRepo {
	return &CompanyRepo{db: db}
}

const companyColumns = `
	id, tenant_id, name, business_type, registration_number, address, phone,
	email, is_active, subscription, payment, created_at, updated_at`

// Create persiste una nueva empresa. Nombre duplicado (constraint único sobre
// empresas no borradas) se traduce al error de dominio.
func (r *CompanyRepo) Create(ctx context.Context, company *entity.Company) error {
	subJSON, payJSON, err := marshalCompanyState(company.Subscription, company.Payment)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO companies (id, tenant_id, name, business_type, registration_number,
			address, phone, email, is_active, subscription, payment, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err = r.db.Exec(ctx, query,
		company.ID, company.TenantID, company.Name, company.BusinessType,
		company.RegistrationNumber, company.Address, company.Phone, company.Email,
		company.IsActive, subJSON, payJSON, company.CreatedAt, company.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrCompanyNameTaken
		}
		return fmt.Errorf("insert company: %w", err)
	}
	return nil
}

// GetByID obtiene una empresa por ID (excluye borradas).
func (r *CompanyRepo) GetByID(ctx context.Context, id string) (*entity.Company, error) {
	query := `SELECT` + companyColumns + ` FROM companies WHERE id = $1 AND is_deleted = false`
	return r.scanOne(ctx, query, id, "get company")
}

// GetByTenantID obtiene una empresa por su identificador externo de tenant.
func (r *CompanyRepo) GetByTenantID(ctx context.Context, tenantID string) (*entity.Company, error) {
	query := `SELECT` + companyColumns + ` FROM companies WHERE tenant_id = $1 AND is_deleted = false`
	return r.scanOne(ctx, query, tenantID, "get company by tenant")
}

// GetByName obtiene una empresa por nombre exacto (chequeo de unicidad en registro).
func (r *CompanyRepo) GetByName(ctx context.Context, name string) (*entity.Company, error) {
	query := `SELECT` + companyColumns + ` FROM companies WHERE name = $1 AND is_deleted = false`
	return r.scanOne(ctx, query, name, "get company by name")
}

// GetByPaymentReference busca la empresa cuyo registro de pago guarda la
// referencia DuitNow indicada (lookup del callback del gateway).
func (r *CompanyRepo) GetByPaymentReference(ctx context.Context, reference string) (*entity.Company, error) {
	query := `SELECT` + companyColumns + ` FROM companies
		WHERE payment->>'reference' = $1 AND is_deleted = false`
	return r.scanOne(ctx, query, reference, "get company by payment reference")
}

// List devuelve empresas no borradas con paginación.
func (r *CompanyRepo) List(ctx context.Context, limit, offset int) ([]*entity.Company, error) {
	query := `SELECT` + companyColumns + ` FROM companies
		WHERE is_deleted = false ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	defer rows.Close()

	var list []*entity.Company
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, fmt.Errorf("scan company: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// UpdateProfile actualiza datos de contacto/identidad. Nunca toca la
// suscripción, el pago ni el flag de activación.
func (r *CompanyRepo) UpdateProfile(ctx context.Context, company *entity.Company) error {
	query := `
		UPDATE companies
		   SET name = $2, business_type = $3, registration_number = $4,
		       address = $5, phone = $6, email = $7, updated_at = now()
		 WHERE id = $1 AND is_deleted = false`
	cmd, err := r.db.Exec(ctx, query,
		company.ID, company.Name, company.BusinessType, company.RegistrationNumber,
		company.Address, company.Phone, company.Email,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrCompanyNameTaken
		}
		return fmt.Errorf("update company: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrCompanyNotFound
	}
	return nil
}

// SetSubscriptionState aplica una transición de suscripción en un único UPDATE:
// estado, registro de pago y flag de activación derivado del estado se escriben
// juntos, de modo que ningún lector vea flag y status divergentes.
func (r *CompanyRepo) SetSubscriptionState(ctx context.Context, id string, sub entity.Subscription, pay entity.PaymentRecord) error {
	subJSON, payJSON, err := marshalCompanyState(sub, pay)
	if err != nil {
		return err
	}
	query := `
		UPDATE companies
		   SET subscription = $2,
		       payment = $3,
		       is_active = ($2::jsonb->>'status' = 'active'),
		       updated_at = now()
		 WHERE id = $1 AND is_deleted = false`
	cmd, err := r.db.Exec(ctx, query, id, subJSON, payJSON)
	if err != nil {
		return fmt.Errorf("set subscription state: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrCompanyNotFound
	}
	return nil
}

// SetPaymentRecord escribe solo el registro de pago, sin transición.
func (r *CompanyRepo) SetPaymentRecord(ctx context.Context, id string, pay entity.PaymentRecord) error {
	payJSON, err := json.Marshal(pay)
	if err != nil {
		return fmt.Errorf("marshal payment: %w", err)
	}
	query := `
		UPDATE companies SET payment = $2, updated_at = now()
		 WHERE id = $1 AND is_deleted = false`
	cmd, err := r.db.Exec(ctx, query, id, payJSON)
	if err != nil {
		return fmt.Errorf("set payment record: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrCompanyNotFound
	}
	return nil
}

// UpdateSubscriptionConfig actualiza plan/módulos preservando status, ventana
// y flag de activación tal como están.
func (r *CompanyRepo) UpdateSubscriptionConfig(ctx context.Context, id string, sub entity.Subscription) error {
	subJSON, err := json.Marshal(sub)
	if err != nil {
		return fmt.Errorf("marshal subscription: %w", err)
	}
	query := `
		UPDATE companies SET subscription = $2, updated_at = now()
		 WHERE id = $1 AND is_deleted = false`
	cmd, err := r.db.Exec(ctx, query, id, subJSON)
	if err != nil {
		return fmt.Errorf("update subscription config: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrCompanyNotFound
	}
	return nil
}

// SoftDelete marca la empresa como borrada; desaparece de todos los lookups.
func (r *CompanyRepo) SoftDelete(ctx context.Context, id string) error {
	query := `
		UPDATE companies SET is_deleted = true, is_active = false, updated_at = now()
		 WHERE id = $1 AND is_deleted = false`
	cmd, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("soft delete company: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrCompanyNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *CompanyRepo) scanOne(ctx context.Context, query, arg, op string) (*entity.Company, error) {
	c, err := scanCompany(r.db.QueryRow(ctx, query, arg))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return c, nil
}

func scanCompany(row rowScanner) (*entity.Company, error) {
	var c entity.Company
	var subJSON, payJSON []byte
	err := row.Scan(
		&c.ID, &c.TenantID, &c.Name, &c.BusinessType, &c.RegistrationNumber,
		&c.Address, &c.Phone, &c.Email, &c.IsActive, &subJSON, &payJSON,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(subJSON, &c.Subscription); err != nil {
		return nil, fmt.Errorf("unmarshal subscription: %w", err)
	}
	if len(payJSON) > 0 {
		if err := json.Unmarshal(payJSON, &c.Payment); err != nil {
			return nil, fmt.Errorf("unmarshal payment: %w", err)
		}
	}
	return &c, nil
}

func marshalCompanyState(sub entity.Subscription, pay entity.PaymentRecord) ([]byte, []byte, error) {
	subJSON, err := json.Marshal(sub)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal subscription: %w", err)
	}
	payJSON, err := json.Marshal(pay)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal payment: %w", err)
	}
	return subJSON, payJSON, nil
}
