package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/venturee/biz-api/internal/application/dto"
	"github.com/venturee/biz-api/internal/application/usecase"
	"github.com/venturee/biz-api/internal/domain"
	"github.com/venturee/biz-api/internal/domain/entity"
	"github.com/venturee/biz-api/internal/domain/subscription"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fake en memoria (mismas semánticas que el UPDATE atómico real)
// ──────────────────────────────────────────────────────────────────────────────

type fakeCompanyRepo struct {
	companies map[string]*entity.Company
}

func newFakeCompanyRepo() *fakeCompanyRepo {
	return &fakeCompanyRepo{companies: map[string]*entity.Company{}}
}

func (f *fakeCompanyRepo) Create(_ context.Context, c *entity.Company) error {
	cp := *c
	f.companies[c.ID] = &cp
	return nil
}

func (f *fakeCompanyRepo) GetByID(_ context.Context, id string) (*entity.Company, error) {
	c, ok := f.companies[id]
	if !ok || c.IsDeleted {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (f *fakeCompanyRepo) GetByTenantID(_ context.Context, tenantID string) (*entity.Company, error) {
	for _, c := range f.companies {
		if c.TenantID == tenantID && !c.IsDeleted {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeCompanyRepo) GetByName(_ context.Context, name string) (*entity.Company, error) {
	for _, c := range f.companies {
		if c.Name == name && !c.IsDeleted {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeCompanyRepo) GetByPaymentReference(_ context.Context, _ string) (*entity.Company, error) {
	return nil, nil
}

func (f *fakeCompanyRepo) List(_ context.Context, _, _ int) ([]*entity.Company, error) {
	var list []*entity.Company
	for _, c := range f.companies {
		if !c.IsDeleted {
			list = append(list, c)
		}
	}
	return list, nil
}

func (f *fakeCompanyRepo) UpdateProfile(_ context.Context, c *entity.Company) error {
	stored, ok := f.companies[c.ID]
	if !ok || stored.IsDeleted {
		return domain.ErrCompanyNotFound
	}
	stored.Name = c.Name
	stored.BusinessType = c.BusinessType
	stored.RegistrationNumber = c.RegistrationNumber
	stored.Address = c.Address
	stored.Phone = c.Phone
	stored.Email = c.Email
	stored.UpdatedAt = c.UpdatedAt
	return nil
}

func (f *fakeCompanyRepo) SetSubscriptionState(_ context.Context, id string, sub entity.Subscription, pay entity.PaymentRecord) error {
	c, ok := f.companies[id]
	if !ok || c.IsDeleted {
		return domain.ErrCompanyNotFound
	}
	c.Subscription = sub
	c.Payment = pay
	c.IsActive = sub.Status == entity.SubscriptionActive
	return nil
}

func (f *fakeCompanyRepo) SetPaymentRecord(_ context.Context, id string, pay entity.PaymentRecord) error {
	c, ok := f.companies[id]
	if !ok || c.IsDeleted {
		return domain.ErrCompanyNotFound
	}
	c.Payment = pay
	return nil
}

func (f *fakeCompanyRepo) UpdateSubscriptionConfig(_ context.Context, id string, sub entity.Subscription) error {
	c, ok := f.companies[id]
	if !ok || c.IsDeleted {
		return domain.ErrCompanyNotFound
	}
	c.Subscription = sub
	return nil
}

func (f *fakeCompanyRepo) SoftDelete(_ context.Context, id string) error {
	if c, ok := f.companies[id]; ok {
		c.IsDeleted = true
		c.IsActive = false
	}
	return nil
}

func seedCompany(repo *fakeCompanyRepo, id string) *entity.Company {
	c := &entity.Company{
		ID:           id,
		TenantID:     "tenant_1_" + id,
		Name:         "Empresa " + id,
		Subscription: subscription.NewPending(entity.PlanBasic),
	}
	repo.companies[id] = c
	return c
}

// ──────────────────────────────────────────────────────────────────────────────
// Activate / Deactivate
// ──────────────────────────────────────────────────────────────────────────────

// La activación manual otorga una ventana corta de 30 días, a diferencia del
// término anual que otorga un pago verificado.
func TestCompanyActivate_VentanaDe30Dias(t *testing.T) {
	repo := newFakeCompanyRepo()
	seedCompany(repo, "comp-1")
	uc := usecase.NewCompanyUseCase(repo)

	out, err := uc.Activate(context.Background(), "comp-1")
	require.NoError(t, err)

	assert.Equal(t, "active", out.Subscription.Status)
	assert.True(t, out.IsActive)
	require.NotNil(t, out.Subscription.EndDate)
	assert.Equal(t, out.Subscription.StartDate.AddDate(0, 0, 30), *out.Subscription.EndDate)

	stored := repo.companies["comp-1"]
	assert.True(t, stored.IsActive, "flag y estado nunca divergen")
	assert.Equal(t, entity.SubscriptionActive, stored.Subscription.Status)
}

func TestCompanyDeactivate_SuspendeYConservaModulos(t *testing.T) {
	repo := newFakeCompanyRepo()
	c := seedCompany(repo, "comp-1")
	c.Subscription = subscription.Activate(c.Subscription, time.Now(), subscription.PaymentTermDays)
	c.Subscription.Modules[entity.ModulePOS] = true
	c.IsActive = true
	uc := usecase.NewCompanyUseCase(repo)

	out, err := uc.Deactivate(context.Background(), "comp-1")
	require.NoError(t, err)

	assert.Equal(t, "suspended", out.Subscription.Status)
	assert.False(t, out.IsActive)
	assert.True(t, out.Subscription.Modules[entity.ModulePOS],
		"la configuración de módulos sobrevive a la suspensión")
}

func TestCompanyActivate_Inexistente(t *testing.T) {
	uc := usecase.NewCompanyUseCase(newFakeCompanyRepo())
	_, err := uc.Activate(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrCompanyNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// UpdateSubscription — configuración sin transición
// ──────────────────────────────────────────────────────────────────────────────

func TestUpdateSubscription_NoTransicionaEstado(t *testing.T) {
	repo := newFakeCompanyRepo()
	seedCompany(repo, "comp-1")
	uc := usecase.NewCompanyUseCase(repo)

	out, err := uc.UpdateSubscription(context.Background(), "comp-1", dto.UpdateSubscriptionRequest{
		Plan:    "premium",
		Modules: map[string]bool{entity.ModuleLaundry: true},
	})
	require.NoError(t, err)

	assert.Equal(t, "premium", out.Subscription.Plan)
	assert.Equal(t, "pending", out.Subscription.Status, "cambiar plan no activa nada")
	assert.True(t, out.Subscription.Modules[entity.ModuleLaundry])
	assert.True(t, out.Subscription.Modules[entity.ModuleReports], "los módulos existentes se conservan")
	assert.False(t, repo.companies["comp-1"].IsActive)
}

func TestUpdateSubscription_PlanInvalido(t *testing.T) {
	repo := newFakeCompanyRepo()
	seedCompany(repo, "comp-1")
	uc := usecase.NewCompanyUseCase(repo)

	_, err := uc.UpdateSubscription(context.Background(), "comp-1", dto.UpdateSubscriptionRequest{Plan: "platinum"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// GetByTenant / UpdateProfile
// ──────────────────────────────────────────────────────────────────────────────

func TestGetByTenant_ResuelveIdentificadorExterno(t *testing.T) {
	repo := newFakeCompanyRepo()
	c := seedCompany(repo, "comp-1")
	uc := usecase.NewCompanyUseCase(repo)

	out, err := uc.GetByTenant(context.Background(), c.TenantID)
	require.NoError(t, err)
	assert.Equal(t, "comp-1", out.ID)

	_, err = uc.GetByTenant(context.Background(), "tenant_0_nadie")
	assert.ErrorIs(t, err, domain.ErrCompanyNotFound)
}

func TestUpdateProfile_NoTocaLaSuscripcion(t *testing.T) {
	repo := newFakeCompanyRepo()
	c := seedCompany(repo, "comp-1")
	c.Subscription = subscription.Activate(c.Subscription, time.Now(), subscription.PaymentTermDays)
	c.IsActive = true
	uc := usecase.NewCompanyUseCase(repo)

	name := "Lavandería Melati Renovada"
	phone := " +60 12-345 6789 "
	out, err := uc.UpdateProfile(context.Background(), "comp-1", dto.UpdateCompanyProfileRequest{
		Name:  &name,
		Phone: &phone,
	})
	require.NoError(t, err)

	assert.Equal(t, "Lavandería Melati Renovada", out.Name)
	assert.Equal(t, "+60 12-345 6789", out.Phone)

	stored := repo.companies["comp-1"]
	assert.Equal(t, "Lavandería Melati Renovada", stored.Name)
	assert.True(t, stored.IsActive, "el perfil no toca el flag de activación")
	assert.Equal(t, entity.SubscriptionActive, stored.Subscription.Status)
}

func TestUpdateProfile_NombreDuplicado(t *testing.T) {
	repo := newFakeCompanyRepo()
	seedCompany(repo, "comp-1")
	seedCompany(repo, "comp-2")
	uc := usecase.NewCompanyUseCase(repo)

	otherName := "Empresa comp-2"
	_, err := uc.UpdateProfile(context.Background(), "comp-1", dto.UpdateCompanyProfileRequest{Name: &otherName})
	assert.ErrorIs(t, err, domain.ErrCompanyNameTaken)
}

// ──────────────────────────────────────────────────────────────────────────────
// Delete
// ──────────────────────────────────────────────────────────────────────────────

func TestCompanyDelete_DesapareceDeLosLookups(t *testing.T) {
	repo := newFakeCompanyRepo()
	seedCompany(repo, "comp-1")
	uc := usecase.NewCompanyUseCase(repo)

	require.NoError(t, uc.Delete(context.Background(), "comp-1"))

	_, err := uc.GetByID(context.Background(), "comp-1")
	assert.ErrorIs(t, err, domain.ErrCompanyNotFound)
}
