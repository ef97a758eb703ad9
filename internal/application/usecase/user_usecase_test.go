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
)

// ──────────────────────────────────────────────────────────────────────────────
// Fake en memoria
// ──────────────────────────────────────────────────────────────────────────────

type fakeUserRepo struct {
	users map[string]*entity.User
}

func newFakeUserRepo() *fakeUserRepo { return &fakeUserRepo{users: map[string]*entity.User{}} }

func (f *fakeUserRepo) Create(_ context.Context, u *entity.User) error {
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	u, ok := f.users[id]
	if !ok || u.IsDeleted {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range f.users {
		if u.Email == email && !u.IsDeleted {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) Update(_ context.Context, u *entity.User) error {
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func (f *fakeUserRepo) UpdateLastLogin(_ context.Context, _ string) error { return nil }

func (f *fakeUserRepo) ListByCompany(_ context.Context, companyID string, _, _ int) ([]*entity.User, error) {
	var list []*entity.User
	for _, u := range f.users {
		if u.CompanyID == companyID && !u.IsDeleted {
			list = append(list, u)
		}
	}
	return list, nil
}

func (f *fakeUserRepo) ListAll(_ context.Context, _, _ int) ([]*entity.User, int, error) {
	var list []*entity.User
	for _, u := range f.users {
		if !u.IsDeleted {
			list = append(list, u)
		}
	}
	return list, len(list), nil
}

func (f *fakeUserRepo) SoftDelete(_ context.Context, id string) error {
	if u, ok := f.users[id]; ok {
		u.IsDeleted = true
		u.IsActive = false
	}
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

func seedUser(repo *fakeUserRepo, id, companyID string, role entity.Role) *entity.User {
	now := time.Now()
	u := &entity.User{
		ID:        id,
		CompanyID: companyID,
		Email:     id + "@test.my",
		FirstName: "Test",
		Role:      role,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	repo.users[id] = u
	return u
}

func adminActor() usecase.Actor {
	return usecase.Actor{UserID: "admin-1", CompanyID: "empresa-admin", Role: entity.RoleAdmin}
}

func companyAdminActor(companyID string) usecase.Actor {
	return usecase.Actor{UserID: "cadmin-" + companyID, CompanyID: companyID, Role: entity.RoleCompanyAdmin}
}

// ──────────────────────────────────────────────────────────────────────────────
// Aislamiento de tenant
// ──────────────────────────────────────────────────────────────────────────────

// Un company-admin no puede leer usuarios de otra empresa; el admin de
// plataforma sí.
func TestGetByID_AislamientoDeTenant(t *testing.T) {
	repo := newFakeUserRepo()
	seedUser(repo, "user-b", "empresa-b", entity.RoleStaff)
	uc := usecase.NewUserUseCase(repo, 4)

	_, err := uc.GetByID(context.Background(), companyAdminActor("empresa-a"), "user-b")
	assert.ErrorIs(t, err, domain.ErrCrossTenantAccess)

	out, err := uc.GetByID(context.Background(), adminActor(), "user-b")
	require.NoError(t, err)
	assert.Equal(t, "user-b", out.ID)
}

func TestList_RolComunNoFiltraOtraEmpresa(t *testing.T) {
	repo := newFakeUserRepo()
	seedUser(repo, "user-a", "empresa-a", entity.RoleStaff)
	seedUser(repo, "user-b", "empresa-b", entity.RoleStaff)
	uc := usecase.NewUserUseCase(repo, 4)

	// Filtrar por otra empresa siendo company-admin es acceso cruzado.
	_, err := uc.List(context.Background(), companyAdminActor("empresa-a"), "empresa-b", dto.PageRequest{})
	assert.ErrorIs(t, err, domain.ErrCrossTenantAccess)

	out, err := uc.List(context.Background(), companyAdminActor("empresa-a"), "", dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.Equal(t, "user-a", out.Items[0].ID)
}

func TestList_AdminPlataformaVeTodo(t *testing.T) {
	repo := newFakeUserRepo()
	seedUser(repo, "user-a", "empresa-a", entity.RoleStaff)
	seedUser(repo, "user-b", "empresa-b", entity.RoleStaff)
	uc := usecase.NewUserUseCase(repo, 4)

	out, err := uc.List(context.Background(), adminActor(), "", dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, out.Items, 2)
	assert.Equal(t, 2, out.Page.Total)

	// Y puede filtrar por cualquier empresa.
	out, err = uc.List(context.Background(), adminActor(), "empresa-b", dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.Equal(t, "user-b", out.Items[0].ID)
}

// ──────────────────────────────────────────────────────────────────────────────
// Create
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_StaffNoPuedeCrear(t *testing.T) {
	repo := newFakeUserRepo()
	uc := usecase.NewUserUseCase(repo, 4)

	actor := usecase.Actor{UserID: "staff-1", CompanyID: "empresa-a", Role: entity.RoleStaff}
	_, err := uc.Create(context.Background(), actor, dto.CreateUserRequest{
		FirstName: "Nuevo", Email: "nuevo@test.my", Password: "segura-1234",
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientRole)
}

func TestCreate_PermisosPorDefectoDelRol(t *testing.T) {
	repo := newFakeUserRepo()
	uc := usecase.NewUserUseCase(repo, 4)

	out, err := uc.Create(context.Background(), companyAdminActor("empresa-a"), dto.CreateUserRequest{
		FirstName: "Nuevo", Email: "Nuevo@Test.MY", Password: "segura-1234", Role: "viewer",
	})
	require.NoError(t, err)

	assert.Equal(t, "empresa-a", out.CompanyID, "hereda la empresa del solicitante")
	assert.Equal(t, "nuevo@test.my", out.Email)
	assert.Equal(t, entity.DefaultPermissions(entity.RoleViewer), out.Permissions)
}

func TestCreate_CompanyAdminNoElevaAPlataforma(t *testing.T) {
	repo := newFakeUserRepo()
	uc := usecase.NewUserUseCase(repo, 4)

	_, err := uc.Create(context.Background(), companyAdminActor("empresa-a"), dto.CreateUserRequest{
		FirstName: "Intruso", Email: "intruso@test.my", Password: "segura-1234", Role: "admin",
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientRole)
}

func TestCreate_CompanyAdminNoCreaEnOtraEmpresa(t *testing.T) {
	repo := newFakeUserRepo()
	uc := usecase.NewUserUseCase(repo, 4)

	_, err := uc.Create(context.Background(), companyAdminActor("empresa-a"), dto.CreateUserRequest{
		FirstName: "Nuevo", Email: "nuevo@test.my", Password: "segura-1234",
		CompanyID: "empresa-b",
	})
	assert.ErrorIs(t, err, domain.ErrCrossTenantAccess)
}

func TestCreate_AdminPlataformaEligeEmpresa(t *testing.T) {
	repo := newFakeUserRepo()
	uc := usecase.NewUserUseCase(repo, 4)

	out, err := uc.Create(context.Background(), adminActor(), dto.CreateUserRequest{
		FirstName: "Nuevo", Email: "nuevo@test.my", Password: "segura-1234",
		CompanyID: "empresa-b",
	})
	require.NoError(t, err)
	assert.Equal(t, "empresa-b", out.CompanyID)
	assert.Equal(t, string(entity.RoleStaff), out.Role, "rol por defecto")
}

func TestCreate_EmailDuplicado(t *testing.T) {
	repo := newFakeUserRepo()
	existing := seedUser(repo, "user-a", "empresa-a", entity.RoleStaff)
	uc := usecase.NewUserUseCase(repo, 4)

	_, err := uc.Create(context.Background(), companyAdminActor("empresa-a"), dto.CreateUserRequest{
		FirstName: "Clon", Email: existing.Email, Password: "segura-1234",
	})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

// ──────────────────────────────────────────────────────────────────────────────
// Delete — nunca la propia cuenta
// ──────────────────────────────────────────────────────────────────────────────

func TestDelete_PropiaCuentaDenegada(t *testing.T) {
	repo := newFakeUserRepo()
	seedUser(repo, "cadmin-1", "empresa-a", entity.RoleCompanyAdmin)
	uc := usecase.NewUserUseCase(repo, 4)

	actor := usecase.Actor{UserID: "cadmin-1", CompanyID: "empresa-a", Role: entity.RoleCompanyAdmin}
	err := uc.Delete(context.Background(), actor, "cadmin-1")
	assert.ErrorIs(t, err, domain.ErrSelfDeleteForbidden)
	assert.False(t, repo.users["cadmin-1"].IsDeleted)
}

// Incluso el admin de plataforma, que cruza tenants, no se borra a sí mismo.
func TestDelete_AdminPlataformaTampocoSeBorra(t *testing.T) {
	repo := newFakeUserRepo()
	seedUser(repo, "admin-1", "empresa-admin", entity.RoleAdmin)
	uc := usecase.NewUserUseCase(repo, 4)

	err := uc.Delete(context.Background(), adminActor(), "admin-1")
	assert.ErrorIs(t, err, domain.ErrSelfDeleteForbidden)
}

func TestDelete_OtraEmpresaDenegada(t *testing.T) {
	repo := newFakeUserRepo()
	seedUser(repo, "user-b", "empresa-b", entity.RoleStaff)
	uc := usecase.NewUserUseCase(repo, 4)

	err := uc.Delete(context.Background(), companyAdminActor("empresa-a"), "user-b")
	assert.ErrorIs(t, err, domain.ErrCrossTenantAccess)
	assert.False(t, repo.users["user-b"].IsDeleted)
}

func TestDelete_TerceroDelMismoTenantOK(t *testing.T) {
	repo := newFakeUserRepo()
	seedUser(repo, "user-a", "empresa-a", entity.RoleStaff)
	uc := usecase.NewUserUseCase(repo, 4)

	err := uc.Delete(context.Background(), companyAdminActor("empresa-a"), "user-a")
	require.NoError(t, err)
	assert.True(t, repo.users["user-a"].IsDeleted)

	// Tras el soft delete, desaparece de los lookups.
	u, err := repo.GetByID(context.Background(), "user-a")
	require.NoError(t, err)
	assert.Nil(t, u)
}

// ──────────────────────────────────────────────────────────────────────────────
// Update
// ──────────────────────────────────────────────────────────────────────────────

func TestUpdate_CrossTenantDenegado(t *testing.T) {
	repo := newFakeUserRepo()
	seedUser(repo, "user-b", "empresa-b", entity.RoleStaff)
	uc := usecase.NewUserUseCase(repo, 4)

	name := "Renombrado"
	_, err := uc.Update(context.Background(), companyAdminActor("empresa-a"), "user-b", dto.UpdateUserRequest{FirstName: &name})
	assert.ErrorIs(t, err, domain.ErrCrossTenantAccess)
}

func TestUpdate_CamposOpcionales(t *testing.T) {
	repo := newFakeUserRepo()
	seedUser(repo, "user-a", "empresa-a", entity.RoleStaff)
	uc := usecase.NewUserUseCase(repo, 4)

	name := "Renombrado"
	inactive := false
	out, err := uc.Update(context.Background(), companyAdminActor("empresa-a"), "user-a", dto.UpdateUserRequest{
		FirstName: &name,
		IsActive:  &inactive,
	})
	require.NoError(t, err)
	assert.Equal(t, "Renombrado", out.FirstName)
	assert.False(t, out.IsActive)
	assert.Equal(t, "user-a@test.my", out.Email, "los campos no enviados no cambian")
}
