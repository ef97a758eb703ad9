package repository

import (
	"context"

	"github.com/venturee/biz-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (DIP).
// Todos los lookups excluyen usuarios con soft delete.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	// GetByEmail busca por email normalizado a minúsculas.
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	UpdateLastLogin(ctx context.Context, id string) error
	ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.User, error)
	ListAll(ctx context.Context, limit, offset int) ([]*entity.User, int, error)
	SoftDelete(ctx context.Context, id string) error
}
