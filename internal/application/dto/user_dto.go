package dto

import "time"

// CreateUserRequest entrada para crear un usuario (password en claro, se hashea en el use case).
// CompanyID solo lo puede indicar el admin de plataforma; para el resto se usa
// la empresa del solicitante.
type CreateUserRequest struct {
	FirstName   string          `json:"firstName"`
	LastName    string          `json:"lastName"`
	Email       string          `json:"email"`
	Password    string          `json:"password"`
	Role        string          `json:"role,omitempty"`
	Phone       string          `json:"phone,omitempty"`
	CompanyID   string          `json:"companyId,omitempty"`
	Permissions map[string]bool `json:"permissions,omitempty"`
}

// UpdateUserRequest entrada para actualizar un usuario (campos opcionales).
type UpdateUserRequest struct {
	FirstName   *string         `json:"firstName,omitempty"`
	LastName    *string         `json:"lastName,omitempty"`
	Email       *string         `json:"email,omitempty"`
	Role        *string         `json:"role,omitempty"`
	Phone       *string         `json:"phone,omitempty"`
	Permissions map[string]bool `json:"permissions,omitempty"`
	IsActive    *bool           `json:"isActive,omitempty"`
}

// UserResponse salida de un usuario (sin hash de password).
type UserResponse struct {
	ID          string          `json:"id"`
	CompanyID   string          `json:"companyId"`
	Email       string          `json:"email"`
	FirstName   string          `json:"firstName"`
	LastName    string          `json:"lastName"`
	Phone       string          `json:"phone,omitempty"`
	Role        string          `json:"role"`
	Permissions map[string]bool `json:"permissions,omitempty"`
	IsActive    bool            `json:"isActive"`
	LastLogin   *time.Time      `json:"lastLogin,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// UserListResponse lista paginada de usuarios.
type UserListResponse struct {
	Items []UserResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}
