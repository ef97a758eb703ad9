package dto

import "time"

// SubscriptionResponse estado de suscripción expuesto al cliente.
type SubscriptionResponse struct {
	Plan      string          `json:"plan"`
	Status    string          `json:"status"`
	Modules   map[string]bool `json:"modules"`
	StartDate *time.Time      `json:"startDate,omitempty"`
	EndDate   *time.Time      `json:"endDate,omitempty"`
}

// CompanyResponse salida de una empresa.
type CompanyResponse struct {
	ID                 string               `json:"id"`
	TenantID           string               `json:"tenantId"`
	Name               string               `json:"name"`
	BusinessType       string               `json:"businessType"`
	RegistrationNumber string               `json:"registrationNumber,omitempty"`
	Address            string               `json:"address,omitempty"`
	Phone              string               `json:"phone,omitempty"`
	Email              string               `json:"email,omitempty"`
	IsActive           bool                 `json:"isActive"`
	Subscription       SubscriptionResponse `json:"subscription"`
	CreatedAt          time.Time            `json:"createdAt"`
	UpdatedAt          time.Time            `json:"updatedAt"`
}

// CompanySummary vista mínima de la empresa en respuestas de auth/pago.
type CompanySummary struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"` // status de suscripción
}

// UpdateCompanyProfileRequest entrada para actualizar los datos de
// contacto/identidad de la empresa (campos opcionales). Nunca toca la
// suscripción ni el flag de activación.
type UpdateCompanyProfileRequest struct {
	Name               *string `json:"name,omitempty"`
	BusinessType       *string `json:"businessType,omitempty"`
	RegistrationNumber *string `json:"registrationNumber,omitempty"`
	Address            *string `json:"address,omitempty"`
	Phone              *string `json:"phone,omitempty"`
	Email              *string `json:"email,omitempty"`
}

// UpdateSubscriptionRequest entrada administrativa para cambiar plan/módulos.
type UpdateSubscriptionRequest struct {
	Plan    string          `json:"plan,omitempty"`
	Modules map[string]bool `json:"modules,omitempty"`
}

// CompanyListResponse lista paginada de empresas.
type CompanyListResponse struct {
	Items []CompanyResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
