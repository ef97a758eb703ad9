package dto

// RegisterCompanyRequest entrada para registrar una empresa y su primer
// administrador (operación pública de onboarding).
type RegisterCompanyRequest struct {
	CompanyName        string `json:"companyName"`
	BusinessType       string `json:"businessType"`
	RegistrationNumber string `json:"registrationNumber,omitempty"`
	FirstName          string `json:"firstName"`
	LastName           string `json:"lastName"`
	Email              string `json:"email"`
	Password           string `json:"password"`
	Phone              string `json:"phone,omitempty"`
	Address            string `json:"address,omitempty"`
}

// LoginRequest entrada para login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse salida de registro y login: token de sesión + usuario + empresa.
type AuthResponse struct {
	Token   string         `json:"token"`
	User    UserResponse   `json:"user"`
	Company CompanySummary `json:"company"`
}

// MeCompany vista de la empresa en /auth/me: incluye módulos y flag de activación.
type MeCompany struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Status   string          `json:"status"`
	Modules  map[string]bool `json:"modules"`
	IsActive bool            `json:"isActive"`
}

// MeResponse salida de /auth/me.
type MeResponse struct {
	User    UserResponse `json:"user"`
	Company MeCompany    `json:"company"`
}
