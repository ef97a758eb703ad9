package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Plan nivel de suscripción contratado.
type Plan string

// Planes disponibles.
const (
	PlanBasic      Plan = "basic"
	PlanStandard   Plan = "standard"
	PlanPremium    Plan = "premium"
	PlanEnterprise Plan = "enterprise"
)

// Valid informa si el plan es uno de los conocidos.
func (p Plan) Valid() bool {
	switch p {
	case PlanBasic, PlanStandard, PlanPremium, PlanEnterprise:
		return true
	}
	return false
}

// SubscriptionStatus estado del ciclo de vida de la suscripción.
// "cancelled" existe solo como valor de presentación en el frontend; el core
// nunca transiciona hacia él.
type SubscriptionStatus string

// Estados de suscripción.
const (
	SubscriptionPending   SubscriptionStatus = "pending"
	SubscriptionActive    SubscriptionStatus = "active"
	SubscriptionSuspended SubscriptionStatus = "suspended"
)

// Módulos SaaS disponibles (claves del mapa subscription.modules).
const (
	ModulePOS          = "pos"
	ModuleInventory    = "inventory"
	ModuleLaundry      = "laundry"
	ModuleServices     = "services"
	ModuleCoupons      = "coupons"
	ModuleWallet       = "wallet"
	ModuleReports      = "reports"
	ModuleViewerAccess = "viewerAccess"
)

// DefaultModules módulos al registrar una empresa: todo lo pago apagado,
// reportes y acceso de solo lectura encendidos.
func DefaultModules() map[string]bool {
	return map[string]bool{
		ModulePOS:          false,
		ModuleInventory:    false,
		ModuleLaundry:      false,
		ModuleServices:     false,
		ModuleCoupons:      false,
		ModuleWallet:       false,
		ModuleReports:      true,
		ModuleViewerAccess: true,
	}
}

// Subscription estado de suscripción embebido en Company (columna JSONB).
type Subscription struct {
	Plan      Plan               `json:"plan"`
	Status    SubscriptionStatus `json:"status"`
	Modules   map[string]bool    `json:"modules"`
	StartDate *time.Time         `json:"startDate,omitempty"` // presentes solo una vez activada
	EndDate   *time.Time         `json:"endDate,omitempty"`
}

// HasModule informa si el módulo está contratado, la suscripción activa y la
// ventana de vigencia sin vencer.
func (s Subscription) HasModule(name string, now time.Time) bool {
	if s.Status != SubscriptionActive {
		return false
	}
	if s.EndDate != nil && !now.Before(*s.EndDate) {
		return false
	}
	return s.Modules[name]
}

// Estados del registro de pago. Cualquier otro valor es el status del gateway
// reflejado en minúsculas.
const (
	PaymentPending   = "pending"
	PaymentCompleted = "completed"
)

// PaymentRecord último cobro conocido de la empresa (columna JSONB).
type PaymentRecord struct {
	Reference     string          `json:"reference,omitempty"` // referencia DuitNow del QR generado
	TransactionID string          `json:"transactionId,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	Status        string          `json:"status,omitempty"` // pending | completed | <status del gateway>
	Method        string          `json:"method,omitempty"`
	GeneratedAt   *time.Time      `json:"generatedAt,omitempty"`
	PaidAt        *time.Time      `json:"paidAt,omitempty"`
}

// Company representa una empresa/tenant del sistema (unidad de aislamiento de datos).
// Invariante: IsActive == (Subscription.Status == "active") después de toda
// transición; ambas columnas se escriben en un único UPDATE.
type Company struct {
	ID                 string
	TenantID           string // identificador externo generado, inmutable
	Name               string // único entre empresas no borradas
	BusinessType       string
	RegistrationNumber string
	Address            string
	Phone              string
	Email              string
	IsActive           bool
	IsDeleted          bool
	Subscription       Subscription
	Payment            PaymentRecord
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
