// Package subscription implementa la máquina de estados del ciclo de vida de
// la suscripción de un tenant: pending -> active -> suspended. Las funciones
// son puras; la aplicación atómica de los campos resultantes (status + flag de
// activación + ventana de vigencia) es responsabilidad del repositorio.
package subscription

import (
	"strings"
	"time"

	"github.com/venturee/biz-api/internal/domain/entity"
)

// Ventanas de vigencia en días. La activación manual de un administrador
// otorga una ventana corta; un pago verificado otorga el término anual.
const (
	PaymentTermDays = 365
	AdminTermDays   = 30
)

// NewPending suscripción inicial al registrar una empresa: plan indicado,
// estado pendiente, módulos pagos apagados (reports y viewerAccess encendidos).
func NewPending(plan entity.Plan) entity.Subscription {
	if !plan.Valid() {
		plan = entity.PlanBasic
	}
	return entity.Subscription{
		Plan:    plan,
		Status:  entity.SubscriptionPending,
		Modules: entity.DefaultModules(),
	}
}

// Activate transiciona a "active" con ventana [now, now + termDays].
// Los módulos contratados se conservan tal como estén configurados.
func Activate(sub entity.Subscription, now time.Time, termDays int) entity.Subscription {
	start := now
	end := now.AddDate(0, 0, termDays)
	sub.Status = entity.SubscriptionActive
	sub.StartDate = &start
	sub.EndDate = &end
	return sub
}

// Suspend transiciona a "suspended". Los módulos contratados NO se limpian:
// la configuración se conserva para una eventual reactivación (comportamiento
// heredado del producto, documentado en los tests).
func Suspend(sub entity.Subscription) entity.Subscription {
	sub.Status = entity.SubscriptionSuspended
	return sub
}

// IsActiveFlag valor que debe tomar companies.is_active para un estado dado.
// Invariante del sistema: el flag y el estado nunca divergen tras una transición.
func IsActiveFlag(status entity.SubscriptionStatus) bool {
	return status == entity.SubscriptionActive
}

// GatewaySuccess informa si el status reportado por el gateway de pago
// representa un cobro completado.
func GatewaySuccess(gatewayStatus string) bool {
	switch strings.ToUpper(strings.TrimSpace(gatewayStatus)) {
	case "SUCCESS", "COMPLETED":
		return true
	}
	return false
}

// MirrorGatewayStatus refleja el status del gateway (en minúsculas) sobre el
// registro de pago sin transicionar la suscripción.
func MirrorGatewayStatus(pay entity.PaymentRecord, gatewayStatus string) entity.PaymentRecord {
	pay.Status = strings.ToLower(strings.TrimSpace(gatewayStatus))
	return pay
}

// CompletePayment marca el registro de pago como completado por el gateway.
func CompletePayment(pay entity.PaymentRecord, transactionID string, now time.Time) entity.PaymentRecord {
	paid := now
	pay.TransactionID = transactionID
	pay.Status = entity.PaymentCompleted
	pay.Method = "DuitNow"
	pay.PaidAt = &paid
	return pay
}

// AlreadyApplied informa si un callback exitoso ya fue aplicado: misma
// transacción, pago completado y suscripción activa. Reaplicarlo debe ser un
// no-op (no extiende la ventana ni duplica efectos).
func AlreadyApplied(sub entity.Subscription, pay entity.PaymentRecord, transactionID string) bool {
	return sub.Status == entity.SubscriptionActive &&
		pay.Status == entity.PaymentCompleted &&
		pay.TransactionID == transactionID
}
