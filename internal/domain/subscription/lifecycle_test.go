package subscription_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/venturee/biz-api/internal/domain/entity"
	"github.com/venturee/biz-api/internal/domain/subscription"
)

// ──────────────────────────────────────────────────────────────────────────────
// NewPending — estado inicial al registrar una empresa
// ──────────────────────────────────────────────────────────────────────────────

func TestNewPending_ModulosPorDefecto(t *testing.T) {
	sub := subscription.NewPending(entity.PlanStandard)

	assert.Equal(t, entity.PlanStandard, sub.Plan)
	assert.Equal(t, entity.SubscriptionPending, sub.Status)
	assert.Nil(t, sub.StartDate, "sin ventana hasta activar")
	assert.Nil(t, sub.EndDate)

	// Módulos pagos apagados; reportes y acceso de lectura encendidos.
	assert.False(t, sub.Modules[entity.ModulePOS])
	assert.False(t, sub.Modules[entity.ModuleInventory])
	assert.False(t, sub.Modules[entity.ModuleWallet])
	assert.True(t, sub.Modules[entity.ModuleReports])
	assert.True(t, sub.Modules[entity.ModuleViewerAccess])
}

func TestNewPending_PlanInvalidoCaeABasic(t *testing.T) {
	sub := subscription.NewPending(entity.Plan("platinum"))
	assert.Equal(t, entity.PlanBasic, sub.Plan)
}

// ──────────────────────────────────────────────────────────────────────────────
// Activate — ventanas asimétricas: pago anual vs. override administrativo
// ──────────────────────────────────────────────────────────────────────────────

func TestActivate_PagoOtorgaVentanaAnual(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	sub := subscription.Activate(subscription.NewPending(entity.PlanBasic), now, subscription.PaymentTermDays)

	assert.Equal(t, entity.SubscriptionActive, sub.Status)
	require.NotNil(t, sub.StartDate)
	require.NotNil(t, sub.EndDate)
	assert.Equal(t, now, *sub.StartDate)
	assert.Equal(t, now.AddDate(0, 0, 365), *sub.EndDate)
}

func TestActivate_OverrideAdminOtorgaVentanaCorta(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	sub := subscription.Activate(subscription.NewPending(entity.PlanBasic), now, subscription.AdminTermDays)

	require.NotNil(t, sub.EndDate)
	assert.Equal(t, now.AddDate(0, 0, 30), *sub.EndDate,
		"la activación manual otorga 30 días, no el término anual")
}

// El flag de activación se deriva del estado; nunca divergen.
func TestIsActiveFlag_SigueAlEstado(t *testing.T) {
	assert.True(t, subscription.IsActiveFlag(entity.SubscriptionActive))
	assert.False(t, subscription.IsActiveFlag(entity.SubscriptionPending))
	assert.False(t, subscription.IsActiveFlag(entity.SubscriptionSuspended))
}

// ──────────────────────────────────────────────────────────────────────────────
// Suspend — conserva los módulos contratados
// ──────────────────────────────────────────────────────────────────────────────

// Comportamiento heredado del producto: suspender NO limpia los módulos, la
// configuración queda lista para una eventual reactivación.
func TestSuspend_ConservaModulosContratados(t *testing.T) {
	now := time.Now()
	sub := subscription.Activate(subscription.NewPending(entity.PlanPremium), now, subscription.PaymentTermDays)
	sub.Modules[entity.ModulePOS] = true
	sub.Modules[entity.ModuleWallet] = true

	suspended := subscription.Suspend(sub)

	assert.Equal(t, entity.SubscriptionSuspended, suspended.Status)
	assert.True(t, suspended.Modules[entity.ModulePOS], "los módulos contratados no se limpian al suspender")
	assert.True(t, suspended.Modules[entity.ModuleWallet])
	// Pero el entitlement deja de aplicar porque el estado no es active.
	assert.False(t, suspended.HasModule(entity.ModulePOS, now))
}

// ──────────────────────────────────────────────────────────────────────────────
// HasModule — entitlement efectivo
// ──────────────────────────────────────────────────────────────────────────────

func TestHasModule_RespetaVentanaDeVigencia(t *testing.T) {
	now := time.Now()
	sub := subscription.Activate(subscription.NewPending(entity.PlanBasic), now, subscription.PaymentTermDays)
	sub.Modules[entity.ModulePOS] = true

	assert.True(t, sub.HasModule(entity.ModulePOS, now))
	assert.True(t, sub.HasModule(entity.ModulePOS, now.AddDate(0, 0, 364)))
	assert.False(t, sub.HasModule(entity.ModulePOS, now.AddDate(0, 0, 366)), "vencida la ventana, el módulo se apaga")
	assert.False(t, sub.HasModule(entity.ModuleLaundry, now), "módulo no contratado")
}

// ──────────────────────────────────────────────────────────────────────────────
// Gateway — interpretación del status del callback
// ──────────────────────────────────────────────────────────────────────────────

func TestGatewaySuccess_SoloSuccessYCompleted(t *testing.T) {
	assert.True(t, subscription.GatewaySuccess("SUCCESS"))
	assert.True(t, subscription.GatewaySuccess("completed"))
	assert.True(t, subscription.GatewaySuccess("  Success  "))
	assert.False(t, subscription.GatewaySuccess("FAILED"))
	assert.False(t, subscription.GatewaySuccess("PENDING"))
	assert.False(t, subscription.GatewaySuccess(""))
}

func TestMirrorGatewayStatus_ReflejaEnMinusculas(t *testing.T) {
	pay := entity.PaymentRecord{Status: entity.PaymentPending}
	pay = subscription.MirrorGatewayStatus(pay, "  FAILED ")
	assert.Equal(t, "failed", pay.Status)
}

func TestCompletePayment_MarcaDuitNow(t *testing.T) {
	now := time.Now()
	pay := subscription.CompletePayment(entity.PaymentRecord{Status: entity.PaymentPending}, "TXN-1", now)

	assert.Equal(t, entity.PaymentCompleted, pay.Status)
	assert.Equal(t, "TXN-1", pay.TransactionID)
	assert.Equal(t, "DuitNow", pay.Method)
	require.NotNil(t, pay.PaidAt)
	assert.Equal(t, now, *pay.PaidAt)
}

// ──────────────────────────────────────────────────────────────────────────────
// AlreadyApplied — idempotencia del callback
// ──────────────────────────────────────────────────────────────────────────────

func TestAlreadyApplied_MismaTransaccionEsNoOp(t *testing.T) {
	now := time.Now()
	sub := subscription.Activate(subscription.NewPending(entity.PlanBasic), now, subscription.PaymentTermDays)
	pay := subscription.CompletePayment(entity.PaymentRecord{}, "TXN-1", now)

	assert.True(t, subscription.AlreadyApplied(sub, pay, "TXN-1"))
	assert.False(t, subscription.AlreadyApplied(sub, pay, "TXN-2"), "otra transacción no es replay")
}

func TestAlreadyApplied_PendienteNoEsReplay(t *testing.T) {
	sub := subscription.NewPending(entity.PlanBasic)
	pay := entity.PaymentRecord{Status: entity.PaymentPending, TransactionID: "TXN-1"}
	assert.False(t, subscription.AlreadyApplied(sub, pay, "TXN-1"))
}
