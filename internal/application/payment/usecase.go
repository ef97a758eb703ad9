// Package payment implementa la generación del cobro DuitNow de la suscripción
// y el procesamiento del callback del gateway que activa al tenant.
package payment

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/venturee/biz-api/internal/application/dto"
	"github.com/venturee/biz-api/internal/domain"
	"github.com/venturee/biz-api/internal/domain/entity"
	"github.com/venturee/biz-api/internal/domain/repository"
	"github.com/venturee/biz-api/internal/domain/subscription"
	"github.com/venturee/biz-api/pkg/duitnow"
)

// Precios mensuales por plan (MYR).
var planPrices = map[entity.Plan]decimal.Decimal{
	entity.PlanBasic:      decimal.RequireFromString("99.99"),
	entity.PlanStandard:   decimal.RequireFromString("199.99"),
	entity.PlanPremium:    decimal.RequireFromString("299.99"),
	entity.PlanEnterprise: decimal.RequireFromString("499.99"),
}

// Precios de los módulos adicionales. Los módulos incluidos de base
// (reports, viewerAccess) no suman al cobro.
var modulePrices = map[string]decimal.Decimal{
	entity.ModulePOS:       decimal.RequireFromString("29.99"),
	entity.ModuleInventory: decimal.RequireFromString("29.99"),
	entity.ModuleLaundry:   decimal.RequireFromString("39.99"),
	entity.ModuleServices:  decimal.RequireFromString("29.99"),
	entity.ModuleCoupons:   decimal.RequireFromString("19.99"),
	entity.ModuleWallet:    decimal.RequireFromString("24.99"),
}

// SheetGenerator renderiza la hoja de pago imprimible con el QR embebido.
// La implementación (maroto) vive en infrastructure/pdf.
type SheetGenerator interface {
	PaymentSheet(company *entity.Company, qrPayload string, amount decimal.Decimal, currency string, expiresAt time.Time) ([]byte, error)
}

// UseCase flujo de cobro: generar QR, recibir callback, consultar estado.
type UseCase struct {
	companies     repository.CompanyRepository
	qr            *duitnow.Builder
	sheets        SheetGenerator
	currency      string
	qrExpiryHours int
}

// NewUseCase construye el caso de uso de pagos.
func NewUseCase(companies repository.CompanyRepository, qr *duitnow.Builder, sheets SheetGenerator, currency string, qrExpiryHours int) *UseCase {
	if qrExpiryHours <= 0 {
		qrExpiryHours = 24
	}
	return &UseCase{
		companies:     companies,
		qr:            qr,
		sheets:        sheets,
		currency:      currency,
		qrExpiryHours: qrExpiryHours,
	}
}

// PriceFor total a cobrar por un plan más sus módulos adicionales encendidos.
func PriceFor(plan entity.Plan, modules map[string]bool) (decimal.Decimal, error) {
	base, ok := planPrices[plan]
	if !ok {
		return decimal.Zero, domain.ErrInvalidInput
	}
	total := base
	for name, enabled := range modules {
		if !enabled {
			continue
		}
		if price, ok := modulePrices[name]; ok {
			total = total.Add(price)
		}
	}
	return total, nil
}

// GenerateIntent genera el QR de cobro para la empresa indicada y deja el
// registro de pago en "pending" con la referencia que luego casará el callback.
// El plan y los módulos elegidos en la request se persisten como configuración
// de la suscripción (sin transición): lo que el tenant paga es lo que la
// activación le otorga.
func (uc *UseCase) GenerateIntent(ctx context.Context, companyID string, in dto.GenerateQRRequest) (*dto.GenerateQRResponse, error) {
	company, err := uc.companies.GetByID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrCompanyNotFound
	}

	sub := company.Subscription
	if in.Plan != "" {
		sub.Plan = entity.Plan(in.Plan)
	}
	if in.Modules != nil {
		merged := make(map[string]bool, len(sub.Modules)+len(in.Modules))
		for k, v := range sub.Modules {
			merged[k] = v
		}
		for k, v := range in.Modules {
			merged[k] = v
		}
		sub.Modules = merged
	}
	amount, err := PriceFor(sub.Plan, sub.Modules)
	if err != nil {
		return nil, err
	}

	req, err := uc.qr.Generate(duitnow.Params{
		CompanyID: company.ID,
		Amount:    amount,
		Currency:  uc.currency,
		ExpiresAt: time.Now().Add(time.Duration(uc.qrExpiryHours) * time.Hour),
	})
	if err != nil {
		return nil, err
	}

	if err := uc.companies.UpdateSubscriptionConfig(ctx, company.ID, sub); err != nil {
		return nil, err
	}

	generated := req.CreatedAt
	pay := entity.PaymentRecord{
		Reference:   req.TransactionRef,
		Amount:      amount,
		Status:      entity.PaymentPending,
		GeneratedAt: &generated,
	}
	if err := uc.companies.SetPaymentRecord(ctx, company.ID, pay); err != nil {
		return nil, err
	}

	return &dto.GenerateQRResponse{
		QRPayload:      req.Payload,
		TransactionRef: req.TransactionRef,
		Amount:         amount,
		Currency:       req.Currency,
		ExpiryTime:     req.ExpiresAt,
		Company: dto.CompanySummary{
			ID:     company.ID,
			Name:   company.Name,
			Status: string(company.Subscription.Status),
		},
	}, nil
}

// HandleCallback procesa la notificación del gateway. Con status exitoso
// activa la suscripción (ventana anual, con el plan y los módulos persistidos
// al generar el intent) y completa el pago en un único UPDATE atómico;
// reintentos del mismo transactionId son no-op. Con cualquier otro
// status solo refleja el valor sobre el registro de pago. Sin empresa que
// case la referencia no se muta nada.
func (uc *UseCase) HandleCallback(ctx context.Context, in dto.CallbackPayload) (*dto.CallbackResponse, error) {
	if in.TransactionID == "" || in.Status == "" || in.ReferenceNo == "" {
		return nil, domain.ErrInvalidCallback
	}

	company, err := uc.companies.GetByPaymentReference(ctx, in.ReferenceNo)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNoMatchingTenant
	}
	summary := dto.CompanySummary{ID: company.ID, Name: company.Name}

	if !subscription.GatewaySuccess(in.Status) {
		pay := subscription.MirrorGatewayStatus(company.Payment, in.Status)
		if err := uc.companies.SetPaymentRecord(ctx, company.ID, pay); err != nil {
			return nil, err
		}
		summary.Status = string(company.Subscription.Status)
		return &dto.CallbackResponse{Activated: false, Status: pay.Status, Company: &summary}, nil
	}

	if subscription.AlreadyApplied(company.Subscription, company.Payment, in.TransactionID) {
		summary.Status = string(company.Subscription.Status)
		return &dto.CallbackResponse{Activated: true, Status: company.Payment.Status, Company: &summary}, nil
	}

	now := time.Now()
	sub := subscription.Activate(company.Subscription, now, subscription.PaymentTermDays)
	pay := subscription.CompletePayment(company.Payment, in.TransactionID, now)
	if !in.Amount.IsZero() {
		pay.Amount = in.Amount
	}
	if err := uc.companies.SetSubscriptionState(ctx, company.ID, sub, pay); err != nil {
		return nil, err
	}

	summary.Status = string(sub.Status)
	return &dto.CallbackResponse{Activated: true, Status: pay.Status, Company: &summary}, nil
}

// Status estado de suscripción y último pago de la propia empresa.
func (uc *UseCase) Status(ctx context.Context, companyID string) (*dto.PaymentStatusResponse, error) {
	company, err := uc.companies.GetByID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrCompanyNotFound
	}
	return &dto.PaymentStatusResponse{
		Subscription: dto.SubscriptionResponse{
			Plan:      string(company.Subscription.Plan),
			Status:    string(company.Subscription.Status),
			Modules:   company.Subscription.Modules,
			StartDate: company.Subscription.StartDate,
			EndDate:   company.Subscription.EndDate,
		},
		Payment: dto.PaymentRecordResponse{
			Reference:     company.Payment.Reference,
			TransactionID: company.Payment.TransactionID,
			Amount:        company.Payment.Amount,
			Status:        company.Payment.Status,
			Method:        company.Payment.Method,
			GeneratedAt:   company.Payment.GeneratedAt,
			PaidAt:        company.Payment.PaidAt,
		},
		IsActive: company.IsActive,
	}, nil
}

// Sheet genera el PDF imprimible con el QR de cobro de la empresa. Emite un
// intent nuevo (referencia y payload frescos) con el monto del intent
// pendiente vigente y lo persiste, de modo que el callback del gateway case
// contra la referencia impresa.
func (uc *UseCase) Sheet(ctx context.Context, companyID string) ([]byte, error) {
	company, err := uc.companies.GetByID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrCompanyNotFound
	}
	if company.Payment.Reference == "" || company.Payment.Status != entity.PaymentPending {
		return nil, domain.ErrNotFound
	}

	req, err := uc.qr.Generate(duitnow.Params{
		CompanyID: company.ID,
		Amount:    company.Payment.Amount,
		Currency:  uc.currency,
		ExpiresAt: time.Now().Add(time.Duration(uc.qrExpiryHours) * time.Hour),
	})
	if err != nil {
		return nil, err
	}

	generated := req.CreatedAt
	pay := company.Payment
	pay.Reference = req.TransactionRef
	pay.GeneratedAt = &generated
	if err := uc.companies.SetPaymentRecord(ctx, company.ID, pay); err != nil {
		return nil, err
	}
	return uc.sheets.PaymentSheet(company, req.Payload, pay.Amount, req.Currency, req.ExpiresAt)
}
