package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// GenerateQRRequest entrada para generar el QR de cobro de la suscripción.
type GenerateQRRequest struct {
	Plan    string          `json:"plan"`
	Modules map[string]bool `json:"modules,omitempty"`
}

// GenerateQRResponse salida con el payload DuitNow listo para renderizar.
type GenerateQRResponse struct {
	QRPayload      string          `json:"qrPayload"`
	TransactionRef string          `json:"transactionRef"`
	Amount         decimal.Decimal `json:"amount"`
	Currency       string          `json:"currency"`
	ExpiryTime     time.Time       `json:"expiryTime"`
	Company        CompanySummary  `json:"company"`
}

// CallbackPayload notificación del gateway de pago: resultado de la transacción.
// Llega por un endpoint público; la forma se valida antes de tocar estado.
type CallbackPayload struct {
	TransactionID string          `json:"transactionId"`
	Amount        decimal.Decimal `json:"amount"`
	Status        string          `json:"status"`
	ReferenceNo   string          `json:"referenceNo"`
}

// CallbackResponse confirmación al gateway.
type CallbackResponse struct {
	Activated bool            `json:"activated"`
	Status    string          `json:"status"`
	Company   *CompanySummary `json:"company,omitempty"`
}

// PaymentRecordResponse último cobro conocido de la empresa.
type PaymentRecordResponse struct {
	Reference     string          `json:"reference,omitempty"`
	TransactionID string          `json:"transactionId,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	Status        string          `json:"status,omitempty"`
	Method        string          `json:"method,omitempty"`
	GeneratedAt   *time.Time      `json:"generatedAt,omitempty"`
	PaidAt        *time.Time      `json:"paidAt,omitempty"`
}

// PaymentStatusResponse estado de pago y suscripción de la propia empresa.
type PaymentStatusResponse struct {
	Subscription SubscriptionResponse  `json:"subscription"`
	Payment      PaymentRecordResponse `json:"payment"`
	IsActive     bool                  `json:"isActive"`
}
