// Package duitnow: construcción del payload QR estilo DuitNow (EMVCo MPM simplificado).
// Cadena: concatenación de campos TLV (tag + longitud de 2 dígitos + valor) con
// CRC-16/CCITT-FALSE al final. No es una integración certificada con PayNet; el
// gateway real valida contra su propia referencia de transacción.
package duitnow

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// Tags EMVCo usados en el payload.
const (
	tagPayloadFormat   = "00"
	tagInitiationPoint = "01"
	tagMerchantAccount = "26"
	tagCurrency        = "53"
	tagAmount          = "54"
	tagCountry         = "58"
	tagMerchantName    = "59"
	tagMerchantCity    = "60"
	tagAdditionalData  = "62"
	tagCRC             = "63"
)

// Códigos numéricos ISO 4217 de las monedas de liquidación soportadas.
var currencyNumeric = map[string]string{
	"MYR": "458",
	"SGD": "702",
	"USD": "840",
}

// Params datos del cobro a codificar en el QR.
type Params struct {
	CompanyID string          // ID de la empresa que paga (va embebido en la referencia)
	Amount    decimal.Decimal // monto a pagar, 2 decimales
	Currency  string          // código ISO 4217, ej. "MYR"
	ExpiresAt time.Time       // vigencia del QR
}

// Request resultado de la generación: payload listo para renderizar como QR.
type Request struct {
	Payload        string
	TransactionRef string
	Amount         decimal.Decimal
	Currency       string
	ExpiresAt      time.Time
	CreatedAt      time.Time
}

// Builder genera payloads DuitNow con la identidad del comercio configurada.
type Builder struct {
	merchantName string
	merchantCity string
	country      string
}

// NewBuilder construye el generador. El nombre y la ciudad del comercio se
// truncan a 25/15 caracteres según el límite EMVCo.
func NewBuilder(merchantName, merchantCity string) *Builder {
	return &Builder{
		merchantName: truncate(strings.ToUpper(strings.TrimSpace(merchantName)), 25),
		merchantCity: truncate(strings.ToUpper(strings.TrimSpace(merchantCity)), 15),
		country:      "MY",
	}
}

// NewTransactionRef genera la referencia única de transacción para una empresa.
// Formato heredado del producto: VENTUREE_BIZ_<unix-ms>_<companyID>.
func NewTransactionRef(companyID string, now time.Time) string {
	return fmt.Sprintf("VENTUREE_BIZ_%d_%s", now.UnixMilli(), companyID)
}

// Generate arma el payload QR para el cobro indicado.
// Valida la moneda contra la tabla ISO 4217 y exige monto positivo.
func (b *Builder) Generate(p Params) (*Request, error) {
	if p.CompanyID == "" {
		return nil, fmt.Errorf("duitnow: CompanyID es obligatorio")
	}
	if !p.Amount.IsPositive() {
		return nil, fmt.Errorf("duitnow: el monto debe ser positivo, recibido %s", p.Amount)
	}
	unit, err := currency.ParseISO(p.Currency)
	if err != nil {
		return nil, fmt.Errorf("duitnow: moneda %q inválida: %w", p.Currency, err)
	}
	numeric, ok := currencyNumeric[unit.String()]
	if !ok {
		return nil, fmt.Errorf("duitnow: moneda %s no soportada como moneda de liquidación", unit)
	}

	now := time.Now()
	ref := NewTransactionRef(p.CompanyID, now)

	var sb strings.Builder
	sb.WriteString(tlv(tagPayloadFormat, "01"))
	sb.WriteString(tlv(tagInitiationPoint, "12")) // 12 = QR dinámico, un solo uso
	sb.WriteString(tlv(tagMerchantAccount, tlv("00", "A000000615")+tlv("01", truncate(ref, 60))))
	sb.WriteString(tlv(tagCurrency, numeric))
	sb.WriteString(tlv(tagAmount, p.Amount.StringFixed(2)))
	sb.WriteString(tlv(tagCountry, b.country))
	sb.WriteString(tlv(tagMerchantName, b.merchantName))
	sb.WriteString(tlv(tagMerchantCity, b.merchantCity))
	sb.WriteString(tlv(tagAdditionalData, tlv("01", truncate(ref, 60))))

	// El CRC se calcula sobre todo el payload incluyendo su propio tag y longitud.
	payload := sb.String() + tagCRC + "04"
	payload += fmt.Sprintf("%04X", crc16CCITT([]byte(payload)))

	return &Request{
		Payload:        payload,
		TransactionRef: ref,
		Amount:         p.Amount,
		Currency:       unit.String(),
		ExpiresAt:      p.ExpiresAt,
		CreatedAt:      now,
	}, nil
}

// tlv codifica un campo tag-longitud-valor con longitud decimal de 2 dígitos.
func tlv(tag, value string) string {
	return fmt.Sprintf("%s%02d%s", tag, len(value), value)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

// crc16CCITT calcula CRC-16/CCITT-FALSE (polinomio 0x1021, inicial 0xFFFF),
// el checksum que exige EMVCo para el campo 63.
func crc16CCITT(data []byte) uint16 {
	crc := uint16(0xFFFF)
	for _, b := range data {
		crc ^= uint16(b) << 8
		for i := 0; i < 8; i++ {
			if crc&0x8000 != 0 {
				crc = crc<<1 ^ 0x1021
			} else {
				crc <<= 1
			}
		}
	}
	return crc
}
