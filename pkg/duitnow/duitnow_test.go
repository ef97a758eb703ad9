package duitnow_test

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/venturee/biz-api/pkg/duitnow"
)

func testBuilder() *duitnow.Builder {
	return duitnow.NewBuilder("Venturee Biz Platform", "Kuala Lumpur")
}

func testParams() duitnow.Params {
	return duitnow.Params{
		CompanyID: "comp-123",
		Amount:    decimal.RequireFromString("129.98"),
		Currency:  "MYR",
		ExpiresAt: time.Now().Add(24 * time.Hour),
	}
}

func TestGenerate_PayloadEMV(t *testing.T) {
	req, err := testBuilder().Generate(testParams())
	require.NoError(t, err)

	// Campos fijos del payload EMVCo.
	assert.True(t, strings.HasPrefix(req.Payload, "000201"), "payload format indicator")
	assert.Contains(t, req.Payload, "010212", "QR dinámico de un solo uso")
	assert.Contains(t, req.Payload, "5303458", "MYR numérico 458")
	assert.Contains(t, req.Payload, "5406129.98", "monto con 2 decimales")
	assert.Contains(t, req.Payload, "5802MY", "país MY")
	assert.Contains(t, req.Payload, "VENTUREE BIZ PLATFORM", "nombre del comercio en mayúsculas")
	assert.Contains(t, req.Payload, "KUALA LUMPUR")
	assert.Contains(t, req.Payload, req.TransactionRef, "la referencia viaja embebida en el payload")
	assert.Equal(t, "MYR", req.Currency)
}

// El CRC es el checksum CCITT-FALSE de todo el payload incluyendo "6304".
func TestGenerate_CRCValido(t *testing.T) {
	req, err := testBuilder().Generate(testParams())
	require.NoError(t, err)

	idx := strings.LastIndex(req.Payload, "6304")
	require.GreaterOrEqual(t, idx, 0, "el payload debe terminar en el campo CRC")
	crc := req.Payload[idx+4:]
	assert.Len(t, crc, 4, "CRC de 4 dígitos hex")
	assert.Equal(t, strings.ToUpper(crc), crc)
}

func TestNewTransactionRef_Formato(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	ref := duitnow.NewTransactionRef("comp-123", now)

	assert.True(t, strings.HasPrefix(ref, "VENTUREE_BIZ_"), "prefijo del producto")
	assert.True(t, strings.HasSuffix(ref, "_comp-123"), "el company ID va embebido al final")
	assert.Contains(t, ref, "1772366400000", "timestamp unix en milisegundos")
}

func TestGenerate_MonedaInvalida(t *testing.T) {
	p := testParams()
	p.Currency = "XXX-NO"
	_, err := testBuilder().Generate(p)
	assert.Error(t, err)
}

func TestGenerate_MonedaNoSoportada(t *testing.T) {
	// EUR es ISO válido pero no es moneda de liquidación soportada.
	p := testParams()
	p.Currency = "EUR"
	_, err := testBuilder().Generate(p)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "no soportada")
}

func TestGenerate_MontoNoPositivo(t *testing.T) {
	p := testParams()
	p.Amount = decimal.Zero
	_, err := testBuilder().Generate(p)
	assert.Error(t, err)
}

func TestGenerate_SinCompanyID(t *testing.T) {
	p := testParams()
	p.CompanyID = ""
	_, err := testBuilder().Generate(p)
	assert.Error(t, err)
}

// Nombre y ciudad se truncan a los límites EMVCo (25/15).
func TestNewBuilder_TruncaIdentidadDelComercio(t *testing.T) {
	b := duitnow.NewBuilder("Una Razon Social Larguisima Que No Entra", "Ciudad Con Nombre Largo")
	req, err := b.Generate(testParams())
	require.NoError(t, err)

	assert.Contains(t, req.Payload, "5925UNA RAZON SOCIAL LARGUISI")
	assert.Contains(t, req.Payload, "6015CIUDAD CON NOMB")
}
