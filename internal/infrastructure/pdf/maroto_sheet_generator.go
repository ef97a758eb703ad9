// Package pdf implementa la hoja de pago imprimible de la suscripción: un A4
// con la identidad de la empresa, el detalle del cobro y el código QR DuitNow
// listo para escanear desde cualquier app bancaria participante.
//
// Layout de la página:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Plataforma  │  Empresa + tenant                    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  DETALLE: Plan / Módulos / Total a pagar                    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  QR DuitNow  +  instrucciones de pago + vigencia            │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"sort"
	"strings"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/venturee/biz-api/internal/application/payment"
	"github.com/venturee/biz-api/internal/domain/entity"
)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// MarotoSheetGenerator implementa payment.SheetGenerator usando Maroto v2.
type MarotoSheetGenerator struct {
	platformName string
}

var _ payment.SheetGenerator = (*MarotoSheetGenerator)(nil)

// NewMarotoSheetGenerator construye el generador con el nombre de la plataforma
// que encabeza la hoja.
func NewMarotoSheetGenerator(platformName string) *MarotoSheetGenerator {
	return &MarotoSheetGenerator{platformName: platformName}
}

// PaymentSheet genera el PDF y devuelve sus bytes.
func (g *MarotoSheetGenerator) PaymentSheet(company *entity.Company, qrPayload string, amount decimal.Decimal, currency string, expiresAt time.Time) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Hoja de pago de suscripción", true).
		WithAuthor(g.platformName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(g.platformName, company))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(detailRows(company, amount, currency)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(qrRow(qrPayload, currency, amount, expiresAt))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// headerRow: plataforma (izq) y empresa + tenant (der).
func headerRow(platformName string, company *entity.Company) core.Row {
	return row.New(18).Add(
		col.New(6).Add(
			text.New(platformName, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Hoja de pago de suscripción", props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(6).Add(
			text.New(company.Name, props.Text{
				Style: fontstyle.Bold, Size: 11, Align: align.Right, Top: 1,
			}),
			text.New("Tenant: "+company.TenantID, props.Text{
				Size: 7, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

// detailRows: plan contratado, módulos encendidos y total a pagar.
func detailRows(company *entity.Company, amount decimal.Decimal, currency string) []core.Row {
	rows := []core.Row{
		row.New(10).Add(col.New(12).Add(
			text.New("DETALLE DE LA SUSCRIPCIÓN", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New("Plan: "+strings.ToUpper(string(company.Subscription.Plan)), props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 5,
			}),
		)),
	}

	if mods := enabledModules(company.Subscription.Modules); len(mods) > 0 {
		rows = append(rows, row.New(6).Add(col.New(12).Add(
			text.New("Módulos: "+strings.Join(mods, ", "), props.Text{
				Size: 8, Top: 1, Color: colorGray,
			}),
		)))
	}

	rows = append(rows, row.New(12).Add(
		col.New(6),
		col.New(3).Add(text.New("TOTAL A PAGAR:", props.Text{
			Style: fontstyle.Bold, Size: 11, Align: align.Right,
			Color: colorPrimary, Top: 3, Right: 2,
		})),
		col.New(3).Add(text.New(currency+" "+amount.StringFixed(2), props.Text{
			Style: fontstyle.Bold, Size: 11, Align: align.Right,
			Color: colorPrimary, Top: 3, Right: 1,
		})),
	))
	return rows
}

// qrRow: código QR DuitNow + instrucciones y vigencia.
func qrRow(qrPayload, currency string, amount decimal.Decimal, expiresAt time.Time) core.Row {
	return row.New(55).Add(
		col.New(4).Add(code.NewQr(qrPayload, props.Rect{
			Percent: 95,
			Center:  true,
		})),
		col.New(8).Add(
			text.New("Escanea el código con tu app bancaria\npara pagar vía DuitNow.", props.Text{
				Size: 9, Top: 4, Left: 3, Color: colorGray,
			}),
			text.New(fmt.Sprintf("Monto: %s %s", currency, amount.StringFixed(2)), props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 22, Left: 3,
			}),
			text.New("Válido hasta: "+expiresAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Top: 30, Left: 3, Color: colorGray,
			}),
			text.New("La suscripción se activa automáticamente\nal confirmarse el pago.", props.Text{
				Size: 8, Top: 38, Left: 3, Color: colorPrimary,
			}),
		),
	)
}

// enabledModules claves de módulos encendidos, ordenadas para un render estable.
func enabledModules(modules map[string]bool) []string {
	var mods []string
	for name, on := range modules {
		if on {
			mods = append(mods, name)
		}
	}
	sort.Strings(mods)
	return mods
}
