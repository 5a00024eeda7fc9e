// Package pdf genera la representación gráfica de una factura UBL-TR importada.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Emisor + VKN/TCKN    │  e-FATURA + N° + Fecha       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  EMISOR: Dirección / Vergi Dairesi / Tel / Email             │
//	│  RECEPTOR: Nombre + VKN/TCKN + dirección                     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: # | Descripción | Cant. | P.Unit | KDV% | Importe    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Mal/Hizmet / KDV / Ödenecek Tutar                  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: ETTN + QR + notas                                   │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

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

	"github.com/jhoicas/efatura-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 180, Green: 20, Blue: 30}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa efatura.InvoicePDFRenderer usando Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// RenderInvoicePDF genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) RenderInvoicePDF(_ context.Context, inv *entity.RemoteInvoice) ([]byte, error) {
	if inv == nil {
		return nil, fmt.Errorf("pdf: documento vacío")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("e-Fatura "+inv.Number, true).
		WithAuthor(nonEmpty(inv.Supplier.Name, "e-Fatura"), true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(inv))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(partyRow("SATICI / EMISOR", inv.Supplier))
	m.AddRows(partyRow("ALICI / RECEPTOR", inv.Customer))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(tableDetailRows(inv.LineItems)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(inv))

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRows(inv)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: emisor + identificador fiscal (izq) y tipo, número y fechas (der).
func headerRow(inv *entity.RemoteInvoice) core.Row {
	dates := "Tarih: " + formatDate(inv)
	if inv.DueDate != nil {
		dates += "   Vade: " + inv.DueDate.Format("02.01.2006")
	}
	kind := strings.TrimSpace("e-FATURA " + inv.DocumentType)
	if inv.DocumentProfile != "" {
		kind += " · " + inv.DocumentProfile
	}

	return row.New(18).Add(
		col.New(7).Add(
			text.New(nonEmpty(inv.Supplier.Name, "—"), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(taxIDLabel(inv.Supplier), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New(kind, props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(inv.Number, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New(dates, props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

// partyRow: nombre, identificación, dirección y contacto de una parte.
func partyRow(title string, p entity.Party) core.Row {
	contact := fmt.Sprintf("Tel: %s   |   E-posta: %s", nonEmpty(p.Contact.Phone, "—"), nonEmpty(p.Contact.Email, "—"))
	if p.TaxOffice != "" {
		contact = "Vergi Dairesi: " + p.TaxOffice + "   |   " + contact
	}
	return row.New(20).Add(
		col.New(12).Add(
			text.New(title, props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(nonEmpty(p.Name, "—")+"   "+taxIDLabel(p), props.Text{
				Style: fontstyle.Bold, Size: 9, Top: 6,
			}),
			text.New(nonEmpty(formatAddress(p.Address), "—"), props.Text{
				Size: 8, Top: 11, Color: colorGray,
			}),
			text.New(contact, props.Text{Size: 8, Top: 15, Color: colorGray}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de líneas.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).WithStyle(&props.Cell{BackgroundColor: colorPrimary}).Add(
		h("#", 1, align.Center),
		h("Mal / Hizmet", 4, align.Left),
		h("Miktar", 2, align.Right),
		h("Birim Fiyat", 2, align.Right),
		h("KDV%", 1, align.Center),
		h("Tutar", 2, align.Right),
	)
}

// tableDetailRows: una fila por línea del documento.
func tableDetailRows(lines []entity.LineItem) []core.Row {
	result := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		desc := l.Description
		if l.ProductCode != "" {
			desc = l.ProductCode + " · " + desc
		}
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(fmt.Sprint(l.LineNumber), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(4).Add(text.New(desc, props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1})),
			col.New(2).Add(text.New(
				formatAmount(l.Quantity, 2)+" "+l.UnitName,
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(2).Add(text.New(formatAmount(l.UnitPrice, 2), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(1).Add(text.New(l.VATRatePercent.String()+"%", props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New(formatAmount(l.TotalAmount, 2), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return result
}

// totalsRow: bloque de totales alineado a la derecha, en la moneda del documento.
func totalsRow(inv *entity.RemoteInvoice) core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2})
	}
	value := func(top float64, d decimal.Decimal) core.Component {
		return text.New(formatAmount(d, 2)+" "+inv.CurrencyCode, props.Text{Size: 9, Align: align.Right, Right: 1, Top: top})
	}
	grand := func(top float64, s string) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 1, Top: top})
	}

	return row.New(22).Add(
		col.New(4),
		col.New(4).Add(
			label("Mal Hizmet Toplam:"),
			text.New("Hesaplanan KDV:", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: 6}),
			grand(12, "Ödenecek Tutar:"),
		),
		col.New(4).Add(
			value(0, inv.TaxExclusiveAmount),
			value(6, inv.TaxAmount),
			grand(12, formatAmount(inv.PayableAmount, 2)+" "+inv.CurrencyCode),
		),
	)
}

// footerRows: ETTN + QR + notas del documento.
func footerRows(inv *entity.RemoteInvoice) []core.Row {
	rows := []core.Row{
		row.New(40).Add(
			col.New(3).Add(code.NewQr(inv.UUID, props.Rect{Percent: 95, Center: true})),
			col.New(9).Add(
				text.New("ETTN", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 4, Left: 3}),
				text.New(inv.UUID, props.Text{Size: 8, Top: 9, Left: 3}),
				text.New("Bu belge e-Fatura olarak elektronik ortamda iletilmiştir.", props.Text{
					Size: 7, Top: 16, Left: 3, Color: colorGray,
				}),
			),
		),
	}
	for _, n := range inv.Notes {
		rows = append(rows, row.New(5).Add(col.New(12).Add(
			text.New("Not: "+n, props.Text{Size: 7, Color: colorGray, Top: 1}),
		)))
	}
	return rows
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

func taxIDLabel(p entity.Party) string {
	if p.TaxID == "" {
		return ""
	}
	return nonEmpty(p.TaxIDScheme, "VKN/TCKN") + ": " + p.TaxID
}

func formatAddress(a entity.Address) string {
	street := strings.TrimSpace(a.Street + " " + a.BuildingNo)
	parts := make([]string, 0, 5)
	for _, s := range []string{street, a.District, strings.TrimSpace(a.PostalZone + " " + a.City), a.Country} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ", ")
}

func formatDate(inv *entity.RemoteInvoice) string {
	if inv.IssueDate.IsZero() {
		return "—"
	}
	return inv.IssueDate.Format("02.01.2006")
}

// formatAmount formato turco: punto de miles y coma decimal. Ej: 1234567.5 → "1.234.567,50".
func formatAmount(d decimal.Decimal, places int32) string {
	s := d.StringFixed(places)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	intPart, frac, _ := strings.Cut(s, ".")
	out := groupThousands(intPart)
	if frac != "" {
		out += "," + frac
	}
	if neg {
		out = "-" + out
	}
	return out
}

// groupThousands inserta puntos de miles en un string de dígitos.
func groupThousands(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return string(buf)
}
