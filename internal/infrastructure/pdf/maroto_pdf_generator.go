// Package pdf implementa la representación gráfica del cobro de matrícula
// o pensión, para entrega impresa o por correo al acudiente.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Colegio  │  N° Factura + Fechas                    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  COLEGIO: Dirección / Tel / Email                           │
//	│  ESTUDIANTE: Nombre + código + contacto                     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  CONCEPTO: Tipo | Descripción | Monto                       │
//	│  TABLA PAGOS: Fecha | Método | Referencia | Estado | Monto  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Total / Pagado confirmado / SALDO PENDIENTE       │
//	│  FOOTER: Estado de la factura + leyenda                     │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
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

	appbilling "github.com/jhoicas/Matricula-api/internal/application/billing"
	"github.com/jhoicas/Matricula-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorRed     = &props.Color{Red: 170, Green: 30, Blue: 30}
	colorGreen   = &props.Color{Red: 20, Green: 110, Blue: 50}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa billing.InvoicePDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

var _ appbilling.InvoicePDFGenerator = (*MarotoPDFGenerator)(nil)

// GenerateInvoicePDF genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateInvoicePDF(
	_ context.Context,
	invoice *entity.Invoice,
	student *entity.Student,
	school *entity.School,
	payments []*entity.Payment,
	paidAmount decimal.Decimal,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Factura "+invoice.InvoiceNumber, true).
		WithAuthor(school.Name, true).
		Build()

	m := maroto.New(cfg)

	// Header principal
	m.AddRows(headerRow(invoice, school))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(schoolRow(school))
	m.AddRows(studentRow(student))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	// Concepto facturado
	m.AddRows(conceptHeaderRow())
	m.AddRows(conceptRow(invoice))

	// Historial de pagos
	if len(payments) > 0 {
		m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
		m.AddRows(paymentsHeaderRow())
		for _, r := range paymentRows(payments) {
			m.AddRows(r)
		}
	}

	// Totales
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(invoice, paidAmount))

	// Footer
	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	for _, r := range footerRows(invoice) {
		m.AddRows(r)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: nombre del colegio (izq) y N° Factura + fechas (der).
func headerRow(invoice *entity.Invoice, school *entity.School) core.Row {
	emision := invoice.IssueDate.Format("02/01/2006")
	vence := invoice.DueDate.Format("02/01/2006")

	return row.New(18).Add(
		col.New(7).Add(
			text.New(school.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(invoiceTypeLabel(invoice.InvoiceType), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("FACTURA DE COBRO", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(invoice.InvoiceNumber, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Emisión: "+emision+"   Vence: "+vence, props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

// schoolRow: datos de contacto del colegio.
func schoolRow(school *entity.School) core.Row {
	return row.New(12).Add(
		col.New(12).Add(
			text.New("DATOS DEL COLEGIO", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("Dirección: %s   |   Tel: %s   |   Email: %s",
				nonEmpty(school.Address, "—"),
				nonEmpty(school.Phone, "—"),
				nonEmpty(school.Email, "—"),
			), props.Text{Size: 8, Top: 7, Color: colorGray}),
		),
	)
}

// studentRow: datos del estudiante facturado.
func studentRow(student *entity.Student) core.Row {
	return row.New(14).Add(
		col.New(12).Add(
			text.New("ESTUDIANTE", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(student.FullName(), props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New(fmt.Sprintf("Código: %s   |   Email: %s   |   Tel: %s",
				student.StudentCode,
				nonEmpty(student.Email, "—"),
				nonEmpty(student.Phone, "—"),
			), props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

// conceptHeaderRow: cabecera del concepto facturado.
func conceptHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Concepto", 3, align.Left),
		h("Descripción", 6, align.Left),
		h("Monto", 3, align.Right),
	)
}

// conceptRow: línea única del cobro.
func conceptRow(invoice *entity.Invoice) core.Row {
	return row.New(7).Add(
		col.New(3).Add(text.New(
			invoiceTypeLabel(invoice.InvoiceType),
			props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
		)),
		col.New(6).Add(text.New(
			nonEmpty(invoice.Description, "—"),
			props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
		)),
		col.New(3).Add(text.New(
			"$"+formatMoney(invoice.Amount.StringFixed(0)),
			props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
		)),
	)
}

// paymentsHeaderRow: cabecera de la tabla de pagos.
func paymentsHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Fecha", 2, align.Left),
		h("Método", 3, align.Left),
		h("Referencia", 3, align.Left),
		h("Estado", 2, align.Center),
		h("Monto", 2, align.Right),
	)
}

// paymentRows: una fila por pago, confirmado o no.
func paymentRows(payments []*entity.Payment) []core.Row {
	result := make([]core.Row, 0, len(payments))
	for _, p := range payments {
		estado := "Confirmado"
		color := colorGreen
		if !p.IsConfirmed {
			estado = "Sin confirmar"
			color = colorGray
		}
		result = append(result, row.New(7).Add(
			col.New(2).Add(text.New(
				p.PaymentDate.Format("02/01/2006"),
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(3).Add(text.New(
				paymentMethodLabel(p.PaymentMethod),
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(3).Add(text.New(
				nonEmpty(p.ReferenceNumber, "—"),
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				estado,
				props.Text{Size: 8, Align: align.Center, Top: 1, Color: color},
			)),
			col.New(2).Add(text.New(
				"$"+formatMoney(p.Amount.StringFixed(0)),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}
	return result
}

// totalsRow: bloque de totales alineado a la derecha.
func totalsRow(invoice *entity.Invoice, paidAmount decimal.Decimal) core.Row {
	pending := invoice.Amount.Sub(paidAmount)
	if pending.IsNegative() {
		pending = decimal.Zero
	}

	label := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2,
		})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1})
	}
	grandLabel := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 2,
		})
	}
	grandValue := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 1,
		})
	}

	return row.New(26).Add(
		col.New(3), // espacio izquierdo
		col.New(4).Add(
			label("Total factura:"),
			label("Pagado confirmado:"),
			grandLabel("SALDO PENDIENTE:"),
		),
		col.New(3).Add(
			value("$"+formatMoney(invoice.Amount.StringFixed(0))),
			value("$"+formatMoney(paidAmount.StringFixed(0))),
			grandValue("$"+formatMoney(pending.StringFixed(0))),
		),
		col.New(2), // espacio derecho
	)
}

// footerRows: estado de la factura + leyenda.
func footerRows(invoice *entity.Invoice) []core.Row {
	estado, color := statusLabel(invoice)
	rows := []core.Row{
		row.New(10).Add(col.New(12).Add(
			text.New("Estado de la factura: "+estado, props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Center,
				Color: color, Top: 2,
			}),
		)),
	}

	if invoice.PaidDate != nil {
		rows = append(rows, row.New(6).Add(col.New(12).Add(
			text.New("Pagada el "+invoice.PaidDate.Format("02/01/2006"), props.Text{
				Size: 8, Align: align.Center, Color: colorGray, Top: 1,
			}),
		)))
	}

	rows = append(rows, row.New(8).Add(col.New(12).Add(
		text.New(
			"Documento de cobro generado por la administración del colegio. "+
				"Conserve este documento como soporte de su estado de cuenta.",
			props.Text{Size: 6.5, Color: colorGray, Top: 2},
		),
	)))

	return rows
}

// ── helpers ───────────────────────────────────────────────────────────────────

func invoiceTypeLabel(t string) string {
	switch t {
	case entity.InvoiceTypeTuition:
		return "Pensión"
	case entity.InvoiceTypeRegistration:
		return "Matrícula"
	case entity.InvoiceTypeMaterials:
		return "Materiales"
	case entity.InvoiceTypeTransport:
		return "Transporte"
	case entity.InvoiceTypeFood:
		return "Alimentación"
	case entity.InvoiceTypeExtra:
		return "Extracurricular"
	}
	return t
}

func paymentMethodLabel(m string) string {
	switch m {
	case entity.PaymentMethodCash:
		return "Efectivo"
	case entity.PaymentMethodCreditCard:
		return "Tarjeta crédito"
	case entity.PaymentMethodDebitCard:
		return "Tarjeta débito"
	case entity.PaymentMethodBankTransfer:
		return "Transferencia"
	case entity.PaymentMethodCheck:
		return "Cheque"
	}
	return m
}

func statusLabel(invoice *entity.Invoice) (string, *props.Color) {
	switch invoice.Status {
	case entity.InvoiceStatusPaid:
		return "PAGADA", colorGreen
	case entity.InvoiceStatusCancelled:
		return "ANULADA", colorGray
	}
	return "PENDIENTE DE PAGO", colorRed
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatMoney inserta puntos de miles en un string numérico sin decimales.
// Ej: "25000" → "25.000", "1000000" → "1.000.000"
func formatMoney(s string) string {
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
