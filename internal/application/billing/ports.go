package billing

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Matricula-api/internal/domain/entity"
	"github.com/jhoicas/Matricula-api/internal/domain/repository"
)

// BillingTxRunner ejecuta una función dentro de una transacción que incluye
// los repos de facturas y pagos. O todas las escrituras de la operación se
// vuelven visibles, o ninguna: un fallo dentro de fn hace rollback completo.
type BillingTxRunner interface {
	RunBilling(ctx context.Context, fn func(
		invoiceRepo repository.InvoiceRepository,
		paymentRepo repository.PaymentRepository,
	) error) error
}

// InvoicePDFGenerator puerto para la representación gráfica (PDF) de una
// factura con su historial de pagos.
type InvoicePDFGenerator interface {
	GenerateInvoicePDF(
		ctx context.Context,
		invoice *entity.Invoice,
		student *entity.Student,
		school *entity.School,
		payments []*entity.Payment,
		paidAmount decimal.Decimal,
	) ([]byte, error)
}
