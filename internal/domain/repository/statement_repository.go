package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Matricula-api/internal/domain/entity"
)

// StudentSummaryResult agregados financieros de un estudiante.
// Lo produce la DB; el caso de uso lo convierte en DTO.
type StudentSummaryResult struct {
	TotalInvoices int
	TotalInvoiced decimal.Decimal // suma de montos de todas las facturas, cualquier estado
	TotalPaid     decimal.Decimal // suma de pagos CONFIRMADOS sobre las facturas del estudiante
	TotalPending  decimal.Decimal // suma de montos de facturas PENDING
	OverdueAmount decimal.Decimal // suma de montos de facturas PENDING con due_date < hoy
}

// SchoolSummaryResult agregados financieros de un colegio más conteos de estudiantes.
type SchoolSummaryResult struct {
	TotalStudents  int
	ActiveStudents int
	TotalInvoices  int
	TotalInvoiced  decimal.Decimal
	TotalPaid      decimal.Decimal
	TotalPending   decimal.Decimal
	OverdueAmount  decimal.Decimal
}

// StudentStatementResult estado de cuenta crudo del estudiante: agregados,
// facturas recientes y el pagado confirmado por factura, todo leído del
// mismo snapshot.
type StudentStatementResult struct {
	Summary       StudentSummaryResult
	Invoices      []*entity.Invoice
	PaidByInvoice map[int64]decimal.Decimal
}

// SchoolStatementResult ídem para el colegio.
type SchoolStatementResult struct {
	Summary       SchoolSummaryResult
	Invoices      []*entity.Invoice
	PaidByInvoice map[int64]decimal.Decimal
}

// StatementRepository define las consultas de lectura para estados de cuenta.
// Las implementaciones son read-only y deben resolver cada estado de cuenta
// completo dentro de un único snapshot consistente: sin lecturas rasgadas
// que mezclen estados pre y post mutación de los ledgers.
type StatementRepository interface {
	// StudentStatement devuelve agregados + facturas más recientes del
	// estudiante (hasta invoiceLimit) en una sola transacción de lectura.
	StudentStatement(ctx context.Context, studentID int64, today time.Time, invoiceLimit int) (*StudentStatementResult, error)
	// SchoolStatement ídem sobre las facturas de todos los estudiantes del colegio.
	SchoolStatement(ctx context.Context, schoolID int64, today time.Time, invoiceLimit int) (*SchoolStatementResult, error)
}
