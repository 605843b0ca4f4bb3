// Package billing contiene las reglas puras de conciliación factura–pago.
//
// La conciliación es una función determinista del par (monto de la factura,
// suma de pagos confirmados): recalcularla con los mismos insumos siempre
// produce el mismo estado. Toda la aritmética es decimal de punto fijo
// (shopspring/decimal); nunca float binario, para que "pagada exacta" y
// "falta un centavo" sean distinguibles sin error de redondeo.
package billing

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/Matricula-api/internal/domain/entity"
)

// Remaining devuelve el saldo pendiente: monto de la factura menos la suma
// de pagos confirmados. Puede ser cero pero nunca negativo si se respetó la
// validación de CanApplyPayment en cada escritura.
func Remaining(invoiceAmount, confirmedSum decimal.Decimal) decimal.Decimal {
	return invoiceAmount.Sub(confirmedSum)
}

// IsPayable indica si la factura admite nuevos pagos según su estado persistido.
func IsPayable(status string) bool {
	return status != entity.InvoiceStatusPaid && status != entity.InvoiceStatusCancelled
}

// CanApplyPayment valida el invariante central: la suma de pagos confirmados
// nunca excede el monto de la factura. amount es el pago entrante;
// confirmedSum la suma confirmada actual SIN contar ese pago.
func CanApplyPayment(invoiceAmount, confirmedSum, amount decimal.Decimal) bool {
	return amount.LessThanOrEqual(Remaining(invoiceAmount, confirmedSum))
}

// IsOverdue indica si la factura está vencida: PENDING con vencimiento
// anterior a hoy. Derivación pura de lectura; jamás se persiste.
func IsOverdue(inv *entity.Invoice, today time.Time) bool {
	return inv.Status == entity.InvoiceStatusPending && inv.DueDate.Before(truncateDay(today))
}

// EffectiveStatus devuelve el estado observable de la factura: el persistido,
// salvo que esté vencida, en cuyo caso se reporta OVERDUE.
func EffectiveStatus(inv *entity.Invoice, today time.Time) string {
	if IsOverdue(inv, today) {
		return entity.InvoiceStatusOverdue
	}
	return inv.Status
}

// Reevaluation resultado de Reevaluate: el estado que la factura debería
// tener dada la suma confirmada, y si difiere del persistido.
type Reevaluation struct {
	Status   string
	PaidDate *time.Time
	Changed  bool
}

// Reevaluate recalcula el estado de la factura a partir de la suma de pagos
// confirmados. Se invoca después de cada mutación del conjunto de pagos:
//
//   - suma >= monto y no está PAID  -> PAID, con paidDate dado
//   - suma <  monto y está PAID     -> PENDING, paidDate se limpia
//   - CANCELLED nunca transiciona por pagos
//
// Un centavo por debajo del monto nunca marca PAID.
func Reevaluate(inv *entity.Invoice, confirmedSum decimal.Decimal, paidDate time.Time) Reevaluation {
	if inv.Status == entity.InvoiceStatusCancelled {
		return Reevaluation{Status: inv.Status, PaidDate: inv.PaidDate}
	}
	covered := confirmedSum.GreaterThanOrEqual(inv.Amount)
	switch {
	case covered && inv.Status != entity.InvoiceStatusPaid:
		d := truncateDay(paidDate)
		return Reevaluation{Status: entity.InvoiceStatusPaid, PaidDate: &d, Changed: true}
	case !covered && inv.Status == entity.InvoiceStatusPaid:
		return Reevaluation{Status: entity.InvoiceStatusPending, PaidDate: nil, Changed: true}
	}
	return Reevaluation{Status: inv.Status, PaidDate: inv.PaidDate}
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
