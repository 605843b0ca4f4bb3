package billing_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Matricula-api/internal/domain/billing"
	"github.com/jhoicas/Matricula-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func pendingInvoice(amount string, due time.Time) *entity.Invoice {
	return &entity.Invoice{
		ID:      1,
		Amount:  dec(amount),
		DueDate: due,
		Status:  entity.InvoiceStatusPending,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Reevaluate: la máquina de estados PENDING <-> PAID
// ──────────────────────────────────────────────────────────────────────────────

func TestReevaluate_SumaExactaMarcaPagada(t *testing.T) {
	inv := pendingInvoice("500.00", day(2026, 3, 15))
	paidAt := day(2026, 2, 10)

	res := billing.Reevaluate(inv, dec("500.00"), paidAt)

	assert.True(t, res.Changed)
	assert.Equal(t, entity.InvoiceStatusPaid, res.Status)
	require.NotNil(t, res.PaidDate)
	assert.Equal(t, paidAt, *res.PaidDate)
}

func TestReevaluate_UnCentavoMenosNoMarcaPagada(t *testing.T) {
	inv := pendingInvoice("500.00", day(2026, 3, 15))

	res := billing.Reevaluate(inv, dec("499.99"), day(2026, 2, 10))

	assert.False(t, res.Changed)
	assert.Equal(t, entity.InvoiceStatusPending, res.Status)
	assert.Nil(t, res.PaidDate)
}

func TestReevaluate_SobrecoberturaTambienMarcaPagada(t *testing.T) {
	// La validación de sobrepago vive en el caso de uso; la reevaluación solo
	// compara suma contra monto, y una suma mayor o igual cubre la factura.
	inv := pendingInvoice("100.00", day(2026, 3, 15))

	res := billing.Reevaluate(inv, dec("100.01"), day(2026, 2, 10))

	assert.True(t, res.Changed)
	assert.Equal(t, entity.InvoiceStatusPaid, res.Status)
}

func TestReevaluate_RevierteAPendienteYLimpiaFecha(t *testing.T) {
	paidAt := day(2026, 2, 10)
	inv := &entity.Invoice{
		ID:       1,
		Amount:   dec("500.00"),
		Status:   entity.InvoiceStatusPaid,
		PaidDate: &paidAt,
	}

	// Se eliminó el pago que completaba el monto: la suma confirmada baja.
	res := billing.Reevaluate(inv, dec("300.00"), day(2026, 2, 11))

	assert.True(t, res.Changed)
	assert.Equal(t, entity.InvoiceStatusPending, res.Status)
	assert.Nil(t, res.PaidDate)
}

func TestReevaluate_CanceladaNuncaTransiciona(t *testing.T) {
	inv := &entity.Invoice{ID: 1, Amount: dec("100.00"), Status: entity.InvoiceStatusCancelled}

	res := billing.Reevaluate(inv, dec("100.00"), day(2026, 2, 10))

	assert.False(t, res.Changed)
	assert.Equal(t, entity.InvoiceStatusCancelled, res.Status)
}

func TestReevaluate_Idempotente(t *testing.T) {
	// Recalcular con los mismos insumos sobre el estado ya recalculado no
	// produce un segundo cambio.
	inv := pendingInvoice("500.00", day(2026, 3, 15))
	paidAt := day(2026, 2, 10)

	first := billing.Reevaluate(inv, dec("500.00"), paidAt)
	require.True(t, first.Changed)

	inv.Status = first.Status
	inv.PaidDate = first.PaidDate
	second := billing.Reevaluate(inv, dec("500.00"), paidAt)

	assert.False(t, second.Changed)
	assert.Equal(t, first.Status, second.Status)
}

// ──────────────────────────────────────────────────────────────────────────────
// CanApplyPayment y Remaining: el invariante de saldo
// ──────────────────────────────────────────────────────────────────────────────

func TestCanApplyPayment_LimiteExacto(t *testing.T) {
	// Con 300.00 confirmados sobre 500.00, el máximo pago admisible es 200.00.
	assert.True(t, billing.CanApplyPayment(dec("500.00"), dec("300.00"), dec("200.00")))
	assert.False(t, billing.CanApplyPayment(dec("500.00"), dec("300.00"), dec("200.01")))
}

func TestCanApplyPayment_RechazaExcesoSobreFacturaNueva(t *testing.T) {
	assert.False(t, billing.CanApplyPayment(dec("100.00"), decimal.Zero, dec("150.00")))
}

func TestRemaining(t *testing.T) {
	assert.True(t, dec("200.00").Equal(billing.Remaining(dec("500.00"), dec("300.00"))))
	assert.True(t, decimal.Zero.Equal(billing.Remaining(dec("500.00"), dec("500.00"))))
}

// ──────────────────────────────────────────────────────────────────────────────
// Estado efectivo: OVERDUE como vista de lectura
// ──────────────────────────────────────────────────────────────────────────────

func TestEffectiveStatus_PendienteVencidaSeReportaOverdue(t *testing.T) {
	inv := pendingInvoice("100.00", day(2026, 1, 31))
	today := day(2026, 2, 15)

	assert.True(t, billing.IsOverdue(inv, today))
	assert.Equal(t, entity.InvoiceStatusOverdue, billing.EffectiveStatus(inv, today))
	// El estado persistido no cambia: OVERDUE jamás se escribe.
	assert.Equal(t, entity.InvoiceStatusPending, inv.Status)
}

func TestEffectiveStatus_VenceHoyNoEstaVencida(t *testing.T) {
	inv := pendingInvoice("100.00", day(2026, 2, 15))
	today := day(2026, 2, 15)

	assert.False(t, billing.IsOverdue(inv, today))
	assert.Equal(t, entity.InvoiceStatusPending, billing.EffectiveStatus(inv, today))
}

func TestEffectiveStatus_PagadaOCanceladaNuncaOverdue(t *testing.T) {
	today := day(2026, 2, 15)
	for _, status := range []string{entity.InvoiceStatusPaid, entity.InvoiceStatusCancelled} {
		inv := &entity.Invoice{Amount: dec("100.00"), DueDate: day(2026, 1, 1), Status: status}
		assert.False(t, billing.IsOverdue(inv, today), status)
		assert.Equal(t, status, billing.EffectiveStatus(inv, today))
	}
}

func TestIsPayable(t *testing.T) {
	assert.True(t, billing.IsPayable(entity.InvoiceStatusPending))
	assert.False(t, billing.IsPayable(entity.InvoiceStatusPaid))
	assert.False(t, billing.IsPayable(entity.InvoiceStatusCancelled))
}

// ──────────────────────────────────────────────────────────────────────────────
// Número de factura
// ──────────────────────────────────────────────────────────────────────────────

func TestGenerateInvoiceNumber_Formato(t *testing.T) {
	n := billing.GenerateInvoiceNumber(day(2026, 2, 15))

	assert.Regexp(t, `^INV-20260215-[0-9A-F]{8}$`, n)
}

func TestGenerateInvoiceNumber_SufijoAleatorio(t *testing.T) {
	a := billing.GenerateInvoiceNumber(day(2026, 2, 15))
	b := billing.GenerateInvoiceNumber(day(2026, 2, 15))

	assert.NotEqual(t, a, b, "dos generaciones consecutivas no deben coincidir")
}
