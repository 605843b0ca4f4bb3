package billing_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Matricula-api/internal/application/dto"
	"github.com/jhoicas/Matricula-api/internal/domain"
	"github.com/jhoicas/Matricula-api/internal/domain/entity"
)

func recordPayment(t *testing.T, h *billingHarness, invoiceID int64, amount string) *dto.PaymentResponse {
	t.Helper()
	p, err := h.paymentUC.RecordPayment(context.Background(), dto.CreatePaymentRequest{
		Amount:        dec(amount),
		PaymentDate:   day(2026, 2, 10),
		PaymentMethod: entity.PaymentMethodBankTransfer,
		InvoiceID:     invoiceID,
	})
	require.NoError(t, err)
	return p
}

// ──────────────────────────────────────────────────────────────────────────────
// RecordPayment: conciliación factura–pago
// ──────────────────────────────────────────────────────────────────────────────

func TestRecordPayment_PagosParcialesCompletanLaFactura(t *testing.T) {
	h := newBillingHarness()
	inv := h.seedInvoice("500.00", entity.InvoiceStatusPending, futureDate(30))

	// Primer abono: 300 de 500 → la factura sigue pendiente
	recordPayment(t, h, inv.ID, "300.00")

	got, err := h.invoiceUC.GetInvoice(context.Background(), inv.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.InvoiceStatusPending, got.Status)
	assert.True(t, got.PaidAmount.Equal(dec("300.00")))
	assert.True(t, got.PendingAmount.Equal(dec("200.00")))

	// Segundo abono: completa el monto exacto → PAID con fecha del pago
	recordPayment(t, h, inv.ID, "200.00")

	got, err = h.invoiceUC.GetInvoice(context.Background(), inv.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.InvoiceStatusPaid, got.Status)
	require.NotNil(t, got.PaidDate)
	assert.Equal(t, day(2026, 2, 10), *got.PaidDate)
	assert.True(t, got.PendingAmount.IsZero())
}

func TestRecordPayment_PagoExcedeSaldo_RechazadoSinRastro(t *testing.T) {
	h := newBillingHarness()
	inv := h.seedInvoice("100.00", entity.InvoiceStatusPending, futureDate(30))

	_, err := h.paymentUC.RecordPayment(context.Background(), dto.CreatePaymentRequest{
		Amount:        dec("150.00"),
		PaymentDate:   day(2026, 2, 10),
		PaymentMethod: entity.PaymentMethodCash,
		InvoiceID:     inv.ID,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrExceedsBalance)

	// El rechazo no deja rastro: ni pago persistido ni cambio en la factura
	list, err := h.paymentUC.ListByInvoice(context.Background(), inv.ID)
	require.NoError(t, err)
	assert.Empty(t, list)

	got, err := h.invoiceUC.GetInvoice(context.Background(), inv.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.InvoiceStatusPending, got.Status)
	assert.True(t, got.PaidAmount.IsZero())
}

func TestRecordPayment_SobreFacturaPagada_Rechazado(t *testing.T) {
	h := newBillingHarness()
	inv := h.seedInvoice("200.00", entity.InvoiceStatusPending, futureDate(30))
	recordPayment(t, h, inv.ID, "200.00")

	_, err := h.paymentUC.RecordPayment(context.Background(), dto.CreatePaymentRequest{
		Amount:        dec("10.00"),
		PaymentDate:   day(2026, 2, 11),
		PaymentMethod: entity.PaymentMethodCash,
		InvoiceID:     inv.ID,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestRecordPayment_SobreFacturaCancelada_Rechazado(t *testing.T) {
	h := newBillingHarness()
	inv := h.seedInvoice("200.00", entity.InvoiceStatusCancelled, futureDate(30))

	_, err := h.paymentUC.RecordPayment(context.Background(), dto.CreatePaymentRequest{
		Amount:        dec("50.00"),
		PaymentDate:   day(2026, 2, 11),
		PaymentMethod: entity.PaymentMethodCash,
		InvoiceID:     inv.ID,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestRecordPayment_EntradaInvalida(t *testing.T) {
	h := newBillingHarness()
	inv := h.seedInvoice("100.00", entity.InvoiceStatusPending, futureDate(30))

	_, err := h.paymentUC.RecordPayment(context.Background(), dto.CreatePaymentRequest{
		Amount:        dec("0"),
		PaymentDate:   day(2026, 2, 10),
		PaymentMethod: entity.PaymentMethodCash,
		InvoiceID:     inv.ID,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "monto cero")

	_, err = h.paymentUC.RecordPayment(context.Background(), dto.CreatePaymentRequest{
		Amount:        dec("50.00"),
		PaymentDate:   day(2026, 2, 10),
		PaymentMethod: "CRIPTO",
		InvoiceID:     inv.ID,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "método desconocido")

	_, err = h.paymentUC.RecordPayment(context.Background(), dto.CreatePaymentRequest{
		Amount:        dec("50.00"),
		PaymentDate:   day(2026, 2, 10),
		PaymentMethod: entity.PaymentMethodCash,
		InvoiceID:     999,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound, "factura inexistente")
}

// ──────────────────────────────────────────────────────────────────────────────
// Confirmar / rechazar: la confirmación es la que mueve el saldo
// ──────────────────────────────────────────────────────────────────────────────

func TestRejectPayment_RevierteFacturaAPendiente(t *testing.T) {
	h := newBillingHarness()
	inv := h.seedInvoice("200.00", entity.InvoiceStatusPending, futureDate(30))
	p := recordPayment(t, h, inv.ID, "200.00")

	got, err := h.invoiceUC.GetInvoice(context.Background(), inv.ID)
	require.NoError(t, err)
	require.Equal(t, entity.InvoiceStatusPaid, got.Status)

	rejected, err := h.paymentUC.RejectPayment(context.Background(), p.ID, "transferencia devuelta")
	require.NoError(t, err)
	assert.False(t, rejected.IsConfirmed)
	assert.Equal(t, "REJECTED: transferencia devuelta", rejected.Notes)

	// La factura pierde la cobertura: vuelve a PENDING y sin fecha de pago
	got, err = h.invoiceUC.GetInvoice(context.Background(), inv.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.InvoiceStatusPending, got.Status)
	assert.Nil(t, got.PaidDate)
	assert.True(t, got.PaidAmount.IsZero())
}

func TestRejectPayment_EsIdempotente(t *testing.T) {
	h := newBillingHarness()
	inv := h.seedInvoice("200.00", entity.InvoiceStatusPending, futureDate(30))
	p := recordPayment(t, h, inv.ID, "120.00")

	first, err := h.paymentUC.RejectPayment(context.Background(), p.ID, "cheque sin fondos")
	require.NoError(t, err)

	second, err := h.paymentUC.RejectPayment(context.Background(), p.ID, "cheque sin fondos")
	require.NoError(t, err)

	assert.Equal(t, first.IsConfirmed, second.IsConfirmed)
	assert.Equal(t, first.Notes, second.Notes)

	got, err := h.invoiceUC.GetInvoice(context.Background(), inv.ID)
	require.NoError(t, err)
	assert.True(t, got.PaidAmount.IsZero())
}

func TestConfirmPayment_YaConfirmadoEsNoOp(t *testing.T) {
	h := newBillingHarness()
	inv := h.seedInvoice("300.00", entity.InvoiceStatusPending, futureDate(30))
	p := recordPayment(t, h, inv.ID, "100.00")

	confirmed, err := h.paymentUC.ConfirmPayment(context.Background(), p.ID)
	require.NoError(t, err)
	assert.True(t, confirmed.IsConfirmed)

	got, err := h.invoiceUC.GetInvoice(context.Background(), inv.ID)
	require.NoError(t, err)
	assert.True(t, got.PaidAmount.Equal(dec("100.00")), "la suma no se duplica")
}

func TestConfirmPayment_ExcederiaSaldo_Rechazado(t *testing.T) {
	h := newBillingHarness()
	inv := h.seedInvoice("100.00", entity.InvoiceStatusPending, futureDate(30))
	recordPayment(t, h, inv.ID, "100.00")

	// Pago sin confirmar sembrado directamente: confirmarlo rompería el saldo
	extra := &entity.Payment{
		Amount:        dec("50.00"),
		PaymentDate:   day(2026, 2, 12),
		PaymentMethod: entity.PaymentMethodCash,
		IsConfirmed:   false,
		InvoiceID:     inv.ID,
	}
	require.NoError(t, h.payments.Create(extra))

	_, err := h.paymentUC.ConfirmPayment(context.Background(), extra.ID)
	assert.ErrorIs(t, err, domain.ErrExceedsBalance)

	// El intento fallido no tocó nada
	got, err := h.paymentUC.GetPayment(context.Background(), extra.ID)
	require.NoError(t, err)
	assert.False(t, got.IsConfirmed)
}

// ──────────────────────────────────────────────────────────────────────────────
// Editar / eliminar pagos: la conciliación acompaña cada mutación
// ──────────────────────────────────────────────────────────────────────────────

func TestUpdatePayment_SubirMontoCompletaLaFactura(t *testing.T) {
	h := newBillingHarness()
	inv := h.seedInvoice("100.00", entity.InvoiceStatusPending, futureDate(30))
	p := recordPayment(t, h, inv.ID, "60.00")

	newAmount := dec("100.00")
	updated, err := h.paymentUC.UpdatePayment(context.Background(), p.ID, dto.UpdatePaymentRequest{
		Amount: &newAmount,
	})
	require.NoError(t, err)
	assert.True(t, updated.Amount.Equal(newAmount))

	got, err := h.invoiceUC.GetInvoice(context.Background(), inv.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.InvoiceStatusPaid, got.Status)
}

func TestUpdatePayment_MontoSobreElSaldo_Rechazado(t *testing.T) {
	h := newBillingHarness()
	inv := h.seedInvoice("100.00", entity.InvoiceStatusPending, futureDate(30))
	p := recordPayment(t, h, inv.ID, "60.00")
	recordPayment(t, h, inv.ID, "30.00")

	// 60 → 80 dejaría 110 confirmados sobre una factura de 100
	newAmount := dec("80.00")
	_, err := h.paymentUC.UpdatePayment(context.Background(), p.ID, dto.UpdatePaymentRequest{
		Amount: &newAmount,
	})
	assert.ErrorIs(t, err, domain.ErrExceedsBalance)

	got, err := h.paymentUC.GetPayment(context.Background(), p.ID)
	require.NoError(t, err)
	assert.True(t, got.Amount.Equal(dec("60.00")), "el monto original se conserva")
}

func TestDeletePayment_RevierteFacturaPagada(t *testing.T) {
	h := newBillingHarness()
	inv := h.seedInvoice("500.00", entity.InvoiceStatusPending, futureDate(30))
	recordPayment(t, h, inv.ID, "300.00")
	last := recordPayment(t, h, inv.ID, "200.00")

	got, err := h.invoiceUC.GetInvoice(context.Background(), inv.ID)
	require.NoError(t, err)
	require.Equal(t, entity.InvoiceStatusPaid, got.Status)

	require.NoError(t, h.paymentUC.DeletePayment(context.Background(), last.ID))

	got, err = h.invoiceUC.GetInvoice(context.Background(), inv.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.InvoiceStatusPending, got.Status)
	assert.Nil(t, got.PaidDate)
	assert.True(t, got.PaidAmount.Equal(dec("300.00")))
}

func TestDeletePayment_Inexistente(t *testing.T) {
	h := newBillingHarness()
	err := h.paymentUC.DeletePayment(context.Background(), 999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
