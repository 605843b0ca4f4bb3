package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Matricula-api/internal/application/dto"
	"github.com/jhoicas/Matricula-api/internal/domain"
	domainbilling "github.com/jhoicas/Matricula-api/internal/domain/billing"
	"github.com/jhoicas/Matricula-api/internal/domain/entity"
	"github.com/jhoicas/Matricula-api/internal/domain/repository"
)

// PaymentUseCase aplica pagos a facturas y mantiene el estado de la factura
// conciliado con su conjunto de pagos confirmados. Cada mutación se ejecuta
// bajo el candado de la factura (serializa pagos concurrentes contra el
// mismo saldo) y dentro de una transacción (pago + estado de factura se
// escriben atómicamente, o ninguno).
type PaymentUseCase struct {
	txRunner    BillingTxRunner
	invoiceRepo repository.InvoiceRepository
	paymentRepo repository.PaymentRepository
	locks       *InvoiceLockSet
}

// NewPaymentUseCase construye el caso de uso.
func NewPaymentUseCase(
	txRunner BillingTxRunner,
	invoiceRepo repository.InvoiceRepository,
	paymentRepo repository.PaymentRepository,
	locks *InvoiceLockSet,
) *PaymentUseCase {
	return &PaymentUseCase{
		txRunner:    txRunner,
		invoiceRepo: invoiceRepo,
		paymentRepo: paymentRepo,
		locks:       locks,
	}
}

// RecordPayment registra un pago confirmado contra una factura pagable.
// Si la suma confirmada resultante cubre el monto, la factura pasa a PAID
// con paidDate = fecha del pago. Un pago que exceda el saldo se rechaza y
// no deja rastro en los ledgers.
func (uc *PaymentUseCase) RecordPayment(ctx context.Context, in dto.CreatePaymentRequest) (*dto.PaymentResponse, error) {
	if !in.Amount.GreaterThan(decimal.Zero) {
		return nil, fmt.Errorf("el monto debe ser mayor que cero: %w", domain.ErrInvalidInput)
	}
	if !entity.ValidPaymentMethod(in.PaymentMethod) {
		return nil, fmt.Errorf("método de pago desconocido %q: %w", in.PaymentMethod, domain.ErrInvalidInput)
	}

	uc.locks.Lock(in.InvoiceID)
	defer uc.locks.Unlock(in.InvoiceID)

	var payment *entity.Payment
	err := uc.txRunner.RunBilling(ctx, func(
		invoiceRepo repository.InvoiceRepository,
		paymentRepo repository.PaymentRepository,
	) error {
		// 1) Factura existente y pagable
		inv, err := invoiceRepo.GetByID(in.InvoiceID)
		if err != nil {
			return err
		}
		if inv == nil {
			return fmt.Errorf("factura %d: %w", in.InvoiceID, domain.ErrNotFound)
		}
		if inv.Status == entity.InvoiceStatusPaid {
			return fmt.Errorf("la factura ya está totalmente pagada: %w", domain.ErrInvalidState)
		}
		if inv.Status == entity.InvoiceStatusCancelled {
			return fmt.Errorf("no se paga una factura cancelada: %w", domain.ErrInvalidState)
		}

		// 2) Invariante de saldo: el pago no puede exceder lo pendiente
		confirmedSum, err := paymentRepo.SumConfirmedByInvoice(inv.ID)
		if err != nil {
			return err
		}
		if !domainbilling.CanApplyPayment(inv.Amount, confirmedSum, in.Amount) {
			remaining := domainbilling.Remaining(inv.Amount, confirmedSum)
			return fmt.Errorf("pago de %s sobre saldo de %s: %w",
				in.Amount.StringFixed(2), remaining.StringFixed(2), domain.ErrExceedsBalance)
		}

		// 3) Crear el pago (nace confirmado)
		payment = &entity.Payment{
			Amount:          in.Amount,
			PaymentDate:     in.PaymentDate,
			PaymentMethod:   in.PaymentMethod,
			ReferenceNumber: in.ReferenceNumber,
			Notes:           in.Notes,
			IsConfirmed:     true,
			InvoiceID:       in.InvoiceID,
		}
		if err := paymentRepo.Create(payment); err != nil {
			return err
		}

		// 4) Reconciliar: si la suma confirmada cubre el monto, PAID
		return uc.reconcile(invoiceRepo, inv, confirmedSum.Add(in.Amount), in.PaymentDate)
	})
	if err != nil {
		return nil, err
	}
	return paymentToResponse(payment), nil
}

// GetPayment obtiene un pago por ID.
func (uc *PaymentUseCase) GetPayment(ctx context.Context, id int64) (*dto.PaymentResponse, error) {
	p, err := uc.paymentRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("pago %d: %w", id, domain.ErrNotFound)
	}
	return paymentToResponse(p), nil
}

// ListPayments lista todos los pagos paginados.
func (uc *PaymentUseCase) ListPayments(ctx context.Context, limit, offset int) ([]*dto.PaymentResponse, error) {
	list, err := uc.paymentRepo.List(limit, offset)
	if err != nil {
		return nil, err
	}
	return paymentsToResponses(list), nil
}

// ListByInvoice lista los pagos de una factura.
func (uc *PaymentUseCase) ListByInvoice(ctx context.Context, invoiceID int64) ([]*dto.PaymentResponse, error) {
	inv, err := uc.invoiceRepo.GetByID(invoiceID)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, fmt.Errorf("factura %d: %w", invoiceID, domain.ErrNotFound)
	}
	list, err := uc.paymentRepo.ListByInvoice(invoiceID)
	if err != nil {
		return nil, err
	}
	return paymentsToResponses(list), nil
}

// ListByStudent lista los pagos sobre facturas del estudiante.
func (uc *PaymentUseCase) ListByStudent(ctx context.Context, studentID int64, limit, offset int) ([]*dto.PaymentResponse, error) {
	list, err := uc.paymentRepo.ListByStudent(studentID, limit, offset)
	if err != nil {
		return nil, err
	}
	return paymentsToResponses(list), nil
}

// ListByDateRange lista pagos con fecha dentro del rango [from, to].
func (uc *PaymentUseCase) ListByDateRange(ctx context.Context, from, to time.Time, limit, offset int) ([]*dto.PaymentResponse, error) {
	if to.Before(from) {
		return nil, fmt.Errorf("rango de fechas invertido: %w", domain.ErrInvalidInput)
	}
	list, err := uc.paymentRepo.ListByDateRange(from, to, limit, offset)
	if err != nil {
		return nil, err
	}
	return paymentsToResponses(list), nil
}

// ListByMethod lista pagos por método.
func (uc *PaymentUseCase) ListByMethod(ctx context.Context, method string, limit, offset int) ([]*dto.PaymentResponse, error) {
	if !entity.ValidPaymentMethod(method) {
		return nil, fmt.Errorf("método de pago desconocido %q: %w", method, domain.ErrInvalidInput)
	}
	list, err := uc.paymentRepo.ListByMethod(method, limit, offset)
	if err != nil {
		return nil, err
	}
	return paymentsToResponses(list), nil
}

// UpdatePayment aplica una actualización parcial y reconcilia la factura.
// Un cambio de monto o de confirmación se valida contra el saldo sin contar
// la versión anterior del propio pago.
func (uc *PaymentUseCase) UpdatePayment(ctx context.Context, id int64, in dto.UpdatePaymentRequest) (*dto.PaymentResponse, error) {
	if in.Amount != nil && !in.Amount.GreaterThan(decimal.Zero) {
		return nil, fmt.Errorf("el monto debe ser mayor que cero: %w", domain.ErrInvalidInput)
	}
	if in.PaymentMethod != nil && !entity.ValidPaymentMethod(*in.PaymentMethod) {
		return nil, fmt.Errorf("método de pago desconocido %q: %w", *in.PaymentMethod, domain.ErrInvalidInput)
	}
	return uc.applyPaymentEdit(ctx, id, entity.PaymentUpdate{
		Amount:          in.Amount,
		PaymentDate:     in.PaymentDate,
		PaymentMethod:   in.PaymentMethod,
		ReferenceNumber: in.ReferenceNumber,
		Notes:           in.Notes,
		IsConfirmed:     in.IsConfirmed,
	})
}

// ConfirmPayment marca el pago como confirmado. Es una edición: pasa por la
// misma validación de saldo y la misma reconciliación que UpdatePayment.
// Confirmar un pago ya confirmado es un no-op observable.
func (uc *PaymentUseCase) ConfirmPayment(ctx context.Context, id int64) (*dto.PaymentResponse, error) {
	confirmed := true
	return uc.applyPaymentEdit(ctx, id, entity.PaymentUpdate{IsConfirmed: &confirmed})
}

// RejectPayment marca el pago como no confirmado y anota el motivo en las
// notas. Idempotente: repetir el rechazo con el mismo motivo produce el
// mismo estado observable.
func (uc *PaymentUseCase) RejectPayment(ctx context.Context, id int64, reason string) (*dto.PaymentResponse, error) {
	rejected := false
	notes := "REJECTED"
	if reason != "" {
		notes = "REJECTED: " + reason
	}
	return uc.applyPaymentEdit(ctx, id, entity.PaymentUpdate{IsConfirmed: &rejected, Notes: &notes})
}

// DeletePayment elimina el pago y reconcilia la factura: si era el pago que
// completaba el monto, la factura revierte a PENDING y pierde su paidDate.
func (uc *PaymentUseCase) DeletePayment(ctx context.Context, id int64) error {
	p, err := uc.paymentRepo.GetByID(id)
	if err != nil {
		return err
	}
	if p == nil {
		return fmt.Errorf("pago %d: %w", id, domain.ErrNotFound)
	}

	uc.locks.Lock(p.InvoiceID)
	defer uc.locks.Unlock(p.InvoiceID)

	return uc.txRunner.RunBilling(ctx, func(
		invoiceRepo repository.InvoiceRepository,
		paymentRepo repository.PaymentRepository,
	) error {
		// Releer bajo el candado: otro request pudo borrarlo primero.
		p, err := paymentRepo.GetByID(id)
		if err != nil {
			return err
		}
		if p == nil {
			return fmt.Errorf("pago %d: %w", id, domain.ErrNotFound)
		}
		if _, err := paymentRepo.Delete(id); err != nil {
			return err
		}
		inv, err := invoiceRepo.GetByID(p.InvoiceID)
		if err != nil {
			return err
		}
		if inv == nil {
			return nil // la factura desapareció en cascada; nada que reconciliar
		}
		confirmedSum, err := paymentRepo.SumConfirmedByInvoice(inv.ID)
		if err != nil {
			return err
		}
		return uc.reconcile(invoiceRepo, inv, confirmedSum, todayDate())
	})
}

// applyPaymentEdit núcleo compartido de update/confirm/reject: candado por
// factura, transacción, validación de saldo y reconciliación posterior.
func (uc *PaymentUseCase) applyPaymentEdit(ctx context.Context, id int64, fields entity.PaymentUpdate) (*dto.PaymentResponse, error) {
	current, err := uc.paymentRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, fmt.Errorf("pago %d: %w", id, domain.ErrNotFound)
	}

	uc.locks.Lock(current.InvoiceID)
	defer uc.locks.Unlock(current.InvoiceID)

	var updated *entity.Payment
	err = uc.txRunner.RunBilling(ctx, func(
		invoiceRepo repository.InvoiceRepository,
		paymentRepo repository.PaymentRepository,
	) error {
		// 1) Releer pago y factura bajo el candado
		p, err := paymentRepo.GetByID(id)
		if err != nil {
			return err
		}
		if p == nil {
			return fmt.Errorf("pago %d: %w", id, domain.ErrNotFound)
		}
		inv, err := invoiceRepo.GetByID(p.InvoiceID)
		if err != nil {
			return err
		}
		if inv == nil {
			return fmt.Errorf("factura %d: %w", p.InvoiceID, domain.ErrNotFound)
		}

		// 2) Estado resultante del pago tras la edición
		newAmount := p.Amount
		if fields.Amount != nil {
			newAmount = *fields.Amount
		}
		newConfirmed := p.IsConfirmed
		if fields.IsConfirmed != nil {
			newConfirmed = *fields.IsConfirmed
		}

		// 3) Saldo sin contar la versión anterior de este pago
		confirmedSum, err := paymentRepo.SumConfirmedByInvoice(inv.ID)
		if err != nil {
			return err
		}
		othersSum := confirmedSum
		if p.IsConfirmed {
			othersSum = othersSum.Sub(p.Amount)
		}
		if newConfirmed && !domainbilling.CanApplyPayment(inv.Amount, othersSum, newAmount) {
			remaining := domainbilling.Remaining(inv.Amount, othersSum)
			return fmt.Errorf("la edición dejaría %s sobre un saldo de %s: %w",
				newAmount.StringFixed(2), remaining.StringFixed(2), domain.ErrExceedsBalance)
		}

		// 4) Persistir la edición
		updated, err = paymentRepo.Update(id, fields)
		if err != nil {
			return err
		}
		if updated == nil {
			return fmt.Errorf("pago %d: %w", id, domain.ErrNotFound)
		}

		// 5) Reconciliar la factura con la nueva suma confirmada
		newSum := othersSum
		if newConfirmed {
			newSum = newSum.Add(newAmount)
		}
		return uc.reconcile(invoiceRepo, inv, newSum, todayDate())
	})
	if err != nil {
		return nil, err
	}
	return paymentToResponse(updated), nil
}

// reconcile aplica el resultado de la reevaluación pura al ledger de
// facturas. Solo escribe si el estado derivado difiere del persistido.
func (uc *PaymentUseCase) reconcile(invoiceRepo repository.InvoiceRepository, inv *entity.Invoice, confirmedSum decimal.Decimal, paidDate time.Time) error {
	res := domainbilling.Reevaluate(inv, confirmedSum, paidDate)
	if !res.Changed {
		return nil
	}
	if _, err := invoiceRepo.SetStatus(inv.ID, res.Status, res.PaidDate); err != nil {
		return fmt.Errorf("reconciliar factura %d: %w", inv.ID, err)
	}
	return nil
}

func paymentToResponse(p *entity.Payment) *dto.PaymentResponse {
	return &dto.PaymentResponse{
		ID:              p.ID,
		Amount:          p.Amount,
		PaymentDate:     p.PaymentDate,
		PaymentMethod:   p.PaymentMethod,
		ReferenceNumber: p.ReferenceNumber,
		Notes:           p.Notes,
		IsConfirmed:     p.IsConfirmed,
		InvoiceID:       p.InvoiceID,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

func paymentsToResponses(list []*entity.Payment) []*dto.PaymentResponse {
	out := make([]*dto.PaymentResponse, 0, len(list))
	for _, p := range list {
		out = append(out, paymentToResponse(p))
	}
	return out
}
