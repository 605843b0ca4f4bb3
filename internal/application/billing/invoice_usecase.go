package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Matricula-api/internal/application/dto"
	"github.com/jhoicas/Matricula-api/internal/domain"
	domainbilling "github.com/jhoicas/Matricula-api/internal/domain/billing"
	"github.com/jhoicas/Matricula-api/internal/domain/entity"
	"github.com/jhoicas/Matricula-api/internal/domain/repository"
)

// InvoiceUseCase casos de uso del ciclo de vida de la factura: emisión,
// consultas, edición, marcado manual de pago, cancelación y eliminación.
// Las transiciones derivadas de pagos viven en PaymentUseCase; ambas
// comparten el mismo InvoiceLockSet.
type InvoiceUseCase struct {
	invoiceRepo repository.InvoiceRepository
	paymentRepo repository.PaymentRepository
	studentRepo repository.StudentRepository
	locks       *InvoiceLockSet
}

// NewInvoiceUseCase construye el caso de uso.
func NewInvoiceUseCase(
	invoiceRepo repository.InvoiceRepository,
	paymentRepo repository.PaymentRepository,
	studentRepo repository.StudentRepository,
	locks *InvoiceLockSet,
) *InvoiceUseCase {
	return &InvoiceUseCase{
		invoiceRepo: invoiceRepo,
		paymentRepo: paymentRepo,
		studentRepo: studentRepo,
		locks:       locks,
	}
}

// CreateInvoice emite una factura contra un estudiante activo.
func (uc *InvoiceUseCase) CreateInvoice(ctx context.Context, in dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	if !in.Amount.GreaterThan(decimal.Zero) {
		return nil, fmt.Errorf("el monto debe ser mayor que cero: %w", domain.ErrInvalidInput)
	}
	invoiceType := in.InvoiceType
	if invoiceType == "" {
		invoiceType = entity.InvoiceTypeTuition
	}
	if !entity.ValidInvoiceType(invoiceType) {
		return nil, fmt.Errorf("tipo de factura desconocido %q: %w", invoiceType, domain.ErrInvalidInput)
	}

	today := todayDate()
	if in.DueDate.Before(today) {
		return nil, fmt.Errorf("la fecha de vencimiento no puede estar en el pasado: %w", domain.ErrInvalidInput)
	}

	// Validar estudiante contra el directorio
	student, err := uc.studentRepo.GetByID(in.StudentID)
	if err != nil {
		return nil, fmt.Errorf("consultar estudiante: %w", err)
	}
	if student == nil {
		return nil, fmt.Errorf("estudiante %d: %w", in.StudentID, domain.ErrNotFound)
	}
	if !student.IsActive {
		return nil, fmt.Errorf("no se factura a un estudiante inactivo: %w", domain.ErrInvalidState)
	}

	inv := &entity.Invoice{
		Description: in.Description,
		Amount:      in.Amount,
		IssueDate:   today,
		DueDate:     in.DueDate,
		Status:      entity.InvoiceStatusPending,
		InvoiceType: invoiceType,
		StudentID:   in.StudentID,
	}

	// El número se genera y se inserta en el mismo intento: el índice único
	// de invoice_number es el árbitro real de la colisión. Reintento acotado.
	var lastErr error
	for attempt := 0; attempt < domainbilling.MaxNumberAttempts; attempt++ {
		inv.InvoiceNumber = domainbilling.GenerateInvoiceNumber(today)
		if err := uc.invoiceRepo.Create(inv); err != nil {
			if errors.Is(err, domain.ErrDuplicate) {
				lastErr = err
				continue
			}
			return nil, err
		}
		return uc.toResponse(inv, decimal.Zero), nil
	}
	return nil, fmt.Errorf("generar número de factura: reintentos agotados: %w", lastErr)
}

// GetInvoice obtiene una factura por ID con sus montos derivados.
func (uc *InvoiceUseCase) GetInvoice(ctx context.Context, id int64) (*dto.InvoiceResponse, error) {
	inv, err := uc.invoiceRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, fmt.Errorf("factura %d: %w", id, domain.ErrNotFound)
	}
	paid, err := uc.paymentRepo.SumConfirmedByInvoice(inv.ID)
	if err != nil {
		return nil, err
	}
	return uc.toResponse(inv, paid), nil
}

// GetInvoiceByNumber obtiene una factura por su número único.
func (uc *InvoiceUseCase) GetInvoiceByNumber(ctx context.Context, number string) (*dto.InvoiceResponse, error) {
	inv, err := uc.invoiceRepo.GetByNumber(number)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, fmt.Errorf("factura %q: %w", number, domain.ErrNotFound)
	}
	paid, err := uc.paymentRepo.SumConfirmedByInvoice(inv.ID)
	if err != nil {
		return nil, err
	}
	return uc.toResponse(inv, paid), nil
}

// ListInvoices lista todas las facturas paginadas.
func (uc *InvoiceUseCase) ListInvoices(ctx context.Context, limit, offset int) ([]*dto.InvoiceResponse, error) {
	list, err := uc.invoiceRepo.List(limit, offset)
	if err != nil {
		return nil, err
	}
	return uc.toResponses(list)
}

// ListByStudent lista las facturas de un estudiante.
func (uc *InvoiceUseCase) ListByStudent(ctx context.Context, studentID int64, limit, offset int) ([]*dto.InvoiceResponse, error) {
	student, err := uc.studentRepo.GetByID(studentID)
	if err != nil {
		return nil, err
	}
	if student == nil {
		return nil, fmt.Errorf("estudiante %d: %w", studentID, domain.ErrNotFound)
	}
	list, err := uc.invoiceRepo.ListByStudent(studentID, limit, offset)
	if err != nil {
		return nil, err
	}
	return uc.toResponses(list)
}

// ListBySchool lista las facturas de los estudiantes de un colegio.
func (uc *InvoiceUseCase) ListBySchool(ctx context.Context, schoolID int64, limit, offset int) ([]*dto.InvoiceResponse, error) {
	list, err := uc.invoiceRepo.ListBySchool(schoolID, limit, offset)
	if err != nil {
		return nil, err
	}
	return uc.toResponses(list)
}

// ListByStatus lista facturas por estado. OVERDUE es vista derivada: se
// resuelve como PENDING vencidas, no como estado persistido.
func (uc *InvoiceUseCase) ListByStatus(ctx context.Context, status string, limit, offset int) ([]*dto.InvoiceResponse, error) {
	if !entity.ValidInvoiceStatus(status) {
		return nil, fmt.Errorf("estado desconocido %q: %w", status, domain.ErrInvalidInput)
	}
	if status == entity.InvoiceStatusOverdue {
		return uc.ListOverdue(ctx, limit, offset)
	}
	list, err := uc.invoiceRepo.ListByStatus(status, limit, offset)
	if err != nil {
		return nil, err
	}
	return uc.toResponses(list)
}

// ListOverdue lista facturas vencidas (PENDING con vencimiento pasado).
func (uc *InvoiceUseCase) ListOverdue(ctx context.Context, limit, offset int) ([]*dto.InvoiceResponse, error) {
	list, err := uc.invoiceRepo.ListOverdue(todayDate(), limit, offset)
	if err != nil {
		return nil, err
	}
	return uc.toResponses(list)
}

// ListByDateRange lista facturas emitidas dentro del rango [from, to].
func (uc *InvoiceUseCase) ListByDateRange(ctx context.Context, from, to time.Time, limit, offset int) ([]*dto.InvoiceResponse, error) {
	if to.Before(from) {
		return nil, fmt.Errorf("rango de fechas invertido: %w", domain.ErrInvalidInput)
	}
	list, err := uc.invoiceRepo.ListByIssueDateRange(from, to, limit, offset)
	if err != nil {
		return nil, err
	}
	return uc.toResponses(list)
}

// UpdateInvoice aplica una actualización parcial. Una factura PAID es
// inmutable. El monto no puede quedar por debajo de lo ya pagado confirmado:
// romperse ese piso rompería el invariante de saldo.
func (uc *InvoiceUseCase) UpdateInvoice(ctx context.Context, id int64, in dto.UpdateInvoiceRequest) (*dto.InvoiceResponse, error) {
	uc.locks.Lock(id)
	defer uc.locks.Unlock(id)

	inv, err := uc.invoiceRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, fmt.Errorf("factura %d: %w", id, domain.ErrNotFound)
	}
	if inv.Status == entity.InvoiceStatusPaid {
		return nil, fmt.Errorf("una factura pagada es inmutable: %w", domain.ErrInvalidState)
	}

	paid, err := uc.paymentRepo.SumConfirmedByInvoice(id)
	if err != nil {
		return nil, err
	}

	if in.Amount != nil {
		if !in.Amount.GreaterThan(decimal.Zero) {
			return nil, fmt.Errorf("el monto debe ser mayor que cero: %w", domain.ErrInvalidInput)
		}
		if in.Amount.LessThan(paid) {
			return nil, fmt.Errorf("el monto no puede ser menor que lo ya pagado (%s): %w", paid.StringFixed(2), domain.ErrInvalidInput)
		}
	}
	if in.Status != nil {
		// OVERDUE no es un estado persistible: solo existe como derivación.
		if !entity.ValidInvoiceStatus(*in.Status) || *in.Status == entity.InvoiceStatusOverdue {
			return nil, fmt.Errorf("estado no asignable %q: %w", *in.Status, domain.ErrInvalidInput)
		}
	}
	if in.InvoiceType != nil && !entity.ValidInvoiceType(*in.InvoiceType) {
		return nil, fmt.Errorf("tipo de factura desconocido %q: %w", *in.InvoiceType, domain.ErrInvalidInput)
	}

	updated, err := uc.invoiceRepo.Update(id, entity.InvoiceUpdate{
		Description: in.Description,
		Amount:      in.Amount,
		DueDate:     in.DueDate,
		Status:      in.Status,
		InvoiceType: in.InvoiceType,
	})
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, fmt.Errorf("factura %d: %w", id, domain.ErrNotFound)
	}
	return uc.toResponse(updated, paid), nil
}

// MarkPaid marca la factura como pagada manualmente, independiente de la
// suma de pagos (p. ej. condonación o pago registrado fuera del sistema).
func (uc *InvoiceUseCase) MarkPaid(ctx context.Context, id int64, paidDate *time.Time) (*dto.InvoiceResponse, error) {
	uc.locks.Lock(id)
	defer uc.locks.Unlock(id)

	inv, err := uc.invoiceRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, fmt.Errorf("factura %d: %w", id, domain.ErrNotFound)
	}
	if inv.Status == entity.InvoiceStatusPaid {
		return nil, fmt.Errorf("la factura ya está pagada: %w", domain.ErrInvalidState)
	}
	if inv.Status == entity.InvoiceStatusCancelled {
		return nil, fmt.Errorf("no se puede pagar una factura cancelada: %w", domain.ErrInvalidState)
	}

	date := todayDate()
	if paidDate != nil {
		date = *paidDate
	}
	updated, err := uc.invoiceRepo.SetStatus(id, entity.InvoiceStatusPaid, &date)
	if err != nil {
		return nil, err
	}
	paid, err := uc.paymentRepo.SumConfirmedByInvoice(id)
	if err != nil {
		return nil, err
	}
	return uc.toResponse(updated, paid), nil
}

// CancelInvoice cancela la factura. Una factura pagada no se cancela.
func (uc *InvoiceUseCase) CancelInvoice(ctx context.Context, id int64) (*dto.InvoiceResponse, error) {
	uc.locks.Lock(id)
	defer uc.locks.Unlock(id)

	inv, err := uc.invoiceRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, fmt.Errorf("factura %d: %w", id, domain.ErrNotFound)
	}
	if inv.Status == entity.InvoiceStatusPaid {
		return nil, fmt.Errorf("no se cancela una factura pagada: %w", domain.ErrInvalidState)
	}

	updated, err := uc.invoiceRepo.SetStatus(id, entity.InvoiceStatusCancelled, nil)
	if err != nil {
		return nil, err
	}
	paid, err := uc.paymentRepo.SumConfirmedByInvoice(id)
	if err != nil {
		return nil, err
	}
	return uc.toResponse(updated, paid), nil
}

// DeleteInvoice elimina la factura y sus pagos en cascada. PAID no se borra.
func (uc *InvoiceUseCase) DeleteInvoice(ctx context.Context, id int64) error {
	uc.locks.Lock(id)
	defer uc.locks.Unlock(id)

	inv, err := uc.invoiceRepo.GetByID(id)
	if err != nil {
		return err
	}
	if inv == nil {
		return fmt.Errorf("factura %d: %w", id, domain.ErrNotFound)
	}
	if inv.Status == entity.InvoiceStatusPaid {
		return fmt.Errorf("no se elimina una factura pagada: %w", domain.ErrInvalidState)
	}

	deleted, err := uc.invoiceRepo.Delete(id)
	if err != nil {
		return err
	}
	if !deleted {
		return fmt.Errorf("factura %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

// toResponses convierte un listado resolviendo los montos pagados en lote.
func (uc *InvoiceUseCase) toResponses(list []*entity.Invoice) ([]*dto.InvoiceResponse, error) {
	ids := make([]int64, 0, len(list))
	for _, inv := range list {
		ids = append(ids, inv.ID)
	}
	sums, err := uc.paymentRepo.SumConfirmedByInvoices(ids)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.InvoiceResponse, 0, len(list))
	for _, inv := range list {
		out = append(out, uc.toResponse(inv, sums[inv.ID]))
	}
	return out, nil
}

func (uc *InvoiceUseCase) toResponse(inv *entity.Invoice, paidAmount decimal.Decimal) *dto.InvoiceResponse {
	return invoiceToResponse(inv, paidAmount, time.Now())
}

// invoiceToResponse arma la respuesta con los campos derivados calculados en
// lectura: estado efectivo (OVERDUE como vista), monto pagado y saldo.
func invoiceToResponse(inv *entity.Invoice, paidAmount decimal.Decimal, now time.Time) *dto.InvoiceResponse {
	return &dto.InvoiceResponse{
		ID:            inv.ID,
		InvoiceNumber: inv.InvoiceNumber,
		Description:   inv.Description,
		Amount:        inv.Amount,
		IssueDate:     inv.IssueDate,
		DueDate:       inv.DueDate,
		PaidDate:      inv.PaidDate,
		Status:        domainbilling.EffectiveStatus(inv, now),
		InvoiceType:   inv.InvoiceType,
		StudentID:     inv.StudentID,
		IsOverdue:     domainbilling.IsOverdue(inv, now),
		PaidAmount:    paidAmount,
		PendingAmount: domainbilling.Remaining(inv.Amount, paidAmount),
		CreatedAt:     inv.CreatedAt,
		UpdatedAt:     inv.UpdatedAt,
	}
}

// todayDate fecha de hoy truncada a día (las facturas trabajan con fechas).
func todayDate() time.Time {
	y, m, d := time.Now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
