package billing

import (
	"context"
	"fmt"

	"github.com/jhoicas/Matricula-api/internal/domain"
	"github.com/jhoicas/Matricula-api/internal/domain/repository"
)

// PDFUseCase genera la representación gráfica (PDF) de una factura con su
// historial de pagos, para entrega al acudiente.
type PDFUseCase struct {
	invoiceRepo repository.InvoiceRepository
	paymentRepo repository.PaymentRepository
	studentRepo repository.StudentRepository
	schoolRepo  repository.SchoolRepository
	generator   InvoicePDFGenerator
}

// NewPDFUseCase construye el caso de uso inyectando todas sus dependencias.
func NewPDFUseCase(
	invoiceRepo repository.InvoiceRepository,
	paymentRepo repository.PaymentRepository,
	studentRepo repository.StudentRepository,
	schoolRepo repository.SchoolRepository,
	generator InvoicePDFGenerator,
) *PDFUseCase {
	return &PDFUseCase{
		invoiceRepo: invoiceRepo,
		paymentRepo: paymentRepo,
		studentRepo: studentRepo,
		schoolRepo:  schoolRepo,
		generator:   generator,
	}
}

// DownloadInvoicePDF recupera la factura con su estudiante, colegio y pagos,
// y genera el PDF.
//
// Retorna:
//   - (pdfBytes, filename, nil) si todo sale bien.
//   - domain.ErrNotFound        si la factura no existe.
func (uc *PDFUseCase) DownloadInvoicePDF(ctx context.Context, invoiceID int64) (pdfBytes []byte, filename string, err error) {
	// ── 1. Cargar factura ─────────────────────────────────────────────────────
	inv, err := uc.invoiceRepo.GetByID(invoiceID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener factura: %w", err)
	}
	if inv == nil {
		return nil, "", fmt.Errorf("factura %d: %w", invoiceID, domain.ErrNotFound)
	}

	// ── 2. Estudiante y colegio ───────────────────────────────────────────────
	student, err := uc.studentRepo.GetByID(inv.StudentID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener estudiante: %w", err)
	}
	if student == nil {
		return nil, "", fmt.Errorf("estudiante %d: %w", inv.StudentID, domain.ErrNotFound)
	}
	school, err := uc.schoolRepo.GetByID(student.SchoolID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener colegio: %w", err)
	}
	if school == nil {
		return nil, "", fmt.Errorf("colegio %d: %w", student.SchoolID, domain.ErrNotFound)
	}

	// ── 3. Pagos y monto pagado confirmado ────────────────────────────────────
	payments, err := uc.paymentRepo.ListByInvoice(inv.ID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: listar pagos: %w", err)
	}
	paid, err := uc.paymentRepo.SumConfirmedByInvoice(inv.ID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: sumar pagos: %w", err)
	}

	// ── 4. Generar documento ──────────────────────────────────────────────────
	pdfBytes, err = uc.generator.GenerateInvoicePDF(ctx, inv, student, school, payments, paid)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generar documento: %w", err)
	}
	return pdfBytes, fmt.Sprintf("factura_%s.pdf", inv.InvoiceNumber), nil
}
