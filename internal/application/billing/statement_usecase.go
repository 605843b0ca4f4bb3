package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Matricula-api/internal/application/dto"
	"github.com/jhoicas/Matricula-api/internal/domain"
	"github.com/jhoicas/Matricula-api/internal/domain/entity"
	"github.com/jhoicas/Matricula-api/internal/domain/repository"
)

// Tamaños de página de los listados embebidos en los estados de cuenta.
const (
	studentStatementInvoices = 50
	schoolStatementInvoices  = 20
)

// StatementUseCase arma estados de cuenta de estudiante y colegio.
// Solo lectura: nunca muta los ledgers. Los agregados y el listado de
// facturas de cada estado de cuenta salen de un único snapshot de la DB
// (lo garantiza StatementRepository), así que no hay lecturas rasgadas.
type StatementUseCase struct {
	statementRepo repository.StatementRepository
	studentRepo   repository.StudentRepository
	schoolRepo    repository.SchoolRepository
}

// NewStatementUseCase construye el caso de uso.
func NewStatementUseCase(
	statementRepo repository.StatementRepository,
	studentRepo repository.StudentRepository,
	schoolRepo repository.SchoolRepository,
) *StatementUseCase {
	return &StatementUseCase{
		statementRepo: statementRepo,
		studentRepo:   studentRepo,
		schoolRepo:    schoolRepo,
	}
}

// StudentStatement estado de cuenta del estudiante: resumen financiero
// (total facturado, pagado, pendiente y vencido) más sus facturas más
// recientes.
func (uc *StatementUseCase) StudentStatement(ctx context.Context, studentID int64) (*dto.StudentStatementResponse, error) {
	student, err := uc.studentRepo.GetByID(studentID)
	if err != nil {
		return nil, err
	}
	if student == nil {
		return nil, fmt.Errorf("estudiante %d: %w", studentID, domain.ErrNotFound)
	}

	schoolName := "N/A"
	if school, err := uc.schoolRepo.GetByID(student.SchoolID); err != nil {
		return nil, err
	} else if school != nil {
		schoolName = school.Name
	}

	now := time.Now()
	res, err := uc.statementRepo.StudentStatement(ctx, studentID, todayDate(), studentStatementInvoices)
	if err != nil {
		return nil, err
	}

	return &dto.StudentStatementResponse{
		StudentID:     studentID,
		StudentName:   student.FullName(),
		SchoolName:    schoolName,
		TotalInvoices: res.Summary.TotalInvoices,
		TotalInvoiced: res.Summary.TotalInvoiced,
		TotalPaid:     res.Summary.TotalPaid,
		TotalPending:  res.Summary.TotalPending,
		OverdueAmount: res.Summary.OverdueAmount,
		Invoices:      statementInvoices(res.Invoices, res.PaidByInvoice, now),
	}, nil
}

// SchoolStatement estado de cuenta del colegio: conteos de estudiantes,
// agregados sobre las facturas de todos sus estudiantes y las facturas
// recientes.
func (uc *StatementUseCase) SchoolStatement(ctx context.Context, schoolID int64) (*dto.SchoolStatementResponse, error) {
	school, err := uc.schoolRepo.GetByID(schoolID)
	if err != nil {
		return nil, err
	}
	if school == nil {
		return nil, fmt.Errorf("colegio %d: %w", schoolID, domain.ErrNotFound)
	}

	now := time.Now()
	res, err := uc.statementRepo.SchoolStatement(ctx, schoolID, todayDate(), schoolStatementInvoices)
	if err != nil {
		return nil, err
	}

	return &dto.SchoolStatementResponse{
		SchoolID:       schoolID,
		SchoolName:     school.Name,
		TotalStudents:  res.Summary.TotalStudents,
		ActiveStudents: res.Summary.ActiveStudents,
		TotalInvoices:  res.Summary.TotalInvoices,
		TotalInvoiced:  res.Summary.TotalInvoiced,
		TotalPaid:      res.Summary.TotalPaid,
		TotalPending:   res.Summary.TotalPending,
		OverdueAmount:  res.Summary.OverdueAmount,
		RecentInvoices: statementInvoices(res.Invoices, res.PaidByInvoice, now),
	}, nil
}

func statementInvoices(list []*entity.Invoice, paidByInvoice map[int64]decimal.Decimal, now time.Time) []dto.InvoiceResponse {
	out := make([]dto.InvoiceResponse, 0, len(list))
	for _, inv := range list {
		out = append(out, *invoiceToResponse(inv, paidByInvoice[inv.ID], now))
	}
	return out
}
