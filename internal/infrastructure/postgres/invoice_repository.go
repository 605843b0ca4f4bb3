package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Matricula-api/internal/domain"
	"github.com/jhoicas/Matricula-api/internal/domain/entity"
	"github.com/jhoicas/Matricula-api/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implementación de InvoiceRepository (usable con pool o tx).
// Almacén puro: las reglas de negocio (saldos, transiciones) viven en los
// casos de uso de billing.
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

const invoiceColumns = `id, invoice_number, description, amount, issue_date, due_date,
	paid_date, status, invoice_type, student_id, created_at, updated_at`

func scanInvoice(row pgx.Row) (*entity.Invoice, error) {
	var inv entity.Invoice
	err := row.Scan(
		&inv.ID, &inv.InvoiceNumber, &inv.Description, &inv.Amount, &inv.IssueDate, &inv.DueDate,
		&inv.PaidDate, &inv.Status, &inv.InvoiceType, &inv.StudentID, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// Create persiste la factura y asigna el ID generado. El índice único de
// invoice_number respalda la generación aleatoria del número: una colisión
// sale como domain.ErrDuplicate y el caso de uso reintenta.
func (r *InvoiceRepo) Create(invoice *entity.Invoice) error {
	query := `
		INSERT INTO invoices (invoice_number, description, amount, issue_date, due_date,
			paid_date, status, invoice_type, student_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at`
	err := r.q.QueryRow(context.Background(), query,
		invoice.InvoiceNumber, invoice.Description, invoice.Amount, invoice.IssueDate, invoice.DueDate,
		invoice.PaidDate, invoice.Status, invoice.InvoiceType, invoice.StudentID,
	).Scan(&invoice.ID, &invoice.CreatedAt, &invoice.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("insert invoice %s: %w", invoice.InvoiceNumber, domain.ErrDuplicate)
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

// GetByID obtiene una factura por ID. Devuelve nil, nil si no existe.
func (r *InvoiceRepo) GetByID(id int64) (*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1`
	return r.getOne(query, id)
}

// GetByNumber obtiene una factura por su número único.
func (r *InvoiceRepo) GetByNumber(number string) (*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE invoice_number = $1`
	return r.getOne(query, number)
}

func (r *InvoiceRepo) getOne(query string, arg any) (*entity.Invoice, error) {
	inv, err := scanInvoice(r.q.QueryRow(context.Background(), query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return inv, nil
}

// List lista facturas por fecha de emisión descendente.
func (r *InvoiceRepo) List(limit, offset int) ([]*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices
		ORDER BY issue_date DESC, id DESC LIMIT $1 OFFSET $2`
	return r.list(query, limit, offset)
}

// ListByStudent lista las facturas de un estudiante.
func (r *InvoiceRepo) ListByStudent(studentID int64, limit, offset int) ([]*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices
		WHERE student_id = $1
		ORDER BY issue_date DESC, id DESC LIMIT $2 OFFSET $3`
	return r.list(query, studentID, limit, offset)
}

// ListBySchool lista las facturas de todos los estudiantes de un colegio.
func (r *InvoiceRepo) ListBySchool(schoolID int64, limit, offset int) ([]*entity.Invoice, error) {
	query := `
		SELECT i.id, i.invoice_number, i.description, i.amount, i.issue_date, i.due_date,
		       i.paid_date, i.status, i.invoice_type, i.student_id, i.created_at, i.updated_at
		FROM invoices i
		JOIN students s ON s.id = i.student_id
		WHERE s.school_id = $1
		ORDER BY i.issue_date DESC, i.id DESC LIMIT $2 OFFSET $3`
	return r.list(query, schoolID, limit, offset)
}

// ListByStatus lista facturas por estado persistido (PENDING, PAID, CANCELLED).
func (r *InvoiceRepo) ListByStatus(status string, limit, offset int) ([]*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices
		WHERE status = $1
		ORDER BY issue_date DESC, id DESC LIMIT $2 OFFSET $3`
	return r.list(query, status, limit, offset)
}

// ListOverdue lista facturas PENDING vencidas a la fecha dada, ordenadas por
// vencimiento (las más atrasadas primero). OVERDUE es derivado, nunca una
// columna.
func (r *InvoiceRepo) ListOverdue(today time.Time, limit, offset int) ([]*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices
		WHERE status = $1 AND due_date < $2
		ORDER BY due_date, id LIMIT $3 OFFSET $4`
	return r.list(query, entity.InvoiceStatusPending, today, limit, offset)
}

// ListByIssueDateRange lista facturas emitidas en [from, to].
func (r *InvoiceRepo) ListByIssueDateRange(from, to time.Time, limit, offset int) ([]*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices
		WHERE issue_date >= $1 AND issue_date <= $2
		ORDER BY issue_date DESC, id DESC LIMIT $3 OFFSET $4`
	return r.list(query, from, to, limit, offset)
}

func (r *InvoiceRepo) list(query string, args ...any) ([]*entity.Invoice, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()
	var list []*entity.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		list = append(list, inv)
	}
	return list, rows.Err()
}

// Update aplica solo los campos no nil y devuelve la fila resultante,
// o nil si la factura no existe. invoice_number y student_id son inmutables.
func (r *InvoiceRepo) Update(id int64, fields entity.InvoiceUpdate) (*entity.Invoice, error) {
	query := `
		UPDATE invoices
		SET description  = COALESCE($2, description),
		    amount       = COALESCE($3, amount),
		    due_date     = COALESCE($4, due_date),
		    status       = COALESCE($5, status),
		    invoice_type = COALESCE($6, invoice_type),
		    updated_at   = now()
		WHERE id = $1
		RETURNING ` + invoiceColumns
	inv, err := scanInvoice(r.q.QueryRow(context.Background(), query,
		id, fields.Description, fields.Amount, fields.DueDate, fields.Status, fields.InvoiceType,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("update invoice: %w", err)
	}
	return inv, nil
}

// SetStatus transición de bajo nivel usada por la conciliación. paidDate nil
// limpia la fecha de pago (una factura que deja de estar cubierta vuelve a
// PENDING sin fecha).
func (r *InvoiceRepo) SetStatus(id int64, status string, paidDate *time.Time) (*entity.Invoice, error) {
	query := `
		UPDATE invoices
		SET status = $2, paid_date = $3, updated_at = now()
		WHERE id = $1
		RETURNING ` + invoiceColumns
	inv, err := scanInvoice(r.q.QueryRow(context.Background(), query, id, status, paidDate))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("set invoice status: %w", err)
	}
	return inv, nil
}

// Delete elimina la factura; la FK con ON DELETE CASCADE arrastra sus pagos.
// Devuelve false si la factura no existía.
func (r *InvoiceRepo) Delete(id int64) (bool, error) {
	tag, err := r.q.Exec(context.Background(), `DELETE FROM invoices WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete invoice: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
