package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/Matricula-api/internal/domain/entity"
	"github.com/jhoicas/Matricula-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.StatementRepository = (*StatementRepo)(nil)

// StatementRepo consultas de solo lectura para estados de cuenta.
// Cada estado de cuenta se resuelve dentro de una única transacción
// REPEATABLE READ de solo lectura: agregados, facturas y pagados por factura
// salen del mismo snapshot, sin mezclar estados pre y post mutación.
type StatementRepo struct {
	pool *pgxpool.Pool
}

// NewStatementRepository construye el adaptador de estados de cuenta.
func NewStatementRepository(pool *pgxpool.Pool) *StatementRepo {
	return &StatementRepo{pool: pool}
}

var statementTxOptions = pgx.TxOptions{
	IsoLevel:   pgx.RepeatableRead,
	AccessMode: pgx.ReadOnly,
}

// StudentStatement devuelve agregados + facturas más recientes del estudiante.
func (r *StatementRepo) StudentStatement(ctx context.Context, studentID int64, today time.Time, invoiceLimit int) (*repository.StudentStatementResult, error) {
	tx, err := r.pool.BeginTx(ctx, statementTxOptions)
	if err != nil {
		return nil, fmt.Errorf("statement.StudentStatement begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// ── 1. Agregados sobre todas las facturas del estudiante ──────────────────
	const summaryQuery = `
	SELECT
	    COUNT(*)                                                                      AS total_invoices,
	    COALESCE(SUM(amount), 0)                                                      AS total_invoiced,
	    COALESCE(SUM(CASE WHEN status = 'PENDING' THEN amount ELSE 0 END), 0)         AS total_pending,
	    COALESCE(SUM(CASE WHEN status = 'PENDING' AND due_date < $2
	                      THEN amount ELSE 0 END), 0)                                 AS overdue_amount
	FROM invoices WHERE student_id = $1`

	result := &repository.StudentStatementResult{}
	if err := tx.QueryRow(ctx, summaryQuery, studentID, today).Scan(
		&result.Summary.TotalInvoices,
		&result.Summary.TotalInvoiced,
		&result.Summary.TotalPending,
		&result.Summary.OverdueAmount,
	); err != nil {
		return nil, fmt.Errorf("statement.StudentStatement summary: %w", err)
	}

	// ── 2. Pagado confirmado total (join con payments) ────────────────────────
	const paidQuery = `
	SELECT COALESCE(SUM(p.amount), 0)
	FROM payments p
	JOIN invoices i ON i.id = p.invoice_id
	WHERE i.student_id = $1 AND p.is_confirmed`
	if err := tx.QueryRow(ctx, paidQuery, studentID).Scan(&result.Summary.TotalPaid); err != nil {
		return nil, fmt.Errorf("statement.StudentStatement paid: %w", err)
	}

	// ── 3. Facturas recientes + pagado por factura, mismo snapshot ────────────
	const invoicesQuery = `
	SELECT ` + invoiceColumns + `
	FROM invoices WHERE student_id = $1
	ORDER BY issue_date DESC, id DESC LIMIT $2`
	result.Invoices, err = statementInvoiceRows(ctx, tx, invoicesQuery, studentID, invoiceLimit)
	if err != nil {
		return nil, fmt.Errorf("statement.StudentStatement invoices: %w", err)
	}
	result.PaidByInvoice, err = statementPaidSums(ctx, tx, result.Invoices)
	if err != nil {
		return nil, fmt.Errorf("statement.StudentStatement sums: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("statement.StudentStatement commit: %w", err)
	}
	return result, nil
}

// SchoolStatement devuelve agregados + facturas más recientes sobre todos los
// estudiantes del colegio.
func (r *StatementRepo) SchoolStatement(ctx context.Context, schoolID int64, today time.Time, invoiceLimit int) (*repository.SchoolStatementResult, error) {
	tx, err := r.pool.BeginTx(ctx, statementTxOptions)
	if err != nil {
		return nil, fmt.Errorf("statement.SchoolStatement begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	result := &repository.SchoolStatementResult{}

	// ── 1. Conteo de estudiantes ──────────────────────────────────────────────
	const studentsQuery = `
	SELECT
	    COUNT(*)                                                  AS total_students,
	    COALESCE(SUM(CASE WHEN is_active THEN 1 ELSE 0 END), 0)   AS active_students
	FROM students WHERE school_id = $1`
	if err := tx.QueryRow(ctx, studentsQuery, schoolID).Scan(
		&result.Summary.TotalStudents,
		&result.Summary.ActiveStudents,
	); err != nil {
		return nil, fmt.Errorf("statement.SchoolStatement students: %w", err)
	}

	// ── 2. Agregados financieros sobre las facturas del colegio ───────────────
	const summaryQuery = `
	SELECT
	    COUNT(*)                                                                      AS total_invoices,
	    COALESCE(SUM(i.amount), 0)                                                    AS total_invoiced,
	    COALESCE(SUM(CASE WHEN i.status = 'PENDING' THEN i.amount ELSE 0 END), 0)     AS total_pending,
	    COALESCE(SUM(CASE WHEN i.status = 'PENDING' AND i.due_date < $2
	                      THEN i.amount ELSE 0 END), 0)                               AS overdue_amount
	FROM invoices i
	JOIN students s ON s.id = i.student_id
	WHERE s.school_id = $1`
	if err := tx.QueryRow(ctx, summaryQuery, schoolID, today).Scan(
		&result.Summary.TotalInvoices,
		&result.Summary.TotalInvoiced,
		&result.Summary.TotalPending,
		&result.Summary.OverdueAmount,
	); err != nil {
		return nil, fmt.Errorf("statement.SchoolStatement summary: %w", err)
	}

	const paidQuery = `
	SELECT COALESCE(SUM(p.amount), 0)
	FROM payments p
	JOIN invoices i ON i.id = p.invoice_id
	JOIN students s ON s.id = i.student_id
	WHERE s.school_id = $1 AND p.is_confirmed`
	if err := tx.QueryRow(ctx, paidQuery, schoolID).Scan(&result.Summary.TotalPaid); err != nil {
		return nil, fmt.Errorf("statement.SchoolStatement paid: %w", err)
	}

	// ── 3. Facturas recientes del colegio ─────────────────────────────────────
	const invoicesQuery = `
	SELECT i.id, i.invoice_number, i.description, i.amount, i.issue_date, i.due_date,
	       i.paid_date, i.status, i.invoice_type, i.student_id, i.created_at, i.updated_at
	FROM invoices i
	JOIN students s ON s.id = i.student_id
	WHERE s.school_id = $1
	ORDER BY i.issue_date DESC, i.id DESC LIMIT $2`
	result.Invoices, err = statementInvoiceRows(ctx, tx, invoicesQuery, schoolID, invoiceLimit)
	if err != nil {
		return nil, fmt.Errorf("statement.SchoolStatement invoices: %w", err)
	}
	result.PaidByInvoice, err = statementPaidSums(ctx, tx, result.Invoices)
	if err != nil {
		return nil, fmt.Errorf("statement.SchoolStatement sums: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("statement.SchoolStatement commit: %w", err)
	}
	return result, nil
}

func statementInvoiceRows(ctx context.Context, tx pgx.Tx, query string, args ...any) ([]*entity.Invoice, error) {
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []*entity.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, inv)
	}
	return list, rows.Err()
}

func statementPaidSums(ctx context.Context, tx pgx.Tx, invoices []*entity.Invoice) (map[int64]decimal.Decimal, error) {
	sums := make(map[int64]decimal.Decimal, len(invoices))
	if len(invoices) == 0 {
		return sums, nil
	}
	ids := make([]int64, 0, len(invoices))
	for _, inv := range invoices {
		ids = append(ids, inv.ID)
	}
	const query = `
	SELECT invoice_id, SUM(amount)
	FROM payments WHERE invoice_id = ANY($1) AND is_confirmed
	GROUP BY invoice_id`
	rows, err := tx.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var id int64
		var sum decimal.Decimal
		if err := rows.Scan(&id, &sum); err != nil {
			return nil, err
		}
		sums[id] = sum
	}
	return sums, rows.Err()
}
