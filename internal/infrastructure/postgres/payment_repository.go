package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Matricula-api/internal/domain/entity"
	"github.com/jhoicas/Matricula-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.PaymentRepository = (*PaymentRepo)(nil)

// PaymentRepo implementación de PaymentRepository (usable con pool o tx).
type PaymentRepo struct {
	q Querier
}

// NewPaymentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPaymentRepository(q Querier) *PaymentRepo {
	return &PaymentRepo{q: q}
}

const paymentColumns = `id, amount, payment_date, payment_method, reference_number,
	notes, is_confirmed, invoice_id, created_at, updated_at`

func scanPayment(row pgx.Row) (*entity.Payment, error) {
	var p entity.Payment
	err := row.Scan(
		&p.ID, &p.Amount, &p.PaymentDate, &p.PaymentMethod, &p.ReferenceNumber,
		&p.Notes, &p.IsConfirmed, &p.InvoiceID, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create persiste un pago y asigna el ID generado por la base.
func (r *PaymentRepo) Create(payment *entity.Payment) error {
	query := `
		INSERT INTO payments (amount, payment_date, payment_method, reference_number,
			notes, is_confirmed, invoice_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`
	err := r.q.QueryRow(context.Background(), query,
		payment.Amount, payment.PaymentDate, payment.PaymentMethod, payment.ReferenceNumber,
		payment.Notes, payment.IsConfirmed, payment.InvoiceID,
	).Scan(&payment.ID, &payment.CreatedAt, &payment.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}
	return nil
}

// GetByID obtiene un pago por ID. Devuelve nil, nil si no existe.
func (r *PaymentRepo) GetByID(id int64) (*entity.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1`
	p, err := scanPayment(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get payment: %w", err)
	}
	return p, nil
}

// List lista pagos por fecha descendente.
func (r *PaymentRepo) List(limit, offset int) ([]*entity.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments
		ORDER BY payment_date DESC, id DESC LIMIT $1 OFFSET $2`
	return r.list(query, limit, offset)
}

// ListByInvoice lista todos los pagos de una factura, confirmados o no,
// en orden cronológico.
func (r *PaymentRepo) ListByInvoice(invoiceID int64) ([]*entity.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments
		WHERE invoice_id = $1 ORDER BY payment_date, id`
	return r.list(query, invoiceID)
}

// ListByStudent lista los pagos sobre facturas de un estudiante.
func (r *PaymentRepo) ListByStudent(studentID int64, limit, offset int) ([]*entity.Payment, error) {
	query := `
		SELECT p.id, p.amount, p.payment_date, p.payment_method, p.reference_number,
		       p.notes, p.is_confirmed, p.invoice_id, p.created_at, p.updated_at
		FROM payments p
		JOIN invoices i ON i.id = p.invoice_id
		WHERE i.student_id = $1
		ORDER BY p.payment_date DESC, p.id DESC LIMIT $2 OFFSET $3`
	return r.list(query, studentID, limit, offset)
}

// ListByDateRange lista pagos con payment_date en [from, to].
func (r *PaymentRepo) ListByDateRange(from, to time.Time, limit, offset int) ([]*entity.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments
		WHERE payment_date >= $1 AND payment_date <= $2
		ORDER BY payment_date DESC, id DESC LIMIT $3 OFFSET $4`
	return r.list(query, from, to, limit, offset)
}

// ListByMethod lista pagos por método.
func (r *PaymentRepo) ListByMethod(method string, limit, offset int) ([]*entity.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments
		WHERE payment_method = $1
		ORDER BY payment_date DESC, id DESC LIMIT $2 OFFSET $3`
	return r.list(query, method, limit, offset)
}

func (r *PaymentRepo) list(query string, args ...any) ([]*entity.Payment, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()
	var list []*entity.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// Update aplica solo los campos no nil y devuelve la fila resultante,
// o nil si el pago no existe. invoice_id es inmutable: un pago no se
// traslada de factura.
func (r *PaymentRepo) Update(id int64, fields entity.PaymentUpdate) (*entity.Payment, error) {
	query := `
		UPDATE payments
		SET amount           = COALESCE($2, amount),
		    payment_date     = COALESCE($3, payment_date),
		    payment_method   = COALESCE($4, payment_method),
		    reference_number = COALESCE($5, reference_number),
		    notes            = COALESCE($6, notes),
		    is_confirmed     = COALESCE($7, is_confirmed),
		    updated_at       = now()
		WHERE id = $1
		RETURNING ` + paymentColumns
	p, err := scanPayment(r.q.QueryRow(context.Background(), query,
		id, fields.Amount, fields.PaymentDate, fields.PaymentMethod,
		fields.ReferenceNumber, fields.Notes, fields.IsConfirmed,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("update payment: %w", err)
	}
	return p, nil
}

// Delete elimina un pago. Devuelve false si no existía.
func (r *PaymentRepo) Delete(id int64) (bool, error) {
	tag, err := r.q.Exec(context.Background(), `DELETE FROM payments WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete payment: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// SumConfirmedByInvoice suma los pagos confirmados de una factura.
// COALESCE garantiza cero (no NULL) cuando no hay pagos.
func (r *PaymentRepo) SumConfirmedByInvoice(invoiceID int64) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM payments WHERE invoice_id = $1 AND is_confirmed`
	var sum decimal.Decimal
	if err := r.q.QueryRow(context.Background(), query, invoiceID).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("sum payments: %w", err)
	}
	return sum, nil
}

// SumConfirmedByInvoices versión por lotes para listados (evita N+1).
// Facturas sin pagos confirmados no aparecen en el mapa.
func (r *PaymentRepo) SumConfirmedByInvoices(invoiceIDs []int64) (map[int64]decimal.Decimal, error) {
	sums := make(map[int64]decimal.Decimal, len(invoiceIDs))
	if len(invoiceIDs) == 0 {
		return sums, nil
	}
	query := `
		SELECT invoice_id, SUM(amount)
		FROM payments WHERE invoice_id = ANY($1) AND is_confirmed
		GROUP BY invoice_id`
	rows, err := r.q.Query(context.Background(), query, invoiceIDs)
	if err != nil {
		return nil, fmt.Errorf("sum payments batch: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var id int64
		var sum decimal.Decimal
		if err := rows.Scan(&id, &sum); err != nil {
			return nil, fmt.Errorf("scan payment sum: %w", err)
		}
		sums[id] = sum
	}
	return sums, rows.Err()
}
