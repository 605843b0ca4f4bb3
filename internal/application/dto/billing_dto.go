package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateInvoiceRequest body para POST /api/invoices.
type CreateInvoiceRequest struct {
	Description string          `json:"description,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	DueDate     time.Time       `json:"due_date"`
	InvoiceType string          `json:"invoice_type,omitempty"` // default TUITION
	StudentID   int64           `json:"student_id"`
}

// UpdateInvoiceRequest body para PUT /api/invoices/:id (campos opcionales).
type UpdateInvoiceRequest struct {
	Description *string          `json:"description,omitempty"`
	Amount      *decimal.Decimal `json:"amount,omitempty"`
	DueDate     *time.Time       `json:"due_date,omitempty"`
	Status      *string          `json:"status,omitempty"`
	InvoiceType *string          `json:"invoice_type,omitempty"`
}

// MarkPaidRequest body para POST /api/invoices/:id/mark-paid.
type MarkPaidRequest struct {
	PaidDate *time.Time `json:"paid_date,omitempty"` // default: hoy
}

// InvoiceResponse factura en respuestas. Status es el estado efectivo
// (OVERDUE si está pendiente y vencida); los campos derivados se calculan
// siempre en lectura, nunca se persisten.
type InvoiceResponse struct {
	ID            int64           `json:"id"`
	InvoiceNumber string          `json:"invoice_number"`
	Description   string          `json:"description,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	IssueDate     time.Time       `json:"issue_date"`
	DueDate       time.Time       `json:"due_date"`
	PaidDate      *time.Time      `json:"paid_date,omitempty"`
	Status        string          `json:"status"`
	InvoiceType   string          `json:"invoice_type"`
	StudentID     int64           `json:"student_id"`
	IsOverdue     bool            `json:"is_overdue"`
	PaidAmount    decimal.Decimal `json:"paid_amount"`
	PendingAmount decimal.Decimal `json:"pending_amount"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// CreatePaymentRequest body para POST /api/payments.
// Los pagos nacen confirmados; confirmar/rechazar se maneja con los
// endpoints dedicados.
type CreatePaymentRequest struct {
	Amount          decimal.Decimal `json:"amount"`
	PaymentDate     time.Time       `json:"payment_date"`
	PaymentMethod   string          `json:"payment_method"`
	ReferenceNumber string          `json:"reference_number,omitempty"`
	Notes           string          `json:"notes,omitempty"`
	InvoiceID       int64           `json:"invoice_id"`
}

// UpdatePaymentRequest body para PUT /api/payments/:id (campos opcionales).
type UpdatePaymentRequest struct {
	Amount          *decimal.Decimal `json:"amount,omitempty"`
	PaymentDate     *time.Time       `json:"payment_date,omitempty"`
	PaymentMethod   *string          `json:"payment_method,omitempty"`
	ReferenceNumber *string          `json:"reference_number,omitempty"`
	Notes           *string          `json:"notes,omitempty"`
	IsConfirmed     *bool            `json:"is_confirmed,omitempty"`
}

// RejectPaymentRequest body para POST /api/payments/:id/reject.
type RejectPaymentRequest struct {
	Reason string `json:"reason,omitempty"`
}

// PaymentResponse pago en respuestas.
type PaymentResponse struct {
	ID              int64           `json:"id"`
	Amount          decimal.Decimal `json:"amount"`
	PaymentDate     time.Time       `json:"payment_date"`
	PaymentMethod   string          `json:"payment_method"`
	ReferenceNumber string          `json:"reference_number,omitempty"`
	Notes           string          `json:"notes,omitempty"`
	IsConfirmed     bool            `json:"is_confirmed"`
	InvoiceID       int64           `json:"invoice_id"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}
