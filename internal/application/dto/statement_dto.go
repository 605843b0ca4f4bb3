package dto

import "github.com/shopspring/decimal"

// StudentStatementResponse estado de cuenta del estudiante: resumen
// financiero a la fecha + facturas recientes.
type StudentStatementResponse struct {
	StudentID     int64             `json:"student_id"`
	StudentName   string            `json:"student_name"`
	SchoolName    string            `json:"school_name"`
	TotalInvoices int               `json:"total_invoices"`
	TotalInvoiced decimal.Decimal   `json:"total_invoiced"`
	TotalPaid     decimal.Decimal   `json:"total_paid"`
	TotalPending  decimal.Decimal   `json:"total_pending"`
	OverdueAmount decimal.Decimal   `json:"overdue_amount"`
	Invoices      []InvoiceResponse `json:"invoices"`
}

// SchoolStatementResponse estado de cuenta del colegio.
type SchoolStatementResponse struct {
	SchoolID       int64             `json:"school_id"`
	SchoolName     string            `json:"school_name"`
	TotalStudents  int               `json:"total_students"`
	ActiveStudents int               `json:"active_students"`
	TotalInvoices  int               `json:"total_invoices"`
	TotalInvoiced  decimal.Decimal   `json:"total_invoiced"`
	TotalPaid      decimal.Decimal   `json:"total_paid"`
	TotalPending   decimal.Decimal   `json:"total_pending"`
	OverdueAmount  decimal.Decimal   `json:"overdue_amount"`
	RecentInvoices []InvoiceResponse `json:"recent_invoices"`
}
