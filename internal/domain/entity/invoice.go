package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una factura. OVERDUE nunca se persiste: es una vista de lectura
// sobre PENDING con fecha de vencimiento en el pasado (ver billing.EffectiveStatus).
const (
	InvoiceStatusPending   = "PENDING"
	InvoiceStatusPaid      = "PAID"
	InvoiceStatusOverdue   = "OVERDUE"
	InvoiceStatusCancelled = "CANCELLED"
)

// Tipos de factura (informativos, no afectan la conciliación).
const (
	InvoiceTypeTuition      = "TUITION"      // Pensión mensual
	InvoiceTypeRegistration = "REGISTRATION" // Matrícula
	InvoiceTypeMaterials    = "MATERIALS"
	InvoiceTypeTransport    = "TRANSPORT"
	InvoiceTypeFood         = "FOOD"
	InvoiceTypeExtra        = "EXTRA"
)

// ValidInvoiceStatus verifica que el estado sea uno de los conocidos (incluida la vista OVERDUE).
func ValidInvoiceStatus(s string) bool {
	switch s {
	case InvoiceStatusPending, InvoiceStatusPaid, InvoiceStatusOverdue, InvoiceStatusCancelled:
		return true
	}
	return false
}

// ValidInvoiceType verifica el tipo de factura.
func ValidInvoiceType(t string) bool {
	switch t {
	case InvoiceTypeTuition, InvoiceTypeRegistration, InvoiceTypeMaterials,
		InvoiceTypeTransport, InvoiceTypeFood, InvoiceTypeExtra:
		return true
	}
	return false
}

// Invoice representa un cobro contra un estudiante.
// No mantiene la lista de pagos en memoria: la relación se consulta bajo
// demanda vía PaymentRepository (los pagos referencian InvoiceID).
type Invoice struct {
	ID            int64
	InvoiceNumber string // único global, formato INV-YYYYMMDD-XXXXXXXX, nunca se reutiliza
	Description   string
	Amount        decimal.Decimal
	IssueDate     time.Time
	DueDate       time.Time
	PaidDate      *time.Time // nil mientras no esté pagada
	Status        string     // PENDING | PAID | CANCELLED (persistidos)
	InvoiceType   string
	StudentID     int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// InvoiceUpdate campos opcionales para actualización parcial (nil = sin cambio).
type InvoiceUpdate struct {
	Description *string
	Amount      *decimal.Decimal
	DueDate     *time.Time
	Status      *string
	InvoiceType *string
}
