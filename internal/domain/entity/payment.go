package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Métodos de pago aceptados.
const (
	PaymentMethodCash         = "CASH"
	PaymentMethodCreditCard   = "CREDIT_CARD"
	PaymentMethodDebitCard    = "DEBIT_CARD"
	PaymentMethodBankTransfer = "BANK_TRANSFER"
	PaymentMethodCheck        = "CHECK"
)

// ValidPaymentMethod verifica el método de pago.
func ValidPaymentMethod(m string) bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCreditCard, PaymentMethodDebitCard,
		PaymentMethodBankTransfer, PaymentMethodCheck:
		return true
	}
	return false
}

// Payment representa un abono contra exactamente una factura.
// Solo los pagos con IsConfirmed=true cuentan para el saldo de la factura.
type Payment struct {
	ID              int64
	Amount          decimal.Decimal
	PaymentDate     time.Time
	PaymentMethod   string
	ReferenceNumber string
	Notes           string
	IsConfirmed     bool // default true; false = pendiente o rechazado
	InvoiceID       int64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// PaymentUpdate campos opcionales para actualización parcial (nil = sin cambio).
type PaymentUpdate struct {
	Amount          *decimal.Decimal
	PaymentDate     *time.Time
	PaymentMethod   *string
	ReferenceNumber *string
	Notes           *string
	IsConfirmed     *bool
}
