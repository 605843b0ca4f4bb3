package repository

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Matricula-api/internal/domain/entity"
)

// PaymentRepository define el puerto de persistencia para Payment.
// Almacén puro: la validación de saldo y pagabilidad vive en los casos de uso.
type PaymentRepository interface {
	Create(payment *entity.Payment) error
	// GetByID devuelve nil, nil si el pago no existe.
	GetByID(id int64) (*entity.Payment, error)
	List(limit, offset int) ([]*entity.Payment, error)
	ListByInvoice(invoiceID int64) ([]*entity.Payment, error)
	// ListByStudent une con invoices para resolver la pertenencia al estudiante.
	ListByStudent(studentID int64, limit, offset int) ([]*entity.Payment, error)
	ListByDateRange(from, to time.Time, limit, offset int) ([]*entity.Payment, error)
	ListByMethod(method string, limit, offset int) ([]*entity.Payment, error)
	Update(id int64, fields entity.PaymentUpdate) (*entity.Payment, error)
	Delete(id int64) (bool, error)
	// SumConfirmedByInvoice suma solo los pagos con is_confirmed=true.
	// Devuelve cero si no hay pagos confirmados.
	SumConfirmedByInvoice(invoiceID int64) (decimal.Decimal, error)
	// SumConfirmedByInvoices versión por lotes para listados (evita N+1).
	// Facturas sin pagos confirmados no aparecen en el mapa.
	SumConfirmedByInvoices(invoiceIDs []int64) (map[int64]decimal.Decimal, error)
}
