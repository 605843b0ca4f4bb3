package repository

import (
	"time"

	"github.com/jhoicas/Matricula-api/internal/domain/entity"
)

// InvoiceRepository define el puerto de persistencia para Invoice.
// El repositorio es un almacén puro: no valida reglas de negocio (saldos,
// estados permitidos); eso es responsabilidad de los casos de uso de billing.
type InvoiceRepository interface {
	// Create persiste la factura y asigna el ID generado. Retorna
	// domain.ErrDuplicate (envuelto) si el número de factura ya existe.
	Create(invoice *entity.Invoice) error
	// GetByID devuelve nil, nil si la factura no existe.
	GetByID(id int64) (*entity.Invoice, error)
	GetByNumber(number string) (*entity.Invoice, error)
	List(limit, offset int) ([]*entity.Invoice, error)
	ListByStudent(studentID int64, limit, offset int) ([]*entity.Invoice, error)
	// ListBySchool une con students para resolver la pertenencia al colegio.
	ListBySchool(schoolID int64, limit, offset int) ([]*entity.Invoice, error)
	ListByStatus(status string, limit, offset int) ([]*entity.Invoice, error)
	// ListOverdue: PENDING con due_date < today, ordenadas por vencimiento.
	ListOverdue(today time.Time, limit, offset int) ([]*entity.Invoice, error)
	ListByIssueDateRange(from, to time.Time, limit, offset int) ([]*entity.Invoice, error)
	// Update aplica solo los campos no nil y devuelve la fila resultante,
	// o nil si la factura no existe.
	Update(id int64, fields entity.InvoiceUpdate) (*entity.Invoice, error)
	// SetStatus transición de bajo nivel usada por la conciliación; sin
	// validación de negocio. paidDate nil limpia la fecha de pago.
	SetStatus(id int64, status string, paidDate *time.Time) (*entity.Invoice, error)
	// Delete elimina la factura y, por cascada, sus pagos. Devuelve false
	// si la factura no existía.
	Delete(id int64) (bool, error)
}
