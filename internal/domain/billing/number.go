package billing

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MaxNumberAttempts tope de reintentos ante colisión del número de factura.
// La colisión es improbable (8 hex de un UUID v4) pero el reintento no puede
// ser infinito: agotado el tope se reporta error al caller.
const MaxNumberAttempts = 5

// GenerateInvoiceNumber genera un número de factura legible y resistente a
// colisiones: INV-YYYYMMDD-XXXXXXXX (fecha de emisión + 8 caracteres de un
// UUID v4 en mayúsculas). La unicidad real la garantiza el índice único de
// la tabla; ante colisión el caller vuelve a generar.
func GenerateInvoiceNumber(issueDate time.Time) string {
	suffix := strings.ToUpper(uuid.New().String()[:8])
	return fmt.Sprintf("INV-%s-%s", issueDate.Format("20060102"), suffix)
}
