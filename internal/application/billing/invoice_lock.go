package billing

import "sync"

// InvoiceLockSet serializa las operaciones que mutan el conjunto de pagos de
// una misma factura. Dos pagos concurrentes contra la misma factura harían
// ambos la lectura del saldo antes de cualquiera de las dos escrituras y
// podrían exceder juntos el monto; el candado por factura elimina esa
// carrera. Operaciones sobre facturas distintas no se bloquean entre sí.
//
// Se comparte una sola instancia entre InvoiceUseCase y PaymentUseCase:
// ambos mutan el mismo recurso (la factura y su saldo).
//
// Las entradas se refcuentan y se eliminan al liberar el último holder, así
// el mapa no crece con el histórico de facturas.
type InvoiceLockSet struct {
	mu      sync.Mutex
	entries map[int64]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// NewInvoiceLockSet construye el conjunto de candados.
func NewInvoiceLockSet() *InvoiceLockSet {
	return &InvoiceLockSet{entries: make(map[int64]*lockEntry)}
}

// Lock adquiere el candado exclusivo de la factura.
func (l *InvoiceLockSet) Lock(invoiceID int64) {
	l.mu.Lock()
	e, ok := l.entries[invoiceID]
	if !ok {
		e = &lockEntry{}
		l.entries[invoiceID] = e
	}
	e.refs++
	l.mu.Unlock()

	e.mu.Lock()
}

// Unlock libera el candado y descarta la entrada si nadie más la espera.
func (l *InvoiceLockSet) Unlock(invoiceID int64) {
	l.mu.Lock()
	e := l.entries[invoiceID]
	e.refs--
	if e.refs == 0 {
		delete(l.entries, invoiceID)
	}
	l.mu.Unlock()

	e.mu.Unlock()
}
