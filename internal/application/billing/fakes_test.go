package billing_test

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Matricula-api/internal/application/billing"
	"github.com/jhoicas/Matricula-api/internal/domain"
	"github.com/jhoicas/Matricula-api/internal/domain/entity"
	"github.com/jhoicas/Matricula-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria para los casos de uso de facturación. Implementan los
// puertos de repositorio sobre mapas; el txRunner toma un snapshot antes de
// fn y lo restaura si falla, igual que el rollback real.
// ──────────────────────────────────────────────────────────────────────────────

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func futureDate(days int) time.Time {
	y, m, d := time.Now().AddDate(0, 0, days).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ─── InvoiceRepository ───

type fakeInvoiceRepo struct {
	nextID   int64
	invoices map[int64]*entity.Invoice
	// dupNext fuerza ErrDuplicate en los próximos N Create, para ejercitar
	// el reintento de número de factura.
	dupNext int
	// payments simula el borrado en cascada de la FK.
	payments *fakePaymentRepo
}

var _ repository.InvoiceRepository = (*fakeInvoiceRepo)(nil)

func newFakeInvoiceRepo() *fakeInvoiceRepo {
	return &fakeInvoiceRepo{invoices: make(map[int64]*entity.Invoice)}
}

func cloneInvoice(inv *entity.Invoice) *entity.Invoice {
	c := *inv
	if inv.PaidDate != nil {
		d := *inv.PaidDate
		c.PaidDate = &d
	}
	return &c
}

func (r *fakeInvoiceRepo) Create(inv *entity.Invoice) error {
	if r.dupNext > 0 {
		r.dupNext--
		return fmt.Errorf("número %q: %w", inv.InvoiceNumber, domain.ErrDuplicate)
	}
	for _, existing := range r.invoices {
		if existing.InvoiceNumber == inv.InvoiceNumber {
			return fmt.Errorf("número %q: %w", inv.InvoiceNumber, domain.ErrDuplicate)
		}
	}
	r.nextID++
	inv.ID = r.nextID
	inv.CreatedAt = time.Now()
	inv.UpdatedAt = inv.CreatedAt
	r.invoices[inv.ID] = cloneInvoice(inv)
	return nil
}

func (r *fakeInvoiceRepo) GetByID(id int64) (*entity.Invoice, error) {
	inv, ok := r.invoices[id]
	if !ok {
		return nil, nil
	}
	return cloneInvoice(inv), nil
}

func (r *fakeInvoiceRepo) GetByNumber(number string) (*entity.Invoice, error) {
	for _, inv := range r.invoices {
		if inv.InvoiceNumber == number {
			return cloneInvoice(inv), nil
		}
	}
	return nil, nil
}

func (r *fakeInvoiceRepo) all() []*entity.Invoice {
	out := make([]*entity.Invoice, 0, len(r.invoices))
	for _, inv := range r.invoices {
		out = append(out, cloneInvoice(inv))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func paginate(list []*entity.Invoice, limit, offset int) []*entity.Invoice {
	if offset >= len(list) {
		return nil
	}
	list = list[offset:]
	if limit < len(list) {
		list = list[:limit]
	}
	return list
}

func (r *fakeInvoiceRepo) List(limit, offset int) ([]*entity.Invoice, error) {
	return paginate(r.all(), limit, offset), nil
}

func (r *fakeInvoiceRepo) ListByStudent(studentID int64, limit, offset int) ([]*entity.Invoice, error) {
	var out []*entity.Invoice
	for _, inv := range r.all() {
		if inv.StudentID == studentID {
			out = append(out, inv)
		}
	}
	return paginate(out, limit, offset), nil
}

func (r *fakeInvoiceRepo) ListBySchool(schoolID int64, limit, offset int) ([]*entity.Invoice, error) {
	// La pertenencia al colegio necesita el directorio; los tests que la
	// ejercitan usan la base real. Aquí basta con el listado completo.
	return paginate(r.all(), limit, offset), nil
}

func (r *fakeInvoiceRepo) ListByStatus(status string, limit, offset int) ([]*entity.Invoice, error) {
	var out []*entity.Invoice
	for _, inv := range r.all() {
		if inv.Status == status {
			out = append(out, inv)
		}
	}
	return paginate(out, limit, offset), nil
}

func (r *fakeInvoiceRepo) ListOverdue(today time.Time, limit, offset int) ([]*entity.Invoice, error) {
	var out []*entity.Invoice
	for _, inv := range r.all() {
		if inv.Status == entity.InvoiceStatusPending && inv.DueDate.Before(today) {
			out = append(out, inv)
		}
	}
	return paginate(out, limit, offset), nil
}

func (r *fakeInvoiceRepo) ListByIssueDateRange(from, to time.Time, limit, offset int) ([]*entity.Invoice, error) {
	var out []*entity.Invoice
	for _, inv := range r.all() {
		if !inv.IssueDate.Before(from) && !inv.IssueDate.After(to) {
			out = append(out, inv)
		}
	}
	return paginate(out, limit, offset), nil
}

func (r *fakeInvoiceRepo) Update(id int64, fields entity.InvoiceUpdate) (*entity.Invoice, error) {
	inv, ok := r.invoices[id]
	if !ok {
		return nil, nil
	}
	if fields.Description != nil {
		inv.Description = *fields.Description
	}
	if fields.Amount != nil {
		inv.Amount = *fields.Amount
	}
	if fields.DueDate != nil {
		inv.DueDate = *fields.DueDate
	}
	if fields.Status != nil {
		inv.Status = *fields.Status
	}
	if fields.InvoiceType != nil {
		inv.InvoiceType = *fields.InvoiceType
	}
	inv.UpdatedAt = time.Now()
	return cloneInvoice(inv), nil
}

func (r *fakeInvoiceRepo) SetStatus(id int64, status string, paidDate *time.Time) (*entity.Invoice, error) {
	inv, ok := r.invoices[id]
	if !ok {
		return nil, nil
	}
	inv.Status = status
	if paidDate != nil {
		d := *paidDate
		inv.PaidDate = &d
	} else {
		inv.PaidDate = nil
	}
	inv.UpdatedAt = time.Now()
	return cloneInvoice(inv), nil
}

func (r *fakeInvoiceRepo) Delete(id int64) (bool, error) {
	if _, ok := r.invoices[id]; !ok {
		return false, nil
	}
	delete(r.invoices, id)
	if r.payments != nil {
		for pid, p := range r.payments.payments {
			if p.InvoiceID == id {
				delete(r.payments.payments, pid)
			}
		}
	}
	return true, nil
}

// ─── PaymentRepository ───

type fakePaymentRepo struct {
	nextID   int64
	payments map[int64]*entity.Payment
}

var _ repository.PaymentRepository = (*fakePaymentRepo)(nil)

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{payments: make(map[int64]*entity.Payment)}
}

func clonePayment(p *entity.Payment) *entity.Payment {
	c := *p
	return &c
}

func (r *fakePaymentRepo) Create(p *entity.Payment) error {
	r.nextID++
	p.ID = r.nextID
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	r.payments[p.ID] = clonePayment(p)
	return nil
}

func (r *fakePaymentRepo) GetByID(id int64) (*entity.Payment, error) {
	p, ok := r.payments[id]
	if !ok {
		return nil, nil
	}
	return clonePayment(p), nil
}

func (r *fakePaymentRepo) all() []*entity.Payment {
	out := make([]*entity.Payment, 0, len(r.payments))
	for _, p := range r.payments {
		out = append(out, clonePayment(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *fakePaymentRepo) List(limit, offset int) ([]*entity.Payment, error) {
	list := r.all()
	if offset >= len(list) {
		return nil, nil
	}
	list = list[offset:]
	if limit < len(list) {
		list = list[:limit]
	}
	return list, nil
}

func (r *fakePaymentRepo) ListByInvoice(invoiceID int64) ([]*entity.Payment, error) {
	var out []*entity.Payment
	for _, p := range r.all() {
		if p.InvoiceID == invoiceID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakePaymentRepo) ListByStudent(studentID int64, limit, offset int) ([]*entity.Payment, error) {
	return r.List(limit, offset)
}

func (r *fakePaymentRepo) ListByDateRange(from, to time.Time, limit, offset int) ([]*entity.Payment, error) {
	var out []*entity.Payment
	for _, p := range r.all() {
		if !p.PaymentDate.Before(from) && !p.PaymentDate.After(to) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakePaymentRepo) ListByMethod(method string, limit, offset int) ([]*entity.Payment, error) {
	var out []*entity.Payment
	for _, p := range r.all() {
		if p.PaymentMethod == method {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakePaymentRepo) Update(id int64, fields entity.PaymentUpdate) (*entity.Payment, error) {
	p, ok := r.payments[id]
	if !ok {
		return nil, nil
	}
	if fields.Amount != nil {
		p.Amount = *fields.Amount
	}
	if fields.PaymentDate != nil {
		p.PaymentDate = *fields.PaymentDate
	}
	if fields.PaymentMethod != nil {
		p.PaymentMethod = *fields.PaymentMethod
	}
	if fields.ReferenceNumber != nil {
		p.ReferenceNumber = *fields.ReferenceNumber
	}
	if fields.Notes != nil {
		p.Notes = *fields.Notes
	}
	if fields.IsConfirmed != nil {
		p.IsConfirmed = *fields.IsConfirmed
	}
	p.UpdatedAt = time.Now()
	return clonePayment(p), nil
}

func (r *fakePaymentRepo) Delete(id int64) (bool, error) {
	if _, ok := r.payments[id]; !ok {
		return false, nil
	}
	delete(r.payments, id)
	return true, nil
}

func (r *fakePaymentRepo) SumConfirmedByInvoice(invoiceID int64) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, p := range r.payments {
		if p.InvoiceID == invoiceID && p.IsConfirmed {
			sum = sum.Add(p.Amount)
		}
	}
	return sum, nil
}

func (r *fakePaymentRepo) SumConfirmedByInvoices(invoiceIDs []int64) (map[int64]decimal.Decimal, error) {
	out := make(map[int64]decimal.Decimal, len(invoiceIDs))
	for _, id := range invoiceIDs {
		sum, _ := r.SumConfirmedByInvoice(id)
		if !sum.IsZero() {
			out[id] = sum
		}
	}
	return out, nil
}

// ─── StudentRepository ───

type fakeStudentRepo struct {
	students map[int64]*entity.Student
}

var _ repository.StudentRepository = (*fakeStudentRepo)(nil)

func newFakeStudentRepo() *fakeStudentRepo {
	return &fakeStudentRepo{students: make(map[int64]*entity.Student)}
}

func (r *fakeStudentRepo) Create(s *entity.Student) error {
	r.students[s.ID] = s
	return nil
}

func (r *fakeStudentRepo) GetByID(id int64) (*entity.Student, error) {
	s, ok := r.students[id]
	if !ok {
		return nil, nil
	}
	c := *s
	return &c, nil
}

func (r *fakeStudentRepo) GetByCode(code string) (*entity.Student, error) {
	for _, s := range r.students {
		if s.StudentCode == code {
			c := *s
			return &c, nil
		}
	}
	return nil, nil
}

func (r *fakeStudentRepo) GetByEmail(email string) (*entity.Student, error) {
	for _, s := range r.students {
		if s.Email == email {
			c := *s
			return &c, nil
		}
	}
	return nil, nil
}

func (r *fakeStudentRepo) List(limit, offset int, activeOnly bool) ([]*entity.Student, error) {
	var out []*entity.Student
	for _, s := range r.students {
		if activeOnly && !s.IsActive {
			continue
		}
		c := *s
		out = append(out, &c)
	}
	return out, nil
}

func (r *fakeStudentRepo) ListBySchool(schoolID int64, limit, offset int, activeOnly bool) ([]*entity.Student, error) {
	var out []*entity.Student
	for _, s := range r.students {
		if s.SchoolID != schoolID || (activeOnly && !s.IsActive) {
			continue
		}
		c := *s
		out = append(out, &c)
	}
	return out, nil
}

func (r *fakeStudentRepo) SearchByName(name string, schoolID *int64, limit, offset int) ([]*entity.Student, error) {
	var out []*entity.Student
	for _, s := range r.students {
		if strings.Contains(s.FirstName, name) || strings.Contains(s.LastName, name) {
			c := *s
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *fakeStudentRepo) Update(id int64, fields entity.StudentUpdate) (*entity.Student, error) {
	s, ok := r.students[id]
	if !ok {
		return nil, nil
	}
	c := *s
	return &c, nil
}

func (r *fakeStudentRepo) Delete(id int64) (bool, error) {
	if _, ok := r.students[id]; !ok {
		return false, nil
	}
	delete(r.students, id)
	return true, nil
}

// ─── SchoolRepository ───

type fakeSchoolRepo struct {
	schools map[int64]*entity.School
}

var _ repository.SchoolRepository = (*fakeSchoolRepo)(nil)

func newFakeSchoolRepo() *fakeSchoolRepo {
	return &fakeSchoolRepo{schools: make(map[int64]*entity.School)}
}

func (r *fakeSchoolRepo) Create(s *entity.School) error {
	r.schools[s.ID] = s
	return nil
}

func (r *fakeSchoolRepo) GetByID(id int64) (*entity.School, error) {
	s, ok := r.schools[id]
	if !ok {
		return nil, nil
	}
	c := *s
	return &c, nil
}

func (r *fakeSchoolRepo) GetByEmail(email string) (*entity.School, error) {
	for _, s := range r.schools {
		if s.Email == email {
			c := *s
			return &c, nil
		}
	}
	return nil, nil
}

func (r *fakeSchoolRepo) List(limit, offset int, activeOnly bool) ([]*entity.School, error) {
	var out []*entity.School
	for _, s := range r.schools {
		if activeOnly && !s.IsActive {
			continue
		}
		c := *s
		out = append(out, &c)
	}
	return out, nil
}

func (r *fakeSchoolRepo) Update(id int64, fields entity.SchoolUpdate) (*entity.School, error) {
	s, ok := r.schools[id]
	if !ok {
		return nil, nil
	}
	c := *s
	return &c, nil
}

func (r *fakeSchoolRepo) Delete(id int64) (bool, error) {
	if _, ok := r.schools[id]; !ok {
		return false, nil
	}
	delete(r.schools, id)
	return true, nil
}

// ─── BillingTxRunner ───

// fakeTxRunner reproduce la semántica de transacción sobre los fakes:
// snapshot de ambos mapas antes de fn, restauración completa si fn falla.
type fakeTxRunner struct {
	invoices *fakeInvoiceRepo
	payments *fakePaymentRepo
}

var _ billing.BillingTxRunner = (*fakeTxRunner)(nil)

func (tx *fakeTxRunner) RunBilling(ctx context.Context, fn func(
	invoiceRepo repository.InvoiceRepository,
	paymentRepo repository.PaymentRepository,
) error) error {
	invSnap := make(map[int64]*entity.Invoice, len(tx.invoices.invoices))
	for id, inv := range tx.invoices.invoices {
		invSnap[id] = cloneInvoice(inv)
	}
	paySnap := make(map[int64]*entity.Payment, len(tx.payments.payments))
	for id, p := range tx.payments.payments {
		paySnap[id] = clonePayment(p)
	}

	if err := fn(tx.invoices, tx.payments); err != nil {
		tx.invoices.invoices = invSnap
		tx.payments.payments = paySnap
		return err
	}
	return nil
}

// ─── Arnés completo ───

type billingHarness struct {
	invoices  *fakeInvoiceRepo
	payments  *fakePaymentRepo
	students  *fakeStudentRepo
	schools   *fakeSchoolRepo
	invoiceUC *billing.InvoiceUseCase
	paymentUC *billing.PaymentUseCase
}

func newBillingHarness() *billingHarness {
	invoices := newFakeInvoiceRepo()
	payments := newFakePaymentRepo()
	invoices.payments = payments
	students := newFakeStudentRepo()
	schools := newFakeSchoolRepo()
	locks := billing.NewInvoiceLockSet()
	tx := &fakeTxRunner{invoices: invoices, payments: payments}

	students.students[1] = &entity.Student{
		ID: 1, FirstName: "María", LastName: "Gómez",
		StudentCode: "EST-0001", IsActive: true, SchoolID: 1,
	}
	students.students[2] = &entity.Student{
		ID: 2, FirstName: "Pedro", LastName: "Ruiz",
		StudentCode: "EST-0002", IsActive: false, SchoolID: 1,
	}
	schools.schools[1] = &entity.School{ID: 1, Name: "Colegio San José", IsActive: true}

	return &billingHarness{
		invoices:  invoices,
		payments:  payments,
		students:  students,
		schools:   schools,
		invoiceUC: billing.NewInvoiceUseCase(invoices, payments, students, locks),
		paymentUC: billing.NewPaymentUseCase(tx, invoices, payments, locks),
	}
}

// seedInvoice inserta una factura directamente en el fake, sin pasar por el
// caso de uso, para armar el estado inicial de cada escenario.
func (h *billingHarness) seedInvoice(amount, status string, due time.Time) *entity.Invoice {
	inv := &entity.Invoice{
		Amount:      dec(amount),
		IssueDate:   day(2026, 2, 1),
		DueDate:     due,
		Status:      status,
		InvoiceType: entity.InvoiceTypeTuition,
		StudentID:   1,
	}
	inv.InvoiceNumber = fmt.Sprintf("INV-20260201-SEED%04d", h.invoices.nextID+1)
	if err := h.invoices.Create(inv); err != nil {
		panic(err)
	}
	return inv
}
