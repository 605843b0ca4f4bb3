package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Matricula-api/internal/application/auth"
	"github.com/jhoicas/Matricula-api/internal/application/billing"
	"github.com/jhoicas/Matricula-api/internal/application/directory"
	"github.com/jhoicas/Matricula-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	SchoolUC    *directory.SchoolUseCase
	StudentUC   *directory.StudentUseCase
	InvoiceUC   *billing.InvoiceUseCase
	PaymentUC   *billing.PaymentUseCase
	StatementUC *billing.StatementUseCase
	InvoicePDF  *billing.PDFUseCase
	AuthUC      *auth.AuthUseCase
	JWTSecret   string
}

// Router registra las rutas de la API.
//
// RBAC: la secretaría administra el directorio, tesorería los ledgers de
// facturación; admin puede todo. Las lecturas quedan abiertas a cualquier
// usuario autenticado.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	directoryWrite := RequireRole(entity.RoleAdmin, entity.RoleSecretaria)
	billingWrite := RequireRole(entity.RoleAdmin, entity.RoleTesorero)
	adminOnly := RequireRole(entity.RoleAdmin)

	// Schools (directorio)
	schools := protected.Group("/schools")
	schoolHandler := NewSchoolHandler(deps.SchoolUC)
	studentHandler := NewStudentHandler(deps.StudentUC)
	invoiceHandler := NewInvoiceHandler(deps.InvoiceUC, deps.InvoicePDF)
	paymentHandler := NewPaymentHandler(deps.PaymentUC)
	statementHandler := NewStatementHandler(deps.StatementUC)

	schools.Post("/", directoryWrite, schoolHandler.Create)
	schools.Get("/", schoolHandler.List)
	schools.Get("/:id", schoolHandler.GetByID)
	schools.Put("/:id", directoryWrite, schoolHandler.Update)
	schools.Post("/:id/deactivate", directoryWrite, schoolHandler.Deactivate)
	schools.Delete("/:id", adminOnly, schoolHandler.Delete)
	schools.Get("/:id/students", studentHandler.ListBySchool)
	schools.Get("/:id/invoices", invoiceHandler.ListBySchool)
	schools.Get("/:id/statement", statementHandler.SchoolStatement)

	// Students (directorio)
	students := protected.Group("/students")
	students.Post("/", directoryWrite, studentHandler.Create)
	students.Get("/", studentHandler.List)
	students.Get("/code/:code", studentHandler.GetByCode)
	students.Get("/:id", studentHandler.GetByID)
	students.Put("/:id", directoryWrite, studentHandler.Update)
	students.Post("/:id/transfer", directoryWrite, studentHandler.Transfer)
	students.Post("/:id/deactivate", directoryWrite, studentHandler.Deactivate)
	students.Delete("/:id", adminOnly, studentHandler.Delete)
	students.Get("/:id/invoices", invoiceHandler.ListByStudent)
	students.Get("/:id/payments", paymentHandler.ListByStudent)
	students.Get("/:id/statement", statementHandler.StudentStatement)

	// Invoices (facturación)
	invoices := protected.Group("/invoices")
	invoices.Post("/", billingWrite, invoiceHandler.Create)
	invoices.Get("/", invoiceHandler.List)
	invoices.Get("/number/:number", invoiceHandler.GetByNumber)
	invoices.Get("/:id", invoiceHandler.GetByID)
	invoices.Put("/:id", billingWrite, invoiceHandler.Update)
	invoices.Post("/:id/mark-paid", billingWrite, invoiceHandler.MarkPaid)
	invoices.Post("/:id/cancel", billingWrite, invoiceHandler.Cancel)
	invoices.Delete("/:id", billingWrite, invoiceHandler.Delete)
	invoices.Get("/:id/payments", paymentHandler.ListByInvoice)
	invoices.Get("/:id/pdf", invoiceHandler.DownloadPDF)

	// Payments (facturación)
	payments := protected.Group("/payments")
	payments.Post("/", billingWrite, paymentHandler.Create)
	payments.Get("/", paymentHandler.List)
	payments.Get("/:id", paymentHandler.GetByID)
	payments.Put("/:id", billingWrite, paymentHandler.Update)
	payments.Post("/:id/confirm", billingWrite, paymentHandler.Confirm)
	payments.Post("/:id/reject", billingWrite, paymentHandler.Reject)
	payments.Delete("/:id", billingWrite, paymentHandler.Delete)
}
