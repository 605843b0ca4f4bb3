package http

import (
	"github.com/gofiber/fiber/v2"
	appbilling "github.com/jhoicas/Matricula-api/internal/application/billing"
	"github.com/jhoicas/Matricula-api/internal/application/dto"
)

// InvoiceHandler maneja las peticiones HTTP del ciclo de vida de facturas.
type InvoiceHandler struct {
	uc    *appbilling.InvoiceUseCase
	pdfUC *appbilling.PDFUseCase
}

// NewInvoiceHandler construye el handler.
func NewInvoiceHandler(uc *appbilling.InvoiceUseCase, pdfUC *appbilling.PDFUseCase) *InvoiceHandler {
	return &InvoiceHandler{uc: uc, pdfUC: pdfUC}
}

// Create POST /api/invoices
func (h *InvoiceHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateInvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	inv, err := h.uc.CreateInvoice(c.Context(), in)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(inv)
}

// GetByID GET /api/invoices/:id
func (h *InvoiceHandler) GetByID(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id inválido"})
	}
	inv, err := h.uc.GetInvoice(c.Context(), id)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(inv)
}

// GetByNumber GET /api/invoices/number/:number
func (h *InvoiceHandler) GetByNumber(c *fiber.Ctx) error {
	number := c.Params("number")
	if number == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "número requerido"})
	}
	inv, err := h.uc.GetInvoiceByNumber(c.Context(), number)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(inv)
}

// List GET /api/invoices
// Filtros combinables vía query: status, overdue=true, from/to (emisión).
func (h *InvoiceHandler) List(c *fiber.Ctx) error {
	page := pageFromQuery(c)
	ctx := c.Context()

	if c.QueryBool("overdue") {
		list, err := h.uc.ListOverdue(ctx, page.Limit, page.Offset)
		if err != nil {
			return respondDomainError(c, err)
		}
		return c.JSON(list)
	}
	if status := c.Query("status"); status != "" {
		list, err := h.uc.ListByStatus(ctx, status, page.Limit, page.Offset)
		if err != nil {
			return respondDomainError(c, err)
		}
		return c.JSON(list)
	}
	if from, ok := dateFromQuery(c, "from"); ok {
		to, ok := dateFromQuery(c, "to")
		if !ok {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from y to van juntos (YYYY-MM-DD)"})
		}
		list, err := h.uc.ListByDateRange(ctx, from, to, page.Limit, page.Offset)
		if err != nil {
			return respondDomainError(c, err)
		}
		return c.JSON(list)
	}
	list, err := h.uc.ListInvoices(ctx, page.Limit, page.Offset)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(list)
}

// ListByStudent GET /api/students/:id/invoices
func (h *InvoiceHandler) ListByStudent(c *fiber.Ctx) error {
	studentID, ok := paramID(c, "id")
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id inválido"})
	}
	page := pageFromQuery(c)
	list, err := h.uc.ListByStudent(c.Context(), studentID, page.Limit, page.Offset)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(list)
}

// ListBySchool GET /api/schools/:id/invoices
func (h *InvoiceHandler) ListBySchool(c *fiber.Ctx) error {
	schoolID, ok := paramID(c, "id")
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id inválido"})
	}
	page := pageFromQuery(c)
	list, err := h.uc.ListBySchool(c.Context(), schoolID, page.Limit, page.Offset)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(list)
}

// Update PUT /api/invoices/:id
func (h *InvoiceHandler) Update(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id inválido"})
	}
	var in dto.UpdateInvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	inv, err := h.uc.UpdateInvoice(c.Context(), id, in)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(inv)
}

// MarkPaid POST /api/invoices/:id/mark-paid
func (h *InvoiceHandler) MarkPaid(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id inválido"})
	}
	var in dto.MarkPaidRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
		}
	}
	inv, err := h.uc.MarkPaid(c.Context(), id, in.PaidDate)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(inv)
}

// Cancel POST /api/invoices/:id/cancel
func (h *InvoiceHandler) Cancel(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id inválido"})
	}
	inv, err := h.uc.CancelInvoice(c.Context(), id)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(inv)
}

// Delete DELETE /api/invoices/:id
func (h *InvoiceHandler) Delete(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id inválido"})
	}
	if err := h.uc.DeleteInvoice(c.Context(), id); err != nil {
		return respondDomainError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// DownloadPDF GET /api/invoices/:id/pdf
func (h *InvoiceHandler) DownloadPDF(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id inválido"})
	}
	pdfBytes, filename, err := h.pdfUC.DownloadInvoicePDF(c.Context(), id)
	if err != nil {
		return respondDomainError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(pdfBytes)
}
