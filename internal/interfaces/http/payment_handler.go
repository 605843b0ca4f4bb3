package http

import (
	"github.com/gofiber/fiber/v2"
	appbilling "github.com/jhoicas/Matricula-api/internal/application/billing"
	"github.com/jhoicas/Matricula-api/internal/application/dto"
)

// PaymentHandler maneja las peticiones HTTP de pagos.
type PaymentHandler struct {
	uc *appbilling.PaymentUseCase
}

// NewPaymentHandler construye el handler.
func NewPaymentHandler(uc *appbilling.PaymentUseCase) *PaymentHandler {
	return &PaymentHandler{uc: uc}
}

// Create POST /api/payments
func (h *PaymentHandler) Create(c *fiber.Ctx) error {
	var in dto.CreatePaymentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.InvoiceID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "invoice_id requerido"})
	}
	p, err := h.uc.RecordPayment(c.Context(), in)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(p)
}

// GetByID GET /api/payments/:id
func (h *PaymentHandler) GetByID(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id inválido"})
	}
	p, err := h.uc.GetPayment(c.Context(), id)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(p)
}

// List GET /api/payments
// Filtros vía query: method, from/to (fecha de pago).
func (h *PaymentHandler) List(c *fiber.Ctx) error {
	page := pageFromQuery(c)
	ctx := c.Context()

	if method := c.Query("method"); method != "" {
		list, err := h.uc.ListByMethod(ctx, method, page.Limit, page.Offset)
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
	list, err := h.uc.ListPayments(ctx, page.Limit, page.Offset)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(list)
}

// ListByInvoice GET /api/invoices/:id/payments
func (h *PaymentHandler) ListByInvoice(c *fiber.Ctx) error {
	invoiceID, ok := paramID(c, "id")
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id inválido"})
	}
	list, err := h.uc.ListByInvoice(c.Context(), invoiceID)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(list)
}

// ListByStudent GET /api/students/:id/payments
func (h *PaymentHandler) ListByStudent(c *fiber.Ctx) error {
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

// Update PUT /api/payments/:id
func (h *PaymentHandler) Update(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id inválido"})
	}
	var in dto.UpdatePaymentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	p, err := h.uc.UpdatePayment(c.Context(), id, in)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(p)
}

// Confirm POST /api/payments/:id/confirm
func (h *PaymentHandler) Confirm(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id inválido"})
	}
	p, err := h.uc.ConfirmPayment(c.Context(), id)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(p)
}

// Reject POST /api/payments/:id/reject
func (h *PaymentHandler) Reject(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id inválido"})
	}
	var in dto.RejectPaymentRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
		}
	}
	p, err := h.uc.RejectPayment(c.Context(), id, in.Reason)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(p)
}

// Delete DELETE /api/payments/:id
func (h *PaymentHandler) Delete(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id inválido"})
	}
	if err := h.uc.DeletePayment(c.Context(), id); err != nil {
		return respondDomainError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
