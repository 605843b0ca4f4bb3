package http

import (
	"github.com/gofiber/fiber/v2"
	appbilling "github.com/jhoicas/Matricula-api/internal/application/billing"
	"github.com/jhoicas/Matricula-api/internal/application/dto"
)

// StatementHandler maneja los estados de cuenta (solo lectura).
type StatementHandler struct {
	uc *appbilling.StatementUseCase
}

// NewStatementHandler construye el handler.
func NewStatementHandler(uc *appbilling.StatementUseCase) *StatementHandler {
	return &StatementHandler{uc: uc}
}

// StudentStatement GET /api/students/:id/statement
func (h *StatementHandler) StudentStatement(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id inválido"})
	}
	statement, err := h.uc.StudentStatement(c.Context(), id)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(statement)
}

// SchoolStatement GET /api/schools/:id/statement
func (h *StatementHandler) SchoolStatement(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id inválido"})
	}
	statement, err := h.uc.SchoolStatement(c.Context(), id)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(statement)
}
