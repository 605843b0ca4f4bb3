package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Matricula-api/internal/application/directory"
	"github.com/jhoicas/Matricula-api/internal/application/dto"
)

// SchoolHandler maneja las peticiones HTTP del directorio de colegios.
type SchoolHandler struct {
	uc *directory.SchoolUseCase
}

// NewSchoolHandler construye el handler.
func NewSchoolHandler(uc *directory.SchoolUseCase) *SchoolHandler {
	return &SchoolHandler{uc: uc}
}

// Create POST /api/schools
func (h *SchoolHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSchoolRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	school, err := h.uc.Create(in)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(school)
}

// GetByID GET /api/schools/:id
func (h *SchoolHandler) GetByID(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id inválido"})
	}
	school, err := h.uc.GetByID(id)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(school)
}

// List GET /api/schools?limit=100&offset=0&active_only=true
func (h *SchoolHandler) List(c *fiber.Ctx) error {
	list, err := h.uc.List(pageFromQuery(c), c.QueryBool("active_only"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(list)
}

// Update PUT /api/schools/:id
func (h *SchoolHandler) Update(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id inválido"})
	}
	var in dto.UpdateSchoolRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	school, err := h.uc.Update(id, in)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(school)
}

// Deactivate POST /api/schools/:id/deactivate
func (h *SchoolHandler) Deactivate(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id inválido"})
	}
	school, err := h.uc.Deactivate(id)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(school)
}

// Delete DELETE /api/schools/:id
func (h *SchoolHandler) Delete(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id inválido"})
	}
	if err := h.uc.Delete(id); err != nil {
		return respondDomainError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
