package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Matricula-api/internal/application/directory"
	"github.com/jhoicas/Matricula-api/internal/application/dto"
)

// StudentHandler maneja las peticiones HTTP del directorio de estudiantes.
type StudentHandler struct {
	uc *directory.StudentUseCase
}

// NewStudentHandler construye el handler.
func NewStudentHandler(uc *directory.StudentUseCase) *StudentHandler {
	return &StudentHandler{uc: uc}
}

// Create POST /api/students
func (h *StudentHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateStudentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	student, err := h.uc.Create(in)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(student)
}

// GetByID GET /api/students/:id
func (h *StudentHandler) GetByID(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id inválido"})
	}
	student, err := h.uc.GetByID(id)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(student)
}

// GetByCode GET /api/students/code/:code
func (h *StudentHandler) GetByCode(c *fiber.Ctx) error {
	code := c.Params("code")
	if code == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "código requerido"})
	}
	student, err := h.uc.GetByCode(code)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(student)
}

// List GET /api/students?limit=100&offset=0&active_only=true
// Con ?name= busca por coincidencia parcial; school_id opcional la restringe.
func (h *StudentHandler) List(c *fiber.Ctx) error {
	if name := c.Query("name"); name != "" {
		var schoolID *int64
		if id := c.QueryInt("school_id"); id > 0 {
			v := int64(id)
			schoolID = &v
		}
		list, err := h.uc.SearchByName(name, schoolID, pageFromQuery(c))
		if err != nil {
			return respondDomainError(c, err)
		}
		return c.JSON(list)
	}
	list, err := h.uc.List(pageFromQuery(c), c.QueryBool("active_only"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(list)
}

// ListBySchool GET /api/schools/:id/students
func (h *StudentHandler) ListBySchool(c *fiber.Ctx) error {
	schoolID, ok := paramID(c, "id")
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id inválido"})
	}
	list, err := h.uc.ListBySchool(schoolID, pageFromQuery(c), c.QueryBool("active_only"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(list)
}

// Update PUT /api/students/:id
func (h *StudentHandler) Update(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id inválido"})
	}
	var in dto.UpdateStudentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	student, err := h.uc.Update(id, in)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(student)
}

// Transfer POST /api/students/:id/transfer
func (h *StudentHandler) Transfer(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id inválido"})
	}
	var in struct {
		SchoolID int64 `json:"school_id"`
	}
	if err := c.BodyParser(&in); err != nil || in.SchoolID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "school_id requerido"})
	}
	student, err := h.uc.Transfer(id, in.SchoolID)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(student)
}

// Deactivate POST /api/students/:id/deactivate
func (h *StudentHandler) Deactivate(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id inválido"})
	}
	student, err := h.uc.Deactivate(id)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(student)
}

// Delete DELETE /api/students/:id
func (h *StudentHandler) Delete(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id inválido"})
	}
	if err := h.uc.Delete(id); err != nil {
		return respondDomainError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
