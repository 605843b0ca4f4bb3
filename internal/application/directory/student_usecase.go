package directory

import (
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/Matricula-api/internal/application/dto"
	"github.com/jhoicas/Matricula-api/internal/domain"
	"github.com/jhoicas/Matricula-api/internal/domain/entity"
	"github.com/jhoicas/Matricula-api/internal/domain/repository"
)

// StudentUseCase casos de uso CRUD para estudiantes: matrícula, búsqueda,
// desactivación y traslado entre colegios.
type StudentUseCase struct {
	studentRepo repository.StudentRepository
	schoolRepo  repository.SchoolRepository
}

// NewStudentUseCase construye el caso de uso.
func NewStudentUseCase(studentRepo repository.StudentRepository, schoolRepo repository.SchoolRepository) *StudentUseCase {
	return &StudentUseCase{studentRepo: studentRepo, schoolRepo: schoolRepo}
}

// Create matricula un estudiante en un colegio activo. El código de
// estudiante es único global; el email, si viene, también.
func (uc *StudentUseCase) Create(in dto.CreateStudentRequest) (*dto.StudentResponse, error) {
	// ── 1. Validaciones básicas ───────────────────────────────────────────────
	if strings.TrimSpace(in.FirstName) == "" || strings.TrimSpace(in.LastName) == "" {
		return nil, fmt.Errorf("nombre y apellido requeridos: %w", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(in.StudentCode) == "" {
		return nil, fmt.Errorf("código de estudiante requerido: %w", domain.ErrInvalidInput)
	}
	if in.EnrollmentDate.IsZero() {
		return nil, fmt.Errorf("fecha de matrícula requerida: %w", domain.ErrInvalidInput)
	}

	// ── 2. Colegio destino debe existir y estar activo ────────────────────────
	school, err := uc.schoolRepo.GetByID(in.SchoolID)
	if err != nil {
		return nil, err
	}
	if school == nil {
		return nil, fmt.Errorf("colegio %d: %w", in.SchoolID, domain.ErrNotFound)
	}
	if !school.IsActive {
		return nil, fmt.Errorf("colegio %d inactivo: %w", in.SchoolID, domain.ErrInvalidState)
	}

	// ── 3. Unicidad de código y email ─────────────────────────────────────────
	if existing, err := uc.studentRepo.GetByCode(in.StudentCode); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, fmt.Errorf("código %s ya registrado: %w", in.StudentCode, domain.ErrDuplicate)
	}
	if in.Email != "" {
		if existing, err := uc.studentRepo.GetByEmail(in.Email); err != nil {
			return nil, err
		} else if existing != nil {
			return nil, fmt.Errorf("email %s ya registrado: %w", in.Email, domain.ErrDuplicate)
		}
	}

	// ── 4. Persistir ──────────────────────────────────────────────────────────
	student := &entity.Student{
		FirstName:      strings.TrimSpace(in.FirstName),
		LastName:       strings.TrimSpace(in.LastName),
		Email:          in.Email,
		Phone:          in.Phone,
		StudentCode:    strings.TrimSpace(in.StudentCode),
		EnrollmentDate: in.EnrollmentDate,
		BirthDate:      in.BirthDate,
		IsActive:       true,
		SchoolID:       in.SchoolID,
	}
	if err := uc.studentRepo.Create(student); err != nil {
		return nil, err
	}
	return toStudentResponse(student), nil
}

// GetByID obtiene un estudiante por ID.
func (uc *StudentUseCase) GetByID(id int64) (*dto.StudentResponse, error) {
	student, err := uc.studentRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if student == nil {
		return nil, fmt.Errorf("estudiante %d: %w", id, domain.ErrNotFound)
	}
	return toStudentResponse(student), nil
}

// GetByCode obtiene un estudiante por su código institucional.
func (uc *StudentUseCase) GetByCode(code string) (*dto.StudentResponse, error) {
	student, err := uc.studentRepo.GetByCode(code)
	if err != nil {
		return nil, err
	}
	if student == nil {
		return nil, fmt.Errorf("estudiante código %s: %w", code, domain.ErrNotFound)
	}
	return toStudentResponse(student), nil
}

// List lista estudiantes con paginación.
func (uc *StudentUseCase) List(page dto.PageRequest, activeOnly bool) ([]dto.StudentResponse, error) {
	page.DefaultPage()
	list, err := uc.studentRepo.List(page.Limit, page.Offset, activeOnly)
	if err != nil {
		return nil, err
	}
	return toStudentResponses(list), nil
}

// ListBySchool lista los estudiantes de un colegio.
func (uc *StudentUseCase) ListBySchool(schoolID int64, page dto.PageRequest, activeOnly bool) ([]dto.StudentResponse, error) {
	school, err := uc.schoolRepo.GetByID(schoolID)
	if err != nil {
		return nil, err
	}
	if school == nil {
		return nil, fmt.Errorf("colegio %d: %w", schoolID, domain.ErrNotFound)
	}
	page.DefaultPage()
	list, err := uc.studentRepo.ListBySchool(schoolID, page.Limit, page.Offset, activeOnly)
	if err != nil {
		return nil, err
	}
	return toStudentResponses(list), nil
}

// SearchByName busca estudiantes por coincidencia parcial de nombre o
// apellido; schoolID opcional restringe la búsqueda a un colegio.
func (uc *StudentUseCase) SearchByName(name string, schoolID *int64, page dto.PageRequest) ([]dto.StudentResponse, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("término de búsqueda requerido: %w", domain.ErrInvalidInput)
	}
	page.DefaultPage()
	list, err := uc.studentRepo.SearchByName(name, schoolID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	return toStudentResponses(list), nil
}

// Update actualiza parcialmente un estudiante. Un cambio de colegio se trata
// como traslado y exige que el colegio destino exista y esté activo.
func (uc *StudentUseCase) Update(id int64, in dto.UpdateStudentRequest) (*dto.StudentResponse, error) {
	if in.FirstName != nil && strings.TrimSpace(*in.FirstName) == "" {
		return nil, fmt.Errorf("nombre no puede quedar vacío: %w", domain.ErrInvalidInput)
	}
	if in.LastName != nil && strings.TrimSpace(*in.LastName) == "" {
		return nil, fmt.Errorf("apellido no puede quedar vacío: %w", domain.ErrInvalidInput)
	}
	if in.Email != nil && *in.Email != "" {
		existing, err := uc.studentRepo.GetByEmail(*in.Email)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != id {
			return nil, fmt.Errorf("email %s ya registrado: %w", *in.Email, domain.ErrDuplicate)
		}
	}
	if in.SchoolID != nil {
		school, err := uc.schoolRepo.GetByID(*in.SchoolID)
		if err != nil {
			return nil, err
		}
		if school == nil {
			return nil, fmt.Errorf("colegio %d: %w", *in.SchoolID, domain.ErrNotFound)
		}
		if !school.IsActive {
			return nil, fmt.Errorf("colegio %d inactivo: %w", *in.SchoolID, domain.ErrInvalidState)
		}
	}
	student, err := uc.studentRepo.Update(id, entity.StudentUpdate{
		FirstName:      in.FirstName,
		LastName:       in.LastName,
		Email:          in.Email,
		Phone:          in.Phone,
		EnrollmentDate: in.EnrollmentDate,
		BirthDate:      in.BirthDate,
		IsActive:       in.IsActive,
		SchoolID:       in.SchoolID,
	})
	if err != nil {
		return nil, err
	}
	if student == nil {
		return nil, fmt.Errorf("estudiante %d: %w", id, domain.ErrNotFound)
	}
	return toStudentResponse(student), nil
}

// Transfer traslada un estudiante a otro colegio activo. La fecha de
// matrícula se reinicia a la fecha del traslado; las facturas existentes
// conservan el historial vía el estudiante.
func (uc *StudentUseCase) Transfer(id, schoolID int64) (*dto.StudentResponse, error) {
	y, m, d := time.Now().Date()
	enrolled := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return uc.Update(id, dto.UpdateStudentRequest{SchoolID: &schoolID, EnrollmentDate: &enrolled})
}

// Deactivate marca el estudiante como retirado sin borrar sus facturas.
func (uc *StudentUseCase) Deactivate(id int64) (*dto.StudentResponse, error) {
	inactive := false
	return uc.Update(id, dto.UpdateStudentRequest{IsActive: &inactive})
}

// Delete elimina un estudiante. Falla si tiene facturas; en ese caso debe
// desactivarse para conservar el historial.
func (uc *StudentUseCase) Delete(id int64) error {
	deleted, err := uc.studentRepo.Delete(id)
	if err != nil {
		return err
	}
	if !deleted {
		return fmt.Errorf("estudiante %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

func toStudentResponse(s *entity.Student) *dto.StudentResponse {
	if s == nil {
		return nil
	}
	return &dto.StudentResponse{
		ID:             s.ID,
		FirstName:      s.FirstName,
		LastName:       s.LastName,
		FullName:       s.FullName(),
		Email:          s.Email,
		Phone:          s.Phone,
		StudentCode:    s.StudentCode,
		EnrollmentDate: s.EnrollmentDate,
		BirthDate:      s.BirthDate,
		IsActive:       s.IsActive,
		SchoolID:       s.SchoolID,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
	}
}

func toStudentResponses(list []*entity.Student) []dto.StudentResponse {
	items := make([]dto.StudentResponse, 0, len(list))
	for _, s := range list {
		items = append(items, *toStudentResponse(s))
	}
	return items
}
