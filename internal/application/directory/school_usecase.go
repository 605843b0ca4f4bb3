package directory

import (
	"fmt"
	"strings"

	"github.com/jhoicas/Matricula-api/internal/application/dto"
	"github.com/jhoicas/Matricula-api/internal/domain"
	"github.com/jhoicas/Matricula-api/internal/domain/entity"
	"github.com/jhoicas/Matricula-api/internal/domain/repository"
)

// SchoolUseCase casos de uso CRUD para colegios.
type SchoolUseCase struct {
	schoolRepo  repository.SchoolRepository
	studentRepo repository.StudentRepository
}

// NewSchoolUseCase construye el caso de uso.
func NewSchoolUseCase(schoolRepo repository.SchoolRepository, studentRepo repository.StudentRepository) *SchoolUseCase {
	return &SchoolUseCase{schoolRepo: schoolRepo, studentRepo: studentRepo}
}

// Create registra un nuevo colegio. El email, si viene, debe ser único.
func (uc *SchoolUseCase) Create(in dto.CreateSchoolRequest) (*dto.SchoolResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("nombre del colegio requerido: %w", domain.ErrInvalidInput)
	}
	if in.Email != "" {
		existing, err := uc.schoolRepo.GetByEmail(in.Email)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, fmt.Errorf("email %s ya registrado: %w", in.Email, domain.ErrDuplicate)
		}
	}
	school := &entity.School{
		Name:     name,
		Address:  in.Address,
		Phone:    in.Phone,
		Email:    in.Email,
		IsActive: true,
	}
	if err := uc.schoolRepo.Create(school); err != nil {
		return nil, err
	}
	return toSchoolResponse(school), nil
}

// GetByID obtiene un colegio por ID.
func (uc *SchoolUseCase) GetByID(id int64) (*dto.SchoolResponse, error) {
	school, err := uc.schoolRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if school == nil {
		return nil, fmt.Errorf("colegio %d: %w", id, domain.ErrNotFound)
	}
	return toSchoolResponse(school), nil
}

// List lista colegios con paginación. activeOnly filtra los desactivados.
func (uc *SchoolUseCase) List(page dto.PageRequest, activeOnly bool) ([]dto.SchoolResponse, error) {
	page.DefaultPage()
	list, err := uc.schoolRepo.List(page.Limit, page.Offset, activeOnly)
	if err != nil {
		return nil, err
	}
	items := make([]dto.SchoolResponse, 0, len(list))
	for _, s := range list {
		items = append(items, *toSchoolResponse(s))
	}
	return items, nil
}

// Update actualiza parcialmente un colegio.
func (uc *SchoolUseCase) Update(id int64, in dto.UpdateSchoolRequest) (*dto.SchoolResponse, error) {
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return nil, fmt.Errorf("nombre del colegio no puede quedar vacío: %w", domain.ErrInvalidInput)
	}
	if in.Email != nil && *in.Email != "" {
		existing, err := uc.schoolRepo.GetByEmail(*in.Email)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != id {
			return nil, fmt.Errorf("email %s ya registrado: %w", *in.Email, domain.ErrDuplicate)
		}
	}
	school, err := uc.schoolRepo.Update(id, entity.SchoolUpdate{
		Name:     in.Name,
		Address:  in.Address,
		Phone:    in.Phone,
		Email:    in.Email,
		IsActive: in.IsActive,
	})
	if err != nil {
		return nil, err
	}
	if school == nil {
		return nil, fmt.Errorf("colegio %d: %w", id, domain.ErrNotFound)
	}
	return toSchoolResponse(school), nil
}

// Deactivate marca el colegio como inactivo sin borrar su historial.
func (uc *SchoolUseCase) Deactivate(id int64) (*dto.SchoolResponse, error) {
	inactive := false
	school, err := uc.schoolRepo.Update(id, entity.SchoolUpdate{IsActive: &inactive})
	if err != nil {
		return nil, err
	}
	if school == nil {
		return nil, fmt.Errorf("colegio %d: %w", id, domain.ErrNotFound)
	}
	return toSchoolResponse(school), nil
}

// Delete elimina un colegio. Solo se permite si no tiene estudiantes; de lo
// contrario debe desactivarse para conservar el historial de facturación.
func (uc *SchoolUseCase) Delete(id int64) error {
	students, err := uc.studentRepo.ListBySchool(id, 1, 0, false)
	if err != nil {
		return err
	}
	if len(students) > 0 {
		return fmt.Errorf("colegio %d tiene estudiantes, desactívelo en su lugar: %w", id, domain.ErrInvalidState)
	}
	deleted, err := uc.schoolRepo.Delete(id)
	if err != nil {
		return err
	}
	if !deleted {
		return fmt.Errorf("colegio %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

func toSchoolResponse(s *entity.School) *dto.SchoolResponse {
	if s == nil {
		return nil
	}
	return &dto.SchoolResponse{
		ID:        s.ID,
		Name:      s.Name,
		Address:   s.Address,
		Phone:     s.Phone,
		Email:     s.Email,
		IsActive:  s.IsActive,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}
