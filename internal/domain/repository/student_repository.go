package repository

import "github.com/jhoicas/Matricula-api/internal/domain/entity"

// StudentRepository define el puerto de persistencia para Student (directorio).
// El motor de conciliación solo lee existencia, nombre, colegio y el flag
// IsActive; la propiedad del estudiante es del directorio.
type StudentRepository interface {
	Create(student *entity.Student) error
	// GetByID devuelve nil, nil si el estudiante no existe.
	GetByID(id int64) (*entity.Student, error)
	GetByCode(code string) (*entity.Student, error)
	GetByEmail(email string) (*entity.Student, error)
	List(limit, offset int, activeOnly bool) ([]*entity.Student, error)
	ListBySchool(schoolID int64, limit, offset int, activeOnly bool) ([]*entity.Student, error)
	// SearchByName busca por coincidencia parcial en nombre o apellido;
	// schoolID opcional restringe al colegio.
	SearchByName(name string, schoolID *int64, limit, offset int) ([]*entity.Student, error)
	Update(id int64, fields entity.StudentUpdate) (*entity.Student, error)
	Delete(id int64) (bool, error)
}
