package repository

import "github.com/jhoicas/Matricula-api/internal/domain/entity"

// SchoolRepository define el puerto de persistencia para School (directorio).
type SchoolRepository interface {
	// Create persiste el colegio y asigna el ID generado por la base.
	Create(school *entity.School) error
	// GetByID devuelve nil, nil si el colegio no existe.
	GetByID(id int64) (*entity.School, error)
	GetByEmail(email string) (*entity.School, error)
	List(limit, offset int, activeOnly bool) ([]*entity.School, error)
	// Update aplica solo los campos no nil y devuelve la fila resultante,
	// o nil si el colegio no existe.
	Update(id int64, fields entity.SchoolUpdate) (*entity.School, error)
	// Delete devuelve false si el colegio no existía.
	Delete(id int64) (bool, error)
}
