package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Matricula-api/internal/domain"
	"github.com/jhoicas/Matricula-api/internal/domain/entity"
	"github.com/jhoicas/Matricula-api/internal/domain/repository"
)

var _ repository.SchoolRepository = (*SchoolRepo)(nil)

// SchoolRepo implementación de SchoolRepository (usable con pool o tx).
type SchoolRepo struct {
	q Querier
}

// NewSchoolRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSchoolRepository(q Querier) *SchoolRepo {
	return &SchoolRepo{q: q}
}

const schoolColumns = `id, name, address, phone, email, is_active, created_at, updated_at`

func scanSchool(row pgx.Row) (*entity.School, error) {
	var s entity.School
	err := row.Scan(&s.ID, &s.Name, &s.Address, &s.Phone, &s.Email, &s.IsActive, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Create persiste un nuevo colegio y asigna el ID generado por la base.
func (r *SchoolRepo) Create(school *entity.School) error {
	query := `
		INSERT INTO schools (name, address, phone, email, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`
	err := r.q.QueryRow(context.Background(), query,
		school.Name, school.Address, school.Phone, school.Email, school.IsActive,
	).Scan(&school.ID, &school.CreatedAt, &school.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("insert school: %w", domain.ErrDuplicate)
		}
		return fmt.Errorf("insert school: %w", err)
	}
	return nil
}

// GetByID obtiene un colegio por ID. Devuelve nil, nil si no existe.
func (r *SchoolRepo) GetByID(id int64) (*entity.School, error) {
	query := `SELECT ` + schoolColumns + ` FROM schools WHERE id = $1`
	s, err := scanSchool(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get school: %w", err)
	}
	return s, nil
}

// GetByEmail obtiene un colegio por email. Devuelve nil, nil si no existe.
func (r *SchoolRepo) GetByEmail(email string) (*entity.School, error) {
	query := `SELECT ` + schoolColumns + ` FROM schools WHERE email = $1`
	s, err := scanSchool(r.q.QueryRow(context.Background(), query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get school by email: %w", err)
	}
	return s, nil
}

// List lista colegios con paginación, opcionalmente solo activos.
func (r *SchoolRepo) List(limit, offset int, activeOnly bool) ([]*entity.School, error) {
	query := `SELECT ` + schoolColumns + ` FROM schools
		WHERE ($3 = false OR is_active)
		ORDER BY name LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("list schools: %w", err)
	}
	defer rows.Close()
	var list []*entity.School
	for rows.Next() {
		s, err := scanSchool(rows)
		if err != nil {
			return nil, fmt.Errorf("scan school: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// Update aplica solo los campos no nil y devuelve la fila resultante,
// o nil si el colegio no existe.
func (r *SchoolRepo) Update(id int64, fields entity.SchoolUpdate) (*entity.School, error) {
	query := `
		UPDATE schools
		SET name       = COALESCE($2, name),
		    address    = COALESCE($3, address),
		    phone      = COALESCE($4, phone),
		    email      = COALESCE($5, email),
		    is_active  = COALESCE($6, is_active),
		    updated_at = now()
		WHERE id = $1
		RETURNING ` + schoolColumns
	s, err := scanSchool(r.q.QueryRow(context.Background(), query,
		id, fields.Name, fields.Address, fields.Phone, fields.Email, fields.IsActive,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("update school: %w", domain.ErrDuplicate)
		}
		return nil, fmt.Errorf("update school: %w", err)
	}
	return s, nil
}

// Delete elimina un colegio. Devuelve false si no existía.
func (r *SchoolRepo) Delete(id int64) (bool, error) {
	tag, err := r.q.Exec(context.Background(), `DELETE FROM schools WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return false, fmt.Errorf("delete school: tiene estudiantes: %w", domain.ErrInvalidState)
		}
		return false, fmt.Errorf("delete school: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
