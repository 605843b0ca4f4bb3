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

var _ repository.StudentRepository = (*StudentRepo)(nil)

// StudentRepo implementación de StudentRepository (usable con pool o tx).
type StudentRepo struct {
	q Querier
}

// NewStudentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStudentRepository(q Querier) *StudentRepo {
	return &StudentRepo{q: q}
}

const studentColumns = `id, first_name, last_name, email, phone, student_code,
	enrollment_date, birth_date, is_active, school_id, created_at, updated_at`

func scanStudent(row pgx.Row) (*entity.Student, error) {
	var s entity.Student
	err := row.Scan(
		&s.ID, &s.FirstName, &s.LastName, &s.Email, &s.Phone, &s.StudentCode,
		&s.EnrollmentDate, &s.BirthDate, &s.IsActive, &s.SchoolID, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Create persiste un estudiante y asigna el ID generado por la base.
// Las unicidades de student_code y email las respalda la DB (23505).
func (r *StudentRepo) Create(student *entity.Student) error {
	query := `
		INSERT INTO students (first_name, last_name, email, phone, student_code,
			enrollment_date, birth_date, is_active, school_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at`
	err := r.q.QueryRow(context.Background(), query,
		student.FirstName, student.LastName, student.Email, student.Phone, student.StudentCode,
		student.EnrollmentDate, student.BirthDate, student.IsActive, student.SchoolID,
	).Scan(&student.ID, &student.CreatedAt, &student.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("insert student: %w", domain.ErrDuplicate)
		}
		return fmt.Errorf("insert student: %w", err)
	}
	return nil
}

// GetByID obtiene un estudiante por ID. Devuelve nil, nil si no existe.
func (r *StudentRepo) GetByID(id int64) (*entity.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE id = $1`
	return r.getOne(query, id)
}

// GetByCode obtiene un estudiante por su código institucional.
func (r *StudentRepo) GetByCode(code string) (*entity.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE student_code = $1`
	return r.getOne(query, code)
}

// GetByEmail obtiene un estudiante por email.
func (r *StudentRepo) GetByEmail(email string) (*entity.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE email = $1`
	return r.getOne(query, email)
}

func (r *StudentRepo) getOne(query string, arg any) (*entity.Student, error) {
	s, err := scanStudent(r.q.QueryRow(context.Background(), query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get student: %w", err)
	}
	return s, nil
}

// List lista estudiantes con paginación, opcionalmente solo activos.
func (r *StudentRepo) List(limit, offset int, activeOnly bool) ([]*entity.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students
		WHERE ($3 = false OR is_active)
		ORDER BY last_name, first_name LIMIT $1 OFFSET $2`
	return r.list(query, limit, offset, activeOnly)
}

// ListBySchool lista los estudiantes de un colegio.
func (r *StudentRepo) ListBySchool(schoolID int64, limit, offset int, activeOnly bool) ([]*entity.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students
		WHERE school_id = $1 AND ($4 = false OR is_active)
		ORDER BY last_name, first_name LIMIT $2 OFFSET $3`
	return r.list(query, schoolID, limit, offset, activeOnly)
}

// SearchByName busca por coincidencia parcial (ILIKE) en nombre o apellido;
// schoolID opcional restringe al colegio.
func (r *StudentRepo) SearchByName(name string, schoolID *int64, limit, offset int) ([]*entity.Student, error) {
	pattern := "%" + name + "%"
	query := `SELECT ` + studentColumns + ` FROM students
		WHERE (first_name ILIKE $1 OR last_name ILIKE $1)
		  AND ($2::bigint IS NULL OR school_id = $2)
		ORDER BY last_name, first_name LIMIT $3 OFFSET $4`
	return r.list(query, pattern, schoolID, limit, offset)
}

func (r *StudentRepo) list(query string, args ...any) ([]*entity.Student, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	defer rows.Close()
	var list []*entity.Student
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan student: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// Update aplica solo los campos no nil y devuelve la fila resultante,
// o nil si el estudiante no existe. El código de estudiante no es editable.
func (r *StudentRepo) Update(id int64, fields entity.StudentUpdate) (*entity.Student, error) {
	query := `
		UPDATE students
		SET first_name      = COALESCE($2, first_name),
		    last_name       = COALESCE($3, last_name),
		    email           = COALESCE($4, email),
		    phone           = COALESCE($5, phone),
		    enrollment_date = COALESCE($6, enrollment_date),
		    birth_date      = COALESCE($7, birth_date),
		    is_active       = COALESCE($8, is_active),
		    school_id       = COALESCE($9, school_id),
		    updated_at      = now()
		WHERE id = $1
		RETURNING ` + studentColumns
	s, err := scanStudent(r.q.QueryRow(context.Background(), query,
		id, fields.FirstName, fields.LastName, fields.Email, fields.Phone,
		fields.EnrollmentDate, fields.BirthDate, fields.IsActive, fields.SchoolID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("update student: %w", domain.ErrDuplicate)
		}
		return nil, fmt.Errorf("update student: %w", err)
	}
	return s, nil
}

// Delete elimina un estudiante. Devuelve false si no existía; falla con
// ErrInvalidState si tiene facturas (la FK protege el historial).
func (r *StudentRepo) Delete(id int64) (bool, error) {
	tag, err := r.q.Exec(context.Background(), `DELETE FROM students WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return false, fmt.Errorf("delete student: tiene facturas: %w", domain.ErrInvalidState)
		}
		return false, fmt.Errorf("delete student: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
