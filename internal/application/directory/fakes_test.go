package directory_test

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jhoicas/Matricula-api/internal/application/directory"
	"github.com/jhoicas/Matricula-api/internal/domain"
	"github.com/jhoicas/Matricula-api/internal/domain/entity"
	"github.com/jhoicas/Matricula-api/internal/domain/repository"
)

// errInvoicesAttached es el error que el repo real produce cuando la FK de
// facturas bloquea el borrado.
var errInvoicesAttached = fmt.Errorf("el estudiante tiene facturas: %w", domain.ErrInvalidState)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria del directorio. A diferencia de los repos reales no
// conocen facturas: memDeleteBlocked simula la FK que impide borrar un
// estudiante con historial.
// ──────────────────────────────────────────────────────────────────────────────

type memSchoolRepo struct {
	nextID  int64
	schools map[int64]*entity.School
}

var _ repository.SchoolRepository = (*memSchoolRepo)(nil)

func newMemSchoolRepo() *memSchoolRepo {
	return &memSchoolRepo{schools: make(map[int64]*entity.School)}
}

func (r *memSchoolRepo) Create(s *entity.School) error {
	r.nextID++
	s.ID = r.nextID
	s.CreatedAt = time.Now()
	s.UpdatedAt = s.CreatedAt
	c := *s
	r.schools[s.ID] = &c
	return nil
}

func (r *memSchoolRepo) GetByID(id int64) (*entity.School, error) {
	s, ok := r.schools[id]
	if !ok {
		return nil, nil
	}
	c := *s
	return &c, nil
}

func (r *memSchoolRepo) GetByEmail(email string) (*entity.School, error) {
	for _, s := range r.schools {
		if s.Email != "" && s.Email == email {
			c := *s
			return &c, nil
		}
	}
	return nil, nil
}

func (r *memSchoolRepo) List(limit, offset int, activeOnly bool) ([]*entity.School, error) {
	var out []*entity.School
	for _, s := range r.schools {
		if activeOnly && !s.IsActive {
			continue
		}
		c := *s
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memSchoolRepo) Update(id int64, fields entity.SchoolUpdate) (*entity.School, error) {
	s, ok := r.schools[id]
	if !ok {
		return nil, nil
	}
	if fields.Name != nil {
		s.Name = *fields.Name
	}
	if fields.Address != nil {
		s.Address = *fields.Address
	}
	if fields.Phone != nil {
		s.Phone = *fields.Phone
	}
	if fields.Email != nil {
		s.Email = *fields.Email
	}
	if fields.IsActive != nil {
		s.IsActive = *fields.IsActive
	}
	s.UpdatedAt = time.Now()
	c := *s
	return &c, nil
}

func (r *memSchoolRepo) Delete(id int64) (bool, error) {
	if _, ok := r.schools[id]; !ok {
		return false, nil
	}
	delete(r.schools, id)
	return true, nil
}

type memStudentRepo struct {
	nextID   int64
	students map[int64]*entity.Student
	// blocked simula la FK de facturas: Delete sobre estos IDs falla como
	// lo haría la base.
	blocked map[int64]bool
}

var _ repository.StudentRepository = (*memStudentRepo)(nil)

func newMemStudentRepo() *memStudentRepo {
	return &memStudentRepo{
		students: make(map[int64]*entity.Student),
		blocked:  make(map[int64]bool),
	}
}

func (r *memStudentRepo) Create(s *entity.Student) error {
	r.nextID++
	s.ID = r.nextID
	s.CreatedAt = time.Now()
	s.UpdatedAt = s.CreatedAt
	c := *s
	r.students[s.ID] = &c
	return nil
}

func (r *memStudentRepo) GetByID(id int64) (*entity.Student, error) {
	s, ok := r.students[id]
	if !ok {
		return nil, nil
	}
	c := *s
	return &c, nil
}

func (r *memStudentRepo) GetByCode(code string) (*entity.Student, error) {
	for _, s := range r.students {
		if s.StudentCode == code {
			c := *s
			return &c, nil
		}
	}
	return nil, nil
}

func (r *memStudentRepo) GetByEmail(email string) (*entity.Student, error) {
	for _, s := range r.students {
		if s.Email != "" && s.Email == email {
			c := *s
			return &c, nil
		}
	}
	return nil, nil
}

func (r *memStudentRepo) sorted() []*entity.Student {
	out := make([]*entity.Student, 0, len(r.students))
	for _, s := range r.students {
		c := *s
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *memStudentRepo) List(limit, offset int, activeOnly bool) ([]*entity.Student, error) {
	var out []*entity.Student
	for _, s := range r.sorted() {
		if activeOnly && !s.IsActive {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func (r *memStudentRepo) ListBySchool(schoolID int64, limit, offset int, activeOnly bool) ([]*entity.Student, error) {
	var out []*entity.Student
	for _, s := range r.sorted() {
		if s.SchoolID != schoolID || (activeOnly && !s.IsActive) {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func (r *memStudentRepo) SearchByName(name string, schoolID *int64, limit, offset int) ([]*entity.Student, error) {
	name = strings.ToLower(name)
	var out []*entity.Student
	for _, s := range r.sorted() {
		if schoolID != nil && s.SchoolID != *schoolID {
			continue
		}
		if strings.Contains(strings.ToLower(s.FirstName), name) ||
			strings.Contains(strings.ToLower(s.LastName), name) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *memStudentRepo) Update(id int64, fields entity.StudentUpdate) (*entity.Student, error) {
	s, ok := r.students[id]
	if !ok {
		return nil, nil
	}
	if fields.FirstName != nil {
		s.FirstName = *fields.FirstName
	}
	if fields.LastName != nil {
		s.LastName = *fields.LastName
	}
	if fields.Email != nil {
		s.Email = *fields.Email
	}
	if fields.Phone != nil {
		s.Phone = *fields.Phone
	}
	if fields.EnrollmentDate != nil {
		s.EnrollmentDate = *fields.EnrollmentDate
	}
	if fields.BirthDate != nil {
		d := *fields.BirthDate
		s.BirthDate = &d
	}
	if fields.IsActive != nil {
		s.IsActive = *fields.IsActive
	}
	if fields.SchoolID != nil {
		s.SchoolID = *fields.SchoolID
	}
	s.UpdatedAt = time.Now()
	c := *s
	return &c, nil
}

func (r *memStudentRepo) Delete(id int64) (bool, error) {
	if r.blocked[id] {
		return false, errInvoicesAttached
	}
	if _, ok := r.students[id]; !ok {
		return false, nil
	}
	delete(r.students, id)
	return true, nil
}

// ─── Arnés ───

type directoryHarness struct {
	schools   *memSchoolRepo
	students  *memStudentRepo
	schoolUC  *directory.SchoolUseCase
	studentUC *directory.StudentUseCase
}

func newDirectoryHarness() *directoryHarness {
	schools := newMemSchoolRepo()
	students := newMemStudentRepo()
	return &directoryHarness{
		schools:   schools,
		students:  students,
		schoolUC:  directory.NewSchoolUseCase(schools, students),
		studentUC: directory.NewStudentUseCase(students, schools),
	}
}

func (h *directoryHarness) seedSchool(name string, active bool) *entity.School {
	s := &entity.School{Name: name, IsActive: active}
	if err := h.schools.Create(s); err != nil {
		panic(err)
	}
	return s
}

func (h *directoryHarness) seedStudent(schoolID int64, code, first, last string) *entity.Student {
	s := &entity.Student{
		FirstName:      first,
		LastName:       last,
		StudentCode:    code,
		EnrollmentDate: time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
		IsActive:       true,
		SchoolID:       schoolID,
	}
	if err := h.students.Create(s); err != nil {
		panic(err)
	}
	return s
}
