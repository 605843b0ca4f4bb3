package entity

import "time"

// Student representa un estudiante matriculado en un colegio.
type Student struct {
	ID             int64
	FirstName      string
	LastName       string
	Email          string
	Phone          string
	StudentCode    string // código institucional, único global
	EnrollmentDate time.Time
	BirthDate      *time.Time
	IsActive       bool
	SchoolID       int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// FullName nombre completo para reportes y estados de cuenta.
func (s *Student) FullName() string {
	return s.FirstName + " " + s.LastName
}

// StudentUpdate campos opcionales para actualización parcial (nil = sin cambio).
type StudentUpdate struct {
	FirstName      *string
	LastName       *string
	Email          *string
	Phone          *string
	EnrollmentDate *time.Time
	BirthDate      *time.Time
	IsActive       *bool
	SchoolID       *int64
}
