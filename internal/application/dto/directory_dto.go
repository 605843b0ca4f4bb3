package dto

import "time"

// CreateSchoolRequest body para POST /api/schools.
type CreateSchoolRequest struct {
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty"`
}

// UpdateSchoolRequest body para PUT /api/schools/:id (campos opcionales).
type UpdateSchoolRequest struct {
	Name     *string `json:"name,omitempty"`
	Address  *string `json:"address,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	Email    *string `json:"email,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}

// SchoolResponse colegio en respuestas.
type SchoolResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Email     string    `json:"email,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateStudentRequest body para POST /api/students.
type CreateStudentRequest struct {
	FirstName      string     `json:"first_name"`
	LastName       string     `json:"last_name"`
	Email          string     `json:"email,omitempty"`
	Phone          string     `json:"phone,omitempty"`
	StudentCode    string     `json:"student_code"`
	EnrollmentDate time.Time  `json:"enrollment_date"`
	BirthDate      *time.Time `json:"birth_date,omitempty"`
	SchoolID       int64      `json:"school_id"`
}

// UpdateStudentRequest body para PUT /api/students/:id (campos opcionales).
type UpdateStudentRequest struct {
	FirstName      *string    `json:"first_name,omitempty"`
	LastName       *string    `json:"last_name,omitempty"`
	Email          *string    `json:"email,omitempty"`
	Phone          *string    `json:"phone,omitempty"`
	EnrollmentDate *time.Time `json:"enrollment_date,omitempty"`
	BirthDate      *time.Time `json:"birth_date,omitempty"`
	IsActive       *bool      `json:"is_active,omitempty"`
	SchoolID       *int64     `json:"school_id,omitempty"`
}

// StudentResponse estudiante en respuestas.
type StudentResponse struct {
	ID             int64      `json:"id"`
	FirstName      string     `json:"first_name"`
	LastName       string     `json:"last_name"`
	FullName       string     `json:"full_name"`
	Email          string     `json:"email,omitempty"`
	Phone          string     `json:"phone,omitempty"`
	StudentCode    string     `json:"student_code"`
	EnrollmentDate time.Time  `json:"enrollment_date"`
	BirthDate      *time.Time `json:"birth_date,omitempty"`
	IsActive       bool       `json:"is_active"`
	SchoolID       int64      `json:"school_id"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}
