package entity

import "time"

// School representa un colegio. Agrupa estudiantes; las facturas pertenecen
// al estudiante, nunca directamente al colegio.
type School struct {
	ID        int64
	Name      string
	Address   string
	Phone     string
	Email     string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SchoolUpdate campos opcionales para actualización parcial (nil = sin cambio).
type SchoolUpdate struct {
	Name     *string
	Address  *string
	Phone    *string
	Email    *string
	IsActive *bool
}
