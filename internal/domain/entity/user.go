package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin      = "admin"
	RoleSecretaria = "secretaria"
	RoleTesorero   = "tesorero"
)

// User representa un usuario del sistema (personal administrativo del colegio).
type User struct {
	ID           int64
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Role         string // admin, secretaria, tesorero
	Status       string // active, inactive, suspended
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
