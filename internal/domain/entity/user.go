package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin  = "admin"  // administración completa, incluida gestión de usuarios
	RoleUser   = "user"   // mutaciones de inventario
	RoleViewer = "viewer" // solo lectura
)

// User representa un usuario del sistema.
type User struct {
	ID           string
	Username     string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Role         string // admin, user, viewer
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
