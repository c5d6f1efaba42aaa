package model

import (
	"time"

	"github.com/google/uuid"
)

// Roles disponibles para un Perfil.
const (
	RolAdmin      = "admin"
	RolDocente    = "docente"
	RolEstudiante = "estudiante"
)

// Usuario stores login identities. Role and activation state live in the
// one-to-one Perfil row; superusers bypass the profile check entirely.
type Usuario struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Username     string    `gorm:"uniqueIndex;not null"`
	Nombre       string    `gorm:"not null"`
	Apellido     string
	Email        *string `gorm:"uniqueIndex"`
	PasswordHash string  `gorm:"not null"`
	IsSuperuser  bool    `gorm:"not null;default:false"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Perfil *Perfil `gorm:"foreignKey:UsuarioID"`
}

// Perfil extends Usuario with business fields.
// Rol: "admin" | "docente" | "estudiante"
// EstaActivo gates login for every non-superuser: a user without an active
// perfil cannot authenticate, and a user without any perfil is rejected
// outright (never default-allow).
type Perfil struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UsuarioID  uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	Rol        string    `gorm:"type:varchar(10);not null;default:'estudiante'"`
	EstaActivo bool      `gorm:"not null;default:false"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (Perfil) TableName() string { return "perfiles" }

// NombreCompleto returns "Nombre Apellido" falling back to the username.
func (u *Usuario) NombreCompleto() string {
	if u.Nombre == "" {
		return u.Username
	}
	if u.Apellido == "" {
		return u.Nombre
	}
	return u.Nombre + " " + u.Apellido
}
