package model

import (
	"time"

	"github.com/google/uuid"
)

// Grupo is a course/group created by a docente to organize students.
// Each group has its own invitation codes and enrolled students (referrals).
type Grupo struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre      string    `gorm:"not null"`
	Descripcion string
	DocenteID   uuid.UUID `gorm:"type:uuid;index;not null"`
	Active      bool      `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Referrals []Referral `gorm:"foreignKey:GrupoID"`
}
