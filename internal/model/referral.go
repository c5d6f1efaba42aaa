package model

import (
	"time"

	"github.com/google/uuid"
)

// Referral links a student to the docente whose invitation they redeemed,
// inside a specific group. Created exactly once per successful registration
// with a valid code. A student can appear only once per group.
//
// InvitationID is a weak back reference: deleting the invitation nulls it
// without touching the referral.
type Referral struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	StudentID    uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_referral_student_grupo"`
	GrupoID      *uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_referral_student_grupo"`
	DocenteID    uuid.UUID  `gorm:"type:uuid;index;not null"`
	InvitationID *uuid.UUID `gorm:"type:uuid;constraint:OnDelete:SET NULL"`
	// Activated mirrors the student's Perfil.EstaActivo; both are written in
	// the same transaction so they never diverge.
	Activated bool `gorm:"not null;default:false"`
	CreatedAt time.Time

	Student *Usuario `gorm:"foreignKey:StudentID"`
	Grupo   *Grupo   `gorm:"foreignKey:GrupoID"`
}
