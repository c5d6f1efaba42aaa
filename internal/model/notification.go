package model

import (
	"time"

	"github.com/google/uuid"
)

// Notification verbs used by the engine.
const (
	VerbStudentRegistered = "student_registered"
	VerbDocenteRegistered = "docente_registered"
	VerbReferralActivated = "referral_activated"
)

// Notification is an internal, presentable notification for a user.
type Notification struct {
	ID           uint       `gorm:"primaryKey"`
	RecipientID  uuid.UUID  `gorm:"type:uuid;index;not null"`
	ActorID      *uuid.UUID `gorm:"type:uuid"`
	Verb         string     `gorm:"type:varchar(100);not null"`
	TargetUserID *uuid.UUID `gorm:"type:uuid"`
	URL          *string    `gorm:"type:varchar(500)"`
	Unread       bool       `gorm:"not null;default:true"`
	CreatedAt    time.Time
}
