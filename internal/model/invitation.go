package model

import (
	"time"

	"github.com/google/uuid"
)

// Invitation is a redeemable code issued by a docente so that students can
// self-register into one of their groups.
// MaxUses nil means unlimited; Active flips to false automatically when the
// quota is exhausted on redemption.
type Invitation struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Code      string     `gorm:"type:varchar(64);uniqueIndex;not null"`
	GrupoID   *uuid.UUID `gorm:"type:uuid;index"`
	CreatorID uuid.UUID  `gorm:"type:uuid;index;not null"`
	ExpiresAt *time.Time
	MaxUses   *int `gorm:"default:1"`
	UsesCount int  `gorm:"not null;default:0"`
	Active    bool `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Grupo *Grupo `gorm:"foreignKey:GrupoID"`
}

// EsValida reports whether the invitation can still be redeemed at `now`:
// it must be active, not expired, and under its use quota.
func (i *Invitation) EsValida(now time.Time) bool {
	if !i.Active {
		return false
	}
	if i.ExpiresAt != nil && i.ExpiresAt.Before(now) {
		return false
	}
	if i.MaxUses != nil && i.UsesCount >= *i.MaxUses {
		return false
	}
	return true
}
