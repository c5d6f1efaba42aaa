package model

import (
	"time"

	"github.com/google/uuid"
)

// Audit actions recorded by the system. Free-form strings are allowed; these
// constants cover the recurring ones so tests and queries stay in sync.
const (
	AuditStudentRegistered  = "student_registered"
	AuditDocenteRegistered  = "docente_registered"
	AuditEmisorInvalido     = "invitacion_emisor_invalido"
	AuditActivarPerfil      = "activar_perfil"
	AuditDesactivarPerfil   = "desactivar_perfil"
	AuditCambiarRol         = "cambiar_rol"
	AuditActivarReferral    = "activar_referral"
	AuditDesactivarReferral = "desactivar_referral"
	AuditEliminarReferral   = "eliminar_referral"
	AuditCreateGrupo        = "create_grupo"
	AuditEditGrupo          = "edit_grupo"
	AuditDeleteGrupo        = "delete_grupo"
	AuditActivateGrupo      = "activate_grupo"
	AuditCreateInvitation   = "create_invitation"
	AuditToggleInvitation   = "toggle_invitation"
	AuditDeleteInvitation   = "delete_invitation"
	AuditEmailSent          = "email_sent"
	AuditEmailFailed        = "email_failed"
	AuditLedgerFixRun       = "ledger_fix_run"
	AuditCrearAsiento       = "crear_asiento"
)

// AuditLog is an append-only event trail: rows are never mutated or deleted
// after creation. Actor/TargetUser are nullable so system events (e.g. email
// delivery outcomes) can be recorded without an acting user.
type AuditLog struct {
	ID           uint       `gorm:"primaryKey"`
	ActorID      *uuid.UUID `gorm:"type:uuid;index"`
	TargetUserID *uuid.UUID `gorm:"type:uuid;index"`
	Action       string     `gorm:"type:varchar(50);not null;index"`
	Description  string
	CreatedAt    time.Time
}
