package dto

import "time"

type CrearInvitacionRequest struct {
	GrupoID   string     `json:"grupo_id" validate:"required,uuid4"`
	MaxUses   *int       `json:"max_uses" validate:"omitempty,min=1"`
	ExpiresAt *time.Time `json:"expires_at"`
}

// InvitacionAccionRequest drives state changes on an invitation.
// Accion: "activar" | "desactivar" | "eliminar"
type InvitacionAccionRequest struct {
	Accion string `json:"accion" validate:"required,oneof=activar desactivar eliminar"`
}

type InvitacionResponse struct {
	ID        string     `json:"id"`
	Code      string     `json:"code"`
	GrupoID   *string    `json:"grupo_id,omitempty"`
	Grupo     string     `json:"grupo,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	MaxUses   *int       `json:"max_uses,omitempty"`
	UsesCount int        `json:"uses_count"`
	Active    bool       `json:"active"`
	Valida    bool       `json:"valida"`
	CreatedAt time.Time  `json:"created_at"`
}
