package dto

import "time"

// ReferralAccionRequest drives state changes on an enrollment from the
// docente dashboard. Accion: "activar" | "desactivar" | "eliminar"
type ReferralAccionRequest struct {
	Accion string `json:"accion" validate:"required,oneof=activar desactivar eliminar"`
}

type ReferralResponse struct {
	ID        string          `json:"id"`
	Student   UsuarioResponse `json:"student"`
	GrupoID   *string         `json:"grupo_id,omitempty"`
	Grupo     string          `json:"grupo,omitempty"`
	Activated bool            `json:"activated"`
	CreatedAt time.Time       `json:"created_at"`
}
