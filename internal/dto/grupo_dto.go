package dto

import "time"

type CrearGrupoRequest struct {
	Nombre      string `json:"nombre" validate:"required,max=200"`
	Descripcion string `json:"descripcion" validate:"max=1000"`
}

type ActualizarGrupoRequest struct {
	Nombre      *string `json:"nombre" validate:"omitempty,max=200"`
	Descripcion *string `json:"descripcion" validate:"omitempty,max=1000"`
	Active      *bool   `json:"active"`
}

type GrupoResponse struct {
	ID                 string    `json:"id"`
	Nombre             string    `json:"nombre"`
	Descripcion        string    `json:"descripcion,omitempty"`
	Active             bool      `json:"active"`
	TotalEstudiantes   int64     `json:"total_estudiantes"`
	EstudiantesActivos int64     `json:"estudiantes_activos"`
	CreatedAt          time.Time `json:"created_at"`
}
