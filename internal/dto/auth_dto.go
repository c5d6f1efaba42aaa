package dto

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type LoginResponse struct {
	AccessToken  string          `json:"access_token"`
	RefreshToken string          `json:"refresh_token"`
	TokenType    string          `json:"token_type"`
	ExpiresIn    int             `json:"expires_in"`
	User         UsuarioResponse `json:"user"`
}

type UsuarioResponse struct {
	ID          string  `json:"id"`
	Username    string  `json:"username"`
	Nombre      string  `json:"nombre"`
	Apellido    string  `json:"apellido,omitempty"`
	Email       *string `json:"email,omitempty"`
	Rol         string  `json:"rol"`
	EstaActivo  bool    `json:"esta_activo"`
	IsSuperuser bool    `json:"is_superuser,omitempty"`
}

// PerfilAccionRequest toggles a student/docente profile from the admin side.
// Accion: "activar" | "desactivar"
type PerfilAccionRequest struct {
	Accion string `json:"accion" validate:"required"`
}

type CambiarRolRequest struct {
	Rol string `json:"rol" validate:"required,oneof=admin docente estudiante"`
}
