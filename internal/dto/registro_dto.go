package dto

// RegistroEstudianteRequest is the public self-registration form for students.
// The invitation code is mandatory: there is no open student signup.
type RegistroEstudianteRequest struct {
	Username         string `json:"username" validate:"required,min=3,max=150"`
	Nombre           string `json:"nombre" validate:"required,max=150"`
	Apellido         string `json:"apellido" validate:"max=150"`
	Email            string `json:"email" validate:"omitempty,email"`
	Password         string `json:"password" validate:"required,min=8"`
	PasswordConfirm  string `json:"password_confirm" validate:"required,eqfield=Password"`
	CodigoInvitacion string `json:"codigo_invitacion" validate:"required"`
}

// RegistroDocenteRequest is the docente signup form. The resulting account
// stays inactive until an admin approves it.
type RegistroDocenteRequest struct {
	Username        string `json:"username" validate:"required,min=3,max=150"`
	Nombre          string `json:"nombre" validate:"required,max=150"`
	Apellido        string `json:"apellido" validate:"max=150"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
}

type RegistroResponse struct {
	User    UsuarioResponse `json:"user"`
	Mensaje string          `json:"mensaje"`
}
