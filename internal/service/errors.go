package service

import "errors"

// Domain error kinds. Handlers map these to HTTP statuses via errors.Is;
// the messages are the user-facing rejection reasons.
var (
	// ErrCodigoInvalido: the code does not resolve to any invitation.
	ErrCodigoInvalido = errors.New("Código de invitación inválido")

	// ErrInvitacionAgotada: the invitation is inactive, expired, or its use
	// quota is exhausted (also returned to the losing racer on concurrent
	// redemption of the last use).
	ErrInvitacionAgotada = errors.New("El código de invitación ha expirado o ha alcanzado su límite de uso")

	// ErrEmisorInvalido: the invitation creator does not currently hold the
	// docente role. Checked at redemption time, not at issuance.
	ErrEmisorInvalido = errors.New("El código no pertenece a un docente válido")

	// ErrProhibido: cross-tenant access (e.g. a docente touching another
	// docente's group).
	ErrProhibido = errors.New("No tienes permiso para realizar esta acción")

	// ErrNoEncontrado: the resource does not exist or is not visible to the
	// requester.
	ErrNoEncontrado = errors.New("Recurso no encontrado")

	// ErrAccionInvalida: the action parameter is not one of the recognized
	// values.
	ErrAccionInvalida = errors.New("Acción inválida")

	// ErrColisionCodigo: the generated invitation code collided with an
	// existing one at the storage layer.
	ErrColisionCodigo = errors.New("Colisión de código de invitación, intente nuevamente")

	// ErrCredencialesInvalidas: bad username/password. Deliberately identical
	// for unknown user and wrong password.
	ErrCredencialesInvalidas = errors.New("Credenciales inválidas")

	// ErrCuentaInactiva: valid credentials but the perfil is missing or not
	// yet activated. Superusers are exempt from this gate.
	ErrCuentaInactiva = errors.New("Tu cuenta aún no ha sido activada")

	// Registration uniqueness rejections.
	ErrUsernameEnUso = errors.New("El nombre de usuario ya está en uso")
	ErrEmailEnUso    = errors.New("El email ya está registrado")
)
