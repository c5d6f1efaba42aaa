package service

import (
	"context"
	"errors"
	"strings"

	"enci/internal/dto"
	"enci/internal/model"
	"enci/internal/notify"
	"enci/internal/repository"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// RegistroService implements public self-registration.
//
// Students register exclusively through an invitation code; the redemption
// runs as one atomic unit (user + perfil + quota consumption + referral +
// audit) so a half-registered student can never exist. Docentes register
// without a code and wait for admin approval.
type RegistroService interface {
	RegistrarEstudiante(ctx context.Context, req dto.RegistroEstudianteRequest) (*dto.RegistroResponse, error)
	RegistrarDocente(ctx context.Context, req dto.RegistroDocenteRequest) (*dto.RegistroResponse, error)
}

type registroService struct {
	usuarios     repository.UsuarioRepository
	invitaciones repository.InvitationRepository
	referrals    repository.ReferralRepository
	audit        repository.AuditRepository
	notifier     *notify.Notifier
}

func NewRegistroService(
	usuarios repository.UsuarioRepository,
	invitaciones repository.InvitationRepository,
	referrals repository.ReferralRepository,
	audit repository.AuditRepository,
	notifier *notify.Notifier,
) RegistroService {
	return &registroService{
		usuarios:     usuarios,
		invitaciones: invitaciones,
		referrals:    referrals,
		audit:        audit,
		notifier:     notifier,
	}
}

// RegistrarEstudiante validates the invitation code, then registers the
// student atomically. Validation order is fixed: unknown code, then
// expired/exhausted, then invalid issuer — each with its own rejection.
//
// The pre-flight EsValida check gives fast feedback, but the authoritative
// quota decision is the conditional UPDATE inside the transaction: on a race
// for the last use, the loser's UPDATE matches zero rows and the whole
// registration rolls back with ErrInvitacionAgotada.
func (s *registroService) RegistrarEstudiante(ctx context.Context, req dto.RegistroEstudianteRequest) (*dto.RegistroResponse, error) {
	code := strings.TrimSpace(req.CodigoInvitacion)

	inv, err := s.invitaciones.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCodigoInvalido
		}
		return nil, err
	}
	if !inv.EsValida(timeNow()) {
		return nil, ErrInvitacionAgotada
	}

	// The issuer must still hold the docente role at redemption time. A code
	// whose creator was demoted or deleted is rejected and the attempt is
	// recorded in the audit trail.
	perfilEmisor, err := s.usuarios.FindPerfil(ctx, inv.CreatorID)
	if err != nil || perfilEmisor.Rol != model.RolDocente {
		entry := &model.AuditLog{
			Action:      model.AuditEmisorInvalido,
			Description: "Intento de registro con código " + code + " de emisor no docente",
		}
		if auditErr := s.audit.Create(ctx, nil, entry); auditErr != nil {
			log.Warn().Err(auditErr).Msg("registro: failed to audit invalid issuer")
		}
		return nil, ErrEmisorInvalido
	}

	if err := s.checkUnicidad(ctx, req.Username, req.Email); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), 12)
	if err != nil {
		return nil, err
	}

	user := &model.Usuario{
		Username:     strings.TrimSpace(req.Username),
		Nombre:       strings.TrimSpace(req.Nombre),
		Apellido:     strings.TrimSpace(req.Apellido),
		Email:        emailOrNil(req.Email),
		PasswordHash: string(hash),
	}

	err = runTx(ctx, s.usuarios.DB(), func(tx *gorm.DB) error {
		if err := s.usuarios.Create(ctx, tx, user); err != nil {
			return err
		}
		perfil := &model.Perfil{
			UsuarioID:  user.ID,
			Rol:        model.RolEstudiante,
			EstaActivo: false,
		}
		if err := s.usuarios.CreatePerfil(ctx, tx, perfil); err != nil {
			return err
		}
		user.Perfil = perfil

		rows, err := s.invitaciones.ConsumirUso(ctx, tx, inv.ID)
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrInvitacionAgotada
		}

		ref := &model.Referral{
			StudentID:    user.ID,
			GrupoID:      inv.GrupoID,
			DocenteID:    inv.CreatorID,
			InvitationID: &inv.ID,
			Activated:    false,
		}
		if err := s.referrals.Create(ctx, tx, ref); err != nil {
			return err
		}

		return s.audit.Create(ctx, tx, &model.AuditLog{
			ActorID:      &user.ID,
			TargetUserID: &user.ID,
			Action:       model.AuditStudentRegistered,
			Description:  "Registro de estudiante con código " + code,
		})
	})
	if err != nil {
		return nil, err
	}

	// Side effects run after commit and never fail the registration.
	if docente, err := s.usuarios.FindByID(ctx, inv.CreatorID); err == nil {
		if res := s.notifier.StudentRegistered(ctx, docente, user, code); !res.Delivered {
			log.Warn().Str("reason", res.Reason).
				Str("student", user.Username).
				Msg("registro: student_registered notification not delivered")
		}
	}

	return &dto.RegistroResponse{
		User:    usuarioToResponse(user),
		Mensaje: "Registro exitoso. Tu cuenta será activada por tu docente.",
	}, nil
}

// RegistrarDocente creates an inactive docente account and alerts every admin.
func (s *registroService) RegistrarDocente(ctx context.Context, req dto.RegistroDocenteRequest) (*dto.RegistroResponse, error) {
	if err := s.checkUnicidad(ctx, req.Username, req.Email); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), 12)
	if err != nil {
		return nil, err
	}

	user := &model.Usuario{
		Username:     strings.TrimSpace(req.Username),
		Nombre:       strings.TrimSpace(req.Nombre),
		Apellido:     strings.TrimSpace(req.Apellido),
		Email:        emailOrNil(req.Email),
		PasswordHash: string(hash),
	}

	err = runTx(ctx, s.usuarios.DB(), func(tx *gorm.DB) error {
		if err := s.usuarios.Create(ctx, tx, user); err != nil {
			return err
		}
		perfil := &model.Perfil{
			UsuarioID:  user.ID,
			Rol:        model.RolDocente,
			EstaActivo: false,
		}
		if err := s.usuarios.CreatePerfil(ctx, tx, perfil); err != nil {
			return err
		}
		user.Perfil = perfil

		return s.audit.Create(ctx, tx, &model.AuditLog{
			ActorID:      &user.ID,
			TargetUserID: &user.ID,
			Action:       model.AuditDocenteRegistered,
			Description:  "Registro de docente pendiente de aprobación",
		})
	})
	if err != nil {
		return nil, err
	}

	if admins, err := s.usuarios.ListAdmins(ctx); err == nil {
		for _, res := range s.notifier.DocenteRegistered(ctx, admins, user) {
			if !res.Delivered {
				log.Warn().Str("reason", res.Reason).
					Str("docente", user.Username).
					Msg("registro: docente_registered notification not delivered")
			}
		}
	}

	return &dto.RegistroResponse{
		User:    usuarioToResponse(user),
		Mensaje: "Registro exitoso. Un administrador activará tu cuenta.",
	}, nil
}

func (s *registroService) checkUnicidad(ctx context.Context, username, email string) error {
	taken, err := s.usuarios.ExistsUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return err
	}
	if taken {
		return ErrUsernameEnUso
	}
	if email != "" {
		taken, err = s.usuarios.ExistsEmail(ctx, strings.TrimSpace(email))
		if err != nil {
			return err
		}
		if taken {
			return ErrEmailEnUso
		}
	}
	return nil
}

func emailOrNil(email string) *string {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return nil
	}
	return &email
}
