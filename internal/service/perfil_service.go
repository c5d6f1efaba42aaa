package service

import (
	"context"
	"errors"

	"enci/internal/dto"
	"enci/internal/model"
	"enci/internal/notify"
	"enci/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// PerfilService covers the admin-side account administration: activating
// pending docentes, reassigning roles and listing/searching students across
// the whole system.
type PerfilService interface {
	Accion(ctx context.Context, adminID, targetID uuid.UUID, accion string) (*dto.UsuarioResponse, error)
	CambiarRol(ctx context.Context, adminID, targetID uuid.UUID, rol string) (*dto.UsuarioResponse, error)
	ListarEstudiantes(ctx context.Context, q string, page, limit int) (*dto.PaginatedResponse, error)
}

type perfilService struct {
	usuarios repository.UsuarioRepository
	audit    repository.AuditRepository
	notifier *notify.Notifier
}

func NewPerfilService(usuarios repository.UsuarioRepository, audit repository.AuditRepository, notifier *notify.Notifier) PerfilService {
	return &perfilService{usuarios: usuarios, audit: audit, notifier: notifier}
}

// Accion flips EstaActivo on the target's perfil. This is the direct admin
// override; docente-side activation of students goes through
// ReferralService so the referral mirror stays consistent.
func (s *perfilService) Accion(ctx context.Context, adminID, targetID uuid.UUID, accion string) (*dto.UsuarioResponse, error) {
	if accion != "activar" && accion != "desactivar" {
		return nil, ErrAccionInvalida
	}

	user, err := s.usuarios.FindByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoEncontrado
		}
		return nil, err
	}
	if user.Perfil == nil {
		return nil, ErrNoEncontrado
	}

	activar := accion == "activar"
	auditAction := model.AuditActivarPerfil
	if !activar {
		auditAction = model.AuditDesactivarPerfil
	}

	err = runTx(ctx, s.usuarios.DB(), func(tx *gorm.DB) error {
		user.Perfil.EstaActivo = activar
		if err := s.usuarios.UpdatePerfil(ctx, tx, user.Perfil); err != nil {
			return err
		}
		return s.audit.Create(ctx, tx, &model.AuditLog{
			ActorID:      &adminID,
			TargetUserID: &user.ID,
			Action:       auditAction,
			Description:  "Perfil de " + user.Username + ": " + accion,
		})
	})
	if err != nil {
		return nil, err
	}

	resp := usuarioToResponse(user)
	return &resp, nil
}

// CambiarRol reassigns the target's role. Role changes are synchronous and
// explicit: when a perfil becomes docente, every admin is notified right
// here, with the outcome logged, instead of through a hidden save hook.
func (s *perfilService) CambiarRol(ctx context.Context, adminID, targetID uuid.UUID, rol string) (*dto.UsuarioResponse, error) {
	user, err := s.usuarios.FindByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoEncontrado
		}
		return nil, err
	}
	if user.Perfil == nil {
		return nil, ErrNoEncontrado
	}
	if user.Perfil.Rol == rol {
		resp := usuarioToResponse(user)
		return &resp, nil
	}

	anterior := user.Perfil.Rol
	err = runTx(ctx, s.usuarios.DB(), func(tx *gorm.DB) error {
		user.Perfil.Rol = rol
		if err := s.usuarios.UpdatePerfil(ctx, tx, user.Perfil); err != nil {
			return err
		}
		return s.audit.Create(ctx, tx, &model.AuditLog{
			ActorID:      &adminID,
			TargetUserID: &user.ID,
			Action:       model.AuditCambiarRol,
			Description:  "Rol de " + user.Username + ": " + anterior + " -> " + rol,
		})
	})
	if err != nil {
		return nil, err
	}

	if rol == model.RolDocente {
		admins, err := s.usuarios.ListAdmins(ctx)
		if err != nil {
			log.Warn().Err(err).Msg("cambiar_rol: could not list admins to notify")
		} else {
			for _, res := range s.notifier.DocenteRegistered(ctx, admins, user) {
				if !res.Delivered {
					log.Warn().Str("reason", res.Reason).Msg("cambiar_rol: admin notification not delivered")
				}
			}
		}
	}

	resp := usuarioToResponse(user)
	return &resp, nil
}

func (s *perfilService) ListarEstudiantes(ctx context.Context, q string, page, limit int) (*dto.PaginatedResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 25
	}
	users, total, err := s.usuarios.ListEstudiantes(ctx, q, page, limit)
	if err != nil {
		return nil, err
	}
	items := make([]dto.UsuarioResponse, len(users))
	for i := range users {
		items[i] = usuarioToResponse(&users[i])
	}
	return &dto.PaginatedResponse{Items: items, Total: total, Page: page, PageSize: limit}, nil
}
