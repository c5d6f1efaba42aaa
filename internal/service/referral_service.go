package service

import (
	"context"
	"errors"

	"enci/internal/dto"
	"enci/internal/model"
	"enci/internal/notify"
	"enci/internal/policy"
	"enci/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// ReferralService is the docente-side management of enrolled students.
//
// Activation invariant: Referral.Activated and the student's
// Perfil.EstaActivo are two views of one fact, so both rows are written in
// the same transaction and can never diverge.
type ReferralService interface {
	Listar(ctx context.Context, docenteID uuid.UUID, q string, page, limit int) (*dto.PaginatedResponse, error)
	Accion(ctx context.Context, actor policy.Actor, referralID uuid.UUID, accion string) (*dto.ReferralResponse, error)
}

type referralService struct {
	repo     repository.ReferralRepository
	usuarios repository.UsuarioRepository
	audit    repository.AuditRepository
	notifier *notify.Notifier
}

func NewReferralService(
	repo repository.ReferralRepository,
	usuarios repository.UsuarioRepository,
	audit repository.AuditRepository,
	notifier *notify.Notifier,
) ReferralService {
	return &referralService{repo: repo, usuarios: usuarios, audit: audit, notifier: notifier}
}

func (s *referralService) Listar(ctx context.Context, docenteID uuid.UUID, q string, page, limit int) (*dto.PaginatedResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 25
	}
	refs, total, err := s.repo.ListByDocente(ctx, docenteID, q, page, limit)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ReferralResponse, len(refs))
	for i := range refs {
		items[i] = referralToResponse(&refs[i])
	}
	return &dto.PaginatedResponse{Items: items, Total: total, Page: page, PageSize: limit}, nil
}

// Accion applies "activar", "desactivar" or "eliminar" to a referral the
// actor may touch: its owning docente, or an admin. Activation state is
// mirrored onto the student's perfil inside one transaction.
func (s *referralService) Accion(ctx context.Context, actor policy.Actor, referralID uuid.UUID, accion string) (*dto.ReferralResponse, error) {
	ref, err := s.repo.FindByID(ctx, referralID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoEncontrado
		}
		return nil, err
	}
	if !policy.Allow(actor, policy.Owned(ref.DocenteID)) {
		return nil, ErrProhibido
	}

	switch accion {
	case "activar", "desactivar":
		activar := accion == "activar"
		auditAction := model.AuditActivarReferral
		if !activar {
			auditAction = model.AuditDesactivarReferral
		}

		err = runTx(ctx, s.usuarios.DB(), func(tx *gorm.DB) error {
			ref.Activated = activar
			if err := s.repo.Update(ctx, tx, ref); err != nil {
				return err
			}
			perfil, err := s.usuarios.FindPerfil(ctx, ref.StudentID)
			if err != nil {
				return err
			}
			perfil.EstaActivo = activar
			if err := s.usuarios.UpdatePerfil(ctx, tx, perfil); err != nil {
				return err
			}
			return s.audit.Create(ctx, tx, &model.AuditLog{
				ActorID:      &actor.ID,
				TargetUserID: &ref.StudentID,
				Action:       auditAction,
				Description:  "Referral " + ref.ID.String() + ": " + accion,
			})
		})
		if err != nil {
			return nil, err
		}

		if activar {
			// The student is told who their docente is, regardless of
			// whether an admin performed the toggle
			s.notificarActivacion(ctx, ref.StudentID, ref.DocenteID)
		}

	case "eliminar":
		if err := s.repo.Delete(ctx, ref.ID); err != nil {
			return nil, err
		}
		if err := s.audit.Create(ctx, nil, &model.AuditLog{
			ActorID:      &actor.ID,
			TargetUserID: &ref.StudentID,
			Action:       model.AuditEliminarReferral,
			Description:  "Referral " + ref.ID.String() + " eliminado",
		}); err != nil {
			return nil, err
		}
		return nil, nil

	default:
		return nil, ErrAccionInvalida
	}

	resp := referralToResponse(ref)
	return &resp, nil
}

func (s *referralService) notificarActivacion(ctx context.Context, studentID, docenteID uuid.UUID) {
	student, err := s.usuarios.FindByID(ctx, studentID)
	if err != nil {
		return
	}
	docente, err := s.usuarios.FindByID(ctx, docenteID)
	if err != nil {
		return
	}
	if res := s.notifier.ReferralActivated(ctx, student, docente); !res.Delivered {
		log.Warn().Str("reason", res.Reason).
			Str("student", student.Username).
			Msg("referral: activation notification not delivered")
	}
}

func referralToResponse(ref *model.Referral) dto.ReferralResponse {
	resp := dto.ReferralResponse{
		ID:        ref.ID.String(),
		Activated: ref.Activated,
		CreatedAt: ref.CreatedAt,
	}
	if ref.Student != nil {
		resp.Student = usuarioToResponse(ref.Student)
	}
	if ref.GrupoID != nil {
		id := ref.GrupoID.String()
		resp.GrupoID = &id
	}
	if ref.Grupo != nil {
		resp.Grupo = ref.Grupo.Nombre
	}
	return resp
}
