package service

import (
	"context"
	"errors"
	"strings"

	"enci/internal/dto"
	"enci/internal/model"
	"enci/internal/policy"
	"enci/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GrupoService interface {
	Crear(ctx context.Context, docenteID uuid.UUID, req dto.CrearGrupoRequest) (*dto.GrupoResponse, error)
	Listar(ctx context.Context, docenteID uuid.UUID) ([]dto.GrupoResponse, error)
	Actualizar(ctx context.Context, actor policy.Actor, grupoID uuid.UUID, req dto.ActualizarGrupoRequest) (*dto.GrupoResponse, error)
	Eliminar(ctx context.Context, actor policy.Actor, grupoID uuid.UUID) error
}

type grupoService struct {
	repo      repository.GrupoRepository
	referrals repository.ReferralRepository
	audit     repository.AuditRepository
}

func NewGrupoService(
	repo repository.GrupoRepository,
	referrals repository.ReferralRepository,
	audit repository.AuditRepository,
) GrupoService {
	return &grupoService{repo: repo, referrals: referrals, audit: audit}
}

func (s *grupoService) Crear(ctx context.Context, docenteID uuid.UUID, req dto.CrearGrupoRequest) (*dto.GrupoResponse, error) {
	grupo := &model.Grupo{
		Nombre:      strings.TrimSpace(req.Nombre),
		Descripcion: strings.TrimSpace(req.Descripcion),
		DocenteID:   docenteID,
		Active:      true,
	}
	if err := s.repo.Create(ctx, grupo); err != nil {
		return nil, err
	}

	if err := s.audit.Create(ctx, nil, &model.AuditLog{
		ActorID:     &docenteID,
		Action:      model.AuditCreateGrupo,
		Description: "Grupo " + grupo.Nombre + " creado",
	}); err != nil {
		return nil, err
	}

	resp := grupoToResponse(grupo, 0, 0)
	return &resp, nil
}

func (s *grupoService) Listar(ctx context.Context, docenteID uuid.UUID) ([]dto.GrupoResponse, error) {
	grupos, err := s.repo.ListByDocente(ctx, docenteID)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.GrupoResponse, len(grupos))
	for i := range grupos {
		total, activos, err := s.referrals.CountByGrupo(ctx, grupos[i].ID)
		if err != nil {
			return nil, err
		}
		resp[i] = grupoToResponse(&grupos[i], total, activos)
	}
	return resp, nil
}

func (s *grupoService) Actualizar(ctx context.Context, actor policy.Actor, grupoID uuid.UUID, req dto.ActualizarGrupoRequest) (*dto.GrupoResponse, error) {
	grupo, err := s.buscar(ctx, actor, grupoID)
	if err != nil {
		return nil, err
	}

	auditAction := model.AuditEditGrupo
	if req.Nombre != nil {
		grupo.Nombre = strings.TrimSpace(*req.Nombre)
	}
	if req.Descripcion != nil {
		grupo.Descripcion = strings.TrimSpace(*req.Descripcion)
	}
	if req.Active != nil && *req.Active != grupo.Active {
		grupo.Active = *req.Active
		auditAction = model.AuditActivateGrupo
	}

	if err := s.repo.Update(ctx, grupo); err != nil {
		return nil, err
	}
	if err := s.audit.Create(ctx, nil, &model.AuditLog{
		ActorID:     &actor.ID,
		Action:      auditAction,
		Description: "Grupo " + grupo.Nombre + " actualizado",
	}); err != nil {
		return nil, err
	}

	total, activos, err := s.referrals.CountByGrupo(ctx, grupo.ID)
	if err != nil {
		return nil, err
	}
	resp := grupoToResponse(grupo, total, activos)
	return &resp, nil
}

func (s *grupoService) Eliminar(ctx context.Context, actor policy.Actor, grupoID uuid.UUID) error {
	grupo, err := s.buscar(ctx, actor, grupoID)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, grupo.ID); err != nil {
		return err
	}
	return s.audit.Create(ctx, nil, &model.AuditLog{
		ActorID:     &actor.ID,
		Action:      model.AuditDeleteGrupo,
		Description: "Grupo " + grupo.Nombre + " eliminado",
	})
}

// buscar resolves the group and evaluates access in one place: unknown id is
// NotFound, someone else's group is Forbidden.
func (s *grupoService) buscar(ctx context.Context, actor policy.Actor, grupoID uuid.UUID) (*model.Grupo, error) {
	grupo, err := s.repo.FindByID(ctx, grupoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoEncontrado
		}
		return nil, err
	}
	if !policy.Allow(actor, policy.Owned(grupo.DocenteID)) {
		return nil, ErrProhibido
	}
	return grupo, nil
}

func grupoToResponse(g *model.Grupo, total, activos int64) dto.GrupoResponse {
	return dto.GrupoResponse{
		ID:                 g.ID.String(),
		Nombre:             g.Nombre,
		Descripcion:        g.Descripcion,
		Active:             g.Active,
		TotalEstudiantes:   total,
		EstudiantesActivos: activos,
		CreatedAt:          g.CreatedAt,
	}
}
