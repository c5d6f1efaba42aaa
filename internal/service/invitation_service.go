package service

import (
	"context"
	"crypto/rand"
	"errors"
	"strings"
	"time"

	"enci/internal/dto"
	"enci/internal/model"
	"enci/internal/policy"
	"enci/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrInvitacionConReferrals: deletion is refused while registrations exist;
// deactivation is the supported way to retire a used code.
var ErrInvitacionConReferrals = errors.New("La invitación tiene registros asociados; desactívala en su lugar")

// ErrExpiracionPasada: expires_at must lie in the future at creation time.
var ErrExpiracionPasada = errors.New("La fecha de expiración ya pasó")

// codeAlphabet avoids ambiguous characters (no I, O, 0, 1). 32 symbols so
// random bytes map without modulo bias.
const (
	codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	codeLength   = 12
	codeRetries  = 3
)

type InvitationService interface {
	Crear(ctx context.Context, actor policy.Actor, req dto.CrearInvitacionRequest) (*dto.InvitacionResponse, error)
	Listar(ctx context.Context, docenteID uuid.UUID) ([]dto.InvitacionResponse, error)
	Accion(ctx context.Context, actor policy.Actor, invitacionID uuid.UUID, accion string) (*dto.InvitacionResponse, error)
}

type invitationService struct {
	repo   repository.InvitationRepository
	grupos repository.GrupoRepository
	audit  repository.AuditRepository
}

func NewInvitationService(
	repo repository.InvitationRepository,
	grupos repository.GrupoRepository,
	audit repository.AuditRepository,
) InvitationService {
	return &invitationService{repo: repo, grupos: grupos, audit: audit}
}

// Crear issues a new invitation code for one of the actor's groups. The
// target group must belong to the actor and still be active; codes can never
// be minted into a retired group. On the (unlikely) unique-index collision
// the code is regenerated; after the retry budget the caller gets
// ErrColisionCodigo.
func (s *invitationService) Crear(ctx context.Context, actor policy.Actor, req dto.CrearInvitacionRequest) (*dto.InvitacionResponse, error) {
	grupoID, err := uuid.Parse(req.GrupoID)
	if err != nil {
		return nil, ErrNoEncontrado
	}
	grupo, err := s.grupos.FindByID(ctx, grupoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoEncontrado
		}
		return nil, err
	}
	if !policy.Allow(actor, policy.Owned(grupo.DocenteID)) {
		return nil, ErrProhibido
	}
	if !grupo.Active {
		return nil, ErrProhibido
	}

	maxUses := req.MaxUses
	if maxUses == nil {
		one := 1
		maxUses = &one
	}
	if req.ExpiresAt != nil && req.ExpiresAt.Before(timeNow()) {
		return nil, ErrExpiracionPasada
	}

	var inv *model.Invitation
	for attempt := 0; attempt < codeRetries; attempt++ {
		code, err := generarCodigo()
		if err != nil {
			return nil, err
		}
		inv = &model.Invitation{
			Code:      code,
			GrupoID:   &grupo.ID,
			CreatorID: actor.ID,
			ExpiresAt: req.ExpiresAt,
			MaxUses:   maxUses,
			Active:    true,
		}
		err = s.repo.Create(ctx, inv)
		if err == nil {
			break
		}
		if !esDuplicado(err) {
			return nil, err
		}
		inv = nil
	}
	if inv == nil {
		return nil, ErrColisionCodigo
	}
	inv.Grupo = grupo

	if err := s.audit.Create(ctx, nil, &model.AuditLog{
		ActorID:     &actor.ID,
		Action:      model.AuditCreateInvitation,
		Description: "Invitación " + inv.Code + " creada para grupo " + grupo.Nombre,
	}); err != nil {
		return nil, err
	}

	resp := invitacionToResponse(inv, timeNow())
	return &resp, nil
}

func (s *invitationService) Listar(ctx context.Context, docenteID uuid.UUID) ([]dto.InvitacionResponse, error) {
	invs, err := s.repo.ListByCreator(ctx, docenteID)
	if err != nil {
		return nil, err
	}
	now := timeNow()
	resp := make([]dto.InvitacionResponse, len(invs))
	for i := range invs {
		resp[i] = invitacionToResponse(&invs[i], now)
	}
	return resp, nil
}

// Accion applies "activar", "desactivar" or "eliminar" to an invitation the
// actor may touch: its creator, or an admin.
func (s *invitationService) Accion(ctx context.Context, actor policy.Actor, invitacionID uuid.UUID, accion string) (*dto.InvitacionResponse, error) {
	inv, err := s.repo.FindByID(ctx, invitacionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoEncontrado
		}
		return nil, err
	}
	if !policy.Allow(actor, policy.Owned(inv.CreatorID)) {
		return nil, ErrProhibido
	}

	switch accion {
	case "activar":
		inv.Active = true
		if err := s.repo.Update(ctx, inv); err != nil {
			return nil, err
		}
	case "desactivar":
		inv.Active = false
		if err := s.repo.Update(ctx, inv); err != nil {
			return nil, err
		}
	case "eliminar":
		count, err := s.repo.CountReferrals(ctx, inv.ID)
		if err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, ErrInvitacionConReferrals
		}
		if err := s.repo.Delete(ctx, inv.ID); err != nil {
			return nil, err
		}
	default:
		return nil, ErrAccionInvalida
	}

	auditAction := model.AuditToggleInvitation
	if accion == "eliminar" {
		auditAction = model.AuditDeleteInvitation
	}
	if err := s.audit.Create(ctx, nil, &model.AuditLog{
		ActorID:     &actor.ID,
		Action:      auditAction,
		Description: "Invitación " + inv.Code + ": " + accion,
	}); err != nil {
		return nil, err
	}

	if accion == "eliminar" {
		return nil, nil
	}
	resp := invitacionToResponse(inv, timeNow())
	return &resp, nil
}

func generarCodigo() (string, error) {
	buf := make([]byte, codeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i, b := range buf {
		buf[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}
	return string(buf), nil
}

func esDuplicado(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) ||
		strings.Contains(err.Error(), "duplicate key")
}

func invitacionToResponse(inv *model.Invitation, now time.Time) dto.InvitacionResponse {
	resp := dto.InvitacionResponse{
		ID:        inv.ID.String(),
		Code:      inv.Code,
		ExpiresAt: inv.ExpiresAt,
		MaxUses:   inv.MaxUses,
		UsesCount: inv.UsesCount,
		Active:    inv.Active,
		Valida:    inv.EsValida(now),
		CreatedAt: inv.CreatedAt,
	}
	if inv.GrupoID != nil {
		id := inv.GrupoID.String()
		resp.GrupoID = &id
	}
	if inv.Grupo != nil {
		resp.Grupo = inv.Grupo.Nombre
	}
	return resp
}
