package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"enci/internal/dto"
	"enci/internal/model"
	"enci/internal/policy"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type invitationFixture struct {
	invitaciones *stubInvitationRepo
	grupos       *stubGrupoRepo
	referrals    *stubReferralRepo
	audit        *stubAuditRepo
	svc          InvitationService

	docenteID uuid.UUID
	grupo     *model.Grupo
}

func newInvitationFixture(t *testing.T) *invitationFixture {
	t.Helper()
	f := &invitationFixture{
		grupos:    newStubGrupoRepo(),
		referrals: newStubReferralRepo(),
		audit:     &stubAuditRepo{},
		docenteID: uuid.New(),
	}
	f.invitaciones = newStubInvitationRepo(f.referrals)
	f.svc = NewInvitationService(f.invitaciones, f.grupos, f.audit)

	f.grupo = &model.Grupo{ID: uuid.New(), Nombre: "Contabilidad I", DocenteID: f.docenteID, Active: true}
	f.grupos.grupos[f.grupo.ID] = f.grupo
	return f
}

func (f *invitationFixture) actor() policy.Actor {
	return policy.Actor{ID: f.docenteID, Rol: model.RolDocente}
}

func otroDocente() policy.Actor {
	return policy.Actor{ID: uuid.New(), Rol: model.RolDocente}
}

func TestCrearInvitacionDefaults(t *testing.T) {
	f := newInvitationFixture(t)

	resp, err := f.svc.Crear(context.Background(), f.actor(), dto.CrearInvitacionRequest{
		GrupoID: f.grupo.ID.String(),
	})
	require.NoError(t, err)

	assert.Len(t, resp.Code, codeLength)
	require.NotNil(t, resp.MaxUses)
	assert.Equal(t, 1, *resp.MaxUses, "max uses defaults to single use")
	assert.True(t, resp.Active)
	assert.True(t, resp.Valida)
	assert.Equal(t, "Contabilidad I", resp.Grupo)
	assert.Len(t, f.audit.byAction(model.AuditCreateInvitation), 1)
}

func TestCrearInvitacionGrupoAjeno(t *testing.T) {
	f := newInvitationFixture(t)

	_, err := f.svc.Crear(context.Background(), otroDocente(), dto.CrearInvitacionRequest{
		GrupoID: f.grupo.ID.String(),
	})
	assert.ErrorIs(t, err, ErrProhibido)
}

func TestCrearInvitacionGrupoInactivo(t *testing.T) {
	// A retired group must not accept new codes, even from its owner
	f := newInvitationFixture(t)
	f.grupo.Active = false

	_, err := f.svc.Crear(context.Background(), f.actor(), dto.CrearInvitacionRequest{
		GrupoID: f.grupo.ID.String(),
	})
	assert.ErrorIs(t, err, ErrProhibido)
	assert.Empty(t, f.invitaciones.invitations)
}

func TestCrearInvitacionExpiracionPasada(t *testing.T) {
	f := newInvitationFixture(t)
	ayer := time.Now().Add(-time.Hour)

	_, err := f.svc.Crear(context.Background(), f.actor(), dto.CrearInvitacionRequest{
		GrupoID:   f.grupo.ID.String(),
		ExpiresAt: &ayer,
	})
	assert.ErrorIs(t, err, ErrExpiracionPasada)
}

func TestCrearInvitacionReintentaTrasColision(t *testing.T) {
	f := newInvitationFixture(t)
	f.invitaciones.createErrs = []error{errors.New(`duplicate key value violates unique constraint "idx_invitations_code"`)}

	resp, err := f.svc.Crear(context.Background(), f.actor(), dto.CrearInvitacionRequest{
		GrupoID: f.grupo.ID.String(),
	})
	require.NoError(t, err, "one collision must be retried transparently")
	assert.Len(t, f.invitaciones.invitations, 1)
	assert.NotEmpty(t, resp.Code)
}

func TestCrearInvitacionColisionPersistente(t *testing.T) {
	f := newInvitationFixture(t)
	dup := errors.New("duplicate key value violates unique constraint")
	f.invitaciones.createErrs = []error{dup, dup, dup}

	_, err := f.svc.Crear(context.Background(), f.actor(), dto.CrearInvitacionRequest{
		GrupoID: f.grupo.ID.String(),
	})
	assert.ErrorIs(t, err, ErrColisionCodigo)
}

func TestInvitacionAccionToggle(t *testing.T) {
	f := newInvitationFixture(t)
	inv := &model.Invitation{
		ID: uuid.New(), Code: "ABC123", GrupoID: &f.grupo.ID,
		CreatorID: f.docenteID, Active: true,
	}
	f.invitaciones.invitations[inv.ID] = inv

	resp, err := f.svc.Accion(context.Background(), f.actor(), inv.ID, "desactivar")
	require.NoError(t, err)
	assert.False(t, resp.Active)
	assert.False(t, resp.Valida)

	resp, err = f.svc.Accion(context.Background(), f.actor(), inv.ID, "activar")
	require.NoError(t, err)
	assert.True(t, resp.Active)
	assert.Len(t, f.audit.byAction(model.AuditToggleInvitation), 2)
}

func TestInvitacionEliminarSinReferrals(t *testing.T) {
	f := newInvitationFixture(t)
	inv := &model.Invitation{ID: uuid.New(), Code: "BORRAR", CreatorID: f.docenteID, Active: true}
	f.invitaciones.invitations[inv.ID] = inv

	resp, err := f.svc.Accion(context.Background(), f.actor(), inv.ID, "eliminar")
	require.NoError(t, err)
	assert.Nil(t, resp)
	assert.Empty(t, f.invitaciones.invitations)
	assert.Len(t, f.audit.byAction(model.AuditDeleteInvitation), 1)
}

func TestInvitacionEliminarConReferralsRechazada(t *testing.T) {
	f := newInvitationFixture(t)
	inv := &model.Invitation{ID: uuid.New(), Code: "USADA", CreatorID: f.docenteID, Active: true}
	f.invitaciones.invitations[inv.ID] = inv
	f.referrals.referrals[uuid.New()] = &model.Referral{
		ID: uuid.New(), StudentID: uuid.New(), DocenteID: f.docenteID, InvitationID: &inv.ID,
	}

	_, err := f.svc.Accion(context.Background(), f.actor(), inv.ID, "eliminar")
	assert.ErrorIs(t, err, ErrInvitacionConReferrals)
	assert.Len(t, f.invitaciones.invitations, 1, "invitation must survive")
}

func TestInvitacionAjenaProhibida(t *testing.T) {
	f := newInvitationFixture(t)
	inv := &model.Invitation{ID: uuid.New(), Code: "AJENA", CreatorID: uuid.New(), Active: true}
	f.invitaciones.invitations[inv.ID] = inv

	_, err := f.svc.Accion(context.Background(), f.actor(), inv.ID, "desactivar")
	assert.ErrorIs(t, err, ErrProhibido)
}

func TestInvitacionAjenaPermitidaParaAdmin(t *testing.T) {
	f := newInvitationFixture(t)
	inv := &model.Invitation{ID: uuid.New(), Code: "AJENA", CreatorID: f.docenteID, Active: true}
	f.invitaciones.invitations[inv.ID] = inv

	admin := policy.Actor{ID: uuid.New(), Rol: model.RolAdmin}
	resp, err := f.svc.Accion(context.Background(), admin, inv.ID, "desactivar")
	require.NoError(t, err)
	assert.False(t, resp.Active)
}

func TestGenerarCodigoAlfabeto(t *testing.T) {
	code, err := generarCodigo()
	require.NoError(t, err)
	assert.Len(t, code, codeLength)
	for _, c := range code {
		assert.Contains(t, codeAlphabet, string(c))
	}
}
