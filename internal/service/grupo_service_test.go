package service

import (
	"context"
	"testing"

	"enci/internal/dto"
	"enci/internal/model"
	"enci/internal/policy"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type grupoFixture struct {
	grupos    *stubGrupoRepo
	referrals *stubReferralRepo
	audit     *stubAuditRepo
	svc       GrupoService

	docenteID uuid.UUID
	grupo     *model.Grupo
}

func newGrupoFixture(t *testing.T) *grupoFixture {
	t.Helper()
	f := &grupoFixture{
		grupos:    newStubGrupoRepo(),
		referrals: newStubReferralRepo(),
		audit:     &stubAuditRepo{},
		docenteID: uuid.New(),
	}
	f.svc = NewGrupoService(f.grupos, f.referrals, f.audit)

	f.grupo = &model.Grupo{
		ID:        uuid.New(),
		Nombre:    "Contabilidad I",
		DocenteID: f.docenteID,
		Active:    true,
	}
	f.grupos.grupos[f.grupo.ID] = f.grupo
	return f
}

func (f *grupoFixture) actor() policy.Actor {
	return policy.Actor{ID: f.docenteID, Rol: model.RolDocente}
}

func TestGrupoCrear(t *testing.T) {
	f := newGrupoFixture(t)

	resp, err := f.svc.Crear(context.Background(), f.docenteID, dto.CrearGrupoRequest{
		Nombre:      "  Contabilidad II  ",
		Descripcion: "Turno noche",
	})
	require.NoError(t, err)

	assert.Equal(t, "Contabilidad II", resp.Nombre, "whitespace is trimmed")
	assert.True(t, resp.Active, "new groups start active")
	assert.Len(t, f.audit.byAction(model.AuditCreateGrupo), 1)
}

func TestGrupoActualizarCambiaEstado(t *testing.T) {
	f := newGrupoFixture(t)
	inactivo := false

	resp, err := f.svc.Actualizar(context.Background(), f.actor(), f.grupo.ID, dto.ActualizarGrupoRequest{
		Active: &inactivo,
	})
	require.NoError(t, err)

	assert.False(t, resp.Active)
	assert.False(t, f.grupo.Active)
	// Toggling the state audits as activation, not as a plain edit
	assert.Len(t, f.audit.byAction(model.AuditActivateGrupo), 1)
	assert.Empty(t, f.audit.byAction(model.AuditEditGrupo))
}

func TestGrupoActualizarAjenoProhibido(t *testing.T) {
	f := newGrupoFixture(t)
	otro := policy.Actor{ID: uuid.New(), Rol: model.RolDocente}
	nombre := "Robado"

	_, err := f.svc.Actualizar(context.Background(), otro, f.grupo.ID, dto.ActualizarGrupoRequest{
		Nombre: &nombre,
	})
	assert.ErrorIs(t, err, ErrProhibido)
	assert.Equal(t, "Contabilidad I", f.grupo.Nombre)
}

func TestGrupoActualizarInexistente(t *testing.T) {
	f := newGrupoFixture(t)
	nombre := "Nada"

	_, err := f.svc.Actualizar(context.Background(), f.actor(), uuid.New(), dto.ActualizarGrupoRequest{
		Nombre: &nombre,
	})
	assert.ErrorIs(t, err, ErrNoEncontrado)
}

func TestGrupoEliminarAjenoProhibido(t *testing.T) {
	f := newGrupoFixture(t)
	otro := policy.Actor{ID: uuid.New(), Rol: model.RolDocente}

	err := f.svc.Eliminar(context.Background(), otro, f.grupo.ID)
	assert.ErrorIs(t, err, ErrProhibido)
	assert.Contains(t, f.grupos.grupos, f.grupo.ID)
}

func TestGrupoEliminarPermitidoParaAdmin(t *testing.T) {
	f := newGrupoFixture(t)
	admin := policy.Actor{ID: uuid.New(), Rol: model.RolAdmin}

	err := f.svc.Eliminar(context.Background(), admin, f.grupo.ID)
	require.NoError(t, err)
	assert.Empty(t, f.grupos.grupos)
	assert.Len(t, f.audit.byAction(model.AuditDeleteGrupo), 1)
}

func TestGrupoListarConConteos(t *testing.T) {
	f := newGrupoFixture(t)
	grupoID := f.grupo.ID
	activo := &model.Referral{ID: uuid.New(), StudentID: uuid.New(), GrupoID: &grupoID, DocenteID: f.docenteID, Activated: true}
	pendiente := &model.Referral{ID: uuid.New(), StudentID: uuid.New(), GrupoID: &grupoID, DocenteID: f.docenteID}
	f.referrals.referrals[activo.ID] = activo
	f.referrals.referrals[pendiente.ID] = pendiente

	resp, err := f.svc.Listar(context.Background(), f.docenteID)
	require.NoError(t, err)
	require.Len(t, resp, 1)
	assert.Equal(t, int64(2), resp[0].TotalEstudiantes)
	assert.Equal(t, int64(1), resp[0].EstudiantesActivos)
}
