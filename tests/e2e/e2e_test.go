//go:build integration

package e2e

// End-to-end integration tests against real Postgres + Redis via testcontainers.
// Run with: go test -tags integration ./tests/e2e/... -v
//
// Covered flows:
//   - Full enrollment cycle (docente login → grupo → invitation → student
//     registration → activation → student login)
//   - Invitation quota exhaustion across concurrent-style redemptions
//   - Balanced vs unbalanced journal entries

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"enci/internal/config"
	"enci/internal/infra"
	"enci/internal/model"
	"enci/internal/router"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func do(t *testing.T, srv *httptest.Server, method, path string, body *bytes.Buffer, token string) *http.Response {
	t.Helper()
	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequest(method, srv.URL+path, body)
	} else {
		req, err = http.NewRequest(method, srv.URL+path, nil)
	}
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

type testEnv struct {
	server *httptest.Server
	db     *gorm.DB
	token  string // docente JWT
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcPostgres.WithDatabase("enci_test"),
		tcPostgres.WithUsername("enci"),
		tcPostgres.WithPassword("enci"),
		tcPostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	pgURL, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	rdC, err := tcRedis.RunContainer(ctx,
		testcontainers.WithImage("redis:7-alpine"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(ctx) })

	rdURL, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)

	cfg := &config.Config{
		Port:               8000,
		Env:                "test",
		JWTSecret:          "test-secret-key",
		JWTExpirationHours: 8,
		JWTRefreshHours:    24,
		DatabaseURL:        pgURL,
		RedisURL:           rdURL,
		WorkerPoolSize:     1,
		PDFStoragePath:     t.TempDir(),
		LedgerFixBatchSize: 500,
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	require.NoError(t, err)

	rdb, err := infra.NewRedis(cfg.RedisURL)
	require.NoError(t, err)

	// Seed an active docente and two imputable accounts
	hash, err := bcrypt.GenerateFromPassword([]byte("enci2026!"), bcrypt.MinCost)
	require.NoError(t, err)
	email := "profe@e2e.test"
	docente := model.Usuario{Username: "profe.e2e", Nombre: "Profe", Apellido: "E2E", Email: &email, PasswordHash: string(hash)}
	require.NoError(t, db.Create(&docente).Error)
	require.NoError(t, db.Create(&model.Perfil{UsuarioID: docente.ID, Rol: model.RolDocente, EstaActivo: true}).Error)

	require.NoError(t, db.Create(&model.CuentaContable{
		Codigo: "1.1.01", Descripcion: "Caja", Tipo: model.TipoActivo,
		Naturaleza: model.NaturalezaDeudora, EsAuxiliar: true, Activa: true,
	}).Error)
	require.NoError(t, db.Create(&model.CuentaContable{
		Codigo: "4.1.01", Descripcion: "Ventas", Tipo: model.TipoIngreso,
		Naturaleza: model.NaturalezaAcreedora, EsAuxiliar: true, Activa: true,
	}).Error)

	r := router.New(cfg, db, rdb)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	loginResp := do(t, srv, "POST", "/v1/auth/login",
		jsonBody(t, map[string]string{"username": "profe.e2e", "password": "enci2026!"}), "")
	require.Equal(t, http.StatusOK, loginResp.StatusCode)
	var loginBody struct {
		AccessToken string `json:"access_token"`
	}
	decodeJSON(t, loginResp, &loginBody)
	require.NotEmpty(t, loginBody.AccessToken)

	return &testEnv{server: srv, db: db, token: loginBody.AccessToken}
}

func crearGrupoEInvitacion(t *testing.T, env *testEnv, maxUses int) (grupoID, code string) {
	t.Helper()
	grupoResp := do(t, env.server, "POST", "/v1/grupos",
		jsonBody(t, map[string]any{"nombre": "Contabilidad I", "descripcion": "Turno noche"}), env.token)
	require.Equal(t, http.StatusCreated, grupoResp.StatusCode)
	var grupo struct {
		ID string `json:"id"`
	}
	decodeJSON(t, grupoResp, &grupo)

	invResp := do(t, env.server, "POST", "/v1/invitaciones",
		jsonBody(t, map[string]any{"grupo_id": grupo.ID, "max_uses": maxUses}), env.token)
	require.Equal(t, http.StatusCreated, invResp.StatusCode)
	var inv struct {
		Code string `json:"code"`
	}
	decodeJSON(t, invResp, &inv)
	require.NotEmpty(t, inv.Code)
	return grupo.ID, inv.Code
}

func registrarEstudiante(t *testing.T, env *testEnv, username, code string) *http.Response {
	t.Helper()
	return do(t, env.server, "POST", "/v1/registro/estudiante",
		jsonBody(t, map[string]any{
			"username":          username,
			"nombre":            "Alumno",
			"apellido":          "Prueba",
			"email":             username + "@e2e.test",
			"password":          "alumno2026!",
			"password_confirm":  "alumno2026!",
			"codigo_invitacion": code,
		}), "")
}

func TestE2E_CicloCompletoDeInscripcion(t *testing.T) {
	env := setupTestEnv(t)
	_, code := crearGrupoEInvitacion(t, env, 5)

	regResp := registrarEstudiante(t, env, "alumno.uno", code)
	require.Equal(t, http.StatusCreated, regResp.StatusCode)
	regResp.Body.Close()

	// Inactive until the docente approves
	loginResp := do(t, env.server, "POST", "/v1/auth/login",
		jsonBody(t, map[string]string{"username": "alumno.uno", "password": "alumno2026!"}), "")
	assert.Equal(t, http.StatusForbidden, loginResp.StatusCode)
	loginResp.Body.Close()

	// The docente sees the pending referral and got a notification
	listResp := do(t, env.server, "GET", "/v1/referrals", nil, env.token)
	require.Equal(t, http.StatusOK, listResp.StatusCode)
	var page struct {
		Items []struct {
			ID        string `json:"id"`
			Activated bool   `json:"activated"`
		} `json:"items"`
		Total int64 `json:"total"`
	}
	decodeJSON(t, listResp, &page)
	require.Len(t, page.Items, 1)
	assert.False(t, page.Items[0].Activated)

	unreadResp := do(t, env.server, "GET", "/v1/notificaciones/no-leidas", nil, env.token)
	require.Equal(t, http.StatusOK, unreadResp.StatusCode)
	var unread struct {
		Unread int64 `json:"unread"`
	}
	decodeJSON(t, unreadResp, &unread)
	assert.GreaterOrEqual(t, unread.Unread, int64(1))

	// Activate → mirror flips the student's perfil, login now succeeds
	accResp := do(t, env.server, "POST", fmt.Sprintf("/v1/referrals/%s/accion", page.Items[0].ID),
		jsonBody(t, map[string]string{"accion": "activar"}), env.token)
	require.Equal(t, http.StatusOK, accResp.StatusCode)
	accResp.Body.Close()

	loginResp2 := do(t, env.server, "POST", "/v1/auth/login",
		jsonBody(t, map[string]string{"username": "alumno.uno", "password": "alumno2026!"}), "")
	assert.Equal(t, http.StatusOK, loginResp2.StatusCode)
	loginResp2.Body.Close()
}

func TestE2E_CupoDeInvitacionSeAgota(t *testing.T) {
	env := setupTestEnv(t)
	_, code := crearGrupoEInvitacion(t, env, 1)

	first := registrarEstudiante(t, env, "alumno.cupo1", code)
	require.Equal(t, http.StatusCreated, first.StatusCode)
	first.Body.Close()

	second := registrarEstudiante(t, env, "alumno.cupo2", code)
	assert.Equal(t, http.StatusBadRequest, second.StatusCode)
	second.Body.Close()

	// Exhaustion deactivated the code
	listResp := do(t, env.server, "GET", "/v1/invitaciones", nil, env.token)
	require.Equal(t, http.StatusOK, listResp.StatusCode)
	var invs []struct {
		Code   string `json:"code"`
		Active bool   `json:"active"`
		Valida bool   `json:"valida"`
	}
	decodeJSON(t, listResp, &invs)
	require.Len(t, invs, 1)
	assert.False(t, invs[0].Active)
	assert.False(t, invs[0].Valida)
}

func TestE2E_AsientosDelLibroDiario(t *testing.T) {
	env := setupTestEnv(t)

	balanced := map[string]any{
		"fecha":       "2026-03-15",
		"descripcion": "Venta de servicios al contado",
		"confirmar":   true,
		"lineas": []map[string]any{
			{"cuenta_id": 1, "detalle": "Cobro", "debe": "1500.00"},
			{"cuenta_id": 2, "detalle": "Ingreso", "haber": "1500.00"},
		},
	}
	createResp := do(t, env.server, "POST", "/v1/contabilidad/asientos", jsonBody(t, balanced), env.token)
	require.Equal(t, http.StatusCreated, createResp.StatusCode)
	var asiento struct {
		ID     uint   `json:"id"`
		Estado string `json:"estado"`
	}
	decodeJSON(t, createResp, &asiento)
	assert.Equal(t, model.EstadoConfirmado, asiento.Estado)

	unbalanced := map[string]any{
		"fecha":       "2026-03-15",
		"descripcion": "No cierra",
		"lineas": []map[string]any{
			{"cuenta_id": 1, "debe": "100.00"},
			{"cuenta_id": 2, "haber": "90.00"},
		},
	}
	badResp := do(t, env.server, "POST", "/v1/contabilidad/asientos", jsonBody(t, unbalanced), env.token)
	assert.Equal(t, http.StatusBadRequest, badResp.StatusCode)
	badResp.Body.Close()

	getResp := do(t, env.server, "GET", fmt.Sprintf("/v1/contabilidad/asientos/%d", asiento.ID), nil, env.token)
	require.Equal(t, http.StatusOK, getResp.StatusCode)
	var detail struct {
		Lineas []struct {
			Debe  string `json:"debe"`
			Haber string `json:"haber"`
		} `json:"lineas"`
	}
	decodeJSON(t, getResp, &detail)
	assert.Len(t, detail.Lineas, 2)
}
