package handler

import (
	"net/http"
	"strconv"

	"enci/internal/apierror"
	"enci/internal/dto"
	"enci/internal/middleware"
	"enci/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PerfilesHandler covers the admin-side account administration endpoints.
type PerfilesHandler struct{ svc service.PerfilService }

func NewPerfilesHandler(svc service.PerfilService) *PerfilesHandler {
	return &PerfilesHandler{svc: svc}
}

// Accion godoc
// @Summary      Activar o desactivar la cuenta de un usuario
// @Description  Vía directa de administración; la activación de estudiantes por su docente va por referrals.
// @Tags         perfiles
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "UUID del usuario"
// @Param        body body dto.PerfilAccionRequest true "Acción"
// @Success      200  {object} dto.UsuarioResponse
// @Failure      404  {object} apierror.APIError
// @Router       /v1/perfiles/{id}/accion [post]
func (h *PerfilesHandler) Accion(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	var req dto.PerfilAccionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	actor := middleware.GetActor(c)
	resp, err := h.svc.Accion(c.Request.Context(), actor.ID, id, req.Accion)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CambiarRol godoc
// @Summary      Cambiar el rol de un usuario
// @Description  Si el nuevo rol es docente se notifica a los administradores.
// @Tags         perfiles
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "UUID del usuario"
// @Param        body body dto.CambiarRolRequest true "Nuevo rol"
// @Success      200  {object} dto.UsuarioResponse
// @Failure      404  {object} apierror.APIError
// @Router       /v1/perfiles/{id}/rol [post]
func (h *PerfilesHandler) CambiarRol(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	var req dto.CambiarRolRequest
	if !bindAndValidate(c, &req) {
		return
	}
	actor := middleware.GetActor(c)
	resp, err := h.svc.CambiarRol(c.Request.Context(), actor.ID, id, req.Rol)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListarEstudiantes godoc
// @Summary      Listar y buscar estudiantes
// @Tags         perfiles
// @Produce      json
// @Security     BearerAuth
// @Param        q     query string false "Buscar por username, email o nombre"
// @Param        page  query int    false "Página (default 1)"
// @Param        limit query int    false "Registros por página (default 25)"
// @Success      200   {object} dto.PaginatedResponse
// @Router       /v1/perfiles/estudiantes [get]
func (h *PerfilesHandler) ListarEstudiantes(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "25"))

	resp, err := h.svc.ListarEstudiantes(c.Request.Context(), c.Query("q"), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
