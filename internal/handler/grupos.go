package handler

import (
	"net/http"

	"enci/internal/apierror"
	"enci/internal/dto"
	"enci/internal/middleware"
	"enci/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type GruposHandler struct{ svc service.GrupoService }

func NewGruposHandler(svc service.GrupoService) *GruposHandler { return &GruposHandler{svc: svc} }

// Crear godoc
// @Summary      Crear grupo
// @Tags         grupos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CrearGrupoRequest true "Datos del grupo"
// @Success      201  {object} dto.GrupoResponse
// @Router       /v1/grupos [post]
func (h *GruposHandler) Crear(c *gin.Context) {
	var req dto.CrearGrupoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	actor := middleware.GetActor(c)
	resp, err := h.svc.Crear(c.Request.Context(), actor.ID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Listar godoc
// @Summary      Listar grupos del docente con conteo de estudiantes
// @Tags         grupos
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} dto.GrupoResponse
// @Router       /v1/grupos [get]
func (h *GruposHandler) Listar(c *gin.Context) {
	actor := middleware.GetActor(c)
	resp, err := h.svc.Listar(c.Request.Context(), actor.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Actualizar godoc
// @Summary      Editar o activar/desactivar un grupo propio
// @Tags         grupos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "UUID del grupo"
// @Param        body body dto.ActualizarGrupoRequest true "Cambios"
// @Success      200  {object} dto.GrupoResponse
// @Failure      403  {object} apierror.APIError
// @Failure      404  {object} apierror.APIError
// @Router       /v1/grupos/{id} [patch]
func (h *GruposHandler) Actualizar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	var req dto.ActualizarGrupoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	actor := middleware.GetActor(c)
	resp, err := h.svc.Actualizar(c.Request.Context(), actor, id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Eliminar godoc
// @Summary      Eliminar grupo propio
// @Tags         grupos
// @Security     BearerAuth
// @Param        id path string true "UUID del grupo"
// @Success      204
// @Failure      403 {object} apierror.APIError
// @Failure      404 {object} apierror.APIError
// @Router       /v1/grupos/{id} [delete]
func (h *GruposHandler) Eliminar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	actor := middleware.GetActor(c)
	if err := h.svc.Eliminar(c.Request.Context(), actor, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
