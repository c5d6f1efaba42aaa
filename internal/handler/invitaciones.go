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

type InvitacionesHandler struct{ svc service.InvitationService }

func NewInvitacionesHandler(svc service.InvitationService) *InvitacionesHandler {
	return &InvitacionesHandler{svc: svc}
}

// Crear godoc
// @Summary      Emitir código de invitación
// @Description  Genera un código aleatorio para un grupo propio. max_uses nulo = 1 uso.
// @Tags         invitaciones
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CrearInvitacionRequest true "Parámetros"
// @Success      201  {object} dto.InvitacionResponse
// @Failure      403  {object} apierror.APIError
// @Failure      404  {object} apierror.APIError
// @Failure      409  {object} apierror.APIError
// @Router       /v1/invitaciones [post]
func (h *InvitacionesHandler) Crear(c *gin.Context) {
	var req dto.CrearInvitacionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	actor := middleware.GetActor(c)
	resp, err := h.svc.Crear(c.Request.Context(), actor, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Listar godoc
// @Summary      Listar invitaciones propias
// @Tags         invitaciones
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} dto.InvitacionResponse
// @Router       /v1/invitaciones [get]
func (h *InvitacionesHandler) Listar(c *gin.Context) {
	actor := middleware.GetActor(c)
	resp, err := h.svc.Listar(c.Request.Context(), actor.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Accion godoc
// @Summary      Activar, desactivar o eliminar una invitación propia
// @Description  La eliminación se rechaza mientras existan registros asociados.
// @Tags         invitaciones
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "UUID de la invitación"
// @Param        body body dto.InvitacionAccionRequest true "Acción"
// @Success      200  {object} dto.InvitacionResponse
// @Success      204
// @Failure      403  {object} apierror.APIError
// @Failure      404  {object} apierror.APIError
// @Failure      409  {object} apierror.APIError
// @Router       /v1/invitaciones/{id}/accion [post]
func (h *InvitacionesHandler) Accion(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	var req dto.InvitacionAccionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	actor := middleware.GetActor(c)
	resp, err := h.svc.Accion(c.Request.Context(), actor, id, req.Accion)
	if err != nil {
		respondError(c, err)
		return
	}
	if resp == nil {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, resp)
}
