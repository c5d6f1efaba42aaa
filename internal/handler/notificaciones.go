package handler

import (
	"net/http"
	"strconv"

	"enci/internal/apierror"
	"enci/internal/dto"
	"enci/internal/middleware"
	"enci/internal/service"

	"github.com/gin-gonic/gin"
)

type NotificacionesHandler struct{ svc service.NotificationService }

func NewNotificacionesHandler(svc service.NotificationService) *NotificacionesHandler {
	return &NotificacionesHandler{svc: svc}
}

// Listar godoc
// @Summary      Notificaciones del usuario autenticado
// @Tags         notificaciones
// @Produce      json
// @Security     BearerAuth
// @Param        limit query int false "Máximo de filas (default 30)"
// @Success      200   {array} dto.NotificationResponse
// @Router       /v1/notificaciones [get]
func (h *NotificacionesHandler) Listar(c *gin.Context) {
	actor := middleware.GetActor(c)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "30"))

	resp, err := h.svc.Listar(c.Request.Context(), actor.ID, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ContarNoLeidas godoc
// @Summary      Conteo de notificaciones no leídas
// @Tags         notificaciones
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dto.UnreadCountResponse
// @Router       /v1/notificaciones/no-leidas [get]
func (h *NotificacionesHandler) ContarNoLeidas(c *gin.Context) {
	actor := middleware.GetActor(c)
	count, err := h.svc.ContarNoLeidas(c.Request.Context(), actor.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.UnreadCountResponse{Unread: count})
}

// MarcarLeida godoc
// @Summary      Marcar una notificación propia como leída
// @Tags         notificaciones
// @Security     BearerAuth
// @Param        id path int true "ID de la notificación"
// @Success      204
// @Failure      404 {object} apierror.APIError
// @Router       /v1/notificaciones/{id}/leer [post]
func (h *NotificacionesHandler) MarcarLeida(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	actor := middleware.GetActor(c)
	if err := h.svc.MarcarLeida(c.Request.Context(), uint(id), actor.ID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// MarcarTodasLeidas godoc
// @Summary      Marcar todas las notificaciones propias como leídas
// @Tags         notificaciones
// @Security     BearerAuth
// @Success      204
// @Router       /v1/notificaciones/leer-todas [post]
func (h *NotificacionesHandler) MarcarTodasLeidas(c *gin.Context) {
	actor := middleware.GetActor(c)
	if err := h.svc.MarcarTodasLeidas(c.Request.Context(), actor.ID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Eliminar godoc
// @Summary      Eliminar una notificación propia
// @Tags         notificaciones
// @Security     BearerAuth
// @Param        id path int true "ID de la notificación"
// @Success      204
// @Failure      404 {object} apierror.APIError
// @Router       /v1/notificaciones/{id} [delete]
func (h *NotificacionesHandler) Eliminar(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	actor := middleware.GetActor(c)
	if err := h.svc.Eliminar(c.Request.Context(), uint(id), actor.ID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// EliminarTodas godoc
// @Summary      Eliminar todas las notificaciones propias
// @Tags         notificaciones
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dto.MensajeResponse
// @Router       /v1/notificaciones [delete]
func (h *NotificacionesHandler) EliminarTodas(c *gin.Context) {
	actor := middleware.GetActor(c)
	n, err := h.svc.EliminarTodas(c.Request.Context(), actor.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MensajeResponse{
		Mensaje: strconv.FormatInt(n, 10) + " notificaciones eliminadas",
	})
}
