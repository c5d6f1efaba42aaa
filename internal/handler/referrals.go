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

type ReferralsHandler struct{ svc service.ReferralService }

func NewReferralsHandler(svc service.ReferralService) *ReferralsHandler {
	return &ReferralsHandler{svc: svc}
}

// Listar godoc
// @Summary      Listar estudiantes registrados con códigos propios
// @Tags         referrals
// @Produce      json
// @Security     BearerAuth
// @Param        q     query string false "Buscar por username, email o nombre"
// @Param        page  query int    false "Página (default 1)"
// @Param        limit query int    false "Registros por página (default 25)"
// @Success      200   {object} dto.PaginatedResponse
// @Router       /v1/referrals [get]
func (h *ReferralsHandler) Listar(c *gin.Context) {
	actor := middleware.GetActor(c)
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "25"))

	resp, err := h.svc.Listar(c.Request.Context(), actor.ID, c.Query("q"), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Accion godoc
// @Summary      Activar, desactivar o eliminar un referral propio
// @Description  Activar/desactivar refleja el estado en el perfil del estudiante dentro de la misma transacción.
// @Tags         referrals
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "UUID del referral"
// @Param        body body dto.ReferralAccionRequest true "Acción"
// @Success      200  {object} dto.ReferralResponse
// @Success      204
// @Failure      403  {object} apierror.APIError
// @Failure      404  {object} apierror.APIError
// @Router       /v1/referrals/{id}/accion [post]
func (h *ReferralsHandler) Accion(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	var req dto.ReferralAccionRequest
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
