package handler

import (
	"net/http"

	"enci/internal/dto"
	"enci/internal/service"

	"github.com/gin-gonic/gin"
)

type RegistroHandler struct{ svc service.RegistroService }

func NewRegistroHandler(svc service.RegistroService) *RegistroHandler {
	return &RegistroHandler{svc: svc}
}

// RegistrarEstudiante godoc
// @Summary      Registro de estudiante con código de invitación
// @Description  Crea usuario + perfil inactivo, consume un uso del código y registra el referral, todo en una transacción.
// @Tags         registro
// @Accept       json
// @Produce      json
// @Param        body body dto.RegistroEstudianteRequest true "Datos de registro"
// @Success      201  {object} dto.RegistroResponse
// @Failure      400  {object} apierror.APIError
// @Failure      409  {object} apierror.APIError
// @Router       /v1/registro/estudiante [post]
func (h *RegistroHandler) RegistrarEstudiante(c *gin.Context) {
	var req dto.RegistroEstudianteRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.RegistrarEstudiante(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// RegistrarDocente godoc
// @Summary      Registro de docente
// @Description  Crea una cuenta de docente inactiva y notifica a los administradores.
// @Tags         registro
// @Accept       json
// @Produce      json
// @Param        body body dto.RegistroDocenteRequest true "Datos de registro"
// @Success      201  {object} dto.RegistroResponse
// @Failure      409  {object} apierror.APIError
// @Router       /v1/registro/docente [post]
func (h *RegistroHandler) RegistrarDocente(c *gin.Context) {
	var req dto.RegistroDocenteRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.RegistrarDocente(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}
