package handler

import (
	"net/http"
	"strconv"

	"enci/internal/apierror"
	"enci/internal/dto"
	"enci/internal/infra"
	"enci/internal/middleware"
	"enci/internal/repository"
	"enci/internal/service"

	"github.com/gin-gonic/gin"
)

type ContabilidadHandler struct {
	svc        service.AsientoService
	asientos   repository.AsientoRepository
	pdfStorage string
}

func NewContabilidadHandler(svc service.AsientoService, asientos repository.AsientoRepository, pdfStorage string) *ContabilidadHandler {
	return &ContabilidadHandler{svc: svc, asientos: asientos, pdfStorage: pdfStorage}
}

// Crear godoc
// @Summary      Registrar asiento contable
// @Description  Valida partida doble (una línea = un solo lado, asiento balanceado, cuentas auxiliares activas) e inserta cabecera y líneas en una transacción.
// @Tags         contabilidad
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CrearAsientoRequest true "Asiento"
// @Success      201  {object} dto.AsientoResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/contabilidad/asientos [post]
func (h *ContabilidadHandler) Crear(c *gin.Context) {
	var req dto.CrearAsientoRequest
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
// @Summary      Listar asientos del libro diario
// @Tags         contabilidad
// @Produce      json
// @Security     BearerAuth
// @Param        page  query int false "Página (default 1)"
// @Param        limit query int false "Registros por página (default 25)"
// @Success      200   {object} dto.PaginatedResponse
// @Router       /v1/contabilidad/asientos [get]
func (h *ContabilidadHandler) Listar(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "25"))

	resp, err := h.svc.Listar(c.Request.Context(), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Obtener godoc
// @Summary      Detalle de un asiento
// @Tags         contabilidad
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "ID del asiento"
// @Success      200 {object} dto.AsientoResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/contabilidad/asientos/{id} [get]
func (h *ContabilidadHandler) Obtener(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	resp, err := h.svc.Obtener(c.Request.Context(), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// DescargarPDF godoc
// @Summary      Exportar un asiento como PDF de libro diario
// @Tags         contabilidad
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        id path int true "ID del asiento"
// @Success      200 {file} binary
// @Failure      404 {object} apierror.APIError
// @Router       /v1/contabilidad/asientos/{id}/pdf [get]
func (h *ContabilidadHandler) DescargarPDF(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	asiento, err := h.asientos.FindByID(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("Recurso no encontrado"))
		return
	}

	path, err := infra.GenerateAsientoPDF(asiento, h.pdfStorage)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.FileAttachment(path, "asiento_"+strconv.FormatUint(id, 10)+".pdf")
}
