package handler

import (
	"net/http"
	"strconv"

	"enci/internal/dto"
	"enci/internal/repository"

	"github.com/gin-gonic/gin"
)

// AuditoriaHandler exposes the read-only audit trail to admins.
type AuditoriaHandler struct{ repo repository.AuditRepository }

func NewAuditoriaHandler(repo repository.AuditRepository) *AuditoriaHandler {
	return &AuditoriaHandler{repo: repo}
}

// Listar godoc
// @Summary      Listar el registro de auditoría
// @Tags         auditoria
// @Produce      json
// @Security     BearerAuth
// @Param        page  query int false "Página (default 1)"
// @Param        limit query int false "Registros por página (default 50)"
// @Success      200   {object} dto.PaginatedResponse
// @Router       /v1/auditoria [get]
func (h *AuditoriaHandler) Listar(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}

	entries, total, err := h.repo.List(c.Request.Context(), page, limit)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, dto.PaginatedResponse{
		Items: entries, Total: total, Page: page, PageSize: limit,
	})
}
