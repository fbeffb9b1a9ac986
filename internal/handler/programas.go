package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/INGMEGANO/PSPVoteBackend/internal/apierror"
	"github.com/INGMEGANO/PSPVoteBackend/internal/service"
)

type ProgramasHandler struct{ svc service.ProgramaService }

func NewProgramasHandler(svc service.ProgramaService) *ProgramasHandler {
	return &ProgramasHandler{svc: svc}
}

// Listar godoc
// @Summary      Listar programas
// @Tags         programas
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array} dto.ProgramaResponse
// @Router       /v1/programas [get]
func (h *ProgramasHandler) Listar(c *gin.Context) {
	resp, err := h.svc.Listar(c.Request.Context())
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Sedes godoc
// @Summary      Listar sedes de un programa
// @Tags         programas
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID del programa"
// @Success      200  {array} dto.SedeResponse
// @Router       /v1/programas/{id}/sedes [get]
func (h *ProgramasHandler) Sedes(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	resp, err := h.svc.Sedes(c.Request.Context(), id)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Tipos godoc
// @Summary      Listar tipos de vinculación
// @Tags         programas
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array} model.TipoVinculacion
// @Router       /v1/programas/tipos [get]
func (h *ProgramasHandler) Tipos(c *gin.Context) {
	resp, err := h.svc.Tipos(c.Request.Context())
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Opciones godoc
// @Summary      Opciones programa/sede/tipo para formularios
// @Description  Expande el catálogo en todas las combinaciones seleccionables. Programas sin sedes generan una opción por tipo.
// @Tags         programas
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array} dto.OpcionPrograma
// @Router       /v1/programas/opciones [get]
func (h *ProgramasHandler) Opciones(c *gin.Context) {
	resp, err := h.svc.Opciones(c.Request.Context())
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
