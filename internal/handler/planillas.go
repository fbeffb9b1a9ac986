package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/INGMEGANO/PSPVoteBackend/internal/apierror"
	"github.com/INGMEGANO/PSPVoteBackend/internal/dto"
	"github.com/INGMEGANO/PSPVoteBackend/internal/middleware"
	"github.com/INGMEGANO/PSPVoteBackend/internal/service"
)

type PlanillasHandler struct{ svc service.PlanillaService }

func NewPlanillasHandler(svc service.PlanillaService) *PlanillasHandler {
	return &PlanillasHandler{svc: svc}
}

// ImportarLote godoc
// @Summary      Importar lote de votaciones
// @Description  Crea todas las filas bajo un mismo número de planilla. Cada fila es atómica; las fallidas se reportan sin abortar el lote.
// @Tags         planillas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.ImportarLoteRequest true "Filas del lote"
// @Success      201  {object} dto.ImportarLoteResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/votaciones/lote [post]
func (h *PlanillasHandler) ImportarLote(c *gin.Context) {
	var req dto.ImportarLoteRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ImportarLote(c.Request.Context(), middleware.GetActor(c), req)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ActualizarLote godoc
// @Summary      Actualizar filas de una planilla
// @Description  Actualización parcial por cédula dentro de una planilla. Filas fuera del alcance del rol se omiten.
// @Tags         planillas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        planilla path int true "Número de planilla"
// @Param        body     body dto.ActualizarLoteRequest true "Filas a actualizar"
// @Success      200  {object} dto.ActualizarLoteResponse
// @Router       /v1/votaciones/lote/{planilla} [put]
func (h *PlanillasHandler) ActualizarLote(c *gin.Context) {
	planilla, err := strconv.Atoi(c.Param("planilla"))
	if err != nil || planilla < 1 {
		c.JSON(http.StatusBadRequest, apierror.New("Planilla invalida"))
		return
	}
	var req dto.ActualizarLoteRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ActualizarLote(c.Request.Context(), middleware.GetActor(c), planilla, req)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListarPorPlanilla godoc
// @Summary      Listar votaciones de una planilla
// @Tags         planillas
// @Produce      json
// @Security     BearerAuth
// @Param        planilla path int true "Número de planilla"
// @Success      200  {array} dto.VotacionResponse
// @Router       /v1/votaciones/planilla/{planilla} [get]
func (h *PlanillasHandler) ListarPorPlanilla(c *gin.Context) {
	planilla, err := strconv.Atoi(c.Param("planilla"))
	if err != nil || planilla < 1 {
		c.JSON(http.StatusBadRequest, apierror.New("Planilla invalida"))
		return
	}
	resp, err := h.svc.ListarPorPlanilla(c.Request.Context(), middleware.GetActor(c), planilla)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Resumen godoc
// @Summary      Resumen de planillas
// @Description  Conteo de registros por número de planilla dentro del alcance del rol.
// @Tags         planillas
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array} dto.PlanillaResumen
// @Router       /v1/votaciones/planillas [get]
func (h *PlanillasHandler) Resumen(c *gin.Context) {
	resp, err := h.svc.Resumen(c.Request.Context(), middleware.GetActor(c))
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
