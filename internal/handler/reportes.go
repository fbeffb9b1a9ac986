package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/INGMEGANO/PSPVoteBackend/internal/apierror"
	"github.com/INGMEGANO/PSPVoteBackend/internal/dto"
	"github.com/INGMEGANO/PSPVoteBackend/internal/middleware"
	"github.com/INGMEGANO/PSPVoteBackend/internal/service"
)

type ReportesHandler struct{ svc service.DashboardService }

func NewReportesHandler(svc service.DashboardService) *ReportesHandler {
	return &ReportesHandler{svc: svc}
}

func (h *ReportesHandler) bindQuery(c *gin.Context) (dto.VotacionQuery, bool) {
	var q dto.VotacionQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return q, false
	}
	return q, true
}

// Dashboard godoc
// @Summary      Dashboard general
// @Description  Desglose por pago, líder, programa, puesto y tipo. Todos los porcentajes usan el total general como denominador.
// @Tags         reportes
// @Produce      json
// @Security     BearerAuth
// @Param        desde      query string false "Fecha YYYY-MM-DD"
// @Param        hasta      query string false "Fecha YYYY-MM-DD (inclusive)"
// @Param        leaderId   query string false "UUID del líder (solo ADMIN)"
// @Param        programaId query string false "UUID del programa"
// @Param        tipo       query string false "Nombre del tipo de vinculación"
// @Success      200  {object} dto.DashboardResponse
// @Router       /v1/reportes/dashboard [get]
func (h *ReportesHandler) Dashboard(c *gin.Context) {
	q, ok := h.bindQuery(c)
	if !ok {
		return
	}
	resp, err := h.svc.Dashboard(c.Request.Context(), middleware.GetActor(c), q)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Resumen godoc
// @Summary      Resumen por grupos
// @Description  Igual que el dashboard pero los porcentajes pago/no-pago dividen por el subtotal de cada grupo.
// @Tags         reportes
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object} dto.ResumenResponse
// @Router       /v1/reportes/resumen [get]
func (h *ReportesHandler) Resumen(c *gin.Context) {
	q, ok := h.bindQuery(c)
	if !ok {
		return
	}
	resp, err := h.svc.Resumen(c.Request.Context(), middleware.GetActor(c), q)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// PorLider godoc
// @Summary      Conteo por líder
// @Tags         reportes
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array} dto.ConteoSimple
// @Router       /v1/reportes/por-lider [get]
func (h *ReportesHandler) PorLider(c *gin.Context) {
	q, ok := h.bindQuery(c)
	if !ok {
		return
	}
	resp, err := h.svc.PorLider(c.Request.Context(), middleware.GetActor(c), q)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// PorDigitador godoc
// @Summary      Conteo por digitador
// @Tags         reportes
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array} dto.ConteoSimple
// @Router       /v1/reportes/por-digitador [get]
func (h *ReportesHandler) PorDigitador(c *gin.Context) {
	q, ok := h.bindQuery(c)
	if !ok {
		return
	}
	resp, err := h.svc.PorDigitador(c.Request.Context(), middleware.GetActor(c), q)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Duplicados godoc
// @Summary      Resumen de duplicados
// @Description  Total de duplicados, porcentaje sobre registros y desglose por líder.
// @Tags         reportes
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object} dto.DuplicadosResumen
// @Router       /v1/reportes/duplicados [get]
func (h *ReportesHandler) Duplicados(c *gin.Context) {
	resp, err := h.svc.Duplicados(c.Request.Context(), middleware.GetActor(c))
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Pagos godoc
// @Summary      Desglose pago / no pago
// @Tags         reportes
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array} dto.PagoResumen
// @Router       /v1/reportes/pagos [get]
func (h *ReportesHandler) Pagos(c *gin.Context) {
	q, ok := h.bindQuery(c)
	if !ok {
		return
	}
	resp, err := h.svc.Pagos(c.Request.Context(), middleware.GetActor(c), q)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// PorFecha godoc
// @Summary      Serie de registros por día
// @Tags         analytics
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array} dto.FechaResumen
// @Router       /v1/analytics/registros-por-fecha [get]
func (h *ReportesHandler) PorFecha(c *gin.Context) {
	q, ok := h.bindQuery(c)
	if !ok {
		return
	}
	resp, err := h.svc.PorFecha(c.Request.Context(), middleware.GetActor(c), q)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RolesChart godoc
// @Summary      Distribución de usuarios por rol
// @Tags         analytics
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array} dto.RolChart
// @Router       /v1/analytics/roles [get]
func (h *ReportesHandler) RolesChart(c *gin.Context) {
	resp, err := h.svc.RolesChart(c.Request.Context())
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// PuestosChart godoc
// @Summary      Registros activos por puesto de votación
// @Tags         analytics
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array} dto.ConteoSimple
// @Router       /v1/analytics/puestos [get]
func (h *ReportesHandler) PuestosChart(c *gin.Context) {
	resp, err := h.svc.PuestosChart(c.Request.Context())
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GeneroChart godoc
// @Summary      Censo por género
// @Description  Agrega las columnas de censo de todos los puestos de votación.
// @Tags         analytics
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array} dto.GeneroChart
// @Router       /v1/analytics/genero [get]
func (h *ReportesHandler) GeneroChart(c *gin.Context) {
	resp, err := h.svc.GeneroChart(c.Request.Context())
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
