package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/INGMEGANO/PSPVoteBackend/internal/apierror"
	"github.com/INGMEGANO/PSPVoteBackend/internal/dto"
	"github.com/INGMEGANO/PSPVoteBackend/internal/middleware"
	"github.com/INGMEGANO/PSPVoteBackend/internal/service"
)

type VotacionesHandler struct{ svc service.VotacionService }

func NewVotacionesHandler(svc service.VotacionService) *VotacionesHandler {
	return &VotacionesHandler{svc: svc}
}

// Crear godoc
// @Summary      Registrar votación
// @Description  Crea un registro de votación. Si la cédula ya existe la crea marcada como duplicada y devuelve una advertencia, nunca rechaza.
// @Tags         votaciones
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CrearVotacionRequest true "Datos del registro"
// @Success      201  {object} dto.VotacionResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/votaciones [post]
func (h *VotacionesHandler) Crear(c *gin.Context) {
	var req dto.CrearVotacionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), middleware.GetActor(c), req)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Listar godoc
// @Summary      Listar votaciones
// @Description  Lista paginada dentro del alcance del rol, con filtros de fecha, planilla, programa, sede y tipo.
// @Tags         votaciones
// @Produce      json
// @Security     BearerAuth
// @Param        desde      query string false "Fecha YYYY-MM-DD"
// @Param        hasta      query string false "Fecha YYYY-MM-DD (inclusive)"
// @Param        planilla   query int    false "Número de planilla"
// @Param        programaId query string false "UUID del programa"
// @Param        leaderId   query string false "UUID del líder (solo ADMIN)"
// @Param        page       query int    false "Página (default 1)"
// @Param        limit      query int    false "Registros por página (default 20)"
// @Success      200  {object} dto.VotacionListResponse
// @Router       /v1/votaciones [get]
func (h *VotacionesHandler) Listar(c *gin.Context) {
	var q dto.VotacionQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), middleware.GetActor(c), q)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Obtener godoc
// @Summary      Obtener votación
// @Tags         votaciones
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID del registro"
// @Success      200  {object} dto.VotacionResponse
// @Failure      404  {object} apierror.APIError
// @Router       /v1/votaciones/{id} [get]
func (h *VotacionesHandler) Obtener(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	resp, err := h.svc.Obtener(c.Request.Context(), middleware.GetActor(c), id)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// BuscarPorCedula godoc
// @Summary      Buscar por cédula
// @Description  Devuelve los registros de una cédula dentro del alcance del rol, ordenados por fecha.
// @Tags         votaciones
// @Produce      json
// @Security     BearerAuth
// @Param        cedula path string true "Número de documento"
// @Success      200  {array} dto.VotacionResponse
// @Router       /v1/votaciones/cedula/{cedula} [get]
func (h *VotacionesHandler) BuscarPorCedula(c *gin.Context) {
	cedula := c.Param("cedula")
	if cedula == "" {
		c.JSON(http.StatusBadRequest, apierror.New("Cedula requerida"))
		return
	}
	resp, err := h.svc.BuscarPorCedula(c.Request.Context(), middleware.GetActor(c), cedula)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Actualizar godoc
// @Summary      Actualizar votación
// @Description  Actualización parcial con auditoría de snapshots antes/después.
// @Tags         votaciones
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "UUID del registro"
// @Param        body body dto.ActualizarVotacionRequest true "Campos a actualizar"
// @Success      200  {object} dto.VotacionResponse
// @Failure      403  {object} apierror.APIError
// @Router       /v1/votaciones/{id} [put]
func (h *VotacionesHandler) Actualizar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.ActualizarVotacionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Actualizar(c.Request.Context(), middleware.GetActor(c), id, req)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ToggleEstado godoc
// @Summary      Alternar estado activo/inactivo
// @Description  Cada transición queda registrada en la bitácora de estados con el usuario que la ejecutó.
// @Tags         votaciones
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "UUID del registro"
// @Param        body body dto.ToggleEstadoRequest false "Observación opcional"
// @Success      200  {object} dto.VotacionResponse
// @Router       /v1/votaciones/{id}/estado [patch]
func (h *VotacionesHandler) ToggleEstado(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.ToggleEstadoRequest
	if c.Request.ContentLength > 0 {
		if !bindAndValidate(c, &req) {
			return
		}
	}
	resp, err := h.svc.ToggleEstado(c.Request.Context(), middleware.GetActor(c), id, req.Observacion)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Desactivar godoc
// @Summary      Desactivar votación
// @Description  Baja lógica: el registro deja de contar para reportes pero nunca se borra por esta vía.
// @Tags         votaciones
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "UUID del registro"
// @Param        body body dto.ToggleEstadoRequest false "Observación opcional"
// @Success      204
// @Router       /v1/votaciones/{id} [delete]
func (h *VotacionesHandler) Desactivar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.ToggleEstadoRequest
	if c.Request.ContentLength > 0 {
		if !bindAndValidate(c, &req) {
			return
		}
	}
	if err := h.svc.Desactivar(c.Request.Context(), middleware.GetActor(c), id, req.Observacion); err != nil {
		responderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Confirmar godoc
// @Summary      Confirmar votación
// @Description  Adjunta el código y la evidencia de voto. Una votación solo se confirma una vez.
// @Tags         votaciones
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "UUID del registro"
// @Param        body body dto.ConfirmarRequest true "Código y evidencia"
// @Success      201
// @Failure      409  {object} apierror.APIError
// @Router       /v1/votaciones/{id}/confirmar [post]
func (h *VotacionesHandler) Confirmar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.ConfirmarRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.Confirmar(c.Request.Context(), middleware.GetActor(c), id, req); err != nil {
		responderError(c, err)
		return
	}
	c.Status(http.StatusCreated)
}

// Reasignar godoc
// @Summary      Reasignar votación a otro líder
// @Description  Mueve el registro a otro líder y lo promueve a no-duplicado. Solo ADMIN.
// @Tags         votaciones
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "UUID del registro"
// @Param        body body dto.ReasignarRequest true "Nuevo líder"
// @Success      200  {object} dto.VotacionResponse
// @Router       /v1/votaciones/{id}/reasignar [patch]
func (h *VotacionesHandler) Reasignar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.ReasignarRequest
	if !bindAndValidate(c, &req) {
		return
	}
	nuevoLider, err := uuid.Parse(req.NuevoLiderID)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("nuevoLiderId invalido"))
		return
	}
	resp, err := h.svc.Reasignar(c.Request.Context(), middleware.GetActor(c), id, nuevoLider)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// EliminarDefinitivo godoc
// @Summary      Eliminar votación definitivamente
// @Description  Borrado físico del registro y sus filas asociadas. Solo ADMIN.
// @Tags         votaciones
// @Security     BearerAuth
// @Param        id path string true "UUID del registro"
// @Success      204
// @Router       /v1/votaciones/{id}/definitivo [delete]
func (h *VotacionesHandler) EliminarDefinitivo(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	if err := h.svc.EliminarDefinitivo(c.Request.Context(), middleware.GetActor(c), id); err != nil {
		responderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListarDuplicadas godoc
// @Summary      Listar votaciones duplicadas
// @Tags         votaciones
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array} dto.VotacionResponse
// @Router       /v1/votaciones/duplicadas [get]
func (h *VotacionesHandler) ListarDuplicadas(c *gin.Context) {
	resp, err := h.svc.ListarDuplicadas(c.Request.Context(), middleware.GetActor(c))
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListarDuplicadasDe godoc
// @Summary      Listar la cadena de duplicados de un registro base
// @Tags         votaciones
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID del registro base"
// @Success      200  {array} dto.VotacionResponse
// @Router       /v1/votaciones/{id}/duplicadas [get]
func (h *VotacionesHandler) ListarDuplicadasDe(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	resp, err := h.svc.ListarDuplicadasDe(c.Request.Context(), middleware.GetActor(c), id)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
