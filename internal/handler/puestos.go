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

type PuestosHandler struct{ svc service.PuestoService }

func NewPuestosHandler(svc service.PuestoService) *PuestosHandler {
	return &PuestosHandler{svc: svc}
}

// Crear godoc
// @Summary      Crear puesto de votación
// @Description  El total censado se recalcula siempre como mujeres+hombres, nunca se acepta del cliente.
// @Tags         puestos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CrearPuestoRequest true "Datos del puesto"
// @Success      201  {object} dto.PuestoResponse
// @Router       /v1/puestos-votacion [post]
func (h *PuestosHandler) Crear(c *gin.Context) {
	var req dto.CrearPuestoRequest
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
// @Summary      Listar puestos con cobertura
// @Description  Cada puesto incluye sus registros activos y tres razones: sobre registros observados, sobre el censo total y sobre el censo del puesto.
// @Tags         puestos
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array} dto.PuestoResponse
// @Router       /v1/puestos-votacion [get]
func (h *PuestosHandler) Listar(c *gin.Context) {
	resp, err := h.svc.Listar(c.Request.Context())
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Obtener godoc
// @Summary      Obtener puesto
// @Tags         puestos
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID del puesto"
// @Success      200  {object} dto.PuestoResponse
// @Failure      404  {object} apierror.APIError
// @Router       /v1/puestos-votacion/{id} [get]
func (h *PuestosHandler) Obtener(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	resp, err := h.svc.Obtener(c.Request.Context(), id)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Actualizar godoc
// @Summary      Actualizar puesto
// @Tags         puestos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "UUID del puesto"
// @Param        body body dto.CrearPuestoRequest true "Datos del puesto"
// @Success      200  {object} dto.PuestoResponse
// @Router       /v1/puestos-votacion/{id} [put]
func (h *PuestosHandler) Actualizar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.CrearPuestoRequest
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

// Eliminar godoc
// @Summary      Eliminar puesto
// @Tags         puestos
// @Security     BearerAuth
// @Param        id path string true "UUID del puesto"
// @Success      204
// @Router       /v1/puestos-votacion/{id} [delete]
func (h *PuestosHandler) Eliminar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	if err := h.svc.Eliminar(c.Request.Context(), middleware.GetActor(c), id); err != nil {
		responderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
