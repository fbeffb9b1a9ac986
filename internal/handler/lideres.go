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

type LideresHandler struct{ svc service.LiderService }

func NewLideresHandler(svc service.LiderService) *LideresHandler {
	return &LideresHandler{svc: svc}
}

// Crear godoc
// @Summary      Crear líder
// @Description  Alta de líder con recomendador opcional y vinculación opcional de cuenta de usuario.
// @Tags         lideres
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CrearLiderRequest true "Datos del líder"
// @Success      201  {object} dto.LiderResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/lideres [post]
func (h *LideresHandler) Crear(c *gin.Context) {
	var req dto.CrearLiderRequest
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
// @Summary      Listar líderes
// @Tags         lideres
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array} dto.LiderResponse
// @Router       /v1/lideres [get]
func (h *LideresHandler) Listar(c *gin.Context) {
	resp, err := h.svc.Listar(c.Request.Context())
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Obtener godoc
// @Summary      Obtener líder
// @Tags         lideres
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID del líder"
// @Success      200  {object} dto.LiderResponse
// @Failure      404  {object} apierror.APIError
// @Router       /v1/lideres/{id} [get]
func (h *LideresHandler) Obtener(c *gin.Context) {
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
// @Summary      Actualizar líder
// @Description  Rechaza cadenas de recomendación circulares, incluida la auto-referencia.
// @Tags         lideres
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "UUID del líder"
// @Param        body body dto.ActualizarLiderRequest true "Campos a actualizar"
// @Success      200  {object} dto.LiderResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/lideres/{id} [put]
func (h *LideresHandler) Actualizar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.ActualizarLiderRequest
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

// Desactivar godoc
// @Summary      Desactivar líder
// @Tags         lideres
// @Security     BearerAuth
// @Param        id path string true "UUID del líder"
// @Success      204
// @Router       /v1/lideres/{id} [delete]
func (h *LideresHandler) Desactivar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	if err := h.svc.Desactivar(c.Request.Context(), middleware.GetActor(c), id); err != nil {
		responderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AsignarUsuario godoc
// @Summary      Vincular cuenta de usuario a un líder
// @Description  La cuenta pasa a rol LIDER con alcance sobre los registros de ese líder.
// @Tags         lideres
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.AsignarUsuarioRequest true "Usuario y líder"
// @Success      200  {object} dto.UsuarioResponse
// @Router       /v1/lideres/asignar-usuario [post]
func (h *LideresHandler) AsignarUsuario(c *gin.Context) {
	var req dto.AsignarUsuarioRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AsignarUsuario(c.Request.Context(), middleware.GetActor(c), req)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
