package handler

import (
	"net/http"
	"strings"

	"filazero/internal/apierror"
	"filazero/internal/dto"
	"filazero/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type PedidosHandler struct{ svc service.PedidoService }

func NewPedidosHandler(svc service.PedidoService) *PedidosHandler {
	return &PedidosHandler{svc: svc}
}

func parseID(c *gin.Context, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return uuid.Nil, false
	}
	return id, true
}

// campoAjuste resolves the adjustment path segment; only the two known
// segments are routed here, so no error path is needed.
func campoAjuste(c *gin.Context) string {
	if strings.HasSuffix(c.FullPath(), "/acrescimo") {
		return service.CampoAcrescimo
	}
	return service.CampoDesconto
}

// Criar godoc
// @Summary Cria um pedido para um atendimento (mesa, comanda ou balcão)
// @Tags pedidos
// @Accept json
// @Produce json
// @Param body body dto.CriarPedidoRequest true "Dados do pedido"
// @Success 201 {object} dto.PedidoResponse
// @Failure 422 {object} apierror.APIError
// @Router /v1/pedidos [post]
func (h *PedidosHandler) Criar(c *gin.Context) {
	var req dto.CriarPedidoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Criar(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Obter godoc
// @Summary Obtém o pedido com subtotal e total recalculados
// @Tags pedidos
// @Produce json
// @Param id path string true "ID do pedido"
// @Success 200 {object} dto.PedidoResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/pedidos/{id} [get]
func (h *PedidosHandler) Obter(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.Obter(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListarItens godoc
// @Summary Lista os itens persistidos do pedido
// @Tags pedidos
// @Produce json
// @Param id path string true "ID do pedido"
// @Success 200 {array} dto.ItemResponse
// @Router /v1/pedidos/{id}/itens [get]
func (h *PedidosHandler) ListarItens(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	itens, err := h.svc.ListarItens(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, itens)
}

// SalvarItens godoc
// @Summary Salva o conjunto completo de itens (tudo-ou-nada)
// @Tags pedidos
// @Accept json
// @Produce json
// @Param id path string true "ID do pedido"
// @Param body body dto.SalvarItensRequest true "Itens desejados + versão carregada"
// @Success 200 {object} dto.SalvarItensResponse
// @Failure 409 {object} apierror.APIError
// @Failure 422 {object} apierror.APIError
// @Router /v1/pedidos/{id}/itens [put]
func (h *PedidosHandler) SalvarItens(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.SalvarItensRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.SalvarItens(c.Request.Context(), id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ObterAjuste godoc
// @Summary Obtém o desconto ou acréscimo vigente
// @Tags pedidos
// @Produce json
// @Param id path string true "ID do pedido"
// @Success 200 {object} dto.AjusteResponse
// @Success 204 "Nenhum ajuste definido"
// @Router /v1/pedidos/{id}/desconto [get]
func (h *PedidosHandler) ObterAjuste(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.ObterAjuste(c.Request.Context(), id, campoAjuste(c))
	if err != nil {
		writeError(c, err)
		return
	}
	if resp == nil {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// AplicarAjuste godoc
// @Summary Define o desconto ou acréscimo; valor zero remove
// @Tags pedidos
// @Accept json
// @Produce json
// @Param id path string true "ID do pedido"
// @Param body body dto.AjusteRequest true "Valor e tipo (percentual | fixo)"
// @Success 200 {object} dto.PedidoResponse
// @Failure 422 {object} apierror.APIError
// @Router /v1/pedidos/{id}/desconto [put]
func (h *PedidosHandler) AplicarAjuste(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.AjusteRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AplicarAjuste(c.Request.Context(), id, campoAjuste(c), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RemoverAjuste godoc
// @Summary Remove o desconto ou acréscimo
// @Tags pedidos
// @Param id path string true "ID do pedido"
// @Success 204
// @Router /v1/pedidos/{id}/desconto [delete]
func (h *PedidosHandler) RemoverAjuste(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.RemoverAjuste(c.Request.Context(), id, campoAjuste(c)); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Cancelar godoc
// @Summary Cancela o pedido, removendo itens e pagamentos persistidos
// @Tags pedidos
// @Param id path string true "ID do pedido"
// @Success 204
// @Failure 409 {object} apierror.APIError
// @Router /v1/pedidos/{id} [delete]
func (h *PedidosHandler) Cancelar(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Cancelar(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
