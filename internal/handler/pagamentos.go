package handler

import (
	"net/http"

	"filazero/internal/dto"
	"filazero/internal/service"

	"github.com/gin-gonic/gin"
)

type PagamentosHandler struct{ svc service.PagamentoService }

func NewPagamentosHandler(svc service.PagamentoService) *PagamentosHandler {
	return &PagamentosHandler{svc: svc}
}

// Listar godoc
// @Summary Lista os pagamentos persistidos do pedido
// @Tags pagamentos
// @Produce json
// @Param id path string true "ID do pedido"
// @Success 200 {array} dto.PagamentoResponse
// @Router /v1/pedidos/{id}/pagamentos [get]
func (h *PagamentosHandler) Listar(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Quitar godoc
// @Summary Quita o pedido substituindo o conjunto de pagamentos
// @Tags pagamentos
// @Accept json
// @Produce json
// @Param id path string true "ID do pedido"
// @Param body body dto.QuitarPedidoRequest true "Alocações, removidas, caixa e versão"
// @Success 200 {object} dto.QuitarPedidoResponse
// @Failure 409 {object} apierror.APIError
// @Failure 422 {object} apierror.APIError
// @Router /v1/pedidos/{id}/pagamentos [post]
func (h *PagamentosHandler) Quitar(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.QuitarPedidoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Quitar(c.Request.Context(), id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Remover godoc
// @Summary Remove um pagamento persistido
// @Tags pagamentos
// @Param id path string true "ID do pagamento"
// @Success 204
// @Failure 409 {object} apierror.APIError
// @Router /v1/pagamentos/{id} [delete]
func (h *PagamentosHandler) Remover(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Remover(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
