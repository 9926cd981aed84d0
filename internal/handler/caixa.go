package handler

import (
	"net/http"

	"filazero/internal/apierror"
	"filazero/internal/dto"
	"filazero/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CaixaHandler struct{ svc service.CaixaService }

func NewCaixaHandler(svc service.CaixaService) *CaixaHandler { return &CaixaHandler{svc: svc} }

// Abrir godoc
// @Summary Abre um novo caixa para o estabelecimento
// @Tags caixa
// @Accept json
// @Produce json
// @Param body body dto.AbrirCaixaRequest true "Dados de abertura"
// @Success 201 {object} dto.CaixaResponse
// @Failure 409 {object} apierror.APIError
// @Failure 422 {object} apierror.APIError
// @Router /v1/caixas/abrir [post]
func (h *CaixaHandler) Abrir(c *gin.Context) {
	var req dto.AbrirCaixaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Abrir(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Fechar godoc
// @Summary Fecha o caixa e calcula a diferença entre contado e esperado
// @Tags caixa
// @Accept json
// @Produce json
// @Param id path string true "ID do caixa"
// @Param body body dto.FecharCaixaRequest true "Valor contado"
// @Success 200 {object} dto.CaixaResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/caixas/{id}/fechar [put]
func (h *CaixaHandler) Fechar(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.FecharCaixaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Fechar(c.Request.Context(), id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RegistrarMovimentacao godoc
// @Summary Registra uma entrada ou saída manual no caixa
// @Tags caixa
// @Accept json
// @Produce json
// @Param id path string true "ID do caixa"
// @Param body body dto.MovimentacaoRequest true "Movimentação manual"
// @Success 204
// @Failure 409 {object} apierror.APIError
// @Failure 422 {object} apierror.APIError
// @Router /v1/caixas/{id}/movimentacoes [post]
func (h *CaixaHandler) RegistrarMovimentacao(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.MovimentacaoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.RegistrarMovimentacao(c.Request.Context(), id, req); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Status godoc
// @Summary Informa se há caixa aberto no estabelecimento
// @Tags caixa
// @Produce json
// @Param estabelecimento_id query string true "ID do estabelecimento"
// @Success 200 {object} dto.StatusCaixaResponse
// @Router /v1/caixas/status [get]
func (h *CaixaHandler) Status(c *gin.Context) {
	estID, err := uuid.Parse(c.Query("estabelecimento_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("estabelecimento_id inválido"))
		return
	}
	resp, err := h.svc.Status(c.Request.Context(), estID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Obter godoc
// @Summary Relatório do caixa: saldo esperado, totais e movimentações
// @Tags caixa
// @Produce json
// @Param id path string true "ID do caixa"
// @Success 200 {object} dto.CaixaResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/caixas/{id} [get]
func (h *CaixaHandler) Obter(c *gin.Context) {
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

// ListAbertos godoc
// @Summary Lista caixas abertos, com o aviso de abertura prolongada
// @Tags caixa
// @Produce json
// @Param estabelecimento_id query string true "ID do estabelecimento"
// @Success 200 {array} dto.CaixaResponse
// @Router /v1/caixas/abertos [get]
func (h *CaixaHandler) ListAbertos(c *gin.Context) {
	estID, err := uuid.Parse(c.Query("estabelecimento_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("estabelecimento_id inválido"))
		return
	}
	resp, err := h.svc.ListAbertos(c.Request.Context(), estID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
