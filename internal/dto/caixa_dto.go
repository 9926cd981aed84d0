package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// CedulaContagem is one row of the optional denomination breakdown. The
// breakdown is a counting aid only — just the resulting total is persisted.
type CedulaContagem struct {
	Valor      decimal.Decimal `json:"valor"      validate:"required"`
	Quantidade int             `json:"quantidade" validate:"min=0"`
}

type AbrirCaixaRequest struct {
	EstabelecimentoID string           `json:"estabelecimento_id" validate:"required,uuid"`
	ValorInformado    decimal.Decimal  `json:"valor_informado"    validate:"min=0"`
	Cedulas           []CedulaContagem `json:"cedulas"            validate:"omitempty,dive"`
	AbertoPor         string           `json:"aberto_por"         validate:"required,uuid"`
}

type FecharCaixaRequest struct {
	ValorContado decimal.Decimal  `json:"valor_contado" validate:"min=0"`
	Cedulas      []CedulaContagem `json:"cedulas"       validate:"omitempty,dive"`
	FechadoPor   string           `json:"fechado_por"   validate:"required,uuid"`
}

type MovimentacaoRequest struct {
	Tipo      string          `json:"tipo"       validate:"required,oneof=entrada saida"`
	Valor     decimal.Decimal `json:"valor"      validate:"required,gt=0"`
	Descricao string          `json:"descricao"  validate:"required,min=3"`
	UsuarioID string          `json:"usuario_id" validate:"required,uuid"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type MovimentacaoResponse struct {
	ID        string          `json:"id"`
	Tipo      string          `json:"tipo"`
	Valor     decimal.Decimal `json:"valor"`
	Descricao string          `json:"descricao"`
	CriadaEm  string          `json:"criada_em"`
}

// CaixaResponse is the reconciliation view of one caixa session.
// SaldoEsperado excludes TotalVendas by design — vendas are a KPI, not part
// of the cash-expected figure.
type CaixaResponse struct {
	ID                string           `json:"id"`
	EstabelecimentoID string           `json:"estabelecimento_id"`
	Status            string           `json:"status"`
	ValorAbertura     decimal.Decimal  `json:"valor_abertura"`
	TotalEntradas     decimal.Decimal  `json:"total_entradas"`
	TotalSaidas       decimal.Decimal  `json:"total_saidas"`
	TotalVendas       decimal.Decimal  `json:"total_vendas"`
	SaldoEsperado     decimal.Decimal  `json:"saldo_esperado"`
	ValorFechamento   *decimal.Decimal `json:"valor_fechamento"`
	Diferenca         *decimal.Decimal `json:"diferenca"`
	AbertoEm          string           `json:"aberto_em"`
	FechadoEm         *string          `json:"fechado_em"`
	// Vencido flags the staleness advisory: open longer than the configured
	// limit. Informational only.
	Vencido       bool                   `json:"vencido"`
	Movimentacoes []MovimentacaoResponse `json:"movimentacoes,omitempty"`
}

// StatusCaixaResponse answers "is there an open caixa here?".
type StatusCaixaResponse struct {
	Status string         `json:"status"` // aberto | fechado
	Caixa  *CaixaResponse `json:"caixa,omitempty"`
}
