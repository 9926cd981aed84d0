package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CriarPedidoRequest struct {
	AtendimentoID string  `json:"atendimento_id" validate:"required,uuid"`
	ClienteID     *string `json:"cliente_id"     validate:"omitempty,uuid"`
}

// ItemRequest is one line of the full ledger state the screen is saving.
type ItemRequest struct {
	ProdutoID     string          `json:"produto_id"     validate:"required,uuid"`
	Nome          string          `json:"nome"           validate:"required"`
	PrecoUnitario decimal.Decimal `json:"preco_unitario" validate:"min=0"`
	Quantidade    int             `json:"quantidade"     validate:"min=1"`
}

// SalvarItensRequest carries the complete desired line set (replace
// semantics — lines absent here are deleted) plus the version the screen
// loaded, for the optimistic concurrency check.
type SalvarItensRequest struct {
	Itens   []ItemRequest `json:"itens"   validate:"dive"`
	Version int           `json:"version" validate:"required,min=1"`
}

// AjusteRequest sets a desconto or acréscimo. Valor zero (or an omitted
// body) clears it — blank input in the UI removes the adjustment rather
// than applying 0%.
type AjusteRequest struct {
	Valor decimal.Decimal `json:"valor" validate:"min=0"`
	Tipo  string          `json:"tipo"  validate:"omitempty,oneof=percentual fixo"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ItemResponse struct {
	ProdutoID     string          `json:"produto_id"`
	Nome          string          `json:"nome"`
	PrecoUnitario decimal.Decimal `json:"preco_unitario"`
	Quantidade    int             `json:"quantidade"`
	Total         decimal.Decimal `json:"total"`
}

type AjusteResponse struct {
	Valor decimal.Decimal `json:"valor"`
	Tipo  string          `json:"tipo"`
}

// PedidoResponse is the pricing view of a pedido: current lines plus the
// always-recomputed subtotal/total.
type PedidoResponse struct {
	ID            string          `json:"id"`
	AtendimentoID string          `json:"atendimento_id"`
	ClienteID     *string         `json:"cliente_id"`
	Itens         []ItemResponse  `json:"itens"`
	Desconto      *AjusteResponse `json:"desconto"`
	Acrescimo     *AjusteResponse `json:"acrescimo"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	Total         decimal.Decimal `json:"total"`
	Situacao      string          `json:"situacao"`
	Version       int             `json:"version"`
}

// SalvarItensResponse reports the accepted save: how many newly added units
// were persisted and the bumped version the screen must carry forward.
type SalvarItensResponse struct {
	Pedido    PedidoResponse `json:"pedido"`
	Pendentes int            `json:"pendentes"`
}
