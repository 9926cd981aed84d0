package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// AlocacaoRequest is one payment row composed on the payment screen.
type AlocacaoRequest struct {
	MetodoID   string          `json:"metodo_id"   validate:"required,uuid"`
	MetodoNome string          `json:"metodo_nome" validate:"required"`
	Valor      decimal.Decimal `json:"valor"       validate:"min=0"`
}

// QuitarPedidoRequest settles a pedido. Alocacoes are the rows composed in
// this pass; allocations persisted by a previous pass are kept unless listed
// in Removidas. The resulting set replaces the server-side one atomically.
// Version is the value the screen loaded, for the concurrency check.
type QuitarPedidoRequest struct {
	Alocacoes []AlocacaoRequest `json:"alocacoes" validate:"required,min=1,dive"`
	Removidas []string          `json:"removidas" validate:"dive,uuid"`
	CaixaID   *string           `json:"caixa_id"  validate:"omitempty,uuid"`
	Version   int               `json:"version"   validate:"required,min=1"`
	// Pessoas feeds the advisory per-person split echoed in the response.
	Pessoas int `json:"pessoas" validate:"min=0"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type PagamentoResponse struct {
	ID         string          `json:"id"`
	MetodoID   string          `json:"metodo_id"`
	MetodoNome string          `json:"metodo_nome"`
	EmDinheiro bool            `json:"em_dinheiro"`
	Valor      decimal.Decimal `json:"valor"`
}

type QuitarPedidoResponse struct {
	PedidoID   string              `json:"pedido_id"`
	Pagamentos []PagamentoResponse `json:"pagamentos"`
	Total      decimal.Decimal     `json:"total"`
	Pago       decimal.Decimal     `json:"pago"`
	Restante   decimal.Decimal     `json:"restante"`
	Troco      decimal.Decimal     `json:"troco"`
	PorPessoa  decimal.Decimal     `json:"por_pessoa"`
	Situacao   string              `json:"situacao"`
	Version    int                 `json:"version"`
}
