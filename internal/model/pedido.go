package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Pedido is the aggregate for one service point (mesa, comanda or balcão).
// Situacao: "aberto" | "parcial" | "pago" | "cancelado"
//
// Desconto and Acrescimo are stored as the originally entered value plus its
// tipo ("percentual" | "fixo"), never as a pre-resolved amount, so a
// percentage adjustment rescales when the subtotal changes. At most one of
// each per pedido — re-applying replaces the previous one.
type Pedido struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	AtendimentoID uuid.UUID  `gorm:"type:uuid;not null;index"`
	ClienteID     *uuid.UUID `gorm:"type:uuid"`

	DescontoValor *decimal.Decimal `gorm:"type:decimal(12,2)"`
	DescontoTipo  *string          `gorm:"type:varchar(20)"`

	AcrescimoValor *decimal.Decimal `gorm:"type:decimal(12,2)"`
	AcrescimoTipo  *string          `gorm:"type:varchar(20)"`

	Situacao string `gorm:"type:varchar(20);not null;default:'aberto'"`

	// Version guards ledger and payment writes against silent overwrites from
	// a second terminal. Bumped on every successful item/payment save.
	Version int `gorm:"not null;default:1"`

	Itens      []ItemPedido `gorm:"foreignKey:PedidoID"`
	Pagamentos []Pagamento  `gorm:"foreignKey:PedidoID"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ItemPedido is one product line of a pedido. Quantidade here is always the
// persisted quantity — the pending (unsaved) portion only exists inside the
// in-memory ledger engine while an operator edits the pedido.
type ItemPedido struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PedidoID      uuid.UUID       `gorm:"type:uuid;not null;index:idx_item_pedido_produto,unique"`
	ProdutoID     uuid.UUID       `gorm:"type:uuid;not null;index:idx_item_pedido_produto,unique"`
	Nome          string          `gorm:"not null"`
	PrecoUnitario decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Quantidade    int             `gorm:"not null"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
