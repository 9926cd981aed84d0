package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Pagamento is one settled payment allocation of a pedido.
// EmDinheiro is classified from the method name when the allocation is added
// and stored here, so renaming the payment-method catalog entry later does
// not reclassify history.
type Pagamento struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PedidoID   uuid.UUID       `gorm:"type:uuid;index;not null"`
	MetodoID   uuid.UUID       `gorm:"type:uuid;not null"`
	MetodoNome string          `gorm:"type:varchar(60);not null"`
	EmDinheiro bool            `gorm:"not null"`
	Valor      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	// CaixaID links the settlement to the caixa that was open at the time.
	CaixaID   *uuid.UUID `gorm:"type:uuid;index"`
	CreatedAt time.Time
}
