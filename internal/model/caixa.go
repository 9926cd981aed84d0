package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Caixa status values.
const (
	CaixaAberto  = "aberto"
	CaixaFechado = "fechado"
)

// MovimentacaoCaixa tipos.
const (
	MovimentacaoEntrada = "entrada"
	MovimentacaoSaida   = "saida"
)

// Caixa represents one cash-register session of an establishment.
// At most one caixa per establishment may be "aberto" at a time (enforced by
// a partial unique index, see infra). A closed caixa is immutable history.
//
// TotalVendas is a KPI tracked separately from the cash-expected figure:
// SaldoEsperado deliberately excludes it, matching the front-of-house report
// where "Saldo Total" and "Total de Vendas" are distinct numbers.
type Caixa struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EstabelecimentoID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Status            string          `gorm:"type:varchar(20);not null;default:'aberto'"`
	ValorAbertura     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TotalEntradas     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	TotalSaidas       decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	TotalVendas       decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	// ValorFechamento is the operator-counted total at close.
	ValorFechamento *decimal.Decimal `gorm:"type:decimal(12,2)"`
	// Diferenca = ValorFechamento − SaldoEsperado. Positive means the drawer
	// held more than expected; negative is a shortage.
	Diferenca *decimal.Decimal `gorm:"type:decimal(12,2)"`
	AbertoPor uuid.UUID        `gorm:"type:uuid;not null"`
	FechadoPor *uuid.UUID      `gorm:"type:uuid"`
	AbertoEm   time.Time       `gorm:"not null"`
	FechadoEm  *time.Time

	Movimentacoes []MovimentacaoCaixa `gorm:"foreignKey:CaixaID"`
}

// SaldoEsperado is always derived, never stored: abertura + entradas − saídas.
func (c *Caixa) SaldoEsperado() decimal.Decimal {
	return c.ValorAbertura.Add(c.TotalEntradas).Sub(c.TotalSaidas)
}

// MovimentacaoCaixa is an immutable event in the caixa ledger.
// Tipo: "entrada" | "saida". Movements are NEVER modified or deleted —
// corrections create inverse entries.
type MovimentacaoCaixa struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CaixaID   uuid.UUID       `gorm:"type:uuid;index;not null"`
	Tipo      string          `gorm:"type:varchar(20);not null"`
	Valor     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Descricao string          `gorm:"not null"`
	UsuarioID uuid.UUID       `gorm:"type:uuid;not null"`
	CreatedAt time.Time
}
