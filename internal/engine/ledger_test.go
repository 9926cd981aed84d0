package engine

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestLedgerAddOrIncrement(t *testing.T) {
	g := NewLedger(nil)
	produto := uuid.New()

	g.AddOrIncrement(produto, "Coxinha", dec("8.50"))
	g.AddOrIncrement(produto, "Coxinha", dec("8.50"))

	linhas := g.Linhas()
	require.Len(t, linhas, 1)
	assert.Equal(t, 2, linhas[0].Quantidade)
	assert.Equal(t, 0, linhas[0].QuantidadePersistida)
	assert.True(t, linhas[0].Dirty())
	assert.True(t, dec("17").Equal(g.Subtotal()))
}

func TestLedgerPendingCountsOnlyNewUnits(t *testing.T) {
	produto := uuid.New()
	g := NewLedger([]Linha{{ProdutoID: produto, Nome: "Suco", PrecoUnitario: dec("6.00"), Quantidade: 2}})

	assert.Equal(t, 0, g.PendingCount())
	assert.False(t, g.HasDirty())

	// 2 persisted, bumped to 5: three new units pending
	g.AddOrIncrement(produto, "Suco", dec("6.00"))
	g.AddOrIncrement(produto, "Suco", dec("6.00"))
	g.AddOrIncrement(produto, "Suco", dec("6.00"))
	assert.Equal(t, 3, g.PendingCount())
	assert.True(t, g.HasDirty())
}

func TestLedgerPendingIgnoresRemovals(t *testing.T) {
	produto := uuid.New()
	g := NewLedger([]Linha{{ProdutoID: produto, PrecoUnitario: dec("10.00"), Quantidade: 3}})

	g.Decrement(produto)
	assert.Equal(t, 0, g.PendingCount())
	assert.True(t, g.HasDirty())
}

func TestLedgerDecrementRemovesLineAtZero(t *testing.T) {
	produto := uuid.New()
	g := NewLedger([]Linha{{ProdutoID: produto, PrecoUnitario: dec("4.00"), Quantidade: 1}})

	g.Decrement(produto)
	assert.Empty(t, g.Linhas())
	assert.True(t, g.Subtotal().IsZero())
}

func TestLedgerCommitIsIdempotent(t *testing.T) {
	produto := uuid.New()
	g := NewLedger(nil)
	g.AddOrIncrement(produto, "Pastel", dec("7.00"))
	g.AddOrIncrement(produto, "Pastel", dec("7.00"))

	g.Commit()
	assert.Equal(t, 0, g.PendingCount())
	assert.False(t, g.HasDirty())

	g.Commit()
	linhas := g.Linhas()
	require.Len(t, linhas, 1)
	assert.Equal(t, 2, linhas[0].Quantidade)
	assert.Equal(t, 2, linhas[0].QuantidadePersistida)
}

func TestLedgerDiscardPending(t *testing.T) {
	salvo := uuid.New()
	novo := uuid.New()
	g := NewLedger([]Linha{{ProdutoID: salvo, Nome: "Café", PrecoUnitario: dec("5.00"), Quantidade: 1}})

	g.AddOrIncrement(salvo, "Café", dec("5.00"))
	g.AddOrIncrement(novo, "Bolo", dec("12.00"))
	g.DiscardPending()

	linhas := g.Linhas()
	require.Len(t, linhas, 1)
	assert.Equal(t, salvo, linhas[0].ProdutoID)
	assert.Equal(t, 1, linhas[0].Quantidade)
	assert.False(t, g.HasDirty())
}
