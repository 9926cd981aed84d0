// Package engine holds the in-memory pricing, ledger and payment-allocation
// state machines. Everything here is a synchronous pure computation over
// decimal values — persistence lives in the service/repository layers.
package engine

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Linha is one product line inside the ledger. Quantidade is the on-screen
// total; QuantidadePersistida is what the backend has already confirmed.
// Dirty state and line totals are always derived from these two fields.
type Linha struct {
	ProdutoID            uuid.UUID
	Nome                 string
	PrecoUnitario        decimal.Decimal
	Quantidade           int
	QuantidadePersistida int
}

// Dirty reports whether the line diverges from its persisted state.
func (l *Linha) Dirty() bool { return l.Quantidade != l.QuantidadePersistida }

// Total is preço unitário × quantidade atual.
func (l *Linha) Total() decimal.Decimal {
	return l.PrecoUnitario.Mul(decimal.NewFromInt(int64(l.Quantidade)))
}

// Ledger tracks the lines of one pedido, keyed by produto. Lines keep their
// insertion order so the screen renders them the way the operator added them.
type Ledger struct {
	linhas []*Linha
}

// NewLedger builds a ledger from persisted lines; each starts clean
// (QuantidadePersistida = Quantidade).
func NewLedger(persistidas []Linha) *Ledger {
	g := &Ledger{}
	for _, p := range persistidas {
		g.linhas = append(g.linhas, &Linha{
			ProdutoID:            p.ProdutoID,
			Nome:                 p.Nome,
			PrecoUnitario:        p.PrecoUnitario,
			Quantidade:           p.Quantidade,
			QuantidadePersistida: p.Quantidade,
		})
	}
	return g
}

func (g *Ledger) find(produtoID uuid.UUID) *Linha {
	for _, l := range g.linhas {
		if l.ProdutoID == produtoID {
			return l
		}
	}
	return nil
}

// AddOrIncrement adds one unit of the product, creating the line when absent.
func (g *Ledger) AddOrIncrement(produtoID uuid.UUID, nome string, preco decimal.Decimal) {
	if l := g.find(produtoID); l != nil {
		l.Quantidade++
		return
	}
	g.linhas = append(g.linhas, &Linha{
		ProdutoID:     produtoID,
		Nome:          nome,
		PrecoUnitario: preco,
		Quantidade:    1,
	})
}

// Decrement removes one unit. Reaching zero removes the line entirely, even
// when it has persisted quantity — the removal stays local until saved, when
// the backend delete happens.
func (g *Ledger) Decrement(produtoID uuid.UUID) {
	for i, l := range g.linhas {
		if l.ProdutoID != produtoID {
			continue
		}
		if l.Quantidade > 1 {
			l.Quantidade--
		} else {
			g.linhas = append(g.linhas[:i], g.linhas[i+1:]...)
		}
		return
	}
}

// PendingCount is the number shown on the "Salvar (N)" button: only the newly
// added portion of each line counts.
func (g *Ledger) PendingCount() int {
	n := 0
	for _, l := range g.linhas {
		if d := l.Quantidade - l.QuantidadePersistida; d > 0 {
			n += d
		}
	}
	return n
}

// HasDirty reports whether any line diverges from its persisted state,
// including pure removals (which PendingCount does not see).
func (g *Ledger) HasDirty() bool {
	for _, l := range g.linhas {
		if l.Dirty() {
			return true
		}
	}
	return false
}

// Commit marks every line as persisted. Call only after the backend accepted
// the full write — a rejected save must leave the ledger untouched, so the
// caller never commits on error. Idempotent.
func (g *Ledger) Commit() {
	for _, l := range g.linhas {
		l.QuantidadePersistida = l.Quantidade
	}
}

// DiscardPending drops never-persisted lines and resets the rest to their
// persisted quantity. Used when the operator leaves without saving.
func (g *Ledger) DiscardPending() {
	kept := g.linhas[:0]
	for _, l := range g.linhas {
		if l.QuantidadePersistida == 0 {
			continue
		}
		l.Quantidade = l.QuantidadePersistida
		kept = append(kept, l)
	}
	g.linhas = kept
}

// Linhas returns a copy of the current lines.
func (g *Ledger) Linhas() []Linha {
	out := make([]Linha, 0, len(g.linhas))
	for _, l := range g.linhas {
		out = append(out, *l)
	}
	return out
}

// Subtotal sums line totals over the current (on-screen) quantities.
func (g *Ledger) Subtotal() decimal.Decimal {
	s := decimal.Zero
	for _, l := range g.linhas {
		s = s.Add(l.Total())
	}
	return s
}
