package engine

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"filazero/internal/apierror"
)

// Alocacao is one payment-method row the operator added while composing the
// payment of a pedido. ID is local to the allocator (the same método can
// appear twice, e.g. two cash entries).
type Alocacao struct {
	ID         uuid.UUID
	MetodoID   uuid.UUID
	MetodoNome string
	EmDinheiro bool
	Valor      decimal.Decimal
	// Persistida marks rows loaded from a previous settlement pass.
	Persistida bool
}

// nomesDinheiro are the normalized method-name prefixes classified as cash.
var nomesDinheiro = []string{"dinheiro", "cash", "especie", "espécie"}

// EhDinheiro classifies a payment method as cash by its name, the same
// heuristic the front of house uses ("Dinheiro", "Espécie", …).
func EhDinheiro(nome string) bool {
	n := strings.ToLower(strings.TrimSpace(nome))
	for _, p := range nomesDinheiro {
		if strings.HasPrefix(n, p) {
			return true
		}
	}
	return false
}

// Alocador manages the ordered set of payment allocations for one pedido
// against its current total. Cash methods are unbounded (excess becomes
// troco); non-cash methods are capped at the remaining due.
type Alocador struct {
	total     decimal.Decimal
	alocacoes []*Alocacao
	// removidas collects persisted allocation ids the operator removed before
	// settlement; the server-side delete happens at settlement time.
	removidas map[uuid.UUID]struct{}
}

// NovoAlocador builds an allocator over the pedido total, seeded with the
// allocations already persisted by a previous settlement pass.
func NovoAlocador(total decimal.Decimal, persistidas []Alocacao) *Alocador {
	a := &Alocador{total: total, removidas: make(map[uuid.UUID]struct{})}
	for _, p := range persistidas {
		cp := p
		cp.Persistida = true
		if cp.ID == uuid.Nil {
			cp.ID = uuid.New()
		}
		a.alocacoes = append(a.alocacoes, &cp)
	}
	return a
}

// Total returns the pedido total the allocator validates against.
func (a *Alocador) Total() decimal.Decimal { return a.total }

// SetTotal rebinds the allocator to a recomputed pedido total (items or
// adjustments changed while the payment screen was open).
func (a *Alocador) SetTotal(total decimal.Decimal) { a.total = total }

func (a *Alocador) find(id uuid.UUID) *Alocacao {
	for _, al := range a.alocacoes {
		if al.ID == id {
			return al
		}
	}
	return nil
}

// RestanteParaNaoDinheiro is total − sum of every other allocation. It both
// pre-fills a new non-cash row and caps edits to an existing one. Not floored:
// callers clamp to zero for prefill only.
func (a *Alocador) RestanteParaNaoDinheiro(excluindo uuid.UUID) decimal.Decimal {
	r := a.total
	for _, al := range a.alocacoes {
		if al.ID == excluindo {
			continue
		}
		r = r.Sub(al.Valor)
	}
	return r
}

// Adicionar appends a new allocation. Cash rows start at zero (the operator
// types the tendered amount); non-cash rows pre-fill the exact remaining due
// as a convenience, clamped at zero.
func (a *Alocador) Adicionar(metodoID uuid.UUID, metodoNome string) *Alocacao {
	al := &Alocacao{
		ID:         uuid.New(),
		MetodoID:   metodoID,
		MetodoNome: metodoNome,
		EmDinheiro: EhDinheiro(metodoNome),
	}
	if !al.EmDinheiro {
		restante := a.RestanteParaNaoDinheiro(al.ID)
		if restante.Sign() > 0 {
			al.Valor = restante
		}
	}
	a.alocacoes = append(a.alocacoes, al)
	return al
}

// DefinirValor applies a new amount to an allocation. Non-cash amounts above
// the remaining due are rejected — never silently clamped — so over-charges
// on cards/PIX cannot slip through. Cash always applies; excess becomes troco.
func (a *Alocador) DefinirValor(id uuid.UUID, valor decimal.Decimal) error {
	al := a.find(id)
	if al == nil {
		return apierror.Validacao("alocação de pagamento não encontrada")
	}
	if valor.Sign() < 0 {
		return apierror.Validacao("valor do pagamento não pode ser negativo")
	}
	if !al.EmDinheiro {
		if restante := a.RestanteParaNaoDinheiro(id); valor.GreaterThan(restante) {
			return apierror.Validacao("valor excede o restante a pagar para método não-dinheiro")
		}
	}
	al.Valor = valor
	return nil
}

// Remover drops an allocation. Persisted rows are remembered so settlement
// can issue the server-side delete.
func (a *Alocador) Remover(id uuid.UUID) {
	for i, al := range a.alocacoes {
		if al.ID != id {
			continue
		}
		if al.Persistida {
			a.removidas[al.ID] = struct{}{}
		}
		a.alocacoes = append(a.alocacoes[:i], a.alocacoes[i+1:]...)
		return
	}
}

// Alocacoes returns a copy of the current rows in order.
func (a *Alocador) Alocacoes() []Alocacao {
	out := make([]Alocacao, 0, len(a.alocacoes))
	for _, al := range a.alocacoes {
		out = append(out, *al)
	}
	return out
}

// TotalPago sums every allocation amount.
func (a *Alocador) TotalPago() decimal.Decimal {
	s := decimal.Zero
	for _, al := range a.alocacoes {
		s = s.Add(al.Valor)
	}
	return s
}

// Restante is what is still owed, floored at zero.
func (a *Alocador) Restante() decimal.Decimal {
	if d := a.total.Sub(a.TotalPago()); d.Sign() > 0 {
		return d
	}
	return decimal.Zero
}

// Troco is the change due, floored at zero. Only cash overpayment can produce
// it — non-cash rows are capped on entry.
func (a *Alocador) Troco() decimal.Decimal {
	if t := a.TotalPago().Sub(a.total); t.Sign() > 0 {
		return t
	}
	return decimal.Zero
}

// PodeQuitar reports whether settlement may proceed: at least one allocation
// with a positive amount.
func (a *Alocador) PodeQuitar() bool {
	for _, al := range a.alocacoes {
		if al.Valor.Sign() > 0 {
			return true
		}
	}
	return false
}

// DividirPorPessoa is the advisory per-person share of the total. It never
// touches the allocations — restante and troco ignore the party size.
func (a *Alocador) DividirPorPessoa(pessoas int) decimal.Decimal {
	if pessoas <= 0 {
		return decimal.Zero
	}
	return a.total.Div(decimal.NewFromInt(int64(pessoas)))
}

// ParaPersistir returns the allocations settlement should write, excluding
// zero-amount rows (an added-but-never-filled row is not a payment).
func (a *Alocador) ParaPersistir() []Alocacao {
	out := make([]Alocacao, 0, len(a.alocacoes))
	for _, al := range a.alocacoes {
		if al.Valor.Sign() > 0 {
			out = append(out, *al)
		}
	}
	return out
}

// RemovidasPersistidas lists the persisted allocation ids removed before
// settlement, for the explicit server-side delete.
func (a *Alocador) RemovidasPersistidas() []uuid.UUID {
	out := make([]uuid.UUID, 0, len(a.removidas))
	for id := range a.removidas {
		out = append(out, id)
	}
	return out
}

// Pedido situações derived after settlement.
const (
	SituacaoAberto  = "aberto"
	SituacaoParcial = "parcial"
	SituacaoPago    = "pago"
)

// Situacao derives the pedido situation from total vs. paid.
func Situacao(total, pago decimal.Decimal) string {
	switch {
	case pago.Sign() > 0 && pago.GreaterThanOrEqual(total):
		return SituacaoPago
	case pago.Sign() > 0:
		return SituacaoParcial
	default:
		return SituacaoAberto
	}
}
