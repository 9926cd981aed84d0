package engine

import (
	"github.com/shopspring/decimal"

	"filazero/internal/apierror"
)

// TipoAjuste is the tagged kind of a desconto/acréscimo.
// Modeled as a closed enum instead of ad-hoc string comparison.
type TipoAjuste string

const (
	AjustePercentual TipoAjuste = "percentual"
	AjusteFixo       TipoAjuste = "fixo"
)

// Valido reports whether t is one of the known kinds.
func (t TipoAjuste) Valido() bool {
	return t == AjustePercentual || t == AjusteFixo
}

// Ajuste is a discount or surcharge stored as the originally entered value
// plus its kind — never pre-resolved, so percentage adjustments rescale when
// the subtotal changes without re-prompting the operator.
type Ajuste struct {
	Valor decimal.Decimal
	Tipo  TipoAjuste
}

// NovoAjuste validates and builds an adjustment. A zero or negative valor is
// the "remove" gesture in the UI, so it returns (nil, nil): no adjustment.
func NovoAjuste(valor decimal.Decimal, tipo TipoAjuste) (*Ajuste, error) {
	if valor.Sign() <= 0 {
		return nil, nil
	}
	if !tipo.Valido() {
		return nil, apierror.Validacao("tipo de ajuste inválido: deve ser percentual ou fixo")
	}
	return &Ajuste{Valor: valor, Tipo: tipo}, nil
}

var cem = decimal.NewFromInt(100)

// Resolve converts the adjustment into an absolute amount for the given
// subtotal. A nil receiver resolves to zero.
func (a *Ajuste) Resolve(subtotal decimal.Decimal) decimal.Decimal {
	if a == nil {
		return decimal.Zero
	}
	if a.Tipo == AjustePercentual {
		return subtotal.Mul(a.Valor).Div(cem)
	}
	return a.Valor
}

// Total computes subtotal − desconto + acréscimo. The result may be negative
// when a discount exceeds subtotal plus surcharge; it is NOT clamped here —
// settlement rejects a negative total as a validation fault so data-entry
// mistakes stay visible instead of being silently absorbed.
func Total(subtotal decimal.Decimal, desconto, acrescimo *Ajuste) decimal.Decimal {
	return subtotal.Sub(desconto.Resolve(subtotal)).Add(acrescimo.Resolve(subtotal))
}
