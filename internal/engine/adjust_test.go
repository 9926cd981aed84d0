package engine

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"filazero/internal/apierror"
)

func TestNovoAjusteValidation(t *testing.T) {
	a, err := NovoAjuste(dec("10"), AjustePercentual)
	require.NoError(t, err)
	require.NotNil(t, a)

	// zero and negative mean "remove": no adjustment, no error
	a, err = NovoAjuste(decimal.Zero, AjustePercentual)
	require.NoError(t, err)
	assert.Nil(t, a)

	a, err = NovoAjuste(dec("-5"), AjusteFixo)
	require.NoError(t, err)
	assert.Nil(t, a)

	_, err = NovoAjuste(dec("10"), TipoAjuste("metade"))
	require.Error(t, err)
	assert.Equal(t, apierror.KindValidacao, apierror.KindOf(err))
}

func TestAjustePercentualRescalesWithSubtotal(t *testing.T) {
	desconto, err := NovoAjuste(dec("10"), AjustePercentual)
	require.NoError(t, err)

	assert.True(t, dec("10").Equal(desconto.Resolve(dec("100"))))
	assert.True(t, dec("90").Equal(Total(dec("100"), desconto, nil)))

	// subtotal doubled: the same stored percentage resolves to double
	assert.True(t, dec("20").Equal(desconto.Resolve(dec("200"))))
	assert.True(t, dec("180").Equal(Total(dec("200"), desconto, nil)))
}

func TestAjusteFixoIsSubtotalIndependent(t *testing.T) {
	acrescimo, err := NovoAjuste(dec("3.50"), AjusteFixo)
	require.NoError(t, err)

	assert.True(t, dec("3.50").Equal(acrescimo.Resolve(dec("100"))))
	assert.True(t, dec("3.50").Equal(acrescimo.Resolve(dec("7"))))
	assert.True(t, dec("103.50").Equal(Total(dec("100"), nil, acrescimo)))
}

func TestTotalCombinesBothAjustes(t *testing.T) {
	desconto, _ := NovoAjuste(dec("10"), AjustePercentual)
	acrescimo, _ := NovoAjuste(dec("5"), AjusteFixo)

	// 200 − 20 + 5
	assert.True(t, dec("185").Equal(Total(dec("200"), desconto, acrescimo)))
}

func TestTotalNotClampedWhenNegative(t *testing.T) {
	desconto, _ := NovoAjuste(dec("50"), AjusteFixo)

	total := Total(dec("30"), desconto, nil)
	assert.True(t, dec("-20").Equal(total))
}

func TestNilAjusteResolvesToZero(t *testing.T) {
	var a *Ajuste
	assert.True(t, a.Resolve(dec("100")).IsZero())
	assert.True(t, dec("100").Equal(Total(dec("100"), nil, nil)))
}
