package engine

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"filazero/internal/apierror"
)

func TestEhDinheiro(t *testing.T) {
	assert.True(t, EhDinheiro("Dinheiro"))
	assert.True(t, EhDinheiro("  dinheiro (caixa 2)"))
	assert.True(t, EhDinheiro("Espécie"))
	assert.True(t, EhDinheiro("CASH"))
	assert.False(t, EhDinheiro("PIX"))
	assert.False(t, EhDinheiro("Cartão de Crédito"))
}

func TestAdicionarNaoDinheiroPreencheRestante(t *testing.T) {
	a := NovoAlocador(dec("100"), nil)

	pix := a.Adicionar(uuid.New(), "PIX")
	assert.False(t, pix.EmDinheiro)
	assert.True(t, dec("100").Equal(pix.Valor))

	// second non-cash row pre-fills what the first left over
	require.NoError(t, a.DefinirValor(pix.ID, dec("60")))
	cartao := a.Adicionar(uuid.New(), "Cartão de Débito")
	assert.True(t, dec("40").Equal(cartao.Valor))
}

func TestAdicionarDinheiroComecaZerado(t *testing.T) {
	a := NovoAlocador(dec("100"), nil)

	dinheiro := a.Adicionar(uuid.New(), "Dinheiro")
	assert.True(t, dinheiro.EmDinheiro)
	assert.True(t, dinheiro.Valor.IsZero())
}

func TestNaoDinheiroNuncaExcedeRestante(t *testing.T) {
	a := NovoAlocador(dec("100"), nil)
	pix := a.Adicionar(uuid.New(), "PIX")

	err := a.DefinirValor(pix.ID, dec("150"))
	require.Error(t, err)
	assert.Equal(t, apierror.KindValidacao, apierror.KindOf(err))
	// rejected edit leaves the previous amount intact
	assert.True(t, dec("100").Equal(a.Alocacoes()[0].Valor))

	require.NoError(t, a.DefinirValor(pix.ID, dec("100")))
}

func TestValorNegativoRejeitado(t *testing.T) {
	a := NovoAlocador(dec("50"), nil)
	dinheiro := a.Adicionar(uuid.New(), "Dinheiro")

	err := a.DefinirValor(dinheiro.ID, dec("-1"))
	require.Error(t, err)
	assert.Equal(t, apierror.KindValidacao, apierror.KindOf(err))
}

func TestDinheiroGeraTroco(t *testing.T) {
	a := NovoAlocador(dec("37.50"), nil)
	dinheiro := a.Adicionar(uuid.New(), "Dinheiro")
	require.NoError(t, a.DefinirValor(dinheiro.ID, dec("50")))

	assert.True(t, dec("50").Equal(a.TotalPago()))
	assert.True(t, a.Restante().IsZero())
	assert.True(t, dec("12.50").Equal(a.Troco()))
	assert.True(t, a.PodeQuitar())
}

func TestRestanteEhPisoZero(t *testing.T) {
	a := NovoAlocador(dec("20"), nil)
	assert.True(t, dec("20").Equal(a.Restante()))
	assert.True(t, a.Troco().IsZero())
	assert.False(t, a.PodeQuitar())

	dinheiro := a.Adicionar(uuid.New(), "Dinheiro")
	require.NoError(t, a.DefinirValor(dinheiro.ID, dec("20")))
	assert.True(t, a.Restante().IsZero())
	assert.True(t, a.Troco().IsZero())
}

func TestParaPersistirExcluiLinhasZeradas(t *testing.T) {
	a := NovoAlocador(dec("30"), nil)
	pix := a.Adicionar(uuid.New(), "PIX")
	require.NoError(t, a.DefinirValor(pix.ID, dec("30")))
	a.Adicionar(uuid.New(), "Dinheiro") // added but never filled

	persistir := a.ParaPersistir()
	require.Len(t, persistir, 1)
	assert.Equal(t, pix.ID, persistir[0].ID)
}

func TestRemoverPersistidaRegistraDelete(t *testing.T) {
	persistida := Alocacao{ID: uuid.New(), MetodoNome: "PIX", Valor: dec("25")}
	a := NovoAlocador(dec("50"), []Alocacao{persistida})

	nova := a.Adicionar(uuid.New(), "Cartão de Crédito")
	a.Remover(persistida.ID)
	a.Remover(nova.ID)

	removidas := a.RemovidasPersistidas()
	require.Len(t, removidas, 1)
	assert.Equal(t, persistida.ID, removidas[0])
	assert.Empty(t, a.Alocacoes())
}

func TestSetTotalLiberaRestante(t *testing.T) {
	a := NovoAlocador(dec("100"), nil)
	pix := a.Adicionar(uuid.New(), "PIX")
	require.NoError(t, a.DefinirValor(pix.ID, dec("100")))

	// a surcharge applied mid-payment raises the total
	a.SetTotal(dec("110"))
	assert.True(t, dec("10").Equal(a.Restante()))
	cartao := a.Adicionar(uuid.New(), "Cartão de Débito")
	assert.True(t, dec("10").Equal(cartao.Valor))
}

func TestDividirPorPessoaEhConsultivo(t *testing.T) {
	a := NovoAlocador(dec("90"), nil)

	assert.True(t, dec("30").Equal(a.DividirPorPessoa(3)))
	assert.True(t, a.DividirPorPessoa(0).IsZero())
	// the advisory split never creates allocations
	assert.Empty(t, a.Alocacoes())
	assert.True(t, dec("90").Equal(a.Restante()))
}

func TestSituacao(t *testing.T) {
	assert.Equal(t, SituacaoAberto, Situacao(dec("50"), dec("0")))
	assert.Equal(t, SituacaoParcial, Situacao(dec("50"), dec("20")))
	assert.Equal(t, SituacaoPago, Situacao(dec("50"), dec("50")))
	assert.Equal(t, SituacaoPago, Situacao(dec("50"), dec("60")))
}
