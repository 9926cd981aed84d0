package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"filazero/internal/apierror"
	"filazero/internal/dto"
	"filazero/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// ── In-memory CaixaRepository ────────────────────────────────────────────────

type memCaixaRepo struct {
	caixas map[uuid.UUID]*model.Caixa
	movs   []model.MovimentacaoCaixa
}

func newMemCaixaRepo() *memCaixaRepo {
	return &memCaixaRepo{caixas: make(map[uuid.UUID]*model.Caixa)}
}

func (r *memCaixaRepo) DB() *gorm.DB { return nil }

func (r *memCaixaRepo) Create(_ context.Context, c *model.Caixa) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.caixas[c.ID] = c
	return nil
}

func (r *memCaixaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Caixa, error) {
	c, ok := r.caixas[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	c.Movimentacoes = nil
	for _, m := range r.movs {
		if m.CaixaID == id {
			c.Movimentacoes = append(c.Movimentacoes, m)
		}
	}
	return c, nil
}

func (r *memCaixaRepo) FindAbertoPorEstabelecimento(_ context.Context, estID uuid.UUID) (*model.Caixa, error) {
	for _, c := range r.caixas {
		if c.EstabelecimentoID == estID && c.Status == model.CaixaAberto {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memCaixaRepo) ListAbertos(_ context.Context, estID uuid.UUID) ([]model.Caixa, error) {
	var out []model.Caixa
	for _, c := range r.caixas {
		if c.EstabelecimentoID == estID && c.Status == model.CaixaAberto {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *memCaixaRepo) Fechar(_ context.Context, c *model.Caixa) (bool, error) {
	atual, ok := r.caixas[c.ID]
	if !ok || atual.Status != model.CaixaAberto {
		return false, nil
	}
	atual.Status = model.CaixaFechado
	atual.ValorFechamento = c.ValorFechamento
	atual.Diferenca = c.Diferenca
	atual.FechadoPor = c.FechadoPor
	atual.FechadoEm = c.FechadoEm
	return true, nil
}

func (r *memCaixaRepo) CreateMovimentacaoTx(_ *gorm.DB, m *model.MovimentacaoCaixa) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	m.CreatedAt = time.Now()
	r.movs = append(r.movs, *m)
	return nil
}

func (r *memCaixaRepo) ListMovimentacoes(_ context.Context, caixaID uuid.UUID) ([]model.MovimentacaoCaixa, error) {
	var out []model.MovimentacaoCaixa
	for _, m := range r.movs {
		if m.CaixaID == caixaID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *memCaixaRepo) AddMovimentacaoTotalTx(_ *gorm.DB, caixaID uuid.UUID, coluna string, valor decimal.Decimal) error {
	c, ok := r.caixas[caixaID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if coluna == "total_saidas" {
		c.TotalSaidas = c.TotalSaidas.Add(valor)
	} else {
		c.TotalEntradas = c.TotalEntradas.Add(valor)
	}
	return nil
}

func (r *memCaixaRepo) IncrementTotalVendasTx(_ *gorm.DB, caixaID uuid.UUID, valor decimal.Decimal) error {
	c, ok := r.caixas[caixaID]
	if !ok || c.Status != model.CaixaAberto {
		return gorm.ErrRecordNotFound
	}
	c.TotalVendas = c.TotalVendas.Add(valor)
	return nil
}

// ── Helpers ──────────────────────────────────────────────────────────────────

func newCaixaServiceAt(repo *memCaixaRepo, agora time.Time) *caixaService {
	return &caixaService{
		repo:           repo,
		alertaAbertura: 24 * time.Hour,
		now:            func() time.Time { return agora },
	}
}

func abrirCaixa(t *testing.T, svc CaixaService, estID uuid.UUID, valor string) *dto.CaixaResponse {
	t.Helper()
	resp, err := svc.Abrir(context.Background(), dto.AbrirCaixaRequest{
		EstabelecimentoID: estID.String(),
		ValorInformado:    dec(valor),
		AbertoPor:         uuid.NewString(),
	})
	require.NoError(t, err)
	return resp
}

// ── Tests ────────────────────────────────────────────────────────────────────

func TestAbrirCaixa(t *testing.T) {
	repo := newMemCaixaRepo()
	svc := newCaixaServiceAt(repo, time.Now())
	estID := uuid.New()

	resp := abrirCaixa(t, svc, estID, "100")
	assert.Equal(t, model.CaixaAberto, resp.Status)
	assert.True(t, dec("100").Equal(resp.ValorAbertura))
	assert.True(t, dec("100").Equal(resp.SaldoEsperado))
	assert.False(t, resp.Vencido)
}

func TestAbrirCaixaComCedulas(t *testing.T) {
	repo := newMemCaixaRepo()
	svc := newCaixaServiceAt(repo, time.Now())

	resp, err := svc.Abrir(context.Background(), dto.AbrirCaixaRequest{
		EstabelecimentoID: uuid.NewString(),
		ValorInformado:    dec("10"),
		Cedulas: []dto.CedulaContagem{
			{Valor: dec("50"), Quantidade: 2},
			{Valor: dec("5"), Quantidade: 4},
			{Valor: dec("2"), Quantidade: -3}, // ignored
		},
		AbertoPor: uuid.NewString(),
	})
	require.NoError(t, err)
	// 10 + 2×50 + 4×5
	assert.True(t, dec("130").Equal(resp.ValorAbertura))
}

func TestAbrirCaixaValorZeroRejeitado(t *testing.T) {
	svc := newCaixaServiceAt(newMemCaixaRepo(), time.Now())

	_, err := svc.Abrir(context.Background(), dto.AbrirCaixaRequest{
		EstabelecimentoID: uuid.NewString(),
		ValorInformado:    decimal.Zero,
		AbertoPor:         uuid.NewString(),
	})
	require.Error(t, err)
	assert.Equal(t, apierror.KindValidacao, apierror.KindOf(err))
}

func TestAbrirCaixaDuplicadoConflita(t *testing.T) {
	repo := newMemCaixaRepo()
	svc := newCaixaServiceAt(repo, time.Now())
	estID := uuid.New()

	abrirCaixa(t, svc, estID, "100")
	_, err := svc.Abrir(context.Background(), dto.AbrirCaixaRequest{
		EstabelecimentoID: estID.String(),
		ValorInformado:    dec("50"),
		AbertoPor:         uuid.NewString(),
	})
	require.Error(t, err)
	assert.Equal(t, apierror.KindConflito, apierror.KindOf(err))

	// another establishment opens freely
	abrirCaixa(t, svc, uuid.New(), "80")
}

func TestMovimentacoesAjustamSaldoEsperado(t *testing.T) {
	repo := newMemCaixaRepo()
	svc := newCaixaServiceAt(repo, time.Now())
	caixa := abrirCaixa(t, svc, uuid.New(), "100")
	caixaID := uuid.MustParse(caixa.ID)

	require.NoError(t, svc.RegistrarMovimentacao(context.Background(), caixaID, dto.MovimentacaoRequest{
		Tipo: model.MovimentacaoEntrada, Valor: dec("30"), Descricao: "aporte de troco", UsuarioID: uuid.NewString(),
	}))
	require.NoError(t, svc.RegistrarMovimentacao(context.Background(), caixaID, dto.MovimentacaoRequest{
		Tipo: model.MovimentacaoSaida, Valor: dec("12.50"), Descricao: "compra de gelo", UsuarioID: uuid.NewString(),
	}))

	resp, err := svc.Obter(context.Background(), caixaID)
	require.NoError(t, err)
	assert.True(t, dec("30").Equal(resp.TotalEntradas))
	assert.True(t, dec("12.50").Equal(resp.TotalSaidas))
	// 100 + 30 − 12.50
	assert.True(t, dec("117.50").Equal(resp.SaldoEsperado))
	assert.Len(t, resp.Movimentacoes, 2)
}

func TestTimestampsSaemEmUTC(t *testing.T) {
	repo := newMemCaixaRepo()
	svc := newCaixaServiceAt(repo, time.Now())
	caixa := abrirCaixa(t, svc, uuid.New(), "100")
	caixaID := uuid.MustParse(caixa.ID)

	require.NoError(t, svc.RegistrarMovimentacao(context.Background(), caixaID, dto.MovimentacaoRequest{
		Tipo: model.MovimentacaoEntrada, Valor: dec("5"), Descricao: "aporte de troco", UsuarioID: uuid.NewString(),
	}))
	// a driver may hand back wall-clock times in the session zone
	brt := time.FixedZone("BRT", -3*3600)
	repo.movs[0].CreatedAt = time.Date(2026, 3, 10, 8, 0, 0, 0, brt)

	resp, err := svc.Obter(context.Background(), caixaID)
	require.NoError(t, err)
	require.Len(t, resp.Movimentacoes, 1)

	assert.True(t, strings.HasSuffix(resp.Movimentacoes[0].CriadaEm, "Z"))
	criada, err := time.Parse(time.RFC3339, resp.Movimentacoes[0].CriadaEm)
	require.NoError(t, err)
	assert.True(t, criada.Equal(repo.movs[0].CreatedAt))

	aberto, err := time.Parse(time.RFC3339, resp.AbertoEm)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(resp.AbertoEm, "Z"))
	assert.False(t, aberto.IsZero())
}

func TestSaldoEsperadoIgnoraVendas(t *testing.T) {
	repo := newMemCaixaRepo()
	svc := newCaixaServiceAt(repo, time.Now())
	caixa := abrirCaixa(t, svc, uuid.New(), "100")
	caixaID := uuid.MustParse(caixa.ID)

	require.NoError(t, repo.IncrementTotalVendasTx(nil, caixaID, dec("250")))

	resp, err := svc.Obter(context.Background(), caixaID)
	require.NoError(t, err)
	assert.True(t, dec("250").Equal(resp.TotalVendas))
	assert.True(t, dec("100").Equal(resp.SaldoEsperado))
}

func TestFecharCaixaCalculaDiferenca(t *testing.T) {
	repo := newMemCaixaRepo()
	svc := newCaixaServiceAt(repo, time.Now())
	caixa := abrirCaixa(t, svc, uuid.New(), "100")
	caixaID := uuid.MustParse(caixa.ID)

	require.NoError(t, svc.RegistrarMovimentacao(context.Background(), caixaID, dto.MovimentacaoRequest{
		Tipo: model.MovimentacaoEntrada, Valor: dec("20"), Descricao: "aporte", UsuarioID: uuid.NewString(),
	}))

	// esperado 120, contado 140: sobra de 20
	resp, err := svc.Fechar(context.Background(), caixaID, dto.FecharCaixaRequest{
		ValorContado: dec("140"),
		FechadoPor:   uuid.NewString(),
	})
	require.NoError(t, err)
	assert.Equal(t, model.CaixaFechado, resp.Status)
	require.NotNil(t, resp.Diferenca)
	assert.True(t, dec("20").Equal(*resp.Diferenca))
	require.NotNil(t, resp.FechadoEm)
}

func TestFecharCaixaComFalta(t *testing.T) {
	repo := newMemCaixaRepo()
	svc := newCaixaServiceAt(repo, time.Now())
	caixa := abrirCaixa(t, svc, uuid.New(), "100")

	resp, err := svc.Fechar(context.Background(), uuid.MustParse(caixa.ID), dto.FecharCaixaRequest{
		ValorContado: dec("80"),
		FechadoPor:   uuid.NewString(),
	})
	require.NoError(t, err)
	require.NotNil(t, resp.Diferenca)
	assert.True(t, dec("-20").Equal(*resp.Diferenca))
}

func TestFecharCaixaDuasVezesConflita(t *testing.T) {
	repo := newMemCaixaRepo()
	svc := newCaixaServiceAt(repo, time.Now())
	caixa := abrirCaixa(t, svc, uuid.New(), "100")
	caixaID := uuid.MustParse(caixa.ID)

	_, err := svc.Fechar(context.Background(), caixaID, dto.FecharCaixaRequest{
		ValorContado: dec("100"), FechadoPor: uuid.NewString(),
	})
	require.NoError(t, err)

	_, err = svc.Fechar(context.Background(), caixaID, dto.FecharCaixaRequest{
		ValorContado: dec("100"), FechadoPor: uuid.NewString(),
	})
	require.Error(t, err)
	assert.Equal(t, apierror.KindConflito, apierror.KindOf(err))
}

func TestMovimentacaoEmCaixaFechadoConflita(t *testing.T) {
	repo := newMemCaixaRepo()
	svc := newCaixaServiceAt(repo, time.Now())
	caixa := abrirCaixa(t, svc, uuid.New(), "100")
	caixaID := uuid.MustParse(caixa.ID)

	_, err := svc.Fechar(context.Background(), caixaID, dto.FecharCaixaRequest{
		ValorContado: dec("100"), FechadoPor: uuid.NewString(),
	})
	require.NoError(t, err)

	err = svc.RegistrarMovimentacao(context.Background(), caixaID, dto.MovimentacaoRequest{
		Tipo: model.MovimentacaoEntrada, Valor: dec("5"), Descricao: "tarde demais", UsuarioID: uuid.NewString(),
	})
	require.Error(t, err)
	assert.Equal(t, apierror.KindConflito, apierror.KindOf(err))
}

func TestStatusCaixa(t *testing.T) {
	repo := newMemCaixaRepo()
	svc := newCaixaServiceAt(repo, time.Now())
	estID := uuid.New()

	resp, err := svc.Status(context.Background(), estID)
	require.NoError(t, err)
	assert.Equal(t, model.CaixaFechado, resp.Status)
	assert.Nil(t, resp.Caixa)

	abrirCaixa(t, svc, estID, "100")
	resp, err = svc.Status(context.Background(), estID)
	require.NoError(t, err)
	assert.Equal(t, model.CaixaAberto, resp.Status)
	require.NotNil(t, resp.Caixa)
}

func TestVencidoNoLimiteDe24Horas(t *testing.T) {
	repo := newMemCaixaRepo()
	abertura := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)

	svc := newCaixaServiceAt(repo, abertura)
	caixa := abrirCaixa(t, svc, uuid.New(), "100")
	caixaID := uuid.MustParse(caixa.ID)

	// 1s short of the limit: still fresh
	svc.now = func() time.Time { return abertura.Add(24*time.Hour - time.Second) }
	resp, err := svc.Obter(context.Background(), caixaID)
	require.NoError(t, err)
	assert.False(t, resp.Vencido)

	// exactly at the limit: flagged
	svc.now = func() time.Time { return abertura.Add(24 * time.Hour) }
	resp, err = svc.Obter(context.Background(), caixaID)
	require.NoError(t, err)
	assert.True(t, resp.Vencido)

	// advisory only: movements and settlement still work
	require.NoError(t, svc.RegistrarMovimentacao(context.Background(), caixaID, dto.MovimentacaoRequest{
		Tipo: model.MovimentacaoEntrada, Valor: dec("1"), Descricao: "ainda aberto", UsuarioID: uuid.NewString(),
	}))
}

func TestSomarCedulas(t *testing.T) {
	total := SomarCedulas([]dto.CedulaContagem{
		{Valor: dec("100"), Quantidade: 1},
		{Valor: dec("0.25"), Quantidade: 8},
	})
	assert.True(t, dec("102").Equal(total))
	assert.True(t, SomarCedulas(nil).IsZero())
}
