package service

import (
	"context"
	"errors"
	"time"

	"filazero/internal/apierror"
	"filazero/internal/dto"
	"filazero/internal/model"
	"filazero/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CaixaService interface {
	Abrir(ctx context.Context, req dto.AbrirCaixaRequest) (*dto.CaixaResponse, error)
	Fechar(ctx context.Context, caixaID uuid.UUID, req dto.FecharCaixaRequest) (*dto.CaixaResponse, error)
	RegistrarMovimentacao(ctx context.Context, caixaID uuid.UUID, req dto.MovimentacaoRequest) error
	Status(ctx context.Context, estabelecimentoID uuid.UUID) (*dto.StatusCaixaResponse, error)
	Obter(ctx context.Context, caixaID uuid.UUID) (*dto.CaixaResponse, error)
	ListAbertos(ctx context.Context, estabelecimentoID uuid.UUID) ([]dto.CaixaResponse, error)
	// ValidarAberto is called by PagamentoService before crediting a sale.
	ValidarAberto(ctx context.Context, caixaID uuid.UUID) error
}

type caixaService struct {
	repo repository.CaixaRepository
	// alertaAbertura: how long a caixa may stay open before the staleness
	// advisory fires. Advisory only — nothing is blocked or auto-closed.
	alertaAbertura time.Duration
	now            func() time.Time
}

func NewCaixaService(repo repository.CaixaRepository, alertaHoras int) CaixaService {
	if alertaHoras <= 0 {
		alertaHoras = 24
	}
	return &caixaService{
		repo:           repo,
		alertaAbertura: time.Duration(alertaHoras) * time.Hour,
		now:            time.Now,
	}
}

// ── Abrir ─────────────────────────────────────────────────────────────────────

func (s *caixaService) Abrir(ctx context.Context, req dto.AbrirCaixaRequest) (*dto.CaixaResponse, error) {
	estID, err := uuid.Parse(req.EstabelecimentoID)
	if err != nil {
		return nil, apierror.Validacao("estabelecimento_id inválido")
	}
	abertoPor, err := uuid.Parse(req.AbertoPor)
	if err != nil {
		return nil, apierror.Validacao("aberto_por inválido")
	}

	// Declared opening total: manual entry plus the optional bill count.
	// The denomination breakdown itself is a counting aid — only the
	// resulting total is persisted.
	valorAbertura := req.ValorInformado.Add(SomarCedulas(req.Cedulas))
	if valorAbertura.Sign() <= 0 {
		return nil, apierror.Validacao("valor de abertura deve ser maior que zero")
	}

	// Guard: one caixa aberto per establishment. The partial unique index is
	// the backstop for races; this check produces the friendly conflict.
	if existente, err := s.repo.FindAbertoPorEstabelecimento(ctx, estID); err == nil && existente != nil {
		return nil, apierror.Conflito("já existe um caixa aberto neste estabelecimento")
	}

	caixa := &model.Caixa{
		EstabelecimentoID: estID,
		Status:            model.CaixaAberto,
		ValorAbertura:     valorAbertura,
		TotalEntradas:     decimal.Zero,
		TotalSaidas:       decimal.Zero,
		TotalVendas:       decimal.Zero,
		AbertoPor:         abertoPor,
		AbertoEm:          s.now().UTC(),
	}
	if err := s.repo.Create(ctx, caixa); err != nil {
		return nil, apierror.Persistencia("falha ao abrir caixa", err)
	}

	log.Info().
		Str("caixa_id", caixa.ID.String()).
		Str("estabelecimento_id", estID.String()).
		Str("valor_abertura", valorAbertura.String()).
		Msg("caixa aberto")

	return s.buildResponse(caixa, nil), nil
}

// ── RegistrarMovimentacao ─────────────────────────────────────────────────────
// Entrada / saída manual. Movements are immutable — no Update/Delete.

func (s *caixaService) RegistrarMovimentacao(ctx context.Context, caixaID uuid.UUID, req dto.MovimentacaoRequest) error {
	if err := s.ValidarAberto(ctx, caixaID); err != nil {
		return err
	}
	usuarioID, err := uuid.Parse(req.UsuarioID)
	if err != nil {
		return apierror.Validacao("usuario_id inválido")
	}

	coluna := "total_entradas"
	if req.Tipo == model.MovimentacaoSaida {
		coluna = "total_saidas"
	}

	mov := &model.MovimentacaoCaixa{
		CaixaID:   caixaID,
		Tipo:      req.Tipo,
		Valor:     req.Valor,
		Descricao: req.Descricao,
		UsuarioID: usuarioID,
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.CreateMovimentacaoTx(tx, mov); err != nil {
			return err
		}
		return s.repo.AddMovimentacaoTotalTx(tx, caixaID, coluna, req.Valor)
	})
	if txErr != nil {
		return apierror.Persistencia("falha ao registrar movimentação", txErr)
	}
	return nil
}

// ── Fechar ────────────────────────────────────────────────────────────────────
// Computes the signed diferença AFTER receiving the counted total and
// transitions to fechado exactly once. A closed caixa is immutable history.

func (s *caixaService) Fechar(ctx context.Context, caixaID uuid.UUID, req dto.FecharCaixaRequest) (*dto.CaixaResponse, error) {
	caixa, err := s.repo.FindByID(ctx, caixaID)
	if err != nil {
		return nil, apierror.Conflito("caixa não encontrado")
	}
	if caixa.Status != model.CaixaAberto {
		return nil, apierror.Conflito("o caixa já está fechado")
	}
	fechadoPor, err := uuid.Parse(req.FechadoPor)
	if err != nil {
		return nil, apierror.Validacao("fechado_por inválido")
	}

	valorContado := req.ValorContado.Add(SomarCedulas(req.Cedulas))
	// Positive ⇒ counted more than expected; negative ⇒ shortage.
	diferenca := valorContado.Sub(caixa.SaldoEsperado())

	agora := s.now().UTC()
	caixa.ValorFechamento = &valorContado
	caixa.Diferenca = &diferenca
	caixa.FechadoPor = &fechadoPor
	caixa.FechadoEm = &agora

	ok, err := s.repo.Fechar(ctx, caixa)
	if err != nil {
		return nil, apierror.Persistencia("falha ao fechar caixa", err)
	}
	if !ok {
		return nil, apierror.Conflito("o caixa já está fechado")
	}
	caixa.Status = model.CaixaFechado

	log.Info().
		Str("caixa_id", caixa.ID.String()).
		Str("saldo_esperado", caixa.SaldoEsperado().String()).
		Str("valor_contado", valorContado.String()).
		Str("diferenca", diferenca.String()).
		Msg("caixa fechado")

	return s.buildResponse(caixa, caixa.Movimentacoes), nil
}

// ── Consultas ─────────────────────────────────────────────────────────────────

func (s *caixaService) Status(ctx context.Context, estabelecimentoID uuid.UUID) (*dto.StatusCaixaResponse, error) {
	caixa, err := s.repo.FindAbertoPorEstabelecimento(ctx, estabelecimentoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &dto.StatusCaixaResponse{Status: model.CaixaFechado}, nil
		}
		return nil, apierror.Persistencia("falha ao consultar caixa", err)
	}
	return &dto.StatusCaixaResponse{
		Status: model.CaixaAberto,
		Caixa:  s.buildResponse(caixa, nil),
	}, nil
}

func (s *caixaService) Obter(ctx context.Context, caixaID uuid.UUID) (*dto.CaixaResponse, error) {
	caixa, err := s.repo.FindByID(ctx, caixaID)
	if err != nil {
		return nil, apierror.Conflito("caixa não encontrado")
	}
	return s.buildResponse(caixa, caixa.Movimentacoes), nil
}

// ListAbertos feeds the staleness sweep: every open caixa of the
// establishment, each flagged when open past the advisory limit.
func (s *caixaService) ListAbertos(ctx context.Context, estabelecimentoID uuid.UUID) ([]dto.CaixaResponse, error) {
	caixas, err := s.repo.ListAbertos(ctx, estabelecimentoID)
	if err != nil {
		return nil, apierror.Persistencia("falha ao listar caixas abertos", err)
	}
	out := make([]dto.CaixaResponse, 0, len(caixas))
	for i := range caixas {
		out = append(out, *s.buildResponse(&caixas[i], nil))
	}
	return out, nil
}

func (s *caixaService) ValidarAberto(ctx context.Context, caixaID uuid.UUID) error {
	caixa, err := s.repo.FindByID(ctx, caixaID)
	if err != nil {
		return apierror.Conflito("caixa não encontrado")
	}
	if caixa.Status != model.CaixaAberto {
		return apierror.Conflito("não há caixa aberto")
	}
	return nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

// SomarCedulas totals a denomination breakdown: Σ face value × count.
func SomarCedulas(cedulas []dto.CedulaContagem) decimal.Decimal {
	s := decimal.Zero
	for _, c := range cedulas {
		if c.Quantidade <= 0 {
			continue
		}
		s = s.Add(c.Valor.Mul(decimal.NewFromInt(int64(c.Quantidade))))
	}
	return s
}

// Vencido reports whether an open caixa passed the staleness limit.
func (s *caixaService) Vencido(caixa *model.Caixa) bool {
	return caixa.Status == model.CaixaAberto && s.now().Sub(caixa.AbertoEm) >= s.alertaAbertura
}

func (s *caixaService) buildResponse(caixa *model.Caixa, movs []model.MovimentacaoCaixa) *dto.CaixaResponse {
	vencido := s.Vencido(caixa)
	if vencido {
		log.Warn().
			Str("caixa_id", caixa.ID.String()).
			Time("aberto_em", caixa.AbertoEm).
			Msg("caixa aberto além do limite recomendado; considere fechá-lo e abrir um novo")
	}

	resp := &dto.CaixaResponse{
		ID:                caixa.ID.String(),
		EstabelecimentoID: caixa.EstabelecimentoID.String(),
		Status:            caixa.Status,
		ValorAbertura:     caixa.ValorAbertura,
		TotalEntradas:     caixa.TotalEntradas,
		TotalSaidas:       caixa.TotalSaidas,
		TotalVendas:       caixa.TotalVendas,
		SaldoEsperado:     caixa.SaldoEsperado(),
		ValorFechamento:   caixa.ValorFechamento,
		Diferenca:         caixa.Diferenca,
		AbertoEm:          caixa.AbertoEm.UTC().Format(time.RFC3339),
		Vencido:           vencido,
	}
	if caixa.FechadoEm != nil {
		t := caixa.FechadoEm.UTC().Format(time.RFC3339)
		resp.FechadoEm = &t
	}
	for _, m := range movs {
		resp.Movimentacoes = append(resp.Movimentacoes, dto.MovimentacaoResponse{
			ID:        m.ID.String(),
			Tipo:      m.Tipo,
			Valor:     m.Valor,
			Descricao: m.Descricao,
			CriadaEm:  m.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return resp
}
