package service

import (
	"context"
	"errors"

	"filazero/internal/apierror"
	"filazero/internal/dto"
	"filazero/internal/engine"
	"filazero/internal/model"
	"filazero/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type PedidoService interface {
	Criar(ctx context.Context, req dto.CriarPedidoRequest) (*dto.PedidoResponse, error)
	Obter(ctx context.Context, id uuid.UUID) (*dto.PedidoResponse, error)
	ListarItens(ctx context.Context, id uuid.UUID) ([]dto.ItemResponse, error)
	SalvarItens(ctx context.Context, id uuid.UUID, req dto.SalvarItensRequest) (*dto.SalvarItensResponse, error)
	ObterAjuste(ctx context.Context, id uuid.UUID, campo string) (*dto.AjusteResponse, error)
	AplicarAjuste(ctx context.Context, id uuid.UUID, campo string, req dto.AjusteRequest) (*dto.PedidoResponse, error)
	RemoverAjuste(ctx context.Context, id uuid.UUID, campo string) error
	Cancelar(ctx context.Context, id uuid.UUID) error
}

// Adjustment column prefixes; also the path segments of the HTTP surface.
const (
	CampoDesconto  = "desconto"
	CampoAcrescimo = "acrescimo"
)

// errVersaoDesatualizada aborts the save transaction when the optimistic
// version check finds the row already moved.
var errVersaoDesatualizada = errors.New("versão do pedido desatualizada")

type pedidoService struct {
	repo repository.PedidoRepository
	hub  *engine.Hub
}

func NewPedidoService(repo repository.PedidoRepository, hub *engine.Hub) PedidoService {
	return &pedidoService{repo: repo, hub: hub}
}

// ── Criar / Obter ─────────────────────────────────────────────────────────────

func (s *pedidoService) Criar(ctx context.Context, req dto.CriarPedidoRequest) (*dto.PedidoResponse, error) {
	atendimentoID, err := uuid.Parse(req.AtendimentoID)
	if err != nil {
		return nil, apierror.Validacao("atendimento_id inválido")
	}
	p := &model.Pedido{
		AtendimentoID: atendimentoID,
		Situacao:      engine.SituacaoAberto,
		Version:       1,
	}
	if req.ClienteID != nil {
		clienteID, err := uuid.Parse(*req.ClienteID)
		if err != nil {
			return nil, apierror.Validacao("cliente_id inválido")
		}
		p.ClienteID = &clienteID
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, apierror.Persistencia("falha ao criar pedido", err)
	}
	return buildPedidoResponse(p), nil
}

func (s *pedidoService) Obter(ctx context.Context, id uuid.UUID) (*dto.PedidoResponse, error) {
	p, err := s.findPedido(ctx, id)
	if err != nil {
		return nil, err
	}
	return buildPedidoResponse(p), nil
}

func (s *pedidoService) ListarItens(ctx context.Context, id uuid.UUID) ([]dto.ItemResponse, error) {
	p, err := s.findPedido(ctx, id)
	if err != nil {
		return nil, err
	}
	return buildItens(p.Itens), nil
}

// ── SalvarItens ───────────────────────────────────────────────────────────────
// All-or-nothing ledger save. The request carries the complete desired line
// set; the persisted state is reconciled to it through the ledger engine so
// the pending count reported back is exactly what the "Salvar (N)" button
// showed. Version mismatch means another terminal wrote first — conflict.

func (s *pedidoService) SalvarItens(ctx context.Context, id uuid.UUID, req dto.SalvarItensRequest) (*dto.SalvarItensResponse, error) {
	p, err := s.findPedido(ctx, id)
	if err != nil {
		return nil, err
	}

	ledger := engine.NewLedger(linhasFromModel(p.Itens))
	if err := reconcile(ledger, req.Itens); err != nil {
		return nil, err
	}
	pendentes := ledger.PendingCount()

	itens := make([]model.ItemPedido, 0)
	for _, l := range ledger.Linhas() {
		itens = append(itens, model.ItemPedido{
			PedidoID:      id,
			ProdutoID:     l.ProdutoID,
			Nome:          l.Nome,
			PrecoUnitario: l.PrecoUnitario,
			Quantidade:    l.Quantidade,
		})
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		ok, err := s.repo.BumpVersionTx(tx, id, req.Version)
		if err != nil {
			return err
		}
		if !ok {
			return errVersaoDesatualizada
		}
		return s.repo.ReplaceItensTx(tx, id, itens)
	})
	if errors.Is(txErr, errVersaoDesatualizada) {
		return nil, apierror.Conflito("o pedido foi alterado por outro terminal; recarregue antes de salvar")
	}
	if txErr != nil {
		// Rejected save leaves the in-memory ledger untouched: Commit is
		// never reached, so no partial commit can occur.
		return nil, apierror.Persistencia("falha ao salvar itens do pedido", txErr)
	}

	ledger.Commit()
	s.hub.PublishLedgerSalvo(engine.LedgerSalvoEvent{PedidoID: id, Itens: len(itens)})
	log.Info().
		Str("pedido_id", id.String()).
		Int("pendentes", pendentes).
		Int("itens", len(itens)).
		Msg("itens do pedido salvos")

	p.Itens = itens
	p.Version = req.Version + 1
	return &dto.SalvarItensResponse{
		Pedido:    *buildPedidoResponse(p),
		Pendentes: pendentes,
	}, nil
}

// reconcile drives the ledger from its persisted state to the desired one
// using only the engine's add/decrement operations, so every invariant the
// engine enforces (line removal at zero, derived dirtiness) applies.
func reconcile(ledger *engine.Ledger, desejados []dto.ItemRequest) error {
	alvo := make(map[uuid.UUID]dto.ItemRequest, len(desejados))
	for _, d := range desejados {
		produtoID, err := uuid.Parse(d.ProdutoID)
		if err != nil {
			return apierror.Validacao("produto_id inválido")
		}
		if d.PrecoUnitario.Sign() < 0 {
			return apierror.Validacao("preço unitário não pode ser negativo")
		}
		if _, dup := alvo[produtoID]; dup {
			return apierror.Validacao("produto duplicado na lista de itens")
		}
		alvo[produtoID] = d
	}

	// Remove lines absent from the desired set (or decrement down to target).
	for _, l := range ledger.Linhas() {
		want := 0
		if d, ok := alvo[l.ProdutoID]; ok {
			want = d.Quantidade
		}
		for q := l.Quantidade; q > want; q-- {
			ledger.Decrement(l.ProdutoID)
		}
	}
	// Add the new units.
	for produtoID, d := range alvo {
		have := 0
		for _, l := range ledger.Linhas() {
			if l.ProdutoID == produtoID {
				have = l.Quantidade
			}
		}
		for q := have; q < d.Quantidade; q++ {
			ledger.AddOrIncrement(produtoID, d.Nome, d.PrecoUnitario)
		}
	}
	return nil
}

// ── Ajustes ───────────────────────────────────────────────────────────────────

func (s *pedidoService) ObterAjuste(ctx context.Context, id uuid.UUID, campo string) (*dto.AjusteResponse, error) {
	p, err := s.findPedido(ctx, id)
	if err != nil {
		return nil, err
	}
	a := ajusteFromModel(p, campo)
	if a == nil {
		return nil, nil
	}
	return &dto.AjusteResponse{Valor: a.Valor, Tipo: string(a.Tipo)}, nil
}

// AplicarAjuste sets the desconto or acréscimo. A zero valor is the removal
// gesture: it clears the adjustment instead of applying 0%.
func (s *pedidoService) AplicarAjuste(ctx context.Context, id uuid.UUID, campo string, req dto.AjusteRequest) (*dto.PedidoResponse, error) {
	p, err := s.findPedido(ctx, id)
	if err != nil {
		return nil, err
	}

	ajuste, err := engine.NovoAjuste(req.Valor, engine.TipoAjuste(req.Tipo))
	if err != nil {
		return nil, err
	}
	if ajuste == nil {
		if err := s.RemoverAjuste(ctx, id, campo); err != nil {
			return nil, err
		}
		setAjusteModel(p, campo, nil)
		return buildPedidoResponse(p), nil
	}

	tipo := string(ajuste.Tipo)
	if err := s.repo.UpdateAjuste(ctx, id, campo, ajuste.Valor, tipo); err != nil {
		return nil, apierror.Persistencia("falha ao aplicar ajuste", err)
	}
	setAjusteModel(p, campo, ajuste)
	return buildPedidoResponse(p), nil
}

func (s *pedidoService) RemoverAjuste(ctx context.Context, id uuid.UUID, campo string) error {
	if _, err := s.findPedido(ctx, id); err != nil {
		return err
	}
	if err := s.repo.UpdateAjuste(ctx, id, campo, nil, nil); err != nil {
		return apierror.Persistencia("falha ao remover ajuste", err)
	}
	return nil
}

// ── Cancelar ──────────────────────────────────────────────────────────────────
// A cancelled pedido with no persisted lines leaves no trace; one with
// persisted state needs the explicit delete — both end in the same place.

func (s *pedidoService) Cancelar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.findPedido(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return apierror.Persistencia("falha ao cancelar pedido", err)
	}
	log.Info().Str("pedido_id", id.String()).Msg("pedido cancelado")
	return nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

func (s *pedidoService) findPedido(ctx context.Context, id uuid.UUID) (*model.Pedido, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.Conflito("pedido não encontrado")
		}
		return nil, apierror.Persistencia("falha ao carregar pedido", err)
	}
	return p, nil
}

func linhasFromModel(itens []model.ItemPedido) []engine.Linha {
	linhas := make([]engine.Linha, 0, len(itens))
	for _, it := range itens {
		linhas = append(linhas, engine.Linha{
			ProdutoID:     it.ProdutoID,
			Nome:          it.Nome,
			PrecoUnitario: it.PrecoUnitario,
			Quantidade:    it.Quantidade,
		})
	}
	return linhas
}

// ajusteFromModel reads the stored (valor, tipo) pair back into the engine's
// tagged representation. campo is CampoDesconto or CampoAcrescimo.
func ajusteFromModel(p *model.Pedido, campo string) *engine.Ajuste {
	var valor = p.DescontoValor
	var tipo = p.DescontoTipo
	if campo == CampoAcrescimo {
		valor = p.AcrescimoValor
		tipo = p.AcrescimoTipo
	}
	if valor == nil || tipo == nil {
		return nil
	}
	return &engine.Ajuste{Valor: *valor, Tipo: engine.TipoAjuste(*tipo)}
}

func setAjusteModel(p *model.Pedido, campo string, a *engine.Ajuste) {
	if campo == CampoAcrescimo {
		if a == nil {
			p.AcrescimoValor, p.AcrescimoTipo = nil, nil
			return
		}
		tipo := string(a.Tipo)
		p.AcrescimoValor, p.AcrescimoTipo = &a.Valor, &tipo
		return
	}
	if a == nil {
		p.DescontoValor, p.DescontoTipo = nil, nil
		return
	}
	tipo := string(a.Tipo)
	p.DescontoValor, p.DescontoTipo = &a.Valor, &tipo
}

func buildItens(itens []model.ItemPedido) []dto.ItemResponse {
	out := make([]dto.ItemResponse, 0, len(itens))
	for _, it := range itens {
		linha := engine.Linha{PrecoUnitario: it.PrecoUnitario, Quantidade: it.Quantidade}
		out = append(out, dto.ItemResponse{
			ProdutoID:     it.ProdutoID.String(),
			Nome:          it.Nome,
			PrecoUnitario: it.PrecoUnitario,
			Quantidade:    it.Quantidade,
			Total:         linha.Total(),
		})
	}
	return out
}

// buildPedidoResponse recomputes subtotal and total from source fields on
// every call — derived values are never cached on the aggregate.
func buildPedidoResponse(p *model.Pedido) *dto.PedidoResponse {
	ledger := engine.NewLedger(linhasFromModel(p.Itens))
	subtotal := ledger.Subtotal()
	desconto := ajusteFromModel(p, CampoDesconto)
	acrescimo := ajusteFromModel(p, CampoAcrescimo)

	resp := &dto.PedidoResponse{
		ID:            p.ID.String(),
		AtendimentoID: p.AtendimentoID.String(),
		Itens:         buildItens(p.Itens),
		Subtotal:      subtotal,
		Total:         engine.Total(subtotal, desconto, acrescimo),
		Situacao:      p.Situacao,
		Version:       p.Version,
	}
	if p.ClienteID != nil {
		c := p.ClienteID.String()
		resp.ClienteID = &c
	}
	if desconto != nil {
		resp.Desconto = &dto.AjusteResponse{Valor: desconto.Valor, Tipo: string(desconto.Tipo)}
	}
	if acrescimo != nil {
		resp.Acrescimo = &dto.AjusteResponse{Valor: acrescimo.Valor, Tipo: string(acrescimo.Tipo)}
	}
	return resp
}
