package service

import (
	"context"
	"errors"

	"filazero/internal/apierror"
	"filazero/internal/dto"
	"filazero/internal/engine"
	"filazero/internal/model"
	"filazero/internal/repository"
	"filazero/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PagamentoService interface {
	Listar(ctx context.Context, pedidoID uuid.UUID) ([]dto.PagamentoResponse, error)
	Quitar(ctx context.Context, pedidoID uuid.UUID, req dto.QuitarPedidoRequest) (*dto.QuitarPedidoResponse, error)
	Remover(ctx context.Context, pagamentoID uuid.UUID) error
}

type pagamentoService struct {
	pedidoRepo    repository.PedidoRepository
	pagamentoRepo repository.PagamentoRepository
	caixaRepo     repository.CaixaRepository
	caixa         CaixaService
	hub           *engine.Hub
	dispatcher    *worker.Dispatcher
}

func NewPagamentoService(
	pedidoRepo repository.PedidoRepository,
	pagamentoRepo repository.PagamentoRepository,
	caixaRepo repository.CaixaRepository,
	caixa CaixaService,
	hub *engine.Hub,
	dispatcher *worker.Dispatcher,
) PagamentoService {
	return &pagamentoService{
		pedidoRepo:    pedidoRepo,
		pagamentoRepo: pagamentoRepo,
		caixaRepo:     caixaRepo,
		caixa:         caixa,
		hub:           hub,
		dispatcher:    dispatcher,
	}
}

func (s *pagamentoService) Listar(ctx context.Context, pedidoID uuid.UUID) ([]dto.PagamentoResponse, error) {
	pags, err := s.pagamentoRepo.ListByPedido(ctx, pedidoID)
	if err != nil {
		return nil, apierror.Persistencia("falha ao listar pagamentos", err)
	}
	return buildPagamentos(pags), nil
}

// ── Quitar ────────────────────────────────────────────────────────────────────
// Settlement, in the same shape as a register sale:
//  1. Recompute total from current itens + ajustes (never cached)
//  2. Validate engine invariants locally — negative total, caps, canSettle
//  3. Validate the caixa is open when one is credited
//  4. TX: optimistic version bump, replace payment set (explicitly deleting
//     removed persisted rows), update situação, credit caixa total_vendas
//  5. Publish events + fire-and-forget notification job

func (s *pagamentoService) Quitar(ctx context.Context, pedidoID uuid.UUID, req dto.QuitarPedidoRequest) (*dto.QuitarPedidoResponse, error) {
	pedido, err := s.pedidoRepo.FindByID(ctx, pedidoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Distinct conflict, not a generic failure: the caller should
			// refresh its open-order list instead of retrying.
			return nil, apierror.Conflito("pedido não existe mais")
		}
		return nil, apierror.Persistencia("falha ao carregar pedido", err)
	}

	// 1. Current total from source fields.
	ledger := engine.NewLedger(linhasFromModel(pedido.Itens))
	subtotal := ledger.Subtotal()
	total := engine.Total(subtotal, ajusteFromModel(pedido, CampoDesconto), ajusteFromModel(pedido, CampoAcrescimo))
	if total.Sign() < 0 {
		return nil, apierror.Validacao("total do pedido é negativo; revise o desconto antes de quitar")
	}

	// 2. Compose the allocation set through the engine.
	alocador := engine.NovoAlocador(total, alocacoesFromModel(pedido.Pagamentos))
	for _, rid := range req.Removidas {
		id, err := uuid.Parse(rid)
		if err != nil {
			return nil, apierror.Validacao("id de pagamento removido inválido")
		}
		alocador.Remover(id)
	}
	for _, ar := range req.Alocacoes {
		metodoID, err := uuid.Parse(ar.MetodoID)
		if err != nil {
			return nil, apierror.Validacao("metodo_id inválido")
		}
		al := alocador.Adicionar(metodoID, ar.MetodoNome)
		if err := alocador.DefinirValor(al.ID, ar.Valor); err != nil {
			return nil, err
		}
	}
	if !alocador.PodeQuitar() {
		return nil, apierror.Validacao("nenhum pagamento com valor informado")
	}

	// 3. Caixa guard before the write.
	var caixaID *uuid.UUID
	if req.CaixaID != nil {
		id, err := uuid.Parse(*req.CaixaID)
		if err != nil {
			return nil, apierror.Validacao("caixa_id inválido")
		}
		if err := s.caixa.ValidarAberto(ctx, id); err != nil {
			return nil, err
		}
		caixaID = &id
	}

	totalPago := alocador.TotalPago()
	troco := alocador.Troco()
	situacao := engine.Situacao(total, totalPago)
	// The caixa keeps tendered minus change, i.e. min(pago, total). The sale
	// credit is the difference between that and what previous passes already
	// persisted, so a pedido settled in several passes counts each payment
	// exactly once; a negative delta (removals) debits the counter.
	pagoAnterior := decimal.Zero
	for _, p := range pedido.Pagamentos {
		pagoAnterior = pagoAnterior.Add(p.Valor)
	}
	valorVenda := decimal.Min(totalPago, total).Sub(decimal.Min(pagoAnterior, total))

	// Allocations kept from a previous pass stay attributed to the caixa they
	// were settled against.
	caixaAnterior := make(map[uuid.UUID]*uuid.UUID, len(pedido.Pagamentos))
	for _, p := range pedido.Pagamentos {
		caixaAnterior[p.ID] = p.CaixaID
	}

	pagamentos := make([]model.Pagamento, 0)
	for _, al := range alocador.ParaPersistir() {
		cid := caixaID
		if al.Persistida {
			cid = caixaAnterior[al.ID]
		}
		pagamentos = append(pagamentos, model.Pagamento{
			ID:         al.ID,
			PedidoID:   pedidoID,
			MetodoID:   al.MetodoID,
			MetodoNome: al.MetodoNome,
			EmDinheiro: al.EmDinheiro,
			Valor:      al.Valor,
			CaixaID:    cid,
		})
	}

	// 4. ACID transaction.
	txErr := runTx(ctx, s.pedidoRepo.DB(), func(tx *gorm.DB) error {
		ok, err := s.pedidoRepo.BumpVersionTx(tx, pedidoID, req.Version)
		if err != nil {
			return err
		}
		if !ok {
			return errVersaoDesatualizada
		}
		if err := s.pagamentoRepo.ReplaceForPedidoTx(tx, pedidoID, alocador.RemovidasPersistidas(), pagamentos); err != nil {
			return err
		}
		if err := s.pedidoRepo.UpdateSituacaoTx(tx, pedidoID, situacao); err != nil {
			return err
		}
		if caixaID != nil && valorVenda.Sign() != 0 {
			// Transactional increment — the caixa is shared by every pedido
			// settling against it, so the relative UPDATE is what prevents
			// lost updates between concurrent settlements.
			if err := s.caixaRepo.IncrementTotalVendasTx(tx, *caixaID, valorVenda); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return apierror.Conflito("caixa foi fechado durante a quitação")
				}
				return err
			}
		}
		return nil
	})
	if errors.Is(txErr, errVersaoDesatualizada) {
		return nil, apierror.Conflito("o pedido foi alterado por outro terminal; recarregue antes de quitar")
	}
	if txErr != nil {
		if apierror.KindOf(txErr) != apierror.KindUnknown {
			return nil, txErr
		}
		return nil, apierror.Persistencia("falha ao quitar pedido", txErr)
	}

	// 5. Notify subscribers — persistence already committed.
	ev := engine.PedidoQuitadoEvent{
		PedidoID:  pedidoID,
		CaixaID:   caixaID,
		TotalPago: totalPago,
		Troco:     troco,
		Situacao:  situacao,
	}
	s.hub.PublishPedidoQuitado(ev)
	if s.dispatcher != nil {
		payload := map[string]interface{}{
			"pedido_id": pedidoID.String(),
			"situacao":  situacao,
		}
		if caixaID != nil {
			payload["caixa_id"] = caixaID.String()
		}
		_ = s.dispatcher.EnqueueNotificacao(ctx, payload)
	}

	log.Info().
		Str("pedido_id", pedidoID.String()).
		Str("total", total.String()).
		Str("pago", totalPago.String()).
		Str("troco", troco.String()).
		Str("situacao", situacao).
		Msg("pedido quitado")

	return &dto.QuitarPedidoResponse{
		PedidoID:   pedidoID.String(),
		Pagamentos: buildPagamentos(pagamentos),
		Total:      total,
		Pago:       totalPago,
		Restante:   alocador.Restante(),
		Troco:      troco,
		PorPessoa:  alocador.DividirPorPessoa(req.Pessoas),
		Situacao:   situacao,
		Version:    req.Version + 1,
	}, nil
}

// Remover deletes one persisted allocation and re-derives the pedido's
// situação from the payments that remain, inside the same transaction.
func (s *pagamentoService) Remover(ctx context.Context, pagamentoID uuid.UUID) error {
	pag, err := s.pagamentoRepo.FindByID(ctx, pagamentoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apierror.Conflito("pagamento não encontrado")
		}
		return apierror.Persistencia("falha ao carregar pagamento", err)
	}
	pedido, err := s.pedidoRepo.FindByID(ctx, pag.PedidoID)
	if err != nil {
		return apierror.Persistencia("falha ao carregar pedido", err)
	}

	ledger := engine.NewLedger(linhasFromModel(pedido.Itens))
	total := engine.Total(ledger.Subtotal(), ajusteFromModel(pedido, CampoDesconto), ajusteFromModel(pedido, CampoAcrescimo))
	pago := decimal.Zero
	for _, p := range pedido.Pagamentos {
		if p.ID != pagamentoID {
			pago = pago.Add(p.Valor)
		}
	}
	situacao := engine.Situacao(total, pago)

	txErr := runTx(ctx, s.pedidoRepo.DB(), func(tx *gorm.DB) error {
		if err := s.pagamentoRepo.DeleteByIDTx(tx, pagamentoID); err != nil {
			return err
		}
		return s.pedidoRepo.UpdateSituacaoTx(tx, pedido.ID, situacao)
	})
	if txErr != nil {
		if errors.Is(txErr, gorm.ErrRecordNotFound) {
			return apierror.Conflito("pagamento não encontrado")
		}
		return apierror.Persistencia("falha ao remover pagamento", txErr)
	}
	return nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

func alocacoesFromModel(pags []model.Pagamento) []engine.Alocacao {
	out := make([]engine.Alocacao, 0, len(pags))
	for _, p := range pags {
		out = append(out, engine.Alocacao{
			ID:         p.ID,
			MetodoID:   p.MetodoID,
			MetodoNome: p.MetodoNome,
			EmDinheiro: p.EmDinheiro,
			Valor:      p.Valor,
		})
	}
	return out
}

func buildPagamentos(pags []model.Pagamento) []dto.PagamentoResponse {
	out := make([]dto.PagamentoResponse, 0, len(pags))
	for _, p := range pags {
		out = append(out, dto.PagamentoResponse{
			ID:         p.ID.String(),
			MetodoID:   p.MetodoID.String(),
			MetodoNome: p.MetodoNome,
			EmDinheiro: p.EmDinheiro,
			Valor:      p.Valor,
		})
	}
	return out
}
