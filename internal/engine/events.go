package engine

import (
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PedidoQuitadoEvent fires after a settlement persists successfully.
type PedidoQuitadoEvent struct {
	PedidoID  uuid.UUID
	CaixaID   *uuid.UUID
	TotalPago decimal.Decimal
	Troco     decimal.Decimal
	Situacao  string
}

// LedgerSalvoEvent fires after a ledger save persists successfully.
type LedgerSalvoEvent struct {
	PedidoID uuid.UUID
	Itens    int
}

// Hub is the explicit observer registry that replaces ambient refresh
// callbacks: list views and displays subscribe here instead of being poked
// through a global. Subscribers run synchronously on the publishing
// goroutine, after persistence committed.
type Hub struct {
	mu      sync.RWMutex
	quitado []func(PedidoQuitadoEvent)
	salvo   []func(LedgerSalvoEvent)
}

func NewHub() *Hub { return &Hub{} }

// OnPedidoQuitado registers a settlement subscriber.
func (h *Hub) OnPedidoQuitado(fn func(PedidoQuitadoEvent)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.quitado = append(h.quitado, fn)
}

// OnLedgerSalvo registers a ledger-commit subscriber.
func (h *Hub) OnLedgerSalvo(fn func(LedgerSalvoEvent)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.salvo = append(h.salvo, fn)
}

// PublishPedidoQuitado notifies settlement subscribers.
func (h *Hub) PublishPedidoQuitado(ev PedidoQuitadoEvent) {
	h.mu.RLock()
	subs := make([]func(PedidoQuitadoEvent), len(h.quitado))
	copy(subs, h.quitado)
	h.mu.RUnlock()
	for _, fn := range subs {
		fn(ev)
	}
}

// PublishLedgerSalvo notifies ledger-commit subscribers.
func (h *Hub) PublishLedgerSalvo(ev LedgerSalvoEvent) {
	h.mu.RLock()
	subs := make([]func(LedgerSalvoEvent), len(h.salvo))
	copy(subs, h.salvo)
	h.mu.RUnlock()
	for _, fn := range subs {
		fn(ev)
	}
}
