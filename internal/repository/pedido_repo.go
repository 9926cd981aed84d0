package repository

import (
	"context"

	"filazero/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PedidoRepository interface {
	Create(ctx context.Context, p *model.Pedido) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Pedido, error)
	// ReplaceItensTx swaps the full item set inside tx. The version bump is
	// done separately via BumpVersionTx so every write path shares the same
	// optimistic check.
	ReplaceItensTx(tx *gorm.DB, pedidoID uuid.UUID, itens []model.ItemPedido) error
	// BumpVersionTx performs the optimistic concurrency check: it only
	// succeeds when the row still carries expectedVersion, and reports
	// whether it did.
	BumpVersionTx(tx *gorm.DB, pedidoID uuid.UUID, expectedVersion int) (bool, error)
	UpdateAjuste(ctx context.Context, pedidoID uuid.UUID, campo string, valor interface{}, tipo interface{}) error
	UpdateSituacaoTx(tx *gorm.DB, pedidoID uuid.UUID, situacao string) error
	Delete(ctx context.Context, pedidoID uuid.UUID) error
	DB() *gorm.DB // exposes the DB for transaction creation in service layer
}

type pedidoRepo struct{ db *gorm.DB }

func NewPedidoRepository(db *gorm.DB) PedidoRepository { return &pedidoRepo{db: db} }

func (r *pedidoRepo) DB() *gorm.DB { return r.db }

func (r *pedidoRepo) Create(ctx context.Context, p *model.Pedido) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *pedidoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Pedido, error) {
	var p model.Pedido
	err := r.db.WithContext(ctx).Preload("Itens").Preload("Pagamentos").First(&p, id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *pedidoRepo) ReplaceItensTx(tx *gorm.DB, pedidoID uuid.UUID, itens []model.ItemPedido) error {
	if err := tx.Where("pedido_id = ?", pedidoID).Delete(&model.ItemPedido{}).Error; err != nil {
		return err
	}
	if len(itens) == 0 {
		return nil
	}
	for i := range itens {
		itens[i].PedidoID = pedidoID
	}
	return tx.Create(&itens).Error
}

func (r *pedidoRepo) BumpVersionTx(tx *gorm.DB, pedidoID uuid.UUID, expectedVersion int) (bool, error) {
	res := tx.Model(&model.Pedido{}).
		Where("id = ? AND version = ?", pedidoID, expectedVersion).
		Update("version", gorm.Expr("version + 1"))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// UpdateAjuste writes one adjustment pair (valor+tipo columns); passing nil
// for both clears it. campo is "desconto" or "acrescimo".
func (r *pedidoRepo) UpdateAjuste(ctx context.Context, pedidoID uuid.UUID, campo string, valor interface{}, tipo interface{}) error {
	return r.db.WithContext(ctx).Model(&model.Pedido{}).
		Where("id = ?", pedidoID).
		Updates(map[string]interface{}{
			campo + "_valor": valor,
			campo + "_tipo":  tipo,
		}).Error
}

func (r *pedidoRepo) UpdateSituacaoTx(tx *gorm.DB, pedidoID uuid.UUID, situacao string) error {
	return tx.Model(&model.Pedido{}).Where("id = ?", pedidoID).Update("situacao", situacao).Error
}

// Delete removes a cancelled pedido together with its itens and pagamentos.
func (r *pedidoRepo) Delete(ctx context.Context, pedidoID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("pedido_id = ?", pedidoID).Delete(&model.ItemPedido{}).Error; err != nil {
			return err
		}
		if err := tx.Where("pedido_id = ?", pedidoID).Delete(&model.Pagamento{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Pedido{}, pedidoID).Error
	})
}
