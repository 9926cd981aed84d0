package repository

import (
	"context"

	"filazero/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PagamentoRepository interface {
	ListByPedido(ctx context.Context, pedidoID uuid.UUID) ([]model.Pagamento, error)
	// ReplaceForPedidoTx implements settlement's replace semantics: delete the
	// explicitly removed ids, drop the rest of the previous set, insert the
	// new one — all inside the caller's transaction.
	ReplaceForPedidoTx(tx *gorm.DB, pedidoID uuid.UUID, removidas []uuid.UUID, pagamentos []model.Pagamento) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Pagamento, error)
	// DeleteByIDTx removes one allocation inside the caller's transaction so the
	// pedido's situação can be updated atomically with the delete.
	DeleteByIDTx(tx *gorm.DB, id uuid.UUID) error
}

type pagamentoRepo struct{ db *gorm.DB }

func NewPagamentoRepository(db *gorm.DB) PagamentoRepository { return &pagamentoRepo{db: db} }

func (r *pagamentoRepo) ListByPedido(ctx context.Context, pedidoID uuid.UUID) ([]model.Pagamento, error) {
	var pags []model.Pagamento
	err := r.db.WithContext(ctx).Where("pedido_id = ?", pedidoID).Order("created_at ASC").Find(&pags).Error
	return pags, err
}

func (r *pagamentoRepo) ReplaceForPedidoTx(tx *gorm.DB, pedidoID uuid.UUID, removidas []uuid.UUID, pagamentos []model.Pagamento) error {
	if len(removidas) > 0 {
		if err := tx.Where("pedido_id = ? AND id IN ?", pedidoID, removidas).Delete(&model.Pagamento{}).Error; err != nil {
			return err
		}
	}
	if err := tx.Where("pedido_id = ?", pedidoID).Delete(&model.Pagamento{}).Error; err != nil {
		return err
	}
	if len(pagamentos) == 0 {
		return nil
	}
	for i := range pagamentos {
		pagamentos[i].PedidoID = pedidoID
	}
	return tx.Create(&pagamentos).Error
}

func (r *pagamentoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Pagamento, error) {
	var pag model.Pagamento
	if err := r.db.WithContext(ctx).First(&pag, id).Error; err != nil {
		return nil, err
	}
	return &pag, nil
}

func (r *pagamentoRepo) DeleteByIDTx(tx *gorm.DB, id uuid.UUID) error {
	db := r.db
	if tx != nil {
		db = tx
	}
	res := db.Delete(&model.Pagamento{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
