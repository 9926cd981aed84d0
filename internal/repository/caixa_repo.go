package repository

import (
	"context"

	"filazero/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CaixaRepository interface {
	Create(ctx context.Context, c *model.Caixa) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Caixa, error)
	FindAbertoPorEstabelecimento(ctx context.Context, estabelecimentoID uuid.UUID) (*model.Caixa, error)
	ListAbertos(ctx context.Context, estabelecimentoID uuid.UUID) ([]model.Caixa, error)
	// Fechar transitions to fechado only when the row is still aberto,
	// reporting whether the transition happened (double-close guard).
	Fechar(ctx context.Context, c *model.Caixa) (bool, error)
	CreateMovimentacaoTx(tx *gorm.DB, m *model.MovimentacaoCaixa) error
	ListMovimentacoes(ctx context.Context, caixaID uuid.UUID) ([]model.MovimentacaoCaixa, error)
	// AddMovimentacaoTotalTx bumps the running entrada/saída counter with a
	// relative UPDATE so concurrent movements never lose increments.
	AddMovimentacaoTotalTx(tx *gorm.DB, caixaID uuid.UUID, coluna string, valor decimal.Decimal) error
	// IncrementTotalVendasTx adds a settled sale to the KPI counter inside
	// the settlement transaction (transactional increment — the caixa is the
	// one piece of state shared by every settling pedido).
	IncrementTotalVendasTx(tx *gorm.DB, caixaID uuid.UUID, valor decimal.Decimal) error
	DB() *gorm.DB
}

type caixaRepo struct{ db *gorm.DB }

func NewCaixaRepository(db *gorm.DB) CaixaRepository { return &caixaRepo{db: db} }

func (r *caixaRepo) DB() *gorm.DB { return r.db }

func (r *caixaRepo) Create(ctx context.Context, c *model.Caixa) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *caixaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Caixa, error) {
	var c model.Caixa
	err := r.db.WithContext(ctx).Preload("Movimentacoes").First(&c, id).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *caixaRepo) FindAbertoPorEstabelecimento(ctx context.Context, estabelecimentoID uuid.UUID) (*model.Caixa, error) {
	var c model.Caixa
	err := r.db.WithContext(ctx).
		Where("estabelecimento_id = ? AND status = ?", estabelecimentoID, model.CaixaAberto).
		First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *caixaRepo) ListAbertos(ctx context.Context, estabelecimentoID uuid.UUID) ([]model.Caixa, error) {
	var caixas []model.Caixa
	err := r.db.WithContext(ctx).
		Where("estabelecimento_id = ? AND status = ?", estabelecimentoID, model.CaixaAberto).
		Order("aberto_em ASC").
		Find(&caixas).Error
	return caixas, err
}

func (r *caixaRepo) Fechar(ctx context.Context, c *model.Caixa) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.Caixa{}).
		Where("id = ? AND status = ?", c.ID, model.CaixaAberto).
		Updates(map[string]interface{}{
			"status":           model.CaixaFechado,
			"valor_fechamento": c.ValorFechamento,
			"diferenca":        c.Diferenca,
			"fechado_por":      c.FechadoPor,
			"fechado_em":       c.FechadoEm,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *caixaRepo) CreateMovimentacaoTx(tx *gorm.DB, m *model.MovimentacaoCaixa) error {
	db := r.db
	if tx != nil {
		db = tx
	}
	return db.Create(m).Error
}

func (r *caixaRepo) ListMovimentacoes(ctx context.Context, caixaID uuid.UUID) ([]model.MovimentacaoCaixa, error) {
	var movs []model.MovimentacaoCaixa
	err := r.db.WithContext(ctx).Where("caixa_id = ?", caixaID).Order("created_at ASC").Find(&movs).Error
	return movs, err
}

func (r *caixaRepo) AddMovimentacaoTotalTx(tx *gorm.DB, caixaID uuid.UUID, coluna string, valor decimal.Decimal) error {
	db := r.db
	if tx != nil {
		db = tx
	}
	return db.Model(&model.Caixa{}).
		Where("id = ?", caixaID).
		Update(coluna, gorm.Expr(coluna+" + ?", valor)).Error
}

func (r *caixaRepo) IncrementTotalVendasTx(tx *gorm.DB, caixaID uuid.UUID, valor decimal.Decimal) error {
	db := r.db
	if tx != nil {
		db = tx
	}
	res := db.Model(&model.Caixa{}).
		Where("id = ? AND status = ?", caixaID, model.CaixaAberto).
		Update("total_vendas", gorm.Expr("total_vendas + ?", valor))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
