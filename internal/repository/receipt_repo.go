package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/codigix/passion-clothing-sub009/internal/dto"
	"github.com/codigix/passion-clothing-sub009/internal/model"
)

type ReceiptRepository interface {
	Create(ctx context.Context, tx *gorm.DB, grn *model.GoodsReceiptNote) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.GoodsReceiptNote, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.GoodsReceiptNote, error)
	ExistsByNumber(ctx context.Context, grnNumber string) (bool, error)
	// UpdateStatusTx performs a guarded transition: the row is only updated
	// when its current verification_status matches expected. Returns the
	// number of rows changed; zero means the caller raced a concurrent update.
	UpdateStatusTx(tx *gorm.DB, id uuid.UUID, expected, next string, reviewedBy uuid.UUID) (int64, error)
	List(ctx context.Context, filter dto.ReceiptFilter) ([]model.GoodsReceiptNote, int64, error)
	DB() *gorm.DB // exposes the DB for transaction creation in service layer
}

type receiptRepo struct{ db *gorm.DB }

func NewReceiptRepository(db *gorm.DB) ReceiptRepository { return &receiptRepo{db: db} }

func (r *receiptRepo) DB() *gorm.DB { return r.db }

func (r *receiptRepo) Create(ctx context.Context, tx *gorm.DB, grn *model.GoodsReceiptNote) error {
	return tx.WithContext(ctx).Create(grn).Error
}

func (r *receiptRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.GoodsReceiptNote, error) {
	var grn model.GoodsReceiptNote
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("PurchaseOrder").
		Preload("PurchaseOrder.Vendor").
		First(&grn, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &grn, nil
}

func (r *receiptRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.GoodsReceiptNote, error) {
	var grns []model.GoodsReceiptNote
	err := r.db.WithContext(ctx).
		Preload("PurchaseOrder").
		Preload("PurchaseOrder.Vendor").
		Where("id IN ?", ids).
		Find(&grns).Error
	return grns, err
}

func (r *receiptRepo) ExistsByNumber(ctx context.Context, grnNumber string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.GoodsReceiptNote{}).
		Where("grn_number = ?", grnNumber).Count(&count).Error
	return count > 0, err
}

func (r *receiptRepo) UpdateStatusTx(tx *gorm.DB, id uuid.UUID, expected, next string, reviewedBy uuid.UUID) (int64, error) {
	res := tx.Model(&model.GoodsReceiptNote{}).
		Where("id = ? AND verification_status = ?", id, expected).
		Updates(map[string]interface{}{
			"verification_status": next,
			"reviewed_by":         reviewedBy,
			"reviewed_at":         gorm.Expr("NOW()"),
		})
	return res.RowsAffected, res.Error
}

func (r *receiptRepo) List(ctx context.Context, filter dto.ReceiptFilter) ([]model.GoodsReceiptNote, int64, error) {
	var grns []model.GoodsReceiptNote
	var total int64
	offset := (filter.Page - 1) * filter.Limit

	q := r.db.WithContext(ctx).Model(&model.GoodsReceiptNote{})

	if filter.Status != "" && filter.Status != "all" {
		q = q.Where("verification_status = ?", filter.Status)
	}
	if filter.From != "" {
		q = q.Where("received_date >= ?", filter.From)
	}
	if filter.To != "" {
		q = q.Where("received_date <= ?", filter.To)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Preload("Items").
		Preload("PurchaseOrder").
		Preload("PurchaseOrder.Vendor").
		Order("created_at DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&grns).Error

	return grns, total, err
}
