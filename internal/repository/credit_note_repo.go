package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/codigix/passion-clothing-sub009/internal/dto"
	"github.com/codigix/passion-clothing-sub009/internal/model"
)

type CreditNoteRepository interface {
	Create(ctx context.Context, tx *gorm.DB, cn *model.CreditNote) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.CreditNote, error)
	// UpdateTx applies a guarded status transition; zero rows affected means
	// the expected status no longer matches (stale-state conflict).
	UpdateTx(tx *gorm.DB, id uuid.UUID, expectedStatus []string, updates map[string]interface{}) (int64, error)
	// UpdateSettlementTx is guarded on the settlement sub-state instead.
	UpdateSettlementTx(tx *gorm.DB, id uuid.UUID, expectedSettlement []string, updates map[string]interface{}) (int64, error)
	UpdateDocumentPath(ctx context.Context, id uuid.UUID, path string) error
	List(ctx context.Context, filter dto.CreditNoteFilter) ([]model.CreditNote, int64, error)
	DB() *gorm.DB
}

type creditNoteRepo struct{ db *gorm.DB }

func NewCreditNoteRepository(db *gorm.DB) CreditNoteRepository {
	return &creditNoteRepo{db: db}
}

func (r *creditNoteRepo) DB() *gorm.DB { return r.db }

func (r *creditNoteRepo) Create(ctx context.Context, tx *gorm.DB, cn *model.CreditNote) error {
	return tx.WithContext(ctx).Create(cn).Error
}

func (r *creditNoteRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.CreditNote, error) {
	var cn model.CreditNote
	err := r.db.WithContext(ctx).Preload("Items").First(&cn, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &cn, nil
}

func (r *creditNoteRepo) UpdateTx(tx *gorm.DB, id uuid.UUID, expectedStatus []string, updates map[string]interface{}) (int64, error) {
	res := tx.Model(&model.CreditNote{}).
		Where("id = ? AND status IN ?", id, expectedStatus).
		Updates(updates)
	return res.RowsAffected, res.Error
}

func (r *creditNoteRepo) UpdateSettlementTx(tx *gorm.DB, id uuid.UUID, expectedSettlement []string, updates map[string]interface{}) (int64, error) {
	res := tx.Model(&model.CreditNote{}).
		Where("id = ? AND settlement_status IN ?", id, expectedSettlement).
		Updates(updates)
	return res.RowsAffected, res.Error
}

func (r *creditNoteRepo) UpdateDocumentPath(ctx context.Context, id uuid.UUID, path string) error {
	return r.db.WithContext(ctx).Model(&model.CreditNote{}).
		Where("id = ?", id).
		Update("document_path", path).Error
}

func (r *creditNoteRepo) List(ctx context.Context, filter dto.CreditNoteFilter) ([]model.CreditNote, int64, error) {
	var cns []model.CreditNote
	var total int64
	offset := (filter.Page - 1) * filter.Limit

	q := r.db.WithContext(ctx).Model(&model.CreditNote{})

	if filter.Status != "" && filter.Status != "all" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Type != "" {
		q = q.Where("credit_note_type = ?", filter.Type)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Preload("Items").
		Order("created_at DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&cns).Error

	return cns, total, err
}
