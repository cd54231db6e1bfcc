package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/codigix/passion-clothing-sub009/internal/dto"
	"github.com/codigix/passion-clothing-sub009/internal/model"
)

// AuditRepository is append-only: there is deliberately no update or delete
// method on this interface.
type AuditRepository interface {
	CreateTx(ctx context.Context, tx *gorm.DB, entry *model.AuditTrailEntry) error
	ListByEntity(ctx context.Context, filter dto.AuditFilter, entityID uuid.UUID) ([]model.AuditTrailEntry, int64, error)
}

type auditRepo struct{ db *gorm.DB }

func NewAuditRepository(db *gorm.DB) AuditRepository { return &auditRepo{db: db} }

func (r *auditRepo) CreateTx(ctx context.Context, tx *gorm.DB, entry *model.AuditTrailEntry) error {
	return tx.WithContext(ctx).Create(entry).Error
}

func (r *auditRepo) ListByEntity(ctx context.Context, filter dto.AuditFilter, entityID uuid.UUID) ([]model.AuditTrailEntry, int64, error) {
	var entries []model.AuditTrailEntry
	var total int64
	offset := (filter.Page - 1) * filter.Limit

	q := r.db.WithContext(ctx).Model(&model.AuditTrailEntry{}).
		Where("entity_type = ? AND entity_id = ?", filter.EntityType, entityID)

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Order("created_at ASC").
		Offset(offset).Limit(filter.Limit).
		Find(&entries).Error

	return entries, total, err
}
