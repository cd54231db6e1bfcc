package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/codigix/passion-clothing-sub009/internal/dto"
	"github.com/codigix/passion-clothing-sub009/internal/model"
)

type CaseRepository interface {
	CreateTx(ctx context.Context, tx *gorm.DB, c *model.DiscrepancyCase) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.DiscrepancyCase, error)
	// FindOpenByEntityAndType backs the one-case-per-(grn, class) idempotency
	// rule. Runs inside the submission transaction when tx is non-nil.
	FindOpenByEntityAndType(ctx context.Context, tx *gorm.DB, entityID uuid.UUID, complaintType string) (*model.DiscrepancyCase, error)
	FindByEntity(ctx context.Context, entityID uuid.UUID) ([]model.DiscrepancyCase, error)
	// UpdateStatusTx is guarded on the current status; zero rows affected
	// signals a stale-state conflict to the caller.
	UpdateStatusTx(tx *gorm.DB, id uuid.UUID, expected []string, next string, resolved bool) (int64, error)
	List(ctx context.Context, filter dto.CaseFilter) ([]model.DiscrepancyCase, int64, error)
	DB() *gorm.DB
}

type caseRepo struct{ db *gorm.DB }

func NewCaseRepository(db *gorm.DB) CaseRepository { return &caseRepo{db: db} }

func (r *caseRepo) DB() *gorm.DB { return r.db }

func (r *caseRepo) CreateTx(ctx context.Context, tx *gorm.DB, c *model.DiscrepancyCase) error {
	return tx.WithContext(ctx).Create(c).Error
}

func (r *caseRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.DiscrepancyCase, error) {
	var c model.DiscrepancyCase
	err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *caseRepo) FindOpenByEntityAndType(ctx context.Context, tx *gorm.DB, entityID uuid.UUID, complaintType string) (*model.DiscrepancyCase, error) {
	db := r.db
	if tx != nil {
		db = tx
	}
	var c model.DiscrepancyCase
	err := db.WithContext(ctx).
		Where("entity_type = ? AND entity_id = ? AND complaint_type = ? AND status IN ?",
			"grn", entityID, complaintType,
			[]string{model.CaseStatusPending, model.CaseStatusInProgress}).
		First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *caseRepo) FindByEntity(ctx context.Context, entityID uuid.UUID) ([]model.DiscrepancyCase, error) {
	var cases []model.DiscrepancyCase
	err := r.db.WithContext(ctx).
		Where("entity_type = ? AND entity_id = ?", "grn", entityID).
		Order("created_at ASC").
		Find(&cases).Error
	return cases, err
}

func (r *caseRepo) UpdateStatusTx(tx *gorm.DB, id uuid.UUID, expected []string, next string, resolved bool) (int64, error) {
	updates := map[string]interface{}{"status": next}
	if resolved {
		updates["resolved_at"] = time.Now().UTC()
	}
	res := tx.Model(&model.DiscrepancyCase{}).
		Where("id = ? AND status IN ?", id, expected).
		Updates(updates)
	return res.RowsAffected, res.Error
}

func (r *caseRepo) List(ctx context.Context, filter dto.CaseFilter) ([]model.DiscrepancyCase, int64, error) {
	var cases []model.DiscrepancyCase
	var total int64
	offset := (filter.Page - 1) * filter.Limit

	q := r.db.WithContext(ctx).Model(&model.DiscrepancyCase{}).Where("entity_type = ?", "grn")

	if filter.Status != "" && filter.Status != "all" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Type != "" {
		q = q.Where("complaint_type = ?", filter.Type)
	}
	if filter.From != "" {
		q = q.Where("created_at >= ?", filter.From)
	}
	if filter.To != "" {
		q = q.Where("created_at < ?", filter.To+" 23:59:59")
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// Newest first — reviewers work the queue top-down.
	err := q.Order("created_at DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&cases).Error

	return cases, total, err
}
