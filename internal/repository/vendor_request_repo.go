package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/codigix/passion-clothing-sub009/internal/dto"
	"github.com/codigix/passion-clothing-sub009/internal/model"
)

type VendorRequestRepository interface {
	Create(ctx context.Context, tx *gorm.DB, vr *model.VendorRequest) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.VendorRequest, error)
	// UpdateTx applies a guarded status transition together with any extra
	// column updates (sent_by, fulfillment_grn_id, …). Zero rows affected
	// means the expected status no longer matches.
	UpdateTx(tx *gorm.DB, id uuid.UUID, expected []string, updates map[string]interface{}) (int64, error)
	List(ctx context.Context, filter dto.VendorRequestFilter) ([]model.VendorRequest, int64, error)
	DB() *gorm.DB
}

type vendorRequestRepo struct{ db *gorm.DB }

func NewVendorRequestRepository(db *gorm.DB) VendorRequestRepository {
	return &vendorRequestRepo{db: db}
}

func (r *vendorRequestRepo) DB() *gorm.DB { return r.db }

func (r *vendorRequestRepo) Create(ctx context.Context, tx *gorm.DB, vr *model.VendorRequest) error {
	return tx.WithContext(ctx).Create(vr).Error
}

func (r *vendorRequestRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.VendorRequest, error) {
	var vr model.VendorRequest
	err := r.db.WithContext(ctx).Preload("Items").First(&vr, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &vr, nil
}

func (r *vendorRequestRepo) UpdateTx(tx *gorm.DB, id uuid.UUID, expected []string, updates map[string]interface{}) (int64, error) {
	res := tx.Model(&model.VendorRequest{}).
		Where("id = ? AND status IN ?", id, expected).
		Updates(updates)
	return res.RowsAffected, res.Error
}

func (r *vendorRequestRepo) List(ctx context.Context, filter dto.VendorRequestFilter) ([]model.VendorRequest, int64, error) {
	var vrs []model.VendorRequest
	var total int64
	offset := (filter.Page - 1) * filter.Limit

	q := r.db.WithContext(ctx).Model(&model.VendorRequest{})

	if filter.Status != "" && filter.Status != "all" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Type != "" {
		q = q.Where("request_type = ?", filter.Type)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Preload("Items").
		Order("created_at DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&vrs).Error

	return vrs, total, err
}
