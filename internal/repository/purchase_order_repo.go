package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/codigix/passion-clothing-sub009/internal/model"
)

// PurchaseOrderRepository is read-only: purchase orders are owned by the
// procurement subsystem and immutable once a receipt references them.
type PurchaseOrderRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.PurchaseOrder, error)
	FindLineByID(ctx context.Context, id uuid.UUID) (*model.PurchaseOrderLine, error)
}

type purchaseOrderRepo struct{ db *gorm.DB }

func NewPurchaseOrderRepository(db *gorm.DB) PurchaseOrderRepository {
	return &purchaseOrderRepo{db: db}
}

func (r *purchaseOrderRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.PurchaseOrder, error) {
	var po model.PurchaseOrder
	err := r.db.WithContext(ctx).Preload("Lines").Preload("Vendor").First(&po, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &po, nil
}

func (r *purchaseOrderRepo) FindLineByID(ctx context.Context, id uuid.UUID) (*model.PurchaseOrderLine, error) {
	var line model.PurchaseOrderLine
	err := r.db.WithContext(ctx).First(&line, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &line, nil
}
