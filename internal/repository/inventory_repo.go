package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/codigix/passion-clothing-sub009/internal/model"
)

type InventoryRepository interface {
	FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.InventoryItem, error)
	// AddQuantityTx increments on-hand stock inside the caller's transaction.
	AddQuantityTx(tx *gorm.DB, id uuid.UUID, qty decimal.Decimal) error
	CreateMovementTx(tx *gorm.DB, mov *model.InventoryMovement) error
	ListMovements(ctx context.Context, referenceID uuid.UUID) ([]model.InventoryMovement, error)
}

type inventoryRepo struct{ db *gorm.DB }

func NewInventoryRepository(db *gorm.DB) InventoryRepository { return &inventoryRepo{db: db} }

func (r *inventoryRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.InventoryItem, error) {
	db := r.db
	if tx != nil {
		db = tx
	}
	var item model.InventoryItem
	err := db.First(&item, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *inventoryRepo) AddQuantityTx(tx *gorm.DB, id uuid.UUID, qty decimal.Decimal) error {
	return tx.Model(&model.InventoryItem{}).
		Where("id = ?", id).
		Update("quantity_on_hand", gorm.Expr("quantity_on_hand + ?", qty)).Error
}

func (r *inventoryRepo) CreateMovementTx(tx *gorm.DB, mov *model.InventoryMovement) error {
	return tx.Create(mov).Error
}

func (r *inventoryRepo) ListMovements(ctx context.Context, referenceID uuid.UUID) ([]model.InventoryMovement, error) {
	var movs []model.InventoryMovement
	err := r.db.WithContext(ctx).
		Where("reference_id = ?", referenceID).
		Order("created_at ASC").
		Find(&movs).Error
	return movs, err
}
