package service

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/codigix/passion-clothing-sub009/internal/model"
	"github.com/codigix/passion-clothing-sub009/internal/repository"
)

// InventoryService applies received quantities to stock. Received quantity is
// applied for every line at submission time — discrepant lines included; the
// discrepancy case tracks the variance, never a hold on stock movement.
type InventoryService interface {
	// ApplyReceivedTx is called within the receipt transaction — requires a
	// live *gorm.DB tx in production (nil in unit tests).
	ApplyReceivedTx(tx *gorm.DB, inventoryItemID uuid.UUID, qty decimal.Decimal, grnNumber string, referenceID uuid.UUID) error
}

type inventoryService struct {
	repo repository.InventoryRepository
}

func NewInventoryService(repo repository.InventoryRepository) InventoryService {
	return &inventoryService{repo: repo}
}

func (s *inventoryService) ApplyReceivedTx(tx *gorm.DB, inventoryItemID uuid.UUID, qty decimal.Decimal, grnNumber string, referenceID uuid.UUID) error {
	if qty.IsZero() {
		return nil
	}

	before, err := s.repo.FindByIDTx(tx, inventoryItemID)
	if err != nil {
		return fmt.Errorf("inventory item %s: %w", inventoryItemID, err)
	}

	if err := s.repo.AddQuantityTx(tx, inventoryItemID, qty); err != nil {
		return err
	}

	ref := referenceID
	mov := &model.InventoryMovement{
		InventoryItemID: inventoryItemID,
		Type:            "goods_receipt",
		Quantity:        qty,
		QtyBefore:       before.QuantityOnHand,
		QtyAfter:        before.QuantityOnHand.Add(qty),
		Reason:          fmt.Sprintf("Goods receipt %s", grnNumber),
		ReferenceID:     &ref,
	}
	return s.repo.CreateMovementTx(tx, mov)
}
