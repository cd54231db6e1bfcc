package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InventoryItem holds the on-hand quantity for one material position.
// Receipt processing only ever adds to it — received quantity is applied at
// submission even on discrepant lines; the case tracks the variance, not a
// hold on stock movement.
type InventoryItem struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	MaterialName   string    `gorm:"type:varchar(120);not null;index"`
	Color          string    `gorm:"type:varchar(60)"`
	Spec           string    `gorm:"type:varchar(120)"`
	Unit           string    `gorm:"type:varchar(20);not null;default:'m'"`
	QuantityOnHand decimal.Decimal `gorm:"type:decimal(12,3);not null;default:0"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// InventoryMovement records each inventory change with before/after
// quantities, referencing the GRN that caused it.
type InventoryMovement struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	InventoryItemID uuid.UUID `gorm:"type:uuid;not null;index"`
	Type            string    `gorm:"type:varchar(30);not null"` // "goods_receipt"
	Quantity        decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	QtyBefore       decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	QtyAfter        decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	Reason          string          `gorm:"type:text"`
	ReferenceID     *uuid.UUID      `gorm:"type:uuid"`
	CreatedAt       time.Time
}
