package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PurchaseOrder is owned by the procurement subsystem. This engine only reads
// it: no create/update path exists here, and a line is immutable once a goods
// receipt references it.
type PurchaseOrder struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PONumber  string    `gorm:"type:varchar(30);uniqueIndex;not null"`
	VendorID  uuid.UUID `gorm:"type:uuid;not null;index"`
	Status    string    `gorm:"type:varchar(20);not null;default:'approved'"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Vendor *Vendor             `gorm:"foreignKey:VendorID"`
	Lines  []PurchaseOrderLine `gorm:"foreignKey:PurchaseOrderID"`
}

// PurchaseOrderLine identifies one ordered material (fabric name, color,
// spec) with its agreed quantity and unit price.
type PurchaseOrderLine struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PurchaseOrderID uuid.UUID `gorm:"type:uuid;not null;index"`
	MaterialName    string    `gorm:"type:varchar(120);not null"`
	Color           string    `gorm:"type:varchar(60)"`
	Spec            string    `gorm:"type:varchar(120)"`
	Unit            string    `gorm:"type:varchar(20);not null;default:'m'"`
	OrderedQty      decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	UnitPrice       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	// InventoryItemID is where received quantity lands (inventory collaborator).
	InventoryItemID uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt       time.Time
}
