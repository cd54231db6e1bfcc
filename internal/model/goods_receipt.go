package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// GRN verification statuses.
// verified holds if and only if every line classified perfect_match;
// approved / rejected are set later by a human reviewer.
const (
	GRNStatusPending     = "pending"
	GRNStatusVerified    = "verified"
	GRNStatusDiscrepancy = "discrepancy"
	GRNStatusApproved    = "approved"
	GRNStatusRejected    = "rejected"
)

// GoodsReceiptNote records one delivery event against a purchase order.
// Created once, append-only on items; status fields are updated in place.
// Never deleted — a later fulfillment GRN supersedes it logically.
type GoodsReceiptNote struct {
	ID                    uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	GRNNumber             string    `gorm:"type:varchar(30);uniqueIndex;not null"`
	PurchaseOrderID       uuid.UUID `gorm:"type:uuid;not null;index"`
	ReceivedDate          time.Time `gorm:"not null"`
	SupplierInvoiceNumber string    `gorm:"type:varchar(60)"`
	InwardChallanNumber   string    `gorm:"type:varchar(60)"`
	VerificationStatus    string    `gorm:"type:varchar(20);not null;default:'pending';index"`
	InventoryAdded        bool      `gorm:"not null;default:false"`
	// DiscrepancyDetails is the serialized per-class summary shown to callers.
	DiscrepancyDetails string     `gorm:"type:text"`
	ReviewedBy         *uuid.UUID `gorm:"type:uuid"`
	ReviewedAt         *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time

	PurchaseOrder *PurchaseOrder     `gorm:"foreignKey:PurchaseOrderID"`
	Items         []GoodsReceiptItem `gorm:"foreignKey:GoodsReceiptNoteID"`
}

func (GoodsReceiptNote) TableName() string { return "goods_receipt_notes" }

// GoodsReceiptItem is one line of a receipt: the three quantities compared by
// the classifier plus the class the comparison produced. The class is fixed
// at submission time and never re-evaluated.
type GoodsReceiptItem struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	GoodsReceiptNoteID uuid.UUID `gorm:"type:uuid;not null;index"`
	PurchaseOrderLineID uuid.UUID `gorm:"type:uuid;not null"`
	MaterialName       string    `gorm:"type:varchar(120);not null"`
	Color              string    `gorm:"type:varchar(60)"`
	Spec               string    `gorm:"type:varchar(120)"`
	OrderedQty         decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	InvoicedQty        decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	ReceivedQty        decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	UnitPrice          decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	DiscrepancyClass   string          `gorm:"type:varchar(20);not null"`
	Remarks            string          `gorm:"type:text"`
	CreatedAt          time.Time
}

func (GoodsReceiptItem) TableName() string { return "goods_receipt_items" }
