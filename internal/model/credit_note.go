package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Credit note statuses:
// draft → issued → {accepted, rejected}; accepted → settled;
// issued → cancelled (before accept).
const (
	CreditNoteDraft     = "draft"
	CreditNoteIssued    = "issued"
	CreditNoteAccepted  = "accepted"
	CreditNoteRejected  = "rejected"
	CreditNoteSettled   = "settled"
	CreditNoteCancelled = "cancelled"
)

// Credit note types.
const (
	CreditNoteFullReturn    = "full_return"
	CreditNotePartialCredit = "partial_credit"
	CreditNoteAdjustment    = "adjustment"
)

// Settlement methods.
const (
	SettleCashCredit      = "cash_credit"
	SettleReturnMaterial  = "return_material"
	SettleAdjustInvoice   = "adjust_invoice"
	SettleFutureDeduction = "future_deduction"
)

// Settlement statuses — advanced independently of the note status, but only
// once the note is accepted or settled. completed requires status = settled.
const (
	SettlementPending    = "pending"
	SettlementInProgress = "in_progress"
	SettlementCompleted  = "completed"
	SettlementFailed     = "failed"
)

// CreditNote is the financial instrument settling a discrepancy without
// further physical shipment. Invariant enforced at creation and on every
// item edit: total = subtotal + tax.
type CreditNote struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreditNoteNumber string     `gorm:"type:varchar(30);uniqueIndex;not null"`
	GRNID            uuid.UUID  `gorm:"type:uuid;not null;index;column:grn_id"`
	PurchaseOrderID  uuid.UUID  `gorm:"type:uuid;not null;index"`
	VendorID         uuid.UUID  `gorm:"type:uuid;not null;index"`
	ComplaintID      *uuid.UUID `gorm:"type:uuid;index"`
	CreditNoteType   string     `gorm:"type:varchar(20);not null"`
	SubtotalCreditAmount decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TaxPercentage        decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	TaxAmount            decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	TotalCreditAmount    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Status               string          `gorm:"type:varchar(20);not null;default:'draft';index"`
	SettlementMethod     string          `gorm:"type:varchar(20);not null"`
	SettlementStatus     string          `gorm:"type:varchar(20);not null;default:'pending'"`
	// DocumentPath is relative to DOCUMENT_STORAGE_PATH; set by the document worker.
	DocumentPath *string `gorm:"type:varchar(255)"`
	Notes        string  `gorm:"type:text"`
	IssuedAt     *time.Time
	AcceptedAt   *time.Time
	SettledAt    *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Items []CreditNoteItem `gorm:"foreignKey:CreditNoteID"`
}

// CreditNoteItem values one credited material position.
type CreditNoteItem struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreditNoteID uuid.UUID `gorm:"type:uuid;not null;index"`
	MaterialName string    `gorm:"type:varchar(120);not null"`
	Color        string    `gorm:"type:varchar(60)"`
	Quantity     decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	UnitPrice    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	LineValue    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
}
