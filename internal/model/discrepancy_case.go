package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Case statuses.
const (
	CaseStatusPending    = "pending"
	CaseStatusInProgress = "in_progress"
	CaseStatusApproved   = "approved"
	CaseStatusRejected   = "rejected"
	CaseStatusSkipped    = "skipped"
	CaseStatusCanceled   = "canceled"
)

// Complaint types — one per discrepancy class that spawns a case.
const (
	ComplaintShortage        = "shortage"
	ComplaintOverage         = "overage"
	ComplaintInvoiceMismatch = "invoice_mismatch"
)

// CaseItem is the affected-line snapshot embedded in a case. Stored as JSONB:
// the case is a review artifact, the receipt items stay the system of record.
type CaseItem struct {
	ReceiptItemID uuid.UUID       `json:"receipt_item_id"`
	MaterialName  string          `json:"material_name"`
	Color         string          `json:"color,omitempty"`
	Spec          string          `json:"spec,omitempty"`
	OrderedQty    decimal.Decimal `json:"ordered_qty"`
	InvoicedQty   decimal.Decimal `json:"invoiced_qty"`
	ReceivedQty   decimal.Decimal `json:"received_qty"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	VarianceQty   decimal.Decimal `json:"variance_qty"`
	VarianceValue decimal.Decimal `json:"variance_value"`
}

// CaseItems implements JSONB (de)serialization for gorm.
type CaseItems []CaseItem

func (items CaseItems) Value() (driver.Value, error) {
	return json.Marshal(items)
}

func (items *CaseItems) Scan(value interface{}) error {
	if value == nil {
		*items = nil
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		s, ok := value.(string)
		if !ok {
			return errors.New("case items: unsupported scan type")
		}
		b = []byte(s)
	}
	return json.Unmarshal(b, items)
}

// DiscrepancyCase groups every receipt line sharing one discrepancy class on
// one GRN — one row per (grn, complaint_type), never one per line. It lives
// in the generic approvals table keyed by entity_type so other entities can
// share the review surface.
type DiscrepancyCase struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EntityType    string    `gorm:"type:varchar(20);not null;default:'grn';index:idx_approvals_entity"`
	EntityID      uuid.UUID `gorm:"type:uuid;not null;index:idx_approvals_entity"`
	ComplaintType string    `gorm:"type:varchar(20);not null"`
	ItemsAffected CaseItems `gorm:"type:jsonb;not null"`
	TotalValue    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Status        string          `gorm:"type:varchar(20);not null;default:'pending';index"`
	// ActionRequired carries reviewer guidance; populated for invoice_mismatch.
	ActionRequired string `gorm:"type:text"`
	ResolvedAt     *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (DiscrepancyCase) TableName() string { return "approvals" }

// Open reports whether the case still awaits a resolution path.
func (c *DiscrepancyCase) Open() bool {
	return c.Status == CaseStatusPending || c.Status == CaseStatusInProgress
}
