package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Vendor request statuses. Linear lifecycle with cancelled reachable from any
// non-terminal state:
// pending → sent → acknowledged → in_transit → fulfilled
const (
	VendorRequestPending      = "pending"
	VendorRequestSent         = "sent"
	VendorRequestAcknowledged = "acknowledged"
	VendorRequestInTransit    = "in_transit"
	VendorRequestFulfilled    = "fulfilled"
	VendorRequestCancelled    = "cancelled"
)

// Vendor request types.
const (
	RequestTypeShortage = "shortage"
	RequestTypeOverage  = "overage"
)

// VendorRequest is the formal shortage/overage communication sent to a
// vendor. fulfillment_grn_id is only ever set together with the transition
// to fulfilled, and never points at the GRN that spawned the request.
type VendorRequest struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	RequestNumber   string     `gorm:"type:varchar(30);uniqueIndex;not null"`
	PurchaseOrderID uuid.UUID  `gorm:"type:uuid;not null;index"`
	GRNID           uuid.UUID  `gorm:"type:uuid;not null;index;column:grn_id"`
	VendorID        uuid.UUID  `gorm:"type:uuid;not null;index"`
	ComplaintID     *uuid.UUID `gorm:"type:uuid;index"`
	RequestType     string     `gorm:"type:varchar(20);not null"`
	TotalValue      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Status          string          `gorm:"type:varchar(20);not null;default:'pending';index"`
	ExpectedFulfillmentDate *time.Time
	SentBy                  *uuid.UUID `gorm:"type:uuid"`
	SentAt                  *time.Time
	CancelReason            string     `gorm:"type:text"`
	FulfillmentGRNID        *uuid.UUID `gorm:"type:uuid;column:fulfillment_grn_id"`
	CreatedAt               time.Time
	UpdatedAt               time.Time

	Items []VendorRequestItem `gorm:"foreignKey:VendorRequestID"`
}

// Terminal reports whether no further transition is allowed.
func (v *VendorRequest) Terminal() bool {
	return v.Status == VendorRequestFulfilled || v.Status == VendorRequestCancelled
}

// VendorRequestItem is one outstanding material position copied from the
// originating case at creation time.
type VendorRequestItem struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	VendorRequestID uuid.UUID `gorm:"type:uuid;not null;index"`
	MaterialName    string    `gorm:"type:varchar(120);not null"`
	Color           string    `gorm:"type:varchar(60)"`
	Spec            string    `gorm:"type:varchar(120)"`
	Quantity        decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	UnitPrice       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	LineValue       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
}
