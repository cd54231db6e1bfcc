package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// CreateVendorRequestRequest opens a formal shortage/overage follow-up from
// an open discrepancy case. Items and total value are copied from the case.
type CreateVendorRequestRequest struct {
	ComplaintID             string  `json:"complaint_id" validate:"required,uuid"`
	ExpectedFulfillmentDate *string `json:"expected_fulfillment_date" validate:"omitempty,datetime=2006-01-02"`
}

// FulfillVendorRequestRequest closes the loop: the referenced GRN must be a
// new receipt covering the outstanding quantity, never the receipt that
// spawned the request.
type FulfillVendorRequestRequest struct {
	FulfillmentGRNID string `json:"fulfillment_grn_id" validate:"required,uuid"`
}

type CancelVendorRequestRequest struct {
	Reason string `json:"reason" validate:"required"`
}

// ─── Filter / List ──────────────────────────────────────────────────────────

type VendorRequestFilter struct {
	Status string `form:"status"` // pending | sent | acknowledged | in_transit | fulfilled | cancelled | all
	Type   string `form:"type"`   // shortage | overage
	Page   int    `form:"page,default=1"   validate:"min=1"`
	Limit  int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type VendorRequestItemResponse struct {
	MaterialName string          `json:"material_name"`
	Color        string          `json:"color,omitempty"`
	Spec         string          `json:"spec,omitempty"`
	Quantity     decimal.Decimal `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	LineValue    decimal.Decimal `json:"line_value"`
}

type VendorRequestResponse struct {
	ID                      string                      `json:"id"`
	RequestNumber           string                      `json:"request_number"`
	PurchaseOrderID         string                      `json:"purchase_order_id"`
	GRNID                   string                      `json:"grn_id"`
	VendorID                string                      `json:"vendor_id"`
	VendorName              string                      `json:"vendor_name,omitempty"`
	ComplaintID             *string                     `json:"complaint_id,omitempty"`
	RequestType             string                      `json:"request_type"`
	Items                   []VendorRequestItemResponse `json:"items"`
	TotalValue              decimal.Decimal             `json:"total_value"`
	Status                  string                      `json:"status"`
	ExpectedFulfillmentDate *string                     `json:"expected_fulfillment_date,omitempty"`
	SentAt                  *string                     `json:"sent_at,omitempty"`
	CancelReason            string                      `json:"cancel_reason,omitempty"`
	FulfillmentGRNID        *string                     `json:"fulfillment_grn_id,omitempty"`
	CreatedAt               string                      `json:"created_at"`
}

type VendorRequestListResponse struct {
	Data  []VendorRequestResponse `json:"data"`
	Total int64                   `json:"total"`
	Page  int                     `json:"page"`
	Limit int                     `json:"limit"`
}
