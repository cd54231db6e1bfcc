package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// ReceiptItemRequest is one line of a goods-receipt submission. OrderedQty is
// informational for the caller's payload symmetry; the authoritative ordered
// quantity always comes from the referenced purchase-order line, which is
// immutable once a receipt references it.
type ReceiptItemRequest struct {
	PurchaseOrderLineID string          `json:"purchase_order_line_id" validate:"required,uuid"`
	OrderedQty          decimal.Decimal `json:"ordered_qty"`
	InvoicedQty         decimal.Decimal `json:"invoiced_qty"`
	ReceivedQty         decimal.Decimal `json:"received_qty"`
	Remarks             string          `json:"remarks"`
}

type CreateReceiptRequest struct {
	PurchaseOrderID string `json:"purchase_order_id" validate:"required,uuid"`
	// GRNNumber is optional; when the caller supplies its own number (retry
	// idempotency), a duplicate is rejected as a conflict, never reprocessed.
	GRNNumber             string               `json:"grn_number"`
	ReceivedDate          string               `json:"received_date" validate:"required,datetime=2006-01-02"`
	SupplierInvoiceNumber string               `json:"supplier_invoice_number"`
	InwardChallanNumber   string               `json:"inward_challan_number"`
	Items                 []ReceiptItemRequest `json:"items_received" validate:"required,min=1,dive"`
}

// ReviewReceiptRequest carries the reviewer's reason for approving or
// rejecting a discrepant receipt.
type ReviewReceiptRequest struct {
	Reason string `json:"reason" validate:"required"`
}

// ─── Filter / List ──────────────────────────────────────────────────────────

// ReceiptFilter is bound from the query string of GET /v1/goods-receipts.
type ReceiptFilter struct {
	Status string `form:"status"` // pending | verified | discrepancy | approved | rejected | all
	From   string `form:"from"`   // YYYY-MM-DD
	To     string `form:"to"`     // YYYY-MM-DD
	Page   int    `form:"page,default=1"   validate:"min=1"`
	Limit  int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ReceiptItemResponse struct {
	ID                  string          `json:"id"`
	PurchaseOrderLineID string          `json:"purchase_order_line_id"`
	MaterialName        string          `json:"material_name"`
	Color               string          `json:"color,omitempty"`
	Spec                string          `json:"spec,omitempty"`
	OrderedQty          decimal.Decimal `json:"ordered_qty"`
	InvoicedQty         decimal.Decimal `json:"invoiced_qty"`
	ReceivedQty         decimal.Decimal `json:"received_qty"`
	UnitPrice           decimal.Decimal `json:"unit_price"`
	DiscrepancyClass    string          `json:"discrepancy_class"`
	Remarks             string          `json:"remarks,omitempty"`
}

type ReceiptResponse struct {
	ID                    string                `json:"id"`
	GRNNumber             string                `json:"grn_number"`
	PurchaseOrderID       string                `json:"purchase_order_id"`
	PONumber              string                `json:"po_number,omitempty"`
	VendorName            string                `json:"vendor_name,omitempty"`
	ReceivedDate          string                `json:"received_date"`
	SupplierInvoiceNumber string                `json:"supplier_invoice_number,omitempty"`
	InwardChallanNumber   string                `json:"inward_challan_number,omitempty"`
	VerificationStatus    string                `json:"verification_status"`
	InventoryAdded        bool                  `json:"inventory_added"`
	DiscrepancyDetails    string                `json:"discrepancy_details,omitempty"`
	Items                 []ReceiptItemResponse `json:"items_received"`
	CreatedAt             string                `json:"created_at"`
}

// CreateReceiptResponse is the full submission outcome: the persisted GRN,
// per-class counts, the human-readable summary, and every spawned case —
// callers render results without re-deriving them.
type CreateReceiptResponse struct {
	Receipt              ReceiptResponse `json:"receipt"`
	PerfectMatchCount    int             `json:"perfect_match_count"`
	ShortageCount        int             `json:"shortage_count"`
	OverageCount         int             `json:"overage_count"`
	InvoiceMismatchCount int             `json:"invoice_mismatch_count"`
	OtherCount           int             `json:"other_count"`
	Summary              string          `json:"summary"`
	Cases                []CaseResponse  `json:"cases"`
}

type ReceiptListResponse struct {
	Data  []ReceiptResponse `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}
