package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreditNoteItemRequest struct {
	MaterialName string          `json:"material_name" validate:"required"`
	Color        string          `json:"color"`
	Quantity     decimal.Decimal `json:"quantity"   validate:"required"`
	UnitPrice    decimal.Decimal `json:"unit_price" validate:"required"`
}

// CreateCreditNoteRequest drafts a credit note against a discrepancy case.
// Amounts are computed server-side from the items; when the caller supplies
// its own totals they are verified against the computation and the request is
// rejected on any mismatch.
type CreateCreditNoteRequest struct {
	ComplaintID          string                  `json:"complaint_id" validate:"required,uuid"`
	CreditNoteType       string                  `json:"credit_note_type" validate:"required,oneof=full_return partial_credit adjustment"`
	SettlementMethod     string                  `json:"settlement_method" validate:"required,oneof=cash_credit return_material adjust_invoice future_deduction"`
	TaxPercentage        decimal.Decimal         `json:"tax_percentage"`
	Items                []CreditNoteItemRequest `json:"items" validate:"required,min=1,dive"`
	SubtotalCreditAmount *decimal.Decimal        `json:"subtotal_credit_amount"`
	TaxAmount            *decimal.Decimal        `json:"tax_amount"`
	TotalCreditAmount    *decimal.Decimal        `json:"total_credit_amount"`
	Notes                string                  `json:"notes"`
}

type RejectCreditNoteRequest struct {
	Reason string `json:"reason" validate:"required"`
}

type CancelCreditNoteRequest struct {
	Reason string `json:"reason" validate:"required"`
}

// UpdateSettlementRequest advances the settlement sub-state.
type UpdateSettlementRequest struct {
	SettlementStatus string `json:"settlement_status" validate:"required,oneof=in_progress completed failed"`
	Reason           string `json:"reason"`
}

// ─── Filter / List ──────────────────────────────────────────────────────────

type CreditNoteFilter struct {
	Status string `form:"status"` // draft | issued | accepted | rejected | settled | cancelled | all
	Type   string `form:"type"`   // full_return | partial_credit | adjustment
	Page   int    `form:"page,default=1"   validate:"min=1"`
	Limit  int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type CreditNoteItemResponse struct {
	MaterialName string          `json:"material_name"`
	Color        string          `json:"color,omitempty"`
	Quantity     decimal.Decimal `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	LineValue    decimal.Decimal `json:"line_value"`
}

type CreditNoteResponse struct {
	ID                   string                   `json:"id"`
	CreditNoteNumber     string                   `json:"credit_note_number"`
	GRNID                string                   `json:"grn_id"`
	PurchaseOrderID      string                   `json:"purchase_order_id"`
	VendorID             string                   `json:"vendor_id"`
	VendorName           string                   `json:"vendor_name,omitempty"`
	ComplaintID          *string                  `json:"complaint_id,omitempty"`
	CreditNoteType       string                   `json:"credit_note_type"`
	Items                []CreditNoteItemResponse `json:"items"`
	SubtotalCreditAmount decimal.Decimal          `json:"subtotal_credit_amount"`
	TaxPercentage        decimal.Decimal          `json:"tax_percentage"`
	TaxAmount            decimal.Decimal          `json:"tax_amount"`
	TotalCreditAmount    decimal.Decimal          `json:"total_credit_amount"`
	Status               string                   `json:"status"`
	SettlementMethod     string                   `json:"settlement_method"`
	SettlementStatus     string                   `json:"settlement_status"`
	Notes                string                   `json:"notes,omitempty"`
	CreatedAt            string                   `json:"created_at"`
}

type CreditNoteListResponse struct {
	Data  []CreditNoteResponse `json:"data"`
	Total int64                `json:"total"`
	Page  int                  `json:"page"`
	Limit int                  `json:"limit"`
}
