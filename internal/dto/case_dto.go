package dto

import (
	"github.com/shopspring/decimal"

	"github.com/codigix/passion-clothing-sub009/internal/model"
)

// CaseFilter is bound from the query string of GET /v1/discrepancy-cases.
type CaseFilter struct {
	Status string `form:"status"` // pending | in_progress | approved | rejected | skipped | canceled | all
	Type   string `form:"type"`   // shortage | overage | invoice_mismatch
	From   string `form:"from"`   // YYYY-MM-DD
	To     string `form:"to"`     // YYYY-MM-DD
	Page   int    `form:"page,default=1"   validate:"min=1"`
	Limit  int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// CaseResponse denormalizes GRN number, PO number and vendor name so the
// review screen needs no second round-trip.
type CaseResponse struct {
	ID             string           `json:"id"`
	EntityType     string           `json:"entity_type"`
	EntityID       string           `json:"entity_id"`
	GRNNumber      string           `json:"grn_number,omitempty"`
	PONumber       string           `json:"po_number,omitempty"`
	VendorName     string           `json:"vendor_name,omitempty"`
	ComplaintType  string           `json:"complaint_type"`
	ItemsAffected  []model.CaseItem `json:"items_affected"`
	TotalValue     decimal.Decimal  `json:"total_value"`
	Status         string           `json:"status"`
	ActionRequired string           `json:"action_required,omitempty"`
	ResolvedAt     *string          `json:"resolved_at,omitempty"`
	CreatedAt      string           `json:"created_at"`
}

type CaseListResponse struct {
	Data  []CaseResponse `json:"data"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}
