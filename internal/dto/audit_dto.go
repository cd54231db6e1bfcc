package dto

// AuditFilter is bound from the query string of GET /v1/audit-trail.
type AuditFilter struct {
	EntityType string `form:"entity_type" validate:"required,oneof=grn discrepancy_case vendor_request credit_note"`
	EntityID   string `form:"entity_id"   validate:"required,uuid"`
	Page       int    `form:"page,default=1"    validate:"min=1"`
	Limit      int    `form:"limit,default=100" validate:"min=1,max=500"`
}

type AuditEntryResponse struct {
	ID           string                 `json:"id"`
	EntityType   string                 `json:"entity_type"`
	EntityID     string                 `json:"entity_id"`
	Action       string                 `json:"action"`
	StatusBefore string                 `json:"status_before,omitempty"`
	StatusAfter  string                 `json:"status_after,omitempty"`
	PerformedBy  string                 `json:"performed_by"`
	Department   string                 `json:"department,omitempty"`
	Reason       string                 `json:"reason,omitempty"`
	Metadata     map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt    string                 `json:"created_at"`
}

type AuditListResponse struct {
	Data  []AuditEntryResponse `json:"data"`
	Total int64                `json:"total"`
	Page  int                  `json:"page"`
	Limit int                  `json:"limit"`
}
