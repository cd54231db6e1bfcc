package service

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/codigix/passion-clothing-sub009/internal/dto"
	"github.com/codigix/passion-clothing-sub009/internal/model"
	"github.com/codigix/passion-clothing-sub009/internal/repository"
)

// Audit entity types.
const (
	EntityGRN           = "grn"
	EntityCase          = "discrepancy_case"
	EntityVendorRequest = "vendor_request"
	EntityCreditNote    = "credit_note"
)

// AuditEntry is the recorder input: one state transition on one entity.
type AuditEntry struct {
	EntityType   string
	EntityID     uuid.UUID
	Action       string
	StatusBefore string
	StatusAfter  string
	Actor        Actor
	Reason       string
	Metadata     model.Metadata
}

// AuditService is the append-only trail recorder. RecordTx runs inside the
// same transaction as the state change it describes, so a failed audit write
// fails the whole operation — no unaudited transitions exist.
type AuditService interface {
	RecordTx(ctx context.Context, tx *gorm.DB, e AuditEntry) error
	List(ctx context.Context, filter dto.AuditFilter) (*dto.AuditListResponse, error)
}

type auditService struct {
	repo repository.AuditRepository
}

func NewAuditService(repo repository.AuditRepository) AuditService {
	return &auditService{repo: repo}
}

func (s *auditService) RecordTx(ctx context.Context, tx *gorm.DB, e AuditEntry) error {
	entry := &model.AuditTrailEntry{
		EntityType:   e.EntityType,
		EntityID:     e.EntityID,
		Action:       e.Action,
		StatusBefore: e.StatusBefore,
		StatusAfter:  e.StatusAfter,
		PerformedBy:  e.Actor.ID,
		Department:   e.Actor.Department,
		Reason:       e.Reason,
		Metadata:     e.Metadata,
	}
	return s.repo.CreateTx(ctx, tx, entry)
}

func (s *auditService) List(ctx context.Context, filter dto.AuditFilter) (*dto.AuditListResponse, error) {
	entityID, err := uuid.Parse(filter.EntityID)
	if err != nil {
		return nil, newValidationError("entity_id", "must be a valid UUID")
	}
	entries, total, err := s.repo.ListByEntity(ctx, filter, entityID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.AuditEntryResponse, 0, len(entries))
	for _, e := range entries {
		items = append(items, dto.AuditEntryResponse{
			ID:           e.ID.String(),
			EntityType:   e.EntityType,
			EntityID:     e.EntityID.String(),
			Action:       e.Action,
			StatusBefore: e.StatusBefore,
			StatusAfter:  e.StatusAfter,
			PerformedBy:  e.PerformedBy.String(),
			Department:   e.Department,
			Reason:       e.Reason,
			Metadata:     e.Metadata,
			CreatedAt:    e.CreatedAt.Format("2006-01-02T15:04:05Z"),
		})
	}
	return &dto.AuditListResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}
