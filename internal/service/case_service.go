package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/codigix/passion-clothing-sub009/internal/dto"
	"github.com/codigix/passion-clothing-sub009/internal/model"
	"github.com/codigix/passion-clothing-sub009/internal/reconcile"
	"github.com/codigix/passion-clothing-sub009/internal/repository"
)

// CaseService materializes and manages discrepancy cases: one per
// (grn, discrepancy class), carrying the affected lines and aggregate value.
type CaseService interface {
	// CreateCaseTx runs inside the receipt submission transaction. Calling it
	// again for a (grn, class) pair with an open case is a logic error
	// surfaced as a conflict — the aggregator only calls once per class.
	CreateCaseTx(ctx context.Context, tx *gorm.DB, grn *model.GoodsReceiptNote, complaintType string, lines []model.GoodsReceiptItem, actor Actor) (*model.DiscrepancyCase, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.CaseResponse, error)
	List(ctx context.Context, filter dto.CaseFilter) (*dto.CaseListResponse, error)
	// CloseTx resolves an open case (approved on successful resolution,
	// canceled/skipped on manual dismissal) inside the caller's transaction.
	CloseTx(ctx context.Context, tx *gorm.DB, id uuid.UUID, next string, actor Actor, reason string) error
	// MarkInProgressTx flags a pending case as having an active resolution path.
	MarkInProgressTx(ctx context.Context, tx *gorm.DB, id uuid.UUID, actor Actor, reason string) error
	// ReturnToPendingTx reopens the resolution slot after a rejected credit note.
	ReturnToPendingTx(ctx context.Context, tx *gorm.DB, id uuid.UUID, actor Actor, reason string) error
}

type caseService struct {
	repo        repository.CaseRepository
	receiptRepo repository.ReceiptRepository
	audit       AuditService
}

func NewCaseService(repo repository.CaseRepository, receiptRepo repository.ReceiptRepository, audit AuditService) CaseService {
	return &caseService{repo: repo, receiptRepo: receiptRepo, audit: audit}
}

// caseValue computes the aggregate value of the affected lines.
// Shortage/overage: variance quantity × unit price per line.
// Invoice mismatch: the invoiced line value — the disputed amount itself.
func caseValue(complaintType string, item model.GoodsReceiptItem) (qty, value decimal.Decimal) {
	if complaintType == model.ComplaintInvoiceMismatch {
		return item.InvoicedQty.Sub(item.OrderedQty).Abs(),
			item.InvoicedQty.Mul(item.UnitPrice).Round(2)
	}
	variance := reconcile.Variance(item.OrderedQty, item.ReceivedQty)
	return variance, variance.Mul(item.UnitPrice).Round(2)
}

func (s *caseService) CreateCaseTx(ctx context.Context, tx *gorm.DB, grn *model.GoodsReceiptNote, complaintType string, lines []model.GoodsReceiptItem, actor Actor) (*model.DiscrepancyCase, error) {
	existing, err := s.repo.FindOpenByEntityAndType(ctx, tx, grn.ID, complaintType)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, conflictf("open %s case already exists for GRN %s", complaintType, grn.GRNNumber)
	}

	items := make(model.CaseItems, 0, len(lines))
	total := decimal.Zero
	for _, line := range lines {
		qty, value := caseValue(complaintType, line)
		items = append(items, model.CaseItem{
			ReceiptItemID: line.ID,
			MaterialName:  line.MaterialName,
			Color:         line.Color,
			Spec:          line.Spec,
			OrderedQty:    line.OrderedQty,
			InvoicedQty:   line.InvoicedQty,
			ReceivedQty:   line.ReceivedQty,
			UnitPrice:     line.UnitPrice,
			VarianceQty:   qty,
			VarianceValue: value,
		})
		total = total.Add(value)
	}

	c := &model.DiscrepancyCase{
		EntityType:    "grn",
		EntityID:      grn.ID,
		ComplaintType: complaintType,
		ItemsAffected: items,
		TotalValue:    total,
		Status:        model.CaseStatusPending,
	}
	if complaintType == model.ComplaintInvoiceMismatch {
		c.ActionRequired = fmt.Sprintf(
			"Invoiced quantity differs from ordered on %d line(s) of %s — reconcile with supplier invoice %s before payment.",
			len(lines), grn.GRNNumber, grn.SupplierInvoiceNumber)
	}

	if err := s.repo.CreateTx(ctx, tx, c); err != nil {
		return nil, err
	}

	if err := s.audit.RecordTx(ctx, tx, AuditEntry{
		EntityType:  EntityCase,
		EntityID:    c.ID,
		Action:      "created",
		StatusAfter: model.CaseStatusPending,
		Actor:       actor,
		Metadata: model.Metadata{
			"grn_number":     grn.GRNNumber,
			"complaint_type": complaintType,
			"lines":          len(lines),
			"total_value":    total.StringFixed(2),
		},
	}); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *caseService) transitionTx(ctx context.Context, tx *gorm.DB, id uuid.UUID, expected []string, next string, resolved bool, actor Actor, reason string) error {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFoundf("discrepancy case %s", id)
		}
		return err
	}

	rows, err := s.repo.UpdateStatusTx(tx, id, expected, next, resolved)
	if err != nil {
		return err
	}
	if rows == 0 {
		return conflictf("case %s is %s, expected one of %v", id, c.Status, expected)
	}

	return s.audit.RecordTx(ctx, tx, AuditEntry{
		EntityType:   EntityCase,
		EntityID:     id,
		Action:       "status_changed",
		StatusBefore: c.Status,
		StatusAfter:  next,
		Actor:        actor,
		Reason:       reason,
	})
}

func (s *caseService) CloseTx(ctx context.Context, tx *gorm.DB, id uuid.UUID, next string, actor Actor, reason string) error {
	switch next {
	case model.CaseStatusApproved, model.CaseStatusRejected, model.CaseStatusSkipped, model.CaseStatusCanceled:
	default:
		return invariantf("%q is not a terminal case status", next)
	}
	expected := []string{model.CaseStatusPending, model.CaseStatusInProgress}
	return s.transitionTx(ctx, tx, id, expected, next, true, actor, reason)
}

func (s *caseService) MarkInProgressTx(ctx context.Context, tx *gorm.DB, id uuid.UUID, actor Actor, reason string) error {
	return s.transitionTx(ctx, tx, id, []string{model.CaseStatusPending}, model.CaseStatusInProgress, false, actor, reason)
}

func (s *caseService) ReturnToPendingTx(ctx context.Context, tx *gorm.DB, id uuid.UUID, actor Actor, reason string) error {
	return s.transitionTx(ctx, tx, id, []string{model.CaseStatusInProgress}, model.CaseStatusPending, false, actor, reason)
}

func (s *caseService) Get(ctx context.Context, id uuid.UUID) (*dto.CaseResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundf("discrepancy case %s", id)
		}
		return nil, err
	}
	resp := s.toResponses(ctx, []model.DiscrepancyCase{*c})
	return &resp[0], nil
}

func (s *caseService) List(ctx context.Context, filter dto.CaseFilter) (*dto.CaseListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	cases, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &dto.CaseListResponse{
		Data:  s.toResponses(ctx, cases),
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

// toResponses denormalizes GRN number, PO number and vendor name in one
// batched lookup so listings render without extra round-trips.
func (s *caseService) toResponses(ctx context.Context, cases []model.DiscrepancyCase) []dto.CaseResponse {
	ids := make([]uuid.UUID, 0, len(cases))
	seen := make(map[uuid.UUID]bool, len(cases))
	for _, c := range cases {
		if !seen[c.EntityID] {
			seen[c.EntityID] = true
			ids = append(ids, c.EntityID)
		}
	}

	grnByID := make(map[uuid.UUID]model.GoodsReceiptNote, len(ids))
	if len(ids) > 0 && s.receiptRepo != nil {
		if grns, err := s.receiptRepo.FindByIDs(ctx, ids); err == nil {
			for _, g := range grns {
				grnByID[g.ID] = g
			}
		}
	}

	out := make([]dto.CaseResponse, 0, len(cases))
	for _, c := range cases {
		resp := dto.CaseResponse{
			ID:             c.ID.String(),
			EntityType:     c.EntityType,
			EntityID:       c.EntityID.String(),
			ComplaintType:  c.ComplaintType,
			ItemsAffected:  c.ItemsAffected,
			TotalValue:     c.TotalValue,
			Status:         c.Status,
			ActionRequired: c.ActionRequired,
			CreatedAt:      c.CreatedAt.Format("2006-01-02T15:04:05Z"),
		}
		if c.ResolvedAt != nil {
			at := c.ResolvedAt.Format("2006-01-02T15:04:05Z")
			resp.ResolvedAt = &at
		}
		if g, ok := grnByID[c.EntityID]; ok {
			resp.GRNNumber = g.GRNNumber
			if g.PurchaseOrder != nil {
				resp.PONumber = g.PurchaseOrder.PONumber
				if g.PurchaseOrder.Vendor != nil {
					resp.VendorName = g.PurchaseOrder.Vendor.Name
				}
			}
		}
		out = append(out, resp)
	}
	return out
}
