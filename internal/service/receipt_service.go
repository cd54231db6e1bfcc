package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/codigix/passion-clothing-sub009/internal/dto"
	"github.com/codigix/passion-clothing-sub009/internal/model"
	"github.com/codigix/passion-clothing-sub009/internal/reconcile"
	"github.com/codigix/passion-clothing-sub009/internal/repository"
	"github.com/codigix/passion-clothing-sub009/internal/worker"
)

// ReceiptService is the receipt aggregator: it classifies every submitted
// line, decides the receipt's verification outcome, spawns one discrepancy
// case per class present, and applies received quantities to inventory — all
// inside one transaction.
type ReceiptService interface {
	CreateReceipt(ctx context.Context, actor Actor, req dto.CreateReceiptRequest) (*dto.CreateReceiptResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.ReceiptResponse, error)
	List(ctx context.Context, filter dto.ReceiptFilter) (*dto.ReceiptListResponse, error)
	// Approve / Reject are the human reviewer transitions on a classified GRN.
	Approve(ctx context.Context, actor Actor, id uuid.UUID, reason string) error
	Reject(ctx context.Context, actor Actor, id uuid.UUID, reason string) error
}

type receiptService struct {
	repo       repository.ReceiptRepository
	poRepo     repository.PurchaseOrderRepository
	seqRepo    repository.SequenceRepository
	cases      CaseService
	inventory  InventoryService
	audit      AuditService
	dispatcher *worker.Dispatcher
}

func NewReceiptService(
	repo repository.ReceiptRepository,
	poRepo repository.PurchaseOrderRepository,
	seqRepo repository.SequenceRepository,
	cases CaseService,
	inventory InventoryService,
	audit AuditService,
	dispatcher *worker.Dispatcher,
) ReceiptService {
	return &receiptService{
		repo:       repo,
		poRepo:     poRepo,
		seqRepo:    seqRepo,
		cases:      cases,
		inventory:  inventory,
		audit:      audit,
		dispatcher: dispatcher,
	}
}

// ── CreateReceipt ─────────────────────────────────────────────────────────────
// One atomic unit: GRN row + items, classification, case spawning, inventory
// application and the audit entries all commit or roll back together. The
// only post-commit step is the best-effort notification dispatch.

func (s *receiptService) CreateReceipt(ctx context.Context, actor Actor, req dto.CreateReceiptRequest) (*dto.CreateReceiptResponse, error) {
	poID, err := uuid.Parse(req.PurchaseOrderID)
	if err != nil {
		return nil, newValidationError("purchase_order_id", "must be a valid UUID")
	}

	po, err := s.poRepo.FindByID(ctx, poID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundf("purchase order %s", req.PurchaseOrderID)
		}
		return nil, err
	}

	receivedDate, err := time.Parse("2006-01-02", req.ReceivedDate)
	if err != nil {
		return nil, newValidationError("received_date", "must be YYYY-MM-DD")
	}

	lineByID := make(map[uuid.UUID]model.PurchaseOrderLine, len(po.Lines))
	for _, l := range po.Lines {
		lineByID[l.ID] = l
	}

	// Validation happens in full before anything is classified or persisted.
	fields := make(map[string]string)
	items := make([]model.GoodsReceiptItem, 0, len(req.Items))
	poLines := make([]model.PurchaseOrderLine, 0, len(req.Items))
	for i, item := range req.Items {
		key := func(f string) string { return fmt.Sprintf("items_received[%d].%s", i, f) }

		lineID, err := uuid.Parse(item.PurchaseOrderLineID)
		if err != nil {
			fields[key("purchase_order_line_id")] = "must be a valid UUID"
			continue
		}
		poLine, ok := lineByID[lineID]
		if !ok {
			fields[key("purchase_order_line_id")] = "does not belong to this purchase order"
			continue
		}
		if item.InvoicedQty.IsNegative() {
			fields[key("invoiced_qty")] = "must not be negative"
		}
		if item.ReceivedQty.IsNegative() {
			fields[key("received_qty")] = "must not be negative"
		}

		items = append(items, model.GoodsReceiptItem{
			PurchaseOrderLineID: poLine.ID,
			MaterialName:        poLine.MaterialName,
			Color:               poLine.Color,
			Spec:                poLine.Spec,
			OrderedQty:          poLine.OrderedQty,
			InvoicedQty:         item.InvoicedQty,
			ReceivedQty:         item.ReceivedQty,
			UnitPrice:           poLine.UnitPrice,
			Remarks:             item.Remarks,
		})
		poLines = append(poLines, poLine)
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	if req.GRNNumber != "" {
		exists, err := s.repo.ExistsByNumber(ctx, req.GRNNumber)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, conflictf("grn_number %s already exists", req.GRNNumber)
		}
	}

	// Classify every line independently, then group by class.
	lines := make([]reconcile.Line, len(items))
	for i, item := range items {
		lines[i] = reconcile.Line{
			Index:    i,
			Ordered:  item.OrderedQty,
			Invoiced: item.InvoicedQty,
			Received: item.ReceivedQty,
		}
	}
	result := reconcile.ClassifyAll(lines)
	for _, l := range result.Lines {
		items[l.Index].DiscrepancyClass = string(l.Class)
	}

	status := model.GRNStatusDiscrepancy
	if result.AllPerfect() {
		status = model.GRNStatusVerified
	}

	grn := model.GoodsReceiptNote{
		GRNNumber:             req.GRNNumber,
		PurchaseOrderID:       po.ID,
		ReceivedDate:          receivedDate,
		SupplierInvoiceNumber: req.SupplierInvoiceNumber,
		InwardChallanNumber:   req.InwardChallanNumber,
		VerificationStatus:    status,
		InventoryAdded:        true,
		DiscrepancyDetails:    result.Summary(),
		Items:                 items,
	}

	var spawned []model.DiscrepancyCase
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if grn.GRNNumber == "" {
			seq, err := s.seqRepo.Next(ctx, tx, repository.SeqGoodsReceipt)
			if err != nil {
				return err
			}
			grn.GRNNumber = formatDocNumber("GRN", seq)
		}

		if err := s.repo.Create(ctx, tx, &grn); err != nil {
			return err
		}

		// Apply received quantity for every line — perfect and discrepant
		// alike. Partial stock is never withheld pending case resolution.
		for i, item := range grn.Items {
			if err := s.inventory.ApplyReceivedTx(tx, poLines[i].InventoryItemID, item.ReceivedQty, grn.GRNNumber, grn.ID); err != nil {
				return fmt.Errorf("apply inventory for %s: %w", item.MaterialName, err)
			}
		}

		// One case per non-empty discrepancy class, never one per line.
		for _, class := range result.CaseClasses() {
			classLines := make([]model.GoodsReceiptItem, 0, result.Count(class))
			for _, l := range result.ByClass[class] {
				classLines = append(classLines, grn.Items[l.Index])
			}
			c, err := s.cases.CreateCaseTx(ctx, tx, &grn, string(class), classLines, actor)
			if err != nil {
				return err
			}
			spawned = append(spawned, *c)
		}

		return s.audit.RecordTx(ctx, tx, AuditEntry{
			EntityType:  EntityGRN,
			EntityID:    grn.ID,
			Action:      "created",
			StatusAfter: status,
			Actor:       actor,
			Metadata: model.Metadata{
				"grn_number": grn.GRNNumber,
				"po_number":  po.PONumber,
				"lines":      len(grn.Items),
				"summary":    result.Summary(),
			},
		})
	})
	if txErr != nil {
		return nil, txErr
	}

	// Best-effort: a notification failure must never fail the reconciliation.
	if s.dispatcher != nil && len(spawned) > 0 {
		vendorName := ""
		if po.Vendor != nil {
			vendorName = po.Vendor.Name
		}
		_ = s.dispatcher.EnqueueNotification(ctx, map[string]interface{}{
			"event":       "grn_discrepancy",
			"grn_number":  grn.GRNNumber,
			"po_number":   po.PONumber,
			"vendor_name": vendorName,
			"summary":     result.Summary(),
		})
	}

	grn.PurchaseOrder = po
	resp := &dto.CreateReceiptResponse{
		Receipt:              *receiptToResponse(&grn),
		PerfectMatchCount:    result.Count(reconcile.PerfectMatch),
		ShortageCount:        result.Count(reconcile.Shortage),
		OverageCount:         result.Count(reconcile.Overage),
		InvoiceMismatchCount: result.Count(reconcile.InvoiceMismatch),
		OtherCount:           result.Count(reconcile.Other),
		Summary:              result.Summary(),
		Cases:                casesToResponses(spawned, &grn),
	}
	return resp, nil
}

// ── Reviewer transitions ──────────────────────────────────────────────────────

func (s *receiptService) Approve(ctx context.Context, actor Actor, id uuid.UUID, reason string) error {
	return s.review(ctx, actor, id, model.GRNStatusApproved, reason)
}

func (s *receiptService) Reject(ctx context.Context, actor Actor, id uuid.UUID, reason string) error {
	return s.review(ctx, actor, id, model.GRNStatusRejected, reason)
}

func (s *receiptService) review(ctx context.Context, actor Actor, id uuid.UUID, next, reason string) error {
	grn, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFoundf("goods receipt %s", id)
		}
		return err
	}

	switch grn.VerificationStatus {
	case model.GRNStatusVerified, model.GRNStatusDiscrepancy:
	default:
		return invariantf("goods receipt %s is %s and cannot be reviewed", grn.GRNNumber, grn.VerificationStatus)
	}

	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		rows, err := s.repo.UpdateStatusTx(tx, id, grn.VerificationStatus, next, actor.ID)
		if err != nil {
			return err
		}
		if rows == 0 {
			return conflictf("goods receipt %s changed concurrently", grn.GRNNumber)
		}
		return s.audit.RecordTx(ctx, tx, AuditEntry{
			EntityType:   EntityGRN,
			EntityID:     id,
			Action:       "reviewed",
			StatusBefore: grn.VerificationStatus,
			StatusAfter:  next,
			Actor:        actor,
			Reason:       reason,
		})
	})
}

// ── Queries ───────────────────────────────────────────────────────────────────

func (s *receiptService) Get(ctx context.Context, id uuid.UUID) (*dto.ReceiptResponse, error) {
	grn, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundf("goods receipt %s", id)
		}
		return nil, err
	}
	return receiptToResponse(grn), nil
}

func (s *receiptService) List(ctx context.Context, filter dto.ReceiptFilter) (*dto.ReceiptListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	grns, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ReceiptResponse, 0, len(grns))
	for i := range grns {
		items = append(items, *receiptToResponse(&grns[i]))
	}
	return &dto.ReceiptListResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

// ── Converters ────────────────────────────────────────────────────────────────

func receiptToResponse(grn *model.GoodsReceiptNote) *dto.ReceiptResponse {
	items := make([]dto.ReceiptItemResponse, 0, len(grn.Items))
	for _, item := range grn.Items {
		items = append(items, dto.ReceiptItemResponse{
			ID:                  item.ID.String(),
			PurchaseOrderLineID: item.PurchaseOrderLineID.String(),
			MaterialName:        item.MaterialName,
			Color:               item.Color,
			Spec:                item.Spec,
			OrderedQty:          item.OrderedQty,
			InvoicedQty:         item.InvoicedQty,
			ReceivedQty:         item.ReceivedQty,
			UnitPrice:           item.UnitPrice,
			DiscrepancyClass:    item.DiscrepancyClass,
			Remarks:             item.Remarks,
		})
	}
	resp := &dto.ReceiptResponse{
		ID:                    grn.ID.String(),
		GRNNumber:             grn.GRNNumber,
		PurchaseOrderID:       grn.PurchaseOrderID.String(),
		ReceivedDate:          grn.ReceivedDate.Format("2006-01-02"),
		SupplierInvoiceNumber: grn.SupplierInvoiceNumber,
		InwardChallanNumber:   grn.InwardChallanNumber,
		VerificationStatus:    grn.VerificationStatus,
		InventoryAdded:        grn.InventoryAdded,
		DiscrepancyDetails:    grn.DiscrepancyDetails,
		Items:                 items,
		CreatedAt:             grn.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
	if grn.PurchaseOrder != nil {
		resp.PONumber = grn.PurchaseOrder.PONumber
		if grn.PurchaseOrder.Vendor != nil {
			resp.VendorName = grn.PurchaseOrder.Vendor.Name
		}
	}
	return resp
}

// casesToResponses renders spawned cases for the submission response using
// the GRN already in hand — no re-fetch needed.
func casesToResponses(cases []model.DiscrepancyCase, grn *model.GoodsReceiptNote) []dto.CaseResponse {
	out := make([]dto.CaseResponse, 0, len(cases))
	for _, c := range cases {
		resp := dto.CaseResponse{
			ID:             c.ID.String(),
			EntityType:     c.EntityType,
			EntityID:       c.EntityID.String(),
			GRNNumber:      grn.GRNNumber,
			ComplaintType:  c.ComplaintType,
			ItemsAffected:  c.ItemsAffected,
			TotalValue:     c.TotalValue,
			Status:         c.Status,
			ActionRequired: c.ActionRequired,
			CreatedAt:      c.CreatedAt.Format("2006-01-02T15:04:05Z"),
		}
		if grn.PurchaseOrder != nil {
			resp.PONumber = grn.PurchaseOrder.PONumber
			if grn.PurchaseOrder.Vendor != nil {
				resp.VendorName = grn.PurchaseOrder.Vendor.Name
			}
		}
		out = append(out, resp)
	}
	return out
}
