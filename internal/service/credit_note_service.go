package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/codigix/passion-clothing-sub009/internal/dto"
	"github.com/codigix/passion-clothing-sub009/internal/model"
	"github.com/codigix/passion-clothing-sub009/internal/repository"
	"github.com/codigix/passion-clothing-sub009/internal/worker"
)

var oneHundred = decimal.NewFromInt(100)

// CreditNoteService drives the financial settlement workflow:
// draft → issued → {accepted, rejected}; accepted → settled;
// issued → cancelled. The settlement sub-state advances independently once
// the note is accepted.
type CreditNoteService interface {
	Create(ctx context.Context, actor Actor, req dto.CreateCreditNoteRequest) (*dto.CreditNoteResponse, error)
	Issue(ctx context.Context, actor Actor, id uuid.UUID) error
	Accept(ctx context.Context, actor Actor, id uuid.UUID) error
	// Reject sends the note back and reopens the case's resolution slot.
	Reject(ctx context.Context, actor Actor, id uuid.UUID, req dto.RejectCreditNoteRequest) error
	Cancel(ctx context.Context, actor Actor, id uuid.UUID, req dto.CancelCreditNoteRequest) error
	Settle(ctx context.Context, actor Actor, id uuid.UUID) error
	UpdateSettlement(ctx context.Context, actor Actor, id uuid.UUID, req dto.UpdateSettlementRequest) error
	Get(ctx context.Context, id uuid.UUID) (*dto.CreditNoteResponse, error)
	List(ctx context.Context, filter dto.CreditNoteFilter) (*dto.CreditNoteListResponse, error)
	DocumentPath(ctx context.Context, id uuid.UUID) (string, error)
}

type creditNoteService struct {
	repo        repository.CreditNoteRepository
	caseRepo    repository.CaseRepository
	receiptRepo repository.ReceiptRepository
	vendorRepo  repository.VendorRepository
	seqRepo     repository.SequenceRepository
	cases       CaseService
	audit       AuditService
	dispatcher  *worker.Dispatcher
}

func NewCreditNoteService(
	repo repository.CreditNoteRepository,
	caseRepo repository.CaseRepository,
	receiptRepo repository.ReceiptRepository,
	vendorRepo repository.VendorRepository,
	seqRepo repository.SequenceRepository,
	cases CaseService,
	audit AuditService,
	dispatcher *worker.Dispatcher,
) CreditNoteService {
	return &creditNoteService{
		repo:        repo,
		caseRepo:    caseRepo,
		receiptRepo: receiptRepo,
		vendorRepo:  vendorRepo,
		seqRepo:     seqRepo,
		cases:       cases,
		audit:       audit,
		dispatcher:  dispatcher,
	}
}

func (s *creditNoteService) Create(ctx context.Context, actor Actor, req dto.CreateCreditNoteRequest) (*dto.CreditNoteResponse, error) {
	complaintID, err := uuid.Parse(req.ComplaintID)
	if err != nil {
		return nil, newValidationError("complaint_id", "must be a valid UUID")
	}

	c, err := s.caseRepo.FindByID(ctx, complaintID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundf("discrepancy case %s", complaintID)
		}
		return nil, err
	}
	if !c.Open() {
		return nil, invariantf("case %s is %s; only an open case can be settled by credit note", complaintID, c.Status)
	}

	grn, err := s.receiptRepo.FindByID(ctx, c.EntityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundf("goods receipt %s", c.EntityID)
		}
		return nil, err
	}
	if grn.PurchaseOrder == nil {
		return nil, invariantf("goods receipt %s has no purchase order loaded", grn.GRNNumber)
	}

	if req.TaxPercentage.IsNegative() {
		return nil, newValidationError("tax_percentage", "must not be negative")
	}

	items := make([]model.CreditNoteItem, 0, len(req.Items))
	subtotal := decimal.Zero
	for _, it := range req.Items {
		if !it.Quantity.IsPositive() {
			return nil, newValidationError("items.quantity", "must be positive")
		}
		if it.UnitPrice.IsNegative() {
			return nil, newValidationError("items.unit_price", "must not be negative")
		}
		lineValue := it.Quantity.Mul(it.UnitPrice).Round(2)
		items = append(items, model.CreditNoteItem{
			MaterialName: it.MaterialName,
			Color:        it.Color,
			Quantity:     it.Quantity,
			UnitPrice:    it.UnitPrice,
			LineValue:    lineValue,
		})
		subtotal = subtotal.Add(lineValue)
	}

	tax := subtotal.Mul(req.TaxPercentage).Div(oneHundred).Round(2)
	total := subtotal.Add(tax)

	// Amounts are authoritative server-side. A caller supplying its own
	// totals is held to them exactly: any mismatch rejects the whole draft.
	if req.SubtotalCreditAmount != nil && !req.SubtotalCreditAmount.Equal(subtotal) {
		return nil, invariantf("subtotal_credit_amount %s does not match computed %s",
			req.SubtotalCreditAmount.StringFixed(2), subtotal.StringFixed(2))
	}
	if req.TaxAmount != nil && !req.TaxAmount.Equal(tax) {
		return nil, invariantf("tax_amount %s does not match computed %s",
			req.TaxAmount.StringFixed(2), tax.StringFixed(2))
	}
	if req.TotalCreditAmount != nil && !req.TotalCreditAmount.Equal(total) {
		return nil, invariantf("total_credit_amount %s does not match subtotal %s + tax %s",
			req.TotalCreditAmount.StringFixed(2), subtotal.StringFixed(2), tax.StringFixed(2))
	}

	cid := c.ID
	cn := &model.CreditNote{
		GRNID:                grn.ID,
		PurchaseOrderID:      grn.PurchaseOrderID,
		VendorID:             grn.PurchaseOrder.VendorID,
		ComplaintID:          &cid,
		CreditNoteType:       req.CreditNoteType,
		SubtotalCreditAmount: subtotal,
		TaxPercentage:        req.TaxPercentage,
		TaxAmount:            tax,
		TotalCreditAmount:    total,
		Status:               model.CreditNoteDraft,
		SettlementMethod:     req.SettlementMethod,
		SettlementStatus:     model.SettlementPending,
		Notes:                req.Notes,
		Items:                items,
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		seq, err := s.seqRepo.Next(ctx, tx, repository.SeqCreditNote)
		if err != nil {
			return err
		}
		cn.CreditNoteNumber = formatDocNumber("CN", seq)

		if err := s.repo.Create(ctx, tx, cn); err != nil {
			return err
		}

		if c.Status == model.CaseStatusPending {
			if err := s.cases.MarkInProgressTx(ctx, tx, c.ID, actor, "credit note "+cn.CreditNoteNumber+" drafted"); err != nil {
				return err
			}
		}

		return s.audit.RecordTx(ctx, tx, AuditEntry{
			EntityType:  EntityCreditNote,
			EntityID:    cn.ID,
			Action:      "created",
			StatusAfter: model.CreditNoteDraft,
			Actor:       actor,
			Metadata: model.Metadata{
				"credit_note_number": cn.CreditNoteNumber,
				"grn_number":         grn.GRNNumber,
				"complaint_id":       c.ID.String(),
				"total":              total.StringFixed(2),
			},
		})
	})
	if txErr != nil {
		return nil, txErr
	}

	return creditNoteToResponse(cn), nil
}

func (s *creditNoteService) transition(ctx context.Context, actor Actor, id uuid.UUID, expected []string, next string, updates map[string]interface{}, reason string, inTx func(tx *gorm.DB, cn *model.CreditNote) error) (*model.CreditNote, error) {
	cn, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundf("credit note %s", id)
		}
		return nil, err
	}

	if updates == nil {
		updates = map[string]interface{}{}
	}
	updates["status"] = next

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		rows, err := s.repo.UpdateTx(tx, id, expected, updates)
		if err != nil {
			return err
		}
		if rows == 0 {
			return conflictf("credit note %s is %s, expected one of %v", cn.CreditNoteNumber, cn.Status, expected)
		}
		if err := s.audit.RecordTx(ctx, tx, AuditEntry{
			EntityType:   EntityCreditNote,
			EntityID:     id,
			Action:       "status_changed",
			StatusBefore: cn.Status,
			StatusAfter:  next,
			Actor:        actor,
			Reason:       reason,
		}); err != nil {
			return err
		}
		if inTx != nil {
			return inTx(tx, cn)
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	return cn, nil
}

func (s *creditNoteService) Issue(ctx context.Context, actor Actor, id uuid.UUID) error {
	cn, err := s.transition(ctx, actor, id,
		[]string{model.CreditNoteDraft}, model.CreditNoteIssued,
		map[string]interface{}{"issued_at": gorm.Expr("NOW()")}, "", nil)
	if err != nil {
		return err
	}

	// Document rendering and vendor notification run off the request path.
	if s.dispatcher != nil {
		_ = s.dispatcher.EnqueueDocument(ctx, map[string]interface{}{
			"credit_note_id": cn.ID.String(),
		})
		_ = s.dispatcher.EnqueueNotification(ctx, map[string]interface{}{
			"event":              "credit_note_issued",
			"credit_note_number": cn.CreditNoteNumber,
			"vendor_id":          cn.VendorID.String(),
			"total":              cn.TotalCreditAmount.StringFixed(2),
		})
	}
	return nil
}

func (s *creditNoteService) Accept(ctx context.Context, actor Actor, id uuid.UUID) error {
	_, err := s.transition(ctx, actor, id,
		[]string{model.CreditNoteIssued}, model.CreditNoteAccepted,
		map[string]interface{}{"accepted_at": gorm.Expr("NOW()")}, "", nil)
	return err
}

func (s *creditNoteService) Reject(ctx context.Context, actor Actor, id uuid.UUID, req dto.RejectCreditNoteRequest) error {
	_, err := s.transition(ctx, actor, id,
		[]string{model.CreditNoteIssued}, model.CreditNoteRejected, nil, req.Reason,
		func(tx *gorm.DB, cn *model.CreditNote) error {
			// A rejected note frees the case for another attempt.
			if cn.ComplaintID == nil {
				return nil
			}
			return s.cases.ReturnToPendingTx(ctx, tx, *cn.ComplaintID, actor,
				"credit note "+cn.CreditNoteNumber+" rejected by vendor")
		})
	return err
}

func (s *creditNoteService) Cancel(ctx context.Context, actor Actor, id uuid.UUID, req dto.CancelCreditNoteRequest) error {
	_, err := s.transition(ctx, actor, id,
		[]string{model.CreditNoteIssued}, model.CreditNoteCancelled, nil, req.Reason,
		func(tx *gorm.DB, cn *model.CreditNote) error {
			if cn.ComplaintID == nil {
				return nil
			}
			return s.cases.ReturnToPendingTx(ctx, tx, *cn.ComplaintID, actor,
				"credit note "+cn.CreditNoteNumber+" cancelled")
		})
	return err
}

func (s *creditNoteService) Settle(ctx context.Context, actor Actor, id uuid.UUID) error {
	_, err := s.transition(ctx, actor, id,
		[]string{model.CreditNoteAccepted}, model.CreditNoteSettled,
		map[string]interface{}{"settled_at": gorm.Expr("NOW()")}, "", nil)
	return err
}

func (s *creditNoteService) UpdateSettlement(ctx context.Context, actor Actor, id uuid.UUID, req dto.UpdateSettlementRequest) error {
	cn, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFoundf("credit note %s", id)
		}
		return err
	}

	var expected []string
	switch req.SettlementStatus {
	case model.SettlementInProgress:
		if cn.Status != model.CreditNoteAccepted && cn.Status != model.CreditNoteSettled {
			return invariantf("settlement cannot start while credit note %s is %s", cn.CreditNoteNumber, cn.Status)
		}
		expected = []string{model.SettlementPending}
	case model.SettlementCompleted:
		// Funds confirmed moved requires the note itself to be settled first.
		if cn.Status != model.CreditNoteSettled {
			return invariantf("settlement cannot complete while credit note %s is %s, not settled", cn.CreditNoteNumber, cn.Status)
		}
		expected = []string{model.SettlementInProgress}
	case model.SettlementFailed:
		expected = []string{model.SettlementInProgress}
	default:
		return newValidationError("settlement_status", "must be in_progress, completed or failed")
	}

	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		rows, err := s.repo.UpdateSettlementTx(tx, id, expected,
			map[string]interface{}{"settlement_status": req.SettlementStatus})
		if err != nil {
			return err
		}
		if rows == 0 {
			return conflictf("credit note %s settlement is %s, expected one of %v",
				cn.CreditNoteNumber, cn.SettlementStatus, expected)
		}

		if err := s.audit.RecordTx(ctx, tx, AuditEntry{
			EntityType:   EntityCreditNote,
			EntityID:     id,
			Action:       "settlement_changed",
			StatusBefore: cn.SettlementStatus,
			StatusAfter:  req.SettlementStatus,
			Actor:        actor,
			Reason:       req.Reason,
		}); err != nil {
			return err
		}

		// Completed settlement is the end of the money trail: the case the
		// note was drafted against resolves in the same transaction.
		if req.SettlementStatus == model.SettlementCompleted && cn.ComplaintID != nil {
			return s.cases.CloseTx(ctx, tx, *cn.ComplaintID, model.CaseStatusApproved, actor,
				"settled by credit note "+cn.CreditNoteNumber)
		}
		return nil
	})
}

func (s *creditNoteService) Get(ctx context.Context, id uuid.UUID) (*dto.CreditNoteResponse, error) {
	cn, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundf("credit note %s", id)
		}
		return nil, err
	}
	resp := creditNoteToResponse(cn)
	if s.vendorRepo != nil {
		if v, err := s.vendorRepo.FindByID(ctx, cn.VendorID); err == nil {
			resp.VendorName = v.Name
		}
	}
	return resp, nil
}

func (s *creditNoteService) List(ctx context.Context, filter dto.CreditNoteFilter) (*dto.CreditNoteListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	cns, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.CreditNoteResponse, 0, len(cns))
	for i := range cns {
		items = append(items, *creditNoteToResponse(&cns[i]))
	}
	return &dto.CreditNoteListResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

// DocumentPath returns the rendered PDF path, or not-found while the
// document worker has not produced one yet.
func (s *creditNoteService) DocumentPath(ctx context.Context, id uuid.UUID) (string, error) {
	cn, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", notFoundf("credit note %s", id)
		}
		return "", err
	}
	if cn.DocumentPath == nil || *cn.DocumentPath == "" {
		return "", notFoundf("document for credit note %s not generated yet", cn.CreditNoteNumber)
	}
	return *cn.DocumentPath, nil
}

func creditNoteToResponse(cn *model.CreditNote) *dto.CreditNoteResponse {
	items := make([]dto.CreditNoteItemResponse, 0, len(cn.Items))
	for _, it := range cn.Items {
		items = append(items, dto.CreditNoteItemResponse{
			MaterialName: it.MaterialName,
			Color:        it.Color,
			Quantity:     it.Quantity,
			UnitPrice:    it.UnitPrice,
			LineValue:    it.LineValue,
		})
	}
	resp := &dto.CreditNoteResponse{
		ID:                   cn.ID.String(),
		CreditNoteNumber:     cn.CreditNoteNumber,
		GRNID:                cn.GRNID.String(),
		PurchaseOrderID:      cn.PurchaseOrderID.String(),
		VendorID:             cn.VendorID.String(),
		CreditNoteType:       cn.CreditNoteType,
		Items:                items,
		SubtotalCreditAmount: cn.SubtotalCreditAmount,
		TaxPercentage:        cn.TaxPercentage,
		TaxAmount:            cn.TaxAmount,
		TotalCreditAmount:    cn.TotalCreditAmount,
		Status:               cn.Status,
		SettlementMethod:     cn.SettlementMethod,
		SettlementStatus:     cn.SettlementStatus,
		Notes:                cn.Notes,
		CreatedAt:            cn.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
	if cn.ComplaintID != nil {
		cid := cn.ComplaintID.String()
		resp.ComplaintID = &cid
	}
	return resp
}
