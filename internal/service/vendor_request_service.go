package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/codigix/passion-clothing-sub009/internal/dto"
	"github.com/codigix/passion-clothing-sub009/internal/model"
	"github.com/codigix/passion-clothing-sub009/internal/repository"
	"github.com/codigix/passion-clothing-sub009/internal/worker"
)

// VendorRequestService drives the vendor follow-up workflow for shortage and
// overage cases: pending → sent → acknowledged → in_transit → fulfilled, with
// cancellation allowed from any non-terminal state.
type VendorRequestService interface {
	Create(ctx context.Context, actor Actor, req dto.CreateVendorRequestRequest) (*dto.VendorRequestResponse, error)
	Send(ctx context.Context, actor Actor, id uuid.UUID) error
	Acknowledge(ctx context.Context, actor Actor, id uuid.UUID) error
	MarkInTransit(ctx context.Context, actor Actor, id uuid.UUID) error
	// Fulfill records the replacement delivery and, when the new receipt covers
	// the outstanding quantities, resolves the originating case in the same
	// transaction.
	Fulfill(ctx context.Context, actor Actor, id uuid.UUID, req dto.FulfillVendorRequestRequest) error
	Cancel(ctx context.Context, actor Actor, id uuid.UUID, req dto.CancelVendorRequestRequest) error
	Get(ctx context.Context, id uuid.UUID) (*dto.VendorRequestResponse, error)
	List(ctx context.Context, filter dto.VendorRequestFilter) (*dto.VendorRequestListResponse, error)
}

type vendorRequestService struct {
	repo        repository.VendorRequestRepository
	caseRepo    repository.CaseRepository
	receiptRepo repository.ReceiptRepository
	vendorRepo  repository.VendorRepository
	seqRepo     repository.SequenceRepository
	cases       CaseService
	audit       AuditService
	dispatcher  *worker.Dispatcher
}

func NewVendorRequestService(
	repo repository.VendorRequestRepository,
	caseRepo repository.CaseRepository,
	receiptRepo repository.ReceiptRepository,
	vendorRepo repository.VendorRepository,
	seqRepo repository.SequenceRepository,
	cases CaseService,
	audit AuditService,
	dispatcher *worker.Dispatcher,
) VendorRequestService {
	return &vendorRequestService{
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

func (s *vendorRequestService) Create(ctx context.Context, actor Actor, req dto.CreateVendorRequestRequest) (*dto.VendorRequestResponse, error) {
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
		return nil, invariantf("case %s is %s; only an open case can raise a vendor request", complaintID, c.Status)
	}
	switch c.ComplaintType {
	case model.ComplaintShortage, model.ComplaintOverage:
	default:
		return nil, invariantf("case %s is %s; vendor requests apply to shortage and overage only", complaintID, c.ComplaintType)
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

	var expectedDate *time.Time
	if req.ExpectedFulfillmentDate != nil {
		d, err := time.Parse("2006-01-02", *req.ExpectedFulfillmentDate)
		if err != nil {
			return nil, newValidationError("expected_fulfillment_date", "must be YYYY-MM-DD")
		}
		expectedDate = &d
	}

	// Outstanding positions are copied from the case snapshot: the request is
	// self-contained even if the case is later resolved through other means.
	items := make([]model.VendorRequestItem, 0, len(c.ItemsAffected))
	for _, it := range c.ItemsAffected {
		items = append(items, model.VendorRequestItem{
			MaterialName: it.MaterialName,
			Color:        it.Color,
			Spec:         it.Spec,
			Quantity:     it.VarianceQty,
			UnitPrice:    it.UnitPrice,
			LineValue:    it.VarianceValue,
		})
	}

	cid := c.ID
	vr := &model.VendorRequest{
		PurchaseOrderID:         grn.PurchaseOrderID,
		GRNID:                   grn.ID,
		VendorID:                grn.PurchaseOrder.VendorID,
		ComplaintID:             &cid,
		RequestType:             c.ComplaintType,
		TotalValue:              c.TotalValue,
		Status:                  model.VendorRequestPending,
		ExpectedFulfillmentDate: expectedDate,
		Items:                   items,
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		seq, err := s.seqRepo.Next(ctx, tx, repository.SeqVendorRequest)
		if err != nil {
			return err
		}
		vr.RequestNumber = formatDocNumber("VR", seq)

		if err := s.repo.Create(ctx, tx, vr); err != nil {
			return err
		}

		if c.Status == model.CaseStatusPending {
			if err := s.cases.MarkInProgressTx(ctx, tx, c.ID, actor, "vendor request "+vr.RequestNumber+" opened"); err != nil {
				return err
			}
		}

		return s.audit.RecordTx(ctx, tx, AuditEntry{
			EntityType:  EntityVendorRequest,
			EntityID:    vr.ID,
			Action:      "created",
			StatusAfter: model.VendorRequestPending,
			Actor:       actor,
			Metadata: model.Metadata{
				"request_number": vr.RequestNumber,
				"grn_number":     grn.GRNNumber,
				"complaint_id":   c.ID.String(),
				"request_type":   vr.RequestType,
				"total_value":    vr.TotalValue.StringFixed(2),
			},
		})
	})
	if txErr != nil {
		return nil, txErr
	}

	return vendorRequestToResponse(vr), nil
}

// transition applies one guarded step of the linear lifecycle.
func (s *vendorRequestService) transition(ctx context.Context, actor Actor, id uuid.UUID, expected []string, next string, updates map[string]interface{}, reason string) (*model.VendorRequest, error) {
	vr, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundf("vendor request %s", id)
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
			return conflictf("vendor request %s is %s, expected one of %v", vr.RequestNumber, vr.Status, expected)
		}
		return s.audit.RecordTx(ctx, tx, AuditEntry{
			EntityType:   EntityVendorRequest,
			EntityID:     id,
			Action:       "status_changed",
			StatusBefore: vr.Status,
			StatusAfter:  next,
			Actor:        actor,
			Reason:       reason,
		})
	})
	if txErr != nil {
		return nil, txErr
	}
	return vr, nil
}

func (s *vendorRequestService) Send(ctx context.Context, actor Actor, id uuid.UUID) error {
	vr, err := s.transition(ctx, actor, id,
		[]string{model.VendorRequestPending}, model.VendorRequestSent,
		map[string]interface{}{
			"sent_by": actor.ID,
			"sent_at": gorm.Expr("NOW()"),
		}, "")
	if err != nil {
		return err
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.EnqueueNotification(ctx, map[string]interface{}{
			"event":          "vendor_request_sent",
			"request_number": vr.RequestNumber,
			"request_type":   vr.RequestType,
			"vendor_id":      vr.VendorID.String(),
			"total_value":    vr.TotalValue.StringFixed(2),
		})
	}
	return nil
}

func (s *vendorRequestService) Acknowledge(ctx context.Context, actor Actor, id uuid.UUID) error {
	_, err := s.transition(ctx, actor, id,
		[]string{model.VendorRequestSent}, model.VendorRequestAcknowledged, nil, "")
	return err
}

func (s *vendorRequestService) MarkInTransit(ctx context.Context, actor Actor, id uuid.UUID) error {
	_, err := s.transition(ctx, actor, id,
		[]string{model.VendorRequestAcknowledged}, model.VendorRequestInTransit, nil, "")
	return err
}

func (s *vendorRequestService) Fulfill(ctx context.Context, actor Actor, id uuid.UUID, req dto.FulfillVendorRequestRequest) error {
	fulfillmentID, err := uuid.Parse(req.FulfillmentGRNID)
	if err != nil {
		return newValidationError("fulfillment_grn_id", "must be a valid UUID")
	}

	vr, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFoundf("vendor request %s", id)
		}
		return err
	}
	if fulfillmentID == vr.GRNID {
		return invariantf("fulfillment GRN must be a new receipt, not the one that raised request %s", vr.RequestNumber)
	}

	fulfillment, err := s.receiptRepo.FindByID(ctx, fulfillmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFoundf("fulfillment goods receipt %s", fulfillmentID)
		}
		return err
	}

	covered := requestCovered(vr, fulfillment)

	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		rows, err := s.repo.UpdateTx(tx, id,
			[]string{model.VendorRequestInTransit},
			map[string]interface{}{
				"status":             model.VendorRequestFulfilled,
				"fulfillment_grn_id": fulfillmentID,
			})
		if err != nil {
			return err
		}
		if rows == 0 {
			return conflictf("vendor request %s is %s, expected in_transit", vr.RequestNumber, vr.Status)
		}

		if err := s.audit.RecordTx(ctx, tx, AuditEntry{
			EntityType:   EntityVendorRequest,
			EntityID:     id,
			Action:       "fulfilled",
			StatusBefore: vr.Status,
			StatusAfter:  model.VendorRequestFulfilled,
			Actor:        actor,
			Metadata: model.Metadata{
				"fulfillment_grn": fulfillment.GRNNumber,
				"covered":         covered,
			},
		}); err != nil {
			return err
		}

		// The case closes only when the replacement receipt covers every
		// outstanding quantity; otherwise it stays open for a further round.
		if covered && vr.ComplaintID != nil {
			return s.cases.CloseTx(ctx, tx, *vr.ComplaintID, model.CaseStatusApproved, actor,
				"resolved by fulfillment receipt "+fulfillment.GRNNumber)
		}
		return nil
	})
}

func (s *vendorRequestService) Cancel(ctx context.Context, actor Actor, id uuid.UUID, req dto.CancelVendorRequestRequest) error {
	nonTerminal := []string{
		model.VendorRequestPending,
		model.VendorRequestSent,
		model.VendorRequestAcknowledged,
		model.VendorRequestInTransit,
	}
	// Cancelling the request does not touch the case: the discrepancy is
	// still unresolved and must be handled through another path.
	_, err := s.transition(ctx, actor, id, nonTerminal, model.VendorRequestCancelled,
		map[string]interface{}{"cancel_reason": req.Reason}, req.Reason)
	return err
}

func (s *vendorRequestService) Get(ctx context.Context, id uuid.UUID) (*dto.VendorRequestResponse, error) {
	vr, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundf("vendor request %s", id)
		}
		return nil, err
	}
	resp := vendorRequestToResponse(vr)
	if s.vendorRepo != nil {
		if v, err := s.vendorRepo.FindByID(ctx, vr.VendorID); err == nil {
			resp.VendorName = v.Name
		}
	}
	return resp, nil
}

func (s *vendorRequestService) List(ctx context.Context, filter dto.VendorRequestFilter) (*dto.VendorRequestListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	vrs, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.VendorRequestResponse, 0, len(vrs))
	for i := range vrs {
		items = append(items, *vendorRequestToResponse(&vrs[i]))
	}
	return &dto.VendorRequestListResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

// requestCovered reports whether the fulfillment receipt's received quantities
// cover every outstanding position, matched by material identity.
func requestCovered(vr *model.VendorRequest, fulfillment *model.GoodsReceiptNote) bool {
	type matKey struct{ name, color, spec string }
	received := make(map[matKey]decimal.Decimal)
	for _, item := range fulfillment.Items {
		k := matKey{item.MaterialName, item.Color, item.Spec}
		received[k] = received[k].Add(item.ReceivedQty)
	}
	for _, item := range vr.Items {
		k := matKey{item.MaterialName, item.Color, item.Spec}
		if received[k].LessThan(item.Quantity) {
			return false
		}
	}
	return true
}

func vendorRequestToResponse(vr *model.VendorRequest) *dto.VendorRequestResponse {
	items := make([]dto.VendorRequestItemResponse, 0, len(vr.Items))
	for _, it := range vr.Items {
		items = append(items, dto.VendorRequestItemResponse{
			MaterialName: it.MaterialName,
			Color:        it.Color,
			Spec:         it.Spec,
			Quantity:     it.Quantity,
			UnitPrice:    it.UnitPrice,
			LineValue:    it.LineValue,
		})
	}
	resp := &dto.VendorRequestResponse{
		ID:              vr.ID.String(),
		RequestNumber:   vr.RequestNumber,
		PurchaseOrderID: vr.PurchaseOrderID.String(),
		GRNID:           vr.GRNID.String(),
		VendorID:        vr.VendorID.String(),
		RequestType:     vr.RequestType,
		Items:           items,
		TotalValue:      vr.TotalValue,
		Status:          vr.Status,
		CancelReason:    vr.CancelReason,
		CreatedAt:       vr.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
	if vr.ComplaintID != nil {
		cid := vr.ComplaintID.String()
		resp.ComplaintID = &cid
	}
	if vr.ExpectedFulfillmentDate != nil {
		d := vr.ExpectedFulfillmentDate.Format("2006-01-02")
		resp.ExpectedFulfillmentDate = &d
	}
	if vr.SentAt != nil {
		t := vr.SentAt.Format("2006-01-02T15:04:05Z")
		resp.SentAt = &t
	}
	if vr.FulfillmentGRNID != nil {
		f := vr.FulfillmentGRNID.String()
		resp.FulfillmentGRNID = &f
	}
	return resp
}
