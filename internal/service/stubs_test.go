package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/codigix/passion-clothing-sub009/internal/dto"
	"github.com/codigix/passion-clothing-sub009/internal/model"
	"github.com/codigix/passion-clothing-sub009/internal/repository"
)

// In-memory repository stubs. Services run with a nil *gorm.DB, so runTx
// calls straight into the closures and the stubs act as the store.

// ── Receipts ─────────────────────────────────────────────────────────────────

type stubReceiptRepo struct {
	grns map[uuid.UUID]*model.GoodsReceiptNote
}

func newStubReceiptRepo() *stubReceiptRepo {
	return &stubReceiptRepo{grns: make(map[uuid.UUID]*model.GoodsReceiptNote)}
}

func (r *stubReceiptRepo) Create(_ context.Context, _ *gorm.DB, grn *model.GoodsReceiptNote) error {
	if grn.ID == uuid.Nil {
		grn.ID = uuid.New()
	}
	for i := range grn.Items {
		if grn.Items[i].ID == uuid.Nil {
			grn.Items[i].ID = uuid.New()
		}
		grn.Items[i].GoodsReceiptNoteID = grn.ID
	}
	grn.CreatedAt = time.Now()
	r.grns[grn.ID] = grn
	return nil
}

func (r *stubReceiptRepo) FindByID(_ context.Context, id uuid.UUID) (*model.GoodsReceiptNote, error) {
	grn, ok := r.grns[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return grn, nil
}

func (r *stubReceiptRepo) FindByIDs(_ context.Context, ids []uuid.UUID) ([]model.GoodsReceiptNote, error) {
	out := make([]model.GoodsReceiptNote, 0, len(ids))
	for _, id := range ids {
		if grn, ok := r.grns[id]; ok {
			out = append(out, *grn)
		}
	}
	return out, nil
}

func (r *stubReceiptRepo) ExistsByNumber(_ context.Context, grnNumber string) (bool, error) {
	for _, grn := range r.grns {
		if grn.GRNNumber == grnNumber {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubReceiptRepo) UpdateStatusTx(_ *gorm.DB, id uuid.UUID, expected, next string, reviewedBy uuid.UUID) (int64, error) {
	grn, ok := r.grns[id]
	if !ok || grn.VerificationStatus != expected {
		return 0, nil
	}
	grn.VerificationStatus = next
	grn.ReviewedBy = &reviewedBy
	now := time.Now()
	grn.ReviewedAt = &now
	return 1, nil
}

func (r *stubReceiptRepo) List(_ context.Context, filter dto.ReceiptFilter) ([]model.GoodsReceiptNote, int64, error) {
	out := make([]model.GoodsReceiptNote, 0, len(r.grns))
	for _, grn := range r.grns {
		if filter.Status != "" && filter.Status != "all" && grn.VerificationStatus != filter.Status {
			continue
		}
		out = append(out, *grn)
	}
	return out, int64(len(out)), nil
}

func (r *stubReceiptRepo) DB() *gorm.DB { return nil }

var _ repository.ReceiptRepository = (*stubReceiptRepo)(nil)

// ── Purchase orders ──────────────────────────────────────────────────────────

type stubPORepo struct {
	orders map[uuid.UUID]*model.PurchaseOrder
}

func newStubPORepo() *stubPORepo {
	return &stubPORepo{orders: make(map[uuid.UUID]*model.PurchaseOrder)}
}

func (r *stubPORepo) FindByID(_ context.Context, id uuid.UUID) (*model.PurchaseOrder, error) {
	po, ok := r.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return po, nil
}

func (r *stubPORepo) FindLineByID(_ context.Context, id uuid.UUID) (*model.PurchaseOrderLine, error) {
	for _, po := range r.orders {
		for i := range po.Lines {
			if po.Lines[i].ID == id {
				return &po.Lines[i], nil
			}
		}
	}
	return nil, gorm.ErrRecordNotFound
}

var _ repository.PurchaseOrderRepository = (*stubPORepo)(nil)

// ── Sequences ────────────────────────────────────────────────────────────────

type stubSeqRepo struct {
	counters map[string]int64
}

func newStubSeqRepo() *stubSeqRepo { return &stubSeqRepo{counters: make(map[string]int64)} }

func (r *stubSeqRepo) Next(_ context.Context, _ *gorm.DB, sequence string) (int64, error) {
	r.counters[sequence]++
	return r.counters[sequence], nil
}

var _ repository.SequenceRepository = (*stubSeqRepo)(nil)

// ── Cases ────────────────────────────────────────────────────────────────────

type stubCaseRepo struct {
	cases map[uuid.UUID]*model.DiscrepancyCase
}

func newStubCaseRepo() *stubCaseRepo {
	return &stubCaseRepo{cases: make(map[uuid.UUID]*model.DiscrepancyCase)}
}

func (r *stubCaseRepo) CreateTx(_ context.Context, _ *gorm.DB, c *model.DiscrepancyCase) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	c.CreatedAt = time.Now()
	r.cases[c.ID] = c
	return nil
}

func (r *stubCaseRepo) FindByID(_ context.Context, id uuid.UUID) (*model.DiscrepancyCase, error) {
	c, ok := r.cases[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (r *stubCaseRepo) FindOpenByEntityAndType(_ context.Context, _ *gorm.DB, entityID uuid.UUID, complaintType string) (*model.DiscrepancyCase, error) {
	for _, c := range r.cases {
		if c.EntityID == entityID && c.ComplaintType == complaintType && c.Open() {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubCaseRepo) FindByEntity(_ context.Context, entityID uuid.UUID) ([]model.DiscrepancyCase, error) {
	var out []model.DiscrepancyCase
	for _, c := range r.cases {
		if c.EntityID == entityID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *stubCaseRepo) UpdateStatusTx(_ *gorm.DB, id uuid.UUID, expected []string, next string, resolved bool) (int64, error) {
	c, ok := r.cases[id]
	if !ok || !contains(expected, c.Status) {
		return 0, nil
	}
	c.Status = next
	if resolved {
		now := time.Now()
		c.ResolvedAt = &now
	}
	return 1, nil
}

func (r *stubCaseRepo) List(_ context.Context, filter dto.CaseFilter) ([]model.DiscrepancyCase, int64, error) {
	var out []model.DiscrepancyCase
	for _, c := range r.cases {
		if filter.Status != "" && filter.Status != "all" && c.Status != filter.Status {
			continue
		}
		if filter.Type != "" && c.ComplaintType != filter.Type {
			continue
		}
		out = append(out, *c)
	}
	return out, int64(len(out)), nil
}

func (r *stubCaseRepo) DB() *gorm.DB { return nil }

var _ repository.CaseRepository = (*stubCaseRepo)(nil)

// ── Vendors ──────────────────────────────────────────────────────────────────

type stubVendorRepo struct {
	vendors map[uuid.UUID]*model.Vendor
}

func newStubVendorRepo() *stubVendorRepo {
	return &stubVendorRepo{vendors: make(map[uuid.UUID]*model.Vendor)}
}

func (r *stubVendorRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Vendor, error) {
	v, ok := r.vendors[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return v, nil
}

var _ repository.VendorRepository = (*stubVendorRepo)(nil)

// ── Vendor requests ──────────────────────────────────────────────────────────

type stubVendorRequestRepo struct {
	requests map[uuid.UUID]*model.VendorRequest
}

func newStubVendorRequestRepo() *stubVendorRequestRepo {
	return &stubVendorRequestRepo{requests: make(map[uuid.UUID]*model.VendorRequest)}
}

func (r *stubVendorRequestRepo) Create(_ context.Context, _ *gorm.DB, vr *model.VendorRequest) error {
	if vr.ID == uuid.Nil {
		vr.ID = uuid.New()
	}
	vr.CreatedAt = time.Now()
	r.requests[vr.ID] = vr
	return nil
}

func (r *stubVendorRequestRepo) FindByID(_ context.Context, id uuid.UUID) (*model.VendorRequest, error) {
	vr, ok := r.requests[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return vr, nil
}

func (r *stubVendorRequestRepo) UpdateTx(_ *gorm.DB, id uuid.UUID, expected []string, updates map[string]interface{}) (int64, error) {
	vr, ok := r.requests[id]
	if !ok || !contains(expected, vr.Status) {
		return 0, nil
	}
	applyVendorRequestUpdates(vr, updates)
	return 1, nil
}

func applyVendorRequestUpdates(vr *model.VendorRequest, updates map[string]interface{}) {
	for key, val := range updates {
		switch key {
		case "status":
			vr.Status = val.(string)
		case "cancel_reason":
			vr.CancelReason = val.(string)
		case "sent_by":
			id := val.(uuid.UUID)
			vr.SentBy = &id
		case "sent_at":
			now := time.Now()
			vr.SentAt = &now
		case "fulfillment_grn_id":
			id := val.(uuid.UUID)
			vr.FulfillmentGRNID = &id
		}
	}
}

func (r *stubVendorRequestRepo) List(_ context.Context, filter dto.VendorRequestFilter) ([]model.VendorRequest, int64, error) {
	var out []model.VendorRequest
	for _, vr := range r.requests {
		if filter.Status != "" && filter.Status != "all" && vr.Status != filter.Status {
			continue
		}
		out = append(out, *vr)
	}
	return out, int64(len(out)), nil
}

func (r *stubVendorRequestRepo) DB() *gorm.DB { return nil }

var _ repository.VendorRequestRepository = (*stubVendorRequestRepo)(nil)

// ── Credit notes ─────────────────────────────────────────────────────────────

type stubCreditNoteRepo struct {
	notes map[uuid.UUID]*model.CreditNote
}

func newStubCreditNoteRepo() *stubCreditNoteRepo {
	return &stubCreditNoteRepo{notes: make(map[uuid.UUID]*model.CreditNote)}
}

func (r *stubCreditNoteRepo) Create(_ context.Context, _ *gorm.DB, cn *model.CreditNote) error {
	if cn.ID == uuid.Nil {
		cn.ID = uuid.New()
	}
	cn.CreatedAt = time.Now()
	r.notes[cn.ID] = cn
	return nil
}

func (r *stubCreditNoteRepo) FindByID(_ context.Context, id uuid.UUID) (*model.CreditNote, error) {
	cn, ok := r.notes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return cn, nil
}

func (r *stubCreditNoteRepo) UpdateTx(_ *gorm.DB, id uuid.UUID, expected []string, updates map[string]interface{}) (int64, error) {
	cn, ok := r.notes[id]
	if !ok || !contains(expected, cn.Status) {
		return 0, nil
	}
	now := time.Now()
	for key, val := range updates {
		switch key {
		case "status":
			cn.Status = val.(string)
		case "issued_at":
			cn.IssuedAt = &now
		case "accepted_at":
			cn.AcceptedAt = &now
		case "settled_at":
			cn.SettledAt = &now
		}
	}
	return 1, nil
}

func (r *stubCreditNoteRepo) UpdateSettlementTx(_ *gorm.DB, id uuid.UUID, expected []string, updates map[string]interface{}) (int64, error) {
	cn, ok := r.notes[id]
	if !ok || !contains(expected, cn.SettlementStatus) {
		return 0, nil
	}
	if v, ok := updates["settlement_status"]; ok {
		cn.SettlementStatus = v.(string)
	}
	return 1, nil
}

func (r *stubCreditNoteRepo) UpdateDocumentPath(_ context.Context, id uuid.UUID, path string) error {
	cn, ok := r.notes[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	cn.DocumentPath = &path
	return nil
}

func (r *stubCreditNoteRepo) List(_ context.Context, filter dto.CreditNoteFilter) ([]model.CreditNote, int64, error) {
	var out []model.CreditNote
	for _, cn := range r.notes {
		if filter.Status != "" && filter.Status != "all" && cn.Status != filter.Status {
			continue
		}
		out = append(out, *cn)
	}
	return out, int64(len(out)), nil
}

func (r *stubCreditNoteRepo) DB() *gorm.DB { return nil }

var _ repository.CreditNoteRepository = (*stubCreditNoteRepo)(nil)

// ── Audit trail ──────────────────────────────────────────────────────────────

type stubAuditRepo struct {
	entries []model.AuditTrailEntry
}

func newStubAuditRepo() *stubAuditRepo { return &stubAuditRepo{} }

func (r *stubAuditRepo) CreateTx(_ context.Context, _ *gorm.DB, entry *model.AuditTrailEntry) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	entry.CreatedAt = time.Now()
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *stubAuditRepo) ListByEntity(_ context.Context, filter dto.AuditFilter, entityID uuid.UUID) ([]model.AuditTrailEntry, int64, error) {
	var out []model.AuditTrailEntry
	for _, e := range r.entries {
		if e.EntityType == filter.EntityType && e.EntityID == entityID {
			out = append(out, e)
		}
	}
	return out, int64(len(out)), nil
}

// actionsFor lists the recorded actions for one entity, oldest first.
func (r *stubAuditRepo) actionsFor(entityType string, entityID uuid.UUID) []string {
	var out []string
	for _, e := range r.entries {
		if e.EntityType == entityType && e.EntityID == entityID {
			out = append(out, e.Action)
		}
	}
	return out
}

var _ repository.AuditRepository = (*stubAuditRepo)(nil)

// ── Inventory ────────────────────────────────────────────────────────────────

type stubInventoryRepo struct {
	items     map[uuid.UUID]*model.InventoryItem
	movements []model.InventoryMovement
}

func newStubInventoryRepo() *stubInventoryRepo {
	return &stubInventoryRepo{items: make(map[uuid.UUID]*model.InventoryItem)}
}

func (r *stubInventoryRepo) FindByIDTx(_ *gorm.DB, id uuid.UUID) (*model.InventoryItem, error) {
	item, ok := r.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *item // snapshot, like a real row read
	return &copied, nil
}

func (r *stubInventoryRepo) AddQuantityTx(_ *gorm.DB, id uuid.UUID, qty decimal.Decimal) error {
	item, ok := r.items[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	item.QuantityOnHand = item.QuantityOnHand.Add(qty)
	return nil
}

func (r *stubInventoryRepo) CreateMovementTx(_ *gorm.DB, mov *model.InventoryMovement) error {
	if mov.ID == uuid.Nil {
		mov.ID = uuid.New()
	}
	r.movements = append(r.movements, *mov)
	return nil
}

func (r *stubInventoryRepo) ListMovements(_ context.Context, referenceID uuid.UUID) ([]model.InventoryMovement, error) {
	var out []model.InventoryMovement
	for _, m := range r.movements {
		if m.ReferenceID != nil && *m.ReferenceID == referenceID {
			out = append(out, m)
		}
	}
	return out, nil
}

var _ repository.InventoryRepository = (*stubInventoryRepo)(nil)

// ── Shared helpers ───────────────────────────────────────────────────────────

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// testWorld bundles every stub plus the services wired the way the router
// wires them, minus the dispatcher (nil — no redis in unit tests).
type testWorld struct {
	receiptRepo       *stubReceiptRepo
	poRepo            *stubPORepo
	seqRepo           *stubSeqRepo
	caseRepo          *stubCaseRepo
	vendorRepo        *stubVendorRepo
	vendorRequestRepo *stubVendorRequestRepo
	creditNoteRepo    *stubCreditNoteRepo
	auditRepo         *stubAuditRepo
	inventoryRepo     *stubInventoryRepo

	audit          AuditService
	cases          CaseService
	receipts       ReceiptService
	vendorRequests VendorRequestService
	creditNotes    CreditNoteService

	actor Actor
}

func newTestWorld() *testWorld {
	w := &testWorld{
		receiptRepo:       newStubReceiptRepo(),
		poRepo:            newStubPORepo(),
		seqRepo:           newStubSeqRepo(),
		caseRepo:          newStubCaseRepo(),
		vendorRepo:        newStubVendorRepo(),
		vendorRequestRepo: newStubVendorRequestRepo(),
		creditNoteRepo:    newStubCreditNoteRepo(),
		auditRepo:         newStubAuditRepo(),
		inventoryRepo:     newStubInventoryRepo(),
		actor:             Actor{ID: uuid.New(), Name: "Asha Verma", Department: "purchase"},
	}

	w.audit = NewAuditService(w.auditRepo)
	inventory := NewInventoryService(w.inventoryRepo)
	w.cases = NewCaseService(w.caseRepo, w.receiptRepo, w.audit)
	w.receipts = NewReceiptService(w.receiptRepo, w.poRepo, w.seqRepo, w.cases, inventory, w.audit, nil)
	w.vendorRequests = NewVendorRequestService(w.vendorRequestRepo, w.caseRepo, w.receiptRepo, w.vendorRepo, w.seqRepo, w.cases, w.audit, nil)
	w.creditNotes = NewCreditNoteService(w.creditNoteRepo, w.caseRepo, w.receiptRepo, w.vendorRepo, w.seqRepo, w.cases, w.audit, nil)
	return w
}

// seedPO creates a vendor and a purchase order with one line per entry of
// lines: {material, ordered qty, unit price}.
func (w *testWorld) seedPO(lines ...[3]string) *model.PurchaseOrder {
	vendor := &model.Vendor{ID: uuid.New(), Name: "Shree Fabrics"}
	w.vendorRepo.vendors[vendor.ID] = vendor

	po := &model.PurchaseOrder{
		ID:       uuid.New(),
		PONumber: "PO-2026-000042",
		VendorID: vendor.ID,
		Status:   "approved",
		Vendor:   vendor,
	}
	for _, l := range lines {
		item := &model.InventoryItem{
			ID:           uuid.New(),
			MaterialName: l[0],
			Unit:         "m",
		}
		w.inventoryRepo.items[item.ID] = item
		po.Lines = append(po.Lines, model.PurchaseOrderLine{
			ID:              uuid.New(),
			PurchaseOrderID: po.ID,
			MaterialName:    l[0],
			OrderedQty:      decimal.RequireFromString(l[1]),
			UnitPrice:       decimal.RequireFromString(l[2]),
			InventoryItemID: item.ID,
			Unit:            "m",
		})
	}
	w.poRepo.orders[po.ID] = po
	return po
}

func receiptItem(lineID uuid.UUID, invoiced, received string) dto.ReceiptItemRequest {
	return dto.ReceiptItemRequest{
		PurchaseOrderLineID: lineID.String(),
		InvoicedQty:         decimal.RequireFromString(invoiced),
		ReceivedQty:         decimal.RequireFromString(received),
	}
}

func hasPrefix(s, prefix string) bool { return strings.HasPrefix(s, prefix) }
