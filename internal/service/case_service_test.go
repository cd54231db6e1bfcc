package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codigix/passion-clothing-sub009/internal/dto"
	"github.com/codigix/passion-clothing-sub009/internal/model"
)

func TestCreateCaseTx_SecondOpenCaseSameClassIsConflict(t *testing.T) {
	w := newTestWorld()
	po := w.seedPO([3]string{"Cotton Poplin", "100", "2.50"})
	resp := submitReceipt(t, w, po, receiptItem(po.Lines[0].ID, "100", "90"))
	grn := w.receiptRepo.grns[uuid.MustParse(resp.Receipt.ID)]

	_, err := w.cases.CreateCaseTx(context.Background(), nil, grn, model.ComplaintShortage,
		[]model.GoodsReceiptItem{grn.Items[0]}, w.actor)
	assert.ErrorIs(t, err, ErrConflict)

	// A different class on the same GRN is fine.
	_, err = w.cases.CreateCaseTx(context.Background(), nil, grn, model.ComplaintOverage,
		[]model.GoodsReceiptItem{grn.Items[0]}, w.actor)
	assert.NoError(t, err)
}

func TestCreateCaseTx_AllowedAgainAfterResolution(t *testing.T) {
	w := newTestWorld()
	po := w.seedPO([3]string{"Cotton Poplin", "100", "2.50"})
	resp := submitReceipt(t, w, po, receiptItem(po.Lines[0].ID, "100", "90"))
	grn := w.receiptRepo.grns[uuid.MustParse(resp.Receipt.ID)]
	caseID := uuid.MustParse(resp.Cases[0].ID)

	require.NoError(t, w.cases.CloseTx(context.Background(), nil, caseID, model.CaseStatusApproved, w.actor, "resolved"))

	_, err := w.cases.CreateCaseTx(context.Background(), nil, grn, model.ComplaintShortage,
		[]model.GoodsReceiptItem{grn.Items[0]}, w.actor)
	assert.NoError(t, err)
}

func TestCloseTx_RejectsNonTerminalTarget(t *testing.T) {
	w := newTestWorld()
	_, caseID := shortageScenario(t, w)

	err := w.cases.CloseTx(context.Background(), nil, caseID, model.CaseStatusInProgress, w.actor, "")
	assert.ErrorIs(t, err, ErrInvariant)
}

func TestCloseTx_AlreadyClosedIsConflict(t *testing.T) {
	w := newTestWorld()
	_, caseID := shortageScenario(t, w)
	ctx := context.Background()

	require.NoError(t, w.cases.CloseTx(ctx, nil, caseID, model.CaseStatusSkipped, w.actor, "written off"))
	err := w.cases.CloseTx(ctx, nil, caseID, model.CaseStatusApproved, w.actor, "again")
	assert.ErrorIs(t, err, ErrConflict)
}

func TestReturnToPendingTx_OnlyFromInProgress(t *testing.T) {
	w := newTestWorld()
	_, caseID := shortageScenario(t, w)
	ctx := context.Background()

	// Freshly spawned case is pending, not in_progress.
	err := w.cases.ReturnToPendingTx(ctx, nil, caseID, w.actor, "")
	assert.ErrorIs(t, err, ErrConflict)

	require.NoError(t, w.cases.MarkInProgressTx(ctx, nil, caseID, w.actor, "path opened"))
	require.NoError(t, w.cases.ReturnToPendingTx(ctx, nil, caseID, w.actor, "path abandoned"))
	assert.Equal(t, model.CaseStatusPending, w.caseRepo.cases[caseID].Status)
}

func TestCaseGet_DenormalizesReceiptAndVendor(t *testing.T) {
	w := newTestWorld()
	po := w.seedPO([3]string{"Cotton Poplin", "100", "2.50"})
	resp := submitReceipt(t, w, po, receiptItem(po.Lines[0].ID, "100", "90"))

	got, err := w.cases.Get(context.Background(), uuid.MustParse(resp.Cases[0].ID))
	require.NoError(t, err)
	assert.Equal(t, resp.Receipt.GRNNumber, got.GRNNumber)
	assert.Equal(t, "PO-2026-000042", got.PONumber)
	assert.Equal(t, "Shree Fabrics", got.VendorName)

	_, err = w.cases.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCaseList_FiltersByStatusAndType(t *testing.T) {
	w := newTestWorld()
	po := w.seedPO(
		[3]string{"Cotton Poplin", "100", "2.50"},
		[3]string{"Silk Lining", "20", "8.00"},
	)
	submitReceipt(t, w, po,
		receiptItem(po.Lines[0].ID, "100", "90"), // shortage
		receiptItem(po.Lines[1].ID, "20", "25"),  // overage
	)

	shortages, err := w.cases.List(context.Background(), dto.CaseFilter{Type: model.ComplaintShortage})
	require.NoError(t, err)
	assert.Equal(t, int64(1), shortages.Total)

	pending, err := w.cases.List(context.Background(), dto.CaseFilter{Status: model.CaseStatusPending})
	require.NoError(t, err)
	assert.Equal(t, int64(2), pending.Total)
}
