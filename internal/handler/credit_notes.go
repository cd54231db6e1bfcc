package handler

import (
	"context"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/codigix/passion-clothing-sub009/internal/apierror"
	"github.com/codigix/passion-clothing-sub009/internal/dto"
	"github.com/codigix/passion-clothing-sub009/internal/service"
)

type CreditNotesHandler struct {
	svc         service.CreditNoteService
	storagePath string
}

func NewCreditNotesHandler(svc service.CreditNoteService, storagePath string) *CreditNotesHandler {
	return &CreditNotesHandler{svc: svc, storagePath: storagePath}
}

// Create godoc
// @Summary      Draft a credit note against an open case
// @Description  Amounts are computed server-side; caller-supplied totals are verified and any mismatch rejects the draft.
// @Tags         credit-notes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreateCreditNoteRequest true "Credit note draft"
// @Success      201 {object} dto.CreditNoteResponse
// @Failure      400 {object} apierror.APIError
// @Failure      404 {object} apierror.APIError
// @Router       /v1/credit-notes [post]
func (h *CreditNotesHandler) Create(c *gin.Context) {
	var req dto.CreateCreditNoteRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), actorFrom(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Issue godoc
// @Summary      Issue a drafted credit note
// @Description  Moves draft to issued and queues document rendering plus vendor notification.
// @Tags         credit-notes
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Credit note UUID"
// @Success      204
// @Failure      409 {object} apierror.APIError
// @Router       /v1/credit-notes/{id}/issue [patch]
func (h *CreditNotesHandler) Issue(c *gin.Context) {
	h.simple(c, h.svc.Issue)
}

// Accept godoc
// @Summary      Record the vendor's acceptance
// @Tags         credit-notes
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Credit note UUID"
// @Success      204
// @Failure      409 {object} apierror.APIError
// @Router       /v1/credit-notes/{id}/accept [patch]
func (h *CreditNotesHandler) Accept(c *gin.Context) {
	h.simple(c, h.svc.Accept)
}

// Settle godoc
// @Summary      Settle an accepted credit note
// @Tags         credit-notes
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Credit note UUID"
// @Success      204
// @Failure      409 {object} apierror.APIError
// @Router       /v1/credit-notes/{id}/settle [patch]
func (h *CreditNotesHandler) Settle(c *gin.Context) {
	h.simple(c, h.svc.Settle)
}

// Reject godoc
// @Summary      Record the vendor's rejection
// @Description  Returns the originating case to pending so another resolution can be attempted.
// @Tags         credit-notes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "Credit note UUID"
// @Param        body body dto.RejectCreditNoteRequest true "Rejection reason"
// @Success      204
// @Failure      409 {object} apierror.APIError
// @Router       /v1/credit-notes/{id}/reject [patch]
func (h *CreditNotesHandler) Reject(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req dto.RejectCreditNoteRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.Reject(c.Request.Context(), actorFrom(c), id, req); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Cancel godoc
// @Summary      Cancel an issued credit note
// @Tags         credit-notes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "Credit note UUID"
// @Param        body body dto.CancelCreditNoteRequest true "Cancellation reason"
// @Success      204
// @Failure      409 {object} apierror.APIError
// @Router       /v1/credit-notes/{id}/cancel [patch]
func (h *CreditNotesHandler) Cancel(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req dto.CancelCreditNoteRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.Cancel(c.Request.Context(), actorFrom(c), id, req); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// UpdateSettlement godoc
// @Summary      Advance the settlement sub-state
// @Description  pending → in_progress → {completed, failed}. completed requires the note to be settled and resolves the case.
// @Tags         credit-notes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "Credit note UUID"
// @Param        body body dto.UpdateSettlementRequest true "Target settlement status"
// @Success      204
// @Failure      400 {object} apierror.APIError
// @Failure      409 {object} apierror.APIError
// @Router       /v1/credit-notes/{id}/settlement [patch]
func (h *CreditNotesHandler) UpdateSettlement(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req dto.UpdateSettlementRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.UpdateSettlement(c.Request.Context(), actorFrom(c), id, req); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Get godoc
// @Summary      Get one credit note
// @Tags         credit-notes
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Credit note UUID"
// @Success      200 {object} dto.CreditNoteResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/credit-notes/{id} [get]
func (h *CreditNotesHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	resp, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// List godoc
// @Summary      List credit notes
// @Tags         credit-notes
// @Produce      json
// @Security     BearerAuth
// @Param        status query string false "draft | issued | accepted | rejected | settled | cancelled | all"
// @Param        type   query string false "full_return | partial_credit | adjustment"
// @Param        page   query int    false "Page (default 1)"
// @Param        limit  query int    false "Page size (default 50)"
// @Success      200 {object} dto.CreditNoteListResponse
// @Router       /v1/credit-notes [get]
func (h *CreditNotesHandler) List(c *gin.Context) {
	var filter dto.CreditNoteFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Document godoc
// @Summary      Download the rendered credit note PDF
// @Tags         credit-notes
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        id path string true "Credit note UUID"
// @Success      200 {file} binary
// @Failure      404 {object} apierror.APIError
// @Router       /v1/credit-notes/{id}/document [get]
func (h *CreditNotesHandler) Document(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	fileName, err := h.svc.DocumentPath(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.FileAttachment(filepath.Join(h.storagePath, fileName), fileName)
}

func (h *CreditNotesHandler) simple(c *gin.Context, fn func(ctx context.Context, actor service.Actor, id uuid.UUID) error) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	if err := fn(c.Request.Context(), actorFrom(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
