package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/codigix/passion-clothing-sub009/internal/apierror"
	"github.com/codigix/passion-clothing-sub009/internal/dto"
	"github.com/codigix/passion-clothing-sub009/internal/service"
)

type ReceiptsHandler struct{ svc service.ReceiptService }

func NewReceiptsHandler(svc service.ReceiptService) *ReceiptsHandler {
	return &ReceiptsHandler{svc: svc}
}

// Create godoc
// @Summary      Submit a goods receipt
// @Description  Classifies every line against the purchase order, spawns discrepancy cases, and applies received stock — all in one transaction.
// @Tags         goods-receipts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreateReceiptRequest true "Receipt submission"
// @Success      201  {object} dto.CreateReceiptResponse
// @Failure      404  {object} apierror.APIError
// @Failure      409  {object} apierror.APIError
// @Failure      422  {object} apierror.ValidationError
// @Router       /v1/goods-receipts [post]
func (h *ReceiptsHandler) Create(c *gin.Context) {
	var req dto.CreateReceiptRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateReceipt(c.Request.Context(), actorFrom(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Get godoc
// @Summary      Get one goods receipt
// @Tags         goods-receipts
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Receipt UUID"
// @Success      200 {object} dto.ReceiptResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/goods-receipts/{id} [get]
func (h *ReceiptsHandler) Get(c *gin.Context) {
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
// @Summary      List goods receipts
// @Tags         goods-receipts
// @Produce      json
// @Security     BearerAuth
// @Param        status query string false "pending | verified | discrepancy | approved | rejected | all"
// @Param        from   query string false "YYYY-MM-DD"
// @Param        to     query string false "YYYY-MM-DD"
// @Param        page   query int    false "Page (default 1)"
// @Param        limit  query int    false "Page size (default 50)"
// @Success      200 {object} dto.ReceiptListResponse
// @Router       /v1/goods-receipts [get]
func (h *ReceiptsHandler) List(c *gin.Context) {
	var filter dto.ReceiptFilter
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

// Approve godoc
// @Summary      Approve a reviewed receipt
// @Tags         goods-receipts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "Receipt UUID"
// @Param        body body dto.ReviewReceiptRequest true "Review reason"
// @Success      204
// @Failure      409 {object} apierror.APIError
// @Router       /v1/goods-receipts/{id}/approve [patch]
func (h *ReceiptsHandler) Approve(c *gin.Context) {
	h.review(c, h.svc.Approve)
}

// Reject godoc
// @Summary      Reject a reviewed receipt
// @Tags         goods-receipts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "Receipt UUID"
// @Param        body body dto.ReviewReceiptRequest true "Review reason"
// @Success      204
// @Failure      409 {object} apierror.APIError
// @Router       /v1/goods-receipts/{id}/reject [patch]
func (h *ReceiptsHandler) Reject(c *gin.Context) {
	h.review(c, h.svc.Reject)
}

func (h *ReceiptsHandler) review(c *gin.Context, fn func(ctx context.Context, actor service.Actor, id uuid.UUID, reason string) error) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req dto.ReviewReceiptRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := fn(c.Request.Context(), actorFrom(c), id, req.Reason); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
