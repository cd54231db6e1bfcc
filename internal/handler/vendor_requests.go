package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/codigix/passion-clothing-sub009/internal/apierror"
	"github.com/codigix/passion-clothing-sub009/internal/dto"
	"github.com/codigix/passion-clothing-sub009/internal/service"
)

type VendorRequestsHandler struct{ svc service.VendorRequestService }

func NewVendorRequestsHandler(svc service.VendorRequestService) *VendorRequestsHandler {
	return &VendorRequestsHandler{svc: svc}
}

// Create godoc
// @Summary      Raise a vendor request from an open case
// @Description  Copies the case's outstanding positions into a formal shortage/overage follow-up and marks the case in progress.
// @Tags         vendor-requests
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreateVendorRequestRequest true "Originating case"
// @Success      201 {object} dto.VendorRequestResponse
// @Failure      400 {object} apierror.APIError
// @Failure      404 {object} apierror.APIError
// @Router       /v1/vendor-requests [post]
func (h *VendorRequestsHandler) Create(c *gin.Context) {
	var req dto.CreateVendorRequestRequest
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

// Send godoc
// @Summary      Send a pending request to the vendor
// @Tags         vendor-requests
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Request UUID"
// @Success      204
// @Failure      409 {object} apierror.APIError
// @Router       /v1/vendor-requests/{id}/send [patch]
func (h *VendorRequestsHandler) Send(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	if err := h.svc.Send(c.Request.Context(), actorFrom(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Acknowledge godoc
// @Summary      Record the vendor's acknowledgement
// @Tags         vendor-requests
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Request UUID"
// @Success      204
// @Failure      409 {object} apierror.APIError
// @Router       /v1/vendor-requests/{id}/acknowledge [patch]
func (h *VendorRequestsHandler) Acknowledge(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	if err := h.svc.Acknowledge(c.Request.Context(), actorFrom(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// MarkInTransit godoc
// @Summary      Mark the replacement shipment in transit
// @Tags         vendor-requests
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Request UUID"
// @Success      204
// @Failure      409 {object} apierror.APIError
// @Router       /v1/vendor-requests/{id}/in-transit [patch]
func (h *VendorRequestsHandler) MarkInTransit(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	if err := h.svc.MarkInTransit(c.Request.Context(), actorFrom(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Fulfill godoc
// @Summary      Fulfill a request with a new goods receipt
// @Description  Links the replacement receipt and closes the originating case when its outstanding quantities are covered.
// @Tags         vendor-requests
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "Request UUID"
// @Param        body body dto.FulfillVendorRequestRequest true "Fulfillment receipt"
// @Success      204
// @Failure      400 {object} apierror.APIError
// @Failure      409 {object} apierror.APIError
// @Router       /v1/vendor-requests/{id}/fulfill [patch]
func (h *VendorRequestsHandler) Fulfill(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req dto.FulfillVendorRequestRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.Fulfill(c.Request.Context(), actorFrom(c), id, req); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Cancel godoc
// @Summary      Cancel a request from any non-terminal state
// @Tags         vendor-requests
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "Request UUID"
// @Param        body body dto.CancelVendorRequestRequest true "Cancellation reason"
// @Success      204
// @Failure      409 {object} apierror.APIError
// @Router       /v1/vendor-requests/{id}/cancel [patch]
func (h *VendorRequestsHandler) Cancel(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req dto.CancelVendorRequestRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.Cancel(c.Request.Context(), actorFrom(c), id, req); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Get godoc
// @Summary      Get one vendor request
// @Tags         vendor-requests
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Request UUID"
// @Success      200 {object} dto.VendorRequestResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/vendor-requests/{id} [get]
func (h *VendorRequestsHandler) Get(c *gin.Context) {
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
// @Summary      List vendor requests
// @Tags         vendor-requests
// @Produce      json
// @Security     BearerAuth
// @Param        status query string false "pending | sent | acknowledged | in_transit | fulfilled | cancelled | all"
// @Param        type   query string false "shortage | overage"
// @Param        page   query int    false "Page (default 1)"
// @Param        limit  query int    false "Page size (default 50)"
// @Success      200 {object} dto.VendorRequestListResponse
// @Router       /v1/vendor-requests [get]
func (h *VendorRequestsHandler) List(c *gin.Context) {
	var filter dto.VendorRequestFilter
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
