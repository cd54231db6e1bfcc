package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/codigix/passion-clothing-sub009/internal/apierror"
	"github.com/codigix/passion-clothing-sub009/internal/dto"
	"github.com/codigix/passion-clothing-sub009/internal/service"
)

type AuditHandler struct{ svc service.AuditService }

func NewAuditHandler(svc service.AuditService) *AuditHandler { return &AuditHandler{svc: svc} }

// List godoc
// @Summary      Query the audit trail for one entity
// @Description  Append-only history of every state transition, oldest first.
// @Tags         audit-trail
// @Produce      json
// @Security     BearerAuth
// @Param        entity_type query string true  "grn | discrepancy_case | vendor_request | credit_note"
// @Param        entity_id   query string true  "Entity UUID"
// @Param        page        query int    false "Page (default 1)"
// @Param        limit       query int    false "Page size (default 50)"
// @Success      200 {object} dto.AuditListResponse
// @Failure      422 {object} apierror.ValidationError
// @Router       /v1/audit-trail [get]
func (h *AuditHandler) List(c *gin.Context) {
	var filter dto.AuditFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	if err := validate.Struct(filter); err != nil {
		c.JSON(http.StatusUnprocessableEntity, apierror.New("entity_type and entity_id are required"))
		return
	}
	resp, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
