package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/codigix/passion-clothing-sub009/internal/apierror"
	"github.com/codigix/passion-clothing-sub009/internal/dto"
	"github.com/codigix/passion-clothing-sub009/internal/service"
)

type CasesHandler struct{ svc service.CaseService }

func NewCasesHandler(svc service.CaseService) *CasesHandler { return &CasesHandler{svc: svc} }

// Get godoc
// @Summary      Get one discrepancy case
// @Tags         discrepancy-cases
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Case UUID"
// @Success      200 {object} dto.CaseResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/discrepancy-cases/{id} [get]
func (h *CasesHandler) Get(c *gin.Context) {
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
// @Summary      List discrepancy cases
// @Description  Newest first. Filter by status, complaint type and creation date.
// @Tags         discrepancy-cases
// @Produce      json
// @Security     BearerAuth
// @Param        status query string false "pending | in_progress | approved | rejected | skipped | canceled | all"
// @Param        type   query string false "shortage | overage | invoice_mismatch"
// @Param        from   query string false "YYYY-MM-DD"
// @Param        to     query string false "YYYY-MM-DD"
// @Param        page   query int    false "Page (default 1)"
// @Param        limit  query int    false "Page size (default 50)"
// @Success      200 {object} dto.CaseListResponse
// @Router       /v1/discrepancy-cases [get]
func (h *CasesHandler) List(c *gin.Context) {
	var filter dto.CaseFilter
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
