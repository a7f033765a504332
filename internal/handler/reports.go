package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/B0bbyBrown/ExpendiForge/internal/apierror"
	"github.com/B0bbyBrown/ExpendiForge/internal/dto"
	"github.com/B0bbyBrown/ExpendiForge/internal/service"

	"github.com/gin-gonic/gin"
)

type ReportsHandler struct{ svc service.ReportService }

func NewReportsHandler(svc service.ReportService) *ReportsHandler {
	return &ReportsHandler{svc: svc}
}

// Dashboard godoc
// @Summary      Admin spending dashboard
// @Description  Filtered purchase list plus global summary totals (grand, per category, top-10 vendors, per type, per month). Summary ignores the filters.
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Param        search    query string false "Substring of description or vendor"
// @Param        category  query string false "Category UUID"
// @Param        vendor    query string false "Exact vendor name"
// @Param        type      query string false "Exact purchase type"
// @Param        date_from query string false "YYYY-MM-DD"
// @Param        date_to   query string false "YYYY-MM-DD"
// @Success      200 {object} dto.DashboardResponse
// @Failure      400 {object} apierror.APIError
// @Router       /v1/dashboard [get]
func (h *ReportsHandler) Dashboard(c *gin.Context) {
	var filter dto.PurchaseFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.Dashboard(c.Request.Context(), filter)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCriterion) {
			c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
			return
		}
		c.JSON(http.StatusInternalServerError, apierror.New("Could not build dashboard"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Export godoc
// @Summary      CSV export of filtered purchases
// @Description  Same filter semantics as the dashboard. Returns a downloadable CSV attachment.
// @Tags         reports
// @Produce      text/csv
// @Security     BearerAuth
// @Param        search    query string false "Substring of description or vendor"
// @Param        category  query string false "Category UUID"
// @Param        vendor    query string false "Exact vendor name"
// @Param        type      query string false "Exact purchase type"
// @Param        date_from query string false "YYYY-MM-DD"
// @Param        date_to   query string false "YYYY-MM-DD"
// @Success      200 {string} string "CSV content"
// @Failure      400 {object} apierror.APIError
// @Router       /v1/export [get]
func (h *ReportsHandler) Export(c *gin.Context) {
	var filter dto.PurchaseFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	data, name, err := h.svc.ExportCSV(c.Request.Context(), filter)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCriterion) {
			c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
			return
		}
		c.JSON(http.StatusInternalServerError, apierror.New("Could not export purchases"))
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, "text/csv", data)
}
