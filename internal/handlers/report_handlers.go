package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"cafepos/internal/reporting"
	"cafepos/internal/services"
	"cafepos/pkg/utils"

	"github.com/gin-gonic/gin"
)

// ReportHandler serves revenue reports and their exports.
type ReportHandler struct {
	cafeService services.CafeService
	now         func() time.Time
}

// NewReportHandler creates a new ReportHandler. Named ranges resolve around now.
func NewReportHandler(cs services.CafeService, now func() time.Time) *ReportHandler {
	if now == nil {
		now = time.Now
	}
	return &ReportHandler{cafeService: cs, now: now}
}

// reportRange reads either from/to (RFC3339) or range=daily|monthly. The default is today.
func (h *ReportHandler) reportRange(c *gin.Context) (time.Time, time.Time, bool) {
	fromStr, toStr := c.Query("from"), c.Query("to")
	if fromStr != "" || toStr != "" {
		from, err := time.Parse(time.RFC3339, fromStr)
		if err != nil {
			utils.RespondValidationFailed(c, "Invalid from format, expected RFC3339.")
			return time.Time{}, time.Time{}, false
		}
		to, err := time.Parse(time.RFC3339, toStr)
		if err != nil {
			utils.RespondValidationFailed(c, "Invalid to format, expected RFC3339.")
			return time.Time{}, time.Time{}, false
		}
		return from, to, true
	}

	from, to, err := reporting.NamedRange(c.DefaultQuery("range", reporting.RangeDaily), h.now())
	if err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return time.Time{}, time.Time{}, false
	}
	return from, to, true
}

func (h *ReportHandler) GetReport(c *gin.Context) {
	from, to, ok := h.reportRange(c)
	if !ok {
		return
	}
	summary, err := h.cafeService.ComputeReport(c.Request.Context(), from, to)
	if err != nil {
		respondServiceError(c, err, "GetReport: Error from cafeService.ComputeReport", "Failed to compute report.")
		return
	}
	c.JSON(http.StatusOK, summary)
}

// ExportReport renders the report as a csv or xlsx attachment.
func (h *ReportHandler) ExportReport(c *gin.Context) {
	format := c.DefaultQuery("format", reporting.FormatCSV)
	var contentType string
	switch format {
	case reporting.FormatCSV:
		contentType = "text/csv; charset=utf-8"
	case reporting.FormatXLSX:
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		utils.RespondValidationFailed(c, fmt.Sprintf("Unsupported export format %q.", format))
		return
	}

	from, to, ok := h.reportRange(c)
	if !ok {
		return
	}
	summary, err := h.cafeService.ComputeReport(c.Request.Context(), from, to)
	if err != nil {
		respondServiceError(c, err, "ExportReport: Error from cafeService.ComputeReport", "Failed to compute report.")
		return
	}

	var buf bytes.Buffer
	if err := reporting.Write(&buf, format, *summary); err != nil {
		respondServiceError(c, err, "ExportReport: Error rendering report", "Failed to export report.")
		return
	}
	filename := fmt.Sprintf("bericht_%s_%s.%s", from.Format("20060102"), to.Format("20060102"), format)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, buf.Bytes())
}
