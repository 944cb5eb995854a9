package handler

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	appreport "github.com/retailops/backend/internal/application/report"
	"github.com/retailops/backend/internal/domain/report"
)

// dateParamLayout is the wire format of fromDate/toDate query parameters
const dateParamLayout = "2006-01-02"

// ReportHandler handles sales report endpoints
type ReportHandler struct {
	BaseHandler
	reportService *appreport.Service
	sinks         map[appreport.Format]appreport.ExportSink
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService *appreport.Service, sinks map[appreport.Format]appreport.ExportSink) *ReportHandler {
	return &ReportHandler{reportService: reportService, sinks: sinks}
}

// RegisterRoutes registers report routes on the given group
func (h *ReportHandler) RegisterRoutes(rg *gin.RouterGroup) {
	reports := rg.Group("/reports/sales")
	reports.GET("/daily", h.Daily)
	reports.GET("/weekly", h.Weekly)
	reports.GET("/monthly", h.Monthly)
	reports.GET("/custom", h.Custom)
}

// Daily serves the rolling daily sales report
func (h *ReportHandler) Daily(c *gin.Context) {
	h.serve(c, appreport.Request{Kind: report.KindDaily})
}

// Weekly serves the current ISO week sales report
func (h *ReportHandler) Weekly(c *gin.Context) {
	h.serve(c, appreport.Request{Kind: report.KindWeekly})
}

// Monthly serves the current calendar month sales report
func (h *ReportHandler) Monthly(c *gin.Context) {
	h.serve(c, appreport.Request{Kind: report.KindMonthly})
}

// Custom serves a sales report over an explicit date range. The fromDate
// and toDate query parameters are calendar dates; the range is inclusive
// of the entire toDate day.
func (h *ReportHandler) Custom(c *gin.Context) {
	req := appreport.Request{Kind: report.KindCustom}

	if raw := c.Query("fromDate"); raw != "" {
		parsed, err := time.Parse(dateParamLayout, raw)
		if err != nil {
			h.BadRequestMessage(c, "Invalid fromDate, expected YYYY-MM-DD")
			return
		}
		req.From = &parsed
	}
	if raw := c.Query("toDate"); raw != "" {
		parsed, err := time.Parse(dateParamLayout, raw)
		if err != nil {
			h.BadRequestMessage(c, "Invalid toDate, expected YYYY-MM-DD")
			return
		}
		req.To = &parsed
	}

	h.serve(c, req)
}

// serve generates the report and streams it through the requested sink
func (h *ReportHandler) serve(c *gin.Context, req appreport.Request) {
	format, err := appreport.ParseFormat(c.Query("format"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	sink, ok := h.sinks[format]
	if !ok {
		h.BadRequestMessage(c, "Export format not available: "+string(format))
		return
	}

	rep, err := h.reportService.Generate(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	export, err := sink.Export(c.Request.Context(), rep)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	if export.Filename != "" {
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename))
	}
	c.Data(200, export.ContentType, export.Body)
}
