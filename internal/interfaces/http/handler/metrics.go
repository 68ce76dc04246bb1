package handler

import (
	"time"

	"github.com/fintech/wcm/internal/application/workingcapital"
	"github.com/fintech/wcm/internal/domain/metrics"
	"github.com/fintech/wcm/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// queryDateLayout is the date format accepted in query parameters
const queryDateLayout = "2006-01-02"

// MetricsHandler handles working capital metrics API endpoints
type MetricsHandler struct {
	BaseHandler
	builder *workingcapital.MetricsSnapshotBuilder
}

// NewMetricsHandler creates a new MetricsHandler
func NewMetricsHandler(builder *workingcapital.MetricsSnapshotBuilder) *MetricsHandler {
	return &MetricsHandler{builder: builder}
}

// GetMetrics returns the current working capital snapshot for a company.
// An optional as_of query parameter (yyyy-MM-dd) stamps the snapshot date.
func (h *MetricsHandler) GetMetrics(c *gin.Context) {
	companyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid company ID")
		return
	}

	asOf := time.Now()
	if v := c.Query("as_of"); v != "" {
		asOf, err = time.Parse(queryDateLayout, v)
		if err != nil {
			h.Error(c, 400, dto.ErrCodeValidationFormat, "Invalid as_of date, expected yyyy-MM-dd")
			return
		}
	}

	snapshot, err := h.builder.BuildSnapshot(c.Request.Context(), companyID, asOf)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, snapshot)
}

// GetHistoricalMetrics returns snapshots over a date range at a given interval
func (h *MetricsHandler) GetHistoricalMetrics(c *gin.Context) {
	companyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid company ID")
		return
	}

	start, err := time.Parse(queryDateLayout, c.Query("start"))
	if err != nil {
		h.Error(c, 400, dto.ErrCodeValidationFormat, "Invalid start date, expected yyyy-MM-dd")
		return
	}
	end, err := time.Parse(queryDateLayout, c.Query("end"))
	if err != nil {
		h.Error(c, 400, dto.ErrCodeValidationFormat, "Invalid end date, expected yyyy-MM-dd")
		return
	}

	intervalParam := c.DefaultQuery("interval", string(metrics.IntervalDaily))
	interval, err := metrics.ParseInterval(intervalParam)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	series, err := h.builder.HistoricalMetrics(c.Request.Context(), companyID, start, end, interval)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, series)
}

// GetDashboard returns the dashboard summary: current snapshot, cash
// projection, alert counts and recommendations
func (h *MetricsHandler) GetDashboard(c *gin.Context) {
	companyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid company ID")
		return
	}

	summary, err := h.builder.BuildDashboardSummary(c.Request.Context(), companyID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}

// RegisterRoutes registers metrics routes
func (h *MetricsHandler) RegisterRoutes(rg *gin.RouterGroup) {
	companies := rg.Group("/companies")
	{
		companies.GET("/:id/metrics", h.GetMetrics)
		companies.GET("/:id/metrics/historical", h.GetHistoricalMetrics)
		companies.GET("/:id/dashboard", h.GetDashboard)
	}
}
