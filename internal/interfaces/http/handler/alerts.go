package handler

import (
	"strings"

	"github.com/fintech/wcm/internal/application/alerting"
	"github.com/fintech/wcm/internal/domain/alert"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AlertHandler handles alert generation and lifecycle API endpoints
type AlertHandler struct {
	BaseHandler
	engine  *alerting.AlertRulesEngine
	service *alerting.AlertService
}

// NewAlertHandler creates a new AlertHandler
func NewAlertHandler(engine *alerting.AlertRulesEngine, service *alerting.AlertService) *AlertHandler {
	return &AlertHandler{
		engine:  engine,
		service: service,
	}
}

// GenerateAlertsResponse reports how many alerts a generation run produced
type GenerateAlertsResponse struct {
	CompanyID       string `json:"company_id"`
	AlertsGenerated int    `json:"alerts_generated"`
}

// GenerateAlerts runs all alert rule families for a company
func (h *AlertHandler) GenerateAlerts(c *gin.Context) {
	companyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid company ID")
		return
	}

	count, err := h.engine.GenerateAlerts(c.Request.Context(), companyID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, GenerateAlertsResponse{
		CompanyID:       companyID.String(),
		AlertsGenerated: count,
	})
}

// ListAlerts returns alerts for a company. Exactly one filter applies,
// checked in order: type, severity, unread, active; with no filter all
// alerts are returned newest first.
func (h *AlertHandler) ListAlerts(c *gin.Context) {
	companyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid company ID")
		return
	}
	ctx := c.Request.Context()

	var alerts []alert.Alert
	switch {
	case c.Query("type") != "":
		alerts, err = h.service.ListByType(ctx, companyID, alert.Type(strings.ToUpper(c.Query("type"))))
	case c.Query("severity") != "":
		alerts, err = h.service.ListBySeverity(ctx, companyID, alert.Severity(strings.ToUpper(c.Query("severity"))))
	case hasQueryFlag(c, "unread"):
		alerts, err = h.service.ListUnread(ctx, companyID)
	case hasQueryFlag(c, "active"):
		alerts, err = h.service.ListActive(ctx, companyID)
	default:
		alerts, err = h.service.List(ctx, companyID)
	}
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, alerts)
}

// GetUnreadCount returns the number of unread alerts for a company
func (h *AlertHandler) GetUnreadCount(c *gin.Context) {
	companyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid company ID")
		return
	}

	count, err := h.service.CountUnread(c.Request.Context(), companyID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"unread_count": count})
}

// MarkRead marks an alert as read
func (h *AlertHandler) MarkRead(c *gin.Context) {
	alertID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid alert ID")
		return
	}

	a, err := h.service.MarkRead(c.Request.Context(), alertID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, a)
}

// Dismiss dismisses an alert
func (h *AlertHandler) Dismiss(c *gin.Context) {
	alertID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid alert ID")
		return
	}

	a, err := h.service.Dismiss(c.Request.Context(), alertID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, a)
}

// hasQueryFlag reports whether a boolean query flag is present and not
// explicitly false ("?unread" and "?unread=true" both count)
func hasQueryFlag(c *gin.Context, name string) bool {
	v, ok := c.GetQuery(name)
	return ok && !strings.EqualFold(v, "false")
}

// RegisterRoutes registers alert routes
func (h *AlertHandler) RegisterRoutes(rg *gin.RouterGroup) {
	companies := rg.Group("/companies")
	{
		companies.POST("/:id/alerts/generate", h.GenerateAlerts)
		companies.GET("/:id/alerts", h.ListAlerts)
		companies.GET("/:id/alerts/unread-count", h.GetUnreadCount)
	}

	alerts := rg.Group("/alerts")
	{
		alerts.PUT("/:id/read", h.MarkRead)
		alerts.PUT("/:id/dismiss", h.Dismiss)
	}
}
