package handler

import (
	"context"
	"io"
	"mime/multipart"

	"github.com/fintech/wcm/internal/application/dataimport"
	"github.com/fintech/wcm/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// maxUploadSize bounds import uploads (10MB)
const maxUploadSize = 10 * 1024 * 1024

// importFunc is the shape shared by all CSV import service methods
type importFunc func(ctx context.Context, companyID uuid.UUID, fileName string, file io.Reader) (*dataimport.ImportReport, error)

// DataImportHandler handles CSV and connector import API endpoints
type DataImportHandler struct {
	BaseHandler
	service *dataimport.ImportService
}

// NewDataImportHandler creates a new DataImportHandler
func NewDataImportHandler(service *dataimport.ImportService) *DataImportHandler {
	return &DataImportHandler{service: service}
}

// ImportTransactions imports cash transactions from an uploaded CSV
func (h *DataImportHandler) ImportTransactions(c *gin.Context) {
	h.runCSVImport(c, h.service.ImportTransactions)
}

// ImportInvoices imports invoices from an uploaded CSV
func (h *DataImportHandler) ImportInvoices(c *gin.Context) {
	h.runCSVImport(c, h.service.ImportInvoices)
}

// ImportReceivables imports accounts receivable from an uploaded CSV
func (h *DataImportHandler) ImportReceivables(c *gin.Context) {
	h.runCSVImport(c, h.service.ImportReceivables)
}

// ImportPayables imports accounts payable from an uploaded CSV
func (h *DataImportHandler) ImportPayables(c *gin.Context) {
	h.runCSVImport(c, h.service.ImportPayables)
}

// ImportInventory imports inventory items from an uploaded CSV
func (h *DataImportHandler) ImportInventory(c *gin.Context) {
	h.runCSVImport(c, h.service.ImportInventory)
}

// runCSVImport handles the multipart plumbing shared by all CSV imports
func (h *DataImportHandler) runCSVImport(c *gin.Context, run importFunc) {
	companyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid company ID")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.BadRequest(c, "Missing file upload")
		return
	}
	if fileHeader.Size > maxUploadSize {
		h.Error(c, 413, dto.ErrCodeInvalidInput, "File exceeds maximum allowed size")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.InternalError(c, "Failed to read uploaded file")
		return
	}
	defer func(f multipart.File) { _ = f.Close() }(file)

	report, err := run(c.Request.Context(), companyID, fileHeader.Filename, file)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, report)
}

// ImportQuickBooks pulls company data through the QuickBooks connector
func (h *DataImportHandler) ImportQuickBooks(c *gin.Context) {
	companyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid company ID")
		return
	}

	var req dto.QuickBooksImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	report, err := h.service.ImportFromQuickBooks(c.Request.Context(), companyID,
		req.AccessToken, req.RefreshToken, req.RealmID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, report)
}

// ImportXero pulls company data through the Xero connector
func (h *DataImportHandler) ImportXero(c *gin.Context) {
	companyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid company ID")
		return
	}

	var req dto.XeroImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	report, err := h.service.ImportFromXero(c.Request.Context(), companyID, req.AccessToken, req.TenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, report)
}

// ScheduleImport registers a recurring import job for a company
func (h *DataImportHandler) ScheduleImport(c *gin.Context) {
	companyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid company ID")
		return
	}

	var req dto.ScheduleImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	jobID, err := h.service.ScheduleImportJob(c.Request.Context(), companyID, req.SourceType, req.Schedule)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, dto.ScheduleImportResponse{
		JobID:      jobID,
		SourceType: req.SourceType,
		Schedule:   req.Schedule,
	})
}

// CancelScheduledImport stops future firings of a scheduled import job
func (h *DataImportHandler) CancelScheduledImport(c *gin.Context) {
	jobID := c.Param("jobId")
	if jobID == "" {
		h.BadRequest(c, "Missing job ID")
		return
	}

	if err := h.service.CancelScheduledImportJob(c.Request.Context(), jobID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// RegisterRoutes registers import routes
func (h *DataImportHandler) RegisterRoutes(rg *gin.RouterGroup) {
	companies := rg.Group("/companies")
	{
		companies.POST("/:id/imports/transactions", h.ImportTransactions)
		companies.POST("/:id/imports/invoices", h.ImportInvoices)
		companies.POST("/:id/imports/receivables", h.ImportReceivables)
		companies.POST("/:id/imports/payables", h.ImportPayables)
		companies.POST("/:id/imports/inventory", h.ImportInventory)
		companies.POST("/:id/imports/quickbooks", h.ImportQuickBooks)
		companies.POST("/:id/imports/xero", h.ImportXero)
		companies.POST("/:id/imports/schedule", h.ScheduleImport)
	}

	imports := rg.Group("/imports")
	{
		imports.DELETE("/schedule/:jobId", h.CancelScheduledImport)
	}
}
