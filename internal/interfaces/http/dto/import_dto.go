package dto

// ScheduleImportRequest represents the request to register a recurring import
type ScheduleImportRequest struct {
	SourceType string `json:"source_type" binding:"required,oneof=CSV QUICKBOOKS XERO"`
	Schedule   string `json:"schedule" binding:"required"`
}

// ScheduleImportResponse represents the response for a scheduled import job
type ScheduleImportResponse struct {
	JobID      string `json:"job_id"`
	SourceType string `json:"source_type"`
	Schedule   string `json:"schedule"`
}

// QuickBooksImportRequest represents the request to pull data from QuickBooks
type QuickBooksImportRequest struct {
	AccessToken  string `json:"access_token" binding:"required"`
	RefreshToken string `json:"refresh_token"`
	RealmID      string `json:"realm_id" binding:"required"`
}

// XeroImportRequest represents the request to pull data from Xero
type XeroImportRequest struct {
	AccessToken string `json:"access_token" binding:"required"`
	TenantID    string `json:"tenant_id" binding:"required"`
}
