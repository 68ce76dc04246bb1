package dataimport

import (
	"fmt"
	"time"
)

// ImportStatus is the overall outcome of one import run
type ImportStatus string

const (
	// StatusCompleted means every row imported successfully
	StatusCompleted ImportStatus = "COMPLETED"
	// StatusPartiallyCompleted means some rows imported and some failed
	StatusPartiallyCompleted ImportStatus = "PARTIALLY_COMPLETED"
	// StatusFailed means the file could not be processed at all
	StatusFailed ImportStatus = "FAILED"
)

// ImportReport summarizes one import run. Row errors are collected in input
// order; a failed row never aborts the run.
type ImportReport struct {
	ImportType        string       `json:"import_type"`
	Source            string       `json:"source"`
	FileName          string       `json:"file_name,omitempty"`
	ImportDate        time.Time    `json:"import_date"`
	TotalRecords      int          `json:"total_records"`
	SuccessfulRecords int          `json:"successful_records"`
	FailedRecords     int          `json:"failed_records"`
	Status            ImportStatus `json:"status"`
	Errors            []string     `json:"errors,omitempty"`
	Warnings          []string     `json:"warnings,omitempty"`
	Summary           string       `json:"summary,omitempty"`
}

func newReport(importType, source, fileName string) *ImportReport {
	return &ImportReport{
		ImportType: importType,
		Source:     source,
		FileName:   fileName,
		ImportDate: time.Now(),
		Status:     StatusCompleted,
	}
}

// AddError appends an error message to the report
func (r *ImportReport) AddError(msg string) {
	r.Errors = append(r.Errors, msg)
}

// AddWarning appends a warning message to the report
func (r *ImportReport) AddWarning(msg string) {
	r.Warnings = append(r.Warnings, msg)
}

// recordRowFailure counts a failed row and records its error in input order
func (r *ImportReport) recordRowFailure(rowNum int, err error) {
	r.FailedRecords++
	r.AddError(fmt.Sprintf("row %d: %s", rowNum, err.Error()))
}

// fail marks the whole run as failed
func (r *ImportReport) fail(msg string) *ImportReport {
	r.Status = StatusFailed
	r.AddError(msg)
	r.Summary = msg
	return r
}

// finalize sets the final status and summary from the row counts
func (r *ImportReport) finalize(noun string) {
	if r.FailedRecords > 0 {
		r.Status = StatusPartiallyCompleted
	}
	r.Summary = fmt.Sprintf("Imported %d out of %d %s.", r.SuccessfulRecords, r.TotalRecords, noun)
}
