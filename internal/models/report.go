package models

import "fmt"

// ReportStatus is the overall outcome of a dry run.
type ReportStatus string

const (
	ReportSuccess ReportStatus = "success"
	ReportFailed  ReportStatus = "failed"
	ReportIssues  ReportStatus = "issues"
)

// ImportReport summarizes a dry run without committing anything.
type ImportReport struct {
	SourceName   string              `json:"source_name" yaml:"source_name"`
	TotalRows    int                 `json:"total_rows" yaml:"total_rows"`
	ValidCount   int                 `json:"valid_count" yaml:"valid_count"`
	SkippedCount int                 `json:"skipped_count" yaml:"skipped_count"`
	Diagnostics  []string            `json:"diagnostics" yaml:"diagnostics"`
	Records      []TransactionRecord `json:"records,omitempty" yaml:"records,omitempty"`
	// Fatal is set when the run stopped early; the last diagnostic explains why.
	Fatal bool `json:"fatal" yaml:"fatal"`
}

// Status classifies the report.
func (r ImportReport) Status() ReportStatus {
	switch {
	case len(r.Diagnostics) == 0 && r.ValidCount > 0:
		return ReportSuccess
	case len(r.Diagnostics) == 0:
		return ReportFailed
	default:
		return ReportIssues
	}
}

// Title returns the headline shown to the user.
func (r ImportReport) Title() string {
	switch r.Status() {
	case ReportSuccess:
		return "Test Successful!"
	case ReportFailed:
		return "Test Failed"
	default:
		return "Test Completed with Issues"
	}
}

// Summary returns the counters as text.
func (r ImportReport) Summary() string {
	if r.Status() == ReportFailed {
		return "No output produced."
	}
	return fmt.Sprintf("Processed %d lines.\nValid: %d\nSkipped: %d", r.TotalRows, r.ValidCount, r.SkippedCount)
}
