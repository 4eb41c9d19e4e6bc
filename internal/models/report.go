package models

import "time"

type ReportType string

const (
	ReportDaily   ReportType = "daily"
	ReportWeekly  ReportType = "weekly"
	ReportMonthly ReportType = "monthly"
)

type ReportScope string

const (
	ScopeUser         ReportScope = "user"
	ScopeOrganization ReportScope = "organization"
	ScopeTeam         ReportScope = "team"
	ScopeProject      ReportScope = "project"
)

type ReportFormat string

const (
	FormatText ReportFormat = "text"
	FormatPDF  ReportFormat = "pdf"
	FormatCSV  ReportFormat = "csv"
)

// ReportRequest is the transient description of one report computation.
// Date is interpreted as a calendar date (its time component is ignored).
type ReportRequest struct {
	ReportType     ReportType   `json:"report_type"`
	UserID         *int64       `json:"user_id,omitempty"`
	OrganizationID *int64       `json:"organization_id,omitempty"`
	TeamID         *int64       `json:"team_id,omitempty"`
	ProjectID      *int64       `json:"project_id,omitempty"`
	Date           *time.Time   `json:"date,omitempty"`
	Timezone       string       `json:"timezone,omitempty"`
	Locale         string       `json:"locale,omitempty"`
	Format         ReportFormat `json:"format,omitempty"`
}

type ReportCounts struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Overdue   int `json:"overdue"`
}

// ReportTask is the preview projection of a task inside a user-scope report.
// DueAt is localized to the resolution timezone.
type ReportTask struct {
	ID       int64      `json:"id"`
	Title    string     `json:"title"`
	Status   string     `json:"status,omitempty"`
	Priority string     `json:"priority,omitempty"`
	DueAt    *time.Time `json:"due_at,omitempty"`
}

// TrendPoint is one bucket of the overdue trend: a localized period label
// and the number of overdue tasks due on that date.
type TrendPoint struct {
	Period  string `json:"period"`
	Overdue int    `json:"overdue"`
}

type OrgMetrics struct {
	Throughput     int          `json:"throughput"`
	CompletionRate float64      `json:"completion_rate"`
	OverdueTrend   []TrendPoint `json:"overdue_trend"`
	ActiveUsers    int          `json:"active_users"`
}

type ReportResponse struct {
	ReportType   ReportType   `json:"report_type"`
	Scope        ReportScope  `json:"scope"`
	Summary      string       `json:"summary"`
	Counts       ReportCounts `json:"counts"`
	NextTasks    []ReportTask `json:"next_tasks,omitempty"`
	OverdueTasks []ReportTask `json:"overdue_tasks,omitempty"`
	Metrics      *OrgMetrics  `json:"metrics,omitempty"`
	FileURL      *string      `json:"file_url,omitempty"`
	Format       ReportFormat `json:"format"`
	GeneratedAt  time.Time    `json:"generated_at"`
}
