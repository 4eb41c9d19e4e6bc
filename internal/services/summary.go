package services

import (
	"fmt"
	"strings"
	"time"

	"taskmate/internal/i18n"
	"taskmate/internal/models"
)

// summaryRenderer produces the newline-joined human-readable report body.
// Every user-visible string goes through the localization seam.
type summaryRenderer struct {
	loc *i18n.Localizer
}

type userSummaryInput struct {
	Locale       string
	ReportType   models.ReportType
	Anchor       time.Time
	Counts       models.ReportCounts
	NextTasks    []models.ReportTask
	OverdueTasks []models.ReportTask
	Timezone     *time.Location
	WindowStart  time.Time
	WindowEnd    time.Time
}

func (r summaryRenderer) userSummary(in userSummaryInput) string {
	headerKey := map[models.ReportType]string{
		models.ReportDaily:   "report_user_header_daily",
		models.ReportWeekly:  "report_user_header_weekly",
		models.ReportMonthly: "report_user_header_monthly",
	}[in.ReportType]
	if headerKey == "" {
		headerKey = "report_user_header_daily"
	}

	lines := []string{
		r.loc.Translate(in.Locale, headerKey, map[string]any{
			"date": r.loc.FormatDate(in.Anchor, in.Locale, in.Timezone, "medium"),
		}),
		r.countsLine(in.Locale, in.Counts),
		r.periodLine(in.Locale, in.Timezone, in.WindowStart, in.WindowEnd),
	}

	if in.Counts.Total == 0 {
		lines = append(lines, r.loc.Translate(in.Locale, "report_user_no_tasks", nil))
		return strings.Join(lines, "\n")
	}

	if len(in.NextTasks) > 0 {
		lines = append(lines, r.loc.Translate(in.Locale, "report_user_next_header", nil))
		lines = append(lines, r.taskLines(in.Locale, in.Timezone, in.NextTasks)...)
	}

	if len(in.OverdueTasks) > 0 {
		lines = append(lines, r.loc.Translate(in.Locale, "report_user_overdue_header", nil))
		lines = append(lines, r.taskLines(in.Locale, in.Timezone, in.OverdueTasks)...)
	} else {
		lines = append(lines, r.loc.Translate(in.Locale, "report_user_overdue_empty", nil))
	}

	return strings.Join(lines, "\n")
}

type orgSummaryInput struct {
	Locale      string
	Scope       models.ReportScope
	ReportType  models.ReportType
	Counts      models.ReportCounts
	Metrics     models.OrgMetrics
	Timezone    *time.Location
	WindowStart time.Time
	WindowEnd   time.Time
}

func (r summaryRenderer) orgSummary(in orgSummaryInput) string {
	periodKey := map[models.ReportType]string{
		models.ReportDaily:   "report_period_label_daily",
		models.ReportWeekly:  "report_period_label_weekly",
		models.ReportMonthly: "report_period_label_monthly",
	}[in.ReportType]
	if periodKey == "" {
		periodKey = "report_period_label_daily"
	}
	headerKey := map[models.ReportScope]string{
		models.ScopeOrganization: "report_org_header_organization",
		models.ScopeTeam:         "report_org_header_team",
		models.ScopeProject:      "report_org_header_project",
	}[in.Scope]
	if headerKey == "" {
		headerKey = "report_org_header_organization"
	}

	lines := []string{
		r.loc.Translate(in.Locale, headerKey, map[string]any{
			"period": r.loc.Translate(in.Locale, periodKey, nil),
		}),
		r.countsLine(in.Locale, in.Counts),
		r.loc.Translate(in.Locale, "report_org_throughput", map[string]any{
			"count": in.Metrics.Throughput,
		}),
		r.loc.Translate(in.Locale, "report_org_completion_rate", map[string]any{
			"rate": fmt.Sprintf("%.1f", in.Metrics.CompletionRate),
		}),
		r.loc.Translate(in.Locale, "report_org_active_users", map[string]any{
			"count": in.Metrics.ActiveUsers,
		}),
	}

	if len(in.Metrics.OverdueTrend) > 0 {
		entries := make([]string, 0, len(in.Metrics.OverdueTrend))
		for _, point := range in.Metrics.OverdueTrend {
			entries = append(entries, r.loc.Translate(in.Locale, "report_org_trend_entry", map[string]any{
				"period":  point.Period,
				"overdue": point.Overdue,
			}))
		}
		lines = append(lines, r.loc.Translate(in.Locale, "report_org_overdue_trend", map[string]any{
			"trend": strings.Join(entries, ", "),
		}))
	} else {
		lines = append(lines, r.loc.Translate(in.Locale, "report_org_no_trend", nil))
	}

	lines = append(lines, r.periodLine(in.Locale, in.Timezone, in.WindowStart, in.WindowEnd))
	return strings.Join(lines, "\n")
}

func (r summaryRenderer) countsLine(locale string, counts models.ReportCounts) string {
	return r.loc.Translate(locale, "report_user_counts", map[string]any{
		"total":     counts.Total,
		"completed": counts.Completed,
		"overdue":   counts.Overdue,
	})
}

func (r summaryRenderer) periodLine(locale string, tz *time.Location, start, end time.Time) string {
	return r.loc.Translate(locale, "report_period", map[string]any{
		"start": r.loc.FormatDateTime(start, locale, tz, "short"),
		"end":   r.loc.FormatDateTime(end, locale, tz, "short"),
	})
}

func (r summaryRenderer) taskLines(locale string, tz *time.Location, tasks []models.ReportTask) []string {
	lines := make([]string, 0, len(tasks))
	for _, task := range tasks {
		if task.DueAt != nil {
			lines = append(lines, r.loc.Translate(locale, "report_user_task_line", map[string]any{
				"title": task.Title,
				"due":   r.loc.FormatDateTime(*task.DueAt, locale, tz, "short"),
			}))
		} else {
			lines = append(lines, r.loc.Translate(locale, "report_user_task_line_no_due", map[string]any{
				"title": task.Title,
			}))
		}
	}
	return lines
}
