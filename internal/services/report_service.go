package services

import (
	"context"
	"math"
	"sort"
	"time"

	"go.uber.org/zap"

	"taskmate/internal/authz"
	"taskmate/internal/export"
	"taskmate/internal/i18n"
	"taskmate/internal/models"
	"taskmate/internal/repositories"
)

const taskPreviewLimit = 3

// ReportService orchestrates one report computation: resolve the user's
// locale and timezone, compute the window, fetch the task snapshot, derive
// counts and metrics, render the summary and optionally export a document.
// Each call is a self-contained read; the only side effect is the file write.
type ReportService struct {
	tasks           repositories.TaskRepository
	users           repositories.UserRepository
	exporter        *export.Exporter
	loc             *i18n.Localizer
	defaultTimezone string
	log             *zap.Logger
	now             func() time.Time
}

func NewReportService(
	tasks repositories.TaskRepository,
	users repositories.UserRepository,
	exporter *export.Exporter,
	loc *i18n.Localizer,
	defaultTimezone string,
	log *zap.Logger,
) *ReportService {
	return &ReportService{
		tasks:           tasks,
		users:           users,
		exporter:        exporter,
		loc:             loc,
		defaultTimezone: defaultTimezone,
		log:             log,
		now:             time.Now,
	}
}

func (s *ReportService) Generate(
	ctx context.Context, req models.ReportRequest, principal authz.Principal,
) (*models.ReportResponse, error) {
	var user *models.User
	if req.UserID != nil {
		fetched, err := s.users.FindByID(ctx, *req.UserID)
		if err != nil {
			return nil, err
		}
		user = fetched
	}

	rawLocale := req.Locale
	if rawLocale == "" && user != nil {
		rawLocale = user.Language
	}
	locale := s.loc.Normalize(rawLocale)

	tzName := req.Timezone
	if tzName == "" && user != nil {
		tzName = user.Timezone
	}
	tz := resolveTimezone(tzName, s.defaultTimezone, s.log)

	windowStart, windowEnd, anchor := calculateWindow(req.ReportType, req.Date, tz, s.now())
	scope := resolveScope(req)

	tasks, err := s.tasks.FetchWindow(ctx, models.ReportFilter{
		UserID:         req.UserID,
		OrganizationID: req.OrganizationID,
		ProjectID:      req.ProjectID,
		TeamID:         req.TeamID,
	}, windowStart, windowEnd)
	if err != nil {
		return nil, err
	}

	counts := computeCounts(tasks, s.now())
	renderer := summaryRenderer{loc: s.loc}

	var (
		summary      string
		nextTasks    []models.ReportTask
		overdueTasks []models.ReportTask
		metrics      *models.OrgMetrics
		fileURL      *string
	)

	if scope == models.ScopeUser {
		nextTasks = selectNextTasks(tasks, tz, taskPreviewLimit)
		overdueTasks = selectOverdueTasks(tasks, tz, s.now(), taskPreviewLimit)
		summary = renderer.userSummary(userSummaryInput{
			Locale:       locale,
			ReportType:   req.ReportType,
			Anchor:       anchor,
			Counts:       counts,
			NextTasks:    nextTasks,
			OverdueTasks: overdueTasks,
			Timezone:     tz,
			WindowStart:  windowStart,
			WindowEnd:    windowEnd,
		})

		switch req.Format {
		case models.FormatPDF:
			path, err := s.exporter.ExportUserPDF(export.UserPDFData{
				Locale:      locale,
				Timezone:    tz,
				ReportType:  req.ReportType,
				Subject:     principal.Subject,
				Counts:      counts,
				Summary:     summary,
				Tasks:       tasks,
				WindowStart: windowStart,
				WindowEnd:   windowEnd,
			})
			if err != nil {
				return nil, err
			}
			fileURL = &path
		case models.FormatCSV:
			s.log.Warn("report.format.unsupported",
				zap.String("scope", string(scope)), zap.String("format", string(req.Format)))
		}
	} else {
		m := s.computeOrgMetrics(tasks, tz, locale)
		metrics = &m
		summary = renderer.orgSummary(orgSummaryInput{
			Locale:      locale,
			Scope:       scope,
			ReportType:  req.ReportType,
			Counts:      counts,
			Metrics:     m,
			Timezone:    tz,
			WindowStart: windowStart,
			WindowEnd:   windowEnd,
		})

		switch req.Format {
		case models.FormatCSV:
			path, err := s.exporter.ExportOrgCSV(export.OrgCSVData{
				Locale:      locale,
				Timezone:    tz,
				ReportType:  req.ReportType,
				Scope:       scope,
				Subject:     principal.Subject,
				Metrics:     m,
				WindowStart: windowStart,
				WindowEnd:   windowEnd,
			})
			if err != nil {
				return nil, err
			}
			fileURL = &path
		case models.FormatPDF:
			s.log.Warn("report.format.unsupported",
				zap.String("scope", string(scope)), zap.String("format", string(req.Format)))
		}
	}

	s.log.Info("report.generated",
		zap.String("scope", string(scope)),
		zap.String("report", string(req.ReportType)),
		zap.Any("user", req.UserID),
		zap.Any("organization", req.OrganizationID),
		zap.Any("team", req.TeamID),
		zap.Any("project", req.ProjectID),
		zap.Int("task_count", len(tasks)),
	)

	format := req.Format
	if format == "" {
		format = models.FormatText
	}
	return &models.ReportResponse{
		ReportType:   req.ReportType,
		Scope:        scope,
		Summary:      summary,
		Counts:       counts,
		NextTasks:    nextTasks,
		OverdueTasks: overdueTasks,
		Metrics:      metrics,
		FileURL:      fileURL,
		Format:       format,
		GeneratedAt:  s.now().UTC(),
	}, nil
}

// resolveScope picks the aggregation granularity; first explicit identifier
// wins, in user > project > team > organization order.
func resolveScope(req models.ReportRequest) models.ReportScope {
	switch {
	case req.UserID != nil:
		return models.ScopeUser
	case req.ProjectID != nil:
		return models.ScopeProject
	case req.TeamID != nil:
		return models.ScopeTeam
	case req.OrganizationID != nil:
		return models.ScopeOrganization
	default:
		return models.ScopeUser
	}
}

func computeCounts(tasks []models.Task, now time.Time) models.ReportCounts {
	counts := models.ReportCounts{}
	for i := range tasks {
		counts.Total++
		if tasks[i].IsCompleted() {
			counts.Completed++
		} else if tasks[i].IsOverdue(now) {
			counts.Overdue++
		}
	}
	return counts
}

// selectNextTasks returns the top pending tasks ordered by due time (tasks
// without a due date sort last) and then creation time.
func selectNextTasks(tasks []models.Task, tz *time.Location, limit int) []models.ReportTask {
	var pending []models.Task
	for i := range tasks {
		if !tasks[i].IsCompleted() {
			pending = append(pending, tasks[i])
		}
	}
	sentinel := time.Unix(1<<62-1, 0)
	due := func(t *models.Task) time.Time {
		if t.DueAt != nil {
			return *t.DueAt
		}
		return sentinel
	}
	sort.SliceStable(pending, func(i, j int) bool {
		di, dj := due(&pending[i]), due(&pending[j])
		if !di.Equal(dj) {
			return di.Before(dj)
		}
		return pending[i].CreatedAt.Before(pending[j].CreatedAt)
	})
	if len(pending) > limit {
		pending = pending[:limit]
	}
	return toReportTasks(pending, tz)
}

func selectOverdueTasks(tasks []models.Task, tz *time.Location, now time.Time, limit int) []models.ReportTask {
	var overdue []models.Task
	for i := range tasks {
		if tasks[i].IsOverdue(now) {
			overdue = append(overdue, tasks[i])
		}
	}
	sort.SliceStable(overdue, func(i, j int) bool {
		return overdue[i].DueAt.Before(*overdue[j].DueAt)
	})
	if len(overdue) > limit {
		overdue = overdue[:limit]
	}
	return toReportTasks(overdue, tz)
}

func toReportTasks(tasks []models.Task, tz *time.Location) []models.ReportTask {
	out := make([]models.ReportTask, 0, len(tasks))
	for i := range tasks {
		rt := models.ReportTask{
			ID:       tasks[i].ID,
			Title:    tasks[i].Title,
			Status:   tasks[i].Status,
			Priority: string(tasks[i].Priority),
		}
		if tasks[i].DueAt != nil {
			local := tasks[i].DueAt.In(tz)
			rt.DueAt = &local
		}
		out = append(out, rt)
	}
	return out
}

// computeOrgMetrics derives the aggregate block for organization-family
// scopes. The overdue trend buckets by the raw due date in the resolution
// zone and sorts chronologically before formatting the label, so localized
// labels can never reorder the series.
func (s *ReportService) computeOrgMetrics(tasks []models.Task, tz *time.Location, locale string) models.OrgMetrics {
	throughput := 0
	completed := 0
	activeUsers := map[int64]struct{}{}
	type bucket struct {
		date  time.Time
		count int
	}
	buckets := map[string]*bucket{}

	for i := range tasks {
		task := &tasks[i]
		throughput++
		if task.UserID != nil {
			activeUsers[*task.UserID] = struct{}{}
		}
		if task.IsCompleted() {
			completed++
		} else if task.DueAt != nil {
			local := task.DueAt.In(tz)
			key := local.Format("2006-01-02")
			if b, ok := buckets[key]; ok {
				b.count++
			} else {
				buckets[key] = &bucket{date: local, count: 1}
			}
		}
	}

	keys := make([]string, 0, len(buckets))
	for key := range buckets {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	trend := make([]models.TrendPoint, 0, len(keys))
	for _, key := range keys {
		b := buckets[key]
		trend = append(trend, models.TrendPoint{
			Period:  s.loc.FormatDate(b.date, locale, tz, "medium"),
			Overdue: b.count,
		})
	}

	rate := 0.0
	if throughput > 0 {
		rate = math.Round(float64(completed)/float64(throughput)*1000) / 10
	}

	return models.OrgMetrics{
		Throughput:     throughput,
		CompletionRate: rate,
		OverdueTrend:   trend,
		ActiveUsers:    len(activeUsers),
	}
}
