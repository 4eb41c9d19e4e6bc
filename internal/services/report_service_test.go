package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"taskmate/internal/authz"
	"taskmate/internal/export"
	"taskmate/internal/i18n"
	"taskmate/internal/models"
)

type fakeTaskRepo struct {
	tasks     []models.Task
	gotFilter models.ReportFilter
	gotStart  time.Time
	gotEnd    time.Time
}

func (f *fakeTaskRepo) Store(_ context.Context, task *models.Task) error {
	task.ID = int64(len(f.tasks) + 1)
	f.tasks = append(f.tasks, *task)
	return nil
}

func (f *fakeTaskRepo) FindByID(_ context.Context, id int64) (*models.Task, error) {
	for i := range f.tasks {
		if f.tasks[i].ID == id {
			return &f.tasks[i], nil
		}
	}
	return nil, nil
}

func (f *fakeTaskRepo) FetchWindow(
	_ context.Context, filter models.ReportFilter, windowStart, windowEnd time.Time,
) ([]models.Task, error) {
	f.gotFilter = filter
	f.gotStart = windowStart
	f.gotEnd = windowEnd
	return f.tasks, nil
}

type fakeUserRepo struct {
	users map[int64]*models.User
}

func (f *fakeUserRepo) FindByID(_ context.Context, id int64) (*models.User, error) {
	return f.users[id], nil
}

var testNow = time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)

func newTestReportService(t *testing.T, tasks []models.Task, users map[int64]*models.User) (*ReportService, *fakeTaskRepo) {
	t.Helper()
	log := zap.NewNop()
	loc := i18n.New("en", log)
	exporter := export.NewExporter(t.TempDir(), "", loc, log)
	taskRepo := &fakeTaskRepo{tasks: tasks}
	svc := NewReportService(taskRepo, &fakeUserRepo{users: users}, exporter, loc, "UTC", log)
	svc.now = func() time.Time { return testNow }
	return svc, taskRepo
}

func ptrTime(t time.Time) *time.Time { return &t }
func ptrInt64(v int64) *int64        { return &v }

func TestComputeCounts(t *testing.T) {
	past := testNow.Add(-2 * time.Hour)
	future := testNow.Add(2 * time.Hour)
	tasks := []models.Task{
		{Status: "done"},
		{Status: "COMPLETED", DueAt: &past},
		{Status: "pending", EndAt: &past},
		{Status: "pending", DueAt: &past},
		{Status: "pending", DueAt: &future},
		{Status: "pending"},
	}

	counts := computeCounts(tasks, testNow)

	assert.Equal(t, 6, counts.Total)
	assert.Equal(t, 3, counts.Completed)
	assert.Equal(t, 1, counts.Overdue)
	assert.LessOrEqual(t, counts.Completed+counts.Overdue, counts.Total)
}

func TestResolveScopePrecedence(t *testing.T) {
	one := ptrInt64(1)
	tests := []struct {
		name string
		req  models.ReportRequest
		want models.ReportScope
	}{
		{"user wins over everything", models.ReportRequest{UserID: one, OrganizationID: one, TeamID: one, ProjectID: one}, models.ScopeUser},
		{"project wins over team and org", models.ReportRequest{OrganizationID: one, TeamID: one, ProjectID: one}, models.ScopeProject},
		{"team wins over org", models.ReportRequest{OrganizationID: one, TeamID: one}, models.ScopeTeam},
		{"org alone", models.ReportRequest{OrganizationID: one}, models.ScopeOrganization},
		{"nothing defaults to user", models.ReportRequest{}, models.ScopeUser},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, resolveScope(tt.req))
		})
	}
}

func TestComputeOrgMetricsCompletionRate(t *testing.T) {
	svc, _ := newTestReportService(t, nil, nil)

	tests := []struct {
		name  string
		tasks []models.Task
		want  float64
	}{
		{"no tasks", nil, 0.0},
		{"all completed", []models.Task{{Status: "done"}, {Status: "done"}}, 100.0},
		{"one of three", []models.Task{{Status: "done"}, {Status: "pending"}, {Status: "pending"}}, 33.3},
		{"two of three", []models.Task{{Status: "done"}, {Status: "done"}, {Status: "pending"}}, 66.7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := svc.computeOrgMetrics(tt.tasks, time.UTC, "en")
			assert.InDelta(t, tt.want, m.CompletionRate, 0.001)
			assert.GreaterOrEqual(t, m.CompletionRate, 0.0)
			assert.LessOrEqual(t, m.CompletionRate, 100.0)
		})
	}
}

func TestComputeOrgMetricsTrendChronological(t *testing.T) {
	svc, _ := newTestReportService(t, nil, nil)

	due := func(y int, m time.Month, d int) *time.Time {
		return ptrTime(time.Date(y, m, d, 10, 0, 0, 0, time.UTC))
	}
	// Deliberately out of order across a year boundary.
	tasks := []models.Task{
		{Status: "pending", DueAt: due(2024, 1, 2), UserID: ptrInt64(1)},
		{Status: "pending", DueAt: due(2023, 12, 30), UserID: ptrInt64(2)},
		{Status: "pending", DueAt: due(2024, 1, 2), UserID: ptrInt64(1)},
		{Status: "done", DueAt: due(2023, 12, 29), UserID: ptrInt64(3)},
	}

	m := svc.computeOrgMetrics(tasks, time.UTC, "en")

	require.Len(t, m.OverdueTrend, 2)
	assert.Equal(t, "Dec 30, 2023", m.OverdueTrend[0].Period)
	assert.Equal(t, 1, m.OverdueTrend[0].Overdue)
	assert.Equal(t, "Jan 2, 2024", m.OverdueTrend[1].Period)
	assert.Equal(t, 2, m.OverdueTrend[1].Overdue)
	assert.Equal(t, 4, m.Throughput)
	assert.Equal(t, 3, m.ActiveUsers)
}

func TestSelectNextTasksOrdering(t *testing.T) {
	early := testNow.Add(time.Hour)
	late := testNow.Add(3 * time.Hour)
	tasks := []models.Task{
		{ID: 1, Title: "no due", Status: "pending", CreatedAt: testNow.Add(-3 * time.Hour)},
		{ID: 2, Title: "late", Status: "pending", DueAt: &late, CreatedAt: testNow.Add(-2 * time.Hour)},
		{ID: 3, Title: "early", Status: "pending", DueAt: &early, CreatedAt: testNow.Add(-1 * time.Hour)},
		{ID: 4, Title: "completed", Status: "done", DueAt: &early},
	}

	got := selectNextTasks(tasks, time.UTC, 3)

	require.Len(t, got, 3)
	assert.Equal(t, int64(3), got[0].ID)
	assert.Equal(t, int64(2), got[1].ID)
	assert.Equal(t, int64(1), got[2].ID)
}

func TestGenerateUserScope(t *testing.T) {
	past := testNow.Add(-time.Hour)
	tasks := []models.Task{
		{ID: 1, Title: "write minutes", Status: "done", CreatedAt: testNow.Add(-time.Hour)},
		{ID: 2, Title: "fix login", Status: "pending", DueAt: &past, CreatedAt: testNow.Add(-time.Hour)},
	}
	users := map[int64]*models.User{42: {ID: 42, Language: "en", Timezone: "UTC"}}
	svc, repo := newTestReportService(t, tasks, users)

	resp, err := svc.Generate(context.Background(), models.ReportRequest{
		ReportType: models.ReportDaily,
		UserID:     ptrInt64(42),
	}, authz.Principal{Subject: "42", UserID: 42})

	require.NoError(t, err)
	assert.Equal(t, models.ScopeUser, resp.Scope)
	assert.Equal(t, models.ReportCounts{Total: 2, Completed: 1, Overdue: 1}, resp.Counts)
	assert.NotEmpty(t, resp.Summary)
	assert.Contains(t, resp.Summary, "fix login")
	assert.Nil(t, resp.Metrics)
	assert.Nil(t, resp.FileURL)
	assert.Equal(t, models.FormatText, resp.Format)
	assert.Equal(t, ptrInt64(42), repo.gotFilter.UserID)
}

func TestGenerateFormatGating(t *testing.T) {
	tasks := []models.Task{{ID: 1, Title: "a", Status: "pending", CreatedAt: testNow}}

	t.Run("pdf for org scope degrades to text", func(t *testing.T) {
		svc, _ := newTestReportService(t, tasks, nil)
		resp, err := svc.Generate(context.Background(), models.ReportRequest{
			ReportType:     models.ReportWeekly,
			OrganizationID: ptrInt64(7),
			Format:         models.FormatPDF,
		}, authz.Principal{Subject: "admin"})

		require.NoError(t, err)
		assert.Nil(t, resp.FileURL)
		assert.NotEmpty(t, resp.Summary)
		require.NotNil(t, resp.Metrics)
	})

	t.Run("csv for user scope degrades to text", func(t *testing.T) {
		svc, _ := newTestReportService(t, tasks, map[int64]*models.User{1: {ID: 1}})
		resp, err := svc.Generate(context.Background(), models.ReportRequest{
			ReportType: models.ReportDaily,
			UserID:     ptrInt64(1),
			Format:     models.FormatCSV,
		}, authz.Principal{Subject: "1", UserID: 1})

		require.NoError(t, err)
		assert.Nil(t, resp.FileURL)
		assert.NotEmpty(t, resp.Summary)
	})

	t.Run("csv for org scope writes a file", func(t *testing.T) {
		svc, _ := newTestReportService(t, tasks, nil)
		resp, err := svc.Generate(context.Background(), models.ReportRequest{
			ReportType:     models.ReportWeekly,
			OrganizationID: ptrInt64(7),
			Format:         models.FormatCSV,
		}, authz.Principal{Subject: "admin"})

		require.NoError(t, err)
		require.NotNil(t, resp.FileURL)
		assert.FileExists(t, *resp.FileURL)
	})

	t.Run("pdf for user scope writes a file", func(t *testing.T) {
		svc, _ := newTestReportService(t, tasks, map[int64]*models.User{1: {ID: 1}})
		resp, err := svc.Generate(context.Background(), models.ReportRequest{
			ReportType: models.ReportDaily,
			UserID:     ptrInt64(1),
			Format:     models.FormatPDF,
		}, authz.Principal{Subject: "1", UserID: 1})

		require.NoError(t, err)
		require.NotNil(t, resp.FileURL)
		assert.FileExists(t, *resp.FileURL)
	})
}

func TestGenerateEmptyWindow(t *testing.T) {
	users := map[int64]*models.User{1: {ID: 1, Timezone: "Europe/Stockholm"}}
	svc, _ := newTestReportService(t, nil, users)

	resp, err := svc.Generate(context.Background(), models.ReportRequest{
		ReportType: models.ReportMonthly,
		UserID:     ptrInt64(1),
	}, authz.Principal{Subject: "1", UserID: 1})

	require.NoError(t, err)
	assert.Equal(t, models.ReportCounts{}, resp.Counts)
	assert.Contains(t, resp.Summary, "No tasks in this period.")
}
