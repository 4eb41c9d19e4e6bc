package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"taskmate/internal/i18n"
	"taskmate/internal/models"
)

var testNow = time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)

func newTestExporter(t *testing.T) *Exporter {
	t.Helper()
	log := zap.NewNop()
	e := NewExporter(t.TempDir(), "", i18n.New("en", log), log)
	e.now = func() time.Time { return testNow }
	return e
}

func TestSafeSlug(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"alice", "alice"},
		{"Alice Smith", "alice-smith"},
		{"user@example.com", "user-example-com"},
		{"--weird--", "weird"},
		{"", "subject"},
		{"!!!", "subject"},
		{"Ops/Team 7", "ops-team-7"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, SafeSlug(tt.in))
		})
	}
}

func TestFilename(t *testing.T) {
	e := newTestExporter(t)

	got := e.filename(models.ReportDaily, models.ScopeUser, "Alice Smith", "pdf")

	assert.Equal(t, fmt.Sprintf("daily-user-alice-smith-%d.pdf", testNow.Unix()), got)
}

func TestExportOrgCSVTrend(t *testing.T) {
	e := newTestExporter(t)
	data := OrgCSVData{
		Locale:     "en",
		Timezone:   time.UTC,
		ReportType: models.ReportWeekly,
		Scope:      models.ScopeOrganization,
		Subject:    "acme",
		Metrics: models.OrgMetrics{
			Throughput:     10,
			CompletionRate: 70.0,
			ActiveUsers:    4,
			OverdueTrend: []models.TrendPoint{
				{Period: "Jan 10, 2024", Overdue: 2},
				{Period: "Jan 12, 2024", Overdue: 1},
			},
		},
		WindowStart: time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC),
		WindowEnd:   time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
	}

	path, err := e.ExportOrgCSV(data)
	require.NoError(t, err)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)

	assert.Contains(t, rows, []string{"Throughput", "10"})
	assert.Contains(t, rows, []string{"Completion rate", "70.0%"})
	assert.Contains(t, rows, []string{"Active users", "4"})

	// The trend sub-table keeps its chronological order and its counts sum
	// to the overdue total.
	var headerIdx int
	for i, row := range rows {
		if len(row) == 2 && row[0] == "Period" && row[1] == "Overdue" {
			headerIdx = i
		}
	}
	require.NotZero(t, headerIdx)
	require.GreaterOrEqual(t, len(rows), headerIdx+3)
	assert.Equal(t, []string{"Jan 10, 2024", "2"}, rows[headerIdx+1])
	assert.Equal(t, []string{"Jan 12, 2024", "1"}, rows[headerIdx+2])
}

func TestExportOrgCSVNoTrend(t *testing.T) {
	e := newTestExporter(t)

	path, err := e.ExportOrgCSV(OrgCSVData{
		Locale:      "en",
		Timezone:    time.UTC,
		ReportType:  models.ReportDaily,
		Scope:       models.ScopeTeam,
		Subject:     "team-7",
		Metrics:     models.OrgMetrics{Throughput: 3, CompletionRate: 100.0, ActiveUsers: 2},
		WindowStart: testNow,
		WindowEnd:   testNow.Add(24 * time.Hour),
	})
	require.NoError(t, err)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)

	assert.Contains(t, rows, []string{"Overdue trend", "No overdue trend for this period."})
	for _, row := range rows {
		assert.NotEqual(t, "Period", row[0])
	}
}

func TestExportUserPDF(t *testing.T) {
	e := newTestExporter(t)
	due := time.Date(2024, 1, 15, 17, 0, 0, 0, time.UTC)

	path, err := e.ExportUserPDF(UserPDFData{
		Locale:     "en",
		Timezone:   time.UTC,
		ReportType: models.ReportDaily,
		Subject:    "alice",
		Counts:     models.ReportCounts{Total: 2, Completed: 1, Overdue: 1},
		Summary:    "Daily report for Jan 15, 2024\nTasks: 2 total, 1 completed, 1 overdue",
		Tasks: []models.Task{
			{ID: 1, Title: "fix login", Status: "pending", Priority: models.PriorityHigh, DueAt: &due},
			{ID: 2, Title: "write minutes", Status: "done", Priority: models.PriorityNormal},
		},
		WindowStart: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		WindowEnd:   time.Date(2024, 1, 16, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
	assert.Contains(t, path, "daily-user-alice-")
	assert.Contains(t, path, ".pdf")
}
