package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
)

// ExportOrgCSV writes the metrics table for an aggregate-scope report and
// returns the file path.
func (e *Exporter) ExportOrgCSV(data OrgCSVData) (string, error) {
	target, err := e.ensureTarget(e.filename(data.ReportType, data.Scope, data.Subject, "csv"))
	if err != nil {
		return "", err
	}

	tr := func(key string, params map[string]any) string {
		return e.loc.Translate(data.Locale, key, params)
	}
	start := e.loc.FormatDateTime(data.WindowStart, data.Locale, data.Timezone, "short")
	end := e.loc.FormatDateTime(data.WindowEnd, data.Locale, data.Timezone, "short")

	rows := [][]string{
		{tr("report_csv_period_start", nil), start},
		{tr("report_csv_period_end", nil), end},
		{"", ""},
		{tr("report_csv_header_metric", nil), tr("report_csv_header_value", nil)},
		{tr("report_metric_throughput", nil), strconv.Itoa(data.Metrics.Throughput)},
		{tr("report_metric_completion_rate", nil), fmt.Sprintf("%.1f%%", data.Metrics.CompletionRate)},
		{tr("report_metric_active_users", nil), strconv.Itoa(data.Metrics.ActiveUsers)},
	}

	if len(data.Metrics.OverdueTrend) > 0 {
		rows = append(rows,
			[]string{"", ""},
			[]string{tr("report_metric_overdue_trend", nil), ""},
			[]string{tr("report_csv_header_period", nil), tr("report_csv_header_overdue", nil)},
		)
		for _, point := range data.Metrics.OverdueTrend {
			rows = append(rows, []string{point.Period, strconv.Itoa(point.Overdue)})
		}
	} else {
		rows = append(rows, []string{
			tr("report_metric_overdue_trend", nil),
			tr("report_org_no_trend", nil),
		})
	}

	f, err := os.Create(target)
	if err != nil {
		return "", err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		return "", err
	}
	if err := w.Error(); err != nil {
		return "", err
	}
	e.logWritten("csv", target)
	return target, nil
}
