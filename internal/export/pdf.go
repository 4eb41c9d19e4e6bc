package export

import (
	"strconv"

	"github.com/jung-kurt/gofpdf"

	"taskmate/internal/models"
)

// ExportUserPDF writes the per-task table document for a user-scope report
// and returns the file path. Layout flips to right-to-left for RTL locales.
func (e *Exporter) ExportUserPDF(data UserPDFData) (string, error) {
	target, err := e.ensureTarget(e.filename(data.ReportType, models.ScopeUser, data.Subject, "pdf"))
	if err != nil {
		return "", err
	}

	rtl := e.loc.IsRTL(data.Locale)
	align := "L"
	if rtl {
		align = "R"
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(e.loc.Translate(data.Locale, "report_pdf_title", nil), true)
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 15)
	e.addFont(pdf)
	pdf.AddPage()
	if rtl {
		pdf.RTL()
	}

	pdf.SetFont(e.fontName, "B", 16)
	pdf.CellFormat(0, 10, e.loc.Translate(data.Locale, "report_pdf_title", nil), "", 1, align, false, 0, "")

	start := e.loc.FormatDateTime(data.WindowStart, data.Locale, data.Timezone, "short")
	end := e.loc.FormatDateTime(data.WindowEnd, data.Locale, data.Timezone, "short")
	pdf.SetFont(e.fontName, "", 11)
	pdf.CellFormat(0, 7, e.loc.Translate(data.Locale, "report_period",
		map[string]any{"start": start, "end": end}), "", 1, align, false, 0, "")
	pdf.CellFormat(0, 7, e.loc.Translate(data.Locale, "report_pdf_counts", map[string]any{
		"total":     data.Counts.Total,
		"completed": data.Counts.Completed,
		"overdue":   data.Counts.Overdue,
	}), "", 1, align, false, 0, "")

	pdf.Ln(2)
	pdf.MultiCell(0, 6, data.Summary, "", align, false)
	pdf.Ln(4)

	widths := []float64{15, 70, 25, 45, 25}
	headers := []string{
		"ID",
		e.loc.Translate(data.Locale, "report_table_task", nil),
		e.loc.Translate(data.Locale, "report_table_status", nil),
		e.loc.Translate(data.Locale, "report_table_due", nil),
		e.loc.Translate(data.Locale, "report_table_priority", nil),
	}
	pdf.SetFont(e.fontName, "B", 10)
	pdf.SetFillColor(245, 245, 245)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 8, h, "1", 0, align, true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont(e.fontName, "", 10)
	if len(data.Tasks) == 0 {
		pdf.CellFormat(180, 8, e.loc.Translate(data.Locale, "report_user_no_tasks", nil),
			"1", 1, align, false, 0, "")
	}
	for _, task := range data.Tasks {
		due := e.loc.Translate(data.Locale, "report_task_no_due", nil)
		if task.DueAt != nil {
			due = e.loc.FormatDateTime(*task.DueAt, data.Locale, data.Timezone, "short")
		}
		cells := []string{
			strconv.FormatInt(task.ID, 10),
			task.Title,
			orDash(task.Status),
			due,
			orDash(string(task.Priority)),
		}
		for i, c := range cells {
			pdf.CellFormat(widths[i], 8, c, "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	if err := pdf.OutputFileAndClose(target); err != nil {
		return "", err
	}
	e.logWritten("pdf", target)
	return target, nil
}

func (e *Exporter) addFont(pdf *gofpdf.Fpdf) {
	if e.FontPath == "" {
		e.fontName = "Helvetica"
		return
	}
	pdf.AddUTF8Font(e.fontName, "", e.FontPath)
	pdf.AddUTF8Font(e.fontName, "B", e.FontPath)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
