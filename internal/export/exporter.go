// Package export renders report documents to the configured directory.
// PDF is the user-scope artifact, CSV the aggregate-scope one; the scope
// gating itself lives in the report service.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"taskmate/internal/i18n"
	"taskmate/internal/models"
)

type Exporter struct {
	Dir      string
	FontPath string // TTF with full unicode coverage; empty falls back to a core font

	loc      *i18n.Localizer
	log      *zap.Logger
	fontName string
	now      func() time.Time
}

func NewExporter(dir, fontPath string, loc *i18n.Localizer, log *zap.Logger) *Exporter {
	return &Exporter{
		Dir:      filepath.Clean(dir),
		FontPath: fontPath,
		loc:      loc,
		log:      log,
		fontName: "DejaVu",
		now:      time.Now,
	}
}

// UserPDFData is everything a user-scope PDF needs: the rendered summary,
// the counts line inputs and the full fetched task list for the table.
type UserPDFData struct {
	Locale      string
	Timezone    *time.Location
	ReportType  models.ReportType
	Subject     string
	Counts      models.ReportCounts
	Summary     string
	Tasks       []models.Task
	WindowStart time.Time
	WindowEnd   time.Time
}

// OrgCSVData carries the aggregate metrics block for a CSV export.
type OrgCSVData struct {
	Locale      string
	Timezone    *time.Location
	ReportType  models.ReportType
	Scope       models.ReportScope
	Subject     string
	Metrics     models.OrgMetrics
	WindowStart time.Time
	WindowEnd   time.Time
}

// ensureTarget creates the export directory (with parents) and returns the
// absolute target path. Acquired per write, no persistent handle.
func (e *Exporter) ensureTarget(filename string) (string, error) {
	if err := os.MkdirAll(e.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create reports dir: %w", err)
	}
	return filepath.Join(e.Dir, filepath.Base(filename)), nil
}

func (e *Exporter) filename(reportType models.ReportType, scope models.ReportScope, subject, ext string) string {
	return fmt.Sprintf("%s-%s-%s-%d.%s",
		reportType, scope, SafeSlug(subject), e.now().UTC().Unix(), ext)
}

// SafeSlug reduces a principal identifier to a filesystem-safe token.
func SafeSlug(value string) string {
	if value == "" {
		value = "subject"
	}
	out := make([]rune, 0, len(value))
	for _, r := range value {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			out = append(out, r)
		case r >= 'A' && r <= 'Z':
			out = append(out, r+('a'-'A'))
		default:
			out = append(out, '-')
		}
	}
	slug := string(out)
	for len(slug) > 0 && slug[0] == '-' {
		slug = slug[1:]
	}
	for len(slug) > 0 && slug[len(slug)-1] == '-' {
		slug = slug[:len(slug)-1]
	}
	if slug == "" {
		return "subject"
	}
	return slug
}

func (e *Exporter) logWritten(kind, path string) {
	e.log.Info("report.export.written", zap.String("kind", kind), zap.String("path", path))
}
