package i18n

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func newTestLocalizer() *Localizer {
	return New("en", zap.NewNop())
}

func TestNormalize(t *testing.T) {
	l := newTestLocalizer()

	tests := []struct {
		in   string
		want string
	}{
		{"", "en"},
		{"en", "en"},
		{"en-US", "en"},
		{"FA", "fa"},
		{"fa-IR", "fa"},
		{"ar_SA", "ar"},
		{"de", "en"},
		{"pt-BR", "en"},
		{"garbage!!", "en"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, l.Normalize(tt.in))
		})
	}
}

func TestTranslate(t *testing.T) {
	l := newTestLocalizer()

	t.Run("substitutes placeholders", func(t *testing.T) {
		got := l.Translate("en", "report_user_counts", map[string]any{
			"total": 5, "completed": 2, "overdue": 1,
		})
		assert.Equal(t, "Tasks: 5 total, 2 completed, 1 overdue", got)
	})

	t.Run("unknown key degrades to the key itself", func(t *testing.T) {
		assert.Equal(t, "no_such_key", l.Translate("en", "no_such_key", nil))
	})

	t.Run("unknown locale uses the default catalog", func(t *testing.T) {
		got := l.Translate("de", "report_user_no_tasks", nil)
		assert.Equal(t, "No tasks in this period.", got)
	})

	t.Run("rtl catalogs carry their own text", func(t *testing.T) {
		got := l.Translate("fa", "report_user_no_tasks", nil)
		assert.NotEmpty(t, got)
		assert.NotEqual(t, "report_user_no_tasks", got)
		assert.NotEqual(t, l.Translate("en", "report_user_no_tasks", nil), got)
	})
}

func TestIsRTL(t *testing.T) {
	l := newTestLocalizer()

	assert.True(t, l.IsRTL("fa"))
	assert.True(t, l.IsRTL("ar-SA"))
	assert.False(t, l.IsRTL("en"))
	assert.False(t, l.IsRTL(""))
}

func TestPrepareTelegram(t *testing.T) {
	l := newTestLocalizer()

	t.Run("ltr passes through", func(t *testing.T) {
		assert.Equal(t, "hello", l.PrepareTelegram("en", "hello"))
	})

	t.Run("rtl gets directional wrapping", func(t *testing.T) {
		got := l.PrepareTelegram("fa", "سلام")
		assert.True(t, strings.HasPrefix(got, "‫"))
		assert.True(t, strings.HasSuffix(got, "‬"))
	})

	t.Run("empty stays empty", func(t *testing.T) {
		assert.Equal(t, "", l.PrepareTelegram("fa", ""))
	})
}

func TestFormatDate(t *testing.T) {
	l := newTestLocalizer()
	at := time.Date(2024, 1, 15, 23, 30, 0, 0, time.UTC)

	assert.Equal(t, "Jan 15, 2024", l.FormatDate(at, "en", time.UTC, "medium"))
	assert.Equal(t, "1/15/24", l.FormatDate(at, "en", time.UTC, "short"))
	// Numeric layout for RTL locales, no English month names.
	assert.Equal(t, "2024/1/15", l.FormatDate(at, "fa", time.UTC, "medium"))

	stockholm, err := time.LoadLocation("Europe/Stockholm")
	assert.NoError(t, err)
	// 23:30 UTC is already the next day in Stockholm.
	assert.Equal(t, "Jan 16, 2024", l.FormatDate(at, "en", stockholm, "medium"))
}

func TestFormatDateTime(t *testing.T) {
	l := newTestLocalizer()
	at := time.Date(2024, 1, 15, 17, 0, 0, 0, time.UTC)

	assert.Equal(t, "1/15/24, 5:00 PM", l.FormatDateTime(at, "en", time.UTC, "short"))
	assert.Equal(t, "2024/1/15 17:00", l.FormatDateTime(at, "fa", time.UTC, "short"))
	assert.Equal(t, "1/15/24, 5:00 PM", l.FormatDateTime(at, "en", nil, "short"))
}
