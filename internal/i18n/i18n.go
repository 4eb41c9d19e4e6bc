// Package i18n is the localization seam for every user-visible string the
// report and reminder core produces. Message catalogs are flat JSON files
// embedded at build time; an unknown key falls back to the default-locale
// catalog and finally to the raw key, never to an error.
package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

// SupportedLocales is the fixed set of locale codes the catalogs cover.
var SupportedLocales = map[string]struct{}{
	"en": {},
	"fa": {},
	"ar": {},
}

// RTLLocales marks the right-to-left subset. Shared fact with the export
// layer (table alignment) and the chat surface (directional wrapping).
var RTLLocales = map[string]struct{}{
	"fa": {},
	"ar": {},
}

type Localizer struct {
	defaultLocale string
	catalogs      map[string]map[string]string
	log           *zap.Logger
}

func New(defaultLocale string, log *zap.Logger) *Localizer {
	l := &Localizer{
		defaultLocale: defaultLocale,
		catalogs:      make(map[string]map[string]string, len(SupportedLocales)),
		log:           log,
	}
	if _, ok := SupportedLocales[l.defaultLocale]; !ok {
		l.defaultLocale = "en"
	}
	for locale := range SupportedLocales {
		l.catalogs[locale] = l.loadCatalog(locale)
	}
	return l
}

func (l *Localizer) loadCatalog(locale string) map[string]string {
	raw, err := localeFS.ReadFile("locales/" + locale + ".json")
	if err != nil {
		l.log.Warn("i18n.catalog_missing", zap.String("locale", locale))
		return map[string]string{}
	}
	catalog := map[string]string{}
	if err := json.Unmarshal(raw, &catalog); err != nil {
		l.log.Error("i18n.catalog_invalid", zap.String("locale", locale), zap.Error(err))
		return map[string]string{}
	}
	return catalog
}

// Normalize maps a raw locale code ("en-US", "FA") to a supported base code,
// falling back to the configured default for anything unrecognized.
func (l *Localizer) Normalize(raw string) string {
	if raw == "" {
		return l.defaultLocale
	}
	code := strings.ToLower(raw)
	if tag, err := language.Parse(raw); err == nil {
		base, _ := tag.Base()
		code = base.String()
	} else if i := strings.IndexAny(code, "-_"); i > 0 {
		code = code[:i]
	}
	if _, ok := SupportedLocales[code]; !ok {
		return l.defaultLocale
	}
	return code
}

// Translate renders the catalog template for key, substituting {name}
// placeholders from params. Missing keys degrade to the default catalog and
// then to the key itself.
func (l *Localizer) Translate(locale, key string, params map[string]any) string {
	code := l.Normalize(locale)
	template, ok := l.catalogs[code][key]
	if !ok {
		template, ok = l.catalogs[l.defaultLocale][key]
	}
	if !ok {
		l.log.Debug("i18n.key_missing", zap.String("key", key), zap.String("locale", code))
		template = key
	}
	for name, value := range params {
		template = strings.ReplaceAll(template, "{"+name+"}", fmt.Sprint(value))
	}
	return template
}

func (l *Localizer) IsRTL(locale string) bool {
	_, ok := RTLLocales[l.Normalize(locale)]
	return ok
}

// PrepareTelegram normalizes line endings and wraps RTL text in directional
// marks so the chat surface renders it correctly.
func (l *Localizer) PrepareTelegram(locale, text string) string {
	if text == "" {
		return text
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	if l.IsRTL(locale) {
		return "‫" + text + "‬"
	}
	return text
}

// Layout styles per locale. RTL locales use numeric layouts so no English
// month names leak into localized output.
var dateLayouts = map[string]map[string]string{
	"en": {"short": "1/2/06", "medium": "Jan 2, 2006"},
	"fa": {"short": "2006/1/2", "medium": "2006/1/2"},
	"ar": {"short": "2/1/2006", "medium": "2/1/2006"},
}

var datetimeLayouts = map[string]map[string]string{
	"en": {"short": "1/2/06, 3:04 PM", "medium": "Jan 2, 2006, 3:04 PM"},
	"fa": {"short": "2006/1/2 15:04", "medium": "2006/1/2 15:04"},
	"ar": {"short": "2/1/2006 15:04", "medium": "2/1/2006 15:04"},
}

func (l *Localizer) layout(table map[string]map[string]string, locale, style string) string {
	styles, ok := table[l.Normalize(locale)]
	if !ok {
		styles = table["en"]
	}
	if layout, ok := styles[style]; ok {
		return layout
	}
	return styles["medium"]
}

// FormatDate renders the calendar date of t in the given timezone and locale.
func (l *Localizer) FormatDate(t time.Time, locale string, loc *time.Location, style string) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(l.layout(dateLayouts, locale, style))
}

// FormatDateTime renders t as a localized date and time in the given zone.
func (l *Localizer) FormatDateTime(t time.Time, locale string, loc *time.Location, style string) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(l.layout(datetimeLayouts, locale, style))
}
