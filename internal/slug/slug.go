// Package slug порождает URL-безопасные идентификаторы из произвольного текста.
package slug

import (
	"regexp"
	"strings"
)

// Fallback возвращается, когда после очистки не осталось ни одного символа.
const Fallback = "item"

var (
	spaceRe    = regexp.MustCompile(`\s+`)
	invalidRe  = regexp.MustCompile(`[^a-z0-9-]+`)
	multiDashRe = regexp.MustCompile(`-{2,}`)
)

// Make превращает произвольный текст в slug: нижний регистр, пробелы и
// недопустимые символы схлопываются в дефисы, крайние дефисы отрезаются.
// Всегда возвращает непустую строку.
func Make(value string) string {
	v := strings.ToLower(strings.TrimSpace(value))
	v = spaceRe.ReplaceAllString(v, "-")
	v = invalidRe.ReplaceAllString(v, "-")
	v = multiDashRe.ReplaceAllString(v, "-")
	v = strings.Trim(v, "-")
	if v == "" {
		return Fallback
	}
	return v
}
