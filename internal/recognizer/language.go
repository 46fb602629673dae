package recognizer

import "strings"

var regionByLanguage = map[string]string{
	"en": "en-US",
	"es": "es-ES",
	"fr": "fr-FR",
	"de": "de-DE",
	"ja": "ja-JP",
}

// NormalizeLanguage expands a two-letter language code to a locale tag,
// e.g. "en" to "en-US" and "it" to "it-IT". Longer codes are returned as is.
func NormalizeLanguage(code string) string {
	code = strings.TrimSpace(code)
	if len(code) != 2 {
		return code
	}
	lower := strings.ToLower(code)
	if tag, ok := regionByLanguage[lower]; ok {
		return tag
	}
	return lower + "-" + strings.ToUpper(lower)
}
