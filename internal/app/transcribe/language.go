package transcribe

import "strings"

// DefaultLanguage is used when the caller sends no or an unknown language.
const DefaultLanguage = "pt"

var languageCodes = map[string]string{
	"pt": "pt",
	"en": "en",
	"es": "es",
	"fr": "fr",
	"de": "de",
	"it": "it",
}

// MapLanguage maps a client language hint to a vendor language code.
// Region forms such as "pt-BR" or "en_US" use their base language.
func MapLanguage(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if i := strings.IndexAny(lang, "-_"); i > 0 {
		lang = lang[:i]
	}
	if code, ok := languageCodes[lang]; ok {
		return code
	}
	return DefaultLanguage
}

// SupportedLanguages lists the accepted base codes.
func SupportedLanguages() []string {
	return []string{"pt", "en", "es", "fr", "de", "it"}
}
