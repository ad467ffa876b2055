package i18n

import (
	"strings"

	"golang.org/x/text/language"
)

// Locale is a supported locale code with its display name.
type Locale struct {
	Code string
	Name string
}

// DefaultLocale is returned by Match when nothing acceptable is supported.
const DefaultLocale = "en"

// locales is the fixed table of supported locales, in load order.
var locales = []Locale{
	{"ar", "العربية"},
	{"bg", "Български"},
	{"ca", "Català"},
	{"cs", "Česky"},
	{"da", "Dansk"},
	{"de", "Deutsch"},
	{"el", "Ελληνικά"},
	{"en", "English"},
	{"es", "Español"},
	{"fa", "Farsi"},
	{"fi", "Suomi"},
	{"fr", "Français"},
	{"gl", "Galego"},
	{"ka-ge", "Georgian"},
	{"hu", "Magyar"},
	{"it", "Italiano"},
	{"id", "Bahasa Indonesia"},
	{"ja", "日本語"},
	{"lt", "Lietuvių"},
	{"hr", "Hrvatski"},
	{"nl", "Nederlands"},
	{"no", "Norsk"},
	{"pl", "Polski"},
	{"pt", "Português"},
	{"pt-br", "Português do Brasil"},
	{"ru", "Русский"},
	{"sk", "Slovenčina"},
	{"sl", "Slovenščina"},
	{"sv", "Svenska"},
	{"sr", "Srpski"},
	{"tr", "Türkçe"},
	{"uk", "Українська"},
	{"zh-cn", "简体中文"},
}

var matcher = newMatcher()

func newMatcher() language.Matcher {
	tags := make([]language.Tag, len(locales))
	for i, l := range locales {
		tags[i] = language.MustParse(l.Code)
	}

	return language.NewMatcher(tags)
}

// Locales returns a copy of the supported locale table in load order.
func Locales() []Locale {
	out := make([]Locale, len(locales))
	copy(out, locales)

	return out
}

// LocaleMap returns the supported locales as a code to display name map.
func LocaleMap() map[string]string {
	out := make(map[string]string, len(locales))
	for _, l := range locales {
		out[l.Code] = l.Name
	}

	return out
}

// Supported reports whether code is in the locale table.
func Supported(code string) bool {
	code = Normalize(code)
	for _, l := range locales {
		if l.Code == code {
			return true
		}
	}

	return false
}

// Normalize lowercases a locale code and uses '-' as the separator.
func Normalize(code string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(code), "_", "-"))
}

// Tag parses a locale code into a BCP 47 tag.
func Tag(code string) (language.Tag, error) {
	return language.Parse(Normalize(code))
}

// Match picks the best supported locale for an Accept-Language style list
// such as "pt-BR,pt;q=0.9". It falls back to DefaultLocale.
func Match(accept string) string {
	desired, _, err := language.ParseAcceptLanguage(accept)
	if err != nil || len(desired) == 0 {
		return DefaultLocale
	}

	_, idx, conf := matcher.Match(desired...)
	if conf == language.No {
		return DefaultLocale
	}

	return locales[idx].Code
}
