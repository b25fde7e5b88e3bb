package analytics

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Locale selects month names for chart labels.
type Locale string

const (
	LocalePtBR Locale = "pt-BR"
	LocaleEn   Locale = "en"

	DefaultLocale = LocalePtBR
)

// Abbreviated month names as CLDR formats them.
var shortMonths = map[Locale][12]string{
	LocalePtBR: {"jan.", "fev.", "mar.", "abr.", "mai.", "jun.", "jul.", "ago.", "set.", "out.", "nov.", "dez."},
	LocaleEn:   {"jan", "feb", "mar", "apr", "may", "jun", "jul", "aug", "sep", "oct", "nov", "dec"},
}

// ParseLocale maps a BCP 47 tag onto a supported locale. Unknown or
// malformed tags fall back to pt-BR.
func ParseLocale(s string) Locale {
	tag, err := language.Parse(strings.TrimSpace(s))
	if err != nil {
		return DefaultLocale
	}
	base, _ := tag.Base()
	switch base.String() {
	case "en":
		return LocaleEn
	case "pt":
		return LocalePtBR
	}
	return DefaultLocale
}

func (l Locale) tag() language.Tag {
	switch l {
	case LocaleEn:
		return language.English
	default:
		return language.BrazilianPortuguese
	}
}

func (l Locale) names() [12]string {
	if n, ok := shortMonths[l]; ok {
		return n
	}
	return shortMonths[DefaultLocale]
}

// MonthLabel returns the short month name with its first letter upper-cased.
func MonthLabel(m time.Month, l Locale) string {
	if m < time.January || m > time.December {
		return ""
	}
	caser := cases.Title(l.tag(), cases.NoLower)
	return caser.String(l.names()[m-1])
}
