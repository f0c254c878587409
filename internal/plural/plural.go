// Package plural provides the gettext plural rule for a given locale: how
// many plural forms the language has and the C-like expression selecting a
// form for a count n. The expression is carried verbatim into the
// Plural-Forms header; it is never evaluated here.
package plural

import "strings"

// Rule is the plural count and selection expression of one language.
type Rule struct {
	NumPlurals int
	Expr       string
}

// DefaultRule is the English-like two-form rule used for templates and
// unknown locales.
var DefaultRule = Rule{2, "(n != 1)"}

var oneForm = Rule{1, "0"}

var slavic3 = Rule{3, "(n%10==1 && n%100!=11 ? 0 : n%10>=2 && n%10<=4 && (n%100<10 || n%100>=20) ? 1 : 2)"}

// rules by locale identifier or base language. Looked up with the full
// identifier first, then the base language.
var rules = map[string]Rule{
	"af": DefaultRule,
	"ar": {6, "(n==0 ? 0 : n==1 ? 1 : n==2 ? 2 : n%100>=3 && n%100<=10 ? 3 : n%100>=11 ? 4 : 5)"},
	"be": slavic3,
	"bg": DefaultRule,
	"bs": slavic3,
	"ca": DefaultRule,
	"cs": {3, "(n==1) ? 0 : (n>=2 && n<=4) ? 1 : 2"},
	"cy": {4, "(n==1) ? 0 : (n==2) ? 1 : (n != 8 && n != 11) ? 2 : 3"},
	"da": DefaultRule,
	"de": DefaultRule,
	"el": DefaultRule,
	"en": DefaultRule,
	"es": DefaultRule,
	"et": DefaultRule,
	"eu": DefaultRule,
	"fa": oneForm,
	"fi": DefaultRule,
	"fr": {2, "(n > 1)"},
	"ga": {5, "(n==1 ? 0 : n==2 ? 1 : n>=3 && n<=6 ? 2 : n>=7 && n<=10 ? 3 : 4)"},
	"gl": DefaultRule,
	"he": DefaultRule,
	"hi": DefaultRule,
	"hr": slavic3,
	"hu": DefaultRule,
	"id": oneForm,
	"is": {2, "(n%10!=1 || n%100==11)"},
	"it": DefaultRule,
	"ja": oneForm,
	"ko": oneForm,
	"lt": {3, "(n%10==1 && n%100!=11 ? 0 : n%10>=2 && (n%100<10 || n%100>=20) ? 1 : 2)"},
	"lv": {3, "(n%10==1 && n%100!=11 ? 0 : n != 0 ? 1 : 2)"},
	"ms": oneForm,
	"mt": {4, "(n==1 ? 0 : n==0 || ( n%100>1 && n%100<11) ? 1 : (n%100>10 && n%100<20 ) ? 2 : 3)"},
	"nb": DefaultRule,
	"nl": DefaultRule,
	"nn": DefaultRule,
	"no": DefaultRule,
	"pl": {3, "(n==1 ? 0 : n%10>=2 && n%10<=4 && (n%100<10 || n%100>=20) ? 1 : 2)"},
	"pt": DefaultRule,
	"pt_BR": {2, "(n > 1)"},
	"ro": {3, "(n==1 ? 0 : (n==0 || (n%100 > 0 && n%100 < 20)) ? 1 : 2)"},
	"ru": slavic3,
	"sk": {3, "(n==1) ? 0 : (n>=2 && n<=4) ? 1 : 2"},
	"sl": {4, "(n%100==1 ? 0 : n%100==2 ? 1 : n%100==3 || n%100==4 ? 2 : 3)"},
	"sr": slavic3,
	"sv": DefaultRule,
	"th": oneForm,
	"tr": oneForm,
	"uk": slavic3,
	"vi": oneForm,
	"zh": oneForm,
}

// ForLocale returns the plural rule for a locale identifier. The full
// identifier (e.g. "pt_BR") wins over the base language ("pt"); unknown
// locales fall back to DefaultRule.
func ForLocale(locale string) Rule {
	norm := normalize(locale)
	if r, ok := rules[norm]; ok {
		return r
	}
	if r, ok := rules[baseLang(norm)]; ok {
		return r
	}
	return DefaultRule
}

// normalize lowercases the language part and upper-cases the territory,
// with "_" as the separator ("PT-br" -> "pt_BR").
func normalize(locale string) string {
	locale = strings.TrimSpace(strings.ReplaceAll(locale, "-", "_"))
	if idx := strings.Index(locale, "_"); idx > 0 {
		return strings.ToLower(locale[:idx]) + "_" + strings.ToUpper(locale[idx+1:])
	}
	return strings.ToLower(locale)
}

func baseLang(locale string) string {
	if idx := strings.Index(locale, "_"); idx > 0 {
		return locale[:idx]
	}
	return locale
}
