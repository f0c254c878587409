package pocat

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// TranslationError describes one validation failure found by a checker.
// Failures are data, not control flow: checkers return them, they are never
// panicked or raised past the Check boundary.
type TranslationError struct {
	Kind   string
	Detail string
}

func (e *TranslationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

func checkFailure(kind string, format string, args ...interface{}) error {
	return &TranslationError{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

// Checker validates one message, optionally using catalog context (e.g. the
// plural count). A nil return means the message passes.
type Checker func(catalog *Catalog, message *Message) error

// checkers run by Message.Check, in order.
var checkers = []Checker{
	checkPluralForms,
	checkFormatSpecifiers,
	checkTrailingPunctuation,
	checkTrailingWhitespace,
	checkLeadingCapitalization,
	checkIdenticalTranslation,
}

// Check runs all validators against the message and returns their failures.
// The catalog may be nil; checks that need it are skipped.
func (m *Message) Check(catalog *Catalog) []error {
	var errs []error
	for _, check := range checkers {
		if err := check(catalog, m); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

// MessageErrors pairs a message with its validation failures.
type MessageErrors struct {
	Message *Message
	Errors  []error
}

// Check validates every stored message and returns the ones that failed.
func (c *Catalog) Check() []MessageErrors {
	var out []MessageErrors
	for _, m := range c.Messages() {
		if errs := m.Check(c); len(errs) > 0 {
			out = append(out, MessageErrors{Message: m, Errors: errs})
		}
	}
	return out
}

func checkPluralForms(catalog *Catalog, message *Message) error {
	want := 1
	if message.ID().Pluralizable() {
		want = 2
		if catalog != nil {
			want = catalog.NumPlurals()
		}
	}
	if got := len(message.Text()); got != want {
		return checkFailure("plural-forms", "found %d translated forms, catalog expects %d", got, want)
	}
	return nil
}

func checkFormatSpecifiers(catalog *Catalog, message *Message) error {
	if !message.Format() || !message.Translated() {
		return nil
	}
	forms := message.ID().Forms()
	for i, translated := range message.Text() {
		if translated == "" {
			continue
		}
		source := forms[0]
		if message.ID().Pluralizable() && i > 0 {
			source = forms[1]
		}
		want := formatSpec.FindAllString(source, -1)
		got := formatSpec.FindAllString(translated, -1)
		if len(want) != len(got) {
			return checkFailure("format", "translation has %d placeholders, source has %d", len(got), len(want))
		}
		for j := range want {
			if want[j] != got[j] {
				return checkFailure("format", "placeholder %q does not match source %q", got[j], want[j])
			}
		}
	}
	return nil
}

var trailingPunctuation = ".?!:;"

func checkTrailingPunctuation(catalog *Catalog, message *Message) error {
	source, translated, ok := comparableForms(message)
	if !ok {
		return nil
	}
	a, _ := utf8.DecodeLastRuneInString(source)
	b, _ := utf8.DecodeLastRuneInString(translated)
	if a == b {
		return nil
	}
	if strings.ContainsRune(trailingPunctuation, a) || strings.ContainsRune(trailingPunctuation, b) {
		return checkFailure("punctuation", "trailing punctuation differs between source and translation")
	}
	return nil
}

func checkTrailingWhitespace(catalog *Catalog, message *Message) error {
	source, translated, ok := comparableForms(message)
	if !ok {
		return nil
	}
	if strings.HasSuffix(source, " ") != strings.HasSuffix(translated, " ") {
		return checkFailure("whitespace", "trailing whitespace differs between source and translation")
	}
	return nil
}

func checkLeadingCapitalization(catalog *Catalog, message *Message) error {
	source, translated, ok := comparableForms(message)
	if !ok {
		return nil
	}
	a, _ := utf8.DecodeRuneInString(source)
	b, _ := utf8.DecodeRuneInString(translated)
	if unicode.IsLetter(a) && unicode.IsLetter(b) && unicode.IsUpper(a) != unicode.IsUpper(b) {
		return checkFailure("capitalization", "leading capitalization differs between source and translation")
	}
	return nil
}

func checkIdenticalTranslation(catalog *Catalog, message *Message) error {
	source, translated, ok := comparableForms(message)
	if !ok {
		return nil
	}
	if source == translated {
		return checkFailure("identical", "translation is identical to the source text")
	}
	return nil
}

// comparableForms returns the singular source form and its translation when
// both are non-empty.
func comparableForms(message *Message) (source, translated string, ok bool) {
	source = message.ID().Singular()
	text := message.Text()
	if source == "" || len(text) == 0 || text[0] == "" {
		return "", "", false
	}
	return source, text[0], true
}
