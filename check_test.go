package pocat

import "testing"

func kinds(errs []error) []string {
	var out []string
	for _, err := range errs {
		out = append(out, err.(*TranslationError).Kind)
	}
	return out
}

func hasKind(errs []error, kind string) bool {
	for _, k := range kinds(errs) {
		if k == kind {
			return true
		}
	}
	return false
}

func TestMessage_Check(t *testing.T) {
	tests := []struct {
		name     string
		id       ID
		text     []string
		wantKind string
	}{
		{"clean", SingularID("Hello."), []string{"Bonjour."}, ""},
		{"missing_punctuation", SingularID("Hello."), []string{"Bonjour"}, "punctuation"},
		{"extra_punctuation", SingularID("Hello"), []string{"Bonjour!"}, "punctuation"},
		{"trailing_space", SingularID("Hello "), []string{"Bonjour"}, "whitespace"},
		{"lowercase_start", SingularID("Hello."), []string{"bonjour."}, "capitalization"},
		{"identical", SingularID("OK"), []string{"OK"}, "identical"},
		{"format_count", SingularID("%d of %d"), []string{"%d sur"}, "format"},
		{"format_type", SingularID("%d items"), []string{"%s objets"}, "format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMessage(tt.id, tt.text, Attrs{})
			errs := m.Check(nil)
			if tt.wantKind == "" {
				if len(errs) != 0 {
					t.Errorf("Check() = %v, want clean", kinds(errs))
				}
				return
			}
			if !hasKind(errs, tt.wantKind) {
				t.Errorf("Check() = %v, want kind %q", kinds(errs), tt.wantKind)
			}
		})
	}
}

func TestMessage_CheckUntranslatedIsClean(t *testing.T) {
	m := NewMessage(SingularID("Hello."), nil, Attrs{})
	if errs := m.Check(nil); len(errs) != 0 {
		t.Errorf("untranslated message should pass every check, got %v", kinds(errs))
	}
}

func TestMessage_CheckPluralForms(t *testing.T) {
	c := NewCatalog(Config{Locale: "ru"})
	m := NewMessage(PluralID("%d file", "%d files"), []string{"%d файл", "%d файла"}, Attrs{})
	errs := m.Check(c)
	if !hasKind(errs, "plural-forms") {
		t.Errorf("two forms against a three-form locale should fail, got %v", kinds(errs))
	}

	m = NewMessage(PluralID("%d file", "%d files"), []string{"%d файл", "%d файла", "%d файлов"}, Attrs{})
	if errs := m.Check(c); hasKind(errs, "plural-forms") {
		t.Errorf("matching form count flagged: %v", kinds(errs))
	}
}

func TestCatalog_Check(t *testing.T) {
	c := NewCatalog(Config{Locale: "fr"})
	c.Add(SingularID("Hello."), []string{"Bonjour."}, Attrs{})
	c.Add(SingularID("Goodbye."), []string{"Au revoir"}, Attrs{})

	failures := c.Check()
	if len(failures) != 1 {
		t.Fatalf("got %d failing messages, want 1", len(failures))
	}
	if got := failures[0].Message.ID().Singular(); got != "Goodbye." {
		t.Errorf("failing message = %q", got)
	}
	if !hasKind(failures[0].Errors, "punctuation") {
		t.Errorf("failure kinds = %v", kinds(failures[0].Errors))
	}
}
