package pocat

import (
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestNewCatalog_HeaderDefaults(t *testing.T) {
	c := NewCatalog(Config{})
	if c.Header.Project != "PROJECT" {
		t.Errorf("Project = %q, want PROJECT", c.Header.Project)
	}
	if c.Header.Version != "VERSION" {
		t.Errorf("Version = %q, want VERSION", c.Header.Version)
	}
	if c.Header.Charset != "utf-8" {
		t.Errorf("Charset = %q, want utf-8", c.Header.Charset)
	}
	if c.Header.LanguageTeam != "LANGUAGE <LL@li.org>" {
		t.Errorf("LanguageTeam = %q", c.Header.LanguageTeam)
	}
	if c.Header.CreationDate.IsZero() {
		t.Error("CreationDate should default to now")
	}
	if !c.Fuzzy {
		t.Error("new catalogs should carry the fuzzy header bit")
	}
	if !c.IsTemplate() {
		t.Error("locale-less catalog should be a template")
	}
}

func TestCatalog_PluralResolution(t *testing.T) {
	tests := []struct {
		locale       string
		wantPlurals  int
		wantExprPart string
	}{
		{"", 2, "(n != 1)"},
		{"en", 2, "(n != 1)"},
		{"fr", 2, "(n > 1)"},
		{"ja", 1, "0"},
		{"pt_BR", 2, "(n > 1)"},
		{"pt-BR", 2, "(n > 1)"},
		{"ru", 3, "n%10"},
		{"ar", 6, "n==0"},
		{"xx_unknown", 2, "(n != 1)"},
	}
	for _, tt := range tests {
		t.Run("locale_"+tt.locale, func(t *testing.T) {
			c := NewCatalog(Config{Locale: tt.locale})
			if got := c.NumPlurals(); got != tt.wantPlurals {
				t.Errorf("NumPlurals() = %d, want %d", got, tt.wantPlurals)
			}
			if expr := c.PluralExpr(); !strings.Contains(expr, tt.wantExprPart) {
				t.Errorf("PluralExpr() = %q, want it to contain %q", expr, tt.wantExprPart)
			}
		})
	}
}

func TestCatalog_SetLocaleInvalidatesPluralCache(t *testing.T) {
	c := NewCatalog(Config{Locale: "en"})
	if got := c.NumPlurals(); got != 2 {
		t.Fatalf("NumPlurals() = %d, want 2", got)
	}
	c.SetLocale("ga")
	if got := c.NumPlurals(); got != 5 {
		t.Errorf("NumPlurals() after SetLocale(ga) = %d, want 5", got)
	}
}

func TestCatalog_AddAndGet(t *testing.T) {
	c := NewCatalog(Config{Locale: "de"})
	c.Add(SingularID("Hello"), []string{"Hallo"}, Attrs{Locations: []Location{{"main.go", 1}}})

	if c.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", c.Len())
	}
	m := c.Get(SingularID("Hello"), "")
	if m == nil {
		t.Fatal("Get returned nil")
	}
	if m.Text()[0] != "Hallo" {
		t.Errorf("text = %q, want Hallo", m.Text()[0])
	}
	if !c.Contains(SingularID("Hello"), "") {
		t.Error("Contains should report the stored key")
	}
	if c.Contains(SingularID("Hello"), "menu") {
		t.Error("context must participate in identity")
	}
}

func TestCatalog_ContextSeparatesMessages(t *testing.T) {
	c := NewCatalog(Config{})
	c.Add(SingularID("Open"), nil, Attrs{})
	c.Add(SingularID("Open"), nil, Attrs{Context: "menu"})
	if c.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", c.Len())
	}
	if c.Get(SingularID("Open"), "menu") == nil {
		t.Error("contextual message missing")
	}
}

func TestCatalog_DuplicateAddUnions(t *testing.T) {
	c := NewCatalog(Config{Locale: "de"})
	c.Add(SingularID("Hello"), []string{"Hallo"}, Attrs{
		Locations:    []Location{{"main.go", 1}},
		UserComments: []string{"greeting"},
	})
	c.Add(SingularID("Hello"), []string{"OVERWRITE"}, Attrs{
		Locations:    []Location{{"util.go", 8}, {"main.go", 1}},
		UserComments: []string{"greeting", "second"},
		Flags:        []string{"no-wrap"},
	})

	if c.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", c.Len())
	}
	m := c.Get(SingularID("Hello"), "")
	if m.Text()[0] != "Hallo" {
		t.Errorf("duplicate add must not overwrite the translation, got %q", m.Text()[0])
	}
	wantLoc := []Location{{"main.go", 1}, {"util.go", 8}}
	if !reflect.DeepEqual(m.Locations, wantLoc) {
		t.Errorf("Locations = %v, want %v", m.Locations, wantLoc)
	}
	if !reflect.DeepEqual(m.UserComments, []string{"greeting", "second"}) {
		t.Errorf("UserComments = %v", m.UserComments)
	}
	if !m.HasFlag("no-wrap") {
		t.Error("flags should union")
	}
}

func TestCatalog_DuplicateAddEscalatesPlural(t *testing.T) {
	c := NewCatalog(Config{Locale: "de"})
	c.Add(SingularID("1 file"), nil, Attrs{Locations: []Location{{"a.go", 1}}})
	c.Add(PluralID("1 file", "%d files"), nil, Attrs{Locations: []Location{{"b.go", 2}}})

	if c.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", c.Len())
	}
	m := c.Get(SingularID("1 file"), "")
	if !m.ID().Pluralizable() {
		t.Error("second occurrence should escalate the id to pluralizable")
	}
	if m.ID().Plural() != "%d files" {
		t.Errorf("Plural() = %q", m.ID().Plural())
	}
	wantLoc := []Location{{"a.go", 1}, {"b.go", 2}}
	if !reflect.DeepEqual(m.Locations, wantLoc) {
		t.Errorf("Locations = %v, want %v", m.Locations, wantLoc)
	}
}

func TestCatalog_AllYieldsHeaderFirst(t *testing.T) {
	c := NewCatalog(Config{Locale: "de", Project: "app", Version: "1.0"})
	c.Add(SingularID("Hello"), nil, Attrs{})

	all := c.All()
	if len(all) != 2 {
		t.Fatalf("All() yielded %d messages, want 2", len(all))
	}
	if !all[0].ID().Empty() {
		t.Error("first message should be the header entry")
	}
	if !strings.Contains(all[0].Text()[0], "Project-Id-Version: app 1.0") {
		t.Errorf("header body = %q", all[0].Text()[0])
	}
}

func TestCatalog_SetHeaderMessageRoundTrip(t *testing.T) {
	src := NewCatalog(Config{
		Locale:       "de",
		Project:      "app",
		Version:      "1.2",
		CreationDate: time.Date(2026, time.March, 1, 10, 30, 0, 0, time.UTC),
	})
	header := src.HeaderMessage()

	dst := NewCatalog(Config{})
	dst.Set(header)

	if dst.Len() != 0 {
		t.Fatalf("header entry must not land in the mapping, Len() = %d", dst.Len())
	}
	if dst.Header.Project != "app" || dst.Header.Version != "1.2" {
		t.Errorf("Project/Version = %q/%q", dst.Header.Project, dst.Header.Version)
	}
	if dst.Locale() != "de" {
		t.Errorf("Locale() = %q, want de", dst.Locale())
	}
	if dst.NumPlurals() != 2 {
		t.Errorf("NumPlurals() = %d, want 2", dst.NumPlurals())
	}
}

func TestCatalog_Clone(t *testing.T) {
	c := NewCatalog(Config{Locale: "de"})
	c.Add(SingularID("Hello"), []string{"Hallo"}, Attrs{})
	clone := c.Clone()
	clone.Get(SingularID("Hello"), "").SetText([]string{"Servus"})

	if got := c.Get(SingularID("Hello"), "").Text()[0]; got != "Hallo" {
		t.Errorf("clone mutation leaked into original: %q", got)
	}
	if clone.Locale() != "de" {
		t.Errorf("clone locale = %q", clone.Locale())
	}
}

func TestCatalog_Difference(t *testing.T) {
	template := NewCatalog(Config{})
	template.Add(SingularID("Hello"), nil, Attrs{})
	template.Add(SingularID("Goodbye"), nil, Attrs{})

	c := NewCatalog(Config{Locale: "fr"})
	c.Add(SingularID("Hello"), []string{"Bonjour"}, Attrs{})
	c.Add(SingularID("Stale"), []string{"Vieux"}, Attrs{})

	c.Difference(template)

	if got := c.New.Len(); got != 1 {
		t.Fatalf("New has %d entries, want 1", got)
	}
	if c.New.Get(Key{"Goodbye", ""}) == nil {
		t.Error("Goodbye should be classified new")
	}
	if got := c.Orphans.Len(); got != 1 {
		t.Fatalf("Orphans has %d entries, want 1", got)
	}
	if c.Orphans.Get(Key{"Stale", ""}) == nil {
		t.Error("Stale should be classified orphan")
	}
	if c.Len() != 2 {
		t.Errorf("Difference must not touch the mapping, Len() = %d", c.Len())
	}

	// Idempotent from the same state.
	c.Difference(template)
	if c.New.Len() != 1 || c.Orphans.Len() != 1 {
		t.Errorf("second pass changed classification: new=%d orphans=%d", c.New.Len(), c.Orphans.Len())
	}
}

func TestCatalog_MergeNew(t *testing.T) {
	template := NewCatalog(Config{})
	template.Add(SingularID("Goodbye"), nil, Attrs{})

	c := NewCatalog(Config{Locale: "fr"})
	c.Difference(template)
	c.MergeNew()

	if c.New.Len() != 0 {
		t.Error("MergeNew should clear New")
	}
	m := c.Get(SingularID("Goodbye"), "")
	if m == nil {
		t.Fatal("merged message missing from mapping")
	}
	if !m.Modified {
		t.Error("merged messages should be marked modified")
	}
}
