package pocat

import (
	"reflect"
	"testing"
	"time"
)

func TestCatalog_Update_CarriesExactMatches(t *testing.T) {
	c := NewCatalog(Config{Locale: "fr"})
	c.Add(SingularID("Hello"), []string{"Bonjour"}, Attrs{Locations: []Location{{"main.go", 1}}})

	template := NewCatalog(Config{})
	template.Add(SingularID("Hello"), nil, Attrs{Locations: []Location{{"main.go", 4}}})

	c.Update(template, nil)

	m := c.Get(SingularID("Hello"), "")
	if m == nil {
		t.Fatal("message vanished")
	}
	if m.Text()[0] != "Bonjour" {
		t.Errorf("translation lost: %q", m.Text()[0])
	}
	if m.Fuzzy() {
		t.Error("exact match must not be fuzzy")
	}
	wantLoc := []Location{{"main.go", 4}}
	if !reflect.DeepEqual(m.Locations, wantLoc) {
		t.Errorf("locations should come from the template, got %v", m.Locations)
	}
	if c.Obsolete.Len() != 0 {
		t.Errorf("nothing should be obsolete, got %d", c.Obsolete.Len())
	}
}

func TestCatalog_Update_FuzzyMatchRenamed(t *testing.T) {
	c := NewCatalog(Config{Locale: "fr"})
	c.Add(SingularID("Colour"), []string{"Couleur"}, Attrs{})

	template := NewCatalog(Config{})
	template.Add(SingularID("Color"), nil, Attrs{})

	c.Update(template, nil)

	m := c.Get(SingularID("Color"), "")
	if m == nil {
		t.Fatal("renamed message missing")
	}
	if m.Text()[0] != "Couleur" {
		t.Errorf("fuzzy match should inherit the translation, got %q", m.Text()[0])
	}
	if !m.Fuzzy() {
		t.Error("fuzzy match must be flagged fuzzy")
	}
	if m.PreviousID.Singular() != "Colour" {
		t.Errorf("PreviousID = %q, want Colour", m.PreviousID.Singular())
	}
	if c.Obsolete.Len() != 0 {
		t.Errorf("consumed source must not go obsolete, got %d entries", c.Obsolete.Len())
	}
}

func TestCatalog_Update_NoFuzzyMatching(t *testing.T) {
	c := NewCatalog(Config{Locale: "fr"})
	c.Add(SingularID("Colour"), []string{"Couleur"}, Attrs{})

	template := NewCatalog(Config{})
	template.Add(SingularID("Color"), nil, Attrs{})

	c.Update(template, &UpdateOptions{NoFuzzyMatching: true})

	m := c.Get(SingularID("Color"), "")
	if m == nil {
		t.Fatal("template message missing")
	}
	if m.Translated() {
		t.Errorf("should be untranslated, got %q", m.Text())
	}
	if c.Obsolete.Get(Key{"Colour", ""}) == nil {
		t.Error("old entry should be parked obsolete")
	}
}

func TestCatalog_Update_PluralEscalationPadsForms(t *testing.T) {
	c := NewCatalog(Config{Locale: "fr"})
	c.Add(SingularID("1 file"), []string{"un fichier"}, Attrs{})

	template := NewCatalog(Config{})
	template.Add(PluralID("1 file", "%d files"), nil, Attrs{})

	c.Update(template, nil)

	m := c.Get(SingularID("1 file"), "")
	if m == nil {
		t.Fatal("message missing")
	}
	want := []string{"un fichier", ""}
	if !reflect.DeepEqual(m.Text(), want) {
		t.Errorf("Text() = %q, want %q", m.Text(), want)
	}
	if !m.Fuzzy() {
		t.Error("arity coercion must force the fuzzy flag")
	}
}

func TestCatalog_Update_PluralToSingularTruncates(t *testing.T) {
	c := NewCatalog(Config{Locale: "fr"})
	c.Add(PluralID("1 file", "%d files"), []string{"un fichier", "%d fichiers"}, Attrs{})

	template := NewCatalog(Config{})
	template.Add(SingularID("1 file"), nil, Attrs{})

	c.Update(template, nil)

	m := c.Get(SingularID("1 file"), "")
	want := []string{"un fichier"}
	if !reflect.DeepEqual(m.Text(), want) {
		t.Errorf("Text() = %q, want %q", m.Text(), want)
	}
	if !m.Fuzzy() {
		t.Error("arity coercion must force the fuzzy flag")
	}
}

func TestCatalog_Update_ObsoleteAccounting(t *testing.T) {
	c := NewCatalog(Config{Locale: "fr"})
	c.Add(SingularID("Keep"), []string{"Garder"}, Attrs{})
	c.Add(SingularID("Drop"), []string{"Jeter"}, Attrs{})

	template := NewCatalog(Config{})
	template.Add(SingularID("Keep"), nil, Attrs{})

	c.Update(template, nil)

	if c.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", c.Len())
	}
	obsolete := c.Obsolete.Get(Key{"Drop", ""})
	if obsolete == nil {
		t.Fatal("dropped entry should be obsolete, not deleted")
	}
	if obsolete.Text()[0] != "Jeter" {
		t.Errorf("obsolete entry lost its translation: %q", obsolete.Text()[0])
	}
	if !obsolete.Modified {
		t.Error("obsolete entries should be marked modified")
	}
}

func TestCatalog_Update_InsertsNewUntranslated(t *testing.T) {
	c := NewCatalog(Config{Locale: "fr"})

	template := NewCatalog(Config{})
	template.Add(SingularID("Brand new"), nil, Attrs{Locations: []Location{{"x.go", 7}}})

	c.Update(template, nil)

	m := c.Get(SingularID("Brand new"), "")
	if m == nil {
		t.Fatal("new template message missing")
	}
	if m.Translated() || m.Fuzzy() {
		t.Error("fresh insertion must be untranslated and not fuzzy")
	}
}

func TestCatalog_Update_FuzzyCandidateConsumedOnce(t *testing.T) {
	c := NewCatalog(Config{Locale: "fr"})
	c.Add(SingularID("Colour"), []string{"Couleur"}, Attrs{})

	template := NewCatalog(Config{})
	template.Add(SingularID("Color"), nil, Attrs{})
	template.Add(SingularID("Colors"), nil, Attrs{})

	c.Update(template, nil)

	inherited := 0
	for _, m := range c.Messages() {
		if m.Translated() {
			inherited++
		}
	}
	if inherited != 1 {
		t.Errorf("one source translation claimed %d times", inherited)
	}
}

func TestCatalog_Update_UntranslatedNotFuzzyCandidate(t *testing.T) {
	c := NewCatalog(Config{Locale: "fr"})
	c.Add(SingularID("Colour"), nil, Attrs{})

	template := NewCatalog(Config{})
	template.Add(SingularID("Color"), nil, Attrs{})

	c.Update(template, nil)

	m := c.Get(SingularID("Color"), "")
	if m.Fuzzy() {
		t.Error("untranslated entries must not feed fuzzy matching")
	}
	if m.PreviousID.Singular() != "" {
		t.Errorf("PreviousID = %q, want empty", m.PreviousID.Singular())
	}
}

func TestCatalog_Update_UserCommentsCarriedOrDiscarded(t *testing.T) {
	template := NewCatalog(Config{})
	template.Add(SingularID("Hello"), nil, Attrs{})

	c := NewCatalog(Config{Locale: "fr"})
	c.Add(SingularID("Hello"), []string{"Bonjour"}, Attrs{UserComments: []string{"translator note"}})
	c.Update(template, nil)
	if got := c.Get(SingularID("Hello"), "").UserComments; !reflect.DeepEqual(got, []string{"translator note"}) {
		t.Errorf("UserComments = %v, want carried over", got)
	}

	c = NewCatalog(Config{Locale: "fr"})
	c.Add(SingularID("Hello"), []string{"Bonjour"}, Attrs{UserComments: []string{"translator note"}})
	c.Update(template, &UpdateOptions{DiscardUserComments: true})
	if got := c.Get(SingularID("Hello"), "").UserComments; len(got) != 0 {
		t.Errorf("UserComments = %v, want discarded", got)
	}
}

func TestCatalog_Update_HeaderDates(t *testing.T) {
	creation := time.Date(2026, time.June, 1, 12, 0, 0, 0, time.UTC)
	revision := time.Date(2026, time.April, 2, 8, 0, 0, 0, time.UTC)

	c := NewCatalog(Config{Locale: "fr", RevisionDate: revision})
	template := NewCatalog(Config{CreationDate: creation})
	c.Update(template, nil)

	if !c.Header.CreationDate.Equal(creation) {
		t.Errorf("CreationDate = %v, want the template's", c.Header.CreationDate)
	}
	if !c.Header.RevisionDate.Equal(revision) {
		t.Errorf("RevisionDate = %v, want untouched", c.Header.RevisionDate)
	}
	if !c.Modified {
		t.Error("update should mark the catalog modified")
	}
}

func TestCatalog_Update_HeaderCommentOption(t *testing.T) {
	c := NewCatalog(Config{Locale: "fr", HeaderComment: "# mine\n#"})
	template := NewCatalog(Config{HeaderComment: "# theirs\n#"})

	c.Update(template, nil)
	if c.Header.Comment != "# mine\n#" {
		t.Errorf("comment replaced without the option: %q", c.Header.Comment)
	}

	c.Update(template, &UpdateOptions{UpdateHeaderComment: true})
	if c.Header.Comment != "# theirs\n#" {
		t.Errorf("comment not replaced with the option: %q", c.Header.Comment)
	}
}

func TestCatalog_Update_NothingVanishes(t *testing.T) {
	c := NewCatalog(Config{Locale: "fr"})
	c.Add(SingularID("a"), []string{"A"}, Attrs{})
	c.Add(SingularID("b"), []string{"B"}, Attrs{})
	c.Add(SingularID("c"), nil, Attrs{})

	template := NewCatalog(Config{})
	template.Add(SingularID("a"), nil, Attrs{})
	template.Add(SingularID("d"), nil, Attrs{})

	before := c.Len()
	c.Update(template, nil)

	if got := c.Len() + c.Obsolete.Len(); got < before {
		t.Errorf("entries vanished: live+obsolete = %d, had %d", got, before)
	}
	if c.Len() != template.Len() {
		t.Errorf("live mapping should mirror the template: %d vs %d", c.Len(), template.Len())
	}
}
