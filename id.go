package pocat

// ID identifies the source text of a message: a single msgid, or a
// msgid/msgid_plural pair for pluralizable messages. The zero value is the
// empty singular id used by the header entry.
type ID struct {
	singular     string
	plural       string
	pluralizable bool
}

// SingularID returns the id of an ordinary, non-pluralizable message.
func SingularID(text string) ID {
	return ID{singular: text}
}

// PluralID returns the id of a pluralizable message.
func PluralID(singular, plural string) ID {
	return ID{singular: singular, plural: plural, pluralizable: true}
}

// Singular returns the msgid (the singular form for pluralizable ids).
func (id ID) Singular() string { return id.singular }

// Plural returns the msgid_plural, or "" for singular ids.
func (id ID) Plural() string { return id.plural }

// Pluralizable reports whether the id carries a plural form.
func (id ID) Pluralizable() bool { return id.pluralizable }

// Empty reports whether the id is the empty singular id. A message with an
// empty id is the catalog header, never an ordinary entry.
func (id ID) Empty() bool { return !id.pluralizable && id.singular == "" }

// Forms returns the source forms of the id: one element for singular ids,
// two for pluralizable ones.
func (id ID) Forms() []string {
	if id.pluralizable {
		return []string{id.singular, id.plural}
	}
	return []string{id.singular}
}

func (id ID) String() string {
	if id.pluralizable {
		return id.singular + " | " + id.plural
	}
	return id.singular
}

// Key is the identity of a message inside a catalog: the singular source
// text plus the disambiguation context. The plural form never participates,
// so two pluralizable ids differing only in plural text collide.
type Key struct {
	ID      string
	Context string
}

// KeyFor derives the catalog key for an id and context.
func KeyFor(id ID, context string) Key {
	return Key{ID: id.Singular(), Context: context}
}
