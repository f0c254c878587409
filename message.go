package pocat

import (
	"regexp"
	"sort"
)

// Percent-style format specifiers, e.g. %s, %d, %(name)s, %-5.2f.
var formatSpec = regexp.MustCompile(`%(?:\(\w*\))?[-#0 +]?(?:\*|\d+)?(?:\.(?:\*|\d+))?[hlL]?[diouxXeEfFgGcrs%]`)

const (
	// FlagFuzzy marks a translation as approximate and in need of review.
	FlagFuzzy = "fuzzy"
	// FlagFormat marks a message whose id embeds format placeholders. It is
	// derived from the id, never set by hand.
	FlagFormat = "c-format"
)

// Location is one source occurrence of a message.
type Location struct {
	File string
	Line int
}

// Attrs carries the optional attributes of a message.
type Attrs struct {
	Locations    []Location
	Flags        []string
	AutoComments []string
	UserComments []string
	PreviousID   ID
	Lineno       int
	Context      string
}

// Message is a single translatable unit and its metadata. Mutating the id,
// the translation or the fuzzy flag through the accessors marks the message
// modified.
type Message struct {
	id   ID
	text []string

	// Locations are the source occurrences, ordered, first occurrence wins.
	Locations []Location
	// AutoComments are extractor-generated annotation lines.
	AutoComments []string
	// UserComments are human-authored annotation lines.
	UserComments []string
	// PreviousID is the id this message was fuzzy-matched from, if any.
	PreviousID ID
	// Lineno is the line the msgid was found on in the source file, if read
	// from one.
	Lineno int
	// Context is the msgctxt disambiguation string, empty for none.
	Context string
	// Modified is the dirty flag.
	Modified bool

	flags map[string]struct{}
}

// NewMessage builds a message, normalizing locations and comments to
// deduplicated ordered sequences and deriving the format flag from the id.
// A nil text defaults to the empty translation: one empty string per source
// form of the id.
func NewMessage(id ID, text []string, attrs Attrs) *Message {
	if len(text) == 0 {
		text = make([]string, len(id.Forms()))
	}
	m := &Message{
		id:           id,
		text:         append([]string(nil), text...),
		Locations:    distinctLocations(attrs.Locations),
		AutoComments: distinctStrings(attrs.AutoComments),
		UserComments: distinctStrings(attrs.UserComments),
		PreviousID:   attrs.PreviousID,
		Lineno:       attrs.Lineno,
		Context:      attrs.Context,
		flags:        make(map[string]struct{}, len(attrs.Flags)),
	}
	for _, f := range attrs.Flags {
		m.flags[f] = struct{}{}
	}
	m.deriveFormatFlag()
	return m
}

// ID returns the source id.
func (m *Message) ID() ID { return m.id }

// SetID replaces the source id and re-derives the format flag.
func (m *Message) SetID(id ID) {
	m.id = id
	m.Modified = true
	m.deriveFormatFlag()
}

// Text returns the translated forms: one element for singular messages, one
// per plural form otherwise. All-empty forms mean untranslated.
func (m *Message) Text() []string { return m.text }

// SetText replaces the translated forms.
func (m *Message) SetText(text []string) {
	m.text = append([]string(nil), text...)
	m.Modified = true
}

// Translated reports whether any form holds text.
func (m *Message) Translated() bool {
	for _, s := range m.text {
		if s != "" {
			return true
		}
	}
	return false
}

// Fuzzy reports whether the fuzzy flag is present.
func (m *Message) Fuzzy() bool { return m.HasFlag(FlagFuzzy) }

// SetFuzzy adds or removes the fuzzy flag.
func (m *Message) SetFuzzy(fuzzy bool) {
	m.Modified = true
	if fuzzy {
		m.flags[FlagFuzzy] = struct{}{}
	} else {
		delete(m.flags, FlagFuzzy)
	}
}

// HasFlag reports whether the given flag is set.
func (m *Message) HasFlag(flag string) bool {
	_, ok := m.flags[flag]
	return ok
}

// AddFlag sets a free-form flag.
func (m *Message) AddFlag(flag string) {
	m.flags[flag] = struct{}{}
}

// Flags returns all flags, fuzzy first, the rest sorted.
func (m *Message) Flags() []string {
	out := make([]string, 0, len(m.flags))
	for f := range m.flags {
		if f != FlagFuzzy {
			out = append(out, f)
		}
	}
	sort.Strings(out)
	if m.Fuzzy() {
		out = append([]string{FlagFuzzy}, out...)
	}
	return out
}

// Format reports whether any source form of the id contains a format
// specifier.
func (m *Message) Format() bool {
	for _, form := range m.id.Forms() {
		if formatSpec.MatchString(form) {
			return true
		}
	}
	return false
}

func (m *Message) deriveFormatFlag() {
	if !m.id.Empty() && m.Format() {
		m.flags[FlagFormat] = struct{}{}
	} else {
		delete(m.flags, FlagFormat)
	}
}

// Less orders messages by (singular, context), for stable sorting only;
// catalog identity uses KeyFor.
func (m *Message) Less(other *Message) bool {
	if m.id.Singular() != other.id.Singular() {
		return m.id.Singular() < other.id.Singular()
	}
	return m.Context < other.Context
}

// Equal reports whether two messages share (singular, context).
func (m *Message) Equal(other *Message) bool {
	return m.id.Singular() == other.id.Singular() && m.Context == other.Context
}

// Clone returns an independent deep copy; mutating it never affects the
// original.
func (m *Message) Clone() *Message {
	clone := &Message{
		id:           m.id,
		text:         append([]string(nil), m.text...),
		Locations:    append([]Location(nil), m.Locations...),
		AutoComments: append([]string(nil), m.AutoComments...),
		UserComments: append([]string(nil), m.UserComments...),
		PreviousID:   m.PreviousID,
		Lineno:       m.Lineno,
		Context:      m.Context,
		Modified:     m.Modified,
		flags:        make(map[string]struct{}, len(m.flags)),
	}
	for f := range m.flags {
		clone.flags[f] = struct{}{}
	}
	return clone
}

func distinctStrings(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

func distinctLocations(in []Location) []Location {
	out := make([]Location, 0, len(in))
	seen := make(map[Location]struct{}, len(in))
	for _, l := range in {
		if _, ok := seen[l]; ok {
			continue
		}
		seen[l] = struct{}{}
		out = append(out, l)
	}
	return out
}
