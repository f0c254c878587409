package pocat

import (
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"

	"github.com/potools/pocat/internal/plural"
)

// Config carries the initial metadata of a catalog. Zero values fall back
// to the conventional placeholders used in freshly generated templates.
type Config struct {
	// Locale is the locale identifier, empty for a template.
	Locale           string
	Domain           string
	Project          string
	Version          string
	CopyrightHolder  string
	MsgidBugsAddress string
	CreationDate     time.Time
	RevisionDate     time.Time
	LastTranslator   string
	LanguageTeam     string
	Charset          string
	// HeaderComment overrides the default header comment template.
	HeaderComment string
	Filename      string
}

// Catalog is an ordered, keyed collection of messages for one locale, or a
// template when no locale is bound, plus project metadata.
type Catalog struct {
	// Header holds the catalog-wide metadata serialized into the header
	// entry.
	Header HeaderMetadata
	// Domain is the gettext message domain.
	Domain string
	// Filename is the path the catalog was loaded from or saves to.
	Filename string
	// Fuzzy is the catalog-level fuzzy bit on the header entry.
	Fuzzy bool
	// Modified is set when catalog content changed since load.
	Modified bool

	// New holds messages present in a reference template but not yet merged
	// into this catalog. Orphans holds messages absent from the template.
	// Both are classifications produced by Difference. Obsolete holds
	// messages removed from the live mapping by Update, retained for
	// persistence and recovery.
	New      *MessageList
	Orphans  *MessageList
	Obsolete *MessageList

	locale      string
	localeTag   language.Tag
	localeKnown bool

	messages *MessageList

	numPlurals int
	pluralExpr string
}

// NewCatalog creates an empty catalog with the given metadata.
func NewCatalog(cfg Config) *Catalog {
	if cfg.Project == "" {
		cfg.Project = "PROJECT"
	}
	if cfg.Version == "" {
		cfg.Version = "VERSION"
	}
	if cfg.CopyrightHolder == "" {
		cfg.CopyrightHolder = "ORGANIZATION"
	}
	if cfg.MsgidBugsAddress == "" {
		cfg.MsgidBugsAddress = "EMAIL@ADDRESS"
	}
	if cfg.LastTranslator == "" {
		cfg.LastTranslator = "FULL NAME <EMAIL@ADDRESS>"
	}
	if cfg.LanguageTeam == "" {
		cfg.LanguageTeam = "LANGUAGE <LL@li.org>"
	}
	if cfg.Charset == "" {
		cfg.Charset = "utf-8"
	}
	if cfg.CreationDate.IsZero() {
		cfg.CreationDate = time.Now()
	}
	c := &Catalog{
		Header: HeaderMetadata{
			Project:          cfg.Project,
			Version:          cfg.Version,
			CopyrightHolder:  cfg.CopyrightHolder,
			MsgidBugsAddress: cfg.MsgidBugsAddress,
			CreationDate:     cfg.CreationDate,
			RevisionDate:     cfg.RevisionDate,
			LastTranslator:   cfg.LastTranslator,
			LanguageTeam:     cfg.LanguageTeam,
			Charset:          cfg.Charset,
			Comment:          cfg.HeaderComment,
		},
		Domain:   cfg.Domain,
		Filename: cfg.Filename,
		Fuzzy:    true,
		New:      newMessageList(),
		Orphans:  newMessageList(),
		Obsolete: newMessageList(),
		messages: newMessageList(),
	}
	c.SetLocale(cfg.Locale)
	return c
}

// Locale returns the locale identifier, empty for a template.
func (c *Catalog) Locale() string { return c.locale }

// IsTemplate reports whether the catalog is locale-less.
func (c *Catalog) IsTemplate() bool { return c.locale == "" }

// SetLocale binds the catalog to a locale identifier ("de", "pt_BR") or, with
// an empty identifier, marks it as a template. Unrecognized identifiers are
// kept verbatim; plural-rule resolution then falls back to the default rule.
// Cached plural values are invalidated.
func (c *Catalog) SetLocale(locale string) {
	c.numPlurals = 0
	c.pluralExpr = ""
	c.locale = strings.ReplaceAll(locale, "-", "_")
	c.localeKnown = false
	if c.locale == "" {
		return
	}
	tag, err := language.Parse(strings.ReplaceAll(c.locale, "_", "-"))
	if err == nil {
		c.localeTag = tag
		c.localeKnown = true
	}
}

// NumPlurals returns the plural count for the catalog's locale, resolved on
// first use and cached. Templates and unknown locales use the default
// two-form rule.
func (c *Catalog) NumPlurals() int {
	if c.numPlurals == 0 {
		c.resolvePlural()
	}
	return c.numPlurals
}

// PluralExpr returns the plural selection expression for the catalog's
// locale, resolved on first use and cached.
func (c *Catalog) PluralExpr() string {
	if c.pluralExpr == "" {
		c.resolvePlural()
	}
	return c.pluralExpr
}

// PluralForms returns the Plural-Forms header declaration.
func (c *Catalog) PluralForms() string {
	return "nplurals=" + strconv.Itoa(c.NumPlurals()) + "; plural=" + c.PluralExpr()
}

func (c *Catalog) resolvePlural() {
	rule := plural.DefaultRule
	if c.locale != "" {
		rule = plural.ForLocale(c.locale)
	}
	if c.numPlurals == 0 {
		c.numPlurals = rule.NumPlurals
	}
	if c.pluralExpr == "" {
		c.pluralExpr = rule.Expr
	}
}

// setPluralForms overrides the cached plural values, e.g. from a parsed
// Plural-Forms header.
func (c *Catalog) setPluralForms(numPlurals int, expr string) {
	if numPlurals > 0 {
		c.numPlurals = numPlurals
	}
	if expr != "" {
		c.pluralExpr = expr
	}
}

// Len returns the number of stored messages, the header entry excluded.
func (c *Catalog) Len() int { return c.messages.Len() }

// Contains reports whether a message with the derived key is stored.
func (c *Catalog) Contains(id ID, context string) bool {
	return c.messages.Get(KeyFor(id, context)) != nil
}

// Get returns the stored message for id and context, or nil.
func (c *Catalog) Get(id ID, context string) *Message {
	return c.messages.Get(KeyFor(id, context))
}

// Lookup returns the stored message for a derived key, or nil.
func (c *Catalog) Lookup(key Key) *Message {
	return c.messages.Get(key)
}

// Delete removes the message with the derived key, if present.
func (c *Catalog) Delete(id ID, context string) {
	c.messages.delete(KeyFor(id, context))
}

// Messages returns the stored messages in insertion order, header excluded.
func (c *Catalog) Messages() []*Message { return c.messages.Messages() }

// Keys returns the stored keys in insertion order.
func (c *Catalog) Keys() []Key { return c.messages.Keys() }

// All returns the header message synthesized from current metadata followed
// by all stored messages in insertion order.
func (c *Catalog) All() []*Message {
	return append([]*Message{c.HeaderMessage()}, c.Messages()...)
}

// Add builds a message from id, translated forms and attributes, folds it
// into the catalog via Set and returns the stored message.
func (c *Catalog) Add(id ID, text []string, attrs Attrs) *Message {
	m := NewMessage(id, text, attrs)
	c.Set(m)
	if id.Empty() {
		return m
	}
	return c.messages.Get(KeyFor(id, attrs.Context))
}

// Set stores a message under its derived key.
//
// When a message with the same key exists, the incoming locations, comments
// and flags are unioned into it, original order preserved; the incoming
// translation is discarded unless the new occurrence escalates the existing
// singular message to pluralizable. The empty-id message is intercepted and
// applied to the catalog header instead.
func (c *Catalog) Set(m *Message) {
	if m.ID().Empty() {
		c.applyHeaderMessage(m)
		return
	}
	key := KeyFor(m.ID(), m.Context)
	current := c.messages.Get(key)
	if current == nil {
		c.messages.set(key, m)
		return
	}
	if m.ID().Pluralizable() && !current.ID().Pluralizable() {
		// The new occurrence adds pluralization.
		current.SetID(m.ID())
		current.SetText(m.Text())
	}
	current.Locations = distinctLocations(append(current.Locations, m.Locations...))
	current.AutoComments = distinctStrings(append(current.AutoComments, m.AutoComments...))
	current.UserComments = distinctStrings(append(current.UserComments, m.UserComments...))
	for f := range m.flags {
		current.flags[f] = struct{}{}
	}
}

// AddObsolete stores a message in the obsolete bucket, keyed like the main
// mapping. Used by codecs reading persisted obsolete entries.
func (c *Catalog) AddObsolete(m *Message) {
	c.Obsolete.set(KeyFor(m.ID(), m.Context), m)
}

// Clone deep-copies the catalog metadata and all stored messages. The
// workflow buckets of the clone start empty.
func (c *Catalog) Clone() *Catalog {
	clone := &Catalog{
		Header:      c.Header,
		Domain:      c.Domain,
		Filename:    c.Filename,
		Fuzzy:       c.Fuzzy,
		Modified:    c.Modified,
		New:         newMessageList(),
		Orphans:     newMessageList(),
		Obsolete:    newMessageList(),
		locale:      c.locale,
		localeTag:   c.localeTag,
		localeKnown: c.localeKnown,
		messages:    newMessageList(),
		numPlurals:  c.numPlurals,
		pluralExpr:  c.pluralExpr,
	}
	for _, key := range c.messages.Keys() {
		clone.messages.set(key, c.messages.Get(key).Clone())
	}
	return clone
}

// PropertiesOf copies the catalog-level metadata of another catalog onto
// this one, messages untouched.
func (c *Catalog) PropertiesOf(other *Catalog) {
	c.Header = other.Header
	c.Domain = other.Domain
	c.Filename = other.Filename
	c.Fuzzy = other.Fuzzy
	c.locale = other.locale
	c.localeTag = other.localeTag
	c.localeKnown = other.localeKnown
	c.numPlurals = other.numPlurals
	c.pluralExpr = other.pluralExpr
}

// Difference classifies this catalog against a template without touching
// the main mapping: template messages missing here land in New as clones,
// stored messages missing from the template land in Orphans. Calling it
// again with the same template from the same state yields the same
// classification.
func (c *Catalog) Difference(template *Catalog) {
	c.New.clear()
	c.Orphans.clear()
	consumed := make(map[Key]bool)
	for _, m := range template.Messages() {
		key := KeyFor(m.ID(), m.Context)
		if c.messages.Get(key) != nil {
			consumed[key] = true
		} else {
			c.New.set(key, m.Clone())
		}
	}
	for _, key := range c.messages.Keys() {
		if !consumed[key] {
			c.Orphans.set(key, c.messages.Get(key))
		}
	}
}

// MergeNew moves every entry of New into the main mapping, marking each
// modified, and clears New.
func (c *Catalog) MergeNew() {
	for _, m := range c.New.Messages() {
		m.Modified = true
		c.Set(m)
	}
	c.New.clear()
}
