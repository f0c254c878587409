package pocat

import (
	"mime"
	"strconv"
	"strings"
	"time"
)

// Version of the pocat tools, reported in the Generated-By header.
const Version = "0.1.0"

// DefaultHeaderComment is the header comment template for new catalogs.
// The upper-case tokens are substituted when the comment is rendered; the
// template itself is immutable.
const DefaultHeaderComment = `# Translations template for PROJECT.
# Copyright (C) YEAR ORGANIZATION
# This file is distributed under the same license as the PROJECT project.
# FIRST AUTHOR <EMAIL@ADDRESS>, YEAR.
#`

const headerDateLayout = "2006-01-02 15:04-0700"

// placeholder rendered for dates that were never set
const unsetDate = "YEAR-MO-DA HO:MI+ZONE"

// HeaderMetadata is the catalog-wide metadata carried by the header entry,
// held apart from the message mapping.
type HeaderMetadata struct {
	Project          string
	Version          string
	CopyrightHolder  string
	MsgidBugsAddress string
	CreationDate     time.Time
	RevisionDate     time.Time
	LastTranslator   string
	LanguageTeam     string
	Charset          string
	// Comment is the raw header comment template; empty selects
	// DefaultHeaderComment.
	Comment string
}

// HeaderField is one named header line of the header entry body.
type HeaderField struct {
	Name  string
	Value string
}

// MIMEHeaders synthesizes the header field list from current metadata.
func (c *Catalog) MIMEHeaders() []HeaderField {
	h := c.Header
	fields := []HeaderField{
		{"Project-Id-Version", h.Project + " " + h.Version},
		{"Report-Msgid-Bugs-To", h.MsgidBugsAddress},
		{"POT-Creation-Date", formatHeaderDate(h.CreationDate)},
		{"PO-Revision-Date", formatHeaderDate(h.RevisionDate)},
		{"Last-Translator", h.LastTranslator},
	}
	if c.locale != "" {
		fields = append(fields, HeaderField{"Language", c.locale})
	}
	team := h.LanguageTeam
	if c.locale != "" && strings.Contains(team, "LANGUAGE") {
		team = strings.ReplaceAll(team, "LANGUAGE", c.locale)
	}
	fields = append(fields, HeaderField{"Language-Team", team})
	if c.locale != "" {
		fields = append(fields, HeaderField{"Plural-Forms", c.PluralForms()})
	}
	fields = append(fields,
		HeaderField{"MIME-Version", "1.0"},
		HeaderField{"Content-Type", "text/plain; charset=" + h.Charset},
		HeaderField{"Content-Transfer-Encoding", "8bit"},
		HeaderField{"Generated-By", "pocat " + Version},
	)
	return fields
}

// SetMIMEHeaders parses an ordered header field list back into catalog
// metadata. Field names are case-insensitive; unknown fields are ignored.
func (c *Catalog) SetMIMEHeaders(fields []HeaderField) {
	pluralForms := ""
	for _, f := range fields {
		value := strings.TrimSpace(f.Value)
		switch strings.ToLower(f.Name) {
		case "project-id-version":
			parts := strings.Split(value, " ")
			if len(parts) > 1 {
				c.Header.Project = strings.Join(parts[:len(parts)-1], " ")
				c.Header.Version = parts[len(parts)-1]
			} else {
				c.Header.Project = value
			}
		case "report-msgid-bugs-to":
			c.Header.MsgidBugsAddress = value
		case "pot-creation-date":
			if t, err := time.Parse(headerDateLayout, value); err == nil {
				c.Header.CreationDate = t
			}
		case "po-revision-date":
			// the unset placeholder stays unset
			if t, err := time.Parse(headerDateLayout, value); err == nil {
				c.Header.RevisionDate = t
			}
		case "last-translator":
			c.Header.LastTranslator = value
		case "language":
			c.SetLocale(strings.ReplaceAll(value, "-", "_"))
		case "language-team":
			c.Header.LanguageTeam = value
		case "content-type":
			if _, params, err := mime.ParseMediaType(value); err == nil {
				if charset, ok := params["charset"]; ok {
					c.Header.Charset = strings.ToLower(charset)
				}
			}
		case "plural-forms":
			pluralForms = value
		}
	}
	// Applied after the loop: a Language field rebinds the locale and
	// drops cached plural values, so the override must land last.
	if pluralForms != "" {
		nplurals, expr := parsePluralForms(pluralForms)
		c.setPluralForms(nplurals, expr)
	}
}

// parsePluralForms parses "nplurals=N; plural=EXPR". Missing pieces yield
// the default two-form rule values.
func parsePluralForms(value string) (int, string) {
	nplurals := 2
	expr := "(n != 1)"
	for _, part := range strings.Split(value, ";") {
		part = strings.TrimSpace(part)
		switch {
		case strings.HasPrefix(part, "nplurals="):
			if n, err := strconv.Atoi(strings.TrimPrefix(part, "nplurals=")); err == nil && n > 0 {
				nplurals = n
			}
		case strings.HasPrefix(part, "plural="):
			if e := strings.TrimPrefix(part, "plural="); e != "" {
				expr = e
			}
		}
	}
	return nplurals, expr
}

// HeaderMessage synthesizes the empty-id header entry from the current
// metadata. It is the first message yielded when iterating the catalog.
func (c *Catalog) HeaderMessage() *Message {
	var flags []string
	if c.Fuzzy {
		flags = []string{FlagFuzzy}
	}
	return NewMessage(ID{}, []string{FormatHeaderBlock(c.MIMEHeaders())}, Attrs{Flags: flags})
}

// applyHeaderMessage folds an incoming empty-id message into the catalog
// header instead of storing it.
func (c *Catalog) applyHeaderMessage(m *Message) {
	if text := m.Text(); len(text) > 0 {
		c.SetMIMEHeaders(ParseHeaderBlock(text[0]))
	}
	if len(m.UserComments) > 0 {
		lines := make([]string, 0, len(m.UserComments))
		for _, comment := range m.UserComments {
			lines = append(lines, strings.TrimRight("# "+comment, " "))
		}
		c.Header.Comment = strings.Join(lines, "\n")
	}
	c.Fuzzy = m.Fuzzy()
}

// FormatHeaderBlock renders header fields as one "Name: value" line per
// field, the conventional header entry body.
func FormatHeaderBlock(fields []HeaderField) string {
	lines := make([]string, 0, len(fields))
	for _, f := range fields {
		lines = append(lines, f.Name+": "+f.Value)
	}
	return strings.Join(lines, "\n") + "\n"
}

// ParseHeaderBlock parses a header entry body into ordered fields. Indented
// continuation lines extend the previous field's value.
func ParseHeaderBlock(block string) []HeaderField {
	var fields []HeaderField
	for _, line := range strings.Split(block, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if idx := strings.Index(trimmed, ":"); idx > 0 {
			fields = append(fields, HeaderField{
				Name:  strings.TrimSpace(trimmed[:idx]),
				Value: strings.TrimSpace(trimmed[idx+1:]),
			})
		} else if len(fields) > 0 {
			fields[len(fields)-1].Value += "\n" + trimmed
		}
	}
	return fields
}

// HeaderComment renders the catalog's header comment with the upper-case
// placeholder tokens substituted.
func (c *Catalog) HeaderComment() string {
	comment := c.Header.Comment
	if comment == "" {
		comment = DefaultHeaderComment
	}
	year := time.Now().Format("2006")
	if !c.Header.RevisionDate.IsZero() {
		year = c.Header.RevisionDate.Format("2006")
	}
	comment = strings.ReplaceAll(comment, "PROJECT", c.Header.Project)
	comment = strings.ReplaceAll(comment, "VERSION", c.Header.Version)
	comment = strings.ReplaceAll(comment, "YEAR", year)
	comment = strings.ReplaceAll(comment, "ORGANIZATION", c.Header.CopyrightHolder)
	if c.locale != "" {
		comment = strings.ReplaceAll(comment, "Translations template", c.locale+" translations")
	}
	return comment
}

// SetHeaderComment replaces the raw header comment template.
func (c *Catalog) SetHeaderComment(comment string) {
	c.Header.Comment = comment
}

func formatHeaderDate(t time.Time) string {
	if t.IsZero() {
		return unsetDate
	}
	return t.Format(headerDateLayout)
}
