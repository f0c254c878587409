// Package pofile reads and writes catalogs in the GNU gettext PO/POT text
// format. The text form is the system of record; the binary form produced
// by package mofile is always derived from it.
package pofile

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/potools/pocat"
)

// entry is one block of a PO file as parsed, before folding into a catalog.
type entry struct {
	userComments []string
	autoComments []string
	references   []string
	flags        []string
	prevID       string
	prevIDPlural string

	context      string
	msgid        string
	msgidPlural  string
	hasPlural    bool
	msgstr       string
	msgstrPlural map[int]string

	obsolete     bool
	hasStatement bool
	lineno       int
}

// Read parses a PO or POT stream into a catalog. Obsolete entries (#~) are
// collected into the catalog's obsolete bucket; the header entry is folded
// into the catalog metadata.
func Read(r io.Reader) (*pocat.Catalog, error) {
	catalog := pocat.NewCatalog(pocat.Config{})

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var current *entry
	lastField := ""
	lineno := 0

	flush := func() {
		if current == nil {
			return
		}
		// A block of comments with no msgid, common at EOF, is not an
		// entry and must not masquerade as the header.
		if current.hasStatement {
			fold(catalog, current)
		}
		current = nil
		lastField = ""
	}

	for scanner.Scan() {
		lineno++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		if current == nil {
			current = &entry{msgstrPlural: make(map[int]string)}
		}

		if strings.HasPrefix(line, "#~ ") {
			current.obsolete = true
			line = line[3:]
		}

		if strings.HasPrefix(line, "#") {
			parseComment(current, line)
			continue
		}
		if err := parseStatement(current, line, lineno, &lastField); err != nil {
			return nil, err
		}
	}
	flush()

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read po: %w", err)
	}
	return catalog, nil
}

// ReadFile parses a PO file from disk and records its path on the catalog.
func ReadFile(path string) (*pocat.Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	catalog, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	catalog.Filename = path
	return catalog, nil
}

func parseComment(e *entry, line string) {
	switch {
	case strings.HasPrefix(line, "#:"):
		e.references = append(e.references, strings.Fields(line[2:])...)
	case strings.HasPrefix(line, "#,"):
		for _, flag := range strings.Split(line[2:], ",") {
			if flag = strings.TrimSpace(flag); flag != "" {
				e.flags = append(e.flags, flag)
			}
		}
	case strings.HasPrefix(line, "#."):
		e.autoComments = append(e.autoComments, strings.TrimSpace(line[2:]))
	case strings.HasPrefix(line, "#|"):
		prev := strings.TrimSpace(line[2:])
		switch {
		case strings.HasPrefix(prev, "msgid_plural "):
			e.prevIDPlural = unquote(strings.TrimPrefix(prev, "msgid_plural "))
		case strings.HasPrefix(prev, "msgid "):
			e.prevID = unquote(strings.TrimPrefix(prev, "msgid "))
		}
	case strings.HasPrefix(line, "#~"):
		// bare obsolete marker without payload
		e.obsolete = true
	default:
		comment := strings.TrimPrefix(line, "#")
		comment = strings.TrimPrefix(comment, " ")
		e.userComments = append(e.userComments, comment)
	}
}

func parseStatement(e *entry, line string, lineno int, lastField *string) error {
	e.hasStatement = true
	switch {
	case strings.HasPrefix(line, "msgctxt "):
		e.context = unquote(strings.TrimPrefix(line, "msgctxt "))
		*lastField = "msgctxt"
	case strings.HasPrefix(line, "msgid_plural "):
		e.msgidPlural = unquote(strings.TrimPrefix(line, "msgid_plural "))
		e.hasPlural = true
		*lastField = "msgid_plural"
	case strings.HasPrefix(line, "msgid "):
		e.msgid = unquote(strings.TrimPrefix(line, "msgid "))
		e.lineno = lineno
		*lastField = "msgid"
	case strings.HasPrefix(line, "msgstr["):
		end := strings.Index(line, "]")
		if end < 0 {
			return fmt.Errorf("read po: line %d: malformed plural msgstr", lineno)
		}
		idx, err := strconv.Atoi(line[len("msgstr["):end])
		if err != nil || idx < 0 {
			return fmt.Errorf("read po: line %d: malformed plural msgstr index", lineno)
		}
		e.msgstrPlural[idx] = unquote(line[end+1:])
		*lastField = "msgstr[" + strconv.Itoa(idx) + "]"
	case strings.HasPrefix(line, "msgstr "):
		e.msgstr = unquote(strings.TrimPrefix(line, "msgstr "))
		*lastField = "msgstr"
	case strings.HasPrefix(line, `"`):
		val := unquote(line)
		switch {
		case *lastField == "msgctxt":
			e.context += val
		case *lastField == "msgid":
			e.msgid += val
		case *lastField == "msgid_plural":
			e.msgidPlural += val
		case *lastField == "msgstr":
			e.msgstr += val
		case strings.HasPrefix(*lastField, "msgstr["):
			var idx int
			fmt.Sscanf(*lastField, "msgstr[%d]", &idx)
			e.msgstrPlural[idx] += val
		}
	default:
		return fmt.Errorf("read po: line %d: unexpected input %q", lineno, line)
	}
	return nil
}

// fold turns a parsed entry into a message and stores it on the catalog.
func fold(catalog *pocat.Catalog, e *entry) {
	var id pocat.ID
	var text []string
	if e.hasPlural {
		id = pocat.PluralID(e.msgid, e.msgidPlural)
		max := -1
		for idx := range e.msgstrPlural {
			if idx > max {
				max = idx
			}
		}
		if max < 1 {
			max = 1
		}
		text = make([]string, max+1)
		for idx, form := range e.msgstrPlural {
			text[idx] = form
		}
	} else {
		id = pocat.SingularID(e.msgid)
		text = []string{e.msgstr}
	}

	var prev pocat.ID
	switch {
	case e.prevID != "" && e.prevIDPlural != "":
		prev = pocat.PluralID(e.prevID, e.prevIDPlural)
	case e.prevID != "":
		prev = pocat.SingularID(e.prevID)
	}

	m := pocat.NewMessage(id, text, pocat.Attrs{
		Locations:    parseReferences(e.references),
		Flags:        e.flags,
		AutoComments: e.autoComments,
		UserComments: e.userComments,
		PreviousID:   prev,
		Lineno:       e.lineno,
		Context:      e.context,
	})
	if e.obsolete {
		if !id.Empty() {
			catalog.AddObsolete(m)
		}
		return
	}
	catalog.Set(m)
}

// parseReferences parses "file:line" occurrences; the last colon separates
// the line number so paths containing colons survive.
func parseReferences(refs []string) []pocat.Location {
	var out []pocat.Location
	for _, ref := range refs {
		idx := strings.LastIndex(ref, ":")
		if idx <= 0 {
			out = append(out, pocat.Location{File: ref})
			continue
		}
		line, err := strconv.Atoi(ref[idx+1:])
		if err != nil {
			out = append(out, pocat.Location{File: ref})
			continue
		}
		out = append(out, pocat.Location{File: ref[:idx], Line: line})
	}
	return out
}

func unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return s
	}
	if u, err := strconv.Unquote(s); err == nil {
		return u
	}
	return s[1 : len(s)-1]
}

// Write serializes a catalog in PO layout: the rendered header comment, the
// header entry, every stored message in insertion order, then the obsolete
// entries prefixed with #~.
func Write(w io.Writer, c *pocat.Catalog) error {
	bw := bufio.NewWriter(w)

	for _, line := range strings.Split(c.HeaderComment(), "\n") {
		fmt.Fprintln(bw, line)
	}
	if c.Fuzzy {
		fmt.Fprintln(bw, "#, fuzzy")
	}
	fmt.Fprintln(bw, "msgid \"\"")
	writeField(bw, "msgstr", pocat.FormatHeaderBlock(c.MIMEHeaders()))

	for _, m := range c.Messages() {
		fmt.Fprintln(bw)
		writeMessage(bw, c, m, false)
	}
	for _, m := range c.Obsolete.Messages() {
		fmt.Fprintln(bw)
		writeMessage(bw, c, m, true)
	}
	return bw.Flush()
}

// WriteFile serializes the catalog to its bound filename, or to path when
// given.
func WriteFile(path string, c *pocat.Catalog) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Write(f, c); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	return f.Close()
}

func writeMessage(w io.Writer, c *pocat.Catalog, m *pocat.Message, obsolete bool) {
	for _, comment := range m.UserComments {
		fmt.Fprintf(w, "# %s\n", comment)
	}
	for _, comment := range m.AutoComments {
		fmt.Fprintf(w, "#. %s\n", comment)
	}
	writeLocations(w, m.Locations)
	if flags := m.Flags(); len(flags) > 0 {
		fmt.Fprintf(w, "#, %s\n", strings.Join(flags, ", "))
	}
	if prev := m.PreviousID; !prev.Empty() {
		fmt.Fprintf(w, "#| msgid %s\n", quote(prev.Singular()))
		if prev.Pluralizable() {
			fmt.Fprintf(w, "#| msgid_plural %s\n", quote(prev.Plural()))
		}
	}

	prefix := ""
	if obsolete {
		prefix = "#~ "
	}
	if m.Context != "" {
		writePrefixedField(w, prefix, "msgctxt", m.Context)
	}
	id := m.ID()
	writePrefixedField(w, prefix, "msgid", id.Singular())
	text := m.Text()
	if id.Pluralizable() {
		writePrefixedField(w, prefix, "msgid_plural", id.Plural())
		forms := c.NumPlurals()
		if len(text) > forms {
			forms = len(text)
		}
		for i := 0; i < forms; i++ {
			form := ""
			if i < len(text) {
				form = text[i]
			}
			writePrefixedField(w, prefix, fmt.Sprintf("msgstr[%d]", i), form)
		}
		return
	}
	form := ""
	if len(text) > 0 {
		form = text[0]
	}
	writePrefixedField(w, prefix, "msgstr", form)
}

// writeLocations renders "#:" reference lines, wrapped near 76 columns.
func writeLocations(w io.Writer, locations []pocat.Location) {
	line := ""
	flush := func() {
		if line != "" {
			fmt.Fprintf(w, "#:%s\n", line)
			line = ""
		}
	}
	for _, loc := range locations {
		ref := fmt.Sprintf("%s:%d", loc.File, loc.Line)
		if len(line)+len(ref)+1 > 74 {
			flush()
		}
		line += " " + ref
	}
	flush()
}

func writeField(w io.Writer, keyword, value string) {
	writePrefixedField(w, "", keyword, value)
}

func writePrefixedField(w io.Writer, prefix, keyword, value string) {
	quoted := quote(value)
	for i, line := range strings.Split(quoted, "\n") {
		if i == 0 {
			fmt.Fprintf(w, "%s%s %s\n", prefix, keyword, line)
		} else {
			fmt.Fprintf(w, "%s%s\n", prefix, line)
		}
	}
}

// quote renders a string in PO quoting: a single quoted line, or an empty
// leader followed by one quoted line per source line when the value embeds
// newlines.
func quote(s string) string {
	if s == "" {
		return `""`
	}
	var quoted []string
	for _, line := range strings.SplitAfter(s, "\n") {
		if line == "" {
			continue
		}
		quoted = append(quoted, strconv.Quote(line))
	}
	if len(quoted) == 1 {
		return quoted[0]
	}
	return strings.Join(append([]string{`""`}, quoted...), "\n")
}
