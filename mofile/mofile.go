// Package mofile writes and reads the compiled GNU gettext MO form of a
// catalog. The MO form is derived output for fast runtime lookup, never the
// system of record: regenerating it from the same PO content yields the
// same bytes.
package mofile

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/potools/pocat"
)

const leMagic = 0x950412de
const beMagic = 0xde120495

// context and msgid are joined by EOT in MO keys, plural forms by NUL.
const (
	contextSep = "\x04"
	formSep    = "\x00"
)

// Write serializes the catalog in little-endian MO layout: the synthesized
// header entry plus every stored, non-fuzzy message, keyed by msgid bytes
// in sorted order. Fuzzy entries are omitted; they are unreviewed by
// definition and must not reach runtime lookup.
func Write(w io.Writer, c *pocat.Catalog) error {
	type pair struct {
		id  string
		str string
	}
	pairs := []pair{{"", pocat.FormatHeaderBlock(c.MIMEHeaders())}}
	for _, m := range c.Messages() {
		if m.Fuzzy() {
			continue
		}
		id := strings.Join(m.ID().Forms(), formSep)
		if m.Context != "" {
			id = m.Context + contextSep + id
		}
		pairs = append(pairs, pair{id: id, str: strings.Join(m.Text(), formSep)})
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].id < pairs[j].id })

	n := len(pairs)
	var ids, strs bytes.Buffer
	table := make([]uint32, 0, 4*n)
	keystart := 7*4 + 16*n
	// key table first, then value table, each entry (length, offset)
	for _, p := range pairs {
		table = append(table, uint32(len(p.id)), uint32(keystart+ids.Len()))
		ids.WriteString(p.id)
		ids.WriteByte(0)
	}
	valuestart := keystart + ids.Len()
	for _, p := range pairs {
		table = append(table, uint32(len(p.str)), uint32(valuestart+strs.Len()))
		strs.WriteString(p.str)
		strs.WriteByte(0)
	}

	header := []uint32{
		leMagic,
		0,                    // file format revision
		uint32(n),            // number of strings
		7 * 4,                // offset of original-string table
		uint32(7*4 + 8*n),    // offset of translated-string table
		0,                    // hash table size (omitted)
		0,                    // hash table offset
	}
	for _, v := range append(header, table...) {
		if err := binary.Write(w, binary.LittleEndian, v); err != nil {
			return fmt.Errorf("write mo: %w", err)
		}
	}
	if _, err := w.Write(ids.Bytes()); err != nil {
		return fmt.Errorf("write mo: %w", err)
	}
	if _, err := w.Write(strs.Bytes()); err != nil {
		return fmt.Errorf("write mo: %w", err)
	}
	return nil
}

// Read parses an MO stream back into a catalog, primarily for verifying
// compiled output. Comments and source references do not survive the MO
// form; only ids, contexts, translations and the header do.
func Read(r io.Reader) (*pocat.Catalog, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read mo: %w", err)
	}
	if len(data) < 7*4 {
		return nil, fmt.Errorf("read mo: truncated header")
	}
	var order binary.ByteOrder = binary.LittleEndian
	switch order.Uint32(data) {
	case leMagic:
	case beMagic:
		order = binary.BigEndian
	default:
		return nil, fmt.Errorf("read mo: bad magic %#x", order.Uint32(data))
	}
	n := int(order.Uint32(data[8:]))
	origOffset := int(order.Uint32(data[12:]))
	transOffset := int(order.Uint32(data[16:]))
	if n < 0 || origOffset+8*n > len(data) || transOffset+8*n > len(data) {
		return nil, fmt.Errorf("read mo: string tables out of bounds")
	}

	catalog := pocat.NewCatalog(pocat.Config{})
	for i := 0; i < n; i++ {
		id, err := tableString(data, order, origOffset, i)
		if err != nil {
			return nil, err
		}
		str, err := tableString(data, order, transOffset, i)
		if err != nil {
			return nil, err
		}

		context := ""
		if idx := strings.Index(id, contextSep); idx >= 0 {
			context, id = id[:idx], id[idx+1:]
		}
		forms := strings.Split(id, formSep)
		text := strings.Split(str, formSep)

		var mid pocat.ID
		if len(forms) > 1 {
			mid = pocat.PluralID(forms[0], forms[1])
		} else {
			mid = pocat.SingularID(forms[0])
			text = text[:1]
		}
		catalog.Set(pocat.NewMessage(mid, text, pocat.Attrs{Context: context}))
	}
	return catalog, nil
}

func tableString(data []byte, order binary.ByteOrder, tableOffset, idx int) (string, error) {
	strLen := int(order.Uint32(data[tableOffset+8*idx:]))
	strOffset := int(order.Uint32(data[tableOffset+8*idx+4:]))
	if strOffset < 0 || strLen < 0 || strOffset+strLen > len(data) {
		return "", fmt.Errorf("read mo: string %d out of bounds", idx)
	}
	return string(data[strOffset : strOffset+strLen]), nil
}
