package pocat

import (
	"strings"

	"github.com/potools/pocat/internal/fuzzy"
)

// FuzzyMatchCutoff is the minimum similarity ratio for a template message
// to inherit the translation of a renamed source string.
const FuzzyMatchCutoff = 0.85

// UpdateOptions control a reconciliation pass. The zero value enables fuzzy
// matching, keeps user comments and leaves the header comment untouched.
type UpdateOptions struct {
	// NoFuzzyMatching disables approximate matching of renamed ids.
	NoFuzzyMatching bool
	// UpdateHeaderComment replaces the header comment with the template's.
	UpdateHeaderComment bool
	// DiscardUserComments drops translator comments instead of carrying
	// them onto merged messages.
	DiscardUserComments bool
}

// Update rebuilds the catalog's main mapping from the template, which is
// the authoritative set of live keys, mining the catalog's previous state
// for translations to carry forward.
//
// Template messages whose key already exists inherit the stored translation
// unchanged. Keys without an exact match are fuzzy-matched against the
// not-yet-consumed previously translated entries; a hit inherits the old
// translation, marked fuzzy, with PreviousID recording the source. Template
// messages without any match are inserted untranslated. Previous entries
// never claimed by either path move to Obsolete; nothing is dropped.
//
// Shape mismatches between a template id and an inherited translation are
// coerced, never fatal: the entry is forced fuzzy so a reviewer sees it.
//
// The pass destructively rebuilds the mapping in place; the catalog must
// not be mutated concurrently.
func (c *Catalog) Update(template *Catalog, opts *UpdateOptions) {
	if opts == nil {
		opts = &UpdateOptions{}
	}
	snapshot := c.messages
	c.messages = newMessageList()
	c.New.clear()
	c.Orphans.clear()

	// Candidate pool for fuzzy matching: previously stored keys that carry
	// a translation, normalized once per pass.
	type candidate struct {
		norm string
		key  Key
	}
	var pool []candidate
	if !opts.NoFuzzyMatching {
		for _, key := range snapshot.Keys() {
			if key.ID == "" || !snapshot.Get(key).Translated() {
				continue
			}
			pool = append(pool, candidate{norm: normalizeMatchText(key.ID), key: key})
		}
	}
	consumed := make(map[Key]bool)

	merge := func(tmplMsg *Message, oldkey, newkey Key) {
		forceFuzzy := false
		clone := tmplMsg.Clone()
		old := snapshot.Get(oldkey)
		consumed[oldkey] = true
		if oldkey != newkey {
			forceFuzzy = true
			clone.PreviousID = old.ID()
		}

		// Carry the old translation across, reconciling plural arity.
		text := append([]string(nil), old.Text()...)
		switch {
		case clone.ID().Pluralizable() && !old.ID().Pluralizable():
			forceFuzzy = true
			text = resizeForms(text, c.NumPlurals())
		case clone.ID().Pluralizable():
			if len(text) != c.NumPlurals() {
				forceFuzzy = true
				text = resizeForms(text, c.NumPlurals())
			}
		case old.ID().Pluralizable():
			forceFuzzy = true
			text = resizeForms(text, 1)
		}
		clone.SetText(text)

		if !opts.DiscardUserComments {
			clone.UserComments = distinctStrings(old.UserComments)
		}
		for flag := range old.flags {
			clone.flags[flag] = struct{}{}
		}
		if forceFuzzy {
			clone.SetFuzzy(true)
		}
		c.Set(clone)
	}

	for _, tmplMsg := range template.Messages() {
		key := KeyFor(tmplMsg.ID(), tmplMsg.Context)
		if snapshot.Get(key) != nil {
			merge(tmplMsg, key, key)
			continue
		}
		if !opts.NoFuzzyMatching {
			open := pool[:0:0]
			norms := make([]string, 0, len(pool))
			for _, cand := range pool {
				if consumed[cand.key] {
					continue
				}
				open = append(open, cand)
				norms = append(norms, cand.norm)
			}
			if idx, ok := fuzzy.Closest(normalizeMatchText(key.ID), norms, FuzzyMatchCutoff); ok {
				merge(tmplMsg, open[idx].key, key)
				continue
			}
		}
		c.Set(tmplMsg.Clone())
	}

	// Everything neither exact-merged nor claimed by a fuzzy match becomes
	// obsolete; entries are moved, never deleted.
	for _, key := range snapshot.Keys() {
		if consumed[key] {
			continue
		}
		old := snapshot.Get(key)
		old.Modified = true
		c.Obsolete.set(key, old)
	}

	if opts.UpdateHeaderComment {
		c.Header.Comment = template.Header.Comment
	}
	// The updated catalog reflects the template it was reconciled against;
	// the revision date stays the catalog's own.
	c.Header.CreationDate = template.Header.CreationDate
	c.Modified = true
}

// resizeForms pads with empty strings or truncates so len(forms) == n.
func resizeForms(forms []string, n int) []string {
	out := make([]string, n)
	copy(out, forms)
	return out
}

func normalizeMatchText(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
