// Package locale provides the translation table used when rendering dates and
// booleans.
//
// A Table maps locale identifiers such as "pt_BR" or "en-US" to an Entry with
// month names, prepositions and boolean words. Tables are immutable once
// built and may be shared between concurrent renders.
//
//	table, err := locale.LoadFile("translations.json")
//	if err != nil {
//	    return err
//	}
//	loc := locale.New(table, table.Select(locale.Detect(), locale.FallbackID))
//
// Default returns a built-in table for callers that do not ship their own.
package locale

import (
	"sort"
	"strings"
	"time"

	"golang.org/x/text/language"
)

const (
	// FallbackID is used when no better locale is available.
	FallbackID = "pt_BR"
	// FallbackTrue and FallbackFalse render booleans when the table has no words.
	FallbackTrue  = "Verdadeiro"
	FallbackFalse = "Falso"
	// DefaultPreposition joins the parts of a long date when the entry has none.
	DefaultPreposition = "de"
	// PrepositionOf is the preposition key used by long dates.
	PrepositionOf = "of"
)

// Entry holds the words for one locale.
type Entry struct {
	Months       map[time.Month]string
	Prepositions map[string]string
	BooleanTrue  string
	BooleanFalse string
}

// Month returns the name of m.
func (e *Entry) Month(m time.Month) (string, bool) {
	if e == nil {
		return "", false
	}
	name, ok := e.Months[m]
	return name, ok && name != ""
}

// Preposition returns the preposition stored under key.
func (e *Entry) Preposition(key string) (string, bool) {
	if e == nil {
		return "", false
	}
	p, ok := e.Prepositions[key]
	return p, ok && p != ""
}

// BoolWord returns the word for b.
func (e *Entry) BoolWord(b bool) (string, bool) {
	if e == nil {
		return "", false
	}
	if b {
		return e.BooleanTrue, e.BooleanTrue != ""
	}
	return e.BooleanFalse, e.BooleanFalse != ""
}

// Table is a read-only set of entries keyed by locale identifier.
type Table struct {
	entries    map[string]*Entry
	normalized map[string]string
	ids        []string
	matcher    language.Matcher
}

// NewTable builds a table from entries. The map is copied.
func NewTable(entries map[string]*Entry) *Table {
	t := &Table{
		entries:    make(map[string]*Entry, len(entries)),
		normalized: make(map[string]string, len(entries)),
	}
	for id, e := range entries {
		t.entries[id] = e
		t.normalized[normalizeID(id)] = id
		t.ids = append(t.ids, id)
	}
	sort.Strings(t.ids)

	var tags []language.Tag
	for _, id := range t.ids {
		tag, err := language.Parse(strings.ReplaceAll(id, "_", "-"))
		if err != nil {
			tag = language.Und
		}
		tags = append(tags, tag)
	}
	if len(tags) > 0 {
		t.matcher = language.NewMatcher(tags)
	}
	return t
}

// IDs returns the locale identifiers in sorted order.
func (t *Table) IDs() []string {
	if t == nil {
		return nil
	}
	return append([]string(nil), t.ids...)
}

// Len returns the number of entries.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

// Lookup returns the entry for id, ignoring case and the "-"/"_" separator.
func (t *Table) Lookup(id string) (*Entry, bool) {
	if t == nil {
		return nil, false
	}
	if e, ok := t.entries[id]; ok {
		return e, true
	}
	if key, ok := t.normalized[normalizeID(id)]; ok {
		return t.entries[key], true
	}
	return nil, false
}

// Select returns the identifier of the entry that best serves id. A close
// language match ("pt" for a table holding "pt_BR") is accepted; when
// nothing matches, fallback is returned.
func (t *Table) Select(id, fallback string) string {
	if t == nil || id == "" {
		return fallback
	}
	if _, ok := t.entries[id]; ok {
		return id
	}
	if key, ok := t.normalized[normalizeID(id)]; ok {
		return key
	}
	if t.matcher == nil {
		return fallback
	}
	tag, err := language.Parse(strings.ReplaceAll(id, "_", "-"))
	if err != nil {
		return fallback
	}
	_, idx, conf := t.matcher.Match(tag)
	if conf < language.High || idx < 0 || idx >= len(t.ids) {
		return fallback
	}
	return t.ids[idx]
}

func normalizeID(id string) string {
	id = strings.TrimSpace(id)
	// Strip encoding and modifier suffixes such as "pt_BR.UTF-8@euro".
	if i := strings.IndexAny(id, ".@"); i >= 0 {
		id = id[:i]
	}
	return strings.ToLower(strings.ReplaceAll(id, "_", "-"))
}

// Locale pairs a table with the active identifier. The zero Locale has no
// entries and renders with the built-in fallback words.
type Locale struct {
	Table *Table
	ID    string
}

// New returns a Locale for id backed by table.
func New(table *Table, id string) Locale {
	return Locale{Table: table, ID: id}
}

// Entry returns the entry for the active identifier.
func (l Locale) Entry() (*Entry, bool) {
	return l.Table.Lookup(l.ID)
}

// BoolWord returns the word for b, falling back to the built-in pair.
func (l Locale) BoolWord(b bool) string {
	entry, _ := l.Entry()
	if w, ok := entry.BoolWord(b); ok {
		return w
	}
	if b {
		return FallbackTrue
	}
	return FallbackFalse
}
