package docxfill

import (
	"fmt"
	"strings"
	"time"

	"github.com/benjaminschreck/go-docxfill/pkg/docxfill/locale"
)

// Date styles understood by the date filter. Unknown styles render as
// DateShort.
const (
	DateShort = "short"
	DateLong  = "long"
)

// dateLayouts are tried in order. Month and day accept one or two digits.
var dateLayouts = []string{
	"2006-1-2",
	"2006/1/2",
	"2-1-2006",
	"2/1/2006",
}

// ParseDate parses s with the first layout that accepts it.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatDate renders the date in s with style. Strings that are not dates are
// returned unchanged.
func FormatDate(s, style string, loc locale.Locale) string {
	t, ok := ParseDate(s)
	if !ok {
		return s
	}
	if style == DateLong {
		if long, ok := formatLongDate(t, loc); ok {
			return long
		}
	}
	return t.Format("02/01/2006")
}

func formatLongDate(t time.Time, loc locale.Locale) (string, bool) {
	entry, _ := loc.Entry()
	month, ok := entry.Month(t.Month())
	if !ok {
		return "", false
	}
	of, ok := entry.Preposition(locale.PrepositionOf)
	if !ok {
		of = locale.DefaultPreposition
	}
	return fmt.Sprintf("%d %s %s %s %d", t.Day(), of, month, of, t.Year()), true
}
