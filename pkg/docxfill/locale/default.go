package locale

import (
	"sync"
	"time"

	"github.com/go-playground/locales"
	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/pt_BR"
)

var (
	defaultTable     *Table
	defaultTableOnce sync.Once
)

// Default returns the built-in table. Month names come from CLDR data; it
// holds "pt_BR" and "en".
func Default() *Table {
	defaultTableOnce.Do(func() {
		defaultTable = NewTable(map[string]*Entry{
			"pt_BR": cldrEntry(pt_BR.New(), "de", FallbackTrue, FallbackFalse),
			"en":    cldrEntry(en.New(), "of", "True", "False"),
		})
	})
	return defaultTable
}

// DefaultLocale returns the fallback locale backed by the built-in table.
func DefaultLocale() Locale {
	return New(Default(), FallbackID)
}

func cldrEntry(tr locales.Translator, of, yes, no string) *Entry {
	months := make(map[time.Month]string, 12)
	for m := time.January; m <= time.December; m++ {
		months[m] = tr.MonthWide(m)
	}
	return &Entry{
		Months:       months,
		Prepositions: map[string]string{PrepositionOf: of},
		BooleanTrue:  yes,
		BooleanFalse: no,
	}
}
