package locale

import (
	golocale "github.com/jeandeaual/go-locale"
)

// Detect returns the operating system locale, or "" when it cannot be
// determined.
func Detect() string {
	id, err := golocale.GetLocale()
	if err != nil {
		return ""
	}
	return id
}

// DetectFor returns the identifier in table that best matches the operating
// system locale, or FallbackID.
func DetectFor(table *Table) string {
	return table.Select(Detect(), FallbackID)
}
