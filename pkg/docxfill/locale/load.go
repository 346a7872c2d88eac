package locale

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
)

// LoadError reports a translation table that could not be read or decoded.
type LoadError struct {
	Path  string
	Cause error
}

func (e *LoadError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("locale table error in '%s': %v", e.Path, e.Cause)
	}
	return fmt.Sprintf("locale table error: %v", e.Cause)
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}

// fileEntry is the on-disk shape of one locale:
//
//	{"pt_BR": {"months": {"1": "janeiro"}, "prepositions": {"of": "de"},
//	           "boolean": {"true": "Verdadeiro", "false": "Falso"}}}
type fileEntry struct {
	Months       map[string]string `yaml:"months"`
	Prepositions map[string]string `yaml:"prepositions"`
	Boolean      struct {
		True  string `yaml:"true"`
		False string `yaml:"false"`
	} `yaml:"boolean"`
}

// LoadFile reads a JSON or YAML translation table from path.
func LoadFile(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Cause: err}
	}
	table, err := Parse(data)
	if err != nil {
		return nil, &LoadError{Path: path, Cause: err}
	}
	return table, nil
}

// Load reads a JSON or YAML translation table from r.
func Load(r io.Reader) (*Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &LoadError{Cause: err}
	}
	table, err := Parse(data)
	if err != nil {
		return nil, &LoadError{Cause: err}
	}
	return table, nil
}

// Parse decodes a translation table. JSON is valid YAML, so one decoder
// serves both formats.
func Parse(data []byte) (*Table, error) {
	var raw map[string]fileEntry
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode translations: %w", err)
	}

	entries := make(map[string]*Entry, len(raw))
	for id, fe := range raw {
		entry := &Entry{
			Months:       make(map[time.Month]string, len(fe.Months)),
			Prepositions: make(map[string]string, len(fe.Prepositions)),
			BooleanTrue:  fe.Boolean.True,
			BooleanFalse: fe.Boolean.False,
		}
		for key, name := range fe.Months {
			m, ok := parseMonthKey(key)
			if !ok {
				return nil, fmt.Errorf("locale %s: invalid month key %q", id, key)
			}
			entry.Months[m] = name
		}
		for key, word := range fe.Prepositions {
			entry.Prepositions[key] = word
		}
		entries[id] = entry
	}
	return NewTable(entries), nil
}

// parseMonthKey accepts "1".."12" and English month names.
func parseMonthKey(key string) (time.Month, bool) {
	key = strings.TrimSpace(key)
	if n, err := strconv.Atoi(key); err == nil {
		if n < 1 || n > 12 {
			return 0, false
		}
		return time.Month(n), true
	}
	for m := time.January; m <= time.December; m++ {
		if strings.EqualFold(m.String(), key) {
			return m, true
		}
	}
	return 0, false
}
