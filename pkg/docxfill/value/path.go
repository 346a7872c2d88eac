package value

import (
	"strconv"
	"strings"
)

// ScalarKey is the reserved path that names a scalar scope itself, which is
// how block bodies refer to the elements of an array of strings or numbers.
const ScalarKey = "value"

// Path is a dotted reference split into segments.
type Path []string

// ParsePath splits key on "." and trims each segment.
func ParsePath(key string) Path {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil
	}
	parts := strings.Split(key, ".")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return Path(parts)
}

func (p Path) String() string { return strings.Join(p, ".") }

// Last returns the final segment, or "" for an empty path.
func (p Path) Last() string {
	if len(p) == 0 {
		return ""
	}
	return p[len(p)-1]
}

// Resolve walks path from scope. Numeric segments index arrays, other
// segments look up object keys; any mismatch yields not found.
func Resolve(scope Value, path Path) (Value, bool) {
	if len(path) == 0 {
		return Value{}, false
	}
	if len(path) == 1 && path[0] == ScalarKey && scope.IsScalar() {
		return scope, true
	}

	current := scope
	for _, seg := range path {
		switch current.kind {
		case KindArray:
			idx, err := strconv.Atoi(seg)
			if err != nil || idx < 0 {
				return Value{}, false
			}
			next, ok := current.Index(idx)
			if !ok {
				return Value{}, false
			}
			current = next
		case KindObject:
			next, ok := current.fields[seg]
			if !ok {
				return Value{}, false
			}
			current = next
		default:
			return Value{}, false
		}
	}
	return current, true
}

// Lookup is Resolve on a dotted key.
func Lookup(scope Value, key string) (Value, bool) {
	return Resolve(scope, ParsePath(key))
}
