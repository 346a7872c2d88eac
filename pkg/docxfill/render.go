package docxfill

import (
	"github.com/benjaminschreck/go-docxfill/pkg/docxfill/locale"
	"github.com/benjaminschreck/go-docxfill/pkg/docxfill/value"
)

// RenderValue converts a resolved value to the text that replaces a variable.
// Containers, nulls and values that were not found render as "".
func RenderValue(v value.Value, found bool, tok Token, loc locale.Locale) string {
	if !found {
		return ""
	}
	switch v.Kind() {
	case value.KindString:
		s, _ := v.AsString()
		if tok.HasDate {
			return FormatDate(s, tok.DateStyle, loc)
		}
		return s
	case value.KindNumber:
		n, _ := v.AsNumber()
		return n.String()
	case value.KindBool:
		b, _ := v.AsBool()
		return loc.BoolWord(b)
	case value.KindNull, value.KindArray, value.KindObject:
		return ""
	}
	return ""
}
