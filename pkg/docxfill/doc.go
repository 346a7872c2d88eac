// Package docxfill fills DOCX templates with data.
//
// Templates are ordinary Word documents whose text holds placeholders:
//
//	${name}                  value at a dotted path, e.g. ${customer.address.city}
//	${items.0}               array element by index
//	${birth|date:long}       date string rendered as "15 de maio de 1990"
//	${birth|date:short}      date string rendered as "15/05/1990"
//	${#items}...${/items}    region repeated for every element of an array
//
// Word often splits what the author typed over several runs, for example when
// spell checking or revision tracking touched part of it. Placeholders are
// rebuilt across those runs, and the run boundaries inside a placeholder are
// removed so the value lands in the first run with its formatting. Markup
// without placeholders is copied byte-for-byte.
//
// Inside a block, paths are resolved against the current array element, and
// ${value} names the element itself when it is a string, number or boolean.
// Missing paths, containers and nulls render as empty text.
//
// Basic usage:
//
//	tmpl, err := docxfill.PrepareFile("template.docx")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	data, err := value.ParseJSON(jsonBytes)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	loc, err := docxfill.DefaultEngine.Locale("pt_BR")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	out, err := tmpl.Render(data, loc)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("output.docx", out.Bytes(), 0o644)
//
// RenderMarkup works on a single XML part and is the building block the DOCX
// layer uses for word/document.xml and the header and footer parts.
//
// Configuration is read from DOCXFILL_* environment variables; see Config.
package docxfill
